package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "8000" || cfg.Storage.Driver != "fs" || cfg.DataDir != "data" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Placement.MaxDimension != 256 {
		t.Errorf("Placement.MaxDimension = %d, want 256", cfg.Placement.MaxDimension)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	body := []byte(`
port: "9100"
data_dir: /tmp/mg
seed: 77
placement:
  max_attempts_per_cell: 50
  max_dimension: 32
`)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}

	// Окружение перекрывает файл
	t.Setenv("MG_PORT", "9200")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "9200" {
		t.Errorf("Port = %q, want env override 9200", cfg.Port)
	}
	if cfg.DataDir != "/tmp/mg" || cfg.Seed != 77 ||
		cfg.Placement.MaxAttemptsPerCell != 50 || cfg.Placement.MaxDimension != 32 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.ResolveSeed() != 77 {
		t.Errorf("ResolveSeed() = %d, want 77", cfg.ResolveSeed())
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"postgres without dsn", "storage:\n  driver: postgres\n"},
		{"unknown driver", "storage:\n  driver: s3\n"},
		{"zero attempts", "placement:\n  max_attempts_per_cell: 0\n"},
		{"zero dimension", "placement:\n  max_dimension: 0\n"},
		{"dimension above hard limit", "placement:\n  max_dimension: 4096\n"},
		{"broken yaml", "port: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() expected error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() expected error for missing file")
	}
}
