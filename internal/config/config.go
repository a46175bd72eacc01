package config

import (
	"fmt"
	"os"
	"time"

	"maneuver-server/pkg/scene"

	"gopkg.in/yaml.v3"
)

// Config хранит параметры запуска сервера
type Config struct {
	Port string `yaml:"port"`

	// DataDir - корень файлового хранилища, по подкаталогу на коллекцию
	DataDir string `yaml:"data_dir"`

	// Seed - мастер-зерно. От него зависят генераторы всех соединений.
	// 0 значит сгенерировать случайно.
	Seed int64 `yaml:"seed"`

	Storage   StorageConfig   `yaml:"storage"`
	Placement PlacementConfig `yaml:"placement"`
}

// StorageConfig выбирает бэкенд хранилища
type StorageConfig struct {
	Driver string `yaml:"driver"` // fs | postgres
	DSN    string `yaml:"dsn"`
}

// PlacementConfig - лимиты генератора сцен
type PlacementConfig struct {
	MaxAttemptsPerCell int `yaml:"max_attempts_per_cell"`

	// MaxDimension - наибольшая сторона карты, которую может запросить клиент
	MaxDimension int `yaml:"max_dimension"`
}

// Default создает конфиг по умолчанию
func Default() Config {
	return Config{
		Port:    "8000",
		DataDir: "data",
		Storage: StorageConfig{Driver: "fs"},
		Placement: PlacementConfig{
			MaxAttemptsPerCell: scene.DefaultAttemptsPerCell,
			MaxDimension:       256,
		},
	}
}

// Load собирает конфиг: значения по умолчанию, затем YAML-файл (если path не пуст),
// затем переменные окружения.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("MG_PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("MG_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("MG_STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("MG_DB_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
}

// Validate проверяет, что конфиг можно запускать
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	switch c.Storage.Driver {
	case "fs":
		if c.DataDir == "" {
			return fmt.Errorf("data_dir is required for fs storage")
		}
	case "postgres":
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for postgres storage")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Placement.MaxAttemptsPerCell < 1 {
		return fmt.Errorf("placement.max_attempts_per_cell must be positive")
	}
	if c.Placement.MaxDimension < 1 || c.Placement.MaxDimension > scene.MaxDimension {
		return fmt.Errorf("placement.max_dimension must be in [1, %d]", scene.MaxDimension)
	}
	return nil
}

// ResolveSeed возвращает мастер-зерно, подставляя случайное вместо 0
func (c Config) ResolveSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
