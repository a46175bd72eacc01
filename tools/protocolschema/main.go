package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"maneuver-server/pkg/api"
)

// protocolDocument собирает все сообщения протокола в одну схему
type protocolDocument struct {
	Inbound      api.InboundMessage      `json:"inbound"`
	Cartographer api.CartographerRequest `json:"cartographer"`
	AutoScene    api.AutoSceneResponse   `json:"autoSceneResponse"`
	SaveScene    api.SaveSceneResponse   `json:"saveSceneResponse"`
	LoadScene    api.LoadSceneResponse   `json:"loadSceneResponse"`
	Status       api.StatusResponse      `json:"statusResponse"`
}

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "", "path to write the JSON schema")
	flag.Parse()

	if outPath == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	if err := writeSchema(outPath, buildSchema()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
		os.Exit(1)
	}
}

func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(protocolDocument))
	schema.Title = "Maneuver scene server protocol"
	schema.Description = "WebSocket messages exchanged on /ws"
	return schema
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}
	return os.Rename(tmpPath, outPath)
}
