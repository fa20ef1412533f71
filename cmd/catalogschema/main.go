package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"skillhit/internal/catalog"
)

func main() {
	var catalogOut, scenarioOut string
	flag.StringVar(&catalogOut, "out", "", "path to write the skill catalog JSON schema")
	flag.StringVar(&scenarioOut, "scenario-out", "", "optional path to write the scenario JSON schema")
	flag.Parse()

	if catalogOut == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	if err := writeSchema(catalogOut, catalogSchema()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write catalog schema: %v\n", err)
		os.Exit(1)
	}
	if scenarioOut != "" {
		if err := writeSchema(scenarioOut, scenarioSchema()); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write scenario schema: %v\n", err)
			os.Exit(1)
		}
	}
}

func reflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
}

func catalogSchema() *jsonschema.Schema {
	schema := reflector().Reflect(new(catalog.File))
	schema.Title = "Skill Catalog"
	schema.Description = "Area and projectile skills loaded by hitsim from config/skills.yaml"
	return schema
}

func scenarioSchema() *jsonschema.Schema {
	schema := reflector().Reflect(new(catalog.Scenario))
	schema.Title = "Hit Scenario"
	schema.Description = "Actors, casts and scripted actions played by hitsim"
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

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}

	return nil
}
