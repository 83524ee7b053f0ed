// Command protoschema writes the JSON Schema of inbound server messages.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"daemon-hunt/internal/protocol"
)

// envelope carries the discriminator shared by every inbound message
type envelope struct {
	Type string `json:"type" jsonschema:"enum=game_initialized,enum=player_connected,enum=update,enum=move,enum=attack,enum=prepare_to_battle"`
}

var messages = []struct {
	kind protocol.Kind
	v    any
}{
	{protocol.KindGameInitialized, new(protocol.GameInitialized)},
	{protocol.KindPlayerConnected, new(protocol.PlayerConnected)},
	{protocol.KindUpdate, new(protocol.Update)},
	{protocol.KindMove, new(protocol.Move)},
	{protocol.KindAttack, new(protocol.Attack)},
	{protocol.KindPrepareToBattle, new(protocol.PrepareToBattle)},
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
		DoNotReference:            true,
	}

	variants := make([]*jsonschema.Schema, 0, len(messages))
	for _, m := range messages {
		s := reflector.Reflect(m.v)
		s.Version = ""
		s.Title = m.kind.String()
		variants = append(variants, s)
	}

	env := reflector.Reflect(new(envelope))
	env.Version = ""

	return &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "Daemon Hunt server messages",
		Description: "Inbound frames; actions embedded in update use the same shapes.",
		AllOf: []*jsonschema.Schema{
			env,
			{OneOf: variants},
		},
	}
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
