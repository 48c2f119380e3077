package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"peleadepeluches/client/internal/net/proto"
)

// Generates a JSON schema for the authority wire protocol so the server
// team can validate payloads against the client's expectations.
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

type protocolMessages struct {
	PlayerJoined      proto.PlayerJoined      `json:"player-joined"`
	PlayerLeft        proto.PlayerLeft        `json:"player-left"`
	GameStarted       proto.GameStarted       `json:"game-started"`
	GameReset         proto.GameReset         `json:"game-reset"`
	RoundStarting     proto.RoundStarting     `json:"round-starting"`
	PlayerInputUpdate proto.PlayerInputUpdate `json:"player-input-update"`
	GameState         proto.GameState         `json:"game-state"`
	AttackStarted     proto.AttackStarted     `json:"attack-started"`
	AttackHit         proto.AttackHit         `json:"attack-hit"`
	PlayerKO          proto.PlayerKO          `json:"player-ko"`
	PlayerBlockState  proto.PlayerBlockState  `json:"player-block-state"`
	PlayerTaunting    proto.PlayerTaunting    `json:"player-taunting"`
	GameOver          proto.GameOver          `json:"game-over"`
	PlayerAttack      proto.PlayerAttack      `json:"player-attack"`
	PlayerBlock       proto.PlayerBlock       `json:"player-block"`
	PlayerTaunt       proto.PlayerTaunt       `json:"player-taunt"`
}

func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(protocolMessages))
	schema.Title = "Pelea de Peluches Wire Protocol"
	schema.Description = fmt.Sprintf("Message shapes for protocol version %d", proto.Version)
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
