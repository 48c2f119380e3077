package proto

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Version tracks the wire-protocol revision expected by the authority.
const Version = 1

// Inbound message type identifiers.
const (
	TypePlayerJoined      = "player-joined"
	TypePlayerLeft        = "player-left"
	TypeGameStarted       = "game-started"
	TypeGameReset         = "game-reset"
	TypeRoundStarting     = "round-starting"
	TypePlayerInputUpdate = "player-input-update"
	TypeGameState         = "game-state"
	TypeAttackStarted     = "attack-started"
	TypeAttackHit         = "attack-hit"
	TypePlayerKO          = "player-ko"
	TypePlayerBlockState  = "player-block-state"
	TypePlayerTaunting    = "player-taunting"
	TypeGameOver          = "game-over"
)

// Outbound message type identifiers.
const (
	TypePlayerAttack = "player-attack"
	TypePlayerBlock  = "player-block"
	TypePlayerTaunt  = "player-taunt"
)

// Vec2 is a planar vector payload.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec3 is a spatial vector payload.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// InputFlags mirrors the per-tick button snapshot on the wire.
type InputFlags struct {
	Left  bool `json:"left"`
	Right bool `json:"right"`
	Jump  bool `json:"jump"`
	Punch bool `json:"punch"`
	Kick  bool `json:"kick"`
	Run   bool `json:"run"`
	Block bool `json:"block"`
}

// PlayerInfo describes a roster member in join and start messages.
type PlayerInfo struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Color  string `json:"color"`
	Slot   int    `json:"slot"`
}

// CharacterSnapshot carries a partial authoritative state for one
// character. Nil fields were absent from the payload and must leave local
// state untouched; present fields overwrite verbatim.
type CharacterSnapshot struct {
	ID       string      `json:"id"`
	Position *Vec3       `json:"position,omitempty"`
	Velocity *Vec3       `json:"velocity,omitempty"`
	Health   *float64    `json:"health,omitempty"`
	Stocks   *int        `json:"stocks,omitempty"`
	Grounded *bool       `json:"grounded,omitempty"`
	Facing   *string     `json:"facing,omitempty"`
	Input    *InputFlags `json:"input,omitempty"`
}

// PlayerJoined announces a new roster member.
type PlayerJoined struct {
	Type   string     `json:"type"`
	Player PlayerInfo `json:"player"`
}

// PlayerLeft announces a departure.
type PlayerLeft struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
}

// GameStarted carries the full starting roster.
type GameStarted struct {
	Type    string       `json:"type"`
	Players []PlayerInfo `json:"players"`
}

// GameReset tears the match state down to its initial configuration.
type GameReset struct {
	Type string `json:"type"`
}

// RoundStarting begins a fresh round for the current roster.
type RoundStarting struct {
	Type  string `json:"type"`
	Round int    `json:"round"`
}

// PlayerInputUpdate echoes a remote character's buttons.
type PlayerInputUpdate struct {
	Type     string     `json:"type"`
	PlayerID string     `json:"playerId"`
	Input    InputFlags `json:"input"`
}

// GameState is the periodic continuous snapshot.
type GameState struct {
	Type    string              `json:"type"`
	Players []CharacterSnapshot `json:"players"`
}

// AttackStarted is phase one of the attack protocol: the swing begins
// immediately, before any hit outcome is known.
type AttackStarted struct {
	Type       string `json:"type"`
	AttackerID string `json:"attackerId"`
	AttackType string `json:"attackType"`
}

// AttackOutcome is one resolved target within an AttackHit message.
type AttackOutcome struct {
	TargetID  string  `json:"targetId"`
	NewHealth float64 `json:"newHealth"`
	Damage    float64 `json:"damage"`
	Blocked   bool    `json:"blocked"`
	Knockback Vec2    `json:"knockback"`
}

// AttackHit is phase two: the authoritative damage resolution.
type AttackHit struct {
	Type       string          `json:"type"`
	AttackerID string          `json:"attackerId"`
	Hits       []AttackOutcome `json:"hits"`
}

// PlayerKOEntry carries one character's remaining stocks after a knockout.
type PlayerKOEntry struct {
	PlayerID        string `json:"playerId"`
	StocksRemaining int    `json:"stocksRemaining"`
	Eliminated      bool   `json:"eliminated"`
}

// PlayerKO announces knockouts and eliminations.
type PlayerKO struct {
	Type string          `json:"type"`
	KOs  []PlayerKOEntry `json:"kos"`
}

// PlayerBlockState forces a character's block flag.
type PlayerBlockState struct {
	Type       string `json:"type"`
	PlayerID   string `json:"playerId"`
	IsBlocking bool   `json:"isBlocking"`
}

// PlayerTaunting announces a taunt on any character.
type PlayerTaunting struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
}

// GameOver ends the match, optionally naming a winner.
type GameOver struct {
	Type   string  `json:"type"`
	Winner *string `json:"winner,omitempty"`
}

// PlayerAttack is the outbound attack intent.
type PlayerAttack struct {
	Type       string `json:"type"`
	AttackType string `json:"attackType"`
}

// PlayerBlock is the outbound block intent.
type PlayerBlock struct {
	Type       string `json:"type"`
	IsBlocking bool   `json:"isBlocking"`
}

// PlayerTaunt is the outbound taunt intent.
type PlayerTaunt struct {
	Type string `json:"type"`
}

// ErrUnknownType reports an envelope whose type identifier is not part of
// the protocol. Callers log and ignore these.
type ErrUnknownType struct {
	Type string
}

func (e ErrUnknownType) Error() string {
	return fmt.Sprintf("unknown message type %q", e.Type)
}

// DecodeMessage sniffs the envelope's type field and unmarshals the typed
// payload. Malformed payloads and unknown types come back as errors; the
// caller treats both as diagnostics, never as fatal conditions.
func DecodeMessage(data []byte) (any, error) {
	kind := gjson.GetBytes(data, "type")
	if !kind.Exists() {
		return nil, fmt.Errorf("message missing type field")
	}

	var msg any
	switch kind.String() {
	case TypePlayerJoined:
		msg = &PlayerJoined{}
	case TypePlayerLeft:
		msg = &PlayerLeft{}
	case TypeGameStarted:
		msg = &GameStarted{}
	case TypeGameReset:
		msg = &GameReset{}
	case TypeRoundStarting:
		msg = &RoundStarting{}
	case TypePlayerInputUpdate:
		msg = &PlayerInputUpdate{}
	case TypeGameState:
		msg = &GameState{}
	case TypeAttackStarted:
		msg = &AttackStarted{}
	case TypeAttackHit:
		msg = &AttackHit{}
	case TypePlayerKO:
		msg = &PlayerKO{}
	case TypePlayerBlockState:
		msg = &PlayerBlockState{}
	case TypePlayerTaunting:
		msg = &PlayerTaunting{}
	case TypeGameOver:
		msg = &GameOver{}
	default:
		return nil, ErrUnknownType{Type: kind.String()}
	}

	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind.String(), err)
	}
	return msg, nil
}
