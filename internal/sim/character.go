package sim

import "math"

// Facing identifies the horizontal direction a character looks toward.
type Facing string

const (
	FacingRight Facing = "right"
	FacingLeft  Facing = "left"

	defaultFacing Facing = FacingRight
)

// ParseFacing validates a facing string received from the authority.
func ParseFacing(value string) (Facing, bool) {
	switch Facing(value) {
	case FacingRight, FacingLeft:
		return Facing(value), true
	default:
		return "", false
	}
}

// Input is the per-tick button snapshot for one character, produced locally
// or echoed by the authority.
type Input struct {
	Left  bool `json:"left"`
	Right bool `json:"right"`
	Jump  bool `json:"jump"`
	Punch bool `json:"punch"`
	Kick  bool `json:"kick"`
	Run   bool `json:"run"`
	Block bool `json:"block"`
}

// AttackKind distinguishes the two attack moves.
type AttackKind string

const (
	AttackPunch AttackKind = "punch"
	AttackKick  AttackKind = "kick"
)

// ParseAttackKind validates an attack type string received from the authority.
func ParseAttackKind(value string) (AttackKind, bool) {
	switch AttackKind(value) {
	case AttackPunch, AttackKick:
		return AttackKind(value), true
	default:
		return "", false
	}
}

// Reaction is a one-shot animation trigger drained by the presentation layer.
type Reaction string

const (
	ReactionHit     Reaction = "hit"
	ReactionBlocked Reaction = "blocked"
	ReactionTaunt   Reaction = "taunt"
	ReactionFall    Reaction = "fall"
)

// MovementState is the symbolic state consumed by the animation layer.
type MovementState string

const (
	StateIdle      MovementState = "idle"
	StateWalking   MovementState = "walking"
	StateRunning   MovementState = "running"
	StateJumping   MovementState = "jumping"
	StateAttacking MovementState = "attacking"
)

// Character holds the full simulated state for one participant.
type Character struct {
	ID     string
	Number int
	Color  string
	Slot   int

	X, Y, Z          float64
	VelX, VelY, VelZ float64
	Facing           Facing

	Grounded  bool
	Jumping   bool
	Attacking bool
	Blocking  bool
	Taunting  bool

	Health     float64
	Stocks     int
	Eliminated bool

	AttackCooldown float64 // seconds until the next attack is legal

	Input Input

	// AuthorityOwned characters are driven entirely by snapshots; local
	// physics never runs for them.
	AuthorityOwned bool

	prevY     float64
	prevInput Input
	reactions []Reaction
}

// NewCharacter creates a character at the spawn position with full stocks.
func NewCharacter(id string, number int, color string, slot int) *Character {
	return &Character{
		ID:       id,
		Number:   number,
		Color:    color,
		Slot:     slot,
		Facing:   defaultFacing,
		Grounded: true,
		Stocks:   startingStocks,
	}
}

// Busy reports whether a state currently suppresses horizontal movement.
func (c *Character) Busy() bool {
	return c.Attacking || c.Blocking || c.Taunting
}

// MovementState derives the symbolic state the animation layer plays.
func (c *Character) MovementState() MovementState {
	switch {
	case c.Attacking:
		return StateAttacking
	case !c.Grounded:
		return StateJumping
	case math.Abs(c.VelX) > stopThreshold:
		if c.Input.Run {
			return StateRunning
		}
		return StateWalking
	default:
		return StateIdle
	}
}

// queueReaction records a one-shot trigger for the next snapshot.
func (c *Character) queueReaction(r Reaction) {
	c.reactions = append(c.reactions, r)
}

// drainReactions returns and clears the pending triggers.
func (c *Character) drainReactions() []Reaction {
	if len(c.reactions) == 0 {
		return nil
	}
	drained := c.reactions
	c.reactions = nil
	return drained
}

// sanitize resets non-finite kinematic values so a single bad snapshot can
// never wedge the integrator.
func (c *Character) sanitize() {
	if !isFinite(c.X) {
		c.X = 0
	}
	if !isFinite(c.Y) {
		c.Y = groundHeight
	}
	if !isFinite(c.Z) {
		c.Z = 0
	}
	if !isFinite(c.VelX) {
		c.VelX = 0
	}
	if !isFinite(c.VelY) {
		c.VelY = 0
	}
	if !isFinite(c.VelZ) {
		c.VelZ = 0
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
