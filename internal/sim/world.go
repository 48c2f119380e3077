package sim

import "github.com/go-gl/mathgl/mgl64"

// IntentKind identifies an outbound request raised toward the authority.
type IntentKind string

const (
	IntentAttack IntentKind = "attack"
	IntentBlock  IntentKind = "block"
	IntentTaunt  IntentKind = "taunt"
	IntentInput  IntentKind = "input"
)

// Intent is a locally predicted action that still needs authoritative
// resolution. The network session drains these once per tick.
type Intent struct {
	Kind     IntentKind
	Attack   AttackKind
	Blocking bool
	Input    Input
}

// World owns the character roster, the immutable stage, and the camera. It
// is driven synchronously by the frame loop; network handlers only write
// into it between frames.
type World struct {
	deps      Deps
	config    Config
	stage     StageGeometry
	platforms []Platform
	camera    *Camera

	characters map[string]*Character
	order      []string

	localID string
	aspect  float64
	intents []Intent
}

// NewWorld builds a world from the given config.
func NewWorld(cfg Config, deps Deps) *World {
	cfg = cfg.normalized()
	w := &World{
		deps:       deps.normalized(),
		config:     cfg,
		stage:      cfg.Stage(),
		camera:     NewCamera(cfg.Camera),
		characters: make(map[string]*Character),
		aspect:     16.0 / 9.0,
	}
	if cfg.StageMode == "side-view" {
		w.platforms = DefaultPlatforms()
	}
	return w
}

// SetAspect records the render surface aspect ratio used for framing.
func (w *World) SetAspect(aspect float64) {
	if w == nil || aspect <= 0 {
		return
	}
	w.aspect = aspect
}

// SetLocalCharacter marks which character is locally predicted. Every other
// character is authority-owned.
func (w *World) SetLocalCharacter(id string) {
	if w == nil {
		return
	}
	w.localID = id
	for _, c := range w.characters {
		c.AuthorityOwned = c.ID != id
	}
}

// LocalID returns the locally predicted character's id.
func (w *World) LocalID() string {
	if w == nil {
		return ""
	}
	return w.localID
}

// AddCharacter registers a character at its spawn position. Adding an id
// that already exists replaces the old entry.
func (w *World) AddCharacter(c *Character) {
	if w == nil || c == nil || c.ID == "" {
		return
	}
	if _, exists := w.characters[c.ID]; !exists {
		w.order = append(w.order, c.ID)
	}
	c.AuthorityOwned = w.localID == "" || c.ID != w.localID
	w.spawn(c)
	w.characters[c.ID] = c
	w.deps.Metrics.Add("world_characters_added", 1)
}

// RemoveCharacter drops a character from every subsequent pass.
func (w *World) RemoveCharacter(id string) {
	if w == nil {
		return
	}
	if _, ok := w.characters[id]; !ok {
		return
	}
	delete(w.characters, id)
	for i, existing := range w.order {
		if existing == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	w.deps.Metrics.Add("world_characters_removed", 1)
}

// Character looks up a roster member by id.
func (w *World) Character(id string) (*Character, bool) {
	if w == nil {
		return nil, false
	}
	c, ok := w.characters[id]
	return c, ok
}

// Characters returns the roster in join order.
func (w *World) Characters() []*Character {
	if w == nil {
		return nil
	}
	list := make([]*Character, 0, len(w.order))
	for _, id := range w.order {
		if c, ok := w.characters[id]; ok {
			list = append(list, c)
		}
	}
	return list
}

// ResetRoster reinitializes vitals and positions for every character. It is
// idempotent: applying it twice leaves the same state as applying it once.
func (w *World) ResetRoster() {
	if w == nil {
		return
	}
	for _, c := range w.characters {
		c.Health = 0
		c.Stocks = startingStocks
		c.Eliminated = false
		c.Attacking = false
		c.Blocking = false
		c.Taunting = false
		c.AttackCooldown = 0
		w.spawn(c)
	}
}

// spawn places a character at its slot's spawn point, at rest on the ground.
func (w *World) spawn(c *Character) {
	offsets := [4]float64{-6, 6, -2, 2}
	c.X = offsets[((c.Number-1)%4+4)%4]
	c.Y = groundHeight
	c.Z = 0
	c.prevY = c.Y
	c.VelX, c.VelY, c.VelZ = 0, 0, 0
	c.Grounded = true
	c.Jumping = false
	if c.Facing == "" {
		c.Facing = defaultFacing
	}
}

// SetInput stores the latest button snapshot for a character. Unknown ids
// are ignored.
func (w *World) SetInput(id string, input Input) {
	if w == nil {
		return
	}
	c, ok := w.characters[id]
	if !ok {
		w.deps.Logger.Printf("input for unknown character %q ignored", id)
		return
	}
	c.Input = input
}

// Taunt starts a locally predicted taunt and raises the intent.
func (w *World) Taunt() bool {
	if w == nil {
		return false
	}
	c, ok := w.characters[w.localID]
	if !ok || !TryTaunt(c) {
		return false
	}
	w.intents = append(w.intents, Intent{Kind: IntentTaunt})
	return true
}

// Step advances the simulation by dt in the fixed order: integrate every
// character, resolve platforms, separate pairs, tick combat, then frame the
// camera. Authority-owned characters skip local physics; their state comes
// from snapshots.
func (w *World) Step(dt float64) {
	if w == nil || dt <= 0 {
		return
	}

	roster := w.Characters()

	for _, c := range roster {
		if c.AuthorityOwned {
			continue
		}
		w.stepLocalInput(c)
		IntegrateMovement(c, dt, w.stage)
		ResolvePlatforms(c, w.platforms)
	}

	SeparateCharacters(roster, w.config.Separation)

	for _, c := range roster {
		before := c.Blocking
		TickCombat(c, dt, !c.AuthorityOwned)
		if !c.AuthorityOwned && c.Blocking != before {
			w.intents = append(w.intents, Intent{Kind: IntentBlock, Blocking: c.Blocking})
		}
	}

	w.camera.Update(w.liveCharacters(roster), w.aspect, dt)
	w.deps.Metrics.Add("world_ticks", 1)
}

// stepLocalInput turns fresh button presses into predicted attacks and the
// matching outbound intents. Edge detection keeps a held button from
// re-triggering every tick.
func (w *World) stepLocalInput(c *Character) {
	pressedPunch := c.Input.Punch && !c.prevInput.Punch
	pressedKick := c.Input.Kick && !c.prevInput.Kick
	c.prevInput = c.Input

	if pressedPunch && TryAttack(c, AttackPunch) {
		w.intents = append(w.intents, Intent{Kind: IntentAttack, Attack: AttackPunch})
		return
	}
	if pressedKick && TryAttack(c, AttackKick) {
		w.intents = append(w.intents, Intent{Kind: IntentAttack, Attack: AttackKick})
	}
}

// liveCharacters filters out eliminated roster members for framing.
func (w *World) liveCharacters(roster []*Character) []*Character {
	live := roster[:0:0]
	for _, c := range roster {
		if !c.Eliminated {
			live = append(live, c)
		}
	}
	return live
}

// DrainIntents returns and clears the pending outbound intents.
func (w *World) DrainIntents() []Intent {
	if w == nil || len(w.intents) == 0 {
		return nil
	}
	drained := w.intents
	w.intents = nil
	return drained
}

// CharacterView is the per-character output polled by presentation layers.
type CharacterView struct {
	ID         string
	Number     int
	Color      string
	State      MovementState
	X, Y, Z    float64
	VelX, VelY float64
	Facing     Facing
	Health     float64
	Stocks     int
	Eliminated bool
	Reactions  []Reaction
}

// CameraView is the per-frame camera output.
type CameraView struct {
	Position mgl64.Vec3
	LookAt   mgl64.Vec3
	Distance float64
}

// Snapshot captures the presentation-facing state for one frame. Reaction
// triggers are one-shot: taking a snapshot drains them.
type Snapshot struct {
	Characters []CharacterView
	Camera     CameraView
}

// Snapshot renders the current world state for the presentation layer.
func (w *World) Snapshot() Snapshot {
	if w == nil {
		return Snapshot{}
	}
	roster := w.Characters()
	views := make([]CharacterView, 0, len(roster))
	for _, c := range roster {
		views = append(views, CharacterView{
			ID:         c.ID,
			Number:     c.Number,
			Color:      c.Color,
			State:      c.MovementState(),
			X:          c.X,
			Y:          c.Y,
			Z:          c.Z,
			VelX:       c.VelX,
			VelY:       c.VelY,
			Facing:     c.Facing,
			Health:     c.Health,
			Stocks:     c.Stocks,
			Eliminated: c.Eliminated,
			Reactions:  c.drainReactions(),
		})
	}
	return Snapshot{
		Characters: views,
		Camera: CameraView{
			Position: w.camera.Position(),
			LookAt:   w.camera.LookAt(),
			Distance: w.camera.Distance(),
		},
	}
}
