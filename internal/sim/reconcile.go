package sim

import (
	"math"

	"peleadepeluches/client/internal/net/proto"
)

// Reconciler applies authoritative messages over locally simulated state.
// Field overwrites are last-write-wins in arrival order; duplicate or
// out-of-order discrete events degrade to harmless re-application.
type Reconciler struct {
	world *World
}

// NewReconciler wraps a world with the authority-facing apply surface.
func NewReconciler(world *World) *Reconciler {
	return &Reconciler{world: world}
}

// Apply dispatches one decoded authority message. Unknown character ids and
// unrecognized payloads are logged and ignored; nothing here can fail the
// frame loop.
func (r *Reconciler) Apply(msg any) {
	if r == nil || r.world == nil || msg == nil {
		return
	}
	switch m := msg.(type) {
	case *proto.PlayerJoined:
		r.applyJoined(m)
	case *proto.PlayerLeft:
		r.world.RemoveCharacter(m.PlayerID)
	case *proto.GameStarted:
		r.applyStarted(m)
	case *proto.GameReset:
		r.world.ResetRoster()
	case *proto.RoundStarting:
		r.world.ResetRoster()
	case *proto.PlayerInputUpdate:
		r.world.SetInput(m.PlayerID, inputFromWire(m.Input))
	case *proto.GameState:
		r.ApplyGameState(m)
	case *proto.AttackStarted:
		r.ApplyAttackStarted(m)
	case *proto.AttackHit:
		r.ApplyAttackHit(m)
	case *proto.PlayerKO:
		r.ApplyKO(m)
	case *proto.PlayerBlockState:
		r.applyBlockState(m)
	case *proto.PlayerTaunting:
		r.applyTaunting(m)
	case *proto.GameOver:
		r.world.deps.Metrics.Add("reconcile_game_over", 1)
	default:
		r.world.deps.Logger.Printf("unhandled authority message %T", msg)
	}
}

func (r *Reconciler) applyJoined(msg *proto.PlayerJoined) {
	p := msg.Player
	if p.ID == "" {
		return
	}
	r.world.AddCharacter(NewCharacter(p.ID, p.Number, p.Color, p.Slot))
}

// applyStarted rebuilds the roster from scratch for a fresh match.
func (r *Reconciler) applyStarted(msg *proto.GameStarted) {
	for _, id := range append([]string(nil), r.world.order...) {
		r.world.RemoveCharacter(id)
	}
	for _, p := range msg.Players {
		if p.ID == "" {
			continue
		}
		r.world.AddCharacter(NewCharacter(p.ID, p.Number, p.Color, p.Slot))
	}
}

// ApplyGameState overwrites each named character with whatever fields the
// snapshot carries. Absent fields stay untouched, so re-applying the same
// snapshot is idempotent.
func (r *Reconciler) ApplyGameState(msg *proto.GameState) {
	if r == nil || msg == nil {
		return
	}
	for _, snap := range msg.Players {
		c, ok := r.world.Character(snap.ID)
		if !ok {
			r.world.deps.Logger.Printf("snapshot for unknown character %q ignored", snap.ID)
			r.world.deps.Metrics.Add("reconcile_unknown_character", 1)
			continue
		}
		if !c.AuthorityOwned {
			// The predicted character keeps its local physics; only the
			// authority-owned vitals are reconciled.
			applyVitals(c, snap)
			continue
		}
		applySnapshot(c, snap)
	}
	r.world.deps.Metrics.Add("reconcile_snapshots", 1)
}

func applyVitals(c *Character, snap proto.CharacterSnapshot) {
	if snap.Health != nil {
		c.Health = *snap.Health
	}
	if snap.Stocks != nil {
		c.Stocks = *snap.Stocks
	}
}

func applySnapshot(c *Character, snap proto.CharacterSnapshot) {
	if snap.Position != nil {
		c.prevY = c.Y
		c.X = snap.Position.X
		c.Y = snap.Position.Y
		c.Z = snap.Position.Z
	}
	if snap.Velocity != nil {
		c.VelX = snap.Velocity.X
		c.VelY = snap.Velocity.Y
		c.VelZ = snap.Velocity.Z
	}
	if snap.Health != nil {
		c.Health = *snap.Health
	}
	if snap.Stocks != nil {
		c.Stocks = *snap.Stocks
	}
	if snap.Grounded != nil {
		c.Grounded = *snap.Grounded
		if c.Grounded {
			c.Jumping = false
		}
	}
	if snap.Facing != nil {
		if facing, ok := ParseFacing(*snap.Facing); ok {
			c.Facing = facing
		}
	}
	if snap.Input != nil {
		c.Input = inputFromWire(*snap.Input)
	}
	c.sanitize()
}

// ApplyAttackStarted triggers the attacker's swing immediately, phase one
// of the attack protocol. The visual starts before any hit outcome exists,
// which hides the authority round trip.
func (r *Reconciler) ApplyAttackStarted(msg *proto.AttackStarted) {
	if r == nil || msg == nil {
		return
	}
	c, ok := r.world.Character(msg.AttackerID)
	if !ok {
		r.world.deps.Logger.Printf("attack-started for unknown character %q ignored", msg.AttackerID)
		return
	}
	kind, ok := ParseAttackKind(msg.AttackType)
	if !ok {
		kind = AttackPunch
	}
	// The locally predicted character already started its swing when the
	// input was pressed; re-forcing it would stretch the cooldown.
	if c.ID == r.world.LocalID() && c.Attacking {
		return
	}
	ForceAttack(c, kind)
}

// ApplyAttackHit applies phase two: authoritative health, reaction state,
// and knockback for every named target. The knockback's horizontal sign is
// recomputed from the target's position relative to the attacker at this
// moment, so it always points away from the attacker even when both moved
// during the round trip.
func (r *Reconciler) ApplyAttackHit(msg *proto.AttackHit) {
	if r == nil || msg == nil {
		return
	}
	attacker, haveAttacker := r.world.Character(msg.AttackerID)
	for _, hit := range msg.Hits {
		target, ok := r.world.Character(hit.TargetID)
		if !ok {
			r.world.deps.Logger.Printf("attack-hit for unknown character %q ignored", hit.TargetID)
			continue
		}

		target.Health = hit.NewHealth

		if hit.Blocked {
			target.queueReaction(ReactionBlocked)
		} else {
			target.queueReaction(ReactionHit)
		}

		// The authority scales the vector for blocked hits; the direction
		// rule applies either way.
		knockX := hit.Knockback.X
		if haveAttacker {
			knockX = math.Abs(knockX)
			if target.X < attacker.X {
				knockX = -knockX
			}
		}
		target.VelX = knockX
		target.VelY = hit.Knockback.Y
		if hit.Knockback.Y > 0 {
			target.Grounded = false
		}
	}
	r.world.deps.Metrics.Add("reconcile_attack_hits", 1)
}

// ApplyKO records remaining stocks and forces the fall reaction. KO events
// are additive corrections: stocks only ever move toward the authoritative
// value, never back up from a stale snapshot in the same ordering.
func (r *Reconciler) ApplyKO(msg *proto.PlayerKO) {
	if r == nil || msg == nil {
		return
	}
	for _, entry := range msg.KOs {
		c, ok := r.world.Character(entry.PlayerID)
		if !ok {
			r.world.deps.Logger.Printf("player-ko for unknown character %q ignored", entry.PlayerID)
			continue
		}
		c.Stocks = entry.StocksRemaining
		c.Eliminated = entry.Eliminated
		c.queueReaction(ReactionFall)
	}
}

func (r *Reconciler) applyBlockState(msg *proto.PlayerBlockState) {
	c, ok := r.world.Character(msg.PlayerID)
	if !ok {
		r.world.deps.Logger.Printf("block-state for unknown character %q ignored", msg.PlayerID)
		return
	}
	// Authoritative override: bypass the entry gating entirely.
	c.Blocking = msg.IsBlocking
	if msg.IsBlocking {
		c.Attacking = false
		c.Taunting = false
	}
}

func (r *Reconciler) applyTaunting(msg *proto.PlayerTaunting) {
	c, ok := r.world.Character(msg.PlayerID)
	if !ok {
		r.world.deps.Logger.Printf("taunt for unknown character %q ignored", msg.PlayerID)
		return
	}
	c.Attacking = false
	c.Blocking = false
	c.Taunting = true
	c.queueReaction(ReactionTaunt)
}

func inputFromWire(flags proto.InputFlags) Input {
	return Input{
		Left:  flags.Left,
		Right: flags.Right,
		Jump:  flags.Jump,
		Punch: flags.Punch,
		Kick:  flags.Kick,
		Run:   flags.Run,
		Block: flags.Block,
	}
}

// IntentMessage converts a drained world intent into its wire form. Input
// intents are returned as PlayerInputUpdate so the authority can echo them.
func IntentMessage(localID string, intent Intent) any {
	switch intent.Kind {
	case IntentAttack:
		return &proto.PlayerAttack{Type: proto.TypePlayerAttack, AttackType: string(intent.Attack)}
	case IntentBlock:
		return &proto.PlayerBlock{Type: proto.TypePlayerBlock, IsBlocking: intent.Blocking}
	case IntentTaunt:
		return &proto.PlayerTaunt{Type: proto.TypePlayerTaunt}
	case IntentInput:
		return &proto.PlayerInputUpdate{
			Type:     proto.TypePlayerInputUpdate,
			PlayerID: localID,
			Input: proto.InputFlags{
				Left:  intent.Input.Left,
				Right: intent.Input.Right,
				Jump:  intent.Input.Jump,
				Punch: intent.Input.Punch,
				Kick:  intent.Input.Kick,
				Run:   intent.Input.Run,
				Block: intent.Input.Block,
			},
		}
	default:
		return nil
	}
}
