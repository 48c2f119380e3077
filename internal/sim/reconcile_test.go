package sim

import (
	"testing"

	"peleadepeluches/client/internal/net/proto"
)

// characterKey captures the comparable state used by idempotence checks.
type characterKey struct {
	x, y, z          float64
	velX, velY, velZ float64
	facing           Facing
	grounded         bool
	attacking        bool
	blocking         bool
	taunting         bool
	health           float64
	stocks           int
	eliminated       bool
}

func keyOf(c *Character) characterKey {
	return characterKey{
		x: c.X, y: c.Y, z: c.Z,
		velX: c.VelX, velY: c.VelY, velZ: c.VelZ,
		facing:   c.Facing,
		grounded: c.Grounded, attacking: c.Attacking,
		blocking: c.Blocking, taunting: c.Taunting,
		health: c.Health, stocks: c.Stocks, eliminated: c.Eliminated,
	}
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func boolPtr(v bool) *bool        { return &v }
func strPtr(v string) *string     { return &v }

func TestSnapshotOverwritesPresentFieldsOnly(t *testing.T) {
	w := newTestWorld()
	c := addTestCharacter(w, "p1", 1)
	c.X, c.Y = 1, 2
	c.Health = 40
	c.Stocks = 2

	r := NewReconciler(w)
	r.ApplyGameState(&proto.GameState{
		Type: proto.TypeGameState,
		Players: []proto.CharacterSnapshot{{
			ID:     "p1",
			Health: floatPtr(55),
		}},
	})

	if !floatsEqual(c.Health, 55) {
		t.Fatalf("expected health overwritten, got %v", c.Health)
	}
	if !floatsEqual(c.X, 1) || !floatsEqual(c.Y, 2) {
		t.Fatalf("expected absent position untouched, got (%v, %v)", c.X, c.Y)
	}
	if c.Stocks != 2 {
		t.Fatalf("expected absent stocks untouched, got %v", c.Stocks)
	}
}

func TestSnapshotIdempotence(t *testing.T) {
	w := newTestWorld()
	c := addTestCharacter(w, "p1", 1)
	r := NewReconciler(w)

	msg := &proto.GameState{
		Type: proto.TypeGameState,
		Players: []proto.CharacterSnapshot{{
			ID:       "p1",
			Position: &proto.Vec3{X: 4, Y: 1.5},
			Velocity: &proto.Vec3{X: -2},
			Health:   floatPtr(87),
			Stocks:   intPtr(1),
			Grounded: boolPtr(false),
			Facing:   strPtr("left"),
		}},
	}

	r.ApplyGameState(msg)
	first := keyOf(c)
	r.ApplyGameState(msg)

	if keyOf(c) != first {
		t.Fatalf("expected identical state after re-applying the same snapshot")
	}
	if c.Facing != FacingLeft || c.Grounded || c.Stocks != 1 {
		t.Fatalf("unexpected applied state: facing=%v grounded=%v stocks=%v", c.Facing, c.Grounded, c.Stocks)
	}
}

func TestSnapshotUnknownCharacterIgnored(t *testing.T) {
	w := newTestWorld()
	r := NewReconciler(w)

	r.ApplyGameState(&proto.GameState{
		Type:    proto.TypeGameState,
		Players: []proto.CharacterSnapshot{{ID: "ghost", Health: floatPtr(10)}},
	})

	if _, ok := w.Character("ghost"); ok {
		t.Fatalf("snapshots must never create characters")
	}
}

func TestSnapshotOnlyReconcilesVitalsForLocalCharacter(t *testing.T) {
	w := newTestWorld()
	c := addTestCharacter(w, "me", 1)
	w.SetLocalCharacter("me")
	c.X, c.Y = 3, 1

	NewReconciler(w).ApplyGameState(&proto.GameState{
		Type: proto.TypeGameState,
		Players: []proto.CharacterSnapshot{{
			ID:       "me",
			Position: &proto.Vec3{X: -5, Y: 0},
			Health:   floatPtr(22),
			Stocks:   intPtr(2),
		}},
	})

	if !floatsEqual(c.X, 3) || !floatsEqual(c.Y, 1) {
		t.Fatalf("expected predicted position untouched, got (%v, %v)", c.X, c.Y)
	}
	if !floatsEqual(c.Health, 22) || c.Stocks != 2 {
		t.Fatalf("expected vitals reconciled, got health=%v stocks=%v", c.Health, c.Stocks)
	}
}

func TestKnockbackAlwaysPointsAwayFromAttacker(t *testing.T) {
	cases := []struct {
		name               string
		attackerX, targetX float64
		rawX               float64
		wantSign           float64
	}{
		{"target right, raw positive", -2, 2, 5, 1},
		{"target right, raw negative", -2, 2, -5, 1},
		{"target left, raw positive", 3, -1, 5, -1},
		{"target left, raw negative", 3, -1, -5, -1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := newTestWorld()
			attacker := addTestCharacter(w, "attacker", 1)
			target := addTestCharacter(w, "target", 2)
			attacker.X = tc.attackerX
			target.X = tc.targetX

			NewReconciler(w).ApplyAttackHit(&proto.AttackHit{
				Type:       proto.TypeAttackHit,
				AttackerID: "attacker",
				Hits: []proto.AttackOutcome{{
					TargetID:  "target",
					NewHealth: 12,
					Damage:    12,
					Knockback: proto.Vec2{X: tc.rawX, Y: 8},
				}},
			})

			if !floatsEqual(target.VelX, tc.wantSign*5) {
				t.Fatalf("expected velX %v, got %v", tc.wantSign*5, target.VelX)
			}
			if !floatsEqual(target.VelY, 8) {
				t.Fatalf("expected velY 8, got %v", target.VelY)
			}
			if !floatsEqual(target.Health, 12) {
				t.Fatalf("expected health 12, got %v", target.Health)
			}
		})
	}
}

func TestBlockedHitAppliesReducedKnockback(t *testing.T) {
	w := newTestWorld()
	attacker := addTestCharacter(w, "attacker", 1)
	target := addTestCharacter(w, "target", 2)
	attacker.X, target.X = 2, -2

	NewReconciler(w).ApplyAttackHit(&proto.AttackHit{
		Type:       proto.TypeAttackHit,
		AttackerID: "attacker",
		Hits: []proto.AttackOutcome{{
			TargetID:  "target",
			NewHealth: 3,
			Blocked:   true,
			Knockback: proto.Vec2{X: 1.5, Y: 0.5},
		}},
	})

	// The blocked vector still lands, pointed away from the attacker.
	if !floatsEqual(target.VelX, -1.5) || !floatsEqual(target.VelY, 0.5) {
		t.Fatalf("expected knockback (-1.5, 0.5) on a blocked hit, got (%v, %v)", target.VelX, target.VelY)
	}
	if !floatsEqual(target.Health, 3) {
		t.Fatalf("expected chip damage applied, got %v", target.Health)
	}
	reactions := target.drainReactions()
	if len(reactions) != 1 || reactions[0] != ReactionBlocked {
		t.Fatalf("expected blocked reaction, got %v", reactions)
	}
}

func TestAttackStartedTriggersRemoteSwing(t *testing.T) {
	w := newTestWorld()
	c := addTestCharacter(w, "p2", 2)

	NewReconciler(w).ApplyAttackStarted(&proto.AttackStarted{
		Type:       proto.TypeAttackStarted,
		AttackerID: "p2",
		AttackType: "kick",
	})

	if !c.Attacking {
		t.Fatalf("expected swing to start immediately on attack-started")
	}
	if !floatsEqual(c.AttackCooldown, kickCooldown) {
		t.Fatalf("expected kick cooldown, got %v", c.AttackCooldown)
	}
}

func TestAttackStartedDoesNotRestartLocalSwing(t *testing.T) {
	w := newTestWorld()
	c := addTestCharacter(w, "me", 1)
	w.SetLocalCharacter("me")

	TryAttack(c, AttackPunch)
	TickCombat(c, 0.4, true)
	remaining := c.AttackCooldown

	NewReconciler(w).ApplyAttackStarted(&proto.AttackStarted{
		Type:       proto.TypeAttackStarted,
		AttackerID: "me",
		AttackType: "punch",
	})

	if !floatsEqual(c.AttackCooldown, remaining) {
		t.Fatalf("expected the echoed start not to stretch the cooldown, got %v", c.AttackCooldown)
	}
}

func TestKOAppliesStocksAndFallReaction(t *testing.T) {
	w := newTestWorld()
	c := addTestCharacter(w, "p1", 1)

	NewReconciler(w).ApplyKO(&proto.PlayerKO{
		Type: proto.TypePlayerKO,
		KOs:  []proto.PlayerKOEntry{{PlayerID: "p1", StocksRemaining: 1, Eliminated: false}},
	})

	if c.Stocks != 1 {
		t.Fatalf("expected 1 stock, got %v", c.Stocks)
	}
	reactions := c.drainReactions()
	if len(reactions) != 1 || reactions[0] != ReactionFall {
		t.Fatalf("expected fall reaction, got %v", reactions)
	}
}

func TestGameResetIsIdempotent(t *testing.T) {
	w := newTestWorld()
	c := addTestCharacter(w, "p1", 1)
	c.Health = 120
	c.Stocks = 1
	c.Eliminated = true
	c.X = 7

	r := NewReconciler(w)
	r.Apply(&proto.GameReset{Type: proto.TypeGameReset})
	first := keyOf(c)
	r.Apply(&proto.GameReset{Type: proto.TypeGameReset})

	if keyOf(c) != first {
		t.Fatalf("expected reset to be idempotent")
	}
	if c.Health != 0 || c.Stocks != startingStocks || c.Eliminated {
		t.Fatalf("unexpected post-reset vitals: health=%v stocks=%v eliminated=%v",
			c.Health, c.Stocks, c.Eliminated)
	}
}

func TestBlockStateEventForcesTransition(t *testing.T) {
	w := newTestWorld()
	c := addTestCharacter(w, "p1", 1)
	TryAttack(c, AttackPunch) // authority override beats local gating

	r := NewReconciler(w)
	r.Apply(&proto.PlayerBlockState{Type: proto.TypePlayerBlockState, PlayerID: "p1", IsBlocking: true})

	if !c.Blocking || c.Attacking {
		t.Fatalf("expected forced block, got blocking=%v attacking=%v", c.Blocking, c.Attacking)
	}

	r.Apply(&proto.PlayerBlockState{Type: proto.TypePlayerBlockState, PlayerID: "p1", IsBlocking: false})
	if c.Blocking {
		t.Fatalf("expected block cleared by the authority")
	}
}

func TestRosterEventsDriveMembership(t *testing.T) {
	w := newTestWorld()
	r := NewReconciler(w)

	r.Apply(&proto.PlayerJoined{
		Type:   proto.TypePlayerJoined,
		Player: proto.PlayerInfo{ID: "p1", Number: 1, Color: "#f00"},
	})
	if _, ok := w.Character("p1"); !ok {
		t.Fatalf("expected character created on join")
	}

	r.Apply(&proto.GameStarted{
		Type: proto.TypeGameStarted,
		Players: []proto.PlayerInfo{
			{ID: "p2", Number: 2},
			{ID: "p3", Number: 3},
		},
	})
	if _, ok := w.Character("p1"); ok {
		t.Fatalf("expected game-started to rebuild the roster")
	}
	if len(w.Characters()) != 2 {
		t.Fatalf("expected 2 characters, got %d", len(w.Characters()))
	}

	r.Apply(&proto.PlayerLeft{Type: proto.TypePlayerLeft, PlayerID: "p2"})
	if len(w.Characters()) != 1 {
		t.Fatalf("expected 1 character after leave, got %d", len(w.Characters()))
	}
}
