package sim

import "testing"

func TestStepSkipsAuthorityOwnedCharacters(t *testing.T) {
	w := newTestWorld()
	local := addTestCharacter(w, "me", 1)
	remote := addTestCharacter(w, "them", 2)
	w.SetLocalCharacter("me")

	remote.Grounded = false
	remote.Y = 5
	remote.X = 8
	local.X = -8 // far apart so separation stays out of the picture

	w.Step(tickDelta)

	if !floatsEqual(remote.Y, 5) || remote.VelY != 0 {
		t.Fatalf("expected remote character frozen, got y=%v velY=%v", remote.Y, remote.VelY)
	}
}

func TestLocalCharacterIntegratesAndLands(t *testing.T) {
	w := newTestWorld()
	local := addTestCharacter(w, "me", 1)
	w.SetLocalCharacter("me")

	local.Grounded = false
	local.Y = 0.05
	local.VelY = -4

	w.Step(tickDelta)

	if !local.Grounded || !floatsEqual(local.Y, groundHeight) {
		t.Fatalf("expected landing on the main ground, got y=%v grounded=%v", local.Y, local.Grounded)
	}
}

func TestRemovedCharacterExcludedFromPasses(t *testing.T) {
	w := newTestWorld()
	addTestCharacter(w, "me", 1)
	w.SetLocalCharacter("me")
	addTestCharacter(w, "them", 2)

	w.RemoveCharacter("them")

	if len(w.Characters()) != 1 {
		t.Fatalf("expected 1 character after removal, got %d", len(w.Characters()))
	}
	snapshot := w.Snapshot()
	if len(snapshot.Characters) != 1 || snapshot.Characters[0].ID != "me" {
		t.Fatalf("expected only the local character in the snapshot")
	}
}

func TestLocalAttackRaisesIntent(t *testing.T) {
	w := newTestWorld()
	local := addTestCharacter(w, "me", 1)
	w.SetLocalCharacter("me")

	local.Input = Input{Punch: true}
	w.Step(tickDelta)

	intents := w.DrainIntents()
	if len(intents) != 1 || intents[0].Kind != IntentAttack || intents[0].Attack != AttackPunch {
		t.Fatalf("expected a punch intent, got %v", intents)
	}
	if !local.Attacking {
		t.Fatalf("expected predicted swing to start locally")
	}

	// Held button must not re-trigger on the next tick.
	w.Step(tickDelta)
	if len(w.DrainIntents()) != 0 {
		t.Fatalf("expected no intent while the button stays held")
	}
}

func TestBlockChangeRaisesIntent(t *testing.T) {
	w := newTestWorld()
	local := addTestCharacter(w, "me", 1)
	w.SetLocalCharacter("me")

	local.Input = Input{Block: true}
	w.Step(tickDelta)

	intents := w.DrainIntents()
	if len(intents) != 1 || intents[0].Kind != IntentBlock || !intents[0].Blocking {
		t.Fatalf("expected a block-on intent, got %v", intents)
	}

	local.Input = Input{}
	w.Step(tickDelta)
	intents = w.DrainIntents()
	if len(intents) != 1 || intents[0].Kind != IntentBlock || intents[0].Blocking {
		t.Fatalf("expected a block-off intent, got %v", intents)
	}
}

func TestTauntRaisesIntentAndReaction(t *testing.T) {
	w := newTestWorld()
	local := addTestCharacter(w, "me", 1)
	w.SetLocalCharacter("me")

	if !w.Taunt() {
		t.Fatalf("expected taunt to start")
	}
	if w.Taunt() {
		t.Fatalf("expected second taunt rejected while active")
	}

	intents := w.DrainIntents()
	if len(intents) != 1 || intents[0].Kind != IntentTaunt {
		t.Fatalf("expected a taunt intent, got %v", intents)
	}
	if !local.Taunting {
		t.Fatalf("expected taunting state set")
	}
}

func TestSnapshotDrainsReactions(t *testing.T) {
	w := newTestWorld()
	c := addTestCharacter(w, "p1", 1)
	c.queueReaction(ReactionHit)

	first := w.Snapshot()
	if len(first.Characters[0].Reactions) != 1 {
		t.Fatalf("expected one reaction in the first snapshot")
	}

	second := w.Snapshot()
	if len(second.Characters[0].Reactions) != 0 {
		t.Fatalf("expected reactions drained by the first snapshot")
	}
}

func TestSnapshotExposesMovementState(t *testing.T) {
	w := newTestWorld()
	c := addTestCharacter(w, "p1", 1)

	c.VelX = walkSpeed
	c.Grounded = true
	if got := w.Snapshot().Characters[0].State; got != StateWalking {
		t.Fatalf("expected walking, got %v", got)
	}

	c.Input.Run = true
	if got := w.Snapshot().Characters[0].State; got != StateRunning {
		t.Fatalf("expected running, got %v", got)
	}

	c.Grounded = false
	if got := w.Snapshot().Characters[0].State; got != StateJumping {
		t.Fatalf("expected jumping, got %v", got)
	}

	c.Attacking = true
	if got := w.Snapshot().Characters[0].State; got != StateAttacking {
		t.Fatalf("expected attacking to win, got %v", got)
	}
}

func TestEliminatedCharactersLeaveTheFrame(t *testing.T) {
	w := newTestWorld()
	a := addTestCharacter(w, "p1", 1)
	b := addTestCharacter(w, "p2", 2)
	a.X, b.X = 0, 0

	live := w.liveCharacters(w.Characters())
	if len(live) != 2 {
		t.Fatalf("expected 2 live characters, got %d", len(live))
	}

	b.Eliminated = true
	live = w.liveCharacters(w.Characters())
	if len(live) != 1 || live[0].ID != "p1" {
		t.Fatalf("expected eliminated character excluded from framing")
	}
}
