package sim

// The combat state machine layers three mutually exclusive busy states over
// the movement state: Attacking, Blocking, and Taunting. Idle/Moving is the
// only state any of them can start from. Transitions are either input-driven
// (evaluated once per tick for the locally owned character), time-driven
// (the cooldown clearing Attacking), or forced by authoritative events.

// TryAttack starts an attack if the character is free and off cooldown.
// It reports whether the attack actually started; a rejected call leaves
// all combat state untouched.
func TryAttack(c *Character, kind AttackKind) bool {
	if c == nil || c.Attacking || c.AttackCooldown > 0 {
		return false
	}
	if c.Blocking || c.Taunting {
		return false
	}
	c.Attacking = true
	c.AttackCooldown = cooldownFor(kind)
	return true
}

// ForceAttack enters the attacking state regardless of local gating. Used
// when the authority announces another character's attack: the swing must
// play immediately even if local prediction believed the character busy.
func ForceAttack(c *Character, kind AttackKind) {
	if c == nil {
		return
	}
	c.Blocking = false
	c.Taunting = false
	c.Attacking = true
	c.AttackCooldown = cooldownFor(kind)
}

func cooldownFor(kind AttackKind) float64 {
	if kind == AttackKick {
		return kickCooldown
	}
	return punchCooldown
}

// SetBlocking enters or leaves the held block state. Entry only happens
// from Idle/Moving: an active attack or taunt rejects it. A taunt ends by
// animation completion or authoritative correction, never by block input.
// Leaving always succeeds. Reports whether the flag changed.
func SetBlocking(c *Character, held bool) bool {
	if c == nil {
		return false
	}
	if held {
		if c.Attacking || c.Taunting || c.Blocking {
			return false
		}
		c.Blocking = true
		return true
	}
	if !c.Blocking {
		return false
	}
	c.Blocking = false
	return true
}

// TryTaunt starts a taunt if no other busy state is active.
func TryTaunt(c *Character) bool {
	if c == nil || c.Attacking || c.Blocking || c.Taunting {
		return false
	}
	c.Taunting = true
	c.queueReaction(ReactionTaunt)
	return true
}

// CompleteTaunt is called when the animation layer reports the taunt clip
// finished, or when an authoritative correction cancels it.
func CompleteTaunt(c *Character) {
	if c == nil {
		return
	}
	c.Taunting = false
}

// TickCombat advances the time-driven transitions by dt and applies the
// held-block rule from the character's current input. It runs once per tick
// for every character so remote swings also end on schedule.
func TickCombat(c *Character, dt float64, inputDriven bool) {
	if c == nil || dt <= 0 {
		return
	}

	if c.AttackCooldown > 0 {
		c.AttackCooldown -= dt
		if c.AttackCooldown <= 0 {
			c.AttackCooldown = 0
			c.Attacking = false
		}
	}

	// Block is held: for the input-owning character it tracks the button
	// directly. Remote characters are driven by block-state events instead.
	if inputDriven {
		if c.Blocking && !c.Input.Block {
			SetBlocking(c, false)
		} else if !c.Blocking && c.Input.Block {
			SetBlocking(c, true)
		}
	}
}
