package sim

// IntegrateMovement advances one character's velocity and position by dt.
// Horizontal input is ignored while a busy state (attack/block/taunt) is
// active, but gravity and position integration still proceed so an attack
// started mid-air keeps falling naturally.
func IntegrateMovement(c *Character, dt float64, stage StageGeometry) {
	if c == nil || dt <= 0 {
		return
	}
	c.sanitize()

	if !c.Busy() {
		applyHorizontalInput(c)
		if c.Input.Jump && c.Grounded {
			c.VelY = jumpImpulse
			c.Grounded = false
			c.Jumping = true
		}
	}

	if !c.Grounded {
		c.VelY -= gravity * dt
	}

	c.prevY = c.Y
	c.X += c.VelX * dt
	c.Y += c.VelY * dt

	if stage != nil {
		stage.Confine(c)
	}
}

// applyHorizontalInput snaps velocity to the held direction or damps it
// toward rest. Left wins when both directions are held.
func applyHorizontalInput(c *Character) {
	speed := walkSpeed
	if c.Input.Run {
		speed = runSpeed
	}

	switch {
	case c.Input.Left:
		c.VelX = -speed
		c.Facing = FacingLeft
	case c.Input.Right:
		c.VelX = speed
		c.Facing = FacingRight
	default:
		c.VelX *= horizontalDamping
		if c.VelX > -stopThreshold && c.VelX < stopThreshold {
			c.VelX = 0
		}
	}
}
