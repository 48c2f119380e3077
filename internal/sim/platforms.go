package sim

// ResolvePlatforms corrects a character's vertical state against the static
// platform list. Platforms are evaluated in registration order (main ground
// first) and the first match wins.
//
// Floating platforms are one-way: a character lands only while falling
// (velY <= 0) with its previous-tick y at or above the surface and its
// current y at or below it. The straddle test is what lets a character jump
// up through a platform without sticking to its underside, and keeps one
// resting on a surface from "landing" again every tick it overlaps.
func ResolvePlatforms(c *Character, platforms []Platform) {
	if c == nil {
		return
	}

	for _, p := range platforms {
		if !p.Over(c.X) {
			continue
		}
		if p.Main {
			if c.Y <= p.Height {
				land(c, p.Height)
				return
			}
			continue
		}
		if c.VelY <= 0 && c.prevY >= p.Height && c.Y <= p.Height {
			land(c, p.Height)
			return
		}
	}

	// Ultimate fallback floor: nothing matched but the character is at or
	// below the absolute ground height.
	if c.Y <= groundHeight {
		land(c, groundHeight)
		return
	}

	c.Grounded = false
}

// land snaps the character onto a surface and settles its vertical state.
func land(c *Character, surface float64) {
	c.Y = surface
	c.prevY = surface
	c.VelY = 0
	c.Grounded = true
	c.Jumping = false
}
