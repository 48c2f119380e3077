package sim

import "math"

// StageGeometry confines characters to the playable area. Side-view stages
// clamp to horizontal bounds; arena stages reflect onto a boundary circle.
type StageGeometry interface {
	Name() string
	Confine(c *Character)
}

// SideViewStage is the classic platform mode: x clamped to [left, right],
// z pinned to zero.
type SideViewStage struct {
	LeftBound  float64
	RightBound float64
}

// Name implements StageGeometry.
func (SideViewStage) Name() string { return "side-view" }

// Confine implements StageGeometry.
func (s SideViewStage) Confine(c *Character) {
	if c == nil {
		return
	}
	if c.X < s.LeftBound {
		c.X = s.LeftBound
	}
	if c.X > s.RightBound {
		c.X = s.RightBound
	}
	c.Z = 0
	c.VelZ = 0
}

// ArenaStage is the circular mode: positions outside the radius are
// projected back onto the boundary circle in the ground plane.
type ArenaStage struct {
	Radius float64
}

// Name implements StageGeometry.
func (ArenaStage) Name() string { return "arena" }

// Confine implements StageGeometry.
func (s ArenaStage) Confine(c *Character) {
	if c == nil || s.Radius <= 0 {
		return
	}
	dist := math.Hypot(c.X, c.Z)
	if dist <= s.Radius || dist == 0 {
		return
	}
	scale := s.Radius / dist
	c.X *= scale
	c.Z *= scale
}

// Platform is a static landing surface. The single main platform is always
// collidable and acts as the fallback floor; floating platforms are one-way.
type Platform struct {
	CenterX float64
	Width   float64
	Height  float64 // y coordinate of the walkable surface
	Main    bool
}

// Over reports whether x lies within the platform's horizontal span.
func (p Platform) Over(x float64) bool {
	half := p.Width / 2
	return x >= p.CenterX-half && x <= p.CenterX+half
}
