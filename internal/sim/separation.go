package sim

import "math"

// SeparationSettings tunes the soft push-apart between overlapping
// characters. The defaults are feel-tuned; they are exposed as settings
// rather than constants so stages with larger hitboxes can adjust them.
type SeparationSettings struct {
	Radius   float64 // horizontal distance that counts as overlapping
	OverlapY float64 // vertical distance beyond which no push happens
	MaxPush  float64 // cap on the per-tick positional correction
	Escape   float64 // speed away from the other that skips the push
}

// DefaultSeparationSettings returns the tuned defaults.
func DefaultSeparationSettings() SeparationSettings {
	return SeparationSettings{
		Radius:   separationRadius,
		OverlapY: separationOverlapY,
		MaxPush:  separationMaxPush,
		Escape:   separationEscape,
	}
}

// SeparateCharacters nudges overlapping pairs apart horizontally. It is a
// post-integration correction: it never touches grounded or jumping flags,
// and the push is capped per tick so stacked characters drift apart instead
// of oscillating.
func SeparateCharacters(characters []*Character, settings SeparationSettings) {
	for i := 0; i < len(characters); i++ {
		for j := i + 1; j < len(characters); j++ {
			separatePair(characters[i], characters[j], settings)
		}
	}
}

func separatePair(a, b *Character, settings SeparationSettings) {
	if a == nil || b == nil {
		return
	}
	if math.Abs(a.Y-b.Y) >= settings.OverlapY {
		return
	}

	dx := b.X - a.X
	dist := math.Abs(dx)
	if dist >= settings.Radius {
		return
	}

	// Degenerate exact overlap: pick a direction from the ordinal numbers
	// so both clients resolve the tie the same way.
	dir := 1.0
	if dx < 0 || (dx == 0 && a.Number > b.Number) {
		dir = -1.0
	}

	penetration := settings.Radius - dist
	push := penetration / 2
	if push > settings.MaxPush {
		push = settings.MaxPush
	}

	// b sits in direction dir from a; push each one outward unless it is
	// already escaping fast on its own.
	if a.VelX*(-dir) < settings.Escape {
		a.X -= push * dir
	}
	if b.VelX*dir < settings.Escape {
		b.X += push * dir
	}

	// Soft-body response: halve any velocity component aimed into the
	// other character instead of stopping it dead.
	if a.VelX*dir > 0 {
		a.VelX *= separationVelDampen
	}
	if b.VelX*dir < 0 {
		b.VelX *= separationVelDampen
	}
}
