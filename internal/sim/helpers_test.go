package sim

import "math"

const floatEpsilon = 1e-6

func floatsEqual(a, b float64) bool {
	return math.Abs(a-b) <= floatEpsilon
}

func newTestWorld() *World {
	return NewWorld(DefaultConfig(), Deps{})
}

func addTestCharacter(w *World, id string, number int) *Character {
	c := NewCharacter(id, number, "#ffffff", number-1)
	w.AddCharacter(c)
	return c
}
