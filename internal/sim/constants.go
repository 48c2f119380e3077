package sim

import "time"

const (
	tickRate  = 60 // simulation ticks per second
	tickDelta = 1.0 / float64(tickRate)

	walkSpeed   = 4.0  // units per second
	runSpeed    = 7.0  // units per second
	jumpImpulse = 9.0  // units per second, applied upward on takeoff
	gravity     = 25.0 // units per second squared

	horizontalDamping = 0.8 // velocity multiplier applied each idle tick
	stopThreshold     = 0.1 // below this speed the character is considered stopped

	punchCooldown = 1.0 // seconds
	kickCooldown  = 0.8 // seconds

	startingStocks = 3

	separationRadius    = 1.2  // horizontal distance that counts as overlapping
	separationOverlapY  = 1.5  // vertical distance beyond which no push happens
	separationMaxPush   = 0.08 // max push per character per tick
	separationEscape    = 3.0  // speed away from the other that skips the push
	separationVelDampen = 0.5  // inward velocity multiplier when pushed

	stageLeftBound  = -9.0
	stageRightBound = 9.0
	arenaRadius     = 10.0
	groundHeight    = 0.0

	cameraFOVDegrees   = 50.0
	cameraPaddingX     = 2.5
	cameraPaddingY     = 2.0
	cameraPaddingYBias = 1.0 // extra headroom above the roster for name labels
	cameraMinDistance  = 8.0
	cameraMaxDistance  = 30.0
	cameraFollowRate   = 6.0 // per-second exponential rate for the look-at target
	cameraZoomRate     = 3.0 // per-second exponential rate for the distance

	intentFlushInterval = 50 * time.Millisecond
)
