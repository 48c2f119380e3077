package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CameraSettings tunes framing paddings, zoom limits, and smoothing rates.
type CameraSettings struct {
	FOVDegrees  float64
	PaddingX    float64
	PaddingY    float64
	PaddingBias float64 // extra padding above the roster for name labels
	MinDistance float64
	MaxDistance float64
	FollowRate  float64 // look-at convergence, per second
	ZoomRate    float64 // distance convergence, per second
}

// DefaultCameraSettings returns the tuned defaults.
func DefaultCameraSettings() CameraSettings {
	return CameraSettings{
		FOVDegrees:  cameraFOVDegrees,
		PaddingX:    cameraPaddingX,
		PaddingY:    cameraPaddingY,
		PaddingBias: cameraPaddingYBias,
		MinDistance: cameraMinDistance,
		MaxDistance: cameraMaxDistance,
		FollowRate:  cameraFollowRate,
		ZoomRate:    cameraZoomRate,
	}
}

// Camera keeps every live character framed with padding, trailing its
// targets elastically rather than snapping.
type Camera struct {
	settings CameraSettings

	lookAt   mgl64.Vec3
	distance float64
}

// NewCamera creates a camera at the starting distance midpoint.
func NewCamera(settings CameraSettings) *Camera {
	return &Camera{
		settings: settings,
		distance: (settings.MinDistance + settings.MaxDistance) / 2,
	}
}

// Update recomputes the framing for the given characters and advances the
// smoothed look-at and distance by dt. With no characters the camera holds
// its last state.
func (cam *Camera) Update(characters []*Character, aspect, dt float64) {
	if cam == nil || len(characters) == 0 {
		return
	}

	minX, maxX := characters[0].X, characters[0].X
	minY, maxY := characters[0].Y, characters[0].Y
	for _, c := range characters[1:] {
		minX = math.Min(minX, c.X)
		maxX = math.Max(maxX, c.X)
		minY = math.Min(minY, c.Y)
		maxY = math.Max(maxY, c.Y)
	}

	minX -= cam.settings.PaddingX
	maxX += cam.settings.PaddingX
	minY -= cam.settings.PaddingY
	maxY += cam.settings.PaddingY + cam.settings.PaddingBias

	center := mgl64.Vec3{(minX + maxX) / 2, (minY + maxY) / 2, 0}
	width := maxX - minX
	height := maxY - minY

	if aspect <= 0 {
		aspect = 1
	}

	// Fit the box height against the vertical FOV and the box width against
	// the aspect-adjusted horizontal FOV; the larger distance fits both.
	halfV := math.Tan(mgl64.DegToRad(cam.settings.FOVDegrees) / 2)
	halfH := halfV * aspect
	distance := math.Max(height/2/halfV, width/2/halfH)
	distance = mgl64.Clamp(distance, cam.settings.MinDistance, cam.settings.MaxDistance)

	followStep := 1 - math.Exp(-cam.settings.FollowRate*dt)
	zoomStep := 1 - math.Exp(-cam.settings.ZoomRate*dt)

	cam.lookAt = cam.lookAt.Add(center.Sub(cam.lookAt).Mul(followStep))
	cam.distance += (distance - cam.distance) * zoomStep
}

// LookAt returns the smoothed framing target.
func (cam *Camera) LookAt() mgl64.Vec3 {
	if cam == nil {
		return mgl64.Vec3{}
	}
	return cam.lookAt
}

// Position returns the camera position: the look-at target backed off along
// the view axis by the smoothed distance.
func (cam *Camera) Position() mgl64.Vec3 {
	if cam == nil {
		return mgl64.Vec3{}
	}
	return cam.lookAt.Add(mgl64.Vec3{0, 0, cam.distance})
}

// Distance returns the smoothed zoom distance.
func (cam *Camera) Distance() float64 {
	if cam == nil {
		return 0
	}
	return cam.distance
}
