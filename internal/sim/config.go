package sim

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

const (
	defaultServerURL = "ws://localhost:3000/ws"
	defaultStageMode = "side-view"
)

// Config captures the client-side tunables loaded from client.ini. Every
// field has a working default so a missing file or section degrades to the
// stock experience.
type Config struct {
	ServerURL string
	StageMode string // "side-view" or "arena"

	LeftBound  float64
	RightBound float64
	Radius     float64

	Separation SeparationSettings
	Camera     CameraSettings
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		ServerURL:  defaultServerURL,
		StageMode:  defaultStageMode,
		LeftBound:  stageLeftBound,
		RightBound: stageRightBound,
		Radius:     arenaRadius,
		Separation: DefaultSeparationSettings(),
		Camera:     DefaultCameraSettings(),
	}
}

// normalized returns a config with defaults applied to any zero or invalid
// field.
func (cfg Config) normalized() Config {
	normalized := cfg
	normalized.ServerURL = strings.TrimSpace(normalized.ServerURL)
	if normalized.ServerURL == "" {
		normalized.ServerURL = defaultServerURL
	}
	switch normalized.StageMode {
	case "side-view", "arena":
	default:
		normalized.StageMode = defaultStageMode
	}
	if normalized.LeftBound >= normalized.RightBound {
		normalized.LeftBound = stageLeftBound
		normalized.RightBound = stageRightBound
	}
	if normalized.Radius <= 0 {
		normalized.Radius = arenaRadius
	}
	if normalized.Separation.Radius <= 0 {
		normalized.Separation = DefaultSeparationSettings()
	}
	if normalized.Camera.MinDistance <= 0 || normalized.Camera.MaxDistance <= normalized.Camera.MinDistance {
		normalized.Camera = DefaultCameraSettings()
	}
	return normalized
}

// Stage builds the geometry strategy the config selects.
func (cfg Config) Stage() StageGeometry {
	if cfg.StageMode == "arena" {
		return ArenaStage{Radius: cfg.Radius}
	}
	return SideViewStage{LeftBound: cfg.LeftBound, RightBound: cfg.RightBound}
}

// LoadConfig reads client.ini, falling back to defaults for anything the
// file leaves out.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	file, err := ini.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}

	network := file.Section("network")
	cfg.ServerURL = network.Key("server_url").MustString(cfg.ServerURL)

	stage := file.Section("stage")
	cfg.StageMode = stage.Key("mode").MustString(cfg.StageMode)
	cfg.LeftBound = stage.Key("left_bound").MustFloat64(cfg.LeftBound)
	cfg.RightBound = stage.Key("right_bound").MustFloat64(cfg.RightBound)
	cfg.Radius = stage.Key("radius").MustFloat64(cfg.Radius)

	separation := file.Section("separation")
	cfg.Separation.Radius = separation.Key("radius").MustFloat64(cfg.Separation.Radius)
	cfg.Separation.OverlapY = separation.Key("overlap_y").MustFloat64(cfg.Separation.OverlapY)
	cfg.Separation.MaxPush = separation.Key("max_push").MustFloat64(cfg.Separation.MaxPush)
	cfg.Separation.Escape = separation.Key("escape_speed").MustFloat64(cfg.Separation.Escape)

	camera := file.Section("camera")
	cfg.Camera.FOVDegrees = camera.Key("fov").MustFloat64(cfg.Camera.FOVDegrees)
	cfg.Camera.PaddingX = camera.Key("padding_x").MustFloat64(cfg.Camera.PaddingX)
	cfg.Camera.PaddingY = camera.Key("padding_y").MustFloat64(cfg.Camera.PaddingY)
	cfg.Camera.PaddingBias = camera.Key("padding_bias").MustFloat64(cfg.Camera.PaddingBias)
	cfg.Camera.MinDistance = camera.Key("min_distance").MustFloat64(cfg.Camera.MinDistance)
	cfg.Camera.MaxDistance = camera.Key("max_distance").MustFloat64(cfg.Camera.MaxDistance)
	cfg.Camera.FollowRate = camera.Key("follow_rate").MustFloat64(cfg.Camera.FollowRate)
	cfg.Camera.ZoomRate = camera.Key("zoom_rate").MustFloat64(cfg.Camera.ZoomRate)

	return cfg.normalized(), nil
}

// DefaultPlatforms returns the stock side-view stage layout: the main
// ground first, then the one-way floating platforms.
func DefaultPlatforms() []Platform {
	return []Platform{
		{CenterX: 0, Width: 20, Height: groundHeight, Main: true},
		{CenterX: -5, Width: 4, Height: 2.5},
		{CenterX: 5, Width: 4, Height: 2.5},
		{CenterX: 0, Width: 3, Height: 4.5},
	}
}
