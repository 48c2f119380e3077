package sim

import "peleadepeluches/client/internal/telemetry"

// Deps carries the cross-cutting collaborators injected into the world.
type Deps struct {
	Logger  telemetry.Logger
	Metrics telemetry.Metrics
}

// normalized fills missing collaborators with no-op implementations.
func (d Deps) normalized() Deps {
	if d.Logger == nil {
		d.Logger = telemetry.NopLogger{}
	}
	if d.Metrics == nil {
		d.Metrics = telemetry.NopMetrics{}
	}
	return d
}
