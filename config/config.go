// Package config defines the structures used to configure an autonomous spline run.
package config

import (
	"github.com/golang/geo/r2"
	"go.viam.com/utils"

	"go.viam.com/splinedrive/planner"
	rutils "go.viam.com/splinedrive/utils"
)

const (
	// DefaultMaxAcceleration bounds wheel acceleration when the config does not.
	DefaultMaxAcceleration = 2.0
	// DefaultCurvatureGain is how strongly curvature slows the base when the config does not say.
	DefaultCurvatureGain = 1.0
)

// Waypoint is a field coordinate the path passes through. It may be written as {"x": 1, "y": 2} or [1, 2].
type Waypoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Config describes one autonomous run. All lengths share a unit (for example feet), times are seconds.
type Config struct {
	Waypoints       []Waypoint `json:"waypoints"`
	TotalTimeSec    float64    `json:"total_time_sec"`
	TimeStepSec     float64    `json:"time_step_sec"`
	TrackWidth      float64    `json:"track_width"`
	MaxAcceleration float64    `json:"max_acceleration,omitempty"`
	CurvatureGain   *float64   `json:"curvature_gain,omitempty"`
	MaxVelocity     float64    `json:"max_velocity,omitempty"`

	// WheelCircumference, when set, lets drivetrains translate velocities into RPM.
	WheelCircumference float64 `json:"wheel_circumference,omitempty"`
	// LoopPeriodSec is how often the control loop runs. Defaults to TimeStepSec.
	LoopPeriodSec float64 `json:"loop_period_sec,omitempty"`

	ConfigFilePath string `json:"-"`
}

// Default returns the demo run: four waypoints weaving up the field over 15 seconds
// on a base with a 2 ft track width.
func Default() *Config {
	gain := DefaultCurvatureGain
	cfg := &Config{
		Waypoints:       []Waypoint{{0, 1}, {1, 3}, {0, 5}, {1, 7}},
		TotalTimeSec:    15,
		TimeStepSec:     0.1,
		TrackWidth:      2,
		MaxAcceleration: DefaultMaxAcceleration,
		CurvatureGain:   &gain,
	}
	cfg.LoopPeriodSec = cfg.TimeStepSec
	return cfg
}

// Validate ensures all parts of the config are present and usable.
func (cfg *Config) Validate(path string) error {
	if len(cfg.Waypoints) == 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "waypoints")
	}
	if cfg.TotalTimeSec == 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "total_time_sec")
	}
	if cfg.TimeStepSec == 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "time_step_sec")
	}
	if cfg.TrackWidth == 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "track_width")
	}
	for _, field := range []struct {
		name  string
		value float64
	}{
		{"total_time_sec", cfg.TotalTimeSec},
		{"time_step_sec", cfg.TimeStepSec},
		{"track_width", cfg.TrackWidth},
		{"max_acceleration", cfg.MaxAcceleration},
		{"loop_period_sec", cfg.LoopPeriodSec},
	} {
		if !rutils.PositiveFinite(field.value) {
			return utils.NewConfigValidationError(path, rutils.NewNonPositiveError(field.name, field.value))
		}
	}
	if cfg.CurvatureGain != nil && *cfg.CurvatureGain < 0 {
		return utils.NewConfigValidationError(path,
			rutils.NewInvalidTimingError("curvature_gain", *cfg.CurvatureGain, "must be non-negative"))
	}
	if cfg.MaxVelocity < 0 {
		return utils.NewConfigValidationError(path,
			rutils.NewInvalidTimingError("max_velocity", cfg.MaxVelocity, "must be non-negative"))
	}
	if cfg.WheelCircumference < 0 {
		return utils.NewConfigValidationError(path,
			rutils.NewInvalidTimingError("wheel_circumference", cfg.WheelCircumference, "must be non-negative"))
	}
	return nil
}

// Ensure fills in defaults and validates the config. path names the config in errors.
func (cfg *Config) Ensure(path string) error {
	if cfg.MaxAcceleration == 0 {
		cfg.MaxAcceleration = DefaultMaxAcceleration
	}
	if cfg.CurvatureGain == nil {
		gain := DefaultCurvatureGain
		cfg.CurvatureGain = &gain
	}
	if cfg.LoopPeriodSec == 0 {
		cfg.LoopPeriodSec = cfg.TimeStepSec
	}
	return cfg.Validate(path)
}

// Points returns the waypoints as planar points.
func (cfg *Config) Points() []r2.Point {
	pts := make([]r2.Point, len(cfg.Waypoints))
	for i, wp := range cfg.Waypoints {
		pts[i] = r2.Point{X: wp.X, Y: wp.Y}
	}
	return pts
}

// PlannerParams converts the config into planning inputs.
func (cfg *Config) PlannerParams() planner.Params {
	gain := DefaultCurvatureGain
	if cfg.CurvatureGain != nil {
		gain = *cfg.CurvatureGain
	}
	return planner.Params{
		Waypoints:       cfg.Points(),
		TotalTime:       cfg.TotalTimeSec,
		TimeStep:        cfg.TimeStepSec,
		TrackWidth:      cfg.TrackWidth,
		MaxAcceleration: cfg.MaxAcceleration,
		CurvatureGain:   gain,
		MaxVelocity:     cfg.MaxVelocity,
	}
}
