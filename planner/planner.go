// Package planner runs the planning pipeline for one autonomous run: it fits a path through
// waypoints, samples it in time, converts it to wheel velocities and smooths them.
package planner

import (
	"context"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"go.viam.com/splinedrive/control"
	"go.viam.com/splinedrive/kinematics"
	"go.viam.com/splinedrive/spline"
	"go.viam.com/splinedrive/trajectory"
	"go.viam.com/splinedrive/utils"
)

// Params are the inputs for planning a single run. Lengths share one unit, times are in seconds.
type Params struct {
	Waypoints       []r2.Point
	TotalTime       float64
	TimeStep        float64
	TrackWidth      float64
	MaxAcceleration float64
	CurvatureGain   float64
	MaxVelocity     float64
}

// Validate checks the timing and physical parameters. Waypoints are checked when the path is built.
func (p Params) Validate() error {
	for _, field := range []struct {
		name  string
		value float64
	}{
		{"total_time", p.TotalTime},
		{"time_step", p.TimeStep},
		{"track_width", p.TrackWidth},
		{"max_acceleration", p.MaxAcceleration},
	} {
		if !utils.PositiveFinite(field.value) {
			return utils.NewNonPositiveError(field.name, field.value)
		}
	}
	return nil
}

// Result holds every intermediate product of planning. Only Profile is needed for playback.
type Result struct {
	Curve    *spline.Curve
	Samples  []trajectory.Sample
	RawLeft  []trajectory.TimedVelocity
	RawRight []trajectory.TimedVelocity
	Profile  *trajectory.Profile
}

// Plan returns the wheel velocity profile for params. The caller owns the returned profile.
func Plan(ctx context.Context, params Params, logger golog.Logger) (*trajectory.Profile, error) {
	res, err := Build(ctx, params, logger)
	if err != nil {
		return nil, err
	}
	return res.Profile, nil
}

// Build runs the full pipeline and keeps the intermediate results.
func Build(ctx context.Context, params Params, logger golog.Logger) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	curve, err := spline.NewCurve(params.Waypoints)
	if err != nil {
		return nil, errors.Wrap(err, "building path")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	drive, err := kinematics.NewDifferentialDrive(params.TrackWidth)
	if err != nil {
		return nil, err
	}

	samples, err := trajectory.SampleCurve(curve, params.TotalTime, params.TimeStep, trajectory.SamplerOptions{
		CurvatureGain: params.CurvatureGain,
		MaxVelocity:   params.MaxVelocity,
	})
	if err != nil {
		return nil, errors.Wrap(err, "sampling path")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rawLeft, rawRight := drive.Convert(samples)
	profile, err := control.SmoothProfile(rawLeft, rawRight, params.MaxAcceleration, params.TimeStep)
	if err != nil {
		return nil, errors.Wrap(err, "smoothing wheel velocities")
	}

	logger.Debugw("planned wheel velocity profile",
		"waypoints", len(params.Waypoints),
		"path_length", curve.Length(),
		"samples", profile.Len(),
		"duration", profile.Duration(),
		"peak_velocity", profile.PeakVelocity(),
	)
	return &Result{
		Curve:    curve,
		Samples:  samples,
		RawLeft:  rawLeft,
		RawRight: rawRight,
		Profile:  profile,
	}, nil
}
