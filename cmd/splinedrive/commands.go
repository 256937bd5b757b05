package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/splinedrive/config"
	"go.viam.com/splinedrive/drivetrain/fake"
	"go.viam.com/splinedrive/kinematics"
	"go.viam.com/splinedrive/planner"
	"go.viam.com/splinedrive/playback"
)

// loadConfig reads the --config file, or returns the demo run when none is given.
func loadConfig(path string, logger golog.Logger) (*config.Config, error) {
	if path == "" {
		cfg := config.Default()
		if err := cfg.Ensure("default"); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return config.Read(path, logger)
}

func planFromFlags(c *cli.Context, logger golog.Logger) (*config.Config, *planner.Result, error) {
	cfg, err := loadConfig(c.String(flagConfig), logger)
	if err != nil {
		return nil, nil, err
	}
	res, err := buildPlan(c.Context, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, res, nil
}

func buildPlan(ctx context.Context, cfg *config.Config, logger golog.Logger) (*planner.Result, error) {
	return planner.Build(ctx, cfg.PlannerParams(), logger)
}

func planAction(c *cli.Context, logger golog.Logger) error {
	cfg, res, err := planFromFlags(c, logger)
	if err != nil {
		return err
	}
	every := c.Int(flagEvery)
	if every < 1 {
		return errors.Errorf("--%s must be at least 1, got %d", flagEvery, every)
	}
	fmt.Fprint(c.App.Writer, planTable(res, every, cfg.WheelCircumference))
	fmt.Fprintf(c.App.Writer, "path length %.3f, %d samples, peak wheel speed %.3f\n",
		res.Curve.Length(), res.Profile.Len(), res.Profile.PeakVelocity())
	return nil
}

func plotAction(c *cli.Context, logger golog.Logger) error {
	_, res, err := planFromFlags(c, logger)
	if err != nil {
		return err
	}
	if err := savePathPlot(res, c.String(flagPathOut)); err != nil {
		return err
	}
	if err := saveVelocityPlot(res, c.String(flagVelocityOut)); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "wrote %s and %s\n", c.String(flagPathOut), c.String(flagVelocityOut))
	return nil
}

func simulateAction(c *cli.Context, logger golog.Logger) error {
	cfg, res, err := planFromFlags(c, logger)
	if err != nil {
		return err
	}
	var clk clock.Clock = clock.New()
	var mock *clock.Mock
	if !c.Bool(flagRealtime) {
		mock = clock.NewMock()
		clk = mock
	}
	report, err := simulate(c.Context, clk, mock, cfg, res, logger)
	if err != nil {
		return err
	}
	fmt.Fprint(c.App.Writer, report.String())
	if len(report.periods) > 0 {
		bins := c.Int(flagBins)
		if bins < 1 {
			bins = 1
		}
		fmt.Fprintln(c.App.Writer, "loop period histogram (s):")
		return histogram.Fprint(c.App.Writer, histogram.Hist(bins, report.periods), histogram.Linear(40))
	}
	return nil
}

type simulationReport struct {
	summary  playback.Summary
	pose     fake.Pose
	target   fake.Pose
	distance float64
	length   float64
	periods  []float64
}

func (r simulationReport) String() string {
	return fmt.Sprintf(
		"issued %d/%d samples (finished=%t)\n"+
			"final pose (%.3f, %.3f) heading %.3f, path end (%.3f, %.3f) heading %.3f\n"+
			"travelled %.3f of %.3f\n"+
			"loop period mean %.4fs stddev %.4fs p95 %.4fs max %.4fs over %d ticks\n",
		r.summary.Issued, r.summary.Samples, r.summary.Finished,
		r.pose.Position.X, r.pose.Position.Y, r.pose.Heading,
		r.target.Position.X, r.target.Position.Y, r.target.Heading,
		r.distance, r.length,
		r.summary.Loop.Mean, r.summary.Loop.StdDev, r.summary.Loop.P95, r.summary.Loop.Max, r.summary.Loop.Ticks,
	)
}

// simulate plays res back against a fake drivetrain. With a mock clock, time is advanced one
// loop period at a time until playback returns.
func simulate(
	ctx context.Context,
	clk clock.Clock,
	mock *clock.Mock,
	cfg *config.Config,
	res *planner.Result,
	logger golog.Logger,
) (simulationReport, error) {
	dd, err := kinematics.NewDifferentialDrive(cfg.TrackWidth)
	if err != nil {
		return simulationReport{}, err
	}
	first, last := res.Samples[0], res.Samples[len(res.Samples)-1]
	base := fake.NewDrivetrain(clk, dd, fake.Pose{Position: first.Position, Heading: first.Heading}, logger)
	base.WheelCircumference = cfg.WheelCircumference

	period := time.Duration(cfg.LoopPeriodSec * float64(time.Second))
	driver, err := playback.NewDriver(clk, period, logger)
	if err != nil {
		return simulationReport{}, err
	}

	type result struct {
		summary playback.Summary
		err     error
	}
	done := make(chan result, 1)
	go func() {
		summary, err := driver.Run(ctx, res.Profile, base)
		done <- result{summary, err}
	}()

	var out result
	if mock == nil {
		out = <-done
	} else {
	loop:
		for {
			select {
			case out = <-done:
				break loop
			default:
				mock.Add(period)
			}
		}
	}

	report := simulationReport{
		summary:  out.summary,
		pose:     base.Pose(),
		target:   fake.Pose{Position: last.Position, Heading: last.Heading},
		distance: base.Distance(),
		length:   res.Curve.Length(),
		periods:  driver.Jitter(),
	}
	return report, out.err
}
