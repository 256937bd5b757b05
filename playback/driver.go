package playback

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/splinedrive/drivetrain"
	"go.viam.com/splinedrive/trajectory"
	"go.viam.com/splinedrive/utils"
)

// DefaultJitterWindow is how many loop periods a Driver keeps for Stats.
const DefaultJitterWindow = 1024

// Summary describes how a playback run ended.
type Summary struct {
	Issued   int
	Samples  int
	Finished bool
	Loop     LoopStats
}

// Driver plays profiles back against a drivetrain on a fixed-period loop.
type Driver struct {
	clk    clock.Clock
	period time.Duration
	logger golog.Logger
	jitter *utils.RollingWindow
}

// NewDriver returns a driver ticking every period on clk, or on the system clock if clk is nil.
func NewDriver(clk clock.Clock, period time.Duration, logger golog.Logger) (*Driver, error) {
	if period <= 0 {
		return nil, utils.NewNonPositiveError("loop_period", period.Seconds())
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Driver{
		clk:    clk,
		period: period,
		logger: logger,
		jitter: utils.NewRollingWindow(DefaultJitterWindow),
	}, nil
}

// Jitter returns the most recent loop periods, oldest first.
func (d *Driver) Jitter() []float64 {
	return d.jitter.Values()
}

// Run plays profile back until every sample has been issued or ctx is done, then stops dt.
// It blocks on the calling goroutine. A cancelled run is discarded and reports ctx.Err().
func (d *Driver) Run(ctx context.Context, profile *trajectory.Profile, dt drivetrain.Drivetrain) (Summary, error) {
	run, err := NewRun(profile)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{Samples: run.Len()}
	d.jitter = utils.NewRollingWindow(d.jitter.NumSamples())

	timer := NewTimer(d.clk)
	ticker := d.clk.Ticker(d.period)
	defer ticker.Stop()
	timer.Start()
	defer timer.Stop()

	finish := func(runErr error) (Summary, error) {
		loop, err := Stats(d.jitter.Values())
		summary.Loop = loop
		summary.Finished = run.Finished() && summary.Issued == summary.Samples
		return summary, multierr.Combine(runErr, err)
	}

	for {
		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
		if ctx.Err() != nil {
			run.Abort()
			d.logger.Infow("playback aborted", "index", run.Index(), "samples", run.Len())
			// ctx is already done, so stopping has to use a fresh one.
			stopErr := dt.Stop(context.Background())
			return finish(multierr.Combine(ctx.Err(), errors.Wrap(stopErr, "stopping drivetrain")))
		}

		elapsed := timer.ElapsedSinceLastTick()
		d.jitter.Add(elapsed)
		cmd, ok := run.Tick(elapsed)
		if ok {
			d.logger.Debugw("dispatching", "index", cmd.Index, "time", cmd.Time, "left", cmd.Left, "right", cmd.Right)
			if err := dt.SetWheelVelocities(ctx, cmd.Left, cmd.Right); err != nil {
				run.Abort()
				stopErr := dt.Stop(context.Background())
				return finish(multierr.Combine(
					errors.Wrapf(err, "commanding sample %d", cmd.Index),
					errors.Wrap(stopErr, "stopping drivetrain"),
				))
			}
			summary.Issued++
		}
		if run.Finished() {
			d.logger.Infow("playback finished", "samples", summary.Issued, "duration", profile.Duration())
			return finish(errors.Wrap(dt.Stop(ctx), "stopping drivetrain"))
		}
	}
}
