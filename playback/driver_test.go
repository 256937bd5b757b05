package playback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"go.viam.com/test"

	"go.viam.com/splinedrive/testutils/inject"
	"go.viam.com/splinedrive/trajectory"
	"go.viam.com/splinedrive/utils"
)

const testPeriod = 100 * time.Millisecond

type wheelCommand struct {
	left, right float64
}

// recordingDrivetrain stores every command; it is only read after the driver has returned.
func recordingDrivetrain() (*inject.Drivetrain, *[]wheelCommand, *int) {
	var commands []wheelCommand
	var stops int
	dt := &inject.Drivetrain{}
	dt.SetWheelVelocitiesFunc = func(ctx context.Context, left, right float64) error {
		commands = append(commands, wheelCommand{left, right})
		return nil
	}
	dt.StopFunc = func(ctx context.Context) error {
		stops++
		return nil
	}
	return dt, &commands, &stops
}

func driveWithMock(
	t *testing.T,
	ctx context.Context,
	mock *clock.Mock,
	d *Driver,
	profile *trajectory.Profile,
	dt *inject.Drivetrain,
) (Summary, error) {
	t.Helper()
	type result struct {
		summary Summary
		err     error
	}
	done := make(chan result, 1)
	go func() {
		summary, err := d.Run(ctx, profile, dt)
		done <- result{summary, err}
	}()
	for i := 0; i < 10000; i++ {
		select {
		case res := <-done:
			return res.summary, res.err
		default:
		}
		mock.Add(testPeriod)
	}
	t.Fatal("driver did not return")
	return Summary{}, nil
}

func zeroEndedProfile() *trajectory.Profile {
	p := rampProfile(11, 0.1)
	for i := range p.Left {
		v := float64(5 - abs(5-i))
		p.Left[i].Velocity = v
		p.Right[i].Velocity = 2 * v
	}
	return p
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

func TestNewDriver(t *testing.T) {
	_, err := NewDriver(clock.NewMock(), 0, golog.NewTestLogger(t))
	test.That(t, utils.IsInvalidTiming(err), test.ShouldBeTrue)

	d, err := NewDriver(nil, testPeriod, golog.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d.Jitter(), test.ShouldBeEmpty)
}

func TestDriverPlaysWholeProfile(t *testing.T) {
	mock := clock.NewMock()
	logger, logs := golog.NewObservedTestLogger(t)
	d, err := NewDriver(mock, testPeriod, logger)
	test.That(t, err, test.ShouldBeNil)

	dt, commands, stops := recordingDrivetrain()
	profile := zeroEndedProfile()
	summary, err := driveWithMock(t, context.Background(), mock, d, profile, dt)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, summary.Finished, test.ShouldBeTrue)
	test.That(t, summary.Issued, test.ShouldEqual, 11)
	test.That(t, summary.Samples, test.ShouldEqual, 11)
	test.That(t, *stops, test.ShouldEqual, 1)

	test.That(t, *commands, test.ShouldHaveLength, 11)
	for i, c := range *commands {
		l, r := profile.At(i)
		test.That(t, c, test.ShouldResemble, wheelCommand{l, r})
	}
	test.That(t, (*commands)[10], test.ShouldResemble, wheelCommand{0, 0})

	test.That(t, summary.Loop.Ticks, test.ShouldBeGreaterThanOrEqualTo, 11)
	test.That(t, summary.Loop.Ticks, test.ShouldEqual, len(d.Jitter()))
	test.That(t, logs.FilterMessage("dispatching").Len(), test.ShouldEqual, 11)
	test.That(t, logs.FilterMessage("playback finished").Len(), test.ShouldEqual, 1)
}

func TestDriverCancel(t *testing.T) {
	mock := clock.NewMock()
	d, err := NewDriver(mock, testPeriod, golog.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dt, commands, stops := recordingDrivetrain()
	record := dt.SetWheelVelocitiesFunc
	dt.SetWheelVelocitiesFunc = func(ctx context.Context, left, right float64) error {
		if err := record(ctx, left, right); err != nil {
			return err
		}
		if len(*commands) == 3 {
			cancel()
		}
		return nil
	}

	summary, err := driveWithMock(t, ctx, mock, d, zeroEndedProfile(), dt)
	test.That(t, errors.Is(err, context.Canceled), test.ShouldBeTrue)
	test.That(t, summary.Finished, test.ShouldBeFalse)
	test.That(t, summary.Issued, test.ShouldEqual, 3)
	test.That(t, *commands, test.ShouldHaveLength, 3)
	test.That(t, *stops, test.ShouldEqual, 1)
}

func TestDriverDrivetrainFailure(t *testing.T) {
	mock := clock.NewMock()
	d, err := NewDriver(mock, testPeriod, golog.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	dt, _, stops := recordingDrivetrain()
	calls := 0
	dt.SetWheelVelocitiesFunc = func(ctx context.Context, left, right float64) error {
		calls++
		if calls == 2 {
			return errors.New("motor fault")
		}
		return nil
	}
	dt.StopFunc = func(ctx context.Context) error {
		*stops++
		return errors.New("stop fault")
	}

	summary, err := driveWithMock(t, context.Background(), mock, d, zeroEndedProfile(), dt)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "commanding sample 1: motor fault")
	test.That(t, err.Error(), test.ShouldContainSubstring, "stopping drivetrain: stop fault")
	test.That(t, summary.Finished, test.ShouldBeFalse)
	test.That(t, summary.Issued, test.ShouldEqual, 1)
	test.That(t, *stops, test.ShouldEqual, 1)
}

func TestDriverRejectsEmptyProfile(t *testing.T) {
	d, err := NewDriver(clock.NewMock(), testPeriod, golog.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	dt, commands, stops := recordingDrivetrain()
	_, err = d.Run(context.Background(), &trajectory.Profile{TimeStep: 0.1}, dt)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, *commands, test.ShouldBeEmpty)
	test.That(t, *stops, test.ShouldEqual, 0)
}
