package playback

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/test"

	"go.viam.com/splinedrive/trajectory"
	"go.viam.com/splinedrive/utils"
)

func rampProfile(n int, timeStep float64) *trajectory.Profile {
	p := &trajectory.Profile{TimeStep: timeStep}
	for i := 0; i < n; i++ {
		tm := float64(i) * timeStep
		p.Left = append(p.Left, trajectory.TimedVelocity{Time: tm, Velocity: float64(i)})
		p.Right = append(p.Right, trajectory.TimedVelocity{Time: tm, Velocity: -float64(i)})
	}
	return p
}

func TestNewRunErrors(t *testing.T) {
	_, err := NewRun(nil)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewRun(&trajectory.Profile{TimeStep: 0.1})
	test.That(t, err, test.ShouldNotBeNil)

	p := rampProfile(3, 0.1)
	p.Right = p.Right[:2]
	_, err = NewRun(p)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "differ in length")

	_, err = NewRun(rampProfile(3, 0))
	test.That(t, utils.IsInvalidTiming(err), test.ShouldBeTrue)
}

func TestRunTick(t *testing.T) {
	run, err := NewRun(rampProfile(3, 0.1))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, run.Index(), test.ShouldEqual, 0)
	test.That(t, run.Len(), test.ShouldEqual, 3)

	_, ok := run.Tick(0.05)
	test.That(t, ok, test.ShouldBeFalse)
	test.That(t, run.Accumulator(), test.ShouldAlmostEqual, 0.05)

	cmd, ok := run.Tick(0.07)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, cmd, test.ShouldResemble, Command{Index: 0, Time: 0, Left: 0, Right: 0})
	test.That(t, run.Accumulator(), test.ShouldAlmostEqual, 0.02)

	// a long stall still only advances one sample and keeps the overrun
	cmd, ok = run.Tick(0.5)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, cmd.Index, test.ShouldEqual, 1)
	test.That(t, cmd.Left, test.ShouldEqual, 1)
	test.That(t, cmd.Right, test.ShouldEqual, -1)
	test.That(t, run.Accumulator(), test.ShouldAlmostEqual, 0.42)
	test.That(t, run.Finished(), test.ShouldBeFalse)

	cmd, ok = run.Tick(0)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, cmd.Index, test.ShouldEqual, 2)
	test.That(t, run.Finished(), test.ShouldBeTrue)
	test.That(t, run.Index(), test.ShouldEqual, 3)

	acc := run.Accumulator()
	_, ok = run.Tick(10)
	test.That(t, ok, test.ShouldBeFalse)
	test.That(t, run.Index(), test.ShouldEqual, 3)
	test.That(t, run.Accumulator(), test.ShouldEqual, acc)
}

func TestRunExactStep(t *testing.T) {
	run, err := NewRun(rampProfile(2, 0.25))
	test.That(t, err, test.ShouldBeNil)
	cmd, ok := run.Tick(0.25)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, cmd.Index, test.ShouldEqual, 0)
	test.That(t, run.Accumulator(), test.ShouldEqual, 0)
}

func TestRunIgnoresBadDt(t *testing.T) {
	run, err := NewRun(rampProfile(2, 0.1))
	test.That(t, err, test.ShouldBeNil)
	_, ok := run.Tick(-1)
	test.That(t, ok, test.ShouldBeFalse)
	test.That(t, run.Accumulator(), test.ShouldEqual, 0)
}

func TestRunAbort(t *testing.T) {
	run, err := NewRun(rampProfile(5, 0.1))
	test.That(t, err, test.ShouldBeNil)
	_, ok := run.Tick(0.1)
	test.That(t, ok, test.ShouldBeTrue)
	run.Abort()
	test.That(t, run.Finished(), test.ShouldBeTrue)
	_, ok = run.Tick(1)
	test.That(t, ok, test.ShouldBeFalse)
	test.That(t, run.Index(), test.ShouldEqual, 1)
}

func TestTimedPlayback(t *testing.T) {
	mock := clock.NewMock()
	timer := NewTimer(mock)
	run, err := NewRun(rampProfile(151, 0.1))
	test.That(t, err, test.ShouldBeNil)

	timer.Start()
	for i := 0; i < 151; i++ {
		test.That(t, run.Finished(), test.ShouldBeFalse)
		mock.Add(100 * time.Millisecond)
		cmd, ok := run.Tick(timer.ElapsedSinceLastTick())
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, cmd.Index, test.ShouldEqual, i)
		test.That(t, cmd.Left, test.ShouldEqual, float64(i))
	}
	test.That(t, run.Finished(), test.ShouldBeTrue)
	test.That(t, run.Index(), test.ShouldEqual, 151)

	mock.Add(100 * time.Millisecond)
	_, ok := run.Tick(timer.ElapsedSinceLastTick())
	test.That(t, ok, test.ShouldBeFalse)
	test.That(t, run.Index(), test.ShouldEqual, 151)
}

func TestJitteryPlayback(t *testing.T) {
	run, err := NewRun(rampProfile(4, 0.1))
	test.That(t, err, test.ShouldBeNil)

	var issued []int
	for _, dt := range []float64{0.09, 0.12, 0.1, 0.08, 0.11, 0.1} {
		if cmd, ok := run.Tick(dt); ok {
			issued = append(issued, cmd.Index)
		}
	}
	// 0.09 | 0.21->0.11 | 0.21->0.11 | 0.19->0.09 | 0.20->0.10 done
	test.That(t, issued, test.ShouldResemble, []int{0, 1, 2, 3})
	test.That(t, run.Finished(), test.ShouldBeTrue)
}
