package playback

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/test"
)

func TestTimer(t *testing.T) {
	mock := clock.NewMock()
	timer := NewTimer(mock)
	test.That(t, timer.State(), test.ShouldEqual, Idle)
	test.That(t, timer.State().String(), test.ShouldEqual, "idle")

	mock.Add(time.Second)
	test.That(t, timer.ElapsedSinceLastTick(), test.ShouldEqual, 0)

	timer.Start()
	test.That(t, timer.State(), test.ShouldEqual, Running)
	mock.Add(250 * time.Millisecond)
	test.That(t, timer.ElapsedSinceLastTick(), test.ShouldAlmostEqual, 0.25)
	mock.Add(100 * time.Millisecond)
	test.That(t, timer.ElapsedSinceLastTick(), test.ShouldAlmostEqual, 0.1)
	test.That(t, timer.ElapsedSinceLastTick(), test.ShouldEqual, 0)

	timer.Stop()
	test.That(t, timer.State(), test.ShouldEqual, Idle)
	mock.Add(time.Second)
	test.That(t, timer.ElapsedSinceLastTick(), test.ShouldEqual, 0)

	t.Run("restart resets reference", func(t *testing.T) {
		timer.Start()
		mock.Add(50 * time.Millisecond)
		test.That(t, timer.ElapsedSinceLastTick(), test.ShouldAlmostEqual, 0.05)
	})
}
