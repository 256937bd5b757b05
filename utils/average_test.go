package utils

import (
	"testing"

	"go.viam.com/test"
)

func TestRollingWindow(t *testing.T) {
	rw := NewRollingWindow(3)
	test.That(t, rw.NumSamples(), test.ShouldEqual, 3)
	test.That(t, rw.Average(), test.ShouldEqual, 0)
	test.That(t, rw.Values(), test.ShouldBeEmpty)

	rw.Add(1)
	rw.Add(2)
	test.That(t, rw.Len(), test.ShouldEqual, 2)
	test.That(t, rw.Values(), test.ShouldResemble, []float64{1, 2})

	rw.Add(3)
	rw.Add(4)
	test.That(t, rw.Len(), test.ShouldEqual, 3)
	test.That(t, rw.Values(), test.ShouldResemble, []float64{2, 3, 4})
	test.That(t, rw.Average(), test.ShouldEqual, 3)
}
