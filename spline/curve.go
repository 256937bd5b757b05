// Package spline fits smooth planar curves through ordered waypoints.
package spline

import (
	"math"
	"sort"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"

	"go.viam.com/splinedrive/utils"
)

const (
	// number of arc length table entries between two consecutive knots.
	arcSamplesPerChord = 64
	// finite difference step for the second derivative, as a fraction of the parameter domain.
	derivativeStepFraction = 1e-6
	minSpeed               = 1e-12
)

// State is the geometry of a curve at a single point.
type State struct {
	Position r2.Point
	// Heading is the direction of travel in radians, counter-clockwise from +X.
	Heading float64
	// Curvature is the signed rate of heading change per unit arc length. Positive turns left.
	Curvature float64
}

// Curve is a C2 piecewise cubic through a sequence of waypoints, parameterized by cumulative chord length.
// A Curve is immutable once built.
type Curve struct {
	waypoints      []r2.Point
	waypointParams []float64

	x, y interp.NaturalCubic
	end  float64

	// arc length table, params[i] maps to dists[i].
	params []float64
	dists  []float64
}

// NewCurve fits a curve passing through every waypoint in order.
func NewCurve(waypoints []r2.Point) (*Curve, error) {
	if len(waypoints) < 2 {
		return nil, utils.NewInvalidPathError("need at least 2 waypoints, got %d", len(waypoints))
	}
	knots := make([]float64, len(waypoints))
	for i, wp := range waypoints {
		if !utils.IsFinite(wp.X) || !utils.IsFinite(wp.Y) {
			return nil, utils.NewInvalidPathError("waypoint %d (%v) is not finite", i, wp)
		}
		if i == 0 {
			continue
		}
		chord := wp.Sub(waypoints[i-1]).Norm()
		if chord == 0 {
			return nil, utils.NewInvalidPathError("waypoints %d and %d coincide at %v", i-1, i, wp)
		}
		knots[i] = knots[i-1] + chord
	}

	c := &Curve{
		waypoints:      append([]r2.Point(nil), waypoints...),
		waypointParams: knots,
		end:            knots[len(knots)-1],
	}

	fitKnots, fitPoints := knots, waypoints
	if len(waypoints) == 2 {
		// a cubic fit needs three knots; the chord midpoint keeps the curve straight.
		mid := waypoints[0].Add(waypoints[1]).Mul(0.5)
		fitKnots = []float64{0, knots[1] / 2, knots[1]}
		fitPoints = []r2.Point{waypoints[0], mid, waypoints[1]}
	}
	xs := make([]float64, len(fitPoints))
	ys := make([]float64, len(fitPoints))
	for i, p := range fitPoints {
		xs[i] = p.X
		ys[i] = p.Y
	}
	if err := c.x.Fit(fitKnots, xs); err != nil {
		return nil, errors.Wrap(err, "fitting x spline")
	}
	if err := c.y.Fit(fitKnots, ys); err != nil {
		return nil, errors.Wrap(err, "fitting y spline")
	}

	c.buildArcTable()
	if length := c.Length(); !utils.PositiveFinite(length) {
		return nil, utils.NewInvalidPathError("curve has degenerate arc length %v", length)
	}
	return c, nil
}

// buildArcTable integrates |P'| with the trapezoid rule over a fine subdivision of every chord.
func (c *Curve) buildArcTable() {
	n := (len(c.waypointParams)-1)*arcSamplesPerChord + 1
	c.params = make([]float64, 0, n)
	for i := 0; i+1 < len(c.waypointParams); i++ {
		lo, hi := c.waypointParams[i], c.waypointParams[i+1]
		for k := 0; k < arcSamplesPerChord; k++ {
			c.params = append(c.params, lo+(hi-lo)*float64(k)/arcSamplesPerChord)
		}
	}
	c.params = append(c.params, c.end)

	speeds := make([]float64, len(c.params))
	for i, t := range c.params {
		speeds[i] = math.Hypot(c.x.PredictDerivative(t), c.y.PredictDerivative(t))
	}
	increments := make([]float64, len(c.params))
	for i := 1; i < len(c.params); i++ {
		increments[i] = (c.params[i] - c.params[i-1]) * (speeds[i] + speeds[i-1]) / 2
	}
	c.dists = floats.CumSum(make([]float64, len(increments)), increments)
}

// Length returns the total arc length of the curve.
func (c *Curve) Length() float64 {
	return c.dists[len(c.dists)-1]
}

// Waypoints returns a copy of the waypoints the curve was fit through.
func (c *Curve) Waypoints() []r2.Point {
	return append([]r2.Point(nil), c.waypoints...)
}

// WaypointParams returns the curve parameter at which each waypoint is reached.
func (c *Curve) WaypointParams() []float64 {
	return append([]float64(nil), c.waypointParams...)
}

// ParamDomain returns the upper end of the parameter domain; the lower end is always 0.
func (c *Curve) ParamDomain() float64 {
	return c.end
}

// At evaluates the curve at parameter t, clamped to [0, ParamDomain()].
func (c *Curve) At(t float64) State {
	t = utils.Clamp(t, 0, c.end)
	dx, dy := c.x.PredictDerivative(t), c.y.PredictDerivative(t)
	ddx, ddy := c.secondDerivative(t)

	st := State{Position: r2.Point{X: c.x.Predict(t), Y: c.y.Predict(t)}}
	speed := math.Hypot(dx, dy)
	if speed < minSpeed {
		return st
	}
	st.Heading = math.Atan2(dy, dx)
	st.Curvature = (dx*ddy - dy*ddx) / (speed * speed * speed)
	return st
}

// AtDistance evaluates the curve at arc length s, clamped to [0, Length()].
func (c *Curve) AtDistance(s float64) State {
	return c.At(c.ParamAtDistance(s))
}

// AtNormalized evaluates the curve at u in [0, 1], where 0 is the first waypoint and 1 the last.
func (c *Curve) AtNormalized(u float64) State {
	return c.AtDistance(utils.Clamp(u, 0, 1) * c.Length())
}

// ParamAtDistance inverts the arc length table.
func (c *Curve) ParamAtDistance(s float64) float64 {
	s = utils.Clamp(s, 0, c.Length())
	i := sort.SearchFloat64s(c.dists, s)
	if i == 0 {
		return c.params[0]
	}
	if i >= len(c.dists) {
		return c.end
	}
	span := c.dists[i] - c.dists[i-1]
	if span <= 0 {
		return c.params[i]
	}
	frac := (s - c.dists[i-1]) / span
	return c.params[i-1] + frac*(c.params[i]-c.params[i-1])
}

// Points returns n positions evenly spaced in arc length, including both ends.
func (c *Curve) Points(n int) []r2.Point {
	if n < 2 {
		n = 2
	}
	pts := make([]r2.Point, n)
	for i := range pts {
		pts[i] = c.AtNormalized(float64(i) / float64(n-1)).Position
	}
	return pts
}

func (c *Curve) secondDerivative(t float64) (float64, float64) {
	h := c.end * derivativeStepFraction
	lo, hi := t-h, t+h
	if lo < 0 {
		lo = t
	}
	if hi > c.end {
		hi = t
	}
	span := hi - lo
	ddx := (c.x.PredictDerivative(hi) - c.x.PredictDerivative(lo)) / span
	ddy := (c.y.PredictDerivative(hi) - c.y.PredictDerivative(lo)) / span
	return ddx, ddy
}
