package trajectory

import (
	"fmt"
	"math"
	"sort"

	"go.viam.com/splinedrive/spline"
	"go.viam.com/splinedrive/utils"
)

const (
	// lower bound on the number of entries in the distance-to-time table.
	minTimeTableSize = 1024
	// upper bound on samples per run, keeps a bad time step from exhausting memory.
	maxSamples = 1 << 20
)

// SamplerOptions tunes the velocity plan used to walk the curve.
type SamplerOptions struct {
	// CurvatureGain scales how strongly curvature slows the vehicle, in units of length.
	// Linear speed is proportional to 1/(1+CurvatureGain*|curvature|). Zero gives constant speed.
	CurvatureGain float64
	// MaxVelocity, when positive, is the highest linear speed the plan may ask for.
	MaxVelocity float64
}

// NumSamples returns round(totalTime/timeStep)+1.
func NumSamples(totalTime, timeStep float64) int {
	return int(math.Round(totalTime/timeStep)) + 1
}

// SampleCurve discretizes curve into NumSamples(totalTime, timeStep) samples at timestamps
// 0, timeStep, 2*timeStep, ..., totalTime. The whole curve is traversed in totalTime.
func SampleCurve(curve *spline.Curve, totalTime, timeStep float64, opts SamplerOptions) ([]Sample, error) {
	if err := validateTiming(totalTime, timeStep, opts); err != nil {
		return nil, err
	}
	n := NumSamples(totalTime, timeStep)
	if n > maxSamples {
		return nil, utils.NewInvalidTimingError("time_step", timeStep,
			fmt.Sprintf("yields %d samples, more than the %d allowed", n, maxSamples))
	}

	plan := newVelocityPlan(curve, totalTime, opts.CurvatureGain, n)
	samples := make([]Sample, n)
	for i := range samples {
		t := float64(i) * timeStep
		if i == n-1 {
			t = totalTime
		}
		s := plan.distanceAt(t)
		st := curve.AtDistance(s)
		v := plan.speed(st.Curvature)
		samples[i] = Sample{
			Time:            t,
			Position:        st.Position,
			Heading:         st.Heading,
			Distance:        s,
			LinearVelocity:  v,
			AngularVelocity: v * st.Curvature,
			Curvature:       st.Curvature,
		}
		if opts.MaxVelocity > 0 && v > opts.MaxVelocity {
			return nil, utils.NewInvalidTimingError("total_time", totalTime,
				fmt.Sprintf("needs linear velocity %.4f at t=%.3f, above max velocity %.4f", v, t, opts.MaxVelocity))
		}
	}
	return samples, nil
}

func validateTiming(totalTime, timeStep float64, opts SamplerOptions) error {
	if !utils.PositiveFinite(totalTime) {
		return utils.NewNonPositiveError("total_time", totalTime)
	}
	if !utils.PositiveFinite(timeStep) {
		return utils.NewNonPositiveError("time_step", timeStep)
	}
	if timeStep > totalTime {
		return utils.NewInvalidTimingError("time_step", timeStep, "must not exceed total_time")
	}
	if !utils.IsFinite(opts.CurvatureGain) || opts.CurvatureGain < 0 {
		return utils.NewInvalidTimingError("curvature_gain", opts.CurvatureGain, "must be non-negative and finite")
	}
	if !utils.IsFinite(opts.MaxVelocity) || opts.MaxVelocity < 0 {
		return utils.NewInvalidTimingError("max_velocity", opts.MaxVelocity, "must be non-negative and finite")
	}
	return nil
}

// velocityPlan maps elapsed time to distance along the curve for speed lambda/(1+gain*|k|).
type velocityPlan struct {
	gain   float64
	lambda float64
	dists  []float64
	times  []float64
}

func newVelocityPlan(curve *spline.Curve, totalTime, gain float64, numSamples int) *velocityPlan {
	size := 4 * numSamples
	if size < minTimeTableSize {
		size = minTimeTableSize
	}
	length := curve.Length()
	p := &velocityPlan{
		gain:  gain,
		dists: make([]float64, size+1),
		times: make([]float64, size+1),
	}
	prevSlowness := p.slowness(curve.AtDistance(0).Curvature)
	work := 0.
	for k := 1; k <= size; k++ {
		p.dists[k] = length * float64(k) / float64(size)
		slowness := p.slowness(curve.AtDistance(p.dists[k]).Curvature)
		work += (p.dists[k] - p.dists[k-1]) * (slowness + prevSlowness) / 2
		p.times[k] = work
		prevSlowness = slowness
	}
	p.dists[size] = length
	p.lambda = work / totalTime
	for k := range p.times {
		p.times[k] /= p.lambda
	}
	p.times[size] = totalTime
	return p
}

// slowness is the inverse of the unscaled speed at a point of the given curvature.
func (p *velocityPlan) slowness(curvature float64) float64 {
	return 1 + p.gain*math.Abs(curvature)
}

func (p *velocityPlan) speed(curvature float64) float64 {
	return p.lambda / p.slowness(curvature)
}

func (p *velocityPlan) distanceAt(t float64) float64 {
	i := sort.SearchFloat64s(p.times, t)
	if i == 0 {
		return 0
	}
	if i >= len(p.times) {
		return p.dists[len(p.dists)-1]
	}
	span := p.times[i] - p.times[i-1]
	if span <= 0 {
		return p.dists[i]
	}
	frac := (t - p.times[i-1]) / span
	return p.dists[i-1] + frac*(p.dists[i]-p.dists[i-1])
}
