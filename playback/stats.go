package playback

import (
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
)

// LoopStats summarises the measured loop periods of a run, in seconds.
type LoopStats struct {
	Ticks  int
	Mean   float64
	StdDev float64
	Max    float64
	P95    float64
}

// Stats computes LoopStats over periods. It returns the zero value for no periods.
func Stats(periods []float64) (LoopStats, error) {
	if len(periods) == 0 {
		return LoopStats{}, nil
	}
	data := stats.Float64Data(periods)
	mean, err := data.Mean()
	if err != nil {
		return LoopStats{}, errors.Wrap(err, "loop period mean")
	}
	stddev, err := data.StandardDeviation()
	if err != nil {
		return LoopStats{}, errors.Wrap(err, "loop period stddev")
	}
	maxPeriod, err := data.Max()
	if err != nil {
		return LoopStats{}, errors.Wrap(err, "loop period max")
	}
	// a single period has no 95th percentile rank
	p95 := maxPeriod
	if len(periods) > 1 {
		if p95, err = data.Percentile(95); err != nil {
			return LoopStats{}, errors.Wrap(err, "loop period p95")
		}
	}
	return LoopStats{
		Ticks:  len(periods),
		Mean:   mean,
		StdDev: stddev,
		Max:    maxPeriod,
		P95:    p95,
	}, nil
}
