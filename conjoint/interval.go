package conjoint

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Interval is a point estimate with a percentile interval.
type Interval struct {
	Point float64
	Lower float64
	Upper float64
}

// PercentileInterval reduces an ensemble of draws to its mean and the
// central 1-alpha percentile interval.  Quantiles use linear interpolation
// of the empirical cdf (gonum's LinInterp cumulant kind); this choice is
// fixed so that results are reproducible across implementations.  Draws that
// are NaN or infinite are dropped; fewer than 2 usable draws is an error.
func PercentileInterval(draws []float64, alpha float64) (Interval, error) {

	if alpha <= 0 || alpha >= 1 {
		return Interval{}, &ConfigError{Msg: "alpha must be strictly between 0 and 1"}
	}

	x := make([]float64, 0, len(draws))
	for _, v := range draws {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			x = append(x, v)
		}
	}

	if len(x) < 2 {
		return Interval{}, &InsufficientDrawsError{Valid: len(x), Total: len(draws)}
	}

	sort.Float64s(x)

	return Interval{
		Point: stat.Mean(x, nil),
		Lower: stat.Quantile(alpha/2, stat.LinInterp, x, nil),
		Upper: stat.Quantile(1-alpha/2, stat.LinInterp, x, nil),
	}, nil
}
