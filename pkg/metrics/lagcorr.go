package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// DefaultMaxLag is the largest month offset considered when correlating
// internal and external quality series.
const DefaultMaxLag = 3

// MinLagPairs is the minimum number of aligned pairs required before a
// correlation at a given lag is considered meaningful.
const MinLagPairs = 3

// LagCorrelation is the strongest correlation found between two monthly
// series with one offset by Lag periods.
type LagCorrelation struct {
	Lag         int     `json:"lag"`
	Correlation float64 `json:"correlation"`
	Pairs       int     `json:"pairs"`
}

// BestLagCorrelation pairs leading[i-lag] with trailing[i] for each candidate
// lag in [0, maxLag], requires at least MinLagPairs pairs, and computes the
// Pearson correlation. Series may carry NaN for periods without data; pairs
// with a NaN on either side are skipped, so callers can lay both series out
// on a shared calendar axis without inventing values for gaps. The lag
// maximizing |correlation| wins; on equal magnitude the first (smallest) lag
// found is kept. When no lag yields enough pairs the no-signal default
// {Lag: 0, Correlation: 0} is returned.
func BestLagCorrelation(leading, trailing []float64, maxLag int) LagCorrelation {
	if maxLag < 0 {
		maxLag = DefaultMaxLag
	}

	best := LagCorrelation{}
	for lag := 0; lag <= maxLag; lag++ {
		var xs, ys []float64
		for i := lag; i < len(trailing) && i-lag < len(leading); i++ {
			x, y := leading[i-lag], trailing[i]
			if math.IsNaN(x) || math.IsNaN(y) {
				continue
			}
			xs = append(xs, x)
			ys = append(ys, y)
		}
		if len(xs) < MinLagPairs {
			continue
		}

		r := stat.Correlation(xs, ys, nil)
		if math.IsNaN(r) {
			continue
		}
		// Strictly larger magnitude wins so later equal-magnitude lags never
		// overwrite an earlier one.
		if math.Abs(r) > math.Abs(best.Correlation) {
			best = LagCorrelation{Lag: lag, Correlation: r, Pairs: len(xs)}
		} else if best.Pairs == 0 && lag == 0 {
			best = LagCorrelation{Lag: 0, Correlation: r, Pairs: len(xs)}
		}
	}
	return best
}
