package metrics

import "github.com/seradyn/batchdash/pkg/stats"

// OutlierSigma is the number of standard deviations above the mean that
// marks a duration as an outlier.
const OutlierSigma = 2

// Outlier is a single flagged duration, annotated with the threshold it
// crossed so callers can display by how much.
type Outlier struct {
	Index     int     `json:"index"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
	Excess    float64 `json:"excess"`
}

// DetectOutliers flags durations at or above mean + 2*stddev. The boundary is
// inclusive: a value exactly at the threshold is an outlier. Returns the
// threshold used and the flagged values in input order.
func DetectOutliers(values []float64) (float64, []Outlier) {
	if len(values) == 0 {
		return 0, nil
	}

	summary := stats.Describe(values)
	threshold := summary.Mean + OutlierSigma*summary.StdDev

	var outliers []Outlier
	for i, v := range values {
		if v >= threshold {
			outliers = append(outliers, Outlier{
				Index:     i,
				Value:     v,
				Threshold: threshold,
				Excess:    v - threshold,
			})
		}
	}
	return threshold, outliers
}
