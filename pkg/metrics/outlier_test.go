package metrics

import (
	"math"
	"testing"
)

func TestDetectOutliers(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		threshold, outliers := DetectOutliers(nil)
		if threshold != 0 || outliers != nil {
			t.Errorf("got threshold %v, outliers %v; want 0, nil", threshold, outliers)
		}
	})

	t.Run("boundary is inclusive", func(t *testing.T) {
		// For {1,1,1,1,10}: mean 2.8, stddev 3.6, threshold exactly 10.
		values := []float64{1, 1, 1, 1, 10}
		threshold, outliers := DetectOutliers(values)
		if math.Abs(threshold-10) > 1e-9 {
			t.Fatalf("threshold = %v, want 10", threshold)
		}
		if len(outliers) != 1 {
			t.Fatalf("got %d outliers, want 1 (value at threshold counts)", len(outliers))
		}
		if outliers[0].Index != 4 || outliers[0].Value != 10 {
			t.Errorf("outlier = %+v, want index 4 value 10", outliers[0])
		}
		if math.Abs(outliers[0].Excess) > 1e-9 {
			t.Errorf("excess = %v, want 0 at the boundary", outliers[0].Excess)
		}
	})

	t.Run("values below threshold are not flagged", func(t *testing.T) {
		// For {1,1,1,1,5,5}: mean 2.33, stddev 1.89, threshold ~6.1.
		_, outliers := DetectOutliers([]float64{1, 1, 1, 1, 5, 5})
		if len(outliers) != 0 {
			t.Errorf("got %d outliers, want 0", len(outliers))
		}
	})
}
