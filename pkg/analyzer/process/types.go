package process

import "github.com/seradyn/batchdash/pkg/stats"

// StageOutlier is one lot whose stage duration crossed the mean+2σ threshold,
// annotated with the threshold so views can show by how much.
type StageOutlier struct {
	LotID      string  `json:"lotId"`
	Days       float64 `json:"days"`
	Threshold  float64 `json:"threshold"`
	ExcessDays float64 `json:"excessDays"`
}

// StageMetrics aggregates one named inter-step duration.
type StageMetrics struct {
	Name             string         `json:"name"`
	Count            int            `json:"count"`
	Stats            stats.Summary  `json:"stats"`
	OutlierThreshold float64        `json:"outlierThreshold"`
	Outliers         []StageOutlier `json:"outliers"`
}

// MonthDuration is one point in the monthly cycle-time series.
type MonthDuration struct {
	Month        string  `json:"month"`
	RecordCount  int     `json:"recordCount"`
	AvgCycleTime float64 `json:"avgCycleTime"`
}

// Analysis is the process metrics section of the dashboard document.
type Analysis struct {
	RecordCount      int             `json:"recordCount"`
	CompletionRate   float64         `json:"completionRate"`
	Stages           []StageMetrics  `json:"stages"`
	MonthlyDurations []MonthDuration `json:"monthlyDurations"`
	SlowestStage     string          `json:"slowestStage,omitempty"`
}

// Empty returns the section's documented default shape.
func Empty() *Analysis {
	return &Analysis{
		Stages:           []StageMetrics{},
		MonthlyDurations: []MonthDuration{},
	}
}
