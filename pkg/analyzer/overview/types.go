package overview

import "github.com/seradyn/batchdash/pkg/metrics"

// MonthMetric is one point in the monthly trend series.
type MonthMetric struct {
	Month        string  `json:"month"`
	RecordCount  int     `json:"recordCount"`
	RFTRate      float64 `json:"rftRate"`
	AvgCycleTime float64 `json:"avgCycleTime"`
}

// Improvement compares the recent six months against the six before them.
// Percentage change is zero-guarded: a zero previous rate yields 0.
type Improvement struct {
	RecentRFTRate   float64 `json:"recentRFTRate"`
	PreviousRFTRate float64 `json:"previousRFTRate"`
	ChangePercent   float64 `json:"changePercent"`
}

// Analysis is the overview section of the dashboard document.
type Analysis struct {
	TotalRecords     int                      `json:"totalRecords"`
	OverallRFTRate   float64                  `json:"overallRFTRate"`
	AvgCycleTimeDays float64                  `json:"avgCycleTimeDays"`
	MonthlyTrend     []MonthMetric            `json:"monthlyTrend"`
	TopErrorTypes    []metrics.ErrorTypeCount `json:"topErrorTypes"`
	Improvement      *Improvement             `json:"improvement,omitempty"`
}

// Empty returns the section's documented default shape, used when analysis
// fails or no records are available. All aggregates are zero and series are
// empty, never nil maps the SPA would choke on.
func Empty() *Analysis {
	return &Analysis{
		MonthlyTrend:  []MonthMetric{},
		TopErrorTypes: []metrics.ErrorTypeCount{},
	}
}
