package externalrft

import (
	"github.com/seradyn/batchdash/pkg/metrics"
	"github.com/seradyn/batchdash/pkg/stats"
)

// MonthRate is one point in the monthly RFT rate series.
type MonthRate struct {
	Month       string  `json:"month"`
	RecordCount int     `json:"recordCount"`
	RFTRate     float64 `json:"rftRate"`
}

// SentimentBreakdown buckets customer feedback into the three-way sentiment
// classification.
type SentimentBreakdown struct {
	Positive         int    `json:"positive"`
	Negative         int    `json:"negative"`
	Neutral          int    `json:"neutral"`
	TopNegativeIssue string `json:"topNegativeIssue,omitempty"`
}

// Analysis is the external RFT section of the dashboard document.
type Analysis struct {
	RecordCount         int                    `json:"recordCount"`
	RFTRate             float64                `json:"rftRate"`
	OpenRate            float64                `json:"openRate"`
	MonthlyRates        []MonthRate            `json:"monthlyRates"`
	IssuePareto         []stats.ParetoItem     `json:"issuePareto"`
	Sentiment           SentimentBreakdown     `json:"sentiment"`
	InternalCorrelation metrics.LagCorrelation `json:"internalCorrelation"`
}

// Empty returns the section's documented default shape.
func Empty() *Analysis {
	return &Analysis{
		MonthlyRates: []MonthRate{},
		IssuePareto:  []stats.ParetoItem{},
	}
}
