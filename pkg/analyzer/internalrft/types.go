package internalrft

import "github.com/seradyn/batchdash/pkg/stats"

// MonthRate is one point in the monthly RFT rate series.
type MonthRate struct {
	Month       string  `json:"month"`
	RecordCount int     `json:"recordCount"`
	RFTRate     float64 `json:"rftRate"`
}

// Analysis is the internal RFT section of the dashboard document.
type Analysis struct {
	RecordCount  int                `json:"recordCount"`
	RFTRate      float64            `json:"rftRate"`
	MonthlyRates []MonthRate        `json:"monthlyRates"`
	ErrorPareto  []stats.ParetoItem `json:"errorPareto"`
}

// Empty returns the section's documented default shape.
func Empty() *Analysis {
	return &Analysis{
		MonthlyRates: []MonthRate{},
		ErrorPareto:  []stats.ParetoItem{},
	}
}
