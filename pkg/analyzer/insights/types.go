package insights

// RootCause is one ranked contributor paired with its recommendation text.
type RootCause struct {
	Category       string `json:"category"`
	Key            string `json:"key"`
	Detail         string `json:"detail"`
	Recommendation string `json:"recommendation"`
}

// ProjectedMonth is one point of the next-quarter RFT projection.
type ProjectedMonth struct {
	Month   string  `json:"month"`
	RFTRate float64 `json:"rftRate"`
}

// Analysis is the insights section of the dashboard document.
type Analysis struct {
	RootCauses []RootCause      `json:"rootCauses"`
	Projection []ProjectedMonth `json:"projection"`
}

// Empty returns the section's documented default shape.
func Empty() *Analysis {
	return &Analysis{
		RootCauses: []RootCause{},
		Projection: []ProjectedMonth{},
	}
}
