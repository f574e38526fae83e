// Package document assembles section outputs into the single dashboard
// document the presentation layer consumes. Field names and nesting are the
// contract with the SPA and must not change.
package document

import (
	"time"

	"github.com/seradyn/batchdash/pkg/analyzer/externalrft"
	"github.com/seradyn/batchdash/pkg/analyzer/insights"
	"github.com/seradyn/batchdash/pkg/analyzer/internalrft"
	"github.com/seradyn/batchdash/pkg/analyzer/overview"
	"github.com/seradyn/batchdash/pkg/analyzer/process"
	"github.com/seradyn/batchdash/pkg/stats"
)

// DataVersion tags the document schema carried in `dataVersion`.
const DataVersion = "1.2.0"

// Blend weights for the overall RFT figure. These are business policy, not
// derived values: internal right-first-time, resolved external complaints,
// and commercial completion in fixed proportion.
const (
	WeightInternalRFT          = 0.4
	WeightExternalResolved     = 0.3
	WeightCommercialCompletion = 0.3
)

// SourceFile describes one ingested input in the document manifest.
type SourceFile struct {
	Name     string `json:"name"`
	Records  int    `json:"records"`
	Checksum string `json:"checksum,omitempty"`
}

// DataSourceInfo is the manifest of inputs behind a generated document.
type DataSourceInfo struct {
	Files []SourceFile `json:"files"`
}

// CommercialProcess is the commercial completion summary consumed by the
// commercial tab; the full stage breakdown lives under processMetrics.
type CommercialProcess struct {
	RecordCount    int     `json:"recordCount"`
	CompletionRate float64 `json:"completionRate"`
	SlowestStage   string  `json:"slowestStage,omitempty"`
}

// Placeholder is the shape emitted for tabs that have no analyzer yet.
type Placeholder struct {
	Available bool `json:"available"`
}

// Document is the engine's sole output: independent top-level sections plus
// generation metadata. It is written once per run and treated as immutable by
// every consumer.
type Document struct {
	Overview          *overview.Analysis    `json:"overview"`
	InternalRFT       *internalrft.Analysis `json:"internalRFT"`
	ExternalRFT       *externalrft.Analysis `json:"externalRFT"`
	ProcessMetrics    *process.Analysis     `json:"processMetrics"`
	CommercialProcess CommercialProcess     `json:"commercialProcess"`
	Insights          *insights.Analysis    `json:"insights"`
	LotAnalytics      Placeholder           `json:"lotAnalytics"`
	Customer          Placeholder           `json:"customerComments"`
	OverallRFTRate    float64               `json:"overallRFTRate"`
	LastUpdated       string                `json:"lastUpdated"`
	DataVersion       string                `json:"dataVersion"`
	DataSourceInfo    DataSourceInfo        `json:"dataSourceInfo"`
}

// Sections carries the per-section analyses into assembly. Nil sections are
// replaced by their documented empty defaults so the document is always
// structurally valid, even when every analyzer failed or no input existed.
type Sections struct {
	Overview    *overview.Analysis
	InternalRFT *internalrft.Analysis
	ExternalRFT *externalrft.Analysis
	Process     *process.Analysis
	Insights    *insights.Analysis
}

// Assemble merges section outputs and metadata into the final document.
// generatedAt is injected so runs are reproducible under test.
func Assemble(sections Sections, files []SourceFile, generatedAt time.Time) *Document {
	if sections.Overview == nil {
		sections.Overview = overview.Empty()
	}
	if sections.InternalRFT == nil {
		sections.InternalRFT = internalrft.Empty()
	}
	if sections.ExternalRFT == nil {
		sections.ExternalRFT = externalrft.Empty()
	}
	if sections.Process == nil {
		sections.Process = process.Empty()
	}
	if sections.Insights == nil {
		sections.Insights = insights.Empty()
	}
	if files == nil {
		files = []SourceFile{}
	}

	return &Document{
		Overview:       sections.Overview,
		InternalRFT:    sections.InternalRFT,
		ExternalRFT:    sections.ExternalRFT,
		ProcessMetrics: sections.Process,
		CommercialProcess: CommercialProcess{
			RecordCount:    sections.Process.RecordCount,
			CompletionRate: sections.Process.CompletionRate,
			SlowestStage:   sections.Process.SlowestStage,
		},
		Insights: sections.Insights,
		OverallRFTRate: BlendedRFT(
			sections.InternalRFT.RFTRate,
			sections.ExternalRFT.OpenRate,
			sections.Process.CompletionRate,
		),
		LastUpdated:    generatedAt.UTC().Format(time.RFC3339),
		DataVersion:    DataVersion,
		DataSourceInfo: DataSourceInfo{Files: files},
	}
}

// BlendedRFT combines the three quality signals with the fixed business
// weights. External contributes via its resolved share (100 minus open rate).
func BlendedRFT(internalRFT, externalOpenRate, commercialCompletion float64) float64 {
	blended := WeightInternalRFT*internalRFT +
		WeightExternalResolved*(100-externalOpenRate) +
		WeightCommercialCompletion*commercialCompletion
	return stats.Round1(blended)
}
