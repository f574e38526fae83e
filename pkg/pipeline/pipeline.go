// Package pipeline runs the section analyzers over a shared record array and
// assembles the dashboard document. Sections are independent and run
// concurrently; a failure in one section degrades that section to its empty
// default without aborting its siblings.
package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/seradyn/batchdash/pkg/analyzer/externalrft"
	"github.com/seradyn/batchdash/pkg/analyzer/insights"
	"github.com/seradyn/batchdash/pkg/analyzer/internalrft"
	"github.com/seradyn/batchdash/pkg/analyzer/overview"
	"github.com/seradyn/batchdash/pkg/analyzer/process"
	"github.com/seradyn/batchdash/pkg/config"
	"github.com/seradyn/batchdash/pkg/document"
	"github.com/seradyn/batchdash/pkg/records"
	"github.com/sourcegraph/conc"
)

// SectionError records a section that fell back to its default shape.
type SectionError struct {
	Section string
	Err     error
}

func (e SectionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Section, e.Err)
}

// failureList collects section failures across concurrent sections.
type failureList struct {
	mu       sync.Mutex
	failures []SectionError
}

func (l *failureList) add(section string, err error) {
	l.mu.Lock()
	l.failures = append(l.failures, SectionError{Section: section, Err: err})
	l.mu.Unlock()
}

// Pipeline orchestrates one generation run.
type Pipeline struct {
	cfg    *config.Config
	jitter *rand.Rand
	now    func() time.Time
}

// Option is a functional option for configuring Pipeline.
type Option func(*Pipeline)

// WithConfig supplies analyzer parameters; nil falls back to defaults.
func WithConfig(cfg *config.Config) Option {
	return func(p *Pipeline) {
		if cfg != nil {
			p.cfg = cfg
		}
	}
}

// WithJitter enables bounded noise on the insights projection.
func WithJitter(rng *rand.Rand) Option {
	return func(p *Pipeline) {
		p.jitter = rng
	}
}

// WithClock overrides the generation timestamp source (used by tests).
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// New creates a new pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg: config.DefaultConfig(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes every section analyzer over the shared record array and
// assembles the document. It always returns a structurally valid document;
// sections that failed are reported alongside it and carry their empty
// default shape. An empty record array likewise yields a valid all-zero
// document: the presentation layer must always have something to display.
func (p *Pipeline) Run(ctx context.Context, recs []records.Record, manifest []document.SourceFile) (*document.Document, []SectionError) {
	var sections document.Sections
	var failures failureList

	a := p.cfg.Analysis

	var wg conc.WaitGroup
	wg.Go(func() {
		sections.Overview, _ = runSection("overview", &failures, func() (*overview.Analysis, error) {
			return overview.New(
				overview.WithTrendMonths(a.TrendMonths),
				overview.WithTopErrorTypes(a.TopErrorTypes),
			).Analyze(ctx, recs)
		})
	})
	wg.Go(func() {
		sections.InternalRFT, _ = runSection("internalRFT", &failures, func() (*internalrft.Analysis, error) {
			return internalrft.New(internalrft.WithTrendMonths(a.TrendMonths)).Analyze(ctx, recs)
		})
	})
	wg.Go(func() {
		sections.ExternalRFT, _ = runSection("externalRFT", &failures, func() (*externalrft.Analysis, error) {
			return externalrft.New(
				externalrft.WithTrendMonths(a.TrendMonths),
				externalrft.WithMaxLag(a.MaxLagMonths),
			).Analyze(ctx, recs)
		})
	})
	wg.Go(func() {
		sections.Process, _ = runSection("processMetrics", &failures, func() (*process.Analysis, error) {
			return process.New(process.WithTrendMonths(a.TrendMonths)).Analyze(ctx, recs)
		})
	})
	wg.Wait()

	// Insights composes the other sections, so it runs after the fan-out.
	insightOpts := []insights.Option{insights.WithProjectionMonths(a.ProjectionMonths)}
	if p.jitter != nil {
		insightOpts = append(insightOpts, insights.WithJitter(p.jitter))
	}
	sections.Insights, _ = runSection("insights", &failures, func() (*insights.Analysis, error) {
		return insights.New(insightOpts...).Analyze(insights.Inputs{
			Overview: sections.Overview,
			External: sections.ExternalRFT,
			Process:  sections.Process,
		})
	})

	return document.Assemble(sections, manifest, p.now()), failures.failures
}

// runSection executes one section analyzer, converting a panic or error into
// a recorded failure. The caller substitutes the section's empty default for
// the nil result.
func runSection[T any](name string, failures *failureList, fn func() (*T, error)) (result *T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			result = nil
			failures.add(name, err)
		}
	}()

	result, err = fn()
	if err != nil {
		failures.add(name, err)
		return nil, err
	}
	return result, nil
}
