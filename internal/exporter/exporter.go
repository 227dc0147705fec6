package exporter

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turboflakes/grade-exporter/internal/exposition"
	"github.com/turboflakes/grade-exporter/internal/scraper"
	"github.com/turboflakes/grade-exporter/internal/targets"
	"github.com/turboflakes/grade-exporter/internal/telemetry"
	"github.com/turboflakes/grade-exporter/pkg/types"
)

// Options configures an Exporter.
type Options struct {
	// Sources is the initial target configuration.
	Sources targets.Sources
	// Fetcher performs upstream GETs for both grade and profile documents.
	Fetcher scraper.Fetcher
	// ProviderDomain is the domain of the {network}-onet-api hosts.
	ProviderDomain string
	// Timeout bounds each upstream request.
	Timeout time.Duration
	// Concurrency caps parallel target fetches. Values below 1 mean 1.
	Concurrency int
	// Metrics receives self-metrics. May be nil.
	Metrics *telemetry.Metrics
}

// Exporter translates upstream grade documents into an exposition payload.
// It is safe for concurrent use.
type Exporter struct {
	sources     atomic.Pointer[targets.Sources]
	labeler     *targets.Labeler
	grades      *scraper.GradeFetcher
	enricher    *scraper.Enricher
	concurrency int
	metrics     *telemetry.Metrics
}

// New returns an Exporter built from opts.
func New(opts Options) *Exporter {
	e := &Exporter{
		labeler:     targets.NewLabeler(opts.ProviderDomain),
		grades:      scraper.NewGradeFetcher(opts.Fetcher, opts.Timeout),
		enricher:    scraper.NewEnricher(opts.Fetcher, opts.ProviderDomain, opts.Timeout),
		concurrency: max(opts.Concurrency, 1),
		metrics:     opts.Metrics,
	}
	e.SetSources(opts.Sources)
	return e
}

// SetSources replaces the target sources used by subsequent scrapes.
func (e *Exporter) SetSources(src targets.Sources) {
	e.sources.Store(&src)
}

// Sources returns the current target sources.
func (e *Exporter) Sources() targets.Sources {
	return *e.sources.Load()
}

// Scrape runs one full scrape and returns the exposition payload.
func (e *Exporter) Scrape(ctx context.Context) []byte {
	return exposition.Render(e.Collect(ctx))
}

// Collect resolves the targets and returns one result per valid target, in
// resolution order. Cancelling ctx abandons in-flight fetches; the affected
// targets come back as OutcomeDown.
func (e *Exporter) Collect(ctx context.Context) []types.TargetResult {
	start := time.Now()

	res := targets.Resolve(e.Sources())
	e.metrics.TargetsDropped(telemetry.ReasonInvalidURL, len(res.Dropped))

	results := make([]types.TargetResult, len(res.URLs))
	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i, u := range res.URLs {
		i, u := i, u
		g.Go(func() error {
			results[i] = e.scrapeTarget(ctx, u)
			return nil
		})
	}
	_ = g.Wait()

	e.metrics.ObserveScrape(len(res.URLs), time.Since(start))
	return results
}

// scrapeTarget fetches and enriches one target.
func (e *Exporter) scrapeTarget(ctx context.Context, url string) types.TargetResult {
	t := e.labeler.Target(url)
	res := types.TargetResult{Target: t, Name: t.ValidatorID}

	rec, err := e.grades.Fetch(ctx, url)
	switch {
	case errors.Is(err, scraper.ErrUnrecognizedGrade):
		e.metrics.ObserveUpstream(telemetry.EndpointGrade, nil)
		e.metrics.TargetsDropped(telemetry.ReasonUnrecognizedGrade, 1)
		slog.Warn("exporter: dropped validator, unrecognized grade",
			"validator", t.ValidatorID, "network", t.Network, "grade", string(rec.Grade), "url", url)
		res.Outcome = types.OutcomeDropped
		return res
	case err != nil:
		e.metrics.ObserveUpstream(telemetry.EndpointGrade, err)
		slog.Error("exporter: grade fetch failed",
			"validator", t.ValidatorID, "network", t.Network, "url", url, "err", err)
		res.Outcome = types.OutcomeDown
		return res
	}
	e.metrics.ObserveUpstream(telemetry.EndpointGrade, nil)

	name, err := e.enricher.Name(ctx, t.Network, t.ValidatorID)
	e.metrics.ObserveUpstream(telemetry.EndpointProfile, err)

	res.Outcome = types.OutcomeUp
	res.Record = rec
	res.Name = name
	return res
}
