// Package pipeline drives one run for a calendar day: fetch and parse both
// sources, merge, and replace the stored snapshot.
//
// RunForDate never returns an error. Every failure, including a panic in any
// stage, ends up as an error snapshot that is written like any other.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/tvfixtures/internal/config"
	"github.com/pfrederiksen/tvfixtures/internal/event"
	"github.com/pfrederiksen/tvfixtures/internal/fetcher"
	"github.com/pfrederiksen/tvfixtures/internal/logger"
	"github.com/pfrederiksen/tvfixtures/internal/merge"
	"github.com/pfrederiksen/tvfixtures/internal/metrics"
	"github.com/pfrederiksen/tvfixtures/internal/normalize"
	"github.com/pfrederiksen/tvfixtures/internal/scraper"
	"github.com/pfrederiksen/tvfixtures/internal/storage"
)

// Runner produces the snapshot for a day.
type Runner interface {
	RunForDate(ctx context.Context, date string) *event.Snapshot
}

// Fetcher retrieves a document. *fetcher.Fetcher implements it.
type Fetcher interface {
	Fetch(ctx context.Context, t fetcher.Target) (*fetcher.Document, error)
}

// Store persists snapshots. *storage.Storage implements it.
type Store interface {
	SaveSnapshot(snapshot *event.Snapshot) ([]byte, error)
}

// Pipeline is the production Runner.
type Pipeline struct {
	cfg     config.Config
	fetch   Fetcher
	store   Store
	sourceA scraper.Source
	sourceB scraper.Source
	merger  *merge.Merger
	mirrors []storage.Destination
	metrics *metrics.Metrics
	log     *logger.Logger
	now     func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSources replaces the LiveOnSat / SportEventz parsers.
func WithSources(a, b scraper.Source) Option {
	return func(p *Pipeline) { p.sourceA, p.sourceB = a, b }
}

// WithMirrors adds destinations that receive a copy of every written snapshot.
func WithMirrors(d ...storage.Destination) Option {
	return func(p *Pipeline) { p.mirrors = append(p.mirrors, d...) }
}

func WithMetrics(m *metrics.Metrics) Option { return func(p *Pipeline) { p.metrics = m } }

func WithLogger(l *logger.Logger) Option { return func(p *Pipeline) { p.log = l } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(p *Pipeline) { p.now = now } }

// New creates a Pipeline from cfg.
func New(cfg config.Config, f Fetcher, store Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:     cfg,
		fetch:   f,
		store:   store,
		sourceA: scraper.NewLiveOnSat(cfg.Sources.LiveOnSat.BaseURL, cfg.Highlight),
		sourceB: scraper.NewSportEventz(cfg.Sources.SportEventz.BaseURL, cfg.Highlight),
		merger: merge.New(
			normalize.New(cfg.Stopwords),
			merge.WithRatio(normalize.RatioByName(cfg.Match.Ratio)),
			merge.WithThresholds(cfg.Match.MaxMinutes, cfg.Match.MinScore),
			merge.WithHighlight(cfg.Highlight),
		),
		log: logger.Default(),
		now: time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Today returns the current date in the reference timezone.
func (p *Pipeline) Today() string {
	return p.now().In(p.cfg.Location()).Format(event.DateLayout)
}

// RunForDate runs the whole pipeline for date (YYYY-MM-DD) and returns the
// snapshot that was written. The result is an error snapshot when anything
// failed.
func (p *Pipeline) RunForDate(ctx context.Context, date string) (snap *event.Snapshot) {
	start := p.now()
	generatedAt := start.In(p.cfg.Location()).Format(event.GeneratedAtLayout)
	p.log.Info("Run started", logger.Fields{"date": date})

	defer func() {
		if r := recover(); r != nil {
			f := &Failure{Stage: "run", Kind: KindInternal, Err: fmt.Errorf("panic: %v", r)}
			snap = p.failed(ctx, date, generatedAt, f)
		}
		status := "ok"
		if snap.Failed() {
			status = "error"
		}
		elapsed := p.now().Sub(start)
		p.metrics.Run(status, elapsed, p.now())
		p.log.Info("Run finished", logger.Fields{
			"date":    snap.Date,
			"status":  status,
			"events":  len(snap.Events),
			"elapsed": elapsed.Round(time.Millisecond).String(),
		})
	}()

	day, err := time.ParseInLocation(event.DateLayout, date, p.cfg.Location())
	if err != nil {
		return p.failed(ctx, p.Today(), generatedAt, &Failure{Stage: "date", Kind: KindInput, Err: err})
	}

	a, err := p.collect(ctx, p.sourceA, day, date)
	if err != nil {
		return p.failed(ctx, date, generatedAt, err)
	}
	b, err := p.collect(ctx, p.sourceB, day, date)
	if err != nil {
		return p.failed(ctx, date, generatedAt, err)
	}

	merged, stats, err := p.merge(a, b)
	if err != nil {
		return p.failed(ctx, date, generatedAt, err)
	}
	p.metrics.Merged(stats.Total, stats.Matched)
	p.log.Info("Events merged", logger.Fields{
		"total":   stats.Total,
		"matched": stats.Matched,
		"only_a":  stats.OnlyA,
		"only_b":  stats.OnlyB,
	})

	snap = event.NewSnapshot(date, generatedAt, p.cfg.Label(day), len(a), len(b), merged)
	if err := p.write(ctx, snap); err != nil {
		return p.failed(ctx, date, generatedAt, err)
	}
	return snap
}

// merge reconciles both lists. The merger returns no errors; a panic inside
// it is reported as a merge failure.
func (p *Pipeline) merge(a, b []*event.Event) (merged []*event.MergedEvent, stats merge.Stats, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Failure{Stage: "merge", Kind: KindMerge, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	merged, stats = p.merger.Merge(a, b)
	return merged, stats, nil
}

// collect fetches and parses one source.
func (p *Pipeline) collect(ctx context.Context, src scraper.Source, day time.Time, date string) ([]*event.Event, error) {
	name := string(src.Name())
	doc, err := p.fetch.Fetch(ctx, p.target(src, day))
	if err != nil {
		return nil, fail(name, KindFetch, err)
	}

	res, err := src.Parse(bytes.NewReader(doc.Body), date)
	if err != nil {
		return nil, fail(name, KindParse, err)
	}
	p.metrics.Parsed(name, len(res.Events), res.Skipped)
	p.log.Info("Source parsed", logger.Fields{
		"source":   name,
		"events":   len(res.Events),
		"rows":     res.Rows,
		"skipped":  res.Skipped,
		"variant":  res.Variant,
		"rendered": doc.Rendered,
	})
	return res.Events, nil
}

// target builds the fetch request for src.
func (p *Pipeline) target(src scraper.Source, day time.Time) fetcher.Target {
	var sc config.SourceConfig
	switch src.Name() {
	case event.SourceLiveOnSat:
		sc = p.cfg.Sources.LiveOnSat
	case event.SourceSportEventz:
		sc = p.cfg.Sources.SportEventz
	}
	t := fetcher.Target{
		Source:         string(src.Name()),
		URL:            src.URL(day),
		Referer:        sc.Referer,
		AcceptLanguage: sc.AcceptLanguage,
		DebugName:      debugName(src.Name(), ""),
	}
	if h, ok := src.(scraper.RenderHinter); ok {
		t.Markers = h.RenderMarkers()
		t.RowSelector = h.RowSelector()
		t.RenderURL = sc.RenderURL
		t.RenderedDebugName = debugName(src.Name(), "_rendered")
	}
	return t
}

// debugName gives "__liveonsat.html", "__sporteventz_rendered.html", ...
func debugName(src event.Source, suffix string) string {
	return "__" + strings.ToLower(string(src)) + suffix + ".html"
}

// write stores snap and pushes it to every mirror. Mirror failures are
// logged and otherwise ignored.
func (p *Pipeline) write(ctx context.Context, snap *event.Snapshot) error {
	data, err := p.store.SaveSnapshot(snap)
	if err != nil {
		return fail("snapshot", KindWrite, err)
	}
	p.log.Info("Snapshot written", logger.Fields{
		"date":   snap.Date,
		"events": len(snap.Events),
		"bytes":  len(data),
		"error":  snap.Error,
	})

	for _, d := range p.mirrors {
		if err := d.Write(ctx, data); err != nil {
			p.log.Warn("Snapshot mirror failed", logger.Fields{
				"destination": d.Name(),
				"error":       err.Error(),
			})
			continue
		}
		p.log.Debug("Snapshot mirrored", logger.Fields{"destination": d.Name()})
	}
	return nil
}

// failed logs err and writes the error snapshot for date.
func (p *Pipeline) failed(ctx context.Context, date, generatedAt string, err error) *event.Snapshot {
	f := fail("run", KindInternal, err)
	p.log.Error("Run failed", logger.Fields{
		"date":  date,
		"stage": f.Stage,
		"kind":  string(f.Kind),
	}, f.Err)

	snap := event.NewErrorSnapshot(date, generatedAt, f.Error())
	if werr := p.write(ctx, snap); werr != nil {
		p.log.Error("Error snapshot not written", logger.Fields{"date": date}, werr)
	}
	return snap
}
