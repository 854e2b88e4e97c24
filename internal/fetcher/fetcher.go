package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"github.com/pfrederiksen/tvfixtures/internal/config"
	"github.com/pfrederiksen/tvfixtures/internal/logger"
	"github.com/pfrederiksen/tvfixtures/internal/metrics"
)

// Target describes one document to retrieve.
type Target struct {
	Source         string
	URL            string
	Referer        string
	AcceptLanguage string
	DebugName      string // file name for the raw copy; empty = none

	// Render fallback. Leave Markers empty for sources that never need it.
	Markers           []string
	RowSelector       string
	RenderURL         string // defaults to URL
	RenderedDebugName string
}

// Document is a retrieved page.
type Document struct {
	URL      string
	Body     []byte
	Rendered bool
}

// DebugSink keeps copies of fetched documents. Failures are not fatal.
type DebugSink interface {
	SaveDebug(name string, data []byte) error
}

// Renderer loads a page in a script-executing browser and returns the
// resulting document.
type Renderer interface {
	Render(ctx context.Context, pageURL string) ([]byte, error)
}

// Fetcher retrieves documents over HTTP.
type Fetcher struct {
	client   *http.Client
	cfg      config.HTTPConfig
	renderer Renderer
	debug    DebugSink
	metrics  *metrics.Metrics
	log      *logger.Logger

	// hooks for tests
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func(lo, hi time.Duration) time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithRenderer enables the render fallback.
func WithRenderer(r Renderer) Option { return func(f *Fetcher) { f.renderer = r } }

// WithDebugSink stores raw and rendered documents.
func WithDebugSink(s DebugSink) Option { return func(f *Fetcher) { f.debug = s } }

func WithMetrics(m *metrics.Metrics) Option { return func(f *Fetcher) { f.metrics = m } }

func WithLogger(l *logger.Logger) Option { return func(f *Fetcher) { f.log = l } }

// WithHTTPClient replaces the default client (whose timeout is cfg.Timeout).
func WithHTTPClient(c *http.Client) Option { return func(f *Fetcher) { f.client = c } }

// New creates a Fetcher.
func New(cfg config.HTTPConfig, opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		log:    logger.Default(),
		sleep:  sleepCtx,
		jitter: randomBetween,
	}
	for _, o := range opts {
		o(f)
	}
	if f.cfg.Attempts < 1 {
		f.cfg.Attempts = 1
	}
	return f
}

// Fetch retrieves t, falling back to a rendered copy when the static
// document is only a script template.
func (f *Fetcher) Fetch(ctx context.Context, t Target) (*Document, error) {
	body, err := f.get(ctx, t)
	if err != nil {
		return nil, err
	}
	f.saveDebug(t.DebugName, body)
	doc := &Document{URL: t.URL, Body: body}

	if len(t.Markers) == 0 {
		return doc, nil
	}
	marker, rows, err := inspect(body, t.Markers, t.RowSelector)
	if err != nil {
		// goquery only fails on read errors; a byte slice never produces one
		return doc, nil
	}
	f.log.Debug("Render markers checked", logger.Fields{
		"source": t.Source,
		"marker": marker,
		"rows":   rows,
	})
	if marker == "" || rows > 0 {
		return doc, nil
	}

	if f.renderer == nil {
		f.log.Warn("Rows are script-generated but rendering is disabled", logger.Fields{
			"source": t.Source,
			"marker": marker,
		})
		return doc, nil
	}

	renderURL := t.RenderURL
	if renderURL == "" {
		renderURL = t.URL
	}
	f.log.Info("Falling back to headless render", logger.Fields{
		"source": t.Source,
		"marker": marker,
		"url":    renderURL,
	})
	rendered, err := f.renderer.Render(ctx, renderURL)
	if err != nil {
		f.metrics.RenderFallback(t.Source, "error")
		return nil, &RenderError{Source: t.Source, URL: renderURL, Err: err}
	}
	f.metrics.RenderFallback(t.Source, "ok")
	f.saveDebug(t.RenderedDebugName, rendered)
	f.log.Info("Rendered document captured", logger.Fields{
		"source": t.Source,
		"bytes":  len(rendered),
	})
	return &Document{URL: renderURL, Body: rendered, Rendered: true}, nil
}

// get performs the GET with jitter and retries.
func (f *Fetcher) get(ctx context.Context, t Target) ([]byte, error) {
	if d := f.jitter(f.cfg.JitterMin, f.cfg.JitterMax); d > 0 {
		if err := f.sleep(ctx, d); err != nil {
			return nil, &FetchError{Source: t.Source, URL: t.URL, Err: err}
		}
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.cfg.RetryDelay
	b.Multiplier = f.cfg.BackoffFactor
	b.RandomizationFactor = 0
	b.MaxInterval = time.Hour
	b.MaxElapsedTime = 0
	b.Reset()
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(f.cfg.Attempts-1)), ctx)

	attempts := 0
	var body []byte
	op := func() error {
		attempts++
		data, status, err := f.do(ctx, t)
		if err != nil {
			return err
		}
		f.log.Info("Source fetched", logger.Fields{
			"source":  t.Source,
			"status":  status,
			"bytes":   len(data),
			"url":     t.URL,
			"attempt": attempts,
		})
		body = data
		return nil
	}
	notify := func(err error, next time.Duration) {
		f.metrics.FetchAttempt(t.Source, "retry")
		f.log.Warn("Fetch attempt failed, retrying", logger.Fields{
			"source":  t.Source,
			"attempt": attempts,
			"wait":    next.String(),
			"error":   err.Error(),
		})
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		f.metrics.FetchAttempt(t.Source, "error")
		return nil, &FetchError{Source: t.Source, URL: t.URL, Attempts: attempts, Err: err}
	}
	f.metrics.FetchAttempt(t.Source, "ok")
	return body, nil
}

func (f *Fetcher) do(ctx context.Context, t Target) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.URL, nil)
	if err != nil {
		return nil, 0, backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	f.setHeaders(req, t)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body) // nolint:errcheck
		return nil, resp.StatusCode, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading body: %w", err)
	}
	return data, resp.StatusCode, nil
}

func (f *Fetcher) setHeaders(req *http.Request, t Target) {
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if t.AcceptLanguage != "" {
		req.Header.Set("Accept-Language", t.AcceptLanguage)
	}
	if t.Referer != "" {
		req.Header.Set("Referer", t.Referer)
	}
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Cache-Control", "max-age=0")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}

func (f *Fetcher) saveDebug(name string, data []byte) {
	if f.debug == nil || name == "" {
		return
	}
	if err := f.debug.SaveDebug(name, data); err != nil {
		f.log.Debug("Debug copy not written", logger.Fields{"file": name, "error": err.Error()})
	}
}

// inspect returns the first render marker present in body and the number of
// elements matching rowSelector.
func inspect(body []byte, markers []string, rowSelector string) (string, int, error) {
	marker := ""
	for _, m := range markers {
		if bytes.Contains(body, []byte(m)) {
			marker = m
			break
		}
	}
	if marker == "" || rowSelector == "" {
		return marker, 0, nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return marker, 0, fmt.Errorf("parsing HTML: %w", err)
	}
	return marker, doc.Find(rowSelector).Length(), nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func randomBetween(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rand.Int63n(int64(hi-lo)))
}
