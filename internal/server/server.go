// Package server exposes snapshots, reloads and the run log over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pfrederiksen/tvfixtures/internal/calendar"
	"github.com/pfrederiksen/tvfixtures/internal/config"
	"github.com/pfrederiksen/tvfixtures/internal/event"
	"github.com/pfrederiksen/tvfixtures/internal/filter"
	"github.com/pfrederiksen/tvfixtures/internal/logger"
	"github.com/pfrederiksen/tvfixtures/internal/pipeline"
)

// logTailBytes is how much of reload.log /api/log returns.
const logTailBytes = 10000

// Snapshots loads the stored snapshot. *storage.Storage implements it.
type Snapshots interface {
	LoadSnapshot() (*event.Snapshot, error)
}

// Server serves the HTTP API.
type Server struct {
	cfg     config.Config
	runner  pipeline.Runner
	store   Snapshots
	logPath string
	gather  prometheus.Gatherer
	log     *logger.Logger
	now     func() time.Time

	// pipeline runs are serialized
	mu     sync.Mutex
	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithGatherer exposes the given registry on /metrics.
func WithGatherer(g prometheus.Gatherer) Option { return func(s *Server) { s.gather = g } }

func WithLogger(l *logger.Logger) Option { return func(s *Server) { s.log = l } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(s *Server) { s.now = now } }

// New builds the router. logPath is the file tailed by /api/log.
func New(cfg config.Config, runner pipeline.Runner, store Snapshots, logPath string, opts ...Option) *Server {
	s := &Server{
		cfg:     cfg,
		runner:  runner,
		store:   store,
		logPath: logPath,
		gather:  prometheus.DefaultGatherer,
		log:     logger.Default(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLog)
	r.Use(noStore)

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/games", s.handleGames)
	r.Get("/api/games.ics", s.handleCalendar)
	r.Get("/api/reload", s.handleReload)
	r.Post("/api/reload", s.handleReload)
	r.Get("/api/log", s.handleLog)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gather, promhttp.HandlerOpts{}))

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Server listening", logger.Fields{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("Server shutting down", nil)
		return srv.Shutdown(shutdownCtx)
	}
}

// meta describes the run behind a response.
type meta struct {
	Elapsed float64 `json:"elapsed"`
	Status  string  `json:"status"`
	Stderr  string  `json:"stderr,omitempty"`
}

type gamesResponse struct {
	*event.Snapshot
	Meta *meta `json:"_meta,omitempty"`
}

// GET /api/games?date=YYYY-MM-DD&channel=DAZN,SKY SPORT&q=milan
func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	f := filterFrom(r)

	date := r.URL.Query().Get("date")
	if date == "" {
		snap, err := s.store.LoadSnapshot()
		if err != nil {
			s.log.Error("Loading snapshot failed", nil, err)
			writeError(w, http.StatusInternalServerError, "snapshot unavailable")
			return
		}
		writeJSON(w, http.StatusOK, gamesResponse{Snapshot: applyFilter(snap, f)})
		return
	}
	if !validDate(date) {
		writeError(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD")
		return
	}

	snap, m := s.run(r.Context(), date)
	status := http.StatusOK
	if snap.Failed() {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, gamesResponse{Snapshot: applyFilter(snap, f), Meta: m})
}

// GET|POST /api/reload[?date=YYYY-MM-DD]
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" && r.Method == http.MethodPost && r.Body != nil {
		var body struct {
			Date string `json:"date"`
		}
		// an empty or non-JSON body means "today"
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			date = body.Date
		}
	}
	if date == "" {
		date = s.now().In(s.cfg.Location()).Format(event.DateLayout)
	}
	if !validDate(date) {
		writeError(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD")
		return
	}

	snap, m := s.run(r.Context(), date)
	status := http.StatusOK
	if snap.Failed() {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, m)
}

// GET /api/log
func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	tail, err := logger.Tail(s.logPath, logTailBytes)
	if err != nil {
		s.log.Error("Reading log failed", nil, err)
		writeError(w, http.StatusInternalServerError, "log unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"log": tail})
}

// GET /api/games.ics
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.LoadSnapshot()
	if err != nil {
		s.log.Error("Loading snapshot failed", nil, err)
		writeError(w, http.StatusInternalServerError, "snapshot unavailable")
		return
	}
	snap = applyFilter(snap, filterFrom(r))

	name := "TV fixtures"
	if snap.Date != "" {
		name += " " + snap.Date
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="fixtures.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(calendar.GenerateICS(snap.Events, name, s.cfg.Location(), s.now())))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// run executes the pipeline for date; concurrent requests queue up. The run
// is detached from the request: a client hanging up must not turn into an
// error snapshot replacing the stored schedule. HTTP and render timeouts
// still bound it.
func (s *Server) run(ctx context.Context, date string) (*event.Snapshot, *meta) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now()
	snap := s.runner.RunForDate(context.WithoutCancel(ctx), date)
	m := &meta{
		Elapsed: s.now().Sub(start).Round(time.Millisecond).Seconds(),
		Status:  "ok",
	}
	if snap.Failed() {
		m.Status = "error"
		m.Stderr = snap.Error
	}
	return snap, m
}

// filterFrom reads channel chips (?channel=), search terms (?q=), sources
// (?source=) and a kickoff window (?time=18:00-22:00). A malformed window is
// ignored.
func filterFrom(r *http.Request) *filter.Filter {
	q := r.URL.Query()
	f := filter.NewFilter()
	for _, c := range q["channel"] {
		f.Channels = append(f.Channels, filter.ParseChannels(c)...)
	}
	f.Terms = filter.ParseTerms(q.Get("q"))
	for _, src := range q["source"] {
		f.Sources = append(f.Sources, filter.ParseChannels(src)...)
	}
	if tr := q.Get("time"); tr != "" {
		if from, to, err := filter.ParseTimeRange(tr); err == nil {
			f.From, f.To = from, to
		}
	}
	return f
}

// applyFilter returns a copy of snap restricted to matching events. Counters
// keep describing the full run.
func applyFilter(snap *event.Snapshot, f *filter.Filter) *event.Snapshot {
	if f.IsEmpty() {
		return snap
	}
	out := *snap
	out.Events = f.Apply(snap.Events)
	return &out
}

func validDate(s string) bool {
	if len(s) != len(event.DateLayout) || strings.TrimSpace(s) != s {
		return false
	}
	_, err := time.Parse(event.DateLayout, s)
	return err == nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
