package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/tvfixtures/internal/config"
	"github.com/pfrederiksen/tvfixtures/internal/event"
	"github.com/pfrederiksen/tvfixtures/internal/fetcher"
	"github.com/pfrederiksen/tvfixtures/internal/filter"
	"github.com/pfrederiksen/tvfixtures/internal/logger"
	"github.com/pfrederiksen/tvfixtures/internal/metrics"
	"github.com/pfrederiksen/tvfixtures/internal/pipeline"
	"github.com/pfrederiksen/tvfixtures/internal/server"
	"github.com/pfrederiksen/tvfixtures/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// exitError carries a non-zero exit code out of a command without printing
// anything further.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// app holds what every command needs once flags and config are resolved.
type app struct {
	configPath string
	dataDir    string
	verbose    bool

	cfg     config.Config
	store   *storage.Storage
	log     *logger.Logger
	logFile *os.File
	reg     *prometheus.Registry
	metrics *metrics.Metrics
	stdout  io.Writer
	now     func() time.Time
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{now: time.Now})
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tvfixtures",
		Short: "Merge football TV listings from LiveOnSat and SportEventz",
		Long: `A tool that scrapes the daily football broadcast schedules of two
listing sites, reconciles them into one deduplicated list per day and serves
the result as JSON and iCalendar.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				a.close()
				return err
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "tvfixtures.yml", "Path to the YAML config file (optional)")
	cmd.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "Data directory for snapshots and logs (overrides config)")
	cmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(newRunCmd(a), newServeCmd(a), newShowCmd(a))
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	// a missing .env is fine
	_ = godotenv.Load()

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	a.cfg = cfg
	a.stdout = cmd.OutOrStdout()

	store, err := storage.New(cfg.DataDir, cfg.SnapshotFile)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	a.store = store

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	if a.verbose {
		level = logger.LevelDebug
	}
	logFile, err := logger.OpenAppend(store.Path(cfg.LogFile))
	if err != nil {
		return err
	}
	a.logFile = logFile
	// stdout stays reserved for command output
	a.log = logger.New(level, io.MultiWriter(cmd.ErrOrStderr(), logFile))
	logger.SetDefault(a.log)

	a.reg = prometheus.NewRegistry()
	a.reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = metrics.New(a.reg)

	a.log.Debug("Configuration loaded", logger.Fields{
		"config":   a.configPath,
		"data_dir": store.Dir(),
		"timezone": cfg.Timezone,
		"render":   cfg.Render.IsEnabled(),
		"mirror":   cfg.Mirror.S3.Bucket != "",
	})
	return nil
}

// close releases reload.log. Each RunE defers it since cobra skips
// post-run hooks when RunE returns an error.
func (a *app) close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}

// newPipeline wires the fetcher, renderer, mirrors and metrics.
func (a *app) newPipeline(ctx context.Context) (*pipeline.Pipeline, error) {
	fopts := []fetcher.Option{
		fetcher.WithDebugSink(a.store),
		fetcher.WithMetrics(a.metrics),
		fetcher.WithLogger(a.log),
	}
	if a.cfg.Render.IsEnabled() {
		fopts = append(fopts, fetcher.WithRenderer(fetcher.NewRodRenderer(a.cfg.Render, a.log)))
	}
	f := fetcher.New(a.cfg.HTTP, fopts...)

	popts := []pipeline.Option{
		pipeline.WithMetrics(a.metrics),
		pipeline.WithLogger(a.log),
		pipeline.WithClock(a.now),
	}
	if s3 := a.cfg.Mirror.S3; s3.Bucket != "" {
		dest, err := storage.NewS3Destination(ctx, s3.Bucket, s3.Key, s3.Region, s3.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("configuring s3 mirror: %w", err)
		}
		popts = append(popts, pipeline.WithMirrors(dest))
	}
	return pipeline.New(a.cfg, f, a.store, popts...), nil
}

func newRunCmd(a *app) *cobra.Command {
	var date, format string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch, merge and write the snapshot for one day",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()
			f := OutputFormat(strings.ToLower(format))
			if f != FormatText && f != FormatJSON {
				return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", format)
			}

			p, err := a.newPipeline(cmd.Context())
			if err != nil {
				return err
			}
			if date == "" {
				date = p.Today()
			}

			snap := p.RunForDate(cmd.Context(), date)
			if err := WriteOutput(a.stdout, snap, OutputOptions{Format: f, Verbose: a.verbose}); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			if snap.Failed() {
				return &exitError{code: ExitError}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to fetch as YYYY-MM-DD (default: today in the reference timezone)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the snapshot, reload and log API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()
			if addr == "" {
				addr = a.cfg.Server.ListenAddr
			}

			seed := event.NewSnapshot("", a.now().In(a.cfg.Location()).Format(event.GeneratedAtLayout), "", 0, 0, nil)
			if err := a.store.EnsureSeed(seed, a.cfg.LogFile); err != nil {
				return fmt.Errorf("seeding data dir: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p, err := a.newPipeline(ctx)
			if err != nil {
				return err
			}
			srv := server.New(a.cfg, p, a.store, a.store.Path(a.cfg.LogFile),
				server.WithGatherer(a.reg),
				server.WithLogger(a.log),
			)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server.listen_addr)")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var channels, query, sources, timeRange, sortOrder, format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()
			f := OutputFormat(strings.ToLower(format))
			if f != FormatText && f != FormatJSON && f != FormatICS {
				return fmt.Errorf("invalid format: %s (must be 'text', 'json' or 'ics')", format)
			}
			order := SortOrder(strings.ToLower(sortOrder))
			if !validSort(order) {
				return fmt.Errorf("invalid sort: %s (must be 'time', 'teams' or 'competition')", sortOrder)
			}

			flt := filter.NewFilter()
			flt.Channels = filter.ParseChannels(channels)
			flt.Terms = filter.ParseTerms(query)
			flt.Sources = filter.ParseChannels(sources)
			if timeRange != "" {
				from, to, err := filter.ParseTimeRange(timeRange)
				if err != nil {
					return err
				}
				flt.From, flt.To = from, to
			}

			snap, err := a.store.LoadSnapshot()
			if err != nil {
				return fmt.Errorf("loading snapshot: %w", err)
			}

			view := *snap
			view.Events = append([]*event.MergedEvent{}, flt.Apply(snap.Events)...)
			sortEvents(view.Events, order)

			opts := OutputOptions{
				Format:   f,
				Verbose:  a.verbose,
				Location: a.cfg.Location(),
				Now:      a.now(),
			}
			if !flt.IsEmpty() {
				opts.Filter = flt.String()
			}
			return WriteOutput(a.stdout, &view, opts)
		},
	}

	cmd.Flags().StringVar(&channels, "channel", "", "Comma-separated channel chips, e.g. 'DAZN,SKY SPORT'")
	cmd.Flags().StringVar(&query, "query", "", "Search terms; every term must match")
	cmd.Flags().StringVar(&sources, "source", "", "Only fixtures listed by these sources (LiveOnSat, SportEventz)")
	cmd.Flags().StringVar(&timeRange, "time", "", "Kickoff window, e.g. '18:00-22:00'")
	cmd.Flags().StringVar(&sortOrder, "sort", "time", "Sort order: time, teams or competition")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json or ics")
	return cmd
}

// Execute runs the CLI and returns the process exit code
func Execute() int {
	cmd := NewRootCmd()
	cmd.SetContext(context.Background())
	if err := cmd.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			return exit.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}
