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

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/landmark-ics/internal/calendar"
	"github.com/pfrederiksen/landmark-ics/internal/config"
	"github.com/pfrederiksen/landmark-ics/internal/event"
	"github.com/pfrederiksen/landmark-ics/internal/logger"
	"github.com/pfrederiksen/landmark-ics/internal/scraper"
	"github.com/pfrederiksen/landmark-ics/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// ErrNoEvents is returned when a run finds nothing to publish. No file is
// written in that case.
var ErrNoEvents = errors.New("no events parsed")

var (
	flagConfig        string
	flagURL           string
	flagOutput        string
	flagTimezone      string
	flagPrefix        string
	flagPrunePast     bool
	flagSchedule      string
	flagNoDetailPages bool
	flagFormat        string
	flagLogLevel      string
	flagVerbose       bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "landmark-ics",
		Short: "Build an iCalendar feed from the Landmark Theatre event listing",
		Long: `Scrapes the Landmark Theatre public event calendar and writes every
showtime it can find to an .ics file that calendar apps can subscribe to.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGenerate,
	}

	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	cmd.Flags().StringVar(&flagURL, "url", "", "Event listing URL (overrides config)")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output .ics path (overrides config)")
	cmd.Flags().StringVar(&flagTimezone, "timezone", "", "IANA time zone of the venue (overrides config)")
	cmd.Flags().StringVar(&flagPrefix, "prefix", "", "SUMMARY prefix; pass an empty string for bare titles")
	cmd.Flags().BoolVar(&flagPrunePast, "prune-past", false, "Drop events that started more than a day ago")
	cmd.Flags().StringVar(&flagSchedule, "schedule", "", "Cron expression; rebuild on this schedule until interrupted")
	cmd.Flags().BoolVar(&flagNoDetailPages, "no-detail-pages", false, "Do not follow Read More links")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging (same as --log-level debug)")

	cmd.AddCommand(newInspectCmd(), newConfigCmd())

	return cmd
}

// loadConfig reads the config file and applies any flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.CalendarURL = strings.TrimSpace(flagURL)
	}
	if flags.Changed("output") {
		cfg.Output = flagOutput
	}
	if flags.Changed("timezone") {
		cfg.Timezone = strings.TrimSpace(flagTimezone)
	}
	if flags.Changed("prefix") {
		cfg = cfg.WithPrefix(flagPrefix)
	}
	if flags.Changed("prune-past") {
		cfg.PrunePast = flagPrunePast
	}
	if flags.Changed("schedule") {
		cfg.Schedule = strings.TrimSpace(flagSchedule)
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func parseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// setupLogging installs the default logger, writing to the command's
// error stream.
func setupLogging(cmd *cobra.Command) {
	level := logger.ParseLevel(flagLogLevel)
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))
}

// runGenerate is the main command logic
func runGenerate(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)

	format, err := parseFormat(flagFormat)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var opts []scraper.Option
	if flagNoDetailPages {
		opts = append(opts, scraper.WithoutDetailPages())
	}

	if cfg.Schedule != "" {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runScheduled(ctx, cfg, func(result *Result) error {
			return WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose)
		}, opts...)
	}

	result, err := build(cmd.Context(), cfg, time.Now, opts...)
	if err != nil {
		return err
	}
	return WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose)
}

// build runs one fetch, extract and write cycle.
func build(ctx context.Context, cfg config.Config, now func() time.Time, opts ...scraper.Option) (*Result, error) {
	metrics := logger.NewMetrics()
	opts = append([]scraper.Option{
		scraper.WithClock(now),
		scraper.WithMetrics(metrics),
	}, opts...)

	sc, err := scraper.New(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing scraper: %w", err)
	}

	logger.Debug("Fetching events", logger.Fields{
		"url":        cfg.CalendarURL,
		"strategies": sc.Strategies(),
	})

	events, err := sc.FetchEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching events: %w", err)
	}

	generatedAt := now()
	if cfg.PrunePast {
		before := len(events)
		events = event.PrunePast(events, generatedAt)
		metrics.AddCounter("events.pruned", int64(before-len(events)))
	}

	if len(events) == 0 {
		if metrics.Counter("candidates") == 0 {
			logger.Warn("No event containers found on the listing page", logger.Fields{
				"url": cfg.CalendarURL,
			})
		}
		logger.Warn("No events to publish", metrics.Snapshot().Fields())
		return nil, ErrNoEvents
	}
	event.SortByStart(events)

	var upcoming int64
	for _, evt := range events {
		if evt.IsUpcoming(generatedAt) {
			upcoming++
		}
	}
	metrics.AddCounter("events.upcoming", upcoming)

	store, err := storage.New(cfg.Output)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	meta := calendar.Meta{
		ProductID:     cfg.ProductID,
		Name:          cfg.CalendarName,
		Timezone:      cfg.Timezone,
		SummaryPrefix: cfg.Prefix(),
	}
	err = metrics.Time("write", func() error {
		return store.Write(func(w io.Writer) error {
			return calendar.Write(w, events, meta, generatedAt)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("writing calendar: %w", err)
	}

	snapshot := metrics.Snapshot()
	logger.Info("Calendar written", snapshot.Fields())

	return &Result{
		GeneratedAt: generatedAt.UTC(),
		Output:      store.Path(),
		EventCount:  len(events),
		Events:      events,
		Metrics:     snapshot,
	}, nil
}

// runScheduled builds once immediately and then on every tick of
// cfg.Schedule until ctx is cancelled. A failed build is logged and the
// schedule keeps going; builds never overlap.
func runScheduled(ctx context.Context, cfg config.Config, report func(*Result) error, opts ...scraper.Option) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	run := func() {
		result, err := build(ctx, cfg, time.Now, opts...)
		if err != nil {
			logger.Error("Scheduled build failed", logger.Fields{"schedule": cfg.Schedule}, err)
			return
		}
		if err := report(result); err != nil {
			logger.Error("Writing output failed", nil, err)
		}
	}

	cl := cronLogger{}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := c.AddFunc(cfg.Schedule, run); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", cfg.Schedule, err)
	}

	logger.Info("Starting scheduled builds", logger.Fields{
		"schedule": cfg.Schedule,
		"timezone": cfg.Timezone,
		"output":   cfg.Output,
	})

	run()
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	logger.Info("Scheduler stopped", nil)
	return nil
}

// cronLogger routes the scheduler's own messages into the package logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug("cron: "+msg, kvFields(keysAndValues))
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("cron: "+msg, kvFields(keysAndValues), err)
}

func kvFields(kv []interface{}) logger.Fields {
	if len(kv) == 0 {
		return nil
	}
	f := make(logger.Fields, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		f[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return f
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		_ = logger.Default().Sync()
		os.Exit(ExitError)
	}
	_ = logger.Default().Sync()
}
