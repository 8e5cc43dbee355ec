package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"ewucal/internal/config"
	"ewucal/internal/csvio"
	appLog "ewucal/internal/log"
	"ewucal/internal/store"
	"ewucal/internal/timetable"
	"ewucal/internal/web"
)

// flagConfig holds CLI flag values.
type flagConfig struct {
	configPath string
	listen     string
	debug      bool

	// One-shot compile mode: read session rows from a CSV export and
	// write the calendar without talking to the portal.
	csvPath string
	outPath string
	name    string
	start   string
	end     string
}

func main() {
	appLog.Info("ewucal starting", "version", "0.1.0")

	flags := parseFlags()
	if flags.debug {
		appLog.SetLevel(appLog.LevelDebug)
	}

	if flags.csvPath != "" {
		if err := compileCSV(flags); err != nil {
			appLog.Error("csv compile failed", err, "csv", flags.csvPath)
			os.Exit(1)
		}
		return
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI --listen overrides config file listen if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"portal", conf.PortalBaseURL,
		"timezone", conf.Timezone,
		"store_ttl_minutes", conf.StoreTTLMinutes,
		"sweep", conf.SweepCron,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	docs := store.New(time.Duration(conf.StoreTTLMinutes) * time.Minute)

	// Periodic eviction of expired calendars.
	sweeper := cron.New()
	if _, err := sweeper.AddFunc(conf.SweepCron, func() {
		if n := docs.Sweep(); n > 0 {
			appLog.Info("store sweep", "evicted", n, "remaining", docs.Len())
		}
	}); err != nil {
		appLog.Error("invalid sweep schedule", err, "sweep", conf.SweepCron)
		os.Exit(1)
	}
	sweeper.Start()
	defer sweeper.Stop()

	if err := web.StartServer(ctx, conf, docs); err != nil {
		appLog.Error("HTTP server failed", err)
		os.Exit(1)
	}

	appLog.Info("ewucal exiting")
}

// compileCSV runs the compiler once over a CSV of session rows and writes
// the calendar to -out (or stdout).
func compileCSV(flags flagConfig) error {
	if flags.start == "" || flags.end == "" {
		return fmt.Errorf("-start and -end are required with -csv")
	}
	startDate, err := time.Parse("2006-01-02", flags.start)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}
	endDate, err := time.Parse("2006-01-02", flags.end)
	if err != nil {
		return fmt.Errorf("invalid -end: %w", err)
	}

	records, err := csvio.LoadSessions(flags.csvPath)
	if err != nil {
		return err
	}
	courses, err := timetable.AggregateCourses(records)
	if err != nil {
		return err
	}
	document, err := timetable.BuildTimetable(courses, flags.name, startDate, endDate)
	if err != nil {
		return err
	}

	if flags.outPath == "" || flags.outPath == "-" {
		_, err = os.Stdout.WriteString(document)
		return err
	}
	if err := os.WriteFile(flags.outPath, []byte(document), 0o644); err != nil {
		return err
	}
	appLog.Info("calendar written", "out", flags.outPath, "courses", len(courses))
	return nil
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/ewucal/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")
	flag.StringVar(&cfg.csvPath, "csv", "", "Compile session rows from a CSV file and exit")
	flag.StringVar(&cfg.outPath, "out", "-", "Output path for -csv mode (default stdout)")
	flag.StringVar(&cfg.name, "name", "Timetable", "Calendar name for -csv mode")
	flag.StringVar(&cfg.start, "start", "", "Semester start date (YYYY-MM-DD) for -csv mode")
	flag.StringVar(&cfg.end, "end", "", "Semester end date (YYYY-MM-DD) for -csv mode")

	flag.Parse()

	return cfg
}
