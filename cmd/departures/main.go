package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"parkstreet/internal/app"
	"parkstreet/internal/config"
	"parkstreet/internal/logging"
	"parkstreet/internal/mbta"
	"parkstreet/internal/output"
	"parkstreet/internal/realtime"
	"parkstreet/internal/report"
)

func main() {
	cfg := config.Load()

	a := &cli.App{
		Name:  "departures",
		Usage: "Show the next departures from one MBTA stop",
		Flags: flags(cfg),
		Action: func(c *cli.Context) error {
			return runReport(c, cfg)
		},
		Commands: []*cli.Command{
			alertsCommand(cfg),
		},
	}

	if err := a.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func flags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file", EnvVars: []string{"PARKSTREET_CONFIG"}},
		&cli.StringFlag{Name: "api-url", Value: cfg.BaseURL, Usage: "MBTA v3 API base URL"},
		&cli.StringFlag{Name: "api-key", Usage: "MBTA API key"},
		&cli.StringFlag{Name: "station", Value: cfg.StationID, Usage: "station (parent stop) id to query"},
		&cli.StringFlag{Name: "stop", Value: cfg.StopID, Usage: "platform stop id to report on"},
		&cli.StringFlag{Name: "station-name", Value: cfg.StationName, Usage: "station name for the report title"},
		&cli.IntFlag{Name: "cap", Value: cfg.Cap, Usage: "maximum departures to show"},
		&cli.IntFlag{Name: "utc-offset", Value: cfg.UTCOffsetHours, Usage: "fixed UTC offset in hours used for the current time"},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: cfg.OutputPath, Usage: `report path, "-" for stdout`},
		&cli.StringFlag{Name: "format", Value: cfg.Format, Usage: "html or text"},
		&cli.BoolFlag{Name: "open", Value: cfg.OpenBrowser, Usage: "open the HTML report in a browser"},
		&cli.StringFlag{Name: "log-dir", Value: cfg.LogDir, Usage: "also write a log<millis>.txt file per run here"},
		&cli.StringFlag{Name: "log-level", Value: cfg.LogLevel},
		&cli.StringFlag{Name: "log-format", Value: cfg.LogFormat, Usage: "text or json"},
		&cli.StringFlag{Name: "alerts-url", Value: cfg.AlertsURL, Usage: "GTFS-RT alerts feed URL (optional)"},
		&cli.DurationFlag{Name: "timeout", Value: cfg.HTTPTimeout, Usage: "HTTP timeout per request"},
	}
}

// resolve applies the config file and any explicitly set flags, then validates.
func resolve(c *cli.Context, cfg *config.Config) error {
	if c.IsSet("config") {
		if err := cfg.LoadFile(c.String("config")); err != nil {
			return err
		}
	}

	setString := func(name string, dst *string) {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	setString("api-url", &cfg.BaseURL)
	setString("api-key", &cfg.APIKey)
	setString("station", &cfg.StationID)
	setString("stop", &cfg.StopID)
	setString("station-name", &cfg.StationName)
	setString("output", &cfg.OutputPath)
	setString("format", &cfg.Format)
	setString("log-dir", &cfg.LogDir)
	setString("log-level", &cfg.LogLevel)
	setString("log-format", &cfg.LogFormat)
	setString("alerts-url", &cfg.AlertsURL)
	if c.IsSet("cap") {
		cfg.Cap = c.Int("cap")
	}
	if c.IsSet("utc-offset") {
		cfg.UTCOffsetHours = c.Int("utc-offset")
	}
	if c.IsSet("open") {
		cfg.OpenBrowser = c.Bool("open")
	}
	if c.IsSet("timeout") {
		cfg.HTTPTimeout = c.Duration("timeout")
	}

	return cfg.Validate()
}

// newLogger logs to stderr and, when a log dir is configured, to a fresh
// per-run file. The returned func closes that file.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	var w io.Writer = os.Stderr
	closeFn := func() {}

	if cfg.LogDir != "" {
		f, err := logging.OpenRunLog(cfg.LogDir, time.Now())
		if err != nil {
			return nil, nil, err
		}
		w = io.MultiWriter(os.Stderr, f)
		closeFn = func() { f.Close() }
	}

	return logging.New(w, logging.ParseLevel(cfg.LogLevel), cfg.LogFormat), closeFn, nil
}

func newRunner(cfg *config.Config, logger *slog.Logger) *app.Runner {
	client := mbta.NewClient(cfg.BaseURL, cfg.APIKey, cfg.HTTPTimeout, logger)

	var opts []app.Option
	if cfg.AlertsURL != "" {
		opts = append(opts, app.WithAlerts(realtime.NewFetcher(cfg.AlertsURL, cfg.HTTPTimeout, logger)))
	}
	if cfg.OpenBrowser {
		opts = append(opts, app.WithViewer(output.Browser{}))
	}
	return app.New(cfg, client, logger, opts...)
}

func runReport(c *cli.Context, cfg *config.Config) error {
	if err := resolve(c, cfg); err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("fetching departures", "station", cfg.StationID, "stop", cfg.StopID)
	if err := newRunner(cfg, logger).Run(ctx); err != nil {
		logging.LogError(logger, "run failed", err)
		return cli.Exit("", 1)
	}
	return nil
}

func alertsCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "alerts",
		Usage: "Print service alerts affecting the station, its stop, or the given routes",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "route", Usage: "route id to include (repeatable)"},
		},
		Action: func(c *cli.Context) error {
			if err := resolve(c, cfg); err != nil {
				return err
			}
			if cfg.AlertsURL == "" {
				return cli.Exit("no alerts feed configured (set --alerts-url or PARKSTREET_ALERTS_URL)", 1)
			}
			logger, closeLog, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			alerts, err := newRunner(cfg, logger).Alerts(ctx, c.StringSlice("route"))
			if err != nil {
				logging.LogError(logger, "fetching alerts failed", err)
				return cli.Exit("", 1)
			}
			if len(alerts) == 0 {
				fmt.Fprintln(c.App.Writer, "No alerts.")
				return nil
			}
			report.RenderAlertsText(c.App.Writer, alerts)
			return nil
		},
	}
}
