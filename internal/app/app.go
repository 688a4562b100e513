package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"parkstreet/internal/config"
	"parkstreet/internal/departures"
	"parkstreet/internal/logging"
	"parkstreet/internal/mbta"
	"parkstreet/internal/output"
	"parkstreet/internal/realtime"
	"parkstreet/internal/report"
)

// PredictionSource fetches the predictions feed for a station.
type PredictionSource interface {
	Predictions(ctx context.Context, stationID string, limit int) (*mbta.Response, error)
}

// AlertSource fetches service alerts.
type AlertSource interface {
	Fetch(ctx context.Context) (realtime.Alerts, error)
}

// Runner executes one report run: fetch, filter, group, render, write.
type Runner struct {
	cfg    *config.Config
	feed   PredictionSource
	alerts AlertSource   // nil disables alerts
	viewer output.Viewer // nil disables opening the report
	stdout io.Writer
	now    func() time.Time
	logger *slog.Logger
}

// Option customizes a Runner.
type Option func(*Runner)

// WithAlerts enables the service alerts section.
func WithAlerts(src AlertSource) Option {
	return func(r *Runner) { r.alerts = src }
}

// WithViewer opens HTML reports after they are written.
func WithViewer(v output.Viewer) Option {
	return func(r *Runner) { r.viewer = v }
}

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithStdout sets where "-" output goes.
func WithStdout(w io.Writer) Option {
	return func(r *Runner) { r.stdout = w }
}

// New creates a Runner. The clock defaults to the configured fixed offset.
func New(cfg *config.Config, feed PredictionSource, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		feed:   feed,
		stdout: os.Stdout,
		now:    departures.Clock(cfg.Location()),
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report fetches the feed and builds the report data. Any fetch or timestamp
// error aborts; alert failures only drop the alerts section.
func (r *Runner) Report(ctx context.Context) (report.Data, error) {
	resp, err := r.feed.Predictions(ctx, r.cfg.StationID, r.cfg.PageLimit)
	if err != nil {
		return report.Data{}, fmt.Errorf("fetch predictions: %w", err)
	}

	now := r.now()
	records, err := departures.Build(resp.Data, resp.Included, departures.Options{
		StopID: r.cfg.StopID,
		Cap:    r.cfg.Cap,
	}, now)
	if err != nil {
		return report.Data{}, fmt.Errorf("build departures: %w", err)
	}
	groups := departures.GroupByRoute(records)
	r.logger.Info("departures admitted", "stop", r.cfg.StopID, "count", len(records), "routes", len(groups))

	data := report.Data{
		StationName: r.cfg.StationName,
		GeneratedAt: now,
		Groups:      groups,
	}
	if r.alerts != nil {
		data.Alerts = r.matchingAlerts(ctx, departures.RouteIDs(records))
	}
	return data, nil
}

// Alerts returns the alerts for the configured station and stop. Unlike the
// report, a failed alerts fetch is an error here.
func (r *Runner) Alerts(ctx context.Context, routeIDs []string) (realtime.Alerts, error) {
	if r.alerts == nil {
		return nil, errors.New("alerts feed not configured")
	}
	all, err := r.alerts.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return all.Affecting(routeIDs, []string{r.cfg.StationID, r.cfg.StopID}), nil
}

func (r *Runner) matchingAlerts(ctx context.Context, routeIDs []string) realtime.Alerts {
	alerts, err := r.Alerts(ctx, routeIDs)
	if err != nil {
		r.logger.Warn("alerts unavailable, rendering without them", "error", err)
		return nil
	}
	return alerts
}

// Render turns report data into the configured output format.
func (r *Runner) Render(ctx context.Context, data report.Data) ([]byte, error) {
	if r.cfg.Format == "text" {
		var buf bytes.Buffer
		if err := report.RenderText(&buf, data); err != nil {
			return nil, fmt.Errorf("render text report: %w", err)
		}
		return buf.Bytes(), nil
	}
	return report.RenderHTML(ctx, data)
}

// Run performs a full run. Nothing is written unless every fatal step succeeds.
func (r *Runner) Run(ctx context.Context) error {
	start := time.Now()

	data, err := r.Report(ctx)
	if err != nil {
		return err
	}
	doc, err := r.Render(ctx, data)
	if err != nil {
		return err
	}
	if err := output.Write(r.cfg.OutputPath, doc, r.stdout); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	logging.LogOperation(r.logger, "report written",
		slog.String("path", r.cfg.OutputPath),
		slog.String("format", r.cfg.Format),
		slog.Int("bytes", len(doc)),
		slog.Duration("duration", time.Since(start)))

	if r.viewer != nil && r.cfg.Format == "html" && r.cfg.OutputPath != output.Stdout {
		if err := r.viewer.Open(r.cfg.OutputPath); err != nil {
			logging.LogError(r.logger, "could not open report", err, slog.String("path", r.cfg.OutputPath))
		}
	}
	return nil
}
