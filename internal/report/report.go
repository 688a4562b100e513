package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"

	"parkstreet/internal/departures"
	"parkstreet/internal/realtime"
	"parkstreet/web"
)

// TimeLayout formats the "Current Time" header.
const TimeLayout = "2006-01-02 15:04:05"

// Data is everything a report shows. Rendering is a pure function of Data.
type Data struct {
	StationName string
	GeneratedAt time.Time
	Groups      []departures.RouteGroup
	Alerts      realtime.Alerts
}

// Title returns the document title.
func (d Data) Title() string {
	return fmt.Sprintf("Departures From %s Station", d.StationName)
}

// DestinationText is the destination cell, "Unknown" when unresolved.
func DestinationText(destination string) string {
	if destination == "" {
		return "Unknown"
	}
	return destination
}

// RouteTitle is the section heading, "Unknown route" when unresolved.
func RouteTitle(route string) string {
	if route == "" {
		return "Unknown route"
	}
	return route
}

// ScheduleText is the schedule cell.
func ScheduleText(minutes int) string {
	return fmt.Sprintf("Departing in %d minutes", minutes)
}

// RenderHTML renders the full HTML document into memory.
func RenderHTML(ctx context.Context, d Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := Document(d).Render(ctx, &buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

// htmlWriter remembers the first write error so components can write
// unconditionally and check once.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) child(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

// Document is the whole self-contained page.
func Document(d Data) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n<style>\n")
		h.raw(web.ReportCSS)
		h.raw("</style>\n<title>")
		h.text(d.Title())
		h.raw("</title>\n</head>\n<body>\n")
		h.child(ctx, header(d.GeneratedAt))
		if len(d.Alerts) > 0 {
			h.child(ctx, alertsSection(d.Alerts))
		}
		for _, g := range d.Groups {
			h.child(ctx, routeSection(g))
		}
		h.raw("</body>\n</html>\n")
		return h.err
	})
}

func header(generatedAt time.Time) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw("<h4><b>Current Time: </b>")
		h.text(generatedAt.Format(TimeLayout))
		h.raw("</h4>\n<hr>\n")
		return h.err
	})
}

func alertsSection(alerts realtime.Alerts) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw("<section class=\"alerts\">\n<h3><b>Alerts</b></h3>\n<ul>\n")
		for _, a := range alerts {
			h.raw("<li><b>")
			h.text(realtime.FormatAlertEffect(a.Effect))
			h.raw(":</b> ")
			h.text(a.HeaderText)
			h.raw("</li>\n")
		}
		h.raw("</ul>\n</section>\n")
		return h.err
	})
}

func routeSection(g departures.RouteGroup) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw("<h3><b>----")
		h.text(RouteTitle(g.Route))
		h.raw("----</b></h3>\n<table>\n<tbody>\n<tr><th>Destination</th><th>Schedule</th></tr>\n")
		for _, rec := range g.Departures {
			h.raw("<tr><td>")
			h.text(DestinationText(rec.Destination))
			h.raw("</td><td>")
			h.text(ScheduleText(rec.MinutesUntilDeparture))
			h.raw("</td></tr>\n")
		}
		h.raw("</tbody>\n</table>\n")
		return h.err
	})
}
