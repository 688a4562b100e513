package report

import (
	"fmt"
	"io"

	"github.com/rodaine/table"

	"parkstreet/internal/realtime"
)

// RenderText writes the report as plain-text tables, one per route.
func RenderText(w io.Writer, d Data) error {
	if _, err := fmt.Fprintf(w, "%s\nCurrent Time: %s\n", d.Title(), d.GeneratedAt.Format(TimeLayout)); err != nil {
		return err
	}

	if len(d.Alerts) > 0 {
		fmt.Fprintln(w, "\nAlerts")
		RenderAlertsText(w, d.Alerts)
	}

	for _, g := range d.Groups {
		fmt.Fprintf(w, "\n----%s----\n", RouteTitle(g.Route))
		tbl := table.New("Destination", "Schedule").WithWriter(w)
		for _, rec := range g.Departures {
			tbl.AddRow(DestinationText(rec.Destination), ScheduleText(rec.MinutesUntilDeparture))
		}
		tbl.Print()
	}
	return nil
}

// RenderAlertsText writes alerts as a single effect/header table.
func RenderAlertsText(w io.Writer, alerts realtime.Alerts) {
	tbl := table.New("Effect", "Alert").WithWriter(w)
	for _, a := range alerts {
		tbl.AddRow(realtime.FormatAlertEffect(a.Effect), a.HeaderText)
	}
	tbl.Print()
}
