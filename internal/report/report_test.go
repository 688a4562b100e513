package report

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkstreet/internal/departures"
	"parkstreet/internal/realtime"
)

func sampleData() Data {
	records := []departures.Record{
		{Destination: "Alewife", Route: "Red Line", MinutesUntilDeparture: 5},
		{Destination: "Boston College", Route: "Green Line B", MinutesUntilDeparture: 6},
		{Destination: "Ashmont", Route: "Red Line", MinutesUntilDeparture: 9},
	}
	return Data{
		StationName: "Park Street",
		GeneratedAt: time.Date(2025, 6, 15, 14, 3, 7, 0, departures.FixedZone(-4)),
		Groups:      departures.GroupByRoute(records),
	}
}

func TestRenderHTML(t *testing.T) {
	out, err := RenderHTML(context.Background(), sampleData())
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "<title>Departures From Park Street Station</title>")
	assert.Contains(t, html, "<h4><b>Current Time: </b>2025-06-15 14:03:07</h4>")
	assert.Contains(t, html, "border-collapse: collapse;")
	assert.Contains(t, html, "<tr><td>Alewife</td><td>Departing in 5 minutes</td></tr>")
	assert.NotContains(t, html, "Alerts")

	// Sections appear in first-seen order, rows in admission order.
	red := strings.Index(html, "----Red Line----")
	green := strings.Index(html, "----Green Line B----")
	alewife := strings.Index(html, "Alewife")
	ashmont := strings.Index(html, "Ashmont")
	require.True(t, red >= 0 && green >= 0)
	assert.Less(t, red, green)
	assert.Less(t, alewife, ashmont)
	assert.Less(t, ashmont, green)

	assert.Equal(t, 2, strings.Count(html, "<table>"))
}

func TestRenderHTML_Deterministic(t *testing.T) {
	d := sampleData()
	first, err := RenderHTML(context.Background(), d)
	require.NoError(t, err)
	second, err := RenderHTML(context.Background(), d)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second))
}

func TestRenderHTML_Escapes(t *testing.T) {
	d := Data{
		StationName: "Park <Street>",
		GeneratedAt: time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC),
		Groups: []departures.RouteGroup{{
			Route:      "Red & Blue",
			Departures: []departures.Record{{Destination: "<script>alert(1)</script>", MinutesUntilDeparture: 1}},
		}},
		Alerts: realtime.Alerts{{HeaderText: "Shuttles <b>replace</b> trains", Effect: "DETOUR"}},
	}
	out, err := RenderHTML(context.Background(), d)
	require.NoError(t, err)
	html := string(out)

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "----Red &amp; Blue----")
	assert.Contains(t, html, "Park &lt;Street&gt;")
	assert.Contains(t, html, "<li><b>Detour:</b> Shuttles &lt;b&gt;replace&lt;/b&gt; trains</li>")
}

func TestRenderHTML_MissingReferences(t *testing.T) {
	d := Data{
		StationName: "Park Street",
		GeneratedAt: time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC),
		Groups: departures.GroupByRoute([]departures.Record{
			{Destination: "", Route: "", MinutesUntilDeparture: 2},
		}),
	}
	out, err := RenderHTML(context.Background(), d)
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, "----Unknown route----")
	assert.Contains(t, html, "<td>Unknown</td>")
}

func TestRenderHTML_AlertsBeforeRoutes(t *testing.T) {
	d := sampleData()
	d.Alerts = realtime.Alerts{{HeaderText: "Red Line delays", Effect: "SIGNIFICANT_DELAYS"}}

	out, err := RenderHTML(context.Background(), d)
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, "Significant Delays")
	assert.Less(t, strings.Index(html, "Red Line delays"), strings.Index(html, "----Red Line----"))
}

func TestDisplayHelpers(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"destination", DestinationText("Alewife"), "Alewife"},
		{"missing destination", DestinationText(""), "Unknown"},
		{"route", RouteTitle("Red Line"), "Red Line"},
		{"missing route", RouteTitle(""), "Unknown route"},
		{"schedule", ScheduleText(7), "Departing in 7 minutes"},
		{"negative schedule", ScheduleText(-1), "Departing in -1 minutes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestRenderText(t *testing.T) {
	d := sampleData()
	d.Alerts = realtime.Alerts{{HeaderText: "Elevator closed", Effect: "ACCESSIBILITY_ISSUE"}}

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, d))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Departures From Park Street Station\nCurrent Time: 2025-06-15 14:03:07\n"))
	assert.Contains(t, out, "Elevator closed")
	assert.Contains(t, out, "----Red Line----")
	assert.Contains(t, out, "Departing in 9 minutes")
	assert.Less(t, strings.Index(out, "----Red Line----"), strings.Index(out, "----Green Line B----"))

	var again bytes.Buffer
	require.NoError(t, RenderText(&again, d))
	assert.Equal(t, out, again.String())
}
