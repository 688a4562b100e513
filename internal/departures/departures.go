package departures

import (
	"errors"
	"fmt"
	"time"

	"parkstreet/internal/mbta"
)

// DefaultCap is the maximum number of departures admitted per run.
const DefaultCap = 10

// ErrTimestamp is returned when a prediction time is not a valid RFC 3339
// timestamp. It aborts the whole run.
var ErrTimestamp = errors.New("malformed prediction timestamp")

// Record is one upcoming departure from the target stop. An empty Destination
// or Route means the trip or route was not found among the included resources.
type Record struct {
	Destination           string
	Route                 string
	RouteID               string
	MinutesUntilDeparture int
}

// Options selects which predictions are admitted.
type Options struct {
	StopID string
	Cap    int // <= 0 means DefaultCap
}

// Build admits predictions in feed order and converts them into departure
// records. A prediction is admitted when it is for opts.StopID, has both an
// arrival and a departure time, and arrives strictly after now. Scanning stops
// once opts.Cap records are admitted; the feed is expected to be sorted by
// departure time already, so no sorting happens here.
func Build(predictions []mbta.Prediction, included []mbta.Resource, opts Options, now time.Time) ([]Record, error) {
	limit := opts.Cap
	if limit <= 0 {
		limit = DefaultCap
	}

	ix := NewIndex(included)
	var records []Record

	for _, p := range predictions {
		if len(records) >= limit {
			break
		}
		if p.Relationships.Stop.ID() != opts.StopID {
			continue
		}
		attrs := p.Attributes
		if attrs.ArrivalTime == nil || attrs.DepartureTime == nil {
			continue
		}

		arrival, err := parseTime(p.ID, "arrival_time", *attrs.ArrivalTime)
		if err != nil {
			return nil, err
		}
		if !arrival.After(now) {
			continue
		}
		departure, err := parseTime(p.ID, "departure_time", *attrs.DepartureTime)
		if err != nil {
			return nil, err
		}

		routeID := p.Relationships.Route.ID()
		destination, _ := ix.Destination(p.Relationships.Trip.ID())
		route, _ := ix.Route(routeID)

		records = append(records, Record{
			Destination:           destination,
			Route:                 route,
			RouteID:               routeID,
			MinutesUntilDeparture: MinutesUntil(now, departure),
		})
	}
	return records, nil
}

func parseTime(predictionID, field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: prediction %s %s: %w", ErrTimestamp, predictionID, field, err)
	}
	return t, nil
}

// RouteIDs returns the distinct route ids of records in first-seen order.
func RouteIDs(records []Record) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, r := range records {
		if r.RouteID == "" || seen[r.RouteID] {
			continue
		}
		seen[r.RouteID] = true
		ids = append(ids, r.RouteID)
	}
	return ids
}
