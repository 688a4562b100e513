package departures

import "parkstreet/internal/mbta"

type refKey struct {
	typ string
	id  string
}

// Index resolves (type, id) references against the included resources of a
// single response. Build it once per run.
type Index struct {
	values map[refKey]string
}

// NewIndex indexes the display attribute of every trip (headsign) and route
// (long name). When an id repeats, the first occurrence wins.
func NewIndex(included []mbta.Resource) *Index {
	ix := &Index{values: make(map[refKey]string, len(included))}
	for _, r := range included {
		var v string
		switch r.Type {
		case mbta.TypeTrip:
			v = r.Attributes.Headsign
		case mbta.TypeRoute:
			v = r.Attributes.LongName
		default:
			continue
		}
		key := refKey{r.Type, r.ID}
		if _, seen := ix.values[key]; !seen {
			ix.values[key] = v
		}
	}
	return ix
}

// Resolve returns the display attribute for (typ, id) and whether it was found.
func (ix *Index) Resolve(typ, id string) (string, bool) {
	v, ok := ix.values[refKey{typ, id}]
	return v, ok
}

// Destination returns the headsign of a trip.
func (ix *Index) Destination(tripID string) (string, bool) {
	return ix.Resolve(mbta.TypeTrip, tripID)
}

// Route returns the long name of a route.
func (ix *Index) Route(routeID string) (string, bool) {
	return ix.Resolve(mbta.TypeRoute, routeID)
}
