package departures

// RouteGroup is the departures of one route, in admission order.
type RouteGroup struct {
	Route      string
	Departures []Record
}

// GroupByRoute partitions records by route name. Groups are ordered by the
// first record seen for each route, and records keep their relative order.
func GroupByRoute(records []Record) []RouteGroup {
	index := make(map[string]int)
	var groups []RouteGroup

	for _, rec := range records {
		i, exists := index[rec.Route]
		if !exists {
			i = len(groups)
			index[rec.Route] = i
			groups = append(groups, RouteGroup{Route: rec.Route})
		}
		groups[i].Departures = append(groups[i].Departures, rec)
	}
	return groups
}
