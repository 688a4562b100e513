package realtime

import "slices"

// Alert represents a parsed service alert.
type Alert struct {
	ID         string
	HeaderText string
	DescText   string
	RouteIDs   []string
	StopIDs    []string
	Effect     string // "NO_SERVICE", "REDUCED_SERVICE", "DETOUR", etc.
	Cause      string
}

// Alerts is the decoded content of one alerts feed, in feed order.
type Alerts []Alert

// Affecting returns the alerts that name any of routeIDs or stopIDs.
func (a Alerts) Affecting(routeIDs, stopIDs []string) Alerts {
	var result Alerts
	for _, alert := range a {
		if overlaps(alert.RouteIDs, routeIDs) || overlaps(alert.StopIDs, stopIDs) {
			result = append(result, alert)
		}
	}
	return result
}

func overlaps(have, want []string) bool {
	for _, id := range have {
		if slices.Contains(want, id) {
			return true
		}
	}
	return false
}
