package departures

import (
	"fmt"
	"time"
)

// FixedZone returns a location at a constant UTC offset. It never observes
// daylight saving, so UTC-4 stays UTC-4 in winter.
func FixedZone(offsetHours int) *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", offsetHours), offsetHours*60*60)
}

// Clock returns a function reporting the current time in loc.
func Clock(loc *time.Location) func() time.Time {
	return func() time.Time {
		return time.Now().In(loc)
	}
}

// MinutesUntil returns the whole minutes from reference to target, truncated
// toward zero. It is negative when target is before reference.
func MinutesUntil(reference, target time.Time) int {
	return int(target.Sub(reference) / time.Minute)
}
