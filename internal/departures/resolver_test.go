package departures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"parkstreet/internal/mbta"
)

func TestIndex_Resolve(t *testing.T) {
	included := []mbta.Resource{
		trip("T1", "Alewife"),
		route("Red", "Red Line"),
		{Type: "stop", ID: "T1", Attributes: mbta.ResourceAttributes{Headsign: "not a trip"}},
		trip("T1", "Duplicate"),
		route("T1", "Route named like a trip"),
	}
	ix := NewIndex(included)

	tests := []struct {
		name   string
		typ    string
		id     string
		want   string
		wantOK bool
	}{
		{"trip headsign", mbta.TypeTrip, "T1", "Alewife", true},
		{"route long name", mbta.TypeRoute, "Red", "Red Line", true},
		{"type must match", mbta.TypeRoute, "T1", "Route named like a trip", true},
		{"missing trip", mbta.TypeTrip, "T2", "", false},
		{"missing route", mbta.TypeRoute, "Blue", "", false},
		{"unindexed type", "stop", "T1", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ix.Resolve(tt.typ, tt.id)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestIndex_Helpers(t *testing.T) {
	ix := NewIndex([]mbta.Resource{trip("T1", "Ashmont"), route("Red", "Red Line")})

	dest, ok := ix.Destination("T1")
	assert.True(t, ok)
	assert.Equal(t, "Ashmont", dest)

	name, ok := ix.Route("Red")
	assert.True(t, ok)
	assert.Equal(t, "Red Line", name)

	_, ok = NewIndex(nil).Route("Red")
	assert.False(t, ok)
}

func TestMinutesUntil(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want int
	}{
		{"exactly now", 0, 0},
		{"30 min", 30 * time.Minute, 30},
		{"59 seconds", 59 * time.Second, 0},
		{"1m59s", time.Minute + 59*time.Second, 1},
		{"-59 seconds truncates to 0", -59 * time.Second, 0},
		{"-1m30s truncates to -1", -90 * time.Second, -1},
		{"-5 min", -5 * time.Minute, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MinutesUntil(testNow, testNow.Add(tt.d)))
		})
	}
}

func TestFixedZone(t *testing.T) {
	loc := FixedZone(-4)

	// No DST: January and July share the same offset.
	winter := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC).In(loc)
	summer := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC).In(loc)

	_, winterOffset := winter.Zone()
	_, summerOffset := summer.Zone()
	assert.Equal(t, -4*3600, winterOffset)
	assert.Equal(t, -4*3600, summerOffset)
	assert.Equal(t, 8, winter.Hour())
	assert.Equal(t, "UTC-4", loc.String())

	assert.Equal(t, "UTC+2", FixedZone(2).String())
}

func TestClock(t *testing.T) {
	now := Clock(FixedZone(-4))()
	_, offset := now.Zone()
	assert.Equal(t, -4*3600, offset)
}
