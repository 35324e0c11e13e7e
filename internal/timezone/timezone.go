package timezone

import (
	"sync"
	"time"
	_ "time/tzdata"
)

const DateLayout = "2006-01-02"

var DefaultTimezone = "America/Mexico_City"

// loaded caches zones by name; time.LoadLocation reads tzdata on every call.
var loaded sync.Map

// SetDefault replaces the fallback zone used for businesses without a valid timezone.
func SetDefault(tz string) {
	if IsValid(tz) {
		DefaultTimezone = tz
	}
}

func load(tz string) (*time.Location, bool) {
	if tz == "" {
		return nil, false
	}
	if loc, ok := loaded.Load(tz); ok {
		return loc.(*time.Location), true
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, false
	}
	loaded.Store(tz, loc)
	return loc, true
}

func IsValid(tz string) bool {
	_, ok := load(tz)
	return ok
}

// Location resolves tz, then the default zone, then UTC.
func Location(tz string) *time.Location {
	if loc, ok := load(tz); ok {
		return loc
	}
	if loc, ok := load(DefaultTimezone); ok {
		return loc
	}
	return time.UTC
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// ParseDate reads a YYYY-MM-DD day as local midnight in tz.
func ParseDate(tz, value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, Location(tz))
}
