package schedule

import (
	"fmt"
	"sort"
	"time"
)

// Clock is a local wall-clock time in minutes since midnight.
type Clock int

const clockLayout = "15:04"

func ParseClock(hm string) (Clock, error) {
	t, err := time.Parse(clockLayout, hm)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", hm)
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Interval is the half-open opening window [Open, Close).
type Interval struct {
	Open  Clock
	Close Clock
}

func (iv Interval) Valid() bool {
	return iv.Open >= 0 && iv.Close <= 24*60 && iv.Open < iv.Close
}

// Fits reports whether [start, start+d) lies inside the interval. start is
// expressed as an offset from local midnight.
func (iv Interval) Fits(start, d time.Duration) bool {
	opensAt := time.Duration(iv.Open) * time.Minute
	closesAt := time.Duration(iv.Close) * time.Minute
	return opensAt <= start && closesAt >= start+d
}

// SinceMidnight returns how far t is from its own local midnight.
func SinceMidnight(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())
}

// Normalize sorts intervals by opening time and rejects malformed or
// overlapping ones. Touching intervals (09:00-12:00, 12:00-15:00) are allowed.
func Normalize(intervals []Interval) ([]Interval, error) {
	out := make([]Interval, len(intervals))
	copy(out, intervals)

	for _, iv := range out {
		if !iv.Valid() {
			return nil, fmt.Errorf("interval %s-%s must start before it ends", iv.Open, iv.Close)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Open < out[j].Open })

	for i := 1; i < len(out); i++ {
		if out[i].Open < out[i-1].Close {
			return nil, fmt.Errorf(
				"interval %s-%s overlaps %s-%s",
				out[i].Open, out[i].Close, out[i-1].Open, out[i-1].Close,
			)
		}
	}
	return out, nil
}

// Week is the full set of opening intervals keyed by weekday. A missing key
// means the business is closed all day.
type Week map[Weekday][]Interval

// Covers reports whether iv lies entirely inside one of the intervals of day.
func (w Week) Covers(day Weekday, iv Interval) bool {
	for _, open := range w[day] {
		if open.Open <= iv.Open && iv.Close <= open.Close {
			return true
		}
	}
	return false
}
