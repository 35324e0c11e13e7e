package appointment

import (
	"time"

	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
)

// TimestampLayout is the wire format of appointment_time.
const TimestampLayout = "2006-01-02 15:04:05"

type Outcome int

const (
	Available Outcome = iota
	ClosedAtDay
	ClosedAtTime
	Full
)

func (o Outcome) String() string {
	switch o {
	case Available:
		return "available"
	case ClosedAtDay:
		return httperr.CodeClosedAtDay
	case ClosedAtTime:
		return httperr.CodeClosedAtTime
	case Full:
		return httperr.CodeFull
	}
	return "unknown"
}

// Err is nil for Available and a BusinessError naming field otherwise.
func (o Outcome) Err(field string) error {
	if o == Available {
		return nil
	}
	return httperr.Field(o.String(), field, "")
}

// CheckHours decides whether [start, start+d) fits one of the day's opening
// intervals. start must already be in the business location.
func CheckHours(day []schedule.Interval, start time.Time, d time.Duration) Outcome {
	if len(day) == 0 {
		return ClosedAtDay
	}

	offset := schedule.SinceMidnight(start)
	for _, iv := range day {
		if iv.Fits(offset, d) {
			return Available
		}
	}
	return ClosedAtTime
}

// CheckCapacity compares bookings sharing the exact start time with the
// service capacity.
func CheckCapacity(booked, capacity int) Outcome {
	if booked >= capacity {
		return Full
	}
	return Available
}

// Counter returns how many live bookings share the exact start time.
type Counter func() (int, error)

// Evaluate runs the hours check and, only when the time fits, asks count for
// the bookings to compare against capacity. The returned int is that count.
func Evaluate(day []schedule.Interval, start time.Time, d time.Duration, capacity int, count Counter) (Outcome, int, error) {
	if o := CheckHours(day, start, d); o != Available {
		return o, 0, nil
	}
	booked, err := count()
	if err != nil {
		return Available, 0, err
	}
	return CheckCapacity(booked, capacity), booked, nil
}

type AvailabilityInput struct {
	ServiceID       uint
	AppointmentTime string
}

type AvailabilityResult struct {
	ServiceID       uint      `json:"service_id"`
	BusinessID      uint      `json:"business_id"`
	AppointmentTime time.Time `json:"appointment_time"`
	EndTime         time.Time `json:"end_time"`
	Available       bool      `json:"available"`
	Reason          string    `json:"reason,omitempty"`
	Booked          int       `json:"booked"`
	Capacity        int       `json:"capacity"`
}

type SlotsInput struct {
	ServiceID uint
	Date      string
}

type TimeSlot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Remaining int    `json:"remaining"`
}
