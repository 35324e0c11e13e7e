package appointment

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
)

var mondayNineToFive = []schedule.Interval{{Open: 9 * 60, Close: 17 * 60}}

// 2026-10-19 is a Monday.
func monday(h, m int) time.Time {
	return time.Date(2026, 10, 19, h, m, 0, 0, time.UTC)
}

func booked(n int) Counter {
	return func() (int, error) { return n, nil }
}

func TestEvaluate_MondayScenario(t *testing.T) {
	d := 30 * time.Minute

	o, _, err := Evaluate(mondayNineToFive, monday(16, 45), d, 1, booked(0))
	require.NoError(t, err)
	assert.Equal(t, ClosedAtTime, o)

	o, n, err := Evaluate(mondayNineToFive, monday(16, 0), d, 1, booked(0))
	require.NoError(t, err)
	assert.Equal(t, Available, o)
	assert.Equal(t, 0, n)

	o, n, err = Evaluate(mondayNineToFive, monday(16, 0), d, 1, booked(1))
	require.NoError(t, err)
	assert.Equal(t, Full, o)
	assert.Equal(t, 1, n)
}

func TestEvaluate_SkipsCountOutsideHours(t *testing.T) {
	calls := 0
	count := func() (int, error) {
		calls++
		return 0, nil
	}

	o, _, err := Evaluate(nil, monday(10, 0), time.Hour, 1, count)
	require.NoError(t, err)
	assert.Equal(t, ClosedAtDay, o)
	assert.Zero(t, calls)
}

func TestEvaluate_CountError(t *testing.T) {
	boom := errors.New("db down")
	_, _, err := Evaluate(mondayNineToFive, monday(10, 0), time.Hour, 1, func() (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestCheckHours_ClosedDayBeatsDuration(t *testing.T) {
	for _, d := range []time.Duration{0, time.Minute, 8 * time.Hour} {
		assert.Equal(t, ClosedAtDay, CheckHours(nil, monday(10, 0), d))
	}
}

func TestCheckHours_SplitDay(t *testing.T) {
	day := []schedule.Interval{
		{Open: 9 * 60, Close: 13 * 60},
		{Open: 14 * 60, Close: 18 * 60},
	}
	hour := time.Hour

	assert.Equal(t, Available, CheckHours(day, monday(12, 0), hour))
	assert.Equal(t, ClosedAtTime, CheckHours(day, monday(12, 30), hour), "crosses the lunch gap")
	assert.Equal(t, Available, CheckHours(day, monday(14, 0), hour))
	assert.Equal(t, ClosedAtTime, CheckHours(day, monday(8, 30), hour))
}

func TestCheckHours_PastMidnightIsClosed(t *testing.T) {
	day := []schedule.Interval{{Open: 20 * 60, Close: 24 * 60}}
	assert.Equal(t, Available, CheckHours(day, monday(23, 0), time.Hour))
	assert.Equal(t, ClosedAtTime, CheckHours(day, monday(23, 30), time.Hour))
}

func TestCheckCapacity(t *testing.T) {
	assert.Equal(t, Available, CheckCapacity(2, 3))
	assert.Equal(t, Full, CheckCapacity(3, 3))
	assert.Equal(t, Full, CheckCapacity(4, 3))
}

func TestOutcome_Err(t *testing.T) {
	assert.NoError(t, Available.Err("x"))

	err := Full.Err("pets_services.0.service_id")
	be, ok := httperr.AsBusiness(err)
	assert.True(t, ok)
	assert.Equal(t, httperr.CodeFull, be.Code)
	assert.Equal(t, "pets_services.0.service_id", be.Field)
}
