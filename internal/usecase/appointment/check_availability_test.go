package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/petcare-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
)

func TestCheckAvailability(t *testing.T) {
	repo := seededRepo()
	uc := NewCheckAvailability(repo)
	ctx := context.Background()

	res, err := uc.Execute(ctx, domain.AvailabilityInput{ServiceID: groomingID, AppointmentTime: mondayAt1600})
	require.NoError(t, err)
	assert.True(t, res.Available)
	assert.Equal(t, 1, res.Capacity)
	assert.Equal(t, 16, res.EndTime.Hour())
	assert.Equal(t, 30, res.EndTime.Minute())

	res, err = uc.Execute(ctx, domain.AvailabilityInput{ServiceID: groomingID, AppointmentTime: mondayAt1645})
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Equal(t, httperr.CodeClosedAtTime, res.Reason)

	res, err = uc.Execute(ctx, domain.AvailabilityInput{ServiceID: groomingID, AppointmentTime: tuesdayAt10})
	require.NoError(t, err)
	assert.Equal(t, httperr.CodeClosedAtDay, res.Reason)

	_, err = NewCreateAppointment(repo, audit.Discard{}).Execute(ctx, booking(mondayAt1600, LineInput{PetID: 30, ServiceID: groomingID}))
	require.NoError(t, err)

	res, err = uc.Execute(ctx, domain.AvailabilityInput{ServiceID: groomingID, AppointmentTime: mondayAt1600})
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Equal(t, httperr.CodeFull, res.Reason)
	assert.Equal(t, 1, res.Booked)
}

func TestCheckAvailability_Errors(t *testing.T) {
	uc := NewCheckAvailability(seededRepo())

	_, err := uc.Execute(context.Background(), domain.AvailabilityInput{ServiceID: 404, AppointmentTime: mondayAt1600})
	requireBusinessErr(t, err, httperr.CodeNotFound, "service_id")

	_, err = uc.Execute(context.Background(), domain.AvailabilityInput{ServiceID: groomingID, AppointmentTime: "monday"})
	requireBusinessErr(t, err, httperr.CodeValidation, "appointment_time")
}

func TestListSlots(t *testing.T) {
	repo := seededRepo()
	ctx := context.Background()

	_, err := NewCreateAppointment(repo, audit.Discard{}).Execute(ctx, booking(mondayAt1600, LineInput{PetID: 30, ServiceID: bathID}))
	require.NoError(t, err)

	slots, err := NewListSlots(repo).Execute(ctx, domain.SlotsInput{ServiceID: bathID, Date: "2026-10-19"})
	require.NoError(t, err)

	// 09:00..16:00 in one hour steps
	require.Len(t, slots, 8)
	assert.Equal(t, domain.TimeSlot{Start: "09:00", End: "10:00", Remaining: 2}, slots[0])
	assert.Equal(t, domain.TimeSlot{Start: "16:00", End: "17:00", Remaining: 1}, slots[7])

	slots, err = NewListSlots(repo).Execute(ctx, domain.SlotsInput{ServiceID: bathID, Date: "2026-10-20"})
	require.NoError(t, err)
	assert.Empty(t, slots)

	_, err = NewListSlots(repo).Execute(ctx, domain.SlotsInput{ServiceID: bathID, Date: "19/10/2026"})
	requireBusinessErr(t, err, httperr.CodeValidation, "date")
}

func TestListSlots_SkipsFullStarts(t *testing.T) {
	repo := seededRepo()
	ctx := context.Background()

	_, err := NewCreateAppointment(repo, audit.Discard{}).Execute(ctx, booking("2026-10-19 09:00:00", LineInput{PetID: 30, ServiceID: groomingID}))
	require.NoError(t, err)

	slots, err := NewListSlots(repo).Execute(ctx, domain.SlotsInput{ServiceID: groomingID, Date: "2026-10-19"})
	require.NoError(t, err)

	require.Len(t, slots, 15)
	assert.Equal(t, "09:30", slots[0].Start)
}
