package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	"github.com/BruksfildServices01/petcare-scheduler/internal/auth"
	domain "github.com/BruksfildServices01/petcare-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
)

func requireBusinessErr(t *testing.T, err error, code, field string) {
	t.Helper()
	be, ok := httperr.AsBusiness(err)
	require.True(t, ok, "expected a business error, got %v", err)
	assert.Equal(t, code, be.Code)
	assert.Equal(t, field, be.Field)
}

func TestCreateAppointment_BooksAllLines(t *testing.T) {
	repo := seededRepo()
	sink := &recordingSink{}
	uc := NewCreateAppointment(repo, sink)

	ap, err := uc.Execute(context.Background(), booking(mondayAt1600,
		LineInput{PetID: 30, ServiceID: groomingID},
		LineInput{PetID: 31, ServiceID: bathID},
	))
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusScheduled), ap.Status)
	assert.Equal(t, uint(1), ap.Business.ID)
	require.Len(t, ap.Lines, 2)
	assert.Equal(t, "Firulais", ap.Lines[0].Pet.Name)
	assert.Equal(t, "Bath", ap.Lines[1].Service.Name)
	assert.Equal(t, 16, ap.AppointmentTime.Hour())
	assert.Equal(t, 17, ap.Lines[1].AppointmentEndTime.Hour())

	assert.Equal(t, [][]uint{{groomingID, bathID}}, repo.locked)
	assert.Equal(t, []string{audit.ActionAppointmentCreated}, sink.actions())
}

func TestCreateAppointment_MondayScenario(t *testing.T) {
	repo := seededRepo()
	uc := NewCreateAppointment(repo, audit.Discard{})
	ctx := context.Background()

	_, err := uc.Execute(ctx, booking(mondayAt1645, LineInput{PetID: 30, ServiceID: groomingID}))
	requireBusinessErr(t, err, httperr.CodeClosedAtTime, "pets_services.0.service_id")

	_, err = uc.Execute(ctx, booking(mondayAt1600, LineInput{PetID: 30, ServiceID: groomingID}))
	require.NoError(t, err)

	_, err = uc.Execute(ctx, booking(mondayAt1600, LineInput{PetID: 31, ServiceID: groomingID}))
	requireBusinessErr(t, err, httperr.CodeFull, "pets_services.0.service_id")
}

func TestCreateAppointment_ClosedDay(t *testing.T) {
	uc := NewCreateAppointment(seededRepo(), audit.Discard{})

	_, err := uc.Execute(context.Background(), booking(tuesdayAt10, LineInput{PetID: 30, ServiceID: groomingID}))
	requireBusinessErr(t, err, httperr.CodeClosedAtDay, "pets_services.0.service_id")
}

func TestCreateAppointment_CapacityN(t *testing.T) {
	repo := seededRepo()
	uc := NewCreateAppointment(repo, audit.Discard{})
	ctx := context.Background()

	// bath has capacity 2
	for i := 0; i < 2; i++ {
		_, err := uc.Execute(ctx, booking(mondayAt1600, LineInput{PetID: 30, ServiceID: bathID}))
		require.NoError(t, err, "booking %d", i+1)
	}
	_, err := uc.Execute(ctx, booking(mondayAt1600, LineInput{PetID: 30, ServiceID: bathID}))
	requireBusinessErr(t, err, httperr.CodeFull, "pets_services.0.service_id")
}

func TestCreateAppointment_CountsLinesOfSameRequest(t *testing.T) {
	repo := seededRepo()
	uc := NewCreateAppointment(repo, audit.Discard{})

	_, err := uc.Execute(context.Background(), booking(mondayAt1600,
		LineInput{PetID: 30, ServiceID: groomingID},
		LineInput{PetID: 31, ServiceID: groomingID},
	))
	requireBusinessErr(t, err, httperr.CodeFull, "pets_services.1.service_id")
	assert.Empty(t, repo.appointments)
}

func TestCreateAppointment_FailingMiddleLineWritesNothing(t *testing.T) {
	repo := seededRepo()
	uc := NewCreateAppointment(repo, audit.Discard{})
	ctx := context.Background()

	// fill grooming at 16:00
	_, err := uc.Execute(ctx, booking(mondayAt1600, LineInput{PetID: 30, ServiceID: groomingID}))
	require.NoError(t, err)
	nAps, nLines := len(repo.appointments), len(repo.lines)

	sink := &recordingSink{}
	uc = NewCreateAppointment(repo, sink)
	_, err = uc.Execute(ctx, booking(mondayAt1600,
		LineInput{PetID: 30, ServiceID: bathID},
		LineInput{PetID: 31, ServiceID: groomingID},
		LineInput{PetID: 31, ServiceID: bathID},
	))
	requireBusinessErr(t, err, httperr.CodeFull, "pets_services.1.service_id")

	assert.Len(t, repo.appointments, nAps)
	assert.Len(t, repo.lines, nLines)
	assert.Equal(t, []string{audit.ActionAppointmentRejected}, sink.actions())
}

func TestCreateAppointment_CanceledDoesNotCount(t *testing.T) {
	repo := seededRepo()
	uc := NewCreateAppointment(repo, audit.Discard{})
	ctx := context.Background()

	first, err := uc.Execute(ctx, booking(mondayAt1600, LineInput{PetID: 30, ServiceID: groomingID}))
	require.NoError(t, err)

	_, err = NewCancelAppointment(repo, audit.Discard{}).Execute(ctx, ownerActor, first.ID)
	require.NoError(t, err)

	_, err = uc.Execute(ctx, booking(mondayAt1600, LineInput{PetID: 31, ServiceID: groomingID}))
	assert.NoError(t, err)
}

func TestCreateAppointment_Validation(t *testing.T) {
	cases := []struct {
		name  string
		in    CreateAppointmentInput
		code  string
		field string
	}{
		{
			name:  "no lines",
			in:    booking(mondayAt1600),
			code:  httperr.CodeValidation,
			field: "pets_services",
		},
		{
			name: "unknown business",
			in: func() CreateAppointmentInput {
				in := booking(mondayAt1600, LineInput{PetID: 30, ServiceID: groomingID})
				in.BusinessID = 99
				return in
			}(),
			code:  httperr.CodeNotFound,
			field: "business_id",
		},
		{
			name:  "malformed time",
			in:    booking("2026-10-19T16:00", LineInput{PetID: 30, ServiceID: groomingID}),
			code:  httperr.CodeValidation,
			field: "appointment_time",
		},
		{
			name:  "unknown service",
			in:    booking(mondayAt1600, LineInput{PetID: 30, ServiceID: 404}),
			code:  httperr.CodeNotFound,
			field: "pets_services.0.service_id",
		},
		{
			name:  "service of another business",
			in:    booking(mondayAt1600, LineInput{PetID: 30, ServiceID: otherShopID}),
			code:  httperr.CodeValidation,
			field: "pets_services.0.service_id",
		},
		{
			name:  "unknown pet",
			in:    booking(mondayAt1600, LineInput{PetID: 30, ServiceID: bathID}, LineInput{PetID: 404, ServiceID: bathID}),
			code:  httperr.CodeNotFound,
			field: "pets_services.1.pet_id",
		},
		{
			name:  "pet of someone else",
			in:    booking(mondayAt1600, LineInput{PetID: 32, ServiceID: bathID}),
			code:  httperr.CodeValidation,
			field: "pets_services.0.pet_id",
		},
		{
			name: "pet owner booking for another owner",
			in: func() CreateAppointmentInput {
				in := booking(mondayAt1600, LineInput{PetID: 32, ServiceID: bathID})
				in.PetOwnerID = 21
				return in
			}(),
			code:  httperr.CodeForbidden,
			field: "pet_owner_id",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := seededRepo()
			_, err := NewCreateAppointment(repo, audit.Discard{}).Execute(context.Background(), tc.in)
			requireBusinessErr(t, err, tc.code, tc.field)
			assert.Empty(t, repo.appointments)
			assert.Empty(t, repo.lines)
		})
	}
}

func TestCreateAppointment_StaffBooksForOwner(t *testing.T) {
	repo := seededRepo()
	uc := NewCreateAppointment(repo, audit.Discard{})

	in := booking(mondayAt1600, LineInput{PetID: 32, ServiceID: bathID})
	in.Actor = staffActor
	in.PetOwnerID = 21

	ap, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, uint(21), ap.PetOwnerID)

	in.BusinessID = 2
	in.Lines = []LineInput{{PetID: 32, ServiceID: otherShopID}}
	_, err = uc.Execute(context.Background(), in)
	requireBusinessErr(t, err, httperr.CodeForbidden, "business_id")
}

func TestCreateAppointment_BusinessOwnerCannotBook(t *testing.T) {
	in := booking(mondayAt1600, LineInput{PetID: 30, ServiceID: bathID})
	in.Actor = auth.Principal{ID: 10, Role: auth.RoleBusinessOwner}

	_, err := NewCreateAppointment(seededRepo(), audit.Discard{}).Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeForbidden))
}
