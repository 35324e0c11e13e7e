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
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

func bookedRepo(t *testing.T) (*memRepo, *models.Appointment) {
	t.Helper()
	repo := seededRepo()
	ap, err := NewCreateAppointment(repo, audit.Discard{}).Execute(
		context.Background(),
		booking(mondayAt1600, LineInput{PetID: 30, ServiceID: groomingID}),
	)
	require.NoError(t, err)
	return repo, ap
}

func TestCancelAppointment_ByPetOwner(t *testing.T) {
	repo, ap := bookedRepo(t)
	sink := &recordingSink{}

	got, err := NewCancelAppointment(repo, sink).Execute(context.Background(), ownerActor, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCanceled), got.Status)
	assert.NotNil(t, got.CanceledAt)
	assert.Equal(t, string(domain.StatusCanceled), repo.appointments[0].Status)
	assert.Equal(t, []string{audit.ActionAppointmentCanceled}, sink.actions())

	_, err = NewCancelAppointment(repo, sink).Execute(context.Background(), ownerActor, ap.ID)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidState))
}

func TestCancelAppointment_Forbidden(t *testing.T) {
	repo, ap := bookedRepo(t)
	uc := NewCancelAppointment(repo, audit.Discard{})

	stranger := auth.Principal{ID: 21, Role: auth.RolePetOwner}
	_, err := uc.Execute(context.Background(), stranger, ap.ID)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeForbidden))

	otherOwner := auth.Principal{ID: 11, Role: auth.RoleBusinessOwner}
	_, err = uc.Execute(context.Background(), otherOwner, ap.ID)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeForbidden))

	_, err = uc.Execute(context.Background(), ownerActor, 999)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound))
}

func TestCompleteAppointment(t *testing.T) {
	repo, ap := bookedRepo(t)
	uc := NewCompleteAppointment(repo, audit.Discard{})

	_, err := uc.Execute(context.Background(), ownerActor, ap.ID)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeForbidden), "pet owners cannot complete")

	got, err := uc.Execute(context.Background(), staffActor, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), got.Status)

	_, err = NewCancelAppointment(repo, audit.Discard{}).Execute(context.Background(), bizOwnerActor, ap.ID)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidState))
}
