package appointment

import (
	"context"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	"github.com/BruksfildServices01/petcare-scheduler/internal/auth"
	domain "github.com/BruksfildServices01/petcare-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
	"github.com/BruksfildServices01/petcare-scheduler/internal/timezone"
)

type CancelAppointment struct {
	repo  domain.Repository
	audit audit.Sink
}

func NewCancelAppointment(
	repo domain.Repository,
	audit audit.Sink,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: audit,
	}
}

// Execute lets the pet owner who booked, or whoever manages the business,
// cancel a scheduled appointment.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	actor auth.Principal,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, business, err := loadForActor(ctx, uc.repo, actor, appointmentID, true)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(business.Timezone)
	if err := domain.Cancel(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: business.ID,
		ActorID:    &actor.ID,
		ActorRole:  string(actor.Role),
		Action:     audit.ActionAppointmentCanceled,
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})

	return ap, nil
}

type CompleteAppointment struct {
	repo  domain.Repository
	audit audit.Sink
}

func NewCompleteAppointment(
	repo domain.Repository,
	audit audit.Sink,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	actor auth.Principal,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, business, err := loadForActor(ctx, uc.repo, actor, appointmentID, false)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(business.Timezone)
	if err := domain.Complete(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: business.ID,
		ActorID:    &actor.ID,
		ActorRole:  string(actor.Role),
		Action:     audit.ActionAppointmentCompleted,
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})

	return ap, nil
}

func loadForActor(
	ctx context.Context,
	repo domain.Repository,
	actor auth.Principal,
	appointmentID uint,
	ownerMayAct bool,
) (*models.Appointment, *models.Business, error) {

	ap, err := repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, nil, err
	}

	business, err := repo.FindBusiness(ctx, ap.BusinessID)
	if err != nil {
		return nil, nil, err
	}

	if actor.Role == auth.RolePetOwner {
		if !ownerMayAct || ap.PetOwnerID != actor.ID {
			return nil, nil, httperr.ErrBusiness(httperr.CodeForbidden)
		}
		return ap, business, nil
	}

	if !actor.ManagesBusiness(business) {
		return nil, nil, httperr.ErrBusiness(httperr.CodeForbidden)
	}
	return ap, business, nil
}
