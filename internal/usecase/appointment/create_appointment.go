package appointment

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	"github.com/BruksfildServices01/petcare-scheduler/internal/auth"
	domain "github.com/BruksfildServices01/petcare-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
	"github.com/BruksfildServices01/petcare-scheduler/internal/timezone"
)

type LineInput struct {
	PetID     uint
	ServiceID uint
}

type CreateAppointmentInput struct {
	Actor auth.Principal

	BusinessID      uint
	PetOwnerID      uint
	AppointmentTime string
	Lines           []LineInput
}

type CreateAppointment struct {
	repo  domain.Repository
	audit audit.Sink
}

func NewCreateAppointment(
	repo domain.Repository,
	audit audit.Sink,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
	}
}

// Execute books every (pet, service) line at the same start. Lines are
// checked in request order and the first failure rejects the whole booking.
// Services are row-locked for the duration of the transaction so that two
// bookings for the same service cannot both pass the capacity check.
func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	if len(in.Lines) == 0 {
		return nil, httperr.Field(httperr.CodeValidation, "pets_services",
			"At least one pet and service pair is required.")
	}

	if err := authorizeBooking(in); err != nil {
		return nil, err
	}

	business, err := uc.repo.FindBusiness(ctx, in.BusinessID)
	if err != nil {
		return nil, notFoundAt(err, "business_id")
	}

	if _, err := uc.repo.FindPetOwner(ctx, in.PetOwnerID); err != nil {
		return nil, notFoundAt(err, "pet_owner_id")
	}

	start, err := time.ParseInLocation(
		domain.TimestampLayout,
		in.AppointmentTime,
		timezone.Location(business.Timezone),
	)
	if err != nil {
		return nil, httperr.Field(httperr.CodeValidation, "appointment_time",
			"The appointment time must use the format YYYY-MM-DD HH:mm:ss.")
	}

	var created *models.Appointment

	err = uc.repo.WithinTransaction(ctx, func(tx domain.Repository) error {
		services, err := tx.LockServices(ctx, serviceIDs(in.Lines))
		if err != nil {
			return err
		}
		byID := make(map[uint]models.Service, len(services))
		for _, s := range services {
			byID[s.ID] = s
		}

		day, err := tx.FindWeeklySchedule(ctx, business.ID, schedule.WeekdayOf(start))
		if err != nil {
			return err
		}

		// Lines accepted earlier in this request count against capacity too, so
		// two pets on a one-seat service at the same time are rejected. This is
		// stricter than checking each pet/service pair against stored rows only.
		pending := make(map[uint]int)
		lines := make([]models.AppointmentLine, 0, len(in.Lines))

		for i, l := range in.Lines {
			field := fmt.Sprintf("pets_services.%d", i)

			svc, ok := byID[l.ServiceID]
			if !ok {
				return httperr.Field(httperr.CodeNotFound, field+".service_id", "")
			}
			if svc.BusinessID != business.ID {
				return httperr.Field(httperr.CodeValidation, field+".service_id",
					"The service does not belong to this business.")
			}

			pet, err := tx.FindPet(ctx, l.PetID)
			if err != nil {
				return notFoundAt(err, field+".pet_id")
			}
			if pet.PetOwnerID != in.PetOwnerID {
				return httperr.Field(httperr.CodeValidation, field+".pet_id",
					"The pet does not belong to this pet owner.")
			}

			d := time.Duration(svc.Duration) * time.Minute

			outcome, _, err := domain.Evaluate(day, start, d, svc.MaxServicesSimultaneously, func() (int, error) {
				stored, err := tx.CountConcurrentBookings(ctx, svc.ID, start)
				return stored + pending[svc.ID], err
			})
			if err != nil {
				return err
			}
			if err := outcome.Err(field + ".service_id"); err != nil {
				return err
			}

			pending[svc.ID]++
			lines = append(lines, models.AppointmentLine{
				PetID:              pet.ID,
				ServiceID:          svc.ID,
				AppointmentTime:    start,
				AppointmentEndTime: start.Add(d),
			})
		}

		ap := &models.Appointment{
			BusinessID:      business.ID,
			PetOwnerID:      in.PetOwnerID,
			AppointmentTime: start,
			Status:          string(domain.InitialStatus()),
		}
		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		for i := range lines {
			lines[i].AppointmentID = ap.ID
			if err := tx.AttachLine(ctx, &lines[i]); err != nil {
				return err
			}
		}

		created, err = tx.GetAppointment(ctx, ap.ID)
		return err
	})

	actorID := in.Actor.ID
	if err != nil {
		if be, ok := httperr.AsBusiness(err); ok {
			uc.audit.Dispatch(audit.Event{
				BusinessID: business.ID,
				ActorID:    &actorID,
				ActorRole:  string(in.Actor.Role),
				Action:     audit.ActionAppointmentRejected,
				Entity:     "appointment",
				Metadata: map[string]string{
					"reason":           be.Code,
					"field":            be.Field,
					"appointment_time": in.AppointmentTime,
				},
			})
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: business.ID,
		ActorID:    &actorID,
		ActorRole:  string(in.Actor.Role),
		Action:     audit.ActionAppointmentCreated,
		Entity:     "appointment",
		EntityID:   &created.ID,
	})

	return created, nil
}

func authorizeBooking(in CreateAppointmentInput) error {
	switch in.Actor.Role {
	case auth.RolePetOwner:
		if in.PetOwnerID != in.Actor.ID {
			return httperr.Field(httperr.CodeForbidden, "pet_owner_id",
				"Pet owners can only book for themselves.")
		}
	case auth.RoleStaff:
		if in.BusinessID != in.Actor.BusinessID {
			return httperr.Field(httperr.CodeForbidden, "business_id",
				"Staff can only book at their own business.")
		}
	default:
		return httperr.ErrBusiness(httperr.CodeForbidden)
	}
	return nil
}

func serviceIDs(lines []LineInput) []uint {
	seen := make(map[uint]bool, len(lines))
	ids := make([]uint, 0, len(lines))
	for _, l := range lines {
		if !seen[l.ServiceID] {
			seen[l.ServiceID] = true
			ids = append(ids, l.ServiceID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
