package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/petcare-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/timezone"
)

type CheckAvailability struct {
	repo domain.Repository
}

func NewCheckAvailability(repo domain.Repository) *CheckAvailability {
	return &CheckAvailability{repo: repo}
}

func (uc *CheckAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (*domain.AvailabilityResult, error) {

	svc, err := uc.repo.FindService(ctx, in.ServiceID)
	if err != nil {
		return nil, notFoundAt(err, "service_id")
	}

	business, err := uc.repo.FindBusiness(ctx, svc.BusinessID)
	if err != nil {
		return nil, err
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

	d := time.Duration(svc.Duration) * time.Minute

	day, err := uc.repo.FindWeeklySchedule(ctx, business.ID, schedule.WeekdayOf(start))
	if err != nil {
		return nil, err
	}

	res := &domain.AvailabilityResult{
		ServiceID:       svc.ID,
		BusinessID:      business.ID,
		AppointmentTime: start,
		EndTime:         start.Add(d),
		Capacity:        svc.MaxServicesSimultaneously,
	}

	outcome, booked, err := domain.Evaluate(day, start, d, svc.MaxServicesSimultaneously, func() (int, error) {
		return uc.repo.CountConcurrentBookings(ctx, svc.ID, start)
	})
	if err != nil {
		return nil, err
	}
	res.Booked = booked

	res.Available = outcome == domain.Available
	if !res.Available {
		res.Reason = outcome.String()
	}
	return res, nil
}
