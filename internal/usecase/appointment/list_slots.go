package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/petcare-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/timezone"
)

// ListSlots walks every opening interval of a day in steps of the service
// duration and keeps the starts that still have capacity.
type ListSlots struct {
	repo domain.Repository
}

func NewListSlots(repo domain.Repository) *ListSlots {
	return &ListSlots{repo: repo}
}

func (uc *ListSlots) Execute(
	ctx context.Context,
	in domain.SlotsInput,
) ([]domain.TimeSlot, error) {

	svc, err := uc.repo.FindService(ctx, in.ServiceID)
	if err != nil {
		return nil, notFoundAt(err, "service_id")
	}

	business, err := uc.repo.FindBusiness(ctx, svc.BusinessID)
	if err != nil {
		return nil, err
	}

	date, err := timezone.ParseDate(business.Timezone, in.Date)
	if err != nil {
		return nil, httperr.Field(httperr.CodeValidation, "date",
			"The date must use the format YYYY-MM-DD.")
	}

	slots := []domain.TimeSlot{}
	if svc.Duration <= 0 {
		return slots, nil
	}

	day, err := uc.repo.FindWeeklySchedule(ctx, business.ID, schedule.WeekdayOf(date))
	if err != nil {
		return nil, err
	}
	if len(day) == 0 {
		return slots, nil
	}

	starts, err := uc.repo.ListBookedStarts(ctx, svc.ID, date, date.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	booked := make(map[int64]int, len(starts))
	for _, s := range starts {
		booked[s.Unix()]++
	}

	step := schedule.Clock(svc.Duration)
	y, m, dd := date.Date()

	for _, iv := range day {
		for cur := iv.Open; cur+step <= iv.Close; cur += step {
			slotStart := time.Date(y, m, dd, int(cur)/60, int(cur)%60, 0, 0, date.Location())

			remaining := svc.MaxServicesSimultaneously - booked[slotStart.Unix()]
			if remaining <= 0 {
				continue
			}

			slots = append(slots, domain.TimeSlot{
				Start:     cur.String(),
				End:       (cur + step).String(),
				Remaining: remaining,
			})
		}
	}

	return slots, nil
}
