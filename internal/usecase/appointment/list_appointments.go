package appointment

import (
	"context"

	"github.com/BruksfildServices01/petcare-scheduler/internal/auth"
	domain "github.com/BruksfildServices01/petcare-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
	"github.com/BruksfildServices01/petcare-scheduler/internal/timezone"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

type ListAppointmentsInput struct {
	Actor auth.Principal

	BusinessID uint
	Date       string
	Status     string

	Page    int
	PerPage int
}

type AppointmentPage struct {
	Items   []models.Appointment
	Total   int64
	Page    int
	PerPage int
}

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

// Execute lists a pet owner's own appointments, or the appointments of a
// business for its owner and staff.
func (uc *ListAppointments) Execute(
	ctx context.Context,
	in ListAppointmentsInput,
) (*AppointmentPage, error) {

	f := domain.ListFilter{Page: in.Page, PerPage: in.PerPage}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.PerPage == 0 {
		f.PerPage = DefaultPerPage
	}
	if f.Page < 0 {
		return nil, httperr.Field(httperr.CodeValidation, "page", "The page must be a positive integer.")
	}
	if f.PerPage < 0 {
		return nil, httperr.Field(httperr.CodeValidation, "per_page", "The per_page value must be a positive integer.")
	}
	if f.PerPage > MaxPerPage {
		f.PerPage = MaxPerPage
	}

	if in.Status != "" {
		st := domain.Status(in.Status)
		if !st.Valid() {
			return nil, httperr.Field(httperr.CodeValidation, "status", "Unknown appointment status.")
		}
		f.Status = st
	}

	tz := ""
	switch {
	case in.Actor.Can(auth.CapViewOwnAppointments):
		f.PetOwnerID = in.Actor.ID
	case in.Actor.Can(auth.CapViewBusinessAppointments):
		businessID := in.BusinessID
		if businessID == 0 && in.Actor.Role == auth.RoleStaff {
			businessID = in.Actor.BusinessID
		}
		if businessID == 0 {
			return nil, httperr.Field(httperr.CodeValidation, "business_id", "The business_id is required.")
		}
		business, err := uc.repo.FindBusiness(ctx, businessID)
		if err != nil {
			return nil, notFoundAt(err, "business_id")
		}
		if !in.Actor.ManagesBusiness(business) {
			return nil, httperr.ErrBusiness(httperr.CodeForbidden)
		}
		f.BusinessID = business.ID
		tz = business.Timezone
	default:
		return nil, httperr.ErrBusiness(httperr.CodeForbidden)
	}

	if in.Date != "" {
		day, err := timezone.ParseDate(tz, in.Date)
		if err != nil {
			return nil, httperr.Field(httperr.CodeValidation, "date", "The date must use the format YYYY-MM-DD.")
		}
		f.From = day
		f.To = day.AddDate(0, 0, 1)
	}

	items, total, err := uc.repo.ListAppointments(ctx, f)
	if err != nil {
		return nil, err
	}

	return &AppointmentPage{
		Items:   items,
		Total:   total,
		Page:    f.Page,
		PerPage: f.PerPage,
	}, nil
}
