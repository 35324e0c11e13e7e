package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

// Repository is the persistence surface the availability and booking rules
// depend on. Lookups return a not_found BusinessError for unknown ids.
type Repository interface {
	// WithinTransaction runs fn against a repository bound to one database
	// transaction. Returning an error rolls everything back.
	WithinTransaction(ctx context.Context, fn func(tx Repository) error) error

	FindBusiness(ctx context.Context, id uint) (*models.Business, error)
	FindPetOwner(ctx context.Context, id uint) (*models.PetOwner, error)
	FindPet(ctx context.Context, id uint) (*models.Pet, error)
	FindService(ctx context.Context, id uint) (*models.Service, error)

	// LockServices loads and row-locks the services in ascending id order.
	// Unknown ids are simply absent from the result.
	LockServices(ctx context.Context, ids []uint) ([]models.Service, error)

	FindWeeklySchedule(ctx context.Context, businessID uint, day schedule.Weekday) ([]schedule.Interval, error)

	// CountConcurrentBookings counts non-canceled lines of serviceID whose
	// appointment_time equals at exactly.
	CountConcurrentBookings(ctx context.Context, serviceID uint, at time.Time) (int, error)
	ListBookedStarts(ctx context.Context, serviceID uint, from, to time.Time) ([]time.Time, error)

	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	AttachLine(ctx context.Context, line *models.AppointmentLine) error

	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error
	ListAppointments(ctx context.Context, f ListFilter) ([]models.Appointment, int64, error)
}

type ListFilter struct {
	PetOwnerID uint
	BusinessID uint
	Status     Status

	From time.Time
	To   time.Time

	Page    int
	PerPage int
}
