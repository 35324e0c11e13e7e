package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/petcare-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrBusiness(httperr.CodeNotFound)
	}
	return err
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *AppointmentGormRepository) WithinTransaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Lookups
// --------------------------------------------------

func (r *AppointmentGormRepository) FindBusiness(
	ctx context.Context,
	id uint,
) (*models.Business, error) {

	var b models.Business
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *AppointmentGormRepository) FindPetOwner(
	ctx context.Context,
	id uint,
) (*models.PetOwner, error) {

	var o models.PetOwner
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

func (r *AppointmentGormRepository) FindPet(
	ctx context.Context,
	id uint,
) (*models.Pet, error) {

	var p models.Pet
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *AppointmentGormRepository) FindService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var s models.Service
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *AppointmentGormRepository) LockServices(
	ctx context.Context,
	ids []uint,
) ([]models.Service, error) {

	var services []models.Service
	if len(ids) == 0 {
		return services, nil
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

// --------------------------------------------------
// Schedule
// --------------------------------------------------

func (r *AppointmentGormRepository) FindWeeklySchedule(
	ctx context.Context,
	businessID uint,
	day schedule.Weekday,
) ([]schedule.Interval, error) {

	var rows []models.BusinessSchedule
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND weekday = ?", businessID, int(day)).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	return IntervalsFromRows(rows)
}

// IntervalsFromRows converts stored schedule rows to sorted intervals.
func IntervalsFromRows[R models.ScheduleRow](rows []R) ([]schedule.Interval, error) {
	out := make([]schedule.Interval, 0, len(rows))
	for _, row := range rows {
		start, end := row.Span()
		open, err := schedule.ParseClock(start)
		if err != nil {
			return nil, err
		}
		closing, err := schedule.ParseClock(end)
		if err != nil {
			return nil, err
		}
		out = append(out, schedule.Interval{Open: open, Close: closing})
	}
	return schedule.Normalize(out)
}

// --------------------------------------------------
// Bookings
// --------------------------------------------------

func (r *AppointmentGormRepository) activeLines(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.AppointmentLine{}).
		Joins("JOIN appointments ON appointments.id = appointment_pet_service.appointment_id").
		Where("appointments.status <> ?", string(domain.StatusCanceled))
}

func (r *AppointmentGormRepository) CountConcurrentBookings(
	ctx context.Context,
	serviceID uint,
	at time.Time,
) (int, error) {

	var count int64
	if err := r.activeLines(ctx).
		Where(
			"appointment_pet_service.service_id = ? AND appointment_pet_service.appointment_time = ?",
			serviceID, at,
		).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *AppointmentGormRepository) ListBookedStarts(
	ctx context.Context,
	serviceID uint,
	from time.Time,
	to time.Time,
) ([]time.Time, error) {

	var starts []time.Time
	if err := r.activeLines(ctx).
		Where(
			"appointment_pet_service.service_id = ? AND appointment_pet_service.appointment_time >= ? AND appointment_pet_service.appointment_time < ?",
			serviceID, from, to,
		).
		Pluck("appointment_pet_service.appointment_time", &starts).Error; err != nil {
		return nil, err
	}
	return starts, nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error
}

func (r *AppointmentGormRepository) AttachLine(
	ctx context.Context,
	line *models.AppointmentLine,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(line).Error
}

// --------------------------------------------------
// Appointment (read / state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Business").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Lines.Pet").
		Preload("Lines.Service")
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.withDetails(ctx).First(&ap, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).
		Model(ap).
		Select("status", "canceled_at", "completed_at").
		Updates(ap).Error
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Appointment, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Appointment{})
	if f.PetOwnerID != 0 {
		q = q.Where("pet_owner_id = ?", f.PetOwnerID)
	}
	if f.BusinessID != 0 {
		q = q.Where("business_id = ?", f.BusinessID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if !f.From.IsZero() {
		q = q.Where("appointment_time >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("appointment_time < ?", f.To)
	}

	// Count on a copy so the page query starts from the bare filters.
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []models.Appointment
	err := q.
		Preload("Business").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Lines.Pet").
		Preload("Lines.Service").
		Order("appointment_time ASC").
		Offset((f.Page - 1) * f.PerPage).
		Limit(f.PerPage).
		Find(&apps).Error
	if err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
