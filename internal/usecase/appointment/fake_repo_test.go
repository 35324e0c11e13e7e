package appointment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/petcare-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

// memRepo is an in-memory domain.Repository. Transactions roll back
// appointments and lines written inside a failed callback.
type memRepo struct {
	businesses map[uint]models.Business
	owners     map[uint]models.PetOwner
	pets       map[uint]models.Pet
	services   map[uint]models.Service
	week       schedule.Week

	appointments []models.Appointment
	lines        []models.AppointmentLine

	locked [][]uint
}

func newMemRepo() *memRepo {
	return &memRepo{
		businesses: map[uint]models.Business{},
		owners:     map[uint]models.PetOwner{},
		pets:       map[uint]models.Pet{},
		services:   map[uint]models.Service{},
		week:       schedule.Week{},
	}
}

func (r *memRepo) WithinTransaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	nAps, nLines := len(r.appointments), len(r.lines)
	if err := fn(r); err != nil {
		r.appointments = r.appointments[:nAps]
		r.lines = r.lines[:nLines]
		return err
	}
	return nil
}

func (r *memRepo) FindBusiness(_ context.Context, id uint) (*models.Business, error) {
	b, ok := r.businesses[id]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	return &b, nil
}

func (r *memRepo) FindPetOwner(_ context.Context, id uint) (*models.PetOwner, error) {
	o, ok := r.owners[id]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	return &o, nil
}

func (r *memRepo) FindPet(_ context.Context, id uint) (*models.Pet, error) {
	p, ok := r.pets[id]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	return &p, nil
}

func (r *memRepo) FindService(_ context.Context, id uint) (*models.Service, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	return &s, nil
}

func (r *memRepo) LockServices(_ context.Context, ids []uint) ([]models.Service, error) {
	r.locked = append(r.locked, ids)
	var out []models.Service
	for _, id := range ids {
		if s, ok := r.services[id]; ok {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) FindWeeklySchedule(_ context.Context, _ uint, day schedule.Weekday) ([]schedule.Interval, error) {
	return r.week[day], nil
}

func (r *memRepo) isActive(appointmentID uint) bool {
	for _, ap := range r.appointments {
		if ap.ID == appointmentID {
			return ap.Status != string(domain.StatusCanceled)
		}
	}
	return false
}

func (r *memRepo) CountConcurrentBookings(_ context.Context, serviceID uint, at time.Time) (int, error) {
	n := 0
	for _, l := range r.lines {
		if l.ServiceID == serviceID && l.AppointmentTime.Equal(at) && r.isActive(l.AppointmentID) {
			n++
		}
	}
	return n, nil
}

func (r *memRepo) ListBookedStarts(_ context.Context, serviceID uint, from, to time.Time) ([]time.Time, error) {
	var out []time.Time
	for _, l := range r.lines {
		if l.ServiceID != serviceID || !r.isActive(l.AppointmentID) {
			continue
		}
		if !l.AppointmentTime.Before(from) && l.AppointmentTime.Before(to) {
			out = append(out, l.AppointmentTime)
		}
	}
	return out, nil
}

func (r *memRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	ap.ID = uint(len(r.appointments) + 1)
	r.appointments = append(r.appointments, *ap)
	return nil
}

func (r *memRepo) AttachLine(_ context.Context, line *models.AppointmentLine) error {
	line.ID = uint(len(r.lines) + 1)
	r.lines = append(r.lines, *line)
	return nil
}

func (r *memRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	for _, ap := range r.appointments {
		if ap.ID == id {
			out := ap
			out.Business = r.businesses[ap.BusinessID]
			for _, l := range r.lines {
				if l.AppointmentID == id {
					l.Pet = r.pets[l.PetID]
					l.Service = r.services[l.ServiceID]
					out.Lines = append(out.Lines, l)
				}
			}
			return &out, nil
		}
	}
	return nil, httperr.ErrBusiness(httperr.CodeNotFound)
}

func (r *memRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	for i := range r.appointments {
		if r.appointments[i].ID == ap.ID {
			r.appointments[i].Status = ap.Status
			r.appointments[i].CanceledAt = ap.CanceledAt
			r.appointments[i].CompletedAt = ap.CompletedAt
			return nil
		}
	}
	return httperr.ErrBusiness(httperr.CodeNotFound)
}

func (r *memRepo) ListAppointments(_ context.Context, f domain.ListFilter) ([]models.Appointment, int64, error) {
	var matched []models.Appointment
	for _, ap := range r.appointments {
		if f.PetOwnerID != 0 && ap.PetOwnerID != f.PetOwnerID {
			continue
		}
		if f.BusinessID != 0 && ap.BusinessID != f.BusinessID {
			continue
		}
		if f.Status != "" && ap.Status != string(f.Status) {
			continue
		}
		if !f.From.IsZero() && ap.AppointmentTime.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !ap.AppointmentTime.Before(f.To) {
			continue
		}
		matched = append(matched, ap)
	}

	total := int64(len(matched))
	lo := (f.Page - 1) * f.PerPage
	if lo > len(matched) {
		lo = len(matched)
	}
	hi := lo + f.PerPage
	if hi > len(matched) {
		hi = len(matched)
	}
	return matched[lo:hi], total, nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *recordingSink) Dispatch(ev audit.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.Action)
	}
	return out
}

var _ domain.Repository = (*memRepo)(nil)
