package dto

import (
	domain "github.com/BruksfildServices01/petcare-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
	"github.com/BruksfildServices01/petcare-scheduler/internal/timezone"
)

type PetServiceSummary struct {
	PetID       uint   `json:"pet_id"`
	PetName     string `json:"pet_name"`
	ServiceID   uint   `json:"service_id"`
	ServiceName string `json:"service_name"`
	EndTime     string `json:"end_time"`
}

// AppointmentSummaryDTO is the list row of an appointment. Times are
// rendered in the business's local wall clock.
type AppointmentSummaryDTO struct {
	ID              uint                `json:"id"`
	BusinessID      uint                `json:"business_id"`
	BusinessName    string              `json:"business_name"`
	PetOwnerID      uint                `json:"pet_owner_id"`
	AppointmentTime string              `json:"appointment_time"`
	Timezone        string              `json:"timezone"`
	Status          string              `json:"status"`
	PetsServices    []PetServiceSummary `json:"pets_services"`
}

func FromAppointment(ap models.Appointment) AppointmentSummaryDTO {
	loc := timezone.Location(ap.Business.Timezone)

	lines := make([]PetServiceSummary, 0, len(ap.Lines))
	for _, l := range ap.Lines {
		lines = append(lines, PetServiceSummary{
			PetID:       l.PetID,
			PetName:     l.Pet.Name,
			ServiceID:   l.ServiceID,
			ServiceName: l.Service.Name,
			EndTime:     l.AppointmentEndTime.In(loc).Format(domain.TimestampLayout),
		})
	}

	return AppointmentSummaryDTO{
		ID:              ap.ID,
		BusinessID:      ap.BusinessID,
		BusinessName:    ap.Business.Name,
		PetOwnerID:      ap.PetOwnerID,
		AppointmentTime: ap.AppointmentTime.In(loc).Format(domain.TimestampLayout),
		Timezone:        loc.String(),
		Status:          ap.Status,
		PetsServices:    lines,
	}
}

func FromAppointments(aps []models.Appointment) []AppointmentSummaryDTO {
	out := make([]AppointmentSummaryDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, FromAppointment(ap))
	}
	return out
}
