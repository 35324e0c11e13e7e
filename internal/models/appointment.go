package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BusinessID uint     `gorm:"index;not null" json:"business_id"`
	Business   Business `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"business"`

	PetOwnerID uint     `gorm:"index;not null" json:"pet_owner_id"`
	PetOwner   PetOwner `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	AppointmentTime time.Time `gorm:"index;not null" json:"appointment_time"`
	Status          string    `gorm:"size:20;default:'scheduled'" json:"status"`

	Lines []AppointmentLine `gorm:"constraint:OnDelete:CASCADE;" json:"pets_services"`

	CanceledAt  *time.Time `json:"canceled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppointmentLine is one pet receiving one service within an appointment.
// AppointmentTime repeats the parent's start so capacity can be counted per
// service without a join.
type AppointmentLine struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	AppointmentID uint `gorm:"index;not null" json:"appointment_id"`

	PetID uint `gorm:"index;not null" json:"pet_id"`
	Pet   Pet  `gorm:"constraint:OnDelete:CASCADE;" json:"pet"`

	ServiceID uint    `gorm:"index:idx_line_service_time,priority:1;not null" json:"service_id"`
	Service   Service `gorm:"constraint:OnDelete:CASCADE;" json:"service"`

	AppointmentTime    time.Time `gorm:"index:idx_line_service_time,priority:2;not null" json:"appointment_time"`
	AppointmentEndTime time.Time `json:"appointment_end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AppointmentLine) TableName() string {
	return "appointment_pet_service"
}
