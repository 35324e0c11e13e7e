package models

import (
	"time"

	"gorm.io/gorm"
)

type PetOwner struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:45;not null" json:"name"`
	LastName     string `gorm:"size:45;not null" json:"last_name"`
	Email        string `gorm:"size:70;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	PhoneNumber  string `gorm:"size:15" json:"phone_number"`

	ProfilePhoto    string `gorm:"type:text" json:"profile_photo"`
	ProfilePhotoKey string `gorm:"type:text" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

type BusinessOwner struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:45;not null" json:"name"`
	LastName     string `gorm:"size:45;not null" json:"last_name"`
	Email        string `gorm:"size:70;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	PhoneNumber  string `gorm:"size:15" json:"phone_number"`
	RFC          string `gorm:"column:rfc;size:13;uniqueIndex;not null" json:"rfc"`

	ProfilePhoto    string `gorm:"type:text" json:"profile_photo"`
	ProfilePhotoKey string `gorm:"type:text" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// Staff members work for exactly one business and may book on behalf of
// pet owners.
type Staff struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	BusinessID uint     `gorm:"index;not null" json:"business_id"`
	Business   Business `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Name         string `gorm:"size:45;not null" json:"name"`
	LastName     string `gorm:"size:45;not null" json:"last_name"`
	Email        string `gorm:"size:70;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	PhoneNumber  string `gorm:"size:15" json:"phone_number"`

	ProfilePhoto    string `gorm:"type:text" json:"profile_photo"`
	ProfilePhotoKey string `gorm:"type:text" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Staff) TableName() string {
	return "staffs"
}
