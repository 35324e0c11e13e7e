package models

import (
	"time"

	"gorm.io/gorm"
)

type Pet struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	PetOwnerID uint `gorm:"index;not null" json:"pet_owner_id"`

	Name      string     `gorm:"size:60;not null" json:"name"`
	Species   string     `gorm:"size:40;not null" json:"species"`
	Breed     string     `gorm:"size:60" json:"breed"`
	BirthDate *time.Time `gorm:"type:date" json:"birth_date"`
	Color     string     `gorm:"size:40" json:"color"`
	Gender    string     `gorm:"size:20" json:"gender"`

	PhotoID *uint  `json:"photo_id"`
	Photo   *Image `gorm:"constraint:OnDelete:SET NULL;" json:"photo,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

type Image struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	SourceURL string `gorm:"type:text;not null" json:"source_url"`
	ObjectKey string `gorm:"type:text;not null" json:"-"`
	AltText   string `gorm:"size:255" json:"alt_text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
