package models

import "time"

type Address struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	BusinessID *uint `gorm:"index" json:"business_id,omitempty"`
	PetOwnerID *uint `gorm:"index" json:"pet_owner_id,omitempty"`

	City             string  `gorm:"size:60" json:"city"`
	State            string  `gorm:"size:60" json:"state"`
	PostalCode       string  `gorm:"size:10" json:"postal_code"`
	References       string  `gorm:"type:text" json:"references"`
	Latitude         float64 `gorm:"type:decimal(10,8)" json:"latitude"`
	Longitude        float64 `gorm:"type:decimal(11,8)" json:"longitude"`
	FormattedAddress string  `gorm:"type:text" json:"formatted_address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
