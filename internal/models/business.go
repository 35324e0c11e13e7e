package models

import (
	"time"

	"gorm.io/gorm"
)

type Business struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	BusinessOwnerID uint          `gorm:"index;not null" json:"business_owner_id"`
	BusinessOwner   BusinessOwner `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Name        string `gorm:"size:45;not null" json:"name"`
	PhoneNumber string `gorm:"size:15;uniqueIndex;not null" json:"phone_number"`
	Email       string `gorm:"size:70;uniqueIndex;not null" json:"email"`
	Description string `gorm:"size:255" json:"description"`
	Timezone    string `gorm:"size:64" json:"timezone"`

	ProfilePhoto    string `gorm:"type:text" json:"profile_photo"`
	ProfilePhotoKey string `gorm:"type:text" json:"-"`

	Address *Address `json:"address,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// FormattedAddress is empty when the business has no address on file.
func (b *Business) FormattedAddress() string {
	if b.Address == nil {
		return ""
	}
	return b.Address.FormattedAddress
}
