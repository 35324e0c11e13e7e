package models

import "time"

type Service struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	BusinessID uint     `gorm:"index;not null" json:"business_id"`
	Business   Business `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Name        string  `gorm:"size:45;not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"type:decimal(10,2)" json:"price"`
	Currency    string  `gorm:"size:3" json:"currency"`
	Category    string  `gorm:"size:50;default:'services'" json:"category"`

	// Duration is expressed in minutes.
	Duration                  int `gorm:"not null" json:"duration"`
	MaxServicesSimultaneously int `gorm:"not null;default:1" json:"max_services_simultaneously"`

	Offer *Offer `gorm:"constraint:OnDelete:CASCADE;" json:"offer,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EffectivePrice applies the service offer when one is active at now.
func (s *Service) EffectivePrice(now time.Time) float64 {
	if s.Offer != nil && s.Offer.ActiveAt(now) {
		return s.Offer.DiscountPrice
	}
	return s.Price
}

type Offer struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ServiceID     uint      `gorm:"uniqueIndex;not null" json:"service_id"`
	DiscountPrice float64   `gorm:"type:decimal(10,2)" json:"discount_price"`
	OfferStart    time.Time `json:"offer_start"`
	OfferEnd      time.Time `json:"offer_end"`
	Description   string    `gorm:"type:text" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Offer) ActiveAt(now time.Time) bool {
	return !now.Before(o.OfferStart) && now.Before(o.OfferEnd)
}
