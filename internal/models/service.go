package models

import "time"

// ServiceDiscount is a time-bounded percentage discount owned by the
// catalog; a missing bound leaves that side of the window open.
type ServiceDiscount struct {
	IsActive   bool       `json:"is_active"`
	Percentage float64    `json:"percentage"`
	ValidFrom  *time.Time `json:"valid_from"`
	ValidUntil *time.Time `json:"valid_until"`
}

type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"size:255" json:"description"`
	Category    string  `gorm:"size:50" json:"category"`
	Price       float64 `json:"price"`
	DurationMin int     `json:"duration_min"`

	Discount ServiceDiscount `gorm:"embedded;embeddedPrefix:discount_" json:"discount"`

	AvailableAtHome  bool `gorm:"default:false" json:"available_at_home"`
	AvailableAtSalon bool `gorm:"default:true" json:"available_at_salon"`
	IsActive         bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
