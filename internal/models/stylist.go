package models

import "time"

type Stylist struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20" json:"phone"`

	// Weekdays the stylist takes bookings (time.Weekday values).
	WorkingDays []int `gorm:"serializer:json" json:"working_days"`

	// Daily window in "HH:MM", 24h.
	WorkingStart string `gorm:"size:5;default:'09:00'" json:"working_start"`
	WorkingEnd   string `gorm:"size:5;default:'18:00'" json:"working_end"`

	AvailableForHome  bool `gorm:"default:false" json:"available_for_home"`
	AvailableForSalon bool `gorm:"default:true" json:"available_for_salon"`
	IsActive          bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
