package models

import "time"

const (
	LocationHome  = "home"
	LocationSalon = "salon"
)

type StatusChange struct {
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
	ChangedBy uint      `json:"changed_by"`
	Reason    string    `json:"reason,omitempty"`
}

type RescheduleSnapshot struct {
	Date          string    `json:"date"`
	TimeSlot      string    `json:"time_slot"`
	RescheduledAt time.Time `json:"rescheduled_at"`
	RescheduledBy uint      `json:"rescheduled_by"`
}

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Assigned once at creation, never regenerated.
	BookingReference string `gorm:"size:20;uniqueIndex;not null" json:"booking_reference"`

	UserID uint `gorm:"not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	ServiceID uint    `gorm:"not null" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	// Unassigned bookings are allowed, so the stylist reference is nullable.
	StylistID *uint    `json:"stylist_id"`
	Stylist   *Stylist `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"stylist,omitempty"`

	Date     string `gorm:"size:10;index;not null" json:"date"`
	TimeSlot string `gorm:"size:5;not null" json:"time_slot"`
	Location string `gorm:"size:10;not null" json:"location"`
	Address  string `gorm:"size:255" json:"address,omitempty"`
	Notes    string `gorm:"size:255" json:"notes,omitempty"`

	TotalPrice        float64 `json:"total_price"`
	EstimatedDuration int     `json:"estimated_duration"`
	OfferCode         string  `gorm:"size:30" json:"offer_code,omitempty"`
	OfferDiscount     float64 `json:"offer_discount"`

	Status        string         `gorm:"size:20;default:'pending'" json:"status"`
	StatusHistory []StatusChange `gorm:"serializer:json" json:"status_history"`

	CancellationReason string     `gorm:"size:255" json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy        *uint      `json:"cancelled_by,omitempty"`

	RescheduledFrom *RescheduleSnapshot `gorm:"serializer:json" json:"rescheduled_from,omitempty"`

	// Optimistic concurrency guard for lifecycle mutations.
	Version int `gorm:"not null;default:0" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
