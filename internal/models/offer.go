package models

import "time"

const (
	OfferDiscountPercentage = "percentage"
	OfferDiscountFixed      = "fixed"
	OfferDiscountFree       = "free"
)

type Offer struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Code        string `gorm:"size:30;uniqueIndex;not null" json:"code"`
	Description string `gorm:"size:255" json:"description"`

	DiscountType      string   `gorm:"size:20;not null" json:"discount_type"`
	DiscountValue     float64  `json:"discount_value"`
	MinPurchaseAmount float64  `json:"min_purchase_amount"`
	MaxDiscountAmount *float64 `json:"max_discount_amount"`

	ValidFrom  time.Time `json:"valid_from"`
	ValidUntil time.Time `json:"valid_until"`

	// Empty lists mean the offer is unrestricted.
	ApplicableServices   []uint   `gorm:"serializer:json" json:"applicable_services"`
	ApplicableCategories []string `gorm:"serializer:json" json:"applicable_categories"`

	// Nil limit means unlimited redemptions. used_count only ever moves
	// through the conditional atomic increment in the repository.
	UsageLimit *int `json:"usage_limit"`
	UsedCount  int  `gorm:"default:0" json:"used_count"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
