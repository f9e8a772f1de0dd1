package pricing

import (
	"fmt"
	"time"

	"github.com/salonops/salon-scheduler/internal/httperr"
	"github.com/salonops/salon-scheduler/internal/models"
)

// Quote is the result of pricing one booking. Deterministic given the
// service snapshot, the clock and the optional offer.
type Quote struct {
	BasePrice       float64
	ServiceDiscount float64
	OfferDiscount   float64
	Total           float64
}

// Price computes the chargeable amount: service-level discount first, then
// the promotional offer, each clamped at zero.
func Price(svc *models.Service, now time.Time, offer *models.Offer) (Quote, error) {
	q := Quote{BasePrice: svc.Price}

	amount := svc.Price

	if serviceDiscountActive(svc, now) {
		q.ServiceDiscount = amount * svc.Discount.Percentage / 100
		amount -= q.ServiceDiscount
		if amount < 0 {
			amount = 0
		}
	}

	if offer != nil {
		if err := CanBeApplied(offer, svc, amount, now); err != nil {
			return Quote{}, err
		}

		discount := offerDiscount(offer, amount)
		if discount < 0 {
			// The formulas above cannot go negative; treat it as a defect,
			// not a user error.
			return Quote{}, fmt.Errorf("pricing: negative offer discount %.2f for code %s", discount, offer.Code)
		}

		q.OfferDiscount = discount
		amount -= discount
		if amount < 0 {
			amount = 0
		}
	}

	q.Total = amount
	return q, nil
}

func serviceDiscountActive(svc *models.Service, now time.Time) bool {
	d := svc.Discount
	if !d.IsActive || d.Percentage <= 0 {
		return false
	}
	if d.ValidFrom != nil && now.Before(*d.ValidFrom) {
		return false
	}
	if d.ValidUntil != nil && now.After(*d.ValidUntil) {
		return false
	}
	return true
}

// IsCurrentlyValid checks the offer's own lifecycle: active flag, validity
// window and remaining redemptions.
func IsCurrentlyValid(offer *models.Offer, now time.Time) error {
	if !offer.IsActive {
		return httperr.State("offer_inactive", "This offer is no longer active.")
	}
	if now.Before(offer.ValidFrom) || now.After(offer.ValidUntil) {
		return httperr.State("offer_not_valid", "This offer is not valid right now.")
	}
	if offer.UsageLimit != nil && offer.UsedCount >= *offer.UsageLimit {
		return httperr.State("offer_exhausted", "This offer has reached its usage limit.")
	}
	return nil
}

// CanBeApplied layers the order-specific rules on top of IsCurrentlyValid:
// minimum purchase and the service/category allow-lists.
func CanBeApplied(offer *models.Offer, svc *models.Service, amount float64, now time.Time) error {
	if err := IsCurrentlyValid(offer, now); err != nil {
		return err
	}

	if amount < offer.MinPurchaseAmount {
		return httperr.State("offer_min_purchase", "Order amount is below the offer's minimum purchase.")
	}

	if len(offer.ApplicableServices) > 0 || len(offer.ApplicableCategories) > 0 {
		if !containsUint(offer.ApplicableServices, svc.ID) &&
			!containsString(offer.ApplicableCategories, svc.Category) {
			return httperr.State("offer_not_applicable", "This offer does not apply to the selected service.")
		}
	}

	return nil
}

func offerDiscount(offer *models.Offer, amount float64) float64 {
	switch offer.DiscountType {
	case models.OfferDiscountPercentage:
		discount := amount * offer.DiscountValue / 100
		if offer.MaxDiscountAmount != nil && discount > *offer.MaxDiscountAmount {
			discount = *offer.MaxDiscountAmount
		}
		if discount > amount {
			discount = amount
		}
		return discount
	case models.OfferDiscountFixed:
		if offer.DiscountValue > amount {
			return amount
		}
		return offer.DiscountValue
	case models.OfferDiscountFree:
		return amount
	}
	return 0
}

func containsUint(list []uint, v uint) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
