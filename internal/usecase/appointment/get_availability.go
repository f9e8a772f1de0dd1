package appointment

import (
	"context"
	"time"

	"github.com/salonops/salon-scheduler/internal/config"
	domain "github.com/salonops/salon-scheduler/internal/domain/appointment"
	"github.com/salonops/salon-scheduler/internal/httperr"
	"github.com/salonops/salon-scheduler/internal/infra/cache"
	"github.com/salonops/salon-scheduler/internal/timezone"
	"gorm.io/gorm"
)

type GetAvailability struct {
	repo  domain.Repository
	cache *cache.SlotCache
	cfg   *config.Config

	now func() time.Time
}

func NewGetAvailability(
	repo domain.Repository,
	slots *cache.SlotCache,
	cfg *config.Config,
) *GetAvailability {
	return &GetAvailability{
		repo:  repo,
		cache: slots,
		cfg:   cfg,
		now:   func() time.Time { return timezone.NowIn(cfg.SalonTimezone) },
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	stylistID uint,
	dateStr string,
) ([]string, error) {

	loc := timezone.Location(uc.cfg.SalonTimezone)

	date, err := parseBookingDate(dateStr, loc)
	if err != nil {
		return nil, err
	}

	stylist, err := uc.repo.GetStylist(ctx, stylistID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, httperr.NotFoundErr("stylist_not_found", "Stylist not found.")
		}
		return nil, err
	}

	if !stylist.IsActive {
		return []string{}, nil
	}

	day := date.Format(domain.DateLayout)

	if slots, ok := uc.cache.Get(ctx, stylistID, day); ok {
		return slots, nil
	}

	bookedList, err := uc.repo.ListBookedSlots(ctx, stylistID, day)
	if err != nil {
		return nil, err
	}

	booked := make(map[string]struct{}, len(bookedList))
	for _, s := range bookedList {
		booked[s] = struct{}{}
	}

	slots, err := domain.AvailableSlots(
		stylist.WorkingDays,
		stylist.WorkingStart,
		stylist.WorkingEnd,
		date,
		booked,
		domain.AvailabilityOptions{
			Now:              uc.now(),
			ExcludePastSlots: uc.cfg.ExcludePastSlots,
		},
	)
	if err != nil {
		return nil, err
	}

	uc.cache.Set(ctx, stylistID, day, slots)
	return slots, nil
}
