package appointment

import (
	"context"
	"time"

	"github.com/salonops/salon-scheduler/internal/audit"
	"github.com/salonops/salon-scheduler/internal/config"
	domain "github.com/salonops/salon-scheduler/internal/domain/appointment"
	"github.com/salonops/salon-scheduler/internal/httperr"
	"github.com/salonops/salon-scheduler/internal/infra/cache"
	"github.com/salonops/salon-scheduler/internal/models"
	"github.com/salonops/salon-scheduler/internal/timezone"
	"gorm.io/gorm"
)

type RescheduleAppointment struct {
	repo  domain.Repository
	cache *cache.SlotCache
	audit *audit.Dispatcher
	cfg   *config.Config

	now func() time.Time
}

func NewRescheduleAppointment(
	repo domain.Repository,
	slots *cache.SlotCache,
	audit *audit.Dispatcher,
	cfg *config.Config,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:  repo,
		cache: slots,
		audit: audit,
		cfg:   cfg,
		now:   func() time.Time { return timezone.NowIn(cfg.SalonTimezone) },
	}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	newDate string,
	newTimeSlot string,
	reason string,
	actor Actor,
) (*models.Appointment, error) {

	now := uc.now()
	loc := timezone.Location(uc.cfg.SalonTimezone)

	date, err := parseBookingDate(newDate, loc)
	if err != nil {
		return nil, err
	}
	if err := ensureFutureDate(date, now); err != nil {
		return nil, err
	}

	slot, err := normalizeSlot(newTimeSlot)
	if err != nil {
		return nil, err
	}

	ap, err := loadForActor(ctx, uc.repo, appointmentID, actor)
	if err != nil {
		return nil, err
	}

	if err := domain.CanReschedule(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	// The assigned stylist must be able to take the new slot.
	if ap.StylistID != nil {
		stylist, err := uc.repo.GetStylist(ctx, *ap.StylistID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, httperr.NotFoundErr("stylist_not_found", "Stylist not found.")
			}
			return nil, err
		}

		if err := stylistCanTake(stylist, ap.Location, date, slot); err != nil {
			return nil, err
		}
	}

	// Same conflict rules as creation, excluding the appointment being
	// moved; the unique indexes re-check this at write time.
	day := date.Format(domain.DateLayout)
	busy, err := uc.repo.HasSlotConflict(ctx, ap.StylistID, ap.UserID, day, slot, ap.ID)
	if err != nil {
		return nil, err
	}
	if busy {
		return nil, httperr.Conflict("slot_taken", "The requested time slot is no longer available.")
	}

	oldDate := ap.Date

	if err := domain.MarkRescheduled(ap, day, slot, actor.ID, reason, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointmentVersioned(ctx, ap); err != nil {
		return nil, err
	}

	if ap.StylistID != nil {
		uc.cache.Invalidate(ctx, *ap.StylistID, oldDate)
		uc.cache.Invalidate(ctx, *ap.StylistID, ap.Date)
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &actor.ID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"from_date": ap.RescheduledFrom.Date,
			"from_slot": ap.RescheduledFrom.TimeSlot,
			"to_date":   ap.Date,
			"to_slot":   ap.TimeSlot,
		},
	})

	return ap, nil
}
