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
)

type UpdateAppointmentStatus struct {
	repo  domain.Repository
	cache *cache.SlotCache
	audit *audit.Dispatcher
	cfg   *config.Config

	now func() time.Time
}

func NewUpdateAppointmentStatus(
	repo domain.Repository,
	slots *cache.SlotCache,
	audit *audit.Dispatcher,
	cfg *config.Config,
) *UpdateAppointmentStatus {
	return &UpdateAppointmentStatus{
		repo:  repo,
		cache: slots,
		audit: audit,
		cfg:   cfg,
		now:   func() time.Time { return timezone.NowIn(cfg.SalonTimezone) },
	}
}

func (uc *UpdateAppointmentStatus) Execute(
	ctx context.Context,
	appointmentID uint,
	newStatus string,
	reason string,
	actor Actor,
) (*models.Appointment, error) {

	to := domain.Status(newStatus)
	if !domain.IsValidStatus(to) {
		return nil, httperr.Validation("invalid_status", "Unknown appointment status.")
	}

	// Cancellation and rescheduling carry extra side effects (policy
	// window, slot snapshot) and go through their own operations.
	if to == domain.StatusCancelled {
		return nil, httperr.State("use_cancel_operation", "Use the cancel operation to cancel an appointment.")
	}
	if to == domain.StatusRescheduled {
		return nil, httperr.State("use_reschedule_operation", "Use the reschedule operation to move an appointment.")
	}

	ap, err := loadForActor(ctx, uc.repo, appointmentID, actor)
	if err != nil {
		return nil, err
	}

	from := ap.Status

	if err := domain.Transition(ap, to, actor.ID, reason, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointmentVersioned(ctx, ap); err != nil {
		return nil, err
	}

	// Terminal transitions free the slot for other bookings.
	if ap.StylistID != nil {
		uc.cache.Invalidate(ctx, *ap.StylistID, ap.Date)
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &actor.ID,
		Action:   "appointment_status_changed",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"from": from, "to": newStatus},
	})

	return ap, nil
}
