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

type CancelAppointment struct {
	repo  domain.Repository
	cache *cache.SlotCache
	audit *audit.Dispatcher
	cfg   *config.Config

	now func() time.Time
}

func NewCancelAppointment(
	repo domain.Repository,
	slots *cache.SlotCache,
	audit *audit.Dispatcher,
	cfg *config.Config,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		cache: slots,
		audit: audit,
		cfg:   cfg,
		now:   func() time.Time { return timezone.NowIn(cfg.SalonTimezone) },
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	reason string,
	actor Actor,
) (*models.Appointment, error) {

	ap, err := loadForActor(ctx, uc.repo, appointmentID, actor)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	loc := timezone.Location(uc.cfg.SalonTimezone)
	window := time.Duration(uc.cfg.CancellationWindowMinutes) * time.Minute

	late, err := domain.Cancel(ap, actor.ID, actor.IsAdmin(), reason, now, loc, window)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointmentVersioned(ctx, ap); err != nil {
		return nil, err
	}

	if ap.StylistID != nil {
		uc.cache.Invalidate(ctx, *ap.StylistID, ap.Date)
	}

	action := "appointment_cancelled"
	if late {
		// Admin bypassed the cancellation window; keep that visible.
		action = "appointment_cancelled_late"
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &actor.ID,
		Action:   action,
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"reason": reason},
	})

	return ap, nil
}

// loadForActor hides other customers' appointments behind not-found rather
// than revealing their existence.
func loadForActor(
	ctx context.Context,
	repo domain.Repository,
	appointmentID uint,
	actor Actor,
) (*models.Appointment, error) {

	ap, err := repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, httperr.NotFoundErr("appointment_not_found", "Appointment not found.")
		}
		return nil, err
	}

	if !actor.IsAdmin() && ap.UserID != actor.ID {
		return nil, httperr.NotFoundErr("appointment_not_found", "Appointment not found.")
	}

	return ap, nil
}
