package appointment

import (
	"context"
	"time"

	"github.com/salonops/salon-scheduler/internal/audit"
	"github.com/salonops/salon-scheduler/internal/config"
	domain "github.com/salonops/salon-scheduler/internal/domain/appointment"
	"github.com/salonops/salon-scheduler/internal/domain/pricing"
	"github.com/salonops/salon-scheduler/internal/httperr"
	"github.com/salonops/salon-scheduler/internal/infra/cache"
	"github.com/salonops/salon-scheduler/internal/models"
	"github.com/salonops/salon-scheduler/internal/timezone"
	"gorm.io/gorm"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	UserID    uint
	ServiceID uint
	StylistID *uint

	Date     string
	TimeSlot string
	Location string
	Address  string
	Notes    string

	OfferCode string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	cache *cache.SlotCache
	audit *audit.Dispatcher
	cfg   *config.Config

	now func() time.Time
}

func NewCreateAppointment(
	repo domain.Repository,
	slots *cache.SlotCache,
	audit *audit.Dispatcher,
	cfg *config.Config,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		cache: slots,
		audit: audit,
		cfg:   cfg,
		now:   func() time.Time { return timezone.NowIn(cfg.SalonTimezone) },
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	now := uc.now()
	loc := timezone.Location(uc.cfg.SalonTimezone)

	// --------------------------------------------------
	// Input validation, all before any transaction
	// --------------------------------------------------
	if in.UserID == 0 || in.ServiceID == 0 || in.Date == "" || in.TimeSlot == "" || in.Location == "" {
		return nil, httperr.Validation("missing_field", "userId, serviceId, date, timeSlot and location are required.")
	}

	date, err := parseBookingDate(in.Date, loc)
	if err != nil {
		return nil, err
	}
	if err := ensureFutureDate(date, now); err != nil {
		return nil, err
	}

	slot, err := normalizeSlot(in.TimeSlot)
	if err != nil {
		return nil, err
	}

	if !validLocation(in.Location) {
		return nil, httperr.Validation("invalid_location", "Location must be home or salon.")
	}

	if in.Location == models.LocationHome && !hasAddress(in.Address) {
		return nil, httperr.Validation("address_required", "A complete address is required for home appointments.")
	}

	// --------------------------------------------------
	// Service snapshot
	// --------------------------------------------------
	svc, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, httperr.NotFoundErr("service_not_found", "Service not found.")
		}
		return nil, err
	}

	if !svc.IsActive {
		return nil, httperr.State("service_inactive", "This service is not currently offered.")
	}
	if in.Location == models.LocationHome && !svc.AvailableAtHome {
		return nil, httperr.State("service_unavailable_at_location", "This service is not offered at home.")
	}
	if in.Location == models.LocationSalon && !svc.AvailableAtSalon {
		return nil, httperr.State("service_unavailable_at_location", "This service is not offered at the salon.")
	}

	// --------------------------------------------------
	// Stylist snapshot (optional)
	// --------------------------------------------------
	if in.StylistID != nil {
		stylist, err := uc.repo.GetStylist(ctx, *in.StylistID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, httperr.NotFoundErr("stylist_not_found", "Stylist not found.")
			}
			return nil, err
		}

		if err := stylistCanTake(stylist, in.Location, date, slot); err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// Pricing, with the offer validated at quote time;
	// the repository re-validates it at commit time.
	// --------------------------------------------------
	var offer *models.Offer
	if in.OfferCode != "" {
		offer, err = uc.repo.GetOfferByCode(ctx, in.OfferCode)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, httperr.NotFoundErr("offer_not_found", "Offer code not found.")
			}
			return nil, err
		}
	}

	quote, err := pricing.Price(svc, now, offer)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Assemble and commit
	// --------------------------------------------------
	duration := svc.DurationMin
	if duration < 15 {
		duration = 15
	}

	ap := &models.Appointment{
		BookingReference: domain.NewBookingReference(now.Unix()),

		UserID:    in.UserID,
		ServiceID: in.ServiceID,
		StylistID: in.StylistID,

		Date:     date.Format(domain.DateLayout),
		TimeSlot: slot,
		Location: in.Location,
		Address:  in.Address,
		Notes:    in.Notes,

		TotalPrice:        quote.Total,
		EstimatedDuration: duration,
		OfferCode:         in.OfferCode,
		OfferDiscount:     quote.OfferDiscount,

		Status: string(domain.InitialStatus()),
	}
	domain.AppendHistory(ap, domain.InitialStatus(), in.UserID, "created", now)

	if err := uc.repo.CreateBooking(ctx, ap, in.OfferCode, now); err != nil {
		return nil, err
	}

	if ap.StylistID != nil {
		uc.cache.Invalidate(ctx, *ap.StylistID, ap.Date)
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &in.UserID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"booking_reference": ap.BookingReference,
			"date":              ap.Date,
			"time_slot":         ap.TimeSlot,
		},
	})

	return ap, nil
}

// stylistCanTake validates the stylist snapshot against the requested
// location, weekday and time slot.
func stylistCanTake(stylist *models.Stylist, location string, date time.Time, slot string) error {
	if !stylist.IsActive {
		return httperr.State("stylist_inactive", "This stylist is not currently taking bookings.")
	}
	if location == models.LocationHome && !stylist.AvailableForHome {
		return httperr.State("stylist_unavailable_at_location", "This stylist does not take home appointments.")
	}
	if location == models.LocationSalon && !stylist.AvailableForSalon {
		return httperr.State("stylist_unavailable_at_location", "This stylist does not work at the salon.")
	}

	if !domain.WorksOn(stylist.WorkingDays, date.Weekday()) {
		return httperr.State("stylist_not_working", "The stylist does not work on that day.")
	}

	ok, err := domain.WithinWorkingHours(stylist.WorkingStart, stylist.WorkingEnd, slot)
	if err != nil {
		return err
	}
	if !ok {
		return httperr.State("outside_working_hours", "The time slot is outside the stylist's working hours.")
	}

	return nil
}
