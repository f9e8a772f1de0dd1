package appointment

import (
	"context"
	"time"

	"github.com/salonops/salon-scheduler/internal/config"
	domain "github.com/salonops/salon-scheduler/internal/domain/appointment"
	"github.com/salonops/salon-scheduler/internal/httperr"
	"github.com/salonops/salon-scheduler/internal/models"
	"gorm.io/gorm"
)

// Fixed clock for every use case test: Monday 2026-03-02, 10:00 salon time.
var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		SalonTimezone:             "UTC",
		CancellationWindowMinutes: 120,
		SlotCacheTTLSeconds:       60,
	}
}

func uintPtr(v uint) *uint { return &v }

// fakeRepo is an in-memory Repository with the same conflict and
// version-check semantics as the gorm implementation.
type fakeRepo struct {
	services     map[uint]*models.Service
	stylists     map[uint]*models.Stylist
	offers       map[string]*models.Offer
	appointments map[uint]*models.Appointment
	nextID       uint

	// beforeCreate runs at the top of CreateBooking, standing in for state
	// that changes between quote time and commit time.
	beforeCreate func()
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		services:     map[uint]*models.Service{},
		stylists:     map[uint]*models.Stylist{},
		offers:       map[string]*models.Offer{},
		appointments: map[uint]*models.Appointment{},
	}
}

var _ domain.Repository = (*fakeRepo)(nil)

func (r *fakeRepo) GetService(ctx context.Context, id uint) (*models.Service, error) {
	svc, ok := r.services[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return svc, nil
}

func (r *fakeRepo) GetStylist(ctx context.Context, id uint) (*models.Stylist, error) {
	st, ok := r.stylists[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return st, nil
}

func (r *fakeRepo) GetOfferByCode(ctx context.Context, code string) (*models.Offer, error) {
	o, ok := r.offers[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *fakeRepo) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	ap, ok := r.appointments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *ap
	return &cp, nil
}

func (r *fakeRepo) GetAppointmentByReference(ctx context.Context, reference string) (*models.Appointment, error) {
	for _, ap := range r.appointments {
		if ap.BookingReference == reference {
			cp := *ap
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) ListBookedSlots(ctx context.Context, stylistID uint, date string) ([]string, error) {
	var slots []string
	for _, ap := range r.appointments {
		if ap.StylistID != nil && *ap.StylistID == stylistID &&
			ap.Date == date && !domain.IsTerminal(domain.Status(ap.Status)) {
			slots = append(slots, ap.TimeSlot)
		}
	}
	return slots, nil
}

func (r *fakeRepo) HasSlotConflict(
	ctx context.Context,
	stylistID *uint,
	userID uint,
	date string,
	timeSlot string,
	excludeID uint,
) (bool, error) {
	for _, ap := range r.appointments {
		if ap.ID == excludeID || ap.Date != date || ap.TimeSlot != timeSlot {
			continue
		}
		if domain.IsTerminal(domain.Status(ap.Status)) {
			continue
		}
		if ap.UserID == userID {
			return true, nil
		}
		if stylistID != nil && ap.StylistID != nil && *ap.StylistID == *stylistID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) CreateBooking(
	ctx context.Context,
	ap *models.Appointment,
	offerCode string,
	now time.Time,
) error {
	if r.beforeCreate != nil {
		r.beforeCreate()
	}

	busy, _ := r.HasSlotConflict(ctx, ap.StylistID, ap.UserID, ap.Date, ap.TimeSlot, 0)
	if busy {
		return httperr.Conflict("slot_taken", "The requested time slot is no longer available.")
	}

	if offerCode != "" {
		o, ok := r.offers[offerCode]
		if !ok || !o.IsActive ||
			now.Before(o.ValidFrom) || now.After(o.ValidUntil) ||
			(o.UsageLimit != nil && o.UsedCount >= *o.UsageLimit) {
			return httperr.State("offer_not_available", "The offer can no longer be applied.")
		}
		o.UsedCount++
	}

	r.nextID++
	ap.ID = r.nextID
	cp := *ap
	r.appointments[ap.ID] = &cp
	return nil
}

func (r *fakeRepo) UpdateAppointmentVersioned(ctx context.Context, ap *models.Appointment) error {
	stored, ok := r.appointments[ap.ID]
	if !ok || stored.Version != ap.Version {
		return httperr.Conflict("stale_appointment", "The appointment was modified concurrently. Reload and retry.")
	}
	ap.Version++
	cp := *ap
	r.appointments[ap.ID] = &cp
	return nil
}

func (r *fakeRepo) ListByUser(ctx context.Context, userID uint) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.UserID == userID {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByStylistAndDate(ctx context.Context, stylistID uint, date string) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.StylistID != nil && *ap.StylistID == stylistID && ap.Date == date {
			out = append(out, *ap)
		}
	}
	return out, nil
}

// ------------------------------
// Fixtures
// ------------------------------

func (r *fakeRepo) seedCatalog() {
	r.services[1] = &models.Service{
		ID: 1, Name: "Haircut", Category: "hair",
		Price: 100, DurationMin: 45,
		AvailableAtSalon: true, IsActive: true,
	}
	// Works Monday through Friday, 09:00-18:00.
	r.stylists[1] = &models.Stylist{
		ID: 1, Name: "Dana",
		WorkingDays:       []int{1, 2, 3, 4, 5},
		WorkingStart:      "09:00",
		WorkingEnd:        "18:00",
		AvailableForSalon: true,
		IsActive:          true,
	}
}

func (r *fakeRepo) seedAppointment(id uint, userID uint, stylistID *uint, date, slot, status string) *models.Appointment {
	ap := &models.Appointment{
		ID:               id,
		BookingReference: domain.NewBookingReference(testNow.Unix()),
		UserID:           userID,
		ServiceID:        1,
		StylistID:        stylistID,
		Date:             date,
		TimeSlot:         slot,
		Location:         models.LocationSalon,
		Status:           status,
		StatusHistory: []models.StatusChange{
			{Status: string(domain.StatusPending), ChangedAt: testNow, ChangedBy: userID, Reason: "created"},
		},
	}
	r.appointments[id] = ap
	if id > r.nextID {
		r.nextID = id
	}
	return ap
}

func validCreateInput() CreateAppointmentInput {
	return CreateAppointmentInput{
		UserID:    42,
		ServiceID: 1,
		StylistID: uintPtr(1),
		Date:      "2026-03-03",
		TimeSlot:  "10:00",
		Location:  models.LocationSalon,
	}
}

func newCreateUC(repo *fakeRepo) *CreateAppointment {
	return &CreateAppointment{
		repo: repo,
		cfg:  testConfig(),
		now:  func() time.Time { return testNow },
	}
}

func newCancelUC(repo *fakeRepo) *CancelAppointment {
	return &CancelAppointment{
		repo: repo,
		cfg:  testConfig(),
		now:  func() time.Time { return testNow },
	}
}

func newRescheduleUC(repo *fakeRepo) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo: repo,
		cfg:  testConfig(),
		now:  func() time.Time { return testNow },
	}
}

func newUpdateStatusUC(repo *fakeRepo) *UpdateAppointmentStatus {
	return &UpdateAppointmentStatus{
		repo: repo,
		cfg:  testConfig(),
		now:  func() time.Time { return testNow },
	}
}

func newAvailabilityUC(repo *fakeRepo) *GetAvailability {
	return &GetAvailability{
		repo: repo,
		cfg:  testConfig(),
		now:  func() time.Time { return testNow },
	}
}
