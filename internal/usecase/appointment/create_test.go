package appointment

import (
	"context"
	"regexp"
	"testing"

	domain "github.com/salonops/salon-scheduler/internal/domain/appointment"
	"github.com/salonops/salon-scheduler/internal/httperr"
	"github.com/salonops/salon-scheduler/internal/models"
)

func TestCreateAppointmentValidation(t *testing.T) {
	repo := newFakeRepo()
	repo.seedCatalog()
	uc := newCreateUC(repo)

	tests := []struct {
		name     string
		mutate   func(*CreateAppointmentInput)
		wantCode string
	}{
		{
			name:     "missing service",
			mutate:   func(in *CreateAppointmentInput) { in.ServiceID = 0 },
			wantCode: "missing_field",
		},
		{
			name:     "missing date",
			mutate:   func(in *CreateAppointmentInput) { in.Date = "" },
			wantCode: "missing_field",
		},
		{
			name:     "malformed date",
			mutate:   func(in *CreateAppointmentInput) { in.Date = "03/03/2026" },
			wantCode: "invalid_date",
		},
		{
			name:     "today is not bookable",
			mutate:   func(in *CreateAppointmentInput) { in.Date = "2026-03-02" },
			wantCode: "date_not_future",
		},
		{
			name:     "past date",
			mutate:   func(in *CreateAppointmentInput) { in.Date = "2026-02-27" },
			wantCode: "date_not_future",
		},
		{
			name:     "malformed slot",
			mutate:   func(in *CreateAppointmentInput) { in.TimeSlot = "ten" },
			wantCode: "invalid_time_slot",
		},
		{
			name:     "unknown location",
			mutate:   func(in *CreateAppointmentInput) { in.Location = "rooftop" },
			wantCode: "invalid_location",
		},
		{
			name: "home without address",
			mutate: func(in *CreateAppointmentInput) {
				in.Location = models.LocationHome
				in.Address = "   "
			},
			wantCode: "address_required",
		},
		{
			name:     "unknown service",
			mutate:   func(in *CreateAppointmentInput) { in.ServiceID = 99 },
			wantCode: "service_not_found",
		},
		{
			name:     "unknown stylist",
			mutate:   func(in *CreateAppointmentInput) { in.StylistID = uintPtr(99) },
			wantCode: "stylist_not_found",
		},
		{
			name:     "stylist off that weekday",
			mutate:   func(in *CreateAppointmentInput) { in.Date = "2026-03-07" }, // Saturday
			wantCode: "stylist_not_working",
		},
		{
			name:     "slot before opening",
			mutate:   func(in *CreateAppointmentInput) { in.TimeSlot = "08:00" },
			wantCode: "outside_working_hours",
		},
		{
			name:     "slot at closing time",
			mutate:   func(in *CreateAppointmentInput) { in.TimeSlot = "18:00" },
			wantCode: "outside_working_hours",
		},
		{
			name:     "unknown offer",
			mutate:   func(in *CreateAppointmentInput) { in.OfferCode = "NOPE" },
			wantCode: "offer_not_found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validCreateInput()
			tt.mutate(&in)

			_, err := uc.Execute(context.Background(), in)
			if !httperr.IsBusiness(err, tt.wantCode) {
				t.Errorf("Execute() error = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestCreateAppointmentStateChecks(t *testing.T) {
	repo := newFakeRepo()
	repo.seedCatalog()
	repo.services[1].IsActive = false
	uc := newCreateUC(repo)

	_, err := uc.Execute(context.Background(), validCreateInput())
	if !httperr.IsBusiness(err, "service_inactive") {
		t.Errorf("Execute() error = %v, want service_inactive", err)
	}

	repo.services[1].IsActive = true
	repo.services[1].AvailableAtSalon = false
	_, err = uc.Execute(context.Background(), validCreateInput())
	if !httperr.IsBusiness(err, "service_unavailable_at_location") {
		t.Errorf("Execute() error = %v, want service_unavailable_at_location", err)
	}

	repo.services[1].AvailableAtSalon = true
	repo.stylists[1].IsActive = false
	_, err = uc.Execute(context.Background(), validCreateInput())
	if !httperr.IsBusiness(err, "stylist_inactive") {
		t.Errorf("Execute() error = %v, want stylist_inactive", err)
	}
}

func TestCreateAppointmentSuccess(t *testing.T) {
	repo := newFakeRepo()
	repo.seedCatalog()
	uc := newCreateUC(repo)

	ap, err := uc.Execute(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if ap.ID == 0 {
		t.Error("appointment not persisted")
	}
	if ap.Status != string(domain.StatusPending) {
		t.Errorf("status = %s, want pending", ap.Status)
	}
	if !regexp.MustCompile(`^APT-\d{6}-[0-9A-F]{3}$`).MatchString(ap.BookingReference) {
		t.Errorf("booking reference = %q", ap.BookingReference)
	}
	if ap.TotalPrice != 100 {
		t.Errorf("total = %.2f, want 100", ap.TotalPrice)
	}
	if ap.EstimatedDuration != 45 {
		t.Errorf("duration = %d, want 45", ap.EstimatedDuration)
	}
	if len(ap.StatusHistory) != 1 || ap.StatusHistory[0].Status != string(domain.StatusPending) {
		t.Errorf("history = %+v, want single pending entry", ap.StatusHistory)
	}
}

func TestCreateAppointmentNormalizesSlot(t *testing.T) {
	repo := newFakeRepo()
	repo.seedCatalog()
	uc := newCreateUC(repo)

	in := validCreateInput()
	in.TimeSlot = "9:30"

	ap, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if ap.TimeSlot != "09:30" {
		t.Errorf("time slot = %q, want 09:30", ap.TimeSlot)
	}
}

func TestCreateAppointmentMinimumDuration(t *testing.T) {
	repo := newFakeRepo()
	repo.seedCatalog()
	repo.services[1].DurationMin = 5
	uc := newCreateUC(repo)

	ap, err := uc.Execute(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if ap.EstimatedDuration != 15 {
		t.Errorf("duration = %d, want floor of 15", ap.EstimatedDuration)
	}
}

func TestCreateAppointmentSlotConflicts(t *testing.T) {
	repo := newFakeRepo()
	repo.seedCatalog()
	uc := newCreateUC(repo)

	if _, err := uc.Execute(context.Background(), validCreateInput()); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	// Another customer, same stylist and slot.
	in := validCreateInput()
	in.UserID = 43
	_, err := uc.Execute(context.Background(), in)
	if !httperr.IsBusiness(err, "slot_taken") {
		t.Errorf("stylist double-booking error = %v, want slot_taken", err)
	}

	// Same customer, same slot, no stylist: still a conflict.
	in = validCreateInput()
	in.StylistID = nil
	_, err = uc.Execute(context.Background(), in)
	if !httperr.IsBusiness(err, "slot_taken") {
		t.Errorf("user double-booking error = %v, want slot_taken", err)
	}

	// A freed slot is bookable again.
	for _, ap := range repo.appointments {
		ap.Status = string(domain.StatusCancelled)
	}
	in = validCreateInput()
	in.UserID = 43
	if _, err := uc.Execute(context.Background(), in); err != nil {
		t.Errorf("booking into freed slot failed: %v", err)
	}
}

func TestCreateAppointmentWithOffer(t *testing.T) {
	repo := newFakeRepo()
	repo.seedCatalog()
	limit := 3
	repo.offers["WELCOME"] = &models.Offer{
		ID: 1, Code: "WELCOME",
		DiscountType:  models.OfferDiscountPercentage,
		DiscountValue: 10,
		ValidFrom:     testNow.AddDate(0, -1, 0),
		ValidUntil:    testNow.AddDate(0, 1, 0),
		UsageLimit:    &limit,
		IsActive:      true,
	}
	uc := newCreateUC(repo)

	in := validCreateInput()
	in.OfferCode = "WELCOME"

	ap, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if ap.TotalPrice != 90 || ap.OfferDiscount != 10 {
		t.Errorf("pricing = total %.2f discount %.2f, want 90 / 10", ap.TotalPrice, ap.OfferDiscount)
	}
	if repo.offers["WELCOME"].UsedCount != 1 {
		t.Errorf("used count = %d, want 1", repo.offers["WELCOME"].UsedCount)
	}
}

func TestCreateAppointmentOfferExhaustedAtCommit(t *testing.T) {
	repo := newFakeRepo()
	repo.seedCatalog()
	limit := 1
	offer := &models.Offer{
		ID: 1, Code: "LAST",
		DiscountType:  models.OfferDiscountFixed,
		DiscountValue: 10,
		ValidFrom:     testNow.AddDate(0, -1, 0),
		ValidUntil:    testNow.AddDate(0, 1, 0),
		UsageLimit:    &limit,
		IsActive:      true,
	}
	repo.offers["LAST"] = offer

	// The last redemption happens after the quote but before the commit.
	repo.beforeCreate = func() { offer.UsedCount = limit }

	uc := newCreateUC(repo)
	in := validCreateInput()
	in.OfferCode = "LAST"

	_, err := uc.Execute(context.Background(), in)
	if !httperr.IsBusiness(err, "offer_not_available") {
		t.Errorf("Execute() error = %v, want offer_not_available", err)
	}
	if len(repo.appointments) != 0 {
		t.Error("appointment persisted despite failed offer redemption")
	}
}
