package appointment

import (
	"strings"
	"time"

	domain "github.com/salonops/salon-scheduler/internal/domain/appointment"
	"github.com/salonops/salon-scheduler/internal/httperr"
	"github.com/salonops/salon-scheduler/internal/models"
)

func parseBookingDate(dateStr string, loc *time.Location) (time.Time, error) {
	date, err := time.ParseInLocation(domain.DateLayout, dateStr, loc)
	if err != nil {
		return time.Time{}, httperr.Validation("invalid_date", "Date must be in YYYY-MM-DD format.")
	}
	return date, nil
}

// ensureFutureDate enforces the calendar-day rule: the booking date must be
// strictly after today in salon-local time.
func ensureFutureDate(date time.Time, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if !date.After(today) {
		return httperr.Validation("date_not_future", "Appointments must be booked for a future date.")
	}
	return nil
}

// normalizeSlot validates the HH:MM input and canonicalizes it (e.g. "9:30"
// becomes "09:30") so conflict checks compare like with like.
func normalizeSlot(slot string) (string, error) {
	minutes, err := domain.ParseSlot(slot)
	if err != nil {
		return "", err
	}
	return domain.FormatSlot(minutes), nil
}

func validLocation(location string) bool {
	return location == models.LocationHome || location == models.LocationSalon
}

func hasAddress(address string) bool {
	return strings.TrimSpace(address) != ""
}
