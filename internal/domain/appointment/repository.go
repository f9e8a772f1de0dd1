package appointment

import (
	"context"
	"time"

	"github.com/salonops/salon-scheduler/internal/models"
)

type Repository interface {
	// -------- Catalog snapshots (read-only) --------
	GetService(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	GetStylist(
		ctx context.Context,
		id uint,
	) (*models.Stylist, error)

	GetOfferByCode(
		ctx context.Context,
		code string,
	) (*models.Offer, error)

	// -------- Appointment (lookup) --------
	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	GetAppointmentByReference(
		ctx context.Context,
		reference string,
	) (*models.Appointment, error)

	// -------- Availability / conflicts --------
	ListBookedSlots(
		ctx context.Context,
		stylistID uint,
		date string,
	) ([]string, error)

	HasSlotConflict(
		ctx context.Context,
		stylistID *uint,
		userID uint,
		date string,
		timeSlot string,
		excludeID uint,
	) (bool, error)

	// -------- Booking (transactional create) --------
	CreateBooking(
		ctx context.Context,
		ap *models.Appointment,
		offerCode string,
		now time.Time,
	) error

	// -------- Lifecycle (optimistic update) --------
	UpdateAppointmentVersioned(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Listing --------
	ListByUser(
		ctx context.Context,
		userID uint,
	) ([]models.Appointment, error)

	ListByStylistAndDate(
		ctx context.Context,
		stylistID uint,
		date string,
	) ([]models.Appointment, error)
}
