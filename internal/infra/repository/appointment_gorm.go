package repository

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/salonops/salon-scheduler/internal/domain/appointment"
	"github.com/salonops/salon-scheduler/internal/httperr"
	"github.com/salonops/salon-scheduler/internal/models"
)

const (
	maxTxAttempts  = 3
	initialBackoff = 50 * time.Millisecond
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Catalog snapshots
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *AppointmentGormRepository) GetStylist(
	ctx context.Context,
	id uint,
) (*models.Stylist, error) {

	var st models.Stylist
	if err := r.db.WithContext(ctx).First(&st, id).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *AppointmentGormRepository) GetOfferByCode(
	ctx context.Context,
	code string,
) (*models.Offer, error) {

	var offer models.Offer
	if err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&offer).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

// --------------------------------------------------
// Appointment (lookup)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Stylist").
		First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) GetAppointmentByReference(
	ctx context.Context,
	reference string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Stylist").
		Where("booking_reference = ?", reference).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

// --------------------------------------------------
// Availability / conflicts
// --------------------------------------------------

func (r *AppointmentGormRepository) ListBookedSlots(
	ctx context.Context,
	stylistID uint,
	date string,
) ([]string, error) {

	var slots []string
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"stylist_id = ? AND date = ? AND status IN ?",
			stylistID, date, domain.NonTerminalStatuses(),
		).
		Order("time_slot ASC").
		Pluck("time_slot", &slots).Error; err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *AppointmentGormRepository) HasSlotConflict(
	ctx context.Context,
	stylistID *uint,
	userID uint,
	date string,
	timeSlot string,
	excludeID uint,
) (bool, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"date = ? AND time_slot = ? AND status IN ?",
			date, timeSlot, domain.NonTerminalStatuses(),
		)

	if stylistID != nil {
		q = q.Where("(user_id = ? OR stylist_id = ?)", userID, *stylistID)
	} else {
		q = q.Where("user_id = ?", userID)
	}

	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// --------------------------------------------------
// Booking (transactional create)
// --------------------------------------------------

// CreateBooking commits the appointment and, when an offer code is present,
// its redemption, in one serializable transaction. The conflict read locks
// the rows it saw, the partial unique indexes make the guarantee hold even
// against writers this transaction never read, and serialization aborts are
// retried with exponential backoff.
func (r *AppointmentGormRepository) CreateBooking(
	ctx context.Context,
	ap *models.Appointment,
	offerCode string,
	now time.Time,
) error {

	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(initialBackoff << (attempt - 1))
		}

		// A rolled-back attempt may have assigned an ID via RETURNING.
		ap.ID = 0

		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

			q := tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Select("id").
				Where(
					"date = ? AND time_slot = ? AND status IN ?",
					ap.Date, ap.TimeSlot, domain.NonTerminalStatuses(),
				)

			if ap.StylistID != nil {
				q = q.Where("(user_id = ? OR stylist_id = ?)", ap.UserID, *ap.StylistID)
			} else {
				q = q.Where("user_id = ?", ap.UserID)
			}

			var taken []models.Appointment
			if err := q.Find(&taken).Error; err != nil {
				return err
			}
			if len(taken) > 0 {
				return httperr.Conflict("slot_taken", "The requested time slot is no longer available.")
			}

			if err := tx.Create(ap).Error; err != nil {
				return err
			}

			if offerCode != "" {
				// Commit-time revalidation: the WHERE re-checks the window
				// and the remaining redemptions, and the increment itself is
				// atomic, so concurrent redemptions cannot exceed the limit.
				res := tx.Model(&models.Offer{}).
					Where(
						"code = ? AND is_active = true AND valid_from <= ? AND valid_until >= ? AND (usage_limit IS NULL OR used_count < usage_limit)",
						offerCode, now, now,
					).
					UpdateColumn("used_count", gorm.Expr("used_count + 1"))

				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return httperr.State("offer_not_available", "The offer is no longer valid or has been exhausted.")
				}
			}

			return nil
		}, &sql.TxOptions{Isolation: sql.LevelSerializable})

		switch {
		case err == nil:
			return nil
		case httperr.IsUniqueViolation(err):
			return httperr.Conflict("slot_taken", "The requested time slot is no longer available.")
		case httperr.IsSerializationFailure(err):
			continue
		default:
			return err
		}
	}

	return httperr.Conflict("slot_taken", "The requested time slot could not be booked, please retry.")
}

// --------------------------------------------------
// Lifecycle (optimistic update)
// --------------------------------------------------

// UpdateAppointmentVersioned persists a lifecycle mutation guarded by the
// version column; a stale writer loses with a conflict instead of silently
// overwriting. The partial unique indexes also guard reschedules that move
// the row onto an occupied slot.
func (r *AppointmentGormRepository) UpdateAppointmentVersioned(
	ctx context.Context,
	ap *models.Appointment,
) error {

	prev := ap.Version
	ap.Version = prev + 1

	res := r.db.WithContext(ctx).
		Model(ap).
		Select(
			"status", "status_history", "date", "time_slot",
			"cancellation_reason", "cancelled_at", "cancelled_by",
			"rescheduled_from", "version",
		).
		Where("version = ?", prev).
		Updates(ap)

	if res.Error != nil {
		ap.Version = prev
		if httperr.IsUniqueViolation(res.Error) {
			return httperr.Conflict("slot_taken", "The requested time slot is no longer available.")
		}
		return res.Error
	}

	if res.RowsAffected == 0 {
		ap.Version = prev
		return httperr.Conflict("stale_appointment", "The appointment was modified concurrently, please retry.")
	}

	return nil
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *AppointmentGormRepository) ListByUser(
	ctx context.Context,
	userID uint,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Stylist").
		Where("user_id = ?", userID).
		Order("date DESC, time_slot DESC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

func (r *AppointmentGormRepository) ListByStylistAndDate(
	ctx context.Context,
	stylistID uint,
	date string,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Where("stylist_id = ? AND date = ?", stylistID, date).
		Order("time_slot ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
