package appointment

import (
	"time"

	"github.com/salonops/salon-scheduler/internal/httperr"
	"github.com/salonops/salon-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

const DateLayout = "2006-01-02"

// AppendHistory records a status change; the last entry always mirrors the
// current status.
func AppendHistory(ap *models.Appointment, status Status, actorID uint, reason string, now time.Time) {
	ap.StatusHistory = append(ap.StatusHistory, models.StatusChange{
		Status:    string(status),
		ChangedAt: now,
		ChangedBy: actorID,
		Reason:    reason,
	})
}

// StartTime resolves the scheduled date + time slot in the salon's location.
func StartTime(ap *models.Appointment, loc *time.Location) (time.Time, error) {
	start, err := time.ParseInLocation(DateLayout+" 15:04", ap.Date+" "+ap.TimeSlot, loc)
	if err != nil {
		return time.Time{}, httperr.Validation("invalid_date_or_time", "Appointment has an unparseable date or time slot.")
	}
	return start, nil
}

// Transition applies a plain status change from the transition table.
func Transition(ap *models.Appointment, to Status, actorID uint, reason string, now time.Time) error {
	if err := CanTransition(Status(ap.Status), to); err != nil {
		return err
	}

	ap.Status = string(to)
	AppendHistory(ap, to, actorID, reason, now)
	return nil
}

// Cancel moves the appointment to cancelled. Non-admin actors are bound by
// the cancellation window before the scheduled start. The returned flag
// reports whether an admin bypassed that window.
func Cancel(
	ap *models.Appointment,
	actorID uint,
	admin bool,
	reason string,
	now time.Time,
	loc *time.Location,
	window time.Duration,
) (late bool, err error) {

	if err := CanTransition(Status(ap.Status), StatusCancelled); err != nil {
		return false, err
	}

	start, err := StartTime(ap, loc)
	if err != nil {
		return false, err
	}

	withinWindow := start.Sub(now) < window
	if withinWindow && !admin {
		return false, httperr.Policy("cancellation_window", "Appointments cannot be cancelled this close to the scheduled time.")
	}

	ap.Status = string(StatusCancelled)
	ap.CancellationReason = reason
	ap.CancelledAt = &now
	ap.CancelledBy = &actorID
	AppendHistory(ap, StatusCancelled, actorID, reason, now)

	return withinWindow && admin, nil
}

// MarkRescheduled snapshots the current slot and moves the appointment to
// the new one. Conflict checks for the new slot are the caller's job.
func MarkRescheduled(
	ap *models.Appointment,
	newDate string,
	newTimeSlot string,
	actorID uint,
	reason string,
	now time.Time,
) error {

	if err := CanReschedule(Status(ap.Status)); err != nil {
		return err
	}

	ap.RescheduledFrom = &models.RescheduleSnapshot{
		Date:          ap.Date,
		TimeSlot:      ap.TimeSlot,
		RescheduledAt: now,
		RescheduledBy: actorID,
	}

	ap.Date = newDate
	ap.TimeSlot = newTimeSlot
	ap.Status = string(StatusRescheduled)
	AppendHistory(ap, StatusRescheduled, actorID, reason, now)

	return nil
}
