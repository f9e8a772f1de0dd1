package appointment

import (
	"testing"
	"time"

	"github.com/salonops/salon-scheduler/internal/httperr"
	"github.com/salonops/salon-scheduler/internal/models"
)

func newTestAppointment(status Status, date, slot string) *models.Appointment {
	return &models.Appointment{
		ID:       1,
		UserID:   42,
		Date:     date,
		TimeSlot: slot,
		Status:   string(status),
		StatusHistory: []models.StatusChange{
			{Status: string(StatusPending), ChangedBy: 42},
		},
	}
}

func TestTransitionAppendsHistory(t *testing.T) {
	ap := newTestAppointment(StatusPending, "2026-03-02", "10:00")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := Transition(ap, StatusConfirmed, 7, "desk check-in", now); err != nil {
		t.Fatalf("Transition() error = %v", err)
	}

	if ap.Status != string(StatusConfirmed) {
		t.Errorf("status = %s, want confirmed", ap.Status)
	}
	if len(ap.StatusHistory) != 2 {
		t.Fatalf("history length = %d, want 2", len(ap.StatusHistory))
	}
	last := ap.StatusHistory[len(ap.StatusHistory)-1]
	if last.Status != ap.Status {
		t.Errorf("last history entry %s does not mirror status %s", last.Status, ap.Status)
	}
	if last.ChangedBy != 7 || last.Reason != "desk check-in" {
		t.Errorf("last history entry = %+v", last)
	}
}

func TestTransitionRejected(t *testing.T) {
	ap := newTestAppointment(StatusCompleted, "2026-03-02", "10:00")
	before := len(ap.StatusHistory)

	err := Transition(ap, StatusConfirmed, 7, "", time.Now())
	if !httperr.IsBusiness(err, "invalid_transition") {
		t.Fatalf("Transition() error = %v, want invalid_transition", err)
	}
	if ap.Status != string(StatusCompleted) {
		t.Errorf("status mutated on rejected transition: %s", ap.Status)
	}
	if len(ap.StatusHistory) != before {
		t.Errorf("history mutated on rejected transition")
	}
}

func TestCancelWindow(t *testing.T) {
	loc := time.UTC
	window := 2 * time.Hour
	// Appointment at 10:00 on 2026-03-02.
	const date, slot = "2026-03-02", "10:00"

	tests := []struct {
		name     string
		now      time.Time
		admin    bool
		wantLate bool
		wantCode string
	}{
		{
			name: "customer outside window",
			now:  time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC),
		},
		{
			name:     "customer 90 minutes before",
			now:      time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC),
			wantCode: "cancellation_window",
		},
		{
			name:     "customer exactly at the boundary",
			now:      time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
			wantLate: false,
		},
		{
			name:     "admin 90 minutes before",
			now:      time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC),
			admin:    true,
			wantLate: true,
		},
		{
			name:  "admin outside window",
			now:   time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC),
			admin: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ap := newTestAppointment(StatusConfirmed, date, slot)

			late, err := Cancel(ap, 9, tt.admin, "changed plans", tt.now, loc, window)
			if tt.wantCode != "" {
				if !httperr.IsBusiness(err, tt.wantCode) {
					t.Fatalf("Cancel() error = %v, want %s", err, tt.wantCode)
				}
				if ap.Status != string(StatusConfirmed) {
					t.Errorf("status mutated on rejected cancel: %s", ap.Status)
				}
				return
			}
			if err != nil {
				t.Fatalf("Cancel() unexpected error: %v", err)
			}
			if late != tt.wantLate {
				t.Errorf("Cancel() late = %v, want %v", late, tt.wantLate)
			}
			if ap.Status != string(StatusCancelled) {
				t.Errorf("status = %s, want cancelled", ap.Status)
			}
			if ap.CancellationReason != "changed plans" {
				t.Errorf("cancellation reason = %q", ap.CancellationReason)
			}
			if ap.CancelledAt == nil || !ap.CancelledAt.Equal(tt.now) {
				t.Errorf("cancelled_at = %v, want %v", ap.CancelledAt, tt.now)
			}
			if ap.CancelledBy == nil || *ap.CancelledBy != 9 {
				t.Errorf("cancelled_by = %v, want 9", ap.CancelledBy)
			}
			last := ap.StatusHistory[len(ap.StatusHistory)-1]
			if last.Status != string(StatusCancelled) {
				t.Errorf("last history entry = %s, want cancelled", last.Status)
			}
		})
	}
}

func TestCancelTerminalStatus(t *testing.T) {
	ap := newTestAppointment(StatusCancelled, "2026-03-02", "10:00")

	_, err := Cancel(ap, 9, true, "", time.Now(), time.UTC, 2*time.Hour)
	if !httperr.IsBusiness(err, "invalid_transition") {
		t.Errorf("Cancel() on cancelled appointment = %v, want invalid_transition", err)
	}
}

func TestCancelUnparseableSchedule(t *testing.T) {
	ap := newTestAppointment(StatusPending, "03/02/2026", "10:00")

	_, err := Cancel(ap, 9, false, "", time.Now(), time.UTC, 2*time.Hour)
	if !httperr.IsBusiness(err, "invalid_date_or_time") {
		t.Errorf("Cancel() error = %v, want invalid_date_or_time", err)
	}
}

func TestMarkRescheduled(t *testing.T) {
	ap := newTestAppointment(StatusConfirmed, "2026-03-02", "10:00")
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	if err := MarkRescheduled(ap, "2026-03-05", "14:30", 42, "conflict", now); err != nil {
		t.Fatalf("MarkRescheduled() error = %v", err)
	}

	if ap.Date != "2026-03-05" || ap.TimeSlot != "14:30" {
		t.Errorf("slot = %s %s, want 2026-03-05 14:30", ap.Date, ap.TimeSlot)
	}
	if ap.Status != string(StatusRescheduled) {
		t.Errorf("status = %s, want rescheduled", ap.Status)
	}

	snap := ap.RescheduledFrom
	if snap == nil {
		t.Fatal("rescheduled_from snapshot missing")
	}
	if snap.Date != "2026-03-02" || snap.TimeSlot != "10:00" {
		t.Errorf("snapshot = %s %s, want original slot", snap.Date, snap.TimeSlot)
	}
	if snap.RescheduledBy != 42 || !snap.RescheduledAt.Equal(now) {
		t.Errorf("snapshot attribution = %+v", snap)
	}

	last := ap.StatusHistory[len(ap.StatusHistory)-1]
	if last.Status != string(StatusRescheduled) || last.Reason != "conflict" {
		t.Errorf("last history entry = %+v", last)
	}
}

func TestMarkRescheduledRejectsRescheduled(t *testing.T) {
	ap := newTestAppointment(StatusRescheduled, "2026-03-05", "14:30")

	err := MarkRescheduled(ap, "2026-03-06", "09:00", 42, "", time.Now())
	if !httperr.IsBusiness(err, "cannot_reschedule") {
		t.Errorf("MarkRescheduled() error = %v, want cannot_reschedule", err)
	}
	if ap.Date != "2026-03-05" {
		t.Errorf("date mutated on rejected reschedule: %s", ap.Date)
	}
}

func TestStartTime(t *testing.T) {
	loc, _ := time.LoadLocation("America/Sao_Paulo")
	ap := newTestAppointment(StatusPending, "2026-03-02", "10:00")

	start, err := StartTime(ap, loc)
	if err != nil {
		t.Fatalf("StartTime() error = %v", err)
	}
	want := time.Date(2026, 3, 2, 10, 0, 0, 0, loc)
	if !start.Equal(want) {
		t.Errorf("StartTime() = %v, want %v", start, want)
	}
}
