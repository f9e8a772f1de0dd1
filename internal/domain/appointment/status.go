package appointment

import "github.com/salonops/salon-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending     Status = "pending"
	StatusConfirmed   Status = "confirmed"
	StatusInProgress  Status = "in_progress"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
	StatusNoShow      Status = "no_show"
	StatusRescheduled Status = "rescheduled"
)

func InitialStatus() Status {
	return StatusPending
}

// ===============================
// Transition table
// ===============================

// transitions is the single source of truth for lifecycle changes.
// Rescheduling is not listed here: it is a dedicated operation with its
// own side effects (see MarkRescheduled).
var transitions = map[Status][]Status{
	StatusPending:     {StatusConfirmed, StatusCancelled},
	StatusConfirmed:   {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress:  {StatusCompleted, StatusCancelled},
	StatusRescheduled: {StatusConfirmed, StatusCancelled},
}

var terminal = map[Status]bool{
	StatusCompleted: true,
	StatusCancelled: true,
	StatusNoShow:    true,
}

func IsTerminal(s Status) bool {
	return terminal[s]
}

// NonTerminalStatuses lists the statuses that occupy a slot; the partial
// unique indexes in internal/db filter on the same set.
func NonTerminalStatuses() []string {
	return []string{
		string(StatusPending),
		string(StatusConfirmed),
		string(StatusInProgress),
		string(StatusRescheduled),
	}
}

func CanTransition(from, to Status) error {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return httperr.State("invalid_transition", "Appointment cannot move from "+string(from)+" to "+string(to)+".")
}

// reschedulable: a rescheduled appointment must be re-confirmed before it
// can be moved again.
var reschedulable = map[Status]bool{
	StatusPending:   true,
	StatusConfirmed: true,
}

func CanReschedule(current Status) error {
	if !reschedulable[current] {
		return httperr.State("cannot_reschedule", "Appointment in status "+string(current)+" cannot be rescheduled.")
	}
	return nil
}

func IsValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow, StatusRescheduled:
		return true
	}
	return false
}
