package appointment

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/salonops/salon-scheduler/internal/httperr"
)

// Slots are fixed-width intervals identified by their "HH:MM" start.
const SlotIntervalMinutes = 30

// ParseSlot converts "HH:MM" to minutes since midnight. Malformed input is
// a validation error, never a silent empty result.
func ParseSlot(hm string) (int, error) {
	parts := strings.Split(hm, ":")
	if len(parts) != 2 {
		return 0, httperr.Validation("invalid_time_slot", fmt.Sprintf("Time %q is not in HH:MM format.", hm))
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, httperr.Validation("invalid_time_slot", fmt.Sprintf("Time %q has an invalid hour.", hm))
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, httperr.Validation("invalid_time_slot", fmt.Sprintf("Time %q has an invalid minute.", hm))
	}

	return hour*60 + minute, nil
}

func FormatSlot(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func WorksOn(workingDays []int, weekday time.Weekday) bool {
	for _, d := range workingDays {
		if time.Weekday(d) == weekday {
			return true
		}
	}
	return false
}

// WithinWorkingHours reports whether a slot start lies in [start, end).
func WithinWorkingHours(startHM, endHM, slot string) (bool, error) {
	start, err := ParseSlot(startHM)
	if err != nil {
		return false, err
	}
	end, err := ParseSlot(endHM)
	if err != nil {
		return false, err
	}
	s, err := ParseSlot(slot)
	if err != nil {
		return false, err
	}
	return s >= start && s < end, nil
}

type AvailabilityOptions struct {
	// Now and ExcludePastSlots together drop slots whose start already
	// passed when the requested date is today. Off by default.
	Now              time.Time
	ExcludePastSlots bool
}

// AvailableSlots computes the open slot starts for one stylist on one date:
// every SlotIntervalMinutes step within [start, end) that is not booked.
// A date outside the stylist's working days yields no slots.
func AvailableSlots(
	workingDays []int,
	startHM string,
	endHM string,
	date time.Time,
	booked map[string]struct{},
	opts AvailabilityOptions,
) ([]string, error) {

	start, err := ParseSlot(startHM)
	if err != nil {
		return nil, err
	}
	end, err := ParseSlot(endHM)
	if err != nil {
		return nil, err
	}

	slots := []string{}
	if !WorksOn(workingDays, date.Weekday()) {
		return slots, nil
	}

	cutoff := -1
	if opts.ExcludePastSlots && sameDay(date, opts.Now) {
		cutoff = opts.Now.Hour()*60 + opts.Now.Minute()
	}

	for m := start; m < end; m += SlotIntervalMinutes {
		if m <= cutoff {
			continue
		}
		slot := FormatSlot(m)
		if _, taken := booked[slot]; taken {
			continue
		}
		slots = append(slots, slot)
	}

	sort.Strings(slots)
	return slots, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
