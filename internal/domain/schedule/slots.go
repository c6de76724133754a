package schedule

import (
	"github.com/BruksfildServices01/hospital-scheduler/internal/timezone"
)

// DefaultSlotMinutes is used whenever a template or session carries a
// non-positive slot duration.
const DefaultSlotMinutes = 15

// Slots produces the ordered slot start times ("HH:MM") between start
// and end: every whole slot that ends at or before end. When
// maxPatients > 0 the grid is truncated to that many entries.
func Slots(start, end string, durationMin, maxPatients int) []string {
	if durationMin <= 0 {
		durationMin = DefaultSlotMinutes
	}

	s, err := timezone.ParseHM(start)
	if err != nil {
		return nil
	}
	e, err := timezone.ParseHM(end)
	if err != nil {
		return nil
	}

	var slots []string
	for cur := s; cur+durationMin <= e; cur += durationMin {
		slots = append(slots, timezone.FormatHM(cur))
		if maxPatients > 0 && len(slots) == maxPatients {
			break
		}
	}
	return slots
}

// SlotIndex returns the 1-based index of t on the slot grid, or 0 when
// t is not a valid slot start.
func SlotIndex(start, end string, durationMin, maxPatients int, t string) int {
	for i, s := range Slots(start, end, durationMin, maxPatients) {
		if s == t {
			return i + 1
		}
	}
	return 0
}

// TotalSlots is the size of the slot grid.
func TotalSlots(start, end string, durationMin, maxPatients int) int {
	return len(Slots(start, end, durationMin, maxPatients))
}
