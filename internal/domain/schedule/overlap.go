package schedule

import "github.com/BruksfildServices01/hospital-scheduler/internal/timezone"

// Overlaps reports whether the half-open ranges [startA, endA) and
// [startB, endB) on the same day intersect. Times are "HH:MM";
// unparseable input never overlaps.
func Overlaps(startA, endA, startB, endB string) bool {
	a1, err := timezone.ParseHM(startA)
	if err != nil {
		return false
	}
	a2, err := timezone.ParseHM(endA)
	if err != nil {
		return false
	}
	b1, err := timezone.ParseHM(startB)
	if err != nil {
		return false
	}
	b2, err := timezone.ParseHM(endB)
	if err != nil {
		return false
	}
	return a1 < b2 && b1 < a2
}
