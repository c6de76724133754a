package schedule

import (
	"time"

	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
	"github.com/BruksfildServices01/hospital-scheduler/internal/timezone"
)

// biweeklyEpoch anchors week parity for templates with no valid_from.
// 2024-01-07 is a Sunday, so week offsets align with day_of_week 0.
const biweeklyEpoch = "2024-01-07"

// Applies reports whether a template instantiates on the given civil
// date. Biweekly templates match on even week offsets counted from the
// Sunday-aligned week of valid_from (or the fixed epoch when unset).
func Applies(s *models.DoctorSchedule, date string) bool {
	if s.Status != models.ScheduleActive {
		return false
	}

	if s.ValidFrom != nil && date < *s.ValidFrom {
		return false
	}
	if s.ValidUntil != nil && date > *s.ValidUntil {
		return false
	}

	d, err := timezone.ParseDate(date)
	if err != nil {
		return false
	}
	if int(d.Weekday()) != s.DayOfWeek {
		return false
	}

	switch s.Recurrence {
	case models.RecurrenceOnce:
		return s.ValidFrom != nil && date == *s.ValidFrom
	case models.RecurrenceBiweekly:
		anchor := biweeklyEpoch
		if s.ValidFrom != nil {
			anchor = *s.ValidFrom
		}
		return weekOffset(anchor, d)%2 == 0
	default: // weekly
		return true
	}
}

// weekOffset counts whole Sunday-aligned weeks between anchor and d.
func weekOffset(anchor string, d time.Time) int {
	a, err := timezone.ParseDate(anchor)
	if err != nil {
		a, _ = timezone.ParseDate(biweeklyEpoch)
	}
	a = a.AddDate(0, 0, -int(a.Weekday()))
	d = d.AddDate(0, 0, -int(d.Weekday()))

	days := int(d.Sub(a).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days / 7
}

// CancellationCovers reports whether an approved cancellation blocks
// the template on date. The covered range is the closed interval
// [cancel_date, cancel_end_date], a single day when the end is unset.
func CancellationCovers(c *models.ScheduleCancellation, date string) bool {
	if c.Status != models.CancellationApproved {
		return false
	}
	end := c.CancelDate
	if c.CancelEndDate != nil && *c.CancelEndDate != "" {
		end = *c.CancelEndDate
	}
	return c.CancelDate <= date && date <= end
}

// Cancelled reports whether any approved cancellation in the list
// covers the template on date.
func Cancelled(cancellations []models.ScheduleCancellation, date string) bool {
	for i := range cancellations {
		if CancellationCovers(&cancellations[i], date) {
			return true
		}
	}
	return false
}
