package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
)

func strptr(s string) *string { return &s }

func weeklyMonday() *models.DoctorSchedule {
	return &models.DoctorSchedule{
		DayOfWeek:  1,
		StartTime:  "08:00",
		EndTime:    "12:00",
		Status:     models.ScheduleActive,
		Recurrence: models.RecurrenceWeekly,
	}
}

func TestAppliesWeekly(t *testing.T) {
	s := weeklyMonday()

	// 2025-01-06 is a Monday
	assert.True(t, Applies(s, "2025-01-06"))
	assert.True(t, Applies(s, "2025-01-13"))
	assert.False(t, Applies(s, "2025-01-07"), "wrong weekday")

	s.Status = models.ScheduleInactive
	assert.False(t, Applies(s, "2025-01-06"))
}

func TestAppliesValidityWindow(t *testing.T) {
	s := weeklyMonday()
	s.ValidFrom = strptr("2025-01-10")
	s.ValidUntil = strptr("2025-01-31")

	assert.False(t, Applies(s, "2025-01-06"), "before valid_from")
	assert.True(t, Applies(s, "2025-01-13"))
	assert.True(t, Applies(s, "2025-01-27"))
	assert.False(t, Applies(s, "2025-02-03"), "after valid_until")
}

func TestAppliesBiweekly(t *testing.T) {
	s := weeklyMonday()
	s.Recurrence = models.RecurrenceBiweekly
	s.ValidFrom = strptr("2025-01-06")

	assert.True(t, Applies(s, "2025-01-06"), "anchor week")
	assert.False(t, Applies(s, "2025-01-13"), "odd week")
	assert.True(t, Applies(s, "2025-01-20"))
	assert.False(t, Applies(s, "2025-01-27"))
}

func TestAppliesBiweeklyEpochAnchor(t *testing.T) {
	// no valid_from: parity counts from the fixed epoch week
	s := &models.DoctorSchedule{
		DayOfWeek:  0,
		Status:     models.ScheduleActive,
		Recurrence: models.RecurrenceBiweekly,
	}

	// epoch 2024-01-07 is a Sunday
	assert.True(t, Applies(s, "2024-01-07"))
	assert.False(t, Applies(s, "2024-01-14"))
	assert.True(t, Applies(s, "2024-01-21"))
}

func TestAppliesOnce(t *testing.T) {
	s := weeklyMonday()
	s.Recurrence = models.RecurrenceOnce
	s.ValidFrom = strptr("2025-01-06")

	assert.True(t, Applies(s, "2025-01-06"))
	assert.False(t, Applies(s, "2025-01-13"), "once never recurs")

	s.ValidFrom = nil
	assert.False(t, Applies(s, "2025-01-06"), "once without valid_from never applies")
}

func TestAppliesInvalidDate(t *testing.T) {
	assert.False(t, Applies(weeklyMonday(), "06/01/2025"))
}

func TestCancellationCovers(t *testing.T) {
	single := &models.ScheduleCancellation{
		Status:     models.CancellationApproved,
		CancelDate: "2025-03-10",
	}
	assert.True(t, CancellationCovers(single, "2025-03-10"))
	assert.False(t, CancellationCovers(single, "2025-03-11"))

	ranged := &models.ScheduleCancellation{
		Status:        models.CancellationApproved,
		CancelDate:    "2025-03-10",
		CancelEndDate: strptr("2025-03-14"),
	}
	assert.True(t, CancellationCovers(ranged, "2025-03-10"))
	assert.True(t, CancellationCovers(ranged, "2025-03-12"))
	assert.True(t, CancellationCovers(ranged, "2025-03-14"), "range end is inclusive")
	assert.False(t, CancellationCovers(ranged, "2025-03-15"))

	pending := &models.ScheduleCancellation{
		Status:     models.CancellationPending,
		CancelDate: "2025-03-10",
	}
	assert.False(t, CancellationCovers(pending, "2025-03-10"), "only approved rows block")
}

func TestCancelled(t *testing.T) {
	list := []models.ScheduleCancellation{
		{Status: models.CancellationRejected, CancelDate: "2025-03-10"},
		{Status: models.CancellationApproved, CancelDate: "2025-03-12"},
	}
	assert.False(t, Cancelled(list, "2025-03-10"))
	assert.True(t, Cancelled(list, "2025-03-12"))
	assert.False(t, Cancelled(nil, "2025-03-12"))
}
