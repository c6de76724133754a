package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/hospital-scheduler/internal/httperr"
	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusCancelled},
		{StatusConfirmed, StatusInProgress},
		{StatusConfirmed, StatusCancelled},
		{StatusConfirmed, StatusNoShow},
		{StatusInProgress, StatusCompleted},
		{StatusInProgress, StatusCancelled},
	}
	for _, tt := range allowed {
		assert.NoError(t, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}

	denied := []struct{ from, to Status }{
		{StatusPending, StatusInProgress},
		{StatusPending, StatusCompleted},
		{StatusPending, StatusNoShow},
		{StatusConfirmed, StatusCompleted},
		{StatusCompleted, StatusInProgress},
		{StatusCancelled, StatusConfirmed},
		{StatusNoShow, StatusConfirmed},
		{StatusCompleted, StatusCancelled},
	}
	for _, tt := range denied {
		err := CanTransition(tt.from, tt.to)
		require.Error(t, err, "%s -> %s", tt.from, tt.to)
		assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition))
	}
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus(StatusNoShow))
	assert.False(t, IsValidStatus(Status("unknown")))
	assert.False(t, IsValidStatus(Status("")))
}

func TestCanReschedule(t *testing.T) {
	assert.True(t, CanReschedule(StatusPending))
	assert.True(t, CanReschedule(StatusConfirmed))
	assert.False(t, CanReschedule(StatusInProgress))
	assert.False(t, CanReschedule(StatusCompleted))
	assert.False(t, CanReschedule(StatusCancelled))
}

func TestTransitionStampsTimestamps(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	ap := &models.Appointment{Status: string(StatusConfirmed)}
	require.NoError(t, Transition(ap, StatusInProgress, now, 7, ""))
	assert.Equal(t, string(StatusInProgress), ap.Status)
	require.NotNil(t, ap.CheckInTime)
	require.NotNil(t, ap.ConsultationStart)
	assert.Equal(t, now, *ap.ConsultationStart)

	later := now.Add(20 * time.Minute)
	require.NoError(t, Transition(ap, StatusCompleted, later, 7, ""))
	require.NotNil(t, ap.ConsultationEnd)
	assert.Equal(t, later, *ap.ConsultationEnd)
}

func TestTransitionCancelledStampsActor(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	ap := &models.Appointment{Status: string(StatusPending)}
	require.NoError(t, Transition(ap, StatusCancelled, now, 12, "patient request"))

	require.NotNil(t, ap.CancelledAt)
	require.NotNil(t, ap.CancelledBy)
	assert.Equal(t, uint(12), *ap.CancelledBy)
	assert.Equal(t, "patient request", ap.CancellationReason)
}

func TestCancelIdempotent(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	ap := &models.Appointment{Status: string(StatusConfirmed)}
	require.NoError(t, Cancel(ap, now, 3, "first"))
	firstAt := *ap.CancelledAt

	require.NoError(t, Cancel(ap, now.Add(time.Hour), 9, "second"))
	assert.Equal(t, firstAt, *ap.CancelledAt, "second cancel must not restamp")
	assert.Equal(t, uint(3), *ap.CancelledBy)
	assert.Equal(t, "first", ap.CancellationReason)
}
