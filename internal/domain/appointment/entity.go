package appointment

import (
	"time"

	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition moves an appointment along the state machine, stamping
// the timestamps each target state requires.
func Transition(ap *models.Appointment, to Status, now time.Time, actorID uint, reason string) error {
	if err := CanTransition(Status(ap.Status), to); err != nil {
		return err
	}

	ap.Status = string(to)

	switch to {
	case StatusInProgress:
		ap.CheckInTime = &now
		ap.ConsultationStart = &now
	case StatusCompleted:
		ap.ConsultationEnd = &now
	case StatusCancelled:
		ap.CancelledAt = &now
		ap.CancelledBy = &actorID
		ap.CancellationReason = reason
	}

	return nil
}

// Cancel is Transition to cancelled, idempotent on already-cancelled
// appointments.
func Cancel(ap *models.Appointment, now time.Time, actorID uint, reason string) error {
	if ap.Status == string(StatusCancelled) {
		return nil
	}
	return Transition(ap, StatusCancelled, now, actorID, reason)
}
