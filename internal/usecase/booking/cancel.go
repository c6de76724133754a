package booking

import (
	"context"

	"github.com/BruksfildServices01/hospital-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/hospital-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-scheduler/internal/httperr"
	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
	"github.com/BruksfildServices01/hospital-scheduler/internal/timezone"
)

type CancelAppointmentInput struct {
	AppointmentID uint
	CallerID      uint
	Reason        string
}

type CancelAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: audit,
	}
}

// Execute cancels an appointment. Idempotent: cancelling an
// already-cancelled appointment returns it unchanged. The row is read
// FOR UPDATE inside the transaction so the transition check never runs
// against a stale status.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	in CancelAppointmentInput,
) (*models.Appointment, error) {

	var result *models.Appointment
	var before models.Appointment
	alreadyCancelled := false

	err := uc.repo.InTx(ctx, func(tx domain.Repository) error {

		ap, err := tx.GetAppointmentForUpdate(ctx, in.AppointmentID)
		if err != nil {
			return httperr.E(httperr.KindNotFound, "appointment_not_found")
		}

		if ap.Status == string(domain.StatusCancelled) {
			result = ap
			alreadyCancelled = true
			return nil
		}

		before = *ap

		if err := domain.Cancel(ap, timezone.Now(), in.CallerID, in.Reason); err != nil {
			return err
		}

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		result = ap
		return nil
	})
	if err != nil {
		return nil, err
	}
	if alreadyCancelled {
		return result, nil
	}

	uc.audit.Dispatch(audit.Event{
		BranchID: result.BranchID,
		UserID:   &in.CallerID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &result.ID,
		Old:      before,
		New:      result,
	})

	return result, nil
}
