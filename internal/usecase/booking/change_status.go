package booking

import (
	"context"

	"github.com/BruksfildServices01/hospital-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/hospital-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-scheduler/internal/httperr"
	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
	"github.com/BruksfildServices01/hospital-scheduler/internal/timezone"
)

type ChangeStatusInput struct {
	AppointmentID uint
	NewStatus     string
	CallerID      uint
	Reason        string
}

type ChangeStatus struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewChangeStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *ChangeStatus {
	return &ChangeStatus{
		repo:  repo,
		audit: audit,
	}
}

// Execute applies a state-machine transition. The row is read FOR
// UPDATE inside the transaction so two concurrent transitions
// serialize instead of overwriting each other.
func (uc *ChangeStatus) Execute(
	ctx context.Context,
	in ChangeStatusInput,
) (*models.Appointment, error) {

	to := domain.Status(in.NewStatus)
	if !domain.IsValidStatus(to) {
		return nil, httperr.E(httperr.KindInvalidInput, "invalid_status")
	}

	var updated *models.Appointment
	var before models.Appointment

	err := uc.repo.InTx(ctx, func(tx domain.Repository) error {

		ap, err := tx.GetAppointmentForUpdate(ctx, in.AppointmentID)
		if err != nil {
			return httperr.E(httperr.KindNotFound, "appointment_not_found")
		}

		before = *ap

		if err := domain.Transition(ap, to, timezone.Now(), in.CallerID, in.Reason); err != nil {
			return err
		}

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		updated = ap
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BranchID: updated.BranchID,
		UserID:   &in.CallerID,
		Action:   "appointment_status_changed",
		Entity:   "appointment",
		EntityID: &updated.ID,
		Old:      before,
		New:      updated,
	})

	return updated, nil
}
