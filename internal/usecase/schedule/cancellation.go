package schedule

import (
	"context"

	"github.com/BruksfildServices01/hospital-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/hospital-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/hospital-scheduler/internal/httperr"
	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
	"github.com/BruksfildServices01/hospital-scheduler/internal/timezone"
)

type RequestCancellationInput struct {
	ScheduleID    uint
	CancelDate    string
	CancelEndDate *string
	Reason        string
	CallerID      uint
}

type RequestCancellation struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewRequestCancellation(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *RequestCancellation {
	return &RequestCancellation{repo: repo, audit: audit}
}

func (uc *RequestCancellation) Execute(
	ctx context.Context,
	in RequestCancellationInput,
) (*models.ScheduleCancellation, error) {

	if _, err := timezone.ParseDate(in.CancelDate); err != nil {
		return nil, httperr.E(httperr.KindInvalidInput, "invalid_cancel_date")
	}
	if in.CancelEndDate != nil {
		if _, err := timezone.ParseDate(*in.CancelEndDate); err != nil {
			return nil, httperr.E(httperr.KindInvalidInput, "invalid_cancel_end_date")
		}
		if *in.CancelEndDate < in.CancelDate {
			return nil, httperr.E(httperr.KindInvalidInput, "invalid_cancel_range")
		}
	}

	s, err := uc.repo.GetSchedule(ctx, in.ScheduleID)
	if err != nil {
		return nil, httperr.E(httperr.KindNotFound, "schedule_not_found")
	}

	callerID := in.CallerID
	c := &models.ScheduleCancellation{
		ScheduleID:    s.ID,
		DoctorID:      s.DoctorID,
		CancelDate:    in.CancelDate,
		CancelEndDate: in.CancelEndDate,
		Reason:        in.Reason,
		Status:        models.CancellationPending,
		RequestedBy:   &callerID,
	}

	if err := uc.repo.CreateCancellation(ctx, c); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BranchID: s.BranchID,
		UserID:   &callerID,
		Action:   "cancellation_requested",
		Entity:   "schedule_cancellation",
		EntityID: &c.ID,
		New:      c,
	})

	return c, nil
}

// ======================================================
// APPROVE / REJECT
// ======================================================

type DecideCancellation struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDecideCancellation(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DecideCancellation {
	return &DecideCancellation{repo: repo, audit: audit}
}

// Execute approves or rejects a pending cancellation. Only approved
// cancellations ever affect availability. The row is read FOR UPDATE
// inside the transaction so a second decision sees the first.
func (uc *DecideCancellation) Execute(
	ctx context.Context,
	cancellationID uint,
	approve bool,
	callerID uint,
) (*models.ScheduleCancellation, error) {

	var decided *models.ScheduleCancellation
	var before models.ScheduleCancellation

	err := uc.repo.InTx(ctx, func(tx domain.Repository) error {

		c, err := tx.GetCancellationForUpdate(ctx, cancellationID)
		if err != nil {
			return httperr.E(httperr.KindNotFound, "cancellation_not_found")
		}

		if c.Status != models.CancellationPending {
			return httperr.E(httperr.KindInvalidTransition, "cancellation_already_decided")
		}

		before = *c

		if approve {
			c.Status = models.CancellationApproved
		} else {
			c.Status = models.CancellationRejected
		}
		c.DecidedBy = &callerID

		if err := tx.UpdateCancellation(ctx, c); err != nil {
			return err
		}

		decided = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s, err := uc.repo.GetSchedule(ctx, decided.ScheduleID)
	branchID := uint(0)
	if err == nil {
		branchID = s.BranchID
	}

	uc.audit.Dispatch(audit.Event{
		BranchID: branchID,
		UserID:   &callerID,
		Action:   "cancellation_" + decided.Status,
		Entity:   "schedule_cancellation",
		EntityID: &decided.ID,
		Old:      before,
		New:      decided,
	})

	return decided, nil
}
