package schedule

import (
	"context"

	"github.com/BruksfildServices01/hospital-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/hospital-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/hospital-scheduler/internal/httperr"
)

type DeleteSchedule struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteSchedule(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteSchedule {
	return &DeleteSchedule{repo: repo, audit: audit}
}

// Execute is the destructive schedule-retraction flow: the template
// and every session, appointment, staff, queue and intake row derived
// from it are removed in one transaction. Not a cancellation.
func (uc *DeleteSchedule) Execute(
	ctx context.Context,
	scheduleID uint,
	callerID uint,
) error {

	s, err := uc.repo.GetSchedule(ctx, scheduleID)
	if err != nil {
		return httperr.E(httperr.KindNotFound, "schedule_not_found")
	}

	if err := uc.repo.DeleteScheduleCascade(ctx, scheduleID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		BranchID: s.BranchID,
		UserID:   &callerID,
		Action:   "schedule_deleted",
		Entity:   "doctor_schedule",
		EntityID: &scheduleID,
		Old:      s,
	})

	return nil
}
