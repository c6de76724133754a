package session

import (
	"context"

	"github.com/BruksfildServices01/hospital-scheduler/internal/domain/schedule"
	domain "github.com/BruksfildServices01/hospital-scheduler/internal/domain/session"
	"github.com/BruksfildServices01/hospital-scheduler/internal/httperr"
	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
	"github.com/BruksfildServices01/hospital-scheduler/internal/queue"
	"github.com/BruksfildServices01/hospital-scheduler/internal/timezone"
)

type PatchQueueInput struct {
	SessionID uint

	CurrentDoctorSlot *int
	CurrentNurseSlot  *int
	Status            *string

	CallerID     uint
	CallerRole   string
	CallerBranch *uint
}

type PatchQueue struct {
	repo      domain.Repository
	broadcast *queue.Broadcaster
}

func NewPatchQueue(
	repo domain.Repository,
	broadcast *queue.Broadcaster,
) *PatchQueue {
	return &PatchQueue{repo: repo, broadcast: broadcast}
}

// Execute advances the live queue pointers. Slot values range from 0
// ("not started") to the session's total slot count. Last committed
// write wins; the broadcast is fire-and-forget on top of the row.
func (uc *PatchQueue) Execute(
	ctx context.Context,
	in PatchQueueInput,
) (*models.SessionQueue, error) {

	var saved *models.SessionQueue

	err := uc.repo.InTx(ctx, func(tx domain.Repository) error {

		sess, err := tx.GetSession(ctx, in.SessionID)
		if err != nil {
			return httperr.E(httperr.KindNotFound, "session_not_found")
		}

		ok, err := hasSessionAccess(ctx, tx, sess, in.CallerID, in.CallerRole, in.CallerBranch)
		if err != nil {
			return err
		}
		if !ok {
			return httperr.E(httperr.KindForbidden, "no_session_access")
		}

		total := schedule.TotalSlots(sess.StartTime, sess.EndTime, sess.SlotDurationMin, sess.MaxPatients)

		for _, v := range []*int{in.CurrentDoctorSlot, in.CurrentNurseSlot} {
			if v != nil && (*v < 0 || *v > total) {
				return httperr.E(httperr.KindInvalidInput, "slot_out_of_range")
			}
		}

		if in.Status != nil {
			switch *in.Status {
			case models.QueueActive, models.QueuePaused, models.QueueClosed:
			default:
				return httperr.E(httperr.KindInvalidInput, "invalid_queue_status")
			}
		}

		q, err := tx.GetQueue(ctx, sess.ID)
		if err != nil {
			return err
		}
		if q == nil {
			q = &models.SessionQueue{
				SessionID: sess.ID,
				Status:    models.QueueActive,
			}
		}

		if in.CurrentDoctorSlot != nil {
			q.CurrentDoctorSlot = *in.CurrentDoctorSlot
		}
		if in.CurrentNurseSlot != nil {
			q.CurrentNurseSlot = *in.CurrentNurseSlot
		}
		if in.Status != nil {
			q.Status = *in.Status
		}

		callerID := in.CallerID
		q.UpdatedBy = &callerID
		q.UpdatedAt = timezone.Now()

		if err := tx.SaveQueue(ctx, q); err != nil {
			return err
		}

		saved = q
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.broadcast.Publish(ctx, saved)

	return saved, nil
}

// hasSessionAccess: admins of the branch, the session's doctor, or
// staff assigned to the session.
func hasSessionAccess(
	ctx context.Context,
	repo domain.Repository,
	sess *models.ScheduleSession,
	callerID uint,
	callerRole string,
	callerBranch *uint,
) (bool, error) {

	if canManageBranch(callerRole, callerBranch, sess.BranchID) {
		return true, nil
	}

	if callerRole == models.RoleDoctor &&
		sess.Doctor.UserID != nil && *sess.Doctor.UserID == callerID {
		return true, nil
	}

	return repo.IsStaff(ctx, sess.ID, callerID)
}
