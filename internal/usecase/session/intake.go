package session

import (
	"context"
	"time"

	"github.com/BruksfildServices01/hospital-scheduler/internal/domain/schedule"
	domain "github.com/BruksfildServices01/hospital-scheduler/internal/domain/session"
	"github.com/BruksfildServices01/hospital-scheduler/internal/httperr"
	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
	"github.com/BruksfildServices01/hospital-scheduler/internal/timezone"
)

type UpsertIntakeInput struct {
	SessionID uint
	SlotIndex int
	Question  string

	AnswerText string
	PatientID  *uint

	Sex      string
	Age      *int
	HeightCm *float64
	WeightKg *float64
	Notes    string

	// Optimistic-concurrency token: when set, the stored row's
	// updated_at must match or the write is rejected as stale.
	ExpectedUpdatedAt *time.Time

	CallerID     uint
	CallerRole   string
	CallerBranch *uint
}

type UpsertIntake struct {
	repo domain.Repository
}

func NewUpsertIntake(repo domain.Repository) *UpsertIntake {
	return &UpsertIntake{repo: repo}
}

// Execute stores one answer for one slot. The (session, slot, question)
// key updates in place; the patient back-pointer records whoever holds
// the slot now and is never rewritten retroactively.
func (uc *UpsertIntake) Execute(
	ctx context.Context,
	in UpsertIntakeInput,
) (*models.SessionIntake, error) {

	if in.Question == "" {
		return nil, httperr.E(httperr.KindInvalidInput, "missing_question")
	}

	var saved *models.SessionIntake

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
		if in.SlotIndex < 1 || in.SlotIndex > total {
			return httperr.E(httperr.KindInvalidInput, "slot_out_of_range")
		}

		existing, err := tx.GetIntake(ctx, sess.ID, in.SlotIndex, in.Question)
		if err != nil {
			return err
		}
		if in.ExpectedUpdatedAt != nil && existing != nil &&
			!existing.UpdatedAt.Equal(*in.ExpectedUpdatedAt) {
			return httperr.E(httperr.KindConflict, "stale_intake")
		}

		callerID := in.CallerID
		row := &models.SessionIntake{
			SessionID:  sess.ID,
			SlotIndex:  in.SlotIndex,
			Question:   in.Question,
			AnswerText: in.AnswerText,
			PatientID:  in.PatientID,
			Sex:        in.Sex,
			Age:        in.Age,
			HeightCm:   in.HeightCm,
			WeightKg:   in.WeightKg,
			Notes:      in.Notes,
			UpdatedBy:  &callerID,
			UpdatedAt:  timezone.Now(),
		}

		if err := tx.UpsertIntake(ctx, row); err != nil {
			return err
		}

		saved = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	return saved, nil
}
