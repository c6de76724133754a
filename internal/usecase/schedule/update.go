package schedule

import (
	"context"

	"github.com/BruksfildServices01/hospital-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/hospital-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/hospital-scheduler/internal/httperr"
	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
)

type UpdateScheduleInput struct {
	ScheduleID uint

	StartTime       *string
	EndTime         *string
	SlotDurationMin *int
	MaxPatients     *int
	Status          *string
	Recurrence      *string
	ValidFrom       *string
	ValidUntil      *string

	CallerID uint
}

type UpdateSchedule struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateSchedule(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateSchedule {
	return &UpdateSchedule{repo: repo, audit: audit}
}

func (uc *UpdateSchedule) Execute(
	ctx context.Context,
	in UpdateScheduleInput,
) (*models.DoctorSchedule, error) {

	var updated *models.DoctorSchedule
	var before models.DoctorSchedule

	err := uc.repo.InTx(ctx, func(tx domain.Repository) error {

		s, err := tx.GetSchedule(ctx, in.ScheduleID)
		if err != nil {
			return httperr.E(httperr.KindNotFound, "schedule_not_found")
		}
		before = *s

		applyPatch(s, in)

		if err := validateTemplate(CreateScheduleInput{
			DayOfWeek:       s.DayOfWeek,
			StartTime:       s.StartTime,
			EndTime:         s.EndTime,
			SlotDurationMin: s.SlotDurationMin,
			MaxPatients:     s.MaxPatients,
			Recurrence:      s.Recurrence,
			ValidFrom:       s.ValidFrom,
			ValidUntil:      s.ValidUntil,
		}); err != nil {
			return err
		}

		if s.Status == models.ScheduleActive {
			existing, err := tx.ListActiveSchedulesForUpdate(
				ctx, s.DoctorID, s.BranchID, s.DayOfWeek,
			)
			if err != nil {
				return err
			}
			for i := range existing {
				if existing[i].ID == s.ID {
					continue
				}
				if domain.Overlaps(s.StartTime, s.EndTime, existing[i].StartTime, existing[i].EndTime) {
					return httperr.E(httperr.KindOverlap, "schedule_overlap")
				}
			}
		}

		if err := tx.UpdateSchedule(ctx, s); err != nil {
			return err
		}

		updated = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BranchID: updated.BranchID,
		UserID:   &in.CallerID,
		Action:   "schedule_updated",
		Entity:   "doctor_schedule",
		EntityID: &updated.ID,
		Old:      before,
		New:      updated,
	})

	return updated, nil
}

func applyPatch(s *models.DoctorSchedule, in UpdateScheduleInput) {
	if in.StartTime != nil {
		s.StartTime = *in.StartTime
	}
	if in.EndTime != nil {
		s.EndTime = *in.EndTime
	}
	if in.SlotDurationMin != nil {
		s.SlotDurationMin = *in.SlotDurationMin
	}
	if in.MaxPatients != nil {
		s.MaxPatients = *in.MaxPatients
	}
	if in.Status != nil {
		s.Status = *in.Status
	}
	if in.Recurrence != nil {
		s.Recurrence = *in.Recurrence
	}
	if in.ValidFrom != nil {
		s.ValidFrom = in.ValidFrom
	}
	if in.ValidUntil != nil {
		s.ValidUntil = in.ValidUntil
	}
}
