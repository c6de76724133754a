package schedule

import (
	"context"

	"github.com/BruksfildServices01/hospital-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/hospital-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/hospital-scheduler/internal/httperr"
	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
	"github.com/BruksfildServices01/hospital-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateScheduleInput struct {
	DoctorID uint
	BranchID uint

	DayOfWeek int
	StartTime string
	EndTime   string

	SlotDurationMin int
	MaxPatients     int
	Recurrence      string

	ValidFrom  *string
	ValidUntil *string

	CallerID uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateSchedule struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateSchedule(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateSchedule {
	return &CreateSchedule{repo: repo, audit: audit}
}

func (uc *CreateSchedule) Execute(
	ctx context.Context,
	in CreateScheduleInput,
) (*models.DoctorSchedule, error) {

	if err := validateTemplate(in); err != nil {
		return nil, err
	}

	doctor, err := uc.repo.GetDoctor(ctx, in.DoctorID)
	if err != nil {
		return nil, httperr.E(httperr.KindNotFound, "doctor_not_found")
	}
	if !doctor.AllowedIn(in.BranchID) {
		return nil, httperr.E(httperr.KindInvalidInput, "doctor_not_in_branch")
	}

	var created *models.DoctorSchedule

	err = uc.repo.InTx(ctx, func(tx domain.Repository) error {

		existing, err := tx.ListActiveSchedulesForUpdate(
			ctx, in.DoctorID, in.BranchID, in.DayOfWeek,
		)
		if err != nil {
			return err
		}

		for i := range existing {
			if domain.Overlaps(in.StartTime, in.EndTime, existing[i].StartTime, existing[i].EndTime) {
				return httperr.E(httperr.KindOverlap, "schedule_overlap")
			}
		}

		s := &models.DoctorSchedule{
			DoctorID:        in.DoctorID,
			BranchID:        in.BranchID,
			DayOfWeek:       in.DayOfWeek,
			StartTime:       in.StartTime,
			EndTime:         in.EndTime,
			SlotDurationMin: in.SlotDurationMin,
			MaxPatients:     in.MaxPatients,
			Status:          models.ScheduleActive,
			Recurrence:      in.Recurrence,
			ValidFrom:       in.ValidFrom,
			ValidUntil:      in.ValidUntil,
		}

		if err := tx.CreateSchedule(ctx, s); err != nil {
			return err
		}

		created = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BranchID: created.BranchID,
		UserID:   &in.CallerID,
		Action:   "schedule_created",
		Entity:   "doctor_schedule",
		EntityID: &created.ID,
		New:      created,
	})

	return created, nil
}

func validateTemplate(in CreateScheduleInput) error {
	if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
		return httperr.E(httperr.KindInvalidInput, "invalid_day_of_week")
	}

	start, err := timezone.ParseHM(in.StartTime)
	if err != nil {
		return httperr.E(httperr.KindInvalidInput, "invalid_start_time")
	}
	end, err := timezone.ParseHM(in.EndTime)
	if err != nil {
		return httperr.E(httperr.KindInvalidInput, "invalid_end_time")
	}
	if end <= start {
		return httperr.E(httperr.KindInvalidInput, "invalid_time_range")
	}

	if in.SlotDurationMin < 5 {
		return httperr.E(httperr.KindInvalidInput, "invalid_slot_duration")
	}
	if in.MaxPatients < 1 {
		return httperr.E(httperr.KindInvalidInput, "invalid_max_patients")
	}

	switch in.Recurrence {
	case models.RecurrenceWeekly, models.RecurrenceBiweekly, models.RecurrenceOnce:
	default:
		return httperr.E(httperr.KindInvalidInput, "invalid_recurrence")
	}

	if in.Recurrence == models.RecurrenceOnce && in.ValidFrom == nil {
		return httperr.E(httperr.KindInvalidInput, "once_requires_valid_from")
	}

	for _, d := range []*string{in.ValidFrom, in.ValidUntil} {
		if d != nil {
			if _, err := timezone.ParseDate(*d); err != nil {
				return httperr.E(httperr.KindInvalidInput, "invalid_validity_date")
			}
		}
	}
	if in.ValidFrom != nil && in.ValidUntil != nil && *in.ValidUntil < *in.ValidFrom {
		return httperr.E(httperr.KindInvalidInput, "invalid_validity_range")
	}

	return nil
}
