package booking

import (
	"context"

	domain "github.com/BruksfildServices01/hospital-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
	"github.com/BruksfildServices01/hospital-scheduler/internal/timezone"
)

// resolveSlot finds the template instantiating on (doctor, date) whose
// slot grid contains t, returning it with the 1-based slot index. For
// walk-ins a second pass accepts any applicable template whose window
// merely contains t (index 0, off-grid). Returns (nil, 0, nil) when no
// template applies.
func resolveSlot(
	ctx context.Context,
	repo domain.Repository,
	doctorID uint,
	branchID uint,
	date string,
	t string,
	walkIn bool,
) (*models.DoctorSchedule, int, error) {

	weekday := timezone.Weekday(date)
	if weekday < 0 {
		return nil, 0, nil
	}

	schedules, err := repo.ListActiveSchedules(ctx, doctorID, weekday, branchID)
	if err != nil {
		return nil, 0, err
	}
	if len(schedules) == 0 {
		return nil, 0, nil
	}

	ids := make([]uint, 0, len(schedules))
	for _, s := range schedules {
		ids = append(ids, s.ID)
	}

	cancellations, err := repo.ListApprovedCancellations(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	bySchedule := make(map[uint][]models.ScheduleCancellation)
	for _, c := range cancellations {
		bySchedule[c.ScheduleID] = append(bySchedule[c.ScheduleID], c)
	}

	applicable := schedules[:0]
	for i := range schedules {
		s := schedules[i]
		if !schedule.Applies(&s, date) {
			continue
		}
		if schedule.Cancelled(bySchedule[s.ID], date) {
			continue
		}
		applicable = append(applicable, s)
	}

	for i := range applicable {
		s := &applicable[i]
		if idx := schedule.SlotIndex(s.StartTime, s.EndTime, s.SlotDurationMin, s.MaxPatients, t); idx > 0 {
			return s, idx, nil
		}
	}

	if walkIn {
		for i := range applicable {
			s := &applicable[i]
			if s.StartTime <= t && t < s.EndTime {
				return s, 0, nil
			}
		}
	}

	return nil, 0, nil
}

// sessionFromSchedule builds the session row a booking materializes,
// carrying the template's geometry so the session stays meaningful if
// the template later changes.
func sessionFromSchedule(s *models.DoctorSchedule, date string) *models.ScheduleSession {
	scheduleID := s.ID
	return &models.ScheduleSession{
		ScheduleID:      &scheduleID,
		DoctorID:        s.DoctorID,
		BranchID:        s.BranchID,
		SessionDate:     date,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		SlotDurationMin: s.SlotDurationMin,
		MaxPatients:     s.MaxPatients,
		Status:          models.SessionActive,
		SessionKey:      schedule.SessionKey(s.DoctorID, date, s.StartTime),
	}
}
