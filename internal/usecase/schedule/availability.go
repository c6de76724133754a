package schedule

import (
	"context"

	domain "github.com/BruksfildServices01/hospital-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/hospital-scheduler/internal/httperr"
	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
	"github.com/BruksfildServices01/hospital-scheduler/internal/timezone"
)

type AvailabilityInput struct {
	DoctorID uint
	BranchID uint
	Date     string
}

// ScheduleAvailability is the per-template availability view: the full
// grid minus slots bound to non-cancelled appointments and slots under
// a live lock.
type ScheduleAvailability struct {
	ScheduleID      uint     `json:"schedule_id"`
	BranchID        uint     `json:"branch"`
	StartTime       string   `json:"start_time"`
	EndTime         string   `json:"end_time"`
	SlotDurationMin int      `json:"slot_duration_minutes"`
	TotalSlots      int      `json:"total_slots"`
	BookedSlots     int      `json:"booked_slots"`
	AvailableSlots  []string `json:"available_slots"`
}

type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) ([]ScheduleAvailability, error) {

	weekday := timezone.Weekday(in.Date)
	if weekday < 0 {
		return nil, httperr.E(httperr.KindInvalidInput, "invalid_date")
	}

	schedules, err := uc.repo.ListActiveSchedules(ctx, in.DoctorID, weekday, in.BranchID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(schedules))
	for _, s := range schedules {
		ids = append(ids, s.ID)
	}

	cancellations, err := uc.repo.ListApprovedCancellations(ctx, ids)
	if err != nil {
		return nil, err
	}
	cancelled := make(map[uint][]models.ScheduleCancellation)
	for _, c := range cancellations {
		cancelled[c.ScheduleID] = append(cancelled[c.ScheduleID], c)
	}

	bookedTimes, err := uc.repo.ListActiveAppointmentTimes(ctx, in.DoctorID, in.Date)
	if err != nil {
		return nil, err
	}
	lockedTimes, err := uc.repo.ListHeldLockTimes(ctx, in.DoctorID, in.Date, timezone.Now())
	if err != nil {
		return nil, err
	}

	booked := make(map[string]bool, len(bookedTimes))
	for _, t := range bookedTimes {
		booked[t] = true
	}
	locked := make(map[string]bool, len(lockedTimes))
	for _, t := range lockedTimes {
		locked[t] = true
	}

	result := []ScheduleAvailability{}

	for i := range schedules {
		s := schedules[i]
		if !domain.Applies(&s, in.Date) {
			continue
		}
		if domain.Cancelled(cancelled[s.ID], in.Date) {
			continue
		}

		grid := domain.Slots(s.StartTime, s.EndTime, s.SlotDurationMin, s.MaxPatients)

		available := []string{}
		bookedCount := 0
		for _, slot := range grid {
			if booked[slot] {
				bookedCount++
				continue
			}
			if locked[slot] {
				continue
			}
			available = append(available, slot)
		}

		result = append(result, ScheduleAvailability{
			ScheduleID:      s.ID,
			BranchID:        s.BranchID,
			StartTime:       s.StartTime,
			EndTime:         s.EndTime,
			SlotDurationMin: s.SlotDurationMin,
			TotalSlots:      len(grid),
			BookedSlots:     bookedCount,
			AvailableSlots:  available,
		})
	}

	return result, nil
}
