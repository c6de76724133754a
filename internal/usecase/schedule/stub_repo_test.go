package schedule

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/hospital-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
)

type stubRepo struct {
	doctors       map[uint]*models.Doctor
	schedules     map[uint]*models.DoctorSchedule
	cancellations map[uint]*models.ScheduleCancellation

	bookedTimes []string
	lockedTimes []string

	nextID      uint
	deleted     []uint
	lockedReads int
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		doctors:       map[uint]*models.Doctor{5: {ID: 5, Name: "Dr. Silva"}},
		schedules:     map[uint]*models.DoctorSchedule{},
		cancellations: map[uint]*models.ScheduleCancellation{},
		nextID:        100,
	}
}

func (s *stubRepo) id() uint {
	s.nextID++
	return s.nextID
}

var _ domain.Repository = (*stubRepo)(nil)

func (s *stubRepo) InTx(_ context.Context, fn func(domain.Repository) error) error {
	return fn(s)
}

func (s *stubRepo) GetDoctor(_ context.Context, id uint) (*models.Doctor, error) {
	if d, ok := s.doctors[id]; ok {
		return d, nil
	}
	return nil, errNotFound
}

func (s *stubRepo) GetSchedule(_ context.Context, id uint) (*models.DoctorSchedule, error) {
	if sc, ok := s.schedules[id]; ok {
		cp := *sc
		return &cp, nil
	}
	return nil, errNotFound
}

func (s *stubRepo) ListSchedules(_ context.Context, f domain.ScheduleFilter) ([]models.DoctorSchedule, error) {
	var out []models.DoctorSchedule
	for _, sc := range s.schedules {
		if f.DoctorID != 0 && sc.DoctorID != f.DoctorID {
			continue
		}
		if f.BranchID != 0 && sc.BranchID != f.BranchID {
			continue
		}
		if f.Status != "" && sc.Status != f.Status {
			continue
		}
		out = append(out, *sc)
	}
	return out, nil
}

func (s *stubRepo) listActive(doctorID, branchID uint, weekday int) []models.DoctorSchedule {
	var out []models.DoctorSchedule
	for _, sc := range s.schedules {
		if sc.DoctorID != doctorID || sc.DayOfWeek != weekday {
			continue
		}
		if branchID != 0 && sc.BranchID != branchID {
			continue
		}
		if sc.Status != models.ScheduleActive {
			continue
		}
		out = append(out, *sc)
	}
	return out
}

func (s *stubRepo) ListActiveSchedulesForUpdate(_ context.Context, doctorID, branchID uint, weekday int) ([]models.DoctorSchedule, error) {
	return s.listActive(doctorID, branchID, weekday), nil
}

func (s *stubRepo) ListActiveSchedules(_ context.Context, doctorID uint, weekday int, branchID uint) ([]models.DoctorSchedule, error) {
	return s.listActive(doctorID, branchID, weekday), nil
}

func (s *stubRepo) CreateSchedule(_ context.Context, sc *models.DoctorSchedule) error {
	sc.ID = s.id()
	s.schedules[sc.ID] = sc
	return nil
}

func (s *stubRepo) UpdateSchedule(_ context.Context, sc *models.DoctorSchedule) error {
	s.schedules[sc.ID] = sc
	return nil
}

func (s *stubRepo) DeleteScheduleCascade(_ context.Context, scheduleID uint) error {
	delete(s.schedules, scheduleID)
	s.deleted = append(s.deleted, scheduleID)
	return nil
}

func (s *stubRepo) CreateCancellation(_ context.Context, c *models.ScheduleCancellation) error {
	c.ID = s.id()
	s.cancellations[c.ID] = c
	return nil
}

func (s *stubRepo) GetCancellation(_ context.Context, id uint) (*models.ScheduleCancellation, error) {
	if c, ok := s.cancellations[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, errNotFound
}

func (s *stubRepo) GetCancellationForUpdate(ctx context.Context, id uint) (*models.ScheduleCancellation, error) {
	s.lockedReads++
	return s.GetCancellation(ctx, id)
}

func (s *stubRepo) UpdateCancellation(_ context.Context, c *models.ScheduleCancellation) error {
	s.cancellations[c.ID] = c
	return nil
}

func (s *stubRepo) ListApprovedCancellations(_ context.Context, scheduleIDs []uint) ([]models.ScheduleCancellation, error) {
	ids := map[uint]bool{}
	for _, id := range scheduleIDs {
		ids[id] = true
	}
	var out []models.ScheduleCancellation
	for _, c := range s.cancellations {
		if ids[c.ScheduleID] && c.Status == models.CancellationApproved {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *stubRepo) ListActiveAppointmentTimes(_ context.Context, _ uint, _ string) ([]string, error) {
	return s.bookedTimes, nil
}

func (s *stubRepo) ListHeldLockTimes(_ context.Context, _ uint, _ string, _ time.Time) ([]string, error) {
	return s.lockedTimes, nil
}

type notFoundError struct{}

func (notFoundError) Error() string { return "record not found" }

var errNotFound = notFoundError{}
