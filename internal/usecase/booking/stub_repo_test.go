package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/hospital-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
)

// stubRepo is an in-memory Repository. InTx simply runs fn against the
// stub itself; transactional semantics are the database's job, the
// usecases only care about ordering.
type stubRepo struct {
	patients map[uint]*models.Patient
	doctors  map[uint]*models.Doctor
	branches map[uint]*models.Branch

	schedules     []models.DoctorSchedule
	cancellations []models.ScheduleCancellation

	appointments map[uint]*models.Appointment
	sessions     map[string]*models.ScheduleSession
	locks        map[string]*models.SlotLock

	nextID uint

	savedLocks  int
	updates     int
	lockedReads int
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		patients:     map[uint]*models.Patient{1: {ID: 1, Name: "Ana"}},
		doctors:      map[uint]*models.Doctor{5: {ID: 5, Name: "Dr. Silva"}},
		branches:     map[uint]*models.Branch{2: {ID: 2, Name: "Centro"}},
		appointments: map[uint]*models.Appointment{},
		sessions:     map[string]*models.ScheduleSession{},
		locks:        map[string]*models.SlotLock{},
		nextID:       100,
	}
}

func (s *stubRepo) id() uint {
	s.nextID++
	return s.nextID
}

func lockKey(doctorID uint, date, t string) string {
	return date + "|" + t
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

func (s *stubRepo) GetPatient(_ context.Context, id uint) (*models.Patient, error) {
	if p, ok := s.patients[id]; ok {
		return p, nil
	}
	return nil, errNotFound
}

func (s *stubRepo) GetBranch(_ context.Context, id uint) (*models.Branch, error) {
	if b, ok := s.branches[id]; ok {
		return b, nil
	}
	return nil, errNotFound
}

func (s *stubRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	if ap, ok := s.appointments[id]; ok {
		cp := *ap
		return &cp, nil
	}
	return nil, errNotFound
}

func (s *stubRepo) GetAppointmentForUpdate(ctx context.Context, id uint) (*models.Appointment, error) {
	s.lockedReads++
	return s.GetAppointment(ctx, id)
}

func (s *stubRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	ap.ID = s.id()
	s.appointments[ap.ID] = ap
	return nil
}

func (s *stubRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	s.updates++
	s.appointments[ap.ID] = ap
	return nil
}

func (s *stubRepo) HasActiveAppointment(_ context.Context, doctorID uint, date, timeHM string) (bool, error) {
	for _, ap := range s.appointments {
		if ap.DoctorID == doctorID &&
			ap.AppointmentDate == date &&
			ap.AppointmentTime == timeHM &&
			ap.Status != string(domain.StatusCancelled) {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubRepo) ListActiveSchedules(_ context.Context, doctorID uint, weekday int, branchID uint) ([]models.DoctorSchedule, error) {
	var out []models.DoctorSchedule
	for _, sc := range s.schedules {
		if sc.DoctorID != doctorID || sc.DayOfWeek != weekday {
			continue
		}
		if branchID != 0 && sc.BranchID != branchID {
			continue
		}
		out = append(out, sc)
	}
	return out, nil
}

func (s *stubRepo) ListApprovedCancellations(_ context.Context, scheduleIDs []uint) ([]models.ScheduleCancellation, error) {
	ids := map[uint]bool{}
	for _, id := range scheduleIDs {
		ids[id] = true
	}
	var out []models.ScheduleCancellation
	for _, c := range s.cancellations {
		if ids[c.ScheduleID] && c.Status == models.CancellationApproved {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubRepo) GetOrCreateSession(_ context.Context, sess *models.ScheduleSession) (*models.ScheduleSession, error) {
	if existing, ok := s.sessions[sess.SessionKey]; ok {
		return existing, nil
	}
	sess.ID = s.id()
	s.sessions[sess.SessionKey] = sess
	return sess, nil
}

func (s *stubRepo) MaxQueueNumber(_ context.Context, sessionID *uint, doctorID uint, date string) (int, error) {
	max := 0
	for _, ap := range s.appointments {
		if ap.Status == string(domain.StatusCancelled) || ap.QueueNumber == nil {
			continue
		}
		if sessionID != nil {
			if ap.ScheduleSessionID == nil || *ap.ScheduleSessionID != *sessionID {
				continue
			}
		} else if ap.DoctorID != doctorID || ap.AppointmentDate != date || ap.ScheduleSessionID != nil {
			continue
		}
		if *ap.QueueNumber > max {
			max = *ap.QueueNumber
		}
	}
	return max, nil
}

func (s *stubRepo) GetSlotLockForUpdate(_ context.Context, doctorID uint, date, timeHM string) (*models.SlotLock, error) {
	if l, ok := s.locks[lockKey(doctorID, date, timeHM)]; ok {
		return l, nil
	}
	return nil, nil
}

func (s *stubRepo) CreateSlotLock(_ context.Context, lock *models.SlotLock) error {
	lock.ID = s.id()
	s.locks[lockKey(lock.DoctorID, lock.SlotDate, lock.SlotTime)] = lock
	return nil
}

func (s *stubRepo) SaveSlotLock(_ context.Context, lock *models.SlotLock) error {
	s.savedLocks++
	s.locks[lockKey(lock.DoctorID, lock.SlotDate, lock.SlotTime)] = lock
	return nil
}

func (s *stubRepo) DeleteSlotLock(_ context.Context, id uint) error {
	for k, l := range s.locks {
		if l.ID == id {
			delete(s.locks, k)
		}
	}
	return nil
}

func (s *stubRepo) DeleteExpiredSlotLocks(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for k, l := range s.locks {
		if l.AppointmentID == nil && !now.Before(l.ExpiresAt) {
			delete(s.locks, k)
			n++
		}
	}
	return n, nil
}

type notFoundError struct{}

func (notFoundError) Error() string { return "record not found" }

var errNotFound = notFoundError{}
