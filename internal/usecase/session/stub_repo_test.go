package session

import (
	"context"
	"fmt"

	domain "github.com/BruksfildServices01/hospital-scheduler/internal/domain/session"
	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
)

type stubRepo struct {
	sessions  map[uint]*models.ScheduleSession
	schedules map[uint]*models.DoctorSchedule
	users     map[uint]*models.User
	patients  map[uint]*models.Patient

	staff   []models.SessionStaff
	queues  map[uint]*models.SessionQueue
	intakes map[string]*models.SessionIntake

	appointments map[uint]*models.Appointment

	nextID  uint
	deleted []uint
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		sessions:     map[uint]*models.ScheduleSession{},
		schedules:    map[uint]*models.DoctorSchedule{},
		users:        map[uint]*models.User{},
		patients:     map[uint]*models.Patient{},
		queues:       map[uint]*models.SessionQueue{},
		intakes:      map[string]*models.SessionIntake{},
		appointments: map[uint]*models.Appointment{},
		nextID:       100,
	}
}

func (s *stubRepo) id() uint {
	s.nextID++
	return s.nextID
}

func intakeKey(sessionID uint, slotIndex int, question string) string {
	return fmt.Sprintf("%d|%d|%s", sessionID, slotIndex, question)
}

var _ domain.Repository = (*stubRepo)(nil)

func (s *stubRepo) InTx(_ context.Context, fn func(domain.Repository) error) error {
	return fn(s)
}

func (s *stubRepo) GetSession(_ context.Context, id uint) (*models.ScheduleSession, error) {
	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	return nil, errNotFound
}

func (s *stubRepo) ListSessions(_ context.Context, f domain.SessionFilter) ([]models.ScheduleSession, error) {
	var out []models.ScheduleSession
	for _, sess := range s.sessions {
		if f.BranchID != 0 && sess.BranchID != f.BranchID {
			continue
		}
		if f.DoctorID != 0 && sess.DoctorID != f.DoctorID {
			continue
		}
		if f.Date != "" && sess.SessionDate != f.Date {
			continue
		}
		out = append(out, *sess)
	}
	return out, nil
}

func (s *stubRepo) CountAppointments(_ context.Context, sessionID uint) (int64, error) {
	var n int64
	for _, ap := range s.appointments {
		if ap.ScheduleSessionID != nil && *ap.ScheduleSessionID == sessionID {
			n++
		}
	}
	return n, nil
}

func (s *stubRepo) GetSchedule(_ context.Context, id uint) (*models.DoctorSchedule, error) {
	if sc, ok := s.schedules[id]; ok {
		return sc, nil
	}
	return nil, errNotFound
}

func (s *stubRepo) GetOrCreateSession(_ context.Context, sess *models.ScheduleSession) (*models.ScheduleSession, error) {
	for _, existing := range s.sessions {
		if existing.SessionKey == sess.SessionKey {
			return existing, nil
		}
	}
	sess.ID = s.id()
	s.sessions[sess.ID] = sess
	return sess, nil
}

func (s *stubRepo) DeleteSessionCascade(_ context.Context, sessionID uint) error {
	delete(s.sessions, sessionID)
	s.deleted = append(s.deleted, sessionID)
	return nil
}

func (s *stubRepo) GetUser(_ context.Context, id uint) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, errNotFound
}

func (s *stubRepo) ListNursesByBranch(_ context.Context, branchID uint) ([]models.User, error) {
	var out []models.User
	for _, u := range s.users {
		if u.Role == models.RoleNurse && u.BranchID != nil && *u.BranchID == branchID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *stubRepo) ListStaff(_ context.Context, sessionID uint) ([]models.SessionStaff, error) {
	var out []models.SessionStaff
	for _, st := range s.staff {
		if st.SessionID == sessionID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *stubRepo) ListStaffSessionsOnDate(_ context.Context, staffUserID uint, date string) ([]models.ScheduleSession, error) {
	var out []models.ScheduleSession
	for _, st := range s.staff {
		sess, ok := s.sessions[st.SessionID]
		if !ok || st.StaffUserID != staffUserID || sess.SessionDate != date {
			continue
		}
		out = append(out, *sess)
	}
	return out, nil
}

func (s *stubRepo) UpsertStaff(_ context.Context, st *models.SessionStaff) error {
	for _, existing := range s.staff {
		if existing.SessionID == st.SessionID &&
			existing.StaffUserID == st.StaffUserID &&
			existing.Role == st.Role {
			return nil
		}
	}
	st.ID = s.id()
	s.staff = append(s.staff, *st)
	return nil
}

func (s *stubRepo) IsStaff(_ context.Context, sessionID, userID uint) (bool, error) {
	for _, st := range s.staff {
		if st.SessionID == sessionID && st.StaffUserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubRepo) GetQueue(_ context.Context, sessionID uint) (*models.SessionQueue, error) {
	return s.queues[sessionID], nil
}

func (s *stubRepo) SaveQueue(_ context.Context, q *models.SessionQueue) error {
	if q.ID == 0 {
		q.ID = s.id()
	}
	s.queues[q.SessionID] = q
	return nil
}

func (s *stubRepo) GetIntake(_ context.Context, sessionID uint, slotIndex int, question string) (*models.SessionIntake, error) {
	return s.intakes[intakeKey(sessionID, slotIndex, question)], nil
}

func (s *stubRepo) UpsertIntake(_ context.Context, row *models.SessionIntake) error {
	key := intakeKey(row.SessionID, row.SlotIndex, row.Question)
	if existing, ok := s.intakes[key]; ok {
		row.ID = existing.ID
	} else {
		row.ID = s.id()
	}
	s.intakes[key] = row
	return nil
}

func (s *stubRepo) ListAppointmentsBySession(_ context.Context, sessionID uint) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range s.appointments {
		if ap.ScheduleSessionID != nil && *ap.ScheduleSessionID == sessionID {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (s *stubRepo) FindAppointmentAtSlot(_ context.Context, sessionID uint, queueNumber int) (*models.Appointment, error) {
	for _, ap := range s.appointments {
		if ap.ScheduleSessionID != nil && *ap.ScheduleSessionID == sessionID &&
			ap.QueueNumber != nil && *ap.QueueNumber == queueNumber &&
			ap.Status != "cancelled" {
			return ap, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	ap.ID = s.id()
	s.appointments[ap.ID] = ap
	return nil
}

func (s *stubRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	s.appointments[ap.ID] = ap
	return nil
}

func (s *stubRepo) GetPatient(_ context.Context, id uint) (*models.Patient, error) {
	if p, ok := s.patients[id]; ok {
		return p, nil
	}
	return nil, errNotFound
}

func (s *stubRepo) GetOrCreatePatient(_ context.Context, p *models.Patient) (*models.Patient, error) {
	if p.Phone != "" {
		for _, existing := range s.patients {
			if existing.Phone == p.Phone {
				return existing, nil
			}
		}
	}
	p.ID = s.id()
	s.patients[p.ID] = p
	return p, nil
}

type notFoundError struct{}

func (notFoundError) Error() string { return "record not found" }

var errNotFound = notFoundError{}
