package session

import (
	"context"

	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
)

type SessionFilter struct {
	BranchID uint
	DoctorID uint
	Date     string
}

// Repository backs session lifecycle, staffing, the live queue and
// intake storage.
type Repository interface {
	InTx(ctx context.Context, fn func(Repository) error) error

	// -------- Sessions --------
	GetSession(ctx context.Context, id uint) (*models.ScheduleSession, error)
	ListSessions(ctx context.Context, f SessionFilter) ([]models.ScheduleSession, error)
	CountAppointments(ctx context.Context, sessionID uint) (int64, error)
	GetSchedule(ctx context.Context, id uint) (*models.DoctorSchedule, error)
	GetOrCreateSession(ctx context.Context, sess *models.ScheduleSession) (*models.ScheduleSession, error)
	DeleteSessionCascade(ctx context.Context, sessionID uint) error

	// -------- Staff --------
	GetUser(ctx context.Context, id uint) (*models.User, error)
	ListNursesByBranch(ctx context.Context, branchID uint) ([]models.User, error)
	ListStaff(ctx context.Context, sessionID uint) ([]models.SessionStaff, error)
	ListStaffSessionsOnDate(ctx context.Context, staffUserID uint, date string) ([]models.ScheduleSession, error)
	UpsertStaff(ctx context.Context, st *models.SessionStaff) error
	IsStaff(ctx context.Context, sessionID, userID uint) (bool, error)

	// -------- Queue --------
	GetQueue(ctx context.Context, sessionID uint) (*models.SessionQueue, error)
	SaveQueue(ctx context.Context, q *models.SessionQueue) error

	// -------- Intake --------
	GetIntake(ctx context.Context, sessionID uint, slotIndex int, question string) (*models.SessionIntake, error)
	UpsertIntake(ctx context.Context, row *models.SessionIntake) error

	// -------- Slot board --------
	ListAppointmentsBySession(ctx context.Context, sessionID uint) ([]models.Appointment, error)
	FindAppointmentAtSlot(ctx context.Context, sessionID uint, queueNumber int) (*models.Appointment, error)
	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error
	GetPatient(ctx context.Context, id uint) (*models.Patient, error)
	GetOrCreatePatient(ctx context.Context, p *models.Patient) (*models.Patient, error)
}
