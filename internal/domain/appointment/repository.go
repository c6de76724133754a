package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
)

// Repository is everything the booking engine needs from the store.
// InTx runs fn against a transaction-scoped copy; every mutating
// booking operation goes through it so a failure rolls back the lock,
// the session and the appointment together.
type Repository interface {
	InTx(ctx context.Context, fn func(Repository) error) error

	// -------- Referenced entities --------
	GetDoctor(ctx context.Context, id uint) (*models.Doctor, error)
	GetPatient(ctx context.Context, id uint) (*models.Patient, error)
	GetBranch(ctx context.Context, id uint) (*models.Branch, error)

	// -------- Appointments --------
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)

	// GetAppointmentForUpdate locks the row until the surrounding
	// transaction ends. Status changes must read through it.
	GetAppointmentForUpdate(ctx context.Context, id uint) (*models.Appointment, error)

	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error

	// HasActiveAppointment locks the non-cancelled rows on the exact
	// (doctor, date, time) key and reports whether any exist.
	HasActiveAppointment(ctx context.Context, doctorID uint, date, timeHM string) (bool, error)

	// -------- Templates (recurrence inputs) --------
	ListActiveSchedules(ctx context.Context, doctorID uint, weekday int, branchID uint) ([]models.DoctorSchedule, error)
	ListApprovedCancellations(ctx context.Context, scheduleIDs []uint) ([]models.ScheduleCancellation, error)

	// -------- Sessions --------
	GetOrCreateSession(ctx context.Context, sess *models.ScheduleSession) (*models.ScheduleSession, error)

	// MaxQueueNumber is the highest number already issued within the
	// session, or within the session-less (doctor, date) walk-in pool
	// when sessionID is nil.
	MaxQueueNumber(ctx context.Context, sessionID *uint, doctorID uint, date string) (int, error)

	// -------- Slot locks (slotlock.Store) --------
	GetSlotLockForUpdate(ctx context.Context, doctorID uint, date, timeHM string) (*models.SlotLock, error)
	CreateSlotLock(ctx context.Context, lock *models.SlotLock) error
	SaveSlotLock(ctx context.Context, lock *models.SlotLock) error
	DeleteSlotLock(ctx context.Context, id uint) error
	DeleteExpiredSlotLocks(ctx context.Context, now time.Time) (int64, error)
}
