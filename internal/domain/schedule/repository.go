package schedule

import (
	"context"
	"time"

	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
)

type ScheduleFilter struct {
	DoctorID uint
	BranchID uint
	Status   string
}

// Repository backs template management and availability reads.
type Repository interface {
	InTx(ctx context.Context, fn func(Repository) error) error

	GetDoctor(ctx context.Context, id uint) (*models.Doctor, error)

	// -------- Templates --------
	GetSchedule(ctx context.Context, id uint) (*models.DoctorSchedule, error)
	ListSchedules(ctx context.Context, f ScheduleFilter) ([]models.DoctorSchedule, error)

	// ListActiveSchedulesForUpdate locks the active templates on
	// (doctor, branch, weekday) so concurrent creates serialize.
	ListActiveSchedulesForUpdate(ctx context.Context, doctorID, branchID uint, weekday int) ([]models.DoctorSchedule, error)
	ListActiveSchedules(ctx context.Context, doctorID uint, weekday int, branchID uint) ([]models.DoctorSchedule, error)

	CreateSchedule(ctx context.Context, s *models.DoctorSchedule) error
	UpdateSchedule(ctx context.Context, s *models.DoctorSchedule) error

	// DeleteScheduleCascade removes the template, its cancellations,
	// its sessions and everything hanging off those sessions.
	DeleteScheduleCascade(ctx context.Context, scheduleID uint) error

	// -------- Cancellations --------
	CreateCancellation(ctx context.Context, c *models.ScheduleCancellation) error
	GetCancellation(ctx context.Context, id uint) (*models.ScheduleCancellation, error)

	// GetCancellationForUpdate locks the row so two concurrent
	// decisions serialize.
	GetCancellationForUpdate(ctx context.Context, id uint) (*models.ScheduleCancellation, error)
	UpdateCancellation(ctx context.Context, c *models.ScheduleCancellation) error
	ListApprovedCancellations(ctx context.Context, scheduleIDs []uint) ([]models.ScheduleCancellation, error)

	// -------- Availability reads --------
	ListActiveAppointmentTimes(ctx context.Context, doctorID uint, date string) ([]string, error)
	ListHeldLockTimes(ctx context.Context, doctorID uint, date string, now time.Time) ([]string, error)
}
