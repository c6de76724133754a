package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/hospital-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-scheduler/internal/httperr"
	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func (r *AppointmentGormRepository) InTx(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Referenced entities
// --------------------------------------------------

func (r *AppointmentGormRepository) GetDoctor(
	ctx context.Context,
	id uint,
) (*models.Doctor, error) {

	var doc models.Doctor
	if err := r.db.WithContext(ctx).
		Preload("Branches").
		First(&doc, id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *AppointmentGormRepository) GetPatient(
	ctx context.Context,
	id uint,
) (*models.Patient, error) {

	var p models.Patient
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *AppointmentGormRepository) GetBranch(
	ctx context.Context,
	id uint,
) (*models.Branch, error) {

	var b models.Branch
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// --------------------------------------------------
// Appointments
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

// GetAppointmentForUpdate locks the row for the rest of the
// transaction, so a concurrent status change serializes behind it.
func (r *AppointmentGormRepository) GetAppointmentForUpdate(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	if err := r.db.WithContext(ctx).Create(ap).Error; err != nil {
		if isUniqueViolation(err) {
			return httperr.E(httperr.KindSlotUnavailable, "slot_unavailable")
		}
		return err
	}
	return nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	if err := r.db.WithContext(ctx).Save(ap).Error; err != nil {
		if isUniqueViolation(err) {
			return httperr.E(httperr.KindSlotUnavailable, "slot_unavailable")
		}
		return err
	}
	return nil
}

// HasActiveAppointment locks the conflicting rows themselves: Postgres
// rejects FOR UPDATE on aggregate queries (SQLSTATE 0A000), so this
// must Find, never Count.
func (r *AppointmentGormRepository) HasActiveAppointment(
	ctx context.Context,
	doctorID uint,
	date string,
	timeHM string,
) (bool, error) {

	var conflicting []models.Appointment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"doctor_id = ? AND appointment_date = ? AND appointment_time = ? AND status <> ?",
			doctorID, date, timeHM, "cancelled",
		).
		Find(&conflicting).Error; err != nil {
		return false, err
	}

	return len(conflicting) > 0, nil
}

// --------------------------------------------------
// Templates
// --------------------------------------------------

func (r *AppointmentGormRepository) ListActiveSchedules(
	ctx context.Context,
	doctorID uint,
	weekday int,
	branchID uint,
) ([]models.DoctorSchedule, error) {

	q := r.db.WithContext(ctx).
		Where("doctor_id = ? AND day_of_week = ? AND status = ?",
			doctorID, weekday, models.ScheduleActive)

	if branchID != 0 {
		q = q.Where("branch_id = ?", branchID)
	}

	var schedules []models.DoctorSchedule
	if err := q.Order("start_time ASC").Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *AppointmentGormRepository) ListApprovedCancellations(
	ctx context.Context,
	scheduleIDs []uint,
) ([]models.ScheduleCancellation, error) {

	if len(scheduleIDs) == 0 {
		return nil, nil
	}

	var rows []models.ScheduleCancellation
	if err := r.db.WithContext(ctx).
		Where("schedule_id IN ? AND status = ?", scheduleIDs, models.CancellationApproved).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// --------------------------------------------------
// Sessions
// --------------------------------------------------

func (r *AppointmentGormRepository) GetOrCreateSession(
	ctx context.Context,
	sess *models.ScheduleSession,
) (*models.ScheduleSession, error) {
	return getOrCreateSession(ctx, r.db, sess)
}

// getOrCreateSession is the single materialization path, shared by the
// repositories: insert, and on a session_key collision return the row
// that won.
func getOrCreateSession(
	ctx context.Context,
	db *gorm.DB,
	sess *models.ScheduleSession,
) (*models.ScheduleSession, error) {

	var existing models.ScheduleSession
	err := db.WithContext(ctx).
		Where("session_key = ?", sess.SessionKey).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := db.WithContext(ctx).Create(sess).Error; err != nil {
		if isUniqueViolation(err) {
			if err := db.WithContext(ctx).
				Where("session_key = ?", sess.SessionKey).
				First(&existing).Error; err != nil {
				return nil, err
			}
			return &existing, nil
		}
		return nil, err
	}

	return sess, nil
}

// MaxQueueNumber scopes to the session when one exists; session-less
// walk-ins draw from their own (doctor, date) pool so the two
// numbering spaces never mix.
func (r *AppointmentGormRepository) MaxQueueNumber(
	ctx context.Context,
	sessionID *uint,
	doctorID uint,
	date string,
) (int, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("COALESCE(MAX(queue_number), 0)").
		Where("status <> ?", "cancelled")

	if sessionID != nil {
		q = q.Where("schedule_session_id = ?", *sessionID)
	} else {
		q = q.Where("doctor_id = ? AND appointment_date = ? AND schedule_session_id IS NULL",
			doctorID, date)
	}

	var max int
	if err := q.Scan(&max).Error; err != nil {
		return 0, err
	}
	return max, nil
}

// --------------------------------------------------
// Slot locks
// --------------------------------------------------

func (r *AppointmentGormRepository) GetSlotLockForUpdate(
	ctx context.Context,
	doctorID uint,
	date string,
	timeHM string,
) (*models.SlotLock, error) {

	var lock models.SlotLock
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("doctor_id = ? AND slot_date = ? AND slot_time = ?",
			doctorID, date, timeHM).
		First(&lock).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lock, nil
}

func (r *AppointmentGormRepository) CreateSlotLock(
	ctx context.Context,
	lock *models.SlotLock,
) error {
	if err := r.db.WithContext(ctx).Create(lock).Error; err != nil {
		if isUniqueViolation(err) {
			return httperr.E(httperr.KindSlotUnavailable, "slot_locked")
		}
		return err
	}
	return nil
}

func (r *AppointmentGormRepository) SaveSlotLock(
	ctx context.Context,
	lock *models.SlotLock,
) error {
	return r.db.WithContext(ctx).Save(lock).Error
}

func (r *AppointmentGormRepository) DeleteSlotLock(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).Delete(&models.SlotLock{}, id).Error
}

func (r *AppointmentGormRepository) DeleteExpiredSlotLocks(
	ctx context.Context,
	now time.Time,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Where("expires_at <= ? AND appointment_id IS NULL", now).
		Delete(&models.SlotLock{})
	return res.RowsAffected, res.Error
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
