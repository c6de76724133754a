package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/hospital-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

func (r *ScheduleGormRepository) InTx(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ScheduleGormRepository{db: tx})
	})
}

func (r *ScheduleGormRepository) GetDoctor(
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

// --------------------------------------------------
// Templates
// --------------------------------------------------

func (r *ScheduleGormRepository) GetSchedule(
	ctx context.Context,
	id uint,
) (*models.DoctorSchedule, error) {

	var s models.DoctorSchedule
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ScheduleGormRepository) ListSchedules(
	ctx context.Context,
	f domain.ScheduleFilter,
) ([]models.DoctorSchedule, error) {

	q := r.db.WithContext(ctx).Model(&models.DoctorSchedule{})
	if f.DoctorID != 0 {
		q = q.Where("doctor_id = ?", f.DoctorID)
	}
	if f.BranchID != 0 {
		q = q.Where("branch_id = ?", f.BranchID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var schedules []models.DoctorSchedule
	if err := q.Order("day_of_week ASC, start_time ASC").
		Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *ScheduleGormRepository) ListActiveSchedulesForUpdate(
	ctx context.Context,
	doctorID uint,
	branchID uint,
	weekday int,
) ([]models.DoctorSchedule, error) {

	var schedules []models.DoctorSchedule
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("doctor_id = ? AND branch_id = ? AND day_of_week = ? AND status = ?",
			doctorID, branchID, weekday, models.ScheduleActive).
		Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *ScheduleGormRepository) ListActiveSchedules(
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

func (r *ScheduleGormRepository) CreateSchedule(
	ctx context.Context,
	s *models.DoctorSchedule,
) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ScheduleGormRepository) UpdateSchedule(
	ctx context.Context,
	s *models.DoctorSchedule,
) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// DeleteScheduleCascade is the destructive schedule-retraction path:
// the template, its cancellations, its materialized sessions and every
// row hanging off those sessions go in one transaction.
func (r *ScheduleGormRepository) DeleteScheduleCascade(
	ctx context.Context,
	scheduleID uint,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var sessionIDs []uint
		if err := tx.Model(&models.ScheduleSession{}).
			Where("schedule_id = ?", scheduleID).
			Pluck("id", &sessionIDs).Error; err != nil {
			return err
		}

		if len(sessionIDs) > 0 {
			if err := deleteSessionDependents(tx, sessionIDs); err != nil {
				return err
			}
			if err := tx.Where("id IN ?", sessionIDs).
				Delete(&models.ScheduleSession{}).Error; err != nil {
				return err
			}
		}

		// Appointments booked against the template outside any session.
		if err := tx.Where("schedule_id = ?", scheduleID).
			Delete(&models.Appointment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("schedule_id = ?", scheduleID).
			Delete(&models.SlotLock{}).Error; err != nil {
			return err
		}

		if err := tx.Where("schedule_id = ?", scheduleID).
			Delete(&models.ScheduleCancellation{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.DoctorSchedule{}, scheduleID).Error
	})
}

// deleteSessionDependents removes staff, queue, intake and appointment
// rows for the given sessions.
func deleteSessionDependents(tx *gorm.DB, sessionIDs []uint) error {
	if err := tx.Where("session_id IN ?", sessionIDs).
		Delete(&models.SessionIntake{}).Error; err != nil {
		return err
	}
	if err := tx.Where("session_id IN ?", sessionIDs).
		Delete(&models.SessionQueue{}).Error; err != nil {
		return err
	}
	if err := tx.Where("session_id IN ?", sessionIDs).
		Delete(&models.SessionStaff{}).Error; err != nil {
		return err
	}
	return tx.Where("schedule_session_id IN ?", sessionIDs).
		Delete(&models.Appointment{}).Error
}

// --------------------------------------------------
// Cancellations
// --------------------------------------------------

func (r *ScheduleGormRepository) CreateCancellation(
	ctx context.Context,
	c *models.ScheduleCancellation,
) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ScheduleGormRepository) GetCancellation(
	ctx context.Context,
	id uint,
) (*models.ScheduleCancellation, error) {

	var c models.ScheduleCancellation
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ScheduleGormRepository) GetCancellationForUpdate(
	ctx context.Context,
	id uint,
) (*models.ScheduleCancellation, error) {

	var c models.ScheduleCancellation
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ScheduleGormRepository) UpdateCancellation(
	ctx context.Context,
	c *models.ScheduleCancellation,
) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *ScheduleGormRepository) ListApprovedCancellations(
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
// Availability reads
// --------------------------------------------------

func (r *ScheduleGormRepository) ListActiveAppointmentTimes(
	ctx context.Context,
	doctorID uint,
	date string,
) ([]string, error) {

	var times []string
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ? AND status <> ?",
			doctorID, date, "cancelled").
		Pluck("appointment_time", &times).Error; err != nil {
		return nil, err
	}
	return times, nil
}

func (r *ScheduleGormRepository) ListHeldLockTimes(
	ctx context.Context,
	doctorID uint,
	date string,
	now time.Time,
) ([]string, error) {

	var times []string
	if err := r.db.WithContext(ctx).
		Model(&models.SlotLock{}).
		Where("doctor_id = ? AND slot_date = ? AND expires_at > ? AND appointment_id IS NULL",
			doctorID, date, now).
		Pluck("slot_time", &times).Error; err != nil {
		return nil, err
	}
	return times, nil
}

// Compile-time check
var _ domain.Repository = (*ScheduleGormRepository)(nil)
