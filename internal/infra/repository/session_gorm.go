package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/hospital-scheduler/internal/domain/session"
	"github.com/BruksfildServices01/hospital-scheduler/internal/httperr"
	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
)

type SessionGormRepository struct {
	db *gorm.DB
}

func NewSessionGormRepository(db *gorm.DB) *SessionGormRepository {
	return &SessionGormRepository{db: db}
}

func (r *SessionGormRepository) InTx(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&SessionGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Sessions
// --------------------------------------------------

func (r *SessionGormRepository) GetSession(
	ctx context.Context,
	id uint,
) (*models.ScheduleSession, error) {

	var sess models.ScheduleSession
	if err := r.db.WithContext(ctx).
		Preload("Doctor").
		First(&sess, id).Error; err != nil {
		return nil, err
	}
	return &sess, nil
}

func (r *SessionGormRepository) ListSessions(
	ctx context.Context,
	f domain.SessionFilter,
) ([]models.ScheduleSession, error) {

	q := r.db.WithContext(ctx).Model(&models.ScheduleSession{}).Preload("Doctor")
	if f.BranchID != 0 {
		q = q.Where("branch_id = ?", f.BranchID)
	}
	if f.DoctorID != 0 {
		q = q.Where("doctor_id = ?", f.DoctorID)
	}
	if f.Date != "" {
		q = q.Where("session_date = ?", f.Date)
	}

	var sessions []models.ScheduleSession
	if err := q.Order("session_date ASC, start_time ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *SessionGormRepository) CountAppointments(
	ctx context.Context,
	sessionID uint,
) (int64, error) {

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("schedule_session_id = ? AND status <> ?", sessionID, "cancelled").
		Count(&count).Error
	return count, err
}

func (r *SessionGormRepository) GetSchedule(
	ctx context.Context,
	id uint,
) (*models.DoctorSchedule, error) {

	var s models.DoctorSchedule
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionGormRepository) GetOrCreateSession(
	ctx context.Context,
	sess *models.ScheduleSession,
) (*models.ScheduleSession, error) {
	return getOrCreateSession(ctx, r.db, sess)
}

func (r *SessionGormRepository) DeleteSessionCascade(
	ctx context.Context,
	sessionID uint,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteSessionDependents(tx, []uint{sessionID}); err != nil {
			return err
		}
		return tx.Delete(&models.ScheduleSession{}, sessionID).Error
	})
}

// --------------------------------------------------
// Staff
// --------------------------------------------------

func (r *SessionGormRepository) GetUser(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *SessionGormRepository) ListNursesByBranch(
	ctx context.Context,
	branchID uint,
) ([]models.User, error) {

	var nurses []models.User
	if err := r.db.WithContext(ctx).
		Where("role = ? AND branch_id = ?", models.RoleNurse, branchID).
		Order("name ASC").
		Find(&nurses).Error; err != nil {
		return nil, err
	}
	return nurses, nil
}

func (r *SessionGormRepository) ListStaff(
	ctx context.Context,
	sessionID uint,
) ([]models.SessionStaff, error) {

	var staff []models.SessionStaff
	if err := r.db.WithContext(ctx).
		Preload("StaffUser").
		Where("session_id = ?", sessionID).
		Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *SessionGormRepository) ListStaffSessionsOnDate(
	ctx context.Context,
	staffUserID uint,
	date string,
) ([]models.ScheduleSession, error) {

	var sessions []models.ScheduleSession
	if err := r.db.WithContext(ctx).
		Joins("JOIN session_staffs ON session_staffs.session_id = schedule_sessions.id").
		Where("session_staffs.staff_user_id = ? AND schedule_sessions.session_date = ? AND schedule_sessions.status = ?",
			staffUserID, date, models.SessionActive).
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// UpsertStaff inserts the assignment; the (session, staff, role)
// unique index makes re-runs no-ops.
func (r *SessionGormRepository) UpsertStaff(
	ctx context.Context,
	st *models.SessionStaff,
) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "session_id"}, {Name: "staff_user_id"}, {Name: "role"},
			},
			DoNothing: true,
		}).
		Create(st).Error
}

func (r *SessionGormRepository) IsStaff(
	ctx context.Context,
	sessionID uint,
	userID uint,
) (bool, error) {

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SessionStaff{}).
		Where("session_id = ? AND staff_user_id = ?", sessionID, userID).
		Count(&count).Error
	return count > 0, err
}

// --------------------------------------------------
// Queue
// --------------------------------------------------

func (r *SessionGormRepository) GetQueue(
	ctx context.Context,
	sessionID uint,
) (*models.SessionQueue, error) {

	var q models.SessionQueue
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&q).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *SessionGormRepository) SaveQueue(
	ctx context.Context,
	q *models.SessionQueue,
) error {
	if err := r.db.WithContext(ctx).Save(q).Error; err != nil {
		if isUniqueViolation(err) {
			return httperr.E(httperr.KindConflict, "queue_conflict")
		}
		return err
	}
	return nil
}

// --------------------------------------------------
// Intake
// --------------------------------------------------

func (r *SessionGormRepository) GetIntake(
	ctx context.Context,
	sessionID uint,
	slotIndex int,
	question string,
) (*models.SessionIntake, error) {

	var row models.SessionIntake
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND slot_index = ? AND question = ?",
			sessionID, slotIndex, question).
		First(&row).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *SessionGormRepository) UpsertIntake(
	ctx context.Context,
	row *models.SessionIntake,
) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "session_id"}, {Name: "slot_index"}, {Name: "question"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"answer_text", "patient_id", "sex", "age",
				"height_cm", "weight_kg", "notes",
				"updated_by", "updated_at",
			}),
		}).
		Create(row).Error
}

// --------------------------------------------------
// Slot board
// --------------------------------------------------

func (r *SessionGormRepository) ListAppointmentsBySession(
	ctx context.Context,
	sessionID uint,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Patient").
		Where("schedule_session_id = ?", sessionID).
		Order("queue_number ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *SessionGormRepository) FindAppointmentAtSlot(
	ctx context.Context,
	sessionID uint,
	queueNumber int,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("schedule_session_id = ? AND queue_number = ? AND status <> ?",
			sessionID, queueNumber, "cancelled").
		First(&ap).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *SessionGormRepository) CreateAppointment(
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

func (r *SessionGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *SessionGormRepository) GetPatient(
	ctx context.Context,
	id uint,
) (*models.Patient, error) {

	var p models.Patient
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SessionGormRepository) GetOrCreatePatient(
	ctx context.Context,
	p *models.Patient,
) (*models.Patient, error) {

	if p.Phone != "" {
		var existing models.Patient
		err := r.db.WithContext(ctx).
			Where("phone = ?", p.Phone).
			First(&existing).Error
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// Compile-time check
var _ domain.Repository = (*SessionGormRepository)(nil)
