package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/hospital-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/hospital-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/hospital-scheduler/internal/httperr"
	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
	"github.com/BruksfildServices01/hospital-scheduler/internal/slotlock"
	"github.com/BruksfildServices01/hospital-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type BookAppointmentInput struct {
	PatientID uint
	DoctorID  uint
	BranchID  uint

	Date string
	Time string

	Reason     string
	Department string
	IsWalkIn   bool

	CallerID uint
}

// ======================================================
// USE CASE
// ======================================================

type BookAppointment struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	lockTTL time.Duration
}

func NewBookAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	lockTTL time.Duration,
) *BookAppointment {
	return &BookAppointment{
		repo:    repo,
		audit:   audit,
		lockTTL: lockTTL,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute runs the whole slot-lock booking protocol in one
// transaction: acquire the lock, re-check the slot, materialize the
// session, insert the appointment, consume the lock. Any failure rolls
// the whole thing back.
func (uc *BookAppointment) Execute(
	ctx context.Context,
	in BookAppointmentInput,
) (*models.Appointment, error) {

	if _, err := timezone.ParseDateTime(in.Date, in.Time); err != nil {
		return nil, httperr.E(httperr.KindInvalidInput, "invalid_date_or_time")
	}

	var created *models.Appointment

	err := uc.repo.InTx(ctx, func(tx domain.Repository) error {

		patient, err := tx.GetPatient(ctx, in.PatientID)
		if err != nil {
			return httperr.E(httperr.KindNotFound, "patient_not_found")
		}

		doctor, err := tx.GetDoctor(ctx, in.DoctorID)
		if err != nil {
			return httperr.E(httperr.KindNotFound, "doctor_not_found")
		}

		if _, err := tx.GetBranch(ctx, in.BranchID); err != nil {
			return httperr.E(httperr.KindNotFound, "branch_not_found")
		}

		sched, slotIdx, err := resolveSlot(
			ctx, tx, doctor.ID, in.BranchID, in.Date, in.Time, in.IsWalkIn,
		)
		if err != nil {
			return err
		}
		if sched == nil && !in.IsWalkIn {
			return httperr.E(httperr.KindInvalidInput, "no_applicable_schedule")
		}

		locks := slotlock.New(tx)
		lock, err := locks.Acquire(ctx, slotlock.AcquireInput{
			DoctorID:   doctor.ID,
			ScheduleID: scheduleIDOf(sched),
			Date:       in.Date,
			Time:       in.Time,
			HolderID:   in.CallerID,
			TTL:        uc.lockTTL,
		})
		if err != nil {
			return err
		}

		taken, err := tx.HasActiveAppointment(ctx, doctor.ID, in.Date, in.Time)
		if err != nil {
			return err
		}
		if taken {
			return httperr.E(httperr.KindSlotUnavailable, "slot_unavailable")
		}

		var sessionID *uint
		queueNo := slotIdx

		if sched != nil {
			sess, err := tx.GetOrCreateSession(ctx, sessionFromSchedule(sched, in.Date))
			if err != nil {
				return err
			}
			sessionID = &sess.ID
		}

		if queueNo == 0 {
			max, err := tx.MaxQueueNumber(ctx, sessionID, doctor.ID, in.Date)
			if err != nil {
				return err
			}
			queueNo = max + 1

			// off-grid walk-ins queue after the last slot of the grid,
			// never inside it
			if sched != nil {
				total := schedule.TotalSlots(
					sched.StartTime, sched.EndTime, sched.SlotDurationMin, sched.MaxPatients,
				)
				if queueNo <= total {
					queueNo = total + 1
				}
			}
		}

		callerID := in.CallerID
		ap := &models.Appointment{
			PatientID:         patient.ID,
			DoctorID:          doctor.ID,
			BranchID:          in.BranchID,
			ScheduleID:        scheduleIDOf(sched),
			ScheduleSessionID: sessionID,
			AppointmentDate:   in.Date,
			AppointmentTime:   in.Time,
			Status:            string(domain.StatusConfirmed),
			Reason:            in.Reason,
			Department:        in.Department,
			QueueNumber:       &queueNo,
			IsWalkIn:          in.IsWalkIn,
			BookedBy:          &callerID,
		}

		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		if err := locks.Consume(ctx, lock, ap.ID); err != nil {
			return err
		}

		created = ap
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BranchID: created.BranchID,
		UserID:   &in.CallerID,
		Action:   "appointment_booked",
		Entity:   "appointment",
		EntityID: &created.ID,
		New:      created,
	})

	return created, nil
}

func scheduleIDOf(s *models.DoctorSchedule) *uint {
	if s == nil {
		return nil
	}
	id := s.ID
	return &id
}
