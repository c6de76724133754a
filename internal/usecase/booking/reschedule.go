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

type RescheduleAppointmentInput struct {
	AppointmentID uint

	NewDate string
	NewTime string

	CallerID uint
}

type RescheduleAppointment struct {
	repo       domain.Repository
	audit      *audit.Dispatcher
	lockTTL    time.Duration
	limit      int
	minAdvance time.Duration

	now func() time.Time
}

func NewRescheduleAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	lockTTL time.Duration,
	limit int,
	minAdvance time.Duration,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:       repo,
		audit:      audit,
		lockTTL:    lockTTL,
		limit:      limit,
		minAdvance: minAdvance,
		now:        timezone.Now,
	}
}

// Execute moves an appointment to a new slot through the same
// lock-check-materialize protocol as booking. The old slot frees
// implicitly: its lock was consumed by this appointment and the
// appointment row no longer sits on the old (doctor, date, time) key.
func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleAppointmentInput,
) (*models.Appointment, error) {

	newStart, err := timezone.ParseDateTime(in.NewDate, in.NewTime)
	if err != nil {
		return nil, httperr.E(httperr.KindInvalidInput, "invalid_date_or_time")
	}

	if newStart.Before(uc.now().Add(uc.minAdvance)) {
		return nil, httperr.E(httperr.KindInvalidInput, "too_soon_to_reschedule")
	}

	var updated *models.Appointment
	var before models.Appointment

	err = uc.repo.InTx(ctx, func(tx domain.Repository) error {

		ap, err := tx.GetAppointmentForUpdate(ctx, in.AppointmentID)
		if err != nil {
			return httperr.E(httperr.KindNotFound, "appointment_not_found")
		}
		before = *ap

		if !domain.CanReschedule(domain.Status(ap.Status)) {
			return httperr.E(httperr.KindInvalidTransition, "not_reschedulable")
		}
		if ap.RescheduleCount >= uc.limit {
			return httperr.E(httperr.KindInvalidInput, "reschedule_limit_reached")
		}

		sched, slotIdx, err := resolveSlot(
			ctx, tx, ap.DoctorID, ap.BranchID, in.NewDate, in.NewTime, ap.IsWalkIn,
		)
		if err != nil {
			return err
		}
		if sched == nil && !ap.IsWalkIn {
			return httperr.E(httperr.KindInvalidInput, "no_applicable_schedule")
		}

		locks := slotlock.New(tx)
		lock, err := locks.Acquire(ctx, slotlock.AcquireInput{
			DoctorID:   ap.DoctorID,
			ScheduleID: scheduleIDOf(sched),
			Date:       in.NewDate,
			Time:       in.NewTime,
			HolderID:   in.CallerID,
			TTL:        uc.lockTTL,
		})
		if err != nil {
			return err
		}

		taken, err := tx.HasActiveAppointment(ctx, ap.DoctorID, in.NewDate, in.NewTime)
		if err != nil {
			return err
		}
		if taken {
			return httperr.E(httperr.KindSlotUnavailable, "slot_unavailable")
		}

		var sessionID *uint
		queueNo := slotIdx

		if sched != nil {
			sess, err := tx.GetOrCreateSession(ctx, sessionFromSchedule(sched, in.NewDate))
			if err != nil {
				return err
			}
			sessionID = &sess.ID
		}

		if queueNo == 0 {
			max, err := tx.MaxQueueNumber(ctx, sessionID, ap.DoctorID, in.NewDate)
			if err != nil {
				return err
			}
			queueNo = max + 1

			if sched != nil {
				total := schedule.TotalSlots(
					sched.StartTime, sched.EndTime, sched.SlotDurationMin, sched.MaxPatients,
				)
				if queueNo <= total {
					queueNo = total + 1
				}
			}
		}

		ap.ScheduleID = scheduleIDOf(sched)
		ap.ScheduleSessionID = sessionID
		ap.AppointmentDate = in.NewDate
		ap.AppointmentTime = in.NewTime
		ap.QueueNumber = &queueNo
		ap.RescheduleCount++

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		if err := locks.Consume(ctx, lock, ap.ID); err != nil {
			return err
		}

		updated = ap
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BranchID: updated.BranchID,
		UserID:   &in.CallerID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: &updated.ID,
		Old:      before,
		New:      updated,
	})

	return updated, nil
}
