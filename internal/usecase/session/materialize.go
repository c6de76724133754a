package session

import (
	"context"

	"github.com/BruksfildServices01/hospital-scheduler/internal/audit"
	"github.com/BruksfildServices01/hospital-scheduler/internal/domain/schedule"
	domain "github.com/BruksfildServices01/hospital-scheduler/internal/domain/session"
	"github.com/BruksfildServices01/hospital-scheduler/internal/httperr"
	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
	"github.com/BruksfildServices01/hospital-scheduler/internal/timezone"
)

type MaterializeSessionInput struct {
	// When ScheduleID is set the session geometry comes from the
	// template; the remaining fields describe an ad-hoc dated session.
	ScheduleID *uint

	DoctorID uint
	BranchID uint

	Date      string
	StartTime string
	EndTime   string

	SlotDurationMin int
	MaxPatients     int

	CallerID uint
}

type MaterializeSession struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewMaterializeSession(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *MaterializeSession {
	return &MaterializeSession{repo: repo, audit: audit}
}

// Execute creates or fetches the session for a (doctor, date, start)
// triple. The deterministic session key makes repeated calls land on
// the same row.
func (uc *MaterializeSession) Execute(
	ctx context.Context,
	in MaterializeSessionInput,
) (*models.ScheduleSession, error) {

	if _, err := timezone.ParseDate(in.Date); err != nil {
		return nil, httperr.E(httperr.KindInvalidInput, "invalid_date")
	}

	sess := &models.ScheduleSession{
		ScheduleID:      in.ScheduleID,
		DoctorID:        in.DoctorID,
		BranchID:        in.BranchID,
		SessionDate:     in.Date,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		SlotDurationMin: in.SlotDurationMin,
		MaxPatients:     in.MaxPatients,
		Status:          models.SessionActive,
	}

	if in.ScheduleID != nil {
		tpl, err := uc.repo.GetSchedule(ctx, *in.ScheduleID)
		if err != nil {
			return nil, httperr.E(httperr.KindNotFound, "schedule_not_found")
		}
		sess.DoctorID = tpl.DoctorID
		sess.BranchID = tpl.BranchID
		sess.StartTime = tpl.StartTime
		sess.EndTime = tpl.EndTime
		sess.SlotDurationMin = tpl.SlotDurationMin
		sess.MaxPatients = tpl.MaxPatients
	}

	start, err := timezone.ParseHM(sess.StartTime)
	if err != nil {
		return nil, httperr.E(httperr.KindInvalidInput, "invalid_start_time")
	}
	end, err := timezone.ParseHM(sess.EndTime)
	if err != nil {
		return nil, httperr.E(httperr.KindInvalidInput, "invalid_end_time")
	}
	if end <= start {
		return nil, httperr.E(httperr.KindInvalidInput, "invalid_time_range")
	}

	sess.SessionKey = schedule.SessionKey(sess.DoctorID, sess.SessionDate, sess.StartTime)

	out, err := uc.repo.GetOrCreateSession(ctx, sess)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BranchID: out.BranchID,
		UserID:   &in.CallerID,
		Action:   "session_materialized",
		Entity:   "schedule_session",
		EntityID: &out.ID,
		New:      out,
	})

	return out, nil
}
