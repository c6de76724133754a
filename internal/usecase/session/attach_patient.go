package session

import (
	"context"

	"github.com/BruksfildServices01/hospital-scheduler/internal/audit"
	appt "github.com/BruksfildServices01/hospital-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-scheduler/internal/domain/schedule"
	domain "github.com/BruksfildServices01/hospital-scheduler/internal/domain/session"
	"github.com/BruksfildServices01/hospital-scheduler/internal/httperr"
	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
)

type NewPatientPayload struct {
	Name  string
	Phone string
	Email string
	Sex   string
}

type AttachPatientInput struct {
	SessionID uint
	SlotIndex int

	// One of PatientID or NewPatient.
	PatientID  *uint
	NewPatient *NewPatientPayload

	// ForceReplace is required to overwrite a slot held by a
	// different patient.
	ForceReplace bool

	CallerID uint
}

type AttachPatient struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewAttachPatient(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *AttachPatient {
	return &AttachPatient{repo: repo, audit: audit}
}

// Execute binds a patient to a numbered slot of a session, creating
// the appointment when the slot is free. Historical intake rows keep
// their original patient pointer on replacement.
func (uc *AttachPatient) Execute(
	ctx context.Context,
	in AttachPatientInput,
) (*models.Appointment, error) {

	var out *models.Appointment

	err := uc.repo.InTx(ctx, func(tx domain.Repository) error {

		sess, err := tx.GetSession(ctx, in.SessionID)
		if err != nil {
			return httperr.E(httperr.KindNotFound, "session_not_found")
		}

		grid := schedule.Slots(sess.StartTime, sess.EndTime, sess.SlotDurationMin, sess.MaxPatients)
		if in.SlotIndex < 1 || in.SlotIndex > len(grid) {
			return httperr.E(httperr.KindInvalidInput, "slot_out_of_range")
		}
		slotTime := grid[in.SlotIndex-1]

		patient, err := uc.resolvePatient(ctx, tx, in)
		if err != nil {
			return err
		}

		existing, err := tx.FindAppointmentAtSlot(ctx, sess.ID, in.SlotIndex)
		if err != nil {
			return err
		}

		if existing != nil {
			if existing.PatientID == patient.ID {
				out = existing
				return nil
			}
			if !in.ForceReplace {
				return httperr.E(httperr.KindConflict, "slot_occupied")
			}
			existing.PatientID = patient.ID
			if err := tx.UpdateAppointment(ctx, existing); err != nil {
				return err
			}
			out = existing
			return nil
		}

		callerID := in.CallerID
		sessionID := sess.ID
		queueNo := in.SlotIndex
		ap := &models.Appointment{
			PatientID:         patient.ID,
			DoctorID:          sess.DoctorID,
			BranchID:          sess.BranchID,
			ScheduleID:        sess.ScheduleID,
			ScheduleSessionID: &sessionID,
			AppointmentDate:   sess.SessionDate,
			AppointmentTime:   slotTime,
			Status:            string(appt.StatusConfirmed),
			QueueNumber:       &queueNo,
			BookedBy:          &callerID,
		}

		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		out = ap
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BranchID: out.BranchID,
		UserID:   &in.CallerID,
		Action:   "slot_patient_attached",
		Entity:   "appointment",
		EntityID: &out.ID,
		New:      out,
	})

	return out, nil
}

func (uc *AttachPatient) resolvePatient(
	ctx context.Context,
	tx domain.Repository,
	in AttachPatientInput,
) (*models.Patient, error) {

	if in.PatientID != nil {
		p, err := tx.GetPatient(ctx, *in.PatientID)
		if err != nil {
			return nil, httperr.E(httperr.KindNotFound, "patient_not_found")
		}
		return p, nil
	}

	if in.NewPatient == nil || in.NewPatient.Name == "" {
		return nil, httperr.E(httperr.KindInvalidInput, "missing_patient")
	}

	return tx.GetOrCreatePatient(ctx, &models.Patient{
		Name:  in.NewPatient.Name,
		Phone: in.NewPatient.Phone,
		Email: in.NewPatient.Email,
		Sex:   in.NewPatient.Sex,
	})
}
