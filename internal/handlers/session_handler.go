package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/hospital-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/hospital-scheduler/internal/dto"
	"github.com/BruksfildServices01/hospital-scheduler/internal/httperr"
	"github.com/BruksfildServices01/hospital-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/hospital-scheduler/internal/middleware"
	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
	usecase "github.com/BruksfildServices01/hospital-scheduler/internal/usecase/session"
)

type SessionHandler struct {
	db *gorm.DB

	materialize     *usecase.MaterializeSession
	assignNurses    *usecase.AssignNurses
	availableNurses *usecase.AvailableNurses
	patchQueue      *usecase.PatchQueue
	upsertIntake    *usecase.UpsertIntake
	attachPatient   *usecase.AttachPatient
	deleteSession   *usecase.DeleteSession
}

func NewSessionHandler(
	db *gorm.DB,
	materialize *usecase.MaterializeSession,
	assignNurses *usecase.AssignNurses,
	availableNurses *usecase.AvailableNurses,
	patchQueue *usecase.PatchQueue,
	upsertIntake *usecase.UpsertIntake,
	attachPatient *usecase.AttachPatient,
	deleteSession *usecase.DeleteSession,
) *SessionHandler {
	return &SessionHandler{
		db:              db,
		materialize:     materialize,
		assignNurses:    assignNurses,
		availableNurses: availableNurses,
		patchQueue:      patchQueue,
		upsertIntake:    upsertIntake,
		attachPatient:   attachPatient,
		deleteSession:   deleteSession,
	}
}

// --------- Requests ---------

type MaterializeSessionRequest struct {
	ScheduleID *uint `json:"schedule_id"`

	DoctorID uint `json:"doctor_id"`
	BranchID uint `json:"branch_id"`

	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`

	SlotDurationMin int `json:"slot_duration_minutes"`
	MaxPatients     int `json:"max_patients"`
}

type AssignNursesRequest struct {
	NurseIDs []uint `json:"nurse_ids" binding:"required"`
}

type PatchQueueRequest struct {
	CurrentDoctorSlot *int    `json:"current_doctor_slot"`
	CurrentNurseSlot  *int    `json:"current_nurse_slot"`
	Status            *string `json:"status"`
}

type UpsertIntakeRequest struct {
	SlotIndex int    `json:"slot_index" binding:"required"`
	Question  string `json:"question" binding:"required"`

	AnswerText string `json:"answer_text"`
	PatientID  *uint  `json:"patient_id"`

	Sex      string   `json:"sex"`
	Age      *int     `json:"age"`
	HeightCm *float64 `json:"height_cm"`
	WeightKg *float64 `json:"weight_kg"`
	Notes    string   `json:"notes"`

	ExpectedPatientSessionUpdatedAt *time.Time `json:"expected_patient_session_updated_at"`
}

type AttachPatientRequest struct {
	SlotIndex int `json:"slot_index" binding:"required"`

	PatientID  *uint `json:"patient_id"`
	NewPatient *struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
		Email string `json:"email"`
		Sex   string `json:"sex"`
	} `json:"new_patient"`

	ForceReplace bool `json:"force_replace"`
}

// --------- Write endpoints ---------

func (h *SessionHandler) Materialize(c *gin.Context) {
	if !requireStaff(c) {
		return
	}

	var req MaterializeSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	sess, err := h.materialize.Execute(c.Request.Context(), usecase.MaterializeSessionInput{
		ScheduleID:      req.ScheduleID,
		DoctorID:        req.DoctorID,
		BranchID:        req.BranchID,
		Date:            req.Date,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		SlotDurationMin: req.SlotDurationMin,
		MaxPatients:     req.MaxPatients,
		CallerID:        middleware.CallerID(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, sess)
}

func (h *SessionHandler) AssignNurses(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AssignNursesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	result, err := h.assignNurses.Execute(c.Request.Context(), usecase.AssignNursesInput{
		SessionID:    id,
		NurseIDs:     req.NurseIDs,
		CallerID:     middleware.CallerID(c),
		CallerRole:   middleware.CallerRole(c),
		CallerBranch: middleware.CallerBranch(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, result)
}

func (h *SessionHandler) PatchQueue(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req PatchQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	queue, err := h.patchQueue.Execute(c.Request.Context(), usecase.PatchQueueInput{
		SessionID:         id,
		CurrentDoctorSlot: req.CurrentDoctorSlot,
		CurrentNurseSlot:  req.CurrentNurseSlot,
		Status:            req.Status,
		CallerID:          middleware.CallerID(c),
		CallerRole:        middleware.CallerRole(c),
		CallerBranch:      middleware.CallerBranch(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, queue)
}

func (h *SessionHandler) UpsertIntake(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpsertIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	intake, err := h.upsertIntake.Execute(c.Request.Context(), usecase.UpsertIntakeInput{
		SessionID:         id,
		SlotIndex:         req.SlotIndex,
		Question:          req.Question,
		AnswerText:        req.AnswerText,
		PatientID:         req.PatientID,
		Sex:               req.Sex,
		Age:               req.Age,
		HeightCm:          req.HeightCm,
		WeightKg:          req.WeightKg,
		Notes:             req.Notes,
		ExpectedUpdatedAt: req.ExpectedPatientSessionUpdatedAt,
		CallerID:          middleware.CallerID(c),
		CallerRole:        middleware.CallerRole(c),
		CallerBranch:      middleware.CallerBranch(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, intake)
}

func (h *SessionHandler) AttachPatient(c *gin.Context) {
	if !requireStaff(c) {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AttachPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	in := usecase.AttachPatientInput{
		SessionID:    id,
		SlotIndex:    req.SlotIndex,
		PatientID:    req.PatientID,
		ForceReplace: req.ForceReplace,
		CallerID:     middleware.CallerID(c),
	}
	if req.NewPatient != nil {
		in.NewPatient = &usecase.NewPatientPayload{
			Name:  req.NewPatient.Name,
			Phone: req.NewPatient.Phone,
			Email: req.NewPatient.Email,
			Sex:   req.NewPatient.Sex,
		}
	}

	ap, err := h.attachPatient.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *SessionHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := h.deleteSession.Execute(
		c.Request.Context(),
		id,
		middleware.CallerID(c),
		middleware.CallerRole(c),
		middleware.CallerBranch(c),
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{"message": "session_deleted"})
}

func (h *SessionHandler) AvailableNurses(c *gin.Context) {
	if !requireStaff(c) {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	nurses, err := h.availableNurses.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, nurses)
}

// --------- Read endpoints ---------
// Listing and board views query the database directly; there is no
// business rule in them beyond shaping rows.

func (h *SessionHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).
		Model(&models.ScheduleSession{}).
		Preload("Doctor")

	if id := parseUintQuery(c, "doctor_id"); id != 0 {
		q = q.Where("doctor_id = ?", id)
	}
	if id := parseUintQuery(c, "branch_id"); id != 0 {
		q = q.Where("branch_id = ?", id)
	}
	if date := c.Query("date"); date != "" {
		q = q.Where("session_date = ?", date)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var sessions []models.ScheduleSession
	if err := q.Order("session_date, start_time").Find(&sessions).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	out := make([]dto.SessionListDTO, 0, len(sessions))
	for _, s := range sessions {
		var count int64
		h.db.Model(&models.Appointment{}).
			Where("schedule_session_id = ? AND status <> ?", s.ID, "cancelled").
			Count(&count)
		out = append(out, sessionListDTO(s, count))
	}

	httpresp.List(c, out)
}

func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	sess, err := h.loadSession(c, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var count int64
	h.db.Model(&models.Appointment{}).
		Where("schedule_session_id = ? AND status <> ?", sess.ID, "cancelled").
		Count(&count)

	detail := dto.SessionDetailDTO{SessionListDTO: sessionListDTO(*sess, count)}

	var staff []models.SessionStaff
	h.db.Preload("StaffUser").
		Where("session_id = ?", sess.ID).
		Find(&staff)
	for _, s := range staff {
		detail.Nurses = append(detail.Nurses, dto.SessionNurseDTO{
			UserID:     s.StaffUserID,
			Name:       s.StaffUser.Name,
			AssignedAt: s.AssignedAt,
		})
	}

	var queue models.SessionQueue
	if err := h.db.Where("session_id = ?", sess.ID).First(&queue).Error; err == nil {
		updatedAt := queue.UpdatedAt
		detail.Queue = &dto.SessionQueueDTO{
			CurrentDoctorSlot: queue.CurrentDoctorSlot,
			CurrentNurseSlot:  queue.CurrentNurseSlot,
			Status:            queue.Status,
			UpdatedAt:         &updatedAt,
		}
	}

	httpresp.OK(c, detail)
}

// Slots renders the board a nurse station works from: every slot of
// the session grid with its occupant and the live queue pointers.
func (h *SessionHandler) Slots(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	sess, err := h.loadSession(c, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var appointments []models.Appointment
	h.db.Preload("Patient").
		Where("schedule_session_id = ? AND status <> ?", sess.ID, "cancelled").
		Find(&appointments)

	bySlot := make(map[int]*models.Appointment, len(appointments))
	for i := range appointments {
		if appointments[i].QueueNumber != nil {
			bySlot[*appointments[i].QueueNumber] = &appointments[i]
		}
	}

	var queue models.SessionQueue
	hasQueue := h.db.Where("session_id = ?", sess.ID).First(&queue).Error == nil

	times := schedule.Slots(sess.StartTime, sess.EndTime, sess.SlotDurationMin, sess.MaxPatients)
	board := make([]dto.SlotViewDTO, 0, len(times))
	for i, t := range times {
		idx := i + 1
		row := dto.SlotViewDTO{
			SlotIndex: idx,
			SlotTime:  t,
			Status:    "free",
		}
		if ap, occupied := bySlot[idx]; occupied {
			row.AppointmentID = &ap.ID
			row.PatientID = &ap.PatientID
			row.PatientName = ap.Patient.Name
			row.Status = ap.Status
		}
		if hasQueue {
			row.CurrentWithDoctor = queue.CurrentDoctorSlot == idx
			row.CurrentWithNurse = queue.CurrentNurseSlot == idx
		}
		board = append(board, row)
	}

	httpresp.List(c, board)
}

func (h *SessionHandler) Patients(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.loadSession(c, id); err != nil {
		httperr.Respond(c, err)
		return
	}

	var appointments []models.Appointment
	h.db.Preload("Patient").
		Where("schedule_session_id = ? AND status <> ?", id, "cancelled").
		Order("queue_number").
		Find(&appointments)

	out := make([]dto.SessionPatientDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.SessionPatientDTO{
			AppointmentID:   ap.ID,
			PatientID:       ap.PatientID,
			PatientName:     ap.Patient.Name,
			AppointmentTime: ap.AppointmentTime,
			QueueNumber:     ap.QueueNumber,
			Status:          ap.Status,
			IsWalkIn:        ap.IsWalkIn,
		})
	}

	httpresp.List(c, out)
}

func (h *SessionHandler) Intake(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.loadSession(c, id); err != nil {
		httperr.Respond(c, err)
		return
	}

	q := h.db.WithContext(c.Request.Context()).
		Where("session_id = ?", id)
	if idx := parseUintQuery(c, "slot_index"); idx != 0 {
		q = q.Where("slot_index = ?", idx)
	}

	var rows []models.SessionIntake
	if err := q.Order("slot_index, question").Find(&rows).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, rows)
}

// --------- helpers ---------

func (h *SessionHandler) loadSession(c *gin.Context, id uint) (*models.ScheduleSession, error) {
	var sess models.ScheduleSession
	err := h.db.WithContext(c.Request.Context()).
		Preload("Doctor").
		First(&sess, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.E(httperr.KindNotFound, "session_not_found")
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func sessionListDTO(s models.ScheduleSession, count int64) dto.SessionListDTO {
	return dto.SessionListDTO{
		ID:               s.ID,
		ScheduleID:       s.ScheduleID,
		DoctorID:         s.DoctorID,
		DoctorName:       s.Doctor.Name,
		BranchID:         s.BranchID,
		SessionDate:      s.SessionDate,
		StartTime:        s.StartTime,
		EndTime:          s.EndTime,
		Status:           s.Status,
		TotalSlots:       schedule.TotalSlots(s.StartTime, s.EndTime, s.SlotDurationMin, s.MaxPatients),
		AppointmentCount: count,
	}
}
