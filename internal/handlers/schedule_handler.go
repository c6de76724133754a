package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/hospital-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/hospital-scheduler/internal/httperr"
	"github.com/BruksfildServices01/hospital-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/hospital-scheduler/internal/middleware"
	usecase "github.com/BruksfildServices01/hospital-scheduler/internal/usecase/schedule"
)

type ScheduleHandler struct {
	repo         domain.Repository
	create       *usecase.CreateSchedule
	update       *usecase.UpdateSchedule
	delete       *usecase.DeleteSchedule
	requestCanc  *usecase.RequestCancellation
	decideCanc   *usecase.DecideCancellation
	availability *usecase.GetAvailability
}

func NewScheduleHandler(
	repo domain.Repository,
	create *usecase.CreateSchedule,
	update *usecase.UpdateSchedule,
	delete_ *usecase.DeleteSchedule,
	requestCanc *usecase.RequestCancellation,
	decideCanc *usecase.DecideCancellation,
	availability *usecase.GetAvailability,
) *ScheduleHandler {
	return &ScheduleHandler{
		repo:         repo,
		create:       create,
		update:       update,
		delete:       delete_,
		requestCanc:  requestCanc,
		decideCanc:   decideCanc,
		availability: availability,
	}
}

// --------- Requests ---------

type CreateScheduleRequest struct {
	DoctorID        uint    `json:"doctor_id" binding:"required"`
	BranchID        uint    `json:"branch_id" binding:"required"`
	DayOfWeek       int     `json:"day_of_week"`
	StartTime       string  `json:"start_time" binding:"required"`
	EndTime         string  `json:"end_time" binding:"required"`
	SlotDurationMin int     `json:"slot_duration_minutes"`
	MaxPatients     int     `json:"max_patients"`
	Recurrence      string  `json:"recurrence"`
	ValidFrom       *string `json:"valid_from"`
	ValidUntil      *string `json:"valid_until"`
}

type UpdateScheduleRequest struct {
	StartTime       *string `json:"start_time"`
	EndTime         *string `json:"end_time"`
	SlotDurationMin *int    `json:"slot_duration_minutes"`
	MaxPatients     *int    `json:"max_patients"`
	Status          *string `json:"status"`
	Recurrence      *string `json:"recurrence"`
	ValidFrom       *string `json:"valid_from"`
	ValidUntil      *string `json:"valid_until"`
}

type RequestCancellationRequest struct {
	CancelDate    string  `json:"cancel_date" binding:"required"`
	CancelEndDate *string `json:"cancel_end_date"`
	Reason        string  `json:"reason"`
}

// --------- Handlers ---------

func (h *ScheduleHandler) Create(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	s, err := h.create.Execute(c.Request.Context(), usecase.CreateScheduleInput{
		DoctorID:        req.DoctorID,
		BranchID:        req.BranchID,
		DayOfWeek:       req.DayOfWeek,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		SlotDurationMin: req.SlotDurationMin,
		MaxPatients:     req.MaxPatients,
		Recurrence:      req.Recurrence,
		ValidFrom:       req.ValidFrom,
		ValidUntil:      req.ValidUntil,
		CallerID:        middleware.CallerID(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, s)
}

func (h *ScheduleHandler) List(c *gin.Context) {
	f := domain.ScheduleFilter{
		DoctorID: parseUintQuery(c, "doctor_id"),
		BranchID: parseUintQuery(c, "branch_id"),
		Status:   c.Query("status"),
	}

	schedules, err := h.repo.ListSchedules(c.Request.Context(), f)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, schedules)
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	s, err := h.repo.GetSchedule(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, s)
}

func (h *ScheduleHandler) Update(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	s, err := h.update.Execute(c.Request.Context(), usecase.UpdateScheduleInput{
		ScheduleID:      id,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		SlotDurationMin: req.SlotDurationMin,
		MaxPatients:     req.MaxPatients,
		Status:          req.Status,
		Recurrence:      req.Recurrence,
		ValidFrom:       req.ValidFrom,
		ValidUntil:      req.ValidUntil,
		CallerID:        middleware.CallerID(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, s)
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.delete.Execute(c.Request.Context(), id, middleware.CallerID(c)); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{"message": "schedule_deleted"})
}

func (h *ScheduleHandler) RequestCancellation(c *gin.Context) {
	if !requireStaff(c) {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RequestCancellationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	cancellation, err := h.requestCanc.Execute(c.Request.Context(), usecase.RequestCancellationInput{
		ScheduleID:    id,
		CancelDate:    req.CancelDate,
		CancelEndDate: req.CancelEndDate,
		Reason:        req.Reason,
		CallerID:      middleware.CallerID(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, cancellation)
}

func (h *ScheduleHandler) ApproveCancellation(c *gin.Context) {
	h.decide(c, true)
}

func (h *ScheduleHandler) RejectCancellation(c *gin.Context) {
	h.decide(c, false)
}

func (h *ScheduleHandler) decide(c *gin.Context, approve bool) {
	if !requireAdmin(c) {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cancellation, err := h.decideCanc.Execute(c.Request.Context(), id, approve, middleware.CallerID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, cancellation)
}

func (h *ScheduleHandler) Availability(c *gin.Context) {
	doctorID := parseUintQuery(c, "doctor_id")
	date := c.Query("date")
	if doctorID == 0 || date == "" {
		httperr.BadRequest(c, "missing_params", "doctor_id and date are required.")
		return
	}

	out, err := h.availability.Execute(c.Request.Context(), usecase.AvailabilityInput{
		DoctorID: doctorID,
		BranchID: parseUintQuery(c, "branch_id"),
		Date:     date,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, out)
}
