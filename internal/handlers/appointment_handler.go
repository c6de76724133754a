package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/hospital-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-scheduler/internal/httperr"
	"github.com/BruksfildServices01/hospital-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/hospital-scheduler/internal/middleware"
	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
	usecase "github.com/BruksfildServices01/hospital-scheduler/internal/usecase/booking"
)

type AppointmentHandler struct {
	db           *gorm.DB
	repo         domain.Repository
	book         *usecase.BookAppointment
	reschedule   *usecase.RescheduleAppointment
	cancel       *usecase.CancelAppointment
	changeStatus *usecase.ChangeStatus
}

func NewAppointmentHandler(
	db *gorm.DB,
	repo domain.Repository,
	book *usecase.BookAppointment,
	reschedule *usecase.RescheduleAppointment,
	cancel *usecase.CancelAppointment,
	changeStatus *usecase.ChangeStatus,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:           db,
		repo:         repo,
		book:         book,
		reschedule:   reschedule,
		cancel:       cancel,
		changeStatus: changeStatus,
	}
}

// --------- Requests ---------

type BookAppointmentRequest struct {
	PatientID uint `json:"patient_id" binding:"required"`
	DoctorID  uint `json:"doctor_id" binding:"required"`
	BranchID  uint `json:"branch_id" binding:"required"`

	AppointmentDate string `json:"appointment_date" binding:"required"`
	AppointmentTime string `json:"appointment_time" binding:"required"`

	Reason     string `json:"reason"`
	Department string `json:"department"`
	IsWalkIn   bool   `json:"is_walk_in"`
}

type RescheduleRequest struct {
	NewDate string `json:"new_date" binding:"required"`
	NewTime string `json:"new_time" binding:"required"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// --------- Handlers ---------

func (h *AppointmentHandler) Book(c *gin.Context) {
	var req BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	// walk-ins are booked at the desk, never self-served
	if req.IsWalkIn && !requireStaff(c) {
		return
	}

	ap, err := h.book.Execute(c.Request.Context(), usecase.BookAppointmentInput{
		PatientID:  req.PatientID,
		DoctorID:   req.DoctorID,
		BranchID:   req.BranchID,
		Date:       req.AppointmentDate,
		Time:       req.AppointmentTime,
		Reason:     req.Reason,
		Department: req.Department,
		IsWalkIn:   req.IsWalkIn,
		CallerID:   middleware.CallerID(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, ap)
}

func (h *AppointmentHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).
		Model(&models.Appointment{}).
		Preload("Doctor").
		Preload("Patient")

	if id := parseUintQuery(c, "doctor_id"); id != 0 {
		q = q.Where("doctor_id = ?", id)
	}
	if id := parseUintQuery(c, "patient_id"); id != 0 {
		q = q.Where("patient_id = ?", id)
	}
	if id := parseUintQuery(c, "branch_id"); id != 0 {
		q = q.Where("branch_id = ?", id)
	}
	if date := c.Query("date"); date != "" {
		q = q.Where("appointment_date = ?", date)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var appointments []models.Appointment
	if err := q.Order("appointment_date, appointment_time").Find(&appointments).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, appointments)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.repo.GetAppointment(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), usecase.RescheduleAppointmentInput{
		AppointmentID: id,
		NewDate:       req.NewDate,
		NewTime:       req.NewTime,
		CallerID:      middleware.CallerID(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CancelRequest
	_ = c.ShouldBindJSON(&req)

	ap, err := h.cancel.Execute(c.Request.Context(), usecase.CancelAppointmentInput{
		AppointmentID: id,
		CallerID:      middleware.CallerID(c),
		Reason:        req.Reason,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) ChangeStatus(c *gin.Context) {
	if !requireStaff(c) {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ap, err := h.changeStatus.Execute(c.Request.Context(), usecase.ChangeStatusInput{
		AppointmentID: id,
		NewStatus:     req.Status,
		CallerID:      middleware.CallerID(c),
		Reason:        req.Reason,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}
