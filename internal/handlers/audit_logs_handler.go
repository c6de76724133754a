package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/hospital-scheduler/internal/httperr"
	"github.com/BruksfildServices01/hospital-scheduler/internal/middleware"
	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
)

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	action := c.Query("action")
	entity := c.Query("entity")
	fromStr := c.Query("from")
	toStr := c.Query("to")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	offset := (page - 1) * limit

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.AuditLog{})

	// branch admins only ever see their own branch
	if branch := middleware.CallerBranch(c); branch != nil {
		q = q.Where("branch_id = ?", *branch)
	} else if id := parseUintQuery(c, "branch_id"); id != 0 {
		q = q.Where("branch_id = ?", id)
	}

	if action != "" {
		q = q.Where("action = ?", action)
	}
	if entity != "" {
		q = q.Where("entity = ?", entity)
	}
	if id := parseUintQuery(c, "entity_id"); id != 0 {
		q = q.Where("entity_id = ?", id)
	}

	if fromStr != "" {
		if from, err := time.Parse("2006-01-02", fromStr); err == nil {
			q = q.Where("created_at >= ?", from)
		}
	}
	if toStr != "" {
		if to, err := time.Parse("2006-01-02", toStr); err == nil {
			q = q.Where("created_at <= ?", to.Add(24*time.Hour))
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Failed to count audit logs.")
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {

		httperr.Internal(c, "audit_list_failed", "Failed to list audit logs.")
		return
	}

	c.JSON(200, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}

// ListForAppointment returns the audit trail of a single appointment,
// oldest first so the history reads top to bottom.
func (h *AuditLogsHandler) ListForAppointment(c *gin.Context) {
	if !requireStaff(c) {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.AuditLog{}).
		Where("entity = ? AND entity_id = ?", "appointment", id)

	if branch := middleware.CallerBranch(c); branch != nil {
		q = q.Where("branch_id = ?", *branch)
	}

	var logs []models.AuditLog
	if err := q.Order("created_at ASC").Find(&logs).Error; err != nil {
		httperr.Internal(c, "audit_list_failed", "Failed to list audit logs.")
		return
	}

	c.JSON(200, gin.H{"logs": logs})
}
