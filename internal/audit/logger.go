package audit

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
)

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(
	branchID uint,
	userID *uint,
	action string,
	entity string,
	entityID *uint,
	oldSnapshot any,
	newSnapshot any,
) error {

	row := models.AuditLog{
		BranchID:    branchID,
		UserID:      userID,
		Action:      action,
		Entity:      entity,
		EntityID:    entityID,
		OldSnapshot: marshal(oldSnapshot),
		NewSnapshot: marshal(newSnapshot),
	}

	return l.db.Create(&row).Error
}

func marshal(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
