package models

import "time"

type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BranchID uint   `gorm:"index" json:"branch_id"`
	UserID   *uint  `json:"user_id"`
	Action   string `gorm:"size:50;not null" json:"action"`

	Entity   string `gorm:"size:50" json:"entity"`
	EntityID *uint  `gorm:"index" json:"entity_id"`

	OldSnapshot string `gorm:"type:text" json:"old_snapshot"`
	NewSnapshot string `gorm:"type:text" json:"new_snapshot"`

	CreatedAt time.Time `json:"created_at"`
}
