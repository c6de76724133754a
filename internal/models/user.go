package models

import "time"

// Roles understood by the access checks. Stored as plain strings so
// future roles migrate without a schema change.
const (
	RoleSuperAdmin  = "super_admin"
	RoleBranchAdmin = "branch_admin"
	RoleDoctor      = "doctor"
	RoleNurse       = "nurse"
	RolePatient     = "patient"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BranchID *uint   `gorm:"index" json:"branch_id"`
	Branch   *Branch `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"branch,omitempty"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'patient';index" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
