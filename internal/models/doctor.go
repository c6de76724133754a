package models

import "time"

type Doctor struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID *uint `gorm:"index" json:"user_id"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"user,omitempty"`

	Name      string `gorm:"size:100;not null" json:"name"`
	Specialty string `gorm:"size:100" json:"specialty"`

	// Branches a doctor may hold schedules in. Empty means unrestricted.
	Branches []Branch `gorm:"many2many:doctor_branches;" json:"branches,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AllowedIn reports whether the doctor may operate in the branch.
func (d *Doctor) AllowedIn(branchID uint) bool {
	if len(d.Branches) == 0 {
		return true
	}
	for _, b := range d.Branches {
		if b.ID == branchID {
			return true
		}
	}
	return false
}
