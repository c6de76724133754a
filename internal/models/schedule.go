package models

import "time"

const (
	ScheduleActive   = "active"
	ScheduleInactive = "inactive"
)

const (
	RecurrenceWeekly   = "weekly"
	RecurrenceBiweekly = "biweekly"
	RecurrenceOnce     = "once"
)

// DoctorSchedule is the recurring weekly availability template concrete
// sessions are derived from. Times are "HH:MM", dates "2006-01-02".
type DoctorSchedule struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DoctorID uint   `gorm:"index;not null" json:"doctor_id"`
	Doctor   Doctor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"doctor,omitempty"`

	BranchID uint   `gorm:"index;not null" json:"branch_id"`
	Branch   Branch `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"branch,omitempty"`

	DayOfWeek int `gorm:"not null" json:"day_of_week"` // 0=Sunday .. 6=Saturday

	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	SlotDurationMin int `gorm:"default:15" json:"slot_duration_minutes"`
	MaxPatients     int `gorm:"default:1" json:"max_patients"`

	Status     string `gorm:"size:20;default:'active';index" json:"status"`
	Recurrence string `gorm:"size:20;default:'weekly'" json:"recurrence"`

	ValidFrom  *string `gorm:"size:10" json:"valid_from"`
	ValidUntil *string `gorm:"size:10" json:"valid_until"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	CancellationPending  = "pending"
	CancellationApproved = "approved"
	CancellationRejected = "rejected"
)

// ScheduleCancellation suppresses a template on the closed date range
// [CancelDate, CancelEndDate] (single day when CancelEndDate is nil).
// Only approved rows affect availability.
type ScheduleCancellation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ScheduleID uint           `gorm:"index;not null" json:"schedule_id"`
	Schedule   DoctorSchedule `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	DoctorID uint `gorm:"index" json:"doctor_id"`

	CancelDate    string  `gorm:"size:10;not null" json:"cancel_date"`
	CancelEndDate *string `gorm:"size:10" json:"cancel_end_date"`

	Reason string `gorm:"size:255" json:"reason"`
	Status string `gorm:"size:20;default:'pending';index" json:"status"`

	RequestedBy *uint `json:"requested_by"`
	DecidedBy   *uint `json:"decided_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
