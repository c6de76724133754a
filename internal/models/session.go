package models

import "time"

const (
	SessionActive    = "active"
	SessionCancelled = "cancelled"
)

// ScheduleSession is a concrete dated occurrence of a template, or an
// ad-hoc dated session when ScheduleID is nil. SessionKey is derived
// deterministically from (doctor, date, start_time); its uniqueness is
// what makes materialization idempotent.
type ScheduleSession struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ScheduleID *uint           `gorm:"index" json:"schedule_id"`
	Schedule   *DoctorSchedule `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	DoctorID uint   `gorm:"index;not null" json:"doctor_id"`
	Doctor   Doctor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"doctor,omitempty"`

	BranchID uint   `gorm:"index;not null" json:"branch_id"`
	Branch   Branch `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"branch,omitempty"`

	SessionDate string `gorm:"size:10;index;not null" json:"session_date"`
	StartTime   string `gorm:"size:5;not null" json:"start_time"`
	EndTime     string `gorm:"size:5;not null" json:"end_time"`

	SlotDurationMin int `gorm:"default:15" json:"slot_duration_minutes"`
	MaxPatients     int `gorm:"default:0" json:"max_patients"`

	Status string `gorm:"size:20;default:'active';index" json:"status"`

	SessionKey string `gorm:"size:36;uniqueIndex;not null" json:"session_key"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const StaffRoleNurse = "nurse"

type SessionStaff struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SessionID uint            `gorm:"uniqueIndex:idx_session_staff_once;not null" json:"session_id"`
	Session   ScheduleSession `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	StaffUserID uint `gorm:"uniqueIndex:idx_session_staff_once;not null" json:"staff_user_id"`
	StaffUser   User `gorm:"foreignKey:StaffUserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"staff_user,omitempty"`

	Role string `gorm:"size:20;uniqueIndex:idx_session_staff_once;default:'nurse'" json:"role"`

	AssignedAt time.Time `json:"assigned_at"`
}

const (
	QueueActive = "active"
	QueuePaused = "paused"
	QueueClosed = "closed"
)

// SessionQueue holds the live pointers a waiting-room screen polls.
// Slot value 0 means "not yet started". One row per session, created
// lazily on the first write.
type SessionQueue struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SessionID uint            `gorm:"uniqueIndex;not null" json:"session_id"`
	Session   ScheduleSession `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	CurrentDoctorSlot int `gorm:"default:0" json:"current_doctor_slot"`
	CurrentNurseSlot  int `gorm:"default:0" json:"current_nurse_slot"`

	Status string `gorm:"size:20;default:'active'" json:"status"`

	UpdatedBy *uint     `json:"updated_by"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionIntake is one answered question for one slot of a session.
// The patient back-pointer records who occupied the slot at write time
// and is intentionally never rewritten by later slot re-assignments.
type SessionIntake struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SessionID uint            `gorm:"uniqueIndex:idx_session_intake_once;not null" json:"session_id"`
	Session   ScheduleSession `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	SlotIndex int    `gorm:"uniqueIndex:idx_session_intake_once;not null" json:"slot_index"`
	Question  string `gorm:"size:255;uniqueIndex:idx_session_intake_once;not null" json:"question"`

	AnswerText string `gorm:"type:text" json:"answer_text"`

	PatientID *uint    `gorm:"index" json:"patient_id"`
	Patient   *Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"patient,omitempty"`

	Sex      string   `gorm:"size:10" json:"sex"`
	Age      *int     `json:"age"`
	HeightCm *float64 `json:"height_cm"`
	WeightKg *float64 `json:"weight_kg"`
	Notes    string   `gorm:"size:500" json:"notes"`

	UpdatedBy *uint     `json:"updated_by"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedAt time.Time `json:"created_at"`
}
