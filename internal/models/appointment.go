package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PatientID uint    `gorm:"index;not null" json:"patient_id"`
	Patient   Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"patient,omitempty"`

	DoctorID uint   `gorm:"index;not null" json:"doctor_id"`
	Doctor   Doctor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"doctor,omitempty"`

	BranchID uint   `gorm:"index;not null" json:"branch_id"`
	Branch   Branch `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"branch,omitempty"`

	ScheduleID *uint           `gorm:"index" json:"schedule_id"`
	Schedule   *DoctorSchedule `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	ScheduleSessionID *uint            `gorm:"index" json:"schedule_session_id"`
	ScheduleSession   *ScheduleSession `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	AppointmentDate string `gorm:"size:10;index;not null" json:"appointment_date"`
	AppointmentTime string `gorm:"size:5;not null" json:"appointment_time"`

	// One non-cancelled appointment per (doctor, date, time); the
	// partial unique index is created in internal/db.
	Status        string `gorm:"size:20;default:'pending';index" json:"status"`
	PaymentStatus string `gorm:"size:20;default:'unpaid'" json:"payment_status"`

	Reason     string `gorm:"size:255" json:"reason"`
	Department string `gorm:"size:100" json:"department"`

	RescheduleCount int  `gorm:"default:0" json:"reschedule_count"`
	QueueNumber     *int `json:"queue_number"`
	IsWalkIn        bool `gorm:"default:false" json:"is_walk_in"`

	CheckInTime       *time.Time `json:"check_in_time"`
	ConsultationStart *time.Time `json:"consultation_start"`
	ConsultationEnd   *time.Time `json:"consultation_end"`

	CancelledAt        *time.Time `json:"cancelled_at"`
	CancelledBy        *uint      `json:"cancelled_by"`
	CancellationReason string     `gorm:"size:255" json:"cancellation_reason"`

	BookedBy *uint `json:"booked_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
