package models

import "time"

// SlotLock is a short-lived exclusive hold on (doctor, date, time)
// taken during the booking flow. A row is held while ExpiresAt is in
// the future and AppointmentID is nil; binding an appointment consumes
// it for good, expiry makes it reusable.
type SlotLock struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DoctorID uint    `gorm:"uniqueIndex:idx_slot_lock_key;not null" json:"doctor_id"`
	SlotDate string  `gorm:"size:10;uniqueIndex:idx_slot_lock_key;not null" json:"slot_date"`
	SlotTime string  `gorm:"size:5;uniqueIndex:idx_slot_lock_key;not null" json:"slot_time"`

	ScheduleID *uint `gorm:"index" json:"schedule_id"`

	LockedBy  uint      `gorm:"not null" json:"locked_by"`
	LockedAt  time.Time `json:"locked_at"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`

	AppointmentID *uint        `gorm:"index" json:"appointment_id"`
	Appointment   *Appointment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
}

// Held reports whether the lock still excludes other holders.
func (l *SlotLock) Held(now time.Time) bool {
	return l.AppointmentID == nil && now.Before(l.ExpiresAt)
}
