package dto

import "time"

type SessionListDTO struct {
	ID               uint   `json:"id"`
	ScheduleID       *uint  `json:"schedule_id"`
	DoctorID         uint   `json:"doctor_id"`
	DoctorName       string `json:"doctor_name"`
	BranchID         uint   `json:"branch_id"`
	SessionDate      string `json:"session_date"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	Status           string `json:"status"`
	TotalSlots       int    `json:"total_slots"`
	AppointmentCount int64  `json:"appointment_count"`
}

type SessionNurseDTO struct {
	UserID     uint      `json:"user_id"`
	Name       string    `json:"name"`
	AssignedAt time.Time `json:"assigned_at"`
}

type SessionQueueDTO struct {
	CurrentDoctorSlot int        `json:"current_doctor_slot"`
	CurrentNurseSlot  int        `json:"current_nurse_slot"`
	Status            string     `json:"status"`
	UpdatedAt         *time.Time `json:"updated_at"`
}

type SessionDetailDTO struct {
	SessionListDTO
	Nurses []SessionNurseDTO `json:"nurses"`
	Queue  *SessionQueueDTO  `json:"queue"`
}

// SlotViewDTO is one row of the session slot board.
type SlotViewDTO struct {
	SlotIndex         int    `json:"slot_index"`
	SlotTime          string `json:"slot_time"`
	AppointmentID     *uint  `json:"appointment_id"`
	PatientID         *uint  `json:"patient_id"`
	PatientName       string `json:"patient_name"`
	Status            string `json:"status"`
	CurrentWithDoctor bool   `json:"current_with_doctor"`
	CurrentWithNurse  bool   `json:"current_with_nurse"`
}

type SessionPatientDTO struct {
	AppointmentID   uint   `json:"appointment_id"`
	PatientID       uint   `json:"patient_id"`
	PatientName     string `json:"patient_name"`
	AppointmentTime string `json:"appointment_time"`
	QueueNumber     *int   `json:"queue_number"`
	Status          string `json:"status"`
	IsWalkIn        bool   `json:"is_walk_in"`
}
