package slotlock

import (
	"context"
	"time"

	"github.com/BruksfildServices01/hospital-scheduler/internal/httperr"
	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
	"github.com/BruksfildServices01/hospital-scheduler/internal/timezone"
)

// DefaultTTL bounds how long a booking flow may sit on a slot.
const DefaultTTL = 5 * time.Minute

// Store is the slice of the persistence layer the lock protocol needs.
// The appointment repository satisfies it, so a Manager built over a
// transaction-scoped repository locks inside that transaction.
type Store interface {
	GetSlotLockForUpdate(ctx context.Context, doctorID uint, date, timeHM string) (*models.SlotLock, error)
	CreateSlotLock(ctx context.Context, lock *models.SlotLock) error
	SaveSlotLock(ctx context.Context, lock *models.SlotLock) error
	DeleteSlotLock(ctx context.Context, id uint) error
}

type AcquireInput struct {
	DoctorID   uint
	ScheduleID *uint
	Date       string
	Time       string
	HolderID   uint
	TTL        time.Duration
}

type Manager struct {
	store Store
	now   func() time.Time
}

func New(store Store) *Manager {
	return &Manager{store: store, now: timezone.Now}
}

// Acquire takes an exclusive hold on (doctor, date, time). An existing
// row is inspected under SELECT ... FOR UPDATE: still-held rows fail,
// expired or consumed rows are reused in place. Racing inserts resolve
// through the unique index, which the store reports as a
// slot-unavailable conflict.
func (m *Manager) Acquire(ctx context.Context, in AcquireInput) (*models.SlotLock, error) {
	ttl := in.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := m.now()

	existing, err := m.store.GetSlotLockForUpdate(ctx, in.DoctorID, in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if existing.Held(now) {
			return nil, httperr.E(httperr.KindSlotUnavailable, "slot_locked")
		}

		existing.ScheduleID = in.ScheduleID
		existing.LockedBy = in.HolderID
		existing.LockedAt = now
		existing.ExpiresAt = now.Add(ttl)
		existing.AppointmentID = nil
		if err := m.store.SaveSlotLock(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	lock := &models.SlotLock{
		DoctorID:   in.DoctorID,
		ScheduleID: in.ScheduleID,
		SlotDate:   in.Date,
		SlotTime:   in.Time,
		LockedBy:   in.HolderID,
		LockedAt:   now,
		ExpiresAt:  now.Add(ttl),
	}
	if err := m.store.CreateSlotLock(ctx, lock); err != nil {
		return nil, err
	}
	return lock, nil
}

// Consume binds the lock to its appointment so it can never be
// reacquired, even inside its TTL. Called in the same transaction that
// creates the appointment.
func (m *Manager) Consume(ctx context.Context, lock *models.SlotLock, appointmentID uint) error {
	lock.AppointmentID = &appointmentID
	return m.store.SaveSlotLock(ctx, lock)
}

// Release abandons a lock early. Only the holder or an admin may do it.
func (m *Manager) Release(ctx context.Context, lock *models.SlotLock, holderID uint, isAdmin bool) error {
	if lock.LockedBy != holderID && !isAdmin {
		return httperr.E(httperr.KindForbidden, "not_lock_holder")
	}
	return m.store.DeleteSlotLock(ctx, lock.ID)
}
