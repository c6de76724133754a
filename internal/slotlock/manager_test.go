package slotlock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/hospital-scheduler/internal/httperr"
	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
)

type stubStore struct {
	existing *models.SlotLock

	created *models.SlotLock
	saved   *models.SlotLock
	deleted []uint
}

func (s *stubStore) GetSlotLockForUpdate(_ context.Context, _ uint, _, _ string) (*models.SlotLock, error) {
	return s.existing, nil
}

func (s *stubStore) CreateSlotLock(_ context.Context, lock *models.SlotLock) error {
	lock.ID = 1
	s.created = lock
	return nil
}

func (s *stubStore) SaveSlotLock(_ context.Context, lock *models.SlotLock) error {
	s.saved = lock
	return nil
}

func (s *stubStore) DeleteSlotLock(_ context.Context, id uint) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func newTestManager(store Store, now time.Time) *Manager {
	m := New(store)
	m.now = func() time.Time { return now }
	return m
}

func TestAcquireFreshSlot(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	store := &stubStore{}
	m := newTestManager(store, now)

	lock, err := m.Acquire(context.Background(), AcquireInput{
		DoctorID: 5,
		Date:     "2025-06-02",
		Time:     "08:00",
		HolderID: 77,
	})
	require.NoError(t, err)
	require.NotNil(t, store.created)

	assert.Equal(t, uint(77), lock.LockedBy)
	assert.Equal(t, now, lock.LockedAt)
	assert.Equal(t, now.Add(DefaultTTL), lock.ExpiresAt, "zero TTL falls back to default")
	assert.Nil(t, lock.AppointmentID)
}

func TestAcquireHeldSlotFails(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	store := &stubStore{
		existing: &models.SlotLock{
			ID:        3,
			LockedBy:  10,
			ExpiresAt: now.Add(2 * time.Minute),
		},
	}
	m := newTestManager(store, now)

	_, err := m.Acquire(context.Background(), AcquireInput{DoctorID: 5, HolderID: 77})
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.KindSlotUnavailable))

	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, "slot_locked", be.Code)
}

func TestAcquireExpiredLockIsReused(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	store := &stubStore{
		existing: &models.SlotLock{
			ID:        3,
			LockedBy:  10,
			ExpiresAt: now, // expiry boundary: now >= expires_at means free
		},
	}
	m := newTestManager(store, now)

	lock, err := m.Acquire(context.Background(), AcquireInput{
		HolderID: 77,
		TTL:      time.Minute,
	})
	require.NoError(t, err)
	require.NotNil(t, store.saved, "expired row is rewritten, not re-inserted")
	assert.Nil(t, store.created)

	assert.Equal(t, uint(3), lock.ID)
	assert.Equal(t, uint(77), lock.LockedBy)
	assert.Equal(t, now.Add(time.Minute), lock.ExpiresAt)
}

func TestAcquireConsumedLockIsReused(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	apID := uint(999)
	store := &stubStore{
		existing: &models.SlotLock{
			ID:            4,
			LockedBy:      10,
			AppointmentID: &apID,
			ExpiresAt:     now.Add(time.Hour),
		},
	}
	m := newTestManager(store, now)

	lock, err := m.Acquire(context.Background(), AcquireInput{HolderID: 77})
	require.NoError(t, err)
	assert.Nil(t, lock.AppointmentID, "reuse clears the consumed marker")
	assert.Equal(t, uint(77), lock.LockedBy)
}

func TestConsume(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	store := &stubStore{}
	m := newTestManager(store, now)

	lock := &models.SlotLock{ID: 8}
	require.NoError(t, m.Consume(context.Background(), lock, 123))

	require.NotNil(t, lock.AppointmentID)
	assert.Equal(t, uint(123), *lock.AppointmentID)
	assert.False(t, lock.Held(now), "a consumed lock is no longer held")
}

func TestReleaseOnlyHolderOrAdmin(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	store := &stubStore{}
	m := newTestManager(store, now)

	lock := &models.SlotLock{ID: 8, LockedBy: 10}

	err := m.Release(context.Background(), lock, 99, false)
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.KindForbidden))
	assert.Empty(t, store.deleted)

	require.NoError(t, m.Release(context.Background(), lock, 10, false))
	require.NoError(t, m.Release(context.Background(), lock, 99, true))
	assert.Equal(t, []uint{8, 8}, store.deleted)
}
