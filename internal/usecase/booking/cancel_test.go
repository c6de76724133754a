package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/hospital-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-scheduler/internal/httperr"
)

func TestCancelAppointment(t *testing.T) {
	repo := newStubRepo()
	seedAppointment(repo, string(domain.StatusConfirmed), 0)

	uc := NewCancelAppointment(repo, nil)

	ap, err := uc.Execute(context.Background(), CancelAppointmentInput{
		AppointmentID: 50,
		CallerID:      9,
		Reason:        "patient request",
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), ap.Status)
	require.NotNil(t, ap.CancelledBy)
	assert.Equal(t, uint(9), *ap.CancelledBy)
	assert.Equal(t, "patient request", ap.CancellationReason)
	assert.Equal(t, 1, repo.updates)
}

func TestCancelAppointmentIdempotent(t *testing.T) {
	repo := newStubRepo()
	seedAppointment(repo, string(domain.StatusConfirmed), 0)

	uc := NewCancelAppointment(repo, nil)

	_, err := uc.Execute(context.Background(), CancelAppointmentInput{AppointmentID: 50, CallerID: 9})
	require.NoError(t, err)

	ap, err := uc.Execute(context.Background(), CancelAppointmentInput{AppointmentID: 50, CallerID: 11})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), ap.Status)
	assert.Equal(t, uint(9), *ap.CancelledBy, "second cancel leaves the original stamp")
	assert.Equal(t, 1, repo.updates, "second cancel never writes")
}

func TestCancelReadsRowUnderLock(t *testing.T) {
	repo := newStubRepo()
	seedAppointment(repo, string(domain.StatusConfirmed), 0)

	uc := NewCancelAppointment(repo, nil)

	_, err := uc.Execute(context.Background(), CancelAppointmentInput{AppointmentID: 50, CallerID: 9})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.lockedReads, "cancel reads FOR UPDATE inside its transaction")
}

func TestCancelCompletedAppointmentRejected(t *testing.T) {
	repo := newStubRepo()
	seedAppointment(repo, string(domain.StatusCompleted), 0)

	uc := NewCancelAppointment(repo, nil)

	// a caller holding a stale view must not overwrite the terminal
	// status
	_, err := uc.Execute(context.Background(), CancelAppointmentInput{AppointmentID: 50, CallerID: 9})
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition))
	assert.Equal(t, string(domain.StatusCompleted), repo.appointments[50].Status)
	assert.Equal(t, 0, repo.updates)
}

func TestCancelAppointmentNotFound(t *testing.T) {
	uc := NewCancelAppointment(newStubRepo(), nil)

	_, err := uc.Execute(context.Background(), CancelAppointmentInput{AppointmentID: 404})
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
}

func TestChangeStatusHappyPath(t *testing.T) {
	repo := newStubRepo()
	seedAppointment(repo, string(domain.StatusConfirmed), 0)

	uc := NewChangeStatus(repo, nil)

	ap, err := uc.Execute(context.Background(), ChangeStatusInput{
		AppointmentID: 50,
		NewStatus:     string(domain.StatusInProgress),
		CallerID:      9,
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusInProgress), ap.Status)
	assert.NotNil(t, ap.CheckInTime)
	assert.NotNil(t, ap.ConsultationStart)
}

func TestChangeStatusInvalidStatus(t *testing.T) {
	repo := newStubRepo()
	seedAppointment(repo, string(domain.StatusConfirmed), 0)

	uc := NewChangeStatus(repo, nil)

	_, err := uc.Execute(context.Background(), ChangeStatusInput{
		AppointmentID: 50,
		NewStatus:     "vanished",
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))
}

func TestChangeStatusInvalidTransition(t *testing.T) {
	repo := newStubRepo()
	seedAppointment(repo, string(domain.StatusCompleted), 0)

	uc := NewChangeStatus(repo, nil)

	_, err := uc.Execute(context.Background(), ChangeStatusInput{
		AppointmentID: 50,
		NewStatus:     string(domain.StatusInProgress),
	})
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition))
	assert.Equal(t, 0, repo.updates)
}

func TestChangeStatusReadsRowUnderLock(t *testing.T) {
	repo := newStubRepo()
	seedAppointment(repo, string(domain.StatusConfirmed), 0)

	uc := NewChangeStatus(repo, nil)

	_, err := uc.Execute(context.Background(), ChangeStatusInput{
		AppointmentID: 50,
		NewStatus:     string(domain.StatusInProgress),
		CallerID:      9,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.lockedReads, "status change reads FOR UPDATE inside its transaction")
}
