package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/hospital-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/hospital-scheduler/internal/httperr"
	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
)

func uintp(n uint) *uint { return &n }

func TestMaterializeAdHocSession(t *testing.T) {
	repo := newStubRepo()
	uc := NewMaterializeSession(repo, nil)

	sess, err := uc.Execute(context.Background(), MaterializeSessionInput{
		DoctorID:        5,
		BranchID:        2,
		Date:            "2030-01-07",
		StartTime:       "08:00",
		EndTime:         "12:00",
		SlotDurationMin: 30,
		CallerID:        1,
	})
	require.NoError(t, err)

	assert.NotZero(t, sess.ID)
	assert.Nil(t, sess.ScheduleID)
	assert.Equal(t, models.SessionActive, sess.Status)
	assert.Equal(t, schedule.SessionKey(5, "2030-01-07", "08:00"), sess.SessionKey)
}

func TestMaterializeIsIdempotent(t *testing.T) {
	repo := newStubRepo()
	uc := NewMaterializeSession(repo, nil)

	in := MaterializeSessionInput{
		DoctorID:        5,
		BranchID:        2,
		Date:            "2030-01-07",
		StartTime:       "08:00",
		EndTime:         "12:00",
		SlotDurationMin: 30,
	}

	first, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.sessions, 1)
}

func TestMaterializeFromTemplate(t *testing.T) {
	repo := newStubRepo()
	repo.schedules[1] = &models.DoctorSchedule{
		ID:              1,
		DoctorID:        5,
		BranchID:        2,
		StartTime:       "14:00",
		EndTime:         "18:00",
		SlotDurationMin: 20,
		MaxPatients:     10,
	}
	uc := NewMaterializeSession(repo, nil)

	sess, err := uc.Execute(context.Background(), MaterializeSessionInput{
		ScheduleID: uintp(1),
		Date:       "2030-01-07",
		// caller-supplied geometry is ignored in favor of the template
		StartTime: "09:00",
		EndTime:   "10:00",
	})
	require.NoError(t, err)

	assert.Equal(t, uint(5), sess.DoctorID)
	assert.Equal(t, "14:00", sess.StartTime)
	assert.Equal(t, "18:00", sess.EndTime)
	assert.Equal(t, 20, sess.SlotDurationMin)
	assert.Equal(t, 10, sess.MaxPatients)
}

func TestMaterializeTemplateNotFound(t *testing.T) {
	uc := NewMaterializeSession(newStubRepo(), nil)

	_, err := uc.Execute(context.Background(), MaterializeSessionInput{
		ScheduleID: uintp(404),
		Date:       "2030-01-07",
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "schedule_not_found"))
}

func TestMaterializeValidation(t *testing.T) {
	uc := NewMaterializeSession(newStubRepo(), nil)

	_, err := uc.Execute(context.Background(), MaterializeSessionInput{
		DoctorID: 5, Date: "soon", StartTime: "08:00", EndTime: "12:00",
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_date"))

	_, err = uc.Execute(context.Background(), MaterializeSessionInput{
		DoctorID: 5, Date: "2030-01-07", StartTime: "", EndTime: "12:00",
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_start_time"))

	_, err = uc.Execute(context.Background(), MaterializeSessionInput{
		DoctorID: 5, Date: "2030-01-07", StartTime: "12:00", EndTime: "08:00",
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_time_range"))
}
