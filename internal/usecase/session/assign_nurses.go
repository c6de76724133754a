package session

import (
	"context"

	"github.com/BruksfildServices01/hospital-scheduler/internal/audit"
	"github.com/BruksfildServices01/hospital-scheduler/internal/domain/schedule"
	domain "github.com/BruksfildServices01/hospital-scheduler/internal/domain/session"
	"github.com/BruksfildServices01/hospital-scheduler/internal/httperr"
	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
	"github.com/BruksfildServices01/hospital-scheduler/internal/timezone"
)

type AssignNursesInput struct {
	SessionID uint
	NurseIDs  []uint

	CallerID     uint
	CallerRole   string
	CallerBranch *uint
}

type AssignNursesResult struct {
	Assigned    int    `json:"assigned"`
	SkippedBusy []uint `json:"skipped_busy"`
}

type AssignNurses struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewAssignNurses(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *AssignNurses {
	return &AssignNurses{repo: repo, audit: audit}
}

// Execute assigns nurses to a session. A nurse already on an
// overlapping session that date is skipped, not fatal; wrong branch or
// wrong role is an error. Re-running an assignment is a no-op thanks
// to the (session, staff, role) unique index.
func (uc *AssignNurses) Execute(
	ctx context.Context,
	in AssignNursesInput,
) (*AssignNursesResult, error) {

	result := &AssignNursesResult{SkippedBusy: []uint{}}

	err := uc.repo.InTx(ctx, func(tx domain.Repository) error {

		sess, err := tx.GetSession(ctx, in.SessionID)
		if err != nil {
			return httperr.E(httperr.KindNotFound, "session_not_found")
		}

		if !canManageBranch(in.CallerRole, in.CallerBranch, sess.BranchID) {
			return httperr.E(httperr.KindForbidden, "not_branch_admin")
		}

		for _, nurseID := range in.NurseIDs {

			nurse, err := tx.GetUser(ctx, nurseID)
			if err != nil {
				return httperr.E(httperr.KindNotFound, "nurse_not_found")
			}
			if nurse.Role != models.RoleNurse {
				return httperr.E(httperr.KindInvalidInput, "not_a_nurse")
			}
			if nurse.BranchID == nil || *nurse.BranchID != sess.BranchID {
				return httperr.E(httperr.KindInvalidInput, "nurse_not_in_branch")
			}

			busy, err := nurseBusy(ctx, tx, nurse.ID, sess)
			if err != nil {
				return err
			}
			if busy {
				result.SkippedBusy = append(result.SkippedBusy, nurse.ID)
				continue
			}

			if err := tx.UpsertStaff(ctx, &models.SessionStaff{
				SessionID:   sess.ID,
				StaffUserID: nurse.ID,
				Role:        models.StaffRoleNurse,
				AssignedAt:  timezone.Now(),
			}); err != nil {
				return err
			}
			result.Assigned++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.CallerID,
		Action:   "nurses_assigned",
		Entity:   "schedule_session",
		EntityID: &in.SessionID,
		New:      result,
	})

	return result, nil
}

// nurseBusy checks the nurse against every other session they are on
// that date.
func nurseBusy(
	ctx context.Context,
	repo domain.Repository,
	nurseID uint,
	sess *models.ScheduleSession,
) (bool, error) {

	others, err := repo.ListStaffSessionsOnDate(ctx, nurseID, sess.SessionDate)
	if err != nil {
		return false, err
	}

	for i := range others {
		if others[i].ID == sess.ID {
			continue
		}
		if schedule.Overlaps(sess.StartTime, sess.EndTime, others[i].StartTime, others[i].EndTime) {
			return true, nil
		}
	}
	return false, nil
}

func canManageBranch(role string, callerBranch *uint, branchID uint) bool {
	if role == models.RoleSuperAdmin {
		return true
	}
	return role == models.RoleBranchAdmin && callerBranch != nil && *callerBranch == branchID
}

// ======================================================
// AVAILABLE NURSES
// ======================================================

type AvailableNurses struct {
	repo domain.Repository
}

func NewAvailableNurses(repo domain.Repository) *AvailableNurses {
	return &AvailableNurses{repo: repo}
}

// Execute lists same-branch nurses not already on this session and not
// busy on an overlapping one.
func (uc *AvailableNurses) Execute(
	ctx context.Context,
	sessionID uint,
) ([]models.User, error) {

	sess, err := uc.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, httperr.E(httperr.KindNotFound, "session_not_found")
	}

	nurses, err := uc.repo.ListNursesByBranch(ctx, sess.BranchID)
	if err != nil {
		return nil, err
	}

	assigned, err := uc.repo.ListStaff(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	onSession := make(map[uint]bool, len(assigned))
	for _, st := range assigned {
		onSession[st.StaffUserID] = true
	}

	available := []models.User{}
	for i := range nurses {
		if onSession[nurses[i].ID] {
			continue
		}
		busy, err := nurseBusy(ctx, uc.repo, nurses[i].ID, sess)
		if err != nil {
			return nil, err
		}
		if busy {
			continue
		}
		available = append(available, nurses[i])
	}

	return available, nil
}
