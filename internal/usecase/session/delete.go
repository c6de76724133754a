package session

import (
	"context"

	"github.com/BruksfildServices01/hospital-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/hospital-scheduler/internal/domain/session"
	"github.com/BruksfildServices01/hospital-scheduler/internal/httperr"
)

type DeleteSession struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteSession(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteSession {
	return &DeleteSession{repo: repo, audit: audit}
}

// Execute removes a session and everything under it (appointments,
// staff, queue, intake) in one transaction.
func (uc *DeleteSession) Execute(
	ctx context.Context,
	sessionID uint,
	callerID uint,
	callerRole string,
	callerBranch *uint,
) error {

	sess, err := uc.repo.GetSession(ctx, sessionID)
	if err != nil {
		return httperr.E(httperr.KindNotFound, "session_not_found")
	}

	if !canManageBranch(callerRole, callerBranch, sess.BranchID) {
		return httperr.E(httperr.KindForbidden, "not_branch_admin")
	}

	if err := uc.repo.DeleteSessionCascade(ctx, sessionID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		BranchID: sess.BranchID,
		UserID:   &callerID,
		Action:   "session_deleted",
		Entity:   "schedule_session",
		EntityID: &sessionID,
		Old:      sess,
	})

	return nil
}
