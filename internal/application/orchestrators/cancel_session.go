package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"sportsched/internal/domain/apperr"
	"sportsched/internal/domain/authz"
	"sportsched/internal/domain/playsession"
)

// SessionStoreForCancel defines the store interface needed by CancelSession.
type SessionStoreForCancel interface {
	GetByID(ctx context.Context, id string) (playsession.Session, error)
	Save(ctx context.Context, s playsession.Session) error
}

// CancelSessionInput carries input for the cancel orchestrator.
type CancelSessionInput struct {
	Identity  authz.Identity
	SessionID string
	Reason    string
}

// CancelSessionDeps holds dependencies for CancelSession.
type CancelSessionDeps struct {
	SessionStore SessionStoreForCancel
	Now          func() time.Time
}

// ExecuteCancelSession marks the session cancelled.
// PRE: none
// POST: Status is cancelled and the trimmed reason is recorded; cancelling again overwrites the reason
// INVARIANT: Callers who cannot manage the session get apperr.ErrUnauthorized and nothing is saved
func ExecuteCancelSession(ctx context.Context, input CancelSessionInput, deps CancelSessionDeps) (playsession.Session, error) {
	s, err := deps.SessionStore.GetByID(ctx, input.SessionID)
	if err != nil {
		return playsession.Session{}, err
	}

	if !authz.CanManage(input.Identity, s) {
		slog.Warn("authz_denied", "action", "cancel_session", "session_id", s.ID, "user_id", input.Identity.ID)
		return playsession.Session{}, apperr.ErrUnauthorized
	}

	s.Cancel(input.Reason, deps.Now())
	if err := deps.SessionStore.Save(ctx, s); err != nil {
		return playsession.Session{}, err
	}
	slog.Info("session_cancelled", "session_id", s.ID, "by", input.Identity.ID)
	return s, nil
}
