package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"sportsched/internal/domain/apperr"
	"sportsched/internal/domain/authz"
	"sportsched/internal/domain/playsession"
)

// SessionStoreForJoin defines the store interface needed by JoinSession.
type SessionStoreForJoin interface {
	GetByID(ctx context.Context, id string) (playsession.Session, error)
	AddParticipant(ctx context.Context, sessionID string, p playsession.Participant) (bool, error)
}

// JoinSessionInput carries input for the join orchestrator.
type JoinSessionInput struct {
	Identity  authz.Identity
	SessionID string
}

// JoinSessionDeps holds dependencies for JoinSession.
type JoinSessionDeps struct {
	SessionStore SessionStoreForJoin
	Now          func() time.Time
}

// ExecuteJoinSession adds the caller to the session's participants.
// PRE: Identity is authenticated
// POST: Caller is a participant exactly once
// INVARIANT: The store insert is conditional, so a racing duplicate join reports apperr.ErrAlreadyJoined
func ExecuteJoinSession(ctx context.Context, input JoinSessionInput, deps JoinSessionDeps) (playsession.Participant, error) {
	if !authz.IsAuthenticated(input.Identity) {
		return playsession.Participant{}, apperr.ErrUnauthorized
	}

	s, err := deps.SessionStore.GetByID(ctx, input.SessionID)
	if err != nil {
		return playsession.Participant{}, err
	}

	now := deps.Now()
	p, err := s.Join(input.Identity.ID, now)
	if err != nil {
		return playsession.Participant{}, err
	}

	added, err := deps.SessionStore.AddParticipant(ctx, s.ID, p)
	if err != nil {
		return playsession.Participant{}, err
	}
	if !added {
		return playsession.Participant{}, apperr.ErrAlreadyJoined
	}
	slog.Info("session_joined", "session_id", s.ID, "user_id", p.UserID)
	return p, nil
}
