package projections

import (
	"context"
	"errors"
	"time"

	"sportsched/internal/domain/apperr"
	"sportsched/internal/domain/authz"
	domainSession "sportsched/internal/domain/playsession"
)

// SessionDetailQuery carries query parameters.
type SessionDetailQuery struct {
	Viewer    authz.Identity
	SessionID string
}

// ParticipantView is a participant with display fields resolved.
type ParticipantView struct {
	UserID   string
	Name     string
	Email    string
	JoinedAt time.Time
}

// SessionDetail is the detail page view of one session.
type SessionDetail struct {
	Session      domainSession.Session
	SportName    string
	CreatorName  string
	Participants []ParticipantView // join order
	Joined       bool
	CanManage    bool
	CanJoin      bool
}

// SessionDetailDeps holds dependencies for SessionDetail.
type SessionDetailDeps struct {
	SessionStore SessionStore
	SportStore   SportStore
	UserStore    UserStore
	Now          func() time.Time
}

// QuerySessionDetail loads one session with its participants and viewer flags.
// PRE: none
// POST: Returns an error wrapping apperr.ErrNotFound for an unknown session
// INVARIANT: CanJoin is true only when the viewer has not joined and the start is not in the past
func QuerySessionDetail(ctx context.Context, query SessionDetailQuery, deps SessionDetailDeps) (SessionDetail, error) {
	s, err := deps.SessionStore.GetByID(ctx, query.SessionID)
	if err != nil {
		return SessionDetail{}, err
	}

	var sportName string
	sp, err := deps.SportStore.GetByID(ctx, s.SportID)
	switch {
	case err == nil:
		sportName = sp.Name
	case !errors.Is(err, apperr.ErrNotFound):
		return SessionDetail{}, err
	}

	ids := []string{s.CreatedBy}
	for _, p := range s.Participants {
		ids = append(ids, p.UserID)
	}
	users, err := usersByID(ctx, deps.UserStore, ids)
	if err != nil {
		return SessionDetail{}, err
	}

	participants := make([]ParticipantView, 0, len(s.Participants))
	for _, p := range s.Participants {
		u := users[p.UserID]
		participants = append(participants, ParticipantView{
			UserID:   p.UserID,
			Name:     u.Name,
			Email:    u.Email,
			JoinedAt: p.JoinedAt,
		})
	}

	viewer := query.Viewer
	joined := authz.IsAuthenticated(viewer) && s.HasParticipant(viewer.ID)
	return SessionDetail{
		Session:      s,
		SportName:    sportName,
		CreatorName:  users[s.CreatedBy].Name,
		Participants: participants,
		Joined:       joined,
		CanManage:    authz.CanManage(viewer, s),
		CanJoin:      authz.IsAuthenticated(viewer) && s.CheckJoin(viewer.ID, deps.Now()) == nil,
	}, nil
}
