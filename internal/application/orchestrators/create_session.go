package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sportsched/internal/application/params"
	"sportsched/internal/domain/apperr"
	"sportsched/internal/domain/authz"
	"sportsched/internal/domain/playsession"
	"sportsched/internal/domain/sport"
)

// SessionStoreForCreate defines the store interface needed by CreateSession.
type SessionStoreForCreate interface {
	Create(ctx context.Context, s playsession.Session) error
}

// SportStoreForLookup resolves a sport by ID.
type SportStoreForLookup interface {
	GetByID(ctx context.Context, id string) (sport.Sport, error)
}

// CreateSessionInput carries the raw form values for a new play session.
type CreateSessionInput struct {
	Creator    authz.Identity
	SportID    string
	TeamA      string
	TeamB      string
	LookingFor string
	StartTime  string
	Venue      string
	Notes      string
}

// CreateSessionDeps holds dependencies for CreateSession.
type CreateSessionDeps struct {
	SessionStore SessionStoreForCreate
	SportStore   SportStoreForLookup
	Now          func() time.Time
	GenerateID   func() string
	Location     *time.Location // zone for start times without an offset; nil means time.Local
}

// ExecuteCreateSession schedules a play session owned by the creator.
// PRE: Creator is authenticated
// POST: Session persisted with status scheduled and no participants
func ExecuteCreateSession(ctx context.Context, input CreateSessionInput, deps CreateSessionDeps) (playsession.Session, error) {
	if !authz.IsAuthenticated(input.Creator) {
		return playsession.Session{}, apperr.ErrUnauthorized
	}

	sportID := strings.TrimSpace(input.SportID)
	venue := strings.TrimSpace(input.Venue)
	rawStart := strings.TrimSpace(input.StartTime)
	if sportID == "" || venue == "" || rawStart == "" {
		return playsession.Session{}, apperr.Validation(playsession.MsgRequiredFields)
	}

	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	start, _, ok := params.ParseDateTime(rawStart, loc)
	if !ok {
		return playsession.Session{}, apperr.Validation(playsession.MsgStartTimeInvalid)
	}

	if _, err := deps.SportStore.GetByID(ctx, sportID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return playsession.Session{}, apperr.Validation(playsession.MsgUnknownSport)
		}
		return playsession.Session{}, fmt.Errorf("lookup sport: %w", err)
	}

	now := deps.Now()
	s := playsession.Session{
		ID:         deps.GenerateID(),
		SportID:    sportID,
		CreatedBy:  input.Creator.ID,
		TeamA:      strings.TrimSpace(input.TeamA),
		TeamB:      strings.TrimSpace(input.TeamB),
		LookingFor: playsession.ParseLookingFor(input.LookingFor),
		StartTime:  start,
		Venue:      venue,
		Notes:      strings.TrimSpace(input.Notes),
		Status:     playsession.StatusScheduled,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Validate(); err != nil {
		return playsession.Session{}, apperr.Validation(playsession.MsgRequiredFields)
	}
	if err := deps.SessionStore.Create(ctx, s); err != nil {
		return playsession.Session{}, err
	}
	slog.Info("session_created", "session_id", s.ID, "sport_id", s.SportID, "created_by", s.CreatedBy)
	return s, nil
}
