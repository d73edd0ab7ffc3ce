package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"sportsched/internal/domain/apperr"
	"sportsched/internal/domain/authz"
	"sportsched/internal/domain/sport"
)

// SportStoreForCreate defines the store interface needed by CreateSport.
type SportStoreForCreate interface {
	Create(ctx context.Context, s sport.Sport) error
}

// CreateSportInput carries input for the create-sport orchestrator.
type CreateSportInput struct {
	Requester authz.Identity
	Name      string
}

// CreateSportDeps holds dependencies for CreateSport.
type CreateSportDeps struct {
	SportStore SportStoreForCreate
	Now        func() time.Time
	GenerateID func() string
}

// ExecuteCreateSport adds a sport owned by the requesting admin.
// PRE: none
// POST: Sport persisted with CreatedBy = requester
// INVARIANT: Non-admins are rejected before the name is looked at
func ExecuteCreateSport(ctx context.Context, input CreateSportInput, deps CreateSportDeps) (sport.Sport, error) {
	if !authz.IsAdmin(input.Requester) {
		slog.Warn("authz_denied", "action", "create_sport", "user_id", input.Requester.ID)
		return sport.Sport{}, apperr.ErrUnauthorized
	}

	s := sport.Sport{
		ID:        deps.GenerateID(),
		Name:      strings.TrimSpace(input.Name),
		CreatedBy: input.Requester.ID,
		CreatedAt: deps.Now(),
	}
	if err := s.Validate(); err != nil {
		return sport.Sport{}, apperr.Validation(sport.MsgNameRequired)
	}
	if err := deps.SportStore.Create(ctx, s); err != nil {
		return sport.Sport{}, err
	}
	slog.Info("sport_created", "sport_id", s.ID, "name", s.Name, "created_by", s.CreatedBy)
	return s, nil
}
