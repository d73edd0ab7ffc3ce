package playsession

import (
	"context"
	"time"

	domain "sportsched/internal/domain/playsession"
)

// Store persists play Session state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Session, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Session, error)
	Create(ctx context.Context, value domain.Session) error
	Save(ctx context.Context, value domain.Session) error
	AddParticipant(ctx context.Context, sessionID string, p domain.Participant) (bool, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time, status string) (int, error)
	CountBySport(ctx context.Context, from, to time.Time) ([]SportCount, error)
}

// ListFilter carries filtering parameters for List operations.
// Zero values disable the corresponding condition.
type ListFilter struct {
	Status         string
	StartFrom      time.Time // inclusive lower bound on start time
	ExcludeCreator string
	CreatedBy      string
	ParticipantID  string
	SortAsc        bool // start time ascending; descending otherwise
}

// SportCount is one row of the by-sport report breakdown.
type SportCount struct {
	SportName string
	Count     int
}
