package projections

import (
	"context"
	"time"

	"sportsched/internal/adapters/storage/playsession"
	"sportsched/internal/adapters/storage/sport"
	domainSession "sportsched/internal/domain/playsession"
	domainSport "sportsched/internal/domain/sport"
	domainUser "sportsched/internal/domain/user"
)

// SportStore interface for sport queries.
type SportStore interface {
	GetByID(ctx context.Context, id string) (domainSport.Sport, error)
	List(ctx context.Context, filter sport.ListFilter) ([]domainSport.Sport, error)
}

// SessionStore interface for play session queries.
type SessionStore interface {
	GetByID(ctx context.Context, id string) (domainSession.Session, error)
	List(ctx context.Context, filter playsession.ListFilter) ([]domainSession.Session, error)
}

// ReportStore interface for report aggregates.
type ReportStore interface {
	CountCreatedBetween(ctx context.Context, from, to time.Time, status string) (int, error)
	CountBySport(ctx context.Context, from, to time.Time) ([]playsession.SportCount, error)
}

// UserStore interface for user lookups.
type UserStore interface {
	ListByIDs(ctx context.Context, ids []string) ([]domainUser.User, error)
}

// usersByID loads the named users into a map, deduplicating ids.
func usersByID(ctx context.Context, store UserStore, ids []string) (map[string]domainUser.User, error) {
	seen := make(map[string]bool, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	users, err := store.ListByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	result := make(map[string]domainUser.User, len(users))
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}
