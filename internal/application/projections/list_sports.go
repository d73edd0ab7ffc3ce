package projections

import (
	"context"

	"sportsched/internal/adapters/storage/sport"
	"sportsched/internal/domain/apperr"
	"sportsched/internal/domain/authz"
	domainSport "sportsched/internal/domain/sport"
)

// ListSportsQuery carries query parameters.
type ListSportsQuery struct {
	Requester authz.Identity
}

// ListSportsDeps holds dependencies for ListSports and ListSportOptions.
type ListSportsDeps struct {
	SportStore SportStore
}

// QueryListSports returns the sports owned by the requesting admin.
// PRE: none
// POST: Sports ordered by name; non-admins get apperr.ErrUnauthorized
func QueryListSports(ctx context.Context, query ListSportsQuery, deps ListSportsDeps) ([]domainSport.Sport, error) {
	if !authz.IsAdmin(query.Requester) {
		return nil, apperr.ErrUnauthorized
	}
	return deps.SportStore.List(ctx, sport.ListFilter{CreatedBy: query.Requester.ID})
}

// QueryListSportOptions returns every sport for the new-session form.
// POST: Sports ordered by name
func QueryListSportOptions(ctx context.Context, deps ListSportsDeps) ([]domainSport.Sport, error) {
	return deps.SportStore.List(ctx, sport.ListFilter{})
}
