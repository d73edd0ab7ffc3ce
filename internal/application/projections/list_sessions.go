package projections

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"sportsched/internal/adapters/storage/playsession"
	"sportsched/internal/adapters/storage/sport"
	"sportsched/internal/domain/apperr"
	"sportsched/internal/domain/authz"
	domainSession "sportsched/internal/domain/playsession"
)

// ListSessionsQuery carries query parameters.
type ListSessionsQuery struct {
	Viewer authz.Identity
}

// SessionRow is a session decorated for list views.
type SessionRow struct {
	domainSession.Session
	SportName   string
	CreatorName string
}

// ListSessionsResult carries the three session views.
type ListSessionsResult struct {
	Upcoming  []SessionRow // joinable sessions by others, soonest first
	CreatedBy []SessionRow // sessions the viewer owns, newest start first
	JoinedBy  []SessionRow // sessions the viewer joined, newest start first
}

// ListSessionsDeps holds dependencies for ListSessions.
type ListSessionsDeps struct {
	SessionStore SessionStore
	SportStore   SportStore
	UserStore    UserStore
	Now          func() time.Time
}

// QueryListSessions builds the sessions page for the viewer.
// PRE: Viewer is authenticated
// POST: Each view is independently filtered and ordered; a failure in any view fails the whole query
func QueryListSessions(ctx context.Context, query ListSessionsQuery, deps ListSessionsDeps) (ListSessionsResult, error) {
	if !authz.IsAuthenticated(query.Viewer) {
		return ListSessionsResult{}, apperr.ErrUnauthorized
	}
	viewer := query.Viewer.ID
	now := deps.Now()

	var upcoming, created, joined []domainSession.Session
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		upcoming, err = deps.SessionStore.List(gctx, playsession.ListFilter{
			Status:         domainSession.StatusScheduled,
			StartFrom:      now,
			ExcludeCreator: viewer,
			SortAsc:        true,
		})
		return err
	})
	g.Go(func() error {
		var err error
		created, err = deps.SessionStore.List(gctx, playsession.ListFilter{CreatedBy: viewer})
		return err
	})
	g.Go(func() error {
		var err error
		joined, err = deps.SessionStore.List(gctx, playsession.ListFilter{ParticipantID: viewer})
		return err
	})
	if err := g.Wait(); err != nil {
		return ListSessionsResult{}, err
	}

	sports, err := deps.SportStore.List(ctx, sport.ListFilter{})
	if err != nil {
		return ListSessionsResult{}, err
	}
	sportNames := make(map[string]string, len(sports))
	for _, s := range sports {
		sportNames[s.ID] = s.Name
	}

	var creatorIDs []string
	for _, list := range [][]domainSession.Session{upcoming, created, joined} {
		for _, s := range list {
			creatorIDs = append(creatorIDs, s.CreatedBy)
		}
	}
	creators, err := usersByID(ctx, deps.UserStore, creatorIDs)
	if err != nil {
		return ListSessionsResult{}, err
	}

	decorate := func(list []domainSession.Session) []SessionRow {
		rows := make([]SessionRow, 0, len(list))
		for _, s := range list {
			rows = append(rows, SessionRow{
				Session:     s,
				SportName:   sportNames[s.SportID],
				CreatorName: creators[s.CreatedBy].Name,
			})
		}
		return rows
	}
	return ListSessionsResult{
		Upcoming:  decorate(upcoming),
		CreatedBy: decorate(created),
		JoinedBy:  decorate(joined),
	}, nil
}
