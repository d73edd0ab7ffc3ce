package projections

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"sportsched/internal/adapters/storage/playsession"
	"sportsched/internal/application/params"
	"sportsched/internal/domain/apperr"
	"sportsched/internal/domain/authz"
	domainSession "sportsched/internal/domain/playsession"
)

// ReportQuery carries the raw report bounds.
type ReportQuery struct {
	Requester authz.Identity
	From      string
	To        string
}

// Report summarizes sessions created in a window.
type Report struct {
	From      time.Time
	To        time.Time
	Total     int
	Completed int
	Cancelled int
	BySport   []playsession.SportCount
}

// ReportDeps holds dependencies for Report.
type ReportDeps struct {
	ReportStore ReportStore
	Now         func() time.Time
	Location    *time.Location // zone for bounds without an offset; nil means time.Local
}

// QueryReport aggregates sessions created within the requested window.
// PRE: none
// POST: Unparsable bounds fall back to their defaults; Completed + Cancelled <= Total
// INVARIANT: Read only
func QueryReport(ctx context.Context, query ReportQuery, deps ReportDeps) (Report, error) {
	if !authz.IsAdmin(query.Requester) {
		return Report{}, apperr.ErrUnauthorized
	}
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	from, to := params.ReportRange(query.From, query.To, deps.Now(), loc)
	report := Report{From: from, To: to}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		report.Total, err = deps.ReportStore.CountCreatedBetween(gctx, from, to, "")
		return err
	})
	g.Go(func() error {
		var err error
		report.Completed, err = deps.ReportStore.CountCreatedBetween(gctx, from, to, domainSession.StatusCompleted)
		return err
	})
	g.Go(func() error {
		var err error
		report.Cancelled, err = deps.ReportStore.CountCreatedBetween(gctx, from, to, domainSession.StatusCancelled)
		return err
	})
	g.Go(func() error {
		var err error
		report.BySport, err = deps.ReportStore.CountBySport(gctx, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	return report, nil
}
