package web

import (
	"net/http"

	"sportsched/internal/adapters/http/flash"
	"sportsched/internal/adapters/http/middleware"
	"sportsched/internal/application/orchestrators"
	"sportsched/internal/application/projections"
	"sportsched/internal/domain/sport"
)

type adminSportsData struct {
	Sports []sport.Sport
}

type reportData struct {
	Report projections.Report
}

// handleAdminSports handles GET /admin/sports
func (srv *Server) handleAdminSports(w http.ResponseWriter, r *http.Request) {
	sports, err := projections.QueryListSports(r.Context(), projections.ListSportsQuery{
		Requester: middleware.IdentityFromContext(r.Context()),
	}, projections.ListSportsDeps{SportStore: srv.stores.SportStore})
	if err != nil {
		srv.fail(w, r, err, "/dashboard")
		return
	}
	srv.render(w, r, http.StatusOK, "admin_sports.html", "Your sports", adminSportsData{Sports: sports})
}

func (srv *Server) handleNewSportForm(w http.ResponseWriter, r *http.Request) {
	srv.render(w, r, http.StatusOK, "admin_new_sport.html", "New sport", nil)
}

// handleCreateSport handles POST /admin/sports
func (srv *Server) handleCreateSport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithNotice(w, r, "/admin/sports/new", flash.Error("Invalid form submission"))
		return
	}
	_, err := orchestrators.ExecuteCreateSport(r.Context(), orchestrators.CreateSportInput{
		Requester: middleware.IdentityFromContext(r.Context()),
		Name:      r.FormValue("name"),
	}, orchestrators.CreateSportDeps{
		SportStore: srv.stores.SportStore,
		Now:        srv.now,
		GenerateID: srv.generateID,
	})
	if err != nil {
		srv.fail(w, r, err, "/admin/sports/new")
		return
	}
	redirectWithNotice(w, r, "/admin/sports", flash.Success(MsgSportCreated))
}

// handleReports handles GET /admin/reports?from&to
func (srv *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	report, err := projections.QueryReport(r.Context(), projections.ReportQuery{
		Requester: middleware.IdentityFromContext(r.Context()),
		From:      q.Get("from"),
		To:        q.Get("to"),
	}, projections.ReportDeps{
		ReportStore: srv.stores.SessionStore,
		Now:         srv.now,
		Location:    srv.location,
	})
	if err != nil {
		srv.fail(w, r, err, "/dashboard")
		return
	}
	srv.render(w, r, http.StatusOK, "admin_reports.html", "Reports", reportData{Report: report})
}
