package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sportsched/internal/adapters/http/flash"
	"sportsched/internal/adapters/http/middleware"
	"sportsched/internal/application/orchestrators"
	"sportsched/internal/application/projections"
	"sportsched/internal/domain/apperr"
	"sportsched/internal/domain/sport"
)

type newSessionData struct {
	Sports []sport.Sport
}

type sessionDetailData struct {
	Detail projections.SessionDetail
}

func sessionPath(id string) string {
	return "/sessions/" + id
}

// handleSessions handles GET /sessions
func (srv *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryListSessions(r.Context(), projections.ListSessionsQuery{
		Viewer: middleware.IdentityFromContext(r.Context()),
	}, projections.ListSessionsDeps{
		SessionStore: srv.stores.SessionStore,
		SportStore:   srv.stores.SportStore,
		UserStore:    srv.stores.UserStore,
		Now:          srv.now,
	})
	if err != nil {
		srv.fail(w, r, err, "/signin")
		return
	}
	srv.render(w, r, http.StatusOK, "sessions_index.html", "Sessions", result)
}

// handleNewSessionForm handles GET /sessions/new
func (srv *Server) handleNewSessionForm(w http.ResponseWriter, r *http.Request) {
	sports, err := projections.QueryListSportOptions(r.Context(), projections.ListSportsDeps{
		SportStore: srv.stores.SportStore,
	})
	if err != nil {
		srv.internalError(w, r, err)
		return
	}
	srv.render(w, r, http.StatusOK, "sessions_new.html", "New session", newSessionData{Sports: sports})
}

// handleCreateSession handles POST /sessions and POST /sessions/new
func (srv *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithNotice(w, r, "/sessions/new", flash.Error("Invalid form submission"))
		return
	}
	_, err := orchestrators.ExecuteCreateSession(r.Context(), orchestrators.CreateSessionInput{
		Creator:    middleware.IdentityFromContext(r.Context()),
		SportID:    r.FormValue("sport_id"),
		TeamA:      r.FormValue("team_a"),
		TeamB:      r.FormValue("team_b"),
		LookingFor: r.FormValue("looking_for"),
		StartTime:  r.FormValue("start_time"),
		Venue:      r.FormValue("venue"),
		Notes:      r.FormValue("notes"),
	}, orchestrators.CreateSessionDeps{
		SessionStore: srv.stores.SessionStore,
		SportStore:   srv.stores.SportStore,
		Now:          srv.now,
		GenerateID:   srv.generateID,
		Location:     srv.location,
	})
	if err != nil {
		srv.fail(w, r, err, "/sessions/new")
		return
	}
	redirectWithNotice(w, r, "/sessions", flash.Success(MsgSessionCreated))
}

// handleSessionDetail handles GET /sessions/{id}
func (srv *Server) handleSessionDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := projections.QuerySessionDetail(r.Context(), projections.SessionDetailQuery{
		Viewer:    middleware.IdentityFromContext(r.Context()),
		SessionID: chi.URLParam(r, "id"),
	}, projections.SessionDetailDeps{
		SessionStore: srv.stores.SessionStore,
		SportStore:   srv.stores.SportStore,
		UserStore:    srv.stores.UserStore,
		Now:          srv.now,
	})
	if err != nil {
		srv.fail(w, r, err, "/sessions")
		return
	}
	title := "Session"
	if detail.SportName != "" {
		title = detail.SportName + " session"
	}
	srv.render(w, r, http.StatusOK, "sessions_show.html", title, sessionDetailData{Detail: detail})
}

// handleJoinSession handles POST /sessions/{id}/join
func (srv *Server) handleJoinSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_, err := orchestrators.ExecuteJoinSession(r.Context(), orchestrators.JoinSessionInput{
		Identity:  middleware.IdentityFromContext(r.Context()),
		SessionID: id,
	}, orchestrators.JoinSessionDeps{
		SessionStore: srv.stores.SessionStore,
		Now:          srv.now,
	})
	switch {
	case err == nil:
		redirectWithNotice(w, r, sessionPath(id), flash.Success(MsgJoined))
	case errors.Is(err, apperr.ErrNotFound):
		srv.fail(w, r, err, "/sessions")
	default:
		srv.fail(w, r, err, sessionPath(id))
	}
}

// handleCancelSession handles POST /sessions/{id}/cancel
func (srv *Server) handleCancelSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		redirectWithNotice(w, r, sessionPath(id), flash.Error("Invalid form submission"))
		return
	}
	_, err := orchestrators.ExecuteCancelSession(r.Context(), orchestrators.CancelSessionInput{
		Identity:  middleware.IdentityFromContext(r.Context()),
		SessionID: id,
		Reason:    r.FormValue("reason"),
	}, orchestrators.CancelSessionDeps{
		SessionStore: srv.stores.SessionStore,
		Now:          srv.now,
	})
	switch {
	case err == nil:
		redirectWithNotice(w, r, sessionPath(id), flash.Success(MsgCancelled))
	case errors.Is(err, apperr.ErrNotFound):
		srv.fail(w, r, err, "/sessions")
	case errors.Is(err, apperr.ErrUnauthorized):
		redirectWithNotice(w, r, sessionPath(id), flash.Error(MsgCancelNotAllowed))
	default:
		srv.fail(w, r, err, sessionPath(id))
	}
}
