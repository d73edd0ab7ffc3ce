package web

import (
	"net/http"

	"sportsched/internal/adapters/http/flash"
	"sportsched/internal/adapters/http/middleware"
	"sportsched/internal/application/orchestrators"
	"sportsched/internal/domain/authz"
	"sportsched/internal/domain/user"
)

// authFormData feeds the sign-up and sign-in forms.
type authFormData struct {
	Roles []string
}

var formRoles = []string{user.RolePlayer, user.RoleAdmin}

func (srv *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if authz.IsAuthenticated(middleware.IdentityFromContext(r.Context())) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	srv.render(w, r, http.StatusOK, "index.html", "Welcome", nil)
}

func (srv *Server) handleSignUpForm(w http.ResponseWriter, r *http.Request) {
	srv.render(w, r, http.StatusOK, "signup.html", "Sign up", authFormData{Roles: formRoles})
}

func (srv *Server) handleSignInForm(w http.ResponseWriter, r *http.Request) {
	srv.render(w, r, http.StatusOK, "signin.html", "Sign in", authFormData{Roles: formRoles})
}

// handleSignUp handles POST /signup
func (srv *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithNotice(w, r, "/signup", flash.Error("Invalid form submission"))
		return
	}
	id, err := orchestrators.ExecuteSignUp(r.Context(), orchestrators.SignUpInput{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Role:     r.FormValue("role"),
	}, orchestrators.SignUpDeps{
		UserStore:  srv.stores.UserStore,
		Now:        srv.now,
		GenerateID: srv.generateID,
	})
	if err != nil {
		srv.fail(w, r, err, "/signup")
		return
	}
	srv.startSession(w, r, id, MsgSignedUp)
}

// handleSignIn handles POST /signin
func (srv *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithNotice(w, r, "/signin", flash.Error("Invalid form submission"))
		return
	}
	id, err := orchestrators.ExecuteSignIn(r.Context(), orchestrators.SignInInput{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Role:     r.FormValue("role"),
	}, orchestrators.SignInDeps{UserStore: srv.stores.UserStore})
	if err != nil {
		srv.fail(w, r, err, "/signin")
		return
	}
	srv.startSession(w, r, id, MsgSignedIn)
}

// startSession binds a fresh login session to id and sends the user to the dashboard.
// Any token the browser already carried is discarded first.
func (srv *Server) startSession(w http.ResponseWriter, r *http.Request, id authz.Identity, message string) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		srv.sessions.Delete(cookie.Value)
	}
	token, err := srv.sessions.Create(id)
	if err != nil {
		srv.internalError(w, r, err)
		return
	}
	middleware.SetSessionCookie(w, token, srv.sessions.TTL(), srv.secure)
	redirectWithNotice(w, r, "/dashboard", flash.Success(message))
}

// handleSignOut handles POST /signout
// POST: Server-side session removed and cookie cleared, even when none existed
func (srv *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		srv.sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w, srv.secure)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleDashboard renders the role-specific landing page.
func (srv *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromContext(r.Context())
	if authz.IsAdmin(id) {
		srv.render(w, r, http.StatusOK, "dashboard_admin.html", "Dashboard", nil)
		return
	}
	srv.render(w, r, http.StatusOK, "dashboard_player.html", "Dashboard", nil)
}
