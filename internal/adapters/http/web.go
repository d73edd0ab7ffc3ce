package web

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"sportsched/internal/adapters/http/middleware"
	sessionStore "sportsched/internal/adapters/storage/playsession"
	sportStore "sportsched/internal/adapters/storage/sport"
	userStore "sportsched/internal/adapters/storage/user"
)

// Stores holds all storage dependencies.
type Stores struct {
	UserStore    userStore.Store
	SportStore   sportStore.Store
	SessionStore sessionStore.Store
}

// Options configures NewServer.
type Options struct {
	CSRFKey       []byte        // 32 bytes
	Secure        bool          // production: Secure cookies and HTTPS referer checks
	SessionTTL    time.Duration // login session lifetime
	SlowRequest   time.Duration // WARN threshold for request logging
	Location      *time.Location
	AuthRateLimit int // sign-in and sign-up attempts per minute per IP
	Logger        *slog.Logger
}

// DefaultAuthRateLimit is the per-minute sign-in/sign-up allowance per IP.
const DefaultAuthRateLimit = 20

// Server holds the request-independent state shared by all handlers.
// Caller identity never lives here; it travels with each request.
type Server struct {
	stores      *Stores
	sessions    *middleware.SessionStore
	pages       map[string]*pageTemplate
	csrfKey     []byte
	secure      bool
	slowRequest time.Duration
	location    *time.Location
	authLimiter *middleware.RateLimiter
	logger      *slog.Logger
	now         func() time.Time
	generateID  func() string
}

// NewServer builds a Server and parses every page template.
// PRE: stores are non-nil and opts.CSRFKey is 32 bytes
// POST: Returns a Server ready to serve Handler()
func NewServer(stores *Stores, opts Options) (*Server, error) {
	if len(opts.CSRFKey) != 32 {
		return nil, fmt.Errorf("csrf key must be 32 bytes, got %d", len(opts.CSRFKey))
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := opts.AuthRateLimit
	if limit <= 0 {
		limit = DefaultAuthRateLimit
	}

	srv := &Server{
		stores:      stores,
		sessions:    middleware.NewSessionStore(opts.SessionTTL),
		csrfKey:     opts.CSRFKey,
		secure:      opts.Secure,
		slowRequest: opts.SlowRequest,
		location:    loc,
		authLimiter: middleware.NewRateLimiter(limit, time.Minute),
		logger:      logger,
		now:         time.Now,
		generateID:  func() string { return uuid.New().String() },
	}
	pages, err := parsePages(srv.funcMap())
	if err != nil {
		return nil, err
	}
	srv.pages = pages
	return srv, nil
}

// NewMux wires HTTP handlers for the app.
func NewMux(stores *Stores, opts Options) (http.Handler, error) {
	srv, err := NewServer(stores, opts)
	if err != nil {
		return nil, err
	}
	return srv.Handler(), nil
}

// Handler returns the full middleware stack and routes.
// Order, outer to inner: RequestID -> Timing -> Recoverer -> SecurityHeaders -> CSRF -> Auth -> routes.
func (srv *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Timing(srv.slowRequest, srv.logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders)

	staticFS, _ := fs.Sub(assets, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	r.Group(func(r chi.Router) {
		r.Use(middleware.CSRF(srv.csrfKey, srv.secure))
		r.Use(middleware.Auth(srv.sessions))
		srv.registerRoutes(r)
	})
	return r
}

// registerRoutes mounts every page route on r.
func (srv *Server) registerRoutes(r chi.Router) {
	r.Get("/", srv.handleIndex)
	r.NotFound(srv.handleNotFound)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RedirectIfSignedIn)
		r.Get("/signup", srv.handleSignUpForm)
		r.Get("/signin", srv.handleSignInForm)
		r.With(middleware.RateLimit(srv.authLimiter)).Post("/signup", srv.handleSignUp)
		r.With(middleware.RateLimit(srv.authLimiter)).Post("/signin", srv.handleSignIn)
	})
	r.Post("/signout", srv.handleSignOut)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/dashboard", srv.handleDashboard)

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", srv.handleSessions)
			r.Post("/", srv.handleCreateSession)
			r.Get("/new", srv.handleNewSessionForm)
			r.Post("/new", srv.handleCreateSession)
			r.Get("/{id}", srv.handleSessionDetail)
			r.Post("/{id}/join", srv.handleJoinSession)
			r.Post("/{id}/cancel", srv.handleCancelSession)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/sports", srv.handleAdminSports)
		r.Post("/sports", srv.handleCreateSport)
		r.Get("/sports/new", srv.handleNewSportForm)
		r.Get("/reports", srv.handleReports)
	})
}
