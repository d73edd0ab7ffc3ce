package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"sportsched/internal/adapters/http/flash"
	"sportsched/internal/adapters/http/middleware"
	"sportsched/internal/domain/apperr"
	"sportsched/internal/domain/authz"
)

//go:embed templates/*.html static/*
var assets embed.FS

// User-facing notices.
const (
	MsgSignedUp           = "Signed up successfully"
	MsgSignedIn           = "Signed in"
	MsgSportCreated       = "Sport created"
	MsgSessionCreated     = "Session created"
	MsgJoined             = "Joined session"
	MsgCancelled          = "Session cancelled"
	MsgEmailInUse         = "Email already in use"
	MsgInvalidCredentials = "Invalid email or password"
	MsgSessionNotFound    = "Session not found"
	MsgAlreadyJoined      = "Already joined"
	MsgSessionInPast      = "Cannot join a past session"
	MsgCancelNotAllowed   = "Not authorized to cancel this session"
)

const layoutFile = "layout.html"

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is omitted (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// pageTemplate is the layout plus one page, parsed once at startup.
type pageTemplate struct {
	tpl *template.Template
}

// view is what every page template receives.
type view struct {
	Title     string
	Identity  authz.Identity
	SignedIn  bool
	IsAdmin   bool
	Notice    *flash.Notice
	CSRFField template.HTML
	Data      any
}

// parsePages pairs the layout with each page template.
func parsePages(funcs template.FuncMap) (map[string]*pageTemplate, error) {
	names, err := fs.Glob(assets, "templates/*.html")
	if err != nil {
		return nil, err
	}
	pages := make(map[string]*pageTemplate, len(names))
	for _, name := range names {
		base := path.Base(name)
		if base == layoutFile {
			continue
		}
		tpl, err := template.New(layoutFile).Funcs(funcs).ParseFS(assets, "templates/"+layoutFile, name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", base, err)
		}
		pages[base] = &pageTemplate{tpl: tpl}
	}
	return pages, nil
}

func (srv *Server) funcMap() template.FuncMap {
	return template.FuncMap{
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.In(srv.location).Format("Mon 2 Jan 2006, 15:04")
		},
		"datetimeLocal": func(t time.Time) string {
			return t.In(srv.location).Format("2006-01-02T15:04")
		},
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"title": func(s string) string {
			return cases.Title(language.English).String(s)
		},
	}
}

// render writes a full page with the given status.
// The pending flash notice is consumed here.
func (srv *Server) render(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	pt, ok := srv.pages[page]
	if !ok {
		srv.internalError(w, r, fmt.Errorf("unknown template %q", page))
		return
	}
	id := middleware.IdentityFromContext(r.Context())
	v := view{
		Title:     title,
		Identity:  id,
		SignedIn:  authz.IsAuthenticated(id),
		IsAdmin:   authz.IsAdmin(id),
		CSRFField: csrf.TemplateField(r),
		Data:      data,
	}
	if notice, ok := flash.ReadAndClear(w, r); ok {
		v.Notice = &notice
	}

	var buf bytes.Buffer
	if err := pt.tpl.Execute(&buf, v); err != nil {
		if page == "500.html" {
			slog.Error("render_failed", "template", page, "error", err.Error())
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		srv.internalError(w, r, fmt.Errorf("render %s: %w", page, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// internalError logs the real error and renders a generic 500 page.
// This prevents leaking internal details to the client.
func (srv *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	srv.logger.Error("internal_error",
		"error", err.Error(),
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", chimw.GetReqID(r.Context()),
	)
	srv.render(w, r, http.StatusInternalServerError, "500.html", "Something went wrong", nil)
}

// redirectWithNotice sets the flash notice and sends a 303 to target.
func redirectWithNotice(w http.ResponseWriter, r *http.Request, target string, notice flash.Notice) {
	flash.Write(w, r, notice)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// userMessages maps a classified failure to its notice text.
// POST: ok is false for unclassified errors, which must become a 500
func userMessages(err error) (messages []string, ok bool) {
	if msgs, isValidation := apperr.ValidationMessages(err); isValidation {
		return msgs, true
	}
	switch {
	case errors.Is(err, apperr.ErrConflict):
		return []string{MsgEmailInUse}, true
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return []string{MsgInvalidCredentials}, true
	case errors.Is(err, apperr.ErrNotFound):
		return []string{MsgSessionNotFound}, true
	case errors.Is(err, apperr.ErrAlreadyJoined):
		return []string{MsgAlreadyJoined}, true
	case errors.Is(err, apperr.ErrSessionInPast):
		return []string{MsgSessionInPast}, true
	case errors.Is(err, apperr.ErrUnauthorized):
		return []string{middleware.MsgAdminRequired}, true
	}
	return nil, false
}

// fail turns err into a flash notice plus redirect, or a 500 page when unclassified.
func (srv *Server) fail(w http.ResponseWriter, r *http.Request, err error, target string) {
	msgs, ok := userMessages(err)
	if !ok {
		srv.internalError(w, r, err)
		return
	}
	redirectWithNotice(w, r, target, flash.Error(msgs...))
}

func (srv *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	srv.render(w, r, http.StatusNotFound, "404.html", "Not found", nil)
}
