package web

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"sportsched/internal/adapters/storage"
	sessionStore "sportsched/internal/adapters/storage/playsession"
	sportStore "sportsched/internal/adapters/storage/sport"
	userStore "sportsched/internal/adapters/storage/user"
	"sportsched/internal/domain/user"
)

func init() {
	user.PasswordCost = bcrypt.MinCost
}

var (
	testKey   = []byte("0123456789abcdef0123456789abcdef")
	fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	csrfTokenRe = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)
	sessionIDRe = regexp.MustCompile(`href="/sessions/([0-9a-f-]{36})"`)
)

// newTestApp starts the full handler stack over a temp SQLite database.
func newTestApp(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	db, err := storage.Open(filepath.Join(t.TempDir(), "web.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(ctx, db); err != nil {
		t.Fatalf("InitDB: %v", err)
	}

	srv, err := NewServer(&Stores{
		UserStore:    userStore.NewSQLiteStore(db),
		SportStore:   sportStore.NewSQLiteStore(db),
		SessionStore: sessionStore.NewSQLiteStore(db),
	}, Options{
		CSRFKey:  testKey,
		Location: time.UTC,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	srv.now = func() time.Time { return fixedTime }

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

// browser is a cookie-keeping client that does not follow redirects.
type browser struct {
	t    *testing.T
	base string
	hc   *http.Client
}

func newBrowser(t *testing.T, ts *httptest.Server) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &browser{
		t:    t,
		base: ts.URL,
		hc: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// get fetches path and returns the status, Location header and body.
func (b *browser) get(path string) (int, string, string) {
	b.t.Helper()
	resp, err := b.hc.Get(b.base + path)
	if err != nil {
		b.t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, resp.Header.Get("Location"), string(body)
}

// token reads the anti-forgery token from a page rendering a form.
func (b *browser) token(formPage string) string {
	b.t.Helper()
	_, _, body := b.get(formPage)
	m := csrfTokenRe.FindStringSubmatch(body)
	if m == nil {
		b.t.Fatalf("no csrf token on %s", formPage)
	}
	return m[1]
}

// post submits values to path with a token taken from formPage.
// It returns the status and redirect target.
func (b *browser) post(formPage, path string, values url.Values) (int, string) {
	b.t.Helper()
	if values == nil {
		values = url.Values{}
	}
	values.Set("csrf_token", b.token(formPage))
	return b.postRaw(path, values)
}

func (b *browser) postRaw(path string, values url.Values) (int, string) {
	b.t.Helper()
	resp, err := b.hc.PostForm(b.base+path, values)
	if err != nil {
		b.t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, resp.Header.Get("Location")
}

// expectRedirect asserts a 303 to want, then follows it and returns the page body.
func (b *browser) expectRedirect(status int, location, want string) string {
	b.t.Helper()
	if status != http.StatusSeeOther || location != want {
		b.t.Fatalf("got %d -> %q, want 303 -> %q", status, location, want)
	}
	_, _, body := b.get(location)
	return body
}

func (b *browser) signUp(name, email, role string) {
	b.t.Helper()
	status, loc := b.post("/signup", "/signup", url.Values{
		"name": {name}, "email": {email}, "password": {"secret123"}, "role": {role},
	})
	body := b.expectRedirect(status, loc, "/dashboard")
	if !strings.Contains(body, MsgSignedUp) {
		b.t.Fatalf("dashboard missing %q", MsgSignedUp)
	}
}

func assertContains(t *testing.T, body string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}
