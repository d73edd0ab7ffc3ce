package orchestrators

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"sportsched/internal/domain/apperr"
	"sportsched/internal/domain/authz"
	"sportsched/internal/domain/playsession"
	"sportsched/internal/domain/sport"
	"sportsched/internal/domain/user"
)

func init() {
	user.PasswordCost = bcrypt.MinCost
}

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedID() string { return "test-id-001" }

var (
	admin  = authz.Identity{ID: "admin-1", Name: "Ada", Email: "ada@example.com", Role: user.RoleAdmin}
	alice  = authz.Identity{ID: "alice", Name: "Alice", Email: "alice@example.com", Role: user.RolePlayer}
	bob    = authz.Identity{ID: "bob", Name: "Bob", Email: "bob@example.com", Role: user.RolePlayer}
	nobody = authz.Identity{}
)

// mockUserStore implements the user store interfaces for testing.
type mockUserStore struct {
	users   map[string]user.User // keyed by email
	created int
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[string]user.User)}
}

// GetByEmail implements UserStoreForSignUp.
func (m *mockUserStore) GetByEmail(_ context.Context, email string) (user.User, error) {
	u, ok := m.users[email]
	if !ok {
		return user.User{}, fmt.Errorf("user %s: %w", email, apperr.ErrNotFound)
	}
	return u, nil
}

// GetByEmailAndRole implements UserStoreForSignIn.
func (m *mockUserStore) GetByEmailAndRole(ctx context.Context, email, role string) (user.User, error) {
	u, err := m.GetByEmail(ctx, email)
	if err != nil || u.Role != role {
		return user.User{}, fmt.Errorf("user %s: %w", email, apperr.ErrNotFound)
	}
	return u, nil
}

// Create implements UserStoreForSignUp.
func (m *mockUserStore) Create(_ context.Context, u user.User) error {
	if _, ok := m.users[u.Email]; ok {
		return apperr.ErrConflict
	}
	m.users[u.Email] = u
	m.created++
	return nil
}

// mockSportStore implements SportStoreForCreate and SportStoreForLookup.
type mockSportStore struct {
	sports map[string]sport.Sport
}

func newMockSportStore(seed ...sport.Sport) *mockSportStore {
	m := &mockSportStore{sports: make(map[string]sport.Sport)}
	for _, s := range seed {
		m.sports[s.ID] = s
	}
	return m
}

// Create implements SportStoreForCreate.
func (m *mockSportStore) Create(_ context.Context, s sport.Sport) error {
	m.sports[s.ID] = s
	return nil
}

// GetByID implements SportStoreForLookup.
func (m *mockSportStore) GetByID(_ context.Context, id string) (sport.Sport, error) {
	s, ok := m.sports[id]
	if !ok {
		return sport.Sport{}, fmt.Errorf("sport %s: %w", id, apperr.ErrNotFound)
	}
	return s, nil
}

// mockSessionStore implements the play session store interfaces for testing.
// AddParticipant mirrors the conditional insert of the SQLite store.
type mockSessionStore struct {
	mu       sync.Mutex
	sessions map[string]playsession.Session
	saves    int
}

func newMockSessionStore(seed ...playsession.Session) *mockSessionStore {
	m := &mockSessionStore{sessions: make(map[string]playsession.Session)}
	for _, s := range seed {
		m.sessions[s.ID] = s
	}
	return m
}

// GetByID returns a copy so callers mutate only their own participants slice.
func (m *mockSessionStore) GetByID(_ context.Context, id string) (playsession.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return playsession.Session{}, fmt.Errorf("session %s: %w", id, apperr.ErrNotFound)
	}
	s.Participants = append([]playsession.Participant(nil), s.Participants...)
	return s, nil
}

// Create implements SessionStoreForCreate.
func (m *mockSessionStore) Create(_ context.Context, s playsession.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

// Save implements SessionStoreForCancel.
func (m *mockSessionStore) Save(_ context.Context, s playsession.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := m.sessions[s.ID]
	s.Participants = stored.Participants
	m.sessions[s.ID] = s
	m.saves++
	return nil
}

// AddParticipant implements SessionStoreForJoin.
func (m *mockSessionStore) AddParticipant(_ context.Context, sessionID string, p playsession.Participant) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.sessions[sessionID]
	if s.HasParticipant(p.UserID) {
		return false, nil
	}
	s.Participants = append(s.Participants, p)
	m.sessions[sessionID] = s
	return true, nil
}

func futureSession(id, owner string) playsession.Session {
	return playsession.Session{
		ID:        id,
		SportID:   "tennis",
		CreatedBy: owner,
		StartTime: fixedTime.Add(24 * time.Hour),
		Venue:     "Court 1",
		Status:    playsession.StatusScheduled,
		CreatedAt: fixedTime.Add(-time.Hour),
		UpdatedAt: fixedTime.Add(-time.Hour),
	}
}
