package projections

import (
	"context"
	"fmt"
	"sort"
	"time"

	"sportsched/internal/adapters/storage/playsession"
	"sportsched/internal/adapters/storage/sport"
	"sportsched/internal/domain/apperr"
	"sportsched/internal/domain/authz"
	domainSession "sportsched/internal/domain/playsession"
	domainSport "sportsched/internal/domain/sport"
	domainUser "sportsched/internal/domain/user"
)

var fixedTime = time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

var (
	admin = authz.Identity{ID: "admin-1", Name: "Ada", Role: domainUser.RoleAdmin}
	alice = authz.Identity{ID: "alice", Name: "Alice", Role: domainUser.RolePlayer}
	bob   = authz.Identity{ID: "bob", Name: "Bob", Role: domainUser.RolePlayer}
)

// mockSportStore serves seeded sports; it is read-only and safe for concurrent use.
type mockSportStore struct {
	sports []domainSport.Sport
}

// GetByID implements SportStore.
func (m *mockSportStore) GetByID(_ context.Context, id string) (domainSport.Sport, error) {
	for _, s := range m.sports {
		if s.ID == id {
			return s, nil
		}
	}
	return domainSport.Sport{}, fmt.Errorf("sport %s: %w", id, apperr.ErrNotFound)
}

// List implements SportStore.
func (m *mockSportStore) List(_ context.Context, filter sport.ListFilter) ([]domainSport.Sport, error) {
	var out []domainSport.Sport
	for _, s := range m.sports {
		if filter.CreatedBy == "" || s.CreatedBy == filter.CreatedBy {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// mockSessionStore applies ListFilter in memory; it is read-only and safe for concurrent use.
type mockSessionStore struct {
	sessions []domainSession.Session
	listErr  error
}

// GetByID implements SessionStore.
func (m *mockSessionStore) GetByID(_ context.Context, id string) (domainSession.Session, error) {
	for _, s := range m.sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return domainSession.Session{}, fmt.Errorf("session %s: %w", id, apperr.ErrNotFound)
}

// List implements SessionStore.
func (m *mockSessionStore) List(_ context.Context, f playsession.ListFilter) ([]domainSession.Session, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domainSession.Session
	for _, s := range m.sessions {
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		if !f.StartFrom.IsZero() && s.StartTime.Before(f.StartFrom) {
			continue
		}
		if f.ExcludeCreator != "" && s.CreatedBy == f.ExcludeCreator {
			continue
		}
		if f.CreatedBy != "" && s.CreatedBy != f.CreatedBy {
			continue
		}
		if f.ParticipantID != "" && !s.HasParticipant(f.ParticipantID) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if f.SortAsc {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].StartTime.After(out[j].StartTime)
	})
	return out, nil
}

// mockUserStore serves seeded users.
type mockUserStore struct {
	users map[string]domainUser.User
}

// ListByIDs implements UserStore.
func (m *mockUserStore) ListByIDs(_ context.Context, ids []string) ([]domainUser.User, error) {
	var out []domainUser.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// mockReportStore counts seeded sessions by created_at.
type mockReportStore struct {
	sessions []domainSession.Session
	sports   map[string]string
	gotFrom  time.Time
	gotTo    time.Time
}

func (m *mockReportStore) inRange(s domainSession.Session, from, to time.Time) bool {
	return !s.CreatedAt.Before(from) && !s.CreatedAt.After(to)
}

// CountCreatedBetween implements ReportStore.
func (m *mockReportStore) CountCreatedBetween(_ context.Context, from, to time.Time, status string) (int, error) {
	n := 0
	for _, s := range m.sessions {
		if m.inRange(s, from, to) && (status == "" || s.Status == status) {
			n++
		}
	}
	return n, nil
}

// CountBySport implements ReportStore and records the bounds it was asked for.
func (m *mockReportStore) CountBySport(_ context.Context, from, to time.Time) ([]playsession.SportCount, error) {
	m.gotFrom, m.gotTo = from, to
	counts := make(map[string]int)
	for _, s := range m.sessions {
		name, ok := m.sports[s.SportID]
		if ok && m.inRange(s, from, to) {
			counts[name]++
		}
	}
	var out []playsession.SportCount
	for name, n := range counts {
		out = append(out, playsession.SportCount{SportName: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].SportName < out[j].SportName
	})
	return out, nil
}

func testUsers() *mockUserStore {
	return &mockUserStore{users: map[string]domainUser.User{
		"admin-1": {ID: "admin-1", Name: "Ada", Email: "ada@example.com"},
		"alice":   {ID: "alice", Name: "Alice", Email: "alice@example.com"},
		"bob":     {ID: "bob", Name: "Bob", Email: "bob@example.com"},
	}}
}

func testSports() *mockSportStore {
	return &mockSportStore{sports: []domainSport.Sport{
		{ID: "tennis", Name: "Tennis", CreatedBy: "admin-1"},
		{ID: "golf", Name: "Golf", CreatedBy: "admin-1"},
		{ID: "squash", Name: "Squash", CreatedBy: "admin-2"},
	}}
}

func session(id, sportID, owner string, start time.Time) domainSession.Session {
	return domainSession.Session{
		ID:        id,
		SportID:   sportID,
		CreatedBy: owner,
		StartTime: start,
		Venue:     "Court 1",
		Status:    domainSession.StatusScheduled,
		CreatedAt: fixedTime.Add(-24 * time.Hour),
	}
}
