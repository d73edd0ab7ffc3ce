package playsession

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"sportsched/internal/adapters/storage"
	"sportsched/internal/domain/apperr"
	domain "sportsched/internal/domain/playsession"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*SQLiteStore, *sql.DB) {
	t.Helper()
	ctx := context.Background()
	db, err := storage.Open(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(ctx, db); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	for _, id := range []string{"admin", "alice", "bob", "carol"} {
		_, err := db.ExecContext(ctx,
			"INSERT INTO users (id, name, email, password_hash, role, created_at) VALUES (?, ?, ?, 'h', 'player', ?)",
			id, id, id+"@example.com", storage.FormatTime(base))
		if err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	for _, sp := range [][2]string{{"tennis", "Tennis"}, {"squash", "Squash"}, {"golf", "Golf"}} {
		_, err := db.ExecContext(ctx,
			"INSERT INTO sport (id, name, created_by, created_at) VALUES (?, ?, 'admin', ?)",
			sp[0], sp[1], storage.FormatTime(base))
		if err != nil {
			t.Fatalf("seed sport: %v", err)
		}
	}
	return NewSQLiteStore(db), db
}

func newSession(id, sportID, owner string, start time.Time) domain.Session {
	return domain.Session{
		ID:         id,
		SportID:    sportID,
		CreatedBy:  owner,
		StartTime:  start,
		Venue:      "Court 1",
		LookingFor: 2,
		Status:     domain.StatusScheduled,
		CreatedAt:  base,
		UpdatedAt:  base,
	}
}

func mustCreate(t *testing.T, store *SQLiteStore, s domain.Session) {
	t.Helper()
	if err := store.Create(context.Background(), s); err != nil {
		t.Fatalf("Create(%s): %v", s.ID, err)
	}
}

// TestSQLiteStore_CreateAndGet verifies the round trip including nullable cancel reason.
func TestSQLiteStore_CreateAndGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	s := newSession("s1", "tennis", "alice", base.Add(24*time.Hour))
	s.TeamA = "Reds"
	s.Notes = "**bring balls**"
	mustCreate(t, store, s)

	got, err := store.GetByID(ctx, "s1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.TeamA != "Reds" || got.Notes != s.Notes || got.LookingFor != 2 || got.CancelReason != "" {
		t.Errorf("GetByID = %+v", got)
	}
	if !got.StartTime.Equal(s.StartTime) {
		t.Errorf("StartTime = %v, want %v", got.StartTime, s.StartTime)
	}
	if len(got.Participants) != 0 {
		t.Errorf("Participants = %v, want none", got.Participants)
	}

	if _, err := store.GetByID(ctx, "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("GetByID(missing) = %v, want ErrNotFound", err)
	}
}

// TestSQLiteStore_AddParticipantIsConditional verifies a second join of the same user inserts nothing.
func TestSQLiteStore_AddParticipantIsConditional(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, store, newSession("s1", "tennis", "alice", base.Add(time.Hour)))

	added, err := store.AddParticipant(ctx, "s1", domain.Participant{UserID: "bob", JoinedAt: base})
	if err != nil || !added {
		t.Fatalf("first AddParticipant = %v, %v; want true, nil", added, err)
	}
	added, err = store.AddParticipant(ctx, "s1", domain.Participant{UserID: "bob", JoinedAt: base.Add(time.Minute)})
	if err != nil || added {
		t.Fatalf("second AddParticipant = %v, %v; want false, nil", added, err)
	}
	if _, err := store.AddParticipant(ctx, "s1", domain.Participant{UserID: "carol", JoinedAt: base.Add(2 * time.Minute)}); err != nil {
		t.Fatalf("AddParticipant(carol): %v", err)
	}

	got, err := store.GetByID(ctx, "s1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Participants) != 2 || got.Participants[0].UserID != "bob" || got.Participants[1].UserID != "carol" {
		t.Errorf("Participants = %+v, want [bob carol]", got.Participants)
	}
	if !got.Participants[0].JoinedAt.Equal(base) {
		t.Errorf("bob JoinedAt = %v, want first join time", got.Participants[0].JoinedAt)
	}
}

// TestSQLiteStore_ConcurrentJoinsKeepOneRow races the same user joining from stale reads.
func TestSQLiteStore_ConcurrentJoinsKeepOneRow(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, store, newSession("s1", "tennis", "alice", base.Add(time.Hour)))

	var wg sync.WaitGroup
	var mu sync.Mutex
	inserted := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.AddParticipant(ctx, "s1", domain.Participant{UserID: "bob", JoinedAt: base})
			if err != nil {
				t.Errorf("AddParticipant: %v", err)
				return
			}
			if ok {
				mu.Lock()
				inserted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if inserted != 1 {
		t.Errorf("inserted = %d, want 1", inserted)
	}
	got, err := store.GetByID(ctx, "s1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Participants) != 1 {
		t.Errorf("Participants = %d, want 1", len(got.Participants))
	}
}

// TestSQLiteStore_SaveNeverDropsParticipants verifies a stale whole-row save keeps joined users.
func TestSQLiteStore_SaveNeverDropsParticipants(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, store, newSession("s1", "tennis", "alice", base.Add(time.Hour)))

	stale, err := store.GetByID(ctx, "s1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if _, err := store.AddParticipant(ctx, "s1", domain.Participant{UserID: "bob", JoinedAt: base}); err != nil {
		t.Fatalf("AddParticipant: %v", err)
	}

	stale.Cancel("  rain  ", base.Add(time.Minute))
	if err := store.Save(ctx, stale); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.GetByID(ctx, "s1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != domain.StatusCancelled || got.CancelReason != "rain" {
		t.Errorf("status/reason = %q/%q, want cancelled/rain", got.Status, got.CancelReason)
	}
	if len(got.Participants) != 1 || got.Participants[0].UserID != "bob" {
		t.Errorf("Participants = %+v, want bob kept", got.Participants)
	}
}

// TestSQLiteStore_SaveEmptyReasonStoresNull verifies an empty reason maps to NULL.
func TestSQLiteStore_SaveEmptyReasonStoresNull(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()
	s := newSession("s1", "tennis", "alice", base.Add(time.Hour))
	mustCreate(t, store, s)

	s.Cancel("   ", base)
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	var reason sql.NullString
	if err := db.QueryRowContext(ctx, "SELECT cancel_reason FROM play_session WHERE id = 's1'").Scan(&reason); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if reason.Valid {
		t.Errorf("cancel_reason = %q, want NULL", reason.String)
	}

	if err := store.Save(ctx, newSession("ghost", "tennis", "alice", base)); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Save(ghost) = %v, want ErrNotFound", err)
	}
}

// TestSQLiteStore_ListFilters verifies the three listing shapes used by the sessions page.
func TestSQLiteStore_ListFilters(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	now := base

	past := newSession("past", "tennis", "bob", now.Add(-time.Hour))
	soon := newSession("soon", "tennis", "bob", now.Add(time.Hour))
	later := newSession("later", "squash", "bob", now.Add(48*time.Hour))
	cancelled := newSession("cancelled", "golf", "bob", now.Add(2*time.Hour))
	cancelled.Status = domain.StatusCancelled
	mine := newSession("mine", "tennis", "alice", now.Add(3*time.Hour))
	exact := newSession("exact", "golf", "carol", now)
	for _, s := range []domain.Session{past, soon, later, cancelled, mine, exact} {
		mustCreate(t, store, s)
	}
	if _, err := store.AddParticipant(ctx, "past", domain.Participant{UserID: "alice", JoinedAt: now}); err != nil {
		t.Fatalf("AddParticipant: %v", err)
	}
	if _, err := store.AddParticipant(ctx, "later", domain.Participant{UserID: "alice", JoinedAt: now}); err != nil {
		t.Fatalf("AddParticipant: %v", err)
	}

	tests := []struct {
		name   string
		filter ListFilter
		want   []string
	}{
		{
			name:   "upcoming for alice",
			filter: ListFilter{Status: domain.StatusScheduled, StartFrom: now, ExcludeCreator: "alice", SortAsc: true},
			want:   []string{"exact", "soon", "later"},
		},
		{
			name:   "created by alice",
			filter: ListFilter{CreatedBy: "alice"},
			want:   []string{"mine"},
		},
		{
			name:   "joined by alice",
			filter: ListFilter{ParticipantID: "alice"},
			want:   []string{"later", "past"},
		},
		{
			name:   "created by bob newest first",
			filter: ListFilter{CreatedBy: "bob"},
			want:   []string{"later", "cancelled", "soon", "past"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			var ids []string
			for _, s := range got {
				ids = append(ids, s.ID)
			}
			if len(ids) != len(tt.want) {
				t.Fatalf("List = %v, want %v", ids, tt.want)
			}
			for i := range ids {
				if ids[i] != tt.want[i] {
					t.Fatalf("List = %v, want %v", ids, tt.want)
				}
			}
		})
	}
}

// TestSQLiteStore_ReportCounts verifies range bounds, status counts and the by-sport order.
func TestSQLiteStore_ReportCounts(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	add := func(id, sportID, status string, created time.Time) {
		s := newSession(id, sportID, "alice", created.Add(time.Hour))
		s.Status = status
		s.CreatedAt = created
		mustCreate(t, store, s)
	}
	add("a", "tennis", domain.StatusScheduled, base)
	add("b", "tennis", domain.StatusCancelled, base.Add(time.Hour))
	add("c", "squash", domain.StatusCompleted, base.Add(2*time.Hour))
	add("d", "golf", domain.StatusScheduled, base.Add(3*time.Hour))
	add("old", "golf", domain.StatusScheduled, base.Add(-72*time.Hour))

	from, to := base, base.Add(3*time.Hour)
	total, err := store.CountCreatedBetween(ctx, from, to, "")
	if err != nil {
		t.Fatalf("CountCreatedBetween: %v", err)
	}
	if total != 4 {
		t.Errorf("total = %d, want 4 (inclusive bounds)", total)
	}
	cancelled, _ := store.CountCreatedBetween(ctx, from, to, domain.StatusCancelled)
	completed, _ := store.CountCreatedBetween(ctx, from, to, domain.StatusCompleted)
	if cancelled != 1 || completed != 1 {
		t.Errorf("cancelled/completed = %d/%d, want 1/1", cancelled, completed)
	}

	bySport, err := store.CountBySport(ctx, from, to)
	if err != nil {
		t.Fatalf("CountBySport: %v", err)
	}
	want := []SportCount{{"Tennis", 2}, {"Golf", 1}, {"Squash", 1}}
	if len(bySport) != len(want) {
		t.Fatalf("CountBySport = %+v, want %+v", bySport, want)
	}
	for i := range want {
		if bySport[i] != want[i] {
			t.Errorf("CountBySport[%d] = %+v, want %+v", i, bySport[i], want[i])
		}
	}
}
