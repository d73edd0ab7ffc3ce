package user

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"sportsched/internal/adapters/storage"
	"sportsched/internal/domain/apperr"
	domain "sportsched/internal/domain/user"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "users.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(context.Background(), db); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	return NewSQLiteStore(db)
}

func sampleUser(id, email, role string) domain.User {
	return domain.User{
		ID:           id,
		Name:         "User " + id,
		Email:        email,
		PasswordHash: "$2a$04$hash",
		Role:         role,
		CreatedAt:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

// TestSQLiteStore_CreateAndGet verifies a created user can be read back by id and email.
func TestSQLiteStore_CreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	u := sampleUser("u1", "pat@example.com", domain.RolePlayer)
	if err := store.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}

	byID, err := store.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID.Name != u.Name || byID.Email != u.Email || byID.Role != u.Role || byID.PasswordHash != u.PasswordHash {
		t.Errorf("GetByID = %+v, want %+v", byID, u)
	}
	if !byID.CreatedAt.Equal(u.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", byID.CreatedAt, u.CreatedAt)
	}

	byEmail, err := store.GetByEmail(ctx, "pat@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != "u1" {
		t.Errorf("GetByEmail id = %s, want u1", byEmail.ID)
	}
}

// TestSQLiteStore_DuplicateEmail verifies the unique email constraint maps to ErrConflict.
func TestSQLiteStore_DuplicateEmail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	if err := store.Create(ctx, sampleUser("u1", "dup@example.com", domain.RolePlayer)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := store.Create(ctx, sampleUser("u2", "dup@example.com", domain.RoleAdmin))
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("second Create = %v, want ErrConflict", err)
	}
}

// TestSQLiteStore_GetByEmailAndRole verifies the role is part of the lookup.
func TestSQLiteStore_GetByEmailAndRole(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	if err := store.Create(ctx, sampleUser("a1", "ada@example.com", domain.RoleAdmin)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := store.GetByEmailAndRole(ctx, "ada@example.com", domain.RoleAdmin); err != nil {
		t.Errorf("matching role: %v", err)
	}
	_, err := store.GetByEmailAndRole(ctx, "ada@example.com", domain.RolePlayer)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("wrong role = %v, want ErrNotFound", err)
	}
}

// TestSQLiteStore_GetByID_NotFound verifies missing ids wrap ErrNotFound.
func TestSQLiteStore_GetByID_NotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetByID(context.Background(), "missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("GetByID = %v, want ErrNotFound", err)
	}
}

// TestSQLiteStore_ListByIDs verifies batch lookup skips unknown ids.
func TestSQLiteStore_ListByIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	for _, u := range []domain.User{
		sampleUser("u1", "one@example.com", domain.RolePlayer),
		sampleUser("u2", "two@example.com", domain.RolePlayer),
	} {
		if err := store.Create(ctx, u); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	users, err := store.ListByIDs(ctx, []string{"u1", "u2", "ghost"})
	if err != nil {
		t.Fatalf("ListByIDs: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("got %d users, want 2", len(users))
	}

	none, err := store.ListByIDs(ctx, nil)
	if err != nil || none != nil {
		t.Errorf("empty ids = %v, %v", none, err)
	}
}
