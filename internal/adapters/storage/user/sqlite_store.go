package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sportsched/internal/adapters/storage"
	"sportsched/internal/domain/apperr"
	domain "sportsched/internal/domain/user"
)

const selectColumns = "SELECT id, name, email, password_hash, role, created_at FROM users"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new UserStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a User by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping apperr.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.User, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	return scanOne(row, "id "+id)
}

// GetByEmail retrieves a User by normalized email.
// PRE: email is normalized
// POST: Returns the entity or an error wrapping apperr.ErrNotFound
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE email = ?", email)
	return scanOne(row, "email "+email)
}

// GetByEmailAndRole retrieves a User matching both email and role.
// PRE: email is normalized
// POST: Returns the entity or an error wrapping apperr.ErrNotFound
func (s *SQLiteStore) GetByEmailAndRole(ctx context.Context, email, role string) (domain.User, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE email = ? AND role = ?", email, role)
	return scanOne(row, "email "+email)
}

// ListByIDs retrieves the Users with the given IDs, in no particular order.
// Unknown IDs are skipped.
func (s *SQLiteStore) ListByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, selectColumns+" WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.User
	for rows.Next() {
		entity, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Create inserts a new User.
// PRE: entity has been validated and its password hashed
// POST: Entity is persisted; a duplicate email returns apperr.ErrConflict
func (s *SQLiteStore) Create(ctx context.Context, entity domain.User) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, name, email, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		entity.ID,
		entity.Name,
		entity.Email,
		entity.PasswordHash,
		entity.Role,
		storage.FormatTime(entity.CreatedAt),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
		return fmt.Errorf("user %s: %w", entity.Email, apperr.ErrConflict)
	}
	return err
}

func scanOne(row *sql.Row, key string) (domain.User, error) {
	entity, err := scanUser(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, fmt.Errorf("user %s: %w", key, apperr.ErrNotFound)
	}
	return entity, err
}

// scanUser extracts a User from a row scanner function.
func scanUser(scan func(dest ...any) error) (domain.User, error) {
	var entity domain.User
	var createdAt string
	err := scan(
		&entity.ID,
		&entity.Name,
		&entity.Email,
		&entity.PasswordHash,
		&entity.Role,
		&createdAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	entity.CreatedAt, _ = storage.ParseTime(createdAt)
	return entity, nil
}
