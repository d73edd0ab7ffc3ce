package sport

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sportsched/internal/adapters/storage"
	"sportsched/internal/domain/apperr"
	domain "sportsched/internal/domain/sport"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SportStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Sport by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping apperr.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Sport, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, name, created_by, created_at FROM sport WHERE id = ?", id)
	entity, err := scanSport(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Sport{}, fmt.Errorf("sport %s: %w", id, apperr.ErrNotFound)
	}
	return entity, err
}

// List retrieves Sports based on the filter, ordered by name.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Sport, error) {
	var queryBuilder strings.Builder
	var args []any

	queryBuilder.WriteString("SELECT id, name, created_by, created_at FROM sport")
	if filter.CreatedBy != "" {
		queryBuilder.WriteString(" WHERE created_by = ?")
		args = append(args, filter.CreatedBy)
	}
	queryBuilder.WriteString(" ORDER BY name ASC, id ASC")

	rows, err := s.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Sport
	for rows.Next() {
		entity, err := scanSport(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Create inserts a new Sport.
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Create(ctx context.Context, entity domain.Sport) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO sport (id, name, created_by, created_at) VALUES (?, ?, ?, ?)",
		entity.ID,
		entity.Name,
		entity.CreatedBy,
		storage.FormatTime(entity.CreatedAt),
	)
	return err
}

// scanSport extracts a Sport from a row scanner function.
func scanSport(scan func(dest ...any) error) (domain.Sport, error) {
	var entity domain.Sport
	var createdAt string
	if err := scan(&entity.ID, &entity.Name, &entity.CreatedBy, &createdAt); err != nil {
		return domain.Sport{}, err
	}
	entity.CreatedAt, _ = storage.ParseTime(createdAt)
	return entity, nil
}
