package playsession

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"sportsched/internal/adapters/storage"
	"sportsched/internal/domain/apperr"
	domain "sportsched/internal/domain/playsession"
)

const selectColumns = `SELECT s.id, s.sport_id, s.created_by, s.team_a, s.team_b, s.looking_for,
	s.start_time, s.venue, s.notes, s.status, s.cancel_reason, s.created_at, s.updated_at
	FROM play_session s`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new play session store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Session and its participants.
// PRE: id is non-empty
// POST: Returns the entity with participants ordered by join time, or an error wrapping apperr.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Session, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE s.id = ?", id)
	entity, err := scanSession(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, fmt.Errorf("session %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return domain.Session{}, err
	}
	entity.Participants, err = s.participants(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	return entity, nil
}

func (s *SQLiteStore) participants(ctx context.Context, sessionID string) ([]domain.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, joined_at FROM play_session_participant WHERE session_id = ? ORDER BY joined_at ASC, rowid ASC",
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Participant
	for rows.Next() {
		var p domain.Participant
		var joinedAt string
		if err := rows.Scan(&p.UserID, &joinedAt); err != nil {
			return nil, err
		}
		p.JoinedAt, _ = storage.ParseTime(joinedAt)
		results = append(results, p)
	}
	return results, rows.Err()
}

// List retrieves Sessions based on the filter, ordered by start time.
// Participants are not loaded.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Session, error) {
	var queryBuilder strings.Builder
	var conditions []string
	var args []any

	queryBuilder.WriteString(selectColumns)
	if filter.ParticipantID != "" {
		queryBuilder.WriteString(" JOIN play_session_participant p ON p.session_id = s.id")
		conditions = append(conditions, "p.user_id = ?")
		args = append(args, filter.ParticipantID)
	}
	if filter.Status != "" {
		conditions = append(conditions, "s.status = ?")
		args = append(args, filter.Status)
	}
	if !filter.StartFrom.IsZero() {
		conditions = append(conditions, "s.start_time >= ?")
		args = append(args, storage.FormatTime(filter.StartFrom))
	}
	if filter.ExcludeCreator != "" {
		conditions = append(conditions, "s.created_by != ?")
		args = append(args, filter.ExcludeCreator)
	}
	if filter.CreatedBy != "" {
		conditions = append(conditions, "s.created_by = ?")
		args = append(args, filter.CreatedBy)
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}
	if filter.SortAsc {
		queryBuilder.WriteString(" ORDER BY s.start_time ASC, s.id ASC")
	} else {
		queryBuilder.WriteString(" ORDER BY s.start_time DESC, s.id ASC")
	}

	rows, err := s.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Session
	for rows.Next() {
		entity, err := scanSession(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Create inserts a new Session without participants.
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Create(ctx context.Context, entity domain.Session) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO play_session
		(id, sport_id, created_by, team_a, team_b, looking_for, start_time, venue, notes, status, cancel_reason, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entity.ID,
		entity.SportID,
		entity.CreatedBy,
		entity.TeamA,
		entity.TeamB,
		entity.LookingFor,
		storage.FormatTime(entity.StartTime),
		entity.Venue,
		entity.Notes,
		entity.Status,
		storage.NullString(entity.CancelReason),
		storage.FormatTime(entity.CreatedAt),
		storage.FormatTime(entity.UpdatedAt),
	)
	return err
}

// Save writes the whole session row and adds any participants not yet stored.
// INVARIANT: stored participants are never removed or rewritten
// PRE: entity exists
// POST: Row columns match entity; returns apperr.ErrNotFound if no row was updated
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE play_session SET
		sport_id = ?, team_a = ?, team_b = ?, looking_for = ?, start_time = ?, venue = ?, notes = ?,
		status = ?, cancel_reason = ?, updated_at = ?
		WHERE id = ?`,
		entity.SportID,
		entity.TeamA,
		entity.TeamB,
		entity.LookingFor,
		storage.FormatTime(entity.StartTime),
		entity.Venue,
		entity.Notes,
		entity.Status,
		storage.NullString(entity.CancelReason),
		storage.FormatTime(entity.UpdatedAt),
		entity.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("session %s: %w", entity.ID, apperr.ErrNotFound)
	}

	for _, p := range entity.Participants {
		if _, err := tx.ExecContext(ctx, insertParticipant, entity.ID, p.UserID, storage.FormatTime(p.JoinedAt)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

const insertParticipant = `INSERT INTO play_session_participant (session_id, user_id, joined_at)
	VALUES (?, ?, ?) ON CONFLICT (session_id, user_id) DO NOTHING`

// AddParticipant inserts p unless the user already joined the session.
// PRE: session with sessionID exists
// POST: Returns true when the row was inserted, false when the user was already a participant
func (s *SQLiteStore) AddParticipant(ctx context.Context, sessionID string, p domain.Participant) (bool, error) {
	res, err := s.db.ExecContext(ctx, insertParticipant, sessionID, p.UserID, storage.FormatTime(p.JoinedAt))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		if _, err := s.db.ExecContext(ctx, "UPDATE play_session SET updated_at = ? WHERE id = ?",
			storage.FormatTime(p.JoinedAt), sessionID); err != nil {
			return true, err
		}
	}
	return n > 0, nil
}

// CountCreatedBetween counts sessions with created_at in [from, to].
// An empty status counts every status.
func (s *SQLiteStore) CountCreatedBetween(ctx context.Context, from, to time.Time, status string) (int, error) {
	query := "SELECT COUNT(*) FROM play_session WHERE created_at >= ? AND created_at <= ?"
	args := []any{storage.FormatTime(from), storage.FormatTime(to)}
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	var n int
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

// CountBySport groups sessions created in [from, to] by sport name.
// Sessions whose sport is missing are left out. Ordered by count desc, then name asc.
func (s *SQLiteStore) CountBySport(ctx context.Context, from, to time.Time) ([]SportCount, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT sp.name, COUNT(*) AS n
		FROM play_session s JOIN sport sp ON sp.id = s.sport_id
		WHERE s.created_at >= ? AND s.created_at <= ?
		GROUP BY sp.id, sp.name
		ORDER BY n DESC, sp.name ASC`,
		storage.FormatTime(from), storage.FormatTime(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SportCount
	for rows.Next() {
		var c SportCount
		if err := rows.Scan(&c.SportName, &c.Count); err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

// scanSession extracts a Session from a row scanner function.
func scanSession(scan func(dest ...any) error) (domain.Session, error) {
	var entity domain.Session
	var startTime, createdAt, updatedAt string
	var cancelReason sql.NullString
	err := scan(
		&entity.ID,
		&entity.SportID,
		&entity.CreatedBy,
		&entity.TeamA,
		&entity.TeamB,
		&entity.LookingFor,
		&startTime,
		&entity.Venue,
		&entity.Notes,
		&entity.Status,
		&cancelReason,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Session{}, err
	}
	entity.StartTime, _ = storage.ParseTime(startTime)
	entity.CreatedAt, _ = storage.ParseTime(createdAt)
	entity.UpdatedAt, _ = storage.ParseTime(updatedAt)
	entity.CancelReason = cancelReason.String
	return entity, nil
}
