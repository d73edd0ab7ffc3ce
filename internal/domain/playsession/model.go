// Package playsession models a scheduled play session and its participants.
// A play session is unrelated to the login session held by the HTTP layer.
package playsession

import (
	"errors"
	"strings"
	"time"

	"sportsched/internal/domain/apperr"
)

// Session statuses
const (
	StatusScheduled = "scheduled"
	StatusCancelled = "cancelled"
	// StatusCompleted is reserved: no operation transitions a session into it.
	StatusCompleted = "completed"
)

// ValidStatuses contains all valid session statuses.
var ValidStatuses = []string{StatusScheduled, StatusCancelled, StatusCompleted}

// Validation messages shown on the new-session form.
const (
	MsgRequiredFields   = "Sport, time and venue are required"
	MsgStartTimeInvalid = "Start time is invalid"
	MsgUnknownSport     = "Selected sport does not exist"
)

// Domain errors
var (
	ErrMissingSport   = errors.New("session must reference a sport")
	ErrMissingCreator = errors.New("session must have a creator")
	ErrMissingStart   = errors.New("session start time is required")
	ErrMissingVenue   = errors.New("session venue is required")
	ErrNegativeTarget = errors.New("looking for cannot be negative")
	ErrInvalidStatus  = errors.New("session status must be one of: scheduled, cancelled, completed")
)

// Participant is a user who joined the session.
type Participant struct {
	UserID   string
	JoinedAt time.Time
}

// Session is a scheduled play session.
type Session struct {
	ID           string
	SportID      string
	CreatedBy    string // UserID of the permanent owner
	TeamA        string
	TeamB        string
	LookingFor   int // advisory headcount, never enforced as a cap
	StartTime    time.Time
	Venue        string
	Notes        string // Markdown
	Status       string
	CancelReason string // empty means none recorded
	Participants []Participant
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks if the Session has valid data.
// PRE: Session struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Session) Validate() error {
	if s.SportID == "" {
		return ErrMissingSport
	}
	if s.CreatedBy == "" {
		return ErrMissingCreator
	}
	if s.StartTime.IsZero() {
		return ErrMissingStart
	}
	if strings.TrimSpace(s.Venue) == "" {
		return ErrMissingVenue
	}
	if s.LookingFor < 0 {
		return ErrNegativeTarget
	}
	if !isValidStatus(s.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// HasParticipant reports whether userID already joined.
// INVARIANT: Session fields are not mutated
func (s *Session) HasParticipant(userID string) bool {
	for _, p := range s.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// CheckJoin applies the join guards without mutating the session.
// A session starting exactly at now is still joinable. Status is deliberately not checked,
// so a cancelled session whose start time is in the future still accepts joins.
func (s *Session) CheckJoin(userID string, now time.Time) error {
	if s.StartTime.Before(now) {
		return apperr.ErrSessionInPast
	}
	if s.HasParticipant(userID) {
		return apperr.ErrAlreadyJoined
	}
	return nil
}

// Join appends userID to the participants.
// PRE: userID is non-empty
// POST: Participants contains userID exactly once, or an error is returned and nothing changed
func (s *Session) Join(userID string, now time.Time) (Participant, error) {
	if err := s.CheckJoin(userID, now); err != nil {
		return Participant{}, err
	}
	p := Participant{UserID: userID, JoinedAt: now}
	s.Participants = append(s.Participants, p)
	s.UpdatedAt = now
	return p, nil
}

// Cancel marks the session cancelled with an optional reason.
// Cancelling again overwrites the previous reason.
// POST: Status is cancelled, CancelReason is the trimmed reason
func (s *Session) Cancel(reason string, now time.Time) {
	s.Status = StatusCancelled
	s.CancelReason = strings.TrimSpace(reason)
	s.UpdatedAt = now
}

// IsUpcoming reports whether the session is scheduled and has not started.
func (s *Session) IsUpcoming(now time.Time) bool {
	return s.Status == StatusScheduled && !s.StartTime.Before(now)
}

// MaxLookingFor caps the advisory headcount so it fits a 32-bit column.
const MaxLookingFor = 1<<31 - 1

// ParseLookingFor reads a leading integer the way lenient form parsing does.
// Anything unparsable or negative becomes 0; values past MaxLookingFor are clamped to it.
func ParseLookingFor(raw string) int {
	raw = strings.TrimSpace(raw)
	n, i := 0, 0
	neg := false
	if i < len(raw) && (raw[i] == '+' || raw[i] == '-') {
		neg = raw[i] == '-'
		i++
	}
	start := i
	for ; i < len(raw) && raw[i] >= '0' && raw[i] <= '9'; i++ {
		if n < MaxLookingFor {
			n = int(min(int64(n)*10+int64(raw[i]-'0'), MaxLookingFor))
		}
	}
	if i == start || neg {
		return 0
	}
	return n
}

func isValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}
