package sport

import (
	"errors"
	"strings"
	"time"
)

// MsgNameRequired is shown when the sport form is submitted without a name.
const MsgNameRequired = "Sport name required"

// Domain errors
var (
	ErrEmptyName    = errors.New("sport name cannot be empty")
	ErrMissingOwner = errors.New("sport must have an owning admin")
)

// Sport is a catalog entry owned by the admin who created it.
type Sport struct {
	ID        string
	Name      string
	CreatedBy string // UserID of the owning admin
	CreatedAt time.Time
}

// Validate checks if the Sport has valid data.
// PRE: Sport struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Sport) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if s.CreatedBy == "" {
		return ErrMissingOwner
	}
	return nil
}
