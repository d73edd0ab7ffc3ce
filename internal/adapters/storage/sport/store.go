package sport

import (
	"context"

	domain "sportsched/internal/domain/sport"
)

// Store persists Sport state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Sport, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Sport, error)
	Create(ctx context.Context, value domain.Sport) error
}

// ListFilter carries filtering parameters for List operations.
// Results are always ordered by name ascending.
type ListFilter struct {
	CreatedBy string // empty lists every sport
}
