package user

import (
	"context"

	domain "sportsched/internal/domain/user"
)

// Store persists User state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByEmailAndRole(ctx context.Context, email, role string) (domain.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.User, error)
	Create(ctx context.Context, value domain.User) error
}
