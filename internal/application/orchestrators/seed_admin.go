package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"sportsched/internal/domain/apperr"
	"sportsched/internal/domain/user"
)

// SeedAdminInput carries the boot-time admin credentials.
type SeedAdminInput struct {
	Name     string
	Email    string
	Password string
}

// ExecuteSeedAdmin creates the admin account unless the email is already registered.
// PRE: Email and Password are non-empty
// POST: An account with the normalized email exists
// INVARIANT: Idempotent across restarts; an existing account is never modified
func ExecuteSeedAdmin(ctx context.Context, input SeedAdminInput, deps SignUpDeps) error {
	_, err := ExecuteSignUp(ctx, SignUpInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     user.RoleAdmin,
	}, deps)
	if errors.Is(err, apperr.ErrConflict) {
		slog.Info("seed_admin", "status", "exists")
		return nil
	}
	if err != nil {
		return err
	}
	slog.Info("seed_admin", "status", "created")
	return nil
}
