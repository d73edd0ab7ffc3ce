package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sportsched/internal/domain/apperr"
	"sportsched/internal/domain/authz"
	"sportsched/internal/domain/user"
)

// UserStoreForSignUp defines the store interface needed by SignUp.
type UserStoreForSignUp interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, u user.User) error
}

// SignUpInput carries input for the sign-up orchestrator.
type SignUpInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// SignUpDeps holds dependencies for SignUp.
type SignUpDeps struct {
	UserStore  UserStoreForSignUp
	Now        func() time.Time
	GenerateID func() string
}

// ExecuteSignUp registers a new user and returns the identity to bind to the login session.
// PRE: none; input is validated here
// POST: On success the user is persisted with a bcrypt hash of the password
// INVARIANT: Normalized email is unique across users
func ExecuteSignUp(ctx context.Context, input SignUpInput, deps SignUpDeps) (authz.Identity, error) {
	email, err := user.ValidateSignUp(input.Name, input.Email, input.Password, input.Role)
	if err != nil {
		return authz.Identity{}, err
	}

	if _, err := deps.UserStore.GetByEmail(ctx, email); err == nil {
		slog.Info("auth_event", "event", "signup_rejected", "email", email, "reason", "email_taken")
		return authz.Identity{}, apperr.ErrConflict
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return authz.Identity{}, fmt.Errorf("check email: %w", err)
	}

	u := user.User{
		ID:        deps.GenerateID(),
		Name:      strings.TrimSpace(input.Name),
		Email:     email,
		Role:      input.Role,
		CreatedAt: deps.Now(),
	}
	if err := u.SetPassword(input.Password); err != nil {
		return authz.Identity{}, fmt.Errorf("hash password: %w", err)
	}
	if err := deps.UserStore.Create(ctx, u); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return authz.Identity{}, apperr.ErrConflict
		}
		return authz.Identity{}, err
	}

	slog.Info("auth_event", "event", "signup_success", "user_id", u.ID, "role", u.Role)
	return authz.Identity{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}, nil
}
