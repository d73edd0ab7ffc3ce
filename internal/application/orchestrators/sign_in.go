package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"sportsched/internal/domain/apperr"
	"sportsched/internal/domain/authz"
	"sportsched/internal/domain/user"
)

// UserStoreForSignIn defines the store interface needed by SignIn.
type UserStoreForSignIn interface {
	GetByEmailAndRole(ctx context.Context, email, role string) (user.User, error)
}

// SignInInput carries input for the sign-in orchestrator.
type SignInInput struct {
	Email    string
	Password string
	Role     string
}

// SignInDeps holds dependencies for SignIn.
type SignInDeps struct {
	UserStore UserStoreForSignIn
}

// dummyHash is compared against when no user matches so both failure paths run bcrypt.
var dummyHash = sync.OnceValue(func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte("sportsched-dummy-password"), user.PasswordCost)
	if err != nil {
		return ""
	}
	return string(hash)
})

// ExecuteSignIn verifies credentials for the requested role.
// PRE: none; input shape is validated here
// POST: Returns the identity on success; every credential failure is apperr.ErrInvalidCredentials
// INVARIANT: No user data is modified
func ExecuteSignIn(ctx context.Context, input SignInInput, deps SignInDeps) (authz.Identity, error) {
	email, err := user.ValidateSignIn(input.Email, input.Password, input.Role)
	if err != nil {
		return authz.Identity{}, err
	}

	u, err := deps.UserStore.GetByEmailAndRole(ctx, email, input.Role)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			return authz.Identity{}, err
		}
		decoy := user.User{PasswordHash: dummyHash()}
		decoy.CheckPassword(input.Password)
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "not_found")
		return authz.Identity{}, apperr.ErrInvalidCredentials
	}

	if !u.CheckPassword(input.Password) {
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "wrong_password")
		return authz.Identity{}, apperr.ErrInvalidCredentials
	}

	slog.Info("auth_event", "event", "login_success", "email", email, "role", u.Role)
	return authz.Identity{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}, nil
}
