// Package auth provides the authentication client contract, its local
// email/password implementation, and the session controller gating the
// admin console.
package auth

import (
	"context"
	"fmt"

	"verdant/internal/models"
)

// Provider error codes. These are the classification surface login error
// handling is built on; anything else falls back to a generic message.
const (
	CodeInvalidCredential = "auth/invalid-credential"
	CodeUserNotFound      = "auth/user-not-found"
	CodeWrongPassword     = "auth/wrong-password"
	CodeInvalidEmail      = "auth/invalid-email"
)

// Error is a sign-in failure carrying a provider error code.
type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Client is the authentication provider contract.
type Client interface {
	// SignIn authenticates an operator. Failures carry an *Error with one
	// of the provider codes above, or an opaque error for transport faults.
	SignIn(ctx context.Context, email, password string) (*models.Operator, error)
	// SignOut ends the active session. Failures are generic.
	SignOut(ctx context.Context) error
	// OnSessionChange registers fn to run on every session transition. It
	// is invoked once immediately with the current state (possibly nil).
	OnSessionChange(fn func(operator *models.Operator))
}
