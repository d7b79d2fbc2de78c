package auth

import (
	"context"
	"strings"
	"sync"

	"verdant/internal/models"
	"verdant/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// LocalClient authenticates against the operator table with bcrypt. It is
// the in-house stand-in for a hosted identity provider and emits the same
// error codes that surface would.
type LocalClient struct {
	operators repository.OperatorRepository

	mu        sync.Mutex
	current   *models.Operator
	listeners []func(operator *models.Operator)
}

// NewLocalClient creates a client with no active session.
func NewLocalClient(operators repository.OperatorRepository) *LocalClient {
	return &LocalClient{operators: operators}
}

// SignIn verifies credentials and, on success, records the session and
// notifies listeners.
func (c *LocalClient) SignIn(ctx context.Context, email, password string) (*models.Operator, error) {
	if !strings.Contains(email, "@") {
		return nil, &Error{Code: CodeInvalidEmail}
	}

	operator, err := c.operators.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if operator == nil {
		return nil, &Error{Code: CodeUserNotFound}
	}
	if operator.Disabled {
		return nil, &Error{Code: CodeInvalidCredential}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(operator.Password), []byte(password)); err != nil {
		return nil, &Error{Code: CodeWrongPassword, Err: err}
	}

	c.setCurrent(operator)
	return operator, nil
}

// SignOut clears the session and notifies listeners.
func (c *LocalClient) SignOut(ctx context.Context) error {
	c.setCurrent(nil)
	return nil
}

// OnSessionChange registers fn and invokes it immediately with the current
// session state.
func (c *LocalClient) OnSessionChange(fn func(operator *models.Operator)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	current := c.current
	c.mu.Unlock()

	fn(current)
}

func (c *LocalClient) setCurrent(operator *models.Operator) {
	c.mu.Lock()
	c.current = operator
	listeners := make([]func(*models.Operator), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(operator)
	}
}
