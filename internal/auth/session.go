package auth

import (
	"context"
	"errors"
	"sync"

	"verdant/internal/middleware"
	"verdant/internal/models"
	"verdant/internal/readiness"
)

// Login failure messages keyed by provider code. Unknown codes get the
// generic fallback so transport faults never leak internals to the form.
var loginMessages = map[string]string{
	CodeInvalidCredential: "Invalid email or password",
	CodeUserNotFound:      "No account found with this email",
	CodeWrongPassword:     "Incorrect password",
	CodeInvalidEmail:      "Invalid email address",
}

const (
	loginFallbackMessage = "Login failed. Please try again."
	logoutFailedMessage  = "Error logging out. Please try again."
)

// LoginMessage maps a sign-in error to the message shown on the login form.
func LoginMessage(err error) string {
	var authErr *Error
	if errors.As(err, &authErr) {
		if msg, ok := loginMessages[authErr.Code]; ok {
			return msg
		}
	}
	return loginFallbackMessage
}

// Controller tracks the admin console session: which operator is signed in
// and which post, if any, is open in the editor. It replaces the pair of
// globals the console previously leaned on.
type Controller struct {
	client Client

	mu            sync.Mutex
	operator      *models.Operator
	editingPostID string
	onChange      []func(operator *models.Operator)
}

// NewController creates a controller bound to the given auth client.
func NewController(client Client) *Controller {
	return &Controller{client: client}
}

// Start attaches the controller to the auth client once the backend signals
// ready. Session transitions before that point are dropped on purpose; the
// console shows nothing until the store is reachable.
func (c *Controller) Start(signal *readiness.Signal) {
	signal.Subscribe(func() {
		c.client.OnSessionChange(func(operator *models.Operator) {
			c.mu.Lock()
			c.operator = operator
			if operator == nil {
				c.editingPostID = ""
			}
			handlers := make([]func(*models.Operator), len(c.onChange))
			copy(handlers, c.onChange)
			c.mu.Unlock()

			for _, fn := range handlers {
				fn(operator)
			}
			middleware.Logger.Debug("session state changed", "signed_in", operator != nil)
		})
	})
}

// OnChange registers fn to run on every session transition the controller
// observes.
func (c *Controller) OnChange(fn func(operator *models.Operator)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = append(c.onChange, fn)
}

// Login signs the operator in. On failure it returns the form message for
// the provider code alongside the underlying error.
func (c *Controller) Login(ctx context.Context, email, password string) (*models.Operator, string, error) {
	operator, err := c.client.SignIn(ctx, email, password)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "login failed", "error", err)
		return nil, LoginMessage(err), err
	}
	return operator, "", nil
}

// Logout ends the session.
func (c *Controller) Logout(ctx context.Context) (string, error) {
	if err := c.client.SignOut(ctx); err != nil {
		middleware.Logger.ErrorContext(ctx, "logout failed", "error", err)
		return logoutFailedMessage, err
	}
	return "", nil
}

// Operator returns the signed-in operator, or nil.
func (c *Controller) Operator() *models.Operator {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.operator
}

// SignedIn reports whether an operator session is active.
func (c *Controller) SignedIn() bool {
	return c.Operator() != nil
}

// StartEditing marks the given post as open in the editor.
func (c *Controller) StartEditing(postID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editingPostID = postID
}

// StopEditing clears the editor state, returning the console to create mode.
func (c *Controller) StopEditing() {
	c.StartEditing("")
}

// EditingPostID returns the id of the post open in the editor, or "" when
// the form is in create mode.
func (c *Controller) EditingPostID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editingPostID
}
