package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"verdant/internal/auth"
	"verdant/internal/config"
	"verdant/internal/middleware"
	"verdant/internal/models"
	"verdant/internal/readiness"
	"verdant/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newAuthTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Operator{}))

	operatorRepo := repository.NewOperatorRepository(db)
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2!"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, operatorRepo.Create(context.Background(), &models.Operator{
		Email:    "admin@example.com",
		Password: string(hash),
	}))

	mr := miniredis.RunT(t)
	s := &Server{
		config:  &config.Config{JWTSecret: "test-secret", Env: "test"},
		redis:   redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		session: auth.NewController(auth.NewLocalClient(operatorRepo)),
	}
	signal := readiness.New()
	signal.Ready()
	s.session.Start(signal)

	app := fiber.New()
	app.Post("/api/auth/login", s.Login)
	app.Post("/api/auth/logout", s.Logout)
	app.Get("/api/admin/ping", middleware.AuthRequired(s.config.JWTSecret, s.redis), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"operator":   c.Locals("operatorID"),
			"contextual": c.UserContext().Value(middleware.OperatorIDKey),
		})
	})
	return s, app
}

func loginRequest(email, password string) *http.Request {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestLoginSuccess(t *testing.T) {
	_, app := newAuthTestServer(t)

	resp, err := app.Test(loginRequest("admin@example.com", "hunter2!"))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var payload struct {
		Token    string `json:"token"`
		Operator struct {
			Email string `json:"email"`
		} `json:"operator"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.NotEmpty(t, payload.Token)
	assert.Equal(t, "admin@example.com", payload.Operator.Email)
}

func TestLoginFailureMessages(t *testing.T) {
	_, app := newAuthTestServer(t)

	tests := []struct {
		name     string
		email    string
		password string
		message  string
	}{
		{"wrong password", "admin@example.com", "nope", "Incorrect password"},
		{"unknown account", "ghost@example.com", "hunter2!", "No account found with this email"},
		{"malformed email", "not-an-email", "hunter2!", "Invalid email address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(loginRequest(tt.email, tt.password))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), tt.message)
		})
	}
}

func loginToken(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, err := app.Test(loginRequest("admin@example.com", "hunter2!"))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.NotEmpty(t, payload.Token)
	return payload.Token
}

func TestLoginTokenOpensAdminRoutes(t *testing.T) {
	_, app := newAuthTestServer(t)

	// Without a token the admin surface is closed.
	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()

	req = httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+loginToken(t, app))
	resp, err = app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The operator id reaches both Fiber locals and the request context.
	var payload struct {
		Operator   float64 `json:"operator"`
		Contextual float64 `json:"contextual"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.NotZero(t, payload.Operator)
	assert.Equal(t, payload.Operator, payload.Contextual)
}

func TestLoginUpdatesSession(t *testing.T) {
	s, app := newAuthTestServer(t)

	assert.False(t, s.session.SignedIn())
	_ = loginToken(t, app)
	assert.True(t, s.session.SignedIn(), "the HTTP login path drives the session controller")
}

func TestLogout(t *testing.T) {
	s, app := newAuthTestServer(t)
	_ = loginToken(t, app)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Logged out")
	assert.False(t, s.session.SignedIn())
}

func TestLogoutRevokesToken(t *testing.T) {
	_, app := newAuthTestServer(t)
	token := loginToken(t, app)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	req = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	// The token is still well-formed and unexpired, but its jti is
	// blacklisted until expiry.
	req = httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "revoked")
}
