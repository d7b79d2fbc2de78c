package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"verdant/internal/models"
	"verdant/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSettingsRepository is a mock of the SettingsRepository interface.
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, fields repository.SettingsFields) (*models.Settings, error) {
	args := m.Called(ctx, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

func TestGetSettingsFirstRunDefaults(t *testing.T) {
	app := fiber.New()
	mockRepo := new(MockSettingsRepository)
	s := &Server{settingsRepo: mockRepo}
	app.Get("/api/settings", s.GetSettings)

	mockRepo.On("Get", mock.Anything).Return(&models.Settings{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var settings models.Settings
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&settings))
	assert.Zero(t, settings.PeopleHelped)
}

func TestUpdateSettings(t *testing.T) {
	app := fiber.New()
	mockRepo := new(MockSettingsRepository)
	s := &Server{settingsRepo: mockRepo}
	app.Put("/api/admin/settings", s.UpdateSettings)

	fields := repository.SettingsFields{
		PeopleHelped:        500,
		NextApplicationDate: "Fall 2026",
		DiscordLink:         "https://discord.gg/example",
		GoogleFormsLink:     "https://forms.google.com/example",
	}
	mockRepo.On("Save", mock.Anything, fields).Return(&models.Settings{
		PeopleHelped:        500,
		NextApplicationDate: "Fall 2026",
		DiscordLink:         "https://discord.gg/example",
		GoogleFormsLink:     "https://forms.google.com/example",
		LastUpdated:         "2026-08-29T00:00:00Z",
	}, nil)

	body, _ := json.Marshal(fields)
	req := httptest.NewRequest(http.MethodPut, "/api/admin/settings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	payload, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(payload), "lastUpdated")
	mockRepo.AssertExpectations(t)
}

func TestUpdateSettingsBadBody(t *testing.T) {
	app := fiber.New()
	s := &Server{settingsRepo: new(MockSettingsRepository)}
	app.Put("/api/admin/settings", s.UpdateSettings)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/settings", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
