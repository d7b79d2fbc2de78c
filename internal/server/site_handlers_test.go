package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"verdant/internal/config"
	"verdant/internal/models"
	"verdant/internal/view"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSiteTestServer(settingsRepo *MockSettingsRepository, postRepo *MockPostRepository) (*Server, *fiber.App) {
	s := &Server{
		config: &config.Config{
			PeopleHelpedFallback: 247,
			ApplicationDate:      "Applications open soon",
		},
		settingsRepo: settingsRepo,
		postRepo:     postRepo,
		pages:        view.NewPages("home", "blog", "about", "contact"),
		reveal:       view.NewReveal(view.DefaultRevealThreshold),
	}
	app := fiber.New()
	app.Get("/", s.HomePage)
	app.Post("/api/contact", s.ContactForm)
	return s, app
}

func TestHomePageWithConfiguredSettings(t *testing.T) {
	settingsRepo := new(MockSettingsRepository)
	postRepo := new(MockPostRepository)
	_, app := newSiteTestServer(settingsRepo, postRepo)

	settingsRepo.On("Get", mock.Anything).Return(&models.Settings{
		PeopleHelped:        512,
		NextApplicationDate: "September 2026",
		DiscordLink:         "https://discord.gg/example",
		GoogleFormsLink:     "https://forms.google.com/example",
	}, nil)
	postRepo.On("ListAll", mock.Anything).Return([]*models.Post{
		{ID: "post_1", Title: "Hello", Date: "Jan 1, 2026"},
	}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	html := string(body)
	assert.Contains(t, html, `data-target="512"`)
	assert.Contains(t, html, "September 2026")
	assert.Contains(t, html, "Hello")
	assert.Contains(t, html, "https://discord.gg/example")
	assert.Contains(t, html, `id="home" class="page active visible"`,
		"the landing section is revealed on load")
	assert.Contains(t, html, `id="blog" class="page"`)
}

func TestHomePageFirstRunFallbacks(t *testing.T) {
	settingsRepo := new(MockSettingsRepository)
	postRepo := new(MockPostRepository)
	_, app := newSiteTestServer(settingsRepo, postRepo)

	settingsRepo.On("Get", mock.Anything).Return(&models.Settings{}, nil)
	postRepo.On("ListAll", mock.Anything).Return([]*models.Post{}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)
	html := string(body)
	assert.Contains(t, html, `data-target="247"`, "counter falls back before any settings exist")
	assert.Contains(t, html, "Applications open soon")
	assert.Contains(t, html, "No blog posts yet. Check back soon!")
}

func TestHomePageSurvivesStoreFailure(t *testing.T) {
	settingsRepo := new(MockSettingsRepository)
	postRepo := new(MockPostRepository)
	_, app := newSiteTestServer(settingsRepo, postRepo)

	settingsRepo.On("Get", mock.Anything).Return(nil, assert.AnError)
	postRepo.On("ListAll", mock.Anything).Return(nil, assert.AnError)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	// The page still renders with fallbacks and an error panel.
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	html := string(body)
	assert.Contains(t, html, `data-target="247"`)
	assert.Contains(t, html, "Error loading blog posts. Please try again later.")
}

func TestContactForm(t *testing.T) {
	_, app := newSiteTestServer(new(MockSettingsRepository), new(MockPostRepository))

	body, _ := json.Marshal(map[string]string{
		"name":    "Ada",
		"email":   "ada@example.com",
		"message": "Hello there",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestContactFormRequiresMessage(t *testing.T) {
	_, app := newSiteTestServer(new(MockSettingsRepository), new(MockPostRepository))

	body, _ := json.Marshal(map[string]string{"name": "Ada"})
	req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
