package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"verdant/internal/cache"
	"verdant/internal/docstore"
	"verdant/internal/middleware"
	"verdant/internal/models"
)

const settingsCollection = "settings"

// SettingsFields is the settings form payload. The whole form is always
// submitted together, so saves replace the document instead of merging.
type SettingsFields struct {
	PeopleHelped        int    `json:"peopleHelped"`
	NextApplicationDate string `json:"nextApplicationDate"`
	DiscordLink         string `json:"discordLink"`
	GoogleFormsLink     string `json:"googleFormsLink"`
}

// SettingsRepository defines the interface for the settings singleton.
type SettingsRepository interface {
	Get(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, fields SettingsFields) (*models.Settings, error)
}

type settingsRepository struct {
	store docstore.Store
	now   func() time.Time
}

// NewSettingsRepository creates a new settings repository backed by the given store.
func NewSettingsRepository(store docstore.Store) SettingsRepository {
	return &settingsRepository{store: store, now: time.Now}
}

// Get fetches the settings singleton. A missing document is the expected
// first-run state and yields zero-value defaults, not an error.
func (r *settingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	middleware.DocstoreOps.WithLabelValues(settingsCollection, "get").Inc()

	var settings models.Settings
	err := cache.Aside(ctx, cache.SettingsKey(), &settings, cache.SettingsTTL, func() error {
		doc, err := r.store.Get(ctx, settingsCollection, models.SettingsID)
		if errors.Is(err, docstore.ErrNotFound) {
			settings = models.Settings{}
			return nil
		}
		if err != nil {
			return err
		}

		raw, err := json.Marshal(doc.Data)
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, &settings)
	})
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Save writes the full singleton document with a fresh lastUpdated stamp.
func (r *settingsRepository) Save(ctx context.Context, fields SettingsFields) (*models.Settings, error) {
	middleware.DocstoreOps.WithLabelValues(settingsCollection, "save").Inc()

	settings := &models.Settings{
		PeopleHelped:        fields.PeopleHelped,
		NextApplicationDate: fields.NextApplicationDate,
		DiscordLink:         fields.DiscordLink,
		GoogleFormsLink:     fields.GoogleFormsLink,
		LastUpdated:         r.now().UTC().Format(time.RFC3339),
	}

	data := map[string]any{
		"peopleHelped":        settings.PeopleHelped,
		"nextApplicationDate": settings.NextApplicationDate,
		"discordLink":         settings.DiscordLink,
		"googleFormsLink":     settings.GoogleFormsLink,
		"lastUpdated":         settings.LastUpdated,
	}
	if err := r.store.Set(ctx, settingsCollection, models.SettingsID, data); err != nil {
		return nil, err
	}

	cache.InvalidateSettings(ctx)
	return settings, nil
}
