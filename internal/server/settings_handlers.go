package server

import (
	"verdant/internal/middleware"
	"verdant/internal/models"
	"verdant/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// GetSettings handles GET /api/settings. A site that has never been
// configured returns the zero-value singleton; the page layer applies its
// display fallbacks.
func (s *Server) GetSettings(c *fiber.Ctx) error {
	settings, err := s.settingsRepo.Get(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(settings)
}

// UpdateSettings handles PUT /api/admin/settings. The whole form is
// submitted at once, so the document is replaced rather than merged.
func (s *Server) UpdateSettings(c *fiber.Ctx) error {
	var fields repository.SettingsFields
	if err := c.BodyParser(&fields); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	settings, err := s.settingsRepo.Save(c.Context(), fields)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	if s.notifier != nil {
		if err := s.notifier.PublishSettingsChange(c.Context()); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "failed to publish settings change", "error", err)
		}
	}
	middleware.Logger.InfoContext(c.UserContext(), "settings saved",
		"people_helped", settings.PeopleHelped)
	return c.JSON(settings)
}
