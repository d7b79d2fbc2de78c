package server

import (
	"fmt"
	"strings"

	"verdant/internal/middleware"
	"verdant/internal/models"
	"verdant/internal/render"

	"github.com/gofiber/fiber/v2"
)

// HomePage handles GET /, the public site. It is a single document with
// one section per page id; the active one is marked and the rest stay
// hidden until navigation swaps them.
func (s *Server) HomePage(c *fiber.Ctx) error {
	ctx := c.Context()

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "failed to load settings", "error", err)
		settings = &models.Settings{}
	}

	counterTarget := settings.PeopleHelped
	if counterTarget == 0 {
		counterTarget = s.config.PeopleHelpedFallback
	}
	applicationDate := settings.NextApplicationDate
	if applicationDate == "" {
		applicationDate = s.config.ApplicationDate
	}

	blogGrid := ""
	posts, err := s.postRepo.ListAll(ctx)
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "failed to load posts", "error", err)
		blogGrid = render.ErrorPanel("Error loading blog posts. Please try again later.")
	} else {
		blogGrid = render.PostGrid(posts)
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n<title>Verdant</title>\n")
	b.WriteString("<link rel=\"stylesheet\" href=\"/static/styles.css\">\n")
	b.WriteString("</head>\n<body>\n")

	for _, id := range s.pages.IDs() {
		class := "page"
		// The active page is fully in view on load; the rest reveal as
		// navigation reaches them. The latch keeps them settled after that.
		ratio := 0.0
		if s.pages.IsActive(id) {
			class = "page active"
			ratio = 1
		}
		if s.reveal.Observe(id, ratio) {
			class += " visible"
		}
		fmt.Fprintf(&b, `<section id=%q class=%q>`, id, class)
		switch id {
		case "home":
			fmt.Fprintf(&b, `<div class="counter" data-target="%d">0</div>`, counterTarget)
			fmt.Fprintf(&b, `<p class="application-date">%s</p>`, applicationDate)
		case "blog":
			fmt.Fprintf(&b, `<div class="blog-grid">%s</div>`, blogGrid)
		case "contact":
			if settings.DiscordLink != "" {
				fmt.Fprintf(&b, `<a class="contact-link" href=%q>Discord</a>`, settings.DiscordLink)
			}
			if settings.GoogleFormsLink != "" {
				fmt.Fprintf(&b, `<a class="contact-link" href=%q>Apply</a>`, settings.GoogleFormsLink)
			}
		}
		b.WriteString("</section>\n")
	}
	b.WriteString("</body>\n</html>\n")

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(b.String())
}

// ContactForm handles POST /api/contact. Submissions are acknowledged and
// logged; there is no inbox behind it, the outbound links are the real
// contact channel.
func (s *Server) ContactForm(c *fiber.Ctx) error {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Message == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A message is required"))
	}

	middleware.Logger.InfoContext(c.UserContext(), "contact form submitted",
		"name", req.Name, "email", req.Email)
	return c.JSON(fiber.Map{"message": "Thanks for reaching out. We'll be in touch!"})
}
