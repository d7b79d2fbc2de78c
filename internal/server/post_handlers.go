package server

import (
	"errors"

	"verdant/internal/middleware"
	"verdant/internal/models"
	"verdant/internal/render"
	"verdant/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// statusForAppError maps repository error codes onto HTTP statuses.
func statusForAppError(err error) int {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "NOT_FOUND":
			return fiber.StatusNotFound
		case "VALIDATION_ERROR":
			return fiber.StatusBadRequest
		case "UNAUTHORIZED":
			return fiber.StatusUnauthorized
		}
	}
	return fiber.StatusInternalServerError
}

// GetPosts handles GET /api/posts, the public blog listing. Posts come
// back newest first.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postRepo.ListAll(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// GetPost handles GET /api/posts/:id. A missing post is a 404, not a
// transport error.
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postRepo.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return models.RespondWithError(c, statusForAppError(err), err)
	}
	return c.JSON(post)
}

// GetPostModal handles GET /api/posts/:id/modal, returning the full-post
// overlay as an HTML fragment the site swaps in without a reload.
func (s *Server) GetPostModal(c *fiber.Ctx) error {
	post, err := s.postRepo.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return models.RespondWithError(c, statusForAppError(err), err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(render.Modal(post))
}

// GetAdminPosts handles GET /api/admin/posts. The console list carries the
// same data as the public one; only the rendering differs.
func (s *Server) GetAdminPosts(c *fiber.Ctx) error {
	posts, err := s.postRepo.ListAll(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// GetAdminPostsFragment handles GET /api/admin/posts/fragment, the rendered
// console list. An empty body means no posts; the console shows its own
// empty state.
func (s *Server) GetAdminPostsFragment(c *fiber.Ctx) error {
	posts, err := s.postRepo.ListAll(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(render.AdminPostList(posts))
}

// CreatePost handles POST /api/admin/posts. Empty fields are stored as
// given; the product accepts sparse posts rather than rejecting them.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var fields repository.PostFields
	if err := c.BodyParser(&fields); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postRepo.Create(c.Context(), fields)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	s.publishPostChange(c, post.ID)
	middleware.Logger.InfoContext(c.UserContext(), "post created", "post_id", post.ID)
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/admin/posts/:id. The creation date is never
// touched by edits.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	var fields repository.PostFields
	if err := c.BodyParser(&fields); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	id := c.Params("id")
	if err := s.postRepo.Update(c.Context(), id, fields); err != nil {
		return models.RespondWithError(c, statusForAppError(err), err)
	}

	s.publishPostChange(c, id)
	middleware.Logger.InfoContext(c.UserContext(), "post updated", "post_id", id)
	return c.JSON(fiber.Map{"message": "Post updated"})
}

// DeletePost handles DELETE /api/admin/posts/:id. Deleting a post that is
// already gone succeeds; the end state is the same.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := s.postRepo.Delete(c.Context(), id); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	s.publishPostChange(c, id)
	middleware.Logger.InfoContext(c.UserContext(), "post deleted", "post_id", id)
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

func (s *Server) publishPostChange(c *fiber.Ctx, postID string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishPostChange(c.Context(), postID); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "failed to publish post change", "error", err)
	}
}
