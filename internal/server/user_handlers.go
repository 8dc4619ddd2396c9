package server

import (
	"devfreebies/internal/models"
	"devfreebies/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUserProfile handles GET /api/users/profile/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid user ID"))
	}

	user, stats, err := s.userSvc.GetProfile(c.Context(), uint(id))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"user":  user,
			"stats": stats,
		},
	})
}

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	requester := s.currentUser(c)

	user, err := s.userSvc.GetMyProfile(c.Context(), requester.ID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    user,
	})
}

// UpdateProfile handles PUT /api/users/profile
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	requester := s.currentUser(c)

	var in service.UpdateProfileInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userSvc.UpdateProfile(c.Context(), requester.ID, in)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    user,
	})
}

// ToggleBookmark handles PUT /api/users/bookmark/:resourceId
func (s *Server) ToggleBookmark(c *fiber.Ctx) error {
	requester := s.currentUser(c)
	resourceID, err := c.ParamsInt("resourceId")
	if err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid resource ID"))
	}

	bookmarked, message, err := s.bookmarkSvc.Toggle(c.Context(), requester.ID, uint(resourceID))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"message":    message,
		"bookmarked": bookmarked,
	})
}

// GetBookmarks handles GET /api/users/bookmarks
func (s *Server) GetBookmarks(c *fiber.Ctx) error {
	requester := s.currentUser(c)

	bookmarks, err := s.bookmarkSvc.List(c.Context(), requester.ID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    bookmarks,
	})
}
