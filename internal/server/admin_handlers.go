package server

import (
	"devfreebies/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetPendingResources handles GET /api/admin/resources/pending
func (s *Server) GetPendingResources(c *fiber.Ctx) error {
	resources, err := s.moderationSvc.ListPending(c.Context())
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(resources),
		"data":    resources,
	})
}

// ApproveResource handles POST /api/admin/resources/:id/approve
func (s *Server) ApproveResource(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid resource ID"))
	}

	resource, err := s.moderationSvc.Approve(c.Context(), uint(id))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Resource approved",
		"data":    resource,
	})
}

// RejectResource handles POST /api/admin/resources/:id/reject
func (s *Server) RejectResource(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid resource ID"))
	}

	if err := s.moderationSvc.Reject(c.Context(), uint(id)); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Resource rejected and deleted",
	})
}

// FeatureResource handles POST /api/admin/resources/:id/feature
func (s *Server) FeatureResource(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid resource ID"))
	}

	resource, err := s.moderationSvc.Feature(c.Context(), uint(id))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Resource approved and featured",
		"data":    resource,
	})
}

// UnfeatureResource handles POST /api/admin/resources/:id/unfeature
func (s *Server) UnfeatureResource(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid resource ID"))
	}

	resource, err := s.moderationSvc.Unfeature(c.Context(), uint(id))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Resource unfeatured",
		"data":    resource,
	})
}
