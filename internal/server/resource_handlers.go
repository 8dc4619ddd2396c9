package server

import (
	"devfreebies/internal/models"
	"devfreebies/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListResources handles GET /api/resources
func (s *Server) ListResources(c *fiber.Ctx) error {
	var currentUserID uint
	if user := s.optionalUser(c); user != nil {
		currentUserID = user.ID
	}

	in := service.ListResourcesInput{
		Category:      c.Query("category"),
		Search:        c.Query("search"),
		FeaturedOnly:  c.Query("featured") == "true",
		Sort:          c.Query("sort"),
		Page:          c.QueryInt("page", 1),
		Limit:         c.QueryInt("limit", 20),
		CurrentUserID: currentUserID,
	}

	result, err := s.resourceSvc.List(c.Context(), in)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"count":       result.Count,
		"total":       result.Total,
		"totalPages":  result.TotalPages,
		"currentPage": result.CurrentPage,
		"data":        result.Resources,
	})
}

// GetCategories handles GET /api/resources/categories
func (s *Server) GetCategories(c *fiber.Ctx) error {
	counts, err := s.resourceSvc.Categories(c.Context())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    counts,
	})
}

// GetResource handles GET /api/resources/:id; every successful fetch counts a visit.
func (s *Server) GetResource(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid resource ID"))
	}

	resource, err := s.resourceSvc.Get(c.Context(), uint(id), s.optionalUser(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    resource,
	})
}

// CreateResource handles POST /api/resources
func (s *Server) CreateResource(c *fiber.Ctx) error {
	author := s.currentUser(c)

	var in service.CreateResourceInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	resource, err := s.resourceSvc.Create(c.Context(), author, in)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    resource,
	})
}

// UpdateResource handles PUT /api/resources/:id. The requester's role picks
// the patch type, so the mutable field set is fixed by the type system.
func (s *Server) UpdateResource(c *fiber.Ctx) error {
	requester := s.currentUser(c)
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid resource ID"))
	}

	var resource *models.Resource
	if requester.IsAdmin() {
		var patch service.AdminPatch
		if err := c.BodyParser(&patch); err != nil {
			return models.RespondWithError(c,
				models.NewValidationError("Invalid request body"))
		}
		resource, err = s.resourceSvc.UpdateByAdmin(c.Context(), requester, uint(id), patch)
	} else {
		var patch service.OwnerPatch
		if err := c.BodyParser(&patch); err != nil {
			return models.RespondWithError(c,
				models.NewValidationError("Invalid request body"))
		}
		resource, err = s.resourceSvc.UpdateByOwner(c.Context(), requester, uint(id), patch)
	}
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    resource,
	})
}

// DeleteResource handles DELETE /api/resources/:id
func (s *Server) DeleteResource(c *fiber.Ctx) error {
	requester := s.currentUser(c)
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid resource ID"))
	}

	if err := s.resourceSvc.Delete(c.Context(), requester, uint(id)); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Resource deleted successfully",
	})
}

// UpvoteResource handles PUT /api/resources/:id/upvote
func (s *Server) UpvoteResource(c *fiber.Ctx) error {
	requester := s.currentUser(c)
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid resource ID"))
	}

	upvotes, upvoted, err := s.resourceSvc.ToggleUpvote(c.Context(), requester.ID, uint(id))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"upvotes": upvotes,
			"upvoted": upvoted,
		},
	})
}
