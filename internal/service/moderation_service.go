package service

import (
	"context"

	"devfreebies/internal/cache"
	"devfreebies/internal/models"
	"devfreebies/internal/repository"
)

// ModerationService drives the admin state machine over resource status:
// approve, reject (hard delete), feature and unfeature. Transitions never
// touch the submitter's contribution score.
type ModerationService struct {
	resources repository.ResourceRepository
}

// NewModerationService returns a new ModerationService.
func NewModerationService(resources repository.ResourceRepository) *ModerationService {
	return &ModerationService{resources: resources}
}

// ListPending returns all unapproved resources, newest first, each with the
// submitting user loaded for reviewer context.
func (s *ModerationService) ListPending(ctx context.Context) ([]*models.Resource, error) {
	return s.resources.ListPending(ctx)
}

// Approve moves a pending resource to approved without featuring it.
func (s *ModerationService) Approve(ctx context.Context, resourceID uint) (*models.Resource, error) {
	resource, err := s.resources.GetByID(ctx, resourceID, 0)
	if err != nil {
		return nil, err
	}

	resource.Approve()
	if err := s.resources.Update(ctx, resource); err != nil {
		return nil, err
	}
	cache.InvalidateListings(ctx)
	return resource, nil
}

// Reject permanently deletes the resource. No tombstone is kept.
func (s *ModerationService) Reject(ctx context.Context, resourceID uint) error {
	if _, err := s.resources.GetByID(ctx, resourceID, 0); err != nil {
		return err
	}
	if err := s.resources.Delete(ctx, resourceID); err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateListings(ctx)
	return nil
}

// Feature promotes the resource, approving it in the same transition so a
// featured-but-unapproved state can never exist.
func (s *ModerationService) Feature(ctx context.Context, resourceID uint) (*models.Resource, error) {
	resource, err := s.resources.GetByID(ctx, resourceID, 0)
	if err != nil {
		return nil, err
	}

	resource.Feature()
	if err := s.resources.Update(ctx, resource); err != nil {
		return nil, err
	}
	cache.InvalidateListings(ctx)
	return resource, nil
}

// Unfeature removes the promotion but keeps the approval: demotion is not
// rejection.
func (s *ModerationService) Unfeature(ctx context.Context, resourceID uint) (*models.Resource, error) {
	resource, err := s.resources.GetByID(ctx, resourceID, 0)
	if err != nil {
		return nil, err
	}

	resource.Unfeature()
	if err := s.resources.Update(ctx, resource); err != nil {
		return nil, err
	}
	cache.InvalidateListings(ctx)
	return resource, nil
}
