package service

import (
	"context"

	"devfreebies/internal/models"
	"devfreebies/internal/repository"
)

// BookmarkService implements the idempotent bookmark toggle. Bookmarking is a
// personal reference: it works regardless of the resource's moderation state.
type BookmarkService struct {
	bookmarks repository.BookmarkRepository
	resources repository.ResourceRepository
}

// NewBookmarkService returns a new BookmarkService.
func NewBookmarkService(bookmarks repository.BookmarkRepository, resources repository.ResourceRepository) *BookmarkService {
	return &BookmarkService{bookmarks: bookmarks, resources: resources}
}

// Toggle flips the user's bookmark on a resource. Returns the resulting
// membership and a human-readable status message.
func (s *BookmarkService) Toggle(ctx context.Context, userID, resourceID uint) (bool, string, error) {
	if _, err := s.resources.GetByID(ctx, resourceID, 0); err != nil {
		return false, "", err
	}

	added, err := s.bookmarks.Add(ctx, userID, resourceID)
	if err != nil {
		return false, "", err
	}
	if added {
		return true, "Bookmark added", nil
	}

	if _, err := s.bookmarks.Remove(ctx, userID, resourceID); err != nil {
		return false, "", err
	}
	return false, "Bookmark removed", nil
}

// List returns the user's bookmarked resources with their submitters loaded.
func (s *BookmarkService) List(ctx context.Context, userID uint) ([]*models.Resource, error) {
	return s.bookmarks.ListByUser(ctx, userID)
}
