package repository

import (
	"context"

	"devfreebies/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookmarkRepository defines the interface for bookmark data operations
type BookmarkRepository interface {
	// Add inserts the bookmark only if absent; returns false when it already existed.
	Add(ctx context.Context, userID, resourceID uint) (bool, error)
	// Remove deletes the bookmark only if present; returns false when nothing was removed.
	Remove(ctx context.Context, userID, resourceID uint) (bool, error)
	// ListByUser returns the user's bookmarked resources, newest bookmark first,
	// each with its submitter loaded.
	ListByUser(ctx context.Context, userID uint) ([]*models.Resource, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

type bookmarkRepository struct {
	db *gorm.DB
}

// NewBookmarkRepository creates a new bookmark repository
func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

func (r *bookmarkRepository) Add(ctx context.Context, userID, resourceID uint) (bool, error) {
	bookmark := models.Bookmark{UserID: userID, ResourceID: resourceID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&bookmark)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *bookmarkRepository) Remove(ctx context.Context, userID, resourceID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND resource_id = ?", userID, resourceID).
		Delete(&models.Bookmark{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *bookmarkRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Resource, error) {
	var resources []*models.Resource
	err := r.db.WithContext(ctx).
		Model(&models.Resource{}).
		Joins("JOIN bookmarks ON bookmarks.resource_id = resources.id").
		Where("bookmarks.user_id = ?", userID).
		Order("bookmarks.created_at DESC").
		Preload("SubmittedBy").
		Find(&resources).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return resources, nil
}

func (r *bookmarkRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Bookmark{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
