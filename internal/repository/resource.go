package repository

import (
	"context"
	"errors"
	"strings"

	"devfreebies/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListFilter narrows and pages a resource listing.
type ListFilter struct {
	Category      string
	Search        string
	FeaturedOnly  bool
	Sort          string
	Page          int
	Limit         int
	VerifiedOnly  bool
	CurrentUserID uint
}

// ResourceRepository defines the interface for resource data operations
type ResourceRepository interface {
	Create(ctx context.Context, resource *models.Resource) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Resource, error)
	GetByURL(ctx context.Context, url string) (*models.Resource, error)
	List(ctx context.Context, filter ListFilter) ([]*models.Resource, int64, error)
	ListPending(ctx context.Context) ([]*models.Resource, error)
	Update(ctx context.Context, resource *models.Resource) error
	Delete(ctx context.Context, id uint) error
	CountByUser(ctx context.Context, userID uint) (int64, error)
	CategoryCounts(ctx context.Context) ([]models.CategoryCount, error)
	// IncrementVisits bumps the visit counter atomically in the store.
	IncrementVisits(ctx context.Context, id uint) error
	// AddUpvote inserts the (user, resource) vote only if absent.
	// Returns false when the vote already existed.
	AddUpvote(ctx context.Context, userID, resourceID uint) (bool, error)
	// RemoveUpvote deletes the (user, resource) vote only if present.
	// Returns false when there was nothing to remove.
	RemoveUpvote(ctx context.Context, userID, resourceID uint) (bool, error)
	CountUpvotes(ctx context.Context, resourceID uint) (int64, error)
}

// resourceRepository implements ResourceRepository
type resourceRepository struct {
	db *gorm.DB
}

// NewResourceRepository creates a new resource repository
func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) Create(ctx context.Context, resource *models.Resource) error {
	return r.db.WithContext(ctx).Create(resource).Error
}

func (r *resourceRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Resource, error) {
	var resource models.Resource
	err := r.db.WithContext(ctx).
		Preload("SubmittedBy").
		First(&resource, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Resource")
		}
		return nil, models.NewInternalError(err)
	}
	if err := r.attachVotes(ctx, []*models.Resource{&resource}, currentUserID); err != nil {
		return nil, err
	}
	return &resource, nil
}

func (r *resourceRepository) GetByURL(ctx context.Context, url string) (*models.Resource, error) {
	var resource models.Resource
	err := r.db.WithContext(ctx).Where("url = ?", url).First(&resource).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &resource, nil
}

func (r *resourceRepository) List(ctx context.Context, filter ListFilter) ([]*models.Resource, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Resource{})

	if filter.VerifiedOnly {
		q = q.Where("status IN ?", []models.ResourceStatus{models.StatusApproved, models.StatusFeatured})
	}
	if filter.FeaturedOnly {
		q = q.Where("status = ?", models.StatusFeatured)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	var resources []*models.Resource
	err := q.
		Preload("SubmittedBy").
		Order(sortClause(filter.Sort)).
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&resources).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	if err := r.attachVotes(ctx, resources, filter.CurrentUserID); err != nil {
		return nil, 0, err
	}
	return resources, total, nil
}

// sortClause maps an API sort key to a whitelisted ORDER BY expression.
// Unknown keys fall back to newest-first.
func sortClause(sort string) string {
	switch sort {
	case "oldest":
		return "created_at ASC"
	case "visits":
		return "visits DESC, created_at DESC"
	case "title":
		return "title ASC"
	default:
		return "created_at DESC"
	}
}

func (r *resourceRepository) ListPending(ctx context.Context) ([]*models.Resource, error) {
	var resources []*models.Resource
	err := r.db.WithContext(ctx).
		Preload("SubmittedBy").
		Where("status = ?", models.StatusPending).
		Order("created_at DESC").
		Find(&resources).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := r.attachVotes(ctx, resources, 0); err != nil {
		return nil, err
	}
	return resources, nil
}

func (r *resourceRepository) Update(ctx context.Context, resource *models.Resource) error {
	if err := r.db.WithContext(ctx).Save(resource).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *resourceRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("resource_id = ?", id).Delete(&models.Upvote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("resource_id = ?", id).Delete(&models.Bookmark{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Resource{}, id).Error
	})
}

func (r *resourceRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Resource{}).
		Where("submitted_by_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *resourceRepository) CategoryCounts(ctx context.Context) ([]models.CategoryCount, error) {
	type row struct {
		Category string
		Count    int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Resource{}).
		Select("category, COUNT(*) as count").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	byCategory := make(map[string]int64, len(rows))
	for _, row := range rows {
		byCategory[row.Category] = row.Count
	}

	// Fixed enum order, zero counts included.
	counts := make([]models.CategoryCount, 0, len(models.ResourceCategories))
	for _, name := range models.ResourceCategories {
		counts = append(counts, models.CategoryCount{Name: name, Count: byCategory[name]})
	}
	return counts, nil
}

func (r *resourceRepository) IncrementVisits(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Resource{}).
		Where("id = ?", id).
		UpdateColumn("visits", gorm.Expr("visits + 1")).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *resourceRepository) AddUpvote(ctx context.Context, userID, resourceID uint) (bool, error) {
	vote := models.Upvote{UserID: userID, ResourceID: resourceID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&vote)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *resourceRepository) RemoveUpvote(ctx context.Context, userID, resourceID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND resource_id = ?", userID, resourceID).
		Delete(&models.Upvote{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *resourceRepository) CountUpvotes(ctx context.Context, resourceID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Upvote{}).
		Where("resource_id = ?", resourceID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// attachVotes fills the computed Upvotes and Upvoted fields for a batch of
// resources with two grouped queries.
func (r *resourceRepository) attachVotes(ctx context.Context, resources []*models.Resource, currentUserID uint) error {
	if len(resources) == 0 {
		return nil
	}

	ids := make([]uint, len(resources))
	for i, res := range resources {
		ids[i] = res.ID
	}

	type row struct {
		ResourceID uint
		Count      int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Upvote{}).
		Select("resource_id, COUNT(*) as count").
		Where("resource_id IN ?", ids).
		Group("resource_id").
		Scan(&rows).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.ResourceID] = row.Count
	}

	voted := make(map[uint]bool)
	if currentUserID != 0 {
		var votedIDs []uint
		err := r.db.WithContext(ctx).
			Model(&models.Upvote{}).
			Where("user_id = ? AND resource_id IN ?", currentUserID, ids).
			Pluck("resource_id", &votedIDs).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		for _, id := range votedIDs {
			voted[id] = true
		}
	}

	for _, res := range resources {
		res.Upvotes = int(counts[res.ID])
		res.Upvoted = voted[res.ID]
	}
	return nil
}
