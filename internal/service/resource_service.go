// Package service implements the business rules behind the API handlers.
package service

import (
	"context"
	"net/url"

	"devfreebies/internal/cache"
	"devfreebies/internal/models"
	"devfreebies/internal/repository"
)

// ResourceService mediates creation, update, deletion, browsing and voting of
// resources under ownership and quota rules.
type ResourceService struct {
	resources repository.ResourceRepository
	users     repository.UserRepository

	submissionLimit    int
	contributionReward int
}

// NewResourceService returns a new ResourceService. submissionLimit caps
// concurrently-owned resources per non-admin; contributionReward is the score
// delta applied on create and reversed on delete.
func NewResourceService(
	resources repository.ResourceRepository,
	users repository.UserRepository,
	submissionLimit, contributionReward int,
) *ResourceService {
	return &ResourceService{
		resources:          resources,
		users:              users,
		submissionLimit:    submissionLimit,
		contributionReward: contributionReward,
	}
}

// CreateResourceInput is the client payload for a new submission. Moderation
// flags are intentionally absent: clients never control them.
type CreateResourceInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Image       string   `json:"image"`
}

// OwnerPatch is the set of fields a resource owner may change.
type OwnerPatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	URL         *string   `json:"url"`
	Category    *string   `json:"category"`
	Tags        *[]string `json:"tags"`
	Image       *string   `json:"image"`
}

// AdminPatch extends OwnerPatch with the moderation flags only admins may set.
type AdminPatch struct {
	OwnerPatch
	IsFeatured *bool `json:"isFeatured"`
	IsVerified *bool `json:"isVerified"`
}

// ListResourcesInput carries the public listing filters.
type ListResourcesInput struct {
	Category      string
	Search        string
	FeaturedOnly  bool
	Sort          string
	Page          int
	Limit         int
	CurrentUserID uint
}

// ListResult is a page of resources with pagination totals.
type ListResult struct {
	Resources   []*models.Resource `json:"resources"`
	Count       int                `json:"count"`
	Total       int64              `json:"total"`
	TotalPages  int                `json:"totalPages"`
	CurrentPage int                `json:"currentPage"`
}

// Create validates the payload, enforces the submission quota and URL
// uniqueness, persists the resource and rewards the author.
func (s *ResourceService) Create(ctx context.Context, author *models.User, in CreateResourceInput) (*models.Resource, error) {
	if fields := validateResourceFields(in.Title, in.Description, in.URL, in.Category, in.Tags); len(fields) > 0 {
		return nil, models.NewFieldErrors(fields)
	}

	// Quota is a soft limit: count-then-insert, per-request.
	if !author.IsAdmin() {
		count, err := s.resources.CountByUser(ctx, author.ID)
		if err != nil {
			return nil, err
		}
		if count >= int64(s.submissionLimit) {
			return nil, models.NewQuotaError(s.submissionLimit)
		}
	}

	existing, err := s.resources.GetByURL(ctx, in.URL)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewDuplicateError("A resource with this URL already exists")
	}

	resource := &models.Resource{
		Title:         in.Title,
		Description:   in.Description,
		URL:           in.URL,
		Category:      in.Category,
		Tags:          in.Tags,
		Image:         in.Image,
		Status:        models.StatusPending,
		SubmittedByID: author.ID,
	}
	// Admin submissions skip moderation.
	if author.IsAdmin() {
		resource.Status = models.StatusApproved
	}
	resource.SetDomain()

	if err := s.resources.Create(ctx, resource); err != nil {
		return nil, models.NewInternalError(err)
	}

	if err := s.users.AdjustContribution(ctx, author.ID, s.contributionReward); err != nil {
		return nil, err
	}

	cache.InvalidateListings(ctx)
	return s.resources.GetByID(ctx, resource.ID, author.ID)
}

// UpdateByOwner applies an owner patch after an ownership check. Admins may
// also go through this path when they only touch content fields.
func (s *ResourceService) UpdateByOwner(ctx context.Context, requester *models.User, resourceID uint, patch OwnerPatch) (*models.Resource, error) {
	resource, err := s.resources.GetByID(ctx, resourceID, requester.ID)
	if err != nil {
		return nil, err
	}
	if resource.SubmittedByID != requester.ID && !requester.IsAdmin() {
		return nil, models.NewForbiddenError("Not authorized to update this resource")
	}

	if err := s.applyOwnerPatch(ctx, resource, patch); err != nil {
		return nil, err
	}

	if err := s.resources.Update(ctx, resource); err != nil {
		return nil, err
	}
	cache.InvalidateListings(ctx)
	return s.resources.GetByID(ctx, resourceID, requester.ID)
}

// UpdateByAdmin applies the full admin patch, including moderation flags.
// Featuring a resource always approves it in the same write.
func (s *ResourceService) UpdateByAdmin(ctx context.Context, requester *models.User, resourceID uint, patch AdminPatch) (*models.Resource, error) {
	resource, err := s.resources.GetByID(ctx, resourceID, requester.ID)
	if err != nil {
		return nil, err
	}

	if err := s.applyOwnerPatch(ctx, resource, patch.OwnerPatch); err != nil {
		return nil, err
	}

	// Verification flag first, then the feature flag: featuring implies
	// approval, so a patch carrying both lands on the featured state.
	if patch.IsVerified != nil {
		if *patch.IsVerified {
			resource.Approve()
		} else {
			resource.Status = models.StatusPending
			resource.SyncFlags()
		}
	}
	if patch.IsFeatured != nil {
		if *patch.IsFeatured {
			resource.Feature()
		} else {
			resource.Unfeature()
		}
	}

	if err := s.resources.Update(ctx, resource); err != nil {
		return nil, err
	}
	cache.InvalidateListings(ctx)
	return s.resources.GetByID(ctx, resourceID, requester.ID)
}

// Delete removes the resource and reverses the owner's contribution reward.
func (s *ResourceService) Delete(ctx context.Context, requester *models.User, resourceID uint) error {
	resource, err := s.resources.GetByID(ctx, resourceID, requester.ID)
	if err != nil {
		return err
	}
	if resource.SubmittedByID != requester.ID && !requester.IsAdmin() {
		return models.NewForbiddenError("Not authorized to delete this resource")
	}

	if err := s.resources.Delete(ctx, resourceID); err != nil {
		return models.NewInternalError(err)
	}

	// Symmetric reversal of the creation reward, applied to the owner.
	if err := s.users.AdjustContribution(ctx, resource.SubmittedByID, -s.contributionReward); err != nil {
		return err
	}

	cache.InvalidateListings(ctx)
	return nil
}

// ToggleUpvote flips the requester's vote on a resource. The toggle is a
// conditional insert/delete against the unique vote row, so near-simultaneous
// toggles by the same user cannot double-count.
func (s *ResourceService) ToggleUpvote(ctx context.Context, userID, resourceID uint) (int64, bool, error) {
	if _, err := s.resources.GetByID(ctx, resourceID, 0); err != nil {
		return 0, false, err
	}

	added, err := s.resources.AddUpvote(ctx, userID, resourceID)
	if err != nil {
		return 0, false, err
	}
	if !added {
		if _, err := s.resources.RemoveUpvote(ctx, userID, resourceID); err != nil {
			return 0, false, err
		}
	}

	count, err := s.resources.CountUpvotes(ctx, resourceID)
	if err != nil {
		return 0, false, err
	}
	return count, added, nil
}

// List returns a page of publicly visible (approved) resources.
func (s *ResourceService) List(ctx context.Context, in ListResourcesInput) (*ListResult, error) {
	limit := in.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page := in.Page
	if page <= 0 {
		page = 1
	}

	filter := repository.ListFilter{
		Category:      in.Category,
		Search:        in.Search,
		FeaturedOnly:  in.FeaturedOnly,
		Sort:          in.Sort,
		Page:          page,
		Limit:         limit,
		VerifiedOnly:  true,
		CurrentUserID: in.CurrentUserID,
	}

	// The anonymous, unfiltered front page is served cache-aside.
	if s.cacheableFrontPage(in, page, limit) {
		var result ListResult
		err := cache.Aside(ctx, cache.FrontPageKey, &result, cache.ListTTL, func() error {
			fetched, err := s.listPage(ctx, filter, page, limit)
			if err != nil {
				return err
			}
			result = *fetched
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &result, nil
	}

	return s.listPage(ctx, filter, page, limit)
}

func (s *ResourceService) cacheableFrontPage(in ListResourcesInput, page, limit int) bool {
	return in.CurrentUserID == 0 &&
		in.Category == "" && in.Search == "" && !in.FeaturedOnly &&
		in.Sort == "" && page == 1 && limit == 20
}

func (s *ResourceService) listPage(ctx context.Context, filter repository.ListFilter, page, limit int) (*ListResult, error) {
	resources, total, err := s.resources.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ListResult{
		Resources:   resources,
		Count:       len(resources),
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
	}, nil
}

// Get returns a single resource and counts the visit. Pending resources are
// invisible to the public; only their owner or an admin can fetch them.
func (s *ResourceService) Get(ctx context.Context, id uint, requester *models.User) (*models.Resource, error) {
	var currentUserID uint
	if requester != nil {
		currentUserID = requester.ID
	}

	resource, err := s.resources.GetByID(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}

	if !resource.Verified() {
		privileged := requester != nil && (requester.IsAdmin() || resource.SubmittedByID == requester.ID)
		if !privileged {
			// Hidden, not forbidden: don't leak pending submissions.
			return nil, models.NewNotFoundError("Resource")
		}
	}

	if err := s.resources.IncrementVisits(ctx, id); err != nil {
		return nil, err
	}
	resource.Visits++
	return resource, nil
}

// Categories returns the fixed category enum with current resource counts.
func (s *ResourceService) Categories(ctx context.Context) ([]models.CategoryCount, error) {
	var counts []models.CategoryCount
	err := cache.Aside(ctx, cache.CategoriesKey, &counts, cache.CategoriesTTL, func() error {
		fetched, err := s.resources.CategoryCounts(ctx)
		if err != nil {
			return err
		}
		counts = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// applyOwnerPatch validates and applies content fields. Any field outside the
// patch struct simply does not exist, so nothing else can be changed.
func (s *ResourceService) applyOwnerPatch(ctx context.Context, resource *models.Resource, patch OwnerPatch) error {
	title := resource.Title
	description := resource.Description
	rawURL := resource.URL
	category := resource.Category
	tags := resource.Tags

	if patch.Title != nil {
		title = *patch.Title
	}
	if patch.Description != nil {
		description = *patch.Description
	}
	if patch.URL != nil {
		rawURL = *patch.URL
	}
	if patch.Category != nil {
		category = *patch.Category
	}
	if patch.Tags != nil {
		tags = *patch.Tags
	}

	if fields := validateResourceFields(title, description, rawURL, category, tags); len(fields) > 0 {
		return models.NewFieldErrors(fields)
	}

	if patch.URL != nil && *patch.URL != resource.URL {
		existing, err := s.resources.GetByURL(ctx, *patch.URL)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != resource.ID {
			return models.NewDuplicateError("A resource with this URL already exists")
		}
	}

	resource.Title = title
	resource.Description = description
	resource.Category = category
	resource.Tags = tags
	if patch.URL != nil {
		resource.URL = *patch.URL
		resource.SetDomain()
	}
	if patch.Image != nil {
		resource.Image = *patch.Image
	}
	return nil
}

// validateResourceFields returns per-field messages for invalid content.
func validateResourceFields(title, description, rawURL, category string, tags []string) map[string]string {
	fields := map[string]string{}

	if title == "" {
		fields["title"] = "Please provide a title"
	} else if len(title) > models.MaxTitleLen {
		fields["title"] = "Title cannot exceed 200 characters"
	}

	if description == "" {
		fields["description"] = "Please provide a description"
	} else if len(description) > models.MaxDescriptionLen {
		fields["description"] = "Description cannot exceed 500 characters"
	}

	if rawURL == "" {
		fields["url"] = "Please provide a URL"
	} else if !validURL(rawURL) {
		fields["url"] = "Please provide a valid URL"
	}

	if category == "" {
		fields["category"] = "Please provide a category"
	} else if !models.ValidCategory(category) {
		fields["category"] = "Unknown category"
	}

	if len(tags) > models.MaxTags {
		fields["tags"] = "A resource can carry at most 5 tags"
	} else {
		for _, tag := range tags {
			if !models.ValidTag(tag) {
				fields["tags"] = "Unknown tag: " + tag
				break
			}
		}
	}

	return fields
}

func validURL(raw string) bool {
	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
