package service

import (
	"context"
	"errors"
	"testing"

	"devfreebies/internal/models"
	"devfreebies/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resourceRepoStub is a stub for repository.ResourceRepository.
type resourceRepoStub struct {
	createFn          func(context.Context, *models.Resource) error
	getByIDFn         func(context.Context, uint, uint) (*models.Resource, error)
	getByURLFn        func(context.Context, string) (*models.Resource, error)
	listFn            func(context.Context, repository.ListFilter) ([]*models.Resource, int64, error)
	listPendingFn     func(context.Context) ([]*models.Resource, error)
	updateFn          func(context.Context, *models.Resource) error
	deleteFn          func(context.Context, uint) error
	countByUserFn     func(context.Context, uint) (int64, error)
	categoryCountsFn  func(context.Context) ([]models.CategoryCount, error)
	incrementVisitsFn func(context.Context, uint) error
	addUpvoteFn       func(context.Context, uint, uint) (bool, error)
	removeUpvoteFn    func(context.Context, uint, uint) (bool, error)
	countUpvotesFn    func(context.Context, uint) (int64, error)
}

func (s *resourceRepoStub) Create(ctx context.Context, r *models.Resource) error {
	return s.createFn(ctx, r)
}
func (s *resourceRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Resource, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *resourceRepoStub) GetByURL(ctx context.Context, url string) (*models.Resource, error) {
	return s.getByURLFn(ctx, url)
}
func (s *resourceRepoStub) List(ctx context.Context, filter repository.ListFilter) ([]*models.Resource, int64, error) {
	return s.listFn(ctx, filter)
}
func (s *resourceRepoStub) ListPending(ctx context.Context) ([]*models.Resource, error) {
	return s.listPendingFn(ctx)
}
func (s *resourceRepoStub) Update(ctx context.Context, r *models.Resource) error {
	return s.updateFn(ctx, r)
}
func (s *resourceRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *resourceRepoStub) CountByUser(ctx context.Context, userID uint) (int64, error) {
	return s.countByUserFn(ctx, userID)
}
func (s *resourceRepoStub) CategoryCounts(ctx context.Context) ([]models.CategoryCount, error) {
	return s.categoryCountsFn(ctx)
}
func (s *resourceRepoStub) IncrementVisits(ctx context.Context, id uint) error {
	return s.incrementVisitsFn(ctx, id)
}
func (s *resourceRepoStub) AddUpvote(ctx context.Context, userID, resourceID uint) (bool, error) {
	return s.addUpvoteFn(ctx, userID, resourceID)
}
func (s *resourceRepoStub) RemoveUpvote(ctx context.Context, userID, resourceID uint) (bool, error) {
	return s.removeUpvoteFn(ctx, userID, resourceID)
}
func (s *resourceRepoStub) CountUpvotes(ctx context.Context, resourceID uint) (int64, error) {
	return s.countUpvotesFn(ctx, resourceID)
}

func noopResourceRepo() *resourceRepoStub {
	return &resourceRepoStub{
		createFn: func(_ context.Context, _ *models.Resource) error { return nil },
		getByIDFn: func(_ context.Context, _, _ uint) (*models.Resource, error) {
			return &models.Resource{}, nil
		},
		getByURLFn: func(_ context.Context, _ string) (*models.Resource, error) { return nil, nil },
		listFn: func(_ context.Context, _ repository.ListFilter) ([]*models.Resource, int64, error) {
			return nil, 0, nil
		},
		listPendingFn:     func(_ context.Context) ([]*models.Resource, error) { return nil, nil },
		updateFn:          func(_ context.Context, _ *models.Resource) error { return nil },
		deleteFn:          func(_ context.Context, _ uint) error { return nil },
		countByUserFn:     func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		categoryCountsFn:  func(_ context.Context) ([]models.CategoryCount, error) { return nil, nil },
		incrementVisitsFn: func(_ context.Context, _ uint) error { return nil },
		addUpvoteFn:       func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		removeUpvoteFn:    func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		countUpvotesFn:    func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn                func(context.Context, uint) (*models.User, error)
	getByIDWithSubmissionsFn func(context.Context, uint) (*models.User, error)
	getByEmailFn             func(context.Context, string) (*models.User, error)
	getByUsernameFn          func(context.Context, string) (*models.User, error)
	createFn                 func(context.Context, *models.User) error
	updateFn                 func(context.Context, *models.User) error
	existsOtherFn            func(context.Context, uint, string, string) (bool, error)
	adjustContributionFn     func(context.Context, uint, int) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByIDWithSubmissions(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDWithSubmissionsFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) ExistsOther(ctx context.Context, excludeID uint, username, email string) (bool, error) {
	return s.existsOtherFn(ctx, excludeID, username, email)
}
func (s *userRepoStub) AdjustContribution(ctx context.Context, id uint, delta int) error {
	return s.adjustContributionFn(ctx, id, delta)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, _ uint) (*models.User, error) { return &models.User{}, nil },
		getByIDWithSubmissionsFn: func(_ context.Context, _ uint) (*models.User, error) {
			return &models.User{}, nil
		},
		getByEmailFn:         func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn:      func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:             func(_ context.Context, _ *models.User) error { return nil },
		updateFn:             func(_ context.Context, _ *models.User) error { return nil },
		existsOtherFn:        func(_ context.Context, _ uint, _, _ string) (bool, error) { return false, nil },
		adjustContributionFn: func(_ context.Context, _ uint, _ int) error { return nil },
	}
}

// bookmarkRepoStub is a stub for repository.BookmarkRepository.
type bookmarkRepoStub struct {
	addFn         func(context.Context, uint, uint) (bool, error)
	removeFn      func(context.Context, uint, uint) (bool, error)
	listByUserFn  func(context.Context, uint) ([]*models.Resource, error)
	countByUserFn func(context.Context, uint) (int64, error)
}

func (s *bookmarkRepoStub) Add(ctx context.Context, userID, resourceID uint) (bool, error) {
	return s.addFn(ctx, userID, resourceID)
}
func (s *bookmarkRepoStub) Remove(ctx context.Context, userID, resourceID uint) (bool, error) {
	return s.removeFn(ctx, userID, resourceID)
}
func (s *bookmarkRepoStub) ListByUser(ctx context.Context, userID uint) ([]*models.Resource, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *bookmarkRepoStub) CountByUser(ctx context.Context, userID uint) (int64, error) {
	return s.countByUserFn(ctx, userID)
}

func noopBookmarkRepo() *bookmarkRepoStub {
	return &bookmarkRepoStub{
		addFn:         func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		removeFn:      func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		listByUserFn:  func(_ context.Context, _ uint) ([]*models.Resource, error) { return nil, nil },
		countByUserFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// assertCode asserts that err is an AppError with the given code.
func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
