package repository

import (
	"context"
	"testing"

	"devfreebies/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Resource{}, &models.Upvote{}, &models.Bookmark{},
	))
	return db
}

func seedUserAndResource(t *testing.T, db *gorm.DB) (*models.User, *models.Resource) {
	t.Helper()

	user := &models.User{Username: "maya", Email: "maya@example.com", Password: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(user).Error)

	resource := &models.Resource{
		Title:         "Thing",
		Description:   "A thing",
		URL:           "https://example.com/thing",
		Category:      "tools",
		Status:        models.StatusApproved,
		SubmittedByID: user.ID,
	}
	require.NoError(t, db.Create(resource).Error)
	return user, resource
}

func TestAddUpvoteIsConditional(t *testing.T) {
	db := newTestDB(t)
	user, resource := seedUserAndResource(t, db)
	repo := NewResourceRepository(db)
	ctx := context.Background()

	added, err := repo.AddUpvote(ctx, user.ID, resource.ID)
	require.NoError(t, err)
	assert.True(t, added)

	// The same vote again hits the unique index and inserts nothing.
	added, err = repo.AddUpvote(ctx, user.ID, resource.ID)
	require.NoError(t, err)
	assert.False(t, added)

	count, err := repo.CountUpvotes(ctx, resource.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestRemoveUpvoteIsConditional(t *testing.T) {
	db := newTestDB(t)
	user, resource := seedUserAndResource(t, db)
	repo := NewResourceRepository(db)
	ctx := context.Background()

	removed, err := repo.RemoveUpvote(ctx, user.ID, resource.ID)
	require.NoError(t, err)
	assert.False(t, removed, "nothing to remove yet")

	_, err = repo.AddUpvote(ctx, user.ID, resource.ID)
	require.NoError(t, err)

	removed, err = repo.RemoveUpvote(ctx, user.ID, resource.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.RemoveUpvote(ctx, user.ID, resource.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestDeleteCascadesVotesAndBookmarks(t *testing.T) {
	db := newTestDB(t)
	user, resource := seedUserAndResource(t, db)
	resources := NewResourceRepository(db)
	bookmarks := NewBookmarkRepository(db)
	ctx := context.Background()

	_, err := resources.AddUpvote(ctx, user.ID, resource.ID)
	require.NoError(t, err)
	_, err = bookmarks.Add(ctx, user.ID, resource.ID)
	require.NoError(t, err)

	require.NoError(t, resources.Delete(ctx, resource.ID))

	var votes int64
	require.NoError(t, db.Model(&models.Upvote{}).Count(&votes).Error)
	assert.Zero(t, votes)

	var marks int64
	require.NoError(t, db.Model(&models.Bookmark{}).Count(&marks).Error)
	assert.Zero(t, marks)
}

func TestListSortWhitelist(t *testing.T) {
	db := newTestDB(t)
	user, _ := seedUserAndResource(t, db)
	repo := NewResourceRepository(db)
	ctx := context.Background()

	second := &models.Resource{
		Title:         "Another",
		Description:   "Another thing",
		URL:           "https://example.com/another",
		Category:      "tools",
		Status:        models.StatusApproved,
		Visits:        100,
		SubmittedByID: user.ID,
	}
	require.NoError(t, db.Create(second).Error)

	results, _, err := repo.List(ctx, ListFilter{Sort: "visits", Limit: 10, Page: 1})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Another", results[0].Title)

	// An unknown sort key silently falls back instead of reaching the SQL.
	_, _, err = repo.List(ctx, ListFilter{Sort: "id; DROP TABLE resources", Limit: 10, Page: 1})
	assert.NoError(t, err)
}

func TestAdjustContributionAccumulates(t *testing.T) {
	db := newTestDB(t)
	user, _ := seedUserAndResource(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.AdjustContribution(ctx, user.ID, 5))
	require.NoError(t, repo.AdjustContribution(ctx, user.ID, 5))
	require.NoError(t, repo.AdjustContribution(ctx, user.ID, -5))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.ContributionScore)
}
