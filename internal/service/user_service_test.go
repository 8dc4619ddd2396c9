package service

import (
	"context"
	"testing"

	"devfreebies/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfileStats(t *testing.T) {
	users := noopUserRepo()
	users.getByIDWithSubmissionsFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{
			ID:                id,
			Username:          "maya",
			ContributionScore: 15,
			SubmittedResources: []models.Resource{
				{ID: 1}, {ID: 2}, {ID: 3},
			},
		}, nil
	}
	bookmarks := noopBookmarkRepo()
	bookmarks.countByUserFn = func(_ context.Context, _ uint) (int64, error) { return 7, nil }

	svc := NewUserService(users, bookmarks)
	user, stats, err := svc.GetProfile(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "maya", user.Username)
	assert.EqualValues(t, 3, stats.SubmittedResources)
	assert.EqualValues(t, 7, stats.Bookmarks)
	assert.Equal(t, 15, stats.ContributionScore)
}

func TestGetMyProfilePopulatesBookmarks(t *testing.T) {
	bookmarks := noopBookmarkRepo()
	bookmarks.listByUserFn = func(_ context.Context, _ uint) ([]*models.Resource, error) {
		return []*models.Resource{{ID: 1}, {ID: 2}}, nil
	}

	svc := NewUserService(noopUserRepo(), bookmarks)
	user, err := svc.GetMyProfile(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, user.Bookmarks, 2)
	assert.Equal(t, uint(2), user.Bookmarks[1].ID)
}

func TestUpdateProfile(t *testing.T) {
	strPtr := func(s string) *string { return &s }
	boolPtr := func(b bool) *bool { return &b }

	newUserRepo := func() *userRepoStub {
		users := noopUserRepo()
		users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "maya", Email: "maya@example.com"}, nil
		}
		return users
	}

	t.Run("valid patch", func(t *testing.T) {
		users := newUserRepo()
		svc := NewUserService(users, noopBookmarkRepo())

		user, err := svc.UpdateProfile(context.Background(), 4, UpdateProfileInput{
			Username:           strPtr("  maya_dev "),
			Email:              strPtr(" Maya@Example.COM "),
			EmailNotifications: boolPtr(false),
		})
		require.NoError(t, err)
		assert.Equal(t, "maya_dev", user.Username)
		assert.Equal(t, "maya@example.com", user.Email, "email is trimmed and lowercased")
		assert.False(t, user.EmailNotifications)
	})

	t.Run("username too short", func(t *testing.T) {
		svc := NewUserService(newUserRepo(), noopBookmarkRepo())
		_, err := svc.UpdateProfile(context.Background(), 4, UpdateProfileInput{Username: strPtr("ab")})
		assertCode(t, err, models.CodeValidation)
	})

	t.Run("invalid email", func(t *testing.T) {
		svc := NewUserService(newUserRepo(), noopBookmarkRepo())
		_, err := svc.UpdateProfile(context.Background(), 4, UpdateProfileInput{Email: strPtr("nope")})
		assertCode(t, err, models.CodeValidation)
	})

	t.Run("collision with another account", func(t *testing.T) {
		users := newUserRepo()
		users.existsOtherFn = func(_ context.Context, _ uint, _, _ string) (bool, error) {
			return true, nil
		}
		svc := NewUserService(users, noopBookmarkRepo())

		_, err := svc.UpdateProfile(context.Background(), 4, UpdateProfileInput{Username: strPtr("taken")})
		assertCode(t, err, models.CodeDuplicate)
	})

	t.Run("unchanged identity skips collision check", func(t *testing.T) {
		users := newUserRepo()
		users.existsOtherFn = func(_ context.Context, _ uint, _, _ string) (bool, error) {
			t.Fatal("no collision check expected when username and email are unchanged")
			return false, nil
		}
		svc := NewUserService(users, noopBookmarkRepo())

		_, err := svc.UpdateProfile(context.Background(), 4, UpdateProfileInput{Avatar: strPtr("https://example.com/a.png")})
		assert.NoError(t, err)
	})
}
