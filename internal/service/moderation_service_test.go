package service

import (
	"context"
	"testing"

	"devfreebies/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moderationRepoWith(status models.ResourceStatus) (*resourceRepoStub, *models.Resource) {
	stored := &models.Resource{ID: 10, Status: status, SubmittedByID: 4}
	repo := noopResourceRepo()
	repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Resource, error) {
		return stored, nil
	}
	return repo, stored
}

func TestModerationTransitions(t *testing.T) {
	t.Run("approve pending", func(t *testing.T) {
		repo, stored := moderationRepoWith(models.StatusPending)
		svc := NewModerationService(repo)

		resource, err := svc.Approve(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, resource.Status)
		assert.True(t, stored.Verified())
		assert.False(t, stored.Featured())
	})

	t.Run("approve does not demote featured", func(t *testing.T) {
		repo, stored := moderationRepoWith(models.StatusFeatured)
		svc := NewModerationService(repo)

		_, err := svc.Approve(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, models.StatusFeatured, stored.Status)
	})

	t.Run("feature approves in the same transition", func(t *testing.T) {
		repo, stored := moderationRepoWith(models.StatusPending)
		svc := NewModerationService(repo)

		resource, err := svc.Feature(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, models.StatusFeatured, resource.Status)
		assert.True(t, stored.Verified(), "a featured resource must also count as verified")
	})

	t.Run("unfeature keeps approval", func(t *testing.T) {
		repo, stored := moderationRepoWith(models.StatusFeatured)
		svc := NewModerationService(repo)

		resource, err := svc.Unfeature(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, resource.Status)
		assert.True(t, stored.Verified())
	})

	t.Run("unfeature pending stays pending", func(t *testing.T) {
		repo, stored := moderationRepoWith(models.StatusPending)
		svc := NewModerationService(repo)

		_, err := svc.Unfeature(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, stored.Status)
	})
}

func TestModerationMissingResource(t *testing.T) {
	repo := noopResourceRepo()
	repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Resource, error) {
		return nil, models.NewNotFoundError("Resource")
	}
	svc := NewModerationService(repo)

	_, err := svc.Approve(context.Background(), 999)
	assertCode(t, err, models.CodeNotFound)

	err = svc.Reject(context.Background(), 999)
	assertCode(t, err, models.CodeNotFound)

	_, err = svc.Feature(context.Background(), 999)
	assertCode(t, err, models.CodeNotFound)

	_, err = svc.Unfeature(context.Background(), 999)
	assertCode(t, err, models.CodeNotFound)
}

func TestRejectDeletesWithoutScoreChange(t *testing.T) {
	repo, _ := moderationRepoWith(models.StatusPending)
	var deleted uint
	repo.deleteFn = func(_ context.Context, id uint) error {
		deleted = id
		return nil
	}
	svc := NewModerationService(repo)

	require.NoError(t, svc.Reject(context.Background(), 10))
	assert.Equal(t, uint(10), deleted)
}
