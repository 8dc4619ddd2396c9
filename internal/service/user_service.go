package service

import (
	"context"
	"net/mail"
	"strings"

	"devfreebies/internal/models"
	"devfreebies/internal/repository"
)

// UserService handles profile reads and updates.
type UserService struct {
	users     repository.UserRepository
	bookmarks repository.BookmarkRepository
}

// NewUserService returns a new UserService.
func NewUserService(users repository.UserRepository, bookmarks repository.BookmarkRepository) *UserService {
	return &UserService{users: users, bookmarks: bookmarks}
}

// UpdateProfileInput carries the mutable profile fields. Absent fields are
// left untouched.
type UpdateProfileInput struct {
	Username           *string `json:"username"`
	Email              *string `json:"email"`
	Avatar             *string `json:"avatar"`
	EmailNotifications *bool   `json:"emailNotifications"`
}

// GetProfile returns a public profile with derived stats.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, *models.UserStats, error) {
	user, err := s.users.GetByIDWithSubmissions(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	bookmarkCount, err := s.bookmarks.CountByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	stats := &models.UserStats{
		SubmittedResources: int64(len(user.SubmittedResources)),
		Bookmarks:          bookmarkCount,
		ContributionScore:  user.ContributionScore,
	}
	return user, stats, nil
}

// GetMyProfile returns the user's own profile with bookmarks and submissions
// populated.
func (s *UserService) GetMyProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.GetByIDWithSubmissions(ctx, userID)
	if err != nil {
		return nil, err
	}

	bookmarks, err := s.bookmarks.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Bookmarks = make([]models.Resource, len(bookmarks))
	for i, b := range bookmarks {
		user.Bookmarks[i] = *b
	}
	return user, nil
}

// UpdateProfile applies the patch, rejecting username/email collisions with
// other accounts.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	username := user.Username
	email := user.Email

	if in.Username != nil {
		username = strings.TrimSpace(*in.Username)
		if len(username) < 3 || len(username) > 30 {
			return nil, models.NewFieldErrors(map[string]string{
				"username": "Username must be between 3 and 30 characters",
			})
		}
	}
	if in.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*in.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, models.NewFieldErrors(map[string]string{
				"email": "Please provide a valid email",
			})
		}
	}

	if username != user.Username || email != user.Email {
		taken, err := s.users.ExistsOther(ctx, userID, username, email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, models.NewDuplicateError("Email or username already in use")
		}
	}

	user.Username = username
	user.Email = email
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}
	if in.EmailNotifications != nil {
		user.EmailNotifications = *in.EmailNotifications
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
