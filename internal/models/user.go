// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// DefaultAvatar is assigned when a user registers without an avatar.
const DefaultAvatar = "https://ui-avatars.com/api/?name=User&background=random"

// User represents a registered directory member.
type User struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Username           string    `gorm:"uniqueIndex;not null;size:30" json:"username"`
	Email              string    `gorm:"uniqueIndex;not null" json:"email"`
	Password           string    `gorm:"not null" json:"-"`
	Role               string    `gorm:"not null;default:user" json:"role"`
	Avatar             string    `json:"avatar"`
	ContributionScore  int       `gorm:"not null;default:0" json:"contributionScore"`
	EmailNotifications bool      `gorm:"not null;default:true" json:"emailNotifications"`
	IsVerified         bool      `gorm:"not null;default:false" json:"isVerified"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`

	// SubmittedResources is the back-reference to resources this user authored.
	SubmittedResources []Resource `gorm:"foreignKey:SubmittedByID" json:"submittedResources,omitempty"`

	// Bookmarks is populated from the bookmarks join table; not a column.
	Bookmarks []Resource `gorm:"-" json:"bookmarks,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserStats are the derived numbers shown on a public profile.
type UserStats struct {
	SubmittedResources int64 `json:"submittedResources"`
	Bookmarks          int64 `json:"bookmarks"`
	ContributionScore  int   `json:"contributionScore"`
}
