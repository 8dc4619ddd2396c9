package models

import "time"

// Upvote records one user's vote on one resource.
// The combination of UserID and ResourceID must be unique.
type Upvote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_upvote_user_resource" json:"userId"`
	ResourceID uint      `gorm:"not null;uniqueIndex:idx_upvote_user_resource" json:"resourceId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Bookmark is a personal reference from a user to a resource, independent of
// the resource's moderation state.
type Bookmark struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_bookmark_user_resource" json:"userId"`
	ResourceID uint      `gorm:"not null;uniqueIndex:idx_bookmark_user_resource" json:"resourceId"`
	CreatedAt  time.Time `json:"createdAt"`
}
