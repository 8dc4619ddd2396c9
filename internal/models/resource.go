package models

import (
	"net/url"
	"time"

	"gorm.io/gorm"
)

// ResourceStatus is the moderation state of a resource. A featured resource
// is always approved; the single-enum representation makes a
// featured-but-unapproved state unrepresentable.
type ResourceStatus string

const (
	StatusPending  ResourceStatus = "pending"
	StatusApproved ResourceStatus = "approved"
	StatusFeatured ResourceStatus = "featured"
)

// ResourceCategories is the fixed category enum, in display order.
var ResourceCategories = []string{
	"tools",
	"apis",
	"templates",
	"courses",
	"hosting",
	"libraries",
	"databases",
	"learning",
}

// ResourceTags is the fixed tag vocabulary.
var ResourceTags = []string{
	"javascript", "react", "nodejs", "python", "free", "opensource",
	"beginner", "advanced", "ui-ux", "mobile", "devops", "database",
	"frontend", "backend", "documentation", "api", "testing", "deployment",
	"cloud", "css", "html", "hosting",
}

// MaxTags caps how many tags a single resource may carry.
const MaxTags = 5

// Field length limits.
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 500
)

// ValidCategory reports whether c is a member of the category enum.
func ValidCategory(c string) bool {
	for _, cat := range ResourceCategories {
		if cat == c {
			return true
		}
	}
	return false
}

// ValidTag reports whether t is a member of the tag vocabulary.
func ValidTag(t string) bool {
	for _, tag := range ResourceTags {
		if tag == t {
			return true
		}
	}
	return false
}

// Resource represents a submitted free developer tool.
type Resource struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null;size:200" json:"title"`
	Description string         `gorm:"not null;size:500" json:"description"`
	URL         string         `gorm:"uniqueIndex;not null" json:"url"`
	Category    string         `gorm:"not null;index" json:"category"`
	Tags        []string       `gorm:"serializer:json" json:"tags"`
	Image       string         `json:"image,omitempty"`
	Status      ResourceStatus `gorm:"not null;default:pending;index" json:"status"`
	Visits      int            `gorm:"not null;default:0" json:"visits"`
	Domain      string         `json:"domain,omitempty"`

	SubmittedByID uint  `gorm:"not null;index" json:"submittedById"`
	SubmittedBy   *User `gorm:"foreignKey:SubmittedByID" json:"submittedBy,omitempty"`

	// Upvotes is the cardinality of the upvotes join table; computed at query time.
	Upvotes int `gorm:"-" json:"upvotes"`
	// Upvoted indicates whether the current requesting user upvoted this resource (computed).
	Upvoted bool `gorm:"-" json:"upvoted"`

	// IsVerified and IsFeatured mirror Status for API clients (computed).
	IsVerified bool `gorm:"-" json:"isVerified"`
	IsFeatured bool `gorm:"-" json:"isFeatured"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Verified reports whether the resource has passed moderation.
func (r *Resource) Verified() bool {
	return r.Status == StatusApproved || r.Status == StatusFeatured
}

// Featured reports whether the resource is promoted.
func (r *Resource) Featured() bool {
	return r.Status == StatusFeatured
}

// Approve moves a pending resource to approved. Featured resources stay featured.
func (r *Resource) Approve() {
	if r.Status == StatusPending {
		r.Status = StatusApproved
	}
	r.SyncFlags()
}

// Feature promotes the resource, approving it in the same transition.
func (r *Resource) Feature() {
	r.Status = StatusFeatured
	r.SyncFlags()
}

// Unfeature demotes a featured resource back to approved. Removing the
// promotion never reverts the approval.
func (r *Resource) Unfeature() {
	if r.Status == StatusFeatured {
		r.Status = StatusApproved
	}
	r.SyncFlags()
}

// SyncFlags refreshes the computed IsVerified/IsFeatured mirror fields.
func (r *Resource) SyncFlags() {
	r.IsVerified = r.Verified()
	r.IsFeatured = r.Featured()
}

// SetDomain derives the Domain field from the resource URL's host.
func (r *Resource) SetDomain() {
	if parsed, err := url.Parse(r.URL); err == nil {
		r.Domain = parsed.Hostname()
	}
}

// AfterFind keeps the computed flags in sync when loading from the store.
func (r *Resource) AfterFind(*gorm.DB) error {
	r.SyncFlags()
	return nil
}

// AfterCreate keeps the computed flags in sync on insert.
func (r *Resource) AfterCreate(*gorm.DB) error {
	r.SyncFlags()
	return nil
}

// CategoryCount is a category enum entry with its current resource count.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}
