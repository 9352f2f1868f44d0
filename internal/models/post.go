// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

// Valid reports whether the status is one of the accepted values.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}

// Post represents an authored article. Every post belongs to a user and
// may be linked to any number of categories through post_categories.
type Post struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id" validate:"required"`
	Title         string     `json:"title" validate:"required"`
	Slug          string     `json:"slug" validate:"required"`
	Content       string     `json:"content" validate:"required"`
	Excerpt       string     `json:"excerpt"`
	Status        PostStatus `json:"status" validate:"required,oneof=draft published archived"`
	FeaturedImage string     `json:"featured_image"`
	ViewCount     int        `json:"view_count"`
	PublishedAt   *time.Time `json:"published_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Virtual fields populated by store methods.
	User       *User      `json:"user,omitempty" validate:"-"`
	Categories []Category `json:"categories,omitempty" validate:"-"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}
