// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a hierarchical content category.
// Categories form a tree through ParentID and link to posts
// many-to-many through the post_categories join table.
type Category struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name" validate:"required"`
	Slug        string     `json:"slug" validate:"required"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	SortOrder   int        `json:"sort_order"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Virtual fields populated by store methods.
	Children []Category `json:"children,omitempty" validate:"-"`
	Depth    int        `json:"-"`
	Posts    []Post     `json:"posts,omitempty" validate:"-"`
}
