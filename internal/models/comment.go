// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// CommentStatus represents the moderation state of a comment.
type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "pending"
	CommentStatusApproved CommentStatus = "approved"
	CommentStatusSpam     CommentStatus = "spam"
	CommentStatusTrash    CommentStatus = "trash"
)

// Valid reports whether the status is one of the accepted values.
func (s CommentStatus) Valid() bool {
	switch s {
	case CommentStatusPending, CommentStatusApproved, CommentStatusSpam, CommentStatusTrash:
		return true
	}
	return false
}

// Comment represents a comment on a post. Comments form reply trees
// through ParentID. A comment is either authored by a user (UserID set)
// or anonymous (AuthorName and AuthorEmail set).
type Comment struct {
	ID          uuid.UUID     `json:"id"`
	PostID      uuid.UUID     `json:"post_id" validate:"required"`
	UserID      *uuid.UUID    `json:"user_id"`
	ParentID    *uuid.UUID    `json:"parent_id"`
	Content     string        `json:"content" validate:"required,min=1,max=1000"`
	Status      CommentStatus `json:"status" validate:"required,oneof=pending approved spam trash"`
	IsApproved  bool          `json:"is_approved"`
	AuthorName  string        `json:"author_name,omitempty"`
	AuthorEmail string        `json:"author_email,omitempty"`
	IPAddress   string        `json:"ip_address,omitempty"`
	UserAgent   string        `json:"user_agent,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Virtual fields populated by store methods.
	User    *User     `json:"user,omitempty" validate:"-"`
	Post    *Post     `json:"post,omitempty" validate:"-"`
	Replies []Comment `json:"replies,omitempty" validate:"-"`
}

// Author describes who wrote a comment. It is a closed sum: either
// Authored (a registered user) or Anonymous (name and email supplied
// with the comment). Modelling authorship this way keeps the validation
// branch exhaustive instead of relying on nullable-field checks.
type Author interface {
	isAuthor()
}

// Authored is a comment written by a registered user.
type Authored struct {
	UserID uuid.UUID
}

// Anonymous is a comment written without an account.
type Anonymous struct {
	Name  string
	Email string
}

func (Authored) isAuthor()  {}
func (Anonymous) isAuthor() {}

// Author returns the comment's authorship as a sum value.
func (c *Comment) Author() Author {
	if c.UserID != nil {
		return Authored{UserID: *c.UserID}
	}
	return Anonymous{Name: c.AuthorName, Email: c.AuthorEmail}
}

// DeriveApproval recomputes IsApproved from the moderation status.
// The flag is never trusted from caller input: stores call this
// unconditionally before every insert and update.
func (c *Comment) DeriveApproval() {
	c.IsApproved = c.Status == CommentStatusApproved
}
