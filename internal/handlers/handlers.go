// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the Inkwell API.
// Handlers are grouped by resource and receive their dependencies
// through the API struct. Each handler maps a verb to a store call:
// decode, merge, validate, persist, render.
package handlers

import (
	"encoding/json"

	"github.com/google/uuid"

	"inkwell/internal/cache"
	"inkwell/internal/store"
	"inkwell/internal/validate"
)

// API groups all resource handlers and their dependencies.
// postCache may be nil, in which case post reads always hit the database.
type API struct {
	users      *store.UserStore
	posts      *store.PostStore
	categories *store.CategoryStore
	comments   *store.CommentStore
	postCache  *cache.PostCache
	validate   *validate.Validator
}

// NewAPI creates the handler group with the given dependencies.
func NewAPI(users *store.UserStore, posts *store.PostStore, categories *store.CategoryStore, comments *store.CommentStore, postCache *cache.PostCache) *API {
	return &API{
		users:      users,
		posts:      posts,
		categories: categories,
		comments:   comments,
		postCache:  postCache,
		validate:   validate.New(),
	}
}

// optionalUUID distinguishes an absent JSON field from an explicit null,
// so partial updates can clear a nullable reference.
type optionalUUID struct {
	Set   bool
	Value *uuid.UUID
}

func (o *optionalUUID) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	o.Value = &id
	return nil
}
