// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/store"
	"inkwell/internal/validate"
)

// postParams is the JSON body for post create and partial update.
// category_ids, when supplied, replaces the post's category links.
type postParams struct {
	UserID        *uuid.UUID         `json:"user_id"`
	Title         *string            `json:"title"`
	Slug          *string            `json:"slug"`
	Content       *string            `json:"content"`
	Excerpt       *string            `json:"excerpt"`
	Status        *models.PostStatus `json:"status"`
	FeaturedImage *string            `json:"featured_image"`
	ViewCount     *int               `json:"view_count"`
	PublishedAt   *time.Time         `json:"published_at"`
	CategoryIDs   *[]uuid.UUID       `json:"category_ids"`
}

func (p *postParams) apply(post *models.Post) {
	if p.UserID != nil {
		post.UserID = *p.UserID
	}
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Slug != nil {
		post.Slug = *p.Slug
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
	if p.Excerpt != nil {
		post.Excerpt = *p.Excerpt
	}
	if p.Status != nil {
		post.Status = *p.Status
	}
	if p.FeaturedImage != nil {
		post.FeaturedImage = *p.FeaturedImage
	}
	if p.ViewCount != nil {
		post.ViewCount = *p.ViewCount
	}
	if p.PublishedAt != nil {
		post.PublishedAt = p.PublishedAt
	}
}

// checkPostRefs verifies the owner exists and, when category_ids is
// supplied, that every referenced category exists.
func (a *API) checkPostRefs(post *models.Post, categoryIDs *[]uuid.UUID, errs validate.Errors) error {
	if post.UserID != uuid.Nil {
		owner, err := a.users.FindByID(post.UserID)
		if err != nil {
			return err
		}
		if owner == nil {
			errs.Add("user_id", "must exist")
		}
	}
	if categoryIDs != nil {
		for _, id := range *categoryIDs {
			category, err := a.categories.FindByID(id)
			if err != nil {
				return err
			}
			if category == nil {
				errs.Add("category_ids", "contains an unknown category")
				break
			}
		}
	}
	return nil
}

// PostsList returns all posts, or the posts of one user on the nested
// users/{userID}/posts route. Each post carries its author and categories.
func (a *API) PostsList(w http.ResponseWriter, r *http.Request) {
	var posts []models.Post
	var err error

	if raw := chi.URLParam(r, "userID"); raw != "" {
		userID, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			writeNotFound(w)
			return
		}
		posts, err = a.posts.ListByUser(userID)
	} else {
		posts, err = a.posts.List()
	}
	if err != nil {
		writeServerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// PostGet returns a single post with author and categories, serving the
// cached payload when available.
func (a *API) PostGet(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "postID")
	if err != nil {
		writeNotFound(w)
		return
	}

	if a.postCache != nil {
		if payload, ok := a.postCache.Get(r.Context(), id); ok {
			writeRaw(w, http.StatusOK, payload)
			return
		}
	}

	post, err := a.posts.FindByID(id)
	if err != nil {
		writeServerError(w, err)
		return
	}
	if post == nil {
		writeNotFound(w)
		return
	}

	if a.postCache != nil {
		if payload, err := json.Marshal(post); err == nil {
			a.postCache.Set(r.Context(), id, payload)
		}
	}
	writeJSON(w, http.StatusOK, post)
}

// PostCreate validates and inserts a new post. On the nested
// users/{userID}/posts route the path owner wins over the body.
func (a *API) PostCreate(w http.ResponseWriter, r *http.Request) {
	var params postParams
	if err := decodeJSON(r, &params); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	post := models.Post{Status: models.PostStatusDraft}
	params.apply(&post)

	if raw := chi.URLParam(r, "userID"); raw != "" {
		userID, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			writeNotFound(w)
			return
		}
		post.UserID = userID
	}

	errs := a.validate.Struct(&post)
	if err := a.checkPostRefs(&post, params.CategoryIDs, errs); err != nil {
		writeServerError(w, err)
		return
	}
	if errs.Any() {
		writeErrors(w, errs)
		return
	}

	created, err := a.posts.Create(&post)
	if err != nil {
		if field, ok := store.DuplicateField(err); ok {
			writeErrors(w, validate.Errors{field: {"has already been taken"}})
			return
		}
		writeServerError(w, err)
		return
	}

	if params.CategoryIDs != nil {
		if err := a.posts.SetCategories(created.ID, *params.CategoryIDs); err != nil {
			writeServerError(w, err)
			return
		}
	}

	full, err := a.posts.FindByID(created.ID)
	if err != nil {
		writeServerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, full)
}

// PostUpdate applies a partial update, re-running the same validations.
func (a *API) PostUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "postID")
	if err != nil {
		writeNotFound(w)
		return
	}
	post, err := a.posts.FindByID(id)
	if err != nil {
		writeServerError(w, err)
		return
	}
	if post == nil {
		writeNotFound(w)
		return
	}

	var params postParams
	if err := decodeJSON(r, &params); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	params.apply(post)

	errs := a.validate.Struct(post)
	if err := a.checkPostRefs(post, params.CategoryIDs, errs); err != nil {
		writeServerError(w, err)
		return
	}
	if errs.Any() {
		writeErrors(w, errs)
		return
	}

	if err := a.posts.Update(post); err != nil {
		if field, ok := store.DuplicateField(err); ok {
			writeErrors(w, validate.Errors{field: {"has already been taken"}})
			return
		}
		writeServerError(w, err)
		return
	}

	if params.CategoryIDs != nil {
		if err := a.posts.SetCategories(id, *params.CategoryIDs); err != nil {
			writeServerError(w, err)
			return
		}
	}
	if a.postCache != nil {
		a.postCache.Invalidate(r.Context(), id)
	}

	full, err := a.posts.FindByID(id)
	if err != nil {
		writeServerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, full)
}

// PostDelete removes a post and cascades over its comment tree and
// category links.
func (a *API) PostDelete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "postID")
	if err != nil {
		writeNotFound(w)
		return
	}
	post, err := a.posts.FindByID(id)
	if err != nil {
		writeServerError(w, err)
		return
	}
	if post == nil {
		writeNotFound(w)
		return
	}

	if err := a.posts.Delete(id); err != nil {
		writeServerError(w, err)
		return
	}
	if a.postCache != nil {
		a.postCache.Invalidate(r.Context(), id)
	}
	w.WriteHeader(http.StatusNoContent)
}

// PostPublish moves the post to published and stamps published_at,
// regardless of its prior state.
func (a *API) PostPublish(w http.ResponseWriter, r *http.Request) {
	a.setLifecycle(w, r, a.posts.Publish)
}

// PostUnpublish moves the post back to draft and clears published_at,
// regardless of its prior state.
func (a *API) PostUnpublish(w http.ResponseWriter, r *http.Request) {
	a.setLifecycle(w, r, a.posts.Unpublish)
}

func (a *API) setLifecycle(w http.ResponseWriter, r *http.Request, op func(uuid.UUID) (*models.Post, error)) {
	id, err := urlID(r, "postID")
	if err != nil {
		writeNotFound(w)
		return
	}
	post, err := op(id)
	if err != nil {
		writeServerError(w, err)
		return
	}
	if post == nil {
		writeNotFound(w)
		return
	}
	if a.postCache != nil {
		a.postCache.Invalidate(r.Context(), id)
	}
	writeJSON(w, http.StatusOK, post)
}
