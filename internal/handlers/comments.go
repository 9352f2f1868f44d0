// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/validate"
)

// commentParams is the JSON body for comment create and partial update.
// is_approved is accepted for compatibility but always overwritten by
// the derivation from status before persistence.
type commentParams struct {
	PostID      *uuid.UUID            `json:"post_id"`
	UserID      optionalUUID          `json:"user_id"`
	ParentID    optionalUUID          `json:"parent_id"`
	Content     *string               `json:"content"`
	Status      *models.CommentStatus `json:"status"`
	IsApproved  *bool                 `json:"is_approved"`
	AuthorName  *string               `json:"author_name"`
	AuthorEmail *string               `json:"author_email"`
}

func (p *commentParams) apply(c *models.Comment) {
	if p.PostID != nil {
		c.PostID = *p.PostID
	}
	if p.UserID.Set {
		c.UserID = p.UserID.Value
	}
	if p.ParentID.Set {
		c.ParentID = p.ParentID.Value
	}
	if p.Content != nil {
		c.Content = *p.Content
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.IsApproved != nil {
		c.IsApproved = *p.IsApproved // discarded by derivation on save
	}
	if p.AuthorName != nil {
		c.AuthorName = *p.AuthorName
	}
	if p.AuthorEmail != nil {
		c.AuthorEmail = *p.AuthorEmail
	}
}

// checkComment collects the rule violations declarative tags cannot
// express: authorship requirements and reference consistency.
func (a *API) checkComment(c *models.Comment, errs validate.Errors) error {
	// Authorship branches exhaustively over the sum type: a registered
	// user needs no contact fields, an anonymous author must supply them.
	switch author := c.Author().(type) {
	case models.Authored:
		user, err := a.users.FindByID(author.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			errs.Add("user_id", "must exist")
		}
	case models.Anonymous:
		if author.Name == "" {
			errs.Add("author_name", "is required for anonymous comments")
		}
		if author.Email == "" {
			errs.Add("author_email", "is required for anonymous comments")
		} else if !a.validate.Email(author.Email) {
			errs.Add("author_email", "is not a valid email address")
		}
	}

	if c.PostID != uuid.Nil {
		post, err := a.posts.FindByID(c.PostID)
		if err != nil {
			return err
		}
		if post == nil {
			errs.Add("post_id", "must exist")
		}
	}

	if c.ParentID != nil {
		if *c.ParentID == c.ID && c.ID != uuid.Nil {
			errs.Add("parent_id", "cannot be the comment itself")
			return nil
		}
		parent, err := a.comments.FindByID(*c.ParentID)
		if err != nil {
			return err
		}
		if parent == nil {
			errs.Add("parent_id", "must exist")
		} else if parent.PostID != c.PostID {
			errs.Add("parent_id", "must belong to the same post")
		}
	}
	return nil
}

// CommentsList returns every comment with user, post, and direct replies.
func (a *API) CommentsList(w http.ResponseWriter, r *http.Request) {
	comments, err := a.comments.ListAll()
	if err != nil {
		writeServerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

// CommentsListForPost returns the top-level comments of one post, newest
// first, each with its user and direct replies.
func (a *API) CommentsListForPost(w http.ResponseWriter, r *http.Request) {
	postID, err := urlID(r, "postID")
	if err != nil {
		writeNotFound(w)
		return
	}
	post, err := a.posts.FindByID(postID)
	if err != nil {
		writeServerError(w, err)
		return
	}
	if post == nil {
		writeNotFound(w)
		return
	}

	comments, err := a.comments.ListTopLevelByPost(postID)
	if err != nil {
		writeServerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

// CommentGet returns a single comment with user, post, and direct replies.
func (a *API) CommentGet(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "commentID")
	if err != nil {
		writeNotFound(w)
		return
	}
	comment, err := a.comments.FindByID(id)
	if err != nil {
		writeServerError(w, err)
		return
	}
	if comment == nil {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

// CommentCreate validates and inserts a new comment. The requester's
// network address and user agent are captured alongside the comment for
// moderation use; neither is validated. On the nested
// posts/{postID}/comments route the path post wins over the body.
func (a *API) CommentCreate(w http.ResponseWriter, r *http.Request) {
	var params commentParams
	if err := decodeJSON(r, &params); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	comment := models.Comment{Status: models.CommentStatusPending}
	params.apply(&comment)

	if raw := chi.URLParam(r, "postID"); raw != "" {
		postID, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			writeNotFound(w)
			return
		}
		comment.PostID = postID
	}

	comment.IPAddress = r.RemoteAddr
	comment.UserAgent = r.UserAgent()

	errs := a.validate.Struct(&comment)
	if err := a.checkComment(&comment, errs); err != nil {
		writeServerError(w, err)
		return
	}
	if errs.Any() {
		writeErrors(w, errs)
		return
	}

	created, err := a.comments.Create(&comment)
	if err != nil {
		writeServerError(w, err)
		return
	}

	full, err := a.comments.FindByID(created.ID)
	if err != nil {
		writeServerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, full)
}

// CommentUpdate applies a partial update, re-running the same rules and
// re-deriving the approval flag.
func (a *API) CommentUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "commentID")
	if err != nil {
		writeNotFound(w)
		return
	}
	comment, err := a.comments.FindByID(id)
	if err != nil {
		writeServerError(w, err)
		return
	}
	if comment == nil {
		writeNotFound(w)
		return
	}

	var params commentParams
	if err := decodeJSON(r, &params); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	params.apply(comment)

	errs := a.validate.Struct(comment)
	if err := a.checkComment(comment, errs); err != nil {
		writeServerError(w, err)
		return
	}
	if errs.Any() {
		writeErrors(w, errs)
		return
	}

	if err := a.comments.Update(comment); err != nil {
		writeServerError(w, err)
		return
	}

	full, err := a.comments.FindByID(id)
	if err != nil {
		writeServerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, full)
}

// CommentDelete removes a comment and its entire reply subtree.
func (a *API) CommentDelete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "commentID")
	if err != nil {
		writeNotFound(w)
		return
	}
	comment, err := a.comments.FindByID(id)
	if err != nil {
		writeServerError(w, err)
		return
	}
	if comment == nil {
		writeNotFound(w)
		return
	}

	if err := a.comments.Delete(id); err != nil {
		writeServerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
