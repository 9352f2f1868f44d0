// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/store"
	"inkwell/internal/validate"
)

// categoryParams is the JSON body for category create and partial update.
type categoryParams struct {
	Name        *string      `json:"name"`
	Slug        *string      `json:"slug"`
	Description *string      `json:"description"`
	ParentID    optionalUUID `json:"parent_id"`
	SortOrder   *int         `json:"sort_order"`
	IsActive    *bool        `json:"is_active"`
}

func (p *categoryParams) apply(c *models.Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Slug != nil {
		c.Slug = *p.Slug
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.ParentID.Set {
		c.ParentID = p.ParentID.Value
	}
	if p.SortOrder != nil {
		c.SortOrder = *p.SortOrder
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
}

// checkParent verifies the parent reference: it must exist, and a
// category may not sit inside its own subtree.
func (a *API) checkParent(c *models.Category, errs validate.Errors) error {
	if c.ParentID == nil {
		return nil
	}
	if *c.ParentID == c.ID {
		errs.Add("parent_id", "cannot be the category itself")
		return nil
	}

	parent, err := a.categories.FindByID(*c.ParentID)
	if err != nil {
		return err
	}
	if parent == nil {
		errs.Add("parent_id", "must exist")
		return nil
	}

	if c.ID != uuid.Nil {
		descendants, err := a.categories.DescendantIDs(c.ID)
		if err != nil {
			return err
		}
		for _, id := range descendants {
			if id == *c.ParentID {
				errs.Add("parent_id", "cannot be a descendant of the category")
				break
			}
		}
	}
	return nil
}

// CategoriesList returns all categories with their directly linked posts.
func (a *API) CategoriesList(w http.ResponseWriter, r *http.Request) {
	categories, err := a.categories.List()
	if err != nil {
		writeServerError(w, err)
		return
	}
	if err := a.categories.AttachPosts(categories); err != nil {
		writeServerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// CategoriesTree returns the categories nested by parent, roots first,
// children under their parents.
func (a *API) CategoriesTree(w http.ResponseWriter, r *http.Request) {
	tree, err := a.categories.Tree()
	if err != nil {
		writeServerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// CategoryGet returns a single category with its directly linked posts.
func (a *API) CategoryGet(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "categoryID")
	if err != nil {
		writeNotFound(w)
		return
	}
	category, err := a.categories.FindByID(id)
	if err != nil {
		writeServerError(w, err)
		return
	}
	if category == nil {
		writeNotFound(w)
		return
	}

	single := []models.Category{*category}
	if err := a.categories.AttachPosts(single); err != nil {
		writeServerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, single[0])
}

// CategoryCreate validates and inserts a new category.
func (a *API) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var params categoryParams
	if err := decodeJSON(r, &params); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	category := models.Category{IsActive: true}
	params.apply(&category)

	errs := a.validate.Struct(&category)
	if err := a.checkParent(&category, errs); err != nil {
		writeServerError(w, err)
		return
	}
	if errs.Any() {
		writeErrors(w, errs)
		return
	}

	created, err := a.categories.Create(&category)
	if err != nil {
		if field, ok := store.DuplicateField(err); ok {
			writeErrors(w, validate.Errors{field: {"has already been taken"}})
			return
		}
		writeServerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// CategoryUpdate applies a partial update, re-running the same validations.
func (a *API) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "categoryID")
	if err != nil {
		writeNotFound(w)
		return
	}
	category, err := a.categories.FindByID(id)
	if err != nil {
		writeServerError(w, err)
		return
	}
	if category == nil {
		writeNotFound(w)
		return
	}

	var params categoryParams
	if err := decodeJSON(r, &params); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	params.apply(category)

	errs := a.validate.Struct(category)
	if err := a.checkParent(category, errs); err != nil {
		writeServerError(w, err)
		return
	}
	if errs.Any() {
		writeErrors(w, errs)
		return
	}

	if err := a.categories.Update(category); err != nil {
		if field, ok := store.DuplicateField(err); ok {
			writeErrors(w, validate.Errors{field: {"has already been taken"}})
			return
		}
		writeServerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// CategoryDelete removes a category and its whole subtree. Posts linked
// to any deleted category survive; only the join rows go.
func (a *API) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "categoryID")
	if err != nil {
		writeNotFound(w)
		return
	}
	category, err := a.categories.FindByID(id)
	if err != nil {
		writeServerError(w, err)
		return
	}
	if category == nil {
		writeNotFound(w)
		return
	}

	if err := a.categories.Delete(id); err != nil {
		writeServerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
