// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

// userParams is the JSON body for user create and partial update.
// Pointer fields distinguish "not supplied" from zero values.
type userParams struct {
	Email  *string            `json:"email"`
	Name   *string            `json:"name"`
	Status *models.UserStatus `json:"status"`
}

// apply merges the supplied fields into the user.
func (p *userParams) apply(u *models.User) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
}

// UsersList returns every user.
func (a *API) UsersList(w http.ResponseWriter, r *http.Request) {
	users, err := a.users.List()
	if err != nil {
		writeServerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// UserGet returns a single user.
func (a *API) UserGet(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "userID")
	if err != nil {
		writeNotFound(w)
		return
	}
	user, err := a.users.FindByID(id)
	if err != nil {
		writeServerError(w, err)
		return
	}
	if user == nil {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UserCreate validates and inserts a new user.
func (a *API) UserCreate(w http.ResponseWriter, r *http.Request) {
	var params userParams
	if err := decodeJSON(r, &params); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	user := models.User{Status: models.UserStatusActive}
	params.apply(&user)

	if errs := a.validate.Struct(&user); errs.Any() {
		writeErrors(w, errs)
		return
	}

	created, err := a.users.Create(&user)
	if err != nil {
		if field, ok := store.DuplicateField(err); ok {
			errs := map[string][]string{field: {"has already been taken"}}
			writeErrors(w, errs)
			return
		}
		writeServerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UserUpdate applies a partial update, re-running the same validations.
func (a *API) UserUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "userID")
	if err != nil {
		writeNotFound(w)
		return
	}
	user, err := a.users.FindByID(id)
	if err != nil {
		writeServerError(w, err)
		return
	}
	if user == nil {
		writeNotFound(w)
		return
	}

	var params userParams
	if err := decodeJSON(r, &params); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	params.apply(user)

	if errs := a.validate.Struct(user); errs.Any() {
		writeErrors(w, errs)
		return
	}

	if err := a.users.Update(user); err != nil {
		if field, ok := store.DuplicateField(err); ok {
			writeErrors(w, map[string][]string{field: {"has already been taken"}})
			return
		}
		writeServerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UserDelete removes a user and cascades over everything they own.
func (a *API) UserDelete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "userID")
	if err != nil {
		writeNotFound(w)
		return
	}
	user, err := a.users.FindByID(id)
	if err != nil {
		writeServerError(w, err)
		return
	}
	if user == nil {
		writeNotFound(w)
		return
	}

	if err := a.users.Delete(id); err != nil {
		writeServerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
