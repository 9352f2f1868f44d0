// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreate(t *testing.T) {
	api, mock := newTestAPI(t)

	id := uuid.New()
	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnRows(userRow(id, "john@example.com", "John Doe", "active"))

	w := doRequest(api.UserCreate, http.MethodPost,
		`{"email":"john@example.com","name":"John Doe"}`, nil)

	require.Equal(t, http.StatusCreated, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "john@example.com", got["email"])
	assert.Equal(t, "active", got["status"], "status should default to active")
	assert.NotContains(t, got, "password_hash", "hash must never serialize")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateValidation(t *testing.T) {
	api, _ := newTestAPI(t)

	t.Run("missing everything", func(t *testing.T) {
		w := doRequest(api.UserCreate, http.MethodPost, `{}`, nil)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		errs := responseErrors(t, w)
		assert.Contains(t, errs["email"], "is required")
		assert.Contains(t, errs["name"], "is required")
	})

	t.Run("malformed email", func(t *testing.T) {
		w := doRequest(api.UserCreate, http.MethodPost,
			`{"email":"not-an-email","name":"John"}`, nil)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		errs := responseErrors(t, w)
		assert.Contains(t, errs["email"], "is not a valid email address")
	})

	t.Run("bad status value", func(t *testing.T) {
		w := doRequest(api.UserCreate, http.MethodPost,
			`{"email":"john@example.com","name":"John","status":"suspended"}`, nil)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		errs := responseErrors(t, w)
		assert.Contains(t, errs["status"], "must be one of: active, inactive")
	})

	t.Run("malformed body", func(t *testing.T) {
		w := doRequest(api.UserCreate, http.MethodPost, `{"email": `, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown field", func(t *testing.T) {
		w := doRequest(api.UserCreate, http.MethodPost, `{"emial":"x@y.co"}`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	api, mock := newTestAPI(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	w := doRequest(api.UserCreate, http.MethodPost,
		`{"email":"john@example.com","name":"John Doe"}`, nil)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errs := responseErrors(t, w)
	assert.Equal(t, []string{"has already been taken"}, errs["email"])
}

func TestUserGet(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		api, mock := newTestAPI(t)
		id := uuid.New()
		mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
			WillReturnRows(userRow(id, "jane@example.com", "Jane", "active"))

		w := doRequest(api.UserGet, http.MethodGet, "", map[string]string{"userID": id.String()})

		require.Equal(t, http.StatusOK, w.Code)
		var got map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, id.String(), got["id"])
	})

	t.Run("not found", func(t *testing.T) {
		api, mock := newTestAPI(t)
		// QueryRow with zero rows yields sql.ErrNoRows, which the store
		// maps to nil and the handler to a 404.
		mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
			WillReturnRows(emptyUserRows())

		w := doRequest(api.UserGet, http.MethodGet, "", map[string]string{"userID": uuid.NewString()})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		api, _ := newTestAPI(t)
		w := doRequest(api.UserGet, http.MethodGet, "", map[string]string{"userID": "not-a-uuid"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUserUpdatePartial(t *testing.T) {
	api, mock := newTestAPI(t)

	id := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
		WillReturnRows(userRow(id, "jane@example.com", "Jane", "active"))
	mock.ExpectExec(`UPDATE users SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Only the name is supplied; email and status must survive the merge.
	w := doRequest(api.UserUpdate, http.MethodPatch,
		`{"name":"Jane Renamed"}`, map[string]string{"userID": id.String()})

	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Jane Renamed", got["name"])
	assert.Equal(t, "jane@example.com", got["email"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserUpdateInvalidMerge(t *testing.T) {
	api, mock := newTestAPI(t)

	id := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
		WillReturnRows(userRow(id, "jane@example.com", "Jane", "active"))

	// Clearing the name through a partial update must fail validation.
	w := doRequest(api.UserUpdate, http.MethodPatch,
		`{"name":""}`, map[string]string{"userID": id.String()})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errs := responseErrors(t, w)
	assert.Contains(t, errs["name"], "is required")
}

func TestUserDeleteNotFound(t *testing.T) {
	api, mock := newTestAPI(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
		WillReturnRows(emptyUserRows())

	w := doRequest(api.UserDelete, http.MethodDelete, "", map[string]string{"userID": uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
