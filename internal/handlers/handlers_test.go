// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handlers_test.go provides shared helpers for handler tests: an API
// wired to an sqlmock database, request builders carrying chi URL
// parameters, and row constructors matching the store column layouts.
package handlers

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"inkwell/internal/store"
)

type passthroughConverter struct{}

func (passthroughConverter) ConvertValue(v any) (driver.Value, error) {
	return driver.Value(v), nil
}

// newTestAPI builds an API over an sqlmock database, without a cache.
func newTestAPI(t *testing.T) (*API, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.ValueConverterOption(passthroughConverter{}))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	api := NewAPI(
		store.NewUserStore(db),
		store.NewPostStore(db),
		store.NewCategoryStore(db),
		store.NewCommentStore(db),
		nil,
	)
	return api, mock
}

// doRequest invokes a handler directly with the given JSON body and chi
// URL parameters, returning the recorded response.
func doRequest(handler http.HandlerFunc, method, body string, params map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

// responseErrors decodes the {"errors": {...}} body of a 422 response.
func responseErrors(t *testing.T, w *httptest.ResponseRecorder) map[string][]string {
	t.Helper()
	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Errors
}

var testTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func userRowColumns() []string {
	return []string{"id", "email", "name", "status", "password_hash", "created_at", "updated_at"}
}

func userRow(id uuid.UUID, email, name, status string) *sqlmock.Rows {
	return sqlmock.NewRows(userRowColumns()).
		AddRow(id.String(), email, name, status, "", testTime, testTime)
}

func emptyUserRows() *sqlmock.Rows {
	return sqlmock.NewRows(userRowColumns())
}

func postRow(id, userID uuid.UUID, title, slug, status string) *sqlmock.Rows {
	return sqlmock.NewRows(postRowColumns()).
		AddRow(id.String(), userID.String(), title, slug, "content", "", status, "", 0, nil, testTime, testTime)
}

func categoryRowColumns() []string {
	return []string{"id", "name", "slug", "description", "parent_id", "sort_order", "is_active", "created_at", "updated_at"}
}

func emptyCategoryRows() *sqlmock.Rows {
	return sqlmock.NewRows(categoryRowColumns())
}

func postRowColumns() []string {
	return []string{
		"id", "user_id", "title", "slug", "content", "excerpt", "status",
		"featured_image", "view_count", "published_at", "created_at", "updated_at",
	}
}

func emptyPostRows() *sqlmock.Rows {
	return sqlmock.NewRows(postRowColumns())
}

func categoryRow(id uuid.UUID, name, slug string, parentID *uuid.UUID) *sqlmock.Rows {
	rows := sqlmock.NewRows(categoryRowColumns())
	if parentID != nil {
		rows.AddRow(id.String(), name, slug, "", parentID.String(), 0, true, testTime, testTime)
	} else {
		rows.AddRow(id.String(), name, slug, "", nil, 0, true, testTime, testTime)
	}
	return rows
}

func commentRowColumns() []string {
	return []string{
		"id", "post_id", "user_id", "parent_id", "content", "status", "is_approved",
		"author_name", "author_email", "ip_address", "user_agent", "created_at", "updated_at",
	}
}

func commentRow(id, postID uuid.UUID, content, status string, approved bool) *sqlmock.Rows {
	return sqlmock.NewRows(commentRowColumns()).
		AddRow(id.String(), postID.String(), nil, nil, content, status, approved,
			"Visitor", "visitor@example.com", "192.0.2.1:1234", "test-agent", testTime, testTime)
}

func emptyCommentRows() *sqlmock.Rows {
	return sqlmock.NewRows(commentRowColumns())
}
