// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the Postgres error code for unique constraint violations.
const pgUniqueViolation = "23505"

// DuplicateField inspects err for a Postgres unique-constraint violation
// and returns the name of the conflicting column. Handlers use this to
// surface uniqueness failures as field-level validation errors instead
// of opaque 500s.
func DuplicateField(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return "", false
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "email"):
		return "email", true
	case strings.Contains(pgErr.ConstraintName, "slug"):
		return "slug", true
	case strings.Contains(pgErr.ConstraintName, "post_categories"):
		return "category_ids", true
	default:
		return "base", true
	}
}
