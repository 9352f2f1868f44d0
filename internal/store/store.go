// Package store contains the persistence layer. Each entity gets its own
// store type backed by *sql.DB, with explicit SQL and scan helpers.
// Cascading deletes are implemented here by collecting the full set of
// affected row identifiers first, then deleting everything inside a
// single transaction — the schema deliberately carries no ON DELETE
// CASCADE triggers.
package store

import (
	"database/sql"

	"github.com/google/uuid"
)

// queryer is satisfied by both *sql.DB and *sql.Tx, letting collection
// helpers run inside or outside a transaction.
type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

// uuidStrings converts ids to their text form for use with ANY($n::uuid[]).
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// collectIDs drains a single-column id query into a slice.
func collectIDs(q queryer, query string, args ...any) ([]uuid.UUID, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
