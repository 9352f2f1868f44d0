// store_test.go provides shared test helpers for the store package:
// a live-database helper for integration tests (skipped when PostgreSQL
// is not available) and an sqlmock helper for transaction-shape tests.
package store

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"inkwell/internal/database"
	"inkwell/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkwell")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkwell")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// uniq appends a nanosecond suffix so fixtures never collide across runs.
func uniq(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// makeUser inserts a user fixture and registers its cascade cleanup.
func makeUser(t *testing.T, db *sql.DB) *models.User {
	t.Helper()
	s := NewUserStore(db)

	u, err := s.Create(&models.User{
		Email:  uniq("fixture") + "@store-test.local",
		Name:   "Fixture User",
		Status: models.UserStatusActive,
	})
	if err != nil {
		t.Fatalf("makeUser: %v", err)
	}
	t.Cleanup(func() { s.Delete(u.ID) })
	return u
}

// makeCategory inserts a category fixture and registers its cleanup.
func makeCategory(t *testing.T, db *sql.DB, name string, parent *models.Category) *models.Category {
	t.Helper()
	s := NewCategoryStore(db)

	c := &models.Category{
		Name:     name,
		Slug:     uniq(name),
		IsActive: true,
	}
	if parent != nil {
		c.ParentID = &parent.ID
	}
	created, err := s.Create(c)
	if err != nil {
		t.Fatalf("makeCategory: %v", err)
	}
	t.Cleanup(func() { s.Delete(created.ID) })
	return created
}

// makePost inserts a draft post fixture owned by the given user.
func makePost(t *testing.T, db *sql.DB, owner *models.User) *models.Post {
	t.Helper()
	s := NewPostStore(db)

	p, err := s.Create(&models.Post{
		UserID:  owner.ID,
		Title:   "Fixture Post",
		Slug:    uniq("fixture-post"),
		Content: "Fixture content.",
		Status:  models.PostStatusDraft,
	})
	if err != nil {
		t.Fatalf("makePost: %v", err)
	}
	t.Cleanup(func() { s.Delete(p.ID) })
	return p
}

// makeComment inserts a comment fixture on the given post.
func makeComment(t *testing.T, db *sql.DB, post *models.Post, author *models.User, parent *models.Comment) *models.Comment {
	t.Helper()
	s := NewCommentStore(db)

	c := &models.Comment{
		PostID:  post.ID,
		Content: "Fixture comment.",
		Status:  models.CommentStatusPending,
	}
	if author != nil {
		c.UserID = &author.ID
	} else {
		c.AuthorName = "Visitor"
		c.AuthorEmail = "visitor@store-test.local"
	}
	if parent != nil {
		c.ParentID = &parent.ID
	}
	created, err := s.Create(c)
	if err != nil {
		t.Fatalf("makeComment: %v", err)
	}
	t.Cleanup(func() { s.Delete(created.ID) })
	return created
}

// passthroughConverter lets sqlmock accept argument types the default
// converter rejects, like the []string slices bound to uuid[] parameters.
type passthroughConverter struct{}

func (passthroughConverter) ConvertValue(v any) (driver.Value, error) {
	return driver.Value(v), nil
}

// mockDB returns an sqlmock-backed *sql.DB for transaction-shape tests.
func mockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.ValueConverterOption(passthroughConverter{}))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}
