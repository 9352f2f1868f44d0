package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/slug"
)

// Seed populates the database with initial development data: a few users,
// a small category tree, sample posts, and a comment thread. It is a no-op
// when any users already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	users := []struct {
		email, name, status string
	}{
		{"john@example.com", "John Doe", "active"},
		{"jane@example.com", "Jane Smith", "active"},
		{"bob@example.com", "Bob Wilson", "inactive"},
	}
	userIDs := make(map[string]string, len(users))
	for _, u := range users {
		var id string
		err := db.QueryRow(`
			INSERT INTO users (email, name, status, password_hash)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, u.email, u.name, u.status, string(hash)).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed insert user %s: %w", u.email, err)
		}
		userIDs[u.email] = id
	}

	// Category tree: technology with two children, plus a sibling.
	insertCategory := func(name, description string, parentID any, sortOrder int) (string, error) {
		var id string
		err := db.QueryRow(`
			INSERT INTO categories (name, slug, description, parent_id, sort_order)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, name, slug.Generate(name), description, parentID, sortOrder).Scan(&id)
		if err != nil {
			return "", fmt.Errorf("seed insert category %s: %w", name, err)
		}
		return id, nil
	}

	techID, err := insertCategory("Technology", "All things technical", nil, 1)
	if err != nil {
		return err
	}
	railsID, err := insertCategory("Ruby on Rails", "Web development with Rails", techID, 1)
	if err != nil {
		return err
	}
	jsID, err := insertCategory("JavaScript", "Frontend and Node.js", techID, 2)
	if err != nil {
		return err
	}
	if _, err := insertCategory("Lifestyle", "Everything else", nil, 2); err != nil {
		return err
	}

	// Sample posts, one published and one draft.
	var publishedID string
	err = db.QueryRow(`
		INSERT INTO posts (user_id, title, slug, content, excerpt, status, published_at)
		VALUES ($1, $2, $3, $4, $5, 'published', now())
		RETURNING id
	`, userIDs["john@example.com"],
		"Getting Started with Blogging",
		slug.Generate("Getting Started with Blogging"),
		"Welcome to the platform. This first post walks through the basics of writing and publishing.",
		"A short tour of the platform.",
	).Scan(&publishedID)
	if err != nil {
		return fmt.Errorf("seed insert post: %w", err)
	}

	var draftID string
	err = db.QueryRow(`
		INSERT INTO posts (user_id, title, slug, content, excerpt, status)
		VALUES ($1, $2, $3, $4, $5, 'draft')
		RETURNING id
	`, userIDs["jane@example.com"],
		"Thoughts on Modern Web Frameworks",
		slug.Generate("Thoughts on Modern Web Frameworks"),
		"Still collecting notes on how the current crop of frameworks compare.",
		"Work in progress.",
	).Scan(&draftID)
	if err != nil {
		return fmt.Errorf("seed insert post: %w", err)
	}

	links := []struct{ postID, categoryID string }{
		{publishedID, techID},
		{publishedID, railsID},
		{draftID, techID},
		{draftID, jsID},
	}
	for _, l := range links {
		_, err := db.Exec(`
			INSERT INTO post_categories (post_id, category_id) VALUES ($1, $2)
		`, l.postID, l.categoryID)
		if err != nil {
			return fmt.Errorf("seed link post category: %w", err)
		}
	}

	// A small comment thread: an approved top-level comment from a user,
	// a pending anonymous reply below it.
	var topCommentID string
	err = db.QueryRow(`
		INSERT INTO comments (post_id, user_id, content, status, is_approved)
		VALUES ($1, $2, $3, 'approved', TRUE)
		RETURNING id
	`, publishedID, userIDs["jane@example.com"], "Great introduction, looking forward to more.").Scan(&topCommentID)
	if err != nil {
		return fmt.Errorf("seed insert comment: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO comments (post_id, parent_id, content, status, author_name, author_email)
		VALUES ($1, $2, $3, 'pending', $4, $5)
	`, publishedID, topCommentID, "Same here, subscribed!", "Visitor", "visitor@example.com")
	if err != nil {
		return fmt.Errorf("seed insert comment: %w", err)
	}

	slog.Info("database seeded with sample data",
		"users", len(users),
		"posts", 2,
	)
	return nil
}
