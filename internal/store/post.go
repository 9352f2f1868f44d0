// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, user_id, title, slug, content, excerpt, status, featured_image, view_count, published_at, created_at, updated_at`

// prefixedPostColumns returns postColumns with each column qualified by
// the given table alias, for use in join queries.
func prefixedPostColumns(alias string) string {
	cols := strings.Split(postColumns, ", ")
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

// scanPost scans a row into a Post struct.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.UserID, &p.Title, &p.Slug, &p.Content, &p.Excerpt,
		&p.Status, &p.FeaturedImage, &p.ViewCount, &p.PublishedAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns all posts ordered by creation date descending, each with
// its author and linked categories attached.
func (s *PostStore) List() ([]models.Post, error) {
	return s.list(`SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC`)
}

// ListByUser returns the posts owned by the given user, with associations attached.
func (s *PostStore) ListByUser(userID uuid.UUID) ([]models.Post, error) {
	return s.list(`SELECT `+postColumns+` FROM posts WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (s *PostStore) list(query string, args ...any) ([]models.Post, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attach(items); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID retrieves a post by ID with author and categories attached.
// Returns nil if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}

	single := []models.Post{*p}
	if err := s.attach(single); err != nil {
		return nil, err
	}
	return &single[0], nil
}

// attach populates the User and Categories virtual fields for a batch of
// posts — one hop each, matching what the API renders.
func (s *PostStore) attach(posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]uuid.UUID, len(posts))
	userIDs := make([]uuid.UUID, 0, len(posts))
	seenUsers := map[uuid.UUID]bool{}
	for i, p := range posts {
		postIDs[i] = p.ID
		if !seenUsers[p.UserID] {
			seenUsers[p.UserID] = true
			userIDs = append(userIDs, p.UserID)
		}
	}

	// Authors.
	rows, err := s.db.Query(`SELECT `+userColumns+` FROM users WHERE id = ANY($1::uuid[])`, uuidStrings(userIDs))
	if err != nil {
		return fmt.Errorf("load post authors: %w", err)
	}
	defer rows.Close()

	users := make(map[uuid.UUID]models.User)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return fmt.Errorf("scan post author: %w", err)
		}
		users[u.ID] = *u
	}
	if err := rows.Err(); err != nil {
		return err
	}

	// Categories through the join table.
	catRows, err := s.db.Query(`
		SELECT pc.post_id, `+prefixedCategoryColumns("c")+`
		FROM post_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.post_id = ANY($1::uuid[])
		ORDER BY c.sort_order, c.name
	`, uuidStrings(postIDs))
	if err != nil {
		return fmt.Errorf("load post categories: %w", err)
	}
	defer catRows.Close()

	byPost := make(map[uuid.UUID][]models.Category)
	for catRows.Next() {
		var postID uuid.UUID
		var c models.Category
		if err := catRows.Scan(
			&postID,
			&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID,
			&c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return fmt.Errorf("scan post category: %w", err)
		}
		byPost[postID] = append(byPost[postID], c)
	}
	if err := catRows.Err(); err != nil {
		return err
	}

	for i := range posts {
		if u, ok := users[posts[i].UserID]; ok {
			posts[i].User = &u
		}
		posts[i].Categories = byPost[posts[i].ID]
	}
	return nil
}

// prefixedCategoryColumns returns categoryColumns qualified by a table alias.
func prefixedCategoryColumns(alias string) string {
	cols := strings.Split(categoryColumns, ", ")
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

// normalizeLifecycle applies the publishing invariant before a write:
// entering published status stamps published_at, returning to draft
// clears it.
func normalizeLifecycle(p *models.Post) {
	switch p.Status {
	case models.PostStatusPublished:
		if p.PublishedAt == nil {
			now := time.Now()
			p.PublishedAt = &now
		}
	case models.PostStatusDraft:
		p.PublishedAt = nil
	}
}

// Create inserts a new post and returns it with the generated ID.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	normalizeLifecycle(p)

	row := s.db.QueryRow(`
		INSERT INTO posts (user_id, title, slug, content, excerpt, status,
		                   featured_image, view_count, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+postColumns,
		p.UserID, p.Title, p.Slug, p.Content, p.Excerpt, p.Status,
		p.FeaturedImage, p.ViewCount, p.PublishedAt,
	)
	result, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return result, nil
}

// Update modifies an existing post.
func (s *PostStore) Update(p *models.Post) error {
	normalizeLifecycle(p)

	_, err := s.db.Exec(`
		UPDATE posts SET
			user_id = $1, title = $2, slug = $3, content = $4, excerpt = $5,
			status = $6, featured_image = $7, view_count = $8, published_at = $9,
			updated_at = NOW()
		WHERE id = $10
	`, p.UserID, p.Title, p.Slug, p.Content, p.Excerpt, p.Status,
		p.FeaturedImage, p.ViewCount, p.PublishedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Publish sets the post to published and stamps published_at with the
// current time, regardless of prior state. Returns nil if the post does
// not exist.
func (s *PostStore) Publish(id uuid.UUID) (*models.Post, error) {
	return s.setLifecycle(id, `
		UPDATE posts SET status = 'published', published_at = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING `+postColumns)
}

// Unpublish sets the post back to draft and clears published_at,
// regardless of prior state. Returns nil if the post does not exist.
func (s *PostStore) Unpublish(id uuid.UUID) (*models.Post, error) {
	return s.setLifecycle(id, `
		UPDATE posts SET status = 'draft', published_at = NULL, updated_at = NOW()
		WHERE id = $1
		RETURNING `+postColumns)
}

func (s *PostStore) setLifecycle(id uuid.UUID, query string) (*models.Post, error) {
	row := s.db.QueryRow(query, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("set post lifecycle: %w", err)
	}

	single := []models.Post{*p}
	if err := s.attach(single); err != nil {
		return nil, err
	}
	return &single[0], nil
}

// SetCategories replaces the post's category links with the given set.
func (s *PostStore) SetCategories(postID uuid.UUID, categoryIDs []uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM post_categories WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("clear post categories: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO post_categories (post_id, category_id) VALUES ($1, $2)`)
	if err != nil {
		return fmt.Errorf("prepare category link: %w", err)
	}
	defer stmt.Close()

	for _, categoryID := range categoryIDs {
		if _, err := stmt.Exec(postID, categoryID); err != nil {
			return fmt.Errorf("link category %s: %w", categoryID, err)
		}
	}

	return tx.Commit()
}

// Delete removes a post, its entire comment tree, and its category
// links, as one transaction. The owning user and the linked categories
// are left intact.
func (s *PostStore) Delete(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Every comment on the post goes, including nested replies, so a
	// single post-scoped delete covers the whole tree.
	if _, err := tx.Exec(`DELETE FROM comments WHERE post_id = $1`, id); err != nil {
		return fmt.Errorf("delete post comments: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM post_categories WHERE post_id = $1`, id); err != nil {
		return fmt.Errorf("delete post category links: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM posts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	return tx.Commit()
}
