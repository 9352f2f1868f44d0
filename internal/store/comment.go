// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// CommentStore manages comment threads in the database.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore returns a new CommentStore.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentColumns = `id, post_id, user_id, parent_id, content, status, is_approved, author_name, author_email, ip_address, user_agent, created_at, updated_at`

// scanComment scans a row into a Comment struct.
func scanComment(scanner interface{ Scan(...any) error }) (*models.Comment, error) {
	var c models.Comment
	err := scanner.Scan(
		&c.ID, &c.PostID, &c.UserID, &c.ParentID, &c.Content, &c.Status,
		&c.IsApproved, &c.AuthorName, &c.AuthorEmail, &c.IPAddress,
		&c.UserAgent, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new comment. The approval flag is re-derived from the
// moderation status immediately before the write; whatever the caller
// set on IsApproved is discarded.
func (s *CommentStore) Create(c *models.Comment) (*models.Comment, error) {
	c.DeriveApproval()

	row := s.db.QueryRow(`
		INSERT INTO comments (post_id, user_id, parent_id, content, status,
		                      is_approved, author_name, author_email, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+commentColumns,
		c.PostID, c.UserID, c.ParentID, c.Content, c.Status,
		c.IsApproved, c.AuthorName, c.AuthorEmail, c.IPAddress, c.UserAgent,
	)
	result, err := scanComment(row)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return result, nil
}

// Update modifies an existing comment, re-deriving the approval flag.
func (s *CommentStore) Update(c *models.Comment) error {
	c.DeriveApproval()

	_, err := s.db.Exec(`
		UPDATE comments SET
			post_id = $1, user_id = $2, parent_id = $3, content = $4,
			status = $5, is_approved = $6, author_name = $7, author_email = $8,
			updated_at = NOW()
		WHERE id = $9
	`, c.PostID, c.UserID, c.ParentID, c.Content, c.Status, c.IsApproved,
		c.AuthorName, c.AuthorEmail, c.ID)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

// FindByID retrieves a comment with its user, post, and direct replies
// attached. Returns nil if not found.
func (s *CommentStore) FindByID(id uuid.UUID) (*models.Comment, error) {
	row := s.db.QueryRow(`SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}

	single := []models.Comment{*c}
	if err := s.attachUsers(single); err != nil {
		return nil, err
	}
	if err := s.attachPosts(single); err != nil {
		return nil, err
	}
	if err := s.attachReplies(single); err != nil {
		return nil, err
	}
	return &single[0], nil
}

// ListTopLevelByPost returns the top-level comments for a post, newest
// first, each with its user and direct replies attached.
func (s *CommentStore) ListTopLevelByPost(postID uuid.UUID) ([]models.Comment, error) {
	items, err := s.list(`
		SELECT `+commentColumns+` FROM comments
		WHERE post_id = $1 AND parent_id IS NULL
		ORDER BY created_at DESC
	`, postID)
	if err != nil {
		return nil, err
	}
	if err := s.attachUsers(items); err != nil {
		return nil, err
	}
	if err := s.attachReplies(items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListAll returns every comment, newest first, each with its user, post,
// and direct replies attached.
func (s *CommentStore) ListAll() ([]models.Comment, error) {
	items, err := s.list(`SELECT ` + commentColumns + ` FROM comments ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	if err := s.attachUsers(items); err != nil {
		return nil, err
	}
	if err := s.attachPosts(items); err != nil {
		return nil, err
	}
	if err := s.attachReplies(items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *CommentStore) list(query string, args ...any) ([]models.Comment, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var items []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// attachUsers populates the User virtual field for authenticated comments.
func (s *CommentStore) attachUsers(comments []models.Comment) error {
	var userIDs []uuid.UUID
	seen := map[uuid.UUID]bool{}
	for _, c := range comments {
		if c.UserID != nil && !seen[*c.UserID] {
			seen[*c.UserID] = true
			userIDs = append(userIDs, *c.UserID)
		}
	}
	if len(userIDs) == 0 {
		return nil
	}

	rows, err := s.db.Query(`SELECT `+userColumns+` FROM users WHERE id = ANY($1::uuid[])`, uuidStrings(userIDs))
	if err != nil {
		return fmt.Errorf("load comment users: %w", err)
	}
	defer rows.Close()

	users := make(map[uuid.UUID]models.User)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return fmt.Errorf("scan comment user: %w", err)
		}
		users[u.ID] = *u
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range comments {
		if comments[i].UserID == nil {
			continue
		}
		if u, ok := users[*comments[i].UserID]; ok {
			comments[i].User = &u
		}
	}
	return nil
}

// attachPosts populates the Post virtual field.
func (s *CommentStore) attachPosts(comments []models.Comment) error {
	var postIDs []uuid.UUID
	seen := map[uuid.UUID]bool{}
	for _, c := range comments {
		if !seen[c.PostID] {
			seen[c.PostID] = true
			postIDs = append(postIDs, c.PostID)
		}
	}
	if len(postIDs) == 0 {
		return nil
	}

	rows, err := s.db.Query(`SELECT `+postColumns+` FROM posts WHERE id = ANY($1::uuid[])`, uuidStrings(postIDs))
	if err != nil {
		return fmt.Errorf("load comment posts: %w", err)
	}
	defer rows.Close()

	posts := make(map[uuid.UUID]models.Post)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return fmt.Errorf("scan comment post: %w", err)
		}
		posts[p.ID] = *p
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range comments {
		if p, ok := posts[comments[i].PostID]; ok {
			comments[i].Post = &p
		}
	}
	return nil
}

// attachReplies populates each comment's direct replies — one hop only,
// in chronological order. Deeper levels are reached by fetching a reply
// as its own comment.
func (s *CommentStore) attachReplies(comments []models.Comment) error {
	if len(comments) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}

	rows, err := s.db.Query(`
		SELECT `+commentColumns+` FROM comments
		WHERE parent_id = ANY($1::uuid[])
		ORDER BY created_at
	`, uuidStrings(ids))
	if err != nil {
		return fmt.Errorf("load comment replies: %w", err)
	}
	defer rows.Close()

	byParent := make(map[uuid.UUID][]models.Comment)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return fmt.Errorf("scan comment reply: %w", err)
		}
		byParent[*c.ParentID] = append(byParent[*c.ParentID], *c)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range comments {
		comments[i].Replies = byParent[comments[i].ID]
	}
	return nil
}

// expandCommentSubtrees returns the seed ids plus every descendant reply
// id, walked level by level so the full doomed set is known before any
// deletion happens.
func expandCommentSubtrees(q queryer, seed []uuid.UUID) ([]uuid.UUID, error) {
	all := make([]uuid.UUID, 0, len(seed))
	seen := map[uuid.UUID]bool{}
	for _, id := range seed {
		if !seen[id] {
			seen[id] = true
			all = append(all, id)
		}
	}

	frontier := append([]uuid.UUID(nil), all...)
	for len(frontier) > 0 {
		next, err := collectIDs(q,
			`SELECT id FROM comments WHERE parent_id = ANY($1::uuid[])`,
			uuidStrings(frontier))
		if err != nil {
			return nil, err
		}
		frontier = frontier[:0]
		for _, id := range next {
			if seen[id] {
				continue
			}
			seen[id] = true
			all = append(all, id)
			frontier = append(frontier, id)
		}
	}
	return all, nil
}

// Delete removes a comment and its entire reply subtree as one transaction.
func (s *CommentStore) Delete(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	doomed, err := expandCommentSubtrees(tx, []uuid.UUID{id})
	if err != nil {
		return fmt.Errorf("collect comment subtree: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM comments WHERE id = ANY($1::uuid[])`, uuidStrings(doomed)); err != nil {
		return fmt.Errorf("delete comment subtree: %w", err)
	}

	return tx.Commit()
}
