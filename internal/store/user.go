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

// UserStore manages user accounts in the database.
type UserStore struct {
	db *sql.DB
}

// NewUserStore returns a new UserStore.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, email, name, status, password_hash, created_at, updated_at`

// scanUser scans a row into a User struct.
func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := scanner.Scan(
		&u.ID, &u.Email, &u.Name, &u.Status,
		&u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns all users ordered by creation date.
func (s *UserStore) List() ([]models.User, error) {
	rows, err := s.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var items []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		items = append(items, *u)
	}
	return items, rows.Err()
}

// FindByID retrieves a user by ID. Returns nil if not found.
func (s *UserStore) FindByID(id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// FindByEmail retrieves a user by email. Returns nil if not found.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// Create inserts a new user and returns it.
func (s *UserStore) Create(u *models.User) (*models.User, error) {
	row := s.db.QueryRow(`
		INSERT INTO users (email, name, status, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		u.Email, u.Name, u.Status, u.PasswordHash,
	)
	result, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return result, nil
}

// Update modifies an existing user.
func (s *UserStore) Update(u *models.User) error {
	_, err := s.db.Exec(`
		UPDATE users SET email = $1, name = $2, status = $3, updated_at = NOW()
		WHERE id = $4
	`, u.Email, u.Name, u.Status, u.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// Delete removes a user together with everything they own: their posts,
// every comment on those posts, their post-category links, and every
// comment they authored elsewhere including its reply subtree. All ids
// are collected up front and the whole cascade commits atomically.
func (s *UserStore) Delete(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	postIDs, err := collectIDs(tx, `SELECT id FROM posts WHERE user_id = $1`, id)
	if err != nil {
		return fmt.Errorf("collect user posts: %w", err)
	}

	seed, err := collectIDs(tx, `
		SELECT id FROM comments
		WHERE user_id = $1 OR post_id = ANY($2::uuid[])
	`, id, uuidStrings(postIDs))
	if err != nil {
		return fmt.Errorf("collect user comments: %w", err)
	}

	doomed, err := expandCommentSubtrees(tx, seed)
	if err != nil {
		return fmt.Errorf("collect comment subtrees: %w", err)
	}

	if len(doomed) > 0 {
		if _, err := tx.Exec(`DELETE FROM comments WHERE id = ANY($1::uuid[])`, uuidStrings(doomed)); err != nil {
			return fmt.Errorf("delete user comments: %w", err)
		}
	}
	if len(postIDs) > 0 {
		if _, err := tx.Exec(`DELETE FROM post_categories WHERE post_id = ANY($1::uuid[])`, uuidStrings(postIDs)); err != nil {
			return fmt.Errorf("delete post category links: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM posts WHERE user_id = $1`, id); err != nil {
			return fmt.Errorf("delete user posts: %w", err)
		}
	}
	if _, err := tx.Exec(`DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	return tx.Commit()
}
