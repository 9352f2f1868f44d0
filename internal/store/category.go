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

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, parent_id, sort_order, is_active, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID,
		&c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by sort_order, then name.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`SELECT ` + categoryColumns + ` FROM categories ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Tree returns categories as a nested tree structure.
func (s *CategoryStore) Tree() ([]models.Category, error) {
	flat, err := s.List()
	if err != nil {
		return nil, err
	}
	return buildTree(flat, nil, 0), nil
}

// buildTree recursively builds a tree from a flat list.
func buildTree(flat []models.Category, parentID *uuid.UUID, depth int) []models.Category {
	var result []models.Category
	for _, c := range flat {
		if ptrEqual(c.ParentID, parentID) {
			c.Depth = depth
			c.Children = buildTree(flat, &c.ID, depth+1)
			result = append(result, c)
		}
	}
	return result
}

// ptrEqual compares two *uuid.UUID for equality (both nil or same value).
func ptrEqual(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (name, slug, description, parent_id, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.ParentID, c.SortOrder, c.IsActive,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Update modifies an existing category.
func (s *CategoryStore) Update(c *models.Category) error {
	_, err := s.db.Exec(`
		UPDATE categories SET
			name = $1, slug = $2, description = $3, parent_id = $4,
			sort_order = $5, is_active = $6, updated_at = NOW()
		WHERE id = $7
	`, c.Name, c.Slug, c.Description, c.ParentID, c.SortOrder, c.IsActive, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// DescendantIDs returns the ids of every category below the given one,
// walked level by level. Also used to reject re-parenting a category
// under its own subtree.
func (s *CategoryStore) DescendantIDs(id uuid.UUID) ([]uuid.UUID, error) {
	return descendantCategoryIDs(s.db, id)
}

// descendantCategoryIDs collects the full descendant set before any
// delete runs. The seen set guards against parent cycles in existing data.
func descendantCategoryIDs(q queryer, root uuid.UUID) ([]uuid.UUID, error) {
	seen := map[uuid.UUID]bool{root: true}
	var all []uuid.UUID

	frontier := []uuid.UUID{root}
	for len(frontier) > 0 {
		next, err := collectIDs(q,
			`SELECT id FROM categories WHERE parent_id = ANY($1::uuid[])`,
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

// Delete removes a category, its entire descendant subtree, and every
// post-category link belonging to any deleted category. Posts are never
// touched. The cascade runs as one transaction.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	descendants, err := descendantCategoryIDs(tx, id)
	if err != nil {
		return fmt.Errorf("collect category descendants: %w", err)
	}
	doomed := append(descendants, id)
	ids := uuidStrings(doomed)

	if _, err := tx.Exec(`DELETE FROM post_categories WHERE category_id = ANY($1::uuid[])`, ids); err != nil {
		return fmt.Errorf("delete category links: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM categories WHERE id = ANY($1::uuid[])`, ids); err != nil {
		return fmt.Errorf("delete categories: %w", err)
	}

	return tx.Commit()
}

// AttachPosts populates the Posts virtual field for each category with
// its directly linked posts — one hop, no subtree expansion.
func (s *CategoryStore) AttachPosts(categories []models.Category) error {
	if len(categories) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}

	rows, err := s.db.Query(`
		SELECT pc.category_id, `+prefixedPostColumns("p")+`
		FROM post_categories pc
		JOIN posts p ON p.id = pc.post_id
		WHERE pc.category_id = ANY($1::uuid[])
		ORDER BY p.created_at DESC
	`, uuidStrings(ids))
	if err != nil {
		return fmt.Errorf("load category posts: %w", err)
	}
	defer rows.Close()

	byCategory := make(map[uuid.UUID][]models.Post)
	for rows.Next() {
		var categoryID uuid.UUID
		var p models.Post
		if err := rows.Scan(
			&categoryID,
			&p.ID, &p.UserID, &p.Title, &p.Slug, &p.Content, &p.Excerpt,
			&p.Status, &p.FeaturedImage, &p.ViewCount, &p.PublishedAt,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return fmt.Errorf("scan category post: %w", err)
		}
		byCategory[categoryID] = append(byCategory[categoryID], p)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range categories {
		categories[i].Posts = byCategory[categories[i].ID]
	}
	return nil
}
