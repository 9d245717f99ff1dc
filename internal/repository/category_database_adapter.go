package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gyandeep/internal/domain"
	"gyandeep/internal/repository/models"
	"gyandeep/internal/util"
)

const categoryColumns = "id, name, icon, enabled, max_questions, created_at, updated_at"

type CategoryDatabaseAdapter struct {
	db DBTX
}

// NewCategoryDatabaseAdapter creates a new instance of CategoryDatabaseAdapter
func NewCategoryDatabaseAdapter(db DBTX) domain.CategoryRepository {
	return &CategoryDatabaseAdapter{db: db}
}

// List returns all categories, enabled or not.
func (r *CategoryDatabaseAdapter) List(ctx context.Context) ([]*domain.Category, error) {
	exec := GetExecutor(ctx, r.db)

	var rows []models.Category
	query := "SELECT " + categoryColumns + " FROM categories ORDER BY created_at, id"
	if err := exec.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories := make([]*domain.Category, len(rows))
	for i := range rows {
		categories[i] = toDomainCategory(&rows[i])
	}
	return categories, nil
}

// GetByID returns nil, nil when the category does not exist.
func (r *CategoryDatabaseAdapter) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	exec := GetExecutor(ctx, r.db)

	var row models.Category
	query := "SELECT " + categoryColumns + " FROM categories WHERE id = ?"
	if err := exec.GetContext(ctx, &row, exec.Rebind(query), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get category %s: %w", id, err)
	}
	return toDomainCategory(&row), nil
}

// Save updates the category with c.ID or inserts it when missing.
func (r *CategoryDatabaseAdapter) Save(ctx context.Context, c *domain.Category) error {
	exec := GetExecutor(ctx, r.db)
	now := time.Now()
	c.UpdatedAt = now

	update := `UPDATE categories SET name = ?, icon = ?, enabled = ?, max_questions = ?, updated_at = ?
               WHERE id = ?`
	res, err := exec.ExecContext(ctx, exec.Rebind(update),
		c.Name, c.Icon, util.BoolToInt(c.Enabled), c.MaxQuestions, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update category %s: %w", c.ID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	} else if n > 0 {
		return nil
	}

	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	insert := `INSERT INTO categories (` + categoryColumns + `)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = exec.ExecContext(ctx, exec.Rebind(insert),
		c.ID, c.Name, c.Icon, util.BoolToInt(c.Enabled), c.MaxQuestions, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert category %s: %w", c.ID, err)
	}
	return nil
}

func (r *CategoryDatabaseAdapter) Delete(ctx context.Context, id string) error {
	exec := GetExecutor(ctx, r.db)
	res, err := exec.ExecContext(ctx, exec.Rebind("DELETE FROM categories WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete category %s: %w", id, err)
	}
	return requireAffected(res, domain.NewCategoryNotFoundError(id))
}
