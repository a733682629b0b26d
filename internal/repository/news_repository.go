package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bukhari-academy/academy-api/internal/models"
)

// NewsRepository manages persistence for announcement records.
type NewsRepository struct {
	db *sqlx.DB
}

// NewNewsRepository constructs a NewsRepository.
func NewNewsRepository(db *sqlx.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// List returns the newest announcements up to limit.
func (r *NewsRepository) List(ctx context.Context, limit int) ([]models.News, error) {
	const query = `SELECT id, title, content, image_url, created_at
        FROM news ORDER BY created_at DESC LIMIT $1`
	var items []models.News
	if err := r.db.SelectContext(ctx, &items, query, limit); err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	return items, nil
}

// Create inserts a new announcement.
func (r *NewsRepository) Create(ctx context.Context, item *models.News) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO news (id, title, content, image_url, created_at)
        VALUES (:id, :title, :content, :image_url, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create news: %w", err)
	}
	return nil
}

// Delete removes an announcement and reports whether a row was deleted.
func (r *NewsRepository) Delete(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM news WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete news: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete news: %w", err)
	}
	return n > 0, nil
}
