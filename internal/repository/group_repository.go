package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bukhari-academy/academy-api/internal/models"
)

// GroupRepository manages persistence for group records.
type GroupRepository struct {
	db *sqlx.DB
}

// NewGroupRepository constructs a GroupRepository.
func NewGroupRepository(db *sqlx.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// List returns groups with teacher display fields and a live student count.
// A TeacherID filter narrows the result to that teacher's owned groups.
func (r *GroupRepository) List(ctx context.Context, filter models.GroupFilter) ([]models.GroupDetail, error) {
	query := `SELECT g.id, g.name, g.teacher_id, g.created_at,
        u.first_name || ' ' || u.last_name AS teacher_name, u.email AS teacher_email,
        COUNT(s.id) AS student_count
        FROM groups g
        JOIN teachers t ON t.id = g.teacher_id
        JOIN users u ON u.id = t.user_id
        LEFT JOIN students s ON s.group_id = g.id`
	args := []interface{}{}
	if filter.TeacherID != "" {
		query += " WHERE g.teacher_id = $1"
		args = append(args, filter.TeacherID)
	}
	query += " GROUP BY g.id, g.name, g.teacher_id, g.created_at, u.first_name, u.last_name, u.email ORDER BY g.name ASC"

	var groups []models.GroupDetail
	if err := r.db.SelectContext(ctx, &groups, query, args...); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// FindByID fetches a group by id.
func (r *GroupRepository) FindByID(ctx context.Context, id string) (*models.Group, error) {
	const query = `SELECT id, name, teacher_id, created_at FROM groups WHERE id = $1 LIMIT 1`
	var group models.Group
	if err := r.db.GetContext(ctx, &group, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find group: %w", err)
	}
	return &group, nil
}

// Exists reports whether a group with the given id exists.
func (r *GroupRepository) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT 1 FROM groups WHERE id = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check group: %w", err)
	}
	return true, nil
}

// Create inserts a new group.
func (r *GroupRepository) Create(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO groups (id, name, teacher_id, created_at)
        VALUES (:id, :name, :teacher_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, group); err != nil {
		return fmt.Errorf("create group: %w", err)
	}
	return nil
}
