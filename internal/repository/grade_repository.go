package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bukhari-academy/academy-api/internal/models"
)

// GradeRepository manages persistence for grade records. Grades are
// append-only; no update or delete path exists.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository constructs a GradeRepository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// ListByStudent returns a student's grades, newest period first.
func (r *GradeRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Grade, error) {
	const query = `SELECT id, student_id, value, subject, comment, month, year, created_at
        FROM grades WHERE student_id = $1
        ORDER BY year DESC, month DESC, created_at DESC`
	var grades []models.Grade
	if err := r.db.SelectContext(ctx, &grades, query, studentID); err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	return grades, nil
}

// ListByStudentMonth returns the grades recorded for one calendar month.
func (r *GradeRepository) ListByStudentMonth(ctx context.Context, studentID string, month, year int) ([]models.Grade, error) {
	const query = `SELECT id, student_id, value, subject, comment, month, year, created_at
        FROM grades WHERE student_id = $1 AND month = $2 AND year = $3
        ORDER BY created_at DESC`
	var grades []models.Grade
	if err := r.db.SelectContext(ctx, &grades, query, studentID, month, year); err != nil {
		return nil, fmt.Errorf("list month grades: %w", err)
	}
	return grades, nil
}

// Create inserts a new grade entry.
func (r *GradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	if grade.ID == "" {
		grade.ID = uuid.NewString()
	}
	if grade.CreatedAt.IsZero() {
		grade.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO grades (id, student_id, value, subject, comment, month, year, created_at)
        VALUES (:id, :student_id, :value, :subject, :comment, :month, :year, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, grade); err != nil {
		return fmt.Errorf("create grade: %w", err)
	}
	return nil
}
