package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bukhari-academy/academy-api/internal/models"
)

// BonusRepository manages persistence for bonus records.
type BonusRepository struct {
	db *sqlx.DB
}

// NewBonusRepository constructs a BonusRepository.
func NewBonusRepository(db *sqlx.DB) *BonusRepository {
	return &BonusRepository{db: db}
}

// ListByStudent returns a student's bonus entries, newest first.
func (r *BonusRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Bonus, error) {
	const query = `SELECT id, student_id, amount, reason, created_at
        FROM bonuses WHERE student_id = $1
        ORDER BY created_at DESC`
	var bonuses []models.Bonus
	if err := r.db.SelectContext(ctx, &bonuses, query, studentID); err != nil {
		return nil, fmt.Errorf("list bonuses: %w", err)
	}
	return bonuses, nil
}

// TotalByStudent recomputes the running bonus total from the entries. An
// empty list yields zero, never NULL.
func (r *BonusRepository) TotalByStudent(ctx context.Context, studentID string) (int, error) {
	const query = `SELECT COALESCE(SUM(amount), 0) FROM bonuses WHERE student_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, studentID); err != nil {
		return 0, fmt.Errorf("total bonuses: %w", err)
	}
	return total, nil
}

// ListByStudentMonth returns the bonuses awarded during one calendar month.
func (r *BonusRepository) ListByStudentMonth(ctx context.Context, studentID string, month, year int) ([]models.Bonus, error) {
	const query = `SELECT id, student_id, amount, reason, created_at
        FROM bonuses WHERE student_id = $1
        AND EXTRACT(MONTH FROM created_at) = $2 AND EXTRACT(YEAR FROM created_at) = $3
        ORDER BY created_at DESC`
	var bonuses []models.Bonus
	if err := r.db.SelectContext(ctx, &bonuses, query, studentID, month, year); err != nil {
		return nil, fmt.Errorf("list month bonuses: %w", err)
	}
	return bonuses, nil
}

// Create inserts a new bonus entry.
func (r *BonusRepository) Create(ctx context.Context, bonus *models.Bonus) error {
	if bonus.ID == "" {
		bonus.ID = uuid.NewString()
	}
	if bonus.CreatedAt.IsZero() {
		bonus.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO bonuses (id, student_id, amount, reason, created_at)
        VALUES (:id, :student_id, :amount, :reason, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, bonus); err != nil {
		return fmt.Errorf("create bonus: %w", err)
	}
	return nil
}
