package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bukhari-academy/academy-api/internal/models"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students joined with login email and group name, sorted by
// group then surname. A TeacherID filter scopes the result to students in
// that teacher's owned groups; GroupID narrows to a single group.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, error) {
	base := `SELECT s.id, s.user_id, s.group_id, s.contact_email, s.last_name, s.first_name, s.phone, s.created_at,
        u.email AS login_email, g.name AS group_name
        FROM students s
        JOIN users u ON u.id = s.user_id
        JOIN groups g ON g.id = s.group_id`
	conditions := []string{}
	args := []interface{}{}

	if filter.GroupID != "" {
		conditions = append(conditions, fmt.Sprintf("s.group_id = $%d", len(args)+1))
		args = append(args, filter.GroupID)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("g.teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if len(conditions) > 0 {
		base += " WHERE " + strings.Join(conditions, " AND ")
	}
	base += " ORDER BY g.name ASC, s.last_name ASC, s.first_name ASC"

	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, base, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindDetailByID fetches a single student with joined fields.
func (r *StudentRepository) FindDetailByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	const query = `SELECT s.id, s.user_id, s.group_id, s.contact_email, s.last_name, s.first_name, s.phone, s.created_at,
        u.email AS login_email, g.name AS group_name
        FROM students s
        JOIN users u ON u.id = s.user_id
        JOIN groups g ON g.id = s.group_id
        WHERE s.id = $1`
	var detail models.StudentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &detail, nil
}

// Exists reports whether a student with the given id exists.
func (r *StudentRepository) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT 1 FROM students WHERE id = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student: %w", err)
	}
	return true, nil
}

// ListIDs returns every student id. Used by bulk report dispatch.
func (r *StudentRepository) ListIDs(ctx context.Context) ([]string, error) {
	const query = `SELECT id FROM students ORDER BY created_at ASC`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("list student ids: %w", err)
	}
	return ids, nil
}

// CreateWithUser inserts the user and student records in one transaction so a
// failed insert never leaves a user without its student half.
func (r *StudentRepository) CreateWithUser(ctx context.Context, user *models.User, student *models.Student) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UserID = user.ID

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create student: %w", err)
	}
	defer tx.Rollback()

	const userQuery = `INSERT INTO users (id, email, password_hash, role, first_name, last_name, created_at)
        VALUES (:id, :email, :password_hash, :role, :first_name, :last_name, :created_at)`
	if _, err := tx.NamedExecContext(ctx, userQuery, user); err != nil {
		return fmt.Errorf("create student user: %w", err)
	}

	const studentQuery = `INSERT INTO students (id, user_id, group_id, contact_email, last_name, first_name, phone, created_at)
        VALUES (:id, :user_id, :group_id, :contact_email, :last_name, :first_name, :phone, :created_at)`
	if _, err := tx.NamedExecContext(ctx, studentQuery, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create student: %w", err)
	}
	return nil
}

// Update applies a partial update with merge semantics; nil fields keep their
// stored value. Name changes propagate to the owning user record in the same
// transaction.
func (r *StudentRepository) Update(ctx context.Context, id string, upd models.StudentUpdate) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update student: %w", err)
	}
	defer tx.Rollback()

	const studentQuery = `UPDATE students SET
        contact_email = COALESCE($2, contact_email),
        last_name = COALESCE($3, last_name),
        first_name = COALESCE($4, first_name),
        group_id = COALESCE($5, group_id),
        phone = COALESCE($6, phone)
        WHERE id = $1`
	res, err := tx.ExecContext(ctx, studentQuery, id, upd.ContactEmail, upd.LastName, upd.FirstName, upd.GroupID, upd.Phone)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}

	if upd.FirstName != nil || upd.LastName != nil {
		const userQuery = `UPDATE users SET
            first_name = COALESCE($2, first_name),
            last_name = COALESCE($3, last_name)
            WHERE id = (SELECT user_id FROM students WHERE id = $1)`
		if _, err := tx.ExecContext(ctx, userQuery, id, upd.FirstName, upd.LastName); err != nil {
			return fmt.Errorf("propagate student name: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update student: %w", err)
	}
	return nil
}

// FindContextByUserID resolves the compact student snapshot embedded in
// tokens for a student-role user.
func (r *StudentRepository) FindContextByUserID(ctx context.Context, userID string) (*models.StudentContext, error) {
	const query = `SELECT s.id, s.group_id, g.name AS group_name
        FROM students s
        JOIN groups g ON g.id = s.group_id
        WHERE s.user_id = $1 LIMIT 1`
	var sc struct {
		ID        string `db:"id"`
		GroupID   string `db:"group_id"`
		GroupName string `db:"group_name"`
	}
	if err := r.db.GetContext(ctx, &sc, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student context: %w", err)
	}
	return &models.StudentContext{ID: sc.ID, GroupID: sc.GroupID, GroupName: sc.GroupName}, nil
}

// ProfileByUserID returns the student's own profile view.
func (r *StudentRepository) ProfileByUserID(ctx context.Context, userID string) (*models.StudentProfile, error) {
	const query = `SELECT s.id, s.contact_email, s.last_name, s.first_name, s.group_id, s.phone, s.created_at,
        g.name AS group_name, u.email
        FROM students s
        JOIN groups g ON g.id = s.group_id
        JOIN users u ON u.id = s.user_id
        WHERE s.user_id = $1 LIMIT 1`
	var profile models.StudentProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student profile: %w", err)
	}
	return &profile, nil
}

// UpdateProfileByUserID applies a student's self-service partial update over
// the restricted field set, propagating name changes to the user record.
func (r *StudentRepository) UpdateProfileByUserID(ctx context.Context, userID string, upd models.ProfileUpdate) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update profile: %w", err)
	}
	defer tx.Rollback()

	const studentQuery = `UPDATE students SET
        contact_email = COALESCE($2, contact_email),
        last_name = COALESCE($3, last_name),
        first_name = COALESCE($4, first_name),
        phone = COALESCE($5, phone)
        WHERE user_id = $1`
	res, err := tx.ExecContext(ctx, studentQuery, userID, upd.ContactEmail, upd.LastName, upd.FirstName, upd.Phone)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}

	if upd.FirstName != nil || upd.LastName != nil {
		const userQuery = `UPDATE users SET
            first_name = COALESCE($2, first_name),
            last_name = COALESCE($3, last_name)
            WHERE id = $1`
		if _, err := tx.ExecContext(ctx, userQuery, userID, upd.FirstName, upd.LastName); err != nil {
			return fmt.Errorf("propagate profile name: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update profile: %w", err)
	}
	return nil
}
