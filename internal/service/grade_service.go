package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bukhari-academy/academy-api/internal/authz"
	"github.com/bukhari-academy/academy-api/internal/dto"
	"github.com/bukhari-academy/academy-api/internal/models"
	appErrors "github.com/bukhari-academy/academy-api/pkg/errors"
)

type gradeRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Grade, error)
	Create(ctx context.Context, grade *models.Grade) error
}

type gradeStudentRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// GradeService provides grade recording and reading use cases.
type GradeService struct {
	grades    gradeRepository
	students  gradeStudentRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewGradeService constructs a GradeService instance.
func NewGradeService(grades gradeRepository, students gradeStudentRepository, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &GradeService{grades: grades, students: students, validator: validate, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// List returns a student's grades, newest period first. Students only reach
// their own list; anything else is Forbidden.
func (s *GradeService) List(ctx context.Context, claims *models.JWTClaims, studentID string) ([]models.Grade, error) {
	d := authz.Decide(claims.Role, authz.ResourceGrade, authz.ActionRead)
	if !authz.CanAccessStudent(d, claims, studentID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to view these grades")
	}

	exists, err := s.students.Exists(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	grades, err := s.grades.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}
	if grades == nil {
		grades = []models.Grade{}
	}
	return grades, nil
}

// Add records one grade for a student. Values outside 1..100 are rejected,
// never clamped. Month and year default to the current period.
func (s *GradeService) Add(ctx context.Context, claims *models.JWTClaims, studentID string, req dto.AddGradeRequest) (*models.Grade, error) {
	d := authz.Decide(claims.Role, authz.ResourceGrade, authz.ActionCreate)
	if !authz.CanAccessStudent(d, claims, studentID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to add grades")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMissingInput.Code, appErrors.ErrMissingInput.Status, "value is required")
	}
	if *req.Value < models.GradeMin || *req.Value > models.GradeMax {
		return nil, appErrors.Clone(appErrors.ErrOutOfRange, "grade must be between 1 and 100")
	}

	exists, err := s.students.Exists(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	now := s.now()
	month := int(now.Month())
	year := now.Year()
	if req.Month != nil {
		if *req.Month < 1 || *req.Month > 12 {
			return nil, appErrors.Clone(appErrors.ErrOutOfRange, "month must be between 1 and 12")
		}
		month = *req.Month
	}
	if req.Year != nil {
		year = *req.Year
	}

	grade := &models.Grade{
		StudentID: studentID,
		Value:     *req.Value,
		Subject:   req.Subject,
		Comment:   req.Comment,
		Month:     month,
		Year:      year,
	}
	if err := s.grades.Create(ctx, grade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create grade")
	}

	s.logger.Info("grade recorded", zap.String("student_id", studentID), zap.Int("value", grade.Value))
	return grade, nil
}
