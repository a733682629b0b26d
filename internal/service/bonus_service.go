package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bukhari-academy/academy-api/internal/authz"
	"github.com/bukhari-academy/academy-api/internal/dto"
	"github.com/bukhari-academy/academy-api/internal/models"
	appErrors "github.com/bukhari-academy/academy-api/pkg/errors"
)

type bonusRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Bonus, error)
	TotalByStudent(ctx context.Context, studentID string) (int, error)
	Create(ctx context.Context, bonus *models.Bonus) error
}

type bonusStudentRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// BonusService provides bonus awarding and summary use cases.
type BonusService struct {
	bonuses   bonusRepository
	students  bonusStudentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBonusService constructs a BonusService instance.
func NewBonusService(bonuses bonusRepository, students bonusStudentRepository, validate *validator.Validate, logger *zap.Logger) *BonusService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &BonusService{bonuses: bonuses, students: students, validator: validate, logger: logger}
}

// Summary returns a student's bonus entries plus the recomputed total.
func (s *BonusService) Summary(ctx context.Context, claims *models.JWTClaims, studentID string) (*models.BonusSummary, error) {
	d := authz.Decide(claims.Role, authz.ResourceBonus, authz.ActionRead)
	if !authz.CanAccessStudent(d, claims, studentID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to view these bonuses")
	}

	exists, err := s.students.Exists(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	list, err := s.bonuses.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bonuses")
	}
	if list == nil {
		list = []models.Bonus{}
	}
	total, err := s.bonuses.TotalByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to total bonuses")
	}
	return &models.BonusSummary{List: list, TotalBonus: total}, nil
}

// Add awards bonus points to a student. Missing amount is a different
// failure than a negative one.
func (s *BonusService) Add(ctx context.Context, claims *models.JWTClaims, studentID string, req dto.AddBonusRequest) (*models.Bonus, error) {
	d := authz.Decide(claims.Role, authz.ResourceBonus, authz.ActionCreate)
	if !authz.CanAccessStudent(d, claims, studentID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to add bonuses")
	}
	if req.Amount == nil {
		return nil, appErrors.Clone(appErrors.ErrMissingInput, "amount is required")
	}
	if *req.Amount < 0 {
		return nil, appErrors.Clone(appErrors.ErrOutOfRange, "amount must not be negative")
	}

	exists, err := s.students.Exists(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	bonus := &models.Bonus{StudentID: studentID, Amount: *req.Amount, Reason: req.Reason}
	if err := s.bonuses.Create(ctx, bonus); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create bonus")
	}

	s.logger.Info("bonus awarded", zap.String("student_id", studentID), zap.Int("amount", bonus.Amount))
	return bonus, nil
}
