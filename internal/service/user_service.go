package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bukhari-academy/academy-api/internal/dto"
	"github.com/bukhari-academy/academy-api/internal/models"
	appErrors "github.com/bukhari-academy/academy-api/pkg/errors"
)

type userAdminRepository interface {
	ListLogins(ctx context.Context) ([]models.LoginEntry, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// UserService provides admin account-management use cases.
type UserService struct {
	users     userAdminRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(users userAdminRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{users: users, validator: validate, logger: logger}
}

// ListLogins returns every non-admin account with its role context.
func (s *UserService) ListLogins(ctx context.Context) ([]models.LoginEntry, error) {
	entries, err := s.users.ListLogins(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list logins")
	}
	if entries == nil {
		entries = []models.LoginEntry{}
	}
	return entries, nil
}

// SetPassword replaces an account's password with an admin-chosen one.
func (s *UserService) SetPassword(ctx context.Context, userID string, req dto.SetPasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrMissingInput.Code, appErrors.ErrMissingInput.Status, "password is required")
	}
	if len(req.Password) < MinPasswordLength {
		return appErrors.Clone(appErrors.ErrWeakPassword, "password must be at least 4 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update password")
	}

	s.logger.Info("password reset by admin", zap.String("user_id", userID))
	return nil
}
