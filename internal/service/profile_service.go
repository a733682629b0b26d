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

type profileStudentRepository interface {
	ProfileByUserID(ctx context.Context, userID string) (*models.StudentProfile, error)
	UpdateProfileByUserID(ctx context.Context, userID string, upd models.ProfileUpdate) error
}

type profileUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateName(ctx context.Context, id string, firstName, lastName *string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// ProfileService provides the caller's self-service profile. Students get
// the full joined view and a restricted editable field set; other roles see
// and edit only their identity. Group and role never change here.
type ProfileService struct {
	students  profileStudentRepository
	users     profileUserRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProfileService constructs a ProfileService instance.
func NewProfileService(students profileStudentRepository, users profileUserRepository, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ProfileService{students: students, users: users, validator: validate, logger: logger}
}

// Get returns the calling user's own profile.
func (s *ProfileService) Get(ctx context.Context, claims *models.JWTClaims) (*models.Profile, error) {
	if claims.Role != models.RoleStudent {
		user, err := s.users.FindByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "account not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load account")
		}
		return &models.Profile{User: &models.UserInfo{
			ID:        user.ID,
			Email:     user.Email,
			Role:      user.Role,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		}}, nil
	}

	profile, err := s.students.ProfileByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	return &models.Profile{Student: profile}, nil
}

// Update applies the caller's partial self-edit. Students may change
// contact email, names and phone; other roles only their names. Changing
// the password requires the current one; a wrong current password is
// rejected before any field is written.
func (s *ProfileService) Update(ctx context.Context, claims *models.JWTClaims, req dto.UpdateProfileRequest) (*models.Profile, error) {
	if req.NewPassword != nil {
		if len(*req.NewPassword) < MinPasswordLength {
			return nil, appErrors.Clone(appErrors.ErrWeakPassword, "password must be at least 4 characters")
		}
		if req.CurrentPassword == nil {
			return nil, appErrors.Clone(appErrors.ErrMissingInput, "current_password is required to change the password")
		}
		user, err := s.users.FindByID(ctx, claims.UserID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load account")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(*req.CurrentPassword)); err != nil {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "current password does not match")
		}
	}

	if claims.Role == models.RoleStudent {
		if err := s.students.UpdateProfileByUserID(ctx, claims.UserID, req.ProfileUpdate); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
		}
	} else if req.FirstName != nil || req.LastName != nil {
		if err := s.users.UpdateName(ctx, claims.UserID, req.FirstName, req.LastName); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "account not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update account")
		}
	}

	if req.NewPassword != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		if err := s.users.UpdatePassword(ctx, claims.UserID, string(hash)); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update password")
		}
		s.logger.Info("user changed password", zap.String("user_id", claims.UserID))
	}

	return s.Get(ctx, claims)
}
