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

type groupRepository interface {
	List(ctx context.Context, filter models.GroupFilter) ([]models.GroupDetail, error)
	Create(ctx context.Context, group *models.Group) error
}

type groupTeacherRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// GroupService provides group roster use cases.
type GroupService struct {
	groups    groupRepository
	teachers  groupTeacherRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGroupService constructs a GroupService instance.
func NewGroupService(groups groupRepository, teachers groupTeacherRepository, validate *validator.Validate, logger *zap.Logger) *GroupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &GroupService{groups: groups, teachers: teachers, validator: validate, logger: logger}
}

// List returns groups visible to the caller: all of them for admins, owned
// groups for teachers.
func (s *GroupService) List(ctx context.Context, claims *models.JWTClaims) ([]models.GroupDetail, error) {
	d := authz.Decide(claims.Role, authz.ResourceGroup, authz.ActionRead)
	if !d.Allowed {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to list groups")
	}

	filter := models.GroupFilter{}
	if d.Scope == authz.ScopeOwnedGroups {
		if claims.TeacherID == nil {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "token carries no teacher context")
		}
		filter.TeacherID = *claims.TeacherID
	}

	groups, err := s.groups.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list groups")
	}
	if groups == nil {
		groups = []models.GroupDetail{}
	}
	return groups, nil
}

// Create opens a new group owned by an existing teacher.
func (s *GroupService) Create(ctx context.Context, req dto.CreateGroupRequest) (*models.Group, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMissingInput.Code, appErrors.ErrMissingInput.Status, "name and teacher_id are required")
	}

	exists, err := s.teachers.Exists(ctx, req.TeacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check teacher")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrInvalidReference, "teacher does not exist")
	}

	group := &models.Group{Name: req.Name, TeacherID: req.TeacherID}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create group")
	}

	s.logger.Info("group created", zap.String("group_id", group.ID), zap.String("teacher_id", group.TeacherID))
	return group, nil
}
