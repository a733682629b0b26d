package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bukhari-academy/academy-api/internal/authz"
	"github.com/bukhari-academy/academy-api/internal/dto"
	"github.com/bukhari-academy/academy-api/internal/models"
	appErrors "github.com/bukhari-academy/academy-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, error)
	FindDetailByID(ctx context.Context, id string) (*models.StudentDetail, error)
	CreateWithUser(ctx context.Context, user *models.User, student *models.Student) error
	Update(ctx context.Context, id string, upd models.StudentUpdate) error
}

type studentGroupRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type studentUserRepository interface {
	EmailExists(ctx context.Context, email string) (bool, error)
}

// StudentService provides student roster use cases.
type StudentService struct {
	students  studentRepository
	groups    studentGroupRepository
	users     studentUserRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(students studentRepository, groups studentGroupRepository, users studentUserRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{students: students, groups: groups, users: users, validator: validate, logger: logger}
}

// List returns students visible to the caller. Admins see everyone, teachers
// see students in their owned groups, students see exactly themselves.
func (s *StudentService) List(ctx context.Context, claims *models.JWTClaims, groupID string) ([]models.StudentDetail, error) {
	d := authz.Decide(claims.Role, authz.ResourceStudent, authz.ActionRead)
	if !d.Allowed {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to list students")
	}

	filter := models.StudentFilter{GroupID: groupID}
	switch d.Scope {
	case authz.ScopeOwnedGroups:
		if claims.TeacherID == nil {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "token carries no teacher context")
		}
		filter.TeacherID = *claims.TeacherID
	case authz.ScopeSelf:
		if claims.Student == nil {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "token carries no student context")
		}
		detail, err := s.students.FindDetailByID(ctx, claims.Student.ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return []models.StudentDetail{}, nil
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
		}
		return []models.StudentDetail{*detail}, nil
	}

	students, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	if students == nil {
		students = []models.StudentDetail{}
	}
	return students, nil
}

// Get returns one student, applying the caller's scope. An out-of-scope
// student yields Forbidden, not NotFound.
func (s *StudentService) Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.StudentDetail, error) {
	d := authz.Decide(claims.Role, authz.ResourceStudent, authz.ActionRead)
	if !authz.CanAccessStudent(d, claims, id) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to view this student")
	}

	detail, err := s.students.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	if d.Scope == authz.ScopeOwnedGroups && claims.TeacherID != nil {
		owned, err := s.students.List(ctx, models.StudentFilter{TeacherID: *claims.TeacherID, GroupID: detail.GroupID})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check ownership")
		}
		found := false
		for _, st := range owned {
			if st.ID == id {
				found = true
				break
			}
		}
		if !found {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "student is not in your groups")
		}
	}
	return detail, nil
}

// Create enrolls a student: one user record and one student record written
// atomically. A duplicate email or missing group leaves nothing behind.
func (s *StudentService) Create(ctx context.Context, req dto.CreateStudentRequest) (*models.StudentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMissingInput.Code, appErrors.ErrMissingInput.Status, "email, password, name and group_id are required")
	}
	if len(req.Password) < MinPasswordLength {
		return nil, appErrors.Clone(appErrors.ErrWeakPassword, "password must be at least 4 characters")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateEmail, "email already registered")
	}

	groupExists, err := s.groups.Exists(ctx, req.GroupID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check group")
	}
	if !groupExists {
		return nil, appErrors.Clone(appErrors.ErrInvalidReference, "group does not exist")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	contact := email
	if req.ContactEmail != nil && *req.ContactEmail != "" {
		contact = *req.ContactEmail
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}
	student := &models.Student{
		GroupID:      req.GroupID,
		ContactEmail: contact,
		LastName:     req.LastName,
		FirstName:    req.FirstName,
		Phone:        req.Phone,
	}
	if err := s.students.CreateWithUser(ctx, user, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}

	s.logger.Info("student created", zap.String("student_id", student.ID), zap.String("group_id", student.GroupID))
	detail, err := s.students.FindDetailByID(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload student")
	}
	return detail, nil
}

// Update applies an admin partial update; absent fields keep their stored
// values. A group change is validated before the write.
func (s *StudentService) Update(ctx context.Context, id string, upd models.StudentUpdate) (*models.StudentDetail, error) {
	if upd.GroupID != nil {
		groupExists, err := s.groups.Exists(ctx, *upd.GroupID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check group")
		}
		if !groupExists {
			return nil, appErrors.Clone(appErrors.ErrInvalidReference, "group does not exist")
		}
	}

	if err := s.students.Update(ctx, id, upd); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}

	detail, err := s.students.FindDetailByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload student")
	}
	return detail, nil
}
