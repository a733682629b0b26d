package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bukhari-academy/academy-api/internal/models"
	appErrors "github.com/bukhari-academy/academy-api/pkg/errors"
)

type mockAuthUsers struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
}

func (m *mockAuthUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

type mockAuthTeachers struct {
	byUser map[string]*models.Teacher
}

func (m *mockAuthTeachers) FindByUserID(ctx context.Context, userID string) (*models.Teacher, error) {
	if t, ok := m.byUser[userID]; ok {
		return t, nil
	}
	return nil, sql.ErrNoRows
}

type mockAuthStudents struct {
	byUser map[string]*models.StudentContext
}

func (m *mockAuthStudents) FindContextByUserID(ctx context.Context, userID string) (*models.StudentContext, error) {
	if sc, ok := m.byUser[userID]; ok {
		return sc, nil
	}
	return nil, sql.ErrNoRows
}

func newAuthService(users *mockAuthUsers, teachers *mockAuthTeachers, students *mockAuthStudents) *AuthService {
	if teachers == nil {
		teachers = &mockAuthTeachers{}
	}
	if students == nil {
		students = &mockAuthStudents{}
	}
	return NewAuthService(users, teachers, students, validator.New(), zap.NewNop(), AuthConfig{
		TokenSecret: "secret",
		TokenExpiry: 168 * time.Hour,
		Issuer:      "academy-api",
	})
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	users := &mockAuthUsers{byEmail: map[string]*models.User{
		"admin@bukhari-academy.uz": {ID: "u-1", Email: "admin@bukhari-academy.uz", PasswordHash: string(hash), Role: models.RoleAdmin},
	}}
	svc := newAuthService(users, nil, nil)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@bukhari-academy.uz", Password: "admin123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, int64(168*3600), res.ExpiresIn)
	assert.Equal(t, models.RoleAdmin, res.User.Role)

	claims, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
}

func TestAuthServiceLoginNormalizesEmail(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("pass"), bcrypt.DefaultCost)
	users := &mockAuthUsers{byEmail: map[string]*models.User{
		"user@example.com": {ID: "u-1", Email: "user@example.com", PasswordHash: string(hash), Role: models.RoleAdmin},
	}}
	svc := newAuthService(users, nil, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "  User@Example.COM ", Password: "pass"})
	assert.NoError(t, err)
}

func TestAuthServiceLoginIndistinguishableFailures(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.DefaultCost)
	users := &mockAuthUsers{byEmail: map[string]*models.User{
		"user@example.com": {ID: "u-1", Email: "user@example.com", PasswordHash: string(hash), Role: models.RoleAdmin},
	}}
	svc := newAuthService(users, nil, nil)

	_, unknownErr := svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.com", Password: "right"})
	_, wrongErr := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "wrong"})

	unknown := appErrors.FromError(unknownErr)
	wrong := appErrors.FromError(wrongErr)
	assert.Equal(t, unknown.Code, wrong.Code)
	assert.Equal(t, unknown.Status, wrong.Status)
	assert.Equal(t, unknown.Message, wrong.Message)
}

func TestAuthServiceLoginEmbedsStudentContext(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("pass"), bcrypt.DefaultCost)
	users := &mockAuthUsers{byEmail: map[string]*models.User{
		"stu@example.com": {ID: "u-2", Email: "stu@example.com", PasswordHash: string(hash), Role: models.RoleStudent},
	}}
	students := &mockAuthStudents{byUser: map[string]*models.StudentContext{
		"u-2": {ID: "s-1", GroupID: "g-1", GroupName: "Group A"},
	}}
	svc := newAuthService(users, nil, students)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "stu@example.com", Password: "pass"})
	require.NoError(t, err)
	require.NotNil(t, res.User.Student)
	assert.Equal(t, "s-1", res.User.Student.ID)
	assert.Equal(t, "Group A", res.User.Student.GroupName)

	claims, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	require.NotNil(t, claims.Student)
	assert.Equal(t, "g-1", claims.Student.GroupID)
}

func TestAuthServiceLoginEmbedsTeacherID(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("pass"), bcrypt.DefaultCost)
	users := &mockAuthUsers{byEmail: map[string]*models.User{
		"t@example.com": {ID: "u-3", Email: "t@example.com", PasswordHash: string(hash), Role: models.RoleTeacher},
	}}
	teachers := &mockAuthTeachers{byUser: map[string]*models.Teacher{
		"u-3": {ID: "t-1", UserID: "u-3"},
	}}
	svc := newAuthService(users, teachers, nil)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "t@example.com", Password: "pass"})
	require.NoError(t, err)
	require.NotNil(t, res.User.TeacherID)
	assert.Equal(t, "t-1", *res.User.TeacherID)
}

func TestAuthServiceValidateTokenRejectsTampered(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("pass"), bcrypt.DefaultCost)
	users := &mockAuthUsers{byEmail: map[string]*models.User{
		"user@example.com": {ID: "u-1", Email: "user@example.com", PasswordHash: string(hash), Role: models.RoleAdmin},
	}}
	svc := newAuthService(users, nil, nil)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "pass"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(res.Token + "x")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceMeRefreshesContext(t *testing.T) {
	users := &mockAuthUsers{byID: map[string]*models.User{
		"u-2": {ID: "u-2", Email: "stu@example.com", Role: models.RoleStudent, FirstName: "Ali", LastName: "Aliyev"},
	}}
	students := &mockAuthStudents{byUser: map[string]*models.StudentContext{
		"u-2": {ID: "s-1", GroupID: "g-2", GroupName: "Group B"},
	}}
	svc := newAuthService(users, nil, students)

	info, err := svc.Me(context.Background(), &models.JWTClaims{UserID: "u-2", Role: models.RoleStudent})
	require.NoError(t, err)
	require.NotNil(t, info.Student)
	assert.Equal(t, "Group B", info.Student.GroupName)
}
