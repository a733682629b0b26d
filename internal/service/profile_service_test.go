package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bukhari-academy/academy-api/internal/dto"
	"github.com/bukhari-academy/academy-api/internal/models"
	appErrors "github.com/bukhari-academy/academy-api/pkg/errors"
)

type mockProfileStudents struct {
	profiles map[string]*models.StudentProfile
	updates  map[string]models.ProfileUpdate
}

func (m *mockProfileStudents) ProfileByUserID(ctx context.Context, userID string) (*models.StudentProfile, error) {
	if p, ok := m.profiles[userID]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockProfileStudents) UpdateProfileByUserID(ctx context.Context, userID string, upd models.ProfileUpdate) error {
	if _, ok := m.profiles[userID]; !ok {
		return sql.ErrNoRows
	}
	if m.updates == nil {
		m.updates = map[string]models.ProfileUpdate{}
	}
	m.updates[userID] = upd
	return nil
}

type mockProfileUsers struct {
	users     map[string]*models.User
	passwords map[string]string
}

func (m *mockProfileUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockProfileUsers) UpdateName(ctx context.Context, id string, firstName, lastName *string) error {
	u, ok := m.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	if firstName != nil {
		u.FirstName = *firstName
	}
	if lastName != nil {
		u.LastName = *lastName
	}
	return nil
}

func (m *mockProfileUsers) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if m.passwords == nil {
		m.passwords = map[string]string{}
	}
	m.passwords[id] = passwordHash
	return nil
}

func strPtr(v string) *string { return &v }

func profileFixture() (*mockProfileStudents, *mockProfileUsers) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("old-pass"), bcrypt.DefaultCost)
	students := &mockProfileStudents{profiles: map[string]*models.StudentProfile{
		"u-2": {ID: "s-1", FirstName: "Ali", LastName: "Aliyev", GroupName: "Group A", Email: "ali@example.com"},
	}}
	users := &mockProfileUsers{users: map[string]*models.User{
		"u-1": {ID: "u-1", Email: "teacher@example.com", PasswordHash: string(hash), Role: models.RoleTeacher, FirstName: "Vali", LastName: "Valiyev"},
		"u-2": {ID: "u-2", Email: "ali@example.com", PasswordHash: string(hash), Role: models.RoleStudent},
	}}
	return students, users
}

func TestProfileServiceGet(t *testing.T) {
	students, users := profileFixture()
	svc := NewProfileService(students, users, validator.New(), zap.NewNop())

	profile, err := svc.Get(context.Background(), studentClaims("s-1"))
	require.NoError(t, err)
	require.NotNil(t, profile.Student)
	assert.Nil(t, profile.User)
	assert.Equal(t, "Group A", profile.Student.GroupName)
}

func TestProfileServiceGetTeacherBareIdentity(t *testing.T) {
	students, users := profileFixture()
	svc := NewProfileService(students, users, validator.New(), zap.NewNop())

	profile, err := svc.Get(context.Background(), teacherClaims())
	require.NoError(t, err)
	require.NotNil(t, profile.User)
	assert.Nil(t, profile.Student)
	assert.Equal(t, "teacher@example.com", profile.User.Email)
	assert.Equal(t, models.RoleTeacher, profile.User.Role)
}

func TestProfileServiceUpdateTeacherName(t *testing.T) {
	students, users := profileFixture()
	svc := NewProfileService(students, users, validator.New(), zap.NewNop())

	profile, err := svc.Update(context.Background(), teacherClaims(), dto.UpdateProfileRequest{
		ProfileUpdate: models.ProfileUpdate{LastName: strPtr("Karimov")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Karimov", profile.User.LastName)
	assert.Equal(t, "Vali", profile.User.FirstName)
	assert.Empty(t, students.updates)
}

func TestProfileServiceUpdateFields(t *testing.T) {
	students, users := profileFixture()
	svc := NewProfileService(students, users, validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), studentClaims("s-1"), dto.UpdateProfileRequest{
		ProfileUpdate: models.ProfileUpdate{Phone: strPtr("+998901234567")},
	})
	require.NoError(t, err)
	upd := students.updates["u-2"]
	require.NotNil(t, upd.Phone)
	assert.Nil(t, upd.FirstName)
}

func TestProfileServiceChangePasswordWrongCurrent(t *testing.T) {
	students, users := profileFixture()
	svc := NewProfileService(students, users, validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), studentClaims("s-1"), dto.UpdateProfileRequest{
		CurrentPassword: strPtr("not-it"),
		NewPassword:     strPtr("fresh-pass"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
	assert.Empty(t, users.passwords)
	assert.Empty(t, students.updates)
}

func TestProfileServiceChangePasswordSuccess(t *testing.T) {
	students, users := profileFixture()
	svc := NewProfileService(students, users, validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), studentClaims("s-1"), dto.UpdateProfileRequest{
		CurrentPassword: strPtr("old-pass"),
		NewPassword:     strPtr("fresh-pass"),
	})
	require.NoError(t, err)
	stored, ok := users.passwords["u-2"]
	require.True(t, ok)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("fresh-pass")))
}

func TestProfileServiceChangePasswordTooShort(t *testing.T) {
	students, users := profileFixture()
	svc := NewProfileService(students, users, validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), studentClaims("s-1"), dto.UpdateProfileRequest{
		CurrentPassword: strPtr("old-pass"),
		NewPassword:     strPtr("abc"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrWeakPassword.Code, appErrors.FromError(err).Code)
}
