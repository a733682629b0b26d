package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bukhari-academy/academy-api/internal/dto"
	"github.com/bukhari-academy/academy-api/internal/models"
	appErrors "github.com/bukhari-academy/academy-api/pkg/errors"
)

type mockStudentRepo struct {
	details map[string]*models.StudentDetail
	listed  []models.StudentFilter
	created int
	updated map[string]models.StudentUpdate
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, error) {
	m.listed = append(m.listed, filter)
	var out []models.StudentDetail
	for _, d := range m.details {
		if filter.GroupID != "" && d.GroupID != filter.GroupID {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (m *mockStudentRepo) FindDetailByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	if d, ok := m.details[id]; ok {
		return d, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) CreateWithUser(ctx context.Context, user *models.User, student *models.Student) error {
	m.created++
	student.ID = "s-new"
	if m.details == nil {
		m.details = map[string]*models.StudentDetail{}
	}
	m.details["s-new"] = &models.StudentDetail{Student: *student, LoginEmail: user.Email, GroupName: "Group A"}
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, id string, upd models.StudentUpdate) error {
	if _, ok := m.details[id]; !ok {
		return sql.ErrNoRows
	}
	if m.updated == nil {
		m.updated = map[string]models.StudentUpdate{}
	}
	m.updated[id] = upd
	return nil
}

type mockGroupExists struct {
	known map[string]bool
}

func (m *mockGroupExists) Exists(ctx context.Context, id string) (bool, error) {
	return m.known[id], nil
}

type mockEmailExists struct {
	taken map[string]bool
}

func (m *mockEmailExists) EmailExists(ctx context.Context, email string) (bool, error) {
	return m.taken[email], nil
}

func validCreateStudent() dto.CreateStudentRequest {
	return dto.CreateStudentRequest{
		Email:     "ali@bukhari-academy.uz",
		Password:  "pass",
		FirstName: "Ali",
		LastName:  "Aliyev",
		GroupID:   "g-1",
	}
}

func TestStudentServiceCreateDuplicateEmailNoPartialWrite(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, &mockGroupExists{known: map[string]bool{"g-1": true}}, &mockEmailExists{taken: map[string]bool{"ali@bukhari-academy.uz": true}}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), validCreateStudent())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateEmail.Code, appErrors.FromError(err).Code)
	assert.Zero(t, repo.created)
}

func TestStudentServiceCreateUnknownGroup(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, &mockGroupExists{known: map[string]bool{}}, &mockEmailExists{}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), validCreateStudent())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidReference.Code, appErrors.FromError(err).Code)
	assert.Zero(t, repo.created)
}

func TestStudentServiceCreateWeakPassword(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, &mockGroupExists{known: map[string]bool{"g-1": true}}, &mockEmailExists{}, validator.New(), zap.NewNop())

	req := validCreateStudent()
	req.Password = "abc"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrWeakPassword.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceCreateDefaultsContactEmail(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, &mockGroupExists{known: map[string]bool{"g-1": true}}, &mockEmailExists{}, validator.New(), zap.NewNop())

	detail, err := svc.Create(context.Background(), validCreateStudent())
	require.NoError(t, err)
	assert.Equal(t, "ali@bukhari-academy.uz", detail.ContactEmail)
}

func TestStudentServiceListScopesTeacher(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, &mockGroupExists{}, &mockEmailExists{}, validator.New(), zap.NewNop())

	_, err := svc.List(context.Background(), teacherClaims(), "")
	require.NoError(t, err)
	require.Len(t, repo.listed, 1)
	assert.Equal(t, "t-1", repo.listed[0].TeacherID)
}

func TestStudentServiceGetSelfOnly(t *testing.T) {
	repo := &mockStudentRepo{details: map[string]*models.StudentDetail{
		"s-1": {Student: models.Student{ID: "s-1", GroupID: "g-1"}, GroupName: "Group A"},
		"s-2": {Student: models.Student{ID: "s-2", GroupID: "g-1"}, GroupName: "Group A"},
	}}
	svc := NewStudentService(repo, &mockGroupExists{}, &mockEmailExists{}, validator.New(), zap.NewNop())

	own, err := svc.Get(context.Background(), studentClaims("s-1"), "s-1")
	require.NoError(t, err)
	assert.Equal(t, "s-1", own.ID)

	_, err = svc.Get(context.Background(), studentClaims("s-1"), "s-2")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceUpdateMergeSemantics(t *testing.T) {
	repo := &mockStudentRepo{details: map[string]*models.StudentDetail{
		"s-1": {Student: models.Student{ID: "s-1", GroupID: "g-1", FirstName: "Ali"}, GroupName: "Group A"},
	}}
	svc := NewStudentService(repo, &mockGroupExists{known: map[string]bool{"g-2": true}}, &mockEmailExists{}, validator.New(), zap.NewNop())

	group := "g-2"
	_, err := svc.Update(context.Background(), "s-1", models.StudentUpdate{GroupID: &group})
	require.NoError(t, err)
	upd := repo.updated["s-1"]
	assert.Nil(t, upd.FirstName)
	require.NotNil(t, upd.GroupID)
	assert.Equal(t, "g-2", *upd.GroupID)
}

func TestStudentServiceUpdateUnknownStudent(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, &mockGroupExists{}, &mockEmailExists{}, validator.New(), zap.NewNop())

	phone := "+998900000000"
	_, err := svc.Update(context.Background(), "missing", models.StudentUpdate{Phone: &phone})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
