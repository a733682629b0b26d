package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bukhari-academy/academy-api/internal/middleware"
	"github.com/bukhari-academy/academy-api/internal/models"
	"github.com/bukhari-academy/academy-api/internal/service"
	"github.com/bukhari-academy/academy-api/pkg/response"
)

type gradeRepoMock struct {
	grades []models.Grade
}

func (m *gradeRepoMock) ListByStudent(ctx context.Context, studentID string) ([]models.Grade, error) {
	return m.grades, nil
}

func (m *gradeRepoMock) Create(ctx context.Context, grade *models.Grade) error {
	grade.ID = "g-new"
	m.grades = append(m.grades, *grade)
	return nil
}

type studentExistsMock struct {
	known map[string]bool
}

func (m *studentExistsMock) Exists(ctx context.Context, id string) (bool, error) {
	return m.known[id], nil
}

func newGradeTestContext(t *testing.T, method, target, body string, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, target, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "studentId", Value: "s-1"}}
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, w
}

func teacherTestClaims() *models.JWTClaims {
	tid := "t-1"
	return &models.JWTClaims{UserID: "u-1", Role: models.RoleTeacher, TeacherID: &tid}
}

func TestGradeHandlerAddCreated(t *testing.T) {
	svc := service.NewGradeService(&gradeRepoMock{}, &studentExistsMock{known: map[string]bool{"s-1": true}}, nil, nil)
	h := NewGradeHandler(svc)

	c, w := newGradeTestContext(t, http.MethodPost, "/api/students/s-1/grades", `{"value":85,"subject":"math"}`, teacherTestClaims())
	h.Add(c)

	require.Equal(t, http.StatusCreated, w.Code)
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Nil(t, env.Error)
}

func TestGradeHandlerAddOutOfRange(t *testing.T) {
	svc := service.NewGradeService(&gradeRepoMock{}, &studentExistsMock{known: map[string]bool{"s-1": true}}, nil, nil)
	h := NewGradeHandler(svc)

	c, w := newGradeTestContext(t, http.MethodPost, "/api/students/s-1/grades", `{"value":120}`, teacherTestClaims())
	h.Add(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, "OUT_OF_RANGE", env.Error.Code)
}

func TestGradeHandlerStudentForbidden(t *testing.T) {
	svc := service.NewGradeService(&gradeRepoMock{}, &studentExistsMock{known: map[string]bool{"s-1": true}}, nil, nil)
	h := NewGradeHandler(svc)

	claims := &models.JWTClaims{UserID: "u-2", Role: models.RoleStudent, Student: &models.StudentContext{ID: "s-1"}}
	c, w := newGradeTestContext(t, http.MethodPost, "/api/students/s-1/grades", `{"value":90}`, claims)
	h.Add(c)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestGradeHandlerListUnauthenticated(t *testing.T) {
	svc := service.NewGradeService(&gradeRepoMock{}, &studentExistsMock{}, nil, nil)
	h := NewGradeHandler(svc)

	c, w := newGradeTestContext(t, http.MethodGet, "/api/students/s-1/grades", "", nil)
	h.List(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
