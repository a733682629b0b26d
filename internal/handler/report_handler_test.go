package handler

import (
	"context"
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
	"github.com/bukhari-academy/academy-api/pkg/mailer"
)

type reportStudentsStub struct{}

func (reportStudentsStub) FindDetailByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	return &models.StudentDetail{
		Student:   models.Student{ID: id, ContactEmail: "one@example.com", FirstName: "One", LastName: "Student"},
		GroupName: "Group A",
	}, nil
}

func (reportStudentsStub) ListIDs(ctx context.Context) ([]string, error) {
	return []string{"s-1"}, nil
}

type reportGradesStub struct{}

func (reportGradesStub) ListByStudentMonth(ctx context.Context, studentID string, month, year int) ([]models.Grade, error) {
	return []models.Grade{{Value: 90}}, nil
}

type reportBonusesStub struct{}

func (reportBonusesStub) ListByStudentMonth(ctx context.Context, studentID string, month, year int) ([]models.Bonus, error) {
	return nil, nil
}

func (reportBonusesStub) TotalByStudent(ctx context.Context, studentID string) (int, error) {
	return 0, nil
}

type captureMailer struct {
	sent []mailer.Message
}

func (m *captureMailer) Send(ctx context.Context, msg mailer.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

func newReportTestContext(t *testing.T, target string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, target, strings.NewReader(""))
	require.NoError(t, err)
	c.Request = req
	c.Params = gin.Params{{Key: "studentId", Value: "s-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-admin", Role: models.RoleAdmin})
	return c, w
}

func TestReportHandlerSendOneHonorsQueryPeriod(t *testing.T) {
	mail := &captureMailer{}
	svc := service.NewReportService(reportStudentsStub{}, reportGradesStub{}, reportBonusesStub{}, mail, nil)
	h := NewReportHandler(svc)

	c, w := newReportTestContext(t, "/api/email/send-monthly-report/s-1?month=3&year=2024")
	h.SendOne(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "Monthly report 3/2024", mail.sent[0].Subject)
}

func TestReportHandlerSendAllHonorsQueryPeriod(t *testing.T) {
	mail := &captureMailer{}
	svc := service.NewReportService(reportStudentsStub{}, reportGradesStub{}, reportBonusesStub{}, mail, nil)
	h := NewReportHandler(svc)

	c, w := newReportTestContext(t, "/api/email/send-monthly-reports?month=11&year=2025")
	h.SendAll(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "Monthly report 11/2025", mail.sent[0].Subject)
}

func TestReportHandlerSendOneRejectsBadMonth(t *testing.T) {
	mail := &captureMailer{}
	svc := service.NewReportService(reportStudentsStub{}, reportGradesStub{}, reportBonusesStub{}, mail, nil)
	h := NewReportHandler(svc)

	c, w := newReportTestContext(t, "/api/email/send-monthly-report/s-1?month=13")
	h.SendOne(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, mail.sent)
}
