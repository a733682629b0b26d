package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bukhari-academy/academy-api/internal/dto"
	"github.com/bukhari-academy/academy-api/internal/models"
	appErrors "github.com/bukhari-academy/academy-api/pkg/errors"
	"github.com/bukhari-academy/academy-api/pkg/mailer"
)

type mockReportStudents struct {
	details map[string]*models.StudentDetail
	ids     []string
}

func (m *mockReportStudents) FindDetailByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	if d, ok := m.details[id]; ok {
		return d, nil
	}
	return nil, errors.New("load failed")
}

func (m *mockReportStudents) ListIDs(ctx context.Context) ([]string, error) {
	return m.ids, nil
}

type mockReportGrades struct {
	byStudent map[string][]models.Grade
}

func (m *mockReportGrades) ListByStudentMonth(ctx context.Context, studentID string, month, year int) ([]models.Grade, error) {
	return m.byStudent[studentID], nil
}

type mockReportBonuses struct {
	byStudent map[string][]models.Bonus
}

func (m *mockReportBonuses) ListByStudentMonth(ctx context.Context, studentID string, month, year int) ([]models.Bonus, error) {
	return m.byStudent[studentID], nil
}

func (m *mockReportBonuses) TotalByStudent(ctx context.Context, studentID string) (int, error) {
	total := 0
	for _, b := range m.byStudent[studentID] {
		total += b.Amount
	}
	return total, nil
}

type mockMailer struct {
	sent    []mailer.Message
	failFor map[string]error
}

func (m *mockMailer) Send(ctx context.Context, msg mailer.Message) error {
	if err, ok := m.failFor[msg.ToEmail]; ok {
		return err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "u-admin", Role: models.RoleAdmin}
}

func reportFixtures() (*mockReportStudents, *mockReportGrades, *mockReportBonuses) {
	students := &mockReportStudents{
		details: map[string]*models.StudentDetail{
			"s-1": {Student: models.Student{ID: "s-1", ContactEmail: "one@example.com", FirstName: "One", LastName: "Student"}, GroupName: "Group A"},
			"s-2": {Student: models.Student{ID: "s-2", ContactEmail: "two@example.com", FirstName: "Two", LastName: "Student"}, GroupName: "Group A"},
		},
		ids: []string{"s-1", "s-2"},
	}
	grades := &mockReportGrades{byStudent: map[string][]models.Grade{
		"s-1": {{Value: 80}, {Value: 90}},
	}}
	bonuses := &mockReportBonuses{byStudent: map[string][]models.Bonus{
		"s-1": {{Amount: 15}},
	}}
	return students, grades, bonuses
}

func TestReportServiceBuildMonthlyReport(t *testing.T) {
	students, grades, bonuses := reportFixtures()
	svc := NewReportService(students, grades, bonuses, nil, zap.NewNop())

	report, err := svc.BuildMonthlyReport(context.Background(), "s-1", 7, 2026)
	require.NoError(t, err)
	assert.Equal(t, 85, report.AverageGrade)
	assert.Equal(t, 15, report.TotalBonus)
	assert.Equal(t, "Group A", report.GroupName)
}

func TestReportServiceBuildEmptyMonth(t *testing.T) {
	students, grades, bonuses := reportFixtures()
	svc := NewReportService(students, grades, bonuses, nil, zap.NewNop())

	report, err := svc.BuildMonthlyReport(context.Background(), "s-2", 7, 2026)
	require.NoError(t, err)
	assert.Zero(t, report.AverageGrade)
	assert.Empty(t, report.Grades)
	assert.Empty(t, report.Bonuses)
}

func TestReportServiceSendOneWithoutMailerReturnsPreview(t *testing.T) {
	students, grades, bonuses := reportFixtures()
	svc := NewReportService(students, grades, bonuses, nil, zap.NewNop())

	report, err := svc.SendOne(context.Background(), adminClaims(), "s-1", dto.SendReportRequest{Month: intPtr(7), Year: intPtr(2026)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMailNotConfigured.Code, appErrors.FromError(err).Code)
	require.NotNil(t, report)
	assert.Equal(t, 85, report.AverageGrade)
}

func TestReportServiceSendOneDelivers(t *testing.T) {
	students, grades, bonuses := reportFixtures()
	mail := &mockMailer{}
	svc := NewReportService(students, grades, bonuses, mail, zap.NewNop())

	_, err := svc.SendOne(context.Background(), adminClaims(), "s-1", dto.SendReportRequest{Month: intPtr(7), Year: intPtr(2026)})
	require.NoError(t, err)
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "one@example.com", mail.sent[0].ToEmail)
	assert.Contains(t, mail.sent[0].HTML, "Average grade")
}

func TestReportServiceSendAllCollectsFailures(t *testing.T) {
	students, grades, bonuses := reportFixtures()
	mail := &mockMailer{failFor: map[string]error{"two@example.com": errors.New("smtp refused")}}
	svc := NewReportService(students, grades, bonuses, mail, zap.NewNop())

	result, err := svc.SendAll(context.Background(), adminClaims(), dto.SendReportRequest{Month: intPtr(7), Year: intPtr(2026)})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Sent)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "s-2", result.Failed[0].StudentID)
	assert.Contains(t, result.Failed[0].Error, "smtp refused")
}

func TestReportServicePeriodDefaultsToCurrentMonth(t *testing.T) {
	students, grades, bonuses := reportFixtures()
	mail := &mockMailer{}
	svc := NewReportService(students, grades, bonuses, mail, zap.NewNop())
	// A month-end date must still resolve to its own month.
	svc.now = func() time.Time { return time.Date(2026, time.March, 31, 12, 0, 0, 0, time.UTC) }

	month, year := svc.resolvePeriod(dto.SendReportRequest{})
	assert.Equal(t, 3, month)
	assert.Equal(t, 2026, year)

	_, err := svc.SendOne(context.Background(), adminClaims(), "s-1", dto.SendReportRequest{})
	require.NoError(t, err)
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "Monthly report 3/2026", mail.sent[0].Subject)
}

func TestReportServicePeriodRequestOverridesDefault(t *testing.T) {
	students, grades, bonuses := reportFixtures()
	svc := NewReportService(students, grades, bonuses, nil, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, time.July, 15, 12, 0, 0, 0, time.UTC) }

	month, year := svc.resolvePeriod(dto.SendReportRequest{Month: intPtr(3), Year: intPtr(2024)})
	assert.Equal(t, 3, month)
	assert.Equal(t, 2024, year)
}

func TestReportServiceSendForbiddenForTeacher(t *testing.T) {
	students, grades, bonuses := reportFixtures()
	svc := NewReportService(students, grades, bonuses, &mockMailer{}, zap.NewNop())

	_, err := svc.SendAll(context.Background(), teacherClaims(), dto.SendReportRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
