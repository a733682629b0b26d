package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bukhari-academy/academy-api/internal/models"
)

func TestExportServiceRosterCSV(t *testing.T) {
	students := &mockStudentRepo{details: map[string]*models.StudentDetail{
		"s-1": {
			Student:    models.Student{ID: "s-1", GroupID: "g-1", ContactEmail: "parent@example.com", LastName: "Aliyev", FirstName: "Ali"},
			LoginEmail: "ali@bukhari-academy.uz",
			GroupName:  "Group A",
		},
	}}
	svc := NewExportService(students, nil, zap.NewNop())

	payload, err := svc.RosterCSV(context.Background())
	require.NoError(t, err)

	// Leading UTF-8 BOM keeps spreadsheet imports of non-Latin names intact.
	require.True(t, strings.HasPrefix(string(payload), "\xef\xbb\xbf"))
	body := strings.TrimPrefix(string(payload), "\xef\xbb\xbf")
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "group,last_name,first_name,login_email,contact_email,phone", lines[0])
	assert.Contains(t, lines[1], "Group A")
	assert.Contains(t, lines[1], "ali@bukhari-academy.uz")
}

func TestExportServiceMonthlyPDF(t *testing.T) {
	reportStudents, grades, bonuses := reportFixtures()
	reports := NewReportService(reportStudents, grades, bonuses, nil, zap.NewNop())
	svc := NewExportService(&mockStudentRepo{}, reports, zap.NewNop())

	payload, err := svc.MonthlyPDF(context.Background(), "s-1", 7, 2026)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}
