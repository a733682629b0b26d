package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/bukhari-academy/academy-api/internal/models"
	appErrors "github.com/bukhari-academy/academy-api/pkg/errors"
	"github.com/bukhari-academy/academy-api/pkg/export"
)

type exportStudentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, error)
}

type reportBuilder interface {
	BuildMonthlyReport(ctx context.Context, studentID string, month, year int) (*models.MonthlyReport, error)
}

// ExportService renders admin downloads: the roster as CSV and per-student
// monthly reports as PDF.
type ExportService struct {
	students exportStudentRepository
	reports  reportBuilder
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewExportService constructs an ExportService instance.
func NewExportService(students exportStudentRepository, reports reportBuilder, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		students: students,
		reports:  reports,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

// RosterCSV renders the full student roster as CSV bytes.
func (s *ExportService) RosterCSV(ctx context.Context) ([]byte, error) {
	students, err := s.students.List(ctx, models.StudentFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	data := export.Dataset{
		Headers: []string{"group", "last_name", "first_name", "login_email", "contact_email", "phone"},
	}
	for _, st := range students {
		phone := ""
		if st.Phone != nil {
			phone = *st.Phone
		}
		data.Append(map[string]string{
			"group":         st.GroupName,
			"last_name":     st.LastName,
			"first_name":    st.FirstName,
			"login_email":   st.LoginEmail,
			"contact_email": st.ContactEmail,
			"phone":         phone,
		})
	}

	payload, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster csv")
	}
	return payload, nil
}

// MonthlyPDF renders one student's monthly report as a PDF document.
func (s *ExportService) MonthlyPDF(ctx context.Context, studentID string, month, year int) ([]byte, error) {
	report, err := s.reports.BuildMonthlyReport(ctx, studentID, month, year)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{Headers: []string{"type", "value", "detail"}}
	for _, g := range report.Grades {
		detail := ""
		if g.Subject != nil {
			detail = *g.Subject
		}
		data.Append(map[string]string{
			"type":   "grade",
			"value":  strconv.Itoa(g.Value),
			"detail": detail,
		})
	}
	for _, b := range report.Bonuses {
		detail := ""
		if b.Reason != nil {
			detail = *b.Reason
		}
		data.Append(map[string]string{
			"type":   "bonus",
			"value":  "+" + strconv.Itoa(b.Amount),
			"detail": detail,
		})
	}

	title := fmt.Sprintf("%s %s - %d/%d", report.FirstName, report.LastName, report.Month, report.Year)
	summary := []string{
		fmt.Sprintf("Group: %s", report.GroupName),
		fmt.Sprintf("Average grade: %d", report.AverageGrade),
		fmt.Sprintf("Total bonus points: %d", report.TotalBonus),
	}
	payload, err := s.pdf.Render(data, title, summary)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report pdf")
	}
	return payload, nil
}
