package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"time"

	"go.uber.org/zap"

	"github.com/bukhari-academy/academy-api/internal/authz"
	"github.com/bukhari-academy/academy-api/internal/dto"
	"github.com/bukhari-academy/academy-api/internal/models"
	appErrors "github.com/bukhari-academy/academy-api/pkg/errors"
	"github.com/bukhari-academy/academy-api/pkg/mailer"
)

type reportStudentRepository interface {
	FindDetailByID(ctx context.Context, id string) (*models.StudentDetail, error)
	ListIDs(ctx context.Context) ([]string, error)
}

type reportGradeRepository interface {
	ListByStudentMonth(ctx context.Context, studentID string, month, year int) ([]models.Grade, error)
}

type reportBonusRepository interface {
	ListByStudentMonth(ctx context.Context, studentID string, month, year int) ([]models.Bonus, error)
	TotalByStudent(ctx context.Context, studentID string) (int, error)
}

// ReportService assembles monthly result summaries and emails them to the
// students' contact addresses. With no mailer configured the report is still
// assembled and returned as a preview alongside a service-unavailable error.
type ReportService struct {
	students reportStudentRepository
	grades   reportGradeRepository
	bonuses  reportBonusRepository
	mail     mailer.Mailer
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
}

// NewReportService constructs a ReportService instance. A nil mailer means
// email delivery is not configured.
func NewReportService(students reportStudentRepository, grades reportGradeRepository, bonuses reportBonusRepository, mail mailer.Mailer, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{students: students, grades: grades, bonuses: bonuses, mail: mail, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// WithMetrics attaches delivery counters.
func (s *ReportService) WithMetrics(m *MetricsService) *ReportService {
	s.metrics = m
	return s
}

var reportTemplate = template.Must(template.New("monthly").Parse(`<h2>Monthly report: {{.FirstName}} {{.LastName}}</h2>
<p>Group: {{.GroupName}}, period: {{.Month}}/{{.Year}}</p>
<h3>Grades</h3>
{{if .Grades}}<ul>{{range .Grades}}<li>{{.Value}}{{if .Subject}}: {{.Subject}}{{end}}</li>{{end}}</ul>{{else}}<p>No grades recorded this month.</p>{{end}}
<p>Average grade: {{.AverageGrade}}</p>
<h3>Bonuses</h3>
{{if .Bonuses}}<ul>{{range .Bonuses}}<li>+{{.Amount}}{{if .Reason}}: {{.Reason}}{{end}}</li>{{end}}</ul>{{else}}<p>No bonuses this month.</p>{{end}}
<p>Total bonus points: {{.TotalBonus}}</p>`))

// BuildMonthlyReport assembles one student's report for the given period.
func (s *ReportService) BuildMonthlyReport(ctx context.Context, studentID string, month, year int) (*models.MonthlyReport, error) {
	detail, err := s.students.FindDetailByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	grades, err := s.grades.ListByStudentMonth(ctx, studentID, month, year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grades")
	}
	bonuses, err := s.bonuses.ListByStudentMonth(ctx, studentID, month, year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bonuses")
	}
	total, err := s.bonuses.TotalByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to total bonuses")
	}

	avg := 0
	if len(grades) > 0 {
		sum := 0
		for _, g := range grades {
			sum += g.Value
		}
		avg = sum / len(grades)
	}
	if grades == nil {
		grades = []models.Grade{}
	}
	if bonuses == nil {
		bonuses = []models.Bonus{}
	}

	return &models.MonthlyReport{
		StudentID:    detail.ID,
		FirstName:    detail.FirstName,
		LastName:     detail.LastName,
		ContactEmail: detail.ContactEmail,
		GroupName:    detail.GroupName,
		Month:        month,
		Year:         year,
		Grades:       grades,
		Bonuses:      bonuses,
		AverageGrade: avg,
		TotalBonus:   total,
	}, nil
}

// SendOne emails a single student's monthly report. When no mailer is
// configured the assembled report is returned with ErrMailNotConfigured so
// the handler can surface it as a preview.
func (s *ReportService) SendOne(ctx context.Context, claims *models.JWTClaims, studentID string, req dto.SendReportRequest) (*models.MonthlyReport, error) {
	d := authz.Decide(claims.Role, authz.ResourceReport, authz.ActionCreate)
	if !d.Allowed {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to send reports")
	}

	month, year := s.resolvePeriod(req)
	report, err := s.BuildMonthlyReport(ctx, studentID, month, year)
	if err != nil {
		return nil, err
	}

	if s.mail == nil {
		return report, appErrors.Clone(appErrors.ErrMailNotConfigured, "email delivery is not configured")
	}
	if err := s.deliver(ctx, report); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to send report")
	}
	return report, nil
}

// SendAll dispatches reports to every student. Sends are independent: one
// failure is collected and the rest continue.
func (s *ReportService) SendAll(ctx context.Context, claims *models.JWTClaims, req dto.SendReportRequest) (*models.BulkReportResult, error) {
	d := authz.Decide(claims.Role, authz.ResourceReport, authz.ActionCreate)
	if !d.Allowed {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to send reports")
	}
	if s.mail == nil {
		return nil, appErrors.Clone(appErrors.ErrMailNotConfigured, "email delivery is not configured")
	}

	ids, err := s.students.ListIDs(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	month, year := s.resolvePeriod(req)
	result := &models.BulkReportResult{Total: len(ids), Failed: []models.ReportFailure{}}
	for _, id := range ids {
		report, err := s.BuildMonthlyReport(ctx, id, month, year)
		if err == nil {
			err = s.deliver(ctx, report)
		}
		if err != nil {
			s.logger.Warn("monthly report send failed", zap.String("student_id", id), zap.Error(err))
			result.Failed = append(result.Failed, models.ReportFailure{StudentID: id, Error: err.Error()})
			continue
		}
		result.Sent++
	}
	return result, nil
}

func (s *ReportService) deliver(ctx context.Context, report *models.MonthlyReport) error {
	var body bytes.Buffer
	if err := reportTemplate.Execute(&body, report); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	err := s.mail.Send(ctx, mailer.Message{
		ToName:  fmt.Sprintf("%s %s", report.FirstName, report.LastName),
		ToEmail: report.ContactEmail,
		Subject: fmt.Sprintf("Monthly report %d/%d", report.Month, report.Year),
		Text:    fmt.Sprintf("Average grade %d, total bonus %d", report.AverageGrade, report.TotalBonus),
		HTML:    body.String(),
	})
	s.metrics.RecordMailDelivery(err == nil)
	return err
}

// resolvePeriod defaults to the current calendar month.
func (s *ReportService) resolvePeriod(req dto.SendReportRequest) (int, int) {
	now := s.now()
	month := int(now.Month())
	year := now.Year()
	if req.Month != nil && *req.Month >= 1 && *req.Month <= 12 {
		month = *req.Month
	}
	if req.Year != nil {
		year = *req.Year
	}
	return month, year
}
