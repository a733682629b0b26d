package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bukhari-academy/academy-api/internal/dto"
	"github.com/bukhari-academy/academy-api/internal/models"
	appErrors "github.com/bukhari-academy/academy-api/pkg/errors"
)

type mockBonusRepo struct {
	bonuses []models.Bonus
	created []*models.Bonus
}

func (m *mockBonusRepo) ListByStudent(ctx context.Context, studentID string) ([]models.Bonus, error) {
	return m.bonuses, nil
}

func (m *mockBonusRepo) TotalByStudent(ctx context.Context, studentID string) (int, error) {
	total := 0
	for _, b := range m.bonuses {
		total += b.Amount
	}
	for _, b := range m.created {
		total += b.Amount
	}
	return total, nil
}

func (m *mockBonusRepo) Create(ctx context.Context, bonus *models.Bonus) error {
	m.created = append(m.created, bonus)
	return nil
}

func TestBonusServiceSummaryRecomputesTotal(t *testing.T) {
	repo := &mockBonusRepo{bonuses: []models.Bonus{
		{ID: "b-1", StudentID: "s-1", Amount: 10},
		{ID: "b-2", StudentID: "s-1", Amount: 25},
	}}
	svc := NewBonusService(repo, &mockStudentExists{known: map[string]bool{"s-1": true}}, validator.New(), zap.NewNop())

	summary, err := svc.Summary(context.Background(), teacherClaims(), "s-1")
	require.NoError(t, err)
	assert.Len(t, summary.List, 2)
	assert.Equal(t, 35, summary.TotalBonus)
}

func TestBonusServiceSummaryEmpty(t *testing.T) {
	svc := NewBonusService(&mockBonusRepo{}, &mockStudentExists{known: map[string]bool{"s-1": true}}, validator.New(), zap.NewNop())

	summary, err := svc.Summary(context.Background(), teacherClaims(), "s-1")
	require.NoError(t, err)
	assert.Empty(t, summary.List)
	assert.Equal(t, 0, summary.TotalBonus)
}

func TestBonusServiceAddMissingAmount(t *testing.T) {
	svc := NewBonusService(&mockBonusRepo{}, &mockStudentExists{known: map[string]bool{"s-1": true}}, validator.New(), zap.NewNop())

	_, err := svc.Add(context.Background(), teacherClaims(), "s-1", dto.AddBonusRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMissingInput.Code, appErrors.FromError(err).Code)
}

func TestBonusServiceAddNegativeAmount(t *testing.T) {
	svc := NewBonusService(&mockBonusRepo{}, &mockStudentExists{known: map[string]bool{"s-1": true}}, validator.New(), zap.NewNop())

	_, err := svc.Add(context.Background(), teacherClaims(), "s-1", dto.AddBonusRequest{Amount: intPtr(-5)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrOutOfRange.Code, appErrors.FromError(err).Code)
}

func TestBonusServiceAddZeroAllowed(t *testing.T) {
	repo := &mockBonusRepo{}
	svc := NewBonusService(repo, &mockStudentExists{known: map[string]bool{"s-1": true}}, validator.New(), zap.NewNop())

	bonus, err := svc.Add(context.Background(), teacherClaims(), "s-1", dto.AddBonusRequest{Amount: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, 0, bonus.Amount)
	assert.Len(t, repo.created, 1)
}

func TestBonusServiceStudentCannotAward(t *testing.T) {
	svc := NewBonusService(&mockBonusRepo{}, &mockStudentExists{known: map[string]bool{"s-1": true}}, validator.New(), zap.NewNop())

	_, err := svc.Add(context.Background(), studentClaims("s-1"), "s-1", dto.AddBonusRequest{Amount: intPtr(10)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
