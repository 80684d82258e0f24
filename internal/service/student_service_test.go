package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/institute-hq/institute-api/internal/dto"
	"github.com/institute-hq/institute-api/internal/models"
	appErrors "github.com/institute-hq/institute-api/pkg/errors"
)

type mockStudentRepo struct {
	students  []models.Student
	total     int
	created   *models.Student
	updated   *models.Student
	deleted   []string
	getErr    error
	deleteErr error
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	return m.students, m.total, nil
}

func (m *mockStudentRepo) GetByCode(ctx context.Context, code string) (*models.Student, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for i := range m.students {
		if m.students[i].StudentID == code {
			student := m.students[i]
			return &student, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) Create(ctx context.Context, s *models.Student) error {
	m.created = s
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, s *models.Student) error {
	m.updated = s
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, code string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, code)
	return nil
}

func TestStudentServiceCreate(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, nil, nil, zap.NewNop())

	student, err := svc.Create(context.Background(), dto.CreateStudentRequest{
		FullName:     "Alice",
		Class:        "5A",
		AcademicYear: "2024",
		DOB:          "2012-04-01",
	})
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Equal(t, models.StudentActive, student.Status)
	assert.True(t, strings.HasPrefix(student.StudentID, "STU-"))
	require.NotNil(t, student.DOB)
	assert.Equal(t, 2012, student.DOB.Year())
}

func TestStudentServiceCreateInvalidDOB(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, nil, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), dto.CreateStudentRequest{
		FullName:     "Alice",
		Class:        "5A",
		AcademicYear: "2024",
		DOB:          "01/04/2012",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidDate.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceCreateRejectsUnknownStatus(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, nil, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), dto.CreateStudentRequest{
		FullName:     "Alice",
		Class:        "5A",
		AcademicYear: "2024",
		Status:       "suspended",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceUpdatePartial(t *testing.T) {
	repo := &mockStudentRepo{students: []models.Student{
		{StudentID: "STU-1", FullName: "Alice", Class: "5A", Status: models.StudentActive},
	}}
	svc := NewStudentService(repo, nil, nil, zap.NewNop())

	newClass := "6A"
	student, err := svc.Update(context.Background(), "STU-1", dto.UpdateStudentRequest{Class: &newClass})
	require.NoError(t, err)
	assert.Equal(t, "6A", student.Class)
	// untouched fields survive
	assert.Equal(t, "Alice", student.FullName)
	require.NotNil(t, repo.updated)
}

func TestStudentServiceUpdateMissing(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, nil, nil, zap.NewNop())

	name := "Nobody"
	_, err := svc.Update(context.Background(), "STU-404", dto.UpdateStudentRequest{FullName: &name})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceDeleteMissing(t *testing.T) {
	repo := &mockStudentRepo{deleteErr: sql.ErrNoRows}
	svc := NewStudentService(repo, nil, nil, zap.NewNop())

	err := svc.Delete(context.Background(), "STU-404")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceMutationsInvalidateReportCache(t *testing.T) {
	cacheRepo := newMemoryCacheRepo()
	cache := NewCacheService(cacheRepo, nil, 0, zap.NewNop(), true)
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, cache, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), dto.CreateStudentRequest{FullName: "Alice", Class: "5A", AcademicYear: "2024"})
	require.NoError(t, err)
	assert.Equal(t, []string{"report:*"}, cacheRepo.deletedPatterns)
}

func TestStudentServiceListPagination(t *testing.T) {
	repo := &mockStudentRepo{students: make([]models.Student, 10), total: 45}
	svc := NewStudentService(repo, nil, nil, zap.NewNop())

	students, pagination, err := svc.List(context.Background(), models.StudentFilter{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, students, 10)
	require.NotNil(t, pagination)
	assert.Equal(t, 45, pagination.Total)
	assert.Equal(t, 5, pagination.TotalPages)
	assert.True(t, pagination.HasNext)
}
