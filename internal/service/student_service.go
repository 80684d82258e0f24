package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/institute-hq/institute-api/internal/dto"
	"github.com/institute-hq/institute-api/internal/models"
	appErrors "github.com/institute-hq/institute-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	GetByCode(ctx context.Context, code string) (*models.Student, error)
	Create(ctx context.Context, s *models.Student) error
	Update(ctx context.Context, s *models.Student) error
	Delete(ctx context.Context, code string) error
}

// StudentService provides student record use cases.
type StudentService struct {
	repo      studentRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &StudentService{repo: repo, cache: cache, validator: validate, logger: logger, now: time.Now}
	svc.validator.RegisterValidation("student_status", func(fl validator.FieldLevel) bool {
		return models.StudentStatus(fl.Field().String()).Valid()
	})
	return svc
}

// List returns students matching the filter together with pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	page := models.Paginate(filter.Page, filter.Limit)
	pagination := models.NewPagination(total, page.Page, page.Limit)
	return students, pagination, nil
}

// Get fetches a student by business identifier.
func (s *StudentService) Get(ctx context.Context, code string) (*models.Student, error) {
	student, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create registers a new student record.
func (s *StudentService) Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	now := s.now().UTC()
	student := &models.Student{
		ID:           uuid.NewString(),
		StudentID:    models.NewBusinessID("STU", now),
		FullName:     req.FullName,
		Class:        req.Class,
		AcademicYear: req.AcademicYear,
		Status:       models.StudentActive,
		Phone:        req.Phone,
		Address:      req.Address,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Status != "" {
		student.Status = models.StudentStatus(req.Status)
	}
	if req.DOB != "" {
		dob, err := time.ParseInLocation(dateLayout, req.DOB, time.UTC)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrInvalidDate, "dob must be a valid YYYY-MM-DD date")
		}
		student.DOB = &dob
	}

	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.invalidateReports(ctx)
	return student, nil
}

// Update applies a partial update to an existing student record.
func (s *StudentService) Update(ctx context.Context, code string, req dto.UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	student, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		student.FullName = *req.FullName
	}
	if req.Class != nil {
		student.Class = *req.Class
	}
	if req.AcademicYear != nil {
		student.AcademicYear = *req.AcademicYear
	}
	if req.Status != nil {
		student.Status = models.StudentStatus(*req.Status)
	}
	if req.Phone != nil {
		student.Phone = *req.Phone
	}
	if req.Address != nil {
		student.Address = *req.Address
	}
	if req.DOB != nil {
		if *req.DOB == "" {
			student.DOB = nil
		} else {
			dob, err := time.ParseInLocation(dateLayout, *req.DOB, time.UTC)
			if err != nil {
				return nil, appErrors.Clone(appErrors.ErrInvalidDate, "dob must be a valid YYYY-MM-DD date")
			}
			student.DOB = &dob
		}
	}
	student.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, student); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	s.invalidateReports(ctx)
	return student, nil
}

// Delete removes a student record.
func (s *StudentService) Delete(ctx context.Context, code string) error {
	if err := s.repo.Delete(ctx, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	s.invalidateReports(ctx)
	return nil
}

func (s *StudentService) invalidateReports(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "report:*"); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
	}
}
