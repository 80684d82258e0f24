package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/institute-hq/institute-api/internal/dto"
	"github.com/institute-hq/institute-api/internal/models"
	appErrors "github.com/institute-hq/institute-api/pkg/errors"
)

const defaultCurrency = "EUR"

type paymentRepository interface {
	List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, int, error)
	ListPending(ctx context.Context, page models.PageRequest) ([]models.Payment, int, error)
	GetByCode(ctx context.Context, code string) (*models.Payment, error)
	Create(ctx context.Context, p *models.Payment) error
	UpdateStatus(ctx context.Context, p *models.Payment) error
	ListDonations(ctx context.Context, status models.DonationStatus, page models.PageRequest) ([]models.Donation, int, error)
	UpdateDonationStatus(ctx context.Context, code string, status models.DonationStatus) error
}

type studentResolver interface {
	GetByCode(ctx context.Context, code string) (*models.Student, error)
}

// PaymentService provides fee ledger use cases.
type PaymentService struct {
	repo     paymentRepository
	students studentResolver
	cache    *CacheService
	logger   *zap.Logger
	now      func() time.Time
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(repo paymentRepository, students studentResolver, cache *CacheService, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{repo: repo, students: students, cache: cache, logger: logger, now: time.Now}
}

// List returns ledger entries matching the filter.
func (s *PaymentService) List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, *models.Pagination, error) {
	payments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	page := models.Paginate(filter.Page, filter.Limit)
	pagination := models.NewPagination(total, page.Page, page.Limit)
	return payments, pagination, nil
}

// ListPending returns unsettled ledger entries ordered by due date.
func (s *PaymentService) ListPending(ctx context.Context, pageNum, limit int) ([]models.Payment, *models.Pagination, error) {
	page := models.Paginate(pageNum, limit)
	payments, total, err := s.repo.ListPending(ctx, page)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending payments")
	}
	pagination := models.NewPagination(total, page.Page, page.Limit)
	return payments, pagination, nil
}

// Get fetches a ledger entry by business identifier.
func (s *PaymentService) Get(ctx context.Context, code string) (*models.Payment, error) {
	payment, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}
	return payment, nil
}

// Create records a new fee ledger entry. The student reference is optional;
// a payment without one still counts toward global totals.
func (s *PaymentService) Create(ctx context.Context, req dto.CreatePaymentRequest) (*models.Payment, error) {
	now := s.now().UTC()
	dueDate, err := time.ParseInLocation(dateLayout, req.DueDate, time.UTC)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidDate, "dueDate must be a valid YYYY-MM-DD date")
	}

	payment := &models.Payment{
		ID:        uuid.NewString(),
		PaymentID: models.NewBusinessID("PAY", now),
		Type:      req.Type,
		Amount:    req.Amount,
		Currency:  req.Currency,
		DueDate:   dueDate,
		Method:    req.Method,
		Reference: req.Reference,
		Status:    models.PaymentPending,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if payment.Currency == "" {
		payment.Currency = defaultCurrency
	}
	if req.StudentID != "" {
		student, err := s.students.GetByCode(ctx, req.StudentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve student")
		}
		payment.StudentRef = &student.ID
		payment.StudentCode = &student.StudentID
		payment.StudentName = &student.FullName
	}

	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create payment")
	}
	s.invalidateReports(ctx)
	return payment, nil
}

// UpdateStatus transitions a ledger entry's settlement state. Marking an
// entry paid without a paidDate stamps the current day.
func (s *PaymentService) UpdateStatus(ctx context.Context, code string, req dto.UpdatePaymentStatusRequest) (*models.Payment, error) {
	status := models.PaymentStatus(req.Status)
	switch status {
	case models.PaymentPaid, models.PaymentPending, models.PaymentFailed, models.PaymentOverdue, models.PaymentPartial:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown payment status")
	}

	payment, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	payment.Status = status
	if req.Method != "" {
		payment.Method = req.Method
	}
	if req.Reference != "" {
		payment.Reference = req.Reference
	}
	if req.Notes != "" {
		payment.Notes = req.Notes
	}
	if req.PaidDate != "" {
		paidDate, err := time.ParseInLocation(dateLayout, req.PaidDate, time.UTC)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrInvalidDate, "paidDate must be a valid YYYY-MM-DD date")
		}
		payment.PaidDate = &paidDate
	} else if status == models.PaymentPaid && payment.PaidDate == nil {
		today := s.now().UTC().Truncate(24 * time.Hour)
		payment.PaidDate = &today
	}
	payment.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateStatus(ctx, payment); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update payment")
	}
	s.invalidateReports(ctx)
	return payment, nil
}

// ListDonations returns donation ledger entries, optionally by status.
func (s *PaymentService) ListDonations(ctx context.Context, status models.DonationStatus, pageNum, limit int) ([]models.Donation, *models.Pagination, error) {
	page := models.Paginate(pageNum, limit)
	donations, total, err := s.repo.ListDonations(ctx, status, page)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list donations")
	}
	pagination := models.NewPagination(total, page.Page, page.Limit)
	return donations, pagination, nil
}

// UpdateDonationStatus transitions a donation's ledger state.
func (s *PaymentService) UpdateDonationStatus(ctx context.Context, code string, req dto.UpdateDonationStatusRequest) error {
	status := models.DonationStatus(req.Status)
	switch status {
	case models.DonationCompleted, models.DonationPending, models.DonationFailed, models.DonationRefunded:
	default:
		return appErrors.Clone(appErrors.ErrValidation, "unknown donation status")
	}

	if err := s.repo.UpdateDonationStatus(ctx, code, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "donation not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update donation")
	}
	s.invalidateReports(ctx)
	return nil
}

func (s *PaymentService) invalidateReports(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "report:*"); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
	}
}
