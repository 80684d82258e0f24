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

type donorRepository interface {
	List(ctx context.Context, filter models.DonorFilter) ([]models.Donor, int, error)
	GetByCode(ctx context.Context, code string) (*models.Donor, error)
	Create(ctx context.Context, d *models.Donor) error
	Update(ctx context.Context, d *models.Donor) error
	Delete(ctx context.Context, code string) error
	AddDonation(ctx context.Context, d *models.Donation) error
	ListDonations(ctx context.Context, donorRef string) ([]models.Donation, error)
	ListFollowUps(ctx context.Context, horizon time.Time) ([]models.Donor, error)
}

// DonorServiceConfig tunes follow-up reminders.
type DonorServiceConfig struct {
	FollowUpHorizonDays int
}

// DonorService provides donor relationship use cases.
type DonorService struct {
	repo   donorRepository
	cache  *CacheService
	logger *zap.Logger
	now    func() time.Time
	cfg    DonorServiceConfig
}

// NewDonorService constructs a DonorService.
func NewDonorService(repo donorRepository, cache *CacheService, logger *zap.Logger, cfg DonorServiceConfig) *DonorService {
	if cfg.FollowUpHorizonDays <= 0 {
		cfg.FollowUpHorizonDays = 7
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DonorService{repo: repo, cache: cache, logger: logger, now: time.Now, cfg: cfg}
}

// List returns donors matching the filter.
func (s *DonorService) List(ctx context.Context, filter models.DonorFilter) ([]models.Donor, *models.Pagination, error) {
	donors, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list donors")
	}
	page := models.Paginate(filter.Page, filter.Limit)
	pagination := models.NewPagination(total, page.Page, page.Limit)
	return donors, pagination, nil
}

// Get fetches a donor by business identifier.
func (s *DonorService) Get(ctx context.Context, code string) (*models.Donor, error) {
	donor, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "donor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load donor")
	}
	return donor, nil
}

// Create registers a new donor relationship.
func (s *DonorService) Create(ctx context.Context, req dto.CreateDonorRequest) (*models.Donor, error) {
	now := s.now().UTC()
	donor := &models.Donor{
		ID:        uuid.NewString(),
		DonorID:   models.NewBusinessID("DNR", now),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Status:    "active",
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, donor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create donor")
	}
	s.invalidateReports(ctx)
	return donor, nil
}

// Update applies a partial update to an existing donor.
func (s *DonorService) Update(ctx context.Context, code string, req dto.UpdateDonorRequest) (*models.Donor, error) {
	donor, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		donor.Name = *req.Name
	}
	if req.Email != nil {
		donor.Email = *req.Email
	}
	if req.Phone != nil {
		donor.Phone = *req.Phone
	}
	if req.Address != nil {
		donor.Address = *req.Address
	}
	if req.Status != nil {
		donor.Status = *req.Status
	}
	if req.Notes != nil {
		donor.Notes = *req.Notes
	}
	if req.NextFollowUpAt != nil {
		if *req.NextFollowUpAt == "" {
			donor.NextFollowUpAt = nil
		} else {
			followUp, err := time.ParseInLocation(dateLayout, *req.NextFollowUpAt, time.UTC)
			if err != nil {
				return nil, appErrors.Clone(appErrors.ErrInvalidDate, "nextFollowUpAt must be a valid YYYY-MM-DD date")
			}
			donor.NextFollowUpAt = &followUp
		}
	}
	donor.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, donor); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "donor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update donor")
	}
	s.invalidateReports(ctx)
	return donor, nil
}

// Delete removes a donor relationship.
func (s *DonorService) Delete(ctx context.Context, code string) error {
	if err := s.repo.Delete(ctx, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "donor not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete donor")
	}
	s.invalidateReports(ctx)
	return nil
}

// AddDonation records a donation under the given donor.
func (s *DonorService) AddDonation(ctx context.Context, donorCode string, req dto.AddDonationRequest) (*models.Donation, error) {
	donor, err := s.Get(ctx, donorCode)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	donationDate := now
	if req.DonationDate != "" {
		donationDate, err = time.ParseInLocation(dateLayout, req.DonationDate, time.UTC)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrInvalidDate, "donationDate must be a valid YYYY-MM-DD date")
		}
	}

	status := models.DonationCompleted
	if req.Status != "" {
		status = models.DonationStatus(req.Status)
		switch status {
		case models.DonationCompleted, models.DonationPending, models.DonationFailed, models.DonationRefunded:
		default:
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown donation status")
		}
	}

	donation := &models.Donation{
		ID:           uuid.NewString(),
		DonationID:   models.NewBusinessID("DON", now),
		DonorRef:     &donor.ID,
		DonorCode:    &donor.DonorID,
		DonorName:    &donor.Name,
		Amount:       req.Amount,
		Currency:     req.Currency,
		Purpose:      req.Purpose,
		DonationDate: donationDate,
		Status:       status,
		CreatedAt:    now,
	}
	if donation.Currency == "" {
		donation.Currency = defaultCurrency
	}

	if err := s.repo.AddDonation(ctx, donation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record donation")
	}
	s.invalidateReports(ctx)
	return donation, nil
}

// Donations returns the donation history for one donor.
func (s *DonorService) Donations(ctx context.Context, donorCode string) ([]models.Donation, error) {
	donor, err := s.Get(ctx, donorCode)
	if err != nil {
		return nil, err
	}
	donations, err := s.repo.ListDonations(ctx, donor.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list donations")
	}
	return donations, nil
}

// FollowUps returns donors due for contact within the configured horizon.
func (s *DonorService) FollowUps(ctx context.Context) ([]models.Donor, error) {
	horizon := s.now().UTC().AddDate(0, 0, s.cfg.FollowUpHorizonDays)
	donors, err := s.repo.ListFollowUps(ctx, horizon)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list follow-ups")
	}
	return donors, nil
}

func (s *DonorService) invalidateReports(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "report:*"); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
	}
}
