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

type calendarRepository interface {
	List(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarEvent, int, error)
	GetByCode(ctx context.Context, code string) (*models.CalendarEvent, error)
	Create(ctx context.Context, e *models.CalendarEvent) error
	Update(ctx context.Context, e *models.CalendarEvent) error
	Delete(ctx context.Context, code string) error
	ListUpcoming(ctx context.Context, now time.Time, days int) ([]models.CalendarEvent, error)
	ListUpcomingBirthdays(ctx context.Context, now time.Time, days int) ([]models.UpcomingBirthday, error)
}

// CalendarServiceConfig tunes the lookahead windows.
type CalendarServiceConfig struct {
	UpcomingEventDays  int
	BirthdayWindowDays int
}

// CalendarService provides shared calendar use cases.
type CalendarService struct {
	repo   calendarRepository
	cache  *CacheService
	logger *zap.Logger
	now    func() time.Time
	cfg    CalendarServiceConfig
}

// NewCalendarService constructs a CalendarService.
func NewCalendarService(repo calendarRepository, cache *CacheService, logger *zap.Logger, cfg CalendarServiceConfig) *CalendarService {
	if cfg.UpcomingEventDays <= 0 {
		cfg.UpcomingEventDays = 7
	}
	if cfg.BirthdayWindowDays <= 0 {
		cfg.BirthdayWindowDays = 30
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{repo: repo, cache: cache, logger: logger, now: time.Now, cfg: cfg}
}

// List returns calendar entries matching the filter.
func (s *CalendarService) List(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarEvent, *models.Pagination, error) {
	events, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	page := models.Paginate(filter.Page, filter.Limit)
	pagination := models.NewPagination(total, page.Page, page.Limit)
	return events, pagination, nil
}

// Get fetches an event by business identifier.
func (s *CalendarService) Get(ctx context.Context, code string) (*models.CalendarEvent, error) {
	event, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	return event, nil
}

// Create registers a new calendar entry.
func (s *CalendarService) Create(ctx context.Context, createdBy string, req dto.CreateEventRequest) (*models.CalendarEvent, error) {
	eventDate, err := time.ParseInLocation(dateLayout, req.EventDate, time.UTC)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidDate, "eventDate must be a valid YYYY-MM-DD date")
	}

	now := s.now().UTC()
	event := &models.CalendarEvent{
		ID:          uuid.NewString(),
		EventID:     models.NewBusinessID("EVT", now),
		Title:       req.Title,
		Description: req.Description,
		EventDate:   eventDate,
		EventType:   req.EventType,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}
	s.invalidateReports(ctx)
	return event, nil
}

// Update applies a partial update to an existing calendar entry.
func (s *CalendarService) Update(ctx context.Context, code string, req dto.UpdateEventRequest) (*models.CalendarEvent, error) {
	event, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.EventType != nil {
		event.EventType = *req.EventType
	}
	if req.EventDate != nil {
		eventDate, err := time.ParseInLocation(dateLayout, *req.EventDate, time.UTC)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrInvalidDate, "eventDate must be a valid YYYY-MM-DD date")
		}
		event.EventDate = eventDate
	}
	event.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, event); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event")
	}
	s.invalidateReports(ctx)
	return event, nil
}

// Delete removes a calendar entry.
func (s *CalendarService) Delete(ctx context.Context, code string) error {
	if err := s.repo.Delete(ctx, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete event")
	}
	s.invalidateReports(ctx)
	return nil
}

// Upcoming returns events inside the configured lookahead window.
func (s *CalendarService) Upcoming(ctx context.Context) ([]models.CalendarEvent, error) {
	events, err := s.repo.ListUpcoming(ctx, s.now().UTC(), s.cfg.UpcomingEventDays)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list upcoming events")
	}
	return events, nil
}

// UpcomingBirthdays returns student birthdays inside the lookahead window.
func (s *CalendarService) UpcomingBirthdays(ctx context.Context) ([]models.UpcomingBirthday, error) {
	birthdays, err := s.repo.ListUpcomingBirthdays(ctx, s.now().UTC(), s.cfg.BirthdayWindowDays)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list upcoming birthdays")
	}
	return birthdays, nil
}

func (s *CalendarService) invalidateReports(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "report:*"); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
	}
}
