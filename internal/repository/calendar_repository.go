package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/institute-hq/institute-api/internal/models"
)

// CalendarRepository manages persistence for shared calendar entries.
type CalendarRepository struct {
	db *sqlx.DB
}

// NewCalendarRepository constructs a CalendarRepository.
func NewCalendarRepository(db *sqlx.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

const eventColumns = `id, event_id, title, COALESCE(description, '') AS description, event_date,
        COALESCE(event_type, '') AS event_type, created_by, created_at, updated_at`

// List returns calendar entries inside the window, oldest first.
func (r *CalendarRepository) List(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarEvent, int, error) {
	base := "FROM calendar_events WHERE 1=1"
	var args []interface{}

	if cond := windowClause("event_date", filter.Window, &args); cond != "" {
		base += " AND " + cond
	}
	if filter.EventType != "" {
		args = append(args, filter.EventType)
		base += fmt.Sprintf(" AND event_type = $%d", len(args))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	page := models.Paginate(filter.Page, filter.Limit)
	query := fmt.Sprintf("SELECT %s %s ORDER BY event_date LIMIT %d OFFSET %d",
		eventColumns, base, page.Limit, page.Offset)

	var events []models.CalendarEvent
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

// GetByCode fetches an event by business identifier.
func (r *CalendarRepository) GetByCode(ctx context.Context, code string) (*models.CalendarEvent, error) {
	var event models.CalendarEvent
	query := fmt.Sprintf("SELECT %s FROM calendar_events WHERE event_id = $1", eventColumns)
	if err := r.db.GetContext(ctx, &event, query, code); err != nil {
		return nil, err
	}
	return &event, nil
}

// Create inserts a new calendar entry.
func (r *CalendarRepository) Create(ctx context.Context, e *models.CalendarEvent) error {
	query := `INSERT INTO calendar_events (id, event_id, title, description, event_date, event_type, created_by, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`
	if _, err := r.db.ExecContext(ctx, query,
		e.ID, e.EventID, e.Title, e.Description, e.EventDate, e.EventType, e.CreatedBy, e.CreatedAt); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// Update persists the mutable fields of a calendar entry.
func (r *CalendarRepository) Update(ctx context.Context, e *models.CalendarEvent) error {
	query := `UPDATE calendar_events SET title = $1, description = $2, event_date = $3, event_type = $4, updated_at = $5
        WHERE event_id = $6`
	result, err := r.db.ExecContext(ctx, query,
		e.Title, e.Description, e.EventDate, e.EventType, e.UpdatedAt, e.EventID)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sqlNoRows()
	}
	return nil
}

// Delete removes a calendar entry by business identifier.
func (r *CalendarRepository) Delete(ctx context.Context, code string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM calendar_events WHERE event_id = $1", code)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sqlNoRows()
	}
	return nil
}

// ListUpcoming returns events between now and now+days, soonest first.
func (r *CalendarRepository) ListUpcoming(ctx context.Context, now time.Time, days int) ([]models.CalendarEvent, error) {
	query := fmt.Sprintf("SELECT %s FROM calendar_events WHERE event_date BETWEEN $1 AND $2 ORDER BY event_date", eventColumns)
	var events []models.CalendarEvent
	if err := r.db.SelectContext(ctx, &events, query, now, now.AddDate(0, 0, days)); err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	return events, nil
}

// ListUpcomingBirthdays returns active students whose birthday month-day
// falls within the lookahead window, handling the year-end wrap.
func (r *CalendarRepository) ListUpcomingBirthdays(ctx context.Context, now time.Time, days int) ([]models.UpcomingBirthday, error) {
	from := now.Format("01-02")
	to := now.AddDate(0, 0, days).Format("01-02")

	query := `SELECT student_id, full_name, class, dob FROM students
        WHERE status = 'active' AND dob IS NOT NULL
        AND to_char(dob, 'MM-DD') BETWEEN $1 AND $2
        ORDER BY to_char(dob, 'MM-DD')`
	if to < from {
		query = `SELECT student_id, full_name, class, dob FROM students
        WHERE status = 'active' AND dob IS NOT NULL
        AND (to_char(dob, 'MM-DD') >= $1 OR to_char(dob, 'MM-DD') <= $2)
        ORDER BY to_char(dob, 'MM-DD')`
	}

	var birthdays []models.UpcomingBirthday
	if err := r.db.SelectContext(ctx, &birthdays, query, from, to); err != nil {
		return nil, fmt.Errorf("list upcoming birthdays: %w", err)
	}
	return birthdays, nil
}
