package models

import "time"

// CalendarEvent represents a shared calendar entry.
type CalendarEvent struct {
	ID          string    `db:"id" json:"-"`
	EventID     string    `db:"event_id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description,omitempty"`
	EventDate   time.Time `db:"event_date" json:"eventDate"`
	EventType   string    `db:"event_type" json:"eventType,omitempty"`
	CreatedBy   string    `db:"created_by" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// CalendarFilter captures filtering criteria for listing events.
type CalendarFilter struct {
	Window    TimeWindow
	EventType string
	Page      int
	Limit     int
}

// UpcomingBirthday is a student birthday falling inside the lookahead window.
type UpcomingBirthday struct {
	StudentCode string     `db:"student_id" json:"studentId"`
	FullName    string     `db:"full_name" json:"name"`
	Class       string     `db:"class" json:"class"`
	DOB         *time.Time `db:"dob" json:"dob"`
}
