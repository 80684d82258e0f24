package dto

// CreateEventRequest carries a new calendar entry.
type CreateEventRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	EventDate   string `json:"eventDate" binding:"required"`
	EventType   string `json:"eventType"`
}

// UpdateEventRequest carries a partial calendar entry update.
type UpdateEventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	EventDate   *string `json:"eventDate"`
	EventType   *string `json:"eventType"`
}
