package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/institute-hq/institute-api/internal/dto"
	"github.com/institute-hq/institute-api/internal/models"
	"github.com/institute-hq/institute-api/internal/service"
	appErrors "github.com/institute-hq/institute-api/pkg/errors"
	"github.com/institute-hq/institute-api/pkg/response"
)

// CalendarHandler exposes shared calendar endpoints.
type CalendarHandler struct {
	calendar *service.CalendarService
}

// NewCalendarHandler constructs a CalendarHandler.
func NewCalendarHandler(calendar *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendar: calendar}
}

// List godoc
// @Summary List calendar events
// @Tags Calendar
// @Produce json
// @Param startDate query string false "Window start (YYYY-MM-DD)"
// @Param endDate query string false "Window end (YYYY-MM-DD)"
// @Param month query string false "Month (1-12)"
// @Param year query string false "Year"
// @Param eventType query string false "Filter by event type"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope{data=[]models.CalendarEvent}
// @Router /calendar [get]
func (h *CalendarHandler) List(c *gin.Context) {
	window, err := service.ResolveWindow(dto.ReportWindowQuery{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Month:     c.Query("month"),
		Year:      c.Query("year"),
	}, timeNow())
	if err != nil {
		response.Error(c, err)
		return
	}

	var filter models.CalendarFilter
	filter.Window = window
	filter.EventType = c.Query("eventType")
	filter.Page, filter.Limit = pageParams(c)

	events, pagination, err := h.calendar.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, pagination)
}

// Get godoc
// @Summary Get event detail
// @Tags Calendar
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope{data=models.CalendarEvent}
// @Failure 404 {object} response.Envelope
// @Router /calendar/{id} [get]
func (h *CalendarHandler) Get(c *gin.Context) {
	event, err := h.calendar.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Create godoc
// @Summary Create calendar event
// @Tags Calendar
// @Accept json
// @Produce json
// @Param payload body dto.CreateEventRequest true "Event payload"
// @Success 201 {object} response.Envelope{data=models.CalendarEvent}
// @Failure 400 {object} response.Envelope
// @Router /calendar [post]
func (h *CalendarHandler) Create(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	createdBy := ""
	if claims := claimsFromContext(c); claims != nil {
		createdBy = claims.UserID
	}
	event, err := h.calendar.Create(c.Request.Context(), createdBy, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// Update godoc
// @Summary Update calendar event
// @Tags Calendar
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body dto.UpdateEventRequest true "Partial event payload"
// @Success 200 {object} response.Envelope{data=models.CalendarEvent}
// @Failure 404 {object} response.Envelope
// @Router /calendar/{id} [put]
func (h *CalendarHandler) Update(c *gin.Context) {
	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	event, err := h.calendar.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Delete godoc
// @Summary Delete calendar event
// @Tags Calendar
// @Param id path string true "Event ID"
// @Success 204 {object} nil
// @Failure 404 {object} response.Envelope
// @Router /calendar/{id} [delete]
func (h *CalendarHandler) Delete(c *gin.Context) {
	if err := h.calendar.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Upcoming godoc
// @Summary Events inside the lookahead window
// @Tags Calendar
// @Produce json
// @Success 200 {object} response.Envelope{data=[]models.CalendarEvent}
// @Router /calendar/upcoming [get]
func (h *CalendarHandler) Upcoming(c *gin.Context) {
	events, err := h.calendar.Upcoming(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

// Birthdays godoc
// @Summary Student birthdays inside the lookahead window
// @Tags Calendar
// @Produce json
// @Success 200 {object} response.Envelope{data=[]models.UpcomingBirthday}
// @Router /calendar/birthdays [get]
func (h *CalendarHandler) Birthdays(c *gin.Context) {
	birthdays, err := h.calendar.UpcomingBirthdays(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, birthdays, nil)
}
