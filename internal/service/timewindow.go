package service

import (
	"strconv"
	"time"

	"github.com/institute-hq/institute-api/internal/dto"
	"github.com/institute-hq/institute-api/internal/models"
	appErrors "github.com/institute-hq/institute-api/pkg/errors"
)

const dateLayout = "2006-01-02"

// ResolveWindow normalises the raw date-scope query into a TimeWindow.
// An explicit startDate/endDate pair wins over month/year; month without a
// year falls back to the year of now. With no inputs the window is
// unbounded. Malformed dates yield ErrInvalidDate; an inverted range is
// returned as-is and simply matches nothing.
func ResolveWindow(q dto.ReportWindowQuery, now time.Time) (models.TimeWindow, error) {
	if q.StartDate != "" || q.EndDate != "" {
		return resolveExplicit(q.StartDate, q.EndDate)
	}
	if q.Month != "" {
		return resolveMonth(q.Month, q.Year, now)
	}
	if q.Year != "" {
		return resolveYear(q.Year)
	}
	return models.TimeWindow{}, nil
}

func resolveExplicit(startDate, endDate string) (models.TimeWindow, error) {
	var window models.TimeWindow
	if startDate != "" {
		start, err := time.ParseInLocation(dateLayout, startDate, time.UTC)
		if err != nil {
			return window, appErrors.Clone(appErrors.ErrInvalidDate, "startDate must be a valid YYYY-MM-DD date")
		}
		window.Start = &start
	}
	if endDate != "" {
		end, err := time.ParseInLocation(dateLayout, endDate, time.UTC)
		if err != nil {
			return window, appErrors.Clone(appErrors.ErrInvalidDate, "endDate must be a valid YYYY-MM-DD date")
		}
		end = endOfDay(end)
		window.End = &end
	}
	return window, nil
}

func resolveMonth(month, year string, now time.Time) (models.TimeWindow, error) {
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return models.TimeWindow{}, appErrors.Clone(appErrors.ErrInvalidDate, "month must be a number between 1 and 12")
	}
	y := now.UTC().Year()
	if year != "" {
		y, err = strconv.Atoi(year)
		if err != nil {
			return models.TimeWindow{}, appErrors.Clone(appErrors.ErrInvalidDate, "year must be a number")
		}
	}
	start := time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return models.TimeWindow{Start: &start, End: &end}, nil
}

func resolveYear(year string) (models.TimeWindow, error) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return models.TimeWindow{}, appErrors.Clone(appErrors.ErrInvalidDate, "year must be a number")
	}
	start := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0).Add(-time.Nanosecond)
	return models.TimeWindow{Start: &start, End: &end}, nil
}

func endOfDay(day time.Time) time.Time {
	return day.AddDate(0, 0, 1).Add(-time.Nanosecond)
}
