package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/institute-hq/institute-api/internal/dto"
	appErrors "github.com/institute-hq/institute-api/pkg/errors"
)

var windowNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func TestResolveWindowExplicitRange(t *testing.T) {
	window, err := ResolveWindow(dto.ReportWindowQuery{StartDate: "2024-01-01", EndDate: "2024-01-31"}, windowNow)
	require.NoError(t, err)
	require.NotNil(t, window.Start)
	require.NotNil(t, window.End)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), *window.Start)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond), *window.End)
}

func TestResolveWindowExplicitBeatsMonth(t *testing.T) {
	window, err := ResolveWindow(dto.ReportWindowQuery{StartDate: "2024-03-01", EndDate: "2024-03-10", Month: "7", Year: "2020"}, windowNow)
	require.NoError(t, err)
	require.NotNil(t, window.Start)
	assert.Equal(t, time.March, window.Start.Month())
	assert.Equal(t, 2024, window.Start.Year())
}

func TestResolveWindowOpenBounds(t *testing.T) {
	window, err := ResolveWindow(dto.ReportWindowQuery{StartDate: "2024-01-01"}, windowNow)
	require.NoError(t, err)
	require.NotNil(t, window.Start)
	assert.Nil(t, window.End)

	window, err = ResolveWindow(dto.ReportWindowQuery{EndDate: "2024-01-31"}, windowNow)
	require.NoError(t, err)
	assert.Nil(t, window.Start)
	require.NotNil(t, window.End)
}

func TestResolveWindowMonthAndYear(t *testing.T) {
	window, err := ResolveWindow(dto.ReportWindowQuery{Month: "2", Year: "2024"}, windowNow)
	require.NoError(t, err)
	require.NotNil(t, window.Start)
	require.NotNil(t, window.End)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), *window.Start)
	// leap year, so the window runs through Feb 29
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond), *window.End)
}

func TestResolveWindowMonthDefaultsToCurrentYear(t *testing.T) {
	window, err := ResolveWindow(dto.ReportWindowQuery{Month: "12"}, windowNow)
	require.NoError(t, err)
	require.NotNil(t, window.Start)
	assert.Equal(t, 2024, window.Start.Year())
	assert.Equal(t, time.December, window.Start.Month())
}

func TestResolveWindowYearOnly(t *testing.T) {
	window, err := ResolveWindow(dto.ReportWindowQuery{Year: "2023"}, windowNow)
	require.NoError(t, err)
	require.NotNil(t, window.Start)
	require.NotNil(t, window.End)
	assert.Equal(t, time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC), *window.Start)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond), *window.End)
}

func TestResolveWindowEmpty(t *testing.T) {
	window, err := ResolveWindow(dto.ReportWindowQuery{}, windowNow)
	require.NoError(t, err)
	assert.True(t, window.Unbounded())
}

func TestResolveWindowInvalidInputs(t *testing.T) {
	cases := []dto.ReportWindowQuery{
		{StartDate: "01-01-2024"},
		{EndDate: "2024-13-40"},
		{StartDate: "not-a-date", EndDate: "2024-01-31"},
		{Month: "13"},
		{Month: "0"},
		{Month: "abc"},
		{Month: "6", Year: "twenty"},
		{Year: "twenty24"},
	}
	for _, q := range cases {
		_, err := ResolveWindow(q, windowNow)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrInvalidDate.Code, appErrors.FromError(err).Code)
	}
}

func TestResolveWindowInvertedRangeTolerated(t *testing.T) {
	window, err := ResolveWindow(dto.ReportWindowQuery{StartDate: "2024-05-01", EndDate: "2024-04-01"}, windowNow)
	require.NoError(t, err)
	assert.False(t, window.Contains(time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC)))
}
