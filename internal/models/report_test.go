package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeWindowContains(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)

	w := TimeWindow{Start: &start, End: &end}
	assert.True(t, w.Contains(start))
	assert.True(t, w.Contains(end))
	assert.False(t, w.Contains(start.AddDate(0, 0, -1)))
	assert.False(t, w.Contains(end.AddDate(0, 0, 1)))

	open := TimeWindow{Start: &start}
	assert.True(t, open.Contains(end.AddDate(1, 0, 0)))
	assert.False(t, open.Contains(start.Add(-time.Nanosecond)))

	var unbounded TimeWindow
	assert.True(t, unbounded.Unbounded())
	assert.True(t, unbounded.Contains(time.Time{}))
}

func TestTimeWindowInvertedMatchesNothing(t *testing.T) {
	start := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)

	w := TimeWindow{Start: &start, End: &end}
	assert.False(t, w.Contains(time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(start))
	assert.False(t, w.Contains(end))
}

func TestGradeRowPercent(t *testing.T) {
	assert.Equal(t, 90.0, GradeRow{Score: 45, MaxScore: 50}.Percent())
	assert.Equal(t, 80.0, GradeRow{Score: 80, MaxScore: 100}.Percent())
	assert.Equal(t, 0.0, GradeRow{Score: 80, MaxScore: 0}.Percent())
}
