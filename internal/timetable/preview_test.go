package timetable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dhaka(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Dhaka")
	require.NoError(t, err)
	return loc
}

func TestPreviewOccurrencesFirstWeek(t *testing.T) {
	loc := dhaka(t)
	courses := exampleCourses(t)

	start := time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC) // Sunday
	end := start.AddDate(0, 0, 28)

	doc, err := BuildTimetable(courses, "Spring 2024", start, end)
	require.NoError(t, err)

	occurrences, err := PreviewOccurrences(doc, PreviewConfig{
		Location:   loc,
		RangeStart: time.Date(2024, 1, 14, 0, 0, 0, 0, loc),
		RangeEnd:   time.Date(2024, 1, 20, 23, 59, 59, 0, loc),
	})
	require.NoError(t, err)
	require.Len(t, occurrences, 2)

	mon := occurrences[0]
	assert.Equal(t, "CSE101 (1)", mon.Summary)
	assert.Equal(t, "Room 301", mon.Room)
	assert.Equal(t, time.Date(2024, 1, 15, 9, 25, 0, 0, loc).Unix(), mon.Start.Unix())
	assert.Equal(t, time.Date(2024, 1, 15, 10, 40, 0, 0, loc).Unix(), mon.End.Unix())

	wed := occurrences[1]
	assert.Equal(t, time.Date(2024, 1, 17, 9, 25, 0, 0, loc).Unix(), wed.Start.Unix())
}

func TestPreviewOccurrencesRepeatsWeekly(t *testing.T) {
	loc := dhaka(t)
	courses := exampleCourses(t)

	start := time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 28)

	doc, err := BuildTimetable(courses, "Spring 2024", start, end)
	require.NoError(t, err)

	// Two full weeks: two Mondays and two Wednesdays, sorted by start.
	occurrences, err := PreviewOccurrences(doc, PreviewConfig{
		Location:   loc,
		RangeStart: time.Date(2024, 1, 14, 0, 0, 0, 0, loc),
		RangeEnd:   time.Date(2024, 1, 27, 23, 59, 59, 0, loc),
	})
	require.NoError(t, err)
	require.Len(t, occurrences, 4)

	for i := 1; i < len(occurrences); i++ {
		assert.False(t, occurrences[i].Start.Before(occurrences[i-1].Start))
	}
}

func TestPreviewOccurrencesRejectsInvertedRange(t *testing.T) {
	_, err := PreviewOccurrences("", PreviewConfig{
		RangeStart: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		RangeEnd:   time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
	})
	assert.Error(t, err)
}

func TestPreviewOccurrencesRejectsGarbage(t *testing.T) {
	_, err := PreviewOccurrences("not a calendar", PreviewConfig{
		RangeStart: time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
		RangeEnd:   time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
	})
	assert.Error(t, err)
}
