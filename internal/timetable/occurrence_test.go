package timetable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstOnOrAfterSameWeekday(t *testing.T) {
	// 2024-01-14 is a Sunday.
	start := time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)

	got, err := FirstOnOrAfter(start, 0)
	require.NoError(t, err)
	assert.True(t, got.Equal(start), "offset must be zero when start matches the target weekday")
}

func TestFirstOnOrAfterWithinSixDays(t *testing.T) {
	start := time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC) // Sunday

	for day := 0; day < 7; day++ {
		got, err := FirstOnOrAfter(start, day)
		require.NoError(t, err)

		offset := int(got.Sub(start).Hours() / 24)
		assert.GreaterOrEqual(t, offset, 0, "day %d", day)
		assert.LessOrEqual(t, offset, 6, "day %d", day)
		assert.Equal(t, day, int(got.Weekday()), "day %d", day)
	}
}

func TestFirstOnOrAfterMidweekStart(t *testing.T) {
	start := time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC) // Wednesday

	got, err := FirstOnOrAfter(start, 1) // next Monday
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC), got)
}

func TestFirstOnOrAfterRejectsBadWeekday(t *testing.T) {
	start := time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)

	_, err := FirstOnOrAfter(start, 7)
	assert.Error(t, err)
	_, err = FirstOnOrAfter(start, -1)
	assert.Error(t, err)
}

func TestFirstOnOrAfterDateRangeOverflow(t *testing.T) {
	// The last representable ICS date is 9999-12-31 (a Friday). Asking
	// for the following Saturday crosses into year 10000.
	start := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

	_, err := FirstOnOrAfter(start, 6)
	var de *DateRangeError
	assert.ErrorAs(t, err, &de)

	// The Friday itself is still fine.
	got, err := FirstOnOrAfter(start, 5)
	require.NoError(t, err)
	assert.True(t, got.Equal(start))
}
