package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ewucal/internal/model"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in     string
		hour   int
		minute int
	}{
		{"12:00AM", 0, 0},
		{"12:00PM", 12, 0},
		{"1:00AM", 1, 0},
		{"1:00PM", 13, 0},
		{"6:30PM", 18, 30},
		{"11:59PM", 23, 59},
		{"09:25AM", 9, 25},
	}

	for _, tc := range cases {
		got, err := ParseTimeOfDay(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, model.TimeOfDay{Hour: tc.hour, Minute: tc.minute}, got, tc.in)
	}
}

func TestParseTimeOfDayRejectsBadTokens(t *testing.T) {
	bad := []string{
		"",
		"9:25",       // missing meridiem
		"9:25am",     // lower-case meridiem
		"925AM",      // no colon
		"13:00PM",    // hour outside 1-12
		"0:30AM",     // hour outside 1-12
		"9:61AM",     // minute outside 0-59
		"9:5AM",      // single-digit minutes
		"x9:25AMx",   // surrounding garbage
		"9:25AM-",    // trailing garbage
		"9:25 AM",    // inner space
		"九:25AM",     // non-ASCII hour
		"9:25AMPM",   // double meridiem
		"123:25AM",   // three-digit hour
	}

	for _, in := range bad {
		_, err := ParseTimeOfDay(in)
		require.Error(t, err, in)
		var pe *ParseError
		assert.ErrorAs(t, err, &pe, in)
	}
}

func TestFormatTimeOfDayRoundTrip(t *testing.T) {
	// Every 24-hour value survives format -> parse. Hours 0 and 12 both
	// canonicalize to a "12" label; the meridiem keeps them apart.
	for hour := 0; hour < 24; hour++ {
		for _, minute := range []int{0, 1, 30, 59} {
			in := model.TimeOfDay{Hour: hour, Minute: minute}
			label := FormatTimeOfDay(in)
			back, err := ParseTimeOfDay(label)
			require.NoError(t, err, label)
			assert.Equal(t, in, back, label)
		}
	}
}

func TestFormatTimeOfDayLabels(t *testing.T) {
	assert.Equal(t, "12:00AM", FormatTimeOfDay(model.TimeOfDay{Hour: 0, Minute: 0}))
	assert.Equal(t, "12:00PM", FormatTimeOfDay(model.TimeOfDay{Hour: 12, Minute: 0}))
	assert.Equal(t, "09:25AM", FormatTimeOfDay(model.TimeOfDay{Hour: 9, Minute: 25}))
	assert.Equal(t, "06:30PM", FormatTimeOfDay(model.TimeOfDay{Hour: 18, Minute: 30}))
	assert.Equal(t, "11:59PM", FormatTimeOfDay(model.TimeOfDay{Hour: 23, Minute: 59}))
}
