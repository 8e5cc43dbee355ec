package timetable

import (
	"fmt"
	"time"
)

// An iCalendar DATE carries a four-digit year.
const icsMaxYear = 9999

// FirstOnOrAfter returns the first calendar date on or after start whose
// weekday matches day (0 = Sunday). When start already falls on the
// target weekday the offset is zero and start itself is returned.
func FirstOnOrAfter(start time.Time, day int) (time.Time, error) {
	if day < 0 || day > 6 {
		return time.Time{}, &ParseError{Reason: fmt.Sprintf("weekday index %d outside 0-6", day)}
	}

	offset := (7 + day - int(start.Weekday())) % 7
	first := start.AddDate(0, 0, offset)
	if first.Year() < 1 || first.Year() > icsMaxYear {
		return time.Time{}, &DateRangeError{Date: first}
	}
	return first, nil
}
