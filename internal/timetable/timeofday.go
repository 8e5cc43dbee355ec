package timetable

import (
	"fmt"
	"regexp"
	"strconv"

	"ewucal/internal/model"
)

// timePattern matches the portal's 12-hour clock labels, e.g. "9:25AM".
// The meridiem is case-sensitive; the portal always emits upper case.
var timePattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(AM|PM)$`)

// ParseTimeOfDay parses a 12-hour label of the shape H:MMAM / HH:MMPM
// into a 24-hour TimeOfDay. 12AM maps to hour 0; 12PM stays hour 12.
func ParseTimeOfDay(token string) (model.TimeOfDay, error) {
	m := timePattern.FindStringSubmatch(token)
	if m == nil {
		return model.TimeOfDay{}, &ParseError{Input: token, Reason: "invalid time token"}
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil || hour < 1 || hour > 12 {
		return model.TimeOfDay{}, &ParseError{Input: token, Reason: "hour outside 1-12"}
	}
	minute, err := strconv.Atoi(m[2])
	if err != nil || minute > 59 {
		return model.TimeOfDay{}, &ParseError{Input: token, Reason: "minute outside 0-59"}
	}

	switch m[3] {
	case "AM":
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour != 12 {
			hour += 12
		}
	}

	return model.TimeOfDay{Hour: hour, Minute: minute}, nil
}

// FormatTimeOfDay renders the 12-hour label for a TimeOfDay. Hours 0 and
// 12 both render as "12"; the meridiem disambiguates them.
func FormatTimeOfDay(t model.TimeOfDay) string {
	meridiem := "AM"
	if t.Hour >= 12 {
		meridiem = "PM"
	}
	hour := t.Hour % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%02d:%02d%s", hour, t.Minute, meridiem)
}
