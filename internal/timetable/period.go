package timetable

import (
	"fmt"
	"strings"

	"ewucal/internal/model"
)

// weekdayLetters maps the portal's single-letter day codes to week
// indices, 0 = Sunday. Note R is Thursday and A is Saturday.
var weekdayLetters = map[byte]int{
	'S': 0,
	'M': 1,
	'T': 2,
	'W': 3,
	'R': 4,
	'F': 5,
	'A': 6,
}

var weekdayNames = [7]string{
	"Sunday",
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
}

// WeekdayName returns the display name for a week index 0-6.
func WeekdayName(day int) (string, error) {
	if day < 0 || day > 6 {
		return "", &ParseError{Reason: fmt.Sprintf("weekday index %d outside 0-6", day)}
	}
	return weekdayNames[day], nil
}

// ParsePeriods parses one schedule cell such as "MW 9:25AM-10:40AM" into
// one Period per day letter, left to right. Repeated letters are not
// deduplicated: "MM ..." yields two identical periods. The portal has not
// been observed to emit repeats, so the duplicates are left to the caller.
func ParsePeriods(cell, room string) ([]model.Period, error) {
	fields := strings.Split(cell, " ")
	if len(fields) < 2 {
		return nil, &ParseError{Input: cell, Reason: "schedule cell needs day letters and a time range"}
	}
	letters, timeRange := fields[0], fields[1]
	if letters == "" {
		return nil, &ParseError{Input: cell, Reason: "schedule cell has no day letters"}
	}

	bounds := strings.SplitN(timeRange, "-", 2)
	if len(bounds) != 2 {
		return nil, &ParseError{Input: cell, Reason: "time range needs start-end"}
	}
	start, err := ParseTimeOfDay(bounds[0])
	if err != nil {
		return nil, err
	}
	end, err := ParseTimeOfDay(bounds[1])
	if err != nil {
		return nil, err
	}

	periods := make([]model.Period, 0, len(letters))
	for i := 0; i < len(letters); i++ {
		day, ok := weekdayLetters[letters[i]]
		if !ok {
			return nil, &ParseError{Input: cell, Reason: fmt.Sprintf("unknown day letter %q", string(letters[i]))}
		}
		periods = append(periods, model.Period{
			Day:   day,
			Start: start,
			End:   end,
			Room:  room,
		})
	}

	return periods, nil
}
