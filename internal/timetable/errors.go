package timetable

import (
	"errors"
	"fmt"
	"time"
)

// ParseError reports a malformed schedule cell or time token. It is an
// input-validation failure and never worth retrying.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Input == "" {
		return "timetable: " + e.Reason
	}
	return fmt.Sprintf("timetable: %s: %q", e.Reason, e.Input)
}

// UpstreamDataError reports an absent or malformed field in a source
// record. Callers treat it exactly like a ParseError.
type UpstreamDataError struct {
	Row   int
	Field string
}

func (e *UpstreamDataError) Error() string {
	return fmt.Sprintf("timetable: record %d: missing or invalid %s", e.Row, e.Field)
}

// DateRangeError reports a projected occurrence date outside the range an
// iCalendar DATE value can carry.
type DateRangeError struct {
	Date time.Time
}

func (e *DateRangeError) Error() string {
	return fmt.Sprintf("timetable: date %s outside the representable calendar range", e.Date.Format("2006-01-02"))
}

// IsInputError reports whether err stems from bad input data (as opposed
// to an internal or transport failure), so HTTP handlers can map it to a
// client error.
func IsInputError(err error) bool {
	var pe *ParseError
	var ue *UpstreamDataError
	var de *DateRangeError
	return errors.As(err, &pe) || errors.As(err, &ue) || errors.As(err, &de)
}
