package timetable

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/cespare/xxhash/v2"

	"ewucal/internal/model"
)

// TZID is the fixed calendar timezone. Bangladesh keeps a single standard
// offset year-round, so no daylight transition is modeled.
const TZID = "Asia/Dhaka"

const (
	tzOffset = "+0600"
	tzEpoch  = "19700101T000000"
)

// icalDayCodes maps week indices (0 = Sunday) to iCalendar BYDAY tokens.
var icalDayCodes = [7]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// EventUID derives the stable identity of one (course, room, weekday)
// group, rendered as lowercase hex. Section, lecturer and time bounds are
// deliberately excluded so that a correction to any of them replaces the
// event in subscribed clients instead of duplicating it. Recompiling the
// same input always yields the same UID.
func EventUID(code, room string, day int) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(fmt.Sprintf("%s%s%d", code, room, day)))
}

// BuildTimetable compiles aggregated courses into a serialized iCalendar
// document: one fixed-offset VTIMEZONE plus one weekly recurring VEVENT
// per course period, each recurrence terminating at the semester end
// date. name becomes the calendar display name.
func BuildTimetable(courses []model.Course, name string, startDate, endDate time.Time) (string, error) {
	cal := ics.NewCalendar()
	cal.SetVersion("2.0")
	cal.SetProductId(fmt.Sprintf("-//East West University//%s//EN", name))
	addStandardTimezone(cal)
	cal.SetName(name)
	cal.SetXWRCalName(name)
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ics.MethodPublish)

	until := endDate.Format("20060102")

	for _, course := range courses {
		for _, period := range course.Periods {
			first, err := FirstOnOrAfter(startDate, period.Day)
			if err != nil {
				return "", err
			}

			ev := cal.AddEvent(EventUID(course.Code, period.Room, period.Day))
			ev.SetDtStampTime(time.Now().UTC())
			ev.SetSummary(fmt.Sprintf("%s (%d)", course.Code, course.Section))
			ev.SetLocation(period.Room)
			ev.SetDescription(fmt.Sprintf("Lecturer: %s", course.Lecturer))

			tzid := &ics.KeyValues{Key: "TZID", Value: []string{TZID}}
			ev.SetProperty(ics.ComponentPropertyDtStart, formatLocal(first, period.Start), tzid)
			ev.SetProperty(ics.ComponentPropertyDtEnd, formatLocal(first, period.End), tzid)
			ev.AddRrule(fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s;UNTIL=%s", icalDayCodes[period.Day], until))
		}
	}

	return cal.Serialize(), nil
}

// addStandardTimezone attaches the single-offset VTIMEZONE definition.
func addStandardTimezone(cal *ics.Calendar) {
	standard := &ics.Standard{}
	standard.SetProperty(ics.ComponentProperty(ics.PropertyDtstart), tzEpoch)
	standard.SetProperty(ics.ComponentProperty(ics.PropertyTzoffsetfrom), tzOffset)
	standard.SetProperty(ics.ComponentProperty(ics.PropertyTzoffsetto), tzOffset)

	tz := &ics.VTimezone{}
	tz.SetProperty(ics.ComponentProperty(ics.PropertyTzid), TZID)
	tz.Components = append(tz.Components, standard)

	cal.Components = append(cal.Components, tz)
}

// formatLocal renders date + wall-clock time in the local DATE-TIME form
// that the TZID parameter qualifies.
func formatLocal(date time.Time, t model.TimeOfDay) string {
	return fmt.Sprintf("%04d%02d%02dT%02d%02d00", date.Year(), int(date.Month()), date.Day(), t.Hour, t.Minute)
}
