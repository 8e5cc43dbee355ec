package timetable

import (
	"strings"

	"ewucal/internal/model"
)

// AggregateCourses folds raw session rows into courses keyed by
// (code, section), preserving first-seen order. Rows flagged as dropped
// or withdrawn contribute nothing; a later row for a known (code,
// section) pair appends its periods to the existing course.
func AggregateCourses(records []model.RawSession) ([]model.Course, error) {
	courses := make([]model.Course, 0, len(records))

	for i, rec := range records {
		if strings.EqualFold(rec.DropStatus, "yes") || strings.EqualFold(rec.WithdrawStatus, "yes") {
			continue
		}
		if rec.CourseCode == "" {
			return nil, &UpstreamDataError{Row: i, Field: "CourseCode"}
		}
		if rec.TimeSlotName == "" {
			return nil, &UpstreamDataError{Row: i, Field: "TimeSlotName"}
		}

		periods, err := ParsePeriods(rec.TimeSlotName, rec.RoomName)
		if err != nil {
			return nil, err
		}

		merged := false
		for j := range courses {
			if courses[j].Code == rec.CourseCode && courses[j].Section == rec.Section {
				courses[j].Periods = append(courses[j].Periods, periods...)
				merged = true
				break
			}
		}
		if !merged {
			courses = append(courses, model.Course{
				Code:     rec.CourseCode,
				Section:  rec.Section,
				Lecturer: rec.FacultyName,
				Periods:  periods,
			})
		}
	}

	return courses, nil
}
