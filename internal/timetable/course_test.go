package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ewucal/internal/model"
)

func session(code string, section int, cell, room string) model.RawSession {
	return model.RawSession{
		DropStatus:     "No",
		WithdrawStatus: "No",
		TimeSlotName:   cell,
		RoomName:       room,
		CourseCode:     code,
		Section:        section,
		FacultyName:    "Dr. X",
	}
}

func TestAggregateCoursesMergesSameCodeAndSection(t *testing.T) {
	records := []model.RawSession{
		session("CSE101", 1, "MW 9:25AM-10:40AM", "Room 301"),
		session("MAT102", 2, "S 11:50AM-1:05PM", "Room 104"),
		session("CSE101", 1, "R 2:30PM-4:30PM", "Lab 2"),
	}

	courses, err := AggregateCourses(records)
	require.NoError(t, err)
	require.Len(t, courses, 2)

	// First-seen order, merged periods appended after the originals.
	assert.Equal(t, "CSE101", courses[0].Code)
	require.Len(t, courses[0].Periods, 3)
	assert.Equal(t, 1, courses[0].Periods[0].Day)
	assert.Equal(t, 3, courses[0].Periods[1].Day)
	assert.Equal(t, 4, courses[0].Periods[2].Day)
	assert.Equal(t, "Lab 2", courses[0].Periods[2].Room)

	assert.Equal(t, "MAT102", courses[1].Code)
	require.Len(t, courses[1].Periods, 1)
}

func TestAggregateCoursesKeepsSectionsSeparate(t *testing.T) {
	records := []model.RawSession{
		session("CSE101", 1, "M 9:25AM-10:40AM", "Room 301"),
		session("CSE101", 2, "W 9:25AM-10:40AM", "Room 301"),
	}

	courses, err := AggregateCourses(records)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, 1, courses[0].Section)
	assert.Equal(t, 2, courses[1].Section)
}

func TestAggregateCoursesSkipsDroppedAndWithdrawn(t *testing.T) {
	dropped := session("CSE101", 1, "MW 9:25AM-10:40AM", "Room 301")
	dropped.DropStatus = "YES"
	withdrawn := session("MAT102", 1, "totally garbage cell", "Room 104")
	withdrawn.WithdrawStatus = "yes"

	courses, err := AggregateCourses([]model.RawSession{dropped, withdrawn})
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestAggregateCoursesMissingFields(t *testing.T) {
	noCode := session("", 1, "MW 9:25AM-10:40AM", "Room 301")
	_, err := AggregateCourses([]model.RawSession{noCode})
	var ue *UpstreamDataError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "CourseCode", ue.Field)

	noCell := session("CSE101", 1, "", "Room 301")
	_, err = AggregateCourses([]model.RawSession{noCell})
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "TimeSlotName", ue.Field)
}

func TestAggregateCoursesPropagatesParseErrors(t *testing.T) {
	badCell := session("CSE101", 1, "MW 9:25AM", "Room 301")
	_, err := AggregateCourses([]model.RawSession{badCell})
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}
