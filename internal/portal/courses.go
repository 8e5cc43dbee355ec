package portal

import (
	"context"
	"fmt"

	"ewucal/internal/model"
	"ewucal/internal/timetable"
)

// Sessions fetches the raw advising rows for one semester. Each row is
// one course session as the portal reports it, including dropped and
// withdrawn entries.
func (c *Client) Sessions(ctx context.Context, semesterID int) ([]model.RawSession, error) {
	var rows []model.RawSession
	path := fmt.Sprintf("/api/Advising/GetSemesterStudentWiseAdvisingCourseListStudent/%d", semesterID)
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Courses fetches the advising rows for one semester and aggregates them
// into courses.
func (c *Client) Courses(ctx context.Context, semesterID int) ([]model.Course, error) {
	rows, err := c.Sessions(ctx, semesterID)
	if err != nil {
		return nil, err
	}
	return timetable.AggregateCourses(rows)
}
