package portal

import (
	"context"
	"time"

	"ewucal/internal/model"
	"ewucal/internal/timetable"
)

// portalDateLayout is the portal's timezone-less timestamp form.
const portalDateLayout = "2006-01-02T15:04:05"

// semesterRow mirrors one GetSemesterForDropDown entry.
type semesterRow struct {
	SemesterID   int    `json:"SemesterId"`
	SemesterName string `json:"SemesterName"`
	StartingDate string `json:"StartingDate"`
	EndingDate   string `json:"EndingDate"`
}

// Semesters fetches the list of academic terms known to the portal.
func (c *Client) Semesters(ctx context.Context) ([]model.Semester, error) {
	var rows []semesterRow
	if err := c.getJSON(ctx, "/api/utility/GetSemesterForDropDown", &rows); err != nil {
		return nil, err
	}

	semesters := make([]model.Semester, 0, len(rows))
	for i, row := range rows {
		if row.SemesterName == "" {
			return nil, &timetable.UpstreamDataError{Row: i, Field: "SemesterName"}
		}
		start, err := time.Parse(portalDateLayout, row.StartingDate)
		if err != nil {
			return nil, &timetable.UpstreamDataError{Row: i, Field: "StartingDate"}
		}
		end, err := time.Parse(portalDateLayout, row.EndingDate)
		if err != nil {
			return nil, &timetable.UpstreamDataError{Row: i, Field: "EndingDate"}
		}
		semesters = append(semesters, model.Semester{
			ID:        row.SemesterID,
			Name:      row.SemesterName,
			StartDate: truncateToDate(start),
			EndDate:   truncateToDate(end),
		})
	}

	return semesters, nil
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
