// Package csvio loads raw session rows from CSV exports carrying the
// portal's column names, for offline compilation and test fixtures.
package csvio

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"ewucal/internal/model"
)

// LoadSessions reads and parses the given CSV file for session rows.
// Columns match the portal JSON field names (DropStatus, WithDrawStatus,
// TimeSlotName, RoomName, CourseCode, SectionName, FacultyName).
func LoadSessions(path string) ([]model.RawSession, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadSessions(f)
}

// ReadSessions parses session rows from r.
func ReadSessions(r io.Reader) ([]model.RawSession, error) {
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		cr := csv.NewReader(in)
		cr.TrimLeadingSpace = true
		return cr
	})

	rows := []*model.RawSession{}
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, err
	}

	out := make([]model.RawSession, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	return out, nil
}
