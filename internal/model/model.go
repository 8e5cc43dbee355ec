package model

import "time"

// TimeOfDay is a wall-clock time in 24-hour form. It carries no date and
// no timezone; the compiler attaches both when events are built.
type TimeOfDay struct {
	Hour   int // 0-23
	Minute int // 0-59
}

// Period is one weekly occurrence slot of a course: a weekday, a time
// range within that day, and a room. Day is an index from 0 to 6 where
// 0 is Sunday and 6 is Saturday (the portal week starts on Sunday).
type Period struct {
	Day   int
	Start TimeOfDay
	End   TimeOfDay
	Room  string
}

// RawSession is one row of the portal's advising course list (or of a CSV
// export with the same columns). Field names follow the portal JSON.
type RawSession struct {
	DropStatus     string `json:"DropStatus" csv:"DropStatus"`
	WithdrawStatus string `json:"WithDrawStatus" csv:"WithDrawStatus"`
	TimeSlotName   string `json:"TimeSlotName" csv:"TimeSlotName"`
	RoomName       string `json:"RoomName" csv:"RoomName"`
	CourseCode     string `json:"CourseCode" csv:"CourseCode"`
	Section        int    `json:"SectionName" csv:"SectionName"`
	FacultyName    string `json:"FacultyName" csv:"FacultyName"`
}

// Course is the aggregated form of one (code, section) pair with every
// period collected from its session rows, in first-seen order.
type Course struct {
	Code     string
	Section  int
	Lecturer string
	Periods  []Period
}

// Semester describes one academic term as listed by the portal. The
// portal only supplies start/end dates at day granularity.
type Semester struct {
	ID        int
	Name      string
	StartDate time.Time
	EndDate   time.Time
}
