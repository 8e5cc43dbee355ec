package timetable

import (
	"errors"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	appLog "ewucal/internal/log"
)

const defaultMaxOccurrencesPerEvent = 500

// SessionOccurrence is one concrete dated instance of a compiled event,
// normalized into the preview location.
type SessionOccurrence struct {
	UID     string
	Summary string
	Room    string
	Start   time.Time
	End     time.Time
}

// PreviewConfig controls occurrence expansion of a compiled document.
type PreviewConfig struct {
	// Location is the timezone occurrences are converted into. Defaults
	// to the calendar's own fixed zone when resolvable, else UTC.
	Location *time.Location

	// RangeStart / RangeEnd bound the inclusive expansion window.
	RangeStart time.Time
	RangeEnd   time.Time

	// MaxPerEvent caps expansion per event as a safety bound.
	MaxPerEvent int
}

// PreviewOccurrences parses a compiled timetable document back into its
// events and expands each weekly rule into the concrete class sessions
// inside the window, sorted by start time. It is a read-only view used by
// the dashboard; the document itself is never modified.
func PreviewOccurrences(doc string, cfg PreviewConfig) ([]SessionOccurrence, error) {
	if cfg.RangeEnd.Before(cfg.RangeStart) {
		return nil, errors.New("preview: range end before range start")
	}
	if cfg.Location == nil {
		if loc, err := time.LoadLocation(TZID); err == nil {
			cfg.Location = loc
		} else {
			cfg.Location = time.UTC
		}
	}
	if cfg.MaxPerEvent <= 0 {
		cfg.MaxPerEvent = defaultMaxOccurrencesPerEvent
	}

	cal, err := ics.ParseCalendar(strings.NewReader(doc))
	if err != nil {
		return nil, err
	}

	out := make([]SessionOccurrence, 0)

	for _, ve := range cal.Events() {
		uid := ""
		if p := ve.GetProperty(ics.ComponentPropertyUniqueId); p != nil {
			uid = p.Value
		}
		summary := ""
		if p := ve.GetProperty(ics.ComponentPropertySummary); p != nil {
			summary = p.Value
		}
		room := ""
		if p := ve.GetProperty(ics.ComponentPropertyLocation); p != nil {
			room = p.Value
		}

		start, err := ve.GetStartAt()
		if err != nil {
			appLog.Warn("preview: event has no usable DTSTART", "uid", uid)
			continue
		}
		end, err := ve.GetEndAt()
		if err != nil {
			end = start
		}
		duration := end.Sub(start)

		rruleProp := ve.GetProperty(ics.ComponentPropertyRrule)
		if rruleProp == nil || rruleProp.Value == "" {
			if !start.Before(cfg.RangeStart) && !start.After(cfg.RangeEnd) {
				out = append(out, makeSession(uid, summary, room, start, duration, cfg.Location))
			}
			continue
		}

		r, err := rrule.StrToRRule(rruleProp.Value)
		if err != nil {
			appLog.Error("preview: failed to parse RRULE", err, "uid", uid, "rrule", rruleProp.Value)
			continue
		}
		r.DTStart(start)

		var set rrule.Set
		set.RRule(r)

		times := set.Between(cfg.RangeStart.In(start.Location()), cfg.RangeEnd.In(start.Location()), true)
		if len(times) > cfg.MaxPerEvent {
			appLog.Warn("preview: truncating occurrences", "uid", uid, "cap", cfg.MaxPerEvent)
			times = times[:cfg.MaxPerEvent]
		}

		for _, occStart := range times {
			out = append(out, makeSession(uid, summary, room, occStart, duration, cfg.Location))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].UID < out[j].UID
	})

	return out, nil
}

func makeSession(uid, summary, room string, start time.Time, d time.Duration, loc *time.Location) SessionOccurrence {
	localStart := start.In(loc)
	return SessionOccurrence{
		UID:     uid,
		Summary: summary,
		Room:    room,
		Start:   localStart,
		End:     localStart.Add(d),
	}
}
