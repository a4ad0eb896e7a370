package report

import (
	"strings"

	"classtrack/internal/attendance"
)

// Status filter values.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

// Filter narrows an enriched record sequence. Every field is optional; an
// unset field matches everything, and set fields AND together.
type Filter struct {
	Date        string // exact YYYY-MM-DD match
	ClassroomID string // exact classroom id match
	Status      string // "present" or "absent", case-insensitive
	Query       string // substring over student name (case-insensitive) or roll no
}

// Apply returns the matching subset in input order. It never mutates its
// input, so it can be re-run with different filters over the same records.
func (f Filter) Apply(records []attendance.EnrichedRecord) []attendance.EnrichedRecord {
	out := []attendance.EnrichedRecord{}
	for _, rec := range records {
		if f.matches(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func (f Filter) matches(rec attendance.EnrichedRecord) bool {
	if f.Date != "" && rec.Date != f.Date {
		return false
	}
	if f.ClassroomID != "" && rec.ClassroomID != f.ClassroomID {
		return false
	}
	if f.Status != "" {
		want := strings.EqualFold(f.Status, StatusPresent)
		if rec.Present != want {
			return false
		}
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		name := strings.ToLower(rec.StudentName)
		if !strings.Contains(name, q) && !strings.Contains(rec.RollNo, f.Query) {
			return false
		}
	}
	return true
}
