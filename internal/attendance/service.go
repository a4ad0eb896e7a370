package attendance

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"classtrack/internal/apperr"
	"classtrack/internal/metrics"
	"classtrack/internal/roster"
)

// DateLayout is the wire and storage form of a session date.
const DateLayout = "2006-01-02"

// Record is one raw per-student-per-date presence row. Records are
// immutable once written; duplicate submissions accumulate.
type Record struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id"`
	ClassroomID string    `json:"classroom_id"`
	Date        string    `json:"date"`
	Present     bool      `json:"present"`
	CreatedAt   time.Time `json:"created_at"`
}

// Entry is one student's presence in a submitted session.
type Entry struct {
	StudentID string `json:"student_id"`
	Present   bool   `json:"present"`
	Date      string `json:"date"`
}

// EnrichedRecord is a record joined with its student's identity, ready for
// reporting.
type EnrichedRecord struct {
	RecordID    string `json:"record_id"`
	Date        string `json:"date"`
	Present     bool   `json:"present"`
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	RollNo      string `json:"roll_no"`
	ClassroomID string `json:"classroom_id"`
}

// Store is the attendance persistence surface.
type Store interface {
	InsertRecords(ctx context.Context, records []Record) (int, error)
	ListRecords(ctx context.Context) ([]Record, error)
}

// Directory supplies the roster side of the aggregation join.
type Directory interface {
	ListAllStudents(ctx context.Context) ([]roster.Student, error)
	ListAllClassrooms(ctx context.Context) ([]roster.Classroom, error)
}

// ClassroomAuthorizer is the ownership guard applied to submissions.
type ClassroomAuthorizer interface {
	CheckClassroomOwner(ctx context.Context, teacherID, classroomID string) (*roster.Classroom, error)
}

// ReportCache caches aggregated reports per teacher.
type ReportCache interface {
	Get(ctx context.Context, teacherID string, dst any) bool
	Set(ctx context.Context, teacherID string, report any)
	Invalidate(ctx context.Context, teacherID string)
}

// EventPublisher pushes domain events onto the work queue.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// Service records submissions and aggregates report rows.
type Service struct {
	store  Store
	dir    Directory
	guard  ClassroomAuthorizer
	cache  ReportCache
	events EventPublisher
}

// NewService creates a service. cache and events may be nil.
func NewService(store Store, dir Directory, guard ClassroomAuthorizer, cache ReportCache, events EventPublisher) *Service {
	return &Service{store: store, dir: dir, guard: guard, cache: cache, events: events}
}

// Submit bulk-inserts one session's records for a classroom. The ownership
// guard runs before the insert; there is no dedup key, so resubmitting the
// same session duplicates rows.
func (s *Service) Submit(ctx context.Context, teacherID, classroomID string, entries []Entry) (int, error) {
	if classroomID == "" || len(entries) == 0 {
		return 0, apperr.New(apperr.InvalidInput, "classroom id and records are required")
	}
	for _, e := range entries {
		if e.StudentID == "" {
			return 0, apperr.New(apperr.InvalidInput, "every record needs a student id")
		}
		if _, err := time.Parse(DateLayout, e.Date); err != nil {
			return 0, apperr.Newf(apperr.InvalidInput, "bad date %q, want YYYY-MM-DD", e.Date)
		}
	}
	if teacherID == "" {
		return 0, apperr.New(apperr.Unauthorized, "authentication required")
	}
	if _, err := s.guard.CheckClassroomOwner(ctx, teacherID, classroomID); err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		records = append(records, Record{
			ID:          uuid.NewString(),
			StudentID:   e.StudentID,
			ClassroomID: classroomID,
			Date:        e.Date,
			Present:     e.Present,
			CreatedAt:   now,
		})
	}

	inserted, err := s.store.InsertRecords(ctx, records)
	if err != nil {
		return inserted, apperr.Wrap("attendance insert failed", err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, teacherID)
	}
	if s.events != nil {
		_ = s.events.Publish(ctx, "attendance.submitted", map[string]string{
			"teacher_id":   teacherID,
			"classroom_id": classroomID,
		})
	}
	return inserted, nil
}

// ListForTeacher joins attendance records with student and classroom
// identity and returns the caller's report rows sorted by roll number.
//
// The join is deliberately an inner join over exact string identifiers:
// a record whose student or classroom no longer resolves is dropped, and
// the classroom owner filter is the sole authorization boundary of the
// read path.
func (s *Service) ListForTeacher(ctx context.Context, teacherID string) ([]EnrichedRecord, error) {
	if teacherID == "" {
		return nil, apperr.New(apperr.Unauthorized, "authentication required")
	}

	if s.cache != nil {
		var cached []EnrichedRecord
		if s.cache.Get(ctx, teacherID, &cached) {
			metrics.ReportCacheHits.Inc()
			return cached, nil
		}
	}

	records, err := s.store.ListRecords(ctx)
	if err != nil {
		return nil, apperr.Wrap("attendance list failed", err)
	}
	students, err := s.dir.ListAllStudents(ctx)
	if err != nil {
		return nil, apperr.Wrap("student list failed", err)
	}
	classrooms, err := s.dir.ListAllClassrooms(ctx)
	if err != nil {
		return nil, apperr.Wrap("classroom list failed", err)
	}

	studentByID := make(map[string]roster.Student, len(students))
	for _, st := range students {
		studentByID[st.ID] = st
	}
	classroomByID := make(map[string]roster.Classroom, len(classrooms))
	for _, c := range classrooms {
		classroomByID[c.ID] = c
	}

	out := []EnrichedRecord{}
	for _, rec := range records {
		st, ok := studentByID[rec.StudentID]
		if !ok {
			continue
		}
		c, ok := classroomByID[rec.ClassroomID]
		if !ok {
			continue
		}
		if c.OwnerID != teacherID {
			continue
		}
		out = append(out, EnrichedRecord{
			RecordID:    rec.ID,
			Date:        rec.Date,
			Present:     rec.Present,
			StudentID:   rec.StudentID,
			StudentName: st.Name,
			RollNo:      st.RollNo,
			ClassroomID: rec.ClassroomID,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return rollLess(out[i].RollNo, out[j].RollNo)
	})

	if s.cache != nil {
		s.cache.Set(ctx, teacherID, out)
	}
	return out, nil
}

// rollLess orders roll numbers numerically ("10" after "9"); numeric rolls
// sort before non-numeric ones, which fall back to lexicographic order.
func rollLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
