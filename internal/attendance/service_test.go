package attendance_test

import (
	"context"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"classtrack/internal/apperr"
	"classtrack/internal/attendance"
	"classtrack/internal/metrics"
	"classtrack/internal/roster"
	"classtrack/internal/testutil/memstore"
)

type fixture struct {
	roster *roster.Service
	att    *attendance.Service
	store  *memstore.Roster
	attSt  *memstore.Attendance
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rs := memstore.NewRoster()
	as := memstore.NewAttendance()
	rosterSvc := roster.NewService(rs, nil, nil)
	attSvc := attendance.NewService(as, rs, rosterSvc, nil, nil)
	return &fixture{roster: rosterSvc, att: attSvc, store: rs, attSt: as}
}

func (f *fixture) classroom(t *testing.T, teacherID, name string) *roster.Classroom {
	t.Helper()
	c, err := f.roster.CreateClassroom(context.Background(), teacherID, name, "")
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func (f *fixture) student(t *testing.T, teacherID, classroomID, rollNo, name string) *roster.Student {
	t.Helper()
	st, err := f.roster.AddStudent(context.Background(), teacherID, classroomID, rollNo, name)
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func TestSubmit_OwnershipRequired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.classroom(t, "teacher1", "Math")
	st := f.student(t, "teacher1", c.ID, "1", "Alice")

	entries := []attendance.Entry{{StudentID: st.ID, Present: true, Date: "2024-01-10"}}

	if _, err := f.att.Submit(ctx, "", c.ID, entries); !apperr.Is(err, apperr.Unauthorized) {
		t.Fatalf("unauthenticated: got %v", err)
	}
	if _, err := f.att.Submit(ctx, "teacher2", c.ID, entries); !apperr.Is(err, apperr.Forbidden) {
		t.Fatalf("non-owner: got %v", err)
	}
	if _, err := f.att.Submit(ctx, "teacher1", "missing", entries); !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("missing classroom: got %v", err)
	}

	inserted, err := f.att.Submit(ctx, "teacher1", c.ID, entries)
	if err != nil {
		t.Fatal(err)
	}
	if inserted != 1 {
		t.Fatalf("inserted = %d, want 1", inserted)
	}
}

func TestSubmit_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.classroom(t, "teacher1", "Math")

	if _, err := f.att.Submit(ctx, "teacher1", c.ID, nil); !apperr.Is(err, apperr.InvalidInput) {
		t.Fatalf("empty batch: got %v", err)
	}
	bad := []attendance.Entry{{StudentID: "", Present: true, Date: "2024-01-10"}}
	if _, err := f.att.Submit(ctx, "teacher1", c.ID, bad); !apperr.Is(err, apperr.InvalidInput) {
		t.Fatalf("missing student id: got %v", err)
	}
	badDate := []attendance.Entry{{StudentID: "x", Present: true, Date: "10/01/2024"}}
	if _, err := f.att.Submit(ctx, "teacher1", c.ID, badDate); !apperr.Is(err, apperr.InvalidInput) {
		t.Fatalf("bad date: got %v", err)
	}
}

func TestSubmit_DuplicatesAccumulate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.classroom(t, "teacher1", "Math")
	st := f.student(t, "teacher1", c.ID, "1", "Alice")

	entries := []attendance.Entry{{StudentID: st.ID, Present: true, Date: "2024-01-10"}}
	for i := 0; i < 2; i++ {
		if _, err := f.att.Submit(ctx, "teacher1", c.ID, entries); err != nil {
			t.Fatal(err)
		}
	}
	// no dedup key: the same session submitted twice is two rows
	records, err := f.att.ListForTeacher(ctx, "teacher1")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
}

func TestListForTeacher_Scenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.classroom(t, "teacher1", "A")
	alice := f.student(t, "teacher1", c.ID, "1", "Alice")
	bob := f.student(t, "teacher1", c.ID, "2", "Bob")

	_, err := f.att.Submit(ctx, "teacher1", c.ID, []attendance.Entry{
		{StudentID: bob.ID, Present: false, Date: "2024-01-10"},
		{StudentID: alice.ID, Present: true, Date: "2024-01-10"},
	})
	if err != nil {
		t.Fatal(err)
	}

	records, err := f.att.ListForTeacher(ctx, "teacher1")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].StudentName != "Alice" || !records[0].Present || records[0].RollNo != "1" {
		t.Fatalf("first record: %+v", records[0])
	}
	if records[1].StudentName != "Bob" || records[1].Present || records[1].RollNo != "2" {
		t.Fatalf("second record: %+v", records[1])
	}
	if records[0].Date != "2024-01-10" || records[0].ClassroomID != c.ID {
		t.Fatalf("record fields: %+v", records[0])
	}
}

func TestListForTeacher_NumericRollOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.classroom(t, "teacher1", "A")

	for _, roll := range []string{"2", "10", "1"} {
		st := f.student(t, "teacher1", c.ID, roll, "Student "+roll)
		if _, err := f.att.Submit(ctx, "teacher1", c.ID, []attendance.Entry{
			{StudentID: st.ID, Present: true, Date: "2024-01-10"},
		}); err != nil {
			t.Fatal(err)
		}
	}

	records, err := f.att.ListForTeacher(ctx, "teacher1")
	if err != nil {
		t.Fatal(err)
	}
	got := []string{}
	for _, r := range records {
		got = append(got, r.RollNo)
	}
	want := []string{"1", "2", "10"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestListForTeacher_CrossTeacherIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c1 := f.classroom(t, "teacher1", "A")
	st1 := f.student(t, "teacher1", c1.ID, "1", "Alice")
	c2 := f.classroom(t, "teacher2", "B")
	st2 := f.student(t, "teacher2", c2.ID, "1", "Zed")

	if _, err := f.att.Submit(ctx, "teacher1", c1.ID, []attendance.Entry{{StudentID: st1.ID, Present: true, Date: "2024-01-10"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.att.Submit(ctx, "teacher2", c2.ID, []attendance.Entry{{StudentID: st2.ID, Present: true, Date: "2024-01-10"}}); err != nil {
		t.Fatal(err)
	}

	records, err := f.att.ListForTeacher(ctx, "teacher2")
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range records {
		if r.ClassroomID == c1.ID {
			t.Fatalf("teacher2 sees teacher1's record: %+v", r)
		}
	}
	if len(records) != 1 || records[0].StudentName != "Zed" {
		t.Fatalf("records = %+v", records)
	}
}

func TestListForTeacher_DanglingReferencesDropped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.classroom(t, "teacher1", "A")
	st := f.student(t, "teacher1", c.ID, "1", "Alice")

	_, err := f.att.Submit(ctx, "teacher1", c.ID, []attendance.Entry{
		{StudentID: st.ID, Present: true, Date: "2024-01-10"},
		{StudentID: "no-such-student", Present: true, Date: "2024-01-10"},
	})
	if err != nil {
		t.Fatal(err)
	}

	records, err := f.att.ListForTeacher(ctx, "teacher1")
	if err != nil {
		t.Fatal(err)
	}
	// the dangling studentId joins to nothing and is silently dropped
	if len(records) != 1 || records[0].StudentID != st.ID {
		t.Fatalf("records = %+v", records)
	}

	// deleting the classroom orphans the remaining record too
	if err := f.roster.DeleteClassroom(ctx, "teacher1", c.ID); err != nil {
		t.Fatal(err)
	}
	records, err = f.att.ListForTeacher(ctx, "teacher1")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty after classroom delete, got %+v", records)
	}
}

func TestListForTeacher_EmptyAndUnauthorized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.att.ListForTeacher(ctx, ""); !apperr.Is(err, apperr.Unauthorized) {
		t.Fatalf("unauthenticated: got %v", err)
	}
	records, err := f.att.ListForTeacher(ctx, "teacher1")
	if err != nil {
		t.Fatal(err)
	}
	if records == nil || len(records) != 0 {
		t.Fatalf("empty result should be an empty sequence, got %#v", records)
	}
}

type stubCache struct {
	rows []attendance.EnrichedRecord
}

func (s *stubCache) Get(ctx context.Context, teacherID string, dst any) bool {
	if s.rows == nil {
		return false
	}
	*(dst.(*[]attendance.EnrichedRecord)) = s.rows
	return true
}

func (s *stubCache) Set(ctx context.Context, teacherID string, report any) {}

func (s *stubCache) Invalidate(ctx context.Context, teacherID string) {}

func TestListForTeacher_CacheHit(t *testing.T) {
	rs := memstore.NewRoster()
	as := memstore.NewAttendance()
	rosterSvc := roster.NewService(rs, nil, nil)
	cached := []attendance.EnrichedRecord{{RecordID: "r1", Date: "2024-01-10", StudentName: "Alice", RollNo: "1"}}
	svc := attendance.NewService(as, rs, rosterSvc, &stubCache{rows: cached}, nil)

	before := promtest.ToFloat64(metrics.ReportCacheHits)
	out, err := svc.ListForTeacher(context.Background(), "teacher1")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].RecordID != "r1" {
		t.Fatalf("out = %+v", out)
	}
	if delta := promtest.ToFloat64(metrics.ReportCacheHits) - before; delta != 1 {
		t.Fatalf("cache hit counter delta = %v", delta)
	}
}
