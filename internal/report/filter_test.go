package report_test

import (
	"reflect"
	"testing"

	"classtrack/internal/attendance"
	"classtrack/internal/report"
)

func sampleRecords() []attendance.EnrichedRecord {
	return []attendance.EnrichedRecord{
		{RecordID: "r1", Date: "2024-01-10", Present: true, StudentID: "s1", StudentName: "Alice Johnson", RollNo: "1", ClassroomID: "c1"},
		{RecordID: "r2", Date: "2024-01-10", Present: false, StudentID: "s2", StudentName: "Bob Smith", RollNo: "2", ClassroomID: "c1"},
		{RecordID: "r3", Date: "2024-01-11", Present: true, StudentID: "s3", StudentName: "Carol Davis", RollNo: "10", ClassroomID: "c2"},
	}
}

func ids(records []attendance.EnrichedRecord) []string {
	out := []string{}
	for _, r := range records {
		out = append(out, r.RecordID)
	}
	return out
}

func TestFilter_Unset_MatchesEverything(t *testing.T) {
	records := sampleRecords()
	got := report.Filter{}.Apply(records)
	if !reflect.DeepEqual(ids(got), []string{"r1", "r2", "r3"}) {
		t.Fatalf("got %v", ids(got))
	}
}

func TestFilter_SingleFields(t *testing.T) {
	records := sampleRecords()

	cases := []struct {
		name   string
		filter report.Filter
		want   []string
	}{
		{"date", report.Filter{Date: "2024-01-10"}, []string{"r1", "r2"}},
		{"classroom", report.Filter{ClassroomID: "c2"}, []string{"r3"}},
		{"present", report.Filter{Status: "present"}, []string{"r1", "r3"}},
		{"absent", report.Filter{Status: "Absent"}, []string{"r2"}},
		{"name substring, case-insensitive", report.Filter{Query: "aLiCe"}, []string{"r1"}},
		{"roll substring", report.Filter{Query: "10"}, []string{"r3"}},
		{"no match", report.Filter{Query: "zzz"}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(tc.filter.Apply(records))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFilter_FieldsCombineWithAnd(t *testing.T) {
	records := sampleRecords()
	f := report.Filter{Date: "2024-01-10", Status: "present"}
	got := ids(f.Apply(records))
	if !reflect.DeepEqual(got, []string{"r1"}) {
		t.Fatalf("got %v", got)
	}
}

func TestFilter_IsRestartable(t *testing.T) {
	records := sampleRecords()
	f := report.Filter{Status: "present"}

	first := f.Apply(records)
	second := f.Apply(records)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("repeated Apply diverged")
	}
	// different parameters over the same input still work
	other := report.Filter{Status: "absent"}.Apply(records)
	if !reflect.DeepEqual(ids(other), []string{"r2"}) {
		t.Fatalf("got %v", ids(other))
	}
	if len(records) != 3 {
		t.Fatal("input mutated")
	}
}
