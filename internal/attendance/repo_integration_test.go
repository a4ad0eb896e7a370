//go:build testutil
// +build testutil

package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"classtrack/internal/attendance"
	"classtrack/internal/testutil/testdb"
)

func TestRepository_InsertAndListRecords(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	repo := attendance.NewRepository(h.DB)
	now := time.Now().UTC()

	records := []attendance.Record{
		{ID: uuid.NewString(), StudentID: "s1", ClassroomID: "c1", Date: "2024-01-10", Present: true, CreatedAt: now},
		{ID: uuid.NewString(), StudentID: "s2", ClassroomID: "c1", Date: "2024-01-10", Present: false, CreatedAt: now},
	}
	inserted, err := repo.InsertRecords(ctx, records)
	if err != nil {
		t.Fatal(err)
	}
	if inserted != 2 {
		t.Fatalf("inserted = %d", inserted)
	}

	got, err := repo.ListRecords(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records", len(got))
	}
	// the DATE column round-trips to the wire form
	if got[0].Date != "2024-01-10" {
		t.Fatalf("date = %q", got[0].Date)
	}
	if got[0].StudentID != "s1" || !got[0].Present {
		t.Fatalf("record = %+v", got[0])
	}
}
