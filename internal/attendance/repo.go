package attendance

import (
	"context"
	"database/sql"
	"time"
)

// Repository persists attendance records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// InsertRecords bulk-inserts a submitted session. Inserts are per-row; an
// error stops later rows without rolling back earlier ones.
func (r *Repository) InsertRecords(ctx context.Context, records []Record) (int, error) {
	inserted := 0
	for _, rec := range records {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO attendance_records (id, student_id, classroom_id, date, present, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, rec.ID, rec.StudentID, rec.ClassroomID, rec.Date, rec.Present, rec.CreatedAt)
		if err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

// ListRecords returns every attendance record. The ownership filter and the
// student/classroom joins are applied by the aggregator, not in SQL, so that
// identifier resolution stays an exact-value match against application state.
func (r *Repository) ListRecords(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, classroom_id, date, present, created_at
		FROM attendance_records
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Record
	for rows.Next() {
		var rec Record
		var day time.Time
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.ClassroomID, &day, &rec.Present, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Date = day.Format(DateLayout)
		res = append(res, rec)
	}
	return res, rows.Err()
}
