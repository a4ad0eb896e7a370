package roster

import (
	"context"
	"database/sql"
	"errors"
)

// Repository persists classrooms and students in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// InsertClassroom writes a new classroom.
func (r *Repository) InsertClassroom(ctx context.Context, c Classroom) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO classrooms (id, name, description, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.Name, c.Description, c.OwnerID, c.CreatedAt)
	return err
}

// GetClassroom returns a classroom by id, or nil when it does not exist.
func (r *Repository) GetClassroom(ctx context.Context, id string) (*Classroom, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, owner_id, created_at
		FROM classrooms WHERE id = $1
	`, id)
	var c Classroom
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.OwnerID, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// ListClassroomsByOwner returns the classrooms a teacher owns.
func (r *Repository) ListClassroomsByOwner(ctx context.Context, ownerID string) ([]Classroom, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, owner_id, created_at
		FROM classrooms WHERE owner_id = $1
		ORDER BY created_at
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Classroom
	for rows.Next() {
		var c Classroom
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.OwnerID, &c.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

// ListAllClassrooms returns every classroom; used by the aggregation join.
func (r *Repository) ListAllClassrooms(ctx context.Context) ([]Classroom, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, owner_id, created_at FROM classrooms
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Classroom
	for rows.Next() {
		var c Classroom
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.OwnerID, &c.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

// DeleteClassroom removes a classroom row. Students and attendance records
// referencing it are left in place.
func (r *Repository) DeleteClassroom(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM classrooms WHERE id = $1`, id)
	return err
}

// InsertStudent writes a new student.
func (r *Repository) InsertStudent(ctx context.Context, s Student) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO students (id, classroom_id, roll_no, name, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, s.ID, s.ClassroomID, s.RollNo, s.Name, s.CreatedAt)
	return err
}

// GetStudent returns a student by id, or nil when it does not exist.
func (r *Repository) GetStudent(ctx context.Context, id string) (*Student, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, classroom_id, roll_no, name, created_at
		FROM students WHERE id = $1
	`, id)
	var s Student
	if err := row.Scan(&s.ID, &s.ClassroomID, &s.RollNo, &s.Name, &s.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// GetStudentByRoll looks up the (classroom, rollNo) dedup key.
func (r *Repository) GetStudentByRoll(ctx context.Context, classroomID, rollNo string) (*Student, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, classroom_id, roll_no, name, created_at
		FROM students WHERE classroom_id = $1 AND roll_no = $2
	`, classroomID, rollNo)
	var s Student
	if err := row.Scan(&s.ID, &s.ClassroomID, &s.RollNo, &s.Name, &s.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// ListStudentsByClassroom returns a classroom's roster ordered by roll no.
func (r *Repository) ListStudentsByClassroom(ctx context.Context, classroomID string) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, classroom_id, roll_no, name, created_at
		FROM students WHERE classroom_id = $1
		ORDER BY roll_no
	`, classroomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Student
	for rows.Next() {
		var s Student
		if err := rows.Scan(&s.ID, &s.ClassroomID, &s.RollNo, &s.Name, &s.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// ListAllStudents returns every student; used by the aggregation join.
func (r *Repository) ListAllStudents(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, classroom_id, roll_no, name, created_at FROM students
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Student
	for rows.Next() {
		var s Student
		if err := rows.Scan(&s.ID, &s.ClassroomID, &s.RollNo, &s.Name, &s.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// DeleteStudent removes a student row.
func (r *Repository) DeleteStudent(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	return err
}
