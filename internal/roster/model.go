package roster

import "time"

// Classroom is a named group of students owned by exactly one teacher.
type Classroom struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Student belongs to exactly one classroom; ownership is derived through
// the classroom's owner. RollNo is unique within a classroom.
type Student struct {
	ID          string    `json:"id"`
	ClassroomID string    `json:"classroom_id"`
	RollNo      string    `json:"roll_no"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
}
