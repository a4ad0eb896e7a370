// Package memstore provides in-memory stores mirroring the Postgres
// repositories, for service-level tests that exercise the core logic
// without a database.
package memstore

import (
	"context"
	"sync"

	"classtrack/internal/attendance"
	"classtrack/internal/roster"
)

// Roster is an in-memory roster.Store and attendance.Directory.
type Roster struct {
	mu         sync.Mutex
	Classrooms map[string]roster.Classroom
	Students   map[string]roster.Student
}

// NewRoster creates an empty roster store.
func NewRoster() *Roster {
	return &Roster{
		Classrooms: make(map[string]roster.Classroom),
		Students:   make(map[string]roster.Student),
	}
}

func (m *Roster) InsertClassroom(_ context.Context, c roster.Classroom) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Classrooms[c.ID] = c
	return nil
}

func (m *Roster) GetClassroom(_ context.Context, id string) (*roster.Classroom, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.Classrooms[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (m *Roster) ListClassroomsByOwner(_ context.Context, ownerID string) ([]roster.Classroom, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []roster.Classroom
	for _, c := range m.Classrooms {
		if c.OwnerID == ownerID {
			res = append(res, c)
		}
	}
	return res, nil
}

func (m *Roster) ListAllClassrooms(_ context.Context) ([]roster.Classroom, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []roster.Classroom
	for _, c := range m.Classrooms {
		res = append(res, c)
	}
	return res, nil
}

func (m *Roster) DeleteClassroom(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Classrooms, id)
	return nil
}

func (m *Roster) InsertStudent(_ context.Context, s roster.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Students[s.ID] = s
	return nil
}

func (m *Roster) GetStudent(_ context.Context, id string) (*roster.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.Students[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (m *Roster) GetStudentByRoll(_ context.Context, classroomID, rollNo string) (*roster.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.Students {
		if s.ClassroomID == classroomID && s.RollNo == rollNo {
			return &s, nil
		}
	}
	return nil, nil
}

func (m *Roster) ListStudentsByClassroom(_ context.Context, classroomID string) ([]roster.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []roster.Student
	for _, s := range m.Students {
		if s.ClassroomID == classroomID {
			res = append(res, s)
		}
	}
	return res, nil
}

func (m *Roster) ListAllStudents(_ context.Context) ([]roster.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []roster.Student
	for _, s := range m.Students {
		res = append(res, s)
	}
	return res, nil
}

func (m *Roster) DeleteStudent(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Students, id)
	return nil
}

// Attendance is an in-memory attendance.Store.
type Attendance struct {
	mu      sync.Mutex
	Records []attendance.Record
}

// NewAttendance creates an empty attendance store.
func NewAttendance() *Attendance { return &Attendance{} }

func (m *Attendance) InsertRecords(_ context.Context, records []attendance.Record) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records = append(m.Records, records...)
	return len(records), nil
}

func (m *Attendance) ListRecords(_ context.Context) ([]attendance.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]attendance.Record, len(m.Records))
	copy(out, m.Records)
	return out, nil
}
