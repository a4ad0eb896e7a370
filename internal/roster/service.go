package roster

import (
	"context"
	"time"

	"github.com/google/uuid"

	"classtrack/internal/apperr"
)

// Store is the persistence surface the service needs; implemented by
// Repository and by in-memory fakes in tests.
type Store interface {
	InsertClassroom(ctx context.Context, c Classroom) error
	GetClassroom(ctx context.Context, id string) (*Classroom, error)
	ListClassroomsByOwner(ctx context.Context, ownerID string) ([]Classroom, error)
	DeleteClassroom(ctx context.Context, id string) error
	InsertStudent(ctx context.Context, s Student) error
	GetStudent(ctx context.Context, id string) (*Student, error)
	GetStudentByRoll(ctx context.Context, classroomID, rollNo string) (*Student, error)
	ListStudentsByClassroom(ctx context.Context, classroomID string) ([]Student, error)
	DeleteStudent(ctx context.Context, id string) error
}

// EventPublisher pushes domain events onto the work queue.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// ReportInvalidator drops a teacher's cached attendance report after a
// roster write changes what the aggregation would produce.
type ReportInvalidator interface {
	Invalidate(ctx context.Context, teacherID string)
}

// Service owns classroom and student lifecycle, the ownership guard, and
// the roster copy engine.
type Service struct {
	store  Store
	events EventPublisher
	cache  ReportInvalidator
}

// NewService creates a service. events and cache may be nil.
func NewService(store Store, events EventPublisher, cache ReportInvalidator) *Service {
	return &Service{store: store, events: events, cache: cache}
}

// CheckClassroomOwner resolves a classroom and verifies the teacher owns it.
// This is the ownership guard for classroom-scoped operations; it runs
// before the mutation and is not transactional with it.
func (s *Service) CheckClassroomOwner(ctx context.Context, teacherID, classroomID string) (*Classroom, error) {
	c, err := s.store.GetClassroom(ctx, classroomID)
	if err != nil {
		return nil, apperr.Wrap("classroom lookup failed", err)
	}
	if c == nil {
		return nil, apperr.New(apperr.NotFound, "classroom not found")
	}
	if c.OwnerID != teacherID {
		return nil, apperr.New(apperr.Forbidden, "you do not own this classroom")
	}
	return c, nil
}

// checkStudentOwner resolves a student and derives ownership transitively
// through its classroom.
func (s *Service) checkStudentOwner(ctx context.Context, teacherID, studentID string) (*Student, error) {
	st, err := s.store.GetStudent(ctx, studentID)
	if err != nil {
		return nil, apperr.Wrap("student lookup failed", err)
	}
	if st == nil {
		return nil, apperr.New(apperr.NotFound, "student not found")
	}
	if _, err := s.CheckClassroomOwner(ctx, teacherID, st.ClassroomID); err != nil {
		return nil, err
	}
	return st, nil
}

// CreateClassroom creates a classroom owned by the given teacher.
func (s *Service) CreateClassroom(ctx context.Context, teacherID, name, description string) (*Classroom, error) {
	if name == "" || teacherID == "" {
		return nil, apperr.New(apperr.InvalidInput, "name and owner are required")
	}
	c := Classroom{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		OwnerID:     teacherID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.InsertClassroom(ctx, c); err != nil {
		return nil, apperr.Wrap("classroom insert failed", err)
	}
	return &c, nil
}

// ListClassrooms returns the classrooms owned by the caller.
func (s *Service) ListClassrooms(ctx context.Context, teacherID string) ([]Classroom, error) {
	if teacherID == "" {
		return nil, apperr.New(apperr.Unauthorized, "authentication required")
	}
	res, err := s.store.ListClassroomsByOwner(ctx, teacherID)
	if err != nil {
		return nil, apperr.Wrap("classroom list failed", err)
	}
	return res, nil
}

// GetClassroom returns a classroom with its roster. The auth ladder is
// Unauthorized, then NotFound, then Forbidden.
func (s *Service) GetClassroom(ctx context.Context, teacherID, id string) (*Classroom, []Student, error) {
	if teacherID == "" {
		return nil, nil, apperr.New(apperr.Unauthorized, "authentication required")
	}
	c, err := s.CheckClassroomOwner(ctx, teacherID, id)
	if err != nil {
		return nil, nil, err
	}
	students, err := s.store.ListStudentsByClassroom(ctx, id)
	if err != nil {
		return nil, nil, apperr.Wrap("roster list failed", err)
	}
	return c, students, nil
}

// DeleteClassroom removes a classroom. Its students and attendance records
// are deliberately left behind; the aggregation join hides them.
func (s *Service) DeleteClassroom(ctx context.Context, teacherID, id string) error {
	if teacherID == "" {
		return apperr.New(apperr.Unauthorized, "authentication required")
	}
	if _, err := s.CheckClassroomOwner(ctx, teacherID, id); err != nil {
		return err
	}
	if err := s.store.DeleteClassroom(ctx, id); err != nil {
		return apperr.Wrap("classroom delete failed", err)
	}
	s.afterWrite(ctx, teacherID, "classroom.deleted", id)
	return nil
}

// AddStudent enrolls a student, enforcing rollNo uniqueness within the
// classroom.
func (s *Service) AddStudent(ctx context.Context, teacherID, classroomID, rollNo, name string) (*Student, error) {
	if classroomID == "" || rollNo == "" || name == "" {
		return nil, apperr.New(apperr.InvalidInput, "classroom, roll no, and name are required")
	}
	if teacherID == "" {
		return nil, apperr.New(apperr.Unauthorized, "authentication required")
	}
	if _, err := s.CheckClassroomOwner(ctx, teacherID, classroomID); err != nil {
		return nil, err
	}
	existing, err := s.store.GetStudentByRoll(ctx, classroomID, rollNo)
	if err != nil {
		return nil, apperr.Wrap("roll no lookup failed", err)
	}
	if existing != nil {
		return nil, apperr.New(apperr.Conflict, "a student with this roll number already exists in this classroom")
	}
	st := Student{
		ID:          uuid.NewString(),
		ClassroomID: classroomID,
		RollNo:      rollNo,
		Name:        name,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.InsertStudent(ctx, st); err != nil {
		return nil, apperr.Wrap("student insert failed", err)
	}
	s.afterWrite(ctx, teacherID, "student.added", classroomID)
	return &st, nil
}

// DeleteStudent removes a student; ownership is resolved transitively via
// the student's classroom.
func (s *Service) DeleteStudent(ctx context.Context, teacherID, id string) error {
	if teacherID == "" {
		return apperr.New(apperr.Unauthorized, "authentication required")
	}
	st, err := s.checkStudentOwner(ctx, teacherID, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteStudent(ctx, id); err != nil {
		return apperr.Wrap("student delete failed", err)
	}
	s.afterWrite(ctx, teacherID, "student.deleted", st.ClassroomID)
	return nil
}

// CopyRoster copies the source classroom's students into the target
// classroom, skipping roll numbers already present there. Inserts are
// sequential and not atomic: a failure partway leaves earlier copies in
// place, and a retry re-skips them.
func (s *Service) CopyRoster(ctx context.Context, teacherID, sourceID, targetID string) (int, error) {
	if sourceID == "" || targetID == "" {
		return 0, apperr.New(apperr.InvalidInput, "source and target classroom ids are required")
	}
	if teacherID == "" {
		return 0, apperr.New(apperr.Unauthorized, "authentication required")
	}
	if _, err := s.CheckClassroomOwner(ctx, teacherID, sourceID); err != nil {
		return 0, err
	}
	if _, err := s.CheckClassroomOwner(ctx, teacherID, targetID); err != nil {
		return 0, err
	}

	donors, err := s.store.ListStudentsByClassroom(ctx, sourceID)
	if err != nil {
		return 0, apperr.Wrap("source roster list failed", err)
	}
	if len(donors) == 0 {
		return 0, apperr.New(apperr.InvalidInput, "no students found in the source classroom")
	}

	copied := 0
	now := time.Now().UTC()
	for _, donor := range donors {
		existing, err := s.store.GetStudentByRoll(ctx, targetID, donor.RollNo)
		if err != nil {
			return copied, apperr.Wrap("dedup lookup failed", err)
		}
		if existing != nil {
			continue
		}
		clone := Student{
			ID:          uuid.NewString(),
			ClassroomID: targetID,
			RollNo:      donor.RollNo,
			Name:        donor.Name,
			CreatedAt:   now,
		}
		if err := s.store.InsertStudent(ctx, clone); err != nil {
			return copied, apperr.Wrap("student copy failed", err)
		}
		copied++
	}
	s.afterWrite(ctx, teacherID, "roster.copied", targetID)
	return copied, nil
}

// afterWrite publishes the event and drops the teacher's cached report.
func (s *Service) afterWrite(ctx context.Context, teacherID, eventType, classroomID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, teacherID)
	}
	if s.events != nil {
		_ = s.events.Publish(ctx, eventType, map[string]string{
			"teacher_id":   teacherID,
			"classroom_id": classroomID,
		})
	}
}
