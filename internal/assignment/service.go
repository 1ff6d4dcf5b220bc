package assignment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"school-service/internal/messaging"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrAssignmentConflict = errors.New("section already has a teacher assigned for this course")
)

type Service interface {
	SaveAssignments(ctx context.Context, batch []SaveRequest) ([]Assignment, error)
	AssignmentsForCourse(ctx context.Context, courseID int) ([]AssignmentWithNames, error)
	AllAssignments(ctx context.Context) ([]AssignmentWithNames, error)
}

type service struct {
	repo   Repository
	events messaging.Publisher
	logger *slog.Logger
}

func NewService(repo Repository, events messaging.Publisher, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

// SaveAssignments persists a batch all-or-nothing. The whole batch is
// rejected when any entry is malformed or when any (section, course) pair
// already holds an assignment; the storage-level unique index backs the
// pre-check against concurrent batches.
func (s *service) SaveAssignments(ctx context.Context, batch []SaveRequest) ([]Assignment, error) {
	if len(batch) == 0 {
		return nil, fmt.Errorf("%w: empty assignment batch", ErrInvalidInput)
	}

	assignments := make([]Assignment, 0, len(batch))
	seen := make(map[[2]int]bool, len(batch))
	for _, entry := range batch {
		if entry.Section <= 0 {
			return nil, fmt.Errorf("%w: invalid section ID: %d", ErrInvalidInput, entry.Section)
		}
		if entry.Teacher <= 0 {
			return nil, fmt.Errorf("%w: invalid teacher ID: %d", ErrInvalidInput, entry.Teacher)
		}
		if entry.Course <= 0 {
			return nil, fmt.Errorf("%w: invalid course ID: %d", ErrInvalidInput, entry.Course)
		}

		key := [2]int{entry.Section, entry.Course}
		if seen[key] {
			return nil, fmt.Errorf("%w: section %d, course %d appears twice in the batch",
				ErrAssignmentConflict, entry.Section, entry.Course)
		}
		seen[key] = true

		timeSlot := entry.TimeSlot
		if timeSlot == "" {
			timeSlot = defaultTimeSlot
		}
		assignments = append(assignments, Assignment{
			SectionID: entry.Section,
			TeacherID: entry.Teacher,
			CourseID:  entry.Course,
			TimeSlot:  timeSlot,
		})
	}

	existing, err := s.repo.ExistingPairs(ctx, assignments)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: section %d, course %d",
			ErrAssignmentConflict, existing[0].SectionID, existing[0].CourseID)
	}

	saved, err := s.repo.InsertBatch(ctx, assignments)
	if err != nil {
		return nil, err
	}

	s.publishSaved(saved)
	return saved, nil
}

func (s *service) AssignmentsForCourse(ctx context.Context, courseID int) ([]AssignmentWithNames, error) {
	if courseID <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.ForCourse(ctx, courseID)
}

func (s *service) AllAssignments(ctx context.Context) ([]AssignmentWithNames, error) {
	return s.repo.All(ctx)
}

func (s *service) publishSaved(saved []Assignment) {
	if s.events == nil {
		return
	}
	for _, a := range saved {
		if err := s.events.Publish(messaging.NewEvent("assignment.saved", "course_assignments", a.ID)); err != nil {
			s.logger.Warn("failed to publish assignment event", "error", err, "assignment_id", a.ID)
		}
	}
}
