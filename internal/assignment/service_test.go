package assignment_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"school-service/internal/assignment"
	"school-service/internal/messaging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepository keeps assignments in memory and enforces the
// (section, course) uniqueness the Postgres index provides.
type fakeRepository struct {
	assignments []assignment.Assignment
	nextID      int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{nextID: 1}
}

func (f *fakeRepository) ExistingPairs(ctx context.Context, candidates []assignment.Assignment) ([]assignment.Pair, error) {
	var existing []assignment.Pair
	for _, candidate := range candidates {
		for _, stored := range f.assignments {
			if stored.SectionID == candidate.SectionID && stored.CourseID == candidate.CourseID {
				existing = append(existing, assignment.Pair{
					SectionID: stored.SectionID,
					CourseID:  stored.CourseID,
				})
			}
		}
	}
	return existing, nil
}

func (f *fakeRepository) InsertBatch(ctx context.Context, batch []assignment.Assignment) ([]assignment.Assignment, error) {
	for _, candidate := range batch {
		for _, stored := range f.assignments {
			if stored.SectionID == candidate.SectionID && stored.CourseID == candidate.CourseID {
				return nil, assignment.ErrAssignmentConflict
			}
		}
	}
	for i := range batch {
		batch[i].ID = f.nextID
		f.nextID++
		f.assignments = append(f.assignments, batch[i])
	}
	return batch, nil
}

func (f *fakeRepository) ForCourse(ctx context.Context, courseID int) ([]assignment.AssignmentWithNames, error) {
	result := []assignment.AssignmentWithNames{}
	for _, stored := range f.assignments {
		if stored.CourseID == courseID {
			result = append(result, assignment.AssignmentWithNames{Assignment: stored})
		}
	}
	return result, nil
}

func (f *fakeRepository) All(ctx context.Context) ([]assignment.AssignmentWithNames, error) {
	result := []assignment.AssignmentWithNames{}
	for _, stored := range f.assignments {
		result = append(result, assignment.AssignmentWithNames{Assignment: stored})
	}
	return result, nil
}

type fakePublisher struct {
	events []messaging.Event
}

func (f *fakePublisher) Publish(event messaging.Event) error {
	f.events = append(f.events, event)
	return nil
}

func newTestService(repo assignment.Repository, events messaging.Publisher) assignment.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return assignment.NewService(repo, events, logger)
}

func TestSaveAssignments(t *testing.T) {
	ctx := context.Background()

	t.Run("SavesBatchWithDefaultTimeSlot", func(t *testing.T) {
		repo := newFakeRepository()
		events := &fakePublisher{}
		service := newTestService(repo, events)

		saved, err := service.SaveAssignments(ctx, []assignment.SaveRequest{
			{Section: 1, Teacher: 10, Course: 100},
			{Section: 2, Teacher: 10, Course: 100, TimeSlot: "Mon 09:00"},
		})
		require.NoError(t, err)
		require.Len(t, saved, 2)
		assert.Equal(t, "None", saved[0].TimeSlot)
		assert.Equal(t, "Mon 09:00", saved[1].TimeSlot)
		assert.Len(t, events.events, 2)
		assert.Equal(t, "assignment.saved", events.events[0].Type)
	})

	t.Run("EmptyBatchRejected", func(t *testing.T) {
		service := newTestService(newFakeRepository(), nil)

		_, err := service.SaveAssignments(ctx, nil)
		assert.ErrorIs(t, err, assignment.ErrInvalidInput)
	})

	t.Run("InvalidIDRejectsWholeBatch", func(t *testing.T) {
		repo := newFakeRepository()
		service := newTestService(repo, nil)

		_, err := service.SaveAssignments(ctx, []assignment.SaveRequest{
			{Section: 1, Teacher: 10, Course: 100},
			{Section: 2, Teacher: 0, Course: 100},
		})
		assert.ErrorIs(t, err, assignment.ErrInvalidInput)
		assert.Empty(t, repo.assignments)
	})

	t.Run("DuplicatePairWithinBatchRejected", func(t *testing.T) {
		repo := newFakeRepository()
		service := newTestService(repo, nil)

		_, err := service.SaveAssignments(ctx, []assignment.SaveRequest{
			{Section: 1, Teacher: 10, Course: 100},
			{Section: 1, Teacher: 11, Course: 100},
		})
		assert.ErrorIs(t, err, assignment.ErrAssignmentConflict)
		assert.Empty(t, repo.assignments)
	})

	t.Run("SecondBatchForSamePairRejected", func(t *testing.T) {
		repo := newFakeRepository()
		service := newTestService(repo, nil)

		_, err := service.SaveAssignments(ctx, []assignment.SaveRequest{
			{Section: 1, Teacher: 10, Course: 100},
		})
		require.NoError(t, err)

		_, err = service.SaveAssignments(ctx, []assignment.SaveRequest{
			{Section: 1, Teacher: 11, Course: 100},
		})
		assert.ErrorIs(t, err, assignment.ErrAssignmentConflict)
		assert.Len(t, repo.assignments, 1)
	})

	t.Run("SameSectionDifferentCourseAllowed", func(t *testing.T) {
		repo := newFakeRepository()
		service := newTestService(repo, nil)

		_, err := service.SaveAssignments(ctx, []assignment.SaveRequest{
			{Section: 1, Teacher: 10, Course: 100},
		})
		require.NoError(t, err)

		_, err = service.SaveAssignments(ctx, []assignment.SaveRequest{
			{Section: 1, Teacher: 10, Course: 200},
		})
		require.NoError(t, err)
		assert.Len(t, repo.assignments, 2)
	})

	t.Run("NilPublisherIsFine", func(t *testing.T) {
		service := newTestService(newFakeRepository(), nil)

		_, err := service.SaveAssignments(ctx, []assignment.SaveRequest{
			{Section: 1, Teacher: 10, Course: 100},
		})
		assert.NoError(t, err)
	})
}

func TestAssignmentsForCourse(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	service := newTestService(repo, nil)

	_, err := service.SaveAssignments(ctx, []assignment.SaveRequest{
		{Section: 1, Teacher: 10, Course: 100},
		{Section: 2, Teacher: 11, Course: 100},
		{Section: 1, Teacher: 10, Course: 200},
	})
	require.NoError(t, err)

	t.Run("FiltersByCourse", func(t *testing.T) {
		assignments, err := service.AssignmentsForCourse(ctx, 100)
		require.NoError(t, err)
		assert.Len(t, assignments, 2)
	})

	t.Run("UnknownCourseReturnsEmptyList", func(t *testing.T) {
		assignments, err := service.AssignmentsForCourse(ctx, 999)
		require.NoError(t, err)
		assert.Empty(t, assignments)
	})

	t.Run("InvalidCourseIDRejected", func(t *testing.T) {
		_, err := service.AssignmentsForCourse(ctx, 0)
		assert.ErrorIs(t, err, assignment.ErrInvalidInput)
	})

	t.Run("AllReturnsEverything", func(t *testing.T) {
		assignments, err := service.AllAssignments(ctx)
		require.NoError(t, err)
		assert.Len(t, assignments, 3)
	})
}
