package course_test

import (
	"context"
	"testing"

	"school-service/internal/assignment"
	"school-service/internal/auth"
	"school-service/internal/class"
	"school-service/internal/course"
	"school-service/internal/db"
	"school-service/internal/staff"
	"school-service/internal/student"
	"school-service/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepositoryTest(t *testing.T) (*testdb.PostgresContainer, course.Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	container := testdb.SetupSharedPostgres(t)
	container.RunMigrations(t,
		(*class.Class)(nil),
		(*class.Section)(nil),
		(*course.Course)(nil),
		(*assignment.Assignment)(nil),
		(*staff.Staff)(nil),
		(*student.Student)(nil),
		(*auth.User)(nil),
		(*auth.RefreshToken)(nil),
		(*db.Counter)(nil),
	)
	t.Cleanup(func() {
		testdb.CleanupTables(t, container.DB,
			"course_assignments", "students", "staff", "courses", "sections", "classes", "users", "counters")
	})

	return container, course.NewRepository(container.DB)
}

func TestRepositoryCreate(t *testing.T) {
	_, repo := setupRepositoryTest(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &course.Course{
		Name:        "Algebra",
		Code:        "MATH-101",
		Description: "Introductory algebra",
		ClassIDs:    []int{},
		IsActive:    1,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.NotZero(t, created.CreatedAt)

	t.Run("DuplicateCodeHitsUniqueIndex", func(t *testing.T) {
		_, err := repo.Create(ctx, &course.Course{
			Name:        "Algebra II",
			Code:        "MATH-101",
			Description: "More algebra",
			ClassIDs:    []int{},
			IsActive:    1,
		})
		assert.ErrorIs(t, err, course.ErrDuplicateCode)
	})
}

func TestRepositoryListWithDetails(t *testing.T) {
	container, repo := setupRepositoryTest(t)
	ctx := context.Background()

	cls := &class.Class{Name: "Grade 9", Session: "2025-2026", IsActive: 1}
	_, err := container.DB.NewInsert().Model(cls).Exec(ctx)
	require.NoError(t, err)

	sections := []class.Section{
		{ClassID: cls.ID, Name: "A", IsActive: 1},
		{ClassID: cls.ID, Name: "B", IsActive: 1},
	}
	_, err = container.DB.NewInsert().Model(&sections).Exec(ctx)
	require.NoError(t, err)

	teacher := &staff.Staff{
		Name:           "Jane Smith",
		Email:          "jane.smith@school.com",
		Type:           staff.TypeTeaching,
		EmployeeNumber: "TCH001",
		Role:           "teacher",
		Department:     "Mathematics",
		Salary:         50000,
		IsActive:       1,
	}
	_, err = container.DB.NewInsert().Model(teacher).Exec(ctx)
	require.NoError(t, err)

	created, err := repo.Create(ctx, &course.Course{
		Name:        "Algebra",
		Code:        "MATH-101",
		Description: "Introductory algebra",
		ClassIDs:    []int{cls.ID},
		IsActive:    1,
	})
	require.NoError(t, err)

	t.Run("AllSectionsUnassignedInitially", func(t *testing.T) {
		listed, err := repo.ListWithDetails(ctx)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, []string{"A (Grade 9)", "B (Grade 9)"}, listed[0].UnassignedSectionNames)
		assert.Empty(t, listed[0].Instructors)
	})

	t.Run("AssignedSectionDropsOut", func(t *testing.T) {
		_, err := container.DB.NewInsert().Model(&assignment.Assignment{
			SectionID: sections[0].ID,
			TeacherID: teacher.ID,
			CourseID:  created.ID,
			TimeSlot:  "None",
		}).Exec(ctx)
		require.NoError(t, err)

		listed, err := repo.ListWithDetails(ctx)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, []string{"B (Grade 9)"}, listed[0].UnassignedSectionNames)
		assert.Equal(t, []string{"Jane Smith"}, listed[0].Instructors)
	})

	t.Run("FullyAssignedCourseHasNoUnassignedSections", func(t *testing.T) {
		_, err := container.DB.NewInsert().Model(&assignment.Assignment{
			SectionID: sections[1].ID,
			TeacherID: teacher.ID,
			CourseID:  created.ID,
			TimeSlot:  "None",
		}).Exec(ctx)
		require.NoError(t, err)

		listed, err := repo.ListWithDetails(ctx)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Empty(t, listed[0].UnassignedSectionNames)
		// Same teacher on both sections is listed once.
		assert.Equal(t, []string{"Jane Smith"}, listed[0].Instructors)
	})
}
