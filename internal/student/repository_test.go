package student_test

import (
	"context"
	"testing"

	"school-service/internal/auth"
	"school-service/internal/class"
	"school-service/internal/db"
	"school-service/internal/student"
	"school-service/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepositoryTest(t *testing.T) (*testdb.PostgresContainer, student.Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	container := testdb.SetupSharedPostgres(t)
	container.RunMigrations(t,
		(*class.Class)(nil),
		(*class.Section)(nil),
		(*student.Student)(nil),
		(*auth.User)(nil),
		(*db.Counter)(nil),
	)
	t.Cleanup(func() {
		testdb.CleanupTables(t, container.DB, "students", "sections", "classes", "users", "counters")
	})

	return container, student.NewRepository(container.DB)
}

func seedClass(t *testing.T, container *testdb.PostgresContainer) *class.Class {
	t.Helper()
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
	return cls
}

func sectionStrength(t *testing.T, container *testdb.PostgresContainer, classID int, name string) (int, int) {
	t.Helper()
	sec := new(class.Section)
	require.NoError(t, container.DB.NewSelect().
		Model(sec).
		Where("class_id = ?", classID).
		Where("name = ?", name).
		Scan(context.Background()))
	return sec.StrengthBoys, sec.StrengthGirls
}

func newStudent(classID int, section, gender, firstName string) *student.Student {
	return &student.Student{
		ClassID:   classID,
		FirstName: firstName,
		LastName:  "Brown",
		Section:   section,
		Gender:    gender,
		IsActive:  1,
	}
}

func newLogin(username string) *auth.User {
	return &auth.User{
		Username: username,
		Email:    username + "@school.com",
		Password: "hashed",
		Role:     auth.RoleStudent,
		IsActive: 1,
	}
}

func TestRepositoryCreateStudent(t *testing.T) {
	container, repo := setupRepositoryTest(t)
	ctx := context.Background()
	cls := seedClass(t, container)

	t.Run("RollNumberDerivedFromClassAndSection", func(t *testing.T) {
		first, err := repo.CreateWithUser(ctx, newStudent(cls.ID, "A", student.GenderFemale, "Alice"), newLogin("alice"))
		require.NoError(t, err)
		assert.Equal(t, "Grade 9-1-A", first.RollNumber)

		second, err := repo.CreateWithUser(ctx, newStudent(cls.ID, "A", student.GenderMale, "Ben"), newLogin("ben"))
		require.NoError(t, err)
		assert.Equal(t, "Grade 9-2-A", second.RollNumber)

		// Each section runs its own sequence.
		other, err := repo.CreateWithUser(ctx, newStudent(cls.ID, "B", student.GenderMale, "Carl"), newLogin("carl"))
		require.NoError(t, err)
		assert.Equal(t, "Grade 9-1-B", other.RollNumber)
	})

	t.Run("SectionStrengthTracksAdmissions", func(t *testing.T) {
		boys, girls := sectionStrength(t, container, cls.ID, "A")
		assert.Equal(t, 1, boys)
		assert.Equal(t, 1, girls)
	})

	t.Run("UnknownClassRejected", func(t *testing.T) {
		_, err := repo.CreateWithUser(ctx, newStudent(9999, "A", student.GenderMale, "Dan"), newLogin("dan"))
		assert.ErrorIs(t, err, student.ErrClassNotFound)
	})

	t.Run("UnknownSectionAbortsAdmission", func(t *testing.T) {
		_, err := repo.CreateWithUser(ctx, newStudent(cls.ID, "Z", student.GenderMale, "Eve"), newLogin("eve"))
		require.ErrorIs(t, err, student.ErrSectionNotFound)

		count, err := container.DB.NewSelect().
			Model((*auth.User)(nil)).
			Where("username = ?", "eve").
			Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("DuplicateUsernameRejected", func(t *testing.T) {
		_, err := repo.CreateWithUser(ctx, newStudent(cls.ID, "A", student.GenderMale, "Alice Again"), newLogin("alice"))
		assert.ErrorIs(t, err, student.ErrStudentExists)
	})
}

func TestRepositoryUpdateStudent(t *testing.T) {
	container, repo := setupRepositoryTest(t)
	ctx := context.Background()
	cls := seedClass(t, container)

	created, err := repo.CreateWithUser(ctx, newStudent(cls.ID, "A", student.GenderFemale, "Alice"), newLogin("alice"))
	require.NoError(t, err)

	t.Run("SectionMoveShiftsStrengthCounters", func(t *testing.T) {
		moved := *created
		moved.Section = "B"
		_, err := repo.Update(ctx, &moved)
		require.NoError(t, err)

		_, girlsA := sectionStrength(t, container, cls.ID, "A")
		_, girlsB := sectionStrength(t, container, cls.ID, "B")
		assert.Zero(t, girlsA)
		assert.Equal(t, 1, girlsB)
	})

	t.Run("RollNumberSurvivesUpdate", func(t *testing.T) {
		stored, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Grade 9-1-A", stored.RollNumber)
	})
}

func TestRepositoryListStudents(t *testing.T) {
	container, repo := setupRepositoryTest(t)
	ctx := context.Background()
	cls := seedClass(t, container)

	logins := []string{"s1", "s2", "s3"}
	for i, username := range logins {
		gender := student.GenderMale
		if i == 2 {
			gender = student.GenderFemale
		}
		_, err := repo.CreateWithUser(ctx, newStudent(cls.ID, "A", gender, username), newLogin(username))
		require.NoError(t, err)
	}

	t.Run("PaginatesAndCounts", func(t *testing.T) {
		listed, err := repo.List(ctx, student.ListFilter{ClassID: cls.ID, Page: 1, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 2, listed.Count)
		assert.Equal(t, 3, listed.Total)
		assert.Equal(t, 2, listed.Pages)
		assert.Equal(t, 1, listed.CurrentPage)
	})

	t.Run("FiltersByGender", func(t *testing.T) {
		listed, err := repo.List(ctx, student.ListFilter{Gender: student.GenderFemale})
		require.NoError(t, err)
		assert.Equal(t, 1, listed.Total)
	})
}

func TestRepositorySoftDeleteStudent(t *testing.T) {
	container, repo := setupRepositoryTest(t)
	ctx := context.Background()
	cls := seedClass(t, container)

	created, err := repo.CreateWithUser(ctx, newStudent(cls.ID, "A", student.GenderMale, "Ben"), newLogin("ben"))
	require.NoError(t, err)

	require.NoError(t, repo.SoftDelete(ctx, created.ID))

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, student.ErrStudentNotFound)

	boys, _ := sectionStrength(t, container, cls.ID, "A")
	assert.Zero(t, boys)

	user := new(auth.User)
	require.NoError(t, container.DB.NewSelect().
		Model(user).
		Where("id = ?", created.UserID).
		Scan(ctx))
	assert.Equal(t, 0, user.IsActive)
}
