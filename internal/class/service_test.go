package class_test

import (
	"context"
	"testing"

	"school-service/internal/class"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepository is an in-memory stand-in for the Postgres repository.
type fakeRepository struct {
	classes      map[int]*class.Class
	sections     map[int][]class.Section
	nextClassID  int
	lastSections []string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		classes:     make(map[int]*class.Class),
		sections:    make(map[int][]class.Section),
		nextClassID: 1,
	}
}

func (f *fakeRepository) CreateWithSections(ctx context.Context, cls *class.Class, sectionNames []string) (*class.Class, error) {
	cls.ID = f.nextClassID
	f.nextClassID++
	f.classes[cls.ID] = cls
	f.lastSections = sectionNames
	for _, name := range sectionNames {
		f.sections[cls.ID] = append(f.sections[cls.ID], class.Section{
			ClassID:  cls.ID,
			Name:     name,
			IsActive: 1,
		})
	}
	return cls, nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id int) (*class.Class, error) {
	cls, ok := f.classes[id]
	if !ok || cls.IsActive != 1 {
		return nil, class.ErrClassNotFound
	}
	return cls, nil
}

func (f *fakeRepository) List(ctx context.Context) ([]class.ClassWithSections, error) {
	var result []class.ClassWithSections
	for id := 1; id < f.nextClassID; id++ {
		cls, ok := f.classes[id]
		if !ok || cls.IsActive != 1 {
			continue
		}
		entry := class.ClassWithSections{Class: *cls, Sections: []string{}}
		for _, sec := range f.sections[id] {
			entry.Sections = append(entry.Sections, sec.Name)
			entry.TotalStrengthBoys += sec.StrengthBoys
			entry.TotalStrengthGirls += sec.StrengthGirls
		}
		result = append(result, entry)
	}
	return result, nil
}

func (f *fakeRepository) UpdateWithSections(ctx context.Context, cls *class.Class, sectionNames []string) (*class.Class, error) {
	existing, ok := f.classes[cls.ID]
	if !ok || existing.IsActive != 1 {
		return nil, class.ErrClassNotFound
	}
	f.classes[cls.ID] = cls
	f.lastSections = sectionNames

	kept := make([]class.Section, 0)
	known := make(map[string]bool)
	for _, sec := range f.sections[cls.ID] {
		for _, name := range sectionNames {
			if sec.Name == name {
				kept = append(kept, sec)
				known[name] = true
			}
		}
	}
	for _, name := range sectionNames {
		if !known[name] {
			kept = append(kept, class.Section{ClassID: cls.ID, Name: name, IsActive: 1})
		}
	}
	f.sections[cls.ID] = kept
	return cls, nil
}

func (f *fakeRepository) SoftDelete(ctx context.Context, id int) error {
	cls, ok := f.classes[id]
	if !ok || cls.IsActive != 1 {
		return class.ErrClassNotFound
	}
	cls.IsActive = 0
	return nil
}

func (f *fakeRepository) SectionsByClassIDs(ctx context.Context, classIDs []int) ([]class.Section, error) {
	result := []class.Section{}
	for _, id := range classIDs {
		result = append(result, f.sections[id]...)
	}
	return result, nil
}

func TestCreateClass(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesClassWithSections", func(t *testing.T) {
		repo := newFakeRepository()
		service := class.NewService(repo)

		created, err := service.CreateClass(ctx, class.SaveClassRequest{
			Name:     "Grade 9",
			Session:  "2025-2026",
			Sections: []string{"A", "B"},
		})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, 1, created.IsActive)
		assert.Equal(t, []string{"A", "B"}, repo.lastSections)
	})

	t.Run("RejectsEmptySectionList", func(t *testing.T) {
		repo := newFakeRepository()
		service := class.NewService(repo)

		_, err := service.CreateClass(ctx, class.SaveClassRequest{
			Name:    "Grade 9",
			Session: "2025-2026",
		})
		assert.ErrorIs(t, err, class.ErrInvalidInput)
		assert.Empty(t, repo.classes)
	})

	t.Run("RejectsBlankSectionName", func(t *testing.T) {
		repo := newFakeRepository()
		service := class.NewService(repo)

		_, err := service.CreateClass(ctx, class.SaveClassRequest{
			Name:     "Grade 9",
			Session:  "2025-2026",
			Sections: []string{"A", "   "},
		})
		assert.ErrorIs(t, err, class.ErrInvalidInput)
		assert.Empty(t, repo.classes)
	})

	t.Run("DeduplicatesSectionNames", func(t *testing.T) {
		repo := newFakeRepository()
		service := class.NewService(repo)

		_, err := service.CreateClass(ctx, class.SaveClassRequest{
			Name:     "Grade 9",
			Session:  "2025-2026",
			Sections: []string{"A", " A ", "B"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, repo.lastSections)
	})
}

func TestListClasses(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	service := class.NewService(repo)

	_, err := service.CreateClass(ctx, class.SaveClassRequest{
		Name:     "Grade 9",
		Session:  "2025-2026",
		Sections: []string{"A", "B"},
	})
	require.NoError(t, err)

	t.Run("NewClassHasZeroTotals", func(t *testing.T) {
		classes, err := service.ListClasses(ctx)
		require.NoError(t, err)
		require.Len(t, classes, 1)
		assert.Equal(t, []string{"A", "B"}, classes[0].Sections)
		assert.Zero(t, classes[0].TotalStrengthBoys)
		assert.Zero(t, classes[0].TotalStrengthGirls)
	})

	t.Run("SoftDeletedClassDisappearsFromList", func(t *testing.T) {
		require.NoError(t, service.DeleteClass(ctx, 1))

		classes, err := service.ListClasses(ctx)
		require.NoError(t, err)
		assert.Empty(t, classes)

		// Its sections stay queryable - documented behavior.
		sections, err := service.SectionsByClassIDs(ctx, []int{1})
		require.NoError(t, err)
		assert.Len(t, sections, 2)
	})
}

func TestUpdateClass(t *testing.T) {
	ctx := context.Background()

	t.Run("ReconcilesSectionList", func(t *testing.T) {
		repo := newFakeRepository()
		service := class.NewService(repo)

		created, err := service.CreateClass(ctx, class.SaveClassRequest{
			Name:     "Grade 9",
			Session:  "2025-2026",
			Sections: []string{"A", "B"},
		})
		require.NoError(t, err)

		_, err = service.UpdateClass(ctx, created.ID, class.SaveClassRequest{
			Name:     "Grade 9",
			Session:  "2025-2026",
			Sections: []string{"B", "C"},
		})
		require.NoError(t, err)

		sections, err := service.SectionsByClassIDs(ctx, []int{created.ID})
		require.NoError(t, err)
		names := make([]string, 0, len(sections))
		for _, sec := range sections {
			names = append(names, sec.Name)
		}
		assert.ElementsMatch(t, []string{"B", "C"}, names)
	})

	t.Run("MissingClassReturnsNotFound", func(t *testing.T) {
		repo := newFakeRepository()
		service := class.NewService(repo)

		_, err := service.UpdateClass(ctx, 42, class.SaveClassRequest{
			Name:     "Grade 9",
			Session:  "2025-2026",
			Sections: []string{"A"},
		})
		assert.ErrorIs(t, err, class.ErrClassNotFound)
	})

	t.Run("InactiveClassReturnsNotFound", func(t *testing.T) {
		repo := newFakeRepository()
		service := class.NewService(repo)

		created, err := service.CreateClass(ctx, class.SaveClassRequest{
			Name:     "Grade 9",
			Session:  "2025-2026",
			Sections: []string{"A"},
		})
		require.NoError(t, err)
		require.NoError(t, service.DeleteClass(ctx, created.ID))

		_, err = service.UpdateClass(ctx, created.ID, class.SaveClassRequest{
			Name:     "Grade 9",
			Session:  "2025-2026",
			Sections: []string{"A"},
		})
		assert.ErrorIs(t, err, class.ErrClassNotFound)
	})
}
