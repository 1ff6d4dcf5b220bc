package class

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
)

type Repository interface {
	CreateWithSections(ctx context.Context, cls *Class, sectionNames []string) (*Class, error)
	GetByID(ctx context.Context, id int) (*Class, error)
	List(ctx context.Context) ([]ClassWithSections, error)
	UpdateWithSections(ctx context.Context, cls *Class, sectionNames []string) (*Class, error)
	SoftDelete(ctx context.Context, id int) error
	SectionsByClassIDs(ctx context.Context, classIDs []int) ([]Section, error)
}

type repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateWithSections(ctx context.Context, cls *Class, sectionNames []string) (*Class, error) {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(cls).Returning("*").Exec(ctx); err != nil {
			return err
		}

		sections := make([]Section, 0, len(sectionNames))
		for _, name := range sectionNames {
			sections = append(sections, Section{
				ClassID:  cls.ID,
				Name:     name,
				IsActive: 1,
			})
		}
		_, err := tx.NewInsert().Model(&sections).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cls, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Class, error) {
	cls := new(Class)
	err := r.db.NewSelect().
		Model(cls).
		Where("id = ?", id).
		Where("is_active = 1").
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	return cls, nil
}

func (r *repository) List(ctx context.Context) ([]ClassWithSections, error) {
	var classes []Class
	err := r.db.NewSelect().
		Model(&classes).
		Where("is_active = 1").
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if len(classes) == 0 {
		return []ClassWithSections{}, nil
	}

	classIDs := make([]int, 0, len(classes))
	for _, cls := range classes {
		classIDs = append(classIDs, cls.ID)
	}

	var sections []Section
	err = r.db.NewSelect().
		Model(&sections).
		Where("class_id IN (?)", bun.In(classIDs)).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	byClass := make(map[int][]Section, len(classes))
	for _, sec := range sections {
		byClass[sec.ClassID] = append(byClass[sec.ClassID], sec)
	}

	result := make([]ClassWithSections, 0, len(classes))
	for _, cls := range classes {
		entry := ClassWithSections{Class: cls, Sections: []string{}}
		for _, sec := range byClass[cls.ID] {
			entry.Sections = append(entry.Sections, sec.Name)
			entry.TotalStrengthBoys += sec.StrengthBoys
			entry.TotalStrengthGirls += sec.StrengthGirls
		}
		result = append(result, entry)
	}
	return result, nil
}

// UpdateWithSections renames the class and reconciles its section list:
// names still present are kept with their strengths, new names are created
// empty, dropped names are deleted outright.
func (r *repository) UpdateWithSections(ctx context.Context, cls *Class, sectionNames []string) (*Class, error) {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model(cls).
			Column("name", "session").
			Where("id = ?", cls.ID).
			Where("is_active = 1").
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrClassNotFound
		}

		var existing []Section
		if err := tx.NewSelect().
			Model(&existing).
			Where("class_id = ?", cls.ID).
			Scan(ctx); err != nil {
			return err
		}

		existingNames := make(map[string]bool, len(existing))
		for _, sec := range existing {
			existingNames[sec.Name] = true
		}

		var created []Section
		for _, name := range sectionNames {
			if !existingNames[name] {
				created = append(created, Section{
					ClassID:  cls.ID,
					Name:     name,
					IsActive: 1,
				})
			}
		}
		if len(created) > 0 {
			if _, err := tx.NewInsert().Model(&created).Exec(ctx); err != nil {
				return err
			}
		}

		_, err = tx.NewDelete().
			Model((*Section)(nil)).
			Where("class_id = ?", cls.ID).
			Where("name NOT IN (?)", bun.In(sectionNames)).
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cls, nil
}

func (r *repository) SoftDelete(ctx context.Context, id int) error {
	res, err := r.db.NewUpdate().
		Model((*Class)(nil)).
		Set("is_active = 0").
		Where("id = ?", id).
		Where("is_active = 1").
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrClassNotFound
	}
	return nil
}

// SectionsByClassIDs does not filter on the owning class's is_active flag,
// so sections of a deactivated class stay queryable.
func (r *repository) SectionsByClassIDs(ctx context.Context, classIDs []int) ([]Section, error) {
	sections := []Section{}
	err := r.db.NewSelect().
		Model(&sections).
		Where("class_id IN (?)", bun.In(classIDs)).
		Where("is_active = 1").
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return sections, nil
}
