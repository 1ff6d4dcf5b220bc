package student

import (
	"context"
	"database/sql"
	"fmt"

	"school-service/internal/auth"
	"school-service/internal/class"
	"school-service/internal/db"

	"github.com/uptrace/bun"
)

type Repository interface {
	CreateWithUser(ctx context.Context, stu *Student, user *auth.User) (*Student, error)
	GetByID(ctx context.Context, id int) (*Student, error)
	List(ctx context.Context, filter ListFilter) (*StudentList, error)
	Update(ctx context.Context, stu *Student) (*Student, error)
	SoftDelete(ctx context.Context, id int) error
}

type repository struct {
	db *bun.DB
}

func NewRepository(database *bun.DB) Repository {
	return &repository{db: database}
}

// CreateWithUser runs the whole student admission in one transaction: the
// login, the student row with its generated roll number, and the owning
// section's strength counter move together or not at all.
func (r *repository) CreateWithUser(ctx context.Context, stu *Student, user *auth.User) (*Student, error) {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		cls := new(class.Class)
		err := tx.NewSelect().
			Model(cls).
			Where("id = ?", stu.ClassID).
			Where("is_active = 1").
			Scan(ctx)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrClassNotFound
			}
			return err
		}

		if _, err := tx.NewInsert().Model(user).Returning("*").Exec(ctx); err != nil {
			return err
		}
		stu.UserID = user.ID

		seq, err := db.NextSequence(ctx, tx, fmt.Sprintf("roll_number:%d:%s", stu.ClassID, stu.Section))
		if err != nil {
			return err
		}
		stu.RollNumber = fmt.Sprintf("%s-%d-%s", cls.Name, seq, stu.Section)

		if _, err := tx.NewInsert().Model(stu).Returning("*").Exec(ctx); err != nil {
			return err
		}

		return adjustStrength(ctx, tx, stu.ClassID, stu.Section, stu.Gender, +1)
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrStudentExists
		}
		return nil, err
	}
	return stu, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Student, error) {
	stu := new(Student)
	err := r.db.NewSelect().
		Model(stu).
		Where("id = ?", id).
		Where("is_active = 1").
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return stu, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) (*StudentList, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	students := []Student{}
	q := r.db.NewSelect().
		Model(&students).
		Where("is_active = 1")
	if filter.ClassID > 0 {
		q = q.Where("class_id = ?", filter.ClassID)
	}
	if filter.Section != "" {
		q = q.Where("section = ?", filter.Section)
	}
	if filter.Gender != "" {
		q = q.Where("gender = ?", filter.Gender)
	}

	total, err := q.Order("id ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		ScanAndCount(ctx)
	if err != nil {
		return nil, err
	}

	pages := (total + limit - 1) / limit
	return &StudentList{
		Count:       len(students),
		Total:       total,
		Pages:       pages,
		CurrentPage: page,
		Data:        students,
	}, nil
}

// Update moves the section strength counters when the student's gender or
// section changed, inside the same transaction as the row update.
func (r *repository) Update(ctx context.Context, stu *Student) (*Student, error) {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing := new(Student)
		err := tx.NewSelect().
			Model(existing).
			Where("id = ?", stu.ID).
			Where("is_active = 1").
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrStudentNotFound
			}
			return err
		}

		// Class moves are not supported; roll numbers are minted per class.
		stu.ClassID = existing.ClassID
		stu.UserID = existing.UserID
		stu.RollNumber = existing.RollNumber

		if _, err := tx.NewUpdate().
			Model(stu).
			Column("first_name", "last_name", "section", "gender", "guardian_contact", "guardian_email").
			Where("id = ?", stu.ID).
			Exec(ctx); err != nil {
			return err
		}

		if existing.Section != stu.Section || existing.Gender != stu.Gender {
			if err := adjustStrength(ctx, tx, existing.ClassID, existing.Section, existing.Gender, -1); err != nil {
				return err
			}
			if err := adjustStrength(ctx, tx, stu.ClassID, stu.Section, stu.Gender, +1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stu, nil
}

// SoftDelete deactivates the student and its login and releases the seat in
// the section counters, all in one transaction.
func (r *repository) SoftDelete(ctx context.Context, id int) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing := new(Student)
		err := tx.NewSelect().
			Model(existing).
			Where("id = ?", id).
			Where("is_active = 1").
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrStudentNotFound
			}
			return err
		}

		if _, err := tx.NewUpdate().
			Model((*Student)(nil)).
			Set("is_active = 0").
			Where("id = ?", id).
			Exec(ctx); err != nil {
			return err
		}

		if existing.UserID != 0 {
			if _, err := tx.NewUpdate().
				Model((*auth.User)(nil)).
				Set("is_active = 0").
				Where("id = ?", existing.UserID).
				Exec(ctx); err != nil {
				return err
			}
		}

		return adjustStrength(ctx, tx, existing.ClassID, existing.Section, existing.Gender, -1)
	})
}

// adjustStrength moves the boy/girl counter of the named section. A section
// that does not exist aborts the surrounding transaction.
func adjustStrength(ctx context.Context, tx bun.Tx, classID int, sectionName, gender string, delta int) error {
	column := "strength_girls"
	if gender == GenderMale {
		column = "strength_boys"
	}

	res, err := tx.NewUpdate().
		Model((*class.Section)(nil)).
		Set(column+" = "+column+" + ?", delta).
		Where("class_id = ?", classID).
		Where("name = ?", sectionName).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSectionNotFound
	}
	return nil
}
