package staff

import (
	"context"
	"database/sql"
	"fmt"

	"school-service/internal/auth"
	"school-service/internal/db"

	"github.com/uptrace/bun"
)

type Repository interface {
	CreateWithUser(ctx context.Context, member *Staff, user *auth.User) (*Staff, error)
	GetByID(ctx context.Context, id int) (*Staff, error)
	List(ctx context.Context, staffType string) ([]Staff, error)
	Update(ctx context.Context, member *Staff) (*Staff, error)
	SoftDelete(ctx context.Context, id int) error
}

type repository struct {
	db *bun.DB
}

func NewRepository(database *bun.DB) Repository {
	return &repository{db: database}
}

// CreateWithUser inserts the login and the staff record in one transaction.
// The employee number comes from an atomic per-type counter, so concurrent
// hires of the same type never share a number.
func (r *repository) CreateWithUser(ctx context.Context, member *Staff, user *auth.User) (*Staff, error) {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(user).Returning("*").Exec(ctx); err != nil {
			return err
		}
		member.UserID = user.ID

		seq, err := db.NextSequence(ctx, tx, "employee_number:"+member.Type)
		if err != nil {
			return err
		}
		prefix := "NTS"
		if member.Type == TypeTeaching {
			prefix = "TCH"
		}
		member.EmployeeNumber = fmt.Sprintf("%s%03d", prefix, seq)

		_, err = tx.NewInsert().Model(member).Returning("*").Exec(ctx)
		return err
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrStaffExists
		}
		return nil, err
	}
	return member, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Staff, error) {
	member := new(Staff)
	err := r.db.NewSelect().
		Model(member).
		Where("id = ?", id).
		Where("is_active = 1").
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return member, nil
}

func (r *repository) List(ctx context.Context, staffType string) ([]Staff, error) {
	members := []Staff{}
	q := r.db.NewSelect().
		Model(&members).
		Where("is_active = 1").
		Order("id ASC")
	if staffType != "" {
		q = q.Where("type = ?", staffType)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repository) Update(ctx context.Context, member *Staff) (*Staff, error) {
	res, err := r.db.NewUpdate().
		Model(member).
		Column("name", "email", "role", "department", "salary", "employment_type", "joining_date").
		Where("id = ?", member.ID).
		Where("is_active = 1").
		Exec(ctx)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrStaffExists
		}
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrStaffNotFound
	}
	return r.GetByID(ctx, member.ID)
}

// SoftDelete deactivates the staff record and its linked login together.
func (r *repository) SoftDelete(ctx context.Context, id int) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		member := new(Staff)
		err := tx.NewSelect().
			Model(member).
			Where("id = ?", id).
			Where("is_active = 1").
			Scan(ctx)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrStaffNotFound
			}
			return err
		}

		if _, err := tx.NewUpdate().
			Model((*Staff)(nil)).
			Set("is_active = 0").
			Where("id = ?", id).
			Exec(ctx); err != nil {
			return err
		}

		if member.UserID != 0 {
			if _, err := tx.NewUpdate().
				Model((*auth.User)(nil)).
				Set("is_active = 0").
				Where("id = ?", member.UserID).
				Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}
