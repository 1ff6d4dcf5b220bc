package assignment

import (
	"context"

	"school-service/internal/db"

	"github.com/uptrace/bun"
)

type Repository interface {
	ExistingPairs(ctx context.Context, candidates []Assignment) ([]Pair, error)
	InsertBatch(ctx context.Context, assignments []Assignment) ([]Assignment, error)
	ForCourse(ctx context.Context, courseID int) ([]AssignmentWithNames, error)
	All(ctx context.Context) ([]AssignmentWithNames, error)
}

type repository struct {
	db *bun.DB
}

func NewRepository(database *bun.DB) Repository {
	return &repository{db: database}
}

// ExistingPairs returns the (section, course) pairs among the candidates
// that already hold an assignment.
func (r *repository) ExistingPairs(ctx context.Context, candidates []Assignment) ([]Pair, error) {
	tuples := make([][]int, 0, len(candidates))
	for _, a := range candidates {
		tuples = append(tuples, []int{a.SectionID, a.CourseID})
	}

	var existing []Pair
	err := r.db.NewSelect().
		Model((*Assignment)(nil)).
		Column("section_id", "course_id").
		Where("(section_id, course_id) IN (?)", bun.In(tuples)).
		Scan(ctx, &existing)
	if err != nil {
		return nil, err
	}
	return existing, nil
}

// InsertBatch inserts the whole batch in one statement. The unique index on
// (section_id, course_id) is the actual uniqueness guarantee: a concurrent
// duplicate that passed the pre-check fails here and aborts the batch.
func (r *repository) InsertBatch(ctx context.Context, assignments []Assignment) ([]Assignment, error) {
	_, err := r.db.NewInsert().
		Model(&assignments).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrAssignmentConflict
		}
		return nil, err
	}
	return assignments, nil
}

func (r *repository) ForCourse(ctx context.Context, courseID int) ([]AssignmentWithNames, error) {
	return r.selectWithNames(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("ca.course_id = ?", courseID)
	})
}

func (r *repository) All(ctx context.Context) ([]AssignmentWithNames, error) {
	return r.selectWithNames(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q
	})
}

// selectWithNames joins the four referenced collections for display names.
// LEFT JOINs keep an assignment readable when a referent has been removed
// out of band; its name simply comes back empty.
func (r *repository) selectWithNames(ctx context.Context, filter func(*bun.SelectQuery) *bun.SelectQuery) ([]AssignmentWithNames, error) {
	assignments := []AssignmentWithNames{}
	q := r.db.NewSelect().
		Model((*Assignment)(nil)).
		ColumnExpr("ca.*").
		ColumnExpr("COALESCE(sections.name, '') AS section_name").
		ColumnExpr("COALESCE(classes.name, '') AS class_name").
		ColumnExpr("COALESCE(staff.name, '') AS teacher_name").
		ColumnExpr("COALESCE(courses.name, '') AS course_name").
		Join("LEFT JOIN sections ON sections.id = ca.section_id").
		Join("LEFT JOIN classes ON classes.id = sections.class_id").
		Join("LEFT JOIN staff ON staff.id = ca.teacher_id").
		Join("LEFT JOIN courses ON courses.id = ca.course_id").
		OrderExpr("ca.id ASC")

	err := filter(q).Scan(ctx, &assignments)
	if err != nil {
		return nil, err
	}
	return assignments, nil
}
