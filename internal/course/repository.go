package course

import (
	"context"
	"database/sql"
	"fmt"

	"school-service/internal/db"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, course *Course) (*Course, error)
	GetByID(ctx context.Context, id int) (*Course, error)
	Update(ctx context.Context, course *Course) (*Course, error)
	SoftDelete(ctx context.Context, id int) error
	ListWithDetails(ctx context.Context) ([]CourseWithDetails, error)
}

type repository struct {
	db *bun.DB
}

func NewRepository(database *bun.DB) Repository {
	return &repository{db: database}
}

func (r *repository) Create(ctx context.Context, course *Course) (*Course, error) {
	_, err := r.db.NewInsert().Model(course).Returning("*").Exec(ctx)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrDuplicateCode
		}
		return nil, err
	}
	return course, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Course, error) {
	course := new(Course)
	err := r.db.NewSelect().
		Model(course).
		Where("id = ?", id).
		Where("is_active = 1").
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (r *repository) Update(ctx context.Context, course *Course) (*Course, error) {
	res, err := r.db.NewUpdate().
		Model(course).
		Column("name", "code", "description", "class_ids").
		Set("updated_at = current_timestamp").
		Where("id = ?", course.ID).
		Where("is_active = 1").
		Exec(ctx)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrDuplicateCode
		}
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrCourseNotFound
	}
	return course, nil
}

func (r *repository) SoftDelete(ctx context.Context, id int) error {
	res, err := r.db.NewUpdate().
		Model((*Course)(nil)).
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
		return ErrCourseNotFound
	}
	return nil
}

// sectionRow is what the unassigned computation needs to know about a
// section: its identity and the display name of its class.
type sectionRow struct {
	ID        int    `bun:"id"`
	ClassID   int    `bun:"class_id"`
	Name      string `bun:"name"`
	ClassName string `bun:"class_name"`
}

type assignmentRow struct {
	CourseID  int    `bun:"course_id"`
	SectionID int    `bun:"section_id"`
	Teacher   string `bun:"teacher_name"`
}

// ListWithDetails loads active courses and recomputes, per course, the
// section slots with no assignment and the instructor names. Everything is
// fetched in three queries and joined in memory; the result is always
// consistent with the assignment state at call time.
func (r *repository) ListWithDetails(ctx context.Context) ([]CourseWithDetails, error) {
	var courses []Course
	err := r.db.NewSelect().
		Model(&courses).
		Where("is_active = 1").
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return []CourseWithDetails{}, nil
	}

	classIDSet := make(map[int]bool)
	courseIDs := make([]int, 0, len(courses))
	for _, c := range courses {
		courseIDs = append(courseIDs, c.ID)
		for _, classID := range c.ClassIDs {
			classIDSet[classID] = true
		}
	}

	sectionsByClass := make(map[int][]sectionRow)
	if len(classIDSet) > 0 {
		classIDs := make([]int, 0, len(classIDSet))
		for id := range classIDSet {
			classIDs = append(classIDs, id)
		}

		var sections []sectionRow
		err = r.db.NewSelect().
			Table("sections").
			ColumnExpr("sections.id, sections.class_id, sections.name").
			ColumnExpr("classes.name AS class_name").
			Join("JOIN classes ON classes.id = sections.class_id").
			Where("sections.class_id IN (?)", bun.In(classIDs)).
			Where("sections.is_active = 1").
			OrderExpr("sections.id ASC").
			Scan(ctx, &sections)
		if err != nil {
			return nil, err
		}
		for _, sec := range sections {
			sectionsByClass[sec.ClassID] = append(sectionsByClass[sec.ClassID], sec)
		}
	}

	var assignments []assignmentRow
	err = r.db.NewSelect().
		Table("course_assignments").
		ColumnExpr("course_assignments.course_id, course_assignments.section_id").
		ColumnExpr("staff.name AS teacher_name").
		Join("LEFT JOIN staff ON staff.id = course_assignments.teacher_id").
		Where("course_assignments.course_id IN (?)", bun.In(courseIDs)).
		OrderExpr("course_assignments.id ASC").
		Scan(ctx, &assignments)
	if err != nil {
		return nil, err
	}

	assigned := make(map[int]map[int]bool)          // courseID -> sectionID
	instructorsByCourse := make(map[int][]string)   // courseID -> teacher names
	seenInstructor := make(map[int]map[string]bool) // de-dup per course
	for _, a := range assignments {
		if assigned[a.CourseID] == nil {
			assigned[a.CourseID] = make(map[int]bool)
			seenInstructor[a.CourseID] = make(map[string]bool)
		}
		assigned[a.CourseID][a.SectionID] = true
		if a.Teacher != "" && !seenInstructor[a.CourseID][a.Teacher] {
			seenInstructor[a.CourseID][a.Teacher] = true
			instructorsByCourse[a.CourseID] = append(instructorsByCourse[a.CourseID], a.Teacher)
		}
	}

	result := make([]CourseWithDetails, 0, len(courses))
	for _, c := range courses {
		entry := CourseWithDetails{
			Course:                 c,
			UnassignedSectionNames: []string{},
			Instructors:            []string{},
		}
		for _, classID := range c.ClassIDs {
			for _, sec := range sectionsByClass[classID] {
				if !assigned[c.ID][sec.ID] {
					entry.UnassignedSectionNames = append(entry.UnassignedSectionNames,
						fmt.Sprintf("%s (%s)", sec.Name, sec.ClassName))
				}
			}
		}
		if names := instructorsByCourse[c.ID]; names != nil {
			entry.Instructors = names
		}
		result = append(result, entry)
	}
	return result, nil
}
