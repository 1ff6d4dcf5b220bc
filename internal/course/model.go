package course

import (
	"time"

	"github.com/uptrace/bun"
)

type Course struct {
	bun.BaseModel `bun:"table:courses,alias:co"`

	ID          int       `bun:"id,pk,autoincrement" json:"id"`
	Name        string    `bun:"name,notnull" json:"name" validate:"required"`
	Code        string    `bun:"code,notnull" json:"code" validate:"required"`
	Description string    `bun:"description,notnull" json:"description" validate:"required"`
	ClassIDs    []int     `bun:"class_ids,array" json:"classIds"`
	IsActive    int       `bun:"is_active,notnull,default:1" json:"isActive"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}

// UpdateCourseRequest carries a partial update; nil fields keep their
// current value.
type UpdateCourseRequest struct {
	Name        *string `json:"name"`
	Code        *string `json:"code"`
	Description *string `json:"description"`
	ClassIDs    *[]int  `json:"classIds"`
}

// CourseWithDetails is the list-view shape: the course plus the section
// slots still waiting for a teacher and the instructor names computed from
// its current assignments. Both are derived at read time, never stored.
type CourseWithDetails struct {
	Course
	UnassignedSectionNames []string `json:"unassignedSectionNames"`
	Instructors            []string `json:"instructors"`
}
