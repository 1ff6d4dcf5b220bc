package assignment

import (
	"time"

	"github.com/uptrace/bun"
)

const defaultTimeSlot = "None"

// Assignment binds one teacher to one section for one course. The pair
// (section_id, course_id) is unique: a section has at most one teacher per
// course. There is no update or delete path; corrections are new batches.
type Assignment struct {
	bun.BaseModel `bun:"table:course_assignments,alias:ca"`

	ID        int       `bun:"id,pk,autoincrement" json:"id"`
	SectionID int       `bun:"section_id,notnull" json:"section"`
	TeacherID int       `bun:"teacher_id,notnull" json:"teacher"`
	CourseID  int       `bun:"course_id,notnull" json:"course"`
	TimeSlot  string    `bun:"time_slot,notnull,default:'None'" json:"timeSlot"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

// SaveRequest is one entry of the batch posted by the assignment UI.
type SaveRequest struct {
	Section  int    `json:"section" validate:"required,gt=0"`
	Teacher  int    `json:"teacher" validate:"required,gt=0"`
	Course   int    `json:"course" validate:"required,gt=0"`
	TimeSlot string `json:"timeSlot"`
}

// AssignmentWithNames attaches the display names joined at read time. A
// missing referent leaves its name empty instead of failing the read.
type AssignmentWithNames struct {
	Assignment
	SectionName string `bun:"section_name" json:"sectionName,omitempty"`
	ClassName   string `bun:"class_name" json:"className,omitempty"`
	TeacherName string `bun:"teacher_name" json:"teacherName,omitempty"`
	CourseName  string `bun:"course_name" json:"courseName,omitempty"`
}

// Pair identifies an assignment slot.
type Pair struct {
	SectionID int `bun:"section_id"`
	CourseID  int `bun:"course_id"`
}
