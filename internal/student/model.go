package student

import (
	"github.com/uptrace/bun"
)

const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

type Student struct {
	bun.BaseModel `bun:"table:students,alias:stu"`

	ID              int    `bun:"id,pk,autoincrement" json:"id"`
	ClassID         int    `bun:"class_id,notnull" json:"classId" validate:"required,gt=0"`
	UserID          int    `bun:"user_id" json:"userId"`
	FirstName       string `bun:"first_name,notnull" json:"firstName" validate:"required"`
	LastName        string `bun:"last_name,notnull" json:"lastName" validate:"required"`
	Section         string `bun:"section,notnull" json:"section" validate:"required"`
	Gender          string `bun:"gender,notnull" json:"gender" validate:"required,oneof=Male Female"`
	RollNumber      string `bun:"roll_number,unique" json:"rollNumber"`
	GuardianContact string `bun:"guardian_contact" json:"guardianContactNumber"`
	GuardianEmail   string `bun:"guardian_email" json:"guardianEmail" validate:"omitempty,email"`
	IsActive        int    `bun:"is_active,notnull,default:1" json:"isActive"`
}

// CreateStudentRequest creates the student together with its login.
type CreateStudentRequest struct {
	Student
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
}

// ListFilter narrows and pages the student list.
type ListFilter struct {
	ClassID int
	Section string
	Gender  string
	Page    int
	Limit   int
}

// StudentList is the paginated list envelope.
type StudentList struct {
	Count       int       `json:"count"`
	Total       int       `json:"total"`
	Pages       int       `json:"pages"`
	CurrentPage int       `json:"currentPage"`
	Data        []Student `json:"data"`
}
