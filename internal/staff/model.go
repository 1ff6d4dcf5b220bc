package staff

import (
	"github.com/uptrace/bun"
)

const (
	TypeTeaching    = "teaching"
	TypeNonTeaching = "non-teaching"
)

type Staff struct {
	bun.BaseModel `bun:"table:staff,alias:st"`

	ID             int     `bun:"id,pk,autoincrement" json:"id"`
	Name           string  `bun:"name,notnull" json:"name" validate:"required"`
	Email          string  `bun:"email,unique,notnull" json:"email" validate:"required,email"`
	Type           string  `bun:"type,notnull" json:"type" validate:"required,oneof=teaching non-teaching"`
	EmployeeNumber string  `bun:"employee_number,unique" json:"employeeNumber"`
	Role           string  `bun:"role,notnull" json:"role" validate:"required"`
	Department     string  `bun:"department,notnull" json:"department" validate:"required"`
	Salary         float64 `bun:"salary,notnull" json:"salary" validate:"gte=0"`
	EmploymentType string  `bun:"employment_type" json:"employmentType" validate:"omitempty,oneof=Full-time Part-time Contract"`
	JoiningDate    string  `bun:"joining_date" json:"joiningDate"`
	UserID         int     `bun:"user_id" json:"userId"`
	IsActive       int     `bun:"is_active,notnull,default:1" json:"isActive"`
}

// CreateStaffRequest creates the staff record together with its login.
type CreateStaffRequest struct {
	Staff
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
}
