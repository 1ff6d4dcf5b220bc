package class

import (
	"github.com/uptrace/bun"
)

type Class struct {
	bun.BaseModel `bun:"table:classes,alias:c"`

	ID       int    `bun:"id,pk,autoincrement" json:"id"`
	Name     string `bun:"name,notnull" json:"name" validate:"required"`
	Session  string `bun:"session,notnull" json:"session" validate:"required"`
	IsActive int    `bun:"is_active,notnull,default:1" json:"isActive"`
}

type Section struct {
	bun.BaseModel `bun:"table:sections,alias:sec"`

	ID            int    `bun:"id,pk,autoincrement" json:"id"`
	ClassID       int    `bun:"class_id,notnull" json:"classId"`
	Name          string `bun:"name,notnull" json:"name"`
	StrengthBoys  int    `bun:"strength_boys,notnull,default:0" json:"strengthBoys"`
	StrengthGirls int    `bun:"strength_girls,notnull,default:0" json:"strengthGirls"`
	IsActive      int    `bun:"is_active,notnull,default:1" json:"isActive"`
}

// SaveClassRequest is the payload for both create and update.
type SaveClassRequest struct {
	Name     string   `json:"name" validate:"required"`
	Session  string   `json:"session" validate:"required"`
	Sections []string `json:"sections" validate:"required,min=1"`
}

// SectionsRequest selects sections by their owning classes.
type SectionsRequest struct {
	ClassIDs []int `json:"classIds" validate:"required,min=1"`
}

// ClassWithSections is the list-view shape: the class plus its section names
// and strength totals.
type ClassWithSections struct {
	Class
	Sections           []string `json:"sections"`
	TotalStrengthBoys  int      `json:"totalStrengthBoys"`
	TotalStrengthGirls int      `json:"totalStrengthGirls"`
}
