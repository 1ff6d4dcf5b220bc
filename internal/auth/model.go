package auth

import (
	"time"

	"github.com/uptrace/bun"
)

// Roles the dashboard knows about. Staff and student creation pick the role
// matching the record they link to.
const (
	RoleAdmin            = "admin"
	RoleTeacher          = "teacher"
	RoleFinanceManager   = "finance-manager"
	RoleStudent          = "student"
	RoleNonTeachingStaff = "non-teaching-staff"
	RoleSuperAdmin       = "super-admin"
	RoleOwner            = "owner"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID       int    `bun:"id,pk,autoincrement" json:"id"`
	Username string `bun:"username,unique,notnull" json:"username" validate:"required"`
	Email    string `bun:"email,unique,notnull" json:"email" validate:"required,email"`
	Password string `bun:"password,notnull" json:"-"` // Never expose password in JSON
	Role     string `bun:"role,notnull" json:"role" validate:"required,oneof=admin teacher finance-manager student non-teaching-staff super-admin owner"`
	IsActive int    `bun:"is_active,notnull,default:1" json:"isActive"`
}

type RefreshToken struct {
	bun.BaseModel `bun:"table:refresh_tokens,alias:rt"`

	ID        int       `bun:"id,pk,autoincrement"`
	UserID    int       `bun:"user_id,notnull"`
	Token     string    `bun:"token,unique,notnull"`
	ExpiresAt time.Time `bun:"expires_at,notnull"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin teacher finance-manager student non-teaching-staff super-admin owner"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ResetPasswordRequest is the admin dashboard's password reset: the target
// user is named by username or email.
type ResetPasswordRequest struct {
	Username    string `json:"username" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type AuthResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Username     string `json:"username"`
	Role         string `json:"role"`
}
