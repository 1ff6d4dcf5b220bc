package staff

import (
	"context"
	"errors"

	"school-service/internal/auth"
)

var (
	ErrStaffNotFound = errors.New("staff member not found")
	ErrStaffExists   = errors.New("staff email or username already exists")
	ErrInvalidInput  = errors.New("invalid input")
)

type Service interface {
	CreateStaff(ctx context.Context, req CreateStaffRequest) (*Staff, error)
	ListStaff(ctx context.Context, staffType string) ([]Staff, error)
	GetStaff(ctx context.Context, id int) (*Staff, error)
	UpdateStaff(ctx context.Context, member *Staff) (*Staff, error)
	DeleteStaff(ctx context.Context, id int) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateStaff(ctx context.Context, req CreateStaffRequest) (*Staff, error) {
	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := auth.RoleNonTeachingStaff
	if req.Type == TypeTeaching {
		role = auth.RoleTeacher
	}
	user := &auth.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashedPassword,
		Role:     role,
		IsActive: 1,
	}

	member := req.Staff
	member.IsActive = 1
	return s.repo.CreateWithUser(ctx, &member, user)
}

func (s *service) ListStaff(ctx context.Context, staffType string) ([]Staff, error) {
	if staffType != "" && staffType != TypeTeaching && staffType != TypeNonTeaching {
		return nil, ErrInvalidInput
	}
	return s.repo.List(ctx, staffType)
}

func (s *service) GetStaff(ctx context.Context, id int) (*Staff, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateStaff(ctx context.Context, member *Staff) (*Staff, error) {
	if member.ID <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.Update(ctx, member)
}

func (s *service) DeleteStaff(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	return s.repo.SoftDelete(ctx, id)
}
