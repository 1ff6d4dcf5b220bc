package course

import (
	"context"
	"errors"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrDuplicateCode  = errors.New("course code already exists")
	ErrInvalidInput   = errors.New("invalid input")
)

type Service interface {
	CreateCourse(ctx context.Context, course *Course) (*Course, error)
	ListCourses(ctx context.Context) ([]CourseWithDetails, error)
	GetCourse(ctx context.Context, id int) (*Course, error)
	UpdateCourse(ctx context.Context, id int, req UpdateCourseRequest) (*Course, error)
	DeleteCourse(ctx context.Context, id int) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateCourse(ctx context.Context, course *Course) (*Course, error) {
	course.IsActive = 1
	if course.ClassIDs == nil {
		course.ClassIDs = []int{}
	}
	return s.repo.Create(ctx, course)
}

func (s *service) ListCourses(ctx context.Context) ([]CourseWithDetails, error) {
	return s.repo.ListWithDetails(ctx)
}

func (s *service) GetCourse(ctx context.Context, id int) (*Course, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// UpdateCourse applies a partial update: only the fields present in the
// request replace the stored values.
func (s *service) UpdateCourse(ctx context.Context, id int, req UpdateCourseRequest) (*Course, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Code != nil {
		existing.Code = *req.Code
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.ClassIDs != nil {
		existing.ClassIDs = *req.ClassIDs
	}

	return s.repo.Update(ctx, existing)
}

func (s *service) DeleteCourse(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	return s.repo.SoftDelete(ctx, id)
}
