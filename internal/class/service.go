package class

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrClassNotFound = errors.New("class not found")
	ErrInvalidInput  = errors.New("invalid input")
)

type Service interface {
	CreateClass(ctx context.Context, req SaveClassRequest) (*Class, error)
	ListClasses(ctx context.Context) ([]ClassWithSections, error)
	UpdateClass(ctx context.Context, id int, req SaveClassRequest) (*Class, error)
	DeleteClass(ctx context.Context, id int) error
	SectionsByClassIDs(ctx context.Context, classIDs []int) ([]Section, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateClass(ctx context.Context, req SaveClassRequest) (*Class, error) {
	sectionNames, err := normalizeSectionNames(req.Sections)
	if err != nil {
		return nil, err
	}

	cls := &Class{
		Name:     req.Name,
		Session:  req.Session,
		IsActive: 1,
	}
	return s.repo.CreateWithSections(ctx, cls, sectionNames)
}

func (s *service) ListClasses(ctx context.Context) ([]ClassWithSections, error) {
	return s.repo.List(ctx)
}

func (s *service) UpdateClass(ctx context.Context, id int, req SaveClassRequest) (*Class, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	sectionNames, err := normalizeSectionNames(req.Sections)
	if err != nil {
		return nil, err
	}

	cls := &Class{
		ID:       id,
		Name:     req.Name,
		Session:  req.Session,
		IsActive: 1,
	}
	return s.repo.UpdateWithSections(ctx, cls, sectionNames)
}

func (s *service) DeleteClass(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *service) SectionsByClassIDs(ctx context.Context, classIDs []int) ([]Section, error) {
	if len(classIDs) == 0 {
		return nil, fmt.Errorf("%w: classIds must not be empty", ErrInvalidInput)
	}
	return s.repo.SectionsByClassIDs(ctx, classIDs)
}

// normalizeSectionNames trims and de-duplicates the incoming section names.
// An empty list or a blank name rejects the whole request.
func normalizeSectionNames(names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: at least one section is required", ErrInvalidInput)
	}

	seen := make(map[string]bool, len(names))
	result := make([]string, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: section name must not be blank", ErrInvalidInput)
		}
		if seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		result = append(result, trimmed)
	}
	return result, nil
}
