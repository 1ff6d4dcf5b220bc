package student

import (
	"context"
	"errors"
	"log/slog"

	"school-service/internal/auth"
	"school-service/internal/messaging"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrStudentExists   = errors.New("username, email or roll number already exists")
	ErrClassNotFound   = errors.New("class not found")
	ErrSectionNotFound = errors.New("section not found")
	ErrInvalidInput    = errors.New("invalid input")
)

type Service interface {
	CreateStudent(ctx context.Context, req CreateStudentRequest) (*Student, error)
	ListStudents(ctx context.Context, filter ListFilter) (*StudentList, error)
	GetStudent(ctx context.Context, id int) (*Student, error)
	UpdateStudent(ctx context.Context, stu *Student) (*Student, error)
	DeleteStudent(ctx context.Context, id int) error
}

type service struct {
	repo   Repository
	events messaging.Publisher
	logger *slog.Logger
}

func NewService(repo Repository, events messaging.Publisher, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

func (s *service) CreateStudent(ctx context.Context, req CreateStudentRequest) (*Student, error) {
	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	email := req.GuardianEmail
	if email == "" {
		email = req.Username + "@school.com"
	}
	user := &auth.User{
		Username: req.Username,
		Email:    email,
		Password: hashedPassword,
		Role:     auth.RoleStudent,
		IsActive: 1,
	}

	stu := req.Student
	stu.IsActive = 1
	created, err := s.repo.CreateWithUser(ctx, &stu, user)
	if err != nil {
		return nil, err
	}

	s.publish("student.created", created.ID)
	return created, nil
}

func (s *service) ListStudents(ctx context.Context, filter ListFilter) (*StudentList, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) GetStudent(ctx context.Context, id int) (*Student, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateStudent(ctx context.Context, stu *Student) (*Student, error) {
	if stu.ID <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.Update(ctx, stu)
}

func (s *service) DeleteStudent(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.publish("student.deleted", id)
	return nil
}

func (s *service) publish(eventType string, id int) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(messaging.NewEvent(eventType, "students", id)); err != nil {
		s.logger.Warn("failed to publish student event", "error", err, "student_id", id)
	}
}
