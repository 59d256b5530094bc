package service

import (
	"context"
	"errors"

	"studyhub/classroom-app/internal/domain"
	"studyhub/classroom-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrStudentNotFound = errors.New("no student account exists for this email")
	ErrNotAStudent     = errors.New("user is not a student")
)

// ClassroomService manages the enrollment/ownership boundary that the
// assignment and submission operations authorize against.
type ClassroomService interface {
	Create(ctx context.Context, caller domain.Identity, name string) (*domain.Classroom, error)
	Get(ctx context.Context, caller domain.Identity, classroomID primitive.ObjectID) (*domain.Classroom, error)
	AddStudentByEmail(ctx context.Context, caller domain.Identity, classroomID primitive.ObjectID, email string) (*domain.User, error)
}

type classroomService struct {
	classroomRepo repository.ClassroomRepository
	userRepo      repository.UserRepository
	authz         *Authorizer
}

// NewClassroomService creates a new instance of classroomService.
func NewClassroomService(classroomRepo repository.ClassroomRepository, userRepo repository.UserRepository, authz *Authorizer) ClassroomService {
	return &classroomService{
		classroomRepo: classroomRepo,
		userRepo:      userRepo,
		authz:         authz,
	}
}

// Create creates a classroom owned by the calling teacher.
func (s *classroomService) Create(ctx context.Context, caller domain.Identity, name string) (*domain.Classroom, error) {
	if caller.Role != domain.RoleTeacher {
		return nil, ErrForbidden
	}
	if name == "" {
		return nil, NewValidationError("classroom name cannot be empty")
	}

	classroom := &domain.Classroom{
		Name:         name,
		InstructorID: caller.SubjectID,
	}
	id, err := s.classroomRepo.Create(ctx, classroom)
	if err != nil {
		return nil, err
	}
	classroom.ID = id
	return classroom, nil
}

// Get returns a classroom the caller belongs to (as instructor or student).
func (s *classroomService) Get(ctx context.Context, caller domain.Identity, classroomID primitive.ObjectID) (*domain.Classroom, error) {
	return s.authz.RequireMember(ctx, caller, classroomID)
}

// AddStudentByEmail enrolls an existing student account into the classroom.
// Only the classroom's instructor may enroll.
func (s *classroomService) AddStudentByEmail(ctx context.Context, caller domain.Identity, classroomID primitive.ObjectID, email string) (*domain.User, error) {
	if email == "" {
		return nil, NewValidationError("student email cannot be empty")
	}

	if _, err := s.authz.RequireInstructor(ctx, caller, classroomID); err != nil {
		return nil, err
	}

	student, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	if !student.IsStudent() {
		return nil, ErrNotAStudent
	}

	if err := s.classroomRepo.AddStudent(ctx, classroomID, student.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClassroomNotFound
		}
		return nil, err
	}

	student.PasswordHash = ""
	return student, nil
}
