package repository

import (
	"context"
	"time"

	"studyhub/classroom-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// GetByIDs resolves a batch of user IDs in a single query. Missing IDs are
	// silently skipped; the result preserves no particular order.
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error)
}

// ClassroomRepository defines the interface for interacting with classroom data.
type ClassroomRepository interface {
	Create(ctx context.Context, classroom *domain.Classroom) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Classroom, error)
	AddStudent(ctx context.Context, classroomID, studentID primitive.ObjectID) error
}

// AssignmentUpdate carries the partial-update fields of an assignment.
// Nil fields are left untouched.
type AssignmentUpdate struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Points      *int
}

// AssignmentRepository defines the interface for interacting with assignment data.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.Assignment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Assignment, error)
	GetByClassroomID(ctx context.Context, classroomID primitive.ObjectID) ([]domain.Assignment, error)
	Update(ctx context.Context, id primitive.ObjectID, update AssignmentUpdate) (*domain.Assignment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// SubmissionRepository defines the interface for interacting with submission data.
type SubmissionRepository interface {
	// Upsert atomically creates or overwrites the submission for the
	// (assignmentID, studentID) pair. On overwrite the grading fields are
	// cleared and status returns to "submitted". Returns the post-write document.
	Upsert(ctx context.Context, assignmentID, studentID primitive.ObjectID, content string, attachments []domain.Attachment) (*domain.Submission, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Submission, error)
	GetByAssignmentID(ctx context.Context, assignmentID primitive.ObjectID) ([]domain.Submission, error)
	GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID primitive.ObjectID) (*domain.Submission, error)
	// ApplyGrade sets grade/feedback/gradedAt/gradedBy and flips status to
	// "graded" in a single update. Returns the post-write document.
	ApplyGrade(ctx context.Context, id primitive.ObjectID, grade float64, feedback string, gradedBy primitive.ObjectID) (*domain.Submission, error)
	DeleteByAssignmentID(ctx context.Context, assignmentID primitive.ObjectID) error
}
