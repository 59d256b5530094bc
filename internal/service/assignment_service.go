package service

import (
	"context"
	"errors"
	"log"
	"time"

	"studyhub/classroom-app/internal/domain"
	"studyhub/classroom-app/internal/repository"
	"studyhub/classroom-app/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateAssignmentInput carries the fields of a new assignment.
type CreateAssignmentInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Points      int
	ClassroomID primitive.ObjectID
}

// UpdateAssignmentInput carries the partial-update fields. Nil means "leave as is".
type UpdateAssignmentInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Points      *int
}

// AssignmentService owns the Assignment lifecycle, including the cascade that
// removes submissions (and their stored payloads) when an assignment goes away.
type AssignmentService interface {
	Create(ctx context.Context, caller domain.Identity, input CreateAssignmentInput) (*domain.Assignment, error)
	Get(ctx context.Context, caller domain.Identity, assignmentID primitive.ObjectID) (*domain.Assignment, error)
	ListByClassroom(ctx context.Context, caller domain.Identity, classroomID primitive.ObjectID) ([]domain.Assignment, error)
	Update(ctx context.Context, caller domain.Identity, assignmentID primitive.ObjectID, input UpdateAssignmentInput) (*domain.Assignment, error)
	Delete(ctx context.Context, caller domain.Identity, assignmentID primitive.ObjectID) error
}

type assignmentService struct {
	assignmentRepo repository.AssignmentRepository
	submissionRepo repository.SubmissionRepository
	blobs          storage.BlobStore
	authz          *Authorizer
}

// NewAssignmentService creates a new instance of assignmentService.
func NewAssignmentService(
	assignmentRepo repository.AssignmentRepository,
	submissionRepo repository.SubmissionRepository,
	blobs storage.BlobStore,
	authz *Authorizer,
) AssignmentService {
	return &assignmentService{
		assignmentRepo: assignmentRepo,
		submissionRepo: submissionRepo,
		blobs:          blobs,
		authz:          authz,
	}
}

// Create creates an assignment in a classroom the caller instructs.
func (s *assignmentService) Create(ctx context.Context, caller domain.Identity, input CreateAssignmentInput) (*domain.Assignment, error) {
	if input.Title == "" {
		return nil, NewValidationError("assignment title cannot be empty")
	}
	if input.Points < 0 {
		return nil, NewValidationError("assignment points cannot be negative")
	}

	if _, err := s.authz.RequireInstructor(ctx, caller, input.ClassroomID); err != nil {
		return nil, err
	}

	assignment := &domain.Assignment{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Points:      input.Points,
		ClassroomID: input.ClassroomID,
		CreatedBy:   caller.SubjectID,
	}
	if assignment.Points == 0 {
		assignment.Points = domain.DefaultAssignmentPoints
	}

	id, err := s.assignmentRepo.Create(ctx, assignment)
	if err != nil {
		return nil, err
	}
	assignment.ID = id
	return assignment, nil
}

// Get returns one assignment; the caller must belong to its classroom.
func (s *assignmentService) Get(ctx context.Context, caller domain.Identity, assignmentID primitive.ObjectID) (*domain.Assignment, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	if _, err := s.authz.RequireMember(ctx, caller, assignment.ClassroomID); err != nil {
		return nil, err
	}
	return assignment, nil
}

// ListByClassroom returns the classroom's assignments for any member.
func (s *assignmentService) ListByClassroom(ctx context.Context, caller domain.Identity, classroomID primitive.ObjectID) ([]domain.Assignment, error) {
	if _, err := s.authz.RequireMember(ctx, caller, classroomID); err != nil {
		return nil, err
	}
	return s.assignmentRepo.GetByClassroomID(ctx, classroomID)
}

// Update applies a partial update (title/description/dueDate/points only).
// Only the classroom's instructor may update.
func (s *assignmentService) Update(ctx context.Context, caller domain.Identity, assignmentID primitive.ObjectID, input UpdateAssignmentInput) (*domain.Assignment, error) {
	if input.Title != nil && *input.Title == "" {
		return nil, NewValidationError("assignment title cannot be empty")
	}
	if input.Points != nil && *input.Points < 0 {
		return nil, NewValidationError("assignment points cannot be negative")
	}

	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	if _, err := s.authz.RequireInstructor(ctx, caller, assignment.ClassroomID); err != nil {
		return nil, err
	}

	updated, err := s.assignmentRepo.Update(ctx, assignmentID, repository.AssignmentUpdate{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Points:      input.Points,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes an assignment and cascades to its submissions and their
// stored payloads. Only the classroom's instructor may delete.
func (s *assignmentService) Delete(ctx context.Context, caller domain.Identity, assignmentID primitive.ObjectID) error {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}
	if _, err := s.authz.RequireInstructor(ctx, caller, assignment.ClassroomID); err != nil {
		return err
	}

	// Collect payload ids before the submissions disappear. Blob deletion is
	// best effort: an orphaned blob wastes space but breaks nothing.
	submissions, err := s.submissionRepo.GetByAssignmentID(ctx, assignmentID)
	if err != nil {
		return err
	}
	for _, submission := range submissions {
		for _, att := range submission.Attachments {
			if att.ContentID == "" {
				continue
			}
			if err := s.blobs.Delete(ctx, att.ContentID); err != nil {
				log.Printf("WARN: delete assignment %s: failed to delete blob %s: %v", assignmentID.Hex(), att.ContentID, err)
			}
		}
	}

	if err := s.submissionRepo.DeleteByAssignmentID(ctx, assignmentID); err != nil {
		return err
	}

	if err := s.assignmentRepo.Delete(ctx, assignmentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}
	return nil
}
