package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"studyhub/classroom-app/internal/attachment"
	"studyhub/classroom-app/internal/domain"
	"studyhub/classroom-app/internal/repository"
	"studyhub/classroom-app/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FileInput is one incoming attachment: metadata plus the payload in its
// transport (base64) form.
type FileInput struct {
	Name     string
	MimeType string
	Data     string
}

// StudentInfo is the display identity a submission row is enriched with.
type StudentInfo struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

// SubmissionView is a submission enriched with the submitting student's
// display identity.
type SubmissionView struct {
	domain.Submission
	Student *StudentInfo `json:"student,omitempty"`
}

// SubmissionService owns the submit → grade workflow and the read paths over it.
type SubmissionService interface {
	// Submit creates or overwrites the caller's submission for the assignment.
	// Resubmission keeps the submission id, replaces content/attachments and
	// resets any previous grade.
	Submit(ctx context.Context, caller domain.Identity, assignmentID primitive.ObjectID, content string, files []FileInput) (*domain.Submission, error)

	// List returns the assignment's submissions: all of them (enriched with
	// student identity via one batched lookup) for the instructor, only the
	// caller's own for a student.
	List(ctx context.Context, caller domain.Identity, assignmentID primitive.ObjectID) ([]SubmissionView, error)

	// Grade validates and applies grade+feedback to a submission. A nil grade
	// is a validation error and never mutates the submission.
	Grade(ctx context.Context, caller domain.Identity, assignmentID, submissionID primitive.ObjectID, grade *float64, feedback string) (*domain.Submission, error)

	// Download resolves one attachment of a submission by positional index.
	Download(ctx context.Context, caller domain.Identity, assignmentID, submissionID primitive.ObjectID, fileIndex int) (*attachment.Download, error)
}

type submissionService struct {
	assignmentRepo repository.AssignmentRepository
	submissionRepo repository.SubmissionRepository
	userRepo       repository.UserRepository
	blobs          storage.BlobStore
	authz          *Authorizer
}

// NewSubmissionService creates a new instance of submissionService.
func NewSubmissionService(
	assignmentRepo repository.AssignmentRepository,
	submissionRepo repository.SubmissionRepository,
	userRepo repository.UserRepository,
	blobs storage.BlobStore,
	authz *Authorizer,
) SubmissionService {
	return &submissionService{
		assignmentRepo: assignmentRepo,
		submissionRepo: submissionRepo,
		userRepo:       userRepo,
		blobs:          blobs,
		authz:          authz,
	}
}

// Submit creates or overwrites the caller's submission for the assignment.
func (s *submissionService) Submit(ctx context.Context, caller domain.Identity, assignmentID primitive.ObjectID, content string, files []FileInput) (*domain.Submission, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	classroom, err := s.authz.RequireMember(ctx, caller, assignment.ClassroomID)
	if err != nil {
		return nil, err
	}
	if s.authz.IsInstructor(caller, classroom) {
		// Instructors grade, they don't submit.
		return nil, ErrForbidden
	}

	// Validate and stage every payload before touching the submission, so a
	// bad third file cannot leave a half-replaced attachment list.
	attachments := make([]domain.Attachment, 0, len(files))
	staged := make([]string, 0, len(files))
	for i, file := range files {
		raw, err := attachment.Decode(file.Data)
		if err != nil {
			s.cleanupBlobs(ctx, staged)
			return nil, NewValidationError(fmt.Sprintf("attachment %q is not valid base64", file.Name))
		}
		encoded, err := attachment.Encode(raw)
		if err != nil {
			s.cleanupBlobs(ctx, staged)
			return nil, NewValidationError(fmt.Sprintf("attachment %q exceeds the %d byte limit", file.Name, int64(attachment.MaxAttachmentSize)))
		}

		contentID := uuid.NewString()
		if err := s.blobs.Put(ctx, contentID, encoded); err != nil {
			s.cleanupBlobs(ctx, staged)
			return nil, err
		}
		staged = append(staged, contentID)

		name := file.Name
		if name == "" {
			name = fmt.Sprintf("attachment-%d", i+1)
		}
		attachments = append(attachments, domain.Attachment{
			Name:      name,
			MimeType:  file.MimeType,
			SizeBytes: int64(len(raw)),
			ContentID: contentID,
		})
	}

	// Remember the payloads being replaced; the document swap below is the
	// atomic step, old blobs are cleaned up best effort afterwards.
	var replaced []string
	if previous, err := s.submissionRepo.GetByAssignmentAndStudent(ctx, assignmentID, caller.SubjectID); err == nil {
		for _, att := range previous.Attachments {
			if att.ContentID != "" {
				replaced = append(replaced, att.ContentID)
			}
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.cleanupBlobs(ctx, staged)
		return nil, err
	}

	submission, err := s.submissionRepo.Upsert(ctx, assignmentID, caller.SubjectID, content, attachments)
	if err != nil {
		s.cleanupBlobs(ctx, staged)
		return nil, err
	}

	s.cleanupBlobs(ctx, replaced)
	return submission, nil
}

// cleanupBlobs removes stored payloads that are no longer referenced.
func (s *submissionService) cleanupBlobs(ctx context.Context, contentIDs []string) {
	for _, id := range contentIDs {
		if err := s.blobs.Delete(ctx, id); err != nil {
			log.Printf("WARN: failed to delete blob %s: %v", id, err)
		}
	}
}

// List returns the assignment's submissions, narrowed for student callers.
func (s *submissionService) List(ctx context.Context, caller domain.Identity, assignmentID primitive.ObjectID) ([]SubmissionView, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	classroom, err := s.authz.RequireMember(ctx, caller, assignment.ClassroomID)
	if err != nil {
		return nil, err
	}

	var submissions []domain.Submission
	if s.authz.IsInstructor(caller, classroom) {
		submissions, err = s.submissionRepo.GetByAssignmentID(ctx, assignmentID)
		if err != nil {
			return nil, err
		}
	} else {
		// A student only ever sees their own row (at most one).
		own, err := s.submissionRepo.GetByAssignmentAndStudent(ctx, assignmentID, caller.SubjectID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return []SubmissionView{}, nil
			}
			return nil, err
		}
		submissions = []domain.Submission{*own}
	}

	return s.enrich(ctx, submissions)
}

// enrich attaches student display identity to each row using a single batched
// user lookup, regardless of submission count.
func (s *submissionService) enrich(ctx context.Context, submissions []domain.Submission) ([]SubmissionView, error) {
	ids := make([]primitive.ObjectID, 0, len(submissions))
	seen := make(map[primitive.ObjectID]bool, len(submissions))
	for _, submission := range submissions {
		if !seen[submission.StudentID] {
			seen[submission.StudentID] = true
			ids = append(ids, submission.StudentID)
		}
	}

	students, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]domain.User, len(students))
	for _, student := range students {
		byID[student.ID] = student
	}

	views := make([]SubmissionView, len(submissions))
	for i, submission := range submissions {
		views[i] = SubmissionView{Submission: submission}
		if student, ok := byID[submission.StudentID]; ok {
			views[i].Student = &StudentInfo{
				ID:    student.ID,
				Name:  student.Name,
				Email: student.Email,
			}
		}
	}
	return views, nil
}

// Grade validates and applies grade+feedback, flipping status to "graded".
func (s *submissionService) Grade(ctx context.Context, caller domain.Identity, assignmentID, submissionID primitive.ObjectID, grade *float64, feedback string) (*domain.Submission, error) {
	// A missing grade is a validation failure, never a default of zero; checked
	// first so an invalid request cannot mutate anything.
	if grade == nil {
		return nil, NewValidationError("grade is required")
	}

	submission, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	if submission.AssignmentID != assignmentID {
		return nil, ErrSubmissionNotFound
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

	graded, err := s.submissionRepo.ApplyGrade(ctx, submissionID, *grade, feedback, caller.SubjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return graded, nil
}

// Download resolves one attachment by positional index. The instructor and the
// submitting student may download; anyone else is refused.
func (s *submissionService) Download(ctx context.Context, caller domain.Identity, assignmentID, submissionID primitive.ObjectID, fileIndex int) (*attachment.Download, error) {
	submission, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	if submission.AssignmentID != assignmentID {
		return nil, ErrSubmissionNotFound
	}

	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	classroom, err := s.authz.RequireMember(ctx, caller, assignment.ClassroomID)
	if err != nil {
		return nil, err
	}
	if !s.authz.IsInstructor(caller, classroom) && submission.StudentID != caller.SubjectID {
		return nil, ErrForbidden
	}

	return attachment.BuildDownload(ctx, s.blobs, submission, fileIndex)
}
