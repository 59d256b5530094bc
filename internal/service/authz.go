package service

import (
	"context"
	"errors"

	"studyhub/classroom-app/internal/domain"
	"studyhub/classroom-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Authorizer is the single place deciding "may this caller act on this
// classroom". Every operation consumes it instead of re-implementing
// instructor/membership checks inline.
type Authorizer struct {
	classroomRepo repository.ClassroomRepository
}

func NewAuthorizer(classroomRepo repository.ClassroomRepository) *Authorizer {
	return &Authorizer{classroomRepo: classroomRepo}
}

// RequireInstructor succeeds only when the caller is the instructor of the
// classroom. Returns ErrClassroomNotFound or ErrForbidden otherwise.
func (a *Authorizer) RequireInstructor(ctx context.Context, caller domain.Identity, classroomID primitive.ObjectID) (*domain.Classroom, error) {
	classroom, err := a.classroomRepo.GetByID(ctx, classroomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClassroomNotFound
		}
		return nil, err
	}
	if caller.Role != domain.RoleTeacher || classroom.InstructorID != caller.SubjectID {
		return nil, ErrForbidden
	}
	return classroom, nil
}

// RequireMember succeeds when the caller is the classroom's instructor or one
// of its enrolled students.
func (a *Authorizer) RequireMember(ctx context.Context, caller domain.Identity, classroomID primitive.ObjectID) (*domain.Classroom, error) {
	classroom, err := a.classroomRepo.GetByID(ctx, classroomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClassroomNotFound
		}
		return nil, err
	}
	if classroom.InstructorID == caller.SubjectID || classroom.HasStudent(caller.SubjectID) {
		return classroom, nil
	}
	return nil, ErrForbidden
}

// IsInstructor reports membership role without failing the request; used where
// the same operation behaves differently for instructors and students.
func (a *Authorizer) IsInstructor(caller domain.Identity, classroom *domain.Classroom) bool {
	return caller.Role == domain.RoleTeacher && classroom.InstructorID == caller.SubjectID
}
