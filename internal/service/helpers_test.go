package service_test

import (
	"context"
	"encoding/base64"
	"sync/atomic"
	"testing"

	"studyhub/classroom-app/internal/domain"
	"studyhub/classroom-app/internal/repository/memory"
	"studyhub/classroom-app/internal/service"
	"studyhub/classroom-app/internal/storage"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// countingUserRepo wraps the in-memory user repository and counts batch
// lookups, so tests can assert enrichment never degrades to N queries.
type countingUserRepo struct {
	*memory.UserRepository
	batchCalls atomic.Int64
}

func (r *countingUserRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error) {
	r.batchCalls.Add(1)
	return r.UserRepository.GetByIDs(ctx, ids)
}

// fixture wires the services over in-memory repositories with one classroom:
// a teacher instructing it and two enrolled students.
type fixture struct {
	users       *countingUserRepo
	classrooms  *memory.ClassroomRepository
	assignments *memory.AssignmentRepository
	submissions *memory.SubmissionRepository
	blobs       storage.BlobStore

	classroomSvc  service.ClassroomService
	assignmentSvc service.AssignmentService
	submissionSvc service.SubmissionService

	teacher  domain.Identity
	studentA domain.Identity
	studentB domain.Identity

	classroom *domain.Classroom
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		users:       &countingUserRepo{UserRepository: memory.NewUserRepository()},
		classrooms:  memory.NewClassroomRepository(),
		assignments: memory.NewAssignmentRepository(),
		submissions: memory.NewSubmissionRepository(),
		blobs:       storage.NewMemoryBlobStore(),
	}

	authz := service.NewAuthorizer(f.classrooms)
	f.classroomSvc = service.NewClassroomService(f.classrooms, f.users, authz)
	f.assignmentSvc = service.NewAssignmentService(f.assignments, f.submissions, f.blobs, authz)
	f.submissionSvc = service.NewSubmissionService(f.assignments, f.submissions, f.users, f.blobs, authz)

	f.teacher = f.createUser(t, "Greta Jansone", "greta@example.com", domain.RoleTeacher)
	f.studentA = f.createUser(t, "Arturs Ozols", "arturs@example.com", domain.RoleStudent)
	f.studentB = f.createUser(t, "Beate Liepa", "beate@example.com", domain.RoleStudent)

	classroom, err := f.classroomSvc.Create(ctx, f.teacher, "Algorithms 101")
	require.NoError(t, err)
	_, err = f.classroomSvc.AddStudentByEmail(ctx, f.teacher, classroom.ID, "arturs@example.com")
	require.NoError(t, err)
	_, err = f.classroomSvc.AddStudentByEmail(ctx, f.teacher, classroom.ID, "beate@example.com")
	require.NoError(t, err)

	f.classroom, err = f.classrooms.GetByID(ctx, classroom.ID)
	require.NoError(t, err)

	return f
}

func (f *fixture) createUser(t *testing.T, name, email string, role domain.Role) domain.Identity {
	t.Helper()
	user := &domain.User{Name: name, Email: email, PasswordHash: "x", Role: role}
	id, err := f.users.Create(context.Background(), user)
	require.NoError(t, err)
	return domain.Identity{SubjectID: id, Email: email, Role: role}
}

func (f *fixture) createAssignment(t *testing.T, title string) *domain.Assignment {
	t.Helper()
	assignment, err := f.assignmentSvc.Create(context.Background(), f.teacher, service.CreateAssignmentInput{
		Title:       title,
		ClassroomID: f.classroom.ID,
	})
	require.NoError(t, err)
	return assignment
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func gradePtr(g float64) *float64 {
	return &g
}
