package service_test

import (
	"context"
	"testing"

	"studyhub/classroom-app/internal/domain"
	"studyhub/classroom-app/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateClassroom(t *testing.T) {
	f := newFixture(t)

	classroom, err := f.classroomSvc.Create(context.Background(), f.teacher, "Physics 201")
	require.NoError(t, err)

	assert.Equal(t, "Physics 201", classroom.Name)
	assert.Equal(t, f.teacher.SubjectID, classroom.InstructorID)
	assert.Empty(t, classroom.StudentIDs)
}

func TestCreateClassroomByStudentForbidden(t *testing.T) {
	f := newFixture(t)

	_, err := f.classroomSvc.Create(context.Background(), f.studentA, "Sneaky 101")
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestCreateClassroomEmptyName(t *testing.T) {
	f := newFixture(t)

	_, err := f.classroomSvc.Create(context.Background(), f.teacher, "")
	assert.True(t, service.IsValidationError(err), "expected validation error, got %v", err)
}

func TestGetClassroomMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, caller := range []domain.Identity{f.teacher, f.studentA, f.studentB} {
		classroom, err := f.classroomSvc.Get(ctx, caller, f.classroom.ID)
		require.NoError(t, err)
		assert.Equal(t, f.classroom.ID, classroom.ID)
	}

	outsider := f.createUser(t, "Oskars", "oskars@example.com", domain.RoleStudent)
	_, err := f.classroomSvc.Get(ctx, outsider, f.classroom.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestAddStudentByEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	newcomer := f.createUser(t, "Dace Kalnina", "dace@example.com", domain.RoleStudent)

	student, err := f.classroomSvc.AddStudentByEmail(ctx, f.teacher, f.classroom.ID, "dace@example.com")
	require.NoError(t, err)
	assert.Equal(t, newcomer.SubjectID, student.ID)
	assert.Empty(t, student.PasswordHash)

	classroom, err := f.classrooms.GetByID(ctx, f.classroom.ID)
	require.NoError(t, err)
	assert.True(t, classroom.HasStudent(newcomer.SubjectID))
}

func TestAddStudentByEmailIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.classroomSvc.AddStudentByEmail(ctx, f.teacher, f.classroom.ID, "arturs@example.com")
	require.NoError(t, err)

	classroom, err := f.classrooms.GetByID(ctx, f.classroom.ID)
	require.NoError(t, err)
	assert.Len(t, classroom.StudentIDs, 2)
}

func TestAddStudentUnknownEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.classroomSvc.AddStudentByEmail(context.Background(), f.teacher, f.classroom.ID, "nobody@example.com")
	assert.ErrorIs(t, err, service.ErrStudentNotFound)
}

func TestAddStudentRejectsTeacherAccount(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "Rita", "rita@example.com", domain.RoleTeacher)

	_, err := f.classroomSvc.AddStudentByEmail(context.Background(), f.teacher, f.classroom.ID, "rita@example.com")
	assert.ErrorIs(t, err, service.ErrNotAStudent)
}

func TestAddStudentByNonInstructorForbidden(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "Dace Kalnina", "dace@example.com", domain.RoleStudent)

	_, err := f.classroomSvc.AddStudentByEmail(context.Background(), f.studentA, f.classroom.ID, "dace@example.com")
	assert.ErrorIs(t, err, service.ErrForbidden)
}
