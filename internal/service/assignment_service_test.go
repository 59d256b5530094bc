package service_test

import (
	"context"
	"testing"
	"time"

	"studyhub/classroom-app/internal/domain"
	"studyhub/classroom-app/internal/service"
	"studyhub/classroom-app/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAssignmentDefaultsPoints(t *testing.T) {
	f := newFixture(t)

	assignment, err := f.assignmentSvc.Create(context.Background(), f.teacher, service.CreateAssignmentInput{
		Title:       "HW1",
		ClassroomID: f.classroom.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultAssignmentPoints, assignment.Points)
	assert.Equal(t, f.teacher.SubjectID, assignment.CreatedBy)
	assert.Nil(t, assignment.DueDate)
}

func TestCreateAssignmentValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.assignmentSvc.Create(ctx, f.teacher, service.CreateAssignmentInput{
		ClassroomID: f.classroom.ID,
	})
	assert.True(t, service.IsValidationError(err), "empty title: got %v", err)

	_, err = f.assignmentSvc.Create(ctx, f.teacher, service.CreateAssignmentInput{
		Title:       "HW1",
		Points:      -5,
		ClassroomID: f.classroom.ID,
	})
	assert.True(t, service.IsValidationError(err), "negative points: got %v", err)
}

func TestCreateAssignmentByStudentForbidden(t *testing.T) {
	f := newFixture(t)

	_, err := f.assignmentSvc.Create(context.Background(), f.studentA, service.CreateAssignmentInput{
		Title:       "HW1",
		ClassroomID: f.classroom.ID,
	})
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestGetAssignmentRequiresMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	assignment := f.createAssignment(t, "HW1")
	outsider := f.createUser(t, "Oskars", "oskars@example.com", domain.RoleStudent)

	got, err := f.assignmentSvc.Get(ctx, f.studentA, assignment.ID)
	require.NoError(t, err)
	assert.Equal(t, assignment.ID, got.ID)

	_, err = f.assignmentSvc.Get(ctx, outsider, assignment.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestListAssignmentsByClassroom(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createAssignment(t, "HW1")
	f.createAssignment(t, "HW2")

	assignments, err := f.assignmentSvc.ListByClassroom(ctx, f.studentA, f.classroom.ID)
	require.NoError(t, err)
	assert.Len(t, assignments, 2)

	outsider := f.createUser(t, "Oskars", "oskars@example.com", domain.RoleStudent)
	_, err = f.assignmentSvc.ListByClassroom(ctx, outsider, f.classroom.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestUpdateAssignmentPartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	assignment := f.createAssignment(t, "HW1")

	due := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)
	title := "HW1 (revised)"
	updated, err := f.assignmentSvc.Update(ctx, f.teacher, assignment.ID, service.UpdateAssignmentInput{
		Title:   &title,
		DueDate: &due,
	})
	require.NoError(t, err)

	assert.Equal(t, "HW1 (revised)", updated.Title)
	require.NotNil(t, updated.DueDate)
	assert.True(t, updated.DueDate.Equal(due))
	// Untouched fields survive.
	assert.Equal(t, domain.DefaultAssignmentPoints, updated.Points)
	assert.Equal(t, assignment.Description, updated.Description)
}

func TestUpdateAssignmentByStudentForbidden(t *testing.T) {
	f := newFixture(t)
	assignment := f.createAssignment(t, "HW1")

	title := "hijacked"
	_, err := f.assignmentSvc.Update(context.Background(), f.studentA, assignment.ID, service.UpdateAssignmentInput{Title: &title})
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestDeleteAssignmentCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	assignment := f.createAssignment(t, "HW1")

	submission, err := f.submissionSvc.Submit(ctx, f.studentA, assignment.ID, "v1", []service.FileInput{
		{Name: "essay.txt", MimeType: "text/plain", Data: b64("essay")},
	})
	require.NoError(t, err)
	_, err = f.submissionSvc.Submit(ctx, f.studentB, assignment.ID, "v1", nil)
	require.NoError(t, err)
	contentID := submission.Attachments[0].ContentID

	require.NoError(t, f.assignmentSvc.Delete(ctx, f.teacher, assignment.ID))

	// Assignment, submissions and stored payloads are all gone.
	_, err = f.assignmentSvc.Get(ctx, f.teacher, assignment.ID)
	assert.ErrorIs(t, err, service.ErrAssignmentNotFound)
	assert.Equal(t, 0, f.submissions.Count(assignment.ID))
	_, err = f.blobs.Get(ctx, contentID)
	assert.ErrorIs(t, err, storage.ErrBlobNotFound)
}

func TestDeleteAssignmentByStudentForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	assignment := f.createAssignment(t, "HW1")

	err := f.assignmentSvc.Delete(ctx, f.studentA, assignment.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	// Still there.
	_, err = f.assignmentSvc.Get(ctx, f.teacher, assignment.ID)
	assert.NoError(t, err)
}

func TestDeleteMissingAssignment(t *testing.T) {
	f := newFixture(t)

	err := f.assignmentSvc.Delete(context.Background(), f.teacher, f.classroom.ID)
	assert.ErrorIs(t, err, service.ErrAssignmentNotFound)
}
