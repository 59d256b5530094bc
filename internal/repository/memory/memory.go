// Package memory provides in-memory implementations of the repository
// interfaces. They back the service and handler tests and are handy for local
// development without a running MongoDB.
package memory

import (
	"context"
	"sync"
	"time"

	"studyhub/classroom-app/internal/domain"
	"studyhub/classroom-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- UserRepository ---

type UserRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[primitive.ObjectID]domain.User)}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return user.ID, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		user := u
		return &user, nil
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

// --- ClassroomRepository ---

type ClassroomRepository struct {
	mu         sync.RWMutex
	classrooms map[primitive.ObjectID]domain.Classroom
}

func NewClassroomRepository() *ClassroomRepository {
	return &ClassroomRepository{classrooms: make(map[primitive.ObjectID]domain.Classroom)}
}

func (r *ClassroomRepository) Create(ctx context.Context, classroom *domain.Classroom) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	classroom.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	classroom.CreatedAt = now
	classroom.UpdatedAt = now
	r.classrooms[classroom.ID] = *classroom
	return classroom.ID, nil
}

func (r *ClassroomRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Classroom, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.classrooms[id]; ok {
		classroom := c
		return &classroom, nil
	}
	return nil, repository.ErrNotFound
}

func (r *ClassroomRepository) AddStudent(ctx context.Context, classroomID, studentID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	classroom, ok := r.classrooms[classroomID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, sid := range classroom.StudentIDs {
		if sid == studentID {
			return nil
		}
	}
	classroom.StudentIDs = append(classroom.StudentIDs, studentID)
	classroom.UpdatedAt = time.Now().UTC()
	r.classrooms[classroomID] = classroom
	return nil
}

// --- AssignmentRepository ---

type AssignmentRepository struct {
	mu          sync.RWMutex
	assignments map[primitive.ObjectID]domain.Assignment
}

func NewAssignmentRepository() *AssignmentRepository {
	return &AssignmentRepository{assignments: make(map[primitive.ObjectID]domain.Assignment)}
}

func (r *AssignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	assignment.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now
	if assignment.Points == 0 {
		assignment.Points = domain.DefaultAssignmentPoints
	}
	r.assignments[assignment.ID] = *assignment
	return assignment.ID, nil
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if a, ok := r.assignments[id]; ok {
		assignment := a
		return &assignment, nil
	}
	return nil, repository.ErrNotFound
}

func (r *AssignmentRepository) GetByClassroomID(ctx context.Context, classroomID primitive.ObjectID) ([]domain.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var assignments []domain.Assignment
	for _, a := range r.assignments {
		if a.ClassroomID == classroomID {
			assignments = append(assignments, a)
		}
	}
	return assignments, nil
}

func (r *AssignmentRepository) Update(ctx context.Context, id primitive.ObjectID, update repository.AssignmentUpdate) (*domain.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	assignment, ok := r.assignments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if update.Title != nil {
		assignment.Title = *update.Title
	}
	if update.Description != nil {
		assignment.Description = *update.Description
	}
	if update.DueDate != nil {
		due := *update.DueDate
		assignment.DueDate = &due
	}
	if update.Points != nil {
		assignment.Points = *update.Points
	}
	assignment.UpdatedAt = time.Now().UTC()
	r.assignments[id] = assignment
	return &assignment, nil
}

func (r *AssignmentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.assignments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.assignments, id)
	return nil
}

// --- SubmissionRepository ---

type SubmissionRepository struct {
	mu          sync.RWMutex
	submissions map[primitive.ObjectID]domain.Submission
}

func NewSubmissionRepository() *SubmissionRepository {
	return &SubmissionRepository{submissions: make(map[primitive.ObjectID]domain.Submission)}
}

func (r *SubmissionRepository) Upsert(ctx context.Context, assignmentID, studentID primitive.ObjectID, content string, attachments []domain.Attachment) (*domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if attachments == nil {
		attachments = []domain.Attachment{}
	}
	now := time.Now().UTC()
	for id, s := range r.submissions {
		if s.AssignmentID == assignmentID && s.StudentID == studentID {
			s.Content = content
			s.Attachments = attachments
			s.SubmittedAt = now
			s.UpdatedAt = now
			s.Status = domain.StatusSubmitted
			s.Grade = nil
			s.Feedback = ""
			s.GradedAt = nil
			s.GradedBy = nil
			r.submissions[id] = s
			submission := s
			return &submission, nil
		}
	}
	submission := domain.Submission{
		ID:           primitive.NewObjectID(),
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Content:      content,
		Attachments:  attachments,
		SubmittedAt:  now,
		UpdatedAt:    now,
		Status:       domain.StatusSubmitted,
	}
	r.submissions[submission.ID] = submission
	return &submission, nil
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.submissions[id]; ok {
		submission := s
		return &submission, nil
	}
	return nil, repository.ErrNotFound
}

func (r *SubmissionRepository) GetByAssignmentID(ctx context.Context, assignmentID primitive.ObjectID) ([]domain.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var submissions []domain.Submission
	for _, s := range r.submissions {
		if s.AssignmentID == assignmentID {
			submissions = append(submissions, s)
		}
	}
	return submissions, nil
}

func (r *SubmissionRepository) GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID primitive.ObjectID) (*domain.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.submissions {
		if s.AssignmentID == assignmentID && s.StudentID == studentID {
			submission := s
			return &submission, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *SubmissionRepository) ApplyGrade(ctx context.Context, id primitive.ObjectID, grade float64, feedback string, gradedBy primitive.ObjectID) (*domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	submission, ok := r.submissions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	now := time.Now().UTC()
	submission.Grade = &grade
	submission.Feedback = feedback
	submission.Status = domain.StatusGraded
	submission.GradedAt = &now
	submission.GradedBy = &gradedBy
	submission.UpdatedAt = now
	r.submissions[id] = submission
	return &submission, nil
}

func (r *SubmissionRepository) DeleteByAssignmentID(ctx context.Context, assignmentID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.submissions {
		if s.AssignmentID == assignmentID {
			delete(r.submissions, id)
		}
	}
	return nil
}

// Count reports how many submissions exist for an assignment; test helper.
func (r *SubmissionRepository) Count(assignmentID primitive.ObjectID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, s := range r.submissions {
		if s.AssignmentID == assignmentID {
			n++
		}
	}
	return n
}
