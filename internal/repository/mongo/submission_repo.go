package mongo

import (
	"context"
	"errors"
	"time"

	"studyhub/classroom-app/internal/domain"
	"studyhub/classroom-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const submissionCollectionName = "submissions"

// mongoSubmissionRepository implements repository.SubmissionRepository
type mongoSubmissionRepository struct {
	collection *mongo.Collection
}

// NewMongoSubmissionRepository creates a new Submission repository backed by MongoDB.
func NewMongoSubmissionRepository(db *mongo.Database) repository.SubmissionRepository {
	return &mongoSubmissionRepository{
		collection: db.Collection(submissionCollectionName),
	}
}

// Upsert atomically creates or overwrites the submission for the
// (assignmentID, studentID) pair in a single FindOneAndUpdate. Two concurrent
// submits therefore cannot race into two documents; the unique compound index
// from EnsureSubmissionIndexes backs the same invariant at the schema level.
//
// On resubmission the grading fields are cleared and status returns to
// "submitted": the previous grade was issued against a payload that no longer
// exists.
func (r *mongoSubmissionRepository) Upsert(ctx context.Context, assignmentID, studentID primitive.ObjectID, content string, attachments []domain.Attachment) (*domain.Submission, error) {
	if assignmentID == primitive.NilObjectID || studentID == primitive.NilObjectID {
		return nil, errors.New("submission requires assignmentId and studentId")
	}
	if attachments == nil {
		attachments = []domain.Attachment{}
	}

	now := time.Now().UTC()
	filter := bson.M{"assignmentId": assignmentID, "studentId": studentID}
	update := bson.M{
		"$set": bson.M{
			"content":     content,
			"attachments": attachments,
			"submittedAt": now,
			"updatedAt":   now,
			"status":      domain.StatusSubmitted,
		},
		"$unset": bson.M{
			"grade":    "",
			"feedback": "",
			"gradedAt": "",
			"gradedBy": "",
		},
		"$setOnInsert": bson.M{
			"_id":          primitive.NewObjectID(),
			"assignmentId": assignmentID,
			"studentId":    studentID,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var submission domain.Submission
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&submission); err != nil {
		return nil, err
	}
	return &submission, nil
}

// GetByID retrieves a submission by its ID.
func (r *mongoSubmissionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Submission, error) {
	var submission domain.Submission
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&submission)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &submission, nil
}

// GetByAssignmentID retrieves all submissions for an assignment, newest first.
func (r *mongoSubmissionRepository) GetByAssignmentID(ctx context.Context, assignmentID primitive.ObjectID) ([]domain.Submission, error) {
	var submissions []domain.Submission
	filter := bson.M{"assignmentId": assignmentID}
	findOptions := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &submissions); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return submissions, nil
}

// GetByAssignmentAndStudent retrieves the single submission of a student for
// an assignment (at most one exists per pair).
func (r *mongoSubmissionRepository) GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID primitive.ObjectID) (*domain.Submission, error) {
	var submission domain.Submission
	filter := bson.M{"assignmentId": assignmentID, "studentId": studentID}

	err := r.collection.FindOne(ctx, filter).Decode(&submission)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &submission, nil
}

// ApplyGrade sets the grading fields and flips status to "graded" in one
// update. Re-grading simply overwrites.
func (r *mongoSubmissionRepository) ApplyGrade(ctx context.Context, id primitive.ObjectID, grade float64, feedback string, gradedBy primitive.ObjectID) (*domain.Submission, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"grade":     grade,
			"feedback":  feedback,
			"status":    domain.StatusGraded,
			"gradedAt":  now,
			"gradedBy":  gradedBy,
			"updatedAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var submission domain.Submission
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&submission)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &submission, nil
}

// DeleteByAssignmentID removes all submissions of an assignment (cascade of
// assignment deletion). Deleting zero documents is not an error.
func (r *mongoSubmissionRepository) DeleteByAssignmentID(ctx context.Context, assignmentID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"assignmentId": assignmentID})
	return err
}

// EnsureSubmissionIndexes creates necessary indexes for the submissions collection.
func EnsureSubmissionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// At most one submission per (assignment, student) pair.
			Keys:    bson.D{{Key: "assignmentId", Value: 1}, {Key: "studentId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "studentId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Non-fatal; see EnsureUserIndexes.
	}
}
