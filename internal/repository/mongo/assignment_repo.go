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

const assignmentCollectionName = "assignments"

// mongoAssignmentRepository implements repository.AssignmentRepository
type mongoAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAssignmentRepository creates a new Assignment repository backed by MongoDB.
func NewMongoAssignmentRepository(db *mongo.Database) repository.AssignmentRepository {
	return &mongoAssignmentRepository{
		collection: db.Collection(assignmentCollectionName),
	}
}

// Create inserts a new assignment into the database.
func (r *mongoAssignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) (primitive.ObjectID, error) {
	if assignment.Title == "" ||
		assignment.ClassroomID == primitive.NilObjectID ||
		assignment.CreatedBy == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("assignment requires title, classroomId and createdBy")
	}

	assignment.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now
	if assignment.Points == 0 {
		assignment.Points = domain.DefaultAssignmentPoints
	}

	result, err := r.collection.InsertOne(ctx, assignment)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted assignment ID")
	}

	return insertedID, nil
}

// GetByID retrieves an assignment by its ID.
func (r *mongoAssignmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Assignment, error) {
	var assignment domain.Assignment
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&assignment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// GetByClassroomID retrieves all assignments of a classroom, newest first.
func (r *mongoAssignmentRepository) GetByClassroomID(ctx context.Context, classroomID primitive.ObjectID) ([]domain.Assignment, error) {
	var assignments []domain.Assignment
	filter := bson.M{"classroomId": classroomID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}

// Update applies a partial update (title/description/dueDate/points only) and
// returns the post-update document.
func (r *mongoAssignmentRepository) Update(ctx context.Context, id primitive.ObjectID, update repository.AssignmentUpdate) (*domain.Assignment, error) {
	setFields := bson.M{"updatedAt": time.Now().UTC()}
	if update.Title != nil {
		setFields["title"] = *update.Title
	}
	if update.Description != nil {
		setFields["description"] = *update.Description
	}
	if update.DueDate != nil {
		setFields["dueDate"] = *update.DueDate
	}
	if update.Points != nil {
		setFields["points"] = *update.Points
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var assignment domain.Assignment
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": setFields}, opts).Decode(&assignment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// Delete removes an assignment. Cascading submission deletion is the
// responsibility of the service layer.
func (r *mongoAssignmentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureAssignmentIndexes creates necessary indexes for the assignments collection.
func EnsureAssignmentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "classroomId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "createdBy", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Non-fatal; see EnsureUserIndexes.
	}
}
