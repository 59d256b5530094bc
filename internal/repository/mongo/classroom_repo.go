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

const classroomCollectionName = "classrooms"

// mongoClassroomRepository implements repository.ClassroomRepository
type mongoClassroomRepository struct {
	collection *mongo.Collection
}

// NewMongoClassroomRepository creates a new Classroom repository backed by MongoDB.
func NewMongoClassroomRepository(db *mongo.Database) repository.ClassroomRepository {
	return &mongoClassroomRepository{
		collection: db.Collection(classroomCollectionName),
	}
}

// Create inserts a new classroom into the database.
func (r *mongoClassroomRepository) Create(ctx context.Context, classroom *domain.Classroom) (primitive.ObjectID, error) {
	if classroom.Name == "" || classroom.InstructorID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("classroom requires a name and an instructorId")
	}

	classroom.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	classroom.CreatedAt = now
	classroom.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, classroom)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted classroom ID")
	}

	return insertedID, nil
}

// GetByID retrieves a classroom by its ID.
func (r *mongoClassroomRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Classroom, error) {
	var classroom domain.Classroom
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&classroom)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &classroom, nil
}

// AddStudent enrolls a student into a classroom. $addToSet keeps enrollment idempotent.
func (r *mongoClassroomRepository) AddStudent(ctx context.Context, classroomID, studentID primitive.ObjectID) error {
	filter := bson.M{"_id": classroomID}
	update := bson.M{
		"$addToSet": bson.M{"studentIds": studentID},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	// ModifiedCount may be 0 when the student was already enrolled, which is fine.

	return nil
}

// EnsureClassroomIndexes creates necessary indexes for the classrooms collection.
func EnsureClassroomIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "instructorId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "studentIds", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Non-fatal; see EnsureUserIndexes.
	}
}
