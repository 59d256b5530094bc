package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultAssignmentPoints is used when an assignment is created without points.
const DefaultAssignmentPoints = 100

// Assignment is a gradable unit of work scoped to a Classroom.
type Assignment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	DueDate     *time.Time         `bson:"dueDate,omitempty" json:"dueDate,omitempty"` // Optional due date (pointer for nullability)
	Points      int                `bson:"points" json:"points"`
	ClassroomID primitive.ObjectID `bson:"classroomId" json:"classroomId"`
	CreatedBy   primitive.ObjectID `bson:"createdBy" json:"createdBy"` // The instructor who created it
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
