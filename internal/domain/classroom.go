package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Classroom is the enrollment/ownership boundary: one instructor, a set of students.
type Classroom struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name         string               `bson:"name" json:"name"`
	InstructorID primitive.ObjectID   `bson:"instructorId" json:"instructorId"`
	StudentIDs   []primitive.ObjectID `bson:"studentIds,omitempty" json:"studentIds,omitempty"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// HasStudent reports whether the given user is enrolled in the classroom.
func (c *Classroom) HasStudent(id primitive.ObjectID) bool {
	for _, sid := range c.StudentIDs {
		if sid == id {
			return true
		}
	}
	return false
}
