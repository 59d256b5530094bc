package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubmissionStatus type for submission lifecycle
type SubmissionStatus string

const (
	StatusSubmitted SubmissionStatus = "submitted" // Student handed in work
	StatusGraded    SubmissionStatus = "graded"    // Teacher applied grade + feedback
)

// Attachment is a single file payload attached to a Submission.
// The raw bytes live behind ContentID in the blob store; only metadata is
// embedded in the submission document. An empty ContentID marks a legacy
// record created before file storage existed.
type Attachment struct {
	Name      string `bson:"name" json:"name"`
	MimeType  string `bson:"mimeType" json:"mimeType"`
	SizeBytes int64  `bson:"sizeBytes" json:"sizeBytes"`
	ContentID string `bson:"contentId,omitempty" json:"contentId,omitempty"`
}

// Submission is a student's response to an Assignment.
//
// Invariant: at most one Submission exists per (AssignmentID, StudentID) pair;
// resubmission updates the existing document in place.
type Submission struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	AssignmentID primitive.ObjectID  `bson:"assignmentId" json:"assignmentId"`
	StudentID    primitive.ObjectID  `bson:"studentId" json:"studentId"`
	Content      string              `bson:"content,omitempty" json:"content,omitempty"`
	Attachments  []Attachment        `bson:"attachments,omitempty" json:"attachments,omitempty"`
	SubmittedAt  time.Time           `bson:"submittedAt" json:"submittedAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
	Grade        *float64            `bson:"grade,omitempty" json:"grade,omitempty"`
	Feedback     string              `bson:"feedback,omitempty" json:"feedback,omitempty"`
	Status       SubmissionStatus    `bson:"status" json:"status"`
	GradedAt     *time.Time          `bson:"gradedAt,omitempty" json:"gradedAt,omitempty"`
	GradedBy     *primitive.ObjectID `bson:"gradedBy,omitempty" json:"gradedBy,omitempty"`
}
