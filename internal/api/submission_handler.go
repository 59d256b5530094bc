package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"studyhub/classroom-app/internal/domain"
	"studyhub/classroom-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubmissionHandler exposes the submit → grade workflow and attachment download.
type SubmissionHandler struct {
	submissionService service.SubmissionService
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissionService service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

// --- DTOs ---

// AttachmentUpload is one incoming file: metadata plus base64 payload.
type AttachmentUpload struct {
	Name     string `json:"name" binding:"required"`
	MimeType string `json:"mimeType"`
	Data     string `json:"data" binding:"required"`
}

type SubmitRequest struct {
	Content     string             `json:"content"`
	Attachments []AttachmentUpload `json:"attachments"`
}

// GradeRequest uses a pointer so an absent grade is distinguishable from zero.
type GradeRequest struct {
	Grade    *float64 `json:"grade"`
	Feedback string   `json:"feedback"`
}

// AttachmentResponse exposes metadata and the positional index used by the
// download endpoint; the payload itself is never inlined in list responses.
type AttachmentResponse struct {
	Name      string `json:"name"`
	MimeType  string `json:"mimeType"`
	SizeBytes int64  `json:"sizeBytes"`
	FileIndex int    `json:"fileIndex"`
}

type SubmissionResponse struct {
	ID           string               `json:"id"`
	AssignmentID string               `json:"assignmentId"`
	StudentID    string               `json:"studentId"`
	Content      string               `json:"content,omitempty"`
	Attachments  []AttachmentResponse `json:"attachments"`
	SubmittedAt  time.Time            `json:"submittedAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
	Grade        *float64             `json:"grade,omitempty"`
	Feedback     string               `json:"feedback,omitempty"`
	Status       string               `json:"status"`
	GradedAt     *time.Time           `json:"gradedAt,omitempty"`
	GradedBy     *string              `json:"gradedBy,omitempty"`
	Student      *service.StudentInfo `json:"student,omitempty"`
}

// MapSubmissionToResponse converts domain.Submission to SubmissionResponse DTO
func MapSubmissionToResponse(s *domain.Submission) SubmissionResponse {
	if s == nil {
		return SubmissionResponse{}
	}
	attachments := make([]AttachmentResponse, len(s.Attachments))
	for i, att := range s.Attachments {
		attachments[i] = AttachmentResponse{
			Name:      att.Name,
			MimeType:  att.MimeType,
			SizeBytes: att.SizeBytes,
			FileIndex: i,
		}
	}
	var gradedByHex *string
	if s.GradedBy != nil && *s.GradedBy != primitive.NilObjectID {
		hex := (*s.GradedBy).Hex()
		gradedByHex = &hex
	}
	return SubmissionResponse{
		ID:           s.ID.Hex(),
		AssignmentID: s.AssignmentID.Hex(),
		StudentID:    s.StudentID.Hex(),
		Content:      s.Content,
		Attachments:  attachments,
		SubmittedAt:  s.SubmittedAt,
		UpdatedAt:    s.UpdatedAt,
		Grade:        s.Grade,
		Feedback:     s.Feedback,
		Status:       string(s.Status),
		GradedAt:     s.GradedAt,
		GradedBy:     gradedByHex,
	}
}

// MapSubmissionViewsToResponse converts enriched submission views.
func MapSubmissionViewsToResponse(views []service.SubmissionView) []SubmissionResponse {
	responses := make([]SubmissionResponse, len(views))
	for i, view := range views {
		responses[i] = MapSubmissionToResponse(&view.Submission)
		responses[i].Student = view.Student
	}
	return responses
}

// --- Handler Methods ---

// Submit godoc
// @Summary Submit or resubmit work for an assignment
// @Description Creates the caller's submission, or overwrites it if one already exists. Resubmission keeps the submission id and resets any previous grade.
// @Tags Submission
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Param submission body SubmitRequest true "Content and optional attachments (base64)"
// @Success 200 {object} Envelope{data=SubmissionResponse}
// @Failure 400 {object} Envelope "Malformed or oversized attachment"
// @Failure 403 {object} Envelope "Forbidden (not an enrolled student)"
// @Failure 404 {object} Envelope "Assignment not found"
// @Router /assignments/{id}/submissions [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	identity, err := identityFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token")
		return
	}

	assignmentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid assignment ID format")
		return
	}

	files := make([]service.FileInput, len(req.Attachments))
	for i, att := range req.Attachments {
		files[i] = service.FileInput{
			Name:     att.Name,
			MimeType: att.MimeType,
			Data:     att.Data,
		}
	}

	submission, err := h.submissionService.Submit(c.Request.Context(), identity, assignmentID, req.Content, files)
	if err != nil {
		abortServiceError(c, "submit work", err)
		return
	}

	respondOK(c, MapSubmissionToResponse(submission))
}

// List godoc
// @Summary List an assignment's submissions
// @Description The classroom's instructor sees every submission enriched with student identity; a student sees only their own.
// @Tags Submission
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Success 200 {object} Envelope{data=[]SubmissionResponse}
// @Failure 403 {object} Envelope "Forbidden (not a classroom member)"
// @Failure 404 {object} Envelope "Assignment not found"
// @Router /assignments/{id}/submissions [get]
func (h *SubmissionHandler) List(c *gin.Context) {
	identity, err := identityFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token")
		return
	}

	assignmentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid assignment ID format")
		return
	}

	views, err := h.submissionService.List(c.Request.Context(), identity, assignmentID)
	if err != nil {
		abortServiceError(c, "list submissions", err)
		return
	}

	respondOK(c, MapSubmissionViewsToResponse(views))
}

// Grade godoc
// @Summary Grade a submission
// @Description Applies grade and feedback and marks the submission graded. A missing grade is a validation error. Re-grading overwrites.
// @Tags Submission
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Param submissionId path string true "Submission ID"
// @Param grade body GradeRequest true "Grade and feedback"
// @Success 200 {object} Envelope{data=SubmissionResponse}
// @Failure 400 {object} Envelope "Grade is missing"
// @Failure 403 {object} Envelope "Forbidden (not the classroom instructor)"
// @Failure 404 {object} Envelope "Submission not found"
// @Router /assignments/{id}/submissions/{submissionId}/grade [put]
func (h *SubmissionHandler) Grade(c *gin.Context) {
	var req GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	identity, err := identityFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token")
		return
	}

	assignmentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid assignment ID format")
		return
	}
	submissionID, err := primitive.ObjectIDFromHex(c.Param("submissionId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid submission ID format")
		return
	}

	submission, err := h.submissionService.Grade(c.Request.Context(), identity, assignmentID, submissionID, req.Grade, req.Feedback)
	if err != nil {
		abortServiceError(c, "grade submission", err)
		return
	}

	respondOK(c, MapSubmissionToResponse(submission))
}

// Download godoc
// @Summary Download one attachment of a submission
// @Description Streams the attachment's bytes addressed by positional fileIndex.
// @Tags Submission
// @Produce octet-stream
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Param submissionId path string true "Submission ID"
// @Param fileIndex query int true "Position of the attachment within the submission"
// @Success 200 {file} binary "Attachment bytes"
// @Failure 400 {object} Envelope "Invalid fileIndex"
// @Failure 403 {object} Envelope "Forbidden (neither instructor nor owner)"
// @Failure 404 {object} Envelope "Submission, index, or stored payload not found"
// @Router /assignments/{id}/submissions/{submissionId}/download [get]
func (h *SubmissionHandler) Download(c *gin.Context) {
	identity, err := identityFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token")
		return
	}

	assignmentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid assignment ID format")
		return
	}
	submissionID, err := primitive.ObjectIDFromHex(c.Param("submissionId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid submission ID format")
		return
	}

	fileIndex, err := strconv.Atoi(c.DefaultQuery("fileIndex", "0"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "fileIndex must be an integer")
		return
	}

	download, err := h.submissionService.Download(c.Request.Context(), identity, assignmentID, submissionID, fileIndex)
	if err != nil {
		abortServiceError(c, "download attachment", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.SuggestedFilename))
	c.Header("Content-Length", strconv.Itoa(len(download.Bytes)))
	c.Data(http.StatusOK, download.MimeType, download.Bytes)
}
