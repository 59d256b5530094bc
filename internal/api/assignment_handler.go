package api

import (
	"fmt"
	"net/http"
	"time"

	"studyhub/classroom-app/internal/domain"
	"studyhub/classroom-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentHandler exposes assignment CRUD.
type AssignmentHandler struct {
	assignmentService service.AssignmentService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentService service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

// --- DTOs ---

type CreateAssignmentRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Points      int        `json:"points" binding:"omitempty,min=0"`
	ClassroomID string     `json:"classroomId" binding:"required"`
}

// UpdateAssignmentRequest carries the partial-update fields; absent fields are
// left untouched.
type UpdateAssignmentRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Points      *int       `json:"points"`
}

type AssignmentResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Points      int        `json:"points"`
	ClassroomID string     `json:"classroomId"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// MapAssignmentToResponse converts domain.Assignment to AssignmentResponse DTO
func MapAssignmentToResponse(a *domain.Assignment) AssignmentResponse {
	if a == nil {
		return AssignmentResponse{}
	}
	return AssignmentResponse{
		ID:          a.ID.Hex(),
		Title:       a.Title,
		Description: a.Description,
		DueDate:     a.DueDate,
		Points:      a.Points,
		ClassroomID: a.ClassroomID.Hex(),
		CreatedBy:   a.CreatedBy.Hex(),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// MapAssignmentsToResponse converts a slice of domain.Assignment
func MapAssignmentsToResponse(assignments []domain.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, len(assignments))
	for i, a := range assignments {
		responses[i] = MapAssignmentToResponse(&a)
	}
	return responses
}

// --- Handler Methods ---

// Create godoc
// @Summary Create an assignment
// @Description Creates an assignment in a classroom the caller instructs. Points default to 100.
// @Tags Assignment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param assignment body CreateAssignmentRequest true "Assignment details"
// @Success 201 {object} Envelope{data=AssignmentResponse}
// @Failure 400 {object} Envelope "Invalid input"
// @Failure 403 {object} Envelope "Forbidden (not the classroom instructor)"
// @Failure 404 {object} Envelope "Classroom not found"
// @Router /assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	identity, err := identityFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token")
		return
	}

	classroomID, err := primitive.ObjectIDFromHex(req.ClassroomID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid classroom ID format")
		return
	}

	assignment, err := h.assignmentService.Create(c.Request.Context(), identity, service.CreateAssignmentInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Points:      req.Points,
		ClassroomID: classroomID,
	})
	if err != nil {
		abortServiceError(c, "create assignment", err)
		return
	}

	respondCreated(c, MapAssignmentToResponse(assignment))
}

// Get godoc
// @Summary Fetch one assignment
// @Tags Assignment
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Success 200 {object} Envelope{data=AssignmentResponse}
// @Failure 403 {object} Envelope "Forbidden (not a classroom member)"
// @Failure 404 {object} Envelope "Assignment not found"
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) Get(c *gin.Context) {
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

	assignment, err := h.assignmentService.Get(c.Request.Context(), identity, assignmentID)
	if err != nil {
		abortServiceError(c, "get assignment", err)
		return
	}

	respondOK(c, MapAssignmentToResponse(assignment))
}

// ListByClassroom godoc
// @Summary List a classroom's assignments
// @Tags Assignment
// @Produce json
// @Security BearerAuth
// @Param id path string true "Classroom ID"
// @Success 200 {object} Envelope{data=[]AssignmentResponse}
// @Failure 403 {object} Envelope "Forbidden (not a classroom member)"
// @Failure 404 {object} Envelope "Classroom not found"
// @Router /classrooms/{id}/assignments [get]
func (h *AssignmentHandler) ListByClassroom(c *gin.Context) {
	identity, err := identityFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token")
		return
	}

	classroomID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid classroom ID format")
		return
	}

	assignments, err := h.assignmentService.ListByClassroom(c.Request.Context(), identity, classroomID)
	if err != nil {
		abortServiceError(c, "list assignments", err)
		return
	}

	respondOK(c, MapAssignmentsToResponse(assignments))
}

// Update godoc
// @Summary Partially update an assignment
// @Description Updates title/description/dueDate/points. Other fields are immutable.
// @Tags Assignment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Param assignment body UpdateAssignmentRequest true "Fields to update"
// @Success 200 {object} Envelope{data=AssignmentResponse}
// @Failure 400 {object} Envelope "Invalid input"
// @Failure 403 {object} Envelope "Forbidden (not the classroom instructor)"
// @Failure 404 {object} Envelope "Assignment not found"
// @Router /assignments/{id} [put]
func (h *AssignmentHandler) Update(c *gin.Context) {
	var req UpdateAssignmentRequest
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

	assignment, err := h.assignmentService.Update(c.Request.Context(), identity, assignmentID, service.UpdateAssignmentInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Points:      req.Points,
	})
	if err != nil {
		abortServiceError(c, "update assignment", err)
		return
	}

	respondOK(c, MapAssignmentToResponse(assignment))
}

// Delete godoc
// @Summary Delete an assignment
// @Description Deletes the assignment and cascades to all of its submissions.
// @Tags Assignment
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Success 200 {object} Envelope
// @Failure 403 {object} Envelope "Forbidden (not the classroom instructor)"
// @Failure 404 {object} Envelope "Assignment not found"
// @Router /assignments/{id} [delete]
func (h *AssignmentHandler) Delete(c *gin.Context) {
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

	if err := h.assignmentService.Delete(c.Request.Context(), identity, assignmentID); err != nil {
		abortServiceError(c, "delete assignment", err)
		return
	}

	respondOK(c, gin.H{"deleted": assignmentID.Hex()})
}
