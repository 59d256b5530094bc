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

// ClassroomHandler exposes classroom creation and enrollment.
type ClassroomHandler struct {
	classroomService service.ClassroomService
}

// NewClassroomHandler creates a new ClassroomHandler.
func NewClassroomHandler(classroomService service.ClassroomService) *ClassroomHandler {
	return &ClassroomHandler{classroomService: classroomService}
}

// --- DTOs ---

type CreateClassroomRequest struct {
	Name string `json:"name" binding:"required"`
}

type AddStudentRequest struct {
	StudentEmail string `json:"studentEmail" binding:"required,email"`
}

type ClassroomResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	InstructorID string    `json:"instructorId"`
	StudentIDs   []string  `json:"studentIds"`
	CreatedAt    time.Time `json:"createdAt"`
}

// MapClassroomToResponse converts domain.Classroom to ClassroomResponse DTO
func MapClassroomToResponse(classroom *domain.Classroom) ClassroomResponse {
	if classroom == nil {
		return ClassroomResponse{}
	}
	studentIDs := make([]string, len(classroom.StudentIDs))
	for i, id := range classroom.StudentIDs {
		studentIDs[i] = id.Hex()
	}
	return ClassroomResponse{
		ID:           classroom.ID.Hex(),
		Name:         classroom.Name,
		InstructorID: classroom.InstructorID.Hex(),
		StudentIDs:   studentIDs,
		CreatedAt:    classroom.CreatedAt,
	}
}

// --- Handler Methods ---

// Create godoc
// @Summary Create a classroom
// @Description Creates a classroom owned by the authenticated teacher.
// @Tags Classroom
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param classroom body CreateClassroomRequest true "Classroom name"
// @Success 201 {object} Envelope{data=ClassroomResponse}
// @Failure 400 {object} Envelope "Invalid input"
// @Failure 403 {object} Envelope "Forbidden (not a teacher)"
// @Router /classrooms [post]
func (h *ClassroomHandler) Create(c *gin.Context) {
	var req CreateClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	identity, err := identityFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token")
		return
	}

	classroom, err := h.classroomService.Create(c.Request.Context(), identity, req.Name)
	if err != nil {
		abortServiceError(c, "create classroom", err)
		return
	}

	respondCreated(c, MapClassroomToResponse(classroom))
}

// Get godoc
// @Summary Fetch one classroom
// @Tags Classroom
// @Produce json
// @Security BearerAuth
// @Param id path string true "Classroom ID"
// @Success 200 {object} Envelope{data=ClassroomResponse}
// @Failure 403 {object} Envelope "Forbidden (not a member)"
// @Failure 404 {object} Envelope "Classroom not found"
// @Router /classrooms/{id} [get]
func (h *ClassroomHandler) Get(c *gin.Context) {
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

	classroom, err := h.classroomService.Get(c.Request.Context(), identity, classroomID)
	if err != nil {
		abortServiceError(c, "get classroom", err)
		return
	}

	respondOK(c, MapClassroomToResponse(classroom))
}

// AddStudent godoc
// @Summary Enroll a student into a classroom by email
// @Tags Classroom
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Classroom ID"
// @Param student body AddStudentRequest true "Student's email"
// @Success 200 {object} Envelope{data=UserResponse}
// @Failure 400 {object} Envelope "Invalid input"
// @Failure 403 {object} Envelope "Forbidden (not the instructor, or user is not a student)"
// @Failure 404 {object} Envelope "Classroom or student not found"
// @Router /classrooms/{id}/students [post]
func (h *ClassroomHandler) AddStudent(c *gin.Context) {
	var req AddStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

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

	student, err := h.classroomService.AddStudentByEmail(c.Request.Context(), identity, classroomID, req.StudentEmail)
	if err != nil {
		abortServiceError(c, "enroll student", err)
		return
	}

	respondOK(c, MapUserToResponse(student))
}
