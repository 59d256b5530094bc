package api

import (
	"errors"
	"log"
	"net/http"

	"studyhub/classroom-app/internal/attachment"
	"studyhub/classroom-app/internal/service"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response shape: {success, data?, error?}.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// abortWithError returns the JSON error envelope and aborts the request.
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Envelope{Success: false, Error: message})
}

// abortServiceError maps the service error taxonomy onto HTTP statuses:
// validation → 400, forbidden → 403, not-found → 404, everything else → 500
// with a safe message (the real error goes to the log with its operation).
func abortServiceError(c *gin.Context, op string, err error) {
	switch {
	case service.IsValidationError(err):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrNotAStudent):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrClassroomNotFound),
		errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrSubmissionNotFound),
		errors.Is(err, service.ErrAttachmentNotFound),
		errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, attachment.ErrIndexOutOfRange),
		errors.Is(err, attachment.ErrPayloadMissing):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		log.Printf("ERROR: %s: %v", op, err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
