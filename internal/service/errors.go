package service

import "errors"

// --- Shared Error Definitions ---
var (
	ErrClassroomNotFound  = errors.New("classroom not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrForbidden          = errors.New("caller is not allowed to perform this operation")
)

// ValidationError marks a request that is well-formed HTTP but semantically
// invalid (missing grade, oversized attachment, malformed payload). Handlers
// map it to 400.
type ValidationError struct {
	msg string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

func (e *ValidationError) Error() string {
	return e.msg
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
