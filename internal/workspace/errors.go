package workspace

import "errors"

var (
	ErrNotFound     = errors.New("workspace not found")
	ErrOwnerMissing = errors.New("owner id is required")
)

// Messages shown to the user. Causes of service failures go to the
// operator log only.
const (
	MsgMissingInputs  = "Please provide your experience and the job description."
	MsgGenerateFailed = "Failed to generate resume. Please check your API key and try again."
	MsgAnswerFailed   = "Failed to get an answer. Please check your API key and try again."
)

// ValidationError is returned when a request is rejected locally, before any
// call to the generation service.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string { return e.Message }
