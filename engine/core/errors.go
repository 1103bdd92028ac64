package core

import (
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode string

const (
	// Parser errors
	ErrorCodeParseFailure  ErrorCode = "PARSE_FAILURE"
	ErrorCodeNoSourceFiles ErrorCode = "NO_SOURCE_FILES"
	ErrorCodeInvalidPath   ErrorCode = "INVALID_PROJECT_PATH"

	// Manifest errors
	ErrorCodeManifestRead ErrorCode = "MANIFEST_READ_FAILED"

	// Analysis errors
	ErrorCodeAnalysisFailed ErrorCode = "ANALYSIS_FAILED"

	// Export errors
	ErrorCodeExportFailed ErrorCode = "EXPORT_FAILED"

	// Configuration errors
	ErrorCodeConfigInvalid ErrorCode = "CONFIG_INVALID"
)

// Error represents a structured error with code and metadata
type Error struct {
	Err      error          `json:"error"`
	Code     ErrorCode      `json:"code"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewError creates a new structured error for domain boundaries
func NewError(err error, code ErrorCode, metadata map[string]any) *Error {
	return &Error{
		Err:      err,
		Code:     code,
		Metadata: metadata,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if len(e.Metadata) > 0 {
		return fmt.Sprintf("[%s] %v (metadata: %v)", e.Code, e.Err, e.Metadata)
	}
	return fmt.Sprintf("[%s] %v", e.Code, e.Err)
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}
