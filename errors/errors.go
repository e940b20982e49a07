package errors

import (
	"fmt"
	"os"
)

// Standard error codes
const (
	ErrInvalidRequest      = 400
	ErrUnauthorized        = 401
	ErrForbidden           = 403
	ErrNotFound            = 404
	ErrConflict            = 409
	ErrInternalServerError = 500
	ErrServiceUnavailable  = 503

	// Settlement-specific error codes (1000+)
	ErrInsufficientBalance   = 1001
	ErrUnsupportedGame       = 1002
	ErrPlayerUnauthorized    = 1003
	ErrLedgerError           = 1004
	ErrRandomnessUnavailable = 1005
	ErrEngineError           = 1006
	ErrConfigError           = 1007
)

// AppError represents a custom application error
type AppError struct {
	Code         int    `json:"code"`
	Message      string `json:"message"`
	DebugMessage string `json:"debug_message,omitempty"`
	Err          error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.DebugMessage != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.DebugMessage)
	}
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s [%v]", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewWithDebug creates a new AppError with a debug message
func NewWithDebug(code int, message string, debugMessage string) *AppError {
	return &AppError{
		Code:         code,
		Message:      message,
		DebugMessage: debugMessage,
	}
}

// Wrap wraps an existing error into an AppError
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Response returns a map suitable for JSON response
func (e *AppError) Response() map[string]interface{} {
	response := map[string]interface{}{
		"code":    e.Code,
		"message": e.Message,
	}

	// Include debug message in development environment
	env := os.Getenv("APP_ENV")
	if (env == "dev" || env == "development") && e.DebugMessage != "" {
		response["debug_message"] = e.DebugMessage
	}

	return response
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode extracts error code from an error
func GetCode(err error) int {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return ErrInternalServerError
}

// CodeIs reports whether err is an AppError carrying the given code
func CodeIs(err error, code int) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}

// HTTPStatusFromCode maps error codes to HTTP status codes
func HTTPStatusFromCode(code int) int {
	switch code {
	case ErrInvalidRequest:
		return 400
	case ErrUnauthorized:
		return 401
	case ErrForbidden:
		return 403
	case ErrNotFound:
		return 404
	case ErrConflict:
		return 409
	case ErrInternalServerError:
		return 500
	case ErrServiceUnavailable:
		return 503
	case ErrInsufficientBalance:
		return 400
	case ErrUnsupportedGame:
		return 404
	case ErrPlayerUnauthorized:
		return 401
	case ErrLedgerError:
		return 502
	case ErrRandomnessUnavailable:
		return 503
	case ErrEngineError:
		return 500
	case ErrConfigError:
		return 500
	default:
		return 500
	}
}
