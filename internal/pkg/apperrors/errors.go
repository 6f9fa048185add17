package apperrors

import (
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrInvalidRequest   ErrorType = "INVALID_REQUEST"
	ErrAuthFailed       ErrorType = "AUTH_FAILED"
	ErrUnsupportedMedia ErrorType = "UNSUPPORTED_MEDIA"
	ErrTooLarge         ErrorType = "PAYLOAD_TOO_LARGE"
	ErrRateLimited      ErrorType = "RATE_LIMITED"
	ErrInference        ErrorType = "INFERENCE_FAILED"
	ErrInternal         ErrorType = "INTERNAL_ERROR"
	ErrNotFound         ErrorType = "NOT_FOUND"
)

// AppError is the standard error struct for the application
type AppError struct {
	Type       ErrorType `json:"code"`
	Message    string    `json:"message"`
	Suggestion string    `json:"suggestion,omitempty"`
	HTTPStatus int       `json:"-"`
	Cause      error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(errType ErrorType, msg string, cause error) *AppError {
	return &AppError{
		Type:       errType,
		Message:    msg,
		Cause:      cause,
		HTTPStatus: mapTypeToStatus(errType),
		Suggestion: mapTypeToSuggestion(errType),
	}
}

func NewInvalidRequest(msg string) *AppError {
	return New(ErrInvalidRequest, msg, nil)
}

func NewNotFound(msg string) *AppError {
	return New(ErrNotFound, msg, nil)
}

func NewUnsupportedMedia(msg string) *AppError {
	return New(ErrUnsupportedMedia, msg, nil)
}

// NewInference hides the cause from clients; the message stays generic.
func NewInference(cause error) *AppError {
	return New(ErrInference, "inference failed", cause)
}

func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return New(ErrInternal, err.Error(), err)
}

func mapTypeToStatus(t ErrorType) int {
	switch t {
	case ErrInvalidRequest:
		return http.StatusBadRequest
	case ErrAuthFailed:
		return http.StatusUnauthorized
	case ErrUnsupportedMedia:
		return http.StatusUnsupportedMediaType
	case ErrTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrRateLimited:
		return http.StatusTooManyRequests
	case ErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func mapTypeToSuggestion(t ErrorType) string {
	switch t {
	case ErrUnsupportedMedia:
		return "Upload .jpg, .jpeg, .png, .webp images or .mp4, .mov, .webm videos."
	case ErrRateLimited:
		return "Retry after a short delay."
	case ErrAuthFailed:
		return "Check the X-Api-Key header."
	case ErrInference:
		return "Check that the file is a readable image or video."
	default:
		return ""
	}
}
