package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrChatNotFound is returned when a chat does not exist or is owned by
	// another user. The two cases are deliberately indistinguishable.
	ErrChatNotFound = errors.New("chat not found")
	// ErrChatForbidden is returned on nested message routes when the parent
	// chat does not exist or is owned by another user.
	ErrChatForbidden = errors.New("you do not have permission to access this chat")
	// ErrMessageNotFound is returned when a message does not exist within the
	// requested chat.
	ErrMessageNotFound = errors.New("message not found")
	// ErrTitleRequired is returned when a chat title is empty after trimming.
	ErrTitleRequired = errors.New("title cannot be empty or whitespace only")
	// ErrTitleTooLong is returned when a chat title exceeds the maximum length.
	ErrTitleTooLong = errors.New("title cannot exceed 200 characters")
	// ErrContentRequired is returned when message content is empty after trimming.
	ErrContentRequired = errors.New("message content cannot be empty")
	// ErrInvalidRole is returned for a role outside user/assistant/system.
	ErrInvalidRole = errors.New("invalid role, must be one of: user, assistant, system")
	// ErrNegativeTokens is returned when a message token count is negative.
	ErrNegativeTokens = errors.New("tokens cannot be negative")
	// ErrInvalidTheme is returned for a theme outside light/dark/auto.
	ErrInvalidTheme = errors.New("invalid theme, must be one of: light, dark, auto")
	// ErrProjectNotFound is returned when a referenced default project does not exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrProfileNotFound is returned when the user's profile record is missing.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrSettingsNotFound is returned when the user's settings record is missing.
	ErrSettingsNotFound = errors.New("settings not found")
	// ErrStorageUnavailable is returned when avatar object storage is not configured.
	ErrStorageUnavailable = errors.New("avatar storage unavailable")
)

// ErrorResponse represents a standardized error response. Field is set for
// validation errors so clients can attribute the message to an input field.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Field      string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// NewFieldError creates a 400 validation error attributed to a field.
func NewFieldError(message, code, field string) *HTTPError {
	return &HTTPError{
		StatusCode: http.StatusBadRequest,
		Message:    message,
		Code:       code,
		Field:      field,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
		Field: e.Field,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrChatNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CHAT_NOT_FOUND")
	case errors.Is(err, ErrChatForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "CHAT_FORBIDDEN")
	case errors.Is(err, ErrMessageNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "MESSAGE_NOT_FOUND")
	case errors.Is(err, ErrTitleRequired):
		return NewFieldError(err.Error(), "TITLE_REQUIRED", "title")
	case errors.Is(err, ErrTitleTooLong):
		return NewFieldError(err.Error(), "TITLE_TOO_LONG", "title")
	case errors.Is(err, ErrContentRequired):
		return NewFieldError(err.Error(), "CONTENT_REQUIRED", "content")
	case errors.Is(err, ErrInvalidRole):
		return NewFieldError(err.Error(), "INVALID_ROLE", "role")
	case errors.Is(err, ErrNegativeTokens):
		return NewFieldError(err.Error(), "NEGATIVE_TOKENS", "tokens")
	case errors.Is(err, ErrInvalidTheme):
		return NewFieldError(err.Error(), "INVALID_THEME", "theme")
	case errors.Is(err, ErrProjectNotFound):
		return NewFieldError(err.Error(), "PROJECT_NOT_FOUND", "default_project")
	case errors.Is(err, ErrProfileNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PROFILE_NOT_FOUND")
	case errors.Is(err, ErrSettingsNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "SETTINGS_NOT_FOUND")
	case errors.Is(err, ErrStorageUnavailable):
		return NewHTTPError(http.StatusServiceUnavailable, err.Error(), "STORAGE_UNAVAILABLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
