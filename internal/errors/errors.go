package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when an id-based operation targets a missing user.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when the unique email constraint is violated.
	ErrEmailTaken = errors.New("email already registered")
	// ErrRoleNotFound is returned when an update references a role that does not exist.
	ErrRoleNotFound = errors.New("role not found")
	// ErrInvalidPermission is returned when a permission list carries an unknown code.
	ErrInvalidPermission = errors.New("invalid permission code")
	// ErrInvalidTeamRole is returned for a team role outside the enumeration.
	ErrInvalidTeamRole = errors.New("invalid team role")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidRefreshToken is returned when a refresh token is unknown or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// ErrorResponse represents a standardized error response body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
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

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Wrapped causes are
// matched through errors.Is, so services may annotate freely.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, ErrEmailTaken.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrRoleNotFound):
		return NewHTTPError(http.StatusBadRequest, ErrRoleNotFound.Error(), "ROLE_NOT_FOUND")
	case errors.Is(err, ErrInvalidPermission):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidPermission.Error(), "INVALID_PERMISSION")
	case errors.Is(err, ErrInvalidTeamRole):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidTeamRole.Error(), "INVALID_TEAM_ROLE")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidRefreshToken):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidRefreshToken.Error(), "INVALID_REFRESH_TOKEN")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
