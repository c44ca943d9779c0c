package core

import "net/http"

// HTTPError represents an HTTP error with a status code and a stable
// machine-readable code clients can branch on.
type HTTPError struct {
	Status int    // HTTP status code
	Code   string // Stable error code (e.g., "not_found", "upgrade_required")
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Code
}

var (
	ErrBadRequest          = HTTPError{Status: http.StatusBadRequest, Code: "bad_request"}
	ErrUnauthorized        = HTTPError{Status: http.StatusUnauthorized, Code: "unauthorized"}
	ErrForbidden           = HTTPError{Status: http.StatusForbidden, Code: "forbidden"}
	ErrNotFound            = HTTPError{Status: http.StatusNotFound, Code: "not_found"}
	ErrConflict            = HTTPError{Status: http.StatusConflict, Code: "conflict"}
	ErrUnprocessableEntity = HTTPError{Status: http.StatusUnprocessableEntity, Code: "unprocessable_entity"}
	ErrTooManyRequests     = HTTPError{Status: http.StatusTooManyRequests, Code: "too_many_requests"}
	ErrInternalServerError = HTTPError{Status: http.StatusInternalServerError, Code: "internal_server_error"}
	ErrBadGateway          = HTTPError{Status: http.StatusBadGateway, Code: "bad_gateway"}
	ErrServiceUnavailable  = HTTPError{Status: http.StatusServiceUnavailable, Code: "service_unavailable"}
)

// NewHTTPError creates a custom HTTP error with the given status and code.
//
// Example:
//
//	err := core.NewHTTPError(http.StatusForbidden, "plan_expired")
func NewHTTPError(status int, code string) HTTPError {
	return HTTPError{Status: status, Code: code}
}
