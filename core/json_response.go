// Package core provides the shared HTTP response envelope and error
// taxonomy used by all module routers.
package core

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// JSONResponse is the standard JSON response structure.
type JSONResponse struct {
	Data  any          `json:"data,omitempty"`
	Meta  any          `json:"meta,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// JSON writes a success envelope with the given status and payload.
func JSON(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, JSONResponse{Data: data})
}

// JSONWithMeta writes a success envelope carrying pagination or other metadata.
func JSONWithMeta(w http.ResponseWriter, status int, data, meta any) {
	writeJSON(w, status, JSONResponse{Data: data, Meta: meta})
}

// ValidationDetails is implemented by errors that carry per-field messages.
// The validator package's error type satisfies it.
type ValidationDetails interface {
	error
	FieldMessages() map[string]string
}

// Error classifies err and writes the matching error envelope.
// Validation errors map to 422 with per-field details, HTTPError values
// keep their status and code, anything else becomes a 500.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	detail := &ErrorDetail{
		Code:    ErrInternalServerError.Code,
		Message: "internal server error",
	}

	var valErr ValidationDetails
	var httpErr HTTPError
	switch {
	case errors.As(err, &valErr):
		status = http.StatusUnprocessableEntity
		detail.Code = "validation_error"
		detail.Message = valErr.Error()
		detail.Details = valErr.FieldMessages()
	case errors.As(err, &httpErr):
		status = httpErr.Status
		detail.Code = httpErr.Code
		detail.Message = err.Error()
	}

	writeJSON(w, status, JSONResponse{Error: detail})
}

// ErrorWithMessage writes the given HTTP error with a human-readable message
// that may differ from the error code.
func ErrorWithMessage(w http.ResponseWriter, httpErr HTTPError, message string) {
	writeJSON(w, httpErr.Status, JSONResponse{Error: &ErrorDetail{
		Code:    httpErr.Code,
		Message: message,
	}})
}

// DecodeJSON reads the request body into v with a 1 MiB size limit.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return ErrBadRequest
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body JSONResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
