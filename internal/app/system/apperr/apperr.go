// Package apperr defines the error kinds shared by stores, integrations and
// handlers, and how each kind maps onto an HTTP status.
//
// Stores and services return (or wrap) one of the sentinel errors below;
// integrations wrap remote failures in *UpstreamError. Handlers never inspect
// messages, only kinds.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidInput marks a missing or malformed required field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrForbidden marks an actor that does not own the entity.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound marks a referenced entity that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists marks a duplicate, e.g. a collaborator already listed.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotConfigured marks an integration whose credentials are missing.
	ErrNotConfigured = errors.New("not configured")
)

// kindError pairs a sentinel kind with a message safe to show callers.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.kind.Error() + ": " + e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// Invalid returns an ErrInvalidInput with a user-facing reason.
func Invalid(format string, args ...any) error {
	return &kindError{kind: ErrInvalidInput, msg: fmt.Sprintf(format, args...)}
}

// Forbidden returns an ErrForbidden with a user-facing reason.
func Forbidden(msg string) error { return &kindError{kind: ErrForbidden, msg: msg} }

// NotFound returns an ErrNotFound with a user-facing reason.
func NotFound(msg string) error { return &kindError{kind: ErrNotFound, msg: msg} }

// Conflict returns an ErrAlreadyExists with a user-facing reason.
func Conflict(msg string) error { return &kindError{kind: ErrAlreadyExists, msg: msg} }

// UpstreamError is a failed call to an external service (GitHub, Gemini, SMTP).
type UpstreamError struct {
	Service string // "github", "gemini", "smtp", "relay"
	Status  int    // upstream HTTP status when known, else 0
	Message string // upstream-provided message when known
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s: %v", e.Service, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsConfig reports whether the failure comes from missing or rejected
// credentials rather than a transient upstream problem.
func (e *UpstreamError) IsConfig() bool {
	return errors.Is(e.Err, ErrNotConfigured)
}

// Upstream wraps err as an *UpstreamError for service.
func Upstream(service string, err error) error {
	return &UpstreamError{Service: service, Err: err}
}

// NotConfigured returns the configuration failure for service.
func NotConfigured(service, what string) error {
	return &UpstreamError{Service: service, Message: what, Err: ErrNotConfigured}
}

// Status maps err onto the HTTP status a handler should answer with.
func Status(err error) int {
	var up *UpstreamError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.As(err, &up):
		if up.Status >= 400 && up.Status <= 599 {
			return up.Status
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Code returns a stable machine-readable code for err.
func Code(err error) string {
	var up *UpstreamError
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyExists):
		return "conflict"
	case errors.As(err, &up):
		if up.IsConfig() {
			return "upstream_config"
		}
		return "upstream_failure"
	default:
		return "internal"
	}
}

// Message returns the text a caller may see for err. Internal failures get a
// generic message; their detail belongs in the log.
func Message(err error) string {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.msg
	}
	var up *UpstreamError
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "Invalid request"
	case errors.Is(err, ErrForbidden):
		return "Forbidden"
	case errors.Is(err, ErrNotFound):
		return "Not found"
	case errors.Is(err, ErrAlreadyExists):
		return "Already exists"
	case errors.As(err, &up):
		if up.Message != "" {
			return up.Message
		}
		return "Upstream service failed"
	default:
		return "Internal server error"
	}
}
