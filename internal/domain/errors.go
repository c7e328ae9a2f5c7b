package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")

	// ErrUnauthenticated is returned whenever no identity can be resolved for a
	// request. Provider failures collapse into it.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrUnapproved is returned for an authenticated identity whose approval
	// flag is not set. It matches ErrForbidden as well.
	ErrUnapproved = fmt.Errorf("access not approved: %w", ErrForbidden)
)

// RejectionError is the typed rejection produced by the access decision layer.
// Reason is a stable machine-readable code exposed to clients.
type RejectionError struct {
	Reason  string
	Message string
	Err     error
}

// Rejection reason codes
const (
	ReasonUnauthenticated = "unauthenticated"
	ReasonUnapproved      = "unapproved"
	ReasonNotAdmin        = "not_admin"
)

func (e *RejectionError) Error() string { return e.Message }
func (e *RejectionError) Unwrap() error { return e.Err }

// StatusCode implements HTTPError
func (e *RejectionError) StatusCode() int {
	if errors.Is(e.Err, ErrUnauthenticated) {
		return http.StatusUnauthorized
	}
	return http.StatusForbidden
}

// NewUnauthenticated builds the 401 rejection.
func NewUnauthenticated() *RejectionError {
	return &RejectionError{
		Reason:  ReasonUnauthenticated,
		Message: "authentication required",
		Err:     ErrUnauthenticated,
	}
}

// NewUnapproved builds the 403 rejection for identities without approval.
func NewUnapproved() *RejectionError {
	return &RejectionError{
		Reason:  ReasonUnapproved,
		Message: "access has not been approved, request access to continue",
		Err:     ErrUnapproved,
	}
}

// NewNotAdmin builds the 403 rejection for the administrator path.
func NewNotAdmin() *RejectionError {
	return &RejectionError{
		Reason:  ReasonNotAdmin,
		Message: "administrator access required",
		Err:     ErrForbidden,
	}
}
