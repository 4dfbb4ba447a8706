package shared

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrInvalidToken     = fmt.Errorf("invalid token")
	ErrTokenExpired     = fmt.Errorf("access token expired")

	// Ordering and store errors
	ErrNotFound        = fmt.Errorf("item not found")
	ErrInvalidPosition = fmt.Errorf("invalid position")
	ErrNotDense        = fmt.Errorf("positions are not dense")

	// API and service errors
	ErrRemoteRequest      = fmt.Errorf("remote request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrValidation      = fmt.Errorf("validation failed")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)

// NotFoundError reports an id that is absent from its collection or sibling group.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("item not found: %s", e.ID)
	}
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvalidPositionError reports a target position outside [1, Size].
type InvalidPositionError struct {
	Position int
	Size     int
}

func (e *InvalidPositionError) Error() string {
	return fmt.Sprintf("invalid position %d: must be between 1 and %d", e.Position, e.Size)
}

func (e *InvalidPositionError) Unwrap() error { return ErrInvalidPosition }

// RemoteRequestError wraps a failed call to the gallery API.
//
// Status is zero when the request never produced a response.
type RemoteRequestError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *RemoteRequestError) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	default:
		return fmt.Sprintf("%s %s: request failed", e.Method, e.Path)
	}
}

// Unwrap exposes both the sentinel and the transport error, if any.
func (e *RemoteRequestError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrRemoteRequest, e.Err}
	}
	return []error{ErrRemoteRequest}
}

// ValidationError blocks a submission before anything is applied.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Required returns a [ValidationError] when value is empty.
func Required(field, value string) error {
	if value == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

// IsRemote reports whether err came from the remote API boundary.
func IsRemote(err error) bool {
	return errors.Is(err, ErrRemoteRequest)
}
