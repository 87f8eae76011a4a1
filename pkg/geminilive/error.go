package geminilive

import "fmt"

// Error represents a connection or protocol error from the Live API.
type Error struct {
	// Code is the API status code, if any.
	Code int

	// Status is the API status name (e.g., "INVALID_ARGUMENT").
	Status string

	// Message is the human-readable error message.
	Message string

	// HTTPStatus is the HTTP status of a failed handshake, if applicable.
	HTTPStatus int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("geminilive: %s: %s", e.Status, e.Message)
	}
	if e.HTTPStatus != 0 {
		return fmt.Sprintf("geminilive: http %d: %s", e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("geminilive: %s", e.Message)
}

func (s *apiStatus) toError() *Error {
	return &Error{
		Code:    s.Code,
		Status:  s.Status,
		Message: s.Message,
	}
}
