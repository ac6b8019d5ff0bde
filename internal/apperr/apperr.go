package apperr

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Kind classifies a failure the way the client needs to react to it:
// fix the request, retry later, re-authenticate, or give up.
type Kind int

const (
	Unauthenticated Kind = iota
	InvalidArgument
	NotFound
	ResourceExhausted
	Unavailable
	Internal
)

// Error carries a kind plus a human message. ResourceExhausted errors
// additionally carry the instant the caller may try again.
type Error struct {
	Kind            Kind
	Message         string
	NextAvailableAt *time.Time
	Err             error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// RateLimited builds the ResourceExhausted error for the daily cap,
// carrying when generation becomes available again.
func RateLimited(message string, next time.Time) *Error {
	return &Error{Kind: ResourceExhausted, Message: message, NextAvailableAt: &next}
}

// KindOf extracts the Kind from err, mapping store-level errors so that
// "missing row" and "database unreachable" surface as distinct kinds.
// Connectivity failures (timeouts, refused connections) become Unavailable
// so clients can retry instead of reporting a bug.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		// An Internal wrap around a connectivity failure is still a
		// connectivity failure.
		if e.Kind == Internal && transient(e.Err) {
			return Unavailable
		}
		return e.Kind
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound
	}
	if transient(err) {
		return Unavailable
	}
	return Internal
}

func transient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// HTTPStatus maps a kind to the response status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case Unauthenticated:
		return fiber.StatusUnauthorized
	case InvalidArgument:
		return fiber.StatusBadRequest
	case NotFound:
		return fiber.StatusNotFound
	case ResourceExhausted:
		return fiber.StatusTooManyRequests
	case Unavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
