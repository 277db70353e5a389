package domain

import (
	"github.com/stockdesk/frontend/internal/errors"
)

// Backend client errors.
var (
	// ErrUnsupportedMethod indicates an HTTP method other than GET, POST, PUT or DELETE.
	ErrUnsupportedMethod = errors.Wrap(errors.ErrInvalidInput, "unsupported http method")

	// ErrSessionRequired indicates a route that needs the session uuid was called without one.
	ErrSessionRequired = errors.Wrap(errors.ErrUnauthorized, "session required")

	// ErrInvalidOrder indicates an order failed validation before being sent.
	ErrInvalidOrder = errors.Wrap(errors.ErrInvalidInput, "invalid order")

	// ErrInvalidAttribute indicates an update of an attribute the backend does not support.
	ErrInvalidAttribute = errors.Wrap(errors.ErrInvalidInput, "invalid user attribute")

	// ErrBackendUnavailable indicates the backend could not be reached or answered 5xx.
	ErrBackendUnavailable = errors.Wrap(errors.ErrUnavailable, "backend unavailable")

	// ErrRequestRejected indicates the backend answered with success set to false.
	ErrRequestRejected = errors.Wrap(errors.ErrInvalidInput, "request rejected by backend")

	// ErrInvalidResponse indicates the backend answered with a body that is not a JSON object.
	ErrInvalidResponse = errors.Wrap(errors.ErrUnavailable, "invalid backend response")
)
