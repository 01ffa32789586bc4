package services

import (
	"errors"
	"fmt"
)

var (
	// ErrForbidden is returned when the identity may not act on the resource.
	ErrForbidden = errors.New("not authorised to perform this action")

	// ErrNoPortfolio is returned from the trade path when the requesting
	// user has not created a portfolio yet.
	ErrNoPortfolio = errors.New("user does not have a portfolio")

	// ErrUpstream is returned when the market-data provider cannot be
	// reached. There is no automatic retry; the caller resubmits.
	ErrUpstream = errors.New("market data provider unavailable")
)

// ValidationError reports a malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("the '%s' field is invalid: %s", e.Field, e.Reason)
}

// NotFoundError reports an absent entity by a client-safe message.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ConflictError reports a state conflict such as a duplicate email or a
// second portfolio for the same user.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }
