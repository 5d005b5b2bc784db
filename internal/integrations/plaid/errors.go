// Package plaid reads balances and transactions from the Plaid API.
package plaid

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned when client credentials are missing
	ErrNotConfigured = errors.New("plaid: client not configured")

	// ErrInvalidToken is returned when the access token is invalid or revoked
	ErrInvalidToken = errors.New("plaid: invalid or expired access token")

	// ErrRateLimited is returned when rate limits are exceeded
	ErrRateLimited = errors.New("plaid: rate limit exceeded")

	// ErrItemLoginRequired is returned when the user must re-link their bank
	ErrItemLoginRequired = errors.New("plaid: item requires user re-authentication")
)

// APIError is a non-200 response that maps to no sentinel
type APIError struct {
	StatusCode   int
	ErrorType    string
	ErrorCode    string
	ErrorMessage string
	RequestID    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("plaid API error %d: %s (type=%s, code=%s, request_id=%s)",
		e.StatusCode, e.ErrorMessage, e.ErrorType, e.ErrorCode, e.RequestID)
}
