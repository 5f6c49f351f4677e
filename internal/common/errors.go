// Package common defines shared constants and sentinel errors used across
// client and server layers of LearnSphere. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Transport-level failure, no response received.
	ErrNetworkFailure = errors.New("network failure")

	// HTTP 401 on a protected call.
	ErrExpiredCredential = errors.New("credential expired")

	// The refresh endpoint rejected the refresh credential. Fatal to the session.
	ErrRefreshDenied = errors.New("refresh denied")

	// Startup validation of a stored session failed for a reason other than expiry.
	ErrValidationDenied = errors.New("session validation denied")

	// HTTP 403.
	ErrForbidden = errors.New("forbidden")

	// Any other non-2xx response.
	ErrBusiness = errors.New("request rejected")

	// No identity is installed.
	ErrNotAuthenticated = errors.New("not authenticated")

	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Validation / input errors.
	ErrInvalidInput = errors.New("invalid input")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
