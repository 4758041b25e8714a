// Package common provides shared utilities and types used across the application.
package common

import "errors"

// Common application errors.
var (
	// Provider errors.
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrRateLimited         = errors.New("provider rate limited")
	ErrMalformedReply      = errors.New("malformed generation reply")

	// Offer lookup errors.
	ErrNoOffers   = errors.New("no offers found")
	ErrNoLocation = errors.New("user has no registered location")

	// Tag protocol errors.
	ErrUnknownTool       = errors.New("unknown tool")
	ErrMalformedToolCall = errors.New("malformed tool call")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)
