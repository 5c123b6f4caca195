package models

import "errors"

// Error contract of the TextProvider interface. Handlers and services
// classify provider failures with errors.Is against these sentinels.
var (
	// ErrNotConfigured means no credentials were supplied, so no transport exists.
	ErrNotConfigured = errors.New("provider not configured: missing API key")
	// ErrUnsupportedModel means the requested model id is not in the registry.
	// Providers must reject such requests before any network I/O.
	ErrUnsupportedModel = errors.New("model not supported by provider")
	// ErrEmptyResponse means the remote call succeeded but returned zero
	// content segments. A hard failure, not an empty string.
	ErrEmptyResponse = errors.New("provider returned empty response")
	// ErrUpstream covers network failures, non-2xx statuses, and malformed JSON.
	ErrUpstream = errors.New("upstream provider error")
)
