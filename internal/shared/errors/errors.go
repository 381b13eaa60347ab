package errors

import "errors"

// Domain errors
var (
	// Input errors
	ErrEmptyURL   = errors.New("URL tidak boleh kosong")
	ErrInvalidURL = errors.New("URL has no host")

	// Fetch errors
	ErrBlockedAddress   = errors.New("request to private/reserved network address is not allowed")
	ErrBlockedRedirect  = errors.New("redirect to non-http(s) scheme blocked")
	ErrTooManyRedirects = errors.New("too many redirects")

	// CLI errors
	ErrNoTargets          = errors.New("at least one target URL is required")
	ErrUnsupportedFormat  = errors.New("unsupported output format")
	ErrUnsupportedLocale  = errors.New("unsupported message language")
	ErrInvalidConcurrency = errors.New("concurrency out of range")
	ErrVulnerableTargets  = errors.New("one or more targets are vulnerable to clickjacking")
)
