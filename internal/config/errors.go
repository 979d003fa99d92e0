package config

import "errors"

// Configuration validation errors returned by Config.Validate.
// Callers can match them with errors.Is.
var (
	// ErrInvalidFeedURL is returned when the feed URL is not an absolute http(s) URL.
	ErrInvalidFeedURL = errors.New("invalid feed URL: must be an absolute http or https URL")

	// ErrInvalidLandingURL is returned when the landing URL is not an absolute http(s) URL.
	ErrInvalidLandingURL = errors.New("invalid landing URL: must be an absolute http or https URL")

	// ErrInvalidChromeURL is returned when a chrome URL is set but is not an absolute http(s) URL.
	ErrInvalidChromeURL = errors.New("invalid chrome URL: must be an absolute http or https URL")

	// ErrNoContainerSelector is returned when no container selector is configured.
	// Without it the planet has nowhere to go.
	ErrNoContainerSelector = errors.New("no container selector: the planet needs a placeholder element")

	// ErrInvalidLanguage is returned when the language is not a valid BCP 47 tag.
	ErrInvalidLanguage = errors.New("invalid language: must be a BCP 47 language tag such as \"fr\"")

	// ErrInvalidTimeout is returned when the timeout is negative.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative (0 disables it)")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrNoDBDir is returned when history is enabled without a database directory.
	ErrNoDBDir = errors.New("history enabled but no database directory configured")
)
