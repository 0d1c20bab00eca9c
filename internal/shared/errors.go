package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed = fmt.Errorf("authentication failed")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrMalformedResponse  = fmt.Errorf("malformed API response")
	ErrVolumeExists       = fmt.Errorf("volume already added")
	ErrVolumeNotFound     = fmt.Errorf("volume not found")

	// Migration errors
	ErrMissingExternalID = fmt.Errorf("entry has no comicvine id")
	ErrNoMatchingIssue   = fmt.Errorf("no matching source issue")
	ErrNoFileAvailable   = fmt.Errorf("no file available")
	ErrMissingFolder     = fmt.Errorf("volume has no folder")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
