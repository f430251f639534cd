package sheetclient

import "fmt"

// ConfigurationError means the endpoint URL is unset or still the placeholder.
// No network I/O is attempted when it is returned.
type ConfigurationError struct{}

func (e *ConfigurationError) Error() string {
	return "spreadsheet endpoint is not configured: set SHEET_URL to the deployed script URL"
}

// RemoteError is every failure that came from (or on the way to) the endpoint:
// non-2xx status, malformed payload, transport failure or success:false.
type RemoteError struct {
	Message    string
	StatusCode int // 0 when no HTTP response was received
	Cause      error
}

func (e *RemoteError) Error() string {
	return e.Message
}

func (e *RemoteError) Unwrap() error {
	return e.Cause
}

// ValidationError is a local rejection of a character name; it never reaches the network.
type ValidationError struct {
	Name   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid character name %q: %s", e.Name, e.Reason)
}
