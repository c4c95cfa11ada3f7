package client

import "fmt"

// TransportError reports a request that never produced a usable response:
// network failures, timeouts, or retry exhaustion on retryable statuses.
// Attempts is the total number of tries made.
type TransportError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: GET %s failed after %d attempt(s): %v", e.URL, e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError reports a non-2xx HTTP response. Client errors (4xx) are
// returned on the first response without retrying; server errors (5xx)
// surface here only when wrapped by a TransportError after retries.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// ClientError reports whether the status is in the 4xx range.
func (e *StatusError) ClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// ServerError reports whether the status is in the 5xx range.
func (e *StatusError) ServerError() bool {
	return e.StatusCode >= 500
}
