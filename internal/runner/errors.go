package runner

import (
	"fmt"
)

// HTTPError represents an HTTP request failure with status details.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// UnexpectedStatusError is returned when a response falls outside every
// recognized status range. Such responses are never retried.
type UnexpectedStatusError struct {
	StatusCode int
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.StatusCode)
}

// ExhaustedError reports a work item whose retry budget ran out.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// SinkError reports a result record that could not be appended to the sink.
type SinkError struct {
	ID  int64
	Err error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("write result for request %d: %v", e.ID, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}
