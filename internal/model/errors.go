package model

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateRecord is returned by SeenSet.Record when the identity is
	// already stored.
	ErrDuplicateRecord = errors.New("seen record already exists")

	// ErrStoreUnavailable marks seen-set failures that must abort a run.
	ErrStoreUnavailable = errors.New("seen-set store unavailable")
)

// HTTPError wraps an unexpected HTTP status from an upstream source.
type HTTPError struct {
	StatusCode int
	URL        string
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d from %s: %v", e.StatusCode, e.URL, e.Err)
	}
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
