package service

import (
	"errors"
	"fmt"
)

// ErrInvalidViewer means the caller supplied no usable viewer
// identity. Not retryable; the caller must fix the request.
var ErrInvalidViewer = errors.New("invalid viewer identity")

// StoreError wraps a source adapter failure. The whole feed request
// fails on it: serving a page that is silently empty for one content
// type would look like that type has no content. Retryable.
type StoreError struct {
	Source string
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s query failed: %v", e.Source, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
