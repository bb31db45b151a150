package errors

import (
	"errors"
	"fmt"
)

// ErrNoDataAvailable signals that every tracked year came back empty, so
// there is nothing to merge and no report is written. The orchestrator
// treats it as success-with-nothing-to-do.
var ErrNoDataAvailable = errors.New("no data available for any tracked year")

// ErrRunInProgress signals that an update trigger arrived while another run
// held the single-run guard. The trigger is dropped, never queued.
var ErrRunInProgress = errors.New("update run already in progress")

// FetchError wraps a network/HTTP/parse failure for a single year. It is
// never fatal: the orchestrator degrades the year to an empty dataset.
type FetchError struct {
	Year int
	Err  error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch year %d: %v", e.Year, e.Err)
}

// Unwrap returns the underlying cause
func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError wraps err as a per-year fetch failure.
func NewFetchError(year int, err error) *FetchError {
	return &FetchError{Year: year, Err: err}
}

// WriteError wraps an artifact I/O failure (permissions, disk full, locked
// target). It is fatal to the run: RunUpdate returns false.
type WriteError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *WriteError) Error() string {
	return fmt.Sprintf("write report %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause
func (e *WriteError) Unwrap() error {
	return e.Err
}

// NewWriteError wraps err as an artifact write failure.
func NewWriteError(path string, err error) *WriteError {
	return &WriteError{Path: path, Err: err}
}

// IsNoData reports whether err is the no-data condition.
func IsNoData(err error) bool {
	return errors.Is(err, ErrNoDataAvailable)
}

// IsWriteError reports whether err is (or wraps) an artifact write failure.
func IsWriteError(err error) bool {
	var we *WriteError
	return errors.As(err, &we)
}
