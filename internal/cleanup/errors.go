package cleanup

import (
	"errors"
	"fmt"
)

// FatalError aborts an invocation before any filesystem mutation: the rule
// set is unusable or the process lacks a privilege the requested categories
// need. Per-item problems are never fatal; they become outcomes instead.
type FatalError struct {
	Stage string // "rules" or "privilege"
	Err   error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// ErrPartialFailure marks a run where at least one item could not be
// removed. The report still carries every outcome.
var ErrPartialFailure = errors.New("some items could not be removed")

// ErrInterrupted marks a run cancelled between items. Items already
// processed keep their outcomes; the rest are recorded as skipped.
var ErrInterrupted = errors.New("interrupted")
