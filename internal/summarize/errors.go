package summarize

import (
	"errors"
	"fmt"
)

// ErrEmptyInput means normalization left no usable text, so no external
// calls were made.
var ErrEmptyInput = errors.New("no usable text detected")

// ErrNoChunks means chunking produced nothing above the minimum size.
var ErrNoChunks = errors.New("no chunks above minimum size")

// TotalFailureError means every chunk's analysis call failed; the pipeline
// has nothing to fuse.
type TotalFailureError struct {
	FailedChunks []int // 1-based chunk positions
	TotalChunks  int
}

func (e *TotalFailureError) Error() string {
	return fmt.Sprintf("all %d chunks failed analysis", e.TotalChunks)
}

// FuseError means partial analyses succeeded but the merge call failed.
// Fuse failure is terminal: returning an empty summary after successful
// partials would silently discard the document.
type FuseError struct {
	Err error
}

func (e *FuseError) Error() string {
	return fmt.Sprintf("fuse partial analyses: %v", e.Err)
}

func (e *FuseError) Unwrap() error {
	return e.Err
}
