// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package batch

import "fmt"

// ChunkFailed wraps a failure rendering one batch chunk. Index is the
// chunk's position in partition order.
type ChunkFailed struct {
	Index int
	Cause error
}

func (e *ChunkFailed) Error() string {
	return fmt.Sprintf("batch: chunk %d failed: %v", e.Index, e.Cause)
}

func (e *ChunkFailed) Unwrap() error { return e.Cause }

// Kind returns the machine-readable error kind.
func (e *ChunkFailed) Kind() string { return "ChunkFailed" }

// ConcatFailed indicates the stream-copy concat step failed after all
// chunks rendered successfully.
type ConcatFailed struct {
	Cause error
}

func (e *ConcatFailed) Error() string {
	return fmt.Sprintf("batch: concat failed: %v", e.Cause)
}

func (e *ConcatFailed) Unwrap() error { return e.Cause }

// Kind returns the machine-readable error kind.
func (e *ConcatFailed) Kind() string { return "ConcatFailed" }
