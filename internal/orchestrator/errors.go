// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package orchestrator

import "fmt"

// SubprocessFailed indicates the external render tool exited with a
// non-zero status. LastStderrLines carries the ring buffer's contents at
// exit time, for operator diagnosis without re-running the render.
type SubprocessFailed struct {
	ExitCode        int
	LastStderrLines []string
}

func (e *SubprocessFailed) Error() string {
	return fmt.Sprintf("orchestrator: subprocess exited with code %d", e.ExitCode)
}

// Kind returns the machine-readable error kind.
func (e *SubprocessFailed) Kind() string { return "SubprocessFailed" }

// Cancelled indicates the render was stopped by an external cancellation
// token rather than by subprocess failure.
type Cancelled struct{}

func (e *Cancelled) Error() string { return "orchestrator: render cancelled" }

// Kind returns the machine-readable error kind.
func (e *Cancelled) Kind() string { return "Cancelled" }

// FilesystemError wraps a failure to create, write, or remove a path the
// orchestrator owns (temp directory, filter script, intermediate file).
type FilesystemError struct {
	Path  string
	Cause error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("orchestrator: filesystem error at %s: %v", e.Path, e.Cause)
}

func (e *FilesystemError) Unwrap() error { return e.Cause }

// Kind returns the machine-readable error kind.
func (e *FilesystemError) Kind() string { return "FilesystemError" }

// ToolMissing indicates the external render tool binary could not be
// resolved on PATH.
type ToolMissing struct {
	Binary string
}

func (e *ToolMissing) Error() string {
	return fmt.Sprintf("orchestrator: %s not found on PATH", e.Binary)
}

// Kind returns the machine-readable error kind.
func (e *ToolMissing) Kind() string { return "ToolMissing" }
