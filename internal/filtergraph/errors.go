package filtergraph

import "fmt"

// EmitError indicates a programmer error: bad input reached the filtergraph
// emitter (e.g. no segments, or an unclassified segment kind).
type EmitError struct {
	Reason string
}

func (e *EmitError) Error() string {
	return fmt.Sprintf("filtergraph: emit failed: %s", e.Reason)
}

// Kind returns the machine-readable error kind.
func (e *EmitError) Kind() string { return "FilterEmitError" }
