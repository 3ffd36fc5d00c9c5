package timeline

// NothingToRender is returned when the input clip set spans zero time (no
// clips, or a degenerate single-instant span).
type NothingToRender struct{}

func (e *NothingToRender) Error() string { return "timeline: nothing to render, empty clip span" }

// Kind returns the machine-readable error kind.
func (e *NothingToRender) Kind() string { return "NothingToRender" }
