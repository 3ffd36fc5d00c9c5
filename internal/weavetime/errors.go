package weavetime

import "fmt"

// BadTimecode is returned when a SMPTE or date/time value falls outside its
// valid range. Field names the offending component ("HH", "MM", "SS", "FF",
// or "format" when the text is not four colon-separated fields).
type BadTimecode struct {
	Field string
	Value string
}

func (e *BadTimecode) Error() string {
	return fmt.Sprintf("bad timecode: field %s has invalid value %q", e.Field, e.Value)
}

// Kind returns the machine-readable error kind.
func (e *BadTimecode) Kind() string { return "BadTimecode" }

// MissingDate is returned by ComposeInstant when no calendar date is
// available to anchor a SMPTE offset.
type MissingDate struct{}

func (e *MissingDate) Error() string { return "missing date: no calendar date to anchor timecode" }

// Kind returns the machine-readable error kind.
func (e *MissingDate) Kind() string { return "MissingDate" }
