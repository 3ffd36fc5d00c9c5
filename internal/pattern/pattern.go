// Package pattern resolves a clip filename to the date and SMPTE offset it
// encodes, trying an ordered set of matchers and taking the first one that
// produces every required field.
package pattern

import (
	"fmt"

	"github.com/camtimeline/weaver/internal/weavetime"
)

// Fields is the (date, smpte-offset) pair recovered from a filename, plus
// the frame component so the caller can round-trip through weavetime.
type Fields struct {
	Date       weavetime.Date
	Hour       int
	Minute     int
	Second     int
	Frame      int
	CameraHint string // non-empty only when the pattern carries a camera prefix
}

// Matcher attempts to extract Fields from a filename (without directory
// components). It returns ok=false when the filename doesn't fit its shape,
// never an error — shape mismatch is expected and common across a matcher
// set, unlike a field being present but invalid.
type Matcher interface {
	Match(filename string) (Fields, bool)
}

// Resolver tries each Matcher in order and returns the first match. Order is
// significant: it is both the precedence rule and the tie-break rule.
type Resolver struct {
	matchers []Matcher
}

// NewResolver builds a Resolver from an ordered matcher set.
func NewResolver(matchers ...Matcher) *Resolver {
	return &Resolver{matchers: matchers}
}

// DefaultResolver returns the v1 enumerated pattern set in the spec's
// required order: Dahua-style stamp, ISO-8601, compact HHMMSS (needs an
// externally supplied default date), custom regex.
func DefaultResolver(defaultDate weavetime.Date, customRegex string) (*Resolver, error) {
	matchers := []Matcher{
		DahuaStamp{},
		ISO8601{},
		CompactHHMMSS{DefaultDate: defaultDate},
	}
	if customRegex != "" {
		m, err := NewCustomRegex(customRegex)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}
	return NewResolver(matchers...), nil
}

// Resolve runs the ordered matcher set against filename. Returns
// *NoPatternMatch if nothing matches.
func (r *Resolver) Resolve(filename string) (Fields, error) {
	for _, m := range r.matchers {
		if f, ok := m.Match(filename); ok {
			return f, nil
		}
	}
	return Fields{}, &NoPatternMatch{Filename: filename}
}

// Offset converts Fields into a SMPTE-day offset in microseconds, following
// C1's numeric semantics (exact, via weavetime.Rational arithmetic).
func (f Fields) Offset(fps weavetime.Rational) (int64, error) {
	text := fmt.Sprintf("%02d:%02d:%02d:%02d", f.Hour, f.Minute, f.Second, f.Frame)
	return weavetime.ParseSMPTE(text, fps)
}
