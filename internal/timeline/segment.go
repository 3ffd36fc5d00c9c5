package timeline

import (
	"github.com/camtimeline/weaver/internal/clip"
	"github.com/camtimeline/weaver/internal/weavetime"
)

// Kind classifies a Segment by the size of its active clip set.
type Kind int

const (
	// Gap has no active clip.
	Gap Kind = iota
	// Single has exactly one active clip.
	Single
	// Overlap has two or more active clips, collapsed to the
	// deterministic two-of-many selection.
	Overlap
)

func (k Kind) String() string {
	switch k {
	case Gap:
		return "Gap"
	case Single:
		return "Single"
	case Overlap:
		return "Overlap"
	default:
		return "Unknown"
	}
}

// Segment is a contiguous, classified span of the timeline. ClipA/ClipB are
// indices into the ClipRecord slice the timeline was built from; only the
// indices relevant to Kind are meaningful (none for Gap, ClipA for Single,
// both for Overlap).
type Segment struct {
	Kind      Kind
	T0, T1    weavetime.Instant
	ClipA     int
	ClipB     int
	SlateText string
}

// BuildSegments merges adjacent atomic intervals sharing an identical active
// set (compared by multiset of source_path) and classifies each resulting
// segment. slateTemplate is rendered for Gap segments via RenderSlateText.
func BuildSegments(atomics []AtomicInterval, clips []clip.ClipRecord, slateTemplate string) []Segment {
	merged := mergeAtomics(atomics, clips)

	segments := make([]Segment, 0, len(merged))
	for _, m := range merged {
		seg := Segment{T0: m.T0, T1: m.T1}
		switch len(m.Active) {
		case 0:
			seg.Kind = Gap
			seg.SlateText = RenderSlateText(slateTemplate, m.T0, m.T1)
		case 1:
			seg.Kind = Single
			seg.ClipA = m.Active[0]
		default:
			seg.Kind = Overlap
			// m.Active is already sorted by (camera_id, start_instant,
			// source_path); the two-of-many rule takes the first two.
			seg.ClipA = m.Active[0]
			seg.ClipB = m.Active[1]
		}
		segments = append(segments, seg)
	}
	return segments
}

// mergeAtomics coalesces runs of adjacent AtomicIntervals whose active sets
// contain the same multiset of source_path values.
func mergeAtomics(atomics []AtomicInterval, clips []clip.ClipRecord) []AtomicInterval {
	if len(atomics) == 0 {
		return nil
	}
	merged := make([]AtomicInterval, 0, len(atomics))
	cur := atomics[0]
	for _, next := range atomics[1:] {
		if sameActiveSet(clips, cur.Active, next.Active) {
			cur.T1 = next.T1
			continue
		}
		merged = append(merged, cur)
		cur = next
	}
	merged = append(merged, cur)
	return merged
}

func sameActiveSet(clips []clip.ClipRecord, a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if clips[a[i]].SourcePath != clips[b[i]].SourcePath {
			return false
		}
	}
	return true
}
