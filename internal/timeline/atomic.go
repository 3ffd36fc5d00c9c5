// Package timeline builds the atomic-interval partition of a clip set and
// merges/classifies it into Gap, Single, and Overlap segments.
package timeline

import (
	"sort"

	"github.com/camtimeline/weaver/internal/clip"
	"github.com/camtimeline/weaver/internal/weavetime"
)

// AtomicInterval is one cell of the minimal ordered partition whose
// boundaries are the union of every clip's start and end instant. Active
// holds indices into the ClipRecord slice passed to BuildAtomicIntervals,
// ordered by (camera_id, start_instant, source_path).
type AtomicInterval struct {
	T0, T1 weavetime.Instant
	Active []int
}

// BuildAtomicIntervals runs the event-sweep algorithm: collect all clip
// endpoints, sort and dedupe them into boundaries, then for each consecutive
// boundary pair compute the active set under half-open [T0,T1) semantics.
func BuildAtomicIntervals(clips []clip.ClipRecord) []AtomicInterval {
	if len(clips) == 0 {
		return nil
	}

	boundarySet := make(map[weavetime.Instant]bool, len(clips)*2)
	startAt := make(map[weavetime.Instant][]int)
	endAt := make(map[weavetime.Instant][]int)
	for i, c := range clips {
		boundarySet[c.StartInstant] = true
		boundarySet[c.EndInstant] = true
		startAt[c.StartInstant] = append(startAt[c.StartInstant], i)
		endAt[c.EndInstant] = append(endAt[c.EndInstant], i)
	}

	boundaries := make([]weavetime.Instant, 0, len(boundarySet))
	for b := range boundarySet {
		boundaries = append(boundaries, b)
	}
	sort.Slice(boundaries, func(i, j int) bool { return boundaries[i] < boundaries[j] })

	active := make(map[int]bool, len(clips))
	intervals := make([]AtomicInterval, 0, len(boundaries))

	for k := 0; k < len(boundaries)-1; k++ {
		b := boundaries[k]
		for _, idx := range endAt[b] {
			delete(active, idx)
		}
		for _, idx := range startAt[b] {
			active[idx] = true
		}

		indices := make([]int, 0, len(active))
		for idx := range active {
			indices = append(indices, idx)
		}
		sort.Slice(indices, func(i, j int) bool {
			return activeLess(clips, indices[i], indices[j])
		})

		intervals = append(intervals, AtomicInterval{
			T0:     b,
			T1:     boundaries[k+1],
			Active: indices,
		})
	}
	return intervals
}

// activeLess orders active clip indices by (camera_id, start_instant,
// source_path), the deterministic ordering used both for AtomicInterval.Active
// and for the two-of-many Overlap selection.
func activeLess(clips []clip.ClipRecord, i, j int) bool {
	a, b := clips[i], clips[j]
	if a.CameraID != b.CameraID {
		return a.CameraID < b.CameraID
	}
	if a.StartInstant != b.StartInstant {
		return a.StartInstant < b.StartInstant
	}
	return a.SourcePath < b.SourcePath
}
