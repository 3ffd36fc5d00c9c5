// Package filtergraph assembles the filter-complex script and the matching
// file-input list for a render, following the seven-step normalization
// chain and the Gap/Single/Overlap emission rules.
package filtergraph

import (
	"fmt"
	"strings"

	"github.com/camtimeline/weaver/internal/clip"
	"github.com/camtimeline/weaver/internal/settings"
	"github.com/camtimeline/weaver/internal/timeline"
	"github.com/camtimeline/weaver/internal/weavetime"
)

// FileInput is one real-file input the render orchestrator must pass to the
// external tool as "-ss <offset> -t <duration> -i <path>", in input order.
// The Nth FileInput corresponds to ffmpeg input index N.
type FileInput struct {
	Path          string
	StartOffsetUs int64
	DurationUs    int64
}

// Result is the emitted filtergraph plus the file inputs it references.
type Result struct {
	FileInputs   []FileInput
	FilterScript string
}

// Emit builds the filter-complex script for segments in order, tagging each
// segment's output stream [sN] and concatenating all of them into [vout].
func Emit(segments []timeline.Segment, clips []clip.ClipRecord, rs settings.RenderSettings) (Result, error) {
	if len(segments) == 0 {
		return Result{}, &EmitError{Reason: "no segments to emit"}
	}

	var result Result
	var lines []string
	var outLabels []string

	for i, seg := range segments {
		label := fmt.Sprintf("s%d", i)
		switch seg.Kind {
		case timeline.Gap:
			lines = append(lines, gapChain(i, seg, rs, label))
		case timeline.Single:
			idx := len(result.FileInputs)
			c := clips[seg.ClipA]
			result.FileInputs = append(result.FileInputs, fileInputFor(c, seg.T0, seg.T1))
			lines = append(lines, singleChain(idx, rs, label))
		case timeline.Overlap:
			a := clips[seg.ClipA]
			b := clips[seg.ClipB]
			idxA := len(result.FileInputs)
			result.FileInputs = append(result.FileInputs, fileInputFor(a, seg.T0, seg.T1))
			idxB := len(result.FileInputs)
			result.FileInputs = append(result.FileInputs, fileInputFor(b, seg.T0, seg.T1))
			lines = append(lines, overlapChain(idxA, idxB, i, rs, label)...)
		default:
			return Result{}, &EmitError{Reason: fmt.Sprintf("unknown segment kind %v at index %d", seg.Kind, i)}
		}
		outLabels = append(outLabels, "["+label+"]")
	}

	lines = append(lines, fmt.Sprintf("%sconcat=n=%d:v=1:a=0[vout]", strings.Join(outLabels, ""), len(segments)))
	result.FilterScript = strings.Join(lines, ";\n") + "\n"
	return result, nil
}

func fileInputFor(c clip.ClipRecord, t0, t1 weavetime.Instant) FileInput {
	return FileInput{
		Path:          c.SourcePath,
		StartOffsetUs: int64(t0) - int64(c.StartInstant),
		DurationUs:    int64(t1) - int64(t0),
	}
}
