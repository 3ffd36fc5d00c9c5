// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package render wires the timeline assembly, filtergraph emission, argv
// safety check, and subprocess orchestration stages into a single
// Render call, choosing single-pass or batch mode per RenderSettings and
// the estimated argv length.
package render

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/camtimeline/weaver/internal/argvsafety"
	"github.com/camtimeline/weaver/internal/batch"
	"github.com/camtimeline/weaver/internal/clip"
	"github.com/camtimeline/weaver/internal/filtergraph"
	"github.com/camtimeline/weaver/internal/log"
	"github.com/camtimeline/weaver/internal/orchestrator"
	"github.com/camtimeline/weaver/internal/settings"
	"github.com/camtimeline/weaver/internal/telemetry"
	"github.com/camtimeline/weaver/internal/timeline"
)

// ProgressFunc receives a fraction in [0.0, 1.0] estimating overall render
// completion, across however many batches the render requires.
type ProgressFunc func(fraction float64)

// Pipeline drives one end-to-end render from a normalized clip list to a
// finished output file.
type Pipeline struct {
	orchestratorBinary string
	concatBinary       string
}

// New constructs a Pipeline. binary names the external tool used for both
// single-pass rendering and batch concatenation (conventionally "ffmpeg");
// an empty string defaults to "ffmpeg".
func New(binary string) *Pipeline {
	return &Pipeline{orchestratorBinary: binary, concatBinary: binary}
}

// Render assembles clips into a timeline, emits the filtergraph, and
// invokes the external tool, transparently falling back to batch mode per
// RenderSettings.UseBatchRendering or the argv-length estimate. cancel is
// polled between stderr reads and between batches; progress callbacks are
// throttled to at most one every 200ms.
func (p *Pipeline) Render(ctx context.Context, clips []clip.ClipRecord, rs settings.RenderSettings, cancel <-chan struct{}, progress ProgressFunc) (string, error) {
	renderID := uuid.NewString()
	ctx, logger := log.WithRenderContext(ctx, renderID)

	tracer := telemetry.Tracer("render")
	ctx, span := tracer.Start(ctx, "render.pipeline")
	defer span.End()

	atomics := timeline.BuildAtomicIntervals(clips)
	segments := timeline.BuildSegments(atomics, clips, rs.SlateTextTemplate)
	if len(segments) == 0 {
		return "", &timeline.NothingToRender{}
	}

	gapCount := 0
	for _, seg := range segments {
		if seg.Kind == timeline.Gap {
			gapCount++
		}
	}
	span.SetAttributes(telemetry.TimelineAttributes(len(clips), len(segments), gapCount)...)
	logger.Info().Int("clip_count", len(clips)).Int("segment_count", len(segments)).Msg("timeline assembled")

	totalTimelineUs := int64(0)
	if len(segments) > 0 {
		totalTimelineUs = int64(segments[len(segments)-1].T1) - int64(segments[0].T0)
	}

	workDir, err := os.MkdirTemp("", "weaver_render_")
	if err != nil {
		return "", fmt.Errorf("render: create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	runner := orchestrator.New(p.orchestratorBinary)

	renderSegments := func(innerCtx context.Context, innerClips []clip.ClipRecord, outputPath string) error {
		innerAtomics := timeline.BuildAtomicIntervals(innerClips)
		innerSegments := timeline.BuildSegments(innerAtomics, innerClips, rs.SlateTextTemplate)
		if len(innerSegments) == 0 {
			return &timeline.NothingToRender{}
		}
		fg, err := filtergraph.Emit(innerSegments, innerClips, rs)
		if err != nil {
			return err
		}
		chunkDir, err := os.MkdirTemp(workDir, "chunk_")
		if err != nil {
			return fmt.Errorf("render: create chunk dir: %w", err)
		}
		innerT0 := int64(innerSegments[0].T0)
		innerTotalUs := int64(innerSegments[len(innerSegments)-1].T1) - innerT0
		offsetUs := innerT0 - int64(segments[0].T0)
		return runner.Render(innerCtx, cancel, fg, rs, chunkDir, outputPath, true, innerTotalUs, func(f float64) {
			if progress == nil {
				return
			}
			overall := f
			if totalTimelineUs > 0 {
				overall = (float64(offsetUs) + f*float64(innerTotalUs)) / float64(totalTimelineUs)
				if overall > 1 {
					overall = 1
				}
			}
			progress(overall)
		})
	}

	useBatch := rs.UseBatchRendering
	if !useBatch {
		fg, err := filtergraph.Emit(segments, clips, rs)
		if err != nil {
			return "", err
		}
		inputLengths := make([]int, len(fg.FileInputs))
		for i, fi := range fg.FileInputs {
			inputLengths[i] = len(fi.Path)
		}
		encoder := settings.ResolveEncoder(rs.VideoCodec)
		encoderBytes := 0
		for _, a := range encoder.Args {
			encoderBytes += len(a) + 1
		}
		est := argvsafety.EstimateLength(inputLengths, encoderBytes)
		var warning string
		useBatch, warning = argvsafety.Decide(false, est)
		if warning != "" {
			logger.Warn().Int("estimated_bytes", est.Bytes).Msg(warning)
		}
		if !useBatch {
			span.SetAttributes(telemetry.EncodeAttributes(string(rs.VideoCodec), fmt.Sprintf("%dx%d", rs.OutputResolution.Width, rs.OutputResolution.Height), rs.OutputFPS.Float64())...)
			forwardProgress := func(f float64) {
				if progress != nil {
					progress(f)
				}
			}
			if err := runner.Render(ctx, cancel, fg, rs, workDir, rs.OutputPath, true, totalTimelineUs, forwardProgress); err != nil {
				span.SetAttributes(telemetry.ErrorAttributes(err, fmt.Sprintf("%T", err))...)
				return "", err
			}
			return rs.OutputPath, nil
		}
	}

	coordinator, err := batch.New(p.concatBinary)
	if err != nil {
		return "", err
	}
	logger.Info().Int("batch_size", rs.BatchSize).Msg("entering batch rendering mode")
	if err := coordinator.Render(ctx, clips, rs.BatchSize, rs.OutputPath, renderSegments); err != nil {
		span.SetAttributes(telemetry.ErrorAttributes(err, fmt.Sprintf("%T", err))...)
		return "", err
	}
	return rs.OutputPath, nil
}
