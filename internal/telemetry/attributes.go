// SPDX-License-Identifier: MIT

// Package telemetry provides OpenTelemetry tracing utilities for the render pipeline.
package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the render pipeline.
const (
	// Render attributes
	RenderIDKey       = "render.id"
	RenderStatusKey   = "render.status"
	RenderDurationKey = "render.duration_ms"

	// Timeline attributes
	TimelineClipCountKey    = "timeline.clip_count"
	TimelineSegmentCountKey = "timeline.segment_count"
	TimelineGapCountKey     = "timeline.gap_count"

	// Probe attributes
	ProbeSourcePathKey = "probe.source_path"
	ProbeCacheHitKey   = "probe.cache_hit"

	// Encode attributes
	EncodeCodecKey      = "encode.codec"
	EncodeResolutionKey = "encode.resolution"
	EncodeFPSKey        = "encode.fps"

	// Batch attributes
	BatchIndexKey = "batch.index"
	BatchTotalKey = "batch.total"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// RenderAttributes creates render-lifecycle span attributes.
func RenderAttributes(renderID, status string, durationMS int64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(RenderIDKey, renderID),
		attribute.String(RenderStatusKey, status),
		attribute.Int64(RenderDurationKey, durationMS),
	}
}

// TimelineAttributes creates timeline-assembly span attributes.
func TimelineAttributes(clipCount, segmentCount, gapCount int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(TimelineClipCountKey, clipCount),
		attribute.Int(TimelineSegmentCountKey, segmentCount),
		attribute.Int(TimelineGapCountKey, gapCount),
	}
}

// ProbeAttributes creates ffprobe span attributes.
func ProbeAttributes(sourcePath string, cacheHit bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(ProbeSourcePathKey, sourcePath),
		attribute.Bool(ProbeCacheHitKey, cacheHit),
	}
}

// EncodeAttributes creates ffmpeg encode span attributes.
func EncodeAttributes(codec, resolution string, fps float64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(EncodeCodecKey, codec),
		attribute.String(EncodeResolutionKey, resolution),
		attribute.Float64(EncodeFPSKey, fps),
	}
}

// BatchAttributes creates batch-chunk span attributes.
func BatchAttributes(index, total int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(BatchIndexKey, index),
		attribute.Int(BatchTotalKey, total),
	}
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(_ error, errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
