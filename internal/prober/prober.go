// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package prober

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/camtimeline/weaver/internal/log"
	"github.com/camtimeline/weaver/internal/weavetime"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Prober invokes ffprobe's JSON mode once per file and normalizes the
// result. It never decodes frames: probe-only flags keep each invocation
// fast even on large files.
type Prober struct {
	bin   *resolver
	cache *Cache // optional; nil disables caching
	group singleflight.Group
}

// New constructs a Prober using the named binary (conventionally "ffprobe").
// If cache is non-nil, successful probes are recorded and reused on a
// path+size+mtime hit.
func New(binary string, cache *Cache) *Prober {
	if binary == "" {
		binary = "ffprobe"
	}
	return &Prober{bin: newResolver(binary), cache: cache}
}

// Probe extracts duration, frame rate, resolution, codec name, and pixel
// format from sourcePath. A ProbeFailed error means the caller should
// exclude the file from the render but keep processing the batch.
// Concurrent probes of the same path (a caller scanning a directory with a
// worker pool, say) are collapsed onto a single ffprobe invocation via
// singleflight, so a thundering herd of identical calls never spawns more
// than one subprocess.
func (p *Prober) Probe(ctx context.Context, sourcePath string) (Result, error) {
	v, err, _ := p.group.Do(sourcePath, func() (any, error) {
		return p.probeUncached(ctx, sourcePath)
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

func (p *Prober) probeUncached(ctx context.Context, sourcePath string) (Result, error) {
	if p.cache != nil {
		if cached, ok := p.cache.Lookup(sourcePath); ok {
			return cached, nil
		}
	}

	binPath, err := p.bin.resolve()
	if err != nil {
		return Result{}, err
	}

	args := []string{
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		"-select_streams", "v:0",
		sourcePath,
	}

	cmd := exec.CommandContext(ctx, binPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger := log.WithComponent("prober")

	if err := cmd.Run(); err != nil {
		logger.Warn().Str("path", sourcePath).Str("stderr", stderr.String()).Msg("ffprobe invocation failed")
		return Result{}, &ProbeFailed{Path: sourcePath, Cause: err}
	}

	var raw rawProbe
	if err := json.Unmarshal(stdout.Bytes(), &raw); err != nil {
		return Result{}, &ProbeFailed{Path: sourcePath, Cause: fmt.Errorf("unmarshal probe json: %w", err)}
	}

	var stream *rawStream
	for i := range raw.Streams {
		if raw.Streams[i].CodecType == "video" {
			stream = &raw.Streams[i]
			break
		}
	}
	if stream == nil {
		return Result{}, &ProbeFailed{Path: sourcePath, Cause: fmt.Errorf("no video stream found")}
	}

	durationUs, err := resolveDuration(raw, *stream)
	if err != nil {
		return Result{}, &ProbeFailed{Path: sourcePath, Cause: err}
	}

	fps := resolveFrameRate(*stream, logger, sourcePath)

	result := Result{
		DurationUs:  durationUs,
		FrameRate:   fps,
		Width:       stream.Width,
		Height:      stream.Height,
		CodecName:   stream.CodecName,
		PixelFormat: stream.PixFmt,
		OK:          true,
	}

	if p.cache != nil {
		p.cache.Store(sourcePath, result)
	}

	return result, nil
}

// resolveDuration applies the documented fallback order: container
// duration, stream duration, duration_ts*time_base, nb_frames/frame_rate.
func resolveDuration(raw rawProbe, stream rawStream) (int64, error) {
	if us, ok := parseSecondsToUs(raw.Format.Duration); ok {
		return us, nil
	}
	if us, ok := parseSecondsToUs(stream.Duration); ok {
		return us, nil
	}
	if stream.DurationTS > 0 && stream.TimeBase != "" {
		if tb, ok := parseRational(stream.TimeBase); ok && tb.Positive() {
			seconds := float64(stream.DurationTS) * tb.Float64()
			return int64(seconds * 1_000_000), nil
		}
	}
	if stream.NbFrames != "" {
		if nbFrames, err := strconv.ParseInt(stream.NbFrames, 10, 64); err == nil && nbFrames > 0 {
			if fps, ok := parseRational(stream.RFrameRate); ok && fps.Positive() {
				seconds := float64(nbFrames) / fps.Float64()
				return int64(seconds * 1_000_000), nil
			}
		}
	}
	return 0, fmt.Errorf("no usable duration field in probe output")
}

// resolveFrameRate takes r_frame_rate, falls back to avg_frame_rate, then
// to a logged default of 30/1.
func resolveFrameRate(stream rawStream, logger zerolog.Logger, sourcePath string) weavetime.Rational {
	if fps, ok := parseRational(stream.RFrameRate); ok && fps.Positive() {
		return fps
	}
	if fps, ok := parseRational(stream.AvgFrameRate); ok && fps.Positive() {
		return fps
	}
	logger.Warn().Str("path", sourcePath).Msg("frame rate malformed in both r_frame_rate and avg_frame_rate; defaulting to 30/1")
	fallback, _ := weavetime.NewRational(30, 1)
	return fallback
}

// parseRational parses ffprobe's "num/den" rational strings.
func parseRational(s string) (weavetime.Rational, bool) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return weavetime.Rational{}, false
	}
	num, err1 := strconv.ParseInt(parts[0], 10, 64)
	den, err2 := strconv.ParseInt(parts[1], 10, 64)
	if err1 != nil || err2 != nil || den == 0 {
		return weavetime.Rational{}, false
	}
	r, err := weavetime.NewRational(num, den)
	if err != nil {
		return weavetime.Rational{}, false
	}
	return r, true
}

// parseSecondsToUs parses a decimal-seconds string (ffprobe's duration
// format) into integer microseconds.
func parseSecondsToUs(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(s, 64)
	if err != nil || seconds <= 0 {
		return 0, false
	}
	return int64(seconds * 1_000_000), true
}
