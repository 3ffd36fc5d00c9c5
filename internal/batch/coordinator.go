// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package batch partitions a clip list into contiguous chunks, renders each
// chunk independently through a caller-supplied single-pass render
// function, concatenates the intermediates by stream copy, and atomically
// replaces the final output path. Batch mode never recurses: the render
// function it is given must itself run single-pass.
package batch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/google/renameio/v2"

	"github.com/camtimeline/weaver/internal/clip"
	"github.com/camtimeline/weaver/internal/log"
)

// RenderChunkFunc renders the given contiguous slice of clips to outputPath
// using single-pass rendering (no further batching).
type RenderChunkFunc func(ctx context.Context, chunk []clip.ClipRecord, outputPath string) error

// Coordinator drives batch-mode rendering.
type Coordinator struct {
	binPath string
}

// New resolves the external tool binary (conventionally "ffmpeg") used for
// the stream-copy concat step.
func New(binary string) (*Coordinator, error) {
	if binary == "" {
		binary = "ffmpeg"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("batch: %s not found on PATH: %w", binary, err)
	}
	return &Coordinator{binPath: path}, nil
}

// Partition sorts clips into chronological order (by StartInstant, ties
// broken by CameraID then SourcePath) and splits the result into contiguous
// chunks of at most batchSize elements, so each chunk covers a contiguous
// stretch of the timeline whatever order the caller passed. Chunk boundaries
// are placed by count alone; they are not moved to keep clips that overlap
// each other in the same chunk.
func Partition(clips []clip.ClipRecord, batchSize int) [][]clip.ClipRecord {
	sorted := make([]clip.ClipRecord, len(clips))
	copy(sorted, clips)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.StartInstant != b.StartInstant {
			return a.StartInstant < b.StartInstant
		}
		if a.CameraID != b.CameraID {
			return a.CameraID < b.CameraID
		}
		return a.SourcePath < b.SourcePath
	})

	if batchSize < 1 {
		batchSize = len(sorted)
	}
	var chunks [][]clip.ClipRecord
	for start := 0; start < len(sorted); start += batchSize {
		end := start + batchSize
		if end > len(sorted) {
			end = len(sorted)
		}
		chunks = append(chunks, sorted[start:end])
	}
	return chunks
}

// Render partitions clips into chunks of at most batchSize, renders each via
// renderChunk, concatenates the results by stream copy, and atomically
// replaces outputPath. On any failure, all intermediates and the temp
// directory are removed and outputPath is left untouched.
func (c *Coordinator) Render(ctx context.Context, clips []clip.ClipRecord, batchSize int, outputPath string, renderChunk RenderChunkFunc) error {
	if len(clips) == 0 {
		return fmt.Errorf("batch: no clips to render")
	}

	workDir, err := os.MkdirTemp("", "timeline_batch_")
	if err != nil {
		return fmt.Errorf("batch: create temp dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	logger := log.WithComponent("batch")
	ext := filepath.Ext(outputPath)
	chunks := Partition(clips, batchSize)

	intermediates := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		intermediatePath := filepath.Join(workDir, fmt.Sprintf("batch_%03d%s", i, ext))
		if err := renderChunk(ctx, chunk, intermediatePath); err != nil {
			return &ChunkFailed{Index: i, Cause: err}
		}
		intermediates = append(intermediates, intermediatePath)
		logger.Debug().Int("batch_index", i).Int("batch_total", len(chunks)).Msg("batch chunk rendered")
	}

	manifestPath, err := WriteManifest(workDir, intermediates)
	if err != nil {
		return fmt.Errorf("batch: write concat manifest: %w", err)
	}

	concatPath := filepath.Join(workDir, "concat_result"+ext)
	if err := c.concat(ctx, manifestPath, concatPath); err != nil {
		return &ConcatFailed{Cause: err}
	}

	return atomicReplace(outputPath, concatPath)
}

// concat invokes the external tool's stream-copy concat demuxer mode: no
// re-encode, O(1) I/O copy per intermediate.
func (c *Coordinator) concat(ctx context.Context, manifestPath, outputPath string) error {
	args := []string{"-f", "concat", "-safe", "0", "-i", manifestPath, "-c", "copy", "-y", outputPath}
	cmd := exec.CommandContext(ctx, c.binPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s", err, stderr.String())
	}
	return nil
}

// atomicReplace copies src into a renameio pending file at dst and commits
// it with a single atomic rename, so a reader never observes a partially
// written output_path.
func atomicReplace(dst, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("batch: open concat result: %w", err)
	}
	defer in.Close()

	pending, err := renameio.NewPendingFile(dst)
	if err != nil {
		return fmt.Errorf("batch: create pending output file: %w", err)
	}
	defer pending.Cleanup()

	if _, err := io.Copy(pending, in); err != nil {
		return fmt.Errorf("batch: copy concat result into pending output file: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("batch: atomically replace output file: %w", err)
	}
	return nil
}
