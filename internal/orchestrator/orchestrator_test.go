// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package orchestrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/camtimeline/weaver/internal/filtergraph"
	"github.com/camtimeline/weaver/internal/settings"
)

func testSettings(t *testing.T) settings.RenderSettings {
	t.Helper()
	rs := settings.Defaults()
	rs.OutputPath = filepath.Join(t.TempDir(), "out.mp4")
	return rs
}

func testFiltergraph() filtergraph.Result {
	return filtergraph.Result{
		FileInputs: []filtergraph.FileInput{
			{Path: "/tmp/clip.mp4", StartOffsetUs: 0, DurationUs: 5_000_000},
		},
		FilterScript: "[0:v]setpts=PTS-STARTPTS[s0];[s0]concat=n=1:v=1:a=0[vout]\n",
	}
}

// writeFakeFFmpeg drops an executable shell script named "ffmpeg" that traps
// SIGTERM (exiting promptly, as a real encoder does), prints progressLines
// to stderr, optionally hangs, then exits with code.
func writeFakeFFmpeg(t *testing.T, progressLines []string, hang bool, code int) string {
	t.Helper()
	dir := t.TempDir()
	script := filepath.Join(dir, "ffmpeg")

	content := "#!/bin/sh\ntrap 'exit 143' TERM\n"
	for _, line := range progressLines {
		content += "echo '" + line + "' >&2\n"
	}
	if hang {
		content += "sleep 30\n"
	}
	content += "exit " + strconv.Itoa(code) + "\n"

	if err := os.WriteFile(script, []byte(content), 0o755); err != nil {
		t.Fatalf("failed to write fake ffmpeg: %v", err)
	}
	return dir
}

func TestRender_Success(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	binDir := writeFakeFFmpeg(t, []string{
		"frame=1 fps=25 time=00:00:01.000 speed=2.0x",
		"frame=2 fps=25 time=00:00:05.000 speed=2.0x",
	}, false, 0)
	t.Setenv("PATH", binDir)

	runner := New("ffmpeg")
	rs := testSettings(t)
	workDir := t.TempDir()

	var lastFraction float64
	progress := func(f float64) { lastFraction = f }

	err := runner.Render(context.Background(), nil, testFiltergraph(), rs, workDir, rs.OutputPath, true, 5_000_000, progress)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if lastFraction <= 0 {
		t.Error("expected at least one progress callback with a positive fraction")
	}
	if _, err := os.Stat(filepath.Join(workDir, "filter.script")); !os.IsNotExist(err) {
		t.Error("expected filter script to be removed after Render returns")
	}
}

func TestRender_SubprocessFailure(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	binDir := writeFakeFFmpeg(t, []string{"Error: unsupported codec"}, false, 1)
	t.Setenv("PATH", binDir)

	runner := New("ffmpeg")
	rs := testSettings(t)
	workDir := t.TempDir()

	err := runner.Render(context.Background(), nil, testFiltergraph(), rs, workDir, rs.OutputPath, true, 5_000_000, nil)
	var failed *SubprocessFailed
	if !errors.As(err, &failed) {
		t.Fatalf("expected *SubprocessFailed, got %v (%T)", err, err)
	}
	if failed.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", failed.ExitCode)
	}
	if len(failed.LastStderrLines) == 0 {
		t.Error("expected retained stderr lines")
	}
}

func TestRender_Cancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	binDir := writeFakeFFmpeg(t, []string{"frame=1 time=00:00:01.000"}, true, 0)
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	runner := New("ffmpeg")
	rs := testSettings(t)
	workDir := t.TempDir()

	cancel := make(chan struct{})
	close(cancel)

	start := time.Now()
	err := runner.Render(context.Background(), cancel, testFiltergraph(), rs, workDir, rs.OutputPath, true, 5_000_000, nil)
	elapsed := time.Since(start)

	var cancelled *Cancelled
	if !errors.As(err, &cancelled) {
		t.Fatalf("expected *Cancelled, got %v (%T)", err, err)
	}
	if elapsed > cancelGrace+2*time.Second {
		t.Errorf("Render took %v to honor cancellation, want well under %v", elapsed, cancelGrace)
	}
}

func TestRender_ToolMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	runner := New("ffmpeg-does-not-exist")
	rs := testSettings(t)
	workDir := t.TempDir()

	err := runner.Render(context.Background(), nil, testFiltergraph(), rs, workDir, rs.OutputPath, true, 5_000_000, nil)
	var missing *ToolMissing
	if !errors.As(err, &missing) {
		t.Fatalf("expected *ToolMissing, got %v", err)
	}
}
