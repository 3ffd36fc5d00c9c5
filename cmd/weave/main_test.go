// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	xglog "github.com/camtimeline/weaver/internal/log"
	"github.com/camtimeline/weaver/internal/weavetime"
)

// writeFakeFFprobe drops a fake "ffprobe" reporting a fixed-duration,
// fixed-resolution video stream for any input path.
func writeFakeFFprobe(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	script := filepath.Join(dir, "ffprobe")
	content := `#!/bin/sh
cat <<'JSON'
{"format":{"duration":"5.000000"},"streams":[{"codec_type":"video","codec_name":"h264","pix_fmt":"yuv420p","width":1920,"height":1080,"r_frame_rate":"30/1","avg_frame_rate":"30/1"}]}
JSON
`
	if err := os.WriteFile(script, []byte(content), 0o755); err != nil {
		t.Fatalf("write fake ffprobe: %v", err)
	}
	return dir
}

func TestScanClips_AssemblesAndSkipsUnmatchedFiles(t *testing.T) {
	binDir := writeFakeFFprobe(t)
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	inputDir := t.TempDir()
	cameraDir := filepath.Join(inputDir, "A01")
	if err := os.MkdirAll(cameraDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cameraDir, "20240115103000.mp4"), []byte("data"), 0o644); err != nil {
		t.Fatalf("write clip: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cameraDir, "readme.txt"), []byte("not a clip"), 0o644); err != nil {
		t.Fatalf("write readme: %v", err)
	}

	xglog.Configure(xglog.Config{})
	logger := xglog.WithComponent("weave-test")

	defaultDate := weavetime.Date{Year: 2024, Month: 1, Day: 15}
	clips, err := scanClips(context.Background(), inputDir, "ffprobe", "", defaultDate, "", logger)
	if err != nil {
		t.Fatalf("scanClips() error = %v", err)
	}
	if len(clips) != 1 {
		t.Fatalf("len(clips) = %d, want 1", len(clips))
	}
	if clips[0].CameraID != "A01" {
		t.Errorf("CameraID = %q, want A01", clips[0].CameraID)
	}
	if !clips[0].ProbeOK {
		t.Error("expected ProbeOK = true")
	}
}

func TestScanClips_NoMatchesYieldsEmptyResult(t *testing.T) {
	binDir := writeFakeFFprobe(t)
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	inputDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(inputDir, "unrelated.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	xglog.Configure(xglog.Config{})
	logger := xglog.WithComponent("weave-test")

	clips, err := scanClips(context.Background(), inputDir, "ffprobe", "", weavetime.Date{Year: 2024, Month: 1, Day: 1}, "", logger)
	if err != nil {
		t.Fatalf("scanClips() error = %v", err)
	}
	if len(clips) != 0 {
		t.Errorf("len(clips) = %d, want 0", len(clips))
	}
}
