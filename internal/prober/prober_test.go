// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package prober

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestParseRational(t *testing.T) {
	tests := []struct {
		in      string
		wantOK  bool
		wantNum int64
		wantDen int64
	}{
		{"30/1", true, 30, 1},
		{"30000/1001", true, 30000, 1001},
		{"0/0", false, 0, 0},
		{"garbage", false, 0, 0},
		{"", false, 0, 0},
	}
	for _, tt := range tests {
		got, ok := parseRational(tt.in)
		if ok != tt.wantOK {
			t.Errorf("parseRational(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			continue
		}
		if ok && (got.Num != tt.wantNum || got.Den != tt.wantDen) {
			t.Errorf("parseRational(%q) = %d/%d, want %d/%d", tt.in, got.Num, got.Den, tt.wantNum, tt.wantDen)
		}
	}
}

func TestParseSecondsToUs(t *testing.T) {
	us, ok := parseSecondsToUs("12.500000")
	if !ok || us != 12_500_000 {
		t.Errorf("parseSecondsToUs(12.5s) = %d, %v; want 12500000, true", us, ok)
	}
	if _, ok := parseSecondsToUs(""); ok {
		t.Error("expected empty string to fail")
	}
	if _, ok := parseSecondsToUs("not-a-number"); ok {
		t.Error("expected malformed string to fail")
	}
}

func TestResolveDuration_FallbackOrder(t *testing.T) {
	// format.duration wins when present.
	raw := rawProbe{}
	raw.Format.Duration = "10.0"
	stream := rawStream{Duration: "5.0"}
	us, err := resolveDuration(raw, stream)
	if err != nil || us != 10_000_000 {
		t.Fatalf("expected format.duration to win: got %d, %v", us, err)
	}

	// stream.duration wins when format.duration absent.
	raw2 := rawProbe{}
	stream2 := rawStream{Duration: "5.0"}
	us2, err2 := resolveDuration(raw2, stream2)
	if err2 != nil || us2 != 5_000_000 {
		t.Fatalf("expected stream.duration fallback: got %d, %v", us2, err2)
	}

	// duration_ts * time_base wins when both durations absent.
	raw3 := rawProbe{}
	stream3 := rawStream{DurationTS: 100, TimeBase: "1/10"}
	us3, err3 := resolveDuration(raw3, stream3)
	if err3 != nil || us3 != 10_000_000 {
		t.Fatalf("expected duration_ts*time_base fallback: got %d, %v", us3, err3)
	}

	// nb_frames / frame_rate is the last resort.
	raw4 := rawProbe{}
	stream4 := rawStream{NbFrames: "300", RFrameRate: "30/1"}
	us4, err4 := resolveDuration(raw4, stream4)
	if err4 != nil || us4 != 10_000_000 {
		t.Fatalf("expected nb_frames/fps fallback: got %d, %v", us4, err4)
	}

	// All fields absent: failure.
	if _, err := resolveDuration(rawProbe{}, rawStream{}); err == nil {
		t.Fatal("expected error when no duration field is usable")
	}
}

func TestResolveFrameRate_Fallback(t *testing.T) {
	stream := rawStream{RFrameRate: "25/1"}
	fps := resolveFrameRate(stream, testLogger(), "x")
	if fps.Num != 25 || fps.Den != 1 {
		t.Errorf("expected r_frame_rate to win: got %v", fps)
	}

	stream2 := rawStream{RFrameRate: "0/0", AvgFrameRate: "24/1"}
	fps2 := resolveFrameRate(stream2, testLogger(), "x")
	if fps2.Num != 24 || fps2.Den != 1 {
		t.Errorf("expected avg_frame_rate fallback: got %v", fps2)
	}

	stream3 := rawStream{}
	fps3 := resolveFrameRate(stream3, testLogger(), "x")
	if fps3.Num != 30 || fps3.Den != 1 {
		t.Errorf("expected default 30/1: got %v", fps3)
	}
}

func TestProbe_ToolMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	p := New("ffprobe-does-not-exist", nil)
	_, err := p.Probe(context.Background(), "/no/such/file")
	var missing *ToolMissing
	if !errors.As(err, &missing) {
		t.Fatalf("expected ToolMissing, got %v", err)
	}
}

func TestProbe_Success(t *testing.T) {
	fakeJSON := `{
		"format": {"duration": "12.040000"},
		"streams": [{
			"codec_type": "video",
			"codec_name": "h264",
			"width": 1920,
			"height": 1080,
			"pix_fmt": "yuv420p",
			"r_frame_rate": "25/1",
			"avg_frame_rate": "25/1"
		}]
	}`
	binDir := writeFakeFFprobe(t, fakeJSON, 0)
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	p := New("ffprobe", nil)
	result, err := p.Probe(context.Background(), "/tmp/clip.mp4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DurationUs != 12_040_000 {
		t.Errorf("DurationUs = %d, want 12040000", result.DurationUs)
	}
	if result.Width != 1920 || result.Height != 1080 {
		t.Errorf("unexpected resolution %dx%d", result.Width, result.Height)
	}
	if result.CodecName != "h264" || result.PixelFormat != "yuv420p" {
		t.Errorf("unexpected codec/pixfmt: %s/%s", result.CodecName, result.PixelFormat)
	}
	if !result.OK {
		t.Error("expected OK=true")
	}
}

func TestProbe_NoVideoStream(t *testing.T) {
	fakeJSON := `{"format": {"duration": "1.0"}, "streams": []}`
	binDir := writeFakeFFprobe(t, fakeJSON, 0)
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	p := New("ffprobe", nil)
	_, err := p.Probe(context.Background(), "/tmp/clip.mp4")
	var failed *ProbeFailed
	if !errors.As(err, &failed) {
		t.Fatalf("expected ProbeFailed, got %v", err)
	}
}

func TestProbe_NonZeroExit(t *testing.T) {
	binDir := writeFakeFFprobe(t, "", 1)
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	p := New("ffprobe", nil)
	_, err := p.Probe(context.Background(), "/tmp/clip.mp4")
	var failed *ProbeFailed
	if !errors.As(err, &failed) {
		t.Fatalf("expected ProbeFailed, got %v", err)
	}
}

// writeFakeFFprobe drops an executable shell script named "ffprobe" into a
// fresh temp directory that prints fakeJSON to stdout and exits with code.
func writeFakeFFprobe(t *testing.T, fakeJSON string, code int) string {
	t.Helper()
	dir := t.TempDir()
	script := filepath.Join(dir, "ffprobe")
	content := "#!/bin/sh\ncat <<'EOF'\n" + fakeJSON + "\nEOF\nexit " + strconv.Itoa(code) + "\n"
	if err := os.WriteFile(script, []byte(content), 0o755); err != nil {
		t.Fatalf("failed to write fake ffprobe: %v", err)
	}
	return dir
}
