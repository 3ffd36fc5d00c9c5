// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package prober

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/camtimeline/weaver/internal/weavetime"
)

func TestCache_StoreAndLookup(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "probe_cache.sqlite")
	cache, err := OpenCache(dbPath)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer cache.Close()

	srcPath := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(srcPath, []byte("fake video bytes"), 0o644); err != nil {
		t.Fatalf("write source file: %v", err)
	}

	fps, _ := weavetime.NewRational(30000, 1001)
	want := Result{
		DurationUs:  5_000_000,
		FrameRate:   fps,
		Width:       1920,
		Height:      1080,
		CodecName:   "hevc",
		PixelFormat: "yuv420p10le",
		OK:          true,
	}

	if _, hit := cache.Lookup(srcPath); hit {
		t.Fatal("expected cache miss before Store")
	}

	cache.Store(srcPath, want)

	got, hit := cache.Lookup(srcPath)
	if !hit {
		t.Fatal("expected cache hit after Store")
	}
	if got != want {
		t.Errorf("Lookup() = %+v, want %+v", got, want)
	}
}

func TestCache_MissOnMtimeChange(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "probe_cache.sqlite")
	cache, err := OpenCache(dbPath)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer cache.Close()

	srcPath := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(srcPath, []byte("v1"), 0o644); err != nil {
		t.Fatalf("write source file: %v", err)
	}

	fps, _ := weavetime.NewRational(25, 1)
	cache.Store(srcPath, Result{DurationUs: 1_000_000, FrameRate: fps, Width: 640, Height: 480, CodecName: "h264", PixelFormat: "yuv420p", OK: true})

	// Simulate the file changing after the clip was first probed.
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(srcPath, future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if _, hit := cache.Lookup(srcPath); hit {
		t.Error("expected cache miss after mtime changed")
	}
}

func TestCache_MissOnMissingFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "probe_cache.sqlite")
	cache, err := OpenCache(dbPath)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer cache.Close()

	if _, hit := cache.Lookup(filepath.Join(t.TempDir(), "does-not-exist.mp4")); hit {
		t.Error("expected cache miss for nonexistent source file")
	}
}
