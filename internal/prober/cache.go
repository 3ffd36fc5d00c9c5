// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package prober

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/camtimeline/weaver/internal/log"
	"github.com/camtimeline/weaver/internal/weavetime"

	_ "modernc.org/sqlite" // pure-Go driver, no cgo toolchain required
)

const cacheSchemaVersion = 1

// Cache persists probe results keyed by absolute path, size, and mtime, so
// re-rendering the same source directory with different RenderSettings
// doesn't re-probe every clip. A cache miss is always resolved by a live
// probe; the cache is pure acceleration, never a correctness dependency.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (creating if absent) a probe cache database at dbPath.
func OpenCache(dbPath string) (*Cache, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("prober cache: open failed: %w", err)
	}
	db.SetMaxOpenConns(1) // single-writer cache; avoids SQLITE_BUSY under concurrent probing

	c := &Cache{db: db}
	if err := c.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("prober cache: migration failed: %w", err)
	}
	return c, nil
}

func (c *Cache) migrate() error {
	var currentVersion int
	if err := c.db.QueryRow("PRAGMA user_version").Scan(&currentVersion); err != nil {
		return err
	}
	if currentVersion >= cacheSchemaVersion {
		return nil
	}

	schema := `
	CREATE TABLE IF NOT EXISTS probe_cache (
		source_path TEXT PRIMARY KEY,
		size_bytes INTEGER NOT NULL,
		mtime_unix INTEGER NOT NULL,
		duration_us INTEGER NOT NULL,
		fps_num INTEGER NOT NULL,
		fps_den INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		codec_name TEXT NOT NULL,
		pixel_format TEXT NOT NULL
	);
	`
	if _, err := c.db.Exec(schema); err != nil {
		return err
	}
	_, err := c.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", cacheSchemaVersion))
	return err
}

// Lookup returns a cached probe result if sourcePath's current size and
// mtime match the stored entry.
func (c *Cache) Lookup(sourcePath string) (Result, bool) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return Result{}, false
	}

	var r Result
	var sizeBytes, mtimeUnix, fpsNum, fpsDen int64
	row := c.db.QueryRow(`
		SELECT size_bytes, mtime_unix, duration_us, fps_num, fps_den, width, height, codec_name, pixel_format
		FROM probe_cache WHERE source_path = ?`, sourcePath)
	err = row.Scan(&sizeBytes, &mtimeUnix, &r.DurationUs, &fpsNum, &fpsDen, &r.Width, &r.Height, &r.CodecName, &r.PixelFormat)
	if err != nil {
		return Result{}, false
	}

	if sizeBytes != info.Size() || mtimeUnix != info.ModTime().Unix() {
		return Result{}, false
	}

	fps, rerr := weavetime.NewRational(fpsNum, fpsDen)
	if rerr != nil {
		return Result{}, false
	}
	r.FrameRate = fps
	r.OK = true
	return r, true
}

// Store records a successful probe result for sourcePath, keyed by its
// current size and mtime.
func (c *Cache) Store(sourcePath string, result Result) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		log.WithComponent("prober").Warn().Str("path", sourcePath).Msg("stat failed, probe result not cached")
		return
	}

	_, err = c.db.Exec(`
		INSERT INTO probe_cache (source_path, size_bytes, mtime_unix, duration_us, fps_num, fps_den, width, height, codec_name, pixel_format)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_path) DO UPDATE SET
			size_bytes = excluded.size_bytes,
			mtime_unix = excluded.mtime_unix,
			duration_us = excluded.duration_us,
			fps_num = excluded.fps_num,
			fps_den = excluded.fps_den,
			width = excluded.width,
			height = excluded.height,
			codec_name = excluded.codec_name,
			pixel_format = excluded.pixel_format
	`, sourcePath, info.Size(), info.ModTime().Unix(), result.DurationUs, result.FrameRate.Num, result.FrameRate.Den,
		result.Width, result.Height, result.CodecName, result.PixelFormat)
	if err != nil {
		log.WithComponent("prober").Warn().Str("path", sourcePath).Err(err).Msg("failed to store probe result in cache")
	}
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}
