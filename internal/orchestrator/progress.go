// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package orchestrator

import (
	"strconv"
	"strings"
)

// ProgressFunc receives a fraction in [0.0, 1.0] estimating render
// completion. It is called at most every progressInterval; callers that
// need every tick should sample state themselves.
type ProgressFunc func(fraction float64)

// parseProgressTimeUs extracts the value of a "time=HH:MM:SS.mmm" token
// from one stderr line, returning microseconds and whether a token was
// found. Extraction is substring-based rather than a strict regex so it
// tolerates the surrounding "frame=... fps=... time=... speed=...x" layout
// without caring about field order or spacing.
func parseProgressTimeUs(line string) (int64, bool) {
	idx := strings.Index(line, "time=")
	if idx == -1 {
		return 0, false
	}
	rest := strings.TrimLeft(line[idx+len("time="):], " ")
	if rest == "" || strings.HasPrefix(rest, "N/A") {
		return 0, false
	}
	end := strings.IndexByte(rest, ' ')
	val := rest
	if end != -1 {
		val = rest[:end]
	}
	return parseTimecodeToUs(val)
}

// parseTimecodeToUs parses "HH:MM:SS.mmm" into microseconds.
func parseTimecodeToUs(s string) (int64, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, false
	}
	hours, err1 := strconv.ParseInt(parts[0], 10, 64)
	mins, err2 := strconv.ParseInt(parts[1], 10, 64)
	secs, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, false
	}
	totalSeconds := float64(hours*3600+mins*60) + secs
	return int64(totalSeconds * 1_000_000), true
}
