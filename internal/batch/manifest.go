// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package batch

import (
	"os"
	"path/filepath"
	"strings"
)

// WriteManifest writes a concat-demuxer manifest listing each intermediate
// path in order, one "file '<absolute-path>'" directive per line, with
// single quotes escaped the way the external tool's concat demuxer expects.
func WriteManifest(dir string, paths []string) (string, error) {
	var sb strings.Builder
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", err
		}
		sb.WriteString("file '")
		sb.WriteString(escapeManifestPath(abs))
		sb.WriteString("'\n")
	}

	manifestPath := filepath.Join(dir, "concat_manifest.txt")
	if err := os.WriteFile(manifestPath, []byte(sb.String()), 0o600); err != nil {
		return "", err
	}
	return manifestPath, nil
}

// escapeManifestPath escapes single quotes for the concat demuxer's quoted
// file directive: close the quote, emit an escaped quote, reopen it.
func escapeManifestPath(p string) string {
	return strings.ReplaceAll(p, "'", `'\''`)
}
