package filtergraph

import (
	"os"
	"path/filepath"
)

// WriteScript writes content to <dir>/filter.script with mode 0600, per the
// filtergraph script file interface in spec §6, and returns the written
// path.
func WriteScript(dir, content string) (string, error) {
	path := filepath.Join(dir, "filter.script")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", &EmitError{Reason: "write filter script: " + err.Error()}
	}
	return path, nil
}
