// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package report

import (
	"encoding/json"

	"github.com/google/renameio/v2"
)

// WriteJSON atomically writes records to path as a pretty-printed JSON
// array, in order.
func WriteJSON(path string, records []Record) error {
	pending, err := renameio.NewPendingFile(path)
	if err != nil {
		return err
	}
	defer pending.Cleanup()

	enc := json.NewEncoder(pending)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return err
	}

	return pending.CloseAtomicallyReplace()
}
