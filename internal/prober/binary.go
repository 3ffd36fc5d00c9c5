// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package prober

import (
	"os/exec"
	"sync"
)

// resolver caches the resolved absolute path of a named binary so repeated
// probes across a batch don't re-walk PATH for every file.
type resolver struct {
	mu    sync.Mutex
	name  string
	path  string
	err   error
	tried bool
}

func newResolver(name string) *resolver {
	return &resolver{name: name}
}

func (r *resolver) resolve() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tried {
		return r.path, r.err
	}
	r.tried = true
	path, err := exec.LookPath(r.name)
	if err != nil {
		r.err = &ToolMissing{Binary: r.name}
		return "", r.err
	}
	r.path = path
	return path, nil
}
