// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package orchestrator invokes the external render tool against an emitted
// filtergraph, supervising its subprocess lifecycle: progress parsing from
// stderr, graceful-then-forced cancellation, and guaranteed cleanup of the
// filter script it writes.
package orchestrator

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"golang.org/x/time/rate"

	"github.com/camtimeline/weaver/internal/filtergraph"
	"github.com/camtimeline/weaver/internal/log"
	"github.com/camtimeline/weaver/internal/procgroup"
	"github.com/camtimeline/weaver/internal/settings"
)

const (
	progressInterval = 200 * time.Millisecond
	cancelGrace      = 5 * time.Second
)

// Runner invokes one external-tool subprocess per Render call.
type Runner struct {
	binPath    string
	resolveErr error
}

// New resolves binary (conventionally "ffmpeg") once. A missing binary is
// reported lazily, on the first Render call, as *ToolMissing.
func New(binary string) *Runner {
	if binary == "" {
		binary = "ffmpeg"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return &Runner{resolveErr: &ToolMissing{Binary: binary}}
	}
	return &Runner{binPath: path}
}

// Render writes fg's filter script into workDir, invokes the external tool
// against it, and blocks until the subprocess exits, is cancelled, or the
// context is done. The filter script is removed on every exit path. Progress
// updates are reported to progress (if non-nil) at most every 200ms, as
// current_time_us/totalTimelineUs.
func (r *Runner) Render(ctx context.Context, cancel <-chan struct{}, fg filtergraph.Result, rs settings.RenderSettings, workDir, outputPath string, overwrite bool, totalTimelineUs int64, progress ProgressFunc) error {
	if r.resolveErr != nil {
		return r.resolveErr
	}

	scriptPath, err := filtergraph.WriteScript(workDir, fg.FilterScript)
	if err != nil {
		return err
	}
	defer os.Remove(scriptPath)

	args := buildArgs(fg, scriptPath, rs, outputPath, overwrite)
	cmd := exec.Command(r.binPath, args...)
	procgroup.Set(cmd)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return &FilesystemError{Path: workDir, Cause: fmt.Errorf("stderr pipe: %w", err)}
	}

	logger := log.WithComponent("orchestrator")

	machine, err := newLifecycle()
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("orchestrator: start subprocess: %w", err)
	}
	if _, err := machine.Fire(ctx, EventStart); err != nil {
		logger.Warn().Err(err).Msg("lifecycle transition failed on start")
	}

	ring := newLineRing(stderrRingCapacity)
	sometimes := &rate.Sometimes{Interval: progressInterval}

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	scanDone := make(chan struct{})
	go func() {
		defer close(scanDone)
		sc := bufio.NewScanner(stderr)
		sc.Buffer(make([]byte, 0, 4096), 1<<20)
		for sc.Scan() {
			line := sc.Text()
			ring.Add(line)
			us, ok := parseProgressTimeUs(line)
			if !ok || totalTimelineUs <= 0 || progress == nil {
				continue
			}
			fraction := float64(us) / float64(totalTimelineUs)
			if fraction > 1.0 {
				fraction = 1.0
			}
			sometimes.Do(func() { progress(fraction) })
		}
	}()

	handleCancel := func() error {
		if _, err := machine.Fire(ctx, EventCancel); err != nil {
			logger.Warn().Err(err).Msg("lifecycle transition failed on cancel")
		}
		_ = procgroup.Terminate(cmd, waitCh, cancelGrace)
		<-scanDone
		if _, err := machine.Fire(ctx, EventKilled); err != nil {
			logger.Warn().Err(err).Msg("lifecycle transition failed on killed")
		}
		return &Cancelled{}
	}

	select {
	case waitErr := <-waitCh:
		<-scanDone
		if waitErr != nil {
			if _, err := machine.Fire(ctx, EventExitFail); err != nil {
				logger.Warn().Err(err).Msg("lifecycle transition failed on exit_fail")
			}
			return &SubprocessFailed{ExitCode: exitCodeOf(waitErr), LastStderrLines: ring.Lines()}
		}
		if _, err := machine.Fire(ctx, EventExitOK); err != nil {
			logger.Warn().Err(err).Msg("lifecycle transition failed on exit_ok")
		}
		return nil

	case <-cancel:
		return handleCancel()

	case <-ctx.Done():
		return handleCancel()
	}
}

func buildArgs(fg filtergraph.Result, scriptPath string, rs settings.RenderSettings, outputPath string, overwrite bool) []string {
	var args []string
	for _, fi := range fg.FileInputs {
		args = append(args,
			"-ss", microsecondsToSeconds(fi.StartOffsetUs),
			"-t", microsecondsToSeconds(fi.DurationUs),
			"-i", fi.Path,
		)
	}
	args = append(args, "-filter_complex_script", scriptPath)
	args = append(args, "-map", "[vout]", "-vsync", "0", "-an")

	encoder := settings.ResolveEncoder(rs.VideoCodec)
	args = append(args, "-c:v", encoder.Codec)
	args = append(args, encoder.Args...)
	args = append(args, "-pix_fmt", rs.PixelFormat)

	if overwrite {
		args = append(args, "-y")
	} else {
		args = append(args, "-n")
	}
	args = append(args, outputPath)
	return args
}

func microsecondsToSeconds(us int64) string {
	return fmt.Sprintf("%.6f", float64(us)/1_000_000)
}

func exitCodeOf(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
