// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package procgroup

import (
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	procTerminateTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weaver_proc_terminate_total",
		Help: "Total number of termination signals sent to a process group, by signal and outcome",
	}, []string{"signal", "outcome"})

	procWaitTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weaver_proc_wait_total",
		Help: "Total number of process-group wait outcomes",
	}, []string{"outcome"})
)

func incTerminate(signal, outcome string) { procTerminateTotal.WithLabelValues(signal, outcome).Inc() }
func incWait(outcome string)              { procWaitTotal.WithLabelValues(outcome).Inc() }

// Terminate attempts to gracefully stop a process group. It sends SIGTERM,
// waits for the process to exit (via the provided wait channel), and if it
// doesn't exit within grace, sends SIGKILL. It consumes and returns the
// error from waitCh. It is safe to call on nil commands (returns nil).
func Terminate(cmd *exec.Cmd, waitCh <-chan error, grace time.Duration) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}

	// 1. Send SIGTERM to the process group. If the process already
	// finished normally, Kill calls are no-ops or harmless ESRCH errors.
	if err := Kill(cmd, syscall.SIGTERM); err == nil {
		incTerminate("SIGTERM", "sent")
	} else if strings.Contains(err.Error(), "process already finished") || strings.Contains(err.Error(), "no such process") {
		incTerminate("SIGTERM", "esrch")
	} else {
		incTerminate("SIGTERM", "error")
	}

	select {
	case err := <-waitCh:
		if err == nil {
			incWait("exit0")
		} else {
			incWait("exit_nonzero")
		}
		return err
	case <-time.After(grace):
		// 2. Timeout -> force kill.
		if err := Kill(cmd, syscall.SIGKILL); err == nil {
			incTerminate("SIGKILL", "sent")
		} else if strings.Contains(err.Error(), "process already finished") || strings.Contains(err.Error(), "no such process") {
			incTerminate("SIGKILL", "esrch")
		} else {
			incTerminate("SIGKILL", "error")
		}

		// 3. Always drain waitCh; SIGKILL should free a blocked process.
		err := <-waitCh
		if err == nil {
			incWait("forced_exit0")
		} else {
			incWait("forced_error")
		}
		return err
	}
}
