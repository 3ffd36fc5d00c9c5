// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package orchestrator

import "github.com/camtimeline/weaver/internal/fsm"

// RenderState tracks one subprocess invocation's lifecycle.
type RenderState string

const (
	StatePending   RenderState = "pending"
	StateRunning   RenderState = "running"
	StateCancelling RenderState = "cancelling"
	StateSucceeded RenderState = "succeeded"
	StateFailed    RenderState = "failed"
	StateCancelled RenderState = "cancelled"
)

// RenderEvent drives RenderState transitions.
type RenderEvent string

const (
	EventStart    RenderEvent = "start"
	EventCancel   RenderEvent = "cancel"
	EventExitOK   RenderEvent = "exit_ok"
	EventExitFail RenderEvent = "exit_fail"
	EventKilled   RenderEvent = "killed"
)

// newLifecycle builds the render-lifecycle machine. It has no Guard/Action
// hooks: the orchestrator drives transitions directly from subprocess
// events and uses State() only for logging and test assertions.
func newLifecycle() (*fsm.Machine[RenderState, RenderEvent], error) {
	return fsm.New(StatePending, []fsm.Transition[RenderState, RenderEvent]{
		{From: StatePending, Event: EventStart, To: StateRunning},
		{From: StateRunning, Event: EventExitOK, To: StateSucceeded},
		{From: StateRunning, Event: EventExitFail, To: StateFailed},
		{From: StateRunning, Event: EventCancel, To: StateCancelling},
		{From: StateCancelling, Event: EventKilled, To: StateCancelled},
		{From: StateCancelling, Event: EventExitOK, To: StateSucceeded},
		{From: StateCancelling, Event: EventExitFail, To: StateCancelled},
	})
}
