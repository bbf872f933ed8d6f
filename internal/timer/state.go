package timer

import (
	"context"
	"errors"

	"github.com/looplab/fsm"
)

const (
	eventStart  = "start"
	eventPause  = "pause"
	eventResume = "resume"
	eventStop   = "stop"
	eventReset  = "reset"
	eventFinish = "finish"
)

var allStatuses = []string{string(StatusStopped), string(StatusRunning), string(StatusPaused)}

var transitions = fsm.Events{
	{Name: eventStart, Src: allStatuses, Dst: string(StatusRunning)},
	{Name: eventPause, Src: []string{string(StatusRunning)}, Dst: string(StatusPaused)},
	{Name: eventResume, Src: []string{string(StatusPaused)}, Dst: string(StatusRunning)},
	{Name: eventStop, Src: allStatuses, Dst: string(StatusStopped)},
	{Name: eventReset, Src: allStatuses, Dst: string(StatusStopped)},
	{Name: eventFinish, Src: []string{string(StatusRunning)}, Dst: string(StatusStopped)},
}

// fire runs event against the transition table starting from the timer's
// current status. Events that are not allowed from the current status, or
// that a guard cancels, leave the status unchanged.
func (t *Timer) fire(event string) bool {
	if !t.Status.valid() {
		t.Status = StatusStopped
	}
	machine := fsm.NewFSM(
		string(t.Status),
		transitions,
		fsm.Callbacks{
			"before_" + eventStart:  t.requireRemaining,
			"before_" + eventResume: t.requireRemaining,
		},
	)
	err := machine.Event(context.Background(), event)
	t.Status = Status(machine.Current())
	if err == nil {
		return true
	}
	var same fsm.NoTransitionError
	return errors.As(err, &same)
}

func (t *Timer) requireRemaining(_ context.Context, e *fsm.Event) {
	if t.RemainingSeconds <= 0 {
		e.Cancel()
	}
}
