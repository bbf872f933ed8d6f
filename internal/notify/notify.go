// Package notify tells the user that a countdown reached zero.
package notify

import (
	"errors"
	"io"
)

// Notifier is told the name of each timer that finishes.
type Notifier interface {
	TimerFinished(name string) error
}

// Bell rings the terminal bell.
type Bell struct {
	w io.Writer
}

func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

func (b *Bell) TimerFinished(string) error {
	_, err := io.WriteString(b.w, "\a")
	return err
}

// Multi fans a notification out to several notifiers. Every notifier is
// called even when an earlier one fails.
type Multi []Notifier

func (m Multi) TimerFinished(name string) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.TimerFinished(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Func adapts a plain function to a Notifier.
type Func func(name string) error

func (f Func) TimerFinished(name string) error { return f(name) }
