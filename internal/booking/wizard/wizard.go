// Package wizard implements the office booking wizard as a linear state
// machine over an immutable snapshot. Step submissions are tagged actions
// reduced into a new snapshot; advancing is gated by per-step predicates.
package wizard

import (
	"errors"
	"fmt"
)

// ErrStepIncomplete is returned when Next is called while the current step's
// gate is unsatisfied. The wizard does not move.
var ErrStepIncomplete = errors.New("current step is incomplete")

// Wizard drives one booking session. It owns the only reference to the
// snapshot; callers read state through Snapshot() and mutate through Apply.
type Wizard struct {
	snap Snapshot
}

func New() *Wizard {
	return &Wizard{snap: NewSnapshot()}
}

// Restore rebuilds a wizard around a previously persisted snapshot.
func Restore(snap Snapshot) *Wizard {
	return &Wizard{snap: snap}
}

// Snapshot returns the current immutable state.
func (w *Wizard) Snapshot() Snapshot {
	return w.snap
}

// Apply reduces one step-submission action into the session state.
func (w *Wizard) Apply(a Action) error {
	next, err := Reduce(w.snap, a)
	if err != nil {
		return err
	}
	w.snap = next
	return nil
}

// Next advances exactly one step, and only when the current step's gate is
// satisfied. Steps are never skipped.
func (w *Wizard) Next() error {
	if w.snap.Current >= StepPayment {
		return fmt.Errorf("cannot advance past the %s step", w.snap.Current)
	}
	if !StepComplete(w.snap, w.snap.Current) {
		return ErrStepIncomplete
	}
	w.snap.Current++
	return nil
}

// Previous moves one step back. Data and completion flags are retained.
func (w *Wizard) Previous() error {
	if w.snap.Current == StepServiceability {
		return fmt.Errorf("already at the first step")
	}
	if w.snap.Current == StepSuccess {
		return fmt.Errorf("submitted session cannot move back")
	}
	w.snap.Current--
	return nil
}

// Reset discards all state, the only operation that clears completion flags.
func (w *Wizard) Reset() {
	w.snap = NewSnapshot()
}

// ReadyToSubmit reports whether every data-entry step gate is satisfied and
// the session sits on the final data-entry step.
func (w *Wizard) ReadyToSubmit() error {
	if w.snap.Current != StepPayment {
		return fmt.Errorf("submission is only reachable from the %s step, currently on %s", StepPayment, w.snap.Current)
	}
	for step := StepServiceability; step <= StepPayment; step++ {
		if !StepComplete(w.snap, step) {
			return fmt.Errorf("step %s is incomplete: %w", step, ErrStepIncomplete)
		}
	}
	return nil
}

// markSubmitted transitions to the terminal success pseudo-step and marks
// every step complete.
func (w *Wizard) markSubmitted() {
	w.snap.Current = StepSuccess
	for i := range w.snap.Completed {
		w.snap.Completed[i] = true
	}
}
