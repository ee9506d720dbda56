package core

import (
	"context"
	"fmt"

	"github.com/comalice/tablefsm/internal/primitives"
)

// transitionKey identifies a (state, event) pair.
type transitionKey struct {
	from  string
	event string
}

// transitionIndex resolves (state, event) to the first matching row of the
// table in O(1). Later duplicates of a pair are never reachable.
type transitionIndex struct {
	table []primitives.Transition
	first map[transitionKey]int
}

// lookup returns the transition that fires for event in state.
func (ix *transitionIndex) lookup(state, event string) (primitives.Transition, bool) {
	i, ok := ix.first[transitionKey{from: state, event: event}]
	if !ok {
		return primitives.Transition{}, false
	}
	return ix.table[i], true
}

// shadowed returns the indices of rows hidden by an earlier row with the same
// (from, event) pair.
func (ix *transitionIndex) shadowed() []int {
	var out []int
	for i, t := range ix.table {
		if ix.first[transitionKey{from: t.From, event: t.Event}] != i {
			out = append(out, i)
		}
	}
	return out
}

// ActionPanicError reports an action that panicked.
type ActionPanicError struct {
	Action string
	Value  any
}

func (e *ActionPanicError) Error() string {
	return fmt.Sprintf("action %q panicked: %v", e.Action, e.Value)
}

// RunRecovered invokes action and converts a panic into an *ActionPanicError.
func RunRecovered(name string, action Action) (err error) {
	if action == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = &ActionPanicError{Action: name, Value: r}
		}
	}()
	action()
	return nil
}

// defaultActionRunner is used when no ActionRunner option is given.
type defaultActionRunner struct{}

func (defaultActionRunner) Run(_ context.Context, name string, action Action) error {
	return RunRecovered(name, action)
}
