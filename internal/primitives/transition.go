// Package primitives defines the foundational data structures for the state machine.
// Transition is a single row of the transition table.
package primitives

import (
	"errors"
	"fmt"
	"strings"
)

// Transition maps (From, Event) to To, optionally naming an action to invoke
// after the state change is committed.
type Transition struct {
	Event  string `json:"event" yaml:"event"`
	From   string `json:"from" yaml:"from"`
	To     string `json:"to" yaml:"to"`
	Action string `json:"action,omitempty" yaml:"action,omitempty"`
}

// HasAction reports whether the transition names an action.
func (t Transition) HasAction() bool {
	return t.Action != ""
}

// Matches reports whether the transition fires for event in state.
func (t Transition) Matches(state, event string) bool {
	return t.From == state && t.Event == event
}

func (t Transition) String() string {
	if t.HasAction() {
		return fmt.Sprintf("%s --%s/%s--> %s", t.From, t.Event, t.Action, t.To)
	}
	return fmt.Sprintf("%s --%s--> %s", t.From, t.Event, t.To)
}

// Validate checks that event and both endpoints are present.
func (t *Transition) Validate() error {
	if strings.TrimSpace(t.Event) == "" {
		return errors.New("event is required")
	}
	if strings.TrimSpace(t.From) == "" {
		return errors.New("from state is required")
	}
	if strings.TrimSpace(t.To) == "" {
		return errors.New("to state is required")
	}
	return nil
}

// FindTransition returns the first transition in table order that matches
// (state, event).
func FindTransition(transitions []Transition, state, event string) (Transition, bool) {
	for _, t := range transitions {
		if t.Matches(state, event) {
			return t, true
		}
	}
	return Transition{}, false
}
