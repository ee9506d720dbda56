// Package primitives defines the foundational data structures for the state machine.
//
// MachineConfig represents the complete declarative description of a machine:
// the initial state and the ordered transition table.
// Validation only checks structure; states are never checked against a
// declared set because states are derived from transition endpoints.
package primitives

import (
	"errors"
	"fmt"
	"strings"
)

// MachineConfig defines the complete machine configuration.
type MachineConfig struct {
	ID           string       `json:"id,omitempty" yaml:"id,omitempty"`
	InitialState string       `json:"initial_state" yaml:"initial_state"`
	Transitions  []Transition `json:"transitions" yaml:"transitions"`
}

// Validate validates the machine configuration:
// - Non-empty initial state
// - Every transition has an event and both endpoints
//
// An empty table is valid; such a machine drops every event.
func (m *MachineConfig) Validate() error {
	if strings.TrimSpace(m.InitialState) == "" {
		return errors.New("initial_state is required")
	}
	for i := range m.Transitions {
		if err := m.Transitions[i].Validate(); err != nil {
			return fmt.Errorf("transition %d: %w", i, err)
		}
	}
	return nil
}

// Clone returns a deep copy, so the caller may keep mutating the original.
func (m MachineConfig) Clone() MachineConfig {
	out := m
	out.Transitions = append([]Transition(nil), m.Transitions...)
	return out
}

// States returns the implicit state set: the initial state followed by every
// transition endpoint, in first-seen order.
func (m *MachineConfig) States() []string {
	seen := make(map[string]bool)
	var states []string
	add := func(s string) {
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		states = append(states, s)
	}
	add(m.InitialState)
	for _, t := range m.Transitions {
		add(t.From)
		add(t.To)
	}
	return states
}

// Events returns the distinct event names in table order.
func (m *MachineConfig) Events() []string {
	seen := make(map[string]bool)
	var events []string
	for _, t := range m.Transitions {
		if !seen[t.Event] {
			seen[t.Event] = true
			events = append(events, t.Event)
		}
	}
	return events
}

// Actions returns the distinct action names referenced by the table.
func (m *MachineConfig) Actions() []string {
	seen := make(map[string]bool)
	var actions []string
	for _, t := range m.Transitions {
		if t.HasAction() && !seen[t.Action] {
			seen[t.Action] = true
			actions = append(actions, t.Action)
		}
	}
	return actions
}
