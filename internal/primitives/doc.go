// Package primitives provides the foundational data structures for the
// table-driven state machine.
//
// A machine is described by a MachineConfig: an initial state plus an ordered
// table of Transition records. States are implicit; they exist only as the
// initial state and the endpoints of transitions.
//
// Core invariants:
//   - Table order is significant: the first transition matching a
//     (state, event) pair wins.
//   - Configs are values; the engine copies the table and never mutates it.
//
//go:generate go test ./... -race
package primitives
