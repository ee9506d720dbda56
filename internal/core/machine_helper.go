// Helper functions for engine precomputation.
// Placed in separate file to organize code.

package core

import (
	"github.com/comalice/tablefsm/internal/primitives"
)

// buildIndex copies the table and records, for each (from, event) pair, the
// position of its first occurrence.
func buildIndex(transitions []primitives.Transition) *transitionIndex {
	table := append([]primitives.Transition(nil), transitions...)
	first := make(map[transitionKey]int, len(table))
	for i, t := range table {
		k := transitionKey{from: t.From, event: t.Event}
		if _, exists := first[k]; !exists {
			first[k] = i
		}
	}
	return &transitionIndex{table: table, first: first}
}
