// Package production provides integrations an owner wires into an engine:
// transition publishing and visualization.
package production

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/comalice/tablefsm/internal/primitives"
)

// DefaultVisualizer renders a transition table as Graphviz DOT or JSON.
type DefaultVisualizer struct{}

// ExportDOT generates Graphviz DOT source for the table. The initial state is
// drawn with a double border and current, if non-empty, is filled.
func (v *DefaultVisualizer) ExportDOT(config primitives.MachineConfig, current string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// version %s\n", primitives.ComputeVersion(&config))
	fmt.Fprintf(&buf, "digraph %s {\n", strconv.Quote(graphName(config)))
	buf.WriteString(`  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)

	for _, state := range config.States() {
		attrs := ""
		if state == config.InitialState {
			attrs += " peripheries=2"
		}
		if state == current {
			attrs += ` style="rounded,filled" fillcolor=lightgreen`
		}
		fmt.Fprintf(&buf, "  %s [label=%s%s];\n", strconv.Quote(state), strconv.Quote(state), attrs)
	}

	for _, edge := range collectEdges(config) {
		fmt.Fprintf(&buf, "  %s -> %s [label=%s];\n",
			strconv.Quote(edge.From), strconv.Quote(edge.To), strconv.Quote(edge.Label))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ExportJSON serializes the machine config to JSON.
func (v *DefaultVisualizer) ExportJSON(config primitives.MachineConfig) ([]byte, error) {
	return json.MarshalIndent(config, "", "  ")
}

// Edge represents a transition edge.
type Edge struct {
	From  string
	To    string
	Label string
}

// collectEdges returns one edge per table row in declaration order. Shadowed
// rows are still drawn.
func collectEdges(config primitives.MachineConfig) []Edge {
	edges := make([]Edge, 0, len(config.Transitions))
	for _, t := range config.Transitions {
		label := t.Event
		if t.HasAction() {
			label += " / " + t.Action
		}
		edges = append(edges, Edge{From: t.From, To: t.To, Label: label})
	}
	return edges
}

func graphName(config primitives.MachineConfig) string {
	if config.ID == "" {
		return "fsm"
	}
	return config.ID
}
