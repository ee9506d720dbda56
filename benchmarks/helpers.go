// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/comalice/tablefsm/internal/core"
	"github.com/comalice/tablefsm/internal/extensibility"
	"github.com/comalice/tablefsm/internal/logger"
	"github.com/comalice/tablefsm/internal/primitives"
	"github.com/comalice/tablefsm/testutil"
)

// GenFlatConfig creates a ring of n states cycling via "tick" events.
func GenFlatConfig(n int) primitives.MachineConfig {
	if n < 1 {
		n = 1
	}
	config := primitives.MachineConfig{
		ID:           fmt.Sprintf("flat_%d", n),
		InitialState: "s0",
		Transitions:  make([]primitives.Transition, 0, n),
	}
	for i := 0; i < n; i++ {
		config.Transitions = append(config.Transitions, primitives.Transition{
			Event: "tick",
			From:  fmt.Sprintf("s%d", i),
			To:    fmt.Sprintf("s%d", (i+1)%n),
		})
	}
	return config
}

// GenWideConfig creates a single "main" state with numRows rows for other
// events ahead of the one "tick" self-loop, so a linear scan would walk the
// whole table.
func GenWideConfig(numRows int) primitives.MachineConfig {
	if numRows < 1 {
		numRows = 1
	}
	config := primitives.MachineConfig{
		ID:           fmt.Sprintf("wide_%d", numRows),
		InitialState: "main",
		Transitions:  make([]primitives.Transition, 0, numRows+1),
	}
	for i := 0; i < numRows; i++ {
		config.Transitions = append(config.Transitions, primitives.Transition{
			Event: fmt.Sprintf("other%d", i),
			From:  "main",
			To:    fmt.Sprintf("target%d", i),
		})
	}
	config.Transitions = append(config.Transitions, primitives.Transition{
		Event: "tick", From: "main", To: "main", Action: "count",
	})
	return config
}

// GenConfigYAML encodes a flat config of n states as YAML.
func GenConfigYAML(n int) []byte {
	data, err := yaml.Marshal(GenFlatConfig(n))
	if err != nil {
		panic(err)
	}
	return data
}

// StartEngine builds and runs an engine fed by a ChannelEventSource, with a
// "count" action incrementing the returned counter.
func StartEngine(tb testing.TB, config primitives.MachineConfig, buffer int) (*core.Engine, *extensibility.ChannelEventSource, *atomic.Int64) {
	tb.Helper()
	src := extensibility.NewChannelEventSource(buffer)
	engine, err := core.NewEngine(testutil.Static(config), src, core.WithLogger(logger.Discard()))
	if err != nil {
		tb.Fatal(err)
	}
	var processed atomic.Int64
	engine.RegisterAction("count", func() { processed.Add(1) })
	engine.Run()
	tb.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = engine.Shutdown(ctx)
	})
	return engine, src, &processed
}

// Drain closes src and waits for the loop to consume everything sent.
func Drain(tb testing.TB, engine *core.Engine, src *extensibility.ChannelEventSource) {
	tb.Helper()
	src.Close()
	select {
	case <-engine.Done():
	case <-time.After(30 * time.Second):
		tb.Fatal("timeout waiting for dispatch loop to drain")
	}
}
