// Package testutil provides event sources and loaders shared by tests across
// packages. Nothing here imports the engine, so any package may use it.
package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/comalice/tablefsm/internal/primitives"
)

// Feed is a channel-backed event source driven by the test.
// Next honours ctx; Close makes Next report exhaustion once the buffer drains.
type Feed struct {
	ch     chan string
	closed chan struct{}
	once   sync.Once
	pulls  atomic.Int64
}

// NewFeed creates a Feed buffering up to size events.
func NewFeed(size int) *Feed {
	return &Feed{
		ch:     make(chan string, size),
		closed: make(chan struct{}),
	}
}

// Push enqueues events, blocking while the buffer is full.
func (f *Feed) Push(events ...string) {
	for _, ev := range events {
		f.ch <- ev
	}
}

// Close ends the feed.
func (f *Feed) Close() {
	f.once.Do(func() { close(f.closed) })
}

// Pulls returns how many times Next returned an event.
func (f *Feed) Pulls() int64 {
	return f.pulls.Load()
}

func (f *Feed) Next(ctx context.Context) (string, bool) {
	select {
	case ev := <-f.ch:
		f.pulls.Add(1)
		return ev, true
	case <-f.closed:
		select {
		case ev := <-f.ch:
			f.pulls.Add(1)
			return ev, true
		default:
			return "", false
		}
	case <-ctx.Done():
		return "", false
	}
}

// Script yields a fixed list of events, then reports exhaustion.
type Script struct {
	mu     sync.Mutex
	events []string
}

// NewScript creates a Script over events.
func NewScript(events ...string) *Script {
	return &Script{events: append([]string(nil), events...)}
}

func (s *Script) Next(context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == 0 {
		return "", false
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, true
}

// Stubborn ignores the context: Next blocks until an event is pushed, the way
// a blocking read on a pipe would.
type Stubborn struct {
	ch      chan string
	waiting chan struct{}
	once    sync.Once
}

// NewStubborn creates a Stubborn source.
func NewStubborn() *Stubborn {
	return &Stubborn{ch: make(chan string), waiting: make(chan struct{})}
}

// Waiting is closed the first time Next blocks.
func (s *Stubborn) Waiting() <-chan struct{} {
	return s.waiting
}

// Push hands one event to a blocked Next.
func (s *Stubborn) Push(event string) {
	s.ch <- event
}

func (s *Stubborn) Next(context.Context) (string, bool) {
	s.once.Do(func() { close(s.waiting) })
	ev, ok := <-s.ch
	return ev, ok
}

// LoaderFunc adapts a function to the engine's config loader contract.
type LoaderFunc func() (primitives.MachineConfig, error)

func (f LoaderFunc) Load() (primitives.MachineConfig, error) {
	return f()
}

// Static returns a loader yielding cfg.
func Static(cfg primitives.MachineConfig) LoaderFunc {
	return func() (primitives.MachineConfig, error) { return cfg, nil }
}

// Failing returns a loader that always fails with err.
func Failing(err error) LoaderFunc {
	return func() (primitives.MachineConfig, error) { return primitives.MachineConfig{}, err }
}

// OrderConfig is the Created -> Paid -> Shipped machine used across tests.
func OrderConfig() primitives.MachineConfig {
	return primitives.MachineConfig{
		ID:           "order",
		InitialState: "Created",
		Transitions: []primitives.Transition{
			{Event: "Pay", From: "Created", To: "Paid"},
			{Event: "Ship", From: "Paid", To: "Shipped"},
		},
	}
}
