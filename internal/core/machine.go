// Package core provides the runtime core tier of the state machine.
// This includes the Engine, its dispatch loop, the current-state cell and the
// action registry.
// Dependencies: internal/primitives, internal/logger.
//go:generate go test ./... -race

package core

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/comalice/tablefsm/internal/logger"
	"github.com/comalice/tablefsm/internal/primitives"
)

// Pluggable component interfaces.

// ConfigLoader produces the machine configuration. Called exactly once per
// Engine construction.
type ConfigLoader interface {
	Load() (primitives.MachineConfig, error)
}

// EventSource yields event names one at a time and may block. ok == false
// means no further events will arrive. The engine calls Next from a single
// goroutine; sharing one source between engines is the owner's problem.
type EventSource interface {
	Next(ctx context.Context) (event string, ok bool)
}

// ActionRunner invokes a registered action on the dispatch goroutine.
// A returned error is logged by the engine; dispatch continues.
type ActionRunner interface {
	Run(ctx context.Context, name string, action Action) error
}

// Publisher receives a record of every committed transition.
type Publisher interface {
	Publish(ctx context.Context, record TransitionRecord) error
	Close() error
}

// Visualizer renders the transition table.
type Visualizer interface {
	ExportDOT(config primitives.MachineConfig, current string) string
	ExportJSON(config primitives.MachineConfig) ([]byte, error)
}

// TransitionRecord describes one committed transition.
// ID is also carried by the dispatch context, see TransitionID.
type TransitionRecord struct {
	ID        string    `json:"id" yaml:"id"`
	MachineID string    `json:"machineID" yaml:"machineID"`
	Event     string    `json:"event" yaml:"event"`
	From      string    `json:"from" yaml:"from"`
	To        string    `json:"to" yaml:"to"`
	Action    string    `json:"action,omitempty" yaml:"action,omitempty"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

type contextKey struct{ name string }

// TransitionIDKey is the context key under which the engine stores the ID of
// the transition being applied. Actions and publishers receive a context
// carrying it; install it with logger.WithContextValue to tag their logs.
var TransitionIDKey = &contextKey{"transition_id"}

// WithTransitionID returns a copy of ctx carrying id.
func WithTransitionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, TransitionIDKey, id)
}

// TransitionID returns the transition ID carried by ctx, if any.
func TransitionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(TransitionIDKey).(string)
	return id, ok
}

// Option applies configuration to Engine via functional options pattern.
type Option func(*Engine)

// Engine is the runtime instance of a table-driven state machine.
// The dispatch loop runs on its own goroutine; CurrentState, RegisterAction
// and Stop are safe to call from any goroutine at any time.
type Engine struct {
	id      string
	config  primitives.MachineConfig
	index   *transitionIndex
	version string

	mu      sync.RWMutex
	current string

	running   atomic.Bool
	lifecycle sync.Mutex
	started   bool

	source  EventSource
	actions *ActionRegistry

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	// Pluggable components (nil = defaults)
	runner     ActionRunner
	publisher  Publisher
	visualizer Visualizer
	logger     *slog.Logger
}

// NewEngine loads the configuration and builds an Engine positioned at the
// initial state. Load, validation and nil collaborators fail with a
// *primitives.ConfigError; no engine is returned in that case.
func NewEngine(loader ConfigLoader, source EventSource, opts ...Option) (*Engine, error) {
	if loader == nil {
		return nil, primitives.NewConfigError("", errors.New("nil config loader"))
	}
	if source == nil {
		return nil, primitives.NewConfigError("", errors.New("nil event source"))
	}

	config, err := loader.Load()
	if err != nil {
		return nil, primitives.NewConfigError("", err)
	}
	if err := config.Validate(); err != nil {
		return nil, primitives.NewConfigError(config.ID, err)
	}
	config = config.Clone()

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		id:      config.ID,
		config:  config,
		index:   buildIndex(config.Transitions),
		version: primitives.ComputeVersion(&config),
		current: config.InitialState,
		source:  source,
		actions: NewActionRegistry(),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	e.running.Store(true)

	for _, opt := range opts {
		opt(e)
	}

	if e.id == "" {
		e.id = uuid.NewString()
	}
	if e.logger == nil {
		e.logger = slog.Default().With(logger.Component("fsm"))
	}
	e.logger = e.logger.With(logger.MachineID(e.id))
	if e.runner == nil {
		e.runner = defaultActionRunner{}
	}

	for _, i := range e.index.shadowed() {
		e.logger.Debug("transition shadowed by an earlier row",
			slog.Int("row", i),
			slog.String("transition", e.index.table[i].String()),
		)
	}
	return e, nil
}

// Run starts the dispatch loop on a new goroutine and returns immediately.
// Idempotent; a no-op once the engine has been stopped.
func (e *Engine) Run() {
	e.lifecycle.Lock()
	if !e.running.Load() || e.started {
		e.lifecycle.Unlock()
		return
	}
	e.started = true
	e.lifecycle.Unlock()

	e.logger.InfoContext(e.ctx, "dispatch loop started",
		logger.State(e.CurrentState()),
		logger.ConfigVersion(e.version),
		slog.Int("transitions", len(e.index.table)),
	)
	go e.interpret()
}

// interpret is the dispatch loop goroutine.
func (e *Engine) interpret() {
	defer close(e.done)
	defer e.logger.InfoContext(e.ctx, "dispatch loop stopped", logger.State(e.CurrentState()))

	for e.running.Load() {
		event, ok := e.source.Next(e.ctx)
		if !ok {
			e.logger.InfoContext(e.ctx, "event source exhausted")
			return
		}
		// Stopped while blocked in Next: exit without dispatching.
		if !e.running.Load() {
			return
		}
		e.processEvent(event)
	}
}

// processEvent matches event against the table and applies the first hit.
func (e *Engine) processEvent(event string) {
	e.mu.Lock()
	from := e.current
	trans, ok := e.index.lookup(from, event)
	if !ok {
		e.mu.Unlock()
		e.logger.WarnContext(e.ctx, "no matching transition", logger.Event(event), logger.State(from))
		return
	}
	e.current = trans.To
	e.mu.Unlock()

	// The transition is committed; a concurrent Stop must not keep its action
	// logs or its record from going out.
	id := uuid.NewString()
	ctx := WithTransitionID(context.WithoutCancel(e.ctx), id)

	e.logger.InfoContext(ctx, "state transition",
		logger.Event(event),
		logger.FromState(from),
		logger.ToState(trans.To),
	)

	if trans.HasAction() {
		e.invokeAction(ctx, trans.Action)
	}

	if e.publisher != nil {
		record := TransitionRecord{
			ID:        id,
			MachineID: e.id,
			Event:     event,
			From:      from,
			To:        trans.To,
			Action:    trans.Action,
			Timestamp: time.Now(),
		}
		if err := e.publisher.Publish(ctx, record); err != nil {
			e.logger.ErrorContext(ctx, "publish transition", logger.Event(event), logger.Error(err))
		}
	}
}

// invokeAction runs a registered action. Missing actions are skipped and
// failures are logged; neither stops the loop.
func (e *Engine) invokeAction(ctx context.Context, name string) {
	action, ok := e.actions.Lookup(name)
	if !ok {
		e.logger.DebugContext(ctx, "action not registered", logger.Action(name))
		return
	}
	if err := e.runner.Run(ctx, name, action); err != nil {
		e.logger.ErrorContext(ctx, "action failed", logger.Action(name), logger.Error(err))
	}
}

// RegisterAction inserts or overwrites the action invoked for transitions
// naming it. Callable before or while the loop runs.
func (e *Engine) RegisterAction(name string, action Action) {
	e.actions.Register(name, action)
}

// Actions returns the engine's action registry.
func (e *Engine) Actions() *ActionRegistry {
	return e.actions
}

// CurrentState returns a snapshot of the current state.
func (e *Engine) CurrentState() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current
}

// Stop signals the dispatch loop to exit and cancels the context handed to the
// event source. A source that ignores the context keeps the loop parked until
// its next event, which is then dropped. Safe to call multiple times.
func (e *Engine) Stop() error {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()

	if !e.running.Load() {
		return nil
	}
	e.running.Store(false)
	e.cancel()
	if !e.started {
		// never ran: nothing else will close done
		close(e.done)
	}
	return nil
}

// Done is closed once the dispatch loop has exited, or at Stop if Run was
// never called.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Wait blocks until the dispatch loop has exited. Without a prior Stop or an
// exhausted source it blocks indefinitely.
func (e *Engine) Wait() {
	<-e.done
}

// Shutdown stops the engine and waits for the loop to exit or ctx to end.
// The publisher, if any, is closed once the loop is gone.
func (e *Engine) Shutdown(ctx context.Context) error {
	_ = e.Stop()
	select {
	case <-e.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	if e.publisher != nil {
		return e.publisher.Close()
	}
	return nil
}

// Running reports whether Stop has not been called yet.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// ID returns the machine identifier (config id, option, or a random UUID).
func (e *Engine) ID() string {
	return e.id
}

// Version returns the content hash of the loaded config.
func (e *Engine) Version() string {
	return e.version
}

// Config returns a copy of the loaded configuration.
func (e *Engine) Config() primitives.MachineConfig {
	return e.config.Clone()
}

// Transitions returns a copy of the transition table in declaration order.
func (e *Engine) Transitions() []primitives.Transition {
	return append([]primitives.Transition(nil), e.index.table...)
}

// Visualize returns the Graphviz DOT rendering of the table with the current
// state highlighted.
func (e *Engine) Visualize() string {
	if e.visualizer == nil {
		return "ERROR: No visualizer configured. Use WithVisualizer(&production.DefaultVisualizer{})"
	}
	return e.visualizer.ExportDOT(e.config, e.CurrentState())
}
