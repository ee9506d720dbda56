// Package tablefsm is a table-driven finite state machine runtime.
//
// A transition table is loaded once from a ConfigLoader, a dispatch loop pulls
// events from an EventSource on its own goroutine, and the current state can
// be read at any time:
//
//	src := tablefsm.NewChannelSource(16)
//	m, err := tablefsm.New(tablefsm.NewFileLoader("order.json"), src)
//	if err != nil {
//		return err
//	}
//	m.RegisterAction("charge", func() { ... })
//	m.Run()
//	_ = src.Send(ctx, "Pay")
//	fmt.Println(m.CurrentState())
package tablefsm

import (
	"io"
	"log/slog"
	"time"

	"github.com/comalice/tablefsm/internal/core"
	"github.com/comalice/tablefsm/internal/extensibility"
	"github.com/comalice/tablefsm/internal/loader"
	"github.com/comalice/tablefsm/internal/primitives"
	"github.com/comalice/tablefsm/internal/production"
)

type (
	// Machine is a running (or runnable) state machine engine.
	Machine = core.Engine
	// Config is a transition table plus its initial state.
	Config = primitives.MachineConfig
	// Transition is one row of the table.
	Transition = primitives.Transition
	// Builder assembles a Config in code.
	Builder = primitives.Builder
	// Action is a side effect bound to a transition by name.
	Action = core.Action
	// ActionRegistry maps action names to actions.
	ActionRegistry = core.ActionRegistry
	Option         = core.Option
	ConfigLoader   = core.ConfigLoader
	EventSource    = core.EventSource
	ActionRunner   = core.ActionRunner
	Publisher      = core.Publisher
	Visualizer     = core.Visualizer
	// TransitionRecord describes one committed transition.
	TransitionRecord = core.TransitionRecord
	// ConfigError reports a failure to load or validate a Config.
	ConfigError = primitives.ConfigError
	// ActionPanicError reports an action that panicked.
	ActionPanicError = core.ActionPanicError
	Format           = loader.Format
)

const (
	FormatJSON = loader.FormatJSON
	FormatYAML = loader.FormatYAML
)

var (
	// ErrConfiguration matches every ConfigError via errors.Is.
	ErrConfiguration = primitives.ErrConfiguration
	// ErrSourceClosed is returned when sending to a closed channel source.
	ErrSourceClosed = extensibility.ErrSourceClosed
)

// New loads the table and returns a machine positioned at the initial state.
// The loop does not start until Run.
func New(l ConfigLoader, src EventSource, opts ...Option) (*Machine, error) {
	return core.NewEngine(l, src, opts...)
}

// NewBuilder starts an in-memory table with the given initial state.
func NewBuilder(initial string) *Builder {
	return primitives.NewBuilder(initial)
}

// NewActionRegistry creates an empty registry that may be shared between
// machines with WithActionRegistry.
func NewActionRegistry() *ActionRegistry {
	return core.NewActionRegistry()
}

// Loaders.

// NewFileLoader picks JSON or YAML by the file extension.
func NewFileLoader(path string) ConfigLoader { return loader.NewFileLoader(path) }

func NewJSONFileLoader(path string) ConfigLoader { return loader.NewJSONFileLoader(path) }
func NewYAMLFileLoader(path string) ConfigLoader { return loader.NewYAMLFileLoader(path) }

func NewReaderLoader(r io.Reader, f Format) ConfigLoader {
	return loader.NewReaderLoader(r, f)
}

// NewStaticLoader serves an in-memory table, e.g. one from NewBuilder.
func NewStaticLoader(cfg Config) ConfigLoader { return loader.NewStaticLoader(cfg) }

// Event sources.

func NewChannelSource(size int) *extensibility.ChannelEventSource {
	return extensibility.NewChannelEventSource(size)
}

func NewTimerSource(event string, every time.Duration) *extensibility.TimerEventSource {
	return extensibility.NewTimerEventSource(event, every)
}

func NewReaderSource(r io.Reader) *extensibility.ReaderEventSource {
	return extensibility.NewReaderEventSource(r)
}

// Options.

func WithLogger(l *slog.Logger) Option            { return core.WithLogger(l) }
func WithActionRegistry(r *ActionRegistry) Option { return core.WithActionRegistry(r) }
func WithActionRunner(r ActionRunner) Option      { return core.WithActionRunner(r) }
func WithPublisher(p Publisher) Option            { return core.WithPublisher(p) }
func WithVisualizer(v Visualizer) Option          { return core.WithVisualizer(v) }
func WithMachineID(id string) Option              { return core.WithMachineID(id) }

// WithDOT enables Machine.Visualize with the Graphviz renderer.
func WithDOT() Option {
	return core.WithVisualizer(&production.DefaultVisualizer{})
}

// NewLoggingRunner runs actions with panic recovery and logs each call.
func NewLoggingRunner(l *slog.Logger) ActionRunner {
	return extensibility.NewLoggingActionRunner(nil, l)
}

// NewChannelPublisher publishes transition records to a buffered channel,
// dropping when it is full.
func NewChannelPublisher(size int) *production.ChannelPublisher {
	return production.NewChannelPublisher(size)
}
