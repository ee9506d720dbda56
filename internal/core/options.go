// Package core provides the runtime core tier of the state machine.
// Options for configuring Engine instances.
package core

import "log/slog"

// WithActionRunner configures the Engine with a custom ActionRunner.
func WithActionRunner(r ActionRunner) Option {
	return func(e *Engine) {
		e.runner = r
	}
}

// WithActionRegistry makes the Engine use r instead of a private registry.
// A registry shared between engines stays consistent, but which engine's
// transitions trigger which callback is up to the owner.
func WithActionRegistry(r *ActionRegistry) Option {
	return func(e *Engine) {
		if r != nil {
			e.actions = r
		}
	}
}

// WithPublisher configures the Engine with a Publisher for transition records.
func WithPublisher(p Publisher) Option {
	return func(e *Engine) {
		e.publisher = p
	}
}

// WithVisualizer configures the Engine with a Visualizer.
func WithVisualizer(v Visualizer) Option {
	return func(e *Engine) {
		e.visualizer = v
	}
}

// WithLogger sets the logger for the Engine.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithMachineID overrides the machine ID from the config.
func WithMachineID(id string) Option {
	return func(e *Engine) {
		if id != "" {
			e.id = id
		}
	}
}
