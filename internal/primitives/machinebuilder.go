// Package primitives includes builder helpers for MachineConfig.
package primitives

// Builder builds a MachineConfig fluently, one transition at a time.
//
//	cfg, err := NewBuilder("Created").
//		On("Pay").From("Created").To("Paid").Do("charge").
//		On("Ship").From("Paid").To("Shipped").
//		Build()
type Builder struct {
	config  MachineConfig
	pending *Transition
}

// NewBuilder creates a Builder for a machine starting in initial.
func NewBuilder(initial string) *Builder {
	return &Builder{config: MachineConfig{InitialState: initial}}
}

// ID sets the machine ID.
func (b *Builder) ID(id string) *Builder {
	b.config.ID = id
	return b
}

// On starts a new transition triggered by event.
func (b *Builder) On(event string) *Builder {
	b.flush()
	b.pending = &Transition{Event: event}
	return b
}

// From sets the source state of the pending transition.
func (b *Builder) From(state string) *Builder {
	b.ensurePending()
	b.pending.From = state
	return b
}

// To sets the target state of the pending transition.
func (b *Builder) To(state string) *Builder {
	b.ensurePending()
	b.pending.To = state
	return b
}

// Do names the action of the pending transition.
func (b *Builder) Do(action string) *Builder {
	b.ensurePending()
	b.pending.Action = action
	return b
}

// Transition appends a complete transition. action is optional.
func (b *Builder) Transition(event, from, to string, action ...string) *Builder {
	b.flush()
	t := Transition{Event: event, From: from, To: to}
	if len(action) > 0 {
		t.Action = action[0]
	}
	b.config.Transitions = append(b.config.Transitions, t)
	return b
}

// Build finalizes and validates the config.
func (b *Builder) Build() (MachineConfig, error) {
	b.flush()
	cfg := b.config.Clone()
	if err := cfg.Validate(); err != nil {
		return MachineConfig{}, NewConfigError("builder", err)
	}
	return cfg, nil
}

// MustBuild is Build that panics on an invalid config.
func (b *Builder) MustBuild() MachineConfig {
	cfg, err := b.Build()
	if err != nil {
		panic(err)
	}
	return cfg
}

func (b *Builder) ensurePending() {
	if b.pending == nil {
		b.pending = &Transition{}
	}
}

func (b *Builder) flush() {
	if b.pending != nil {
		b.config.Transitions = append(b.config.Transitions, *b.pending)
		b.pending = nil
	}
}
