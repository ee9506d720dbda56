package primitives

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachineConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *MachineConfig
		wantErr bool
	}{
		{
			name: "minimal valid",
			config: &MachineConfig{
				InitialState: "Created",
				Transitions:  []Transition{{Event: "Pay", From: "Created", To: "Paid"}},
			},
		},
		{
			name:   "empty table",
			config: &MachineConfig{InitialState: "Created"},
		},
		{
			name: "missing initial",
			config: &MachineConfig{
				Transitions: []Transition{{Event: "Pay", From: "Created", To: "Paid"}},
			},
			wantErr: true,
		},
		{
			name: "broken transition",
			config: &MachineConfig{
				InitialState: "Created",
				Transitions: []Transition{
					{Event: "Pay", From: "Created", To: "Paid"},
					{Event: "Ship", From: "Paid"},
				},
			},
			wantErr: true,
		},
		{
			name: "endpoints outside any declared set are fine",
			config: &MachineConfig{
				InitialState: "nowhere",
				Transitions:  []Transition{{Event: "e", From: "x", To: "y"}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMachineConfigStatesEventsActions(t *testing.T) {
	cfg := MachineConfig{
		InitialState: "Created",
		Transitions: []Transition{
			{Event: "Pay", From: "Created", To: "Paid", Action: "charge"},
			{Event: "Ship", From: "Paid", To: "Shipped", Action: "label"},
			{Event: "Pay", From: "Paid", To: "Paid", Action: "charge"},
		},
	}

	assert.Equal(t, []string{"Created", "Paid", "Shipped"}, cfg.States())
	assert.Equal(t, []string{"Pay", "Ship"}, cfg.Events())
	assert.Equal(t, []string{"charge", "label"}, cfg.Actions())
}

func TestMachineConfigClone(t *testing.T) {
	cfg := MachineConfig{
		InitialState: "a",
		Transitions:  []Transition{{Event: "go", From: "a", To: "b"}},
	}
	clone := cfg.Clone()
	cfg.Transitions[0].To = "c"

	assert.Equal(t, "b", clone.Transitions[0].To)
}

func TestComputeVersion(t *testing.T) {
	a := MachineConfig{InitialState: "a", Transitions: []Transition{
		{Event: "go", From: "a", To: "b"},
		{Event: "go", From: "a", To: "c"},
	}}
	b := a.Clone()
	b.Transitions[0], b.Transitions[1] = b.Transitions[1], b.Transitions[0]

	assert.Equal(t, ComputeVersion(&a), ComputeVersion(&a))
	assert.Len(t, ComputeVersion(&a), 16)
	assert.NotEqual(t, ComputeVersion(&a), ComputeVersion(&b), "table order is part of the version")
}

func TestConfigError(t *testing.T) {
	cause := errors.New("boom")
	err := NewConfigError("orders.json", cause)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsConfigError(err))
	assert.Equal(t, "configuration error (orders.json): boom", err.Error())

	// already wrapped errors are not double wrapped
	assert.Same(t, err, NewConfigError("other", err))
	assert.Nil(t, NewConfigError("x", nil))
}
