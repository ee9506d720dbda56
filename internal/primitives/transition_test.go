package primitives

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionValidate(t *testing.T) {
	tests := []struct {
		name        string
		tr          Transition
		wantErr     bool
		errContains string
	}{
		{
			name: "valid",
			tr:   Transition{Event: "Pay", From: "Created", To: "Paid"},
		},
		{
			name: "valid with action",
			tr:   Transition{Event: "Pay", From: "Created", To: "Paid", Action: "notify"},
		},
		{
			name:        "missing event",
			tr:          Transition{From: "Created", To: "Paid"},
			wantErr:     true,
			errContains: "event is required",
		},
		{
			name:        "blank from",
			tr:          Transition{Event: "Pay", From: "  ", To: "Paid"},
			wantErr:     true,
			errContains: "from state is required",
		},
		{
			name:        "missing to",
			tr:          Transition{Event: "Pay", From: "Created"},
			wantErr:     true,
			errContains: "to state is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tr.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFindTransition_FirstMatchWins(t *testing.T) {
	table := []Transition{
		{Event: "go", From: "a", To: "b"},
		{Event: "go", From: "a", To: "c"},
		{Event: "back", From: "b", To: "a"},
	}

	got, ok := FindTransition(table, "a", "go")
	require.True(t, ok)
	assert.Equal(t, "b", got.To)

	got, ok = FindTransition(table, "b", "back")
	require.True(t, ok)
	assert.Equal(t, "a", got.To)

	_, ok = FindTransition(table, "c", "go")
	assert.False(t, ok)
}

func TestTransitionString(t *testing.T) {
	assert.Equal(t, "a --go--> b", Transition{Event: "go", From: "a", To: "b"}.String())
	assert.Equal(t, "a --go/log--> b", Transition{Event: "go", From: "a", To: "b", Action: "log"}.String())
}
