package primitives

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	cfg, err := NewBuilder("Created").
		ID("order").
		On("Pay").From("Created").To("Paid").Do("charge").
		On("Ship").From("Paid").To("Shipped").
		Transition("Cancel", "Created", "Cancelled", "refund").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "order", cfg.ID)
	assert.Equal(t, "Created", cfg.InitialState)
	assert.Equal(t, []Transition{
		{Event: "Pay", From: "Created", To: "Paid", Action: "charge"},
		{Event: "Ship", From: "Paid", To: "Shipped"},
		{Event: "Cancel", From: "Created", To: "Cancelled", Action: "refund"},
	}, cfg.Transitions)
}

func TestBuilder_Invalid(t *testing.T) {
	_, err := NewBuilder("a").On("go").From("a").Build()
	require.Error(t, err)
	assert.True(t, IsConfigError(err))

	assert.Panics(t, func() {
		NewBuilder("").MustBuild()
	})
}
