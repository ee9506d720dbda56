package extensibility

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/tablefsm/internal/core"
	"github.com/comalice/tablefsm/internal/logger"
)

func TestDefaultActionRunner_Run(t *testing.T) {
	called := false
	r := &DefaultActionRunner{}
	require.NoError(t, r.Run(context.Background(), "notify", func() { called = true }))
	assert.True(t, called)
}

func TestDefaultActionRunner_Nil(t *testing.T) {
	r := &DefaultActionRunner{}
	assert.NoError(t, r.Run(context.Background(), "nothing", nil))
}

func TestDefaultActionRunner_Panic(t *testing.T) {
	r := &DefaultActionRunner{}
	err := r.Run(context.Background(), "explode", func() { panic("boom") })

	var pe *core.ActionPanicError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "explode", pe.Action)
	assert.Equal(t, "boom", pe.Value)
}

func TestLoggingActionRunner(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.New(logger.WithOutput(buf), logger.WithTextFormatter(), logger.WithLevel(slog.LevelDebug))

	called := false
	r := NewLoggingActionRunner(nil, log)
	require.NoError(t, r.Run(context.Background(), "notify", func() { called = true }))
	assert.True(t, called)
	assert.Contains(t, buf.String(), "executing action")
	assert.Contains(t, buf.String(), "action=notify")
	assert.Contains(t, buf.String(), "action completed")

	buf.Reset()
	err := r.Run(context.Background(), "explode", func() { panic("boom") })
	require.Error(t, err)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "panicked")
}
