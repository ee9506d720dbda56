package main

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/tablefsm/internal/extensibility"
)

func drain(src interface {
	Next(context.Context) (string, bool)
}) []string {
	var events []string
	for {
		ev, ok := src.Next(context.Background())
		if !ok {
			return events
		}
		events = append(events, ev)
	}
}

func TestSourceErr(t *testing.T) {
	t.Run("clean EOF", func(t *testing.T) {
		src := extensibility.NewReaderEventSource(strings.NewReader("Pay\nShip\n"))
		assert.Equal(t, []string{"Pay", "Ship"}, drain(src))
		assert.NoError(t, sourceErr(src))
	})

	t.Run("read error", func(t *testing.T) {
		boom := errors.New("stdin closed badly")
		src := extensibility.NewReaderEventSource(iotest.ErrReader(boom))
		assert.Empty(t, drain(src))
		assert.ErrorIs(t, sourceErr(src), boom)
	})

	t.Run("line longer than the scanner buffer", func(t *testing.T) {
		input := "Pay\n" + strings.Repeat("x", 70*1024) + "\nShip\n"
		src := extensibility.NewReaderEventSource(strings.NewReader(input))
		assert.Equal(t, []string{"Pay"}, drain(src))
		require.Error(t, sourceErr(src))
	})

	t.Run("source without Err", func(t *testing.T) {
		src := extensibility.NewTimerEventSource("tick", time.Hour)
		src.Stop()
		assert.NoError(t, sourceErr(src))
	})
}
