package production

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/comalice/tablefsm/internal/core"
)

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("publisher closed")

// ChannelPublisher forwards transition records to a Go channel.
// Non-blocking publish with drop on backpressure.
type ChannelPublisher struct {
	mu      sync.RWMutex
	ch      chan core.TransitionRecord
	closed  bool
	dropped atomic.Int64
}

// NewChannelPublisher creates a ChannelPublisher owning a channel with the
// given buffer size.
func NewChannelPublisher(size int) *ChannelPublisher {
	return &ChannelPublisher{ch: make(chan core.TransitionRecord, size)}
}

// Records is the receive side. It is closed by Close.
func (p *ChannelPublisher) Records() <-chan core.TransitionRecord {
	return p.ch
}

// Dropped counts records discarded because the buffer was full.
func (p *ChannelPublisher) Dropped() int64 {
	return p.dropped.Load()
}

func (p *ChannelPublisher) Publish(ctx context.Context, record core.TransitionRecord) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case p.ch <- record:
	default:
		p.dropped.Add(1)
	}
	return nil
}

// Close closes the records channel. Safe to call multiple times.
func (p *ChannelPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.ch)
	}
	return nil
}
