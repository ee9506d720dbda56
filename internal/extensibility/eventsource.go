package extensibility

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"
)

// ErrSourceClosed is returned when sending to a closed event source.
var ErrSourceClosed = errors.New("event source closed")

// ChannelEventSource is an EventSource backed by a Go channel.
// Producers call Send from any goroutine; Close ends the stream once the
// buffered events have been consumed.
type ChannelEventSource struct {
	ch        chan string
	closed    chan struct{}
	closeOnce sync.Once
}

// NewChannelEventSource creates a ChannelEventSource buffering up to size events.
// A size of 0 makes Send wait for the dispatch loop.
func NewChannelEventSource(size int) *ChannelEventSource {
	if size < 0 {
		size = 0
	}
	return &ChannelEventSource{
		ch:     make(chan string, size),
		closed: make(chan struct{}),
	}
}

// Send delivers event, blocking while the buffer is full.
// Returns ErrSourceClosed after Close, or ctx.Err() if ctx ends first.
func (s *ChannelEventSource) Send(ctx context.Context, event string) error {
	select {
	case <-s.closed:
		return ErrSourceClosed
	default:
	}
	select {
	case s.ch <- event:
		return nil
	case <-s.closed:
		return ErrSourceClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySend delivers event without blocking. It reports false when the buffer
// is full or the source is closed.
func (s *ChannelEventSource) TrySend(event string) bool {
	select {
	case <-s.closed:
		return false
	default:
	}
	select {
	case s.ch <- event:
		return true
	default:
		return false
	}
}

// Close ends the stream. Safe to call multiple times.
func (s *ChannelEventSource) Close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

// Next returns the next event, draining the buffer before reporting
// exhaustion after Close.
func (s *ChannelEventSource) Next(ctx context.Context) (string, bool) {
	select {
	case ev := <-s.ch:
		return ev, true
	case <-s.closed:
		select {
		case ev := <-s.ch:
			return ev, true
		default:
			return "", false
		}
	case <-ctx.Done():
		return "", false
	}
}

// TimerEventSource emits the same event at a fixed interval using time.Ticker.
// Useful for timeout/heartbeat machines.
type TimerEventSource struct {
	ch     chan string
	event  string
	ticker *time.Ticker
	stop   chan struct{}
	once   sync.Once
}

// NewTimerEventSource creates a TimerEventSource that emits event every d.
// Ticks are dropped while the dispatch loop is behind.
func NewTimerEventSource(event string, d time.Duration) *TimerEventSource {
	t := &TimerEventSource{
		ch:     make(chan string, 10),
		event:  event,
		ticker: time.NewTicker(d),
		stop:   make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *TimerEventSource) run() {
	for {
		select {
		case <-t.ticker.C:
			select {
			case t.ch <- t.event:
			default:
				// drop if full
			}
		case <-t.stop:
			t.ticker.Stop()
			close(t.ch)
			return
		}
	}
}

// Next returns the next tick. Buffered ticks are still delivered after Stop.
func (t *TimerEventSource) Next(ctx context.Context) (string, bool) {
	select {
	case ev, ok := <-t.ch:
		return ev, ok
	case <-ctx.Done():
		return "", false
	}
}

// Stop stops the ticker; Next reports exhaustion once drained.
func (t *TimerEventSource) Stop() {
	t.once.Do(func() { close(t.stop) })
}

// ReaderEventSource reads one event per line from an io.Reader.
// Blank lines are skipped and surrounding whitespace trimmed; EOF or a read
// error ends the stream. A blocked read does not observe ctx.
type ReaderEventSource struct {
	scanner *bufio.Scanner
	mu      sync.Mutex
	err     error
}

// NewReaderEventSource creates a ReaderEventSource over r.
func NewReaderEventSource(r io.Reader) *ReaderEventSource {
	return &ReaderEventSource{scanner: bufio.NewScanner(r)}
}

func (s *ReaderEventSource) Next(ctx context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		if ctx.Err() != nil {
			return "", false
		}
		if !s.scanner.Scan() {
			s.err = s.scanner.Err()
			return "", false
		}
		if line := strings.TrimSpace(s.scanner.Text()); line != "" {
			return line, true
		}
	}
}

// Err returns the read error that ended the stream, if any.
func (s *ReaderEventSource) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
