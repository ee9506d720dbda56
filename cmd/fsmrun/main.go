// Command fsmrun loads a transition table and drives it from stdin lines, a
// Redis list, or a timer until the source is exhausted or the process is
// signalled. Committed transitions are written to stdout as JSON lines.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/comalice/tablefsm/internal/core"
	"github.com/comalice/tablefsm/internal/extensibility"
	"github.com/comalice/tablefsm/internal/loader"
	"github.com/comalice/tablefsm/internal/logger"
	"github.com/comalice/tablefsm/internal/production"
	"github.com/comalice/tablefsm/internal/settings"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fsmrun:", err)
		os.Exit(1)
	}
}

func run() error {
	s, err := settings.Load()
	if err != nil {
		return err
	}

	log := logger.New(append(s.LoggerOptions("fsmrun"),
		logger.WithOutput(os.Stderr),
		logger.WithContextValue("transition_id", core.TransitionIDKey),
	)...)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, closeSource, err := openSource(ctx, s, log)
	if err != nil {
		return err
	}
	defer closeSource()

	publisher := production.NewChannelPublisher(256)
	engine, err := core.NewEngine(loader.NewFileLoader(s.ConfigPath), source,
		core.WithLogger(log),
		core.WithActionRunner(extensibility.NewLoggingActionRunner(nil, log)),
		core.WithPublisher(publisher),
		core.WithVisualizer(&production.DefaultVisualizer{}),
	)
	if err != nil {
		return err
	}

	// Actions named by the table have no behaviour of their own here; they
	// are registered so every invocation shows up in the log.
	cfg := engine.Config()
	for _, name := range cfg.Actions() {
		engine.RegisterAction(name, func() {
			log.Info("action invoked", logger.Action(name))
		})
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		enc := json.NewEncoder(os.Stdout)
		for record := range publisher.Records() {
			if err := enc.Encode(record); err != nil {
				log.Error("write transition", logger.Error(err))
			}
		}
	}()

	engine.Run()
	select {
	case <-engine.Done():
	case <-ctx.Done():
		log.Info("signal received, stopping")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()
	shutdownErr := engine.Shutdown(shutdownCtx)
	if errors.Is(shutdownErr, context.DeadlineExceeded) {
		// Source ignores cancellation (stdin); the loop is abandoned.
		log.Warn("dispatch loop did not exit in time", slog.Duration("timeout", s.ShutdownTimeout))
		_ = publisher.Close()
		shutdownErr = nil
	}
	wg.Wait()

	fmt.Fprintf(os.Stderr, "final state: %s\n", engine.CurrentState())
	if s.PrintDOT {
		fmt.Fprint(os.Stderr, engine.Visualize())
	}
	if err := sourceErr(source); err != nil {
		return errors.Join(shutdownErr, fmt.Errorf("event source: %w", err))
	}
	return shutdownErr
}

// sourceErr reports why a source that records read failures stopped early.
// Exhaustion alone is not an error.
func sourceErr(src core.EventSource) error {
	if r, ok := src.(interface{ Err() error }); ok {
		return r.Err()
	}
	return nil
}

// openSource builds the configured event source and returns a cleanup func.
func openSource(ctx context.Context, s settings.Settings, log *slog.Logger) (core.EventSource, func(), error) {
	switch s.EventSource {
	case settings.SourceTimer:
		src := extensibility.NewTimerEventSource(s.TimerEvent, s.TimerInterval)
		return src, src.Stop, nil
	case settings.SourceRedis:
		client, err := extensibility.ConnectRedis(ctx, s.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		src, err := extensibility.NewRedisEventSource(client, s.Redis.Key, s.Redis.PollTimeout, log)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return src, func() { _ = client.Close() }, nil
	default:
		return extensibility.NewReaderEventSource(os.Stdin), func() {}, nil
	}
}
