// Package logger builds *slog.Logger instances for the state machine runtime.
//
// New applies functional options over production-safe defaults (JSON, info
// level, stdout). WithContextValue makes the handler copy values out of the
// context of each record, e.g. the transition ID the engine puts on the
// context handed to actions and publishers:
//
//	log := logger.New(
//		logger.WithEnvironment("development", "fsmrun"),
//		logger.WithContextValue("transition_id", core.TransitionIDKey),
//	)
//	log.InfoContext(ctx, "state transition", logger.FromState("Created"), logger.ToState("Paid"))
//
// Attribute helpers (Component, Event, State, Error, ...) keep key names
// consistent across packages.
package logger
