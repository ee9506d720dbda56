package logger

import (
	"log/slog"
	"time"
)

// Error records err under "error". A nil err yields an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records the event name under "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// State records the current state under "state".
func State(name string) slog.Attr {
	return slog.String("state", name)
}

// FromState records the source state of a transition under "from".
func FromState(name string) slog.Attr {
	return slog.String("from", name)
}

// ToState records the target state of a transition under "to".
func ToState(name string) slog.Attr {
	return slog.String("to", name)
}

// Action records an action name under "action".
func Action(name string) slog.Attr {
	return slog.String("action", name)
}

// MachineID records the machine identifier under "machine_id".
func MachineID(id string) slog.Attr {
	return slog.String("machine_id", id)
}

// ConfigVersion records the config content hash under "config_version".
func ConfigVersion(v string) slog.Attr {
	return slog.String("config_version", v)
}

// Duration records a duration under "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
