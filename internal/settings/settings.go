// Package settings reads the runtime settings of the fsmrun command from the
// environment, with optional .env files.
package settings

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/comalice/tablefsm/internal/extensibility"
	"github.com/comalice/tablefsm/internal/logger"
)

var (
	// ErrParsingSettings is returned when environment variables cannot be parsed.
	ErrParsingSettings = errors.New("failed to parse environment variables into settings")

	// ErrInvalidSettings is returned when parsed values are out of range.
	ErrInvalidSettings = errors.New("invalid settings")
)

// Event source kinds.
const (
	SourceStdin = "stdin"
	SourceRedis = "redis"
	SourceTimer = "timer"
)

// Settings is the fsmrun runtime configuration.
type Settings struct {
	ConfigPath string `env:"FSM_CONFIG_PATH,required"`
	Env        string `env:"FSM_ENV" envDefault:"development"`
	LogLevel   string `env:"FSM_LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"FSM_LOG_FORMAT" envDefault:"text"`

	EventSource   string        `env:"FSM_EVENT_SOURCE" envDefault:"stdin"`
	TimerEvent    string        `env:"FSM_TIMER_EVENT" envDefault:"tick"`
	TimerInterval time.Duration `env:"FSM_TIMER_INTERVAL" envDefault:"1s"`

	Redis extensibility.RedisConfig `envPrefix:"FSM_REDIS_"`

	PrintDOT        bool          `env:"FSM_PRINT_DOT" envDefault:"false"`
	ShutdownTimeout time.Duration `env:"FSM_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Load reads the given .env files (default ".env") and parses the
// environment. Missing files are skipped; a file that cannot be read or
// parsed is an error. Variables already set in the process take precedence
// over file values, and earlier files over later ones.
func Load(files ...string) (Settings, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Settings{}, errors.Join(ErrParsingSettings, fmt.Errorf("load %s: %w", file, err))
		}
	}

	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, errors.Join(ErrParsingSettings, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks enumerated and range-bound values.
func (s Settings) Validate() error {
	var errs []error
	switch s.EventSource {
	case SourceStdin, SourceRedis, SourceTimer:
	default:
		errs = append(errs, fmt.Errorf("FSM_EVENT_SOURCE %q: must be %s, %s or %s", s.EventSource, SourceStdin, SourceRedis, SourceTimer))
	}
	if _, err := logger.ParseLevel(s.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("FSM_LOG_LEVEL: %w", err))
	}
	switch logger.Format(s.LogFormat) {
	case logger.FormatJSON, logger.FormatText:
	default:
		errs = append(errs, fmt.Errorf("FSM_LOG_FORMAT %q: must be %s or %s", s.LogFormat, logger.FormatJSON, logger.FormatText))
	}
	if s.EventSource == SourceTimer {
		if s.TimerInterval <= 0 {
			errs = append(errs, fmt.Errorf("FSM_TIMER_INTERVAL must be positive, got %s", s.TimerInterval))
		}
		if s.TimerEvent == "" {
			errs = append(errs, errors.New("FSM_TIMER_EVENT is required for the timer source"))
		}
	}
	if s.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("FSM_SHUTDOWN_TIMEOUT must be positive, got %s", s.ShutdownTimeout))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidSettings}, errs...)...)
	}
	return nil
}

// LoggerOptions translates the logging settings into logger factory options.
// Validate must have passed.
func (s Settings) LoggerOptions(service string) []logger.Option {
	level, _ := logger.ParseLevel(s.LogLevel)
	return []logger.Option{
		logger.WithEnvironment(s.Env, service),
		logger.WithLevel(level),
		logger.WithFormat(logger.Format(s.LogFormat)),
	}
}
