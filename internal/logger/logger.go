package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls the global logger. Zero values mean info level JSON on stdout.
type Options struct {
	Level  string
	Pretty bool
	Output io.Writer
}

var (
	mu     sync.RWMutex
	base   zerolog.Logger
	inited bool
)

// Init (re)configures the global logger.
func Init(opts Options) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	l := zerolog.New(out).With().Timestamp().Logger().Level(parseLevel(opts.Level))

	mu.Lock()
	base = l
	inited = true
	mu.Unlock()
}

// FromEnv reads LOG_LEVEL and LOG_PRETTY. It is used before configuration
// has been loaded.
func FromEnv() Options {
	return Options{
		Level:  getenv("LOG_LEVEL", "info"),
		Pretty: strings.EqualFold(getenv("LOG_PRETTY", "false"), "true"),
	}
}

// L returns the global logger, initializing it from the environment on first use.
func L() *zerolog.Logger {
	mu.RLock()
	ok := inited
	mu.RUnlock()
	if !ok {
		Init(FromEnv())
	}
	mu.RLock()
	defer mu.RUnlock()
	l := base
	return &l
}

// With returns a child logger tagged with component.
func With(component string) zerolog.Logger {
	return L().With().Str("component", component).Logger()
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "err":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// reset is used by tests to force the lazy path in L.
func reset() {
	mu.Lock()
	base = zerolog.Logger{}
	inited = false
	mu.Unlock()
}
