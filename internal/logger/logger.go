// Package logger provides leveled logging for couchspinner.
// Warnings and errors are always written. When verbose mode is enabled via
// the --verbose flag, debug and info messages are written too, to help users
// follow the ingestion pipeline.
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
	"golang.org/x/term"
)

const serviceName = "couchspinner"

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	log               = build(os.Stderr, false)
)

func init() {
	// Attach a stack to plain errors so .Stack() always renders one.
	zerolog.ErrorStackMarshaler = func(err error) interface{} {
		type stackTracer interface{ StackTrace() pkgerrors.StackTrace }
		if _, ok := err.(stackTracer); !ok {
			err = pkgerrors.WithStack(err)
		}
		return zpkgerrors.MarshalStack(err)
	}
}

// build returns a logger writing to w. Terminals get human-readable output,
// everything else gets JSON lines.
func build(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		w = zerolog.ConsoleWriter{Out: f, TimeFormat: time.Kitchen}
	}

	return zerolog.New(w).Level(level).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	log = build(output, verbose)
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	log = build(output, verbose)
}

// current returns the active logger.
func current() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := log
	return &l
}

// Debug logs a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	current().Debug().Msgf(format, args...)
}

// Section logs a section header if verbose mode is enabled.
func Section(name string) {
	current().Info().Str("section", name).Msgf("=== %s ===", name)
}

// Info logs an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	current().Info().Msgf(format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...any) {
	current().Warn().Msgf(format, args...)
}

// Error logs an error with its stack.
func Error(err error, format string, args ...any) {
	current().Error().Stack().Err(err).Msgf(format, args...)
}

// Event logs an error with structured fields at warning level.
// Used for recovered failures that must not look fatal.
func Event(err error, msg string, fields map[string]any) {
	current().Warn().Err(err).Fields(fields).Msg(msg)
}
