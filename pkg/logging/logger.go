// Package logging provides structured logging for flowcheck using zerolog.
// Console output is used when stderr is a terminal and JSON otherwise.
//
// Loggers travel in the context so every log line of a run carries the run
// identifier and, inside a check, the section being checked:
//
//	ctx = logging.WithRunID(ctx, rep.RunID)
//	ctx = logging.WithSection(ctx, "brands")
//	logging.FromContext(ctx).Debug().Int("values", 12).Msg("Loaded store values")
package logging

import (
	"sync"

	"github.com/rs/zerolog"
)

var (
	defaultMu     sync.RWMutex
	defaultLogger = NewLoggerFromConfig(DefaultConfig())
)

// Default returns the process-wide logger used when a context carries none.
func Default() *zerolog.Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	logger := defaultLogger
	return &logger
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger zerolog.Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

// Nop returns a logger that discards everything.
func Nop() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}
