package app

import (
	"context"
	"os/signal"
	"syscall"
)

// ContextWithSignals returns a context canceled on SIGINT or SIGTERM. A
// canceled run reports every unfinished section as canceled and watch mode
// returns.
func ContextWithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
