//go:build windows

package main

import (
	"context"
	"os"
	"os/signal"
)

// notifyContext derives the batch context: an interrupt cancels the titles
// still in flight. Call stop() to release the signal handler.
// syscall.SIGTERM is not delivered on Windows.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}
