//go:build !windows

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func notifyFinish(c chan<- os.Signal) {
	signal.Notify(c, syscall.SIGUSR1)
}

func isFinishSignal(sig os.Signal) bool {
	return sig == syscall.SIGUSR1
}

// notifyContext ends the run on SIGTERM or SIGHUP.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGTERM, syscall.SIGHUP)
}
