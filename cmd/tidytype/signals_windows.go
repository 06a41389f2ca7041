//go:build windows

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func notifyFinish(chan<- os.Signal) {}

func isFinishSignal(os.Signal) bool {
	return false
}

func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGTERM)
}
