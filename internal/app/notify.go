package app

import "log/slog"

// Notifier shows messages to the user. The terminal UI and the headless
// runner provide implementations.
type Notifier interface {
	// Progress shows a message until the returned function is called.
	Progress(msg string) (done func())
	Info(msg string)
	Error(msg string)
	// Preview shows cleaned text without applying it.
	Preview(title, text string)
}

// LogNotifier reports notifications through a logger.
type LogNotifier struct {
	Logger *slog.Logger
}

// Progress implements Notifier.
func (n LogNotifier) Progress(msg string) func() {
	n.Logger.Info(msg)
	return func() {}
}

// Info implements Notifier.
func (n LogNotifier) Info(msg string) {
	n.Logger.Info(msg)
}

// Error implements Notifier.
func (n LogNotifier) Error(msg string) {
	n.Logger.Error(msg)
}

// Preview implements Notifier.
func (n LogNotifier) Preview(title, text string) {
	n.Logger.Info(title, "text", text)
}
