// Package command maps externally triggered actions onto handlers.
package command

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Command names.
const (
	Clean   = "tidytype.clean"
	Preview = "tidytype.preview"
	Finish  = "tidytype.finish"
	Cancel  = "tidytype.cancel"
)

// ErrUnknownCommand indicates no handler is registered for a name.
var ErrUnknownCommand = errors.New("unknown command")

// Handler executes a command.
type Handler interface {
	Handle(ctx context.Context) error
}

// HandlerFunc is a function adapter for Handler interface.
type HandlerFunc func(ctx context.Context) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context) error {
	if f == nil {
		return errors.New("handler function is nil")
	}
	return f(ctx)
}

// Registry manages handler registration by exact command name.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register sets the handler for name, replacing any previous one.
func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

// Unregister removes the handler for name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, name)
}

// Has reports whether a handler is registered for name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[name]
	return ok
}

// Names returns the registered command names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs the handler registered for name.
func (r *Registry) Execute(ctx context.Context, name string) error {
	r.mu.RLock()
	h, ok := r.handlers[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return h.Handle(ctx)
}
