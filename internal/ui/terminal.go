package ui

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Terminal serializes access to a tcell screen.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex
}

// NewTerminal creates a terminal on the controlling TTY.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewTerminalWithScreen wraps an existing screen, such as a simulation
// screen in tests.
func NewTerminalWithScreen(s tcell.Screen) *Terminal {
	return &Terminal{screen: s}
}

// Init initializes the screen.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnablePaste()
	return nil
}

// Shutdown restores the terminal. PollEvent returns nil afterwards.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

// Size returns the screen dimensions.
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

// Draw runs fn with exclusive access to the screen and then shows it.
func (t *Terminal) Draw(fn func(s tcell.Screen)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fn(t.screen)
	t.screen.Show()
}

// Sync repaints the whole screen, used after a resize.
func (t *Terminal) Sync() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Sync()
}

// PollEvent blocks until the next event. It does not take the lock so
// drawing can continue while it waits.
func (t *Terminal) PollEvent() tcell.Event {
	return t.screen.PollEvent()
}

// Post queues an interrupt carrying data. It never blocks; when the queue
// is full the event is dropped.
func (t *Terminal) Post(data any) {
	_ = t.screen.PostEvent(tcell.NewEventInterrupt(data)) // best-effort; a later event redraws anyway
}

// PostKey queues a synthetic key event.
func (t *Terminal) PostKey(key tcell.Key, ch rune, mod tcell.ModMask) {
	_ = t.screen.PostEvent(tcell.NewEventKey(key, ch, mod))
}

// Beep rings the bell.
func (t *Terminal) Beep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	_ = t.screen.Beep() // best-effort; terminal may not support beep
}
