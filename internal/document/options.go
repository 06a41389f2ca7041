package document

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithReadOnly creates a read-only buffer.
// Write operations will return ErrReadOnly.
func WithReadOnly() Option {
	return func(b *Buffer) {
		b.readOnly = true
	}
}

// WithSelection sets the initial selection.
func WithSelection(r Range) Option {
	return func(b *Buffer) {
		b.selection = r
	}
}

// WithName sets the display name of the buffer, typically its file path.
func WithName(name string) Option {
	return func(b *Buffer) {
		b.name = name
	}
}
