package document

// DefaultHistoryLimit is the number of undo entries kept when WithHistory
// is given a non-positive limit.
const DefaultHistoryLimit = 100

// edit is one recorded Replace: after replaced before at at.
type edit struct {
	at     Point
	before string
	after  string
}

// entry is one undo unit: a single edit or a group of edits.
type entry struct {
	name      string
	edits     []edit
	selection Range // selection before the first edit
}

// history holds undo and redo stacks. It is guarded by the owning
// Buffer's lock.
type history struct {
	undo  []*entry
	redo  []*entry
	limit int

	group     *entry
	groupBase string // text when the group began
}

func newHistory(limit int) *history {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &history{limit: limit}
}

func (h *history) record(e edit, selection Range) {
	if h.group != nil {
		h.group.edits = append(h.group.edits, e)
		return
	}
	h.push(&entry{edits: []edit{e}, selection: selection})
	h.redo = nil
}

func (h *history) push(en *entry) {
	h.undo = append(h.undo, en)
	if excess := len(h.undo) - h.limit; excess > 0 {
		h.undo = h.undo[excess:]
	}
}

// WithHistory enables undo and redo, keeping at most limit entries.
func WithHistory(limit int) Option {
	return func(b *Buffer) {
		b.history = newHistory(limit)
	}
}

// BeginGroup starts collecting edits into one undo unit named name.
// Nested calls are ignored. Without history it does nothing.
func (b *Buffer) BeginGroup(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	h := b.history
	if h == nil || h.group != nil {
		return
	}
	h.group = &entry{name: name, selection: b.selection}
	h.groupBase = b.text
}

// EndGroup closes the current group. A group whose edits leave the text
// as it was when the group began is discarded.
func (b *Buffer) EndGroup() {
	b.mu.Lock()
	defer b.mu.Unlock()
	h := b.history
	if h == nil || h.group == nil {
		return
	}
	g := h.group
	h.group = nil
	if len(g.edits) == 0 || b.text == h.groupBase {
		h.groupBase = ""
		return
	}
	h.groupBase = ""
	h.push(g)
	h.redo = nil
}

// CanUndo reports whether Undo has an entry to revert.
func (b *Buffer) CanUndo() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.history != nil && len(b.history.undo) > 0
}

// CanRedo reports whether Redo has an entry to reapply.
func (b *Buffer) CanRedo() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.history != nil && len(b.history.redo) > 0
}

// Undo reverts the last entry and restores the selection it began with.
// It returns the entry's group name, which is empty for single edits.
func (b *Buffer) Undo() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.writable(); err != nil {
		return "", err
	}
	h := b.history
	if h == nil || len(h.undo) == 0 {
		return "", ErrNothingToUndo
	}
	if h.group != nil {
		return "", ErrGroupOpen
	}

	en := h.undo[len(h.undo)-1]
	for i := len(en.edits) - 1; i >= 0; i-- {
		e := en.edits[i]
		if _, err := b.replaceLocked(Range{Start: e.at, End: e.at.Advance(e.after)}, e.before); err != nil {
			return "", err
		}
	}
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, en)
	b.selection = en.selection
	return en.name, nil
}

// Redo reapplies the last undone entry and leaves a caret after its last edit.
func (b *Buffer) Redo() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.writable(); err != nil {
		return "", err
	}
	h := b.history
	if h == nil || len(h.redo) == 0 {
		return "", ErrNothingToRedo
	}
	if h.group != nil {
		return "", ErrGroupOpen
	}

	en := h.redo[len(h.redo)-1]
	var caret Point
	for _, e := range en.edits {
		if _, err := b.replaceLocked(Range{Start: e.at, End: e.at.Advance(e.before)}, e.after); err != nil {
			return "", err
		}
		caret = e.at.Advance(e.after)
	}
	h.redo = h.redo[:len(h.redo)-1]
	h.push(en)
	b.selection = Caret(caret)
	return en.name, nil
}
