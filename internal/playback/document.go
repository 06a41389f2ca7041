package playback

import "github.com/dshills/tidytype/internal/document"

// Document is the edit surface a Player mutates.
// Each call is one atomic edit. *document.Buffer implements it.
type Document interface {
	TextRange(r document.Range) (string, error)
	Insert(at document.Point, text string) error
	Delete(r document.Range) error
	Replace(r document.Range, text string) error
	Selection() document.Range
	SetSelection(r document.Range)
}
