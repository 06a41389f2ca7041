// Package ui is the terminal host for tidytype.
//
// It shows one document, lets the user select a span with the keyboard and
// routes keys to the clean, preview, finish and cancel commands. Playback
// runs on a worker goroutine; every mutation posts an interrupt event so the
// event loop redraws while characters are typed.
//
// Key bindings:
//
//	arrows, Home, End, PgUp, PgDn   move the caret
//	Shift+arrows                    extend the selection
//	Ctrl-A                          select all
//	c                               clean the selection
//	p                               preview the cleaned selection
//	Enter, Tab                      finish the animation
//	Esc                             cancel the animation or close the preview
//	Ctrl-Z, Ctrl-Y                  undo, redo
//	Ctrl-S                          save
//	q, Ctrl-C                       quit
package ui
