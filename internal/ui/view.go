package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/tidytype/internal/document"
)

// Styles used by the view.
var (
	styleMain      = tcell.StyleDefault
	styleSelection = tcell.StyleDefault.Reverse(true)
	styleStatus    = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
	styleError     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorMaroon)
	styleProgress  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorOlive)
	stylePreview   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
)

// view holds what is drawn besides the document itself.
type view struct {
	scroll int

	progress  string
	message   string
	messageIs messageKind

	previewTitle string
	previewText  string

	// playCursor follows the player while a session is typing.
	playCursor *document.Point
}

type messageKind int

const (
	messageInfo messageKind = iota
	messageError
)

func (v *view) previewOpen() bool {
	return v.previewTitle != ""
}

// render draws doc and the view state onto s.
func (v *view) render(s tcell.Screen, doc *document.Buffer) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	s.SetStyle(styleMain)
	s.Clear()

	statusY := h - 1
	textHeight := h - 1
	previewY := -1
	if v.previewOpen() && textHeight > 2 {
		previewY = textHeight / 2
		textHeight = previewY
	}

	if doc == nil {
		drawString(s, 0, 0, w, "No document", plain(styleMain))
		v.renderStatus(s, w, statusY, "", document.Point{})
		s.HideCursor()
		return
	}

	lines := strings.Split(doc.Text(), "\n")
	raw := doc.Selection()
	sel := raw.Normalize()
	cursor := raw.End
	if v.playCursor != nil {
		cursor = *v.playCursor
	}
	v.ensureVisible(cursor.Line, textHeight)

	for y := 0; y < textHeight; y++ {
		idx := v.scroll + y
		if idx >= len(lines) {
			break
		}
		x := drawString(s, 0, y, w, lines[idx], func(offset int) tcell.Style {
			if v.playCursor == nil && sel.Contains(document.Point{Line: idx, Column: offset}) {
				return styleSelection
			}
			return styleMain
		})
		fill(s, x, y, w, styleMain)
	}

	if previewY >= 0 {
		v.renderPreview(s, w, previewY, statusY)
	}
	v.renderStatus(s, w, statusY, doc.Name(), cursor)

	cy := cursor.Line - v.scroll
	if cy < 0 || cy >= textHeight || cursor.Line >= len(lines) {
		s.HideCursor()
		return
	}
	cx := visualCol(lines[cursor.Line], cursor.Column)
	if cx >= w {
		cx = w - 1
	}
	s.ShowCursor(cx, cy)
}

func (v *view) ensureVisible(line, height int) {
	if height <= 0 {
		return
	}
	if line < v.scroll {
		v.scroll = line
	}
	if line >= v.scroll+height {
		v.scroll = line - height + 1
	}
}

func (v *view) renderPreview(s tcell.Screen, w, top, bottom int) {
	title := fmt.Sprintf(" %s (Esc to close) ", v.previewTitle)
	x := drawString(s, 0, top, w, title, plain(styleStatus))
	fill(s, x, top, w, styleStatus)

	lines := strings.Split(v.previewText, "\n")
	for i, y := 0, top+1; y < bottom && i < len(lines); i, y = i+1, y+1 {
		x := drawString(s, 0, y, w, lines[i], plain(stylePreview))
		fill(s, x, y, w, styleMain)
	}
}

func (v *view) renderStatus(s tcell.Screen, w, y int, name string, cursor document.Point) {
	style := styleStatus
	text := v.message
	switch {
	case v.progress != "":
		style = styleProgress
		text = v.progress
	case v.messageIs == messageError && v.message != "":
		style = styleError
	}

	left := " " + name
	if text != "" {
		left += "  " + text
	}
	right := fmt.Sprintf("Ln %d, Col %d ", cursor.Line+1, cursor.Column+1)

	x := drawString(s, 0, y, w, left, plain(style))
	fill(s, x, y, w, style)
	if rx := w - len(right); rx > x {
		drawString(s, rx, y, w, right, plain(style))
	}
}

func plain(st tcell.Style) func(int) tcell.Style {
	return func(int) tcell.Style { return st }
}
