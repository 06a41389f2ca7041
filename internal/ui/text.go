package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// TabWidth is the number of columns between tab stops.
const TabWidth = 4

// visualCol returns the screen column of byte offset col in line.
func visualCol(line string, col int) int {
	x := 0
	state := -1
	rest := line
	consumed := 0
	for len(rest) > 0 && consumed < col {
		var cluster string
		var width int
		cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)
		consumed += len(cluster)
		x += clusterWidth(cluster, width, x)
	}
	return x
}

// clusterWidth returns the columns a cluster occupies when drawn at x.
func clusterWidth(cluster string, width, x int) int {
	if cluster == "\t" {
		return TabWidth - x%TabWidth
	}
	if width < 1 {
		return 1
	}
	return width
}

// drawString draws str at (x, y), clipped at maxX, and returns the column
// after the last drawn cell. style is chosen per byte offset so a selection
// can start or end inside a line.
func drawString(s tcell.Screen, x, y, maxX int, str string, style func(offset int) tcell.Style) int {
	start := x
	state := -1
	rest := str
	offset := 0
	for len(rest) > 0 && x < maxX {
		var cluster string
		var width int
		cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)
		st := style(offset)
		w := clusterWidth(cluster, width, x-start)
		if cluster == "\t" {
			for i := 0; i < w && x+i < maxX; i++ {
				s.SetContent(x+i, y, ' ', nil, st)
			}
		} else {
			runes := []rune(cluster)
			s.SetContent(x, y, runes[0], runes[1:], st)
		}
		x += w
		offset += len(cluster)
	}
	return x
}

// fill paints the cells from x to maxX on row y.
func fill(s tcell.Screen, x, y, maxX int, style tcell.Style) {
	for ; x < maxX; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

// nextCluster returns the byte length of the grapheme cluster at col.
func nextCluster(line string, col int) int {
	if col >= len(line) {
		return 0
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(line[col:], -1)
	return len(cluster)
}

// prevCluster returns the byte length of the grapheme cluster ending at col.
func prevCluster(line string, col int) int {
	if col <= 0 {
		return 0
	}
	last := 0
	state := -1
	rest := line[:col]
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		last = len(cluster)
	}
	return last
}

// byteCol returns the byte offset in line of the cluster drawn at or before
// screen column x.
func byteCol(line string, x int) int {
	col := 0
	vx := 0
	state := -1
	rest := line
	for len(rest) > 0 {
		var cluster string
		var width int
		cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)
		w := clusterWidth(cluster, width, vx)
		if vx+w > x {
			break
		}
		vx += w
		col += len(cluster)
	}
	return col
}
