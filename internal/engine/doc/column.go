package doc

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// VisualColumn returns the on-screen column of grapheme column col on
// line, accounting for wide characters and tab stops.
func (d *Document) VisualColumn(line, col int) int {
	text := d.LineText(line)
	visual := 0
	state := -1
	for i := 0; i < col && len(text) > 0; i++ {
		cluster, rest, _, s := uniseg.FirstGraphemeClusterInString(text, state)
		visual += d.clusterWidth(cluster, visual)
		text, state = rest, s
	}
	return visual
}

// ColumnFromVisual returns the grapheme column whose cell range covers
// the given visual column, clamping to the line's cluster count.
func (d *Document) ColumnFromVisual(line, visual int) int {
	text := d.LineText(line)
	col := 0
	width := 0
	state := -1
	for len(text) > 0 && width < visual {
		cluster, rest, _, s := uniseg.FirstGraphemeClusterInString(text, state)
		width += d.clusterWidth(cluster, width)
		if width > visual {
			break
		}
		col++
		text, state = rest, s
	}
	return col
}

func (d *Document) clusterWidth(cluster string, at int) int {
	if cluster == "\t" {
		return d.tabWidth - at%d.tabWidth
	}
	return runewidth.StringWidth(cluster)
}
