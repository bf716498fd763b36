// Package canvas provides the cell buffer the renderer draws into. Draw
// calls use world coordinates; the buffer translates them through its
// origin and silently clips anything outside its rectangle, which is the
// whole of the scrolling model. Overlapping connection glyphs merge into
// junction characters; everything else overdraws.
package canvas

import "github.com/mattn/go-runewidth"

// CellKind tags what a cell belongs to, so the terminal layer can style
// boxes, text, connections and markers independently.
type CellKind uint8

const (
	KindBlank CellKind = iota
	KindBox
	KindText
	KindConnection
	KindMarker
)

// Cell is one buffered screen cell.
type Cell struct {
	Rune rune
	Kind CellKind
}

// OverdrawBuffer is a fixed-size cell grid with a movable world origin.
// Later draws replace earlier ones, except that a connection drawn over a
// connection merges through the glyph merger when merging is enabled.
type OverdrawBuffer struct {
	width, height    int
	originX, originY int
	merge            bool
	merger           GlyphMerger
	cells            []Cell
}

// NewOverdrawBuffer allocates a cleared buffer of the given screen size.
func NewOverdrawBuffer(width, height int, merge bool, merger GlyphMerger) *OverdrawBuffer {
	b := &OverdrawBuffer{merge: merge, merger: merger}
	b.Resize(width, height)
	return b
}

// Resize reallocates the grid for a new screen size and clears it.
func (b *OverdrawBuffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b.width, b.height = width, height
	b.cells = make([]Cell, width*height)
	b.Clear()
}

// Size returns the buffer's screen dimensions.
func (b *OverdrawBuffer) Size() (width, height int) { return b.width, b.height }

// SetOrigin sets the world coordinate that lands on screen cell (0, 0).
func (b *OverdrawBuffer) SetOrigin(x, y int) { b.originX, b.originY = x, y }

// Clear resets every cell to a blank space.
func (b *OverdrawBuffer) Clear() {
	for i := range b.cells {
		b.cells[i] = Cell{Rune: ' ', Kind: KindBlank}
	}
}

// At returns the cell at screen coordinates, or a blank for out-of-range.
func (b *OverdrawBuffer) At(sx, sy int) Cell {
	if sx < 0 || sx >= b.width || sy < 0 || sy >= b.height {
		return Cell{Rune: ' ', Kind: KindBlank}
	}
	return b.cells[sy*b.width+sx]
}

// Put draws one rune at world coordinates. Off-buffer draws are dropped.
func (b *OverdrawBuffer) Put(x, y int, r rune, kind CellKind) {
	sx, sy := x-b.originX, y-b.originY
	if sx < 0 || sx >= b.width || sy < 0 || sy >= b.height {
		return
	}
	i := sy*b.width + sx
	cur := &b.cells[i]
	if b.merge && kind == KindConnection && cur.Kind == KindConnection {
		cur.Rune = b.merger.Merge(cur.Rune, r)
		return
	}
	cur.Rune = r
	cur.Kind = kind
}

// HLine draws a horizontal run between two world x positions, inclusive,
// in either order.
func (b *OverdrawBuffer) HLine(x0, x1, y int, r rune, kind CellKind) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	for x := x0; x <= x1; x++ {
		b.Put(x, y, r, kind)
	}
}

// VLine draws a vertical run between two world y positions, inclusive, in
// either order.
func (b *OverdrawBuffer) VLine(x, y0, y1 int, r rune, kind CellKind) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		b.Put(x, y, r, kind)
	}
}

// Text draws a string rightward from a world position. Wide runes advance
// two cells; the shadowed cell is left untouched for the terminal layer to
// skip.
func (b *OverdrawBuffer) Text(x, y int, s string, kind CellKind) {
	for _, r := range s {
		b.Put(x, y, r, kind)
		x += runewidth.RuneWidth(r)
	}
}
