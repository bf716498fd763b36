// Package terminal owns the interactive session: the tcell screen, the
// scrolling viewport, and the event loop dispatching keys to it.
package terminal

import (
	"github.com/JoshuaCF/kronark-node-viewer/layout"
	"github.com/JoshuaCF/kronark-node-viewer/render"
)

// Viewport maps the world onto a screen rectangle. Horizontal scrolling
// moves a whole column at a time; only fully fitting columns are shown and
// connections into hidden ones are cut at the clip bound. Vertical
// scrolling moves by rows.
type Viewport struct {
	lay *layout.Layout

	width, height int
	colOffset     int // display-order index of the leftmost visible column
	rowOffset     int
}

// NewViewport creates a viewport showing the world from its top-left.
func NewViewport(lay *layout.Layout, width, height int) *Viewport {
	v := &Viewport{lay: lay}
	v.Resize(width, height)
	return v
}

// Resize adapts to a new screen size, re-clamping both offsets.
func (v *Viewport) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	v.width, v.height = width, height
	v.clamp()
}

// ScrollLeft pans one column toward the input boundary.
func (v *Viewport) ScrollLeft() { v.colOffset--; v.clamp() }

// ScrollRight pans one column toward the output boundary.
func (v *Viewport) ScrollRight() { v.colOffset++; v.clamp() }

// ScrollUp pans one row up.
func (v *Viewport) ScrollUp() { v.rowOffset--; v.clamp() }

// ScrollDown pans one row down.
func (v *Viewport) ScrollDown() { v.rowOffset++; v.clamp() }

func (v *Viewport) clamp() {
	if deepest := v.lay.MaxDepth(); v.colOffset > deepest {
		v.colOffset = deepest
	}
	if v.colOffset < 0 {
		v.colOffset = 0
	}
	worldRows := v.worldRows()
	if v.rowOffset > worldRows-v.height {
		v.rowOffset = worldRows - v.height
	}
	if v.rowOffset < 0 {
		v.rowOffset = 0
	}
}

// worldRows is the scrollable height: the layout rows plus the clearance
// region when any connection dives below the columns.
func (v *Viewport) worldRows() int {
	if v.lay.SkipRows > 0 {
		return v.lay.ClearanceRow + v.lay.SkipRows
	}
	return v.lay.Rows
}

// Origin is the world coordinate shown at the screen's top-left cell.
func (v *Viewport) Origin() (x, y int) {
	return v.viewX0(), v.rowOffset
}

func (v *Viewport) viewX0() int {
	if v.colOffset == 0 || v.lay.MaxDepth() < 0 {
		return 0
	}
	left := v.lay.MaxDepth() - v.colOffset
	return v.lay.Columns[left].X - 1
}

// View computes the visible column range by greedily fitting whole columns
// from the left edge. The first column is always included even when the
// screen is too narrow for it; everything past the last fitting column is
// clipped at one cell beyond that column's right gap margin.
func (v *Viewport) View() render.View {
	maxDepth := v.lay.MaxDepth()
	x0 := v.viewX0()

	view := render.View{
		X0:         x0,
		X1:         x0 + v.width - 1,
		LeftDepth:  maxDepth - v.colOffset,
		RightDepth: 0,
		ShowInput:  v.colOffset == 0,
	}
	if maxDepth < 0 {
		view.LeftDepth = -1
		view.ShowOutput = v.lay.Output.Right() < x0+v.width
		return view
	}

	right := view.LeftDepth
	for c := view.LeftDepth - 1; c >= 0; c-- {
		if v.lay.Columns[c].Right() >= x0+v.width {
			break
		}
		right = c
	}
	view.RightDepth = right
	view.ShowOutput = right == 0 && v.lay.Output.Right() < x0+v.width
	if !view.ShowOutput {
		view.X1 = min(view.X1, v.lay.Columns[right].Right()+2)
	}
	return view
}
