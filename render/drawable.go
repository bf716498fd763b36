// Package render turns a layout and its routes into drawables clipped to
// the visible column range, and rasterizes them onto the cell buffer. The
// drawable set is closed: the rasterizer resolves variants by type switch
// and anything else is a programming error.
package render

import "github.com/JoshuaCF/kronark-node-viewer/route"

// Drawable is one visible element of the scene. Implementations live in
// this package only.
type Drawable interface {
	drawable()
}

// SocketLabel is one socket row inside an instance box. Output labels are
// right aligned against the right border; input labels sit against the
// left. Port marks the border cell where a connection attaches.
type SocketLabel struct {
	Row    int
	Text   string
	Output bool
	Port   bool
}

// InstanceBox is a placed instance: a bordered rectangle with its title
// embedded in the top border and one label per socket row.
type InstanceBox struct {
	X, Y          int
	Width, Height int
	Title         string
	Labels        []SocketLabel
}

// InputBoundaryMarker is the pseudo-instance on the far left feeding the
// graph from outside. Ports sit on its right border.
type InputBoundaryMarker struct {
	X, Y          int
	Width, Height int
	Label         string
	PortRows      []int
}

// OutputBoundaryMarker is the pseudo-instance on the far right consuming
// the graph's results. Ports sit on its left border.
type OutputBoundaryMarker struct {
	X, Y          int
	Width, Height int
	Label         string
	PortRows      []int
}

// ConnectionSegment is a contiguous visible piece of one route's polyline.
type ConnectionSegment struct {
	Points []route.Point
}

// OffscreenMarker is the arrowhead drawn where a connection crosses the
// horizontal clip boundary. Right means the hidden part continues to the
// right of the view.
type OffscreenMarker struct {
	X, Y  int
	Right bool
}

func (InstanceBox) drawable()          {}
func (InputBoundaryMarker) drawable()  {}
func (OutputBoundaryMarker) drawable() {}
func (ConnectionSegment) drawable()    {}
func (OffscreenMarker) drawable()      {}
