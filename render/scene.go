package render

import (
	"github.com/mattn/go-runewidth"

	"github.com/JoshuaCF/kronark-node-viewer/canvas"
	"github.com/JoshuaCF/kronark-node-viewer/graph"
	"github.com/JoshuaCF/kronark-node-viewer/layout"
	"github.com/JoshuaCF/kronark-node-viewer/route"
)

// View is the horizontally visible slice of the world: an inclusive x
// range plus the column depths inside it. Vertical scrolling is handled
// entirely by the buffer origin, so the view carries no y bounds.
// LeftDepth is the deepest visible column and RightDepth the shallowest;
// an empty layout uses LeftDepth = -1, RightDepth = 0.
type View struct {
	X0, X1     int
	LeftDepth  int
	RightDepth int
	ShowInput  bool
	ShowOutput bool
}

// BuildScene assembles the drawables for one frame: the clipped pieces of
// every route, then the visible boxes and markers over them, and the
// offscreen arrowheads on top of everything. The slice order is the draw
// order.
func BuildScene(g *graph.Graph, lay *layout.Layout, routes []route.Route, v View) []Drawable {
	inPorts := make(map[graph.Endpoint]bool)
	outPorts := make(map[graph.Endpoint]bool)
	for _, id := range g.SortedIDs() {
		inst := g.Instances[id]
		for si, sock := range inst.Sockets {
			if !sock.Connected() {
				continue
			}
			inPorts[graph.Endpoint{Instance: id, Socket: si}] = true
			outPorts[graph.Endpoint{Instance: sock.Conn.Instance, Socket: sock.Conn.Socket}] = true
		}
	}
	for _, ep := range g.Roots.Inputs {
		if ep.Instance != graph.NoConnection {
			inPorts[ep] = true
		}
	}
	for _, ep := range g.Roots.Outputs {
		if ep.Instance != graph.NoConnection {
			outPorts[ep] = true
		}
	}

	var scene []Drawable
	var marks []Drawable
	for _, r := range routes {
		segs, ms := clipRoute(r.Points, v)
		for _, s := range segs {
			scene = append(scene, s)
		}
		for _, m := range ms {
			marks = append(marks, m)
		}
	}

	for c := v.LeftDepth; c >= v.RightDepth; c-- {
		col := &lay.Columns[c]
		for i := range col.Boxes {
			box := &col.Boxes[i]
			inst := g.Instances[box.ID]
			ib := InstanceBox{
				X:      box.X,
				Y:      box.Y,
				Width:  box.Width,
				Height: box.Height,
				Title:  g.DisplayName(inst),
			}
			for si, sock := range inst.Sockets {
				ep := graph.Endpoint{Instance: box.ID, Socket: si}
				lbl := SocketLabel{Row: box.SocketRows[si], Text: layout.SocketText(sock)}
				if sock.Kind == graph.SocketOutput {
					lbl.Output = true
					lbl.Port = outPorts[ep]
				} else {
					lbl.Port = inPorts[ep]
				}
				ib.Labels = append(ib.Labels, lbl)
			}
			scene = append(scene, ib)
		}
	}

	if v.ShowInput {
		scene = append(scene, InputBoundaryMarker{
			X: lay.Input.X, Y: lay.Input.Y,
			Width: lay.Input.Width, Height: lay.Input.Height,
			Label:    "INPUT",
			PortRows: lay.Input.PortRows,
		})
	}
	if v.ShowOutput {
		scene = append(scene, OutputBoundaryMarker{
			X: lay.Output.X, Y: lay.Output.Y,
			Width: lay.Output.Width, Height: lay.Output.Height,
			Label:    "OUTPUT",
			PortRows: lay.Output.PortRows,
		})
	}

	return append(scene, marks...)
}

// clipRoute cuts a polyline against the view's x range. Horizontal
// segments truncate at the boundary and report an arrowhead there when the
// hidden remainder actually reaches the visible side; vertical segments
// are all or nothing because lanes never straddle the boundary.
func clipRoute(pts []route.Point, v View) (segs []ConnectionSegment, marks []OffscreenMarker) {
	var cur []route.Point
	flush := func() {
		if len(cur) >= 2 {
			segs = append(segs, ConnectionSegment{Points: cur})
		}
		cur = nil
	}

	for i := 0; i < len(pts)-1; i++ {
		a, b := pts[i], pts[i+1]
		if a.Y != b.Y {
			if a.X < v.X0 || a.X > v.X1 {
				flush()
				continue
			}
			if len(cur) == 0 {
				cur = append(cur, a)
			}
			cur = append(cur, b)
			continue
		}

		lo, hi := min(a.X, b.X), max(a.X, b.X)
		if lo < v.X0 && hi >= v.X0 {
			marks = append(marks, OffscreenMarker{X: v.X0, Y: a.Y})
		}
		if hi > v.X1 && lo <= v.X1 {
			marks = append(marks, OffscreenMarker{X: v.X1, Y: a.Y, Right: true})
		}
		if hi < v.X0 || lo > v.X1 {
			flush()
			continue
		}

		ca := route.Point{X: clampInt(a.X, v.X0, v.X1), Y: a.Y}
		cb := route.Point{X: clampInt(b.X, v.X0, v.X1), Y: b.Y}
		if ca != a || len(cur) == 0 {
			flush()
			cur = append(cur, ca)
		}
		cur = append(cur, cb)
		if cb != b {
			flush()
		}
	}
	flush()
	return segs, marks
}

// Draw rasterizes a scene onto the buffer in slice order.
func Draw(b *canvas.OverdrawBuffer, scene []Drawable, gl Glyphs) {
	for _, d := range scene {
		switch d := d.(type) {
		case ConnectionSegment:
			drawConnection(b, d, gl)
		case InstanceBox:
			drawInstanceBox(b, d, gl)
		case InputBoundaryMarker:
			drawMarkerBox(b, d.X, d.Y, d.Width, d.Height, d.Label, d.PortRows, true, gl)
		case OutputBoundaryMarker:
			drawMarkerBox(b, d.X, d.Y, d.Width, d.Height, d.Label, d.PortRows, false, gl)
		case OffscreenMarker:
			r := gl.ContinueLeft
			if d.Right {
				r = gl.ContinueRight
			}
			b.Put(d.X, d.Y, r, canvas.KindMarker)
		}
	}
}

// drawConnection draws the segments of one polyline piece, keeping elbow
// cells clear of the straight runs so the elbow glyph is not merged into a
// junction with its own line.
func drawConnection(b *canvas.OverdrawBuffer, seg ConnectionSegment, gl Glyphs) {
	pts := seg.Points
	n := len(pts)
	for i := 0; i < n-1; i++ {
		p, q := pts[i], pts[i+1]
		dx, dy := sign(q.X-p.X), sign(q.Y-p.Y)
		if dx == 0 && dy == 0 {
			// Clipping can collapse a segment to a single cell; the
			// boundary arrowhead covers it.
			continue
		}
		x0, y0, x1, y1 := p.X, p.Y, q.X, q.Y
		if i > 0 {
			x0, y0 = x0+dx, y0+dy
		}
		if i+1 < n-1 {
			x1, y1 = x1-dx, y1-dy
		}
		if dy == 0 && (x1-x0)*dx >= 0 {
			b.HLine(x0, x1, y0, gl.Horizontal, canvas.KindConnection)
		}
		if dx == 0 && (y1-y0)*dy >= 0 {
			b.VLine(x0, y0, y1, gl.Vertical, canvas.KindConnection)
		}
	}
	for i := 1; i < n-1; i++ {
		b.Put(pts[i].X, pts[i].Y, elbow(pts[i-1], pts[i], pts[i+1], gl), canvas.KindConnection)
	}
}

// elbow picks the corner glyph for a bend from the sides its two arms
// leave on.
func elbow(p, q, r route.Point, gl Glyphs) rune {
	west := p.X < q.X || r.X < q.X
	south := p.Y > q.Y || r.Y > q.Y
	switch {
	case west && south:
		return gl.ElbowWS
	case west:
		return gl.ElbowWN
	case south:
		return gl.ElbowES
	default:
		return gl.ElbowEN
	}
}

func drawInstanceBox(b *canvas.OverdrawBuffer, box InstanceBox, gl Glyphs) {
	drawFrame(b, box.X, box.Y, box.Width, box.Height, gl)

	title := runewidth.Truncate(box.Title, max(0, box.Width-6), gl.Ellipsis)
	b.Text(box.X+2, box.Y, " "+title+" ", canvas.KindText)

	for _, lbl := range box.Labels {
		text := runewidth.Truncate(lbl.Text, max(0, box.Width-4), gl.Ellipsis)
		if lbl.Output {
			b.Text(box.X+box.Width-2-runewidth.StringWidth(text), lbl.Row, text, canvas.KindText)
			if lbl.Port {
				b.Put(box.X+box.Width-1, lbl.Row, gl.PortRight, canvas.KindBox)
			}
		} else {
			b.Text(box.X+2, lbl.Row, text, canvas.KindText)
			if lbl.Port {
				b.Put(box.X, lbl.Row, gl.PortLeft, canvas.KindBox)
			}
		}
	}
}

// drawMarkerBox draws a boundary marker. portsRight places the port
// glyphs on the right border (the input marker feeds rightward), otherwise
// on the left.
func drawMarkerBox(b *canvas.OverdrawBuffer, x, y, w, h int, label string, ports []int, portsRight bool, gl Glyphs) {
	drawFrame(b, x, y, w, h, gl)
	b.Text(x+2, y+h/2, label, canvas.KindText)
	px, pg := x, gl.PortLeft
	if portsRight {
		px, pg = x+w-1, gl.PortRight
	}
	for _, row := range ports {
		b.Put(px, row, pg, canvas.KindMarker)
	}
}

func drawFrame(b *canvas.OverdrawBuffer, x, y, w, h int, gl Glyphs) {
	b.HLine(x+1, x+w-2, y, gl.Horizontal, canvas.KindBox)
	b.HLine(x+1, x+w-2, y+h-1, gl.Horizontal, canvas.KindBox)
	b.VLine(x, y+1, y+h-2, gl.Vertical, canvas.KindBox)
	b.VLine(x+w-1, y+1, y+h-2, gl.Vertical, canvas.KindBox)
	b.Put(x, y, gl.TopLeft, canvas.KindBox)
	b.Put(x+w-1, y, gl.TopRight, canvas.KindBox)
	b.Put(x, y+h-1, gl.BottomLeft, canvas.KindBox)
	b.Put(x+w-1, y+h-1, gl.BottomRight, canvas.KindBox)
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
