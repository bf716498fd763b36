package layout

import (
	"sort"

	"github.com/mattn/go-runewidth"

	"github.com/JoshuaCF/kronark-node-viewer/graph"
)

const (
	// Interior width limits for instance boxes: label text plus one space
	// of padding against each border.
	minInterior = 8
	maxInterior = 26

	inputLabel  = "INPUT"
	outputLabel = "OUTPUT"
)

// Box is the placed rectangle of one instance. SocketRows holds the
// absolute row of each socket, parallel to the instance's socket list.
// Socket rows are spaced two apart so every socket row in a column shares
// the column's parity; see Build.
type Box struct {
	ID            graph.InstanceID
	X, Y          int
	Width, Height int
	SocketRows    []int
}

// Right returns the x of the box's right border column.
func (b Box) Right() int { return b.X + b.Width - 1 }

// Bottom returns the y of the box's bottom border row.
func (b Box) Bottom() int { return b.Y + b.Height - 1 }

// Column groups the instances sharing one depth, ordered top to bottom.
// Boxes is parallel to Instances.
type Column struct {
	Depth     int
	X, Width  int
	Instances []graph.InstanceID
	Boxes     []Box
	Rows      int
}

func (c Column) Right() int { return c.X + c.Width - 1 }

// Gap is the routing region between two columns, reserved for bend lanes.
// Left and Right are the depths on either side; the input gap uses
// Left = maxDepth+1 and the output gap Right = -1. Bend lanes belong to
// connections making their final turn toward column Right; skip lanes to
// connections diving below the columns from column Left.
type Gap struct {
	Left, Right int
	X, Width    int
	BendLanes   int
	SkipLanes   int
}

// BendLaneX returns the world x of bend lane i.
func (g Gap) BendLaneX(i int) int { return g.X + 1 + i }

// SkipLaneX returns the world x of skip lane i. Skip lanes sit to the
// right of the bend-lane block; at least one bend lane's width is always
// reserved even when nothing terminates here.
func (g Gap) SkipLaneX(i int) int {
	bend := g.BendLanes
	if bend < 1 {
		bend = 1
	}
	return g.X + 1 + bend + i
}

// Marker is a root boundary box. PortRows holds one row per root endpoint,
// in the order the endpoints appear in the graph's root lists.
type Marker struct {
	X, Y          int
	Width, Height int
	PortRows      []int
}

// Right returns the x of the marker's right border column.
func (m Marker) Right() int { return m.X + m.Width - 1 }

// Layout is the complete computed geometry for a graph: columns indexed by
// depth, the gap between each pair of adjacent columns, the two boundary
// markers, and the clearance region below everything where skip routes run.
type Layout struct {
	Columns []Column
	Gaps    []Gap // Gaps[c] lies between column c+1 and column c
	InGap   Gap   // between the input marker and the deepest column
	OutGap  Gap   // between column 0 and the output marker
	Input   Marker
	Output  Marker

	Width        int
	Rows         int // rows used by columns and markers
	ClearanceRow int // first row of the skip-route region
	SkipRows     int // clearance rows reserved, one per skip route
}

// MaxDepth returns the highest column depth, or -1 for an empty layout.
func (l *Layout) MaxDepth() int { return len(l.Columns) - 1 }

// GapLeftOf returns the gap on the left side of column depth, which is
// where connections terminating at that column make their final bend.
func (l *Layout) GapLeftOf(depth int) *Gap {
	if depth == l.MaxDepth() {
		return &l.InGap
	}
	return &l.Gaps[depth]
}

// GapRightOf returns the gap on the right side of column depth, which is
// where connections leaving that column enter their first lane.
func (l *Layout) GapRightOf(depth int) *Gap {
	if depth == 0 {
		return &l.OutGap
	}
	return &l.Gaps[depth-1]
}

// Build turns a depth assignment into placed geometry.
//
// Within a column, instances are ordered by their stored y hint (stable, so
// equal hints keep id order) and stacked with exactly one row of padding.
// Box heights are odd and the first box of column c starts on row (c+1)%2,
// which pins every socket row in the column to parity c%2. Output rows of
// column d and input rows of column d-1 consequently never share a row,
// which is what keeps unrelated horizontal runs in a gap from merging.
//
// Gap widths follow the bend-lane reservation rule: one lane per
// connection terminating at the column on the gap's right (minimum one),
// one lane per connection diving below from the column on its left, and a
// margin lane on each side.
func Build(g *graph.Graph, d Depths) *Layout {
	l := &Layout{}

	if len(g.Instances) > 0 {
		l.Columns = make([]Column, d.Max+1)
		for c := range l.Columns {
			l.Columns[c].Depth = c
		}
		for _, id := range g.SortedIDs() {
			c := d.ByInstance[id]
			l.Columns[c].Instances = append(l.Columns[c].Instances, id)
		}
		for c := range l.Columns {
			col := &l.Columns[c]
			sort.SliceStable(col.Instances, func(i, j int) bool {
				return g.Instances[col.Instances[i]].YHint < g.Instances[col.Instances[j]].YHint
			})
		}
	}

	bends, skips := countLanes(g, d)

	l.Gaps = make([]Gap, maxInt(0, len(l.Columns)-1))
	for c := range l.Gaps {
		l.Gaps[c] = Gap{Left: c + 1, Right: c, BendLanes: bends[c], SkipLanes: skips[c]}
	}
	l.InGap = Gap{Left: len(l.Columns), Right: len(l.Columns) - 1}
	for _, ep := range g.Roots.Inputs {
		if ep.Instance == graph.NoConnection {
			continue
		}
		if d.ByInstance[ep.Instance] == d.Max {
			l.InGap.BendLanes++
		} else {
			l.InGap.SkipLanes++
		}
	}
	l.OutGap = Gap{Left: 0, Right: -1}
	for _, ep := range g.Roots.Outputs {
		if ep.Instance != graph.NoConnection {
			l.OutGap.BendLanes++
		}
	}

	// Place everything left to right: input marker, deepest column, the
	// gaps and columns down to depth 0, then the output marker.
	x := 0
	maxDepth := l.MaxDepth()

	l.Input = placeMarker(inputLabel, len(g.Roots.Inputs), x, (maxDepth+2)%2)
	x = l.Input.X + l.Input.Width

	l.InGap.X = x
	x += gapWidth(l.InGap)

	for c := maxDepth; c >= 0; c-- {
		col := &l.Columns[c]
		col.X = x
		placeColumn(g, col)
		x += col.Width
		if c > 0 {
			gap := &l.Gaps[c-1]
			gap.X = x
			x += gapWidth(*gap)
		}
	}

	l.OutGap.X = x
	x += gapWidth(l.OutGap)

	l.Output = placeMarker(outputLabel, len(g.Roots.Outputs), x, 0)
	x = l.Output.X + l.Output.Width
	l.Width = x

	l.Rows = maxInt(l.Input.Y+l.Input.Height, l.Output.Y+l.Output.Height)
	for c := range l.Columns {
		l.Rows = maxInt(l.Rows, l.Columns[c].Rows)
	}
	l.ClearanceRow = l.Rows + 1

	l.SkipRows = l.InGap.SkipLanes
	for c := range l.Gaps {
		l.SkipRows += l.Gaps[c].SkipLanes
	}

	return l
}

// countLanes tallies, per gap index c (between columns c+1 and c), the
// connections bending there (terminating at column c, from any deeper
// source including the input boundary) and the connections diving below
// there (leaving column c+1 for a target shallower than c).
func countLanes(g *graph.Graph, d Depths) (bends, skips map[int]int) {
	bends = make(map[int]int)
	skips = make(map[int]int)

	for _, id := range g.SortedIDs() {
		inst := g.Instances[id]
		e := d.ByInstance[id]
		for _, sock := range inst.Sockets {
			if !sock.Connected() {
				continue
			}
			src := d.ByInstance[sock.Conn.Instance]
			if e < d.Max {
				bends[e]++
			}
			if src > e+1 {
				skips[src-1]++
			}
		}
	}
	// Input-boundary connections make their final bend in the gap left of
	// their target column too (unless that is the deepest column, whose
	// left gap is the input gap handled by the caller).
	for _, ep := range g.Roots.Inputs {
		if ep.Instance == graph.NoConnection {
			continue
		}
		if e := d.ByInstance[ep.Instance]; e < d.Max {
			bends[e]++
		}
	}
	// Output-boundary connections from instances deeper than column 0
	// leave their column without terminating at the next one.
	for _, ep := range g.Roots.Outputs {
		if ep.Instance == graph.NoConnection {
			continue
		}
		if src := d.ByInstance[ep.Instance]; src > 0 {
			skips[src-1]++
		}
	}
	return bends, skips
}

// gapWidth is the reserved width of a gap: a margin lane each side of the
// bend-lane block (minimum one lane) plus the skip lanes.
func gapWidth(g Gap) int {
	bend := g.BendLanes
	if bend < 1 {
		bend = 1
	}
	return 1 + bend + g.SkipLanes + 1
}

// placeColumn sizes and stacks the boxes of one column. All boxes in a
// column share the column width so socket edges line up.
func placeColumn(g *graph.Graph, col *Column) {
	interior := minInterior
	for _, id := range col.Instances {
		inst := g.Instances[id]
		// Titles are embedded in the top border with a space each side.
		interior = maxInt(interior, runewidth.StringWidth(g.DisplayName(inst))+2)
		for _, sock := range inst.Sockets {
			interior = maxInt(interior, runewidth.StringWidth(SocketText(sock)))
		}
	}
	if interior > maxInterior {
		interior = maxInterior
	}
	col.Width = interior + 4

	y := (col.Depth + 1) % 2
	col.Boxes = col.Boxes[:0]
	for _, id := range col.Instances {
		inst := g.Instances[id]
		h := 2*len(inst.Sockets) + 1
		if h < 3 {
			h = 3
		}
		box := Box{ID: id, X: col.X, Y: y, Width: col.Width, Height: h}
		for i := range inst.Sockets {
			box.SocketRows = append(box.SocketRows, y+1+2*i)
		}
		col.Boxes = append(col.Boxes, box)
		y = box.Bottom() + 2
	}
	if n := len(col.Boxes); n > 0 {
		col.Rows = col.Boxes[n-1].Bottom() + 1
	}
}

// placeMarker sizes a boundary marker box with one port row per endpoint.
// The top row is chosen so port rows land on the requested parity.
func placeMarker(label string, ports, x, topParity int) Marker {
	h := 2*ports + 1
	if h < 3 {
		h = 3
	}
	m := Marker{
		X:      x,
		Y:      topParity,
		Width:  runewidth.StringWidth(label) + 4,
		Height: h,
	}
	for i := 0; i < ports; i++ {
		m.PortRows = append(m.PortRows, m.Y+1+2*i)
	}
	return m
}

// SocketText is the text shown on a socket's row: the socket name, plus
// its literal value when it has one and no connection. The renderer shows
// it and Build sizes columns by it.
func SocketText(s graph.Socket) string {
	if s.Literal != "" && !s.Connected() {
		return s.Name + " = " + s.Literal
	}
	return s.Name
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
