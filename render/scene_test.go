package render

import (
	"strings"
	"testing"

	"github.com/JoshuaCF/kronark-node-viewer/canvas"
	"github.com/JoshuaCF/kronark-node-viewer/graph"
	"github.com/JoshuaCF/kronark-node-viewer/layout"
	"github.com/JoshuaCF/kronark-node-viewer/route"
)

func buildAll(t *testing.T, g *graph.Graph) (*layout.Layout, []route.Route) {
	t.Helper()
	d, err := layout.ComputeDepths(g)
	if err != nil {
		t.Fatalf("ComputeDepths: %v", err)
	}
	lay := layout.Build(g, d)
	routes, err := route.Plan(g, lay)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	return lay, routes
}

func bufferRows(b *canvas.OverdrawBuffer) []string {
	w, h := b.Size()
	rows := make([]string, h)
	for y := 0; y < h; y++ {
		var sb strings.Builder
		for x := 0; x < w; x++ {
			sb.WriteRune(b.At(x, y).Rune)
		}
		rows[y] = sb.String()
	}
	return rows
}

// One instance feeding the output boundary, drawn in full.
func TestDrawSingleInstanceFrame(t *testing.T) {
	g := &graph.Graph{
		Version: 1,
		Instances: map[graph.InstanceID]*graph.Instance{
			0: {ID: 0, Name: "add", Sockets: []graph.Socket{
				{Name: "out", Kind: graph.SocketOutput},
			}},
		},
	}
	g.Roots.Outputs = []graph.Endpoint{{Instance: 0, Socket: 0}}
	lay, routes := buildAll(t, g)

	v := View{
		X0: 0, X1: lay.Width - 1,
		LeftDepth: 0, RightDepth: 0,
		ShowInput: true, ShowOutput: true,
	}
	b := canvas.NewOverdrawBuffer(lay.Width, 5, true, canvas.GlyphMerger{})
	Draw(b, BuildScene(g, lay, routes, v), UnicodeGlyphs())

	want := []string{
		"┌───────┐                  ┌────────┐",
		"│ INPUT │   ┌─ add ────┐ ┌─┤ OUTPUT │",
		"└───────┘   │      out ├─┘ └────────┘",
		"            └──────────┘             ",
		"                                     ",
	}
	got := bufferRows(b)
	for y := range want {
		if strings.TrimRight(got[y], " ") != strings.TrimRight(want[y], " ") {
			t.Errorf("row %d:\n got %q\nwant %q", y, got[y], want[y])
		}
	}
}

func TestDrawConnectionElbows(t *testing.T) {
	b := canvas.NewOverdrawBuffer(6, 3, true, canvas.GlyphMerger{})
	seg := ConnectionSegment{Points: []route.Point{
		{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 2}, {X: 5, Y: 2},
	}}
	Draw(b, []Drawable{seg}, UnicodeGlyphs())

	want := []string{
		"───┐",
		"   │",
		"   └──",
	}
	got := bufferRows(b)
	for y := range want {
		if strings.TrimRight(got[y], " ") != want[y] {
			t.Errorf("row %d = %q, want %q", y, got[y], want[y])
		}
	}
}

// A view restricted to the middle column of a three-column chain must cut
// both connections at the clip bounds and mark the cuts with arrowheads
// pointing at the hidden remainders.
func TestSceneClipsWithOffscreenMarkers(t *testing.T) {
	g := &graph.Graph{
		Version: 1,
		Instances: map[graph.InstanceID]*graph.Instance{
			0: {ID: 0, Sockets: []graph.Socket{
				{Name: "out", Kind: graph.SocketOutput},
				{Name: "in", Kind: graph.SocketInput, Conn: &graph.Target{Instance: 1}},
			}},
			1: {ID: 1, Sockets: []graph.Socket{
				{Name: "out", Kind: graph.SocketOutput},
				{Name: "in", Kind: graph.SocketInput, Conn: &graph.Target{Instance: 2}},
			}},
			2: {ID: 2, Sockets: []graph.Socket{
				{Name: "out", Kind: graph.SocketOutput},
			}},
		},
	}
	g.Roots.Outputs = []graph.Endpoint{{Instance: 0, Socket: 0}}
	lay, routes := buildAll(t, g)

	mid := &lay.Columns[1]
	v := View{
		X0:        mid.X - 1,
		X1:        mid.X + mid.Width + 1,
		LeftDepth: 1, RightDepth: 1,
	}
	scene := BuildScene(g, lay, routes, v)

	var left, right int
	for _, d := range scene {
		m, ok := d.(OffscreenMarker)
		if !ok {
			continue
		}
		if m.Right {
			right++
			if m.X != v.X1 {
				t.Errorf("right marker at x %d, want %d", m.X, v.X1)
			}
		} else {
			left++
			if m.X != v.X0 {
				t.Errorf("left marker at x %d, want %d", m.X, v.X0)
			}
		}
	}
	if left != 1 || right != 1 {
		t.Errorf("got %d left, %d right markers, want 1 each", left, right)
	}

	// Only the middle column's box may appear.
	for _, d := range scene {
		if box, ok := d.(InstanceBox); ok && box.X != mid.X {
			t.Errorf("box at x %d leaked into view starting at %d", box.X, mid.X)
		}
	}

	// Nothing drawn outside the clip range.
	b := canvas.NewOverdrawBuffer(lay.Width, lay.Rows, true, canvas.GlyphMerger{})
	Draw(b, scene, UnicodeGlyphs())
	for y := 0; y < lay.Rows; y++ {
		for x := 0; x < lay.Width; x++ {
			if x >= v.X0 && x <= v.X1 {
				continue
			}
			if c := b.At(x, y); c.Rune != ' ' {
				t.Fatalf("cell (%d,%d) = %q drawn outside clip range", x, y, c.Rune)
			}
		}
	}
}

func TestASCIIGlyphsDrawWithoutUnicode(t *testing.T) {
	b := canvas.NewOverdrawBuffer(6, 3, true, canvas.GlyphMerger{ASCII: true})
	seg := ConnectionSegment{Points: []route.Point{
		{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 2}, {X: 5, Y: 2},
	}}
	Draw(b, []Drawable{seg}, ASCIIGlyphs())
	for _, row := range bufferRows(b) {
		for _, r := range row {
			if r > 127 {
				t.Fatalf("non-ASCII rune %q in ASCII mode", r)
			}
		}
	}
}
