package terminal

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/JoshuaCF/kronark-node-viewer/canvas"
	"github.com/JoshuaCF/kronark-node-viewer/config"
	"github.com/JoshuaCF/kronark-node-viewer/graph"
	"github.com/JoshuaCF/kronark-node-viewer/layout"
	"github.com/JoshuaCF/kronark-node-viewer/render"
	"github.com/JoshuaCF/kronark-node-viewer/route"
)

// Options configures a viewing session. Screen may be preset for tests;
// when nil a real terminal screen is opened.
type Options struct {
	Config config.Config
	Logger *log.Logger
	Screen tcell.Screen
}

// EnterNodeView validates the graph, computes its geometry once, and runs
// the interactive loop until the user quits. The terminal is always
// restored, including when a draw panics.
func EnterNodeView(g *graph.Graph, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	if err := g.Validate(); err != nil {
		return fmt.Errorf("invalid graph: %w", err)
	}
	d, err := layout.ComputeDepths(g)
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	lay := layout.Build(g, d)
	routes, err := route.Plan(g, lay)
	if err != nil {
		return fmt.Errorf("routing: %w", err)
	}
	logger.Debug("graph laid out",
		"instances", len(g.Instances),
		"columns", lay.MaxDepth()+1,
		"routes", len(routes))

	screen := opts.Screen
	if screen == nil {
		screen, err = tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer func() {
		screen.Fini()
		if r := recover(); r != nil {
			panic(r)
		}
	}()

	gl := render.UnicodeGlyphs()
	if opts.Config.Render.ASCII {
		gl = render.ASCIIGlyphs()
	}
	styles := themeStyles(opts.Config.Theme)

	width, height := screen.Size()
	vp := NewViewport(lay, width, viewRows(height))
	buf := canvas.NewOverdrawBuffer(width, viewRows(height),
		opts.Config.Render.MergeIntersections,
		canvas.GlyphMerger{ASCII: opts.Config.Render.ASCII})

	for {
		view := vp.View()
		buf.Clear()
		buf.SetOrigin(vp.Origin())
		render.Draw(buf, render.BuildScene(g, lay, routes, view), gl)
		blit(screen, buf, styles)
		drawStatus(screen, lay, view, styles[canvas.KindText])
		screen.Show()

		switch ev := screen.PollEvent().(type) {
		case nil:
			// Screen torn down underneath us.
			return nil
		case *tcell.EventResize:
			w, h := ev.Size()
			vp.Resize(w, viewRows(h))
			buf.Resize(w, viewRows(h))
			screen.Sync()
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape,
				ev.Key() == tcell.KeyCtrlC,
				ev.Rune() == 'q':
				logger.Debug("leaving node view")
				return nil
			case ev.Key() == tcell.KeyLeft, ev.Rune() == 'h':
				vp.ScrollLeft()
			case ev.Key() == tcell.KeyRight, ev.Rune() == 'l':
				vp.ScrollRight()
			case ev.Key() == tcell.KeyUp, ev.Rune() == 'k':
				vp.ScrollUp()
			case ev.Key() == tcell.KeyDown, ev.Rune() == 'j':
				vp.ScrollDown()
			}
		}
	}
}

// viewRows is the diagram's share of the screen; the last row carries the
// status line.
func viewRows(screenH int) int {
	if screenH < 2 {
		return 1
	}
	return screenH - 1
}

func themeStyles(th config.Theme) map[canvas.CellKind]tcell.Style {
	base := tcell.StyleDefault.Background(tcell.GetColor(th.Background))
	fg := func(name string) tcell.Style {
		return base.Foreground(tcell.GetColor(name))
	}
	return map[canvas.CellKind]tcell.Style{
		canvas.KindBlank:      base,
		canvas.KindBox:        fg(th.Box),
		canvas.KindText:       fg(th.Text),
		canvas.KindConnection: fg(th.Connection),
		canvas.KindMarker:     fg(th.Marker),
	}
}

// blit copies the buffer to the screen, skipping the shadow cell after
// each wide rune so tcell keeps the pair intact.
func blit(s tcell.Screen, b *canvas.OverdrawBuffer, styles map[canvas.CellKind]tcell.Style) {
	w, h := b.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; {
			c := b.At(x, y)
			s.SetContent(x, y, c.Rune, nil, styles[c.Kind])
			if rw := runewidth.RuneWidth(c.Rune); rw > 1 {
				x += rw
			} else {
				x++
			}
		}
	}
}

func drawStatus(s tcell.Screen, lay *layout.Layout, view render.View, style tcell.Style) {
	w, h := s.Size()
	if h < 1 {
		return
	}
	total := lay.MaxDepth() + 1
	first := lay.MaxDepth() - view.LeftDepth
	last := lay.MaxDepth() - view.RightDepth
	msg := fmt.Sprintf(" cols %d-%d of %d | arrows scroll | q quits", first+1, last+1, total)
	if total == 0 {
		msg = " empty graph | q quits"
	}
	y := h - 1
	x := 0
	for _, r := range msg {
		if x >= w {
			break
		}
		s.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
	for ; x < w; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}
