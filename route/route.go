// Package route turns a computed layout into bent polyline routes, one per
// connection. Routes run from a producer's output socket (or the input
// boundary marker) rightward into a bend lane, vertically inside that lane,
// and horizontally into the consumer's input socket (or the output
// boundary marker). Connections that skip depths dive below the columns
// through their first gap and rise again in the gap adjacent to their true
// target, so they never touch intermediate instance boxes.
package route

import (
	"fmt"

	"github.com/JoshuaCF/kronark-node-viewer/graph"
	"github.com/JoshuaCF/kronark-node-viewer/layout"
)

// Point is a world-cell coordinate.
type Point struct {
	X, Y int
}

// End describes one endpoint of a route: either a real socket or a root
// boundary marker port.
type End struct {
	Boundary bool
	Instance graph.InstanceID
	Socket   int
}

// Route is one planned connection: its two endpoints and the ordered
// polyline the renderer draws. Points alternate horizontal and vertical
// segments; interior points are bends.
type Route struct {
	Source End
	Target End
	Points []Point
}

type planner struct {
	g   *graph.Graph
	lay *layout.Layout

	boxes     map[graph.InstanceID]*layout.Box
	depths    map[graph.InstanceID]int
	nextBend  map[*layout.Gap]int
	nextSkip  map[*layout.Gap]int
	nextClear int
}

// Plan computes a route for every connection in the graph, including the
// root boundary connections. Bend lanes within a gap are handed out in
// target-row order and never shared, so vertical runs cannot collide; the
// remaining crossings between perpendicular segments are resolved by the
// overdraw buffer's intersection rule.
func Plan(g *graph.Graph, lay *layout.Layout) ([]Route, error) {
	p := &planner{
		g:         g,
		lay:       lay,
		boxes:     make(map[graph.InstanceID]*layout.Box),
		depths:    make(map[graph.InstanceID]int),
		nextBend:  make(map[*layout.Gap]int),
		nextSkip:  make(map[*layout.Gap]int),
		nextClear: lay.ClearanceRow,
	}
	for c := range lay.Columns {
		col := &lay.Columns[c]
		for i := range col.Boxes {
			p.boxes[col.Boxes[i].ID] = &col.Boxes[i]
			p.depths[col.Boxes[i].ID] = c
		}
	}

	inputPorts := make(map[graph.Endpoint]int)
	for i, ep := range g.Roots.Inputs {
		if ep.Instance != graph.NoConnection {
			inputPorts[ep] = i
		}
	}

	var routes []Route

	// Walk consumers column by column, boxes top to bottom, sockets in
	// order. Every connection terminating at a column is seen here exactly
	// once, which both assigns distinct bend lanes and orders them by
	// target row.
	for c := lay.MaxDepth(); c >= 0; c-- {
		col := &lay.Columns[c]
		for bi := range col.Boxes {
			box := &col.Boxes[bi]
			inst := p.g.Instances[box.ID]
			for si, sock := range inst.Sockets {
				if sock.Connected() {
					r, err := p.instanceRoute(box, c, si, *sock.Conn)
					if err != nil {
						return nil, err
					}
					routes = append(routes, r)
				} else if pi, ok := inputPorts[graph.Endpoint{Instance: box.ID, Socket: si}]; ok {
					routes = append(routes, p.inputRoute(box, c, si, pi))
				}
			}
		}
	}

	for i, ep := range g.Roots.Outputs {
		if ep.Instance == graph.NoConnection {
			continue
		}
		r, err := p.outputRoute(ep, i)
		if err != nil {
			return nil, err
		}
		routes = append(routes, r)
	}

	return routes, nil
}

// instanceRoute plans producer -> consumer. The consumer's box and depth
// are in hand; the producer comes from the connection target.
func (p *planner) instanceRoute(consumer *layout.Box, cDepth, cSocket int, t graph.Target) (Route, error) {
	producer, ok := p.boxes[t.Instance]
	if !ok {
		return Route{}, fmt.Errorf("%w: instance %d", graph.ErrDanglingConnection, t.Instance)
	}
	if t.Socket < 0 || t.Socket >= len(producer.SocketRows) {
		return Route{}, fmt.Errorf("%w: instance %d socket %d", graph.ErrDanglingConnection, t.Instance, t.Socket)
	}
	pDepth := p.depths[t.Instance]

	ySrc := producer.SocketRows[t.Socket]
	yTgt := consumer.SocketRows[cSocket]
	start := Point{producer.Right() + 1, ySrc}
	end := Point{consumer.X - 1, yTgt}

	r := Route{
		Source: End{Instance: t.Instance, Socket: t.Socket},
		Target: End{Instance: consumer.ID, Socket: cSocket},
	}
	rise := p.lay.GapLeftOf(cDepth)
	if pDepth == cDepth+1 {
		lane := p.takeBend(rise)
		r.Points = []Point{start, {lane, ySrc}, {lane, yTgt}, end}
		return r, nil
	}

	dive := p.lay.GapRightOf(pDepth)
	r.Points = p.divePoints(start, end, dive, rise)
	return r, nil
}

// inputRoute plans input-boundary-marker -> consumer socket.
func (p *planner) inputRoute(consumer *layout.Box, cDepth, cSocket, port int) Route {
	yPort := p.lay.Input.PortRows[port]
	yTgt := consumer.SocketRows[cSocket]
	start := Point{p.lay.Input.Right() + 1, yPort}
	end := Point{consumer.X - 1, yTgt}

	r := Route{
		Source: End{Boundary: true},
		Target: End{Instance: consumer.ID, Socket: cSocket},
	}
	if cDepth == p.lay.MaxDepth() {
		lane := p.takeBend(&p.lay.InGap)
		r.Points = []Point{start, {lane, yPort}, {lane, yTgt}, end}
		return r
	}
	r.Points = p.divePoints(start, end, &p.lay.InGap, p.lay.GapLeftOf(cDepth))
	return r
}

// outputRoute plans producer socket -> output boundary marker.
func (p *planner) outputRoute(ep graph.Endpoint, port int) (Route, error) {
	producer, ok := p.boxes[ep.Instance]
	if !ok {
		return Route{}, fmt.Errorf("%w: instance %d", graph.ErrDanglingConnection, ep.Instance)
	}
	if ep.Socket < 0 || ep.Socket >= len(producer.SocketRows) {
		return Route{}, fmt.Errorf("%w: instance %d socket %d", graph.ErrDanglingConnection, ep.Instance, ep.Socket)
	}
	pDepth := p.depths[ep.Instance]

	ySrc := producer.SocketRows[ep.Socket]
	yPort := p.lay.Output.PortRows[port]
	start := Point{producer.Right() + 1, ySrc}
	end := Point{p.lay.Output.X - 1, yPort}

	r := Route{
		Source: End{Instance: ep.Instance, Socket: ep.Socket},
		Target: End{Boundary: true},
	}
	if pDepth == 0 {
		lane := p.takeBend(&p.lay.OutGap)
		r.Points = []Point{start, {lane, ySrc}, {lane, yPort}, end}
		return r, nil
	}
	r.Points = p.divePoints(start, end, p.lay.GapRightOf(pDepth), &p.lay.OutGap)
	return r, nil
}

// divePoints builds the six-point polyline of a depth-skipping route: out
// of the source, down a skip lane in the first gap, along a private
// clearance row beneath the columns, up a bend lane in the gap adjacent to
// the target, and in.
func (p *planner) divePoints(start, end Point, dive, rise *layout.Gap) []Point {
	xDown := p.takeSkip(dive)
	xUp := p.takeBend(rise)
	yClear := p.nextClear
	p.nextClear++
	return []Point{
		start,
		{xDown, start.Y},
		{xDown, yClear},
		{xUp, yClear},
		{xUp, end.Y},
		end,
	}
}

func (p *planner) takeBend(g *layout.Gap) int {
	i := p.nextBend[g]
	p.nextBend[g] = i + 1
	return g.BendLaneX(i)
}

func (p *planner) takeSkip(g *layout.Gap) int {
	i := p.nextSkip[g]
	p.nextSkip[g] = i + 1
	return g.SkipLaneX(i)
}
