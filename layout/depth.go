// Package layout assigns instances to depth-ordered columns and computes
// the box and bend-lane geometry the router and renderer draw from. All
// coordinates are world cells; the viewport translates them to the screen.
package layout

import (
	"errors"
	"fmt"

	"github.com/JoshuaCF/kronark-node-viewer/graph"
)

// ErrCycle is returned when depth propagation fails to settle, which means
// the supposedly acyclic graph contains a true cycle.
var ErrCycle = errors.New("graph contains a cycle")

// Depths maps every non-sentinel instance to its column depth. Depth 0 is
// adjacent to the output boundary and grows toward the input boundary.
type Depths struct {
	ByInstance map[graph.InstanceID]int
	Max        int
}

// ComputeDepths walks the graph backward from the output boundary. Every
// instance reachable from an output endpoint is seeded at depth 0 or pushed
// deeper: an instance feeding another sits one past its consumer, and when
// several paths of different lengths reach the same instance the longest
// one wins. An increased depth re-enqueues the instance so everything
// upstream of it is revisited with the corrected value.
//
// Instances the output boundary cannot reach are seeded at depth 0 in a
// second pass so that every instance lands in exactly one column.
//
// The traversal does not trust the graph to be acyclic: work is bounded by
// a pop budget, and exhausting it returns ErrCycle instead of spinning.
func ComputeDepths(g *graph.Graph) (Depths, error) {
	d := Depths{ByInstance: make(map[graph.InstanceID]int, len(g.Instances))}

	var work []graph.InstanceID
	for _, ep := range g.Roots.Outputs {
		if ep.Instance == graph.NoConnection {
			continue
		}
		if _, seen := d.ByInstance[ep.Instance]; !seen {
			d.ByInstance[ep.Instance] = 0
			work = append(work, ep.Instance)
		}
	}

	// Worst case for a DAG is one re-enqueue per depth increase, and no
	// depth can exceed the instance count. Anything past that is a cycle.
	n := len(g.Instances)
	budget := (n + 1) * (n + 2)

	propagate := func() error {
		for len(work) > 0 {
			if budget--; budget < 0 {
				return ErrCycle
			}
			id := work[len(work)-1]
			work = work[:len(work)-1]

			inst, err := g.Instance(id)
			if err != nil {
				return err
			}
			base := d.ByInstance[id]
			for si, sock := range inst.Sockets {
				if !sock.Connected() {
					continue
				}
				src := sock.Conn.Instance
				if _, err := g.Instance(src); err != nil {
					return fmt.Errorf("instance %d socket %d: %w", id, si, err)
				}
				proposed := base + 1
				if cur, seen := d.ByInstance[src]; !seen || proposed > cur {
					d.ByInstance[src] = proposed
					work = append(work, src)
				}
			}
		}
		return nil
	}

	if err := propagate(); err != nil {
		return Depths{}, err
	}

	// Second seeding pass for instances unreachable from the output
	// boundary. They start at depth 0 and their own upstream chains are
	// propagated the same way.
	for _, id := range g.SortedIDs() {
		if _, seen := d.ByInstance[id]; seen {
			continue
		}
		d.ByInstance[id] = 0
		work = append(work, id)
		if err := propagate(); err != nil {
			return Depths{}, err
		}
	}

	for _, depth := range d.ByInstance {
		if depth > d.Max {
			d.Max = depth
		}
	}
	return d, nil
}
