package layout

import (
	"errors"
	"testing"

	"github.com/JoshuaCF/kronark-node-viewer/graph"
)

// testInstance builds an instance with an output socket at index 0 followed
// by one input socket per producer id. Sentinel producers become
// unconnected inputs.
func testInstance(id graph.InstanceID, producers ...graph.InstanceID) *graph.Instance {
	inst := &graph.Instance{
		ID:      id,
		Sockets: []graph.Socket{{Name: "out", Kind: graph.SocketOutput}},
	}
	for _, p := range producers {
		s := graph.Socket{Name: "in", Kind: graph.SocketInput}
		if p != graph.NoConnection {
			s.Conn = &graph.Target{Instance: p}
		}
		inst.Sockets = append(inst.Sockets, s)
	}
	return inst
}

func testGraph(outputs []graph.Endpoint, insts ...*graph.Instance) *graph.Graph {
	g := &graph.Graph{
		Version:   1,
		Instances: make(map[graph.InstanceID]*graph.Instance, len(insts)),
	}
	g.Roots.Outputs = outputs
	for _, inst := range insts {
		g.Instances[inst.ID] = inst
	}
	return g
}

func TestComputeDepthsChain(t *testing.T) {
	g := testGraph(
		[]graph.Endpoint{{Instance: 0, Socket: 0}},
		testInstance(0, 1),
		testInstance(1),
	)

	d, err := ComputeDepths(g)
	if err != nil {
		t.Fatalf("ComputeDepths: %v", err)
	}
	want := map[graph.InstanceID]int{0: 0, 1: 1}
	for id, depth := range want {
		if d.ByInstance[id] != depth {
			t.Errorf("depth(%d) = %d, want %d", id, d.ByInstance[id], depth)
		}
	}
	if d.Max != 1 {
		t.Errorf("Max = %d, want 1", d.Max)
	}
}

// A reconvergent pair of paths of different lengths must place the shared
// producer at the depth of the longer path, or its connection to the far
// consumer would have to cross intermediate columns forward.
func TestComputeDepthsLongestPathWins(t *testing.T) {
	g := testGraph(
		[]graph.Endpoint{{Instance: 0, Socket: 0}},
		testInstance(0, 1, 3), // A consumes B and C directly
		testInstance(1, 2),    // B consumes D
		testInstance(2, 3),    // D consumes C
		testInstance(3),       // C
	)

	d, err := ComputeDepths(g)
	if err != nil {
		t.Fatalf("ComputeDepths: %v", err)
	}
	want := map[graph.InstanceID]int{0: 0, 1: 1, 2: 2, 3: 3}
	for id, depth := range want {
		if d.ByInstance[id] != depth {
			t.Errorf("depth(%d) = %d, want %d", id, d.ByInstance[id], depth)
		}
	}
	if d.Max != 3 {
		t.Errorf("Max = %d, want 3", d.Max)
	}
}

func TestComputeDepthsUnreachableSeededAtZero(t *testing.T) {
	g := testGraph(
		[]graph.Endpoint{{Instance: 0, Socket: 0}},
		testInstance(0),
		testInstance(5, 6), // island, nothing consumes it
		testInstance(6),
	)

	d, err := ComputeDepths(g)
	if err != nil {
		t.Fatalf("ComputeDepths: %v", err)
	}
	if len(d.ByInstance) != 3 {
		t.Fatalf("got %d depths, want all 3 instances placed", len(d.ByInstance))
	}
	if d.ByInstance[5] != 0 || d.ByInstance[6] != 1 {
		t.Errorf("island depths = {5:%d, 6:%d}, want {5:0, 6:1}",
			d.ByInstance[5], d.ByInstance[6])
	}
}

func TestComputeDepthsSentinelSkipped(t *testing.T) {
	g := testGraph(
		[]graph.Endpoint{
			{Instance: graph.NoConnection},
			{Instance: 0, Socket: 0},
		},
		testInstance(0, graph.NoConnection),
	)

	d, err := ComputeDepths(g)
	if err != nil {
		t.Fatalf("ComputeDepths: %v", err)
	}
	if _, ok := d.ByInstance[graph.NoConnection]; ok {
		t.Error("sentinel id was assigned a depth")
	}
	if d.ByInstance[0] != 0 {
		t.Errorf("depth(0) = %d, want 0", d.ByInstance[0])
	}
}

func TestComputeDepthsCycle(t *testing.T) {
	g := testGraph(
		[]graph.Endpoint{{Instance: 0, Socket: 0}},
		testInstance(0, 1),
		testInstance(1, 0),
	)

	if _, err := ComputeDepths(g); !errors.Is(err, ErrCycle) {
		t.Fatalf("ComputeDepths = %v, want ErrCycle", err)
	}
}

func TestComputeDepthsDanglingTarget(t *testing.T) {
	g := testGraph(
		[]graph.Endpoint{{Instance: 0, Socket: 0}},
		testInstance(0, 9),
	)

	if _, err := ComputeDepths(g); !errors.Is(err, graph.ErrMissingInstance) {
		t.Fatalf("ComputeDepths = %v, want ErrMissingInstance", err)
	}
}
