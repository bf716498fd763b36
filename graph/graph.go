// Package graph holds the immutable node-instance model consumed by the
// viewer. A graph is produced by an external loader and never mutates for
// the lifetime of a viewing session.
package graph

import (
	"errors"
	"fmt"
	"sort"
)

// Common structural errors. A graph that fails validation must never be
// rendered; a wrong diagram is worse than no diagram.
var (
	ErrUnknownVersion     = errors.New("unknown graph format version")
	ErrDanglingConnection = errors.New("connection references nonexistent instance or socket")
	ErrMissingInstance    = errors.New("instance missing from instance table")
)

// InstanceID identifies an instance within a graph.
type InstanceID int

// NoConnection is the sentinel target id meaning "not connected". It never
// appears as a key in the instance table.
const NoConnection InstanceID = 255

// SocketKind says which side of an instance a socket attaches to.
type SocketKind int

const (
	SocketInput SocketKind = iota
	SocketOutput
)

// Target is the far end of a connection: another instance's socket.
type Target struct {
	Instance InstanceID
	Socket   int
}

// Socket is a named slot on an instance. An input socket carries either a
// literal value or a connection to another instance's output socket; output
// sockets carry neither and are referenced by the sockets of consumers.
type Socket struct {
	Name    string
	Kind    SocketKind
	Literal string
	Conn    *Target
}

// Connected reports whether the socket carries a real connection. The
// sentinel target id counts as unconnected.
func (s Socket) Connected() bool {
	return s.Conn != nil && s.Conn.Instance != NoConnection
}

// Instance is a placed occurrence of a node type. XHint and YHint are the
// coordinates stored by the editor that produced the graph; the layout uses
// YHint only for relative ordering within a column and discards both
// afterwards.
type Instance struct {
	ID      InstanceID
	Name    string
	Type    int
	XHint   int
	YHint   int
	Sockets []Socket
}

// Endpoint names an instance socket referenced by a root boundary.
type Endpoint struct {
	Instance InstanceID
	Socket   int
}

// Roots are the two boundary pseudo-instances: the sockets fed from outside
// the graph (Inputs) and the sockets whose values leave it (Outputs).
// Endpoints with the sentinel instance id are placeholders and are skipped.
type Roots struct {
	Inputs  []Endpoint
	Outputs []Endpoint
}

// Graph is a fully materialized node definition. NodeNames and TypeNames
// are display-only lookup tables; layout never reads them.
type Graph struct {
	Version   int
	Roots     Roots
	Instances map[InstanceID]*Instance
	NodeNames []string
	TypeNames []string
}

// Instance returns the instance for id, or an error satisfying
// errors.Is(err, ErrMissingInstance) when the table has no such entry.
func (g *Graph) Instance(id InstanceID) (*Instance, error) {
	inst, ok := g.Instances[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrMissingInstance, id)
	}
	return inst, nil
}

// SortedIDs returns every instance id in ascending order. Iteration over
// the instance map is randomized by the runtime; layout and routing need a
// deterministic order so the same graph always draws the same diagram.
func (g *Graph) SortedIDs() []InstanceID {
	ids := make([]InstanceID, 0, len(g.Instances))
	for id := range g.Instances {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// DisplayName resolves the name shown in an instance's box: the instance's
// own name when present, otherwise the node table entry for its type.
func (g *Graph) DisplayName(inst *Instance) string {
	if inst.Name != "" {
		return inst.Name
	}
	if inst.Type >= 0 && inst.Type < len(g.NodeNames) {
		return g.NodeNames[inst.Type]
	}
	return fmt.Sprintf("instance %d", inst.ID)
}

// Validate checks the structural contracts the renderer depends on:
// a supported version, table keys that match instance ids, no sentinel
// instance in the table, and no connection or root endpoint referencing a
// missing instance or an out-of-range socket. It returns the first
// violation found.
func (g *Graph) Validate() error {
	if g.Version != 1 {
		return fmt.Errorf("%w: %d", ErrUnknownVersion, g.Version)
	}

	for id, inst := range g.Instances {
		if inst == nil || inst.ID != id {
			return fmt.Errorf("%w: table key %d", ErrMissingInstance, id)
		}
		if id == NoConnection {
			return fmt.Errorf("%w: sentinel id %d used as instance", ErrMissingInstance, id)
		}
	}

	for id := range g.Instances {
		inst := g.Instances[id]
		for si, sock := range inst.Sockets {
			if !sock.Connected() {
				continue
			}
			if err := g.checkTarget(*sock.Conn); err != nil {
				return fmt.Errorf("instance %d socket %d: %w", id, si, err)
			}
		}
	}

	for _, ep := range g.Roots.Inputs {
		if err := g.checkEndpoint(ep); err != nil {
			return fmt.Errorf("input root: %w", err)
		}
	}
	for _, ep := range g.Roots.Outputs {
		if err := g.checkEndpoint(ep); err != nil {
			return fmt.Errorf("output root: %w", err)
		}
	}

	return nil
}

func (g *Graph) checkTarget(t Target) error {
	inst, ok := g.Instances[t.Instance]
	if !ok {
		return fmt.Errorf("%w: instance %d", ErrDanglingConnection, t.Instance)
	}
	if t.Socket < 0 || t.Socket >= len(inst.Sockets) {
		return fmt.Errorf("%w: instance %d socket %d", ErrDanglingConnection, t.Instance, t.Socket)
	}
	return nil
}

func (g *Graph) checkEndpoint(ep Endpoint) error {
	if ep.Instance == NoConnection {
		return nil
	}
	return g.checkTarget(Target{Instance: ep.Instance, Socket: ep.Socket})
}
