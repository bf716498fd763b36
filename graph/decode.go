package graph

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// The on-disk representation produced by the external loader. Connections
// use the sentinel instance id 255 for "unconnected", matching the binary
// node format the loader parses.

type fileGraph struct {
	Version   int            `json:"version"`
	Roots     fileRoots      `json:"roots"`
	Instances []fileInstance `json:"instances"`
	Nodes     []string       `json:"nodes"`
	Types     []string       `json:"types"`
}

type fileRoots struct {
	Inputs  []fileEndpoint `json:"inputs"`
	Outputs []fileEndpoint `json:"outputs"`
}

type fileEndpoint struct {
	Instance int `json:"instance"`
	Socket   int `json:"socket"`
}

type fileInstance struct {
	ID      int          `json:"id"`
	Name    string       `json:"name"`
	Type    int          `json:"type"`
	X       int          `json:"x"`
	Y       int          `json:"y"`
	Sockets []fileSocket `json:"sockets"`
}

type fileSocket struct {
	Name       string        `json:"name"`
	Kind       string        `json:"kind"`
	Literal    string        `json:"literal,omitempty"`
	Connection *fileEndpoint `json:"connection,omitempty"`
}

// Decode parses a materialized graph from its JSON form. The version is
// checked before anything else is interpreted; an unrecognized version is a
// fatal configuration error.
func Decode(data []byte) (*Graph, error) {
	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse graph: %w", err)
	}
	if probe.Version != 1 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVersion, probe.Version)
	}

	var fg fileGraph
	if err := json.Unmarshal(data, &fg); err != nil {
		return nil, fmt.Errorf("parse graph: %w", err)
	}

	g := &Graph{
		Version:   fg.Version,
		NodeNames: fg.Nodes,
		TypeNames: fg.Types,
		Instances: make(map[InstanceID]*Instance, len(fg.Instances)),
	}

	for _, fi := range fg.Instances {
		inst := &Instance{
			ID:    InstanceID(fi.ID),
			Name:  fi.Name,
			Type:  fi.Type,
			XHint: fi.X,
			YHint: fi.Y,
		}
		for _, fs := range fi.Sockets {
			sock := Socket{Name: fs.Name, Literal: fs.Literal}
			switch fs.Kind {
			case "output":
				sock.Kind = SocketOutput
			case "input", "":
				sock.Kind = SocketInput
			default:
				return nil, fmt.Errorf("instance %d: unknown socket kind %q", fi.ID, fs.Kind)
			}
			if fs.Connection != nil {
				sock.Conn = &Target{
					Instance: InstanceID(fs.Connection.Instance),
					Socket:   fs.Connection.Socket,
				}
			}
			inst.Sockets = append(inst.Sockets, sock)
		}
		g.Instances[inst.ID] = inst
	}

	g.Roots.Inputs = decodeEndpoints(fg.Roots.Inputs)
	g.Roots.Outputs = decodeEndpoints(fg.Roots.Outputs)

	return g, nil
}

func decodeEndpoints(eps []fileEndpoint) []Endpoint {
	out := make([]Endpoint, 0, len(eps))
	for _, ep := range eps {
		out = append(out, Endpoint{Instance: InstanceID(ep.Instance), Socket: ep.Socket})
	}
	return out
}

// DecodeFile reads and decodes a graph JSON file.
func DecodeFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph file: %w", err)
	}
	return Decode(data)
}
