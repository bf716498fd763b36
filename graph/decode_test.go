package graph

import (
	"errors"
	"testing"
)

const sampleDoc = `{
	"version": 1,
	"roots": {
		"inputs": [{"instance": 1, "socket": 1}],
		"outputs": [{"instance": 0, "socket": 0}]
	},
	"instances": [
		{
			"id": 0, "name": "sink", "type": 0, "x": 3, "y": 7,
			"sockets": [
				{"name": "out", "kind": "output"},
				{"name": "in", "kind": "input", "connection": {"instance": 1, "socket": 0}},
				{"name": "scale", "kind": "input", "literal": "2"}
			]
		},
		{
			"id": 1, "type": 0,
			"sockets": [
				{"name": "out", "kind": "output"},
				{"name": "in"}
			]
		}
	],
	"nodes": ["adder"],
	"types": ["number"]
}`

func TestDecode(t *testing.T) {
	g, err := Decode([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("decoded graph invalid: %v", err)
	}

	sink := g.Instances[0]
	if sink.Name != "sink" || sink.XHint != 3 || sink.YHint != 7 {
		t.Errorf("instance 0 = %+v", sink)
	}
	if got := sink.Sockets[1].Conn; got == nil || got.Instance != 1 || got.Socket != 0 {
		t.Errorf("connection = %+v, want instance 1 socket 0", got)
	}
	if sink.Sockets[2].Literal != "2" || sink.Sockets[2].Connected() {
		t.Errorf("literal socket = %+v", sink.Sockets[2])
	}

	// Kind defaults to input when absent.
	if g.Instances[1].Sockets[1].Kind != SocketInput {
		t.Error("missing kind not treated as input")
	}

	if len(g.Roots.Inputs) != 1 || g.Roots.Inputs[0] != (Endpoint{Instance: 1, Socket: 1}) {
		t.Errorf("roots.inputs = %+v", g.Roots.Inputs)
	}
	if g.NodeNames[0] != "adder" || g.TypeNames[0] != "number" {
		t.Errorf("name tables = %v / %v", g.NodeNames, g.TypeNames)
	}
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	_, err := Decode([]byte(`{"version": 2, "instances": []}`))
	if !errors.Is(err, ErrUnknownVersion) {
		t.Fatalf("Decode = %v, want ErrUnknownVersion", err)
	}
}

func TestDecodeRejectsBadSocketKind(t *testing.T) {
	doc := `{"version": 1, "instances": [
		{"id": 0, "sockets": [{"name": "x", "kind": "sideways"}]}
	]}`
	if _, err := Decode([]byte(doc)); err == nil {
		t.Fatal("Decode accepted unknown socket kind")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not json")); err == nil {
		t.Fatal("Decode accepted garbage")
	}
}
