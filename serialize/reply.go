package serialize

import "github.com/mcvoid/docjson/node"

// ReplyWriter is implemented by an adapter's own reply renderer (the CLI's
// text output, standing in for a database's native wire reply). The core
// never formats a reply itself; it only drives this interface.
type ReplyWriter interface {
	Null()
	SimpleString(s string)
	BulkString(b []byte)
	Integer(i int64)
	Double(f float64)
	BeginArray(n int)
	EndArray()
}

// Reply drives w over n: scalars map directly, an Array becomes a
// BeginArray/EndArray bracketing its elements, and a Dict becomes a
// BeginArray of key/value pairs (key as BulkString, value recursively) —
// the conventional flattened shape a RESP-style reply gives an object.
func Reply(n *node.Node, w ReplyWriter) {
	Walk(n, &replyHooks{w: w})
}

type replyHooks struct {
	w ReplyWriter
}

func (h *replyHooks) Begin(n *node.Node, depth int, parentKind node.Kind) {
	switch n.Kind() {
	case node.Null:
		h.w.Null()
	case node.Bool:
		b, _ := n.AsBool()
		if b {
			h.w.SimpleString("true")
		} else {
			h.w.SimpleString("false")
		}
	case node.Int:
		i, _ := n.AsInt()
		h.w.Integer(i)
	case node.Double:
		d, _ := n.AsDouble()
		h.w.Double(d)
	case node.String:
		b, _ := n.AsBytes()
		h.w.BulkString(b)
	case node.Array:
		h.w.BeginArray(len(n.Elems()))
	case node.Dict:
		h.w.BeginArray(len(n.Elems()) * 2)
	case node.KeyVal:
		h.w.BulkString(n.Key())
	}
}

func (h *replyHooks) Delim(parent *node.Node, depth int, index int) {}

func (h *replyHooks) End(n *node.Node, depth int, hadChildren bool) {
	switch n.Kind() {
	case node.Array, node.Dict:
		h.w.EndArray()
	}
}
