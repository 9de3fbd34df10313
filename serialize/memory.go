package serialize

import (
	"unsafe"

	"github.com/mcvoid/docjson/node"
)

var (
	nodeOverhead = unsafe.Sizeof(node.Node{})
	pointerWidth = unsafe.Sizeof(uintptr(0))
)

// MemoryUsage estimates the tree's resident size: a fixed per-node overhead
// plus string/key byte lengths plus container slot capacity measured in
// pointer-widths, the way systems-level JSON implementations size a
// document without resorting to reflection.
func MemoryUsage(n *node.Node) uintptr {
	h := &memHooks{}
	Walk(n, h)
	return h.total
}

type memHooks struct {
	total uintptr
}

func (h *memHooks) Begin(n *node.Node, depth int, parentKind node.Kind) {
	h.total += nodeOverhead
	switch n.Kind() {
	case node.String:
		b, _ := n.AsBytes()
		h.total += uintptr(len(b))
	case node.Array, node.Dict:
		h.total += uintptr(n.Capacity()) * pointerWidth
	case node.KeyVal:
		h.total += uintptr(len(n.Key()))
	}
}

func (h *memHooks) Delim(parent *node.Node, depth int, index int) {}

func (h *memHooks) End(n *node.Node, depth int, hadChildren bool) {}
