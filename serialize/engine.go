// Package serialize implements the iterative visitor ("engine") shared by
// every full-tree traversal: JSON text output, memory accounting, and reply
// shaping. None of it recurses; depth is bounded only by available memory.
package serialize

import "github.com/mcvoid/docjson/node"

// Hooks receives the engine's begin/delimiter/end callbacks. Begin and End
// fire for every node, including the root; Delim fires between consecutive
// children of a container (never before the first).
//
// parentKind passed to Begin is node.Null for the root, since Null can never
// legitimately be a container parent: it doubles as "no parent" without a
// separate sentinel type.
type Hooks interface {
	Begin(n *node.Node, depth int, parentKind node.Kind)
	Delim(parent *node.Node, depth int, index int)
	End(n *node.Node, depth int, hadChildren bool)
}

type frame struct {
	n        *node.Node
	children []*node.Node
	idx      int
}

func newFrame(n *node.Node) *frame {
	f := &frame{n: n}
	switch n.Kind() {
	case node.Array, node.Dict:
		f.children = n.Elems()
	case node.KeyVal:
		f.children = []*node.Node{n.Value()}
	}
	return f
}

// Walk drives Hooks over root using an explicit stack of (node, child
// index) frames — never the Go call stack — so a pathologically deep
// document cannot overflow it. A Dict/Array's container-ness comes from
// having children; a KeyVal is walked as a one-child container so its value
// gets its own Begin/End pair.
func Walk(root *node.Node, h Hooks) {
	if root == nil {
		root = node.NewNull()
	}
	stack := []*frame{newFrame(root)}
	h.Begin(root, 0, node.Null)
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		depth := len(stack) - 1
		if top.idx < len(top.children) {
			idx := top.idx
			if idx > 0 {
				h.Delim(top.n, depth, idx)
			}
			top.idx++
			child := top.children[idx]
			stack = append(stack, newFrame(child))
			h.Begin(child, depth+1, top.n.Kind())
			continue
		}
		h.End(top.n, depth, len(top.children) > 0)
		stack = stack[:len(stack)-1]
	}
}
