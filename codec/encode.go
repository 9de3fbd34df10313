package codec

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/mcvoid/docjson/node"
)

// encoder implements serialize.Hooks, writing each node's tag and payload
// on Begin. Containers write only their tag and element count; Delim/End
// are no-ops because the format needs no delimiters or closing markers —
// the reader knows exactly how many elements to expect from the count.
type encoder struct {
	w   io.Writer
	err error
}

func (e *encoder) fail(err error) {
	if e.err == nil && err != nil {
		e.err = err
	}
}

func (e *encoder) writeTag(t tag) { e.fail(binary.Write(e.w, binary.BigEndian, uint8(t))) }

func (e *encoder) writeUint32(v uint32) { e.fail(binary.Write(e.w, binary.BigEndian, v)) }

func (e *encoder) writeLenPrefixed(b []byte) {
	e.writeUint32(uint32(len(b)))
	if e.err != nil {
		return
	}
	_, err := e.w.Write(b)
	e.fail(err)
}

func (e *encoder) Begin(n *node.Node, depth int, parentKind node.Kind) {
	if e.err != nil {
		return
	}
	switch n.Kind() {
	case node.Null:
		e.writeTag(tagNull)
	case node.Bool:
		e.writeTag(tagBool)
		b, _ := n.AsBool()
		v := byte('0')
		if b {
			v = '1'
		}
		e.fail(binary.Write(e.w, binary.BigEndian, v))
	case node.Int:
		e.writeTag(tagInt)
		i, _ := n.AsInt()
		e.fail(binary.Write(e.w, binary.BigEndian, i))
	case node.Double:
		e.writeTag(tagDouble)
		d, _ := n.AsDouble()
		e.fail(binary.Write(e.w, binary.BigEndian, math.Float64bits(d)))
	case node.String:
		e.writeTag(tagString)
		b, _ := n.AsBytes()
		e.writeLenPrefixed(b)
	case node.Array:
		e.writeTag(tagArray)
		e.writeUint32(uint32(len(n.Elems())))
	case node.Dict:
		e.writeTag(tagDict)
		e.writeUint32(uint32(len(n.Elems())))
	case node.KeyVal:
		e.writeTag(tagKey)
		e.writeLenPrefixed(n.Key())
		// n's value is walked next as its single child and writes itself.
	}
}

func (e *encoder) Delim(parent *node.Node, depth int, index int) {}

func (e *encoder) End(n *node.Node, depth int, hadChildren bool) {}
