package codec

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/mcvoid/docjson/node"
)

// decoder reconstructs a tree from a tag stream written by encoder, using
// an explicit stack of in-progress containers rather than Go recursion, so
// a deeply nested stream can't blow the machine stack.
type decoder struct {
	r io.Reader
}

// frame tracks one Array or Dict still being filled in.
type frame struct {
	n         *node.Node
	remaining int
	// awaitingValue and key track a Dict pair in progress: the key has been
	// read but its value has not.
	awaitingValue bool
	key           []byte
}

func (d *decoder) readValue() (*node.Node, error) {
	var stack []*frame
	var root *node.Node

	for {
		if len(stack) == 0 {
			if root != nil {
				return root, nil
			}
			v, pushed, err := d.readOneTag(&stack)
			if err != nil {
				return nil, err
			}
			if !pushed {
				root = v
			}
			continue
		}

		top := stack[len(stack)-1]

		if top.n.Kind() == node.Dict && !top.awaitingValue {
			if top.remaining == 0 {
				stack = stack[:len(stack)-1]
				if err := bind(top.n, stack, &root); err != nil {
					return nil, err
				}
				continue
			}
			key, err := d.readKey()
			if err != nil {
				return nil, err
			}
			top.key = key
			top.awaitingValue = true
			continue
		}

		if top.n.Kind() == node.Array && top.remaining == 0 {
			stack = stack[:len(stack)-1]
			if err := bind(top.n, stack, &root); err != nil {
				return nil, err
			}
			continue
		}

		v, pushed, err := d.readOneTag(&stack)
		if err != nil {
			return nil, err
		}
		if pushed {
			continue
		}
		if err := bind(v, stack, &root); err != nil {
			return nil, err
		}
	}
}

// bind attaches a completed value (scalar or finished container) to the
// slot waiting for it: the current top-of-stack frame, or root if the
// stack is empty.
func bind(v *node.Node, stack []*frame, root **node.Node) error {
	if len(stack) == 0 {
		*root = v
		return nil
	}
	top := stack[len(stack)-1]
	switch top.n.Kind() {
	case node.Array:
		top.remaining--
		return node.ArrayAppend(top.n, v)
	case node.Dict:
		kv := node.NewKeyVal(top.key, v)
		top.key = nil
		top.awaitingValue = false
		top.remaining--
		return node.DictSetKeyVal(top.n, kv)
	}
	return fmt.Errorf("%w: cannot bind into %s", ErrCodec, top.n.Kind())
}

// readOneTag reads a single tag and its payload. For a scalar it returns
// the finished node with pushed=false. For a container it reads the
// element count, pushes a new frame, and returns pushed=true so the caller
// fills the container on subsequent iterations instead of treating it as
// an immediately-finished value.
func (d *decoder) readOneTag(stack *[]*frame) (*node.Node, bool, error) {
	t, err := d.readTag()
	if err != nil {
		return nil, false, err
	}
	switch t {
	case tagNull:
		return node.NewNull(), false, nil
	case tagBool:
		var b [1]byte
		if _, err := io.ReadFull(d.r, b[:]); err != nil {
			return nil, false, fmt.Errorf("%w: reading bool: %v", ErrCodec, err)
		}
		switch b[0] {
		case '1':
			return node.NewBool(true), false, nil
		case '0':
			return node.NewBool(false), false, nil
		default:
			return nil, false, fmt.Errorf("%w: malformed bool byte %q", ErrCodec, b[0])
		}
	case tagInt:
		var v int64
		if err := binary.Read(d.r, binary.BigEndian, &v); err != nil {
			return nil, false, fmt.Errorf("%w: reading int: %v", ErrCodec, err)
		}
		return node.NewInt(v), false, nil
	case tagDouble:
		var bits uint64
		if err := binary.Read(d.r, binary.BigEndian, &bits); err != nil {
			return nil, false, fmt.Errorf("%w: reading double: %v", ErrCodec, err)
		}
		return node.NewDouble(math.Float64frombits(bits)), false, nil
	case tagString:
		b, err := d.readLenPrefixed()
		if err != nil {
			return nil, false, err
		}
		return node.NewString(b), false, nil
	case tagArray:
		count, err := d.readUint32()
		if err != nil {
			return nil, false, fmt.Errorf("%w: reading array length: %v", ErrCodec, err)
		}
		*stack = append(*stack, &frame{n: node.NewArray(), remaining: int(count)})
		return nil, true, nil
	case tagDict:
		count, err := d.readUint32()
		if err != nil {
			return nil, false, fmt.Errorf("%w: reading dict length: %v", ErrCodec, err)
		}
		*stack = append(*stack, &frame{n: node.NewDict(), remaining: int(count)})
		return nil, true, nil
	default:
		return nil, false, fmt.Errorf("%w: unknown tag %d", ErrCodec, t)
	}
}

func (d *decoder) readKey() ([]byte, error) {
	t, err := d.readTag()
	if err != nil {
		return nil, err
	}
	if t != tagKey {
		return nil, fmt.Errorf("%w: expected key tag, got %d", ErrCodec, t)
	}
	return d.readLenPrefixed()
}

func (d *decoder) readTag() (tag, error) {
	var b [1]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		return 0, fmt.Errorf("%w: reading tag: %v", ErrCodec, err)
	}
	return tag(b[0]), nil
}

func (d *decoder) readUint32() (uint32, error) {
	var v uint32
	err := binary.Read(d.r, binary.BigEndian, &v)
	return v, err
}

func (d *decoder) readLenPrefixed() ([]byte, error) {
	n, err := d.readUint32()
	if err != nil {
		return nil, fmt.Errorf("%w: reading length prefix: %v", ErrCodec, err)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return nil, fmt.Errorf("%w: reading %d bytes: %v", ErrCodec, n, err)
	}
	return buf, nil
}
