// Package builder consumes Lexer push/pop events and constructs a document
// tree (package node), performing numeric classification and string
// unescaping along the way.
package builder

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/mcvoid/docjson/lexer"
	"github.com/mcvoid/docjson/node"
)

// ErrBuild is the sentinel wrapped by all builder-level errors (number
// classification, string unescaping, structural mismatches the lexer
// itself cannot detect).
var ErrBuild = errors.New("build error")

// MaxDepth is the default container nesting limit passed to the lexer when
// none is supplied via ParseDepth.
const MaxDepth = 1024

// Parse reads a complete JSON document from r and returns its tree. A bare
// scalar document (not starting with '{' or '[') is supported by wrapping
// it in a synthetic one-element array internally, then unwrapping — the
// lexer itself requires a container at the root.
func Parse(r io.Reader) (*node.Node, error) {
	return ParseDepth(r, MaxDepth)
}

// ParseDepth is Parse with an explicit container nesting limit.
func ParseDepth(r io.Reader, maxDepth int) (*node.Node, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseBytes(raw, maxDepth)
}

// ParseBytes parses a complete in-memory JSON document.
func ParseBytes(raw []byte, maxDepth int) (*node.Node, error) {
	trimmed := bytes.TrimLeft(raw, " \t\n\r")
	wrapped := len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[')

	src := raw
	if wrapped {
		buf := make([]byte, 0, len(raw)+2)
		buf = append(buf, '[')
		buf = append(buf, raw...)
		buf = append(buf, ']')
		src = buf
	}

	b := newState(src)
	l := lexer.New(maxDepth)
	l.Push = b.onPush
	l.Pop = b.onPop

	if err := l.Feed(src); err != nil {
		return nil, err
	}
	if err := l.Close(); err != nil {
		return nil, err
	}
	if b.err != nil {
		return nil, b.err
	}
	if len(b.stack) != 1 {
		return nil, fmt.Errorf("%w: document did not reduce to a single value", ErrBuild)
	}
	result := b.stack[0]

	if wrapped {
		if result.Kind() != node.Array {
			return nil, fmt.Errorf("%w: wrapper was not an array", ErrBuild)
		}
		item, err := node.ArrayItem(result, 0)
		if err != nil {
			return nil, err
		}
		return item, nil
	}
	return result, nil
}

// state tracks the in-progress stack of nodes under construction, plus the
// begin offset of whatever scalar token is currently open (only one can be
// open at a time, since scalars never nest).
type state struct {
	src          []byte
	stack        []*node.Node
	scalarBegin  int64
	err          error
}

func newState(src []byte) *state { return &state{src: src} }

func (b *state) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *state) onPush(t lexer.EventType, begin int64, depth int) {
	if b.err != nil {
		return
	}
	switch t {
	case lexer.Object:
		b.stack = append(b.stack, node.NewDict())
	case lexer.Array:
		b.stack = append(b.stack, node.NewArray())
	case lexer.String, lexer.HashKey, lexer.Special:
		b.scalarBegin = begin
	}
}

func (b *state) onPop(t lexer.EventType, cur int64, depth int, flags lexer.Flags) {
	if b.err != nil {
		return
	}
	span := b.src[b.scalarBegin:cur]

	switch t {
	case lexer.Object, lexer.Array:
		n := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]
		b.bind(n)

	case lexer.HashKey:
		key, err := unescapeQuoted(span)
		if err != nil {
			b.fail(err)
			return
		}
		b.stack = append(b.stack, node.NewKeyVal(key, node.NewNull()))

	case lexer.String:
		s, err := unescapeQuoted(span)
		if err != nil {
			b.fail(err)
			return
		}
		b.bind(node.NewString(s))

	case lexer.Special:
		n, err := classifySpecial(span, flags)
		if err != nil {
			b.fail(err)
			return
		}
		b.bind(n)
	}
}

// bind attaches a just-completed value to its parent: appended to an
// Array, installed as a KeyVal's value (then the KeyVal is bound into the
// enclosing Dict), or left as the sole top-level result.
func (b *state) bind(n *node.Node) {
	if len(b.stack) == 0 {
		b.stack = append(b.stack, n)
		return
	}
	top := b.stack[len(b.stack)-1]
	switch top.Kind() {
	case node.Array:
		if err := node.ArrayAppend(top, n); err != nil {
			b.fail(err)
		}
	case node.KeyVal:
		b.stack = b.stack[:len(b.stack)-1]
		kv := node.NewKeyVal(top.Key(), n)
		parent := b.stack[len(b.stack)-1]
		if err := node.DictSetKeyVal(parent, kv); err != nil {
			b.fail(err)
		}
	default:
		b.fail(fmt.Errorf("%w: unexpected container on stack: %s", ErrBuild, top.Kind()))
	}
}
