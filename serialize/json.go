package serialize

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/mcvoid/docjson/node"
)

// JSONOpt configures text serialization. Empty values produce compact
// output with no whitespace at all.
type JSONOpt struct {
	Indent   string
	Newline  string
	Space    string
	NoEscape bool
}

// JSON renders n as JSON text per opt. A nil n is treated as Null.
func JSON(n *node.Node, opt JSONOpt) ([]byte, error) {
	h := &jsonHooks{opt: opt}
	Walk(n, h)
	if h.err != nil {
		return nil, h.err
	}
	return h.buf.Bytes(), nil
}

type jsonHooks struct {
	buf bytes.Buffer
	opt JSONOpt
	err error
	// level counts the open Arrays/Dicts; KeyVal frames do not add to the
	// indentation depth.
	level int
}

func (h *jsonHooks) writeIndent(depth int) {
	for i := 0; i < depth; i++ {
		h.buf.WriteString(h.opt.Indent)
	}
}

func (h *jsonHooks) Begin(n *node.Node, depth int, parentKind node.Kind) {
	if (parentKind == node.Array || parentKind == node.Dict) && h.opt.Newline != "" {
		h.buf.WriteString(h.opt.Newline)
		h.writeIndent(h.level)
	}
	switch n.Kind() {
	case node.Null:
		h.buf.WriteString("null")
	case node.Bool:
		b, _ := n.AsBool()
		if b {
			h.buf.WriteString("true")
		} else {
			h.buf.WriteString("false")
		}
	case node.Int:
		i, _ := n.AsInt()
		h.buf.WriteString(strconv.FormatInt(i, 10))
	case node.Double:
		d, _ := n.AsDouble()
		h.buf.WriteString(strconv.FormatFloat(d, 'g', 17, 64))
	case node.String:
		b, _ := n.AsBytes()
		h.writeString(b)
	case node.Array:
		h.buf.WriteByte('[')
		h.level++
	case node.Dict:
		h.buf.WriteByte('{')
		h.level++
	case node.KeyVal:
		h.writeString(n.Key())
		h.buf.WriteByte(':')
		h.buf.WriteString(h.opt.Space)
	}
}

func (h *jsonHooks) Delim(parent *node.Node, depth int, index int) {
	h.buf.WriteByte(',')
}

func (h *jsonHooks) End(n *node.Node, depth int, hadChildren bool) {
	switch n.Kind() {
	case node.Array:
		h.level--
		if hadChildren && h.opt.Newline != "" {
			h.buf.WriteString(h.opt.Newline)
			h.writeIndent(h.level)
		}
		h.buf.WriteByte(']')
	case node.Dict:
		h.level--
		if hadChildren && h.opt.Newline != "" {
			h.buf.WriteString(h.opt.Newline)
			h.writeIndent(h.level)
		}
		h.buf.WriteByte('}')
	}
}

func isPrintableASCII(c byte) bool { return c >= 0x20 && c < 0x7f }

func (h *jsonHooks) writeString(b []byte) {
	h.buf.WriteByte('"')
	for _, c := range b {
		switch c {
		case '"':
			h.buf.WriteString(`\"`)
		case '\\':
			h.buf.WriteString(`\\`)
		case '/':
			h.buf.WriteString(`\/`)
		case '\b':
			h.buf.WriteString(`\b`)
		case '\f':
			h.buf.WriteString(`\f`)
		case '\n':
			h.buf.WriteString(`\n`)
		case '\r':
			h.buf.WriteString(`\r`)
		case '\t':
			h.buf.WriteString(`\t`)
		default:
			if c < 0x20 || (!h.opt.NoEscape && !isPrintableASCII(c)) {
				fmt.Fprintf(&h.buf, `\u%04x`, c)
			} else {
				h.buf.WriteByte(c)
			}
		}
	}
	h.buf.WriteByte('"')
}
