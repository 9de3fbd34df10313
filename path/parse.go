package path

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"
)

// SegKind identifies which grammar production a Segment came from.
type SegKind int8

const (
	SegRoot SegKind = iota
	SegKey
	SegIndex
)

// Segment is one step of a parsed path: the root sentinel, a Dict key, or
// an Array index.
type Segment struct {
	Kind  SegKind
	Key   []byte
	Index int64
}

// Path is an ordered list of Segments. A Path containing a single SegRoot
// segment denotes the whole document; it never appears alongside other
// segments.
type Path []Segment

// ParseError describes a syntactic failure, with the byte offset of the
// offending input.
type ParseError struct {
	Message string
	Offset  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("path parse error: %s (at byte %d)", e.Message, e.Offset)
}

var (
	dotType      = symbolType("Dot")
	identType    = symbolType("Ident")
	intType      = symbolType("Int")
	minusType    = symbolType("Minus")
	lbracketType = symbolType("LBracket")
	rbracketType = symbolType("RBracket")
	dqType       = symbolType("DQString")
	sqType       = symbolType("SQString")
)

// Parse parses a path expression. "." alone parses to a single-segment Path
// denoting the root; a leading "." before the first identifier is accepted
// and discarded.
func Parse(src []byte) (Path, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, &ParseError{Message: "empty path", Offset: 0}
	}
	if len(toks) == 1 && toks[0].Type == dotType {
		return Path{{Kind: SegRoot}}, nil
	}

	p := &parser{toks: toks}
	if p.at().Type == dotType {
		p.advance()
	}
	var segs Path
	if p.i < len(p.toks) && p.at().Type == identType {
		segs = append(segs, Segment{Kind: SegKey, Key: []byte(p.at().Value)})
		p.advance()
	}
	for p.i < len(p.toks) {
		switch p.at().Type {
		case dotType:
			p.advance()
			if p.i >= len(p.toks) || p.at().Type != identType {
				return nil, &ParseError{
					Message: "identifier must start with letter, $, or _",
					Offset:  p.offsetOrEnd(src),
				}
			}
			segs = append(segs, Segment{Kind: SegKey, Key: []byte(p.at().Value)})
			p.advance()
		case lbracketType:
			p.advance()
			seg, err := p.parseSubscript(src)
			if err != nil {
				return nil, err
			}
			segs = append(segs, seg)
		default:
			return nil, &ParseError{
				Message: "expected '.' or '[' to begin a segment",
				Offset:  p.at().Pos.Offset,
			}
		}
	}
	return segs, nil
}

type parser struct {
	toks []lexer.Token
	i    int
}

func (p *parser) at() lexer.Token {
	if p.i < len(p.toks) {
		return p.toks[p.i]
	}
	return lexer.Token{Type: lexer.EOF}
}

func (p *parser) advance() { p.i++ }

func (p *parser) offsetOrEnd(src []byte) int {
	if p.i < len(p.toks) {
		return p.toks[p.i].Pos.Offset
	}
	return len(src)
}

// parseSubscript parses the contents of "[ ... ]" after the opening bracket
// has already been consumed.
func (p *parser) parseSubscript(src []byte) (Segment, error) {
	if p.i >= len(p.toks) {
		return Segment{}, &ParseError{
			Message: "inside '[': integer, '\"'-string, or '''-string only",
			Offset:  len(src),
		}
	}
	tok := p.at()
	switch tok.Type {
	case minusType:
		p.advance()
		if p.i >= len(p.toks) || p.at().Type != intType {
			return Segment{}, &ParseError{
				Message: "negative integer must have at least one digit",
				Offset:  p.offsetOrEnd(src),
			}
		}
		digits := p.at()
		p.advance()
		n, err := strconv.ParseInt(digits.Value, 10, 64)
		if err != nil {
			return Segment{}, &ParseError{Message: "integer subscript out of range", Offset: digits.Pos.Offset}
		}
		if err := p.expectRBracket(src, "digits or closing bracket required"); err != nil {
			return Segment{}, err
		}
		return Segment{Kind: SegIndex, Index: -n}, nil

	case intType:
		p.advance()
		n, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return Segment{}, &ParseError{Message: "integer subscript out of range", Offset: tok.Pos.Offset}
		}
		if err := p.expectRBracket(src, "digits or closing bracket required"); err != nil {
			return Segment{}, err
		}
		return Segment{Kind: SegIndex, Index: n}, nil

	case dqType:
		p.advance()
		key := []byte(tok.Value[1 : len(tok.Value)-1])
		if err := p.expectRBracket(src, "']' must immediately follow the closing quote of a string subscript"); err != nil {
			return Segment{}, err
		}
		return Segment{Kind: SegKey, Key: key}, nil

	case sqType:
		p.advance()
		key := []byte(tok.Value[1 : len(tok.Value)-1])
		if err := p.expectRBracket(src, "']' must immediately follow the closing quote of a string subscript"); err != nil {
			return Segment{}, err
		}
		return Segment{Kind: SegKey, Key: key}, nil

	default:
		return Segment{}, &ParseError{
			Message: "inside '[': integer, '\"'-string, or '''-string only",
			Offset:  tok.Pos.Offset,
		}
	}
}

func (p *parser) expectRBracket(src []byte, onMissing string) error {
	if p.i >= len(p.toks) || p.at().Type != rbracketType {
		return &ParseError{Message: onMissing, Offset: p.offsetOrEnd(src)}
	}
	p.advance()
	return nil
}
