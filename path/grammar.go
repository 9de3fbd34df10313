// Package path implements the compact JSONPath-like selector language used
// to address a sub-value of a document: its grammar, parser, and an
// evaluator that walks a parsed path against a document tree.
//
// $ is accepted as an ordinary identifier byte with no special "current
// document" meaning — unlike most JSONPath dialects. This is intentional.
package path

import (
	"bytes"

	"github.com/alecthomas/participle/v2/lexer"
)

// tokLexer recognizes the path grammar's lexical tokens. Rule order matters
// for participle's simple lexer (first match at the current position wins),
// so the quoted-string and digit rules precede the looser identifier rule.
var tokLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "DQString", Pattern: `"[^"]*"`},
	{Name: "SQString", Pattern: `'[^']*'`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Za-z_$][A-Za-z0-9_$]*`},
	{Name: "Minus", Pattern: `-`},
	{Name: "LBracket", Pattern: `\[`},
	{Name: "RBracket", Pattern: `\]`},
	{Name: "Dot", Pattern: `\.`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

var tokSymbols = tokLexer.Symbols()

func symbolType(name string) lexer.TokenType { return tokSymbols[name] }

// tokenize runs src through tokLexer and returns its tokens with Whitespace
// elided, or a ParseError anchored at the byte offset the lexer stalled on.
func tokenize(src []byte) ([]lexer.Token, error) {
	lx, err := tokLexer.Lex("path", bytes.NewReader(src))
	if err != nil {
		return nil, &ParseError{Message: "invalid path syntax", Offset: 0}
	}
	whitespace := symbolType("Whitespace")
	var toks []lexer.Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, &ParseError{Message: "invalid character in path", Offset: tok.Pos.Offset}
		}
		if tok.EOF() {
			break
		}
		if tok.Type == whitespace {
			continue
		}
		toks = append(toks, tok)
	}
	return toks, nil
}
