package builder

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

// unescapeQuoted strips the surrounding quotes from span (as delivered by
// the lexer, which includes them in string byte ranges) and resolves JSON
// escape sequences into raw bytes, combining \uXXXX surrogate pairs into a
// single UTF-8 encoded rune.
func unescapeQuoted(span []byte) ([]byte, error) {
	if len(span) < 2 {
		return nil, fmt.Errorf("%w: malformed quoted span", ErrBuild)
	}
	body := span[1 : len(span)-1]

	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			out = append(out, c)
			continue
		}
		i++
		if i >= len(body) {
			return nil, fmt.Errorf("%w: truncated escape sequence", ErrBuild)
		}
		switch body[i] {
		case '"':
			out = append(out, '"')
		case '\\':
			out = append(out, '\\')
		case '/':
			out = append(out, '/')
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'u':
			r, n, err := readUnicodeEscape(body, i+1)
			if err != nil {
				return nil, err
			}
			i += n
			out = utf8.AppendRune(out, r)
		default:
			return nil, fmt.Errorf("%w: unrecognized escape \\%c", ErrBuild, body[i])
		}
	}
	return out, nil
}

// readUnicodeEscape parses the 4 hex digits starting at offset i in body
// (already past "\u"), combining with a following low surrogate if i lands
// on a high surrogate. Returns the rune and how many bytes after the "u"
// were consumed (4, or 10 for a combined pair: "XXXX\uXXXX").
func readUnicodeEscape(body []byte, i int) (rune, int, error) {
	hi, err := parseHex4(body, i)
	if err != nil {
		return 0, 0, err
	}
	if hi == 0 {
		return 0, 0, fmt.Errorf("%w: null code point is not permitted", ErrBuild)
	}
	if !utf16.IsSurrogate(rune(hi)) {
		return rune(hi), 4, nil
	}
	// A lone high surrogate needs a following "\uXXXX" low surrogate.
	if i+4+2 > len(body) || body[i+4] != '\\' || body[i+4+1] != 'u' {
		return 0, 0, fmt.Errorf("%w: invalid UTF-16 surrogate", ErrBuild)
	}
	lo, err := parseHex4(body, i+4+2)
	if err != nil {
		return 0, 0, err
	}
	combined := utf16.DecodeRune(rune(hi), rune(lo))
	if combined == utf8.RuneError {
		return 0, 0, fmt.Errorf("%w: invalid UTF-16 surrogate pair", ErrBuild)
	}
	return combined, 4 + 2 + 4, nil
}

func parseHex4(body []byte, i int) (uint16, error) {
	if i+4 > len(body) {
		return 0, fmt.Errorf("%w: truncated \\u escape", ErrBuild)
	}
	var v uint16
	for j := 0; j < 4; j++ {
		c := body[i+j]
		var d uint16
		switch {
		case c >= '0' && c <= '9':
			d = uint16(c - '0')
		case c >= 'a' && c <= 'f':
			d = uint16(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = uint16(c-'A') + 10
		default:
			return 0, fmt.Errorf("%w: bad hex digit in \\u escape", ErrBuild)
		}
		v = v<<4 | d
	}
	return v, nil
}
