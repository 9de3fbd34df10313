package builder

import (
	"fmt"
	"math"
	"strconv"

	"github.com/mcvoid/docjson/lexer"
	"github.com/mcvoid/docjson/node"
)

// classifySpecial interprets a Special token's raw text (as delivered,
// verbatim, by the lexer) as null, a bool, an Int, or a Double, per the
// float/exponent flags the lexer set on pop.
func classifySpecial(span []byte, flags lexer.Flags) (*node.Node, error) {
	s := string(span)
	switch s {
	case "null":
		return node.NewNull(), nil
	case "true":
		return node.NewBool(true), nil
	case "false":
		return node.NewBool(false), nil
	}

	if flags.Float || flags.Exponent {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed number %q: %v", ErrBuild, s, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: number %q is not finite", ErrBuild, s)
		}
		return node.NewDouble(v), nil
	}

	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: integer %q out of range", ErrBuild, s)
	}
	return node.NewInt(i), nil
}
