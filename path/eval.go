package path

import "github.com/mcvoid/docjson/node"

// PathErrorKind classifies an evaluation (or parse) failure.
type PathErrorKind int

const (
	PathOK PathErrorKind = iota
	PathNoKey
	PathNoIndex
	PathBadType
	PathParseError
)

// PathError is returned by Find/FindEx. Depth is the zero-based index into
// the path's segment list at which the fault occurred.
type PathError struct {
	Kind    PathErrorKind
	Depth   int
	Message string
	Offset  int
}

func (e *PathError) Error() string { return e.Message }

// Find walks p from root and returns the addressed node. See FindEx for the
// parent-returning form; Find simply discards the parent.
func Find(root *node.Node, p Path) (*node.Node, *PathError) {
	target, _, err := FindEx(root, p)
	return target, err
}

// FindEx walks p from root, returning both the target and its parent. When
// p is the root path ([]Segment{{Kind: SegRoot}}), parent is nil — callers
// must special-case "replace the whole document" since there is no parent
// to mutate through.
func FindEx(root *node.Node, p Path) (target, parent *node.Node, perr *PathError) {
	if len(p) == 1 && p[0].Kind == SegRoot {
		return root, nil, nil
	}

	cur := root
	var prev *node.Node
	for i, seg := range p {
		switch cur.Kind() {
		case node.Array:
			if seg.Kind != SegIndex {
				return nil, nil, &PathError{Kind: PathBadType, Depth: i, Message: "expected an array index"}
			}
			length, _ := node.Length(cur)
			idx := seg.Index
			if idx < 0 {
				idx += int64(length)
			}
			if idx < 0 || idx >= int64(length) {
				return nil, nil, &PathError{Kind: PathNoIndex, Depth: i, Message: "array index out of range"}
			}
			item, _ := node.ArrayItem(cur, int(idx))
			prev = cur
			cur = item

		case node.Dict:
			if seg.Kind != SegKey {
				return nil, nil, &PathError{Kind: PathBadType, Depth: i, Message: "expected an object key"}
			}
			val, err := node.DictGet(cur, seg.Key)
			if err != nil {
				return nil, nil, &PathError{Kind: PathNoKey, Depth: i, Message: "no such key"}
			}
			prev = cur
			cur = val

		default:
			return nil, nil, &PathError{Kind: PathBadType, Depth: i, Message: "cannot descend into a scalar"}
		}
	}
	return cur, prev, nil
}
