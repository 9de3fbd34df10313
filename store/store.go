// Package store ties the document object model, path language, and LRU
// path cache together into the read/write command surface a client (the
// CLI adapter, or any other front end) calls against one JSON document at
// a time.
package store

import (
	"errors"
	"fmt"

	"github.com/mcvoid/docjson/cache"
	"github.com/mcvoid/docjson/node"
	"github.com/mcvoid/docjson/path"
)

// ErrStore is the sentinel wrapped by all store-level errors.
var ErrStore = errors.New("store error")

// SetCondition constrains Set the way a conditional write does: Always
// installs unconditionally, XX requires the path to already resolve, NX
// requires that it does not.
type SetCondition int

const (
	Always SetCondition = iota
	XX
	NX
)

// Document is a JSON value plus the cache chain of its serialized
// sub-trees. A Null document is legal and is the zero value's root.
type Document struct {
	root  *node.Node
	cache *cache.Cache
}

// NewDocument returns an empty (Null-rooted) Document sharing c, the
// process-wide cache. c may be nil, in which case caching is a no-op.
func NewDocument(c *cache.Cache) *Document {
	return &Document{root: node.NewNull(), cache: c}
}

// Root returns the document's current root node. Callers must not mutate
// it directly; go through the Document's operations so the cache stays
// consistent.
func (d *Document) Root() *node.Node { return d.root }

// resolve parses pathSrc. A bare "$" addresses the whole document, the same
// as "."; inside a longer path "$" stays an ordinary identifier byte.
func (d *Document) resolve(pathSrc string) (path.Path, error) {
	if pathSrc == "$" {
		return path.Path{{Kind: path.SegRoot}}, nil
	}
	p, err := path.Parse([]byte(pathSrc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return p, nil
}

func (d *Document) invalidate(pathSrc string) {
	if d.cache == nil {
		return
	}
	if pathSrc == "$" || pathSrc == "." {
		pathSrc = ""
	}
	d.cache.ClearPath(d.root, []byte(pathSrc))
}

// Get returns the node addressed by pathSrc.
func (d *Document) Get(pathSrc string) (*node.Node, error) {
	p, err := d.resolve(pathSrc)
	if err != nil {
		return nil, err
	}
	target, perr := path.Find(d.root, p)
	if perr != nil {
		return nil, fmt.Errorf("%w: %s", ErrStore, perr.Message)
	}
	return target, nil
}

// Set installs value at pathSrc, honoring cond. Returns the node that was
// there before the write (nil if the path was newly created or the write
// was skipped by a condition). A pathSrc of "$" replaces the whole
// document.
func (d *Document) Set(pathSrc string, value *node.Node, cond SetCondition) (*node.Node, error) {
	p, err := d.resolve(pathSrc)
	if err != nil {
		return nil, err
	}

	existing, parent, perr := path.FindEx(d.root, p)
	exists := perr == nil

	if cond == XX && !exists {
		return nil, nil
	}
	if cond == NX && exists {
		return nil, nil
	}

	if len(p) == 1 && p[0].Kind == path.SegRoot {
		d.root = value
		d.invalidate("")
		return existing, nil
	}

	if !exists {
		if perr.Kind != path.PathNoKey {
			return nil, fmt.Errorf("%w: %s", ErrStore, perr.Message)
		}
		last := p[len(p)-1]
		target, gparent, gperr := path.FindEx(d.root, p[:len(p)-1])
		if gperr != nil {
			return nil, fmt.Errorf("%w: %s", ErrStore, gperr.Message)
		}
		_ = gparent
		if target.Kind() != node.Dict || last.Kind != path.SegKey {
			return nil, fmt.Errorf("%w: cannot create new key along a non-object path", ErrStore)
		}
		if err := node.DictSet(target, last.Key, value); err != nil {
			return nil, err
		}
		d.invalidate(pathSrc)
		return nil, nil
	}

	last := p[len(p)-1]
	switch parent.Kind() {
	case node.Array:
		length, _ := node.Length(parent)
		idx := last.Index
		if idx < 0 {
			idx += int64(length)
		}
		if err := node.ArraySet(parent, int(idx), value); err != nil {
			return nil, err
		}
	case node.Dict:
		if err := node.DictSet(parent, last.Key, value); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: parent is not a container", ErrStore)
	}
	d.invalidate(pathSrc)
	return existing, nil
}

// Del removes the value at pathSrc, reporting whether anything was
// removed.
func (d *Document) Del(pathSrc string) (bool, error) {
	p, err := d.resolve(pathSrc)
	if err != nil {
		return false, err
	}
	_, parent, perr := path.FindEx(d.root, p)
	if perr != nil {
		if perr.Kind == path.PathNoKey || perr.Kind == path.PathNoIndex {
			return false, nil
		}
		return false, fmt.Errorf("%w: %s", ErrStore, perr.Message)
	}

	last := p[len(p)-1]
	if parent == nil {
		d.root = node.NewNull()
		d.invalidate("")
		return true, nil
	}
	switch parent.Kind() {
	case node.Dict:
		if err := node.DictDel(parent, last.Key); err != nil {
			return false, err
		}
	case node.Array:
		length, _ := node.Length(parent)
		idx := last.Index
		if idx < 0 {
			idx += int64(length)
		}
		if err := node.ArrayDelRange(parent, int(idx), 1); err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("%w: parent is not a container", ErrStore)
	}
	d.invalidate(pathSrc)
	return true, nil
}

// NumIncrBy adds delta (an Int or Double node) to the numeric value at
// pathSrc in place, following node.Add's Int/Double promotion rule.
func (d *Document) NumIncrBy(pathSrc string, delta *node.Node) (*node.Node, error) {
	target, err := d.Get(pathSrc)
	if err != nil {
		return nil, err
	}
	sum, err := node.Add(target, delta)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	if _, err := d.Set(pathSrc, sum, Always); err != nil {
		return nil, err
	}
	return sum, nil
}

// NumMultiplyBy multiplies the numeric value at pathSrc by factor in place,
// following node.Multiply's Int/Double promotion rule.
func (d *Document) NumMultiplyBy(pathSrc string, factor *node.Node) (*node.Node, error) {
	target, err := d.Get(pathSrc)
	if err != nil {
		return nil, err
	}
	prod, err := node.Multiply(target, factor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	if _, err := d.Set(pathSrc, prod, Always); err != nil {
		return nil, err
	}
	return prod, nil
}

// StrAppend concatenates src onto the string at pathSrc, returning the new
// byte length.
func (d *Document) StrAppend(pathSrc string, src []byte) (int, error) {
	target, err := d.Get(pathSrc)
	if err != nil {
		return 0, err
	}
	n, err := node.StringAppend(target, node.NewString(src))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStore, err)
	}
	d.invalidate(pathSrc)
	return n, nil
}

// ArrAppend appends values to the array at pathSrc, returning the new
// length.
func (d *Document) ArrAppend(pathSrc string, values ...*node.Node) (int, error) {
	target, err := d.Get(pathSrc)
	if err != nil {
		return 0, err
	}
	for _, v := range values {
		if err := node.ArrayAppend(target, v); err != nil {
			return 0, err
		}
	}
	d.invalidate(pathSrc)
	return node.Length(target)
}

// ArrInsert inserts values before index i (negative/clamped per
// node.ArrayInsert) in the array at pathSrc, returning the new length.
func (d *Document) ArrInsert(pathSrc string, i int, values []*node.Node) (int, error) {
	target, err := d.Get(pathSrc)
	if err != nil {
		return 0, err
	}
	sub := node.NewArray()
	for _, v := range values {
		if err := node.ArrayAppend(sub, v); err != nil {
			return 0, err
		}
	}
	if err := node.ArrayInsert(target, i, sub); err != nil {
		return 0, err
	}
	d.invalidate(pathSrc)
	return node.Length(target)
}

// ArrTrim keeps only [start, start+count) of the array at pathSrc (per
// node.ArrayDelRange's clamping), returning the new length.
func (d *Document) ArrTrim(pathSrc string, start, count int) (int, error) {
	target, err := d.Get(pathSrc)
	if err != nil {
		return 0, err
	}
	length, err := node.Length(target)
	if err != nil {
		return 0, err
	}
	keepStart, keepStop := clampKeepRange(start, count, length)
	if keepStop < length {
		if err := node.ArrayDelRange(target, keepStop, length-keepStop); err != nil {
			return 0, err
		}
	}
	if keepStart > 0 {
		if err := node.ArrayDelRange(target, 0, keepStart); err != nil {
			return 0, err
		}
	}
	d.invalidate(pathSrc)
	return node.Length(target)
}

func clampKeepRange(start, count, length int) (int, int) {
	if start < 0 {
		start += length
	}
	if start < 0 {
		start = 0
	}
	if start > length {
		start = length
	}
	stop := start + count
	if stop > length {
		stop = length
	}
	if stop < start {
		stop = start
	}
	return start, stop
}

// ArrLen returns the length of the array at pathSrc.
func (d *Document) ArrLen(pathSrc string) (int, error) {
	return d.Len(pathSrc)
}

// ObjKeys returns the keys of the object at pathSrc, in storage order.
func (d *Document) ObjKeys(pathSrc string) ([][]byte, error) {
	target, err := d.Get(pathSrc)
	if err != nil {
		return nil, err
	}
	if target.Kind() != node.Dict {
		return nil, fmt.Errorf("%w: not an object", ErrStore)
	}
	keys := make([][]byte, 0, len(target.Elems()))
	for _, kv := range target.Elems() {
		keys = append(keys, kv.Key())
	}
	return keys, nil
}

// ObjLen returns the pair count of the object at pathSrc.
func (d *Document) ObjLen(pathSrc string) (int, error) {
	return d.Len(pathSrc)
}

// Type returns the Kind of the value at pathSrc.
func (d *Document) Type(pathSrc string) (node.Kind, error) {
	target, err := d.Get(pathSrc)
	if err != nil {
		return 0, err
	}
	return target.Kind(), nil
}

// Len returns node.Length of the value at pathSrc (String byte length,
// Array element count, Dict pair count).
func (d *Document) Len(pathSrc string) (int, error) {
	target, err := d.Get(pathSrc)
	if err != nil {
		return 0, err
	}
	return node.Length(target)
}
