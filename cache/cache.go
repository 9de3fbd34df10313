// Package cache implements a per-document LRU of serialized sub-tree
// bytes keyed by path, bounded by entry count and total bytes, with
// byte-prefix invalidation that requires no path-semantic awareness.
package cache

import (
	"bytes"

	"github.com/mcvoid/docjson/node"
)

// entry is a node in both the global LRU list and its document's chain.
type entry struct {
	doc  *node.Node
	path []byte
	data []byte

	// global LRU list links.
	prev, next *entry

	// per-document singly-linked chain link.
	docNext *entry
}

// Cache is a process-wide LRU of (document, path) -> serialized bytes.
// It is not safe for concurrent use; callers serialize access per the
// single-threaded discipline documented by the store that owns it.
type Cache struct {
	MaxEntries int
	MaxBytes   int
	MinSize    int

	byDoc map[*node.Node]*entry // head of each document's chain

	head, tail *entry // global LRU list: head = newest, tail = oldest
	count      int
	bytesUsed  int
}

// New constructs a Cache with the given caps. A zero MaxEntries or
// MaxBytes means unbounded on that axis.
func New(maxEntries, maxBytes, minSize int) *Cache {
	return &Cache{
		MaxEntries: maxEntries,
		MaxBytes:   maxBytes,
		MinSize:    minSize,
		byDoc:      make(map[*node.Node]*entry),
	}
}

// Get scans doc's chain for an entry whose path matches exactly. On a hit
// it promotes the entry to newest and returns its bytes.
func (c *Cache) Get(doc *node.Node, path []byte) ([]byte, bool) {
	for e := c.byDoc[doc]; e != nil; e = e.docNext {
		if bytes.Equal(e.path, path) {
			c.promote(e)
			return e.data, true
		}
	}
	return nil, false
}

// Add installs path -> data for doc, unless data is smaller than MinSize.
// Evicts the oldest global entry if a cap would otherwise be exceeded.
func (c *Cache) Add(doc *node.Node, path, data []byte) {
	if len(data) < c.MinSize {
		return
	}
	// A prior entry for the same path is stale; drop it first so Add is
	// idempotent under repeated calls for the same key.
	c.removeMatching(doc, func(p []byte) bool { return bytes.Equal(p, path) })

	for (c.MaxEntries > 0 && c.count >= c.MaxEntries) ||
		(c.MaxBytes > 0 && c.bytesUsed+len(data) > c.MaxBytes && c.tail != nil) {
		if c.tail == nil {
			break
		}
		c.evict(c.tail)
	}

	pathCopy := append([]byte(nil), path...)
	dataCopy := append([]byte(nil), data...)
	e := &entry{doc: doc, path: pathCopy, data: dataCopy}

	c.pushFront(e)
	e.docNext = c.byDoc[doc]
	c.byDoc[doc] = e
	c.count++
	c.bytesUsed += len(dataCopy)
}

// ClearPath removes every cached entry for doc whose path is the queried
// path, a prefix of it, or extended by it (plain byte-prefix comparison).
func (c *Cache) ClearPath(doc *node.Node, path []byte) {
	c.removeMatching(doc, func(p []byte) bool {
		return bytes.HasPrefix(p, path) || bytes.HasPrefix(path, p)
	})
}

// ClearDocument removes every cached entry for doc.
func (c *Cache) ClearDocument(doc *node.Node) {
	c.removeMatching(doc, func([]byte) bool { return true })
}

// removeMatching walks doc's chain once, unlinking entries whose path
// satisfies match, and rebuilds the chain from the survivors.
func (c *Cache) removeMatching(doc *node.Node, match func(path []byte) bool) {
	var kept *entry
	var tailKept *entry
	for e := c.byDoc[doc]; e != nil; {
		next := e.docNext
		if match(e.path) {
			c.unlinkGlobal(e)
			c.count--
			c.bytesUsed -= len(e.data)
		} else {
			e.docNext = nil
			if kept == nil {
				kept = e
				tailKept = e
			} else {
				tailKept.docNext = e
				tailKept = e
			}
		}
		e = next
	}
	if kept == nil {
		delete(c.byDoc, doc)
	} else {
		c.byDoc[doc] = kept
	}
}

func (c *Cache) evict(e *entry) {
	c.removeMatching(e.doc, func(p []byte) bool { return bytes.Equal(p, e.path) })
}

func (c *Cache) promote(e *entry) {
	if c.head == e {
		return
	}
	c.unlinkGlobal(e)
	c.pushFront(e)
}

func (c *Cache) pushFront(e *entry) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *Cache) unlinkGlobal(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else if c.head == e {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else if c.tail == e {
		c.tail = e.prev
	}
	e.prev, e.next = nil, nil
}
