package cache

import (
	"testing"

	"github.com/mcvoid/docjson/node"
)

func TestAddAndGetExactPath(t *testing.T) {
	c := New(0, 0, 0)
	doc := node.NewDict()
	c.Add(doc, []byte("foo.bar"), []byte("12345"))

	got, ok := c.Get(doc, []byte("foo.bar"))
	if !ok || string(got) != "12345" {
		t.Fatalf("got %q, %v", got, ok)
	}

	if _, ok := c.Get(doc, []byte("foo.baz")); ok {
		t.Fatal("expected miss for different path")
	}
}

func TestMinSizeSkipsSmallValues(t *testing.T) {
	c := New(0, 0, 10)
	doc := node.NewDict()
	c.Add(doc, []byte("a"), []byte("tiny"))
	if _, ok := c.Get(doc, []byte("a")); ok {
		t.Fatal("expected value below MinSize to be skipped")
	}
}

func TestMaxEntriesEvictsLRU(t *testing.T) {
	c := New(2, 0, 0)
	doc := node.NewDict()
	c.Add(doc, []byte("a"), []byte("aaaa"))
	c.Add(doc, []byte("b"), []byte("bbbb"))

	// Promote "a" so "b" becomes the LRU victim.
	c.Get(doc, []byte("a"))

	c.Add(doc, []byte("c"), []byte("cccc"))

	if _, ok := c.Get(doc, []byte("b")); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok := c.Get(doc, []byte("a")); !ok {
		t.Error("expected a to survive (promoted)")
	}
	if _, ok := c.Get(doc, []byte("c")); !ok {
		t.Error("expected c (just added) to survive")
	}
}

func TestClearPathRemovesOverlappingEntries(t *testing.T) {
	c := New(0, 0, 0)
	doc := node.NewDict()
	c.Add(doc, []byte(""), []byte("root-bytes"))
	c.Add(doc, []byte("a"), []byte("a-bytes"))
	c.Add(doc, []byte("a.b"), []byte("ab-bytes"))
	c.Add(doc, []byte("z"), []byte("z-bytes"))

	c.ClearPath(doc, []byte("a"))

	for _, p := range []string{"", "a", "a.b"} {
		if _, ok := c.Get(doc, []byte(p)); ok {
			t.Errorf("expected %q to be cleared", p)
		}
	}
	if _, ok := c.Get(doc, []byte("z")); !ok {
		t.Error("expected unrelated path z to survive")
	}
}

func TestClearDocumentClearsEverything(t *testing.T) {
	c := New(0, 0, 0)
	doc := node.NewDict()
	c.Add(doc, []byte("a"), []byte("a-bytes"))
	c.Add(doc, []byte("b"), []byte("b-bytes"))

	c.ClearDocument(doc)

	if _, ok := c.Get(doc, []byte("a")); ok {
		t.Error("expected a cleared")
	}
	if _, ok := c.Get(doc, []byte("b")); ok {
		t.Error("expected b cleared")
	}
}

func TestDocumentsAreIndependent(t *testing.T) {
	c := New(0, 0, 0)
	doc1 := node.NewDict()
	doc2 := node.NewDict()
	c.Add(doc1, []byte("a"), []byte("doc1-a"))
	c.Add(doc2, []byte("a"), []byte("doc2-a"))

	c.ClearDocument(doc1)

	if _, ok := c.Get(doc1, []byte("a")); ok {
		t.Error("expected doc1's entry cleared")
	}
	got, ok := c.Get(doc2, []byte("a"))
	if !ok || string(got) != "doc2-a" {
		t.Error("expected doc2's entry to survive doc1's clear")
	}
}

func TestMaxBytesEvictsOnOverflow(t *testing.T) {
	c := New(0, 12, 0)
	doc := node.NewDict()
	c.Add(doc, []byte("a"), []byte("123456")) // 6 bytes
	c.Add(doc, []byte("b"), []byte("123456")) // 12 bytes total, at cap
	c.Add(doc, []byte("c"), []byte("123456")) // forces eviction of "a"

	if _, ok := c.Get(doc, []byte("a")); ok {
		t.Error("expected a evicted once total bytes exceeded MaxBytes")
	}
	if _, ok := c.Get(doc, []byte("c")); !ok {
		t.Error("expected c present")
	}
}
