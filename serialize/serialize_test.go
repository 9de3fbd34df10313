package serialize

import (
	"testing"

	"github.com/mcvoid/docjson/node"
)

func buildSample() *node.Node {
	d := node.NewDict()
	_ = node.DictSet(d, []byte("a"), node.NewInt(1))
	arr := node.NewArray()
	_ = node.ArrayAppend(arr, node.NewString([]byte("x")))
	_ = node.ArrayAppend(arr, node.NewBool(true))
	_ = node.DictSet(d, []byte("b"), arr)
	return d
}

func TestJSONCompact(t *testing.T) {
	got, err := JSON(buildSample(), JSONOpt{})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"a":1,"b":["x",true]}`
	if string(got) != want {
		t.Errorf("got %s want %s", got, want)
	}
}

func TestJSONPretty(t *testing.T) {
	got, err := JSON(buildSample(), JSONOpt{Indent: "  ", Newline: "\n", Space: " "})
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"a\": 1,\n  \"b\": [\n    \"x\",\n    true\n  ]\n}"
	if string(got) != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestJSONScalarRoot(t *testing.T) {
	for _, tc := range []struct {
		n    *node.Node
		want string
	}{
		{node.NewNull(), "null"},
		{node.NewInt(42), "42"},
		{node.NewString([]byte("hi")), `"hi"`},
	} {
		got, err := JSON(tc.n, JSONOpt{})
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != tc.want {
			t.Errorf("got %s want %s", got, tc.want)
		}
	}
}

func TestJSONEscaping(t *testing.T) {
	n := node.NewString([]byte("a\nb\"c\x01d"))
	got, err := JSON(n, JSONOpt{})
	if err != nil {
		t.Fatal(err)
	}
	want := "\"a\\nb\\\"c\\u0001d\""
	if string(got) != want {
		t.Errorf("got %s want %s", got, want)
	}
}

func TestJSONNoEscapePassesHighBytesThrough(t *testing.T) {
	n := node.NewString([]byte{0xC3, 0xA9}) // UTF-8 for é
	got, err := JSON(n, JSONOpt{NoEscape: true})
	if err != nil {
		t.Fatal(err)
	}
	want := "\"\xC3\xA9\""
	if string(got) != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestJSONEmptyContainers(t *testing.T) {
	for _, tc := range []struct {
		n    *node.Node
		want string
	}{
		{node.NewArray(), "[]"},
		{node.NewDict(), "{}"},
	} {
		got, err := JSON(tc.n, JSONOpt{Indent: "  ", Newline: "\n"})
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != tc.want {
			t.Errorf("got %s want %s", got, tc.want)
		}
	}
}

func TestMemoryUsageGrowsWithContent(t *testing.T) {
	small := node.NewString([]byte("a"))
	big := node.NewString([]byte("a much longer string value"))
	if MemoryUsage(big) <= MemoryUsage(small) {
		t.Errorf("expected larger string to use more memory: %d vs %d", MemoryUsage(big), MemoryUsage(small))
	}
}

func TestMemoryUsageCountsContainerCapacity(t *testing.T) {
	arr := node.NewArray()
	for i := 0; i < 10; i++ {
		_ = node.ArrayAppend(arr, node.NewInt(int64(i)))
	}
	if MemoryUsage(arr) <= MemoryUsage(node.NewArray()) {
		t.Error("expected populated array to use more memory than an empty one")
	}
}

type recordingReply struct {
	events []string
}

func (r *recordingReply) Null()              { r.events = append(r.events, "null") }
func (r *recordingReply) SimpleString(s string) { r.events = append(r.events, "simple:"+s) }
func (r *recordingReply) BulkString(b []byte)   { r.events = append(r.events, "bulk:"+string(b)) }
func (r *recordingReply) Integer(i int64)       { r.events = append(r.events, "int") }
func (r *recordingReply) Double(f float64)      { r.events = append(r.events, "double") }
func (r *recordingReply) BeginArray(n int)      { r.events = append(r.events, "arr-begin") }
func (r *recordingReply) EndArray()             { r.events = append(r.events, "arr-end") }

func TestReplyFlattensDictToKeyValuePairs(t *testing.T) {
	d := node.NewDict()
	_ = node.DictSet(d, []byte("k"), node.NewInt(1))
	rec := &recordingReply{}
	Reply(d, rec)
	want := []string{"arr-begin", "bulk:k", "int", "arr-end"}
	if len(rec.events) != len(want) {
		t.Fatalf("got %v want %v", rec.events, want)
	}
	for i, w := range want {
		if rec.events[i] != w {
			t.Errorf("event %d: got %s want %s", i, rec.events[i], w)
		}
	}
}
