package node

import (
	"fmt"
	"testing"
)

func TestKindString(t *testing.T) {
	for _, tc := range []struct {
		k    Kind
		want string
	}{
		{Null, "null"},
		{Array, "array"},
		{Dict, "object"},
		{numKinds, "<unknown>"},
		{-1, "<unknown>"},
	} {
		t.Run(fmt.Sprintf("%v", tc.k), func(t *testing.T) {
			if got := tc.k.String(); got != tc.want {
				t.Errorf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestScalarAccessors(t *testing.T) {
	if _, err := NewBool(true).AsInt(); err == nil {
		t.Error("expected type error")
	}
	b, err := NewBool(true).AsBool()
	if err != nil || !b {
		t.Errorf("got %v, %v", b, err)
	}
	i, err := NewInt(5).AsDouble()
	if err != nil || i != 5 {
		t.Errorf("got %v, %v", i, err)
	}
	s, err := NewString([]byte("hi")).AsBytes()
	if err != nil || string(s) != "hi" {
		t.Errorf("got %q, %v", s, err)
	}
}

func TestDictSetGetDel(t *testing.T) {
	d := NewDict()
	n, err := Length(d)
	if err != nil || n != 0 {
		t.Fatalf("expected empty dict, got %v %v", n, err)
	}
	if err := DictSet(d, []byte("a"), NewInt(1)); err != nil {
		t.Fatal(err)
	}
	n, _ = Length(d)
	if n != 1 {
		t.Fatalf("expected length 1, got %d", n)
	}
	v, err := DictGet(d, []byte("a"))
	if err != nil || v.Kind() != Int {
		t.Fatalf("got %v %v", v, err)
	}

	// replacing an existing key does not grow the dict
	if err := DictSet(d, []byte("a"), NewInt(2)); err != nil {
		t.Fatal(err)
	}
	n, _ = Length(d)
	if n != 1 {
		t.Fatalf("expected length to stay 1 after replace, got %d", n)
	}
	v, _ = DictGet(d, []byte("a"))
	got, _ := v.AsInt()
	if got != 2 {
		t.Fatalf("expected replaced value 2, got %d", got)
	}

	if err := DictSet(d, []byte("b"), NewInt(3)); err != nil {
		t.Fatal(err)
	}
	if err := DictDel(d, []byte("a")); err != nil {
		t.Fatal(err)
	}
	n, _ = Length(d)
	if n != 1 {
		t.Fatalf("expected length 1 after del, got %d", n)
	}
	if !DictHas(d, []byte("b")) {
		t.Fatal("expected b to survive deletion of a")
	}
	if _, err := DictGet(d, []byte("nope")); err == nil {
		t.Fatal("expected ErrIndex for missing key")
	}
}

func TestArrayInsertShiftsTail(t *testing.T) {
	arr := NewArray()
	for i := 0; i < 5; i++ {
		_ = ArrayAppend(arr, NewInt(int64(i)))
	}
	sub := NewArray()
	_ = ArrayAppend(sub, NewInt(100))
	_ = ArrayAppend(sub, NewInt(101))

	lenBefore, _ := Length(arr)
	if err := ArrayInsert(arr, 2, sub); err != nil {
		t.Fatal(err)
	}
	lenAfter, _ := Length(arr)
	if lenAfter != lenBefore+2 {
		t.Fatalf("expected length to grow by 2, got %d -> %d", lenBefore, lenAfter)
	}
	want := []int64{0, 1, 100, 101, 2, 3, 4}
	for i, w := range want {
		item, err := ArrayItem(arr, i)
		if err != nil {
			t.Fatal(err)
		}
		got, _ := item.AsInt()
		if got != w {
			t.Errorf("index %d: got %d want %d", i, got, w)
		}
	}
	subLen, _ := Length(sub)
	if subLen != 0 {
		t.Errorf("expected sub to be emptied, got length %d", subLen)
	}
}

func TestArrayInsertNegativeIndex(t *testing.T) {
	arr := NewArray()
	for _, v := range []int64{1, 2, 3, 4, 5} {
		_ = ArrayAppend(arr, NewInt(v))
	}
	sub := NewArray()
	_ = ArrayAppend(sub, NewInt(0))
	if err := ArrayInsert(arr, -2, sub); err != nil {
		t.Fatal(err)
	}
	want := []int64{1, 2, 3, 0, 4, 5}
	for i, w := range want {
		item, _ := ArrayItem(arr, i)
		got, _ := item.AsInt()
		if got != w {
			t.Errorf("index %d: got %d want %d", i, got, w)
		}
	}
}

func TestArrayDelRangeNeverTraps(t *testing.T) {
	for _, tc := range []struct {
		start, count, length int
	}{
		{0, 100, 5},
		{-100, 2, 5},
		{3, -1, 5},
		{10, 1, 5},
		{-1, 1, 5},
	} {
		arr := NewArray()
		for i := 0; i < tc.length; i++ {
			_ = ArrayAppend(arr, NewInt(int64(i)))
		}
		if err := ArrayDelRange(arr, tc.start, tc.count); err != nil {
			t.Fatalf("case %+v: unexpected error %v", tc, err)
		}
		n, _ := Length(arr)
		if n < 0 || n > tc.length {
			t.Fatalf("case %+v: length %d out of [0,%d]", tc, n, tc.length)
		}
	}
}

func TestArrayDelRangeTrim(t *testing.T) {
	arr := NewArray()
	for _, v := range []int64{1, 2, 3, 0, 4, 5} {
		_ = ArrayAppend(arr, NewInt(v))
	}
	// ArrTrim(arr, 1, 4) keeps indices [1,4] inclusive -> delete [0,1) and (4,end]
	if err := ArrayDelRange(arr, 4+1, len(arr.elems)); err != nil {
		t.Fatal(err)
	}
	if err := ArrayDelRange(arr, 0, 1); err != nil {
		t.Fatal(err)
	}
	n, _ := Length(arr)
	if n != 4 {
		t.Fatalf("expected length 4, got %d", n)
	}
	want := []int64{2, 3, 0, 4}
	for i, w := range want {
		item, _ := ArrayItem(arr, i)
		got, _ := item.AsInt()
		if got != w {
			t.Errorf("index %d: got %d want %d", i, got, w)
		}
	}
}

func TestArrayIndexNonScalarReturnsNegativeOne(t *testing.T) {
	arr := NewArray()
	_ = ArrayAppend(arr, NewInt(1))
	idx, err := ArrayIndex(arr, NewArray(), 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if idx != -1 {
		t.Errorf("expected -1, got %d", idx)
	}
}

func TestArrayIndexFindsScalar(t *testing.T) {
	arr := NewArray()
	for _, v := range []int64{10, 20, 30} {
		_ = ArrayAppend(arr, NewInt(v))
	}
	idx, err := ArrayIndex(arr, NewInt(20), 0, 3)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 1 {
		t.Errorf("expected index 1, got %d", idx)
	}
}

func TestStringAppendLength(t *testing.T) {
	dst := NewString([]byte("he"))
	src := NewString([]byte("llo"))
	before, _ := Length(dst)
	n, err := StringAppend(dst, src)
	if err != nil {
		t.Fatal(err)
	}
	srcLen, _ := Length(src)
	if n != before+srcLen {
		t.Errorf("expected length %d, got %d", before+srcLen, n)
	}
	got, _ := dst.AsBytes()
	if string(got) != "hello" {
		t.Errorf("expected hello, got %q", got)
	}
}

func TestAddNumericClosure(t *testing.T) {
	sum, err := Add(NewInt(15), NewInt(1))
	if err != nil {
		t.Fatal(err)
	}
	if sum.Kind() != Int {
		t.Fatalf("expected Int for small sum, got %s", sum.Kind())
	}

	sum, err = Add(NewInt(1<<62), NewInt(1<<62))
	if err != nil {
		t.Fatal(err)
	}
	if sum.Kind() != Double {
		t.Fatalf("expected Double on overflow, got %s", sum.Kind())
	}
}

func TestAddNonFiniteRejected(t *testing.T) {
	huge := NewDouble(1.7e308)
	if _, err := Add(huge, huge); err == nil {
		t.Fatal("expected ErrArithmetic for overflow to infinity")
	}
}

func TestMultiplyNumericClosure(t *testing.T) {
	prod, err := Multiply(NewInt(6), NewInt(7))
	if err != nil {
		t.Fatal(err)
	}
	if prod.Kind() != Int {
		t.Fatalf("expected Int for small product, got %s", prod.Kind())
	}
	v, _ := prod.AsInt()
	if v != 42 {
		t.Errorf("got %d, want 42", v)
	}

	prod, err = Multiply(NewInt(1<<62), NewInt(4))
	if err != nil {
		t.Fatal(err)
	}
	if prod.Kind() != Double {
		t.Fatalf("expected Double on overflow, got %s", prod.Kind())
	}
}

func TestMultiplyNonFiniteRejected(t *testing.T) {
	huge := NewDouble(1.7e308)
	if _, err := Multiply(huge, huge); err == nil {
		t.Fatal("expected ErrArithmetic for overflow to infinity")
	}
}

func TestEqual(t *testing.T) {
	a := NewDict()
	_ = DictSet(a, []byte("x"), NewInt(1))
	_ = DictSet(a, []byte("y"), NewInt(2))

	b := NewDict()
	_ = DictSet(b, []byte("y"), NewInt(2))
	_ = DictSet(b, []byte("x"), NewInt(1))

	if !Equal(a, b) {
		t.Error("expected dicts with same pairs in different order to be equal")
	}
}
