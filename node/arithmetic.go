package node

import (
	"fmt"
	"math"
)

// Add returns a+b. If both operands are Int and the exact sum fits in a
// signed 64-bit integer, the result is Int; otherwise it is Double. Returns
// ErrArithmetic if either operand is non-numeric or the result is
// non-finite.
func Add(a, b *Node) (*Node, error) {
	if a.Kind() == Int && b.Kind() == Int {
		sum, ok := addInt64(a.intValue, b.intValue)
		if ok {
			return NewInt(sum), nil
		}
		return finiteDouble(float64(a.intValue) + float64(b.intValue))
	}
	x, err := a.AsDouble()
	if err != nil {
		return nil, fmt.Errorf("%w: left operand not numeric", ErrArithmetic)
	}
	y, err := b.AsDouble()
	if err != nil {
		return nil, fmt.Errorf("%w: right operand not numeric", ErrArithmetic)
	}
	return finiteDouble(x + y)
}

// Multiply mirrors Add's Int/Double promotion rules for a*b.
func Multiply(a, b *Node) (*Node, error) {
	if a.Kind() == Int && b.Kind() == Int {
		prod, ok := mulInt64(a.intValue, b.intValue)
		if ok {
			return NewInt(prod), nil
		}
		return finiteDouble(float64(a.intValue) * float64(b.intValue))
	}
	x, err := a.AsDouble()
	if err != nil {
		return nil, fmt.Errorf("%w: left operand not numeric", ErrArithmetic)
	}
	y, err := b.AsDouble()
	if err != nil {
		return nil, fmt.Errorf("%w: right operand not numeric", ErrArithmetic)
	}
	return finiteDouble(x * y)
}

func finiteDouble(v float64) (*Node, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w: result is not finite", ErrArithmetic)
	}
	return NewDouble(v), nil
}

func addInt64(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == math.MinInt64 && b == -1) || (b == math.MinInt64 && a == -1) {
		return 0, false
	}
	p := a * b
	if p/b != a {
		return 0, false
	}
	return p, true
}
