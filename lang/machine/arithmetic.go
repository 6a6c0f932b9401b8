package machine

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Saturating arithmetic for Integer/Byte: overflow clamps to the type's
// min/max rather than wrapping, matching spec.md §5's documented integer
// semantics (division truncates toward zero; division by zero is a
// runtime error, handled separately in ops.go; float arithmetic never
// saturates and division by zero yields IEEE inf/NaN).
//
// Byte (uint8) safely widens into int64 for the add/sub/mul itself, so its
// three operations share one generic clamp; Integer (int64) has no wider
// Go integer type to widen into, so its overflow is instead detected from
// the wrapped result's sign, the classic two's-complement check.

func clamp[T constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func saturatingAddInt(a, b int64) int64 {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		if b > 0 {
			return math.MaxInt64
		}
		return math.MinInt64
	}
	return s
}

func saturatingSubInt(a, b int64) int64 {
	s := a - b
	if (b < 0 && s < a) || (b > 0 && s > a) {
		if b < 0 {
			return math.MaxInt64
		}
		return math.MinInt64
	}
	return s
}

func saturatingMulInt(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	s := a * b
	if s/b != a {
		if (a > 0) == (b > 0) {
			return math.MaxInt64
		}
		return math.MinInt64
	}
	return s
}

func saturatingAddByte(a, b byte) byte {
	return byte(clamp(int64(a)+int64(b), 0, math.MaxUint8))
}

func saturatingSubByte(a, b byte) byte {
	return byte(clamp(int64(a)-int64(b), 0, math.MaxUint8))
}

func saturatingMulByte(a, b byte) byte {
	return byte(clamp(int64(a)*int64(b), 0, math.MaxUint8))
}
