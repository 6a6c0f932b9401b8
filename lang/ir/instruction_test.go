package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vellumlang/vellum/lang/types"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	a := Register(3)
	b := Constant(100)
	c := Encoded(5)

	in := Encode(Add, types.OperandInteger, a, b, c)

	assert.Equal(t, Add, in.Operation())
	assert.Equal(t, types.OperandInteger, in.OperandType())
	assert.Equal(t, a, in.A())
	assert.Equal(t, b, in.B())
	assert.Equal(t, c, in.C())
}

func TestEncodeTruncatesOutOfRangeIndex(t *testing.T) {
	// 1<<14 does not fit in the 14-bit field; Encode truncates rather than
	// erroring, so this documents the wraparound instead of hiding it.
	in := Encode(Move, types.OperandInteger, Register(1<<14), Register(0), Register(0))
	assert.Equal(t, uint32(0), in.A().Index)
}

func TestJumpOffsetRoundTrip(t *testing.T) {
	cases := []int32{0, 1, -1, 100, -100, 8191, -8192}
	for _, offset := range cases {
		field := EncodeJumpOffset(offset)
		assert.Equal(t, offset, DecodeJumpOffset(field), "offset %d", offset)
	}
}

func TestFloatRoundTrip(t *testing.T) {
	values := []float64{0, 1.5, -1.5, 3.14159265, -0.0}
	for _, f := range values {
		hi, lo := EncodeFloat(f)
		assert.Equal(t, f, DecodeFloat(hi, lo))
	}
}

func TestOperationString(t *testing.T) {
	assert.Equal(t, "ADD", Add.String())
	assert.Equal(t, "RETURN", Return.String())
}

func TestIsJump(t *testing.T) {
	assert.True(t, Jump.IsJump())
	assert.False(t, Test.IsJump())
	assert.False(t, Equal.IsJump())
}
