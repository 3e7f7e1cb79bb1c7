package vm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rlox/chunk"
	"rlox/rlerr"
	"rlox/value"
)

func run(t *testing.T, build func(ch *chunk.Chunk)) (value.Value, error) {
	t.Helper()
	ch := chunk.New()
	build(ch)
	return New(nil).Run(ch)
}

func TestReturnPopsAndReturnsTopValue(t *testing.T) {
	v, err := run(t, func(ch *chunk.Chunk) {
		ch.WriteConstant(value.Number(42), 1)
		ch.Write(byte(chunk.OpReturn), 1)
	})
	require.NoError(t, err)
	assert.Equal(t, value.Number(42), v)
}

func TestArithmeticOperandOrderIsLeftMinusRight(t *testing.T) {
	v, err := run(t, func(ch *chunk.Chunk) {
		ch.WriteConstant(value.Number(10), 1)
		ch.WriteConstant(value.Number(3), 1)
		ch.Write(byte(chunk.OpSubtract), 1)
		ch.Write(byte(chunk.OpReturn), 1)
	})
	require.NoError(t, err)
	assert.Equal(t, 7.0, v.AsNumber())
}

func TestStringConcatenation(t *testing.T) {
	v, err := run(t, func(ch *chunk.Chunk) {
		ch.WriteConstant(value.String("foo"), 1)
		ch.WriteConstant(value.String("bar"), 1)
		ch.Write(byte(chunk.OpAdd), 1)
		ch.Write(byte(chunk.OpReturn), 1)
	})
	require.NoError(t, err)
	assert.Equal(t, "foobar", v.AsString())
}

func TestAddRequiresBothNumbersOrBothStrings(t *testing.T) {
	_, err := run(t, func(ch *chunk.Chunk) {
		ch.WriteConstant(value.Number(1), 7)
		ch.WriteConstant(value.String("a"), 7)
		ch.Write(byte(chunk.OpAdd), 7)
		ch.Write(byte(chunk.OpReturn), 7)
	})
	require.Error(t, err)
	var typeErr rlerr.TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, uint32(7), typeErr.Line)
}

func TestEqualityAcrossTypesIsFalse(t *testing.T) {
	v, err := run(t, func(ch *chunk.Chunk) {
		ch.WriteConstant(value.Number(1), 1)
		ch.Write(byte(chunk.OpTrue), 1)
		ch.Write(byte(chunk.OpEqual), 1)
		ch.Write(byte(chunk.OpReturn), 1)
	})
	require.NoError(t, err)
	assert.False(t, v.AsBool())
}

func TestFalsiness(t *testing.T) {
	cases := []struct {
		name  string
		build func(ch *chunk.Chunk)
		want  bool
	}{
		{"not nil", func(ch *chunk.Chunk) { ch.Write(byte(chunk.OpNil), 1) }, true},
		{"not false", func(ch *chunk.Chunk) { ch.Write(byte(chunk.OpFalse), 1) }, true},
		{"not zero", func(ch *chunk.Chunk) { ch.WriteConstant(value.Number(0), 1) }, false},
		{"not empty string", func(ch *chunk.Chunk) { ch.WriteConstant(value.String(""), 1) }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := run(t, func(ch *chunk.Chunk) {
				tc.build(ch)
				ch.Write(byte(chunk.OpNot), 1)
				ch.Write(byte(chunk.OpReturn), 1)
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want, v.AsBool())
		})
	}
}

func TestNaNGreaterEqualSurprise(t *testing.T) {
	// NaN >= 1 compiles to Less, Not; NaN < 1 is false, so Not gives true.
	v, err := run(t, func(ch *chunk.Chunk) {
		ch.WriteConstant(value.Number(math.NaN()), 1)
		ch.WriteConstant(value.Number(1), 1)
		ch.Write(byte(chunk.OpLess), 1)
		ch.Write(byte(chunk.OpNot), 1)
		ch.Write(byte(chunk.OpReturn), 1)
	})
	require.NoError(t, err)
	assert.True(t, v.AsBool())
}

func TestOrderingRequiresNumericOperands(t *testing.T) {
	_, err := run(t, func(ch *chunk.Chunk) {
		ch.WriteConstant(value.String("a"), 3)
		ch.WriteConstant(value.String("b"), 3)
		ch.Write(byte(chunk.OpLess), 3)
		ch.Write(byte(chunk.OpReturn), 3)
	})
	require.Error(t, err)
	var typeErr rlerr.TypeError
	require.ErrorAs(t, err, &typeErr)
}

func TestUnknownOpcodeIsRuntimeErrorNotPanic(t *testing.T) {
	_, err := run(t, func(ch *chunk.Chunk) {
		ch.Write(0xFE, 5)
	})
	require.Error(t, err)
	var runtimeErr rlerr.RuntimeError
	require.ErrorAs(t, err, &runtimeErr)
	assert.Equal(t, uint32(5), runtimeErr.Line)
}

func TestStackOverflowIsRuntimeError(t *testing.T) {
	_, err := run(t, func(ch *chunk.Chunk) {
		for i := 0; i < stackCapacity+1; i++ {
			ch.WriteConstant(value.Number(float64(i)), 1)
		}
		ch.Write(byte(chunk.OpReturn), 1)
	})
	require.Error(t, err)
	var runtimeErr rlerr.RuntimeError
	require.ErrorAs(t, err, &runtimeErr)
}
