package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rlox/chunk"
	"rlox/rlerr"
)

func compile(t *testing.T, src string) (*chunk.Chunk, error) {
	t.Helper()
	ch := chunk.New()
	return New(src, ch).Compile()
}

func TestSimpleNumberEmitsConstantAndReturn(t *testing.T) {
	ch, err := compile(t, "1")
	require.NoError(t, err)
	require.Len(t, ch.Constants, 1)
	assert.Equal(t, []byte{byte(chunk.OpConstant), 0, byte(chunk.OpReturn)}, ch.Code)
}

func TestPrecedenceMultiplyBeforeAdd(t *testing.T) {
	ch, err := compile(t, "1 + 2 * 3")
	require.NoError(t, err)
	assert.Equal(t, []byte{
		byte(chunk.OpConstant), 0,
		byte(chunk.OpConstant), 1,
		byte(chunk.OpConstant), 2,
		byte(chunk.OpMultiply),
		byte(chunk.OpAdd),
		byte(chunk.OpReturn),
	}, ch.Code)
}

func TestGroupingOverridesPrecedence(t *testing.T) {
	ch, err := compile(t, "(1 + 2) * 3")
	require.NoError(t, err)
	assert.Equal(t, []byte{
		byte(chunk.OpConstant), 0,
		byte(chunk.OpConstant), 1,
		byte(chunk.OpAdd),
		byte(chunk.OpConstant), 2,
		byte(chunk.OpMultiply),
		byte(chunk.OpReturn),
	}, ch.Code)
}

func TestUnaryNegateAndNot(t *testing.T) {
	ch, err := compile(t, "!-1")
	require.NoError(t, err)
	assert.Equal(t, []byte{
		byte(chunk.OpConstant), 0,
		byte(chunk.OpNegate),
		byte(chunk.OpNot),
		byte(chunk.OpReturn),
	}, ch.Code)
}

func TestBangEqualCompilesToEqualThenNot(t *testing.T) {
	ch, err := compile(t, "1 != 2")
	require.NoError(t, err)
	assert.Equal(t, []byte{
		byte(chunk.OpConstant), 0,
		byte(chunk.OpConstant), 1,
		byte(chunk.OpEqual),
		byte(chunk.OpNot),
		byte(chunk.OpReturn),
	}, ch.Code)
}

func TestGreaterEqualCompilesToLessThenNot(t *testing.T) {
	ch, err := compile(t, "1 >= 2")
	require.NoError(t, err)
	assert.Equal(t, []byte{
		byte(chunk.OpConstant), 0,
		byte(chunk.OpConstant), 1,
		byte(chunk.OpLess),
		byte(chunk.OpNot),
		byte(chunk.OpReturn),
	}, ch.Code)
}

func TestLessEqualCompilesToGreaterThenNot(t *testing.T) {
	ch, err := compile(t, "1 <= 2")
	require.NoError(t, err)
	assert.Equal(t, []byte{
		byte(chunk.OpConstant), 0,
		byte(chunk.OpConstant), 1,
		byte(chunk.OpGreater),
		byte(chunk.OpNot),
		byte(chunk.OpReturn),
	}, ch.Code)
}

func TestStringLiteralEmitsStrConstant(t *testing.T) {
	ch, err := compile(t, `"foo"`)
	require.NoError(t, err)
	require.Len(t, ch.Constants, 1)
	assert.Equal(t, "foo", ch.Constants[0].AsString())
}

func TestLiteralsEmitTheirOwnOpcodes(t *testing.T) {
	ch, err := compile(t, "nil")
	require.NoError(t, err)
	assert.Equal(t, []byte{byte(chunk.OpNil), byte(chunk.OpReturn)}, ch.Code)

	ch, err = compile(t, "true")
	require.NoError(t, err)
	assert.Equal(t, []byte{byte(chunk.OpTrue), byte(chunk.OpReturn)}, ch.Code)

	ch, err = compile(t, "false")
	require.NoError(t, err)
	assert.Equal(t, []byte{byte(chunk.OpFalse), byte(chunk.OpReturn)}, ch.Code)
}

func TestEmptySourceIsCompileError(t *testing.T) {
	_, err := compile(t, "")
	require.Error(t, err)
	var parseErr rlerr.ParseRuleError
	require.ErrorAs(t, err, &parseErr)
	assert.True(t, parseErr.AtEnd)
}

func TestMissingClosingParenReportsErrorAtEnd(t *testing.T) {
	_, err := compile(t, "(1 + 2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error at end: Expect ')' after expression.")
}

func TestOnlyFirstErrorSurvivesPanicMode(t *testing.T) {
	// `@` is an unknown byte (ScanError -> synthesized ParseError), and the
	// missing right-hand operand after `+` would be a second error; only
	// the first should be returned.
	_, err := compile(t, "1 + @")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown token")
}

func TestTrailingDotLeavesADanglingDotToken(t *testing.T) {
	// "1." lexes as Number("1") followed by a Dot token; since this
	// language has no property access, a bare Dot after the expression is
	// an unexpected token, not an unterminated number.
	_, err := compile(t, "1.")
	require.Error(t, err)
	var parseErr rlerr.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Msg, "Expect end of expression.")
}
