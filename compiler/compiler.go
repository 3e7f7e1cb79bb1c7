// Package compiler implements the single-pass Pratt parser/compiler: it
// consumes tokens from a scanner and emits bytecode directly into a chunk,
// with no intermediate AST.
package compiler

import (
	"errors"
	"strconv"

	"rlox/chunk"
	"rlox/rlerr"
	"rlox/scanner"
	"rlox/token"
	"rlox/value"
)

// ParseFn is a Pratt-table handler: a prefix handler consumes the operand(s)
// of a just-advanced-past token, an infix handler consumes the right-hand
// side of a binary/postfix operator whose left operand is already compiled.
type ParseFn func(*Compiler)

type parseRule struct {
	prefix     ParseFn
	infix      ParseFn
	precedence Precedence
}

// rules is the process-global, read-only parse-rule table, indexed by
// token type. It is built once at package init and shared by every
// Compiler — never copied per instance, since it is hot and immutable.
// Token types with no entry get the Go zero value (nil, nil, PrecNone),
// which is exactly "both slots null with precedence None".
var rules map[token.Type]parseRule

func init() {
	rules = map[token.Type]parseRule{
		token.LeftParen:    {prefix: (*Compiler).grouping, precedence: PrecCall},
		token.Minus:        {prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: PrecTerm},
		token.Plus:         {infix: (*Compiler).binary, precedence: PrecTerm},
		token.Slash:        {infix: (*Compiler).binary, precedence: PrecFactor},
		token.Star:         {infix: (*Compiler).binary, precedence: PrecFactor},
		token.Bang:         {prefix: (*Compiler).unary, precedence: PrecNone},
		token.BangEqual:    {infix: (*Compiler).binary, precedence: PrecEquality},
		token.EqualEqual:   {infix: (*Compiler).binary, precedence: PrecEquality},
		token.Greater:      {infix: (*Compiler).binary, precedence: PrecComparison},
		token.GreaterEqual: {infix: (*Compiler).binary, precedence: PrecComparison},
		token.Less:         {infix: (*Compiler).binary, precedence: PrecComparison},
		token.LessEqual:    {infix: (*Compiler).binary, precedence: PrecComparison},
		token.Number:       {prefix: (*Compiler).number, precedence: PrecNone},
		token.Str:          {prefix: (*Compiler).string, precedence: PrecNone},
		token.True:         {prefix: (*Compiler).literal, precedence: PrecNone},
		token.False:        {prefix: (*Compiler).literal, precedence: PrecNone},
		token.Nil:          {prefix: (*Compiler).literal, precedence: PrecNone},
	}
}

// Compiler parses exactly one expression from a token stream and emits its
// bytecode into a chunk. It keeps only the two tokens the Pratt algorithm
// needs (previous, current); the scanner owns everything else.
type Compiler struct {
	scanner *scanner.Scanner
	chunk   *chunk.Chunk

	previous token.Token
	current  token.Token

	hadError  bool
	panicMode bool
	firstErr  error
}

// New returns a Compiler that will parse src and emit into ch.
func New(src string, ch *chunk.Chunk) *Compiler {
	return &Compiler{scanner: scanner.New(src), chunk: ch}
}

// Compile parses exactly one expression followed by end-of-input, emits
// Return, and returns the chunk along with the first error recorded during
// the pass (nil if none). Further errors after the first are suppressed by
// panic mode but do not stop the scan from running to Eof.
func (c *Compiler) Compile() (*chunk.Chunk, error) {
	c.advance()
	c.expression()
	c.consume(token.EOF, "Expect end of expression.")
	c.emitReturn()

	if c.hadError {
		for c.current.Type != token.EOF {
			c.advance()
		}
		return c.chunk, c.firstErr
	}
	return c.chunk, nil
}

func (c *Compiler) expression() {
	c.parsePrecedence(PrecAssignment)
}

// parsePrecedence is the core Pratt loop: advance once, run the prefix rule
// for the token just consumed, then keep folding in infix operators whose
// precedence is at least p.
func (c *Compiler) parsePrecedence(p Precedence) {
	c.advance()

	prefix := rules[c.previous.Type].prefix
	if prefix == nil {
		c.errorNoRule(c.previous, "Expect expression.")
		return
	}
	prefix(c)

	for {
		rule := rules[c.current.Type]
		if rule.infix == nil || rule.precedence < p {
			break
		}
		c.advance()
		rule.infix(c)
	}
}

// advance moves previous to what is currently current, then pulls the next
// token from the scanner. A ScanError is recovered as a parse error on a
// synthesized error token and the scan simply continues — it never stops
// the compiler from reaching Eof.
func (c *Compiler) advance() {
	c.previous = c.current

	for {
		tok, err := c.scanner.ScanToken()
		if err == nil {
			c.current = tok
			return
		}
		var scanErr rlerr.ScanError
		if errors.As(err, &scanErr) {
			c.errorFromScan(scanErr)
			continue
		}
		c.errorFromScan(rlerr.ScanError{Line: c.current.Line, Msg: err.Error()})
		return
	}
}

// consume advances past current if it has type t, otherwise records a
// ParseError at current (a missing expected token, e.g. ')').
func (c *Compiler) consume(t token.Type, msg string) {
	if c.current.Type == t {
		c.advance()
		return
	}
	c.errorAt(c.current, msg)
}

// errorAt records a ParseError: a missing or unexpected token where some
// specific token was expected. Swallowed once panicMode is set.
func (c *Compiler) errorAt(tok token.Token, msg string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true
	err := rlerr.ParseError{Line: tok.Line, Lexeme: tok.Lexeme, AtEnd: tok.Type == token.EOF, Msg: msg}
	if c.firstErr == nil {
		c.firstErr = err
	}
}

// errorNoRule records a ParseRuleError: the current token has no prefix
// parse rule at all, so no expression can start here.
func (c *Compiler) errorNoRule(tok token.Token, msg string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true
	err := rlerr.ParseRuleError{Line: tok.Line, Lexeme: tok.Lexeme, AtEnd: tok.Type == token.EOF, Msg: msg}
	if c.firstErr == nil {
		c.firstErr = err
	}
}

// errorFromScan recovers a scanner failure as a parse error on a
// synthesized, lexeme-less error token.
func (c *Compiler) errorFromScan(se rlerr.ScanError) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true
	err := rlerr.ParseError{Line: se.Line, Msg: se.Msg}
	if c.firstErr == nil {
		c.firstErr = err
	}
}

func (c *Compiler) emitByte(b byte) {
	c.chunk.Write(b, c.previous.Line)
}

func (c *Compiler) emitByteAt(b byte, line uint32) {
	c.chunk.Write(b, line)
}

func (c *Compiler) emitReturn() {
	c.emitByte(byte(chunk.OpReturn))
}

func (c *Compiler) grouping() {
	c.expression()
	c.consume(token.RightParen, "Expect ')' after expression.")
}

func (c *Compiler) unary() {
	opType := c.previous.Type
	line := c.previous.Line
	c.parsePrecedence(PrecUnary)
	switch opType {
	case token.Minus:
		c.emitByteAt(byte(chunk.OpNegate), line)
	case token.Bang:
		c.emitByteAt(byte(chunk.OpNot), line)
	}
}

// binary compiles the right-hand operand at one precedence level above the
// operator's own (left-associative), then emits the operator. != is
// Equal+Not; >= is Less+Not; <= is Greater+Not — the asymmetric
// compilation spelled out by the opcode table.
func (c *Compiler) binary() {
	opType := c.previous.Type
	line := c.previous.Line
	rule := rules[opType]
	c.parsePrecedence(rule.precedence + 1)

	switch opType {
	case token.Plus:
		c.emitByteAt(byte(chunk.OpAdd), line)
	case token.Minus:
		c.emitByteAt(byte(chunk.OpSubtract), line)
	case token.Star:
		c.emitByteAt(byte(chunk.OpMultiply), line)
	case token.Slash:
		c.emitByteAt(byte(chunk.OpDivide), line)
	case token.EqualEqual:
		c.emitByteAt(byte(chunk.OpEqual), line)
	case token.BangEqual:
		c.emitByteAt(byte(chunk.OpEqual), line)
		c.emitByteAt(byte(chunk.OpNot), line)
	case token.Greater:
		c.emitByteAt(byte(chunk.OpGreater), line)
	case token.GreaterEqual:
		c.emitByteAt(byte(chunk.OpLess), line)
		c.emitByteAt(byte(chunk.OpNot), line)
	case token.Less:
		c.emitByteAt(byte(chunk.OpLess), line)
	case token.LessEqual:
		c.emitByteAt(byte(chunk.OpGreater), line)
		c.emitByteAt(byte(chunk.OpNot), line)
	}
}

// number parses the previous token's lexeme as an IEEE-754 double and
// emits it as a constant. A range overflow (e.g. a literal too large to
// represent) still yields a usable +/-Inf value from strconv and is not
// treated as failure; only a malformed lexeme — which the scanner's own
// grammar should never produce — raises ParseFloatError.
func (c *Compiler) number() {
	line := c.previous.Line
	lexeme := c.previous.Lexeme

	n, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		var numErr *strconv.NumError
		if !(errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange)) {
			if !c.panicMode {
				c.panicMode = true
				c.hadError = true
				fe := rlerr.ParseFloatError{Line: line, Lexeme: lexeme, Source: err}
				if c.firstErr == nil {
					c.firstErr = fe
				}
			}
			return
		}
	}

	c.chunk.WriteConstant(value.Number(n), line)
}

// string strips nothing further: the scanner already stripped the
// surrounding quotes, so the lexeme is the string's raw contents.
func (c *Compiler) string() {
	c.chunk.WriteConstant(value.String(c.previous.Lexeme), c.previous.Line)
}

func (c *Compiler) literal() {
	switch c.previous.Type {
	case token.Nil:
		c.emitByte(byte(chunk.OpNil))
	case token.True:
		c.emitByte(byte(chunk.OpTrue))
	case token.False:
		c.emitByte(byte(chunk.OpFalse))
	}
}
