// Package chunk implements the bytecode container: an append-only
// instruction byte vector, a parallel constant pool, and a run-length line
// table, plus the table-driven instruction encoding shared by the compiler
// and the VM.
package chunk

import (
	"encoding/binary"
	"fmt"

	"github.com/dolthub/swiss"

	"rlox/value"
)

// MaxConstants is the hard ceiling on the constant pool imposed by the u24
// ConstantLong operand.
const MaxConstants = 1 << 24

// Chunk is the compiled form of one expression: instruction bytes, the
// values those instructions reference, and a line table mapping every
// instruction byte back to the source line that produced it.
type Chunk struct {
	Code      []byte
	Constants []value.Value
	lines     LineTable

	// intern deduplicates equal constants so that compiling the same
	// literal twice (e.g. "foo" + "foo") doesn't grow the pool twice. It
	// is a pure size optimization over the constant pool and never changes
	// which index AddConstant returns for a *new* value, nor the
	// VM-observable semantics of any opcode.
	intern *swiss.Map[value.InternKey, int]
}

// New returns an empty Chunk ready to be written to by the compiler.
func New() *Chunk {
	return &Chunk{intern: swiss.NewMap[value.InternKey, int](8)}
}

// Write appends one instruction byte, recording line as the source line it
// was emitted for.
func (c *Chunk) Write(b byte, line uint32) {
	c.Code = append(c.Code, b)
	c.lines.Add(line)
}

// AddConstant appends value to the constant pool, reusing an existing slot
// if an equal constant was already interned, and returns its index.
func (c *Chunk) AddConstant(v value.Value) int {
	key := v.Key()
	if idx, ok := c.intern.Get(key); ok {
		return idx
	}
	c.Constants = append(c.Constants, v)
	idx := len(c.Constants) - 1
	c.intern.Put(key, idx)
	return idx
}

// WriteConstant appends v to the constant pool and emits the instruction
// that loads it: OpConstant with a u8 index when the pool still fits in a
// byte, OpConstantLong with a u24 big-endian index otherwise. This
// asymmetric encoding is the entire reason OpConstantLong exists.
func (c *Chunk) WriteConstant(v value.Value, line uint32) {
	idx := c.AddConstant(v)
	if idx <= 0xff {
		c.Write(byte(OpConstant), line)
		c.Write(byte(idx), line)
		return
	}
	c.Write(byte(OpConstantLong), line)
	operand := WriteU24(idx)
	c.Write(operand[0], line)
	c.Write(operand[1], line)
	c.Write(operand[2], line)
}

// ReadU24 decodes a 3-byte big-endian operand starting at offset.
func ReadU24(code []byte, offset int) int {
	return int(code[offset])<<16 | int(code[offset+1])<<8 | int(code[offset+2])
}

// WriteU24 encodes n as 3 big-endian bytes. n must fit in 24 bits.
func WriteU24(n int) [3]byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(n))
	return [3]byte{buf[1], buf[2], buf[3]}
}

// GetLine returns the source line attributed to instruction byte i.
func (c *Chunk) GetLine(i int) uint32 {
	return c.lines.Get(i)
}

// String implements a minimal single-line summary for debugging.
func (c *Chunk) String() string {
	return fmt.Sprintf("Chunk{%d bytes, %d constants}", len(c.Code), len(c.Constants))
}
