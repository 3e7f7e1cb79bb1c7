// Package debug implements the bytecode disassembler: a human-readable
// dump of a chunk's instructions, used by cmd/rloxtool's disasm verb and
// by the VM's optional instruction trace.
package debug

import (
	"fmt"
	"io"

	"rlox/chunk"
)

// DisassembleChunk writes one line per instruction in ch to w, prefixed by
// name as a header.
func DisassembleChunk(w io.Writer, ch *chunk.Chunk, name string) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < len(ch.Code); {
		offset = DisassembleInstruction(w, ch, offset)
	}
}

// DisassembleInstruction writes the instruction at offset to w and returns
// the offset of the next instruction. It never panics on a malformed
// offset or truncated operand: a short read is reported as "(truncated)"
// rather than indexing out of bounds, since this is also used to trace
// live VM execution.
func DisassembleInstruction(w io.Writer, ch *chunk.Chunk, offset int) int {
	fmt.Fprintf(w, "%04d ", offset)

	line := ch.GetLine(offset)
	if offset > 0 && line == ch.GetLine(offset-1) {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", line)
	}

	if offset < 0 || offset >= len(ch.Code) {
		fmt.Fprintln(w, "(out of range)")
		return offset + 1
	}

	op := chunk.Opcode(ch.Code[offset])
	switch op {
	case chunk.OpConstant:
		return constantInstruction(w, op, ch, offset)
	case chunk.OpConstantLong:
		return constantLongInstruction(w, op, ch, offset)
	default:
		fmt.Fprintln(w, op.String())
		return offset + 1 + op.OperandBytes()
	}
}

func constantInstruction(w io.Writer, op chunk.Opcode, ch *chunk.Chunk, offset int) int {
	next := offset + 1 + op.OperandBytes()
	if next > len(ch.Code) {
		fmt.Fprintf(w, "%-16s (truncated)\n", op.String())
		return len(ch.Code)
	}
	idx := int(ch.Code[offset+1])
	fmt.Fprintf(w, "%-16s %4d '%s'\n", op.String(), idx, constantString(ch, idx))
	return next
}

func constantLongInstruction(w io.Writer, op chunk.Opcode, ch *chunk.Chunk, offset int) int {
	next := offset + 1 + op.OperandBytes()
	if next > len(ch.Code) {
		fmt.Fprintf(w, "%-16s (truncated)\n", op.String())
		return len(ch.Code)
	}
	idx := chunk.ReadU24(ch.Code, offset+1)
	fmt.Fprintf(w, "%-16s %4d '%s'\n", op.String(), idx, constantString(ch, idx))
	return next
}

func constantString(ch *chunk.Chunk, idx int) string {
	if idx < 0 || idx >= len(ch.Constants) {
		return "<invalid constant>"
	}
	return ch.Constants[idx].String()
}
