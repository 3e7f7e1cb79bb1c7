// Package vm implements the stack-based bytecode interpreter: a dispatch
// loop over a chunk's instruction stream covering the full opcode set.
package vm

import (
	"fmt"
	"io"

	"rlox/chunk"
	"rlox/debug"
	"rlox/rlerr"
	"rlox/value"
)

// VM executes one chunk to completion and produces the single value left by
// its Return instruction. A VM is single-use: call Run once per chunk, the
// way the REPL allocates a fresh VM per line.
type VM struct {
	chunk *chunk.Chunk
	ip    int
	stack *Stack

	// trace, when non-nil, receives a disassembly of every instruction and
	// the stack contents immediately before it executes. An io.Writer
	// rather than a bool flag so tests can capture the trace instead of it
	// always going to stdout.
	trace io.Writer
}

// New returns a VM. If trace is non-nil, each instruction is disassembled
// to it before execution.
func New(trace io.Writer) *VM {
	return &VM{trace: trace}
}

// Run executes ch from its first byte and returns the value popped by its
// Return instruction. An unknown opcode byte is a RuntimeError, not a
// fatal assertion (spec's resolved open question).
func (vm *VM) Run(ch *chunk.Chunk) (value.Value, error) {
	vm.chunk = ch
	vm.ip = 0
	vm.stack = newStack()

	for {
		if vm.ip >= len(ch.Code) {
			return value.Nil, rlerr.RuntimeError{Line: vm.lastLine(), Msg: "ran off the end of the chunk without a Return"}
		}

		if vm.trace != nil {
			fmt.Fprintf(vm.trace, "          %v\n", vm.traceStack())
			debug.DisassembleInstruction(vm.trace, ch, vm.ip)
		}

		op := chunk.Opcode(ch.Code[vm.ip])
		vm.ip++

		switch op {
		case chunk.OpReturn:
			v, err := vm.pop()
			if err != nil {
				return value.Nil, err
			}
			return v, nil

		case chunk.OpConstant:
			idx := int(ch.Code[vm.ip])
			vm.ip++
			if err := vm.pushErr(ch.Constants[idx]); err != nil {
				return value.Nil, err
			}

		case chunk.OpConstantLong:
			idx := chunk.ReadU24(ch.Code, vm.ip)
			vm.ip += 3
			if err := vm.pushErr(ch.Constants[idx]); err != nil {
				return value.Nil, err
			}

		case chunk.OpNil:
			if err := vm.pushErr(value.Nil); err != nil {
				return value.Nil, err
			}

		case chunk.OpTrue:
			if err := vm.pushErr(value.Bool(true)); err != nil {
				return value.Nil, err
			}

		case chunk.OpFalse:
			if err := vm.pushErr(value.Bool(false)); err != nil {
				return value.Nil, err
			}

		case chunk.OpNegate:
			if err := vm.negate(); err != nil {
				return value.Nil, err
			}

		case chunk.OpNot:
			if err := vm.not(); err != nil {
				return value.Nil, err
			}

		case chunk.OpAdd:
			if err := vm.add(); err != nil {
				return value.Nil, err
			}

		case chunk.OpSubtract, chunk.OpMultiply, chunk.OpDivide:
			if err := vm.arithmetic(op); err != nil {
				return value.Nil, err
			}

		case chunk.OpEqual:
			if err := vm.equal(); err != nil {
				return value.Nil, err
			}

		case chunk.OpGreater, chunk.OpLess:
			if err := vm.compare(op); err != nil {
				return value.Nil, err
			}

		default:
			return value.Nil, rlerr.RuntimeError{Line: vm.currentLine(), Msg: fmt.Sprintf("unknown opcode byte %d", byte(op))}
		}
	}
}

func (vm *VM) pushErr(v value.Value) error {
	if !vm.stack.push(v) {
		return rlerr.RuntimeError{Line: vm.currentLine(), Msg: "stack overflow"}
	}
	return nil
}

func (vm *VM) pop() (value.Value, error) {
	v, ok := vm.stack.pop()
	if !ok {
		return value.Nil, rlerr.RuntimeError{Line: vm.currentLine(), Msg: "stack underflow"}
	}
	return v, nil
}

// currentLine attributes an in-flight failure to the source line of the
// instruction that raised it. ip already points at the byte after the
// failing opcode (and its operand, if decoded) by the time any operator
// runs, matching the attribution rule used throughout.
func (vm *VM) currentLine() uint32 {
	ip := vm.ip - 1
	if ip >= len(vm.chunk.Code) {
		ip = len(vm.chunk.Code) - 1
	}
	if ip < 0 {
		ip = 0
	}
	return vm.chunk.GetLine(ip)
}

func (vm *VM) lastLine() uint32 {
	if len(vm.chunk.Code) == 0 {
		return 1
	}
	return vm.chunk.GetLine(len(vm.chunk.Code) - 1)
}

func (vm *VM) negate() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if !v.IsNumber() {
		return rlerr.TypeError{Line: vm.currentLine(), Msg: "operand to unary '-' must be a number"}
	}
	return vm.pushErr(value.Number(-v.AsNumber()))
}

func (vm *VM) not() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	return vm.pushErr(value.Bool(!v.Truthy()))
}

// add implements + per the table: string + string concatenates, otherwise
// both operands must be numbers.
func (vm *VM) add() error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	if a.IsString() && b.IsString() {
		return vm.pushErr(value.String(a.AsString() + b.AsString()))
	}
	if !a.IsNumber() || !b.IsNumber() {
		return rlerr.TypeError{Line: vm.currentLine(), Msg: "operands to '+' must both be numbers or both be strings"}
	}
	return vm.pushErr(value.Number(a.AsNumber() + b.AsNumber()))
}

// arithmetic implements -, *, / : both operands must be numbers. Operands
// are popped right-then-left; the result is left ⊕ right.
func (vm *VM) arithmetic(op chunk.Opcode) error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	if !a.IsNumber() || !b.IsNumber() {
		return rlerr.TypeError{Line: vm.currentLine(), Msg: "operands must be numbers"}
	}
	var result float64
	switch op {
	case chunk.OpSubtract:
		result = a.AsNumber() - b.AsNumber()
	case chunk.OpMultiply:
		result = a.AsNumber() * b.AsNumber()
	case chunk.OpDivide:
		result = a.AsNumber() / b.AsNumber()
	}
	return vm.pushErr(value.Number(result))
}

func (vm *VM) equal() error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	return vm.pushErr(value.Bool(a.Equal(b)))
}

// compare implements > and < : cross-type or non-numeric ordering is a
// TypeError. Note the deliberate IEEE-754 surprise this enables for the
// compiler's >= / <= expansion: NaN < x and NaN > x are both false, so
// `NaN >= x` (compiled as Less, Not) evaluates to true.
func (vm *VM) compare(op chunk.Opcode) error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	if !a.IsNumber() || !b.IsNumber() {
		return rlerr.TypeError{Line: vm.currentLine(), Msg: "operands must be numbers"}
	}
	var result bool
	if op == chunk.OpGreater {
		result = a.AsNumber() > b.AsNumber()
	} else {
		result = a.AsNumber() < b.AsNumber()
	}
	return vm.pushErr(value.Bool(result))
}

func (vm *VM) traceStack() []string {
	out := make([]string, vm.stack.depth())
	for i, v := range vm.stack.values {
		out[i] = "[ " + v.String() + " ]"
	}
	return out
}
