// Package interpret wires the compiler and VM together into the single
// entry point cmd/rlox drives: compile one source string, then run it,
// producing one value or a classified error.
package interpret

import (
	"errors"
	"io"

	"rlox/chunk"
	"rlox/compiler"
	"rlox/rlerr"
	"rlox/value"
	"rlox/vm"
)

// Source compiles and runs src, returning the single value left on the
// stack by its Return instruction. A compile-phase failure (the
// ScanError-derived ParseError, ParseRuleError, or ParseFloatError the
// compiler recorded) is returned as a rlerr.CompileError carrying that
// error's line and formatted message, so callers can test for it with
// rlerr.IsCompile without string-sniffing; the original error value is not
// wrapped. A runtime failure is returned as-is (rlerr.TypeError or
// rlerr.RuntimeError).
//
// Each call gets a fresh Chunk and a fresh VM: nothing is carried across
// calls. This is the resolved answer to the "REPL chunk reuse" open
// question — a REPL driver should call Source once per line rather than
// accumulating one Chunk across a session.
func Source(src string) (value.Value, error) {
	return SourceTraced(src, nil)
}

// SourceTraced is Source with an optional VM instruction trace sink.
func SourceTraced(src string, trace io.Writer) (value.Value, error) {
	ch := chunk.New()
	c := compiler.New(src, ch)

	compiled, err := c.Compile()
	if err != nil {
		return value.Nil, toCompileError(err)
	}

	machine := vm.New(trace)
	return machine.Run(compiled)
}

func toCompileError(err error) error {
	line := uint32(1)
	var parseErr rlerr.ParseError
	var ruleErr rlerr.ParseRuleError
	var floatErr rlerr.ParseFloatError
	switch {
	case errors.As(err, &parseErr):
		line = parseErr.Line
	case errors.As(err, &ruleErr):
		line = ruleErr.Line
	case errors.As(err, &floatErr):
		line = floatErr.Line
	}
	return rlerr.CompileError{Line: line, Msg: err.Error()}
}
