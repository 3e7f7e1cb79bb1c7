// Package value defines the runtime value model shared by the compiler's
// constant pool and the VM's stack: a small closed tagged union, switched
// over exhaustively rather than represented through an interface hierarchy.
package value

import (
	"math"
	"strconv"
)

// Kind discriminates the four value cases the language has.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
)

// Value is a copyable tagged variant. There is no object heap distinct from
// the constant pool: strings are copied by value (Go strings are already
// immutable, so "clone" is just a regular assignment).
type Value struct {
	kind   Kind
	number float64
	str    string
	bool_  bool
}

// Nil is the single Nil value.
var Nil = Value{kind: KindNil}

// Bool constructs a Bool value.
func Bool(b bool) Value { return Value{kind: KindBool, bool_: b} }

// Number constructs a Number value.
func Number(n float64) Value { return Value{kind: KindNumber, number: n} }

// String constructs a Str value.
func String(s string) Value { return Value{kind: KindString, str: s} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNil() bool { return v.kind == KindNil }
func (v Value) IsBool() bool { return v.kind == KindBool }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsString() bool { return v.kind == KindString }

// AsBool returns the boolean payload. Only meaningful when IsBool is true.
func (v Value) AsBool() bool { return v.bool_ }

// AsNumber returns the numeric payload. Only meaningful when IsNumber is true.
func (v Value) AsNumber() float64 { return v.number }

// AsString returns the string payload. Only meaningful when IsString is true.
func (v Value) AsString() string { return v.str }

// Truthy implements the language's falsiness rule: Nil and Bool(false) are
// falsey, everything else (including 0 and "") is truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.bool_
	default:
		return true
	}
}

// Equal implements structural equality: tags must match, and payloads must
// compare equal, with IEEE-754 semantics for numbers (NaN != NaN).
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.bool_ == other.bool_
	case KindNumber:
		return v.number == other.number
	case KindString:
		return v.str == other.str
	default:
		return false
	}
}

// String formats the value the way the interpreter prints a result: numbers
// with shortest round-trip formatting, booleans as true/false, nil as nil,
// strings as their raw contents.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.bool_ {
			return "true"
		}
		return "false"
	case KindNumber:
		return strconv.FormatFloat(v.number, 'g', -1, 64)
	case KindString:
		return v.str
	default:
		return "<invalid value>"
	}
}

// InternKey is the comparable key used by chunk's constant-pool interning
// table. Numbers are keyed by their raw bits rather than compared with ==,
// so a NaN key equals itself: NaN constants with identical bits share one
// slot, which no program can observe since the VM's NaN == NaN is false
// either way, keeping interning a pure space optimization.
type InternKey struct {
	Kind   Kind
	Bits   uint64
	Str    string
	Bool   bool
}

// Key returns the comparable interning key for this value.
func (v Value) Key() InternKey {
	switch v.kind {
	case KindNumber:
		return InternKey{Kind: v.kind, Bits: math.Float64bits(v.number)}
	case KindString:
		return InternKey{Kind: v.kind, Str: v.str}
	case KindBool:
		return InternKey{Kind: v.kind, Bool: v.bool_}
	default:
		return InternKey{Kind: v.kind}
	}
}
