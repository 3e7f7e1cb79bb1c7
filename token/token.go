// Package token defines the lexical token vocabulary shared by the scanner
// and the compiler.
package token

import "fmt"

// Type identifies the lexical category of a Token.
type Type int

const (
	// single-character punctuation
	LeftParen Type = iota
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star
	Question
	Colon

	// one-or-two-character operators
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// literals
	Identifier
	Str
	Number

	// keywords
	And
	Class
	Else
	False
	For
	Fun
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While

	EOF
)

var names = [...]string{
	LeftParen:    "(",
	RightParen:   ")",
	LeftBrace:    "{",
	RightBrace:   "}",
	Comma:        ",",
	Dot:          ".",
	Minus:        "-",
	Plus:         "+",
	Semicolon:    ";",
	Slash:        "/",
	Star:         "*",
	Question:     "?",
	Colon:        ":",
	Bang:         "!",
	BangEqual:    "!=",
	Equal:        "=",
	EqualEqual:   "==",
	Greater:      ">",
	GreaterEqual: ">=",
	Less:         "<",
	LessEqual:    "<=",
	Identifier:   "IDENTIFIER",
	Str:          "STRING",
	Number:       "NUMBER",
	And:          "AND",
	Class:        "CLASS",
	Else:         "ELSE",
	False:        "FALSE",
	For:          "FOR",
	Fun:          "FUN",
	If:           "IF",
	Nil:          "NIL",
	Or:           "OR",
	Print:        "PRINT",
	Return:       "RETURN",
	Super:        "SUPER",
	This:         "THIS",
	True:         "TRUE",
	Var:          "VAR",
	While:        "WHILE",
	EOF:          "EOF",
}

// String returns a human-readable name for the token type, used when a
// Token is rendered with Token.String.
func (t Type) String() string {
	if int(t) >= 0 && int(t) < len(names) && names[t] != "" {
		return names[t]
	}
	return fmt.Sprintf("TYPE(%d)", int(t))
}

// Keywords maps reserved identifiers to their keyword token type. Anything
// not in this table that matches the identifier grammar is Identifier.
var Keywords = map[string]Type{
	"and":    And,
	"class":  Class,
	"else":   Else,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
}

// Token is a single lexical unit: its type, its source text, and the line
// the scanner was on when it finished the token. The source text is the
// exact source slice, except for a string literal, whose Lexeme holds only
// the contents between the quotes; a string literal spanning several lines
// carries the line it ends on. Only two tokens are ever alive at once in
// the compiler (previous, current) — the scanner produces them lazily.
type Token struct {
	Type   Type
	Lexeme string
	Line   uint32
}

// String renders the token for debugging, e.g. in rloxtool's tokenize
// output.
func (t Token) String() string {
	return fmt.Sprintf("Token{%s %q line=%d}", t.Type, t.Lexeme, t.Line)
}
