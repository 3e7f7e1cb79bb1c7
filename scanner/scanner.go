// Package scanner implements the byte-level lexer: a lazy sequence of
// tokens pulled on demand from a source buffer, with at most two bytes of
// lookahead.
package scanner

import (
	"rlox/rlerr"
	"rlox/token"
)

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }

// Scanner produces Tokens on demand from a source byte buffer. It is the
// sole owner of the scanning position; the compiler only ever holds the
// two tokens it has pulled (previous, current).
type Scanner struct {
	source []byte
	start  int
	pos    int
	line   uint32
}

// New creates a Scanner over src, starting at line 1.
func New(src string) *Scanner {
	return &Scanner{source: []byte(src), line: 1}
}

func (s *Scanner) atEnd() bool { return s.pos >= len(s.source) }

func (s *Scanner) advance() byte {
	c := s.source[s.pos]
	s.pos++
	return c
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.source[s.pos]
}

func (s *Scanner) peekNext() byte {
	if s.pos+1 >= len(s.source) {
		return 0
	}
	return s.source[s.pos+1]
}

func (s *Scanner) match(expected byte) bool {
	if s.atEnd() || s.source[s.pos] != expected {
		return false
	}
	s.pos++
	return true
}

func (s *Scanner) skipWhitespaceAndComments() {
	for !s.atEnd() {
		switch s.peek() {
		case ' ', '\t', '\r':
			s.advance()
		case '\n':
			s.line++
			s.advance()
		case '/':
			if s.peekNext() == '/' {
				for s.peek() != '\n' && !s.atEnd() {
					s.advance()
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func (s *Scanner) makeToken(t token.Type) token.Token {
	return token.Token{Type: t, Lexeme: string(s.source[s.start:s.pos]), Line: s.line}
}

// ScanToken advances past whitespace and comments and returns the next
// token, or a rlerr.ScanError for a malformed token. Returns an EOF token
// (never an error) once the buffer is exhausted.
func (s *Scanner) ScanToken() (token.Token, error) {
	s.skipWhitespaceAndComments()
	s.start = s.pos

	if s.atEnd() {
		return s.makeToken(token.EOF), nil
	}

	c := s.advance()

	switch {
	case isAlpha(c):
		return s.identifier(), nil
	case isDigit(c):
		return s.number(), nil
	}

	switch c {
	case '(':
		return s.makeToken(token.LeftParen), nil
	case ')':
		return s.makeToken(token.RightParen), nil
	case '{':
		return s.makeToken(token.LeftBrace), nil
	case '}':
		return s.makeToken(token.RightBrace), nil
	case ',':
		return s.makeToken(token.Comma), nil
	case '.':
		return s.makeToken(token.Dot), nil
	case '-':
		return s.makeToken(token.Minus), nil
	case '+':
		return s.makeToken(token.Plus), nil
	case ';':
		return s.makeToken(token.Semicolon), nil
	case '*':
		return s.makeToken(token.Star), nil
	case '/':
		return s.makeToken(token.Slash), nil
	case '?':
		return s.makeToken(token.Question), nil
	case ':':
		return s.makeToken(token.Colon), nil
	case '!':
		if s.match('=') {
			return s.makeToken(token.BangEqual), nil
		}
		return s.makeToken(token.Bang), nil
	case '=':
		if s.match('=') {
			return s.makeToken(token.EqualEqual), nil
		}
		return s.makeToken(token.Equal), nil
	case '<':
		if s.match('=') {
			return s.makeToken(token.LessEqual), nil
		}
		return s.makeToken(token.Less), nil
	case '>':
		if s.match('=') {
			return s.makeToken(token.GreaterEqual), nil
		}
		return s.makeToken(token.Greater), nil
	case '"':
		return s.str()
	}

	return token.Token{}, rlerr.ScanError{Line: s.line, Msg: "unknown token"}
}

func (s *Scanner) identifier() token.Token {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	lexeme := string(s.source[s.start:s.pos])
	if kw, ok := token.Keywords[lexeme]; ok {
		return s.makeToken(kw)
	}
	return s.makeToken(token.Identifier)
}

// number scans one or more digits, optionally followed by a '.' and one or
// more digits. A trailing dot with no fractional digit (e.g. "1.") is not
// part of the number: only the digits before it are consumed, so "1." lexes
// as Number("1") followed by a Dot token. Parsing the lexeme as an IEEE-754
// double is the compiler's job, not the scanner's.
func (s *Scanner) number() token.Token {
	for isDigit(s.peek()) {
		s.advance()
	}

	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}

	return s.makeToken(token.Number)
}

func (s *Scanner) str() (token.Token, error) {
	for s.peek() != '"' && !s.atEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}

	if s.atEnd() {
		return token.Token{}, rlerr.ScanError{Line: s.line, Msg: "Unterminated string"}
	}

	s.advance() // the closing quote
	lexeme := string(s.source[s.start+1 : s.pos-1])
	return token.Token{Type: token.Str, Lexeme: lexeme, Line: s.line}, nil
}
