// Package scanner tokenizes OpenDDL source text. It recognizes identifiers,
// %-local and $-global names, numeric, character and string literals,
// punctuation and comments, and reports 1-based line numbers for
// diagnostics. Interpretation of numeric literals against a declared
// primitive type is left to the parser.
package scanner

import (
	"github.com/jacoelho/openddl/errors"
)

// Kind classifies a scanned token.
type Kind int

const (
	// EOF marks the end of the source buffer.
	EOF Kind = iota
	// Identifier is a structure, property, or type keyword.
	Identifier
	// Name is a %-prefixed local or $-prefixed global name; Text keeps
	// the prefix.
	Name
	// Number is an integer, hex, binary, or float literal; Text is the
	// raw literal including an optional leading sign.
	Number
	// Char is a character literal; Value carries the decoded (and
	// possibly negated) byte value.
	Char
	// String is a string literal; Text carries the decoded contents.
	String
	// BraceOpen is '{'.
	BraceOpen
	// BraceClose is '}'.
	BraceClose
	// BracketOpen is '['.
	BracketOpen
	// BracketClose is ']'.
	BracketClose
	// ParenOpen is '('.
	ParenOpen
	// ParenClose is ')'.
	ParenClose
	// Comma is ','.
	Comma
	// Equals is '='.
	Equals
)

// Token is one scanned lexeme with its source line.
type Token struct {
	Kind  Kind
	Text  string
	Value int64 // decoded value for Char tokens
	Line  int
	Float bool // Number token has a fraction or exponent
}

// Scanner reads tokens from an in-memory OpenDDL buffer.
type Scanner struct {
	src  []byte
	pos  int
	line int
}

// New creates a Scanner over src. The scanner does not copy the buffer.
func New(src []byte) *Scanner {
	return &Scanner{src: src, line: 1}
}

// Line returns the current 1-based source line.
func (s *Scanner) Line() int {
	return s.line
}

// Next returns the next token, skipping whitespace and comments. At the end
// of the buffer it returns an EOF token.
func (s *Scanner) Next() (Token, error) {
	if err := s.skipSpace(); err != nil {
		return Token{}, err
	}
	if s.pos >= len(s.src) {
		return Token{Kind: EOF, Line: s.line}, nil
	}

	c := s.src[s.pos]
	switch {
	case isIdentStart(c):
		return s.identifier(), nil
	case c == '%' || c == '$':
		return s.name()
	case c == '"':
		return s.stringLiteral()
	case c == '\'' || c == '+' || c == '-' || c == '.' || isDigit(c):
		return s.numeric()
	}

	switch c {
	case '{':
		return s.punct(BraceOpen), nil
	case '}':
		return s.punct(BraceClose), nil
	case '[':
		return s.punct(BracketOpen), nil
	case ']':
		return s.punct(BracketClose), nil
	case '(':
		return s.punct(ParenOpen), nil
	case ')':
		return s.punct(ParenClose), nil
	case ',':
		return s.punct(Comma), nil
	case '=':
		return s.punct(Equals), nil
	}

	return Token{}, errors.NewParse(s.line, "unexpected character %q", rune(c))
}

func (s *Scanner) punct(kind Kind) Token {
	tok := Token{Kind: kind, Text: string(s.src[s.pos]), Line: s.line}
	s.pos++
	return tok
}

func (s *Scanner) skipSpace() error {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '\n':
			s.line++
			s.pos++
		case c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f':
			s.pos++
		case c == '/' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '/':
			for s.pos < len(s.src) && s.src[s.pos] != '\n' {
				s.pos++
			}
		case c == '/' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '*':
			if err := s.skipBlockComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

func (s *Scanner) skipBlockComment() error {
	start := s.line
	s.pos += 2
	for s.pos < len(s.src) {
		if s.src[s.pos] == '\n' {
			s.line++
		} else if s.src[s.pos] == '*' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '/' {
			s.pos += 2
			return nil
		}
		s.pos++
	}
	return errors.NewParse(start, "unterminated block comment")
}

func (s *Scanner) identifier() Token {
	start := s.pos
	for s.pos < len(s.src) && isIdentChar(s.src[s.pos]) {
		s.pos++
	}
	return Token{Kind: Identifier, Text: string(s.src[start:s.pos]), Line: s.line}
}

func (s *Scanner) name() (Token, error) {
	start := s.pos
	s.pos++
	if s.pos >= len(s.src) || !isIdentStart(s.src[s.pos]) {
		return Token{}, errors.NewParse(s.line, "invalid name")
	}
	for s.pos < len(s.src) && isIdentChar(s.src[s.pos]) {
		s.pos++
	}
	return Token{Kind: Name, Text: string(s.src[start:s.pos]), Line: s.line}, nil
}

func (s *Scanner) stringLiteral() (Token, error) {
	line := s.line
	s.pos++
	var out []byte
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch c {
		case '"':
			s.pos++
			return Token{Kind: String, Text: string(out), Line: line}, nil
		case '\n':
			return Token{}, errors.NewParse(line, "unterminated string literal")
		case '\\':
			b, err := s.escape()
			if err != nil {
				return Token{}, err
			}
			out = append(out, b)
		default:
			out = append(out, c)
			s.pos++
		}
	}
	return Token{}, errors.NewParse(line, "unterminated string literal")
}

// escape decodes one escape sequence starting at the backslash and advances
// past it.
func (s *Scanner) escape() (byte, error) {
	s.pos++
	if s.pos >= len(s.src) {
		return 0, errors.NewParse(s.line, "invalid escape sequence")
	}
	c := s.src[s.pos]
	s.pos++
	switch c {
	case '"':
		return '"', nil
	case '\'':
		return '\'', nil
	case '?':
		return '?', nil
	case '\\':
		return '\\', nil
	case 'a':
		return '\a', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'v':
		return '\v', nil
	case 'x':
		if s.pos+1 >= len(s.src) {
			return 0, errors.NewParse(s.line, "invalid escape sequence")
		}
		hi, okHi := hexDigit(s.src[s.pos])
		lo, okLo := hexDigit(s.src[s.pos+1])
		if !okHi || !okLo {
			return 0, errors.NewParse(s.line, "invalid escape sequence")
		}
		s.pos += 2
		return hi<<4 | lo, nil
	}
	return 0, errors.NewParse(s.line, "invalid escape sequence")
}

// numeric scans a number or character literal, both of which may carry a
// leading sign.
func (s *Scanner) numeric() (Token, error) {
	line := s.line
	start := s.pos
	negative := false
	if c := s.src[s.pos]; c == '+' || c == '-' {
		negative = c == '-'
		s.pos++
		if s.pos >= len(s.src) {
			return Token{}, errors.NewParse(line, "invalid literal")
		}
	}

	if s.src[s.pos] == '\'' {
		value, err := s.charLiteral()
		if err != nil {
			return Token{}, err
		}
		if negative {
			value = -value
		}
		return Token{Kind: Char, Text: string(s.src[start:s.pos]), Value: value, Line: line}, nil
	}

	if !isDigit(s.src[s.pos]) && s.src[s.pos] != '.' {
		return Token{}, errors.NewParse(line, "invalid literal")
	}

	if s.src[s.pos] == '0' && s.pos+1 < len(s.src) && (s.src[s.pos+1] == 'x' || s.src[s.pos+1] == 'X') {
		s.pos += 2
		digits := 0
		for s.pos < len(s.src) {
			if _, ok := hexDigit(s.src[s.pos]); !ok {
				break
			}
			s.pos++
			digits++
		}
		if digits == 0 {
			return Token{}, errors.NewParse(line, "invalid literal")
		}
		return Token{Kind: Number, Text: string(s.src[start:s.pos]), Line: line}, nil
	}

	if s.src[s.pos] == '0' && s.pos+1 < len(s.src) && (s.src[s.pos+1] == 'b' || s.src[s.pos+1] == 'B') {
		s.pos += 2
		digits := 0
		for s.pos < len(s.src) && (s.src[s.pos] == '0' || s.src[s.pos] == '1') {
			s.pos++
			digits++
		}
		if digits == 0 {
			return Token{}, errors.NewParse(line, "invalid literal")
		}
		return Token{Kind: Number, Text: string(s.src[start:s.pos]), Line: line}, nil
	}

	float := false
	for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
		s.pos++
	}
	if s.pos < len(s.src) && s.src[s.pos] == '.' {
		float = true
		s.pos++
		for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
			s.pos++
		}
	}
	if s.pos < len(s.src) && (s.src[s.pos] == 'e' || s.src[s.pos] == 'E') {
		mark := s.pos
		s.pos++
		if s.pos < len(s.src) && (s.src[s.pos] == '+' || s.src[s.pos] == '-') {
			s.pos++
		}
		if s.pos < len(s.src) && isDigit(s.src[s.pos]) {
			float = true
			for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
				s.pos++
			}
		} else {
			s.pos = mark
		}
	}

	text := string(s.src[start:s.pos])
	if text == "." || text == "+." || text == "-." || text == "+" || text == "-" {
		return Token{}, errors.NewParse(line, "invalid literal")
	}
	return Token{Kind: Number, Text: text, Line: line, Float: float}, nil
}

// charLiteral decodes a quoted character literal and advances past it.
func (s *Scanner) charLiteral() (int64, error) {
	line := s.line
	s.pos++
	if s.pos >= len(s.src) {
		return 0, errors.NewParse(line, "invalid character literal")
	}

	var value byte
	switch s.src[s.pos] {
	case '\'', '\n':
		return 0, errors.NewParse(line, "invalid character literal")
	case '\\':
		b, err := s.escape()
		if err != nil {
			return 0, err
		}
		value = b
	default:
		value = s.src[s.pos]
		s.pos++
	}

	if s.pos >= len(s.src) || s.src[s.pos] != '\'' {
		return 0, errors.NewParse(line, "invalid character literal")
	}
	s.pos++
	return int64(value), nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
