// Package scan tokenizes the native metadata syntax. It knows nothing about
// schema semantics; it only turns bytes into tokens carrying byte offsets
// and line/column positions for diagnostics.
package scan

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// TokenKind enumerates token kinds of the native grammar.
type TokenKind int

const (
	EOF TokenKind = iota
	Newline
	LBrace
	RBrace
	LBracket
	RBracket
	Colon
	Comma
	String
	Int
	Float
	Bool
	Null
	Ident
)

func (k TokenKind) String() string {
	switch k {
	case EOF:
		return "end of input"
	case Newline:
		return "newline"
	case LBrace:
		return "'{'"
	case RBrace:
		return "'}'"
	case LBracket:
		return "'['"
	case RBracket:
		return "']'"
	case Colon:
		return "':'"
	case Comma:
		return "','"
	case String:
		return "string"
	case Int:
		return "integer"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Null:
		return "null"
	case Ident:
		return "identifier"
	default:
		return "unknown"
	}
}

// Token is one lexical element. Offset/Line/Col locate its first byte.
type Token struct {
	Kind   TokenKind
	Str    string // String and Ident payload
	Int    int64
	Float  float64
	Bool   bool
	Offset int64
	Line   int // 1-based
	Col    int // 1-based
}

// Error is a lexical error with its position.
type Error struct {
	Offset int64
	Line   int
	Col    int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d, col %d: %s", e.Line, e.Col, e.Msg)
}

// Scanner walks the input once; it performs no I/O.
type Scanner struct {
	src  []byte
	pos  int
	line int
	col  int
}

// New returns a Scanner over src.
func New(src []byte) *Scanner {
	return &Scanner{src: src, line: 1, col: 1}
}

func (s *Scanner) errorf(off int, line, col int, format string, a ...any) error {
	return &Error{Offset: int64(off), Line: line, Col: col, Msg: fmt.Sprintf(format, a...)}
}

func (s *Scanner) advance(n int) {
	for i := 0; i < n; i++ {
		if s.src[s.pos] == '\n' {
			s.line++
			s.col = 1
		} else {
			s.col++
		}
		s.pos++
	}
}

// Next returns the next token, or EOF once the input is exhausted.
func (s *Scanner) Next() (Token, error) {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			s.advance(1)
		case c == '#':
			for s.pos < len(s.src) && s.src[s.pos] != '\n' {
				s.advance(1)
			}
		default:
			goto scan
		}
	}
	return Token{Kind: EOF, Offset: int64(s.pos), Line: s.line, Col: s.col}, nil

scan:
	tok := Token{Offset: int64(s.pos), Line: s.line, Col: s.col}
	c := s.src[s.pos]
	switch {
	case c == '\n':
		tok.Kind = Newline
		s.advance(1)
		return tok, nil
	case c == '{':
		tok.Kind = LBrace
		s.advance(1)
		return tok, nil
	case c == '}':
		tok.Kind = RBrace
		s.advance(1)
		return tok, nil
	case c == '[':
		tok.Kind = LBracket
		s.advance(1)
		return tok, nil
	case c == ']':
		tok.Kind = RBracket
		s.advance(1)
		return tok, nil
	case c == ':':
		tok.Kind = Colon
		s.advance(1)
		return tok, nil
	case c == ',':
		tok.Kind = Comma
		s.advance(1)
		return tok, nil
	case c == '"':
		return s.scanString(tok)
	case c == '-' || (c >= '0' && c <= '9'):
		return s.scanNumber(tok)
	case isIdentStart(c):
		return s.scanIdent(tok)
	default:
		return Token{}, s.errorf(s.pos, s.line, s.col, "unexpected character %q", rune(c))
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c == '-' || (c >= '0' && c <= '9')
}

func (s *Scanner) scanIdent(tok Token) (Token, error) {
	start := s.pos
	for s.pos < len(s.src) && isIdentPart(s.src[s.pos]) {
		s.advance(1)
	}
	word := string(s.src[start:s.pos])
	switch word {
	case "true":
		tok.Kind = Bool
		tok.Bool = true
	case "false":
		tok.Kind = Bool
		tok.Bool = false
	case "null":
		tok.Kind = Null
	default:
		tok.Kind = Ident
		tok.Str = word
	}
	return tok, nil
}

func (s *Scanner) scanNumber(tok Token) (Token, error) {
	start := s.pos
	if s.src[s.pos] == '-' {
		s.advance(1)
	}
	digits := 0
	for s.pos < len(s.src) && s.src[s.pos] >= '0' && s.src[s.pos] <= '9' {
		s.advance(1)
		digits++
	}
	if digits == 0 {
		return Token{}, s.errorf(start, tok.Line, tok.Col, "malformed number")
	}
	isFloat := false
	if s.pos < len(s.src) && s.src[s.pos] == '.' {
		isFloat = true
		s.advance(1)
		frac := 0
		for s.pos < len(s.src) && s.src[s.pos] >= '0' && s.src[s.pos] <= '9' {
			s.advance(1)
			frac++
		}
		if frac == 0 {
			return Token{}, s.errorf(start, tok.Line, tok.Col, "malformed number: missing fraction digits")
		}
	}
	if s.pos < len(s.src) && (s.src[s.pos] == 'e' || s.src[s.pos] == 'E') {
		isFloat = true
		s.advance(1)
		if s.pos < len(s.src) && (s.src[s.pos] == '+' || s.src[s.pos] == '-') {
			s.advance(1)
		}
		exp := 0
		for s.pos < len(s.src) && s.src[s.pos] >= '0' && s.src[s.pos] <= '9' {
			s.advance(1)
			exp++
		}
		if exp == 0 {
			return Token{}, s.errorf(start, tok.Line, tok.Col, "malformed number: missing exponent digits")
		}
	}
	text := string(s.src[start:s.pos])
	if !isFloat {
		n, err := strconv.ParseInt(text, 10, 64)
		if err == nil {
			tok.Kind = Int
			tok.Int = n
			return tok, nil
		}
		// out of int64 range: fall through to float
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Token{}, s.errorf(start, tok.Line, tok.Col, "malformed number %q", text)
	}
	tok.Kind = Float
	tok.Float = f
	return tok, nil
}

func (s *Scanner) scanString(tok Token) (Token, error) {
	s.advance(1) // opening quote
	var b strings.Builder
	for {
		if s.pos >= len(s.src) {
			return Token{}, s.errorf(int(tok.Offset), tok.Line, tok.Col, "unterminated string")
		}
		c := s.src[s.pos]
		if c == '"' {
			s.advance(1)
			str := b.String()
			if !utf8.ValidString(str) {
				return Token{}, s.errorf(int(tok.Offset), tok.Line, tok.Col, "invalid UTF-8 in string")
			}
			tok.Kind = String
			tok.Str = str
			return tok, nil
		}
		if c == '\n' {
			return Token{}, s.errorf(int(tok.Offset), tok.Line, tok.Col, "unterminated string")
		}
		if c == '\\' {
			if s.pos+1 >= len(s.src) {
				return Token{}, s.errorf(int(tok.Offset), tok.Line, tok.Col, "unterminated string")
			}
			esc := s.src[s.pos+1]
			switch esc {
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case '/':
				b.WriteByte('/')
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 'u':
				if s.pos+6 > len(s.src) {
					return Token{}, s.errorf(s.pos, s.line, s.col, "truncated \\u escape")
				}
				hex := string(s.src[s.pos+2 : s.pos+6])
				n, err := strconv.ParseUint(hex, 16, 32)
				if err != nil {
					return Token{}, s.errorf(s.pos, s.line, s.col, "invalid \\u escape %q", hex)
				}
				b.WriteRune(rune(n))
				s.advance(6)
				continue
			default:
				return Token{}, s.errorf(s.pos, s.line, s.col, "invalid escape %q", string(esc))
			}
			s.advance(2)
			continue
		}
		b.WriteByte(c)
		s.advance(1)
	}
}
