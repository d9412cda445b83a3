package expmeta

import (
	"errors"
	"fmt"

	"github.com/perfmeta/expmeta/internal/scan"
)

// ParseTree parses the native metadata syntax into a generic structural
// tree. The reader enforces only the file grammar; it attaches no meaning to
// field names. Callers hand it already-read content; it performs no I/O.
//
// The grammar is a line-oriented superset of JSON: the top level is a
// mapping whose braces may be omitted, keys may be bare identifiers or
// quoted strings, entries are separated by newlines and/or commas, and '#'
// starts a comment. Any JSON object document is therefore also a valid
// metadata document.
func ParseTree(data []byte) (*Value, error) {
	p := &parser{sc: scan.New(data)}
	if err := p.next(); err != nil {
		return nil, err
	}
	if err := p.skipSeparators(); err != nil {
		return nil, err
	}
	if p.tok.Kind == scan.LBrace {
		open := p.tok
		if err := p.next(); err != nil {
			return nil, err
		}
		root, err := p.parseEntries(scan.RBrace, open)
		if err != nil {
			return nil, err
		}
		if err := p.skipSeparators(); err != nil {
			return nil, err
		}
		if p.tok.Kind != scan.EOF {
			return nil, p.errAt(p.tok, "expected end of input after top-level mapping, got %s", p.tok.Kind)
		}
		return root, nil
	}
	root, err := p.parseEntries(scan.EOF, p.tok)
	if err != nil {
		return nil, err
	}
	return root, nil
}

type parser struct {
	sc  *scan.Scanner
	tok scan.Token
}

func (p *parser) next() error {
	t, err := p.sc.Next()
	if err != nil {
		var se *scan.Error
		if errors.As(err, &se) {
			return &ParseError{Offset: se.Offset, Line: se.Line, Col: se.Col, Msg: se.Msg}
		}
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) errAt(t scan.Token, format string, a ...any) error {
	return &ParseError{Offset: t.Offset, Line: t.Line, Col: t.Col, Msg: fmt.Sprintf(format, a...)}
}

// skipSeparators consumes any run of newlines and commas.
func (p *parser) skipSeparators() error {
	for p.tok.Kind == scan.Newline || p.tok.Kind == scan.Comma {
		if err := p.next(); err != nil {
			return err
		}
	}
	return nil
}

// parseEntries parses mapping entries until the end token. For nested
// mappings the caller has consumed '{' and end is RBrace; for the top level
// end is EOF. open locates the construct for unterminated-structure errors.
func (p *parser) parseEntries(end scan.TokenKind, open scan.Token) (*Value, error) {
	v := &Value{Kind: KindMapping, Offset: open.Offset}
	seen := make(map[string]struct{})
	for {
		if err := p.skipSeparators(); err != nil {
			return nil, err
		}
		if p.tok.Kind == end {
			if err := p.next(); err != nil {
				return nil, err
			}
			return v, nil
		}
		if p.tok.Kind == scan.EOF {
			return nil, p.errAt(open, "unterminated mapping")
		}
		keyTok := p.tok
		if keyTok.Kind != scan.Ident && keyTok.Kind != scan.String {
			return nil, p.errAt(keyTok, "expected key, got %s", keyTok.Kind)
		}
		if _, dup := seen[keyTok.Str]; dup {
			return nil, p.errAt(keyTok, "duplicate key %q", keyTok.Str)
		}
		seen[keyTok.Str] = struct{}{}
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.tok.Kind != scan.Colon {
			return nil, p.errAt(p.tok, "expected ':' after key %q, got %s", keyTok.Str, p.tok.Kind)
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		// a newline may follow the colon before the value
		for p.tok.Kind == scan.Newline {
			if err := p.next(); err != nil {
				return nil, err
			}
		}
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		v.Entries = append(v.Entries, Entry{Key: keyTok.Str, Value: val, Offset: keyTok.Offset})
		switch p.tok.Kind {
		case scan.Newline, scan.Comma, end, scan.EOF:
			// separator handling continues at the top of the loop
		default:
			return nil, p.errAt(p.tok, "expected newline, ',' or %s, got %s", end, p.tok.Kind)
		}
	}
}

func (p *parser) parseValue() (*Value, error) {
	tok := p.tok
	switch tok.Kind {
	case scan.LBrace:
		if err := p.next(); err != nil {
			return nil, err
		}
		return p.parseEntries(scan.RBrace, tok)
	case scan.LBracket:
		if err := p.next(); err != nil {
			return nil, err
		}
		return p.parseSequence(tok)
	case scan.String:
		if err := p.next(); err != nil {
			return nil, err
		}
		return &Value{Kind: KindString, Str: tok.Str, Offset: tok.Offset}, nil
	case scan.Int:
		if err := p.next(); err != nil {
			return nil, err
		}
		return &Value{Kind: KindInt, Int: tok.Int, Offset: tok.Offset}, nil
	case scan.Float:
		if err := p.next(); err != nil {
			return nil, err
		}
		return &Value{Kind: KindFloat, Float: tok.Float, Offset: tok.Offset}, nil
	case scan.Bool:
		if err := p.next(); err != nil {
			return nil, err
		}
		return &Value{Kind: KindBool, Bool: tok.Bool, Offset: tok.Offset}, nil
	case scan.Null:
		if err := p.next(); err != nil {
			return nil, err
		}
		return &Value{Kind: KindNull, Offset: tok.Offset}, nil
	default:
		return nil, p.errAt(tok, "expected value, got %s", tok.Kind)
	}
}

func (p *parser) parseSequence(open scan.Token) (*Value, error) {
	v := &Value{Kind: KindSequence, Offset: open.Offset}
	for {
		if err := p.skipSeparators(); err != nil {
			return nil, err
		}
		if p.tok.Kind == scan.RBracket {
			if err := p.next(); err != nil {
				return nil, err
			}
			return v, nil
		}
		if p.tok.Kind == scan.EOF {
			return nil, p.errAt(open, "unterminated sequence")
		}
		el, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		v.Elems = append(v.Elems, el)
		switch p.tok.Kind {
		case scan.Newline, scan.Comma, scan.RBracket:
		case scan.EOF:
			return nil, p.errAt(open, "unterminated sequence")
		default:
			return nil, p.errAt(p.tok, "expected newline, ',' or ']', got %s", p.tok.Kind)
		}
	}
}
