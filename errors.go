package expmeta

import (
	"errors"
	"fmt"
	"strings"
)

// Violation codes (exported consts for IDE completion and type safety by convention)
const (
	CodeMissingRequiredField = "missing_required_field"
	CodeWrongType            = "wrong_type"
	CodeUnknownField         = "unknown_field"
	CodeDuplicateIdentifier  = "duplicate_identifier"
	CodeDanglingReference    = "dangling_reference"
	CodeCycleDetected        = "cycle_detected"
	CodeOutOfRange           = "out_of_range"
)

// ParseError reports a native-syntax violation. Parsing stops at the first
// syntax error; there is no best-effort recovery because a malformed token
// makes the rest of the tree unreliable.
type ParseError struct {
	Offset int64 // byte offset into the input
	Line   int   // 1-based
	Col    int   // 1-based
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, col %d (offset %d): %s", e.Line, e.Col, e.Offset, e.Msg)
}

// AsParseError extracts a *ParseError from an error using errors.As internally.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// Issue represents a single schema/invariant violation.
type Issue struct {
	Path    string // dotted path into the tree, e.g. topology.children[2].entryRegion
	Code    string // one of the codes listed above
	Message string
	Hint    string         // optional: remediation hints, expected literals, etc.
	Params  map[string]any // structured parameters (e.g. {"id":"r1"}) for observability
}

// Issues is a collection of validation violations that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. dangling_reference at topology.entryRegion
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
