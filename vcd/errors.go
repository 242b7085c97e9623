package vcd

import (
	"errors"
	"fmt"
)

// Sentinel errors for the structural failure classes a VCD stream can hit.
// Callers match them with errors.Is; the concrete error usually carries the
// line number via SyntaxError.
var (
	// ErrMalformedSyntax indicates a token that cannot be parsed at all.
	ErrMalformedSyntax = errors.New("malformed VCD syntax")

	// ErrUnbalancedScope indicates mismatched $scope/$upscope nesting.
	ErrUnbalancedScope = errors.New("unbalanced scope nesting")

	// ErrInvalidWidth indicates a $var width below one, or a dumped value
	// wider than its declaration.
	ErrInvalidWidth = errors.New("invalid signal width")

	// ErrInvalidValueSymbol indicates a value change containing characters
	// outside the four-state alphabet {0,1,x,z}.
	ErrInvalidValueSymbol = errors.New("invalid value symbol")

	// ErrUnknownIdentifier indicates a value change referencing an
	// identifier code that never appeared in the declaration section.
	// Fatal: alias resolution is undefined for unknown codes, so the
	// stream cannot be interpreted past this point.
	ErrUnknownIdentifier = errors.New("unknown identifier code")
)

// SyntaxError is a parse failure pinned to a line of the input. VCD files
// are otherwise opaque to diagnose, so every fatal parse error carries the
// offset where it was detected.
type SyntaxError struct {
	Line int
	Msg  string
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("vcd: line %d: %s", e.Line, e.Msg)
}

// Unwrap exposes the sentinel class for errors.Is matching.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// syntaxError builds a SyntaxError wrapping the given sentinel.
func syntaxError(line int, sentinel error, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Line: line,
		Msg:  fmt.Sprintf(format, args...),
		Err:  sentinel,
	}
}
