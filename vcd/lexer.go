package vcd

import (
	"bufio"
	"io"
	"strings"
)

// TokenKind classifies a lexed VCD token.
type TokenKind int

// Token kinds produced by the Lexer.
const (
	// TokenEOF marks the end of the input stream.
	TokenEOF TokenKind = iota

	// TokenCommandStart is a "$"-prefixed keyword such as $scope or
	// $dumpvars. Text holds the keyword without the leading dollar sign.
	TokenCommandStart

	// TokenCommandEnd is the $end keyword closing a command.
	TokenCommandEnd

	// TokenWord is a bare word: a command argument in the declaration
	// section, or the identifier code following a vector value in the
	// dump section.
	TokenWord

	// TokenTimeMarker is a "#<time>" record. Text holds the digits.
	TokenTimeMarker

	// TokenScalarChange is a one-bit value change such as "0!" or "x&".
	// Text holds the whole word: value symbol followed by the code.
	TokenScalarChange

	// TokenVectorChange is the value part of a "b<bits> <code>" record.
	// Text holds the bits; the code arrives as the next TokenWord.
	TokenVectorChange

	// TokenRealChange is the value part of an "r<number> <code>" record.
	// Text holds the number; the code arrives as the next TokenWord.
	TokenRealChange
)

// Token is a single lexed unit with the line it started on.
type Token struct {
	Kind TokenKind
	Text string
	Line int
}

// Lexer splits a VCD byte stream into tokens. It keeps a single forward
// cursor: tokens are produced on demand and there is no way to seek back.
//
// The lexer is mode-sensitive because VCD word classification depends on
// the section: inside the declaration section every non-command word is an
// argument, while in the dump section words starting with 0/1/x/z, b, r or
// # are value-change records. ParseHeader switches the lexer into dump mode
// when it consumes $enddefinitions.
type Lexer struct {
	r    *bufio.Reader
	line int

	dump bool // past $enddefinitions
	// codePending forces the next word to be a plain TokenWord: the
	// identifier code after a vector or real value may start with any
	// printable character (including '#', 'b' or '0') and must not be
	// classified as a new record.
	codePending bool
}

// NewLexer wraps r in a buffered, line-counting tokenizer.
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{
		r:    bufio.NewReader(r),
		line: 1,
	}
}

// Line reports the line number of the cursor, for error reporting.
func (l *Lexer) Line() int {
	return l.line
}

// EnterDumpMode switches word classification to the value-change section.
func (l *Lexer) EnterDumpMode() {
	l.dump = true
}

// Next returns the next token. The end of the input is reported as a
// TokenEOF token with a nil error; read errors are returned as-is.
func (l *Lexer) Next() (Token, error) {
	word, line, err := l.nextWord()
	if err == io.EOF {
		return Token{Kind: TokenEOF, Line: l.line}, nil
	}
	if err != nil {
		return Token{}, err
	}
	return l.classify(word, line)
}

// nextWord skips whitespace and reads one whitespace-delimited word.
func (l *Lexer) nextWord() (string, int, error) {
	// Skip leading whitespace, counting newlines.
	var b byte
	var err error
	for {
		b, err = l.r.ReadByte()
		if err != nil {
			return "", l.line, err
		}
		if b == '\n' {
			l.line++
			continue
		}
		if b == ' ' || b == '\t' || b == '\r' {
			continue
		}
		break
	}

	start := l.line
	var sb strings.Builder
	sb.WriteByte(b)
	for {
		b, err = l.r.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", start, err
		}
		if b == '\n' {
			l.line++
			break
		}
		if b == ' ' || b == '\t' || b == '\r' {
			break
		}
		sb.WriteByte(b)
	}
	return sb.String(), start, nil
}

func (l *Lexer) classify(word string, line int) (Token, error) {
	if l.codePending {
		l.codePending = false
		return Token{Kind: TokenWord, Text: word, Line: line}, nil
	}

	if word[0] == '$' {
		if word == "$end" {
			return Token{Kind: TokenCommandEnd, Text: "end", Line: line}, nil
		}
		if len(word) == 1 {
			return Token{}, syntaxError(line, ErrMalformedSyntax, "bare '$' is not a command")
		}
		return Token{Kind: TokenCommandStart, Text: word[1:], Line: line}, nil
	}

	if !l.dump {
		return Token{Kind: TokenWord, Text: word, Line: line}, nil
	}

	switch word[0] {
	case '#':
		digits := word[1:]
		if digits == "" || !allDigits(digits) {
			return Token{}, syntaxError(line, ErrMalformedSyntax, "bad time marker %q", word)
		}
		return Token{Kind: TokenTimeMarker, Text: digits, Line: line}, nil
	case 'b', 'B':
		if len(word) == 1 {
			return Token{}, syntaxError(line, ErrMalformedSyntax, "vector value %q has no bits", word)
		}
		l.codePending = true
		return Token{Kind: TokenVectorChange, Text: word[1:], Line: line}, nil
	case 'r', 'R':
		if len(word) == 1 {
			return Token{}, syntaxError(line, ErrMalformedSyntax, "real value %q has no number", word)
		}
		l.codePending = true
		return Token{Kind: TokenRealChange, Text: word[1:], Line: line}, nil
	case '0', '1', 'x', 'X', 'z', 'Z':
		if len(word) == 1 {
			return Token{}, syntaxError(line, ErrMalformedSyntax, "scalar value %q has no identifier code", word)
		}
		return Token{Kind: TokenScalarChange, Text: word, Line: line}, nil
	default:
		return Token{}, syntaxError(line, ErrMalformedSyntax, "unexpected word %q in dump section", word)
	}
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
