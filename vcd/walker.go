package vcd

import (
	"io"
	"strconv"
	"strings"
)

// Change is one value-change event from the dump section, stamped with the
// simulation time that was current when it appeared.
type Change struct {
	// Time in simulation ticks. Non-decreasing across the stream.
	Time uint64
	// Code is the identifier code the change applies to. Look it up with
	// Header.Defs to fan the update out to every alias.
	Code string
	// Bits is the value, left-padded with '0' to the declared width and
	// normalized to lower case over {0,1,x,z}. For real-valued signals it
	// is the opaque numeric string from the dump.
	Bits string
	// Real marks an "r<number>" record.
	Real bool
}

// Walker advances simulation time and signal state in lock-step with the
// token stream, emitting one Change per call. It is pull-based so the
// consumer controls pacing: nothing is read ahead of the last Next call,
// and abandoning a walker mid-stream needs no cleanup beyond closing the
// underlying reader.
//
// A walker owns its lexer cursor exclusively; run one walker per reader.
type Walker struct {
	lex    *Lexer
	header *Header
	now    uint64
}

// NewWalker builds a walker over a lexer that ParseHeader has already
// advanced past $enddefinitions.
func NewWalker(lex *Lexer, header *Header) *Walker {
	return &Walker{lex: lex, header: header}
}

// Now reports the current simulation time, i.e. the time of the last
// change returned.
func (w *Walker) Now() uint64 {
	return w.now
}

// Next returns the next value change. The end of the dump is reported as
// io.EOF. Dump-control commands ($dumpvars, $dumpall, $dumpon, $dumpoff)
// are transparent: the changes they contain are emitted, the command words
// themselves are not.
func (w *Walker) Next() (Change, error) {
	for {
		tok, err := w.lex.Next()
		if err != nil {
			return Change{}, err
		}

		switch tok.Kind {
		case TokenEOF:
			return Change{}, io.EOF

		case TokenTimeMarker:
			t, err := strconv.ParseUint(tok.Text, 10, 64)
			if err != nil {
				return Change{}, syntaxError(tok.Line, ErrMalformedSyntax, "time marker #%s overflows", tok.Text)
			}
			if t < w.now {
				return Change{}, syntaxError(tok.Line, ErrMalformedSyntax, "time marker #%d goes backwards (current time %d)", t, w.now)
			}
			w.now = t

		case TokenCommandStart:
			switch tok.Text {
			case "dumpvars", "dumpall", "dumpon", "dumpoff":
				// Transparent; their contents flow through the loop.
			case "comment":
				if _, err := commandText(w.lex); err != nil {
					return Change{}, err
				}
			default:
				return Change{}, syntaxError(tok.Line, ErrMalformedSyntax, "unexpected command $%s in dump section", tok.Text)
			}

		case TokenCommandEnd:
			// Closes a transparent dump-control block.

		case TokenScalarChange:
			symbol := normalizeSymbol(tok.Text[0])
			code := tok.Text[1:]
			defs := w.header.Defs(code)
			if defs == nil {
				return Change{}, syntaxError(tok.Line, ErrUnknownIdentifier, "value change for undeclared code %q", code)
			}
			bits, err := padBits(string(symbol), defs[0].Width, tok.Line)
			if err != nil {
				return Change{}, err
			}
			return Change{Time: w.now, Code: code, Bits: bits}, nil

		case TokenVectorChange:
			bits := strings.ToLower(tok.Text)
			for i := 0; i < len(bits); i++ {
				switch bits[i] {
				case '0', '1', 'x', 'z':
				default:
					return Change{}, syntaxError(tok.Line, ErrInvalidValueSymbol, "symbol %q in vector value b%s", bits[i], tok.Text)
				}
			}
			code, err := w.codeWord(tok.Line)
			if err != nil {
				return Change{}, err
			}
			defs := w.header.Defs(code)
			if defs == nil {
				return Change{}, syntaxError(tok.Line, ErrUnknownIdentifier, "value change for undeclared code %q", code)
			}
			bits, err = padBits(bits, defs[0].Width, tok.Line)
			if err != nil {
				return Change{}, err
			}
			return Change{Time: w.now, Code: code, Bits: bits}, nil

		case TokenRealChange:
			code, err := w.codeWord(tok.Line)
			if err != nil {
				return Change{}, err
			}
			if w.header.Defs(code) == nil {
				return Change{}, syntaxError(tok.Line, ErrUnknownIdentifier, "value change for undeclared code %q", code)
			}
			return Change{Time: w.now, Code: code, Bits: tok.Text, Real: true}, nil

		default:
			return Change{}, syntaxError(tok.Line, ErrMalformedSyntax, "unexpected token %q in dump section", tok.Text)
		}
	}
}

// codeWord reads the identifier code that follows a vector or real value.
func (w *Walker) codeWord(line int) (string, error) {
	tok, err := w.lex.Next()
	if err != nil {
		return "", err
	}
	if tok.Kind != TokenWord {
		return "", syntaxError(line, ErrMalformedSyntax, "vector value is missing its identifier code")
	}
	return tok.Text, nil
}

// padBits left-pads a value to the declared width with '0', the standard
// VCD shorthand for unchanged high-order bits. Values wider than the
// declaration are rejected rather than silently truncated.
func padBits(bits string, width int, line int) (string, error) {
	if len(bits) == width {
		return bits, nil
	}
	if len(bits) > width {
		return "", syntaxError(line, ErrInvalidWidth, "value %q has %d bits but the signal declares width %d", bits, len(bits), width)
	}
	return strings.Repeat("0", width-len(bits)) + bits, nil
}

func normalizeSymbol(b byte) byte {
	switch b {
	case 'X':
		return 'x'
	case 'Z':
		return 'z'
	default:
		return b
	}
}
