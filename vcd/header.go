package vcd

import (
	"strconv"
	"strings"
)

// VarKind is the declared type of a VCD variable.
type VarKind string

// Variable kinds that matter to waveform extraction. Anything else a
// simulator emits (event, supply0, tri, ...) is carried through verbatim.
const (
	VarWire      VarKind = "wire"
	VarReg       VarKind = "reg"
	VarParameter VarKind = "parameter"
	VarInteger   VarKind = "integer"
	VarReal      VarKind = "real"
)

// SignalDef describes one $var declaration. Definitions are created during
// header parsing and immutable afterwards.
//
// A single identifier code may be shared by several definitions: VCD
// permits aliasing, for example a reg and the port it drives dumped under
// one code. All aliases change value in lock-step.
type SignalDef struct {
	// Name is the leaf name from the $var declaration.
	Name string `yaml:"name" json:"name"`
	// Code is the opaque identifier code used by the dump section.
	Code string `yaml:"code" json:"code"`
	// Width is the declared bit width, always >= 1.
	Width int `yaml:"width" json:"width"`
	// Kind is the declared variable type.
	Kind VarKind `yaml:"kind" json:"kind"`
	// Path is the fully qualified, slash-separated hierarchical path.
	Path string `yaml:"path" json:"path"`
	// Range is the optional "[msb:lsb]" suffix, kept verbatim.
	Range string `yaml:"range,omitempty" json:"range,omitempty"`
}

// Timescale is the $timescale declaration: magnitude and unit, recorded as
// metadata and not otherwise interpreted.
type Timescale struct {
	Magnitude int    `yaml:"magnitude"`
	Unit      string `yaml:"unit"`
}

func (t Timescale) String() string {
	return strconv.Itoa(t.Magnitude) + t.Unit
}

// Scope is a node of the declaration hierarchy. The tree is a construction
// artifact: it is built while parsing and flattened into qualified paths,
// and consumers that only resolve paths never need to touch it again.
type Scope struct {
	Type     string
	Name     string
	Children []*Scope
	Signals  []*SignalDef
}

// Header is the completed declaration section of a VCD file.
type Header struct {
	Date      string
	Version   string
	Timescale *Timescale

	// Root holds the top-level scopes, for hierarchy-aware listings.
	Root []*Scope

	byCode map[string][]*SignalDef
	byPath map[string]*SignalDef
	paths  []string
}

// Defs returns every definition sharing the given identifier code, or nil
// if the code was never declared.
func (h *Header) Defs(code string) []*SignalDef {
	return h.byCode[code]
}

// Signal resolves a fully qualified path to its definition.
func (h *Header) Signal(path string) (*SignalDef, bool) {
	def, ok := h.byPath[strings.Trim(path, "/")]
	return def, ok
}

// Paths lists every declared signal path in declaration order.
func (h *Header) Paths() []string {
	return h.paths
}

// ParseHeader consumes tokens up to and including "$enddefinitions $end"
// and returns the completed identifier table. One-shot: the lexer is left
// positioned at the first dump-section token, in dump mode.
func ParseHeader(lex *Lexer) (*Header, error) {
	h := &Header{
		byCode: make(map[string][]*SignalDef),
		byPath: make(map[string]*SignalDef),
	}

	var stack []*Scope
	var prefix []string

	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, err
		}

		switch tok.Kind {
		case TokenEOF:
			return nil, syntaxError(tok.Line, ErrMalformedSyntax, "input ended before $enddefinitions")

		case TokenCommandStart:
			switch tok.Text {
			case "date":
				text, err := commandText(lex)
				if err != nil {
					return nil, err
				}
				h.Date = text

			case "version":
				text, err := commandText(lex)
				if err != nil {
					return nil, err
				}
				h.Version = text

			case "comment":
				if _, err := commandText(lex); err != nil {
					return nil, err
				}

			case "timescale":
				text, err := commandText(lex)
				if err != nil {
					return nil, err
				}
				ts, err := parseTimescale(text, tok.Line)
				if err != nil {
					return nil, err
				}
				h.Timescale = ts

			case "scope":
				words, err := commandWords(lex)
				if err != nil {
					return nil, err
				}
				if len(words) != 2 {
					return nil, syntaxError(tok.Line, ErrMalformedSyntax, "$scope wants a type and a name, got %d words", len(words))
				}
				scope := &Scope{Type: words[0], Name: words[1]}
				if len(stack) == 0 {
					h.Root = append(h.Root, scope)
				} else {
					parent := stack[len(stack)-1]
					parent.Children = append(parent.Children, scope)
				}
				stack = append(stack, scope)
				prefix = append(prefix, scope.Name)

			case "upscope":
				words, err := commandWords(lex)
				if err != nil {
					return nil, err
				}
				if len(words) != 0 {
					return nil, syntaxError(tok.Line, ErrMalformedSyntax, "$upscope takes no arguments")
				}
				if len(stack) == 0 {
					return nil, syntaxError(tok.Line, ErrUnbalancedScope, "$upscope without matching $scope")
				}
				stack = stack[:len(stack)-1]
				prefix = prefix[:len(prefix)-1]

			case "var":
				words, err := commandWords(lex)
				if err != nil {
					return nil, err
				}
				def, err := parseVar(words, prefix, tok.Line)
				if err != nil {
					return nil, err
				}
				if len(stack) > 0 {
					scope := stack[len(stack)-1]
					scope.Signals = append(scope.Signals, def)
				}
				h.byCode[def.Code] = append(h.byCode[def.Code], def)
				if _, seen := h.byPath[def.Path]; !seen {
					h.paths = append(h.paths, def.Path)
				}
				h.byPath[def.Path] = def

			case "enddefinitions":
				if err := expectEnd(lex, tok.Line); err != nil {
					return nil, err
				}
				if len(stack) != 0 {
					return nil, syntaxError(tok.Line, ErrUnbalancedScope, "%d scope(s) still open at $enddefinitions", len(stack))
				}
				lex.EnterDumpMode()
				return h, nil

			default:
				return nil, syntaxError(tok.Line, ErrMalformedSyntax, "unexpected declaration command $%s", tok.Text)
			}

		default:
			return nil, syntaxError(tok.Line, ErrMalformedSyntax, "unexpected token %q in declaration section", tok.Text)
		}
	}
}

// parseVar interprets the words of a $var command:
//
//	$var <type> <width> <code> <name> [<range>] $end
func parseVar(words []string, prefix []string, line int) (*SignalDef, error) {
	if len(words) < 4 || len(words) > 5 {
		return nil, syntaxError(line, ErrMalformedSyntax, "$var wants type, width, code and name, got %d words", len(words))
	}

	width, err := strconv.Atoi(words[1])
	if err != nil {
		return nil, syntaxError(line, ErrMalformedSyntax, "$var width %q is not a number", words[1])
	}
	if width < 1 {
		return nil, syntaxError(line, ErrInvalidWidth, "$var %s declares width %d", words[3], width)
	}

	def := &SignalDef{
		Name:  words[3],
		Code:  words[2],
		Width: width,
		Kind:  VarKind(words[0]),
		Path:  strings.Join(append(append([]string{}, prefix...), words[3]), "/"),
	}
	if len(words) == 5 {
		def.Range = words[4]
	}
	return def, nil
}

// parseTimescale splits declarations like "1ns", "10 ps" or "100us".
func parseTimescale(text string, line int) (*Timescale, error) {
	s := strings.ReplaceAll(text, " ", "")
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i == len(s) {
		return nil, syntaxError(line, ErrMalformedSyntax, "bad $timescale %q", text)
	}
	mag, err := strconv.Atoi(s[:i])
	if err != nil {
		return nil, syntaxError(line, ErrMalformedSyntax, "bad $timescale magnitude %q", s[:i])
	}
	switch unit := s[i:]; unit {
	case "s", "ms", "us", "ns", "ps", "fs":
		return &Timescale{Magnitude: mag, Unit: unit}, nil
	default:
		return nil, syntaxError(line, ErrMalformedSyntax, "bad $timescale unit %q", unit)
	}
}

// commandText collects the words of a command up to $end, joined by spaces.
func commandText(lex *Lexer) (string, error) {
	var words []string
	for {
		tok, err := lex.Next()
		if err != nil {
			return "", err
		}
		switch tok.Kind {
		case TokenCommandEnd:
			return strings.Join(words, " "), nil
		case TokenWord:
			words = append(words, tok.Text)
		case TokenEOF:
			return "", syntaxError(tok.Line, ErrMalformedSyntax, "input ended inside a command")
		default:
			return "", syntaxError(tok.Line, ErrMalformedSyntax, "unexpected token %q inside a command", tok.Text)
		}
	}
}

// expectEnd consumes exactly one token and requires it to be $end.
func expectEnd(lex *Lexer, line int) error {
	tok, err := lex.Next()
	if err != nil {
		return err
	}
	if tok.Kind != TokenCommandEnd {
		return syntaxError(line, ErrMalformedSyntax, "expected $end, got %q", tok.Text)
	}
	return nil
}

func commandWords(lex *Lexer) ([]string, error) {
	text, err := commandText(lex)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}
	return strings.Fields(text), nil
}
