// Package categorize sorts declared signals into rendering buckets
// (clocks, resets, ports, internals) from naming patterns and hierarchy
// depth. It consumes only signal definitions, never waveform data.
package categorize

import (
	"regexp"
	"sort"
	"strings"

	"github.com/c360studio/vcd2wave/vcd"
)

// SignalType is the rendering role assigned to a signal.
type SignalType string

// Signal roles.
const (
	TypeClock    SignalType = "clock"
	TypeReset    SignalType = "reset"
	TypeInput    SignalType = "input"
	TypeOutput   SignalType = "output"
	TypeInternal SignalType = "internal"
	TypeUnknown  SignalType = "unknown"
)

// Category holds categorized signal paths, each bucket sorted for stable
// output.
type Category struct {
	Clocks    []string
	Resets    []string
	Inputs    []string
	Outputs   []string
	Internals []string
	Unknowns  []string
}

// Ports returns the input and output buckets combined.
func (c *Category) Ports() []string {
	ports := make([]string, 0, len(c.Inputs)+len(c.Outputs))
	ports = append(ports, c.Inputs...)
	return append(ports, c.Outputs...)
}

// All returns every categorized path.
func (c *Category) All() []string {
	all := make([]string, 0, len(c.Clocks)+len(c.Inputs)+len(c.Outputs)+len(c.Resets)+len(c.Internals)+len(c.Unknowns))
	for _, bucket := range [][]string{c.Clocks, c.Inputs, c.Outputs, c.Resets, c.Internals, c.Unknowns} {
		all = append(all, bucket...)
	}
	return all
}

// Categorizer classifies signals by naming convention. The pattern sets
// cover the usual RTL habits; anything that matches nothing falls back to
// width-based guessing.
type Categorizer struct {
	clockPatterns  []*regexp.Regexp
	resetPatterns  []*regexp.Regexp
	inputPatterns  []*regexp.Regexp
	outputPatterns []*regexp.Regexp

	// Instance-name prefixes that mark signals as internal when they
	// appear below the top level.
	internalPrefixes []string

	// Leaf-name fragments that mark testbench-level outputs.
	outputIndicators []string
}

// New creates a categorizer with the default naming heuristics.
func New() *Categorizer {
	return &Categorizer{
		clockPatterns: compileAll(`\bclock\b`, `\bclk\b`, `\bck\b`),
		resetPatterns: compileAll(`\breset\b`, `\brst\b`, `\bclear\b`),
		inputPatterns: compileAll(`\bin\b`, `\binput\b`, `\bi\b`),
		outputPatterns: compileAll(
			`\bout\b`, `\boutput\b`, `\bo\b`),
		internalPrefixes: []string{"u_", "i_", "dut_", "tb_"},
		outputIndicators: []string{"pulse", "done", "ready", "valid", "out", "result"},
	}
}

// Categorize classifies every definition and returns sorted buckets.
func (c *Categorizer) Categorize(defs []*vcd.SignalDef) *Category {
	cat := &Category{}
	for _, def := range defs {
		switch c.Classify(def) {
		case TypeClock:
			cat.Clocks = append(cat.Clocks, def.Path)
		case TypeReset:
			cat.Resets = append(cat.Resets, def.Path)
		case TypeInput:
			cat.Inputs = append(cat.Inputs, def.Path)
		case TypeOutput:
			cat.Outputs = append(cat.Outputs, def.Path)
		case TypeInternal:
			cat.Internals = append(cat.Internals, def.Path)
		default:
			cat.Unknowns = append(cat.Unknowns, def.Path)
		}
	}
	for _, bucket := range [][]string{cat.Clocks, cat.Resets, cat.Inputs, cat.Outputs, cat.Internals, cat.Unknowns} {
		sort.Strings(bucket)
	}
	return cat
}

// Classify assigns a single definition its rendering role.
func (c *Categorizer) Classify(def *vcd.SignalDef) SignalType {
	// Underscores split into words so "sys_clock" and "i_data" match
	// their boundary-anchored patterns.
	name := words(def.Name)

	if matchesAny(name, c.clockPatterns) {
		return TypeClock
	}
	if matchesAny(name, c.resetPatterns) {
		return TypeReset
	}
	if matchesAny(name, c.inputPatterns) {
		return TypeInput
	}
	if matchesAny(name, c.outputPatterns) {
		return TypeOutput
	}

	parts := strings.Split(def.Path, "/")

	// Signals nested under instance-prefixed scopes are internal state.
	if len(parts) > 2 {
		for _, part := range parts[1:] {
			for _, prefix := range c.internalPrefixes {
				if strings.HasPrefix(part, prefix) {
					return TypeInternal
				}
			}
		}
	}

	// Testbench-level signals: guess the direction from common result
	// names, then from width (controls are single-bit, results wider).
	if len(parts) <= 2 || strings.HasPrefix(parts[0], "tb_") {
		for _, indicator := range c.outputIndicators {
			if strings.Contains(name, indicator) {
				return TypeOutput
			}
		}
		if def.Width == 1 {
			return TypeInput
		}
		return TypeOutput
	}

	if len(parts) > 2 {
		return TypeInternal
	}
	if def.Width == 1 {
		return TypeInput
	}
	return TypeOutput
}

// SuggestClock picks the most plausible clock lane from a categorization,
// preferring clocks deeper in the hierarchy (the ones actually driving the
// design rather than the testbench stimulus). Returns "" when nothing
// clock-like exists.
func (c *Categorizer) SuggestClock(cat *Category) string {
	if len(cat.Clocks) == 0 {
		for _, path := range cat.Inputs {
			leaf := words(path[strings.LastIndex(path, "/")+1:])
			if matchesAny(leaf, c.clockPatterns) {
				return path
			}
		}
		return ""
	}

	for _, path := range cat.Clocks {
		if strings.Count(path, "/") >= 2 {
			return path
		}
	}
	return cat.Clocks[0]
}

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(`(?i)` + p)
	}
	return compiled
}

func words(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "_", " ")
}

func matchesAny(s string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
