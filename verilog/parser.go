// Package verilog extracts module and port information from Verilog source
// files, used to annotate categorized VCD signals with their declared
// direction. It is a declaration scanner, not a Verilog frontend: only
// module, port, net and parameter declarations are recognized.
package verilog

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Port is a declared signal with its bit width.
type Port struct {
	Name  string
	Width int
}

// Module is the declaration summary of one Verilog module.
type Module struct {
	Name       string
	Inputs     map[string]Port
	Outputs    map[string]Port
	Wires      map[string]Port
	Regs       map[string]Port
	Parameters map[string]string
}

// Direction reports whether the named signal is a declared input or
// output. The second result is false for internal nets.
func (m *Module) Direction(name string) (string, bool) {
	if _, ok := m.Inputs[name]; ok {
		return "input", true
	}
	if _, ok := m.Outputs[name]; ok {
		return "output", true
	}
	return "", false
}

// Signals returns every declared signal name.
func (m *Module) Signals() []string {
	names := make([]string, 0, len(m.Inputs)+len(m.Outputs)+len(m.Wires)+len(m.Regs))
	for _, group := range []map[string]Port{m.Inputs, m.Outputs, m.Wires, m.Regs} {
		for name := range group {
			names = append(names, name)
		}
	}
	return names
}

var (
	moduleRe = regexp.MustCompile(`(?i)module\s+(\w+)\s*(?:\([^)]*\))?\s*;`)
	inputRe  = regexp.MustCompile(`(?i)input\s+(?:wire\s+)?(?:\[(\d+):(\d+)\]\s+)?(\w+)\s*;`)
	outputRe = regexp.MustCompile(`(?i)output\s+(?:wire\s+|reg\s+)?(?:\[(\d+):(\d+)\]\s+)?(\w+)\s*;`)
	wireRe   = regexp.MustCompile(`(?i)\bwire\s+(?:\[(\d+):(\d+)\]\s+)?(\w+)\s*;`)
	regRe    = regexp.MustCompile(`(?i)\breg\s+(?:\[(\d+):(\d+)\]\s+)?(\w+)\s*;`)
	paramRe  = regexp.MustCompile(`(?i)parameter\s+(\w+)\s*=\s*([^;]+);`)
)

// Parse scans Verilog source text for the first module declaration.
func Parse(src []byte) (*Module, error) {
	m := moduleRe.FindSubmatch(src)
	if m == nil {
		return nil, fmt.Errorf("no module declaration found")
	}

	mod := &Module{
		Name:       string(m[1]),
		Inputs:     scanPorts(inputRe, src),
		Outputs:    scanPorts(outputRe, src),
		Wires:      scanPorts(wireRe, src),
		Regs:       scanPorts(regRe, src),
		Parameters: scanParams(src),
	}
	return mod, nil
}

// ParseFile reads and parses a Verilog source file.
func ParseFile(path string) (*Module, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read verilog file: %w", err)
	}
	mod, err := Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return mod, nil
}

func scanPorts(re *regexp.Regexp, src []byte) map[string]Port {
	ports := make(map[string]Port)
	for _, m := range re.FindAllSubmatch(src, -1) {
		width := 1
		if len(m[1]) > 0 {
			// "[msb:lsb]" is read as msb+1 bits, assuming lsb zero.
			msb, err := strconv.Atoi(string(m[1]))
			if err == nil {
				width = msb + 1
			}
		}
		name := string(m[3])
		ports[name] = Port{Name: name, Width: width}
	}
	return ports
}

func scanParams(src []byte) map[string]string {
	params := make(map[string]string)
	for _, m := range paramRe.FindAllSubmatch(src, -1) {
		params[string(m[1])] = strings.TrimSpace(string(m[2]))
	}
	return params
}
