package wave

import (
	"fmt"
	"strings"
)

// SerializeWaveJSON renders a model as WaveJSON text for timing-diagram
// tooling. The first signal is treated as the clock and drawn as a
// positive-edge lane; the remaining signals are emitted in display groups
// of Model.Chunk samples, each group labelled with its origin tick.
func SerializeWaveJSON(m *Model) string {
	if len(m.Signals) == 0 {
		return "{ \"signal\": [] }"
	}

	chunk := m.Chunk
	total := m.SampleCount()
	if chunk <= 0 || chunk > total {
		chunk = total
	}

	nameWidth := 0
	for _, s := range m.Signals {
		if len(s.Def.Name) > nameWidth {
			nameWidth = len(s.Def.Name)
		}
	}

	var b strings.Builder
	clock := m.Signals[0]
	b.WriteString("{ \"head\": {\"tock\":1},\n  \"signal\": [\n  {   \"name\": ")
	b.WriteString(padName(clock.Def.Name, nameWidth))
	b.WriteString(", \"wave\": \"")
	if chunk > 0 {
		b.WriteString("p" + strings.Repeat(".", chunk-1))
	}
	b.WriteString("\" }")

	// Cursors into each signal's data annotations, advanced group by
	// group so repeated values at a group boundary can be re-labelled.
	cursors := make([]*laneCursor, len(m.Signals))
	for i, s := range m.Signals {
		cursors[i] = &laneCursor{signal: s}
	}

	groups := 0
	if chunk > 0 {
		groups = (total + chunk - 1) / chunk
	}
	for g := 0; g < groups; g++ {
		lo := g * chunk
		hi := lo + chunk
		if hi > total {
			hi = total
		}

		b.WriteString(",\n  {}")
		fmt.Fprintf(&b, ",\n  [\"%d\"", m.Start+uint64(lo))

		for i, s := range m.Signals {
			if i == 0 {
				// Clock lane appears once, in the header row.
				cursors[i].advance(lo, hi)
				continue
			}
			wave, data := cursors[i].slice(lo, hi)
			b.WriteString(",\n    { \"name\": ")
			b.WriteString(padName(s.Def.Name, nameWidth))
			b.WriteString(", \"wave\": \"")
			b.WriteString(wave)
			b.WriteString("\"")
			if s.Def.Width > 1 || len(s.Data) > 0 {
				b.WriteString(", \"data\": \"")
				b.WriteString(strings.Join(data, " "))
				b.WriteString("\"")
			}
			b.WriteString(" }")
		}
		b.WriteString("\n  ]")
	}

	b.WriteString("\n  ]\n}")
	return b.String()
}

// laneCursor walks one signal's wave string group by group, tracking the
// last concrete symbol so a group that opens on a continuation can restate
// the value it continues.
type laneCursor struct {
	signal   *SampledSignal
	dataIdx  int
	lastSym  byte
	lastData string
}

// slice renders samples [lo,hi) as a standalone wave row plus the data
// entries referenced by its '=' symbols.
func (c *laneCursor) slice(lo, hi int) (string, []string) {
	wave := make([]byte, 0, hi-lo)
	var data []string

	for i := lo; i < hi; i++ {
		sym := c.signal.Wave[i]
		if sym == SymbolContinue {
			if i == lo && c.lastSym != 0 {
				// A row is a standalone diagram: restate the symbol the
				// continuation refers to.
				wave = append(wave, c.lastSym)
				if c.lastSym == SymbolValue {
					data = append(data, c.lastData)
				}
			} else {
				wave = append(wave, SymbolContinue)
			}
			continue
		}
		if sym == SymbolValue {
			c.lastData = c.signal.Data[c.dataIdx]
			c.dataIdx++
			data = append(data, c.lastData)
		}
		c.lastSym = sym
		wave = append(wave, sym)
	}
	return string(wave), data
}

// advance consumes a group without rendering it (used for the clock lane).
func (c *laneCursor) advance(lo, hi int) {
	for i := lo; i < hi; i++ {
		sym := c.signal.Wave[i]
		if sym == SymbolContinue {
			continue
		}
		if sym == SymbolValue {
			c.lastData = c.signal.Data[c.dataIdx]
			c.dataIdx++
		}
		c.lastSym = sym
	}
}

// padName quotes a signal name and pads it so the rows line up, matching
// the hand-aligned style of WaveJSON written by humans.
func padName(name string, width int) string {
	quoted := "\"" + name + "\""
	if pad := width + 2 - len(quoted); pad > 0 {
		return quoted + strings.Repeat(" ", pad)
	}
	return quoted
}
