package wave

import "github.com/c360studio/vcd2wave/vcd"

// buildModel assembles the finished tracks into the exported document. No
// new computation happens here: the continuation collapse already applied
// at sampling time is what downstream rendering relies on for sample-count
// parity across lanes, so the assembly must not reinterpret the waves.
func buildModel(tracks []*track, win Window, covered uint64, ts *vcd.Timescale) *Model {
	m := &Model{
		Signals: make([]*SampledSignal, 0, len(tracks)),
		Start:   win.Start,
		End:     covered,
		Chunk:   win.Chunk,
	}
	if ts != nil {
		m.Timescale = ts.String()
	}
	for _, t := range tracks {
		m.Signals = append(m.Signals, &SampledSignal{
			Def:    t.def,
			Format: t.format,
			Wave:   string(t.wave),
			Data:   t.data,
		})
	}
	return m
}
