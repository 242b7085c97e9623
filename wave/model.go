package wave

import (
	"errors"

	"github.com/c360studio/vcd2wave/vcd"
)

// Sampling failure classes. Per-path resolution failures are collected
// into Result.Unresolved instead of aborting the batch; these sentinels
// cover the request-level failures.
var (
	// ErrNoSignalsRequested indicates an empty signal list.
	ErrNoSignalsRequested = errors.New("no signals requested")

	// ErrInvalidWindow indicates a window whose start lies after its end.
	ErrInvalidWindow = errors.New("invalid sample window")

	// ErrUnknownSignal tags a requested path absent from the declaration
	// table. It is reported per path via Result.Unresolved.
	ErrUnknownSignal = errors.New("unknown signal path")
)

// Window bounds a resampling request. End 0 means "until the end of the
// dump"; Chunk is the number of samples per display group, 0 meaning one
// group covering the whole window. Chunk is a readability control for the
// rendered diagram, not a correctness one.
type Window struct {
	Start uint64 `yaml:"start_time" json:"start_time"`
	End   uint64 `yaml:"end_time" json:"end_time"`
	Chunk int    `yaml:"chunk" json:"chunk"`
}

// Sample symbols used in wave strings.
//
//	0 1 x z  literal one-bit values
//	=        multi-bit (or real) value, annotated in Data
//	.        continuation: same value as the previous sample
const (
	SymbolValue    = '='
	SymbolContinue = '.'
	SymbolUnknown  = 'x'
	SymbolHighZ    = 'z'
)

// SampledSignal is one signal's fixed-grid sample sequence. Wave holds one
// symbol per tick; Data holds the formatted value for each '=' symbol, in
// order.
type SampledSignal struct {
	Def    *vcd.SignalDef `yaml:"signal" json:"signal"`
	Format Format         `yaml:"format" json:"format"`
	Wave   string         `yaml:"wave" json:"wave"`
	Data   []string       `yaml:"data,omitempty" json:"data,omitempty"`
}

// Model is the exported waveform document: the sampled signals in caller
// order plus the window actually covered. Immutable once built.
type Model struct {
	Signals []*SampledSignal `yaml:"signals" json:"signals"`

	// Start and End are the tick range actually covered by the samples.
	Start uint64 `yaml:"start_time" json:"start_time"`
	End   uint64 `yaml:"end_time" json:"end_time"`

	// Chunk is the display group size the model was built for.
	Chunk int `yaml:"chunk" json:"chunk"`

	// Timescale echoes the $timescale declaration, when present.
	Timescale string `yaml:"timescale,omitempty" json:"timescale,omitempty"`
}

// SampleCount reports the per-signal sample sequence length. Identical for
// every signal in the model.
func (m *Model) SampleCount() int {
	if len(m.Signals) == 0 {
		return 0
	}
	return len(m.Signals[0].Wave)
}

// Result is the outcome of a resampling request: the model built from the
// paths that resolved, plus the paths that did not.
type Result struct {
	Model      *Model
	Unresolved []string
}
