package wave

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/vcd2wave/vcd"
)

const busHeader = `$scope module top $end
$var wire 1 ! clk $end
$var reg 4 # bus $end
$upscope $end
$enddefinitions $end
`

func resample(t *testing.T, src string, req Request) *Result {
	t.Helper()
	lex := vcd.NewLexer(strings.NewReader(src))
	header, err := vcd.ParseHeader(lex)
	require.NoError(t, err)

	r := NewResampler(header, vcd.NewWalker(lex, header), nil)
	result, err := r.Resample(context.Background(), req)
	require.NoError(t, err)
	return result
}

// Clock toggling every 5 ticks from t=0 to t=100: the sampled grid shows a
// transition symbol every 5 samples and continuations in between.
func TestResample_ClockToggle(t *testing.T) {
	var dump strings.Builder
	for tick := 0; tick <= 100; tick += 5 {
		fmt.Fprintf(&dump, "#%d\n%d!\n", tick, (tick/5)%2)
	}

	result := resample(t, busHeader+dump.String(), Request{
		Paths:  []string{"top/clk"},
		Window: Window{Start: 0, End: 100, Chunk: 10},
	})

	require.Len(t, result.Model.Signals, 1)
	wave := result.Model.Signals[0].Wave
	require.Len(t, wave, 101)

	for i := 0; i < len(wave); i++ {
		if i%5 == 0 {
			expected := byte('0' + byte((i/5)%2))
			assert.Equal(t, string(expected), string(wave[i]), "tick %d", i)
		} else {
			assert.Equal(t, ".", string(wave[i]), "tick %d", i)
		}
	}
}

// A 4-bit bus receiving b0000 at t=0 and b1010 at t=7 in window [0,10]
// shows 0 for ticks 0-6 and a from tick 7 onward.
func TestResample_BusWindow(t *testing.T) {
	result := resample(t, busHeader+"#0\nb0000 #\n#7\nb1010 #\n", Request{
		Paths:  []string{"top/bus"},
		Window: Window{Start: 0, End: 10, Chunk: 1},
	})

	require.Len(t, result.Model.Signals, 1)
	s := result.Model.Signals[0]
	assert.Equal(t, "=......=...", s.Wave)
	assert.Equal(t, []string{"0", "a"}, s.Data)
	assert.Equal(t, uint64(10), result.Model.End)
}

func TestResample_UnresolvedPathsArePartial(t *testing.T) {
	result := resample(t, busHeader+"#0\n1!\n", Request{
		Paths:  []string{"top/clk", "top/nope", "also/missing"},
		Window: Window{End: 2},
	})

	require.Len(t, result.Model.Signals, 1)
	assert.Equal(t, "top/clk", result.Model.Signals[0].Def.Path)
	assert.Equal(t, []string{"top/nope", "also/missing"}, result.Unresolved)
	assert.Equal(t, "1..", result.Model.Signals[0].Wave)
}

func TestResample_LeadingValueBeforeWindow(t *testing.T) {
	// The only change happens before the window start; the whole window
	// must show that value, not x.
	result := resample(t, busHeader+"#2\nb1111 #\n#20\n", Request{
		Paths:  []string{"top/bus"},
		Window: Window{Start: 5, End: 8},
	})

	s := result.Model.Signals[0]
	assert.Equal(t, "=...", s.Wave)
	assert.Equal(t, []string{"f"}, s.Data)
}

func TestResample_UnknownBeforeFirstChange(t *testing.T) {
	result := resample(t, busHeader+"#4\n1!\n#6\n", Request{
		Paths:  []string{"top/clk"},
		Window: Window{Start: 0, End: 6},
	})

	assert.Equal(t, "x...1..", result.Model.Signals[0].Wave)
}

// Several events inside the same tick resolve to the last one.
func TestResample_LastWriteWinsWithinTick(t *testing.T) {
	result := resample(t, busHeader+"#0\nb0001 #\nb0010 #\nb0011 #\n#2\n", Request{
		Paths:  []string{"top/bus"},
		Window: Window{Start: 0, End: 2},
	})

	s := result.Model.Signals[0]
	assert.Equal(t, "=..", s.Wave)
	assert.Equal(t, []string{"3"}, s.Data)
}

// Every requested signal gets the same sample count, however many raw
// events it saw inside the window - including none.
func TestResample_SampleCountInvariant(t *testing.T) {
	var dump strings.Builder
	dump.WriteString("#0\nb0000 #\n")
	for tick := 1; tick <= 50; tick++ {
		fmt.Fprintf(&dump, "#%d\nb%04b #\n", tick, tick%16)
	}

	result := resample(t, busHeader+dump.String(), Request{
		Paths:  []string{"top/clk", "top/bus"},
		Window: Window{Start: 10, End: 30},
	})

	require.Len(t, result.Model.Signals, 2)
	clk := result.Model.Signals[0]
	bus := result.Model.Signals[1]
	assert.Len(t, clk.Wave, 21)
	assert.Len(t, bus.Wave, 21)
	// clk never changes: one leading unknown, then continuations.
	assert.Equal(t, "x"+strings.Repeat(".", 20), clk.Wave)
}

func TestResample_Determinism(t *testing.T) {
	src := busHeader + "#0\nb0000 #\n0!\n#3\n1!\n#9\nb1001 #\n#12\n0!\n"
	req := Request{
		Paths:  []string{"top/clk", "top/bus"},
		Window: Window{Start: 0, End: 12, Chunk: 4},
	}

	a := resample(t, src, req)
	b := resample(t, src, req)
	assert.Equal(t, SerializeWaveJSON(a.Model), SerializeWaveJSON(b.Model))
}

// A full-file window with every tick sampled reproduces each transition of
// the raw stream exactly once.
func TestResample_RoundTripTransitions(t *testing.T) {
	result := resample(t, busHeader+"#0\nb0000 #\n#3\nb0101 #\n#9\nb1111 #\n", Request{
		Paths:  []string{"top/bus"},
		Window: Window{},
	})

	s := result.Model.Signals[0]
	assert.Equal(t, "=..=.....=", s.Wave)
	assert.Equal(t, []string{"0", "5", "f"}, s.Data)
}

// Repeated writes of an identical value collapse into a continuation, so
// redundant annotations never reach the renderer.
func TestResample_IdenticalValueCollapses(t *testing.T) {
	result := resample(t, busHeader+"#0\nb0110 #\n#4\nb0110 #\n#6\n", Request{
		Paths:  []string{"top/bus"},
		Window: Window{},
	})

	s := result.Model.Signals[0]
	assert.Equal(t, "=......", s.Wave)
	assert.Equal(t, []string{"6"}, s.Data)
}

func TestResample_HighZAndUnknownVectors(t *testing.T) {
	result := resample(t, busHeader+"#0\nbzzzz #\n#2\nbxx00 #\n#4\nb0110 #\n#5\n", Request{
		Paths:  []string{"top/bus"},
		Window: Window{},
	})

	s := result.Model.Signals[0]
	assert.Equal(t, "z.x.=.", s.Wave)
	assert.Equal(t, []string{"6"}, s.Data)
}

func TestResample_AliasesUpdateTogether(t *testing.T) {
	src := `$scope module top $end
$var wire 1 ! q $end
$scope module dut $end
$var reg 1 ! q_int $end
$upscope $end
$upscope $end
$enddefinitions $end
#0
0!
#3
1!
#4
`
	result := resample(t, src, Request{
		Paths:  []string{"top/q", "top/dut/q_int"},
		Window: Window{},
	})

	require.Len(t, result.Model.Signals, 2)
	assert.Equal(t, result.Model.Signals[0].Wave, result.Model.Signals[1].Wave)
	assert.Equal(t, "0..1.", result.Model.Signals[0].Wave)
}

func TestResample_WindowClipsStream(t *testing.T) {
	// Events past the window end must not influence the result.
	result := resample(t, busHeader+"#0\n0!\n#5\n1!\n#100\n0!\n", Request{
		Paths:  []string{"top/clk"},
		Window: Window{Start: 0, End: 8},
	})

	assert.Equal(t, "0....1...", result.Model.Signals[0].Wave)
	assert.Equal(t, uint64(8), result.Model.End)
}

func TestResample_RequestErrors(t *testing.T) {
	lex := vcd.NewLexer(strings.NewReader(busHeader + "#0\n"))
	header, err := vcd.ParseHeader(lex)
	require.NoError(t, err)
	r := NewResampler(header, vcd.NewWalker(lex, header), nil)

	_, err = r.Resample(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrNoSignalsRequested)

	_, err = r.Resample(context.Background(), Request{
		Paths:  []string{"top/clk"},
		Window: Window{Start: 9, End: 3},
	})
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestResample_Cancellation(t *testing.T) {
	lex := vcd.NewLexer(strings.NewReader(busHeader + "#0\n0!\n#5\n1!\n"))
	header, err := vcd.ParseHeader(lex)
	require.NoError(t, err)
	r := NewResampler(header, vcd.NewWalker(lex, header), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.Resample(ctx, Request{Paths: []string{"top/clk"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResample_FormatOverrides(t *testing.T) {
	result := resample(t, busHeader+"#0\nb1010 #\n#1\n", Request{
		Paths:   []string{"top/bus"},
		Window:  Window{},
		Default: FormatHex,
		Formats: map[string]Format{"top/bus": FormatSigned},
	})

	// 1010 as 4-bit two's complement is -6.
	assert.Equal(t, []string{"-6"}, result.Model.Signals[0].Data)
}
