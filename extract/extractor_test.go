package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/vcd2wave/vcd"
	"github.com/c360studio/vcd2wave/wave"
)

const timerVCD = `$timescale 1ns $end
$scope module tb_timer $end
$var wire 1 ! clk $end
$var wire 1 " reset $end
$scope module u_timer $end
$var reg 4 # count $end
$var wire 1 $ pulse $end
$upscope $end
$upscope $end
$enddefinitions $end
#0
0!
1"
b0000 #
0$
#5
1!
#10
0!
0"
b0001 #
#15
1!
#20
0!
b0010 #
`

func writeVCD(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.vcd")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtractor_Extract(t *testing.T) {
	e := New(writeVCD(t, timerVCD), Options{
		Window: wave.Window{Start: 0, End: 20, Chunk: 10},
	})

	result, err := e.Extract(context.Background(), []string{
		"tb_timer/clk", "tb_timer/u_timer/count",
	})
	require.NoError(t, err)
	require.Len(t, result.Model.Signals, 2)
	assert.Empty(t, result.Unresolved)

	for _, s := range result.Model.Signals {
		assert.Len(t, s.Wave, 21)
	}
	count := result.Model.Signals[1]
	assert.Equal(t, "tb_timer/u_timer/count", count.Def.Path)
	assert.Equal(t, []string{"0", "1", "2"}, count.Data)
}

func TestExtractor_EmptyPatternsSelectAll(t *testing.T) {
	e := New(writeVCD(t, timerVCD), Options{})

	result, err := e.Extract(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, result.Model.Signals, 4)

	// Declaration order is preserved.
	assert.Equal(t, "tb_timer/clk", result.Model.Signals[0].Def.Path)
	assert.Equal(t, "tb_timer/u_timer/pulse", result.Model.Signals[3].Def.Path)
}

func TestExtractor_GlobPatterns(t *testing.T) {
	e := New(writeVCD(t, timerVCD), Options{})

	result, err := e.Extract(context.Background(), []string{"tb_timer/u_timer/*"})
	require.NoError(t, err)
	require.Len(t, result.Model.Signals, 2)
	assert.Equal(t, "tb_timer/u_timer/count", result.Model.Signals[0].Def.Path)
	assert.Equal(t, "tb_timer/u_timer/pulse", result.Model.Signals[1].Def.Path)

	// Doublestar spans hierarchy levels.
	result, err = e.Extract(context.Background(), []string{"**/clk"})
	require.NoError(t, err)
	require.Len(t, result.Model.Signals, 1)
	assert.Equal(t, "tb_timer/clk", result.Model.Signals[0].Def.Path)
}

func TestExtractor_PartialResolution(t *testing.T) {
	e := New(writeVCD(t, timerVCD), Options{})

	result, err := e.Extract(context.Background(), []string{
		"tb_timer/clk", "tb_timer/nope", "missing/**",
	})
	require.NoError(t, err)
	require.Len(t, result.Model.Signals, 1)
	assert.ElementsMatch(t, []string{"tb_timer/nope", "missing/**"}, result.Unresolved)
}

func TestExtractor_ListSignals(t *testing.T) {
	// The dump section is cut off mid-line; listing must not care.
	truncated := timerVCD[:len(timerVCD)-40]
	e := New(writeVCD(t, truncated), Options{})

	defs, unresolved, err := e.ListSignals([]string{"tb_timer/**"})
	require.NoError(t, err)
	assert.Empty(t, unresolved)
	require.Len(t, defs, 4)
	assert.Equal(t, 4, defs[2].Width)
	assert.Equal(t, vcd.VarReg, defs[2].Kind)
}

func TestExtractor_MissingFile(t *testing.T) {
	e := New(filepath.Join(t.TempDir(), "absent.vcd"), Options{})

	_, err := e.Extract(context.Background(), nil)
	assert.Error(t, err)

	_, _, err = e.ListSignals(nil)
	assert.Error(t, err)
}

func TestExtractor_RepeatedRunsAgree(t *testing.T) {
	e := New(writeVCD(t, timerVCD), Options{
		Window: wave.Window{Start: 0, End: 20, Chunk: 5},
	})

	a, err := e.Extract(context.Background(), []string{"tb_timer/**"})
	require.NoError(t, err)
	b, err := e.Extract(context.Background(), []string{"tb_timer/**"})
	require.NoError(t, err)

	assert.Equal(t, wave.SerializeWaveJSON(a.Model), wave.SerializeWaveJSON(b.Model))
}
