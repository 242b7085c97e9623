package wave

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/c360studio/vcd2wave/vcd"
)

// Request describes one resampling call. Paths are concrete signal paths
// whose order fixes the output order; Formats overrides the display format
// per path.
type Request struct {
	Paths   []string
	Window  Window
	Default Format
	Formats map[string]Format
}

func (r Request) format(path string) Format {
	if f, ok := r.Formats[path]; ok {
		return f
	}
	if r.Default != "" {
		return r.Default
	}
	return DefaultFormat
}

// Resampler drives a change-stream walker once and produces a fixed-grid
// sample sequence for every requested signal. A resampler instance is tied
// to the walker's cursor and performs a single extraction; build a fresh
// one (with a fresh walker) per request.
type Resampler struct {
	header *vcd.Header
	walker *vcd.Walker
	logger *slog.Logger
}

// NewResampler couples a resampler to a parsed header and its walker.
func NewResampler(header *vcd.Header, walker *vcd.Walker, logger *slog.Logger) *Resampler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resampler{header: header, walker: walker, logger: logger}
}

// track carries the per-signal state of the single forward pass: the
// current bit vector plus the sample sequence built so far. Memory is one
// track per requested signal, independent of file size.
type track struct {
	def    *vcd.SignalDef
	format Format

	cur  string // current value; "" until the first change (unknown)
	real bool

	prev    string // value at the previous sample
	sampled bool   // a sample has been emitted
	wave    []byte
	data    []string
}

// Resample performs the extraction. Paths that do not resolve are
// collected into Result.Unresolved; the remaining signals are sampled on a
// one-tick grid across the window. Events at tick t apply before the
// sample at t, and when several events hit the same tick the last one
// wins, consistent with simulation delta-cycle semantics.
func (r *Resampler) Resample(ctx context.Context, req Request) (*Result, error) {
	if len(req.Paths) == 0 {
		return nil, ErrNoSignalsRequested
	}
	win := req.Window
	if win.End != 0 && win.Start > win.End {
		return nil, fmt.Errorf("%w: start %d after end %d", ErrInvalidWindow, win.Start, win.End)
	}

	tracks := make([]*track, 0, len(req.Paths))
	byCode := make(map[string][]*track)
	var unresolved []string

	for _, path := range req.Paths {
		def, ok := r.header.Signal(path)
		if !ok {
			r.logger.Warn("Signal path not found", slog.String("path", path))
			unresolved = append(unresolved, path)
			continue
		}
		// Rejected at declaration time already; kept as an invariant check.
		if def.Width < 1 {
			return nil, fmt.Errorf("%w: signal %s has width %d", vcd.ErrInvalidWidth, def.Path, def.Width)
		}
		t := &track{
			def:    def,
			format: req.format(path),
			real:   def.Kind == vcd.VarReal,
		}
		tracks = append(tracks, t)
		byCode[def.Code] = append(byCode[def.Code], t)
	}

	r.logger.Debug("Resampling signals",
		slog.Int("requested", len(req.Paths)),
		slog.Int("resolved", len(tracks)),
		slog.Uint64("start", win.Start),
		slog.Uint64("end", win.End))

	covered := win.Start
	if len(tracks) > 0 {
		var err error
		covered, err = r.walk(ctx, win, tracks, byCode)
		if err != nil {
			return nil, err
		}
	}

	model := buildModel(tracks, win, covered, r.header.Timescale)
	return &Result{Model: model, Unresolved: unresolved}, nil
}

// walk is the single forward pass. It returns the last tick covered by the
// emitted samples.
func (r *Resampler) walk(ctx context.Context, win Window, tracks []*track, byCode map[string][]*track) (uint64, error) {
	cursor := win.Start
	for {
		if err := ctx.Err(); err != nil {
			return cursor, err
		}

		ch, err := r.walker.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return cursor, err
		}

		// Partial streaming: nothing past the window end is needed, so
		// the first event beyond it terminates the pass.
		if win.End != 0 && ch.Time > win.End {
			emitThrough(tracks, cursor, win.End)
			return win.End, nil
		}

		// Ticks strictly before this event keep the previous values.
		if ch.Time > cursor {
			cursor = emitThrough(tracks, cursor, ch.Time-1)
		}

		for _, t := range byCode[ch.Code] {
			t.cur = ch.Bits
		}
	}

	// Dump exhausted. The covered range ends at the window end when one
	// was given, else at the last time marker of the file.
	end := r.walker.Now()
	if win.End != 0 {
		end = win.End
	}
	if end < win.Start {
		return win.Start, nil
	}
	emitThrough(tracks, cursor, end)
	return end, nil
}

// emitThrough appends one sample per tick in [cursor, last] to every track
// and returns the new cursor.
func emitThrough(tracks []*track, cursor, last uint64) uint64 {
	for tick := cursor; tick <= last; tick++ {
		for _, t := range tracks {
			t.sample()
		}
	}
	return last + 1
}

// sample appends one symbol for the current value. Continuations collapse
// to '.'; a changed multi-bit value emits '=' plus a formatted Data entry.
func (t *track) sample() {
	cur := t.cur
	if t.sampled && cur == t.prev {
		t.wave = append(t.wave, SymbolContinue)
		return
	}
	t.sampled = true
	t.prev = cur

	switch {
	case cur == "":
		// No change seen yet anywhere before this tick: unknown.
		t.wave = append(t.wave, SymbolUnknown)
	case t.real:
		t.wave = append(t.wave, SymbolValue)
		t.data = append(t.data, cur)
	case t.def.Width == 1:
		t.wave = append(t.wave, cur[0])
	case isBinary(cur):
		t.wave = append(t.wave, SymbolValue)
		t.data = append(t.data, t.format.Render(cur, t.def.Width))
	case allZ(cur):
		t.wave = append(t.wave, SymbolHighZ)
	default:
		t.wave = append(t.wave, SymbolUnknown)
	}
}

func isBinary(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '0' && s[i] != '1' {
			return false
		}
	}
	return true
}

func allZ(s string) bool {
	return strings.Count(s, "z") == len(s)
}
