// Package extract orchestrates waveform extraction: it resolves requested
// signal paths (including glob patterns) against a VCD header, drives one
// resampling pass per request, and assembles the result for output.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/c360studio/vcd2wave/vcd"
	"github.com/c360studio/vcd2wave/wave"
)

// Options configure an Extractor.
type Options struct {
	// Window is the resampling window; the zero value means the whole
	// file in a single display chunk.
	Window wave.Window

	// Default is the display format for multi-bit signals without an
	// override. Empty means hex.
	Default wave.Format

	// Formats maps signal paths to per-signal display format overrides.
	Formats map[string]wave.Format

	// Logger receives structured progress and diagnostics. Defaults to
	// slog.Default.
	Logger *slog.Logger
}

// Extractor reads one VCD file and produces sampled waveform models.
// Extractions are independent: every call opens its own read handle and
// runs its own forward pass, so concurrent calls need no shared state.
type Extractor struct {
	vcdPath string
	opts    Options
	logger  *slog.Logger
}

// New creates an extractor for the given VCD file.
func New(vcdPath string, opts Options) *Extractor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{vcdPath: vcdPath, opts: opts, logger: logger}
}

// Extract resamples the requested signals. Patterns may be exact paths or
// doublestar globs ("tb/**/clk"); globs expand in declaration order. An
// empty pattern list requests every declared signal. Paths and patterns
// that resolve to nothing are reported in Result.Unresolved while the rest
// of the batch proceeds.
func (e *Extractor) Extract(ctx context.Context, patterns []string) (*wave.Result, error) {
	f, err := os.Open(e.vcdPath)
	if err != nil {
		return nil, fmt.Errorf("open VCD file: %w", err)
	}
	defer f.Close()

	lex := vcd.NewLexer(f)
	header, err := vcd.ParseHeader(lex)
	if err != nil {
		return nil, err
	}

	paths, unresolved := resolvePatterns(header, patterns)
	e.logger.Debug("Resolved signal request",
		slog.Int("patterns", len(patterns)),
		slog.Int("paths", len(paths)),
		slog.Int("unresolved", len(unresolved)))

	walker := vcd.NewWalker(lex, header)
	resampler := wave.NewResampler(header, walker, e.logger)

	result, err := resampler.Resample(ctx, wave.Request{
		Paths:   paths,
		Window:  e.opts.Window,
		Default: e.opts.Default,
		Formats: e.opts.Formats,
	})
	if err != nil {
		return nil, err
	}
	result.Unresolved = append(unresolved, result.Unresolved...)
	return result, nil
}

// ListSignals parses only the declaration section and returns the resolved
// definitions, without touching the dump section. An empty pattern list
// returns every declared signal in declaration order.
func (e *Extractor) ListSignals(patterns []string) ([]*vcd.SignalDef, []string, error) {
	f, err := os.Open(e.vcdPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open VCD file: %w", err)
	}
	defer f.Close()

	header, err := vcd.ParseHeader(vcd.NewLexer(f))
	if err != nil {
		return nil, nil, err
	}

	paths, unresolved := resolvePatterns(header, patterns)
	defs := make([]*vcd.SignalDef, 0, len(paths))
	for _, path := range paths {
		if def, ok := header.Signal(path); ok {
			defs = append(defs, def)
		} else {
			unresolved = append(unresolved, path)
		}
	}
	return defs, unresolved, nil
}

// Header parses and returns just the declaration section.
func (e *Extractor) Header() (*vcd.Header, error) {
	f, err := os.Open(e.vcdPath)
	if err != nil {
		return nil, fmt.Errorf("open VCD file: %w", err)
	}
	defer f.Close()
	return vcd.ParseHeader(vcd.NewLexer(f))
}

// resolvePatterns expands the requested patterns against the declared
// paths. Exact paths pass through untouched (the resampler reports them if
// they are missing); glob patterns that match nothing are unresolved here.
func resolvePatterns(header *vcd.Header, patterns []string) (paths []string, unresolved []string) {
	if len(patterns) == 0 {
		return header.Paths(), nil
	}

	for _, pattern := range patterns {
		pattern = strings.Trim(pattern, "/")
		if !isGlob(pattern) {
			paths = append(paths, pattern)
			continue
		}

		matched := false
		for _, path := range header.Paths() {
			ok, err := doublestar.Match(pattern, path)
			if err != nil {
				// Bad pattern: report it with the unresolved paths.
				break
			}
			if ok {
				paths = append(paths, path)
				matched = true
			}
		}
		if !matched {
			unresolved = append(unresolved, pattern)
		}
	}
	return paths, unresolved
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
