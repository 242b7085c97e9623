package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/vcd2wave/config"
	"github.com/c360studio/vcd2wave/extract"
	"github.com/c360studio/vcd2wave/wave"
)

// extractOptions collects the extract/watch flag surface; both commands
// share it because watch is extract in a loop.
type extractOptions struct {
	signals   []string
	output    string
	startTime uint64
	endTime   uint64
	chunk     int
	format    string
	overrides []string
	props     bool
}

func (o *extractOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&o.signals, "signals", "s", nil, "Signal paths or glob patterns to extract (default: all)")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Output file (default: stdout; .yaml writes the raw model)")
	cmd.Flags().Uint64Var(&o.startTime, "start-time", 0, "Sampling start time in simulation ticks")
	cmd.Flags().Uint64Var(&o.endTime, "end-time", 0, "Sampling end time (0 = until end of file)")
	cmd.Flags().IntVar(&o.chunk, "wave-chunk", 0, "Samples per display group (0 = single group)")
	cmd.Flags().StringVar(&o.format, "format", "", "Default display format for multi-bit signals (b, d, u, x, X)")
	cmd.Flags().StringArrayVar(&o.overrides, "wave-format", nil, "Per-signal format override, path=format (repeatable)")
	cmd.Flags().BoolVar(&o.props, "props", false, "Print the effective extraction properties and exit")
}

// extractorOptions merges configuration and flags into extractor options.
// Flags that the user set win over the configuration file.
func (o *extractOptions) extractorOptions(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) (extract.Options, error) {
	window := wave.Window{
		Start: cfg.Wave.StartTime,
		End:   cfg.Wave.EndTime,
		Chunk: cfg.Wave.Chunk,
	}
	if cmd.Flags().Changed("start-time") {
		window.Start = o.startTime
	}
	if cmd.Flags().Changed("end-time") {
		window.End = o.endTime
	}
	if cmd.Flags().Changed("wave-chunk") {
		window.Chunk = o.chunk
	}
	if window.End != 0 && window.Start > window.End {
		return extract.Options{}, fmt.Errorf("%w: start %d after end %d", wave.ErrInvalidWindow, window.Start, window.End)
	}

	formatName := cfg.Wave.Format
	if cmd.Flags().Changed("format") {
		formatName = o.format
	}
	defFormat, err := wave.ParseFormat(formatName)
	if err != nil {
		return extract.Options{}, err
	}

	formats := make(map[string]wave.Format)
	for path, name := range cfg.Formats {
		f, err := wave.ParseFormat(name)
		if err != nil {
			return extract.Options{}, fmt.Errorf("formats[%s]: %w", path, err)
		}
		formats[strings.Trim(path, "/")] = f
	}
	for _, override := range o.overrides {
		path, name, ok := strings.Cut(override, "=")
		if !ok {
			return extract.Options{}, fmt.Errorf("bad --wave-format %q (want path=format)", override)
		}
		f, err := wave.ParseFormat(name)
		if err != nil {
			return extract.Options{}, fmt.Errorf("--wave-format %s: %w", path, err)
		}
		formats[strings.Trim(path, "/")] = f
	}

	return extract.Options{
		Window:  window,
		Default: defFormat,
		Formats: formats,
		Logger:  logger,
	}, nil
}

// printProps mirrors the effective settings back to the user.
func (o *extractOptions) printProps(vcdPath string, opts extract.Options) {
	fmt.Printf("vcd_file   = %q\n", vcdPath)
	fmt.Printf("output     = %q\n", o.output)
	fmt.Printf("signals    = %v\n", o.signals)
	fmt.Printf("wave_chunk = %d\n", opts.Window.Chunk)
	fmt.Printf("start_time = %d\n", opts.Window.Start)
	fmt.Printf("end_time   = %d\n", opts.Window.End)
	fmt.Printf("format     = %q\n", opts.Default)
	for path, f := range opts.Formats {
		fmt.Printf("format %s = %q\n", path, f)
	}
}

func extractCmd(root *rootOptions) *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract <vcd-file>",
		Short: "Extract signals from a VCD file into WaveJSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.setup()
			if err != nil {
				return err
			}
			exOpts, err := opts.extractorOptions(cmd, cfg, logger)
			if err != nil {
				return err
			}
			if opts.props {
				opts.printProps(args[0], exOpts)
				return nil
			}

			result, err := extract.New(args[0], exOpts).Extract(cmd.Context(), opts.signals)
			if err != nil {
				return err
			}
			reportUnresolved(logger, result, len(opts.signals))
			return writeModel(result.Model, opts.output)
		},
	}

	opts.register(cmd)
	return cmd
}

// reportUnresolved logs the paths that did not resolve so a partial batch
// is visible as "N of M" rather than a silent shrink.
func reportUnresolved(logger *slog.Logger, result *wave.Result, requested int) {
	if len(result.Unresolved) == 0 {
		return
	}
	for _, path := range result.Unresolved {
		logger.Warn("Signal not found in VCD file", slog.String("path", path))
	}
	if requested == 0 {
		requested = len(result.Model.Signals) + len(result.Unresolved)
	}
	logger.Warn("Extracted a partial batch",
		slog.Int("resolved", len(result.Model.Signals)),
		slog.Int("requested", requested))
}

// writeModel serializes the model: WaveJSON by default, the raw sampled
// model as YAML when the output name says so.
func writeModel(m *wave.Model, output string) error {
	var data []byte
	switch strings.ToLower(filepath.Ext(output)) {
	case ".yaml", ".yml":
		var err error
		data, err = yaml.Marshal(m)
		if err != nil {
			return fmt.Errorf("marshal model: %w", err)
		}
	default:
		data = []byte(wave.SerializeWaveJSON(m) + "\n")
	}

	if output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
