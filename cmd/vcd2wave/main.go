// Package main provides the vcd2wave binary entry point. Vcd2wave
// converts VCD simulation dumps into WaveJSON timing-diagram documents:
// it parses the dump in a single streaming pass, resamples the requested
// signals onto a fixed grid and writes the sampled waveform model.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/vcd2wave/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "vcd2wave"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
}

// setup configures logging and loads the layered configuration.
func (o *rootOptions) setup() (*config.Config, *slog.Logger, error) {
	level := slog.LevelInfo
	switch strings.ToLower(o.logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.NewLoader(logger).Load(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, logger, nil
}

func rootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Convert VCD simulation dumps to WaveJSON timing diagrams",
		Long: `Vcd2wave extracts signals from VCD (Value Change Dump) files and
produces WaveJSON timing-diagram documents.

The dump is parsed in a single streaming pass: requested signals are
resampled onto a fixed one-tick grid inside the chosen time window, so
every lane has the same sample count regardless of how many raw value
changes each signal saw.

Signal paths use slashes to separate hierarchy levels (tb/dut/clk) and
may contain doublestar glob patterns (tb/**/clk).`,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(extractCmd(opts))
	cmd.AddCommand(listCmd(opts))
	cmd.AddCommand(categorizeCmd(opts))
	cmd.AddCommand(watchCmd(opts))

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}
