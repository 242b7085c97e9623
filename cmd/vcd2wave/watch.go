package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/vcd2wave/extract"
)

func watchCmd(root *rootOptions) *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "watch <vcd-file>",
		Short: "Re-extract whenever the VCD file is rewritten",
		Long: `Watch runs an extraction and then keeps watching the dump file,
regenerating the output every time a simulator run rewrites it. Stop
with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
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
			if opts.output == "" {
				return fmt.Errorf("watch mode needs --output (stdout would interleave runs)")
			}

			ex := extract.New(args[0], exOpts)
			run := func(ctx context.Context, runID string) error {
				result, err := ex.Extract(ctx, opts.signals)
				if err != nil {
					return err
				}
				reportUnresolved(logger, result, len(opts.signals))
				return writeModel(result.Model, opts.output)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// One extraction up front so the output exists before the
			// first simulator rerun.
			if err := run(ctx, "initial"); err != nil {
				return err
			}

			watcher := extract.NewWatcher(args[0], cfg.Watch.GetDebounceDelay(), logger, run)
			if err := watcher.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	opts.register(cmd)
	return cmd
}
