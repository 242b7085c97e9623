package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/c360studio/vcd2wave/extract"
)

func listCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <vcd-file> [pattern...]",
		Short: "List the signals declared in a VCD file",
		Long: `List parses only the declaration section of the dump and prints the
declared signals without reading any waveform data, so it is fast even
on very large files. Optional patterns (exact paths or globs) filter
the listing.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := root.setup()
			if err != nil {
				return err
			}

			ex := extract.New(args[0], extract.Options{Logger: logger})
			defs, unresolved, err := ex.ListSignals(args[1:])
			if err != nil {
				return err
			}

			for _, def := range defs {
				width := ""
				if def.Width > 1 {
					width = fmt.Sprintf(" [%d]", def.Width)
				}
				fmt.Printf("%s%s  (%s, code %q)\n", def.Path, width, def.Kind, def.Code)
			}
			for _, path := range unresolved {
				logger.Warn("No declared signal matches", slog.String("pattern", path))
			}
			return nil
		},
	}
	return cmd
}
