package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/vcd2wave/categorize"
	"github.com/c360studio/vcd2wave/extract"
	"github.com/c360studio/vcd2wave/vcd"
	"github.com/c360studio/vcd2wave/verilog"
)

func categorizeCmd(root *rootOptions) *cobra.Command {
	var verilogFile string

	cmd := &cobra.Command{
		Use:   "categorize <vcd-file>",
		Short: "Categorize the declared signals by naming heuristics",
		Long: `Categorize sorts the declared signals into clock, reset, input,
output and internal buckets based on naming conventions and hierarchy
depth. With --verilog, port directions are cross-checked against the
module declaration in the given source file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := root.setup()
			if err != nil {
				return err
			}

			header, err := extract.New(args[0], extract.Options{Logger: logger}).Header()
			if err != nil {
				return err
			}
			defs := headerDefs(header)

			var mod *verilog.Module
			if verilogFile != "" {
				mod, err = verilog.ParseFile(verilogFile)
				if err != nil {
					return err
				}
				logger.Info("Loaded Verilog annotation",
					slog.String("module", mod.Name),
					slog.Int("inputs", len(mod.Inputs)),
					slog.Int("outputs", len(mod.Outputs)))
			}

			cat := categorize.New()
			buckets := cat.Categorize(defs)

			printBucket("Clocks", buckets.Clocks)
			printBucket("Resets", buckets.Resets)
			printBucket("Inputs", buckets.Inputs)
			printBucket("Outputs", buckets.Outputs)
			printBucket("Internals", buckets.Internals)
			printBucket("Unknowns", buckets.Unknowns)

			if clock := cat.SuggestClock(buckets); clock != "" {
				fmt.Printf("\nSuggested clock: %s\n", clock)
			}

			if mod != nil {
				annotate(defs, mod)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&verilogFile, "verilog", "", "Verilog source file for port-direction annotation")
	return cmd
}

func headerDefs(header *vcd.Header) []*vcd.SignalDef {
	paths := header.Paths()
	defs := make([]*vcd.SignalDef, 0, len(paths))
	for _, path := range paths {
		if def, ok := header.Signal(path); ok {
			defs = append(defs, def)
		}
	}
	return defs
}

func printBucket(title string, paths []string) {
	if len(paths) == 0 {
		return
	}
	fmt.Printf("%s:\n", title)
	for _, path := range paths {
		fmt.Printf("  %s\n", path)
	}
}

// annotate prints the declared direction of every dumped signal that
// appears as a port of the Verilog module.
func annotate(defs []*vcd.SignalDef, mod *verilog.Module) {
	fmt.Printf("\nPort directions from module %s:\n", mod.Name)
	for _, def := range defs {
		leaf := def.Name
		if i := strings.LastIndex(leaf, "["); i > 0 {
			leaf = leaf[:i]
		}
		if dir, ok := mod.Direction(leaf); ok {
			fmt.Printf("  %-10s %s\n", dir, def.Path)
		}
	}
}
