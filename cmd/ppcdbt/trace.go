package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/ppcdbt/loader"
)

type traceFlags struct {
	pc   uint32
	tree bool
}

func newTraceCmd(a *app) *cobra.Command {
	f := &traceFlags{}

	cmd := &cobra.Command{
		Use:   "trace <program.elf>",
		Short: "Print the IR of one translated trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := loader.Load(args[0])
			if err != nil {
				return fmt.Errorf("loading program: %w", err)
			}

			e := newGuest(a, prog, cmd.OutOrStdout(), cmd.ErrOrStderr(), 0)

			pc := prog.EntryPoint
			if cmd.Flags().Changed("pc") {
				pc = f.pc
			}

			trace, err := e.Translator().Translate(pc)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "; trace at 0x%08x: %d instructions, %d fills removed\n",
				trace.StartPC, trace.NumInstructions, trace.RemovedFills)
			if f.tree {
				_, _ = fmt.Fprint(out, trace.Func.Tree().String())
			} else {
				_, _ = fmt.Fprint(out, trace.Func.String())
			}
			return nil
		},
	}

	cmd.Flags().Uint32Var(&f.pc, "pc", 0, "guest address of the trace (default: entry point)")
	cmd.Flags().BoolVar(&f.tree, "tree", false, "print the blocks as a tree with successors")

	return cmd
}
