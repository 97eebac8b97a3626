package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/ppcdbt/insts"
	"github.com/sarchlab/ppcdbt/loader"
)

func newDisasmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "disasm <program.elf>",
		Short: "Disassemble the executable segments of a PowerPC program",
		Long: `Disassemble every executable segment. Instructions the translator
cannot handle in user mode are marked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := loader.Load(args[0])
			if err != nil {
				return fmt.Errorf("loading program: %w", err)
			}

			out := cmd.OutOrStdout()
			decoder := insts.NewDecoder()

			for _, seg := range prog.Segments {
				if seg.Flags&loader.SegmentFlagExecute == 0 {
					continue
				}

				_, _ = fmt.Fprintf(out, "segment 0x%08x (%d bytes):\n", seg.VirtAddr, len(seg.Data))
				for off := 0; off+4 <= len(seg.Data); off += 4 {
					pc := seg.VirtAddr + uint32(off)
					word := prog.ByteOrder.Uint32(seg.Data[off:])

					mark := ""
					if decoder.Decode(word).Op == insts.OpUnknown {
						mark = "\t; unsupported"
					}
					if pc == prog.EntryPoint {
						_, _ = fmt.Fprintln(out, "<entry>:")
					}
					_, _ = fmt.Fprintf(out, "  %08x:\t%08x\t%s%s\n", pc, word, insts.Disassemble(word, pc), mark)
				}
			}

			a.logger.Debug().Str("program", args[0]).Msg("disassembled")
			return nil
		},
	}
}
