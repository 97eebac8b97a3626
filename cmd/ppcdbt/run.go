package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarchlab/ppcdbt/emu"
	"github.com/sarchlab/ppcdbt/loader"
)

type runFlags struct {
	maxTraces  uint64
	cpuProfile string
	memProfile string
}

func newRunCmd(a *app) *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run <program.elf> [args...]",
		Short: "Translate and run a PowerPC program",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, f, args)
		},
	}
	cmd.Flags().SetInterspersed(false)

	cmd.Flags().Uint64Var(&f.maxTraces, "max-traces", 0, "max traces to execute (0 = unlimited)")
	cmd.Flags().StringVar(&f.cpuProfile, "cpuprofile", "", "write cpu profile to file")
	cmd.Flags().StringVar(&f.memProfile, "memprofile", "", "write memory profile to file")

	return cmd
}

func (a *app) run(cmd *cobra.Command, f *runFlags, args []string) error {
	programPath := args[0]

	prog, err := loader.Load(programPath)
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}

	a.logger.Info().
		Str("program", programPath).
		Uint32("entry", prog.EntryPoint).
		Int("segments", len(prog.Segments)).
		Msg("loaded")

	e := newGuest(a, prog, cmd.OutOrStdout(), cmd.ErrOrStderr(), f.maxTraces)
	sp := prog.SetupStack(e.Memory(), args)
	e.RegFile().SetSP(sp)
	if h, ok := e.SyscallHandler().(*emu.DefaultSyscallHandler); ok {
		h.SetStdin(cmd.InOrStdin())
	}

	if f.cpuProfile != "" {
		pf, err := os.Create(f.cpuProfile)
		if err != nil {
			return fmt.Errorf("creating CPU profile: %w", err)
		}
		defer func() { _ = pf.Close() }()

		if err := pprof.StartCPUProfile(pf); err != nil {
			return fmt.Errorf("starting CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	start := time.Now()
	exitCode := e.Run()
	elapsed := time.Since(start)

	if f.memProfile != "" {
		if err := writeHeapProfile(f.memProfile); err != nil {
			return err
		}
	}

	if a.verbose {
		printStats(cmd.ErrOrStderr(), e.Stats(), exitCode, elapsed)
	}

	if exitCode != 0 {
		return &exitError{code: int(exitCode)}
	}
	return nil
}

// newGuest creates an emulator holding the program's segments, with PC at
// the entry point and the program break after the last segment.
func newGuest(a *app, prog *loader.Program, stdout, stderr io.Writer, maxTraces uint64) *emu.Emulator {
	e := emu.NewEmulator(
		emu.WithOptions(a.optionsFor(prog.ByteOrder != binary.LittleEndian)),
		emu.WithLogger(a.logger),
		emu.WithStdout(stdout),
		emu.WithStderr(stderr),
		emu.WithMaxTraces(maxTraces),
	)

	prog.LoadInto(e.Memory())
	e.LoadProgram(prog.EntryPoint, e.Memory())
	e.RegFile().SetSP(prog.InitialSP)

	if h, ok := e.SyscallHandler().(*emu.DefaultSyscallHandler); ok {
		h.SetBreak(prog.Break)
	}

	return e
}

func writeHeapProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating memory profile: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("writing memory profile: %w", err)
	}
	return nil
}

func printStats(w io.Writer, stats emu.Stats, exitCode int64, elapsed time.Duration) {
	_, _ = fmt.Fprintf(w, "\nExit code: %d\n", exitCode)
	_, _ = fmt.Fprintf(w, "Traces executed: %d\n", stats.Traces)
	_, _ = fmt.Fprintf(w, "Traces translated: %d\n", stats.Translations)
	_, _ = fmt.Fprintf(w, "Instructions: %d\n", stats.Instructions)
	_, _ = fmt.Fprintf(w, "Code cache: %d hits, %d misses, %d evictions (%.1f%% hit rate)\n",
		stats.Cache.Hits, stats.Cache.Misses, stats.Cache.Evictions, 100*stats.Cache.HitRate())
	_, _ = fmt.Fprintf(w, "Branch profile: %d calls, %d returns, %d indirect\n",
		stats.Branch.Calls, stats.Branch.Returns, stats.Branch.Branches)
	_, _ = fmt.Fprintf(w, "Elapsed time: %v\n", elapsed)
	if stats.Instructions > 0 && elapsed > 0 {
		_, _ = fmt.Fprintf(w, "Instructions/second: %.0f\n", float64(stats.Instructions)/elapsed.Seconds())
	}
}
