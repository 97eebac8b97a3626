package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/ppcdbt/benchmarks"
)

type benchFlags struct {
	csv  bool
	json bool
	core bool
}

func newBenchCmd(a *app) *cobra.Command {
	f := &benchFlags{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run the built-in guest microbenchmarks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := benchmarks.DefaultConfig()
			cfg.Options = a.opts
			cfg.Output = cmd.OutOrStdout()
			cfg.Logger = a.logger
			cfg.Verbose = a.verbose && !f.csv && !f.json

			harness := benchmarks.NewHarness(cfg)
			if f.core {
				harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
			} else {
				harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
			}

			results := harness.RunAll()

			switch {
			case f.json:
				if err := harness.PrintJSON(results); err != nil {
					return err
				}
			case f.csv:
				harness.PrintCSV(results)
			default:
				harness.PrintResults(results)
			}

			failed := 0
			for _, r := range results {
				if !r.Passed {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d benchmarks failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&f.csv, "csv", false, "output results in CSV format")
	cmd.Flags().BoolVar(&f.json, "json", false, "output results in JSON format")
	cmd.Flags().BoolVar(&f.core, "core", false, "run only the core benchmarks")

	return cmd
}
