// Package benchmarks provides guest microbenchmarks and a harness that runs
// them through the translating emulator.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/sarchlab/ppcdbt/config"
	"github.com/sarchlab/ppcdbt/emu"
)

// Version is reported in JSON output.
const Version = "0.1.0"

// ProgramAddr is where every benchmark program is loaded.
const ProgramAddr = 0x1000

// StackTop is the initial stack pointer of every benchmark.
const StackTop = 0x10000

// BenchmarkResult holds the translation results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// Traces is the number of traces entered
	Traces uint64 `json:"traces"`

	// Translations is the number of traces translated
	Translations uint64 `json:"translations"`

	// Instructions is the guest instruction count of the traces entered
	Instructions uint64 `json:"instructions"`

	// InstructionsPerTrace is Instructions / Traces
	InstructionsPerTrace float64 `json:"instructions_per_trace"`

	// Code cache stats
	CacheHits      uint64  `json:"cache_hits"`
	CacheMisses    uint64  `json:"cache_misses"`
	CacheEvictions uint64  `json:"cache_evictions,omitempty"`
	CacheHitRate   float64 `json:"cache_hit_rate"`

	// Branch profile stats
	Calls            uint64 `json:"calls,omitempty"`
	Returns          uint64 `json:"returns,omitempty"`
	IndirectBranches uint64 `json:"indirect_branches,omitempty"`

	// ExitCode is the program's exit code
	ExitCode int64 `json:"exit_code"`

	// ExpectedExit is the exit code the benchmark should produce
	ExpectedExit int64 `json:"expected_exit"`

	// Passed is true when ExitCode matched ExpectedExit
	Passed bool `json:"passed"`

	// WallTime is the actual time taken to run the benchmark
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Setup prepares the emulator state (e.g., initialize registers, memory)
	Setup func(regFile *emu.RegFile, memory *emu.Memory)

	// Program is the PowerPC machine code to execute, one word per
	// instruction. It is stored in the guest byte order when loaded.
	Program []uint32

	// ExpectedExit is the expected exit code (for validation)
	ExpectedExit int64
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Options are the translation options every benchmark runs with
	Options *config.Options

	// MaxTraces bounds each run; 0 means no limit
	MaxTraces uint64

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Logger receives emulator and translator logs
	Logger zerolog.Logger

	// Verbose enables detailed output
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Options:   config.DefaultOptions(),
		MaxTraces: 10_000_000,
		Output:    os.Stdout,
		Logger:    zerolog.Nop(),
		Verbose:   false,
	}
}

// Harness runs benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Options == nil {
		config.Options = DefaultConfig().Options
	}
	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		result := h.runBenchmark(bench)
		if h.config.Verbose {
			_, _ = fmt.Fprintf(h.config.Output, "%-24s exit=%d traces=%d translations=%d (%v)\n",
				result.Name, result.ExitCode, result.Traces, result.Translations, result.WallTime)
		}
		results = append(results, result)
	}

	return results
}

// runBenchmark executes a single benchmark on a fresh emulator.
func (h *Harness) runBenchmark(bench Benchmark) BenchmarkResult {
	e := emu.NewEmulator(
		emu.WithOptions(h.config.Options.Clone()),
		emu.WithLogger(h.config.Logger),
		emu.WithStdout(io.Discard),
		emu.WithStderr(io.Discard),
		emu.WithStackPointer(StackTop),
		emu.WithMaxTraces(h.config.MaxTraces),
	)

	if bench.Setup != nil {
		bench.Setup(e.RegFile(), e.Memory())
	}

	e.LoadProgram(ProgramAddr, BuildProgram(e.Memory().ByteOrder(), bench.Program...))

	start := time.Now()
	exitCode := e.Run()
	wallTime := time.Since(start)

	stats := e.Stats()
	result := BenchmarkResult{
		Name:             bench.Name,
		Description:      bench.Description,
		Traces:           stats.Traces,
		Translations:     stats.Translations,
		Instructions:     stats.Instructions,
		CacheHits:        stats.Cache.Hits,
		CacheMisses:      stats.Cache.Misses,
		CacheEvictions:   stats.Cache.Evictions,
		CacheHitRate:     stats.Cache.HitRate(),
		Calls:            stats.Branch.Calls,
		Returns:          stats.Branch.Returns,
		IndirectBranches: stats.Branch.Branches,
		ExitCode:         exitCode,
		ExpectedExit:     bench.ExpectedExit,
		Passed:           exitCode == bench.ExpectedExit,
		WallTime:         wallTime,
	}

	if stats.Traces > 0 {
		result.InstructionsPerTrace = float64(stats.Instructions) / float64(stats.Traces)
	}

	return result
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	out := h.config.Output
	_, _ = fmt.Fprintln(out, "=== ppcdbt Benchmark Results ===")
	_, _ = fmt.Fprintf(out, "opt level %d, single instruction %v, %s endian\n",
		h.config.Options.OptLevel,
		h.config.Options.SingleInstrTranslation,
		h.config.Options.TargetEndianness)
	_, _ = fmt.Fprintln(out, "")

	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = fmt.Sprintf("FAIL (expected %d)", r.ExpectedExit)
		}

		_, _ = fmt.Fprintf(out, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(out, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(out, "  Exit Code: %d %s\n", r.ExitCode, status)
		_, _ = fmt.Fprintln(out, "  --- Translation ---")
		_, _ = fmt.Fprintf(out, "  Traces:           %d\n", r.Traces)
		_, _ = fmt.Fprintf(out, "  Translations:     %d\n", r.Translations)
		_, _ = fmt.Fprintf(out, "  Instructions:     %d\n", r.Instructions)
		_, _ = fmt.Fprintf(out, "  Insts per Trace:  %.2f\n", r.InstructionsPerTrace)
		_, _ = fmt.Fprintln(out, "  --- Code Cache ---")
		_, _ = fmt.Fprintf(out, "  Hits:      %d\n", r.CacheHits)
		_, _ = fmt.Fprintf(out, "  Misses:    %d\n", r.CacheMisses)
		if r.CacheEvictions > 0 {
			_, _ = fmt.Fprintf(out, "  Evictions: %d\n", r.CacheEvictions)
		}
		_, _ = fmt.Fprintf(out, "  Hit Rate:  %.1f%%\n", 100*r.CacheHitRate)

		if r.Calls > 0 || r.Returns > 0 || r.IndirectBranches > 0 {
			_, _ = fmt.Fprintln(out, "  --- Branch Profile ---")
			_, _ = fmt.Fprintf(out, "  Calls:     %d\n", r.Calls)
			_, _ = fmt.Fprintf(out, "  Returns:   %d\n", r.Returns)
			_, _ = fmt.Fprintf(out, "  Indirect:  %d\n", r.IndirectBranches)
		}

		_, _ = fmt.Fprintf(out, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(out, "")
	}
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,traces,translations,instructions,cache_hits,cache_misses,cache_evictions,calls,returns,indirect_branches,exit_code,passed")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d,%v\n",
			r.Name,
			r.Traces,
			r.Translations,
			r.Instructions,
			r.CacheHits,
			r.CacheMisses,
			r.CacheEvictions,
			r.Calls,
			r.Returns,
			r.IndirectBranches,
			r.ExitCode,
			r.Passed,
		)
	}
}

// BenchmarkReport is the complete output format for benchmark results.
type BenchmarkReport struct {
	// Metadata about the benchmark run
	Metadata ReportMetadata `json:"metadata"`

	// Results is the list of individual benchmark results
	Results []BenchmarkResult `json:"results"`

	// Summary contains aggregate statistics
	Summary ReportSummary `json:"summary"`
}

// ReportMetadata contains information about the benchmark run.
type ReportMetadata struct {
	// Timestamp when the benchmark was run
	Timestamp string `json:"timestamp"`

	// Version of the translator
	Version string `json:"version"`

	// Options are the translation options used
	Options *config.Options `json:"options"`
}

// ReportSummary contains aggregate statistics across all benchmarks.
type ReportSummary struct {
	// TotalBenchmarks is the number of benchmarks run
	TotalBenchmarks int `json:"total_benchmarks"`

	// Passed is the number of benchmarks with the expected exit code
	Passed int `json:"passed"`

	// TotalTraces is the sum of all traces entered
	TotalTraces uint64 `json:"total_traces"`

	// TotalTranslations is the sum of all traces translated
	TotalTranslations uint64 `json:"total_translations"`

	// TotalInstructions is the sum of all instructions executed
	TotalInstructions uint64 `json:"total_instructions"`

	// TotalWallTime is the total wall clock time for all benchmarks
	TotalWallTime time.Duration `json:"total_wall_time_ns"`
}

// PrintJSON outputs benchmark results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	summary := ReportSummary{TotalBenchmarks: len(results)}
	for _, r := range results {
		if r.Passed {
			summary.Passed++
		}
		summary.TotalTraces += r.Traces
		summary.TotalTranslations += r.Translations
		summary.TotalInstructions += r.Instructions
		summary.TotalWallTime += r.WallTime
	}

	report := BenchmarkReport{
		Metadata: ReportMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   Version,
			Options:   h.config.Options,
		},
		Results: results,
		Summary: summary,
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
