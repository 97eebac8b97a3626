// Package config holds the tunable options of the translator and the
// emulator that drives it.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xyproto/env/v2"
)

// Environment variables that override file and default values.
const (
	EnvOptLevel         = "PPCDBT_OPT_LEVEL"
	EnvSingleInstr      = "PPCDBT_SINGLE_INSTR"
	EnvEndianness       = "PPCDBT_ENDIANNESS"
	EnvDebugTranslation = "PPCDBT_DEBUG_TRANSLATION"
)

// Endianness names accepted by TargetEndianness.
const (
	BigEndian    = "big"
	LittleEndian = "little"
)

// Options controls trace formation and debugging output.
type Options struct {
	// OptLevel selects which of InstrOpt0..2 bounds the trace length.
	// Default: 2.
	OptLevel int `json:"opt_level"`

	// InstrOpt0 is the trace length limit at optimization level 0.
	// Default: 30.
	InstrOpt0 int `json:"instr_opt0"`

	// InstrOpt1 is the trace length limit at optimization level 1.
	// Default: 100.
	InstrOpt1 int `json:"instr_opt1"`

	// InstrOpt2 is the trace length limit at optimization level 2.
	// Default: 1000.
	InstrOpt2 int `json:"instr_opt2"`

	// SingleInstrTranslation ends every trace after one instruction.
	SingleInstrTranslation bool `json:"single_instr_translation"`

	// EliminateRegisterFills drops fills and spills of registers a trace
	// never references. Default: true.
	EliminateRegisterFills bool `json:"eliminate_register_fills"`

	// InlineCallThreshold is the largest cached trace, in instructions,
	// whose call target is translated inline. Default: 30.
	InlineCallThreshold int `json:"inline_call_threshold"`

	// TargetEndianness is the guest byte order, "big" or "little".
	// Default: "big".
	TargetEndianness string `json:"target_endianness"`

	// CodeCacheEntries is the number of traces the code cache holds.
	// Default: 4096.
	CodeCacheEntries int `json:"code_cache_entries"`

	// CodeCacheWays is the associativity of the code cache. Default: 8.
	CodeCacheWays int `json:"code_cache_ways"`

	// MaxIRSteps bounds the IR operations one trace run may execute.
	// Zero means unbounded.
	MaxIRSteps int `json:"max_ir_steps"`

	DebugTranslation      bool `json:"debug_translation"`
	DebugBranchResolution bool `json:"debug_branch_resolution"`
	DebugCFG              bool `json:"debug_cfg"`
}

// DefaultOptions returns the default options.
func DefaultOptions() *Options {
	return &Options{
		OptLevel:               2,
		InstrOpt0:              30,
		InstrOpt1:              100,
		InstrOpt2:              1000,
		EliminateRegisterFills: true,
		InlineCallThreshold:    30,
		TargetEndianness:       BigEndian,
		CodeCacheEntries:       4096,
		CodeCacheWays:          8,
	}
}

// LoadOptions loads Options from a JSON file. Keys missing from the file
// keep their default values.
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	opts := DefaultOptions()
	if err := json.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return opts, nil
}

// SaveOptions writes Options to a JSON file.
func (o *Options) SaveOptions(path string) error {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides options from the PPCDBT_* environment variables.
func (o *Options) ApplyEnv() {
	o.OptLevel = env.Int(EnvOptLevel, o.OptLevel)
	o.TargetEndianness = env.Str(EnvEndianness, o.TargetEndianness)
	if env.Has(EnvSingleInstr) {
		o.SingleInstrTranslation = env.Bool(EnvSingleInstr)
	}
	if env.Has(EnvDebugTranslation) {
		o.DebugTranslation = env.Bool(EnvDebugTranslation)
	}
}

// Validate checks that the options are consistent.
func (o *Options) Validate() error {
	if o.OptLevel < 0 || o.OptLevel > 2 {
		return fmt.Errorf("opt_level must be 0, 1 or 2")
	}
	if o.InstrOpt0 <= 0 || o.InstrOpt1 <= 0 || o.InstrOpt2 <= 0 {
		return fmt.Errorf("instr_opt0..2 must be > 0")
	}
	if o.InlineCallThreshold < 0 {
		return fmt.Errorf("inline_call_threshold must be >= 0")
	}
	if o.TargetEndianness != BigEndian && o.TargetEndianness != LittleEndian {
		return fmt.Errorf("target_endianness must be %q or %q", BigEndian, LittleEndian)
	}
	if o.CodeCacheWays <= 0 {
		return fmt.Errorf("code_cache_ways must be > 0")
	}
	if o.CodeCacheEntries <= 0 || o.CodeCacheEntries%o.CodeCacheWays != 0 {
		return fmt.Errorf("code_cache_entries must be a positive multiple of code_cache_ways")
	}
	if o.MaxIRSteps < 0 {
		return fmt.Errorf("max_ir_steps must be >= 0")
	}
	return nil
}

// TraceLimit returns the instruction count at which a trace stops
// growing for the configured optimization level.
func (o *Options) TraceLimit() int {
	switch o.OptLevel {
	case 0:
		return o.InstrOpt0
	case 1:
		return o.InstrOpt1
	default:
		return o.InstrOpt2
	}
}

// IsBigEndian reports whether the guest is big-endian.
func (o *Options) IsBigEndian() bool {
	return o.TargetEndianness != LittleEndian
}

// Clone returns a copy of the options.
func (o *Options) Clone() *Options {
	c := *o
	return &c
}
