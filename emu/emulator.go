package emu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/sarchlab/ppcdbt/branch"
	"github.com/sarchlab/ppcdbt/codecache"
	"github.com/sarchlab/ppcdbt/config"
	"github.com/sarchlab/ppcdbt/insts"
	"github.com/sarchlab/ppcdbt/ir"
	"github.com/sarchlab/ppcdbt/translator"
)

// ErrMaxTraces is returned by Step once the trace budget is spent.
var ErrMaxTraces = errors.New("max traces reached")

// BadInstructionError reports a guest instruction that cannot execute in
// user mode: an undecodable word, a privileged instruction or a vector
// instruction.
type BadInstructionError struct {
	PC   uint32
	Word uint32
}

func (e *BadInstructionError) Error() string {
	return fmt.Sprintf("bad instruction 0x%08x at PC=0x%08X (%s)",
		e.Word, e.PC, insts.Disassemble(e.Word, e.PC))
}

// TrapError reports a tw or twi whose trap condition held.
type TrapError struct {
	PC   uint32
	Word uint32
}

func (e *TrapError) Error() string {
	return fmt.Sprintf("trap at PC=0x%08X (%s)", e.PC, insts.Disassemble(e.Word, e.PC))
}

// exitRequest stops the running trace when the guest exits.
type exitRequest struct {
	code int64
}

func (e *exitRequest) Error() string {
	return fmt.Sprintf("guest exited with status %d", e.code)
}

// StepResult represents the result of executing one trace.
type StepResult struct {
	// Exited is true if the program terminated.
	Exited bool

	// ExitCode is the exit status if Exited is true.
	ExitCode int64

	// Err is set if execution failed.
	Err error
}

// Stats holds execution statistics.
type Stats struct {
	// Traces is the number of traces entered.
	Traces uint64
	// Instructions counts the guest instructions of the traces entered.
	// A trace left early through a side exit still counts in full, so
	// this is an upper bound on the instructions retired.
	Instructions uint64
	// Translations is the number of traces translated.
	Translations uint64

	Cache  codecache.Stats
	Branch branch.Stats
}

// Emulator executes a PowerPC user program by translating it trace by
// trace and running the traces against its register file and memory.
type Emulator struct {
	regFile        *RegFile
	memory         *Memory
	syscallHandler SyscallHandler
	customSyscalls bool

	opts       *config.Options
	translator *translator.Translator
	cache      *codecache.Cache
	profile    *branch.Profile
	decoder    *insts.Decoder
	env        *traceEnv

	logger zerolog.Logger
	stdout io.Writer
	stderr io.Writer

	traceCount       uint64
	instructionCount uint64
	translations     uint64
	maxTraces        uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithStdout sets the writer for guest stdout.
func WithStdout(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.stdout = w
	}
}

// WithStderr sets the writer for guest stderr.
func WithStderr(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.stderr = w
	}
}

// WithSyscallHandler sets a custom syscall handler.
func WithSyscallHandler(handler SyscallHandler) EmulatorOption {
	return func(e *Emulator) {
		e.syscallHandler = handler
		e.customSyscalls = true
	}
}

// WithStackPointer sets the initial stack pointer (r1).
func WithStackPointer(sp uint32) EmulatorOption {
	return func(e *Emulator) {
		e.regFile.SetSP(sp)
	}
}

// WithMaxTraces bounds the number of traces Step will enter.
func WithMaxTraces(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxTraces = max
	}
}

// WithOptions sets the translation options.
func WithOptions(opts *config.Options) EmulatorOption {
	return func(e *Emulator) {
		e.opts = opts
	}
}

// WithLogger sets the logger for the emulator and its translator.
func WithLogger(logger zerolog.Logger) EmulatorOption {
	return func(e *Emulator) {
		e.logger = logger
	}
}

// NewEmulator creates a new emulator with an empty address space.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: &RegFile{},
		opts:    config.DefaultOptions(),
		decoder: insts.NewDecoder(),
		profile: branch.NewProfile(),
		logger:  zerolog.Nop(),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.memory = e.newMemory()
	e.cache = codecache.FromOptions(e.opts)
	e.wire()

	return e
}

func (e *Emulator) newMemory() *Memory {
	if e.opts.IsBigEndian() {
		return NewMemoryWithOrder(binary.BigEndian)
	}
	return NewMemoryWithOrder(binary.LittleEndian)
}

// wire connects the components that hold the register file or memory.
func (e *Emulator) wire() {
	if !e.customSyscalls {
		e.syscallHandler = NewDefaultSyscallHandler(e.regFile, e.memory, e.stdout, e.stderr)
	}

	e.translator = translator.New(e.memory, e.opts,
		translator.WithLogger(e.logger),
		translator.WithBranchInfo(e.profile),
		translator.WithTraceCache(e.cache),
	)

	e.env = &traceEnv{Memory: e.memory, RegFile: e.regFile, e: e}
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// SyscallHandler returns the syscall handler in use.
func (e *Emulator) SyscallHandler() SyscallHandler {
	return e.syscallHandler
}

// Translator returns the translator the emulator feeds.
func (e *Emulator) Translator() *translator.Translator {
	return e.translator
}

// CodeCache returns the cache of translated traces.
func (e *Emulator) CodeCache() *codecache.Cache {
	return e.cache
}

// BranchProfile returns the branch profile gathered so far.
func (e *Emulator) BranchProfile() *branch.Profile {
	return e.profile
}

// InstructionCount returns the guest instructions in the traces entered.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// TraceCount returns the number of traces entered.
func (e *Emulator) TraceCount() uint64 {
	return e.traceCount
}

// Stats returns execution statistics.
func (e *Emulator) Stats() Stats {
	return Stats{
		Traces:       e.traceCount,
		Instructions: e.instructionCount,
		Translations: e.translations,
		Cache:        e.cache.Stats(),
		Branch:       e.profile.Stats(),
	}
}

// LoadProgram sets the entry point. A []byte program is copied to entry;
// a *Memory replaces the address space.
func (e *Emulator) LoadProgram(entry uint32, program interface{}) {
	switch p := program.(type) {
	case []byte:
		e.memory.LoadProgram(entry, p)
	case *Memory:
		e.memory = p
		e.wire()
	}
	e.cache.Flush()
	e.regFile.PC = entry
}

// InvalidateCode drops translations of code starting in [start, end).
// Call it after the guest or the host rewrites code.
func (e *Emulator) InvalidateCode(start, end uint32) {
	n := e.cache.InvalidateRange(start, end)
	e.logger.Debug().
		Uint32("start", start).
		Uint32("end", end).
		Int("traces", n).
		Msg("invalidated code")
}

// Reset clears the emulator state.
func (e *Emulator) Reset() {
	e.regFile = &RegFile{}
	e.memory = e.newMemory()
	e.traceCount = 0
	e.instructionCount = 0
	e.translations = 0

	e.cache.Flush()
	e.cache.ResetStats()
	e.profile.Reset()
	e.wire()
}

// Step translates, if needed, and executes the trace at PC.
func (e *Emulator) Step() StepResult {
	if e.maxTraces > 0 && e.traceCount >= e.maxTraces {
		return StepResult{Err: ErrMaxTraces}
	}

	pc := e.regFile.PC
	trace, err := e.trace(pc)
	if err != nil {
		return StepResult{Err: err}
	}

	e.traceCount++
	e.instructionCount += uint64(trace.Len())

	next, err := ir.Execute(trace.Func, e.env, e.opts.MaxIRSteps)
	e.regFile.TB += uint64(trace.Len())
	if err != nil {
		var exit *exitRequest
		if errors.As(err, &exit) {
			return StepResult{Exited: true, ExitCode: exit.code}
		}

		e.logger.Warn().Err(err).Uint32("trace", pc).Msg("guest fault")
		return StepResult{Err: err}
	}

	e.regFile.PC = next
	return StepResult{}
}

// trace returns the cached trace at pc, translating it on a miss.
func (e *Emulator) trace(pc uint32) (*translator.Trace, error) {
	if t, ok := e.cache.Lookup(pc); ok {
		return t, nil
	}

	t, err := e.translator.Translate(pc)
	if err != nil {
		return nil, fmt.Errorf("translate trace at 0x%08X: %w", pc, err)
	}
	e.translations++

	if evicted := e.cache.Insert(t); evicted != nil {
		e.logger.Debug().Uint32("start", evicted.StartPC).Msg("evicted trace")
	}

	return t, nil
}

// Run executes the program until it exits or faults.
// Returns the exit code, or -1 on error.
func (e *Emulator) Run() int64 {
	for {
		result := e.Step()
		if result.Exited {
			return result.ExitCode
		}
		if result.Err != nil {
			_, _ = fmt.Fprintf(e.stderr, "Emulation error: %v\n", result.Err)
			return -1
		}
	}
}

// traceEnv is the environment traces execute against.
type traceEnv struct {
	*Memory
	*RegFile
	e *Emulator
}

func (t *traceEnv) Syscall() error {
	result := t.e.syscallHandler.Handle()
	if result.Exited {
		return &exitRequest{code: result.ExitCode}
	}
	return nil
}

func (t *traceEnv) RecordBranch(pc, target uint32) {
	t.e.profile.Record(pc, target)
}

func (t *traceEnv) Trap(pc, word uint32) error {
	t.RegFile.PC = pc

	switch t.e.decoder.Decode(word).Op {
	case insts.OpTW, insts.OpTWI:
		return &TrapError{PC: pc, Word: word}
	default:
		return &BadInstructionError{PC: pc, Word: word}
	}
}
