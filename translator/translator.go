// Package translator turns PowerPC guest code into IR traces.
//
// A trace starts at a guest address and follows the guest's control flow,
// translating one instruction at a time, until every open branch either
// lands inside the trace or leaves it through a trace exit. Each exit
// spills the guest registers and returns the next guest PC.
package translator

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sarchlab/ppcdbt/config"
	"github.com/sarchlab/ppcdbt/ir"
)

// ProcessSpace supplies instruction words of the guest program.
type ProcessSpace interface {
	Read32(addr uint32) uint32
}

// BranchInfo tracks what the guest's branches have been seen to do.
type BranchInfo interface {
	// RegisterCallSite records that the call at pc, returning to ret,
	// branches to dest.
	RegisterCallSite(pc, ret, dest uint32)
	// RegisterReturnSite records a return at pc to dest.
	RegisterReturnSite(pc, dest uint32)
	// KnownTargets returns the destinations observed for the indirect
	// branch at pc.
	KnownTargets(pc uint32) []uint32
}

// TraceCache reports traces that have already been translated.
type TraceCache interface {
	TraceLength(pc uint32) (int, bool)
}

type noBranchInfo struct{}

func (noBranchInfo) RegisterCallSite(pc, ret, dest uint32) {}
func (noBranchInfo) RegisterReturnSite(pc, dest uint32)    {}
func (noBranchInfo) KnownTargets(pc uint32) []uint32       { return nil }

type noTraceCache struct{}

func (noTraceCache) TraceLength(pc uint32) (int, bool) { return 0, false }

// Trace is the result of translating guest code from one start address.
type Trace struct {
	StartPC         uint32
	Func            *ir.Function
	NumInstructions int
	RemovedFills    int
}

// Len returns the number of guest instructions in the trace.
func (t *Trace) Len() int {
	return t.NumInstructions
}

// Translator translates guest code into traces. It holds no per-trace
// state and may be used from several goroutines as long as its
// collaborators allow it.
type Translator struct {
	ps       ProcessSpace
	opts     *config.Options
	logger   zerolog.Logger
	branches BranchInfo
	cache    TraceCache
}

// Option configures a Translator.
type Option func(*Translator)

// WithLogger sets the logger used for translation tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(t *Translator) {
		t.logger = logger
	}
}

// WithBranchInfo sets the branch profile used to register calls and
// resolve indirect branches.
func WithBranchInfo(b BranchInfo) Option {
	return func(t *Translator) {
		t.branches = b
	}
}

// WithTraceCache sets the cache consulted when deciding whether to inline
// a branch target.
func WithTraceCache(c TraceCache) Option {
	return func(t *Translator) {
		t.cache = c
	}
}

// New creates a translator reading guest code from ps. A nil opts selects
// the defaults.
func New(ps ProcessSpace, opts *config.Options, options ...Option) *Translator {
	if opts == nil {
		opts = config.DefaultOptions()
	}

	t := &Translator{
		ps:       ps,
		opts:     opts,
		logger:   zerolog.Nop(),
		branches: noBranchInfo{},
		cache:    noTraceCache{},
	}

	for _, opt := range options {
		opt(t)
	}

	return t
}

// Options returns the options the translator was built with.
func (t *Translator) Options() *config.Options {
	return t.opts
}

// Translate builds the trace starting at pc. Guest instructions that do
// not decode become traps inside the trace; an *InternalError is returned
// for instructions the translator cannot express.
func (t *Translator) Translate(pc uint32) (trace *Trace, err error) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*InternalError)
			if !ok {
				panic(r)
			}
			t.logger.Error().Err(ie).Uint32("start", pc).Msg("translation failed")
			trace, err = nil, ie
		}
	}()

	c := NewContext(t, pc)
	c.translateSubTrace(InitialLaziness(), pc)
	c.resolveBranches()
	c.finishTrace()

	trace = &Trace{
		StartPC:         pc,
		Func:            c.fn,
		NumInstructions: c.numInstructions,
	}

	if t.opts.EliminateRegisterFills {
		trace.RemovedFills = c.fn.RemoveRegisterUses(c.UnusedRegisters())
	}

	t.logger.Debug().
		Str("trace", c.fn.Name).
		Int("insts", trace.NumInstructions).
		Int("blocks", len(c.fn.Blocks)).
		Int("removed_fills", trace.RemovedFills).
		Dur("took", time.Since(start)).
		Msg("translated")

	if t.opts.DebugCFG {
		t.logger.Debug().Msgf("%s\n%s", c.fn.Tree().String(), c.Dump())
	}

	return trace, nil
}

// MustTranslate is like Translate but panics on error.
func (t *Translator) MustTranslate(pc uint32) *Trace {
	trace, err := t.Translate(pc)
	if err != nil {
		panic(fmt.Sprintf("translate 0x%08x: %v", pc, err))
	}
	return trace
}
