package translator

import (
	"slices"

	"github.com/sarchlab/ppcdbt/ir"
)

func (c *Context) registerMapping(pc uint32, lazy Laziness, b *ir.Block) {
	c.blockMap[lazy.MakeKey(pc)] = b
}

func (c *Context) findMapping(pc uint32, lazy Laziness) *ir.Block {
	return c.blockMap[lazy.MakeKey(pc)]
}

// createBlockAfterCurrent returns a new block placed directly after the
// current block in code order.
func (c *Context) createBlockAfterCurrent() *ir.Block {
	return c.fn.InsertBlockAfter(c.cur)
}

// createSideBlock returns a block at the end of the function. Side blocks
// are only entered by an explicit jump and must end in a terminator.
func (c *Context) createSideBlock() *ir.Block {
	return c.fn.NewBlock()
}

func (c *Context) ensureEmptyCurrentBlock() {
	if c.cur.Len() != 0 {
		c.cur = c.createBlockAfterCurrent()
	}
}

// translateSubTrace translates guest code starting at pc into the current
// block until an instruction ends linear translation, the trace is long
// enough, or execution reaches code the trace already holds.
func (c *Context) translateSubTrace(lazy Laziness, pc uint32) {
	c.pc = pc

	if c.ShallTraceStop() {
		c.registerMapping(pc, lazy, c.cur)
		c.next = c.createBlockAfterCurrent()
		c.AppendTraceExit(lazy, ir.UintConst(pc))
		c.cur = c.next
		return
	}

	for {
		c.registerMapping(pc, lazy, c.cur)
		c.next = c.createBlockAfterCurrent()

		next := TranslateInstruction(c, c.t.ps, lazy, pc)
		c.numInstructions++
		c.cur = c.next

		if next == EndOfTrace {
			return
		}
		pc = uint32(next)
		c.pc = pc

		if c.t.opts.SingleInstrTranslation || c.ShallTraceStop() {
			c.registerMapping(pc, lazy, c.cur)
			c.AppendTraceExit(lazy, ir.UintConst(pc))
			return
		}

		if b := c.findMapping(pc, lazy); b != nil {
			c.cur.Goto(b)
			c.cur = c.createBlockAfterCurrent()
			return
		}
	}
}

// ShallTraceStop reports whether the trace has reached its size limit.
func (c *Context) ShallTraceStop() bool {
	opts := c.t.opts
	if opts.SingleInstrTranslation && c.numInstructions >= 1 {
		return true
	}
	return c.numInstructions > opts.TraceLimit()
}

// TraceContinuesAfterBranchAndLink reports whether translation follows a
// call into its target rather than leaving the trace.
func (c *Context) TraceContinuesAfterBranchAndLink(pc uint32) bool {
	return !c.ShallTraceStop()
}

// AppendBranch ends the current block with a jump to the guest address
// target. The jump is resolved once the whole sub-trace is translated.
func (c *Context) AppendBranch(lazy Laziness, target uint32, kind BranchKind) {
	c.appendStaticBranch(lazy, target, kind, 0)
}

// AppendCall is AppendBranch for a call returning to ret.
func (c *Context) AppendCall(lazy Laziness, target, ret uint32) {
	c.appendStaticBranch(lazy, target, BranchCall, ret)
}

func (c *Context) appendStaticBranch(lazy Laziness, target uint32, kind BranchKind, ret uint32) {
	inst := c.cur.Goto(nil)
	c.direct = append(c.direct, unresolvedBranch{
		block:  c.cur,
		inst:   inst,
		lazy:   lazy.Clone(),
		pc:     c.pc,
		target: target,
		kind:   kind,
	})

	switch kind {
	case BranchCall:
		c.t.branches.RegisterCallSite(c.pc, ret, target)
	case BranchReturn:
		c.t.branches.RegisterReturnSite(c.pc, target)
	}
}

// AppendDynamicBranch ends the current block with a jump to the guest
// address held in target. The jump becomes a lookup switch over the
// targets seen so far; any other value records the branch and leaves the
// trace.
func (c *Context) AppendDynamicBranch(lazy Laziness, target *ir.Reg, kind BranchKind) {
	exit := c.createBlockAfterCurrent()
	sw := c.cur.LookupSwitch(target, nil, exit)
	c.dynamic = append(c.dynamic, unresolvedBranch{
		block: c.cur,
		inst:  sw,
		lazy:  lazy.Clone(),
		pc:    c.pc,
		kind:  kind,
	})

	c.cur = exit
	if c.t.opts.OptLevel > 0 {
		c.cur.RecordBranch(c.pc, target)
	}
	c.AppendTraceExit(lazy.Clone(), target)
}

// AppendTraceExit ends the current block by leaving the trace with next as
// the guest PC to continue at.
func (c *Context) AppendTraceExit(lazy Laziness, next ir.Operand) {
	c.cur.Move(c.result, next)
	lazy.Resolve(c.cur)
	c.cur.Goto(c.finish)
}

// AppendSystemCall runs the guest system call with all guest registers in
// the architectural state.
func (c *Context) AppendSystemCall(lazy Laziness) {
	lazy.Resolve(c.cur)
	c.SpillAllRegisters(c.cur)
	c.cur.Syscall()
	c.FillAllRegisters(c.cur)
}

// AppendThrowBadInstruction ends the current block with a guest fault for
// the instruction word at pc.
func (c *Context) AppendThrowBadInstruction(lazy Laziness, pc, word uint32) int64 {
	lazy.Resolve(c.cur)
	c.SpillAllRegisters(c.cur)
	c.cur.Trap(pc, word)
	return EndOfTrace
}

func (c *Context) resolveBranches() {
	for len(c.direct) > 0 || len(c.dynamic) > 0 {
		for len(c.direct) > 0 {
			jump := c.direct[0]
			c.direct = c.direct[1:]

			target := c.resolveBranchTarget(jump.target, jump)
			jump.inst.Target = target

			if c.t.opts.DebugBranchResolution {
				c.t.logger.Debug().
					Str("block", jump.block.Label).
					Stringer("target", jump.lazy.MakeKey(jump.target)).
					Str("resolved", target.Label).
					Msg("resolved goto")
			}
		}

		for len(c.dynamic) > 0 {
			jump := c.dynamic[0]
			c.dynamic = c.dynamic[1:]
			c.resolveDynamicBranch(jump, c.t.branches.KnownTargets(jump.pc))
		}
	}
}

// resolveBranchTarget returns the block holding guest code at target,
// either already in the trace, translated into it now, or a fresh trace
// exit.
func (c *Context) resolveBranchTarget(target uint32, jump unresolvedBranch) *ir.Block {
	if b := c.findMapping(target, jump.lazy); b != nil {
		return b
	}

	c.ensureEmptyCurrentBlock()

	if c.shouldInline(target, jump) {
		c.translateSubTrace(jump.lazy.Clone(), target)
		if b := c.findMapping(target, jump.lazy); b != nil {
			return b
		}
		c.internalError("sub-trace at 0x%08x left no mapping", target)
	}

	b := c.cur
	c.AppendTraceExit(jump.lazy, ir.UintConst(target))
	c.registerMapping(target, jump.lazy, b)
	return b
}

// shouldInline decides whether a branch target outside the trace is
// translated into it. Returns are never followed; calls only into small
// traces already in the cache; other branches unless the target already
// has its own trace.
func (c *Context) shouldInline(target uint32, jump unresolvedBranch) bool {
	opts := c.t.opts
	if opts.SingleInstrTranslation || c.ShallTraceStop() {
		return false
	}

	n, cached := c.t.cache.TraceLength(target)
	switch jump.kind {
	case BranchReturn:
		return false
	case BranchCall:
		return cached && n < opts.InlineCallThreshold
	}
	return !cached
}

func (c *Context) resolveDynamicBranch(jump unresolvedBranch, known []uint32) {
	targets := make([]uint32, 0, len(known))
	for _, t := range known {
		targets = append(targets, t&^3)
	}
	slices.Sort(targets)
	targets = slices.Compact(targets)

	if c.t.opts.DebugBranchResolution {
		c.t.logger.Debug().
			Uint32("pc", jump.pc).
			Str("kind", jump.kind.String()).
			Int("targets", len(targets)).
			Msg("resolving dynamic branch")
	}

	if len(targets) == 0 {
		// Always takes the default and leaves the trace.
		return
	}

	sw := jump.inst
	if len(targets) == 1 && c.fn.Next(jump.block) == sw.Default {
		target := c.resolveBranchTarget(targets[0], jump)
		value := sw.Args[0]
		*sw = ir.Inst{
			Op:     ir.OpIfCmp,
			Args:   []ir.Operand{value, ir.UintConst(targets[0])},
			Cond:   ir.CondEQ,
			Target: target,
		}
		return
	}

	cases := make([]ir.SwitchCase, 0, len(targets))
	for _, t := range targets {
		cases = append(cases, ir.SwitchCase{Value: t, Target: c.resolveBranchTarget(t, jump)})
	}
	sw.Cases = cases
}

func (c *Context) finishTrace() {
	c.SpillAllRegisters(c.finish)
	c.finish.Return(c.result)
}
