package translator

import (
	"github.com/sarchlab/ppcdbt/insts"
	"github.com/sarchlab/ppcdbt/ir"
)

var branchHandlers = handlerSet{
	b: map[insts.Op]bHandler{
		insts.OpBC: translateBC,
	},
	i: map[insts.Op]iHandler{
		insts.OpB: translateB,
	},
	sc: map[insts.Op]scHandler{
		insts.OpSC: translateSC,
	},
	xl: map[insts.Op]xlHandler{
		insts.OpBCLR:  translateBCLR,
		insts.OpBCCTR: translateBCCTR,
	},
}

// BO field bits of the conditional branches.
const (
	boNoCondition   = 0x10
	boConditionTrue = 0x08
	boNoCTR         = 0x04
	boCTRZero       = 0x02
)

// conditional reports whether a branch with this BO can fall through.
func conditional(bo uint32) bool {
	return bo&boNoCTR == 0 || bo&boNoCondition == 0
}

// branchTests emits the CTR decrement and the condition test of a
// conditional branch, each jumping to the next instruction when it
// fails.
func (c *Context) branchTests(bo, bi uint32) {
	if bo&boNoCTR == 0 {
		ctr := c.CTR()
		c.cur.Binary(ir.OpSub, ctr, ctr, ir.IntConst(1))
		if bo&boCTRZero != 0 {
			c.cur.IfCmp(ctr, ir.IntConst(0), ir.CondNE, c.next)
		} else {
			c.cur.IfCmp(ctr, ir.IntConst(0), ir.CondEQ, c.next)
		}
	}

	if bo&boNoCondition == 0 {
		c.cur.IfCmp(c.CRBit(bi), ir.BoolConst(bo&boConditionTrue != 0), ir.CondNE, c.next)
	}
}

// b, ba, bl and bla.
func translateB(c *Context, f insts.IFields) int64 {
	target := uint32(f.Displacement())
	if f.AA == 0 {
		target += c.pc
	}

	if f.LK == 0 {
		c.AppendBranch(c.lazy, target, BranchDirect)
		return EndOfTrace
	}

	ret := c.pc + 4
	c.cur.Move(c.LR(), ir.UintConst(ret))
	if c.TraceContinuesAfterBranchAndLink(c.pc) {
		c.AppendCall(c.lazy, target, ret)
	} else {
		c.t.branches.RegisterCallSite(c.pc, ret, target)
		c.AppendTraceExit(c.lazy, ir.UintConst(target))
	}
	return EndOfTrace
}

func translateBC(c *Context, f insts.BFields) int64 {
	target := uint32(f.Displacement())
	if f.AA == 0 {
		target += c.pc
	}

	ret := c.pc + 4
	if f.LK != 0 {
		c.cur.Move(c.LR(), ir.UintConst(ret))
	}

	c.branchTests(f.BO, f.BI)

	if f.LK != 0 {
		c.AppendCall(c.lazy, target, ret)
	} else {
		c.AppendBranch(c.lazy, target, BranchDirect)
	}

	if conditional(f.BO) {
		return c.nextPC()
	}
	return EndOfTrace
}

// bclr and bclrl. The target is taken from LR before LK overwrites it.
func translateBCLR(c *Context, f insts.XLFields) int64 {
	target := c.tempInt()
	c.cur.Binary(ir.OpAnd, target, c.LR(), ir.UintConst(^uint32(3)))

	kind := BranchReturn
	if f.LK != 0 {
		c.cur.Move(c.LR(), ir.UintConst(c.pc+4))
		kind = BranchCall
	}

	c.branchTests(f.BT, f.BA)
	c.AppendDynamicBranch(c.lazy, target, kind)

	if conditional(f.BT) {
		return c.nextPC()
	}
	return EndOfTrace
}

// bcctr and bcctrl. Decrementing CTR while branching to it is an invalid
// form.
func translateBCCTR(c *Context, f insts.XLFields) int64 {
	if f.BT&boNoCTR == 0 {
		c.internalError("bcctr with CTR decrement (BO=0x%02x)", f.BT)
	}

	target := c.tempInt()
	c.cur.Binary(ir.OpAnd, target, c.CTR(), ir.UintConst(^uint32(3)))

	kind := BranchIndirect
	if f.LK != 0 {
		c.cur.Move(c.LR(), ir.UintConst(c.pc+4))
		kind = BranchCall
	}

	c.branchTests(f.BT, f.BA)
	c.AppendDynamicBranch(c.lazy, target, kind)

	if conditional(f.BT) {
		return c.nextPC()
	}
	return EndOfTrace
}

func translateSC(c *Context, f insts.SCFields) int64 {
	if f.One != 1 {
		return c.badInstruction()
	}
	c.AppendSystemCall(c.lazy)
	return c.nextPC()
}
