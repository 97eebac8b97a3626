package translator

import (
	"github.com/sarchlab/ppcdbt/insts"
	"github.com/sarchlab/ppcdbt/ir"
)

var logicHandlers = handlerSet{
	d: map[insts.Op]dHandler{
		insts.OpORI:      logicImmediate(ir.OpOr, false, false),
		insts.OpORIS:     logicImmediate(ir.OpOr, true, false),
		insts.OpXORI:     logicImmediate(ir.OpXor, false, false),
		insts.OpXORIS:    logicImmediate(ir.OpXor, true, false),
		insts.OpANDIDot:  logicImmediate(ir.OpAnd, false, true),
		insts.OpANDISDot: logicImmediate(ir.OpAnd, true, true),
	},
	x: map[insts.Op]xHandler{
		insts.OpAND:    logicX(ir.OpAnd, false),
		insts.OpOR:     translateOR,
		insts.OpXOR:    logicX(ir.OpXor, false),
		insts.OpNAND:   logicX(ir.OpAnd, true),
		insts.OpNOR:    logicX(ir.OpOr, true),
		insts.OpEQV:    logicX(ir.OpXor, true),
		insts.OpANDC:   logicComplementX(ir.OpAnd),
		insts.OpORC:    logicComplementX(ir.OpOr),
		insts.OpEXTSB:  signExtend(24),
		insts.OpEXTSH:  signExtend(16),
		insts.OpCNTLZW: translateCNTLZW,
		insts.OpSLW:    shiftX(ir.OpShl),
		insts.OpSRW:    shiftX(ir.OpUShr),
		insts.OpSRAW:   translateSRAW,
		insts.OpSRAWI:  translateSRAWI,
	},
}

// logicImmediate handles ori, oris, xori, xoris, andi. and andis., which
// write rA from rS and an unsigned immediate.
func logicImmediate(op ir.Opcode, shifted, record bool) dHandler {
	return func(c *Context, f insts.DFields) int64 {
		imm := f.D
		if shifted {
			imm <<= 16
		}

		// ori r,r,0 and friends are the architectural nop.
		if imm == 0 && f.RT == f.RA && !record {
			return c.nextPC()
		}

		c.cur.Binary(op, c.GPR(f.RA), c.GPR(f.RT), ir.UintConst(imm))
		if record {
			c.setCR0(c.GPR(f.RA))
		}
		return c.nextPC()
	}
}

// logicX handles the register forms, complementing the result for nand,
// nor and eqv.
func logicX(op ir.Opcode, complement bool) xHandler {
	return func(c *Context, f insts.XFields) int64 {
		ra := c.GPR(f.RA)
		c.cur.Binary(op, ra, c.GPR(f.RT), c.GPR(f.RB))
		if complement {
			c.cur.Unary(ir.OpNot, ra, ra)
		}
		if f.Rc != 0 {
			c.setCR0(ra)
		}
		return c.nextPC()
	}
}

// or rA,rS,rS is mr, and mr r,r is a nop.
func translateOR(c *Context, f insts.XFields) int64 {
	if f.RT == f.RB {
		if f.RT != f.RA {
			c.cur.Move(c.GPR(f.RA), c.GPR(f.RT))
		}
		if f.Rc != 0 {
			c.setCR0(c.GPR(f.RA))
		}
		return c.nextPC()
	}
	return logicX(ir.OpOr, false)(c, f)
}

// logicComplementX handles andc and orc, which complement rB first.
func logicComplementX(op ir.Opcode) xHandler {
	return func(c *Context, f insts.XFields) int64 {
		nb := c.tempInt()
		c.cur.Unary(ir.OpNot, nb, c.GPR(f.RB))
		c.cur.Binary(op, c.GPR(f.RA), c.GPR(f.RT), nb)
		if f.Rc != 0 {
			c.setCR0(c.GPR(f.RA))
		}
		return c.nextPC()
	}
}

func signExtend(shift int32) xHandler {
	return func(c *Context, f insts.XFields) int64 {
		ra := c.GPR(f.RA)
		c.cur.Binary(ir.OpShl, ra, c.GPR(f.RT), ir.IntConst(shift))
		c.cur.Binary(ir.OpShr, ra, ra, ir.IntConst(shift))
		if f.Rc != 0 {
			c.setCR0(ra)
		}
		return c.nextPC()
	}
}

// cntlzw narrows the search for the first set bit by halves, shifting the
// value up whenever the upper part is clear. The count is 32 for zero.
func translateCNTLZW(c *Context, f insts.XFields) int64 {
	v, n := c.tempInt(), c.tempInt()
	c.cur.Move(v, c.GPR(f.RT))
	c.cur.Move(n, ir.IntConst(0))

	for _, step := range []uint32{16, 8, 4, 2, 1} {
		upper, n2, v2 := c.tempInt(), c.tempInt(), c.tempInt()
		c.cur.Binary(ir.OpAnd, upper, v, ir.UintConst(^uint32(0)<<(32-step)))
		c.cur.Binary(ir.OpAdd, n2, n, ir.IntConst(int32(step)))
		c.cur.Binary(ir.OpShl, v2, v, ir.IntConst(int32(step)))
		c.cur.CondMove(n, upper, ir.IntConst(0), ir.CondEQ, n2, n)
		c.cur.CondMove(v, upper, ir.IntConst(0), ir.CondEQ, v2, v)
	}

	// Only zero has no bit left after 31 shifts.
	n2 := c.tempInt()
	c.cur.Binary(ir.OpAdd, n2, n, ir.IntConst(1))
	c.cur.CondMove(c.GPR(f.RA), v, ir.IntConst(0), ir.CondEQ, n2, n)

	if f.Rc != 0 {
		c.setCR0(c.GPR(f.RA))
	}
	return c.nextPC()
}

// shiftX handles slw and srw. Shift amounts of 32 to 63 clear rA.
func shiftX(op ir.Opcode) xHandler {
	return func(c *Context, f insts.XFields) int64 {
		n, r := c.tempInt(), c.tempInt()
		c.cur.Binary(ir.OpAnd, n, c.GPR(f.RB), ir.IntConst(0x3f))
		c.cur.Binary(op, r, c.GPR(f.RT), n)
		c.cur.CondMove(c.GPR(f.RA), n, ir.IntConst(31), ir.CondGTU, ir.IntConst(0), r)
		if f.Rc != 0 {
			c.setCR0(c.GPR(f.RA))
		}
		return c.nextPC()
	}
}

// sraw sets CA when rS is negative and any 1 bit is shifted out.
func translateSRAW(c *Context, f insts.XFields) int64 {
	rs := c.GPR(f.RT)
	n, sh := c.tempInt(), c.tempInt()
	c.cur.Binary(ir.OpAnd, n, c.GPR(f.RB), ir.IntConst(0x3f))
	c.cur.CondMove(sh, n, ir.IntConst(31), ir.CondGTU, ir.IntConst(31), n)

	r := c.tempInt()
	c.cur.Binary(ir.OpShr, r, rs, sh)

	lostMask, kept := c.tempInt(), c.tempInt()
	c.cur.Binary(ir.OpShl, kept, ir.IntConst(-1), sh)
	c.cur.Unary(ir.OpNot, kept, kept)
	c.cur.CondMove(lostMask, n, ir.IntConst(31), ir.CondGTU, ir.IntConst(-1), kept)
	c.setShiftCarry(rs, lostMask)

	c.cur.Move(c.GPR(f.RA), r)
	if f.Rc != 0 {
		c.setCR0(c.GPR(f.RA))
	}
	return c.nextPC()
}

// srawi: the shift amount sits in the rB field.
func translateSRAWI(c *Context, f insts.XFields) int64 {
	rs := c.GPR(f.RT)
	sh := f.RB

	if sh == 0 {
		if f.RA != f.RT {
			c.cur.Move(c.GPR(f.RA), rs)
		}
		c.cur.Move(c.XERCA(), ir.BoolConst(false))
	} else {
		r := c.tempInt()
		c.cur.Binary(ir.OpShr, r, rs, ir.IntConst(int32(sh)))
		c.setShiftCarry(rs, ir.UintConst(1<<sh-1))
		c.cur.Move(c.GPR(f.RA), r)
	}

	if f.Rc != 0 {
		c.setCR0(c.GPR(f.RA))
	}
	return c.nextPC()
}

func (c *Context) setShiftCarry(rs *ir.Reg, lostMask ir.Operand) {
	lost := c.tempInt()
	c.cur.Binary(ir.OpAnd, lost, rs, lostMask)
	neg, nz := c.tempBool(), c.tempBool()
	c.cur.BoolCmp(neg, rs, ir.IntConst(0), ir.CondLT)
	c.cur.BoolCmp(nz, lost, ir.IntConst(0), ir.CondNE)
	c.cur.Binary(ir.OpAnd, c.XERCA(), neg, nz)
}
