package translator

import (
	"github.com/sarchlab/ppcdbt/ir"
)

// nextPC returns the address of the instruction after the current one.
func (c *Context) nextPC() int64 {
	return int64(c.pc) + 4
}

// gprOrZero returns the base operand rA of instructions that read the
// constant zero instead of r0.
func (c *Context) gprOrZero(ra uint32) ir.Operand {
	if ra == 0 {
		return ir.IntConst(0)
	}
	return c.GPR(ra)
}

// effectiveAddress computes (rA|0) + disp into a new temporary.
func (c *Context) effectiveAddress(ra uint32, disp int32) *ir.Reg {
	ea := c.tempInt()
	if ra == 0 {
		c.cur.Move(ea, ir.IntConst(disp))
		return ea
	}
	c.cur.Binary(ir.OpAdd, ea, c.GPR(ra), ir.IntConst(disp))
	return ea
}

// indexedAddress computes (rA|0) + rB into a new temporary.
func (c *Context) indexedAddress(ra, rb uint32) *ir.Reg {
	ea := c.tempInt()
	if ra == 0 {
		c.cur.Move(ea, c.GPR(rb))
		return ea
	}
	c.cur.Binary(ir.OpAdd, ea, c.GPR(ra), c.GPR(rb))
	return ea
}

// setCRField stores the three-way comparison of x and y, plus a copy of
// XER[SO], into condition field crf.
func (c *Context) setCRField(crf uint32, x, y ir.Operand, signed bool) {
	lt, gt := ir.CondLT, ir.CondGT
	if !signed {
		lt, gt = ir.CondLTU, ir.CondGTU
	}

	c.lazy.ResolveCRField(c.cur, crf)
	c.cur.BoolCmp(c.CRLt(crf), x, y, lt)
	c.cur.BoolCmp(c.CRGt(crf), x, y, gt)
	c.cur.BoolCmp(c.CREq(crf), x, y, ir.CondEQ)
	c.cur.Move(c.CRSO(crf), c.XERSO())
}

// setCR0 records the sign of result in condition field 0.
func (c *Context) setCR0(result ir.Operand) {
	c.setCRField(0, result, ir.IntConst(0), true)
}

// setCR1FromFPSCR copies FPSCR[FX,FEX,VX,OX] into condition field 1.
func (c *Context) setCR1FromFPSCR() {
	c.setCRFieldFromNibble(1, c.FPSCR(), 28)
}

// setCRFieldFromNibble sets condition field crf from the four bits of v
// starting at bit shift (LSB numbering), lt taking the highest.
func (c *Context) setCRFieldFromNibble(crf uint32, v ir.Operand, shift uint32) {
	bits := []*ir.Reg{c.CRLt(crf), c.CRGt(crf), c.CREq(crf), c.CRSO(crf)}
	for i, dst := range bits {
		t := c.tempInt()
		c.cur.Binary(ir.OpAnd, t, v, ir.UintConst(1<<(shift+3-uint32(i))))
		c.cur.BoolCmp(dst, t, ir.IntConst(0), ir.CondNE)
	}
}

// crFieldNibble assembles condition field crf into the low four bits of
// a new temporary.
func (c *Context) crFieldNibble(crf uint32) *ir.Reg {
	out := c.tempInt()
	c.cur.Move(out, ir.IntConst(0))
	bits := []*ir.Reg{c.CRLt(crf), c.CRGt(crf), c.CREq(crf), c.CRSO(crf)}
	for i, b := range bits {
		t := c.tempInt()
		c.cur.Unary(ir.OpBoolToInt, t, b)
		if s := 3 - i; s > 0 {
			c.cur.Binary(ir.OpShl, t, t, ir.IntConst(int32(s)))
		}
		c.cur.Binary(ir.OpOr, out, out, t)
	}
	return out
}

// addOverflow returns a boolean that is set when r = x + y (+ carry in)
// overflowed as a signed addition.
func (c *Context) addOverflow(x, y ir.Operand, r *ir.Reg) *ir.Reg {
	a, b := c.tempInt(), c.tempInt()
	c.cur.Binary(ir.OpXor, a, x, r)
	c.cur.Binary(ir.OpXor, b, y, r)
	c.cur.Binary(ir.OpAnd, a, a, b)

	ov := c.tempBool()
	c.cur.BoolCmp(ov, a, ir.IntConst(0), ir.CondLT)
	return ov
}

// setOverflow stores ov into XER[OV] and accumulates it into XER[SO].
func (c *Context) setOverflow(ov *ir.Reg) {
	c.cur.Move(c.XEROV(), ov)
	c.cur.Binary(ir.OpOr, c.XERSO(), c.XERSO(), ov)
}

// rotateLeft computes s rotated left by n into a new temporary.
func (c *Context) rotateLeft(s, n ir.Operand) *ir.Reg {
	hi, lo, inv := c.tempInt(), c.tempInt(), c.tempInt()
	c.cur.Binary(ir.OpShl, hi, s, n)
	c.cur.Binary(ir.OpSub, inv, ir.IntConst(32), n)
	c.cur.Binary(ir.OpUShr, lo, s, inv)
	c.cur.Binary(ir.OpOr, hi, hi, lo)
	return hi
}

// byteReverse32 reverses the byte order of v into a new temporary.
func (c *Context) byteReverse32(v ir.Operand) *ir.Reg {
	out, t := c.tempInt(), c.tempInt()
	c.cur.Binary(ir.OpShl, out, v, ir.IntConst(24))

	c.cur.Binary(ir.OpShl, t, v, ir.IntConst(8))
	c.cur.Binary(ir.OpAnd, t, t, ir.UintConst(0x00FF0000))
	c.cur.Binary(ir.OpOr, out, out, t)

	c.cur.Binary(ir.OpUShr, t, v, ir.IntConst(8))
	c.cur.Binary(ir.OpAnd, t, t, ir.UintConst(0x0000FF00))
	c.cur.Binary(ir.OpOr, out, out, t)

	c.cur.Binary(ir.OpUShr, t, v, ir.IntConst(24))
	c.cur.Binary(ir.OpOr, out, out, t)
	return out
}

// byteReverse16 swaps the two low bytes of v into a new temporary.
func (c *Context) byteReverse16(v ir.Operand) *ir.Reg {
	out, t := c.tempInt(), c.tempInt()
	c.cur.Binary(ir.OpShl, out, v, ir.IntConst(8))
	c.cur.Binary(ir.OpAnd, out, out, ir.UintConst(0xFF00))
	c.cur.Binary(ir.OpUShr, t, v, ir.IntConst(8))
	c.cur.Binary(ir.OpAnd, t, t, ir.UintConst(0x00FF))
	c.cur.Binary(ir.OpOr, out, out, t)
	return out
}

// trapBlock returns a side block that raises the current instruction as
// a guest fault.
func (c *Context) trapBlock() *ir.Block {
	b := c.createSideBlock()
	c.lazy.Resolve(b)
	c.SpillAllRegisters(b)
	b.Trap(c.pc, c.inst.Word)
	return b
}

// badInstruction plants a guest fault for the current instruction.
func (c *Context) badInstruction() int64 {
	return c.AppendThrowBadInstruction(c.lazy, c.pc, c.inst.Word)
}
