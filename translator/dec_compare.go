package translator

import (
	"github.com/sarchlab/ppcdbt/insts"
	"github.com/sarchlab/ppcdbt/ir"
)

var compareHandlers = handlerSet{
	d: map[insts.Op]dHandler{
		insts.OpCMPI:  translateCMPI,
		insts.OpCMPLI: translateCMPLI,
		insts.OpTWI:   translateTWI,
	},
	x: map[insts.Op]xHandler{
		insts.OpCMP:  compareX(true),
		insts.OpCMPL: compareX(false),
		insts.OpTW:   translateTW,
	},
}

// compareField splits the crfD|0|L field of the compare instructions.
// 64-bit compares are invalid on a 32-bit implementation.
func (c *Context) compareField(field uint32) uint32 {
	if field&1 != 0 {
		c.internalError("64-bit compare (L=1)")
	}
	return field >> 2
}

func translateCMPI(c *Context, f insts.DFields) int64 {
	crf := c.compareField(f.RT)
	c.setCRField(crf, c.GPR(f.RA), ir.IntConst(f.SIMM()), true)
	return c.nextPC()
}

func translateCMPLI(c *Context, f insts.DFields) int64 {
	crf := c.compareField(f.RT)
	c.setCRField(crf, c.GPR(f.RA), ir.UintConst(f.D), false)
	return c.nextPC()
}

func compareX(signed bool) xHandler {
	return func(c *Context, f insts.XFields) int64 {
		crf := c.compareField(f.RT)
		c.setCRField(crf, c.GPR(f.RA), c.GPR(f.RB), signed)
		return c.nextPC()
	}
}

// Trap conditions selected by the TO field.
var trapConds = []struct {
	bit  uint32
	cond ir.Cond
}{
	{0x10, ir.CondLT},
	{0x08, ir.CondGT},
	{0x04, ir.CondEQ},
	{0x02, ir.CondLTU},
	{0x01, ir.CondGTU},
}

// trapIf traps when any of the TO conditions holds between x and y.
func (c *Context) trapIf(to uint32, x, y ir.Operand) int64 {
	switch to & 0x1f {
	case 0:
		return c.nextPC()
	case 0x1f:
		return c.badInstruction()
	}

	trap := c.trapBlock()
	for _, tc := range trapConds {
		if to&tc.bit != 0 {
			c.cur.IfCmp(x, y, tc.cond, trap)
		}
	}
	return c.nextPC()
}

func translateTWI(c *Context, f insts.DFields) int64 {
	return c.trapIf(f.RT, c.GPR(f.RA), ir.IntConst(f.SIMM()))
}

func translateTW(c *Context, f insts.XFields) int64 {
	return c.trapIf(f.RT, c.GPR(f.RA), c.GPR(f.RB))
}
