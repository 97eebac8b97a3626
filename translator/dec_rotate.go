package translator

import (
	"github.com/sarchlab/ppcdbt/insts"
	"github.com/sarchlab/ppcdbt/ir"
)

var rotateHandlers = handlerSet{
	m: map[insts.Op]mHandler{
		insts.OpRLWINM: translateRLWINM,
		insts.OpRLWNM:  translateRLWNM,
		insts.OpRLWIMI: translateRLWIMI,
	},
}

// RotateMask returns the rlw* mask with ones from bit mb through bit me
// (big-endian numbering), wrapping past bit 31 when mb > me.
func RotateMask(mb, me uint32) uint32 {
	begin := ^uint32(0) >> (mb & 31)
	end := ^uint32(0) << (31 - (me & 31))
	if mb <= me {
		return begin & end
	}
	return begin | end
}

// rotateImmediate rotates rS left by a constant, skipping the rotation
// when sh is 0.
func (c *Context) rotateImmediate(rs *ir.Reg, sh uint32) ir.Operand {
	if sh == 0 {
		return rs
	}
	return c.rotateLeft(rs, ir.IntConst(int32(sh)))
}

// rlwinm: rA = ROTL(rS, SH) & MASK(MB, ME).
func translateRLWINM(c *Context, f insts.MFields) int64 {
	mask := RotateMask(f.MB, f.ME)
	ra := c.GPR(f.RA)

	switch {
	case mask == 0:
		c.cur.Move(ra, ir.IntConst(0))
	case mask == ^uint32(0):
		c.cur.Move(ra, c.rotateImmediate(c.GPR(f.RS), f.RB))
	default:
		c.cur.Binary(ir.OpAnd, ra, c.rotateImmediate(c.GPR(f.RS), f.RB), ir.UintConst(mask))
	}

	if f.Rc != 0 {
		c.setCR0(ra)
	}
	return c.nextPC()
}

// rlwnm takes the rotation from the low five bits of rB.
func translateRLWNM(c *Context, f insts.MFields) int64 {
	mask := RotateMask(f.MB, f.ME)
	ra := c.GPR(f.RA)

	if mask == 0 {
		c.cur.Move(ra, ir.IntConst(0))
	} else {
		n := c.tempInt()
		c.cur.Binary(ir.OpAnd, n, c.GPR(f.RB), ir.IntConst(31))
		rot := c.rotateLeft(c.GPR(f.RS), n)
		if mask == ^uint32(0) {
			c.cur.Move(ra, rot)
		} else {
			c.cur.Binary(ir.OpAnd, ra, rot, ir.UintConst(mask))
		}
	}

	if f.Rc != 0 {
		c.setCR0(ra)
	}
	return c.nextPC()
}

// rlwimi inserts the rotated rS into rA under the mask.
func translateRLWIMI(c *Context, f insts.MFields) int64 {
	mask := RotateMask(f.MB, f.ME)
	ra := c.GPR(f.RA)

	switch {
	case mask == 0:
		// rA keeps its value.
	case mask == ^uint32(0):
		c.cur.Move(ra, c.rotateImmediate(c.GPR(f.RS), f.RB))
	default:
		ins := c.tempInt()
		c.cur.Binary(ir.OpAnd, ins, c.rotateImmediate(c.GPR(f.RS), f.RB), ir.UintConst(mask))
		kept := c.tempInt()
		c.cur.Binary(ir.OpAnd, kept, ra, ir.UintConst(^mask))
		c.cur.Binary(ir.OpOr, ra, kept, ins)
	}

	if f.Rc != 0 {
		c.setCR0(ra)
	}
	return c.nextPC()
}
