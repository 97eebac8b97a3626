package translator

import (
	"github.com/sarchlab/ppcdbt/insts"
	"github.com/sarchlab/ppcdbt/ir"
)

var crHandlers = handlerSet{
	xl: map[insts.Op]xlHandler{
		insts.OpCRAND:  crLogic(ir.OpAnd, false, false),
		insts.OpCROR:   crLogic(ir.OpOr, false, false),
		insts.OpCRXOR:  crLogic(ir.OpXor, false, false),
		insts.OpCRNAND: crLogic(ir.OpAnd, false, true),
		insts.OpCRNOR:  crLogic(ir.OpOr, false, true),
		insts.OpCREQV:  crLogic(ir.OpXor, false, true),
		insts.OpCRANDC: crLogic(ir.OpAnd, true, false),
		insts.OpCRORC:  crLogic(ir.OpOr, true, false),
		insts.OpMCRF:   translateMCRF,
	},
	x: map[insts.Op]xHandler{
		insts.OpMCRXR: translateMCRXR,
	},
	xfx: map[insts.Op]xfxHandler{
		insts.OpMFCR:  translateMFCR,
		insts.OpMTCRF: translateMTCRF,
	},
}

// crLogic handles the condition register bit operations
// crbD = crbA op (crbB or ~crbB), optionally complemented.
func crLogic(op ir.Opcode, complementB, complement bool) xlHandler {
	return func(c *Context, f insts.XLFields) int64 {
		if f.BA == f.BB {
			return c.crLogicSameBit(op, complementB, complement, f)
		}

		var b ir.Operand = c.CRBit(f.BB)
		if complementB {
			nb := c.tempBool()
			c.cur.Unary(ir.OpNot, nb, b)
			b = nb
		}

		d := c.CRBit(f.BT)
		c.cur.Binary(op, d, c.CRBit(f.BA), b)
		if complement {
			c.cur.Unary(ir.OpNot, d, d)
		}
		return c.nextPC()
	}
}

// crLogicSameBit folds an operation whose two sources are one bit into a
// constant, a copy or a complement.
func (c *Context) crLogicSameBit(op ir.Opcode, complementB, complement bool, f insts.XLFields) int64 {
	d := c.CRBit(f.BT)
	a := c.CRBit(f.BA)

	switch {
	case op == ir.OpXor || (op == ir.OpAnd && complementB):
		// crxor/crandc give 0, creqv/crorc give 1.
		c.cur.Move(d, ir.BoolConst(complement))
	case op == ir.OpOr && complementB:
		c.cur.Move(d, ir.BoolConst(true))
	case complement:
		// crnand and crnor are a complement.
		c.cur.Unary(ir.OpNot, d, a)
	case f.BT != f.BA:
		// crand and cror are a copy.
		c.cur.Move(d, a)
	}
	return c.nextPC()
}

func translateMCRF(c *Context, f insts.XLFields) int64 {
	dst, src := f.BT>>2, f.BA>>2
	if dst == src {
		return c.nextPC()
	}
	c.cur.Move(c.CRLt(dst), c.CRLt(src))
	c.cur.Move(c.CRGt(dst), c.CRGt(src))
	c.cur.Move(c.CREq(dst), c.CREq(src))
	c.cur.Move(c.CRSO(dst), c.CRSO(src))
	return c.nextPC()
}

// mcrxr moves XER[SO,OV,CA] into a condition field and clears them.
func translateMCRXR(c *Context, f insts.XFields) int64 {
	crf := f.RT >> 2
	c.cur.Move(c.CRLt(crf), c.XERSO())
	c.cur.Move(c.CRGt(crf), c.XEROV())
	c.cur.Move(c.CREq(crf), c.XERCA())
	c.cur.Move(c.CRSO(crf), ir.BoolConst(false))

	c.cur.Move(c.XERSO(), ir.BoolConst(false))
	c.cur.Move(c.XEROV(), ir.BoolConst(false))
	c.cur.Move(c.XERCA(), ir.BoolConst(false))
	return c.nextPC()
}

func translateMFCR(c *Context, f insts.XFXFields) int64 {
	cr := c.tempInt()
	c.cur.Move(cr, ir.IntConst(0))
	for crf := uint32(0); crf < 8; crf++ {
		nibble := c.crFieldNibble(crf)
		if s := 28 - 4*crf; s > 0 {
			c.cur.Binary(ir.OpShl, nibble, nibble, ir.IntConst(int32(s)))
		}
		c.cur.Binary(ir.OpOr, cr, cr, nibble)
	}
	c.cur.Move(c.GPR(f.RT), cr)
	return c.nextPC()
}

// mtcrf copies the fields of rS selected by CRM into the condition
// register.
func translateMTCRF(c *Context, f insts.XFXFields) int64 {
	crm := f.CRM()
	rs := c.GPR(f.RT)
	for crf := uint32(0); crf < 8; crf++ {
		if crm&(0x80>>crf) != 0 {
			c.setCRFieldFromNibble(crf, rs, 28-4*crf)
		}
	}
	return c.nextPC()
}
