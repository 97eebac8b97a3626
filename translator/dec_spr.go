package translator

import (
	"github.com/sarchlab/ppcdbt/insts"
	"github.com/sarchlab/ppcdbt/ir"
)

var sprHandlers = handlerSet{
	xfx: map[insts.Op]xfxHandler{
		insts.OpMFSPR: translateMFSPR,
		insts.OpMTSPR: translateMTSPR,
		insts.OpMFTB:  translateMFTB,
	},
}

// XER bit positions, LSB numbering.
const (
	xerSOShift       = 31
	xerOVShift       = 30
	xerCAShift       = 29
	xerByteCountMask = 0x7f
)

// assembleXER packs the split XER slots into a single word.
func (c *Context) assembleXER() *ir.Reg {
	xer := c.tempInt()
	c.cur.Binary(ir.OpAnd, xer, c.XERByteCount(), ir.UintConst(xerByteCountMask))
	for _, b := range []struct {
		bit   *ir.Reg
		shift int32
	}{
		{c.XERSO(), xerSOShift},
		{c.XEROV(), xerOVShift},
		{c.XERCA(), xerCAShift},
	} {
		t := c.tempInt()
		c.cur.Unary(ir.OpBoolToInt, t, b.bit)
		c.cur.Binary(ir.OpShl, t, t, ir.IntConst(b.shift))
		c.cur.Binary(ir.OpOr, xer, xer, t)
	}
	return xer
}

// splitXER stores v into the split XER slots.
func (c *Context) splitXER(v ir.Operand) {
	for _, b := range []struct {
		bit   *ir.Reg
		shift uint32
	}{
		{c.XERSO(), xerSOShift},
		{c.XEROV(), xerOVShift},
		{c.XERCA(), xerCAShift},
	} {
		t := c.tempInt()
		c.cur.Binary(ir.OpAnd, t, v, ir.UintConst(1<<b.shift))
		c.cur.BoolCmp(b.bit, t, ir.IntConst(0), ir.CondNE)
	}
	c.cur.Binary(ir.OpAnd, c.XERByteCount(), v, ir.UintConst(xerByteCountMask))
}

func translateMFSPR(c *Context, f insts.XFXFields) int64 {
	rt := c.GPR(f.RT)
	switch spr := DecodeSPR(f.SPR); spr {
	case SPRXER:
		c.cur.Move(rt, c.assembleXER())
	case SPRLR:
		c.cur.Move(rt, c.LR())
	case SPRCTR:
		c.cur.Move(rt, c.CTR())
	default:
		c.internalError("mfspr from unsupported SPR %d", spr)
	}
	return c.nextPC()
}

func translateMTSPR(c *Context, f insts.XFXFields) int64 {
	rs := c.GPR(f.RT)
	switch spr := DecodeSPR(f.SPR); spr {
	case SPRXER:
		c.splitXER(rs)
	case SPRLR:
		c.cur.Move(c.LR(), rs)
	case SPRCTR:
		c.cur.Move(c.CTR(), rs)
	default:
		c.internalError("mtspr to unsupported SPR %d", spr)
	}
	return c.nextPC()
}

// mftb reads the time base from guest state. The time base is never
// register mapped, so each read observes the runtime's current value.
func translateMFTB(c *Context, f insts.XFXFields) int64 {
	var field ir.Field
	switch tbr := DecodeSPR(f.SPR); tbr {
	case SPRTBL:
		field = FieldTBL
	case SPRTBU:
		field = FieldTBU
	default:
		c.internalError("mftb from unsupported TBR %d", tbr)
	}
	c.cur.GetField(c.GPR(f.RT), field)
	return c.nextPC()
}
