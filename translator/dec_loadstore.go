package translator

import (
	"github.com/sarchlab/ppcdbt/insts"
	"github.com/sarchlab/ppcdbt/ir"
)

var loadStoreHandlers = handlerSet{
	d: map[insts.Op]dHandler{
		insts.OpLWZ:  loadD(ir.OpLoad32, false),
		insts.OpLWZU: loadD(ir.OpLoad32, true),
		insts.OpLBZ:  loadD(ir.OpLoad8, false),
		insts.OpLBZU: loadD(ir.OpLoad8, true),
		insts.OpLHZ:  loadD(ir.OpLoad16, false),
		insts.OpLHZU: loadD(ir.OpLoad16, true),
		insts.OpLHA:  loadD(ir.OpLoad16S, false),
		insts.OpLHAU: loadD(ir.OpLoad16S, true),
		insts.OpSTW:  storeD(ir.OpStore32, false),
		insts.OpSTWU: storeD(ir.OpStore32, true),
		insts.OpSTB:  storeD(ir.OpStore8, false),
		insts.OpSTBU: storeD(ir.OpStore8, true),
		insts.OpSTH:  storeD(ir.OpStore16, false),
		insts.OpSTHU: storeD(ir.OpStore16, true),
		insts.OpLMW:  translateLMW,
		insts.OpSTMW: translateSTMW,
	},
	x: map[insts.Op]xHandler{
		insts.OpLWZX:     loadX(ir.OpLoad32, false),
		insts.OpLWZUX:    loadX(ir.OpLoad32, true),
		insts.OpLBZX:     loadSubwordX(8, false),
		insts.OpLBZUX:    loadX(ir.OpLoad8, true),
		insts.OpLHZX:     loadSubwordX(16, false),
		insts.OpLHZUX:    loadX(ir.OpLoad16, true),
		insts.OpLHAX:     loadSubwordX(16, true),
		insts.OpLHAUX:    loadX(ir.OpLoad16S, true),
		insts.OpSTWX:     storeX(ir.OpStore32, false),
		insts.OpSTWUX:    storeX(ir.OpStore32, true),
		insts.OpSTBX:     storeX(ir.OpStore8, false),
		insts.OpSTBUX:    storeX(ir.OpStore8, true),
		insts.OpSTHX:     storeX(ir.OpStore16, false),
		insts.OpSTHUX:    storeX(ir.OpStore16, true),
		insts.OpLWBRX:    translateLWBRX,
		insts.OpLHBRX:    translateLHBRX,
		insts.OpSTWBRX:   translateSTWBRX,
		insts.OpSTHBRX:   translateSTHBRX,
		insts.OpLWARX:    loadX(ir.OpLoad32, false),
		insts.OpSTWCXDot: translateSTWCX,
		insts.OpDCBZ:     translateDCBZ,
		insts.OpLSWI:     translateLSWI,
		insts.OpSTSWI:    translateSTSWI,
	},
}

// checkLoadUpdate rejects the invalid update forms with rA=0 or rA=rT.
func (c *Context) checkLoadUpdate(ra, rt uint32) {
	if ra == 0 || ra == rt {
		c.internalError("invalid load with update: rA=%d rT=%d", ra, rt)
	}
}

// checkStoreUpdate rejects the invalid update forms with rA=0.
func (c *Context) checkStoreUpdate(ra uint32) {
	if ra == 0 {
		c.internalError("invalid store with update: rA=0")
	}
}

func loadD(op ir.Opcode, update bool) dHandler {
	return func(c *Context, f insts.DFields) int64 {
		if update {
			c.checkLoadUpdate(f.RA, f.RT)
		}
		ea := c.effectiveAddress(f.RA, f.SIMM())
		c.cur.Load(op, c.GPR(f.RT), ea)
		if update {
			c.cur.Move(c.GPR(f.RA), ea)
		}
		return c.nextPC()
	}
}

func storeD(op ir.Opcode, update bool) dHandler {
	return func(c *Context, f insts.DFields) int64 {
		if update {
			c.checkStoreUpdate(f.RA)
		}
		ea := c.effectiveAddress(f.RA, f.SIMM())
		c.cur.Store(op, ea, c.GPR(f.RT))
		if update {
			c.cur.Move(c.GPR(f.RA), ea)
		}
		return c.nextPC()
	}
}

func loadX(op ir.Opcode, update bool) xHandler {
	return func(c *Context, f insts.XFields) int64 {
		if update {
			c.checkLoadUpdate(f.RA, f.RT)
		}
		ea := c.indexedAddress(f.RA, f.RB)
		c.cur.Load(op, c.GPR(f.RT), ea)
		if update {
			c.cur.Move(c.GPR(f.RA), ea)
		}
		return c.nextPC()
	}
}

func storeX(op ir.Opcode, update bool) xHandler {
	return func(c *Context, f insts.XFields) int64 {
		if update {
			c.checkStoreUpdate(f.RA)
		}
		ea := c.indexedAddress(f.RA, f.RB)
		c.cur.Store(op, ea, c.GPR(f.RT))
		if update {
			c.cur.Move(c.GPR(f.RA), ea)
		}
		return c.nextPC()
	}
}

// loadSubwordX handles lbzx, lhzx and lhax by loading the aligned word
// holding the operand and shifting it down. Where the operand sits in the
// word depends on the guest byte order. A halfword at offset 3 straddles
// two words and is loaded directly.
func loadSubwordX(width uint32, signed bool) xHandler {
	return func(c *Context, f insts.XFields) int64 {
		ea := c.indexedAddress(f.RA, f.RB)

		aligned, word := c.tempInt(), c.tempInt()
		c.cur.Binary(ir.OpAnd, aligned, ea, ir.UintConst(^uint32(3)))
		c.cur.Load(ir.OpLoad32, word, aligned)

		k := c.tempInt()
		c.cur.Binary(ir.OpAnd, k, ea, ir.UintConst(3))

		// Big-endian: (4-width/8-k)*8. Little-endian: k*8.
		sh := c.tempInt()
		if c.t.opts.IsBigEndian() {
			c.cur.Binary(ir.OpSub, sh, ir.UintConst(4-width/8), k)
		} else {
			c.cur.Move(sh, k)
		}
		c.cur.Binary(ir.OpShl, sh, sh, ir.IntConst(3))

		v := c.tempInt()
		c.cur.Binary(ir.OpUShr, word, word, sh)
		if signed {
			c.cur.Binary(ir.OpShl, word, word, ir.IntConst(int32(32-width)))
			c.cur.Binary(ir.OpShr, v, word, ir.IntConst(int32(32-width)))
		} else {
			c.cur.Binary(ir.OpAnd, v, word, ir.UintConst(1<<width-1))
		}

		rt := c.GPR(f.RT)
		if width == 8 {
			c.cur.Move(rt, v)
			return c.nextPC()
		}

		op := ir.OpLoad16
		if signed {
			op = ir.OpLoad16S
		}
		h := c.tempInt()
		c.cur.Load(op, h, ea)
		c.cur.CondMove(rt, k, ir.UintConst(3), ir.CondEQ, h, v)
		return c.nextPC()
	}
}

func translateLWBRX(c *Context, f insts.XFields) int64 {
	ea := c.indexedAddress(f.RA, f.RB)
	w := c.tempInt()
	c.cur.Load(ir.OpLoad32, w, ea)
	c.cur.Move(c.GPR(f.RT), c.byteReverse32(w))
	return c.nextPC()
}

func translateLHBRX(c *Context, f insts.XFields) int64 {
	ea := c.indexedAddress(f.RA, f.RB)
	h := c.tempInt()
	c.cur.Load(ir.OpLoad16, h, ea)
	c.cur.Move(c.GPR(f.RT), c.byteReverse16(h))
	return c.nextPC()
}

func translateSTWBRX(c *Context, f insts.XFields) int64 {
	ea := c.indexedAddress(f.RA, f.RB)
	c.cur.Store(ir.OpStore32, ea, c.byteReverse32(c.GPR(f.RT)))
	return c.nextPC()
}

func translateSTHBRX(c *Context, f insts.XFields) int64 {
	ea := c.indexedAddress(f.RA, f.RB)
	c.cur.Store(ir.OpStore16, ea, c.byteReverse16(c.GPR(f.RT)))
	return c.nextPC()
}

// stwcx. always succeeds: there is a single guest thread, so the
// reservation taken by lwarx is never lost.
func translateSTWCX(c *Context, f insts.XFields) int64 {
	ea := c.indexedAddress(f.RA, f.RB)
	c.cur.Store(ir.OpStore32, ea, c.GPR(f.RT))

	c.lazy.ResolveCRField(c.cur, 0)
	c.cur.Move(c.CRLt(0), ir.BoolConst(false))
	c.cur.Move(c.CRGt(0), ir.BoolConst(false))
	c.cur.Move(c.CREq(0), ir.BoolConst(true))
	c.cur.Move(c.CRSO(0), c.XERSO())
	return c.nextPC()
}

// dcacheLineSize is the block size cleared by dcbz.
const dcacheLineSize = 32

func translateDCBZ(c *Context, f insts.XFields) int64 {
	ea := c.indexedAddress(f.RA, f.RB)
	c.cur.Binary(ir.OpAnd, ea, ea, ir.UintConst(^uint32(dcacheLineSize-1)))
	for off := int32(0); off < dcacheLineSize; off += 4 {
		addr := c.tempInt()
		c.cur.Binary(ir.OpAdd, addr, ea, ir.IntConst(off))
		c.cur.Store(ir.OpStore32, addr, ir.IntConst(0))
	}
	return c.nextPC()
}

// lmw loads rT through r31 from consecutive words.
func translateLMW(c *Context, f insts.DFields) int64 {
	if f.RA != 0 && f.RA >= f.RT {
		c.internalError("invalid lmw: rA=%d in the loaded range from r%d", f.RA, f.RT)
	}
	ea := c.effectiveAddress(f.RA, f.SIMM())
	for r := f.RT; r < 32; r++ {
		addr := c.tempInt()
		c.cur.Binary(ir.OpAdd, addr, ea, ir.IntConst(int32(4*(r-f.RT))))
		c.cur.Load(ir.OpLoad32, c.GPR(r), addr)
	}
	return c.nextPC()
}

// stmw stores rS through r31 to consecutive words.
func translateSTMW(c *Context, f insts.DFields) int64 {
	ea := c.effectiveAddress(f.RA, f.SIMM())
	for r := f.RT; r < 32; r++ {
		addr := c.tempInt()
		c.cur.Binary(ir.OpAdd, addr, ea, ir.IntConst(int32(4*(r-f.RT))))
		c.cur.Store(ir.OpStore32, addr, c.GPR(r))
	}
	return c.nextPC()
}

// stringBytes returns the byte count of lswi and stswi, where 0 means 32.
func stringBytes(nb uint32) uint32 {
	if nb == 0 {
		return 32
	}
	return nb
}

// lswi fills registers from rT on, wrapping from r31 to r0, with bytes
// from the most significant end. Bytes past the end of the string are
// zero.
func translateLSWI(c *Context, f insts.XFields) int64 {
	n := stringBytes(f.RB)
	ea := c.tempInt()
	c.cur.Move(ea, c.gprOrZero(f.RA))

	for i := uint32(0); i < n; i += 4 {
		v := c.tempInt()
		c.cur.Move(v, ir.IntConst(0))
		for j := uint32(0); j < 4 && i+j < n; j++ {
			addr, b := c.tempInt(), c.tempInt()
			c.cur.Binary(ir.OpAdd, addr, ea, ir.IntConst(int32(i+j)))
			c.cur.Load(ir.OpLoad8, b, addr)
			if s := 24 - 8*j; s > 0 {
				c.cur.Binary(ir.OpShl, b, b, ir.IntConst(int32(s)))
			}
			c.cur.Binary(ir.OpOr, v, v, b)
		}
		c.cur.Move(c.GPR((f.RT+i/4)%32), v)
	}
	return c.nextPC()
}

// stswi stores n bytes from registers rS on, most significant first.
func translateSTSWI(c *Context, f insts.XFields) int64 {
	n := stringBytes(f.RB)
	ea := c.tempInt()
	c.cur.Move(ea, c.gprOrZero(f.RA))

	for i := uint32(0); i < n; i++ {
		rs := c.GPR((f.RT + i/4) % 32)
		addr, b := c.tempInt(), c.tempInt()
		c.cur.Binary(ir.OpAdd, addr, ea, ir.IntConst(int32(i)))
		c.cur.Binary(ir.OpUShr, b, rs, ir.IntConst(int32(24-8*(i%4))))
		c.cur.Store(ir.OpStore8, addr, b)
	}
	return c.nextPC()
}
