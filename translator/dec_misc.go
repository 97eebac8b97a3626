package translator

import (
	"github.com/sarchlab/ppcdbt/insts"
)

// miscHandlers covers cache and ordering hints, which have no effect on a
// single-threaded guest without a cache model, and the supervisor,
// 64-bit and vector instructions a user-mode 32-bit guest must not
// execute.
var miscHandlers = handlerSet{
	d: map[insts.Op]dHandler{
		insts.OpTDI: func(c *Context, _ insts.DFields) int64 { return c.badInstruction() },
	},
	x: map[insts.Op]xHandler{
		insts.OpSYNC:   nopX,
		insts.OpEIEIO:  nopX,
		insts.OpDCBST:  nopX,
		insts.OpDCBF:   nopX,
		insts.OpDCBT:   nopX,
		insts.OpDCBTST: nopX,
		insts.OpICBI:   nopX,
		insts.OpVX:     badX,
		insts.OpMFMSR:  badX,
		insts.OpMTMSR:  badX,
		insts.OpMFSR:   badX,
		insts.OpMTSR:   badX,
		insts.OpTLBIE:  badX,
		insts.OpDCBI:   badX,
		insts.OpLSWX:   badX,
	},
	xl: map[insts.Op]xlHandler{
		insts.OpISYNC: func(c *Context, _ insts.XLFields) int64 { return c.nextPC() },
		insts.OpRFI:   func(c *Context, _ insts.XLFields) int64 { return c.badInstruction() },
		insts.OpRFID:  func(c *Context, _ insts.XLFields) int64 { return c.badInstruction() },
	},
}

func nopX(c *Context, _ insts.XFields) int64 { return c.nextPC() }

func badX(c *Context, _ insts.XFields) int64 { return c.badInstruction() }
