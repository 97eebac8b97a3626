package translator

import (
	"github.com/sarchlab/ppcdbt/insts"
	"github.com/sarchlab/ppcdbt/ir"
)

var fpHandlers = handlerSet{
	d: map[insts.Op]dHandler{
		insts.OpLFS:   loadFloatD(false, false),
		insts.OpLFSU:  loadFloatD(false, true),
		insts.OpLFD:   loadFloatD(true, false),
		insts.OpLFDU:  loadFloatD(true, true),
		insts.OpSTFS:  storeFloatD(false, false),
		insts.OpSTFSU: storeFloatD(false, true),
		insts.OpSTFD:  storeFloatD(true, false),
		insts.OpSTFDU: storeFloatD(true, true),
	},
	x: map[insts.Op]xHandler{
		insts.OpLFSX:   loadFloatX(false, false),
		insts.OpLFSUX:  loadFloatX(false, true),
		insts.OpLFDX:   loadFloatX(true, false),
		insts.OpLFDUX:  loadFloatX(true, true),
		insts.OpSTFSX:  storeFloatX(false, false),
		insts.OpSTFSUX: storeFloatX(false, true),
		insts.OpSTFDX:  storeFloatX(true, false),
		insts.OpSTFDUX: storeFloatX(true, true),
		insts.OpSTFIWX: translateSTFIWX,
		insts.OpFMR:    fpUnary(ir.OpMove, false),
		insts.OpFNEG:   fpUnary(ir.OpNeg, false),
		insts.OpFABS:   fpUnary(ir.OpAbs, false),
		insts.OpFNABS:  fpUnary(ir.OpAbs, true),
		insts.OpFRSP:   translateFRSP,
		insts.OpFCTIW:  fpToInt(ir.OpDoubleToIntRound),
		insts.OpFCTIWZ: fpToInt(ir.OpDoubleToInt),
		insts.OpFCMPU:  translateFCMP,
		insts.OpFCMPO:  translateFCMP,
		insts.OpMFFS:   translateMFFS,
		insts.OpMTFSFI: translateMTFSFI,
		insts.OpMTFSB0: translateMTFSB(false),
		insts.OpMTFSB1: translateMTFSB(true),
		insts.OpMCRFS:  translateMCRFS,
	},
	xfl: map[insts.Op]xflHandler{
		insts.OpMTFSF: translateMTFSF,
	},
	a: map[insts.Op]aHandler{
		insts.OpFADD:    fpArith(ir.OpAdd, false),
		insts.OpFADDS:   fpArith(ir.OpAdd, true),
		insts.OpFSUB:    fpArith(ir.OpSub, false),
		insts.OpFSUBS:   fpArith(ir.OpSub, true),
		insts.OpFMUL:    fpArith(ir.OpMul, false),
		insts.OpFMULS:   fpArith(ir.OpMul, true),
		insts.OpFDIV:    fpArith(ir.OpDiv, false),
		insts.OpFDIVS:   fpArith(ir.OpDiv, true),
		insts.OpFSQRT:   fpSqrt(false),
		insts.OpFSQRTS:  fpSqrt(true),
		insts.OpFMADD:   fpMulAdd(false, false, false),
		insts.OpFMADDS:  fpMulAdd(false, false, true),
		insts.OpFMSUB:   fpMulAdd(true, false, false),
		insts.OpFMSUBS:  fpMulAdd(true, false, true),
		insts.OpFNMADD:  fpMulAdd(false, true, false),
		insts.OpFNMADDS: fpMulAdd(false, true, true),
		insts.OpFNMSUB:  fpMulAdd(true, true, false),
		insts.OpFNMSUBS: fpMulAdd(true, true, true),
		insts.OpFSEL:    translateFSEL,
		insts.OpFRES:    translateFRES,
		insts.OpFRSQRTE: translateFRSQRTE,
	},
}

// fpResult stores v, computed in single or double precision, into fRT.
// Single precision results are widened; registers always hold doubles.
func (c *Context) fpResult(frt uint32, v *ir.Reg) {
	if v.Type == ir.TypeFloat {
		c.cur.Unary(ir.OpFloatToDouble, c.FPR(frt), v)
		return
	}
	c.cur.Move(c.FPR(frt), v)
}

// fpOperand returns fR, narrowed to single precision when single is set.
func (c *Context) fpOperand(fr uint32, single bool) *ir.Reg {
	if !single {
		return c.FPR(fr)
	}
	s := c.tempFloat()
	c.cur.Unary(ir.OpDoubleToFloat, s, c.FPR(fr))
	return s
}

func (c *Context) fpTemp(single bool) *ir.Reg {
	if single {
		return c.tempFloat()
	}
	return c.tempDouble()
}

func (c *Context) fpRecord(rc uint32) {
	if rc != 0 {
		c.setCR1FromFPSCR()
	}
}

func (c *Context) loadFloat(frt uint32, ea *ir.Reg, double bool) {
	if double {
		l := c.tempLong()
		c.cur.Load(ir.OpLoad64, l, ea)
		c.cur.Unary(ir.OpLongBitsToDouble, c.FPR(frt), l)
		return
	}
	w, s := c.tempInt(), c.tempFloat()
	c.cur.Load(ir.OpLoad32, w, ea)
	c.cur.Unary(ir.OpIntBitsToFloat, s, w)
	c.cur.Unary(ir.OpFloatToDouble, c.FPR(frt), s)
}

func (c *Context) storeFloat(frs uint32, ea *ir.Reg, double bool) {
	if double {
		l := c.tempLong()
		c.cur.Unary(ir.OpDoubleBits, l, c.FPR(frs))
		c.cur.Store(ir.OpStore64, ea, l)
		return
	}
	s, w := c.tempFloat(), c.tempInt()
	c.cur.Unary(ir.OpDoubleToFloat, s, c.FPR(frs))
	c.cur.Unary(ir.OpFloatBits, w, s)
	c.cur.Store(ir.OpStore32, ea, w)
}

func loadFloatD(double, update bool) dHandler {
	return func(c *Context, f insts.DFields) int64 {
		if update {
			c.checkStoreUpdate(f.RA)
		}
		ea := c.effectiveAddress(f.RA, f.SIMM())
		c.loadFloat(f.RT, ea, double)
		if update {
			c.cur.Move(c.GPR(f.RA), ea)
		}
		return c.nextPC()
	}
}

func storeFloatD(double, update bool) dHandler {
	return func(c *Context, f insts.DFields) int64 {
		if update {
			c.checkStoreUpdate(f.RA)
		}
		ea := c.effectiveAddress(f.RA, f.SIMM())
		c.storeFloat(f.RT, ea, double)
		if update {
			c.cur.Move(c.GPR(f.RA), ea)
		}
		return c.nextPC()
	}
}

func loadFloatX(double, update bool) xHandler {
	return func(c *Context, f insts.XFields) int64 {
		if update {
			c.checkStoreUpdate(f.RA)
		}
		ea := c.indexedAddress(f.RA, f.RB)
		c.loadFloat(f.RT, ea, double)
		if update {
			c.cur.Move(c.GPR(f.RA), ea)
		}
		return c.nextPC()
	}
}

func storeFloatX(double, update bool) xHandler {
	return func(c *Context, f insts.XFields) int64 {
		if update {
			c.checkStoreUpdate(f.RA)
		}
		ea := c.indexedAddress(f.RA, f.RB)
		c.storeFloat(f.RT, ea, double)
		if update {
			c.cur.Move(c.GPR(f.RA), ea)
		}
		return c.nextPC()
	}
}

// stfiwx stores the low word of fRS without conversion.
func translateSTFIWX(c *Context, f insts.XFields) int64 {
	ea := c.indexedAddress(f.RA, f.RB)
	l, w := c.tempLong(), c.tempInt()
	c.cur.Unary(ir.OpDoubleBits, l, c.FPR(f.RT))
	c.cur.Unary(ir.OpLongToInt, w, l)
	c.cur.Store(ir.OpStore32, ea, w)
	return c.nextPC()
}

// fpArith handles fadd, fsub, fdiv (fA op fB) and fmul (fA * fC).
func fpArith(op ir.Opcode, single bool) aHandler {
	return func(c *Context, f insts.AFields) int64 {
		second := f.FRB
		if op == ir.OpMul {
			second = f.FRC
		}
		r := c.fpTemp(single)
		c.cur.Binary(op, r, c.fpOperand(f.FRA, single), c.fpOperand(second, single))
		c.fpResult(f.FRT, r)
		c.fpRecord(f.Rc)
		return c.nextPC()
	}
}

func fpSqrt(single bool) aHandler {
	return func(c *Context, f insts.AFields) int64 {
		r := c.fpTemp(single)
		c.cur.Unary(ir.OpSqrt, r, c.fpOperand(f.FRB, single))
		c.fpResult(f.FRT, r)
		c.fpRecord(f.Rc)
		return c.nextPC()
	}
}

// fpMulAdd handles the fused multiply-add family fA*fC ± fB, negated for
// fnmadd and fnmsub.
func fpMulAdd(subtract, negate, single bool) aHandler {
	return func(c *Context, f insts.AFields) int64 {
		b := c.fpOperand(f.FRB, single)
		if subtract {
			nb := c.fpTemp(single)
			c.cur.Unary(ir.OpNeg, nb, b)
			b = nb
		}

		r := c.fpTemp(single)
		c.cur.MulAdd(r, c.fpOperand(f.FRA, single), c.fpOperand(f.FRC, single), b)
		if negate {
			c.cur.Unary(ir.OpNeg, r, r)
		}
		c.fpResult(f.FRT, r)
		c.fpRecord(f.Rc)
		return c.nextPC()
	}
}

// fsel: fRT = fA >= 0 ? fC : fB, choosing fB when fA is NaN.
func translateFSEL(c *Context, f insts.AFields) int64 {
	r := c.tempDouble()
	c.cur.CondMove(r, c.FPR(f.FRA), ir.DoubleConst(0), ir.CondGE, c.FPR(f.FRC), c.FPR(f.FRB))
	c.cur.Move(c.FPR(f.FRT), r)
	c.fpRecord(f.Rc)
	return c.nextPC()
}

// fres computes the reciprocal exactly rather than estimating it.
func translateFRES(c *Context, f insts.AFields) int64 {
	r := c.tempFloat()
	c.cur.Binary(ir.OpDiv, r, ir.FloatConst(1), c.fpOperand(f.FRB, true))
	c.fpResult(f.FRT, r)
	c.fpRecord(f.Rc)
	return c.nextPC()
}

func translateFRSQRTE(c *Context, f insts.AFields) int64 {
	r := c.tempDouble()
	c.cur.Unary(ir.OpSqrt, r, c.FPR(f.FRB))
	c.cur.Binary(ir.OpDiv, r, ir.DoubleConst(1), r)
	c.fpResult(f.FRT, r)
	c.fpRecord(f.Rc)
	return c.nextPC()
}

// fpUnary handles fmr, fneg, fabs and fnabs on fB.
func fpUnary(op ir.Opcode, negate bool) xHandler {
	return func(c *Context, f insts.XFields) int64 {
		frt := c.FPR(f.RT)
		if op == ir.OpMove {
			if f.RT != f.RB {
				c.cur.Move(frt, c.FPR(f.RB))
			}
		} else {
			c.cur.Unary(op, frt, c.FPR(f.RB))
		}
		if negate {
			c.cur.Unary(ir.OpNeg, frt, frt)
		}
		c.fpRecord(f.Rc)
		return c.nextPC()
	}
}

func translateFRSP(c *Context, f insts.XFields) int64 {
	c.fpResult(f.RT, c.fpOperand(f.RB, true))
	c.fpRecord(f.Rc)
	return c.nextPC()
}

// fpIntHigh fills the upper word of fctiw and mffs results.
var fpIntHigh = ir.Const{Type: ir.TypeLong, Bits: 0xFFF80000 << 32}

// fpToInt handles fctiw and fctiwz. The word lands in the low half of
// fRT.
func fpToInt(op ir.Opcode) xHandler {
	return func(c *Context, f insts.XFields) int64 {
		w, l := c.tempInt(), c.tempLong()
		c.cur.Unary(op, w, c.FPR(f.RB))
		c.cur.Unary(ir.OpUintToLong, l, w)
		c.cur.Binary(ir.OpOr, l, l, fpIntHigh)
		c.cur.Unary(ir.OpLongBitsToDouble, c.FPR(f.RT), l)
		c.fpRecord(f.Rc)
		return c.nextPC()
	}
}

// fcmpu and fcmpo set lt, gt, eq, or the unordered bit.
func translateFCMP(c *Context, f insts.XFields) int64 {
	crf := f.RT >> 2
	a, b := c.FPR(f.RA), c.FPR(f.RB)

	c.lazy.ResolveCRField(c.cur, crf)
	c.cur.BoolCmp(c.CRLt(crf), a, b, ir.CondLT)
	c.cur.BoolCmp(c.CRGt(crf), a, b, ir.CondGT)
	c.cur.BoolCmp(c.CREq(crf), a, b, ir.CondEQ)
	c.cur.BoolCmp(c.CRSO(crf), a, b, ir.CondUnordered)
	return c.nextPC()
}

func translateMFFS(c *Context, f insts.XFields) int64 {
	l := c.tempLong()
	c.cur.Unary(ir.OpUintToLong, l, c.FPSCR())
	c.cur.Binary(ir.OpOr, l, l, fpIntHigh)
	c.cur.Unary(ir.OpLongBitsToDouble, c.FPR(f.RT), l)
	c.fpRecord(f.Rc)
	return c.nextPC()
}

// setFPSCRBits replaces the FPSCR bits under mask with those of v.
func (c *Context) setFPSCRBits(mask uint32, v ir.Operand) {
	fpscr := c.FPSCR()
	kept, in := c.tempInt(), c.tempInt()
	c.cur.Binary(ir.OpAnd, kept, fpscr, ir.UintConst(^mask))
	c.cur.Binary(ir.OpAnd, in, v, ir.UintConst(mask))
	c.cur.Binary(ir.OpOr, fpscr, kept, in)
}

// mtfsf copies the FPSCR fields selected by FM from the low word of fB.
func translateMTFSF(c *Context, f insts.XFLFields) int64 {
	var mask uint32
	for i := uint32(0); i < 8; i++ {
		if f.FM&(0x80>>i) != 0 {
			mask |= 0xF << (28 - 4*i)
		}
	}

	if mask != 0 {
		l, w := c.tempLong(), c.tempInt()
		c.cur.Unary(ir.OpDoubleBits, l, c.FPR(f.FRB))
		c.cur.Unary(ir.OpLongToInt, w, l)
		c.setFPSCRBits(mask, w)
	}
	c.fpRecord(f.Rc)
	return c.nextPC()
}

// mtfsfi writes the 4-bit immediate, held in the top of the rB field, to
// FPSCR field crfD.
func translateMTFSFI(c *Context, f insts.XFields) int64 {
	shift := 28 - 4*(f.RT>>2)
	imm := (f.RB >> 1) & 0xF
	c.setFPSCRBits(0xF<<shift, ir.UintConst(imm<<shift))
	c.fpRecord(f.Rc)
	return c.nextPC()
}

func translateMTFSB(set bool) xHandler {
	return func(c *Context, f insts.XFields) int64 {
		bit := uint32(1) << (31 - f.RT)
		fpscr := c.FPSCR()
		if set {
			c.cur.Binary(ir.OpOr, fpscr, fpscr, ir.UintConst(bit))
		} else {
			c.cur.Binary(ir.OpAnd, fpscr, fpscr, ir.UintConst(^bit))
		}
		c.fpRecord(f.Rc)
		return c.nextPC()
	}
}

// mcrfs copies an FPSCR field into a condition field.
func translateMCRFS(c *Context, f insts.XFields) int64 {
	crf, src := f.RT>>2, f.RA>>2
	c.setCRFieldFromNibble(crf, c.FPSCR(), 28-4*src)
	return c.nextPC()
}
