package translator

import (
	"math"

	"github.com/sarchlab/ppcdbt/insts"
	"github.com/sarchlab/ppcdbt/ir"
)

var arithHandlers = handlerSet{
	d: map[insts.Op]dHandler{
		insts.OpADDI:     translateADDI,
		insts.OpADDIS:    translateADDIS,
		insts.OpADDIC:    translateADDIC,
		insts.OpADDICDot: translateADDIC,
		insts.OpSUBFIC:   translateSUBFIC,
		insts.OpMULLI:    translateMULLI,
	},
	xo: map[insts.Op]xoHandler{
		insts.OpADD:     addExtended(addOperands{}),
		insts.OpADDO:    addExtended(addOperands{}),
		insts.OpADDC:    addExtended(addOperands{setCarry: true}),
		insts.OpADDCO:   addExtended(addOperands{setCarry: true}),
		insts.OpADDE:    addExtended(addOperands{carryIn: carryXER, setCarry: true}),
		insts.OpADDEO:   addExtended(addOperands{carryIn: carryXER, setCarry: true}),
		insts.OpADDME:   addExtended(addOperands{b: operandMinusOne, carryIn: carryXER, setCarry: true}),
		insts.OpADDMEO:  addExtended(addOperands{b: operandMinusOne, carryIn: carryXER, setCarry: true}),
		insts.OpADDZE:   addExtended(addOperands{b: operandZero, carryIn: carryXER, setCarry: true}),
		insts.OpADDZEO:  addExtended(addOperands{b: operandZero, carryIn: carryXER, setCarry: true}),
		insts.OpSUBF:    addExtended(addOperands{notA: true, carryIn: carryOne}),
		insts.OpSUBFO:   addExtended(addOperands{notA: true, carryIn: carryOne}),
		insts.OpSUBFC:   addExtended(addOperands{notA: true, carryIn: carryOne, setCarry: true}),
		insts.OpSUBFCO:  addExtended(addOperands{notA: true, carryIn: carryOne, setCarry: true}),
		insts.OpSUBFE:   addExtended(addOperands{notA: true, carryIn: carryXER, setCarry: true}),
		insts.OpSUBFEO:  addExtended(addOperands{notA: true, carryIn: carryXER, setCarry: true}),
		insts.OpSUBFME:  addExtended(addOperands{notA: true, b: operandMinusOne, carryIn: carryXER, setCarry: true}),
		insts.OpSUBFMEO: addExtended(addOperands{notA: true, b: operandMinusOne, carryIn: carryXER, setCarry: true}),
		insts.OpSUBFZE:  addExtended(addOperands{notA: true, b: operandZero, carryIn: carryXER, setCarry: true}),
		insts.OpSUBFZEO: addExtended(addOperands{notA: true, b: operandZero, carryIn: carryXER, setCarry: true}),
		insts.OpNEG:     addExtended(addOperands{notA: true, b: operandZero, carryIn: carryOne}),
		insts.OpNEGO:    addExtended(addOperands{notA: true, b: operandZero, carryIn: carryOne}),
		insts.OpMULLW:   translateMULLW,
		insts.OpMULLWO:  translateMULLW,
		insts.OpMULHW:   mulHigh(ir.OpMulHigh),
		insts.OpMULHWU:  mulHigh(ir.OpMulHighU),
		insts.OpDIVW:    translateDIVW,
		insts.OpDIVWO:   translateDIVW,
		insts.OpDIVWU:   translateDIVWU,
		insts.OpDIVWUO:  translateDIVWU,
	},
}

// addi rT,rA,SIMM. rA=0 adds to zero, which makes this li.
func translateADDI(c *Context, f insts.DFields) int64 {
	imm := ir.IntConst(f.SIMM())
	if f.RA == 0 {
		c.cur.Move(c.GPR(f.RT), imm)
	} else {
		c.cur.Binary(ir.OpAdd, c.GPR(f.RT), c.GPR(f.RA), imm)
	}
	return c.nextPC()
}

func translateADDIS(c *Context, f insts.DFields) int64 {
	imm := ir.IntConst(f.SIMM() << 16)
	if f.RA == 0 {
		c.cur.Move(c.GPR(f.RT), imm)
	} else {
		c.cur.Binary(ir.OpAdd, c.GPR(f.RT), c.GPR(f.RA), imm)
	}
	return c.nextPC()
}

// addic and addic.: the carry is set when the sum wraps below rA.
func translateADDIC(c *Context, f insts.DFields) int64 {
	ra := c.GPR(f.RA)
	r := c.tempInt()
	c.cur.Binary(ir.OpAdd, r, ra, ir.IntConst(f.SIMM()))
	c.cur.BoolCmp(c.XERCA(), r, ra, ir.CondLTU)
	c.cur.Move(c.GPR(f.RT), r)

	if c.inst.Op == insts.OpADDICDot {
		c.setCR0(c.GPR(f.RT))
	}
	return c.nextPC()
}

// subfic: rT = SIMM - rA, carry when no borrow occurs.
func translateSUBFIC(c *Context, f insts.DFields) int64 {
	imm := ir.IntConst(f.SIMM())
	ra := c.GPR(f.RA)
	r := c.tempInt()
	c.cur.Binary(ir.OpSub, r, imm, ra)
	c.cur.BoolCmp(c.XERCA(), imm, ra, ir.CondGEU)
	c.cur.Move(c.GPR(f.RT), r)
	return c.nextPC()
}

func translateMULLI(c *Context, f insts.DFields) int64 {
	c.cur.Binary(ir.OpMul, c.GPR(f.RT), c.GPR(f.RA), ir.IntConst(f.SIMM()))
	return c.nextPC()
}

type operandB uint8

const (
	operandRB operandB = iota
	operandZero
	operandMinusOne
)

type carryIn uint8

const (
	carryNone carryIn = iota
	carryOne
	carryXER
)

// addOperands describes one member of the add/subtract family as
// rT = (rA or ~rA) + (rB, 0 or -1) + carry in.
type addOperands struct {
	notA     bool
	b        operandB
	carryIn  carryIn
	setCarry bool
}

func addExtended(ops addOperands) xoHandler {
	return func(c *Context, f insts.XOFields) int64 {
		var x ir.Operand = c.GPR(f.RA)
		if ops.notA {
			nx := c.tempInt()
			c.cur.Unary(ir.OpNot, nx, x)
			x = nx
		}

		var y ir.Operand
		switch ops.b {
		case operandZero:
			y = ir.IntConst(0)
		case operandMinusOne:
			y = ir.IntConst(-1)
		default:
			y = c.GPR(f.RB)
		}

		r := c.tempInt()
		c.cur.Binary(ir.OpAdd, r, x, y)

		var ca *ir.Reg
		switch ops.carryIn {
		case carryOne:
			c.cur.Binary(ir.OpAdd, r, r, ir.IntConst(1))
		case carryXER:
			ca = c.tempInt()
			c.cur.Unary(ir.OpBoolToInt, ca, c.XERCA())
			c.cur.Binary(ir.OpAdd, r, r, ca)
		}

		if ops.setCarry {
			c.setAddCarry(r, x, ops.carryIn, ca)
		}
		if f.OE != 0 {
			c.setOverflow(c.addOverflow(x, y, r))
		}

		c.cur.Move(c.GPR(f.RT), r)
		if f.Rc != 0 {
			c.setCR0(c.GPR(f.RT))
		}
		return c.nextPC()
	}
}

// setAddCarry sets XER[CA] for r = x + y + carry in. Without a carry in
// the sum carried out when it is below x, with one when it is at most x.
func (c *Context) setAddCarry(r *ir.Reg, x ir.Operand, in carryIn, ca *ir.Reg) {
	switch in {
	case carryNone:
		c.cur.BoolCmp(c.XERCA(), r, x, ir.CondLTU)
	case carryOne:
		c.cur.BoolCmp(c.XERCA(), r, x, ir.CondLEU)
	case carryXER:
		lt, le := c.tempBool(), c.tempBool()
		c.cur.BoolCmp(lt, r, x, ir.CondLTU)
		c.cur.BoolCmp(le, r, x, ir.CondLEU)
		c.cur.CondMove(c.XERCA(), ca, ir.IntConst(0), ir.CondNE, le, lt)
	}
}

func translateMULLW(c *Context, f insts.XOFields) int64 {
	ra, rb := c.GPR(f.RA), c.GPR(f.RB)
	r := c.tempInt()
	c.cur.Binary(ir.OpMul, r, ra, rb)

	if f.OE != 0 {
		hi, sign := c.tempInt(), c.tempInt()
		c.cur.Binary(ir.OpMulHigh, hi, ra, rb)
		c.cur.Binary(ir.OpShr, sign, r, ir.IntConst(31))
		ov := c.tempBool()
		c.cur.BoolCmp(ov, hi, sign, ir.CondNE)
		c.setOverflow(ov)
	}

	c.cur.Move(c.GPR(f.RT), r)
	if f.Rc != 0 {
		c.setCR0(c.GPR(f.RT))
	}
	return c.nextPC()
}

func mulHigh(op ir.Opcode) xoHandler {
	return func(c *Context, f insts.XOFields) int64 {
		c.cur.Binary(op, c.GPR(f.RT), c.GPR(f.RA), c.GPR(f.RB))
		if f.Rc != 0 {
			c.setCR0(c.GPR(f.RT))
		}
		return c.nextPC()
	}
}

// divw leaves 0 in rT for the undefined cases of division by zero and
// MinInt32 / -1, which set OV in the overflow-enabled form.
func translateDIVW(c *Context, f insts.XOFields) int64 {
	ra, rb := c.GPR(f.RA), c.GPR(f.RB)
	r := c.tempInt()
	c.cur.Binary(ir.OpDiv, r, ra, rb)

	if f.OE != 0 {
		ov, minA, minusOneB := c.tempBool(), c.tempBool(), c.tempBool()
		c.cur.BoolCmp(ov, rb, ir.IntConst(0), ir.CondEQ)
		c.cur.BoolCmp(minA, ra, ir.IntConst(math.MinInt32), ir.CondEQ)
		c.cur.BoolCmp(minusOneB, rb, ir.IntConst(-1), ir.CondEQ)
		c.cur.Binary(ir.OpAnd, minA, minA, minusOneB)
		c.cur.Binary(ir.OpOr, ov, ov, minA)
		c.setOverflow(ov)
	}

	c.cur.Move(c.GPR(f.RT), r)
	if f.Rc != 0 {
		c.setCR0(c.GPR(f.RT))
	}
	return c.nextPC()
}

func translateDIVWU(c *Context, f insts.XOFields) int64 {
	ra, rb := c.GPR(f.RA), c.GPR(f.RB)
	r := c.tempInt()
	c.cur.Binary(ir.OpDivU, r, ra, rb)

	if f.OE != 0 {
		ov := c.tempBool()
		c.cur.BoolCmp(ov, rb, ir.IntConst(0), ir.CondEQ)
		c.setOverflow(ov)
	}

	c.cur.Move(c.GPR(f.RT), r)
	if f.Rc != 0 {
		c.setCR0(c.GPR(f.RT))
	}
	return c.nextPC()
}
