package translator

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"

	"github.com/sarchlab/ppcdbt/insts"
	"github.com/sarchlab/ppcdbt/ir"
)

// BranchKind classifies a control transfer for trace formation.
type BranchKind uint8

// Branch kinds.
const (
	BranchDirect BranchKind = iota
	BranchIndirect
	BranchCall
	BranchReturn
)

func (k BranchKind) String() string {
	switch k {
	case BranchDirect:
		return "direct"
	case BranchIndirect:
		return "indirect"
	case BranchCall:
		return "call"
	case BranchReturn:
		return "return"
	}
	return "unknown"
}

type unresolvedBranch struct {
	block  *ir.Block
	inst   *ir.Inst
	lazy   Laziness
	pc     uint32
	target uint32
	kind   BranchKind
}

// Context is the state of one trace under translation. It is confined to
// a single goroutine.
type Context struct {
	t       *Translator
	fn      *ir.Function
	regs    regMap
	startPC uint32

	// The instruction being translated.
	pc   uint32
	inst *insts.Instruction
	lazy Laziness

	preFill *ir.Block
	finish  *ir.Block
	cur     *ir.Block
	next    *ir.Block
	result  *ir.Reg

	blockMap        map[Key]*ir.Block
	direct          []unresolvedBranch
	dynamic         []unresolvedBranch
	numInstructions int
}

// NewContext starts a trace at startPC. The register fill is emitted into
// the trace's first block, so decoders may use any register right away.
func NewContext(t *Translator, startPC uint32) *Context {
	fn := ir.NewFunction(fmt.Sprintf("trace_%08x", startPC))
	c := &Context{
		t:        t,
		fn:       fn,
		startPC:  startPC,
		pc:       startPC,
		blockMap: make(map[Key]*ir.Block),
	}

	c.preFill = fn.NewBlock()
	c.finish = fn.NewBlock()
	c.cur = fn.InsertBlockAfter(c.preFill)
	c.next = c.cur
	c.result = fn.NewReg(ir.TypeInt, "next_pc")

	c.regs = newRegMap(fn)
	c.FillAllRegisters(c.preFill)

	return c
}

// Function returns the IR function being built.
func (c *Context) Function() *ir.Function { return c.fn }

// CurrentBlock returns the block instructions are appended to.
func (c *Context) CurrentBlock() *ir.Block { return c.cur }

// NextBlock returns the block that will hold the next guest instruction.
func (c *Context) NextBlock() *ir.Block { return c.next }

// StartPC returns the guest address the trace starts at.
func (c *Context) StartPC() uint32 { return c.startPC }

// NumInstructions returns the number of guest instructions translated so
// far.
func (c *Context) NumInstructions() int { return c.numInstructions }

// FillAllRegisters loads every mapped guest register into its virtual
// register at b.
func (c *Context) FillAllRegisters(b *ir.Block) { c.regs.fill(b) }

// SpillAllRegisters stores every mapped virtual register back to the guest
// state at b.
func (c *Context) SpillAllRegisters(b *ir.Block) { c.regs.spill(b) }

// UnusedRegisters returns the virtual registers no decoder asked for.
func (c *Context) UnusedRegisters() []*ir.Reg { return c.regs.unused() }

// Register returns the virtual register mapped to a state slot without
// marking it used, or nil.
func (c *Context) Register(f ir.Field) *ir.Reg { return c.regs.peek(f) }

// InUse reports whether any decoder has used the register of a slot.
func (c *Context) InUse(f ir.Field) bool { return c.regs.inUse(f) }

// GPR returns general purpose register r.
func (c *Context) GPR(r uint32) *ir.Reg { return c.regs.get(FieldGPR(r)) }

// FPR returns floating point register r.
func (c *Context) FPR(r uint32) *ir.Reg { return c.regs.get(FieldFPR(r)) }

// CRLt returns the lt bit of condition field crf.
func (c *Context) CRLt(crf uint32) *ir.Reg { return c.regs.get(FieldCRLt(crf)) }

// CRGt returns the gt bit of condition field crf.
func (c *Context) CRGt(crf uint32) *ir.Reg { return c.regs.get(FieldCRGt(crf)) }

// CREq returns the eq bit of condition field crf.
func (c *Context) CREq(crf uint32) *ir.Reg { return c.regs.get(FieldCREq(crf)) }

// CRSO returns the so bit of condition field crf.
func (c *Context) CRSO(crf uint32) *ir.Reg { return c.regs.get(FieldCRSO(crf)) }

// CRBit returns condition register bit crb, selecting lt, gt, eq or so of
// field crb>>2 by crb&3.
func (c *Context) CRBit(crb uint32) *ir.Reg { return c.regs.get(FieldCRB(crb)) }

// CTR returns the count register.
func (c *Context) CTR() *ir.Reg { return c.regs.get(FieldCTR) }

// LR returns the link register.
func (c *Context) LR() *ir.Reg { return c.regs.get(FieldLR) }

// FPSCR returns the floating point status and control register.
func (c *Context) FPSCR() *ir.Reg { return c.regs.get(FieldFPSCR) }

// XERSO returns the summary overflow bit.
func (c *Context) XERSO() *ir.Reg { return c.regs.get(FieldXERSO) }

// XEROV returns the overflow bit.
func (c *Context) XEROV() *ir.Reg { return c.regs.get(FieldXEROV) }

// XERCA returns the carry bit.
func (c *Context) XERCA() *ir.Reg { return c.regs.get(FieldXERCA) }

// XERByteCount returns the string instruction byte count.
func (c *Context) XERByteCount() *ir.Reg { return c.regs.get(FieldXERByteCount) }

func (c *Context) tempInt() *ir.Reg    { return c.fn.NewTemp(ir.TypeInt) }
func (c *Context) tempLong() *ir.Reg   { return c.fn.NewTemp(ir.TypeLong) }
func (c *Context) tempBool() *ir.Reg   { return c.fn.NewTemp(ir.TypeBool) }
func (c *Context) tempFloat() *ir.Reg  { return c.fn.NewTemp(ir.TypeFloat) }
func (c *Context) tempDouble() *ir.Reg { return c.fn.NewTemp(ir.TypeDouble) }

// internalError aborts the translation of the current instruction.
func (c *Context) internalError(format string, args ...any) {
	panic(newInternalError(c.pc, c.inst, format, args...))
}

// Dump renders the register map state for diagnostics.
func (c *Context) Dump() string {
	return spew.Sdump(struct {
		StartPC         uint32
		NumInstructions int
		Registers       map[string]string
		Mapped          []Key
	}{c.startPC, c.numInstructions, c.regs.dump(), c.mappedKeys()})
}

func (c *Context) mappedKeys() []Key {
	keys := make([]Key, 0, len(c.blockMap))
	for k := range c.blockMap {
		keys = append(keys, k)
	}
	return keys
}
