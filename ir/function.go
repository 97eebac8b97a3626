package ir

import "fmt"

// Block is a basic block. Blocks are owned by a Function and kept in code
// order; see Function.Next.
type Block struct {
	ID    int
	Label string
	Insts []*Inst
}

// Terminated reports whether the block ends with a terminator.
func (b *Block) Terminated() bool {
	if len(b.Insts) == 0 {
		return false
	}
	return b.Insts[len(b.Insts)-1].Op.IsTerminator()
}

// Append adds an instruction at the end of the block.
func (b *Block) Append(inst *Inst) *Inst {
	b.Insts = append(b.Insts, inst)
	return inst
}

// Len returns the number of instructions in the block.
func (b *Block) Len() int {
	return len(b.Insts)
}

// Move appends dst = src.
func (b *Block) Move(dst *Reg, src Operand) {
	b.Append(&Inst{Op: OpMove, Dst: dst, Args: []Operand{src}})
}

// Binary appends dst = x op y.
func (b *Block) Binary(op Opcode, dst *Reg, x, y Operand) {
	b.Append(&Inst{Op: op, Dst: dst, Args: []Operand{x, y}})
}

// Unary appends dst = op x.
func (b *Block) Unary(op Opcode, dst *Reg, x Operand) {
	b.Append(&Inst{Op: op, Dst: dst, Args: []Operand{x}})
}

// MulAdd appends dst = x*y + z.
func (b *Block) MulAdd(dst *Reg, x, y, z Operand) {
	b.Append(&Inst{Op: OpMulAdd, Dst: dst, Args: []Operand{x, y, z}})
}

// BoolCmp appends dst = x cond y.
func (b *Block) BoolCmp(dst *Reg, x, y Operand, cond Cond) {
	b.Append(&Inst{Op: OpBoolCmp, Dst: dst, Args: []Operand{x, y}, Cond: cond})
}

// CondMove appends dst = (x cond y) ? t : f.
func (b *Block) CondMove(dst *Reg, x, y Operand, cond Cond, t, f Operand) {
	b.Append(&Inst{Op: OpCondMove, Dst: dst, Args: []Operand{x, y, t, f}, Cond: cond})
}

// Load appends dst = mem[addr] using one of the load opcodes.
func (b *Block) Load(op Opcode, dst *Reg, addr Operand) {
	b.Append(&Inst{Op: op, Dst: dst, Args: []Operand{addr}})
}

// Store appends mem[addr] = v using one of the store opcodes.
func (b *Block) Store(op Opcode, addr, v Operand) {
	b.Append(&Inst{Op: op, Args: []Operand{addr, v}})
}

// GetField appends dst = state[f].
func (b *Block) GetField(dst *Reg, f Field) {
	b.Append(&Inst{Op: OpGetField, Dst: dst, Field: f})
}

// PutField appends state[f] = v.
func (b *Block) PutField(f Field, v Operand) {
	b.Append(&Inst{Op: OpPutField, Field: f, Args: []Operand{v}})
}

// Goto appends an unconditional jump.
func (b *Block) Goto(target *Block) *Inst {
	return b.Append(&Inst{Op: OpGoto, Target: target})
}

// IfCmp appends a conditional jump. Execution continues with the next
// instruction when the condition does not hold.
func (b *Block) IfCmp(x, y Operand, cond Cond, target *Block) *Inst {
	return b.Append(&Inst{Op: OpIfCmp, Args: []Operand{x, y}, Cond: cond, Target: target})
}

// LookupSwitch appends a multi-way jump on v.
func (b *Block) LookupSwitch(v Operand, cases []SwitchCase, def *Block) *Inst {
	return b.Append(&Inst{Op: OpLookupSwitch, Args: []Operand{v}, Cases: cases, Default: def})
}

// Return appends a function exit yielding v.
func (b *Block) Return(v Operand) {
	b.Append(&Inst{Op: OpReturn, Args: []Operand{v}})
}

// Syscall appends a system call callout.
func (b *Block) Syscall() {
	b.Append(&Inst{Op: OpSyscall})
}

// RecordBranch appends a callout reporting that the branch at pc went to
// target.
func (b *Block) RecordBranch(pc uint32, target Operand) {
	b.Append(&Inst{Op: OpRecordBranch, PC: pc, Args: []Operand{target}})
}

// Trap appends a guest fault for the instruction word at pc.
func (b *Block) Trap(pc, word uint32) {
	b.Append(&Inst{Op: OpTrap, PC: pc, Word: word})
}

// Function is a unit of translated code.
type Function struct {
	Name   string
	Blocks []*Block

	regs      []*Reg
	nextBlock int
}

// NewFunction creates an empty function.
func NewFunction(name string) *Function {
	return &Function{Name: name}
}

// NewReg creates a named virtual register.
func (f *Function) NewReg(t Type, name string) *Reg {
	r := &Reg{ID: len(f.regs), Type: t, Name: name}
	f.regs = append(f.regs, r)
	return r
}

// NewTemp creates an anonymous virtual register.
func (f *Function) NewTemp(t Type) *Reg {
	return f.NewReg(t, "")
}

// Regs returns every register created in the function.
func (f *Function) Regs() []*Reg {
	return f.regs
}

// NumRegs returns the number of registers created in the function.
func (f *Function) NumRegs() int {
	return len(f.regs)
}

func (f *Function) newBlock() *Block {
	b := &Block{ID: f.nextBlock, Label: fmt.Sprintf("B%d", f.nextBlock)}
	f.nextBlock++
	return b
}

// NewBlock appends a new empty block at the end of the function.
func (f *Function) NewBlock() *Block {
	b := f.newBlock()
	f.Blocks = append(f.Blocks, b)
	return b
}

// InsertBlockAfter creates a new empty block placed directly after prev in
// code order.
func (f *Function) InsertBlockAfter(prev *Block) *Block {
	b := f.newBlock()
	idx := f.indexOf(prev)
	if idx < 0 {
		panic(fmt.Sprintf("ir: block %s is not part of %s", prev.Label, f.Name))
	}
	f.Blocks = append(f.Blocks, nil)
	copy(f.Blocks[idx+2:], f.Blocks[idx+1:])
	f.Blocks[idx+1] = b
	return b
}

// Next returns the block following b in code order, or nil.
func (f *Function) Next(b *Block) *Block {
	idx := f.indexOf(b)
	if idx < 0 || idx+1 >= len(f.Blocks) {
		return nil
	}
	return f.Blocks[idx+1]
}

func (f *Function) indexOf(b *Block) int {
	for i, blk := range f.Blocks {
		if blk == b {
			return i
		}
	}
	return -1
}

// NumInsts returns the number of instructions in all blocks.
func (f *Function) NumInsts() int {
	n := 0
	for _, b := range f.Blocks {
		n += len(b.Insts)
	}
	return n
}

// RemoveRegisterUses deletes every state-slot read into, or write from,
// one of the given registers. It is used to drop fills and spills of
// registers a trace never touched.
func (f *Function) RemoveRegisterUses(regs []*Reg) int {
	if len(regs) == 0 {
		return 0
	}

	dead := make(map[*Reg]bool, len(regs))
	for _, r := range regs {
		dead[r] = true
	}

	removed := 0
	for _, b := range f.Blocks {
		kept := b.Insts[:0]
		for _, inst := range b.Insts {
			if isDeadStateAccess(inst, dead) {
				removed++
				continue
			}
			kept = append(kept, inst)
		}
		for i := len(kept); i < len(b.Insts); i++ {
			b.Insts[i] = nil
		}
		b.Insts = kept
	}

	return removed
}

func isDeadStateAccess(inst *Inst, dead map[*Reg]bool) bool {
	switch inst.Op {
	case OpGetField:
		return dead[inst.Dst]
	case OpPutField:
		r, ok := inst.Args[0].(*Reg)
		return ok && dead[r]
	}
	return false
}
