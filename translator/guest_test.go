package translator_test

import (
	"encoding/binary"
	"math"

	. "github.com/onsi/gomega"

	"github.com/sarchlab/ppcdbt/config"
	"github.com/sarchlab/ppcdbt/ir"
	"github.com/sarchlab/ppcdbt/translator"
)

const codeBase = 0x1000

// guest is a flat address space plus a state slot array. It serves both
// as the translator's process space and as the environment traces run
// against.
type guest struct {
	mem      map[uint32]uint8
	order    binary.ByteOrder
	fields   map[ir.Field]uint64
	syscalls int
	recorded [][2]uint32
	traps    []uint32

	onSyscall func(g *guest)
}

func newGuest() *guest {
	return &guest{
		mem:    map[uint32]uint8{},
		order:  binary.BigEndian,
		fields: map[ir.Field]uint64{},
	}
}

func newLittleEndianGuest() *guest {
	g := newGuest()
	g.order = binary.LittleEndian
	return g
}

func (g *guest) bytes(a uint32, n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = g.mem[a+uint32(i)]
	}
	return buf
}

func (g *guest) put(a uint32, buf []byte) {
	for i, b := range buf {
		g.mem[a+uint32(i)] = b
	}
}

func (g *guest) Read8(a uint32) uint8   { return g.mem[a] }
func (g *guest) Read16(a uint32) uint16 { return g.order.Uint16(g.bytes(a, 2)) }
func (g *guest) Read32(a uint32) uint32 { return g.order.Uint32(g.bytes(a, 4)) }
func (g *guest) Read64(a uint32) uint64 { return g.order.Uint64(g.bytes(a, 8)) }

func (g *guest) Write8(a uint32, v uint8) { g.mem[a] = v }
func (g *guest) Write16(a uint32, v uint16) {
	buf := make([]byte, 2)
	g.order.PutUint16(buf, v)
	g.put(a, buf)
}
func (g *guest) Write32(a uint32, v uint32) {
	buf := make([]byte, 4)
	g.order.PutUint32(buf, v)
	g.put(a, buf)
}
func (g *guest) Write64(a uint32, v uint64) {
	buf := make([]byte, 8)
	g.order.PutUint64(buf, v)
	g.put(a, buf)
}

func (g *guest) Field(f ir.Field) uint64       { return g.fields[f] }
func (g *guest) SetField(f ir.Field, v uint64) { g.fields[f] = v }

func (g *guest) Syscall() error {
	g.syscalls++
	if g.onSyscall != nil {
		g.onSyscall(g)
	}
	return nil
}

func (g *guest) RecordBranch(pc, target uint32) {
	g.recorded = append(g.recorded, [2]uint32{pc, target})
}

func (g *guest) Trap(pc, word uint32) error {
	g.traps = append(g.traps, pc)
	return nil
}

func (g *guest) code(pc uint32, words ...uint32) {
	for i, w := range words {
		g.Write32(pc+uint32(4*i), w)
	}
}

func (g *guest) gpr(r uint32) uint32 { return uint32(g.fields[translator.FieldGPR(r)]) }

func (g *guest) setGPR(r, v uint32) { g.fields[translator.FieldGPR(r)] = uint64(v) }

func (g *guest) fpr(r uint32) float64 {
	return math.Float64frombits(g.fields[translator.FieldFPR(r)])
}

func (g *guest) setFPR(r uint32, v float64) {
	g.fields[translator.FieldFPR(r)] = math.Float64bits(v)
}

func (g *guest) flag(f ir.Field) bool { return g.fields[f] != 0 }

func (g *guest) setFlag(f ir.Field, v bool) {
	g.fields[f] = 0
	if v {
		g.fields[f] = 1
	}
}

// crField returns lt, gt, eq and so of a condition field.
func (g *guest) crField(crf uint32) [4]bool {
	return [4]bool{
		g.flag(translator.FieldCRLt(crf)),
		g.flag(translator.FieldCRGt(crf)),
		g.flag(translator.FieldCREq(crf)),
		g.flag(translator.FieldCRSO(crf)),
	}
}

// run translates and executes the trace at pc, returning the next PC.
func (g *guest) run(tr *translator.Translator, pc uint32) (uint32, error) {
	trace, err := tr.Translate(pc)
	if err != nil {
		return 0, err
	}
	return ir.Execute(trace.Func, g, 100000)
}

// step runs words one instruction per trace until execution leaves them.
func (g *guest) step(words ...uint32) {
	g.code(codeBase, words...)
	opts := singleStep()
	if g.order == binary.LittleEndian {
		opts.TargetEndianness = config.LittleEndian
	}
	tr := translator.New(g, opts)

	end := uint32(codeBase + 4*len(words))
	pc := uint32(codeBase)
	for n := 0; pc >= codeBase && pc < end; n++ {
		ExpectWithOffset(1, n).To(BeNumerically("<", 1000), "runaway guest")
		next, err := g.run(tr, pc)
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
		pc = next
	}
}

func singleStep() *config.Options {
	opts := config.DefaultOptions()
	opts.SingleInstrTranslation = true
	return opts
}

// branchProfile is a BranchInfo with fixed indirect targets.
type branchProfile struct {
	targets map[uint32][]uint32
	calls   [][3]uint32
	returns [][2]uint32
}

func newBranchProfile() *branchProfile {
	return &branchProfile{targets: map[uint32][]uint32{}}
}

func (b *branchProfile) RegisterCallSite(pc, ret, dest uint32) {
	b.calls = append(b.calls, [3]uint32{pc, ret, dest})
}

func (b *branchProfile) RegisterReturnSite(pc, dest uint32) {
	b.returns = append(b.returns, [2]uint32{pc, dest})
}

func (b *branchProfile) KnownTargets(pc uint32) []uint32 { return b.targets[pc] }

// traceCache reports fixed trace lengths.
type traceCache map[uint32]int

func (c traceCache) TraceLength(pc uint32) (int, bool) {
	n, ok := c[pc]
	return n, ok
}

// countOps counts the instructions of fn with the given opcode.
func countOps(fn *ir.Function, op ir.Opcode) int {
	n := 0
	for _, b := range fn.Blocks {
		for _, inst := range b.Insts {
			if inst.Op == op {
				n++
			}
		}
	}
	return n
}
