package translator

import (
	"fmt"

	"github.com/sarchlab/ppcdbt/ir"
)

type slotState uint8

const (
	slotUnfilled slotState = iota
	slotFilled
	slotUsed
)

func (s slotState) String() string {
	switch s {
	case slotFilled:
		return "filled"
	case slotUsed:
		return "used"
	}
	return "unfilled"
}

// regGroups partitions the mapped fields into the units whose use is
// tracked: one per GPR, FPR, CTR, LR and FPSCR, one per condition register
// field and one for the whole XER.
type regGroups struct {
	of     [numMappedFields]int
	fields [][]ir.Field
}

var groups = buildRegGroups()

func buildRegGroups() *regGroups {
	g := &regGroups{}
	add := func(fields ...ir.Field) {
		for _, f := range fields {
			g.of[f] = len(g.fields)
		}
		g.fields = append(g.fields, fields)
	}

	for r := uint32(0); r < 32; r++ {
		add(FieldGPR(r))
	}
	for r := uint32(0); r < 32; r++ {
		add(FieldFPR(r))
	}
	for crf := uint32(0); crf < 8; crf++ {
		add(FieldCRLt(crf), FieldCRGt(crf), FieldCREq(crf), FieldCRSO(crf))
	}
	add(FieldXERSO, FieldXEROV, FieldXERCA, FieldXERByteCount)
	add(FieldCTR)
	add(FieldLR)
	add(FieldFPSCR)

	return g
}

// regMap maps guest registers onto the virtual registers of one trace. A
// register is unfilled until the first FillAllRegisters, filled once its
// virtual register holds the guest value, and used once any decoder has
// asked for it.
type regMap struct {
	fn    *ir.Function
	regs  [numMappedFields]*ir.Reg
	state []slotState
}

func newRegMap(fn *ir.Function) regMap {
	return regMap{fn: fn, state: make([]slotState, len(groups.fields))}
}

func (m *regMap) fill(b *ir.Block) {
	for f := 0; f < numMappedFields; f++ {
		field := ir.Field(f)
		if m.regs[f] == nil {
			m.regs[f] = m.fn.NewReg(FieldType(field), FieldName(field))
		}
		b.GetField(m.regs[f], field)
	}
	for g := range m.state {
		if m.state[g] == slotUnfilled {
			m.state[g] = slotFilled
		}
	}
}

func (m *regMap) spill(b *ir.Block) {
	for f := 0; f < numMappedFields; f++ {
		if m.regs[f] != nil {
			b.PutField(ir.Field(f), m.regs[f])
		}
	}
}

func (m *regMap) get(f ir.Field) *ir.Reg {
	r := m.regs[f]
	if r == nil {
		panic(fmt.Sprintf("translator: %s used before the register fill", FieldName(f)))
	}
	m.state[groups.of[f]] = slotUsed
	return r
}

func (m *regMap) peek(f ir.Field) *ir.Reg {
	if int(f) >= numMappedFields {
		return nil
	}
	return m.regs[f]
}

func (m *regMap) inUse(f ir.Field) bool {
	return int(f) < numMappedFields && m.state[groups.of[f]] == slotUsed
}

func (m *regMap) unused() []*ir.Reg {
	var out []*ir.Reg
	for g, fields := range groups.fields {
		if m.state[g] != slotFilled {
			continue
		}
		for _, f := range fields {
			out = append(out, m.regs[f])
		}
	}
	return out
}

// dump returns the per-register state for diagnostics.
func (m *regMap) dump() map[string]string {
	out := make(map[string]string, numMappedFields)
	for f := 0; f < numMappedFields; f++ {
		out[FieldName(ir.Field(f))] = m.state[groups.of[f]].String()
	}
	return out
}
